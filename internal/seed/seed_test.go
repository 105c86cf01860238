package seed

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yigit/alumnihub/internal/pkg/auth"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) EnsureAdmin(ctx context.Context, email, passwordHash, fullName string) (uuid.UUID, error) {
	args := m.Called(ctx, email, passwordHash, fullName)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func TestCreateDefaultDataHashesPassword(t *testing.T) {
	store := new(mockStore)
	id := uuid.New()
	store.On("EnsureAdmin", mock.Anything, "admin@example.org",
		mock.MatchedBy(func(hash string) bool { return auth.CheckPassword(hash, "Secret123") }),
		"Admin").Return(id, nil)

	err := CreateDefaultData(context.Background(), store, Admin{
		Email:    " Admin@Example.org ",
		Password: "Secret123",
		FullName: "Admin",
	}, zerolog.Nop())
	require.NoError(t, err)
	store.AssertExpectations(t)
}

func TestCreateDefaultDataSkipsWithoutCredentials(t *testing.T) {
	store := new(mockStore)
	err := CreateDefaultData(context.Background(), store, Admin{Email: "admin@example.org"}, zerolog.Nop())
	assert.NoError(t, err)
	store.AssertNotCalled(t, "EnsureAdmin", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
