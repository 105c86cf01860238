package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
)

type fakeReader struct {
	admin    bool
	status   models.ApprovalStatus
	staged   bool
	adminErr error
	flagErr  error
	setupErr error
}

func (f *fakeReader) IsAdmin(context.Context, uuid.UUID) (bool, error) { return f.admin, f.adminErr }
func (f *fakeReader) ApprovalStatus(context.Context, uuid.UUID) (models.ApprovalStatus, error) {
	return f.status, f.flagErr
}
func (f *fakeReader) HasStagedProfile(context.Context, uuid.UUID) (bool, error) {
	return f.staged, f.setupErr
}

func TestResolve(t *testing.T) {
	id := uuid.New()
	boom := errors.New("connection reset")

	tests := []struct {
		name   string
		reader *fakeReader
		want   models.AccessStatus
	}{
		{
			name:   "approved admin with setup",
			reader: &fakeReader{admin: true, status: models.StatusApproved, staged: true},
			want:   models.AccessStatus{IsAdmin: true, ApprovalStatus: models.StatusApproved, HasProfileSetup: true},
		},
		{
			name:   "rejected member",
			reader: &fakeReader{status: models.StatusRejected, staged: true},
			want:   models.AccessStatus{ApprovalStatus: models.StatusRejected, HasProfileSetup: true},
		},
		{
			name:   "read errors fall back to safe defaults",
			reader: &fakeReader{admin: true, status: models.StatusApproved, staged: true, adminErr: boom, flagErr: boom, setupErr: boom},
			want:   models.AccessStatus{ApprovalStatus: models.StatusPending},
		},
		{
			name:   "unknown stored status reads as pending",
			reader: &fakeReader{status: "archived"},
			want:   models.AccessStatus{ApprovalStatus: models.StatusPending},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewAuthorizationService(tt.reader)
			assert.Equal(t, tt.want, svc.Resolve(context.Background(), id))
		})
	}
}

func TestValidateApproved(t *testing.T) {
	svc := NewAuthorizationService(&fakeReader{})

	assert.NoError(t, svc.ValidateApproved(models.AccessStatus{ApprovalStatus: models.StatusApproved}))
	assert.NoError(t, svc.ValidateApproved(models.AccessStatus{IsAdmin: true, ApprovalStatus: models.StatusPending}))

	err := svc.ValidateApproved(models.AccessStatus{ApprovalStatus: models.StatusRejected})
	assert.ErrorIs(t, err, apperrors.ErrNotApproved)
	ce, ok := apperrors.AsCustom(err)
	require.True(t, ok)
	assert.Equal(t, PendingPath, ce.Details["redirect"])
	assert.Equal(t, models.StatusRejected, ce.Details["status"])
}

func TestValidateAdmin(t *testing.T) {
	svc := NewAuthorizationService(&fakeReader{})

	assert.NoError(t, svc.ValidateAdmin(models.AccessStatus{IsAdmin: true}))
	assert.ErrorIs(t, svc.ValidateAdmin(models.AccessStatus{ApprovalStatus: models.StatusApproved}), apperrors.ErrPermissionDenied)
}
