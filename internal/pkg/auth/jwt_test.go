package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
)

func newTestJWT() *JWTService {
	return NewJWTService(JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  time.Hour,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "alumnihub-test",
	})
}

func TestGenerateAndValidateTokenPair(t *testing.T) {
	svc := newTestJWT()
	id := uuid.New()

	pair, err := svc.GenerateTokenPair(id, "grad@example.org")
	require.NoError(t, err)
	require.NotEmpty(t, pair.RefreshToken)
	require.Equal(t, int64(3600), pair.ExpiresIn)

	gotID, claims, err := svc.ValidateAndExtractClaims(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, id, gotID)
	require.Equal(t, "grad@example.org", claims.Email)
}

func TestExpiredTokenIsReported(t *testing.T) {
	svc := newTestJWT()
	issued := time.Now().Add(-2 * time.Hour)
	svc.now = func() time.Time { return issued }

	pair, err := svc.GenerateTokenPair(uuid.New(), "grad@example.org")
	require.NoError(t, err)

	svc.now = time.Now
	_, _, err = svc.ValidateAndExtractClaims(pair.AccessToken)
	require.ErrorIs(t, err, apperrors.ErrTokenExpired)
}

func TestTokenSignedWithOtherSecretIsInvalid(t *testing.T) {
	other := NewJWTService(JWTConfig{SecretKey: "other", AccessTokenExp: time.Hour})
	pair, err := other.GenerateTokenPair(uuid.New(), "grad@example.org")
	require.NoError(t, err)

	_, _, err = newTestJWT().ValidateAndExtractClaims(pair.AccessToken)
	require.ErrorIs(t, err, apperrors.ErrTokenInvalid)
}

func TestExtractBearerToken(t *testing.T) {
	tok, err := ExtractBearerToken("Bearer abc.def.ghi")
	require.NoError(t, err)
	require.Equal(t, "abc.def.ghi", tok)

	tok, err = ExtractBearerToken(`"abc.def.ghi"`)
	require.NoError(t, err)
	require.Equal(t, "abc.def.ghi", tok)

	_, err = ExtractBearerToken("Basic Zm9vOmJhcg==")
	require.ErrorIs(t, err, apperrors.ErrTokenInvalid)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	require.True(t, CheckPassword(hash, "s3cret-pass"))
	require.False(t, CheckPassword(hash, "wrong"))
	require.False(t, CheckPassword("", "anything"))
}

func TestGenerateOpaqueTokenIsUnique(t *testing.T) {
	a, err := GenerateOpaqueToken(32)
	require.NoError(t, err)
	b, err := GenerateOpaqueToken(32)
	require.NoError(t, err)
	require.NotEqual(t, a, b)
	require.Len(t, a, 43)
}
