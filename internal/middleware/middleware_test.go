package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appauth "github.com/yigit/alumnihub/internal/app/auth"
	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/app/models/dto"
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
	"github.com/yigit/alumnihub/internal/pkg/auth"
	"github.com/yigit/alumnihub/internal/pkg/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubStatus struct {
	admin  map[uuid.UUID]bool
	status map[uuid.UUID]models.ApprovalStatus
}

func (s stubStatus) IsAdmin(_ context.Context, id uuid.UUID) (bool, error) {
	return s.admin[id], nil
}

func (s stubStatus) ApprovalStatus(_ context.Context, id uuid.UUID) (models.ApprovalStatus, error) {
	if st, ok := s.status[id]; ok {
		return st, nil
	}
	return models.StatusPending, nil
}

func (s stubStatus) HasStagedProfile(context.Context, uuid.UUID) (bool, error) {
	return true, nil
}

type fixture struct {
	mw       *AuthMiddleware
	jwt      *auth.JWTService
	sessions *session.Manager
	status   stubStatus
}

func newFixture() *fixture {
	f := &fixture{
		jwt: auth.NewJWTService(auth.JWTConfig{
			SecretKey:       "test-secret",
			AccessTokenExp:  time.Hour,
			RefreshTokenExp: time.Hour,
			TokenIssuer:     "test",
		}),
		sessions: session.NewManager(session.NewCookieStore("0123456789abcdef0123456789abcdef", 3600, false), "test-session"),
		status:   stubStatus{admin: map[uuid.UUID]bool{}, status: map[uuid.UUID]models.ApprovalStatus{}},
	}
	f.mw = NewAuthMiddleware(f.jwt, f.sessions, appauth.NewAuthorizationService(f.status))
	return f
}

func (f *fixture) bearer(t *testing.T, id uuid.UUID) string {
	pair, err := f.jwt.GenerateTokenPair(id, "grad@example.org")
	require.NoError(t, err)
	return "Bearer " + pair.AccessToken
}

func (f *fixture) cookie(t *testing.T, id uuid.UUID) *http.Cookie {
	rec := httptest.NewRecorder()
	require.NoError(t, f.sessions.SignIn(rec, httptest.NewRequest(http.MethodGet, "/", nil), id))
	return rec.Result().Cookies()[0]
}

func echoUser(c *gin.Context) {
	id, _ := CurrentUserID(c)
	c.String(http.StatusOK, id.String())
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) dto.ErrorResponse {
	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestJWTAuthAcceptsBearerOrSession(t *testing.T) {
	f := newFixture()
	r := gin.New()
	r.GET("/api/me", f.mw.JWTAuth(), echoUser)
	id := uuid.New()

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", f.bearer(t, id))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, id.String(), rec.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.AddCookie(f.cookie(t, id))
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, id.String(), rec.Body.String())
}

func TestJWTAuthRejectsMissingOrBadCredentials(t *testing.T) {
	f := newFixture()
	r := gin.New()
	r.GET("/api/me", f.mw.JWTAuth(), echoUser)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Bearer not.a.jwt")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, dto.ErrorCodeInvalidToken, decodeError(t, rec).Error.Code)
}

func TestApprovedRequired(t *testing.T) {
	f := newFixture()
	r := gin.New()
	r.GET("/api/directory", f.mw.JWTAuth(), f.mw.ApprovedRequired(), echoUser)

	pending, approved, admin := uuid.New(), uuid.New(), uuid.New()
	f.status.status[approved] = models.StatusApproved
	f.status.admin[admin] = true

	tests := []struct {
		name string
		id   uuid.UUID
		want int
	}{
		{"pending", pending, http.StatusForbidden},
		{"approved", approved, http.StatusOK},
		{"admin", admin, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/directory", nil)
			req.Header.Set("Authorization", f.bearer(t, tt.id))
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
			if tt.want == http.StatusForbidden {
				body := decodeError(t, rec)
				assert.Equal(t, dto.ErrorCodeNotApproved, body.Error.Code)
				details, ok := body.Error.Details.(map[string]interface{})
				require.True(t, ok)
				assert.Equal(t, PendingPath, details["redirect"])
			}
		})
	}
}

func TestAdminRequired(t *testing.T) {
	f := newFixture()
	r := gin.New()
	r.GET("/api/admin/stats", f.mw.JWTAuth(), f.mw.AdminRequired(), echoUser)
	approved, admin := uuid.New(), uuid.New()
	f.status.status[approved] = models.StatusApproved
	f.status.admin[admin] = true

	for id, want := range map[uuid.UUID]int{approved: http.StatusForbidden, admin: http.StatusOK} {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil)
		req.Header.Set("Authorization", f.bearer(t, id))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		assert.Equal(t, want, rec.Code)
		if want == http.StatusForbidden {
			body := decodeError(t, rec)
			assert.Equal(t, dto.ErrorCodeForbidden, body.Error.Code)
			assert.Equal(t, "Admin access required", body.Error.Message)
		}
	}
}

func TestPageGuardsRedirect(t *testing.T) {
	f := newFixture()
	r := gin.New()
	r.GET("/alumni", f.mw.RequireSession(), f.mw.RequireApprovedPage(), echoUser)
	r.GET("/admin/dashboard", f.mw.RequireSession(), f.mw.RequireAdminPage(), echoUser)
	pending := uuid.New()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/alumni?year=2010", nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login?next=%2Falumni%3Fyear%3D2010", rec.Header().Get("Location"))

	req := httptest.NewRequest(http.MethodGet, "/alumni", nil)
	req.AddCookie(f.cookie(t, pending))
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, PendingPath, rec.Header().Get("Location"))

	req = httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	req.AddCookie(f.cookie(t, pending))
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestErrorDetailFor(t *testing.T) {
	tests := []struct {
		err     error
		status  int
		message string
	}{
		{apperrors.ErrEventFull, http.StatusBadRequest, "Event is full"},
		{apperrors.ErrAlreadyRegistered, http.StatusBadRequest, "Already registered for this event"},
		{apperrors.ErrInviteNotFound, http.StatusNotFound, "Invalid code"},
		{apperrors.ErrMissingInviteCode, http.StatusBadRequest, "Missing invite code"},
		{apperrors.ErrInvalidTransition, http.StatusConflict, "Invalid approval status transition"},
		{apperrors.ErrInviteAlreadyRedeemed, http.StatusConflict, "Invite already redeemed"},
		{fmt.Errorf("wrapped: %w", apperrors.ErrEventNotFound), http.StatusNotFound, "Event not found"},
		{&apperrors.CustomError{Err: apperrors.ErrRowsRequired, Message: "rows required"}, http.StatusBadRequest, "rows required"},
		{apperrors.NewConflictError("An alumnus with this email has already been imported"), http.StatusConflict, "An alumnus with this email has already been imported"},
		{errors.New("boom"), http.StatusInternalServerError, "Internal server error"},
	}
	for _, tt := range tests {
		status, detail := ErrorDetailFor(tt.err)
		assert.Equal(t, tt.status, status, tt.err.Error())
		assert.Equal(t, tt.message, detail.Message, tt.err.Error())
	}
}

func TestErrorDetailForCarriesField(t *testing.T) {
	status, detail := ErrorDetailFor(apperrors.NewValidationError("gradYear", "Graduation year must be between 1900 and 2100"))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "gradYear", detail.Field)
	assert.Equal(t, dto.ErrorCodeValidationFailed, detail.Code)
}

func TestHandleAPIErrorWritesEnvelope(t *testing.T) {
	r := gin.New()
	r.GET("/x", func(c *gin.Context) { HandleAPIError(c, apperrors.ErrEventFull) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeError(t, rec)
	assert.False(t, body.Success)
	assert.Equal(t, "Event is full", body.Error.Message)
}
