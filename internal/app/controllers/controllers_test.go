package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/app/models/dto"
	"github.com/yigit/alumnihub/internal/app/services"
	"github.com/yigit/alumnihub/internal/middleware"
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
	"github.com/yigit/alumnihub/internal/pkg/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// withUser stands in for the auth middleware
func withUser(id uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		if id != uuid.Nil {
			c.Set(middleware.ContextUserID, id)
		}
		c.Next()
	}
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) *dto.ErrorDetail {
	t.Helper()
	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotNil(t, body.Error)
	return body.Error
}

type mockInvites struct {
	services.IInviteService
	mock.Mock
}

func (m *mockInvites) Redeem(ctx context.Context, code string, userID uuid.UUID) (*models.Invite, error) {
	args := m.Called(ctx, code, userID)
	invite, _ := args.Get(0).(*models.Invite)
	return invite, args.Error(1)
}

func TestClaimRedirects(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name      string
		url       string
		user      uuid.UUID
		redeemErr error
		redeems   bool
		status    int
		location  string
	}{
		{name: "missing code", url: "/invite/claim", status: http.StatusBadRequest},
		{name: "signed out keeps the code", url: "/invite/claim?code=abc", status: http.StatusSeeOther, location: "/login?code=abc"},
		{name: "signed in redeems", url: "/invite/claim?code=abc", user: userID, redeems: true, status: http.StatusSeeOther, location: SetupPath},
		{name: "unknown code", url: "/invite/claim?code=abc", user: userID, redeems: true, redeemErr: apperrors.ErrInviteNotFound, status: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			invites := new(mockInvites)
			if tt.redeems {
				invites.On("Redeem", mock.Anything, "abc", userID).Return(&models.Invite{}, tt.redeemErr)
			}
			ctrl := NewInviteController(invites, zerolog.Nop())

			router := gin.New()
			router.GET("/invite/claim", withUser(tt.user), ctrl.Claim)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.url, nil))

			assert.Equal(t, tt.status, w.Code)
			if tt.location != "" {
				assert.Equal(t, tt.location, w.Header().Get("Location"))
			}
			invites.AssertExpectations(t)
		})
	}

	t.Run("missing code message", func(t *testing.T) {
		router := gin.New()
		router.GET("/invite/claim", NewInviteController(new(mockInvites), zerolog.Nop()).Claim)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/invite/claim", nil))
		assert.Equal(t, "Missing invite code", decodeError(t, w).Message)
	})
}

type mockAuth struct {
	services.IAuthService
	mock.Mock
}

func (m *mockAuth) ConsumeMagicLink(ctx context.Context, token string) (uuid.UUID, string, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(uuid.UUID), args.String(1), args.Error(2)
}

func (m *mockAuth) RequestMagicLink(ctx context.Context, email, next string) error {
	return m.Called(ctx, email, next).Error(0)
}

func newSessions() *session.Manager {
	return session.NewManager(session.NewCookieStore("0123456789abcdef0123456789abcdef", 3600, false), "alumni-session")
}

func TestCallbackSignsInAndRedirects(t *testing.T) {
	userID := uuid.New()
	authSvc := new(mockAuth)
	authSvc.On("ConsumeMagicLink", mock.Anything, "tok").Return(userID, "/events", nil)
	sessions := newSessions()
	ctrl := NewAuthController(authSvc, nil, nil, sessions, zerolog.Nop())

	router := gin.New()
	router.GET("/auth/callback", ctrl.Callback)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auth/callback?token=tok", nil))

	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/events", w.Header().Get("Location"))

	// the cookie we were handed identifies the account
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range w.Result().Cookies() {
		req.AddCookie(c)
	}
	got, ok := sessions.UserID(req)
	require.True(t, ok)
	assert.Equal(t, userID, got)
}

func TestCallbackRejectsUsedToken(t *testing.T) {
	authSvc := new(mockAuth)
	authSvc.On("ConsumeMagicLink", mock.Anything, "used").Return(uuid.Nil, "", apperrors.ErrTokenNotFound)
	ctrl := NewAuthController(authSvc, nil, nil, newSessions(), zerolog.Nop())

	router := gin.New()
	router.GET("/auth/callback", ctrl.Callback)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auth/callback?token=used", nil))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login?error=invalid_link", w.Header().Get("Location"))
	assert.Empty(t, w.Result().Cookies())
}

func TestMagicLinkAlwaysSucceeds(t *testing.T) {
	authSvc := new(mockAuth)
	authSvc.On("RequestMagicLink", mock.Anything, "ghost@example.org", "").Return(errors.New("smtp down"))
	ctrl := NewAuthController(authSvc, nil, nil, newSessions(), zerolog.Nop())

	router := gin.New()
	router.POST("/api/auth/magic-link", ctrl.MagicLink)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/magic-link", strings.NewReader(`{"email":"ghost@example.org"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true}`, w.Body.String())
}

type fakeDirectory struct {
	services.IDirectoryService
	export    string
	exportErr error
}

func (f *fakeDirectory) Export(_ context.Context, w io.Writer) (int, error) {
	if f.exportErr != nil {
		return 0, f.exportErr
	}
	_, err := io.WriteString(w, f.export)
	return 1, err
}

func TestExportHeaders(t *testing.T) {
	ctrl := NewDirectoryController(&fakeDirectory{export: "Full Name\nAda\n"}, zerolog.Nop())
	ctrl.now = func() time.Time { return time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC) }

	router := gin.New()
	router.GET("/export", ctrl.Export)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/export", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="alumni_export_2024-05-01.csv"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	assert.Equal(t, "Full Name\nAda\n", w.Body.String())
}

func TestExportFailureBeforeWrite(t *testing.T) {
	ctrl := NewDirectoryController(&fakeDirectory{exportErr: errors.New("db gone")}, zerolog.Nop())

	router := gin.New()
	router.GET("/export", ctrl.Export)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/export", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

type fakeImports struct {
	services.IImportService
	filter models.ImportedFilter
	page   int
}

func (f *fakeImports) ListImported(_ context.Context, filter models.ImportedFilter, page int) ([]models.ImportedAlumni, *dto.PaginationInfo, error) {
	f.filter, f.page = filter, page
	return []models.ImportedAlumni{}, &dto.PaginationInfo{CurrentPage: page, PageSize: 50}, nil
}

func TestListImportedFilters(t *testing.T) {
	batchID := uuid.New()
	imports := &fakeImports{}
	router := gin.New()
	router.GET("/import/alumni", NewImportController(imports, zerolog.Nop()).ListImported)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/import/alumni?batch="+batchID.String()+"&status=sent&q=+ada+&page=3", nil))

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, imports.filter.BatchID)
	assert.Equal(t, batchID, *imports.filter.BatchID)
	assert.Equal(t, models.ImportInviteSent, imports.filter.InviteStatus)
	assert.Equal(t, "ada", imports.filter.Query)
	assert.Equal(t, 3, imports.page)

	for _, bad := range []string{"status=lost", "batch=nope"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/import/alumni?"+bad, nil))
		assert.Equal(t, http.StatusBadRequest, w.Code, bad)
	}
}

type fakeEvents struct {
	services.IEventService
	err error
}

func (f *fakeEvents) Register(_ context.Context, userID uuid.UUID, rawEventID string) (*models.EventAttendee, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.EventAttendee{EventID: uuid.MustParse(rawEventID), UserID: userID, Status: "registered"}, nil
}

func TestRegisterEvent(t *testing.T) {
	userID := uuid.New()
	eventID := uuid.New()

	t.Run("created", func(t *testing.T) {
		router := gin.New()
		router.POST("/events/register", withUser(userID), NewEventController(&fakeEvents{}, zerolog.Nop()).Register)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/events/register", strings.NewReader(`{"event_id":"`+eventID.String()+`"}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusCreated, w.Code)
		var body dto.AttendeeResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, eventID, body.Attendee.EventID)
		assert.Equal(t, userID, body.Attendee.UserID)
	})

	t.Run("full", func(t *testing.T) {
		router := gin.New()
		router.POST("/events/register", withUser(userID), NewEventController(&fakeEvents{err: apperrors.ErrEventFull}, zerolog.Nop()).Register)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/events/register", strings.NewReader(`{"event_id":"`+eventID.String()+`"}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Event is full", decodeError(t, w).Message)
	})
}

type fakeNotifications struct {
	services.INotificationService
	limit      int
	unreadOnly bool
}

func (f *fakeNotifications) List(_ context.Context, _ uuid.UUID, unreadOnly bool, limit int) ([]models.Notification, error) {
	f.unreadOnly, f.limit = unreadOnly, limit
	return []models.Notification{}, nil
}

func (f *fakeNotifications) UnreadCount(context.Context, uuid.UUID) int64 { return 4 }

func TestNotificationEndpoints(t *testing.T) {
	notifications := &fakeNotifications{}
	ctrl := NewNotificationController(notifications, zerolog.Nop())
	router := gin.New()
	router.Use(withUser(uuid.New()))
	router.GET("/notifications", ctrl.List)
	router.GET("/notifications/count", ctrl.Count)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/notifications", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, services.DefaultNotificationLimit, notifications.limit)
	assert.False(t, notifications.unreadOnly)
	assert.JSONEq(t, `{"notifications":[]}`, w.Body.String())

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/notifications?unread=true&limit=10", nil))
	assert.Equal(t, 10, notifications.limit)
	assert.True(t, notifications.unreadOnly)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/notifications/count", nil))
	assert.JSONEq(t, `{"count":4}`, w.Body.String())
}

func TestOGImage(t *testing.T) {
	router := gin.New()
	router.GET("/api/og", NewOGController(zerolog.Nop()).Image)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/og?title=Reunion+2025", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, "public, max-age=86400", w.Header().Get("Cache-Control"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "\x89PNG"))
}
