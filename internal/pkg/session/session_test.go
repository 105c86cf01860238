package session

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager() *Manager {
	return NewManager(NewCookieStore("0123456789abcdef0123456789abcdef", 3600, false), "test-session")
}

func TestSignInRoundTrip(t *testing.T) {
	m := newTestManager()
	id := uuid.New()

	rec := httptest.NewRecorder()
	require.NoError(t, m.SignIn(rec, httptest.NewRequest(http.MethodGet, "/", nil), id))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(cookies[0])
	got, ok := m.UserID(req)
	require.True(t, ok)
	assert.Equal(t, id, got)
}

func TestUserIDWithoutCookie(t *testing.T) {
	_, ok := newTestManager().UserID(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.False(t, ok)
}

func TestTamperedCookieReadsAsSignedOut(t *testing.T) {
	m := newTestManager()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "test-session", Value: "forged"})

	_, ok := m.UserID(req)
	assert.False(t, ok)
}

func TestSignOutExpiresCookie(t *testing.T) {
	m := newTestManager()
	rec := httptest.NewRecorder()
	require.NoError(t, m.SignOut(rec, httptest.NewRequest(http.MethodGet, "/", nil)))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Less(t, cookies[0].MaxAge, 0)
}
