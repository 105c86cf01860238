package middleware

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appauth "github.com/yigit/alumnihub/internal/app/auth"
	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/app/models/dto"
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
	"github.com/yigit/alumnihub/internal/pkg/auth"
	"github.com/yigit/alumnihub/internal/pkg/session"
)

// Context keys set by the auth middleware
const (
	ContextUserID = "userID"
	ContextAccess = "access"
)

// PendingPath is where unapproved accounts are sent
const PendingPath = appauth.PendingPath

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	jwtService *auth.JWTService
	sessions   *session.Manager
	authz      *appauth.AuthorizationService
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService, sessions *session.Manager, authz *appauth.AuthorizationService) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		sessions:   sessions,
		authz:      authz,
	}
}

// CurrentUserID returns the account set by JWTAuth or RequireSession
func CurrentUserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// Access resolves the caller's admin flag and approval status once per request
func (m *AuthMiddleware) Access(c *gin.Context) models.AccessStatus {
	if v, ok := c.Get(ContextAccess); ok {
		if status, ok := v.(models.AccessStatus); ok {
			return status
		}
	}
	userID, _ := CurrentUserID(c)
	status := m.authz.Resolve(c.Request.Context(), userID)
	c.Set(ContextAccess, status)
	return status
}

func abortUnauthorized(c *gin.Context, code dto.ErrorCode, details string) {
	errorDetail := dto.NewErrorDetail(code, "Authentication required").WithDetails(details)
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
}

// JWTAuth accepts a Bearer access token or, failing that, the browser session
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if header := c.GetHeader("Authorization"); header != "" {
			token, err := auth.ExtractBearerToken(header)
			if err != nil {
				abortUnauthorized(c, dto.ErrorCodeInvalidToken, "Invalid token format")
				return
			}

			userID, _, err := m.jwtService.ValidateAndExtractClaims(token)
			if err != nil {
				if errors.Is(err, apperrors.ErrTokenExpired) {
					abortUnauthorized(c, dto.ErrorCodeExpiredToken, "Token has expired")
					return
				}
				abortUnauthorized(c, dto.ErrorCodeInvalidToken, "Invalid token")
				return
			}

			c.Set(ContextUserID, userID)
			c.Next()
			return
		}

		if userID, ok := m.sessions.UserID(c.Request); ok {
			c.Set(ContextUserID, userID)
			c.Next()
			return
		}

		abortUnauthorized(c, dto.ErrorCodeUnauthorized, "Authorization header missing")
	}
}

// AdminRequired must run after JWTAuth
func (m *AuthMiddleware) AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := m.authz.ValidateAdmin(m.Access(c)); err != nil {
			HandleAPIError(c, err)
			return
		}
		c.Next()
	}
}

// ApprovedRequired lets admins and approved accounts through. Everyone else
// gets 403 with the page they should be sent to.
func (m *AuthMiddleware) ApprovedRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := m.authz.ValidateApproved(m.Access(c)); err != nil {
			HandleAPIError(c, err)
			return
		}
		c.Next()
	}
}

// LoginRedirect is the login page URL that returns to next afterwards
func LoginRedirect(next string) string {
	return "/login?" + url.Values{"next": {next}}.Encode()
}

// RequireSession guards browser pages; signed-out visitors are sent to /login
func (m *AuthMiddleware) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := m.sessions.UserID(c.Request)
		if !ok {
			c.Redirect(http.StatusSeeOther, LoginRedirect(c.Request.URL.RequestURI()))
			c.Abort()
			return
		}
		c.Set(ContextUserID, userID)
		c.Next()
	}
}

// RequireAdminPage must run after RequireSession
func (m *AuthMiddleware) RequireAdminPage() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.authz.ValidateAdmin(m.Access(c)) != nil {
			c.Redirect(http.StatusSeeOther, "/")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireApprovedPage must run after RequireSession
func (m *AuthMiddleware) RequireApprovedPage() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.authz.ValidateApproved(m.Access(c)) != nil {
			c.Redirect(http.StatusSeeOther, PendingPath)
			c.Abort()
			return
		}
		c.Next()
	}
}

// OptionalSession sets the caller when a session exists and never aborts
func (m *AuthMiddleware) OptionalSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID, ok := m.sessions.UserID(c.Request); ok {
			c.Set(ContextUserID, userID)
		}
		c.Next()
	}
}
