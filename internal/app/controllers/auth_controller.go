// Package controllers handles HTTP request handling
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	appauth "github.com/yigit/alumnihub/internal/app/auth"
	"github.com/yigit/alumnihub/internal/app/models/dto"
	"github.com/yigit/alumnihub/internal/app/services"
	"github.com/yigit/alumnihub/internal/middleware"
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
	"github.com/yigit/alumnihub/internal/pkg/session"
)

// AuthController handles accounts, tokens, sessions and magic links
type AuthController struct {
	authService   services.IAuthService
	inviteService services.IInviteService
	authz         *appauth.AuthorizationService
	sessions      *session.Manager
	logger        zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(
	authService services.IAuthService,
	inviteService services.IInviteService,
	authz *appauth.AuthorizationService,
	sessions *session.Manager,
	logger zerolog.Logger,
) *AuthController {
	return &AuthController{
		authService:   authService,
		inviteService: inviteService,
		authz:         authz,
		sessions:      sessions,
		logger:        logger,
	}
}

// signIn writes the browser session for the account in resp
func (c *AuthController) signIn(ctx *gin.Context, resp *dto.AuthResponse) {
	id, err := uuid.Parse(resp.User.ID)
	if err != nil {
		return
	}
	if err := c.sessions.SignIn(ctx.Writer, ctx.Request, id); err != nil {
		c.logger.Warn().Err(err).Str("userID", resp.User.ID).Msg("Failed to write session")
	}
}

// Register handles account registration
// @Summary Register a new account
// @Description Creates a password account with a profile and a pending approval flag
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Registration details"
// @Success 201 {object} dto.APIResponse{data=dto.AuthResponse} "Account created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 409 {object} dto.ErrorResponse "Email already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req dto.RegisterRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.authService.Register(ctx.Request.Context(), &req)
	if err != nil {
		c.logger.Warn().Err(err).Str("email", req.Email).Msg("Registration failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.signIn(ctx, resp)
	c.logger.Info().Str("userID", resp.User.ID).Msg("Account registered")
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(resp, "Account created"))
}

// Login handles password login
// @Summary Log in
// @Description Authenticates with email and password, returns a token pair and sets the session cookie
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.APIResponse{data=dto.AuthResponse} "Login successful"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.authService.Login(ctx.Request.Context(), &req)
	if err != nil {
		c.logger.Warn().Err(err).Str("email", req.Email).Msg("Login failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.signIn(ctx, resp)
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, "Login successful"))
}

// RefreshToken handles refresh token rotation
// @Summary Refresh access token
// @Description Exchanges a refresh token for a new pair; the old refresh token is revoked
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} dto.APIResponse{data=dto.TokenResponse} "Token refreshed"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 401 {object} dto.ErrorResponse "Invalid refresh token"
// @Router /auth/refresh [post]
func (c *AuthController) RefreshToken(ctx *gin.Context) {
	var req dto.RefreshTokenRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	tokens, err := c.authService.RefreshToken(ctx.Request.Context(), req.RefreshToken)
	if err != nil {
		c.logger.Warn().Err(err).Msg("Refresh token failed")
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(tokens, "Token refreshed"))
}

// Logout revokes the refresh token, when given, and clears the session
// @Summary Log out
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LogoutRequest false "Refresh token to revoke"
// @Success 200 {object} dto.OKResponse
// @Router /auth/logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	var req dto.LogoutRequest
	_ = ctx.ShouldBindJSON(&req)

	if req.RefreshToken != "" {
		if err := c.authService.Logout(ctx.Request.Context(), req.RefreshToken); err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
	}
	if err := c.sessions.SignOut(ctx.Writer, ctx.Request); err != nil {
		c.logger.Warn().Err(err).Msg("Failed to clear session")
	}
	ctx.JSON(http.StatusOK, dto.OKResponse{OK: true})
}

// MagicLink emails a single-use login link
// @Summary Request a magic login link
// @Description Always succeeds so that registered addresses cannot be discovered
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.MagicLinkRequest true "Email and optional return path"
// @Success 200 {object} dto.OKResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Router /auth/magic-link [post]
func (c *AuthController) MagicLink(ctx *gin.Context) {
	var req dto.MagicLinkRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	if err := c.authService.RequestMagicLink(ctx.Request.Context(), req.Email, req.Next); err != nil {
		c.logger.Error().Err(err).Msg("Magic link request failed")
	}
	ctx.JSON(http.StatusOK, dto.OKResponse{OK: true})
}

// InviteLogin emails a login link to the address an invite was issued for
// @Summary Log in with an invite code
// @Description Ensures a passwordless account exists for the invited address and emails a login link that returns to the claim page. The invite is not redeemed.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.InviteLoginRequest true "Invite code"
// @Success 200 {object} dto.OKResponse
// @Failure 404 {object} dto.ErrorResponse "Invalid code"
// @Failure 409 {object} dto.ErrorResponse "Invite already redeemed"
// @Router /auth/invite-login [post]
func (c *AuthController) InviteLogin(ctx *gin.Context) {
	var req dto.InviteLoginRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	if err := c.inviteService.LoginWithInvite(ctx.Request.Context(), req.Code); err != nil {
		c.logger.Warn().Err(err).Msg("Invite login failed")
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.OKResponse{OK: true})
}

// Status returns the caller's account and access flags
// @Summary Current account status
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.StatusResponse}
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Router /me/status [get]
func (c *AuthController) Status(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrUnauthenticated)
		return
	}

	user, err := c.authService.GetAccount(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.StatusResponse{
		User:   *user,
		Access: c.authz.Resolve(ctx.Request.Context(), userID),
	}, ""))
}

// Callback consumes a magic link token, signs the browser in and redirects
func (c *AuthController) Callback(ctx *gin.Context) {
	userID, next, err := c.authService.ConsumeMagicLink(ctx.Request.Context(), ctx.Query("token"))
	if err != nil {
		c.logger.Warn().Err(err).Msg("Magic link rejected")
		ctx.Redirect(http.StatusSeeOther, "/login?error=invalid_link")
		return
	}

	if err := c.sessions.SignIn(ctx.Writer, ctx.Request, userID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	c.logger.Info().Str("userID", userID.String()).Msg("Signed in with magic link")
	ctx.Redirect(http.StatusSeeOther, next)
}
