package controllers

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/alumnihub/internal/app/models/dto"
	"github.com/yigit/alumnihub/internal/app/services"
	"github.com/yigit/alumnihub/internal/middleware"
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
)

// SetupPath is where a redeemed invite continues
const SetupPath = "/profile/setup"

// InviteController handles invite generation and redemption
type InviteController struct {
	inviteService services.IInviteService
	logger        zerolog.Logger
}

// NewInviteController creates a new InviteController
func NewInviteController(inviteService services.IInviteService, logger zerolog.Logger) *InviteController {
	return &InviteController{
		inviteService: inviteService,
		logger:        logger,
	}
}

// Generate issues invite codes for imported rows
// @Summary Generate invites
// @Description Each id is handled on its own; one failure does not undo the others
// @Tags invites
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.GenerateInvitesRequest true "Imported alumni ids"
// @Success 200 {object} dto.GenerateInvitesResponse
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Router /invites/generate [post]
func (c *InviteController) Generate(ctx *gin.Context) {
	adminID, _ := middleware.CurrentUserID(ctx)

	var req dto.GenerateInvitesRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	ids := make([]uuid.UUID, 0, len(req.ImportedIDs))
	for _, raw := range req.ImportedIDs {
		ids = append(ids, uuid.MustParse(raw))
	}

	resp := c.inviteService.Generate(ctx.Request.Context(), adminID, ids)
	c.logger.Info().Int("created", resp.Created).Int("failed", resp.Failed).Msg("Invites generated")
	ctx.JSON(http.StatusOK, resp)
}

// Redeem claims an invite for the caller
// @Summary Redeem an invite
// @Tags invites
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.RedeemInviteRequest true "Invite code"
// @Success 200 {object} dto.OKResponse
// @Failure 404 {object} dto.ErrorResponse "Invalid code"
// @Failure 409 {object} dto.ErrorResponse "Invite already redeemed"
// @Router /invites/redeem [post]
func (c *InviteController) Redeem(ctx *gin.Context) {
	userID, _ := middleware.CurrentUserID(ctx)

	var req dto.RedeemInviteRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	if _, err := c.inviteService.Redeem(ctx.Request.Context(), req.Code, userID); err != nil {
		c.logger.Warn().Err(err).Str("userID", userID.String()).Msg("Invite redeem failed")
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.OKResponse{OK: true})
}

// Claim is the landing page of an invite link. Anonymous visitors are sent
// to login with the code kept; signed-in visitors redeem and continue to setup.
func (c *InviteController) Claim(ctx *gin.Context) {
	code := ctx.Query("code")
	if code == "" {
		middleware.HandleAPIError(ctx, apperrors.ErrMissingInviteCode)
		return
	}

	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		ctx.Redirect(http.StatusSeeOther, "/login?"+url.Values{"code": {code}}.Encode())
		return
	}

	if _, err := c.inviteService.Redeem(ctx.Request.Context(), code, userID); err != nil {
		c.logger.Warn().Err(err).Str("userID", userID.String()).Msg("Invite claim failed")
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Redirect(http.StatusSeeOther, SetupPath)
}
