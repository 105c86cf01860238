package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/alumnihub/internal/app/models/dto"
	"github.com/yigit/alumnihub/internal/app/services"
	"github.com/yigit/alumnihub/internal/middleware"
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
)

// ApprovalController handles admin review of staged profiles
type ApprovalController struct {
	approvalService services.IApprovalService
	logger          zerolog.Logger
}

// NewApprovalController creates a new ApprovalController
func NewApprovalController(approvalService services.IApprovalService, logger zerolog.Logger) *ApprovalController {
	return &ApprovalController{
		approvalService: approvalService,
		logger:          logger,
	}
}

// Promote approves a pending submission
// @Summary Approve a staged profile
// @Description Copies the staged profile to the live record and marks the account approved
// @Tags approval
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.PromoteRequest true "Account to approve"
// @Success 200 {object} dto.OKResponse
// @Failure 400 {object} dto.ErrorResponse "No staged profile"
// @Failure 403 {object} dto.ErrorResponse "Admin access required"
// @Failure 409 {object} dto.ErrorResponse "Account is not pending"
// @Router /approval/promote [post]
func (c *ApprovalController) Promote(ctx *gin.Context) {
	adminID, _ := middleware.CurrentUserID(ctx)

	var req dto.PromoteRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	userID := uuid.MustParse(req.UserID)

	if err := c.approvalService.Promote(ctx.Request.Context(), adminID, userID); err != nil {
		c.logger.Warn().Err(err).Str("userID", req.UserID).Msg("Promote failed")
		middleware.HandleAPIError(ctx, err)
		return
	}
	c.logger.Info().Str("userID", req.UserID).Str("adminID", adminID.String()).Msg("Profile approved")
	ctx.JSON(http.StatusOK, dto.OKResponse{OK: true})
}

// Reject declines a pending submission
// @Summary Reject a staged profile
// @Tags approval
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.RejectRequest true "Account and reason"
// @Success 200 {object} dto.OKResponse
// @Failure 403 {object} dto.ErrorResponse "Admin access required"
// @Failure 409 {object} dto.ErrorResponse "Account is not pending"
// @Router /approval/reject [post]
func (c *ApprovalController) Reject(ctx *gin.Context) {
	adminID, _ := middleware.CurrentUserID(ctx)

	var req dto.RejectRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	userID := uuid.MustParse(req.UserID)

	if err := c.approvalService.Reject(ctx.Request.Context(), adminID, userID, req.Reason); err != nil {
		c.logger.Warn().Err(err).Str("userID", req.UserID).Msg("Reject failed")
		middleware.HandleAPIError(ctx, err)
		return
	}
	c.logger.Info().Str("userID", req.UserID).Str("adminID", adminID.String()).Msg("Profile rejected")
	ctx.JSON(http.StatusOK, dto.OKResponse{OK: true})
}

// Pending lists submissions waiting for review
// @Summary List pending submissions
// @Tags approval
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.PendingSubmission}
// @Router /approval/pending [get]
func (c *ApprovalController) Pending(ctx *gin.Context) {
	pending, err := c.approvalService.ListPending(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Success: true, Data: pending})
}

// Transitions returns the approval audit trail of one account
// @Summary Approval history
// @Tags approval
// @Produce json
// @Security BearerAuth
// @Param userId path string true "Account ID"
// @Success 200 {object} dto.APIResponse{data=[]models.ApprovalTransition}
// @Failure 400 {object} dto.ErrorResponse "Invalid account id"
// @Router /approval/{userId}/transitions [get]
func (c *ApprovalController) Transitions(ctx *gin.Context) {
	userID, err := uuid.Parse(ctx.Param("userId"))
	if err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewValidationError("userId", "Invalid account id"))
		return
	}

	history, err := c.approvalService.Transitions(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Success: true, Data: history})
}
