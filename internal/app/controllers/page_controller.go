package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/app/models/dto"
	"github.com/yigit/alumnihub/internal/app/services"
	"github.com/yigit/alumnihub/internal/middleware"
	"golang.org/x/sync/errgroup"
)

// DashboardPath is the landing page of approved alumni
const DashboardPath = "/dashboard"

// PageController serves the data of browser pages that are not a single API call
type PageController struct {
	directoryService services.IDirectoryService
	approvalService  services.IApprovalService
	authMiddleware   *middleware.AuthMiddleware
	logger           zerolog.Logger
}

// NewPageController creates a new PageController
func NewPageController(
	directoryService services.IDirectoryService,
	approvalService services.IApprovalService,
	authMiddleware *middleware.AuthMiddleware,
	logger zerolog.Logger,
) *PageController {
	return &PageController{
		directoryService: directoryService,
		approvalService:  approvalService,
		authMiddleware:   authMiddleware,
		logger:           logger,
	}
}

// AdminDashboard is the admin landing page payload
type AdminDashboard struct {
	Stats   *models.AdminStats         `json:"stats"`
	Pending []models.PendingSubmission `json:"pending"`
}

// Dashboard returns the alumni landing page
func (c *PageController) Dashboard(ctx *gin.Context) {
	userID, _ := middleware.CurrentUserID(ctx)

	dashboard, err := c.directoryService.Dashboard(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Success: true, Data: dashboard})
}

// Pending shows the waiting page, or moves the visitor on when there is
// nothing to wait for
func (c *PageController) Pending(ctx *gin.Context) {
	access := c.authMiddleware.Access(ctx)
	switch {
	case access.IsAdmin || access.IsApproved():
		ctx.Redirect(http.StatusSeeOther, DashboardPath)
		return
	case !access.HasProfileSetup:
		ctx.Redirect(http.StatusSeeOther, SetupPath)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Success: true, Data: access})
}

// AdminDashboard returns counters and the review queue
func (c *PageController) AdminDashboard(ctx *gin.Context) {
	var page AdminDashboard

	g, gctx := errgroup.WithContext(ctx.Request.Context())
	g.Go(func() error {
		stats, err := c.directoryService.AdminStats(gctx)
		page.Stats = stats
		return err
	})
	g.Go(func() error {
		pending, err := c.approvalService.ListPending(gctx)
		page.Pending = pending
		return err
	})
	if err := g.Wait(); err != nil {
		c.logger.Error().Err(err).Msg("Admin dashboard failed")
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Success: true, Data: page})
}
