package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/alumnihub/internal/app/models/dto"
	"github.com/yigit/alumnihub/internal/app/services"
	"github.com/yigit/alumnihub/internal/middleware"
)

// NotificationController handles the per-account inbox
type NotificationController struct {
	notificationService services.INotificationService
	logger              zerolog.Logger
}

// NewNotificationController creates a new NotificationController
func NewNotificationController(notificationService services.INotificationService, logger zerolog.Logger) *NotificationController {
	return &NotificationController{
		notificationService: notificationService,
		logger:              logger,
	}
}

// List returns the caller's notifications, newest first
// @Summary List notifications
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param unread query bool false "Only unread"
// @Param limit query int false "Maximum items (default 50, at most 100)"
// @Success 200 {object} dto.NotificationListResponse
// @Router /notifications [get]
func (c *NotificationController) List(ctx *gin.Context) {
	userID, _ := middleware.CurrentUserID(ctx)

	unreadOnly, _ := strconv.ParseBool(ctx.Query("unread"))
	limit, err := strconv.Atoi(ctx.Query("limit"))
	if err != nil {
		limit = services.DefaultNotificationLimit
	}

	items, err := c.notificationService.List(ctx.Request.Context(), userID, unreadOnly, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NotificationListResponse{Notifications: items})
}

// MarkRead marks one notification, or all of them, as read
// @Summary Mark notifications read
// @Tags notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.MarkReadRequest true "id or markAll"
// @Success 200 {object} dto.OKResponse
// @Failure 400 {object} dto.ErrorResponse "Provide id or markAll"
// @Router /notifications [patch]
func (c *NotificationController) MarkRead(ctx *gin.Context) {
	userID, _ := middleware.CurrentUserID(ctx)

	var req dto.MarkReadRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	if _, err := c.notificationService.MarkRead(ctx.Request.Context(), userID, &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.OKResponse{OK: true})
}

// Count returns the unread count; failures read as zero
// @Summary Unread notification count
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.CountResponse
// @Router /notifications/count [get]
func (c *NotificationController) Count(ctx *gin.Context) {
	userID, _ := middleware.CurrentUserID(ctx)
	ctx.JSON(http.StatusOK, dto.CountResponse{Count: c.notificationService.UnreadCount(ctx.Request.Context(), userID)})
}
