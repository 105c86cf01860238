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

// EventController handles events and registration
type EventController struct {
	eventService services.IEventService
	logger       zerolog.Logger
}

// NewEventController creates a new EventController
func NewEventController(eventService services.IEventService, logger zerolog.Logger) *EventController {
	return &EventController{
		eventService: eventService,
		logger:       logger,
	}
}

// Create adds an event and notifies approved alumni when it is published
// @Summary Create an event
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateEventRequest true "Event"
// @Success 201 {object} dto.EventResponse
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 403 {object} dto.ErrorResponse "Admin access required"
// @Router /events/create [post]
func (c *EventController) Create(ctx *gin.Context) {
	adminID, _ := middleware.CurrentUserID(ctx)

	var req dto.CreateEventRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	event, err := c.eventService.Create(ctx.Request.Context(), adminID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	c.logger.Info().Str("eventID", event.ID.String()).Bool("published", event.IsPublished).Msg("Event created")
	ctx.JSON(http.StatusCreated, dto.EventResponse{Event: *event})
}

// Register signs the caller up for an event
// @Summary Register for an event
// @Description Capacity is enforced atomically; the last seat goes to exactly one caller
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.RegisterEventRequest true "Event"
// @Success 201 {object} dto.AttendeeResponse
// @Failure 400 {object} dto.ErrorResponse "Event is full, already registered, or not open"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Router /events/register [post]
func (c *EventController) Register(ctx *gin.Context) {
	userID, _ := middleware.CurrentUserID(ctx)

	var req dto.RegisterEventRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	attendee, err := c.eventService.Register(ctx.Request.Context(), userID, req.EventID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.AttendeeResponse{Attendee: *attendee})
}

// List returns published events
// @Summary List events
// @Tags events
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Event}
// @Router /events [get]
func (c *EventController) List(ctx *gin.Context) {
	events, err := c.eventService.ListPublished(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Success: true, Data: events})
}

// Detail returns one event with recent attendees and the caller's registration
// @Summary Event detail
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 200 {object} dto.APIResponse{data=models.EventDetail}
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Router /events/{id} [get]
func (c *EventController) Detail(ctx *gin.Context) {
	userID, _ := middleware.CurrentUserID(ctx)

	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, apperrors.ErrEventNotFound)
		return
	}

	detail, err := c.eventService.Detail(ctx.Request.Context(), eventID, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Success: true, Data: detail})
}
