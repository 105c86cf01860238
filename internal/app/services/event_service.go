package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/app/models/dto"
	"github.com/yigit/alumnihub/internal/app/repositories"
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
	"github.com/yigit/alumnihub/internal/pkg/helpers"
	"github.com/yigit/alumnihub/internal/pkg/metrics"
)

const eventAttendeePreview = 20

// EventService manages events and registrations
type EventService struct {
	eventRepo repositories.IEventRepository
	notifier  Notifier
	logger    zerolog.Logger
}

// NewEventService creates a new EventService
func NewEventService(eventRepo repositories.IEventRepository, notifier Notifier, logger zerolog.Logger) *EventService {
	return &EventService{
		eventRepo: eventRepo,
		notifier:  notifier,
		logger:    logger,
	}
}

// Create stores a new event and, when published, notifies approved alumni
func (s *EventService) Create(ctx context.Context, adminID uuid.UUID, req *dto.CreateEventRequest) (*models.Event, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, apperrors.NewValidationError("title", "title is required")
	}
	start, err := helpers.ParseDateTime(req.EventDate)
	if err != nil {
		return nil, apperrors.NewValidationError("event_date", "event_date must be a valid date")
	}
	end, err := helpers.ParseOptionalDateTime(req.EventEndDate)
	if err != nil {
		return nil, apperrors.NewValidationError("event_end_date", "event_end_date must be a valid date")
	}
	if end != nil && end.Before(start) {
		return nil, apperrors.NewValidationError("event_end_date", "event_end_date must not be before event_date")
	}
	if req.MaxAttendees != nil && *req.MaxAttendees < 1 {
		return nil, apperrors.NewValidationError("max_attendees", "max_attendees must be at least 1")
	}

	event := &models.Event{
		Title:                title,
		Description:          req.Description,
		EventDate:            start,
		EventEndDate:         end,
		Location:             req.Location,
		Venue:                req.Venue,
		ImageURL:             req.ImageURL,
		IsPublished:          true,
		RegistrationRequired: false,
		MaxAttendees:         req.MaxAttendees,
		CreatedBy:            &adminID,
	}
	if req.IsPublished != nil {
		event.IsPublished = *req.IsPublished
	}
	if req.RegistrationRequired != nil {
		event.RegistrationRequired = *req.RegistrationRequired
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, err
	}
	s.logger.Info().Str("eventID", event.ID.String()).Str("adminID", adminID.String()).Msg("Event created")

	if event.IsPublished {
		eventID := event.ID
		notice := models.Notification{
			Type:           models.NotificationEvent,
			Title:          "New event: " + event.Title,
			Message:        event.Title + " on " + event.EventDate.Format("January 2, 2006"),
			RelatedEventID: &eventID,
		}
		if n, err := s.notifier.NotifyApproved(ctx, notice, adminID); err != nil {
			s.logger.Warn().Err(err).Str("eventID", eventID.String()).Msg("Failed to notify alumni about event")
		} else {
			s.logger.Debug().Int64("recipients", n).Str("eventID", eventID.String()).Msg("Event notifications created")
		}
	}
	return event, nil
}

// registrationResult is the metric label for a registration outcome
func registrationResult(err error) string {
	switch {
	case err == nil:
		return "registered"
	case errors.Is(err, apperrors.ErrEventFull):
		return "full"
	case errors.Is(err, apperrors.ErrAlreadyRegistered):
		return "duplicate"
	default:
		return "rejected"
	}
}

// Register reserves a seat for the caller
func (s *EventService) Register(ctx context.Context, userID uuid.UUID, rawEventID string) (*models.EventAttendee, error) {
	rawEventID = strings.TrimSpace(rawEventID)
	if rawEventID == "" {
		return nil, apperrors.NewValidationError("event_id", "event_id is required")
	}
	eventID, err := uuid.Parse(rawEventID)
	if err != nil {
		return nil, apperrors.NewValidationError("event_id", "event_id must be a valid id")
	}

	attendee, err := s.eventRepo.Register(ctx, eventID, userID)
	metrics.EventRegistrations.WithLabelValues(registrationResult(err)).Inc()
	if err != nil {
		s.logger.Debug().Err(err).Str("eventID", eventID.String()).Str("userID", userID.String()).Msg("Registration refused")
		return nil, err
	}

	s.logger.Info().Str("eventID", eventID.String()).Str("userID", userID.String()).Msg("Registered for event")
	return attendee, nil
}

func (s *EventService) ListPublished(ctx context.Context) ([]models.Event, error) {
	return s.eventRepo.ListPublished(ctx)
}

// Detail returns a published event with its latest attendees
func (s *EventService) Detail(ctx context.Context, eventID, userID uuid.UUID) (*models.EventDetail, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	attendees, err := s.eventRepo.RecentAttendees(ctx, eventID, eventAttendeePreview)
	if err != nil {
		return nil, err
	}
	registered, err := s.eventRepo.IsRegistered(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}
	return &models.EventDetail{Event: *event, Attendees: attendees, IsRegistered: registered}, nil
}
