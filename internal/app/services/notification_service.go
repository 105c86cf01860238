package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/app/models/dto"
	"github.com/yigit/alumnihub/internal/app/repositories"
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
)

const (
	DefaultNotificationLimit = 50
	MaxNotificationLimit     = 100
)

// NotificationService is the per-account inbox
type NotificationService struct {
	notificationRepo repositories.INotificationRepository
	logger           zerolog.Logger
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(notificationRepo repositories.INotificationRepository, logger zerolog.Logger) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		logger:           logger,
	}
}

// List returns the newest notifications of an account
func (s *NotificationService) List(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit int) ([]models.Notification, error) {
	if limit <= 0 {
		limit = DefaultNotificationLimit
	}
	if limit > MaxNotificationLimit {
		limit = MaxNotificationLimit
	}
	return s.notificationRepo.List(ctx, userID, unreadOnly, limit)
}

// MarkRead marks one notification, or all of them, as read for the caller only
func (s *NotificationService) MarkRead(ctx context.Context, userID uuid.UUID, req *dto.MarkReadRequest) (int64, error) {
	if req.MarkAll {
		return s.notificationRepo.MarkAllRead(ctx, userID)
	}
	if req.ID == "" {
		return 0, apperrors.NewBadRequestError("Provide id or markAll")
	}
	id, err := uuid.Parse(req.ID)
	if err != nil {
		return 0, apperrors.NewValidationError("id", "id must be a valid id")
	}
	return s.notificationRepo.MarkRead(ctx, userID, id)
}

// UnreadCount never fails; errors are logged and read as zero
func (s *NotificationService) UnreadCount(ctx context.Context, userID uuid.UUID) int64 {
	n, err := s.notificationRepo.UnreadCount(ctx, userID)
	if err != nil {
		s.logger.Warn().Err(err).Str("userID", userID.String()).Msg("Failed to count unread notifications")
		return 0
	}
	return n
}

// NotifyApproved writes one copy of template to every approved account except exclude
func (s *NotificationService) NotifyApproved(ctx context.Context, template models.Notification, exclude uuid.UUID) (int64, error) {
	return s.notificationRepo.CreateForApproved(ctx, template, exclude)
}
