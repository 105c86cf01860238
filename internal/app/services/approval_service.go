package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/app/repositories"
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
	"github.com/yigit/alumnihub/internal/pkg/email"
	"github.com/yigit/alumnihub/internal/pkg/metrics"
)

// ApprovalService applies admin decisions to staged submissions
type ApprovalService struct {
	approvalRepo repositories.IApprovalRepository
	accountRepo  repositories.IAccountRepository
	emailService email.EmailService
	logger       zerolog.Logger
}

// NewApprovalService creates a new ApprovalService
func NewApprovalService(
	approvalRepo repositories.IApprovalRepository,
	accountRepo repositories.IAccountRepository,
	emailService email.EmailService,
	logger zerolog.Logger,
) *ApprovalService {
	return &ApprovalService{
		approvalRepo: approvalRepo,
		accountRepo:  accountRepo,
		emailService: emailService,
		logger:       logger,
	}
}

// changeStatus applies the transition rule to the locked status, then records
// the new status and its audit row. Moving to the status already held is a no-op.
func changeStatus(ctx context.Context, w repositories.StatusWriter, userID uuid.UUID, to models.ApprovalStatus, actorID *uuid.UUID, reason string) (models.ApprovalStatus, error) {
	current, found, err := w.LockStatus(ctx, userID)
	if err != nil {
		return "", err
	}
	if !models.CanTransition(current, to) {
		return current, apperrors.ErrInvalidTransition
	}
	if found && current == to {
		return current, nil
	}

	if err := w.SetStatus(ctx, userID, to); err != nil {
		return current, err
	}
	transition := models.ApprovalTransition{UserID: userID, ToStatus: to, ActorID: actorID, Reason: reason}
	if found {
		from := current
		transition.FromStatus = &from
	}
	return current, w.LogTransition(ctx, transition)
}

// Promote copies the staged submission into the live directory and approves
// the account. The staged row is kept.
func (s *ApprovalService) Promote(ctx context.Context, adminID, userID uuid.UUID) error {
	err := s.approvalRepo.WithStatusChange(ctx, func(ctx context.Context, w repositories.StatusWriter) error {
		staged, err := w.LockStaged(ctx, userID)
		if err != nil {
			return err
		}
		if _, err := changeStatus(ctx, w, userID, models.StatusApproved, &adminID, ""); err != nil {
			return err
		}
		if err := w.PublishLive(ctx, userID, staged.AlumniFields); err != nil {
			return err
		}
		return w.Notify(ctx, &models.Notification{
			UserID:  userID,
			Type:    models.NotificationApproval,
			Title:   "Your profile has been approved",
			Message: "Welcome! Your profile is now visible in the alumni directory.",
		})
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("userID", userID.String()).Msg("Promotion failed")
		return err
	}

	metrics.ApprovalDecisions.WithLabelValues(string(models.StatusApproved)).Inc()
	s.logger.Info().Str("userID", userID.String()).Str("adminID", adminID.String()).Msg("Profile approved")
	s.sendDecision(ctx, userID, true, "")
	return nil
}

// Reject marks the submission rejected; the account may edit and resubmit
func (s *ApprovalService) Reject(ctx context.Context, adminID, userID uuid.UUID, reason string) error {
	message := "Your profile was not approved. Please review your details and submit again."
	if reason != "" {
		message += " Reason: " + reason
	}

	err := s.approvalRepo.WithStatusChange(ctx, func(ctx context.Context, w repositories.StatusWriter) error {
		if _, err := changeStatus(ctx, w, userID, models.StatusRejected, &adminID, reason); err != nil {
			return err
		}
		return w.Notify(ctx, &models.Notification{
			UserID:  userID,
			Type:    models.NotificationRejection,
			Title:   "Your profile needs changes",
			Message: message,
		})
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("userID", userID.String()).Msg("Rejection failed")
		return err
	}

	metrics.ApprovalDecisions.WithLabelValues(string(models.StatusRejected)).Inc()
	s.logger.Info().Str("userID", userID.String()).Str("adminID", adminID.String()).Msg("Profile rejected")
	s.sendDecision(ctx, userID, false, reason)
	return nil
}

// sendDecision emails the outcome; the decision itself is already committed
func (s *ApprovalService) sendDecision(ctx context.Context, userID uuid.UUID, approved bool, reason string) {
	account, err := s.accountRepo.GetByID(ctx, userID)
	if err != nil {
		s.logger.Warn().Err(err).Str("userID", userID.String()).Msg("Could not load account for decision email")
		return
	}
	name := ""
	if profile, err := s.accountRepo.GetProfile(ctx, userID); err == nil {
		name = profile.FullName
	}
	if err := s.emailService.SendDecisionEmail(account.Email, name, approved, reason); err != nil {
		s.logger.Warn().Err(err).Str("userID", userID.String()).Msg("Failed to send decision email")
	}
}

// ListPending returns the review queue
func (s *ApprovalService) ListPending(ctx context.Context) ([]models.PendingSubmission, error) {
	return s.approvalRepo.ListPending(ctx)
}

// Transitions returns the audit log of one account
func (s *ApprovalService) Transitions(ctx context.Context, userID uuid.UUID) ([]models.ApprovalTransition, error) {
	return s.approvalRepo.Transitions(ctx, userID)
}
