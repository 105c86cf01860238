package auth

import (
	"context"

	"github.com/google/uuid"
	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
	"github.com/yigit/alumnihub/internal/pkg/logger"
)

// StatusReader is the set of point reads the resolver needs
type StatusReader interface {
	IsAdmin(ctx context.Context, id uuid.UUID) (bool, error)
	ApprovalStatus(ctx context.Context, id uuid.UUID) (models.ApprovalStatus, error)
	HasStagedProfile(ctx context.Context, id uuid.UUID) (bool, error)
}

// AuthorizationService answers "what may this account do" for every request
type AuthorizationService struct {
	reader StatusReader
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(reader StatusReader) *AuthorizationService {
	return &AuthorizationService{reader: reader}
}

// Resolve reads the admin flag, approval status and setup state of an account.
// It never fails: a read error is logged and that field falls back to the most
// restrictive value (not admin, pending, no profile setup).
func (s *AuthorizationService) Resolve(ctx context.Context, accountID uuid.UUID) models.AccessStatus {
	status := models.AccessStatus{ApprovalStatus: models.StatusPending}

	isAdmin, err := s.reader.IsAdmin(ctx, accountID)
	if err != nil {
		logger.Warn().Err(err).Str("userID", accountID.String()).Msg("Failed to read admin flag, assuming non-admin")
	} else {
		status.IsAdmin = isAdmin
	}

	approval, err := s.reader.ApprovalStatus(ctx, accountID)
	if err != nil {
		logger.Warn().Err(err).Str("userID", accountID.String()).Msg("Failed to read approval status, assuming pending")
	} else if approval.Valid() {
		status.ApprovalStatus = approval
	}

	hasSetup, err := s.reader.HasStagedProfile(ctx, accountID)
	if err != nil {
		logger.Warn().Err(err).Str("userID", accountID.String()).Msg("Failed to read profile setup, assuming none")
	} else {
		status.HasProfileSetup = hasSetup
	}

	return status
}

// PendingPath is where accounts that are not yet approved are sent
const PendingPath = "/profile/pending"

// ValidateAdmin returns a forbidden error unless the resolved status is an admin
func (s *AuthorizationService) ValidateAdmin(status models.AccessStatus) error {
	if !status.IsAdmin {
		return apperrors.NewForbiddenError("Admin access required")
	}
	return nil
}

// ValidateApproved wraps ErrNotApproved with the page the client should show.
// Admins pass regardless of their own approval status.
func (s *AuthorizationService) ValidateApproved(status models.AccessStatus) error {
	if status.IsAdmin || status.IsApproved() {
		return nil
	}
	return apperrors.NewCustomError(apperrors.ErrNotApproved, "Your profile is awaiting approval").
		WithDetails(map[string]interface{}{"redirect": PendingPath, "status": status.ApprovalStatus})
}
