package services

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/app/models/dto"
	"github.com/yigit/alumnihub/internal/app/repositories"
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
	"github.com/yigit/alumnihub/internal/pkg/email"
	"github.com/yigit/alumnihub/internal/pkg/metrics"
)

// InviteService issues invite codes to imported alumni and redeems them
type InviteService struct {
	inviteRepo   repositories.IInviteRepository
	accountRepo  repositories.IAccountRepository
	loginLinks   LoginLinkIssuer
	emailService email.EmailService
	siteURL      string
	logger       zerolog.Logger
	newCode      func() string
	now          func() time.Time
}

// NewInviteService creates a new InviteService
func NewInviteService(
	inviteRepo repositories.IInviteRepository,
	accountRepo repositories.IAccountRepository,
	loginLinks LoginLinkIssuer,
	emailService email.EmailService,
	siteURL string,
	logger zerolog.Logger,
) *InviteService {
	return &InviteService{
		inviteRepo:   inviteRepo,
		accountRepo:  accountRepo,
		loginLinks:   loginLinks,
		emailService: emailService,
		siteURL:      strings.TrimRight(siteURL, "/"),
		logger:       logger,
		newCode:      func() string { return uuid.NewString() },
		now:          time.Now,
	}
}

// ClaimPath is the page an invite link points at
func ClaimPath(code string) string {
	return "/invite/claim?" + url.Values{"code": {code}}.Encode()
}

// Generate issues or re-issues one invite per id. Every id is handled on its
// own; failures are reported in the result and do not undo earlier ids.
func (s *InviteService) Generate(ctx context.Context, adminID uuid.UUID, importedIDs []uuid.UUID) *dto.GenerateInvitesResponse {
	resp := &dto.GenerateInvitesResponse{OK: true, Results: make([]dto.InviteResult, 0, len(importedIDs))}

	for _, id := range importedIDs {
		result := dto.InviteResult{ImportedID: id.String()}

		invite, imported, err := s.inviteRepo.Upsert(ctx, id, s.newCode(), adminID)
		if errors.Is(err, repositories.ErrInviteCodeCollision) {
			invite, imported, err = s.inviteRepo.Upsert(ctx, id, s.newCode(), adminID)
		}
		if err != nil {
			s.logger.Warn().Err(err).Str("importedID", id.String()).Msg("Invite generation failed")
			result.Error = err.Error()
			resp.Failed++
			resp.Results = append(resp.Results, result)
			continue
		}

		result.Code = invite.Code
		result.Link = s.siteURL + ClaimPath(invite.Code)
		if err := s.emailService.SendInviteEmail(imported.Email, imported.FullName, result.Link); err != nil {
			s.logger.Warn().Err(err).Str("importedID", id.String()).Msg("Failed to send invite email")
		} else {
			result.EmailSent = true
		}

		metrics.InvitesGenerated.Inc()
		resp.Created++
		resp.Results = append(resp.Results, result)
	}

	s.logger.Info().
		Str("adminID", adminID.String()).
		Int("created", resp.Created).
		Int("failed", resp.Failed).
		Msg("Invites generated")
	return resp
}

// Redeem claims an invite for the calling account
func (s *InviteService) Redeem(ctx context.Context, code string, userID uuid.UUID) (*models.Invite, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, apperrors.ErrMissingInviteCode
	}

	invite, err := s.inviteRepo.Redeem(ctx, code, userID, s.now())
	if err != nil {
		return nil, err
	}

	metrics.InvitesRedeemed.Inc()
	s.logger.Info().Str("userID", userID.String()).Str("inviteID", invite.ID.String()).Msg("Invite redeemed")
	return invite, nil
}

// LoginWithInvite emails a login link to the address the invite was issued
// for, creating a passwordless account when none exists. It does not redeem.
func (s *InviteService) LoginWithInvite(ctx context.Context, code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return apperrors.ErrMissingInviteCode
	}

	invite, imported, err := s.inviteRepo.GetByCode(ctx, code)
	if err != nil {
		return err
	}
	if invite.Status != models.InviteSent {
		return apperrors.ErrInviteAlreadyRedeemed
	}

	account, err := s.accountRepo.GetByEmail(ctx, imported.Email)
	if errors.Is(err, apperrors.ErrUserNotFound) {
		account, err = s.accountRepo.CreateAccount(ctx, imported.Email, nil, imported.FullName)
		if err == nil {
			s.logger.Info().Str("userID", account.ID.String()).Msg("Passwordless account created from invite")
		}
	}
	if err != nil {
		return err
	}

	return s.loginLinks.IssueLoginLink(ctx, account, ClaimPath(code))
}
