package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/app/models/dto"
	"github.com/yigit/alumnihub/internal/app/repositories"
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
	"github.com/yigit/alumnihub/internal/pkg/filestorage"
	"github.com/yigit/alumnihub/internal/pkg/validation"
)

const (
	avatarDir     = "avatars"
	avatarMaxSide = 512
	maxSkills     = 50
)

// ProfileService manages staged submissions and live profile edits
type ProfileService struct {
	profileRepo  repositories.IProfileRepository
	approvalRepo repositories.IApprovalRepository
	accountRepo  repositories.IAccountRepository
	importRepo   repositories.IImportRepository
	storage      filestorage.FileStorage
	logger       zerolog.Logger
}

// NewProfileService creates a new ProfileService
func NewProfileService(
	profileRepo repositories.IProfileRepository,
	approvalRepo repositories.IApprovalRepository,
	accountRepo repositories.IAccountRepository,
	importRepo repositories.IImportRepository,
	storage filestorage.FileStorage,
	logger zerolog.Logger,
) *ProfileService {
	return &ProfileService{
		profileRepo:  profileRepo,
		approvalRepo: approvalRepo,
		accountRepo:  accountRepo,
		importRepo:   importRepo,
		storage:      storage,
		logger:       logger,
	}
}

// validateFields applies the rules shared by staged and live saves
func validateFields(fullName string, fields *models.AlumniFields) error {
	if !validation.ValidFullName(fullName) {
		return apperrors.NewValidationError("fullName", "Full name must be between 2 and 120 characters")
	}
	for field, raw := range fields.URLs() {
		if !validation.ValidOptionalURL(raw) {
			return apperrors.NewValidationError(field, field+" must be an absolute http(s) url")
		}
	}
	if !validation.ValidGradYear(fields.GradYear) {
		return apperrors.NewValidationError("gradYear", "Graduation year must be between 1900 and 2100")
	}
	return nil
}

// SaveStaged stores a submission for review and moves the account to pending
func (s *ProfileService) SaveStaged(ctx context.Context, userID uuid.UUID, req *dto.SaveStagedRequest) error {
	fullName := strings.TrimSpace(req.FullName)
	if err := validateFields(fullName, &req.AlumniFields); err != nil {
		return err
	}

	var avatar *string
	if a := strings.TrimSpace(req.AvatarURL); a != "" {
		if !strings.HasPrefix(a, "/uploads/") && !validation.ValidOptionalURL(a) {
			return apperrors.NewValidationError("avatarUrl", "avatarUrl must be an uploaded image or an absolute http(s) url")
		}
		avatar = &a
	}

	staged := models.StagedAlumniDetail{
		UserID:       userID,
		AlumniFields: req.AlumniFields,
		Identifiers:  req.Identifiers,
	}
	var previous models.ApprovalStatus
	err := s.approvalRepo.WithStatusChange(ctx, func(ctx context.Context, w repositories.StatusWriter) error {
		var err error
		if previous, err = changeStatus(ctx, w, userID, models.StatusPending, nil, ""); err != nil {
			return err
		}
		if err := w.UpdateProfile(ctx, userID, fullName, avatar); err != nil {
			return err
		}
		return w.SaveStaged(ctx, staged)
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidTransition) {
			return &apperrors.CustomError{Err: err, Message: "Approved profiles are edited directly, not resubmitted"}
		}
		return err
	}

	s.logger.Info().
		Str("userID", userID.String()).
		Str("previousStatus", string(previous)).
		Msg("Profile submitted for review")
	return nil
}

// SetupPrefill maps the imported row an account claimed onto the setup form.
// Accounts that did not come through an invite get only their current name.
func (s *ProfileService) SetupPrefill(ctx context.Context, userID uuid.UUID) (*dto.SetupPrefillResponse, error) {
	resp := &dto.SetupPrefillResponse{}
	if profile, err := s.accountRepo.GetProfile(ctx, userID); err == nil {
		resp.FullName = profile.FullName
	}

	imported, err := s.importRepo.GetByLinkedUser(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return resp, nil
		}
		return nil, err
	}

	resp.FromInvite = true
	resp.Fields = models.AlumniFields{
		Headline:       imported.Headline,
		Bio:            imported.Bio,
		GradYear:       imported.GradYear,
		Department:     imported.Department,
		CurrentCompany: imported.Company,
		CurrentTitle:   imported.Role,
		Location:       imported.Location,
		FatherName:     imported.FatherName,
		PrimaryMobile:  imported.PrimaryMobile,
		WhatsappNumber: imported.WhatsappNumber,
		LinkedinURL:    imported.LinkedinURL,
		TwitterURL:     imported.TwitterURL,
		FacebookURL:    imported.FacebookURL,
		InstagramURL:   imported.InstagramURL,
		GithubURL:      imported.GithubURL,
		WebsiteURL:     imported.WebsiteURL,
	}
	if resp.FullName == "" {
		resp.FullName = imported.FullName
		if err := s.profileRepo.SetFullNameIfEmpty(ctx, userID, imported.FullName); err != nil {
			s.logger.Warn().Err(err).Str("userID", userID.String()).Msg("Could not copy imported name to profile")
		}
	}
	return resp, nil
}

// UpdateLive edits the directory entry of an approved account
func (s *ProfileService) UpdateLive(ctx context.Context, userID uuid.UUID, req *dto.UpdateProfileRequest) error {
	status, err := s.accountRepo.ApprovalStatus(ctx, userID)
	if err != nil {
		return err
	}
	if status != models.StatusApproved {
		return apperrors.ErrNotApproved
	}

	fullName := strings.TrimSpace(req.FullName)
	if err := validateFields(fullName, &req.AlumniFields); err != nil {
		return err
	}
	for i := range req.Education {
		if err := validation.Struct(req.Education[i]); err != nil {
			return apperrors.NewValidationError(fmt.Sprintf("education[%d]", i), err.Error())
		}
		e := req.Education[i]
		if e.StartYear != nil && e.EndYear != nil && *e.EndYear < *e.StartYear {
			return apperrors.NewValidationError(fmt.Sprintf("education[%d].endYear", i), "End year must not be before start year")
		}
	}
	for i := range req.WorkHistory {
		if err := validation.Struct(req.WorkHistory[i]); err != nil {
			return apperrors.NewValidationError(fmt.Sprintf("workHistory[%d]", i), err.Error())
		}
		w := req.WorkHistory[i]
		if w.StartDate != nil && w.EndDate != nil && w.EndDate.Before(*w.StartDate) {
			return apperrors.NewValidationError(fmt.Sprintf("workHistory[%d].endDate", i), "End date must not be before start date")
		}
	}

	skills := normalizeSkills(req.Skills)
	if len(skills) > maxSkills {
		return apperrors.NewValidationError("skills", fmt.Sprintf("At most %d skills are allowed", maxSkills))
	}

	if err := s.profileRepo.UpdateLive(ctx, userID, fullName, req.AlumniFields, req.Education, req.WorkHistory, skills); err != nil {
		return err
	}
	s.logger.Info().Str("userID", userID.String()).Msg("Live profile updated")
	return nil
}

// normalizeSkills trims, drops blanks and removes case-insensitive duplicates
func normalizeSkills(raw []string) []string {
	seen := make(map[string]bool, len(raw))
	out := make([]string, 0, len(raw))
	for _, skill := range raw {
		skill = strings.TrimSpace(skill)
		key := strings.ToLower(skill)
		if skill == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, skill)
	}
	return out
}

// GetOwnProfile returns everything the account owner sees about themselves
func (s *ProfileService) GetOwnProfile(ctx context.Context, userID uuid.UUID) (*models.OwnProfile, error) {
	account, err := s.accountRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile, err := s.accountRepo.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	status, err := s.accountRepo.ApprovalStatus(ctx, userID)
	if err != nil {
		return nil, err
	}

	own := &models.OwnProfile{Profile: *profile, Email: account.Email, Status: status}

	if staged, err := s.profileRepo.GetStaged(ctx, userID); err == nil {
		own.Staged = staged
	} else if !errors.Is(err, apperrors.ErrNoStagedProfile) {
		return nil, err
	}

	if live, err := s.profileRepo.GetLive(ctx, userID); err == nil {
		own.Live = live
	} else if !errors.Is(err, apperrors.ErrResourceNotFound) {
		return nil, err
	}

	own.Education, own.WorkHistory, own.Skills, err = s.profileRepo.GetChildren(ctx, userID)
	if err != nil {
		return nil, err
	}
	return own, nil
}

// UploadAvatar resizes and stores a new avatar, then removes the old file
func (s *ProfileService) UploadAvatar(ctx context.Context, userID uuid.UUID, file *multipart.FileHeader) (string, error) {
	path, err := s.storage.SaveImage(file, avatarDir, avatarMaxSide, avatarMaxSide)
	if err != nil {
		return "", err
	}

	previous, err := s.profileRepo.UpdateAvatar(ctx, userID, path)
	if err != nil {
		if delErr := s.storage.DeleteFile(path); delErr != nil {
			s.logger.Warn().Err(delErr).Str("path", path).Msg("Failed to remove orphaned avatar")
		}
		return "", err
	}

	if previous != nil && strings.HasPrefix(*previous, "/uploads/") {
		if err := s.storage.DeleteFile(*previous); err != nil {
			s.logger.Warn().Err(err).Str("path", *previous).Msg("Failed to remove previous avatar")
		}
	}
	return path, nil
}
