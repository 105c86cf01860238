package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/alumnihub/internal/app/models/dto"
	"github.com/yigit/alumnihub/internal/app/services"
	"github.com/yigit/alumnihub/internal/middleware"
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
)

// ProfileController handles profile setup and editing
type ProfileController struct {
	profileService services.IProfileService
	logger         zerolog.Logger
}

// NewProfileController creates a new ProfileController
func NewProfileController(profileService services.IProfileService, logger zerolog.Logger) *ProfileController {
	return &ProfileController{
		profileService: profileService,
		logger:         logger,
	}
}

// GetProfile returns the caller's live and staged profile
// @Summary Get own profile
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=models.OwnProfile}
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Router /profile [get]
func (c *ProfileController) GetProfile(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrUnauthenticated)
		return
	}

	profile, err := c.profileService.GetOwnProfile(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Success: true, Data: profile})
}

// UpdateProfile edits the live profile directly
// @Summary Update live profile
// @Description Approved accounts edit their live profile, education, work history and skills without re-approval
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateProfileRequest true "Profile"
// @Success 200 {object} dto.OKResponse
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 403 {object} dto.ErrorResponse "Not approved"
// @Router /profile [put]
func (c *ProfileController) UpdateProfile(ctx *gin.Context) {
	userID, _ := middleware.CurrentUserID(ctx)

	var req dto.UpdateProfileRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	if err := c.profileService.UpdateLive(ctx.Request.Context(), userID, &req); err != nil {
		c.logger.Warn().Err(err).Str("userID", userID.String()).Msg("Profile update rejected")
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.OKResponse{OK: true})
}

// GetSetup returns prefill values for the setup form
// @Summary Profile setup prefill
// @Description Values from the imported row the caller redeemed an invite for, when there is one
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.SetupPrefillResponse}
// @Router /profile/setup [get]
func (c *ProfileController) GetSetup(ctx *gin.Context) {
	userID, _ := middleware.CurrentUserID(ctx)

	prefill, err := c.profileService.SetupPrefill(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Success: true, Data: prefill})
}

// SaveSetup stages a profile submission for admin review
// @Summary Submit profile for approval
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SaveStagedRequest true "Staged profile"
// @Success 200 {object} dto.OKResponse
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Router /profile/setup [post]
func (c *ProfileController) SaveSetup(ctx *gin.Context) {
	userID, _ := middleware.CurrentUserID(ctx)

	var req dto.SaveStagedRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	if err := c.profileService.SaveStaged(ctx.Request.Context(), userID, &req); err != nil {
		c.logger.Warn().Err(err).Str("userID", userID.String()).Msg("Staged profile rejected")
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.OKResponse{OK: true})
}

// UploadAvatar stores a new avatar image
// @Summary Upload avatar
// @Tags profile
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Image"
// @Success 200 {object} dto.APIResponse{data=dto.AvatarResponse}
// @Failure 400 {object} dto.ErrorResponse "Missing or invalid image"
// @Router /profile/avatar [post]
func (c *ProfileController) UploadAvatar(ctx *gin.Context) {
	userID, _ := middleware.CurrentUserID(ctx)

	file, err := ctx.FormFile("file")
	if err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewValidationError("file", "An image file is required"))
		return
	}

	url, err := c.profileService.UploadAvatar(ctx.Request.Context(), userID, file)
	if err != nil {
		c.logger.Error().Err(err).Str("userID", userID.String()).Msg("Avatar upload failed")
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Success: true, Data: dto.AvatarResponse{AvatarURL: url}})
}
