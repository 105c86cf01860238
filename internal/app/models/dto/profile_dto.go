package dto

import (
	"github.com/yigit/alumnihub/internal/app/models"
)

// SaveStagedRequest is the profile setup form
type SaveStagedRequest struct {
	FullName  string `json:"fullName" binding:"required"`
	AvatarURL string `json:"avatarUrl"`
	models.AlumniFields
	models.Identifiers
}

// UpdateProfileRequest edits the live profile of an approved account
type UpdateProfileRequest struct {
	FullName string `json:"fullName" binding:"required,max=120"`
	models.AlumniFields
	Education   []models.Education   `json:"education"`
	WorkHistory []models.WorkHistory `json:"workHistory"`
	Skills      []string             `json:"skills" binding:"dive,max=80"`
}

// SetupPrefillResponse pre-fills the setup form from an accepted invite
type SetupPrefillResponse struct {
	FullName   string              `json:"fullName"`
	Fields     models.AlumniFields `json:"fields"`
	FromInvite bool                `json:"fromInvite"`
}

// AvatarResponse returns the stored avatar location
type AvatarResponse struct {
	AvatarURL string `json:"avatarUrl"`
}
