package models

import (
	"time"

	"github.com/google/uuid"
)

// ImportBatch groups rows uploaded together
type ImportBatch struct {
	ID         uuid.UUID    `json:"id" db:"id"`
	Filename   string       `json:"filename" db:"filename"`
	RowCount   int          `json:"rowCount" db:"row_count"`
	Status     ImportStatus `json:"status" db:"status"`
	UploadedBy *uuid.UUID   `json:"uploadedBy,omitempty" db:"uploaded_by"`
	CreatedAt  time.Time    `json:"createdAt" db:"created_at"`
}

// ImportRow is one parsed CSV row. JSON names match the CSV column headers so
// a client can send back exactly what the preview returned.
type ImportRow struct {
	FullName       string `json:"full_name" validate:"required,max=120"`
	Email          string `json:"email" validate:"required,email,max=254"`
	Headline       string `json:"headline,omitempty" validate:"max=200"`
	Bio            string `json:"bio,omitempty"`
	GradYear       *int   `json:"grad_year,omitempty" validate:"omitempty,min=1900,max=2100"`
	Department     string `json:"department,omitempty"`
	Company        string `json:"company,omitempty"`
	Role           string `json:"role,omitempty"`
	Location       string `json:"location,omitempty"`
	FatherName     string `json:"father_name,omitempty"`
	PrimaryMobile  string `json:"primary_mobile,omitempty"`
	WhatsappNumber string `json:"whatsapp_number,omitempty"`
	LinkedinURL    string `json:"linkedin_url,omitempty" validate:"omitempty,url"`
	TwitterURL     string `json:"twitter_url,omitempty" validate:"omitempty,url"`
	FacebookURL    string `json:"facebook_url,omitempty" validate:"omitempty,url"`
	InstagramURL   string `json:"instagram_url,omitempty" validate:"omitempty,url"`
	GithubURL      string `json:"github_url,omitempty" validate:"omitempty,url"`
	WebsiteURL     string `json:"website_url,omitempty" validate:"omitempty,url"`
}

// ImportedAlumni is a pre-account placeholder awaiting an invite
type ImportedAlumni struct {
	ID         uuid.UUID `json:"id" db:"id"`
	BatchID    uuid.UUID `json:"batchId" db:"batch_id"`
	ExternalID *string   `json:"externalId,omitempty" db:"external_id"`
	ImportRow
	InviteStatus ImportInviteStatus `json:"inviteStatus" db:"invite_status"`
	LinkedUserID *uuid.UUID         `json:"linkedUserId,omitempty" db:"linked_user_id"`
	CreatedAt    time.Time          `json:"createdAt" db:"created_at"`
}

// Invite binds a random single-use code to one imported row
type Invite struct {
	ID               uuid.UUID    `json:"id" db:"id"`
	ImportedAlumniID uuid.UUID    `json:"importedAlumniId" db:"imported_alumni_id"`
	Code             string       `json:"code" db:"code"`
	Status           InviteStatus `json:"status" db:"status"`
	RedeemedBy       *uuid.UUID   `json:"redeemedBy,omitempty" db:"redeemed_by"`
	RedeemedAt       *time.Time   `json:"redeemedAt,omitempty" db:"redeemed_at"`
	CreatedBy        *uuid.UUID   `json:"createdBy,omitempty" db:"created_by"`
	CreatedAt        time.Time    `json:"createdAt" db:"created_at"`
}

// ImportedFilter narrows the admin invite screen
type ImportedFilter struct {
	BatchID      *uuid.UUID
	InviteStatus ImportInviteStatus
	Query        string
	Offset       uint64
	Limit        int
}
