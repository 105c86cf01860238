package models

import (
	"time"

	"github.com/google/uuid"
)

// AlumniFields is the shape shared by staged submissions and live directory rows.
// Empty strings are stored as NULL.
type AlumniFields struct {
	Headline       string `json:"headline" db:"headline"`
	Bio            string `json:"bio" db:"bio"`
	GradYear       *int   `json:"gradYear,omitempty" db:"grad_year"`
	Department     string `json:"department" db:"department"`
	CurrentCompany string `json:"currentCompany" db:"current_company"`
	CurrentTitle   string `json:"currentTitle" db:"current_title"`
	Location       string `json:"location" db:"location"`
	FatherName     string `json:"fatherName" db:"father_name"`
	PrimaryMobile  string `json:"primaryMobile" db:"primary_mobile"`
	WhatsappNumber string `json:"whatsappNumber" db:"whatsapp_number"`
	LinkedinURL    string `json:"linkedinUrl" db:"linkedin_url"`
	TwitterURL     string `json:"twitterUrl" db:"twitter_url"`
	FacebookURL    string `json:"facebookUrl" db:"facebook_url"`
	InstagramURL   string `json:"instagramUrl" db:"instagram_url"`
	GithubURL      string `json:"githubUrl" db:"github_url"`
	WebsiteURL     string `json:"websiteUrl" db:"website_url"`
}

// URLs returns every link field keyed by its request field name
func (f AlumniFields) URLs() map[string]string {
	return map[string]string{
		"linkedinUrl":  f.LinkedinURL,
		"twitterUrl":   f.TwitterURL,
		"facebookUrl":  f.FacebookURL,
		"instagramUrl": f.InstagramURL,
		"githubUrl":    f.GithubURL,
		"websiteUrl":   f.WebsiteURL,
	}
}

// Identifiers are collected at submission time and never published
type Identifiers struct {
	EnrollmentNumber   string `json:"enrollmentNumber" db:"enrollment_number"`
	RollNumber         string `json:"rollNumber" db:"roll_number"`
	RegistrationNumber string `json:"registrationNumber" db:"registration_number"`
	CertificateNumber  string `json:"certificateNumber" db:"certificate_number"`
}

// StagedAlumniDetail is a submission awaiting review
type StagedAlumniDetail struct {
	UserID uuid.UUID `json:"userId" db:"user_id"`
	AlumniFields
	Identifiers
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// AlumniDetail is the live, directory-visible record
type AlumniDetail struct {
	UserID uuid.UUID `json:"userId" db:"id"`
	AlumniFields
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// Education row, replaced wholesale on every save
type Education struct {
	Degree    string `json:"degree" db:"degree" validate:"required,max=120"`
	Major     string `json:"major" db:"major" validate:"max=120"`
	StartYear *int   `json:"startYear,omitempty" db:"start_year" validate:"omitempty,min=1900,max=2100"`
	EndYear   *int   `json:"endYear,omitempty" db:"end_year" validate:"omitempty,min=1900,max=2100"`
}

// WorkHistory row, replaced wholesale on every save
type WorkHistory struct {
	Company     string     `json:"company" db:"company" validate:"required,max=160"`
	Role        string     `json:"role" db:"role" validate:"max=160"`
	StartDate   *time.Time `json:"startDate,omitempty" db:"start_date"`
	EndDate     *time.Time `json:"endDate,omitempty" db:"end_date"`
	Description string     `json:"description" db:"description" validate:"max=2000"`
}

// Skill row, replaced wholesale on every save
type Skill struct {
	Name string `json:"name" db:"name" validate:"required,max=80"`
}

// ApprovalTransition is one row of the status audit log
type ApprovalTransition struct {
	ID         uuid.UUID       `json:"id" db:"id"`
	UserID     uuid.UUID       `json:"userId" db:"user_id"`
	FromStatus *ApprovalStatus `json:"fromStatus,omitempty" db:"from_status"` // nil for the first submission
	ToStatus   ApprovalStatus  `json:"toStatus" db:"to_status"`
	ActorID    *uuid.UUID      `json:"actorId,omitempty" db:"actor_id"` // nil when the account resubmitted itself
	Reason     string          `json:"reason,omitempty" db:"reason"`
	CreatedAt  time.Time       `json:"createdAt" db:"created_at"`
}

// PendingSubmission is a row on the admin review queue
type PendingSubmission struct {
	UserID    uuid.UUID          `json:"userId"`
	Email     string             `json:"email"`
	FullName  string             `json:"fullName"`
	AvatarURL *string            `json:"avatarUrl,omitempty"`
	Staged    StagedAlumniDetail `json:"staged"`
}

// OwnProfile is everything the account owner sees on their profile page
type OwnProfile struct {
	Profile     Profile             `json:"profile"`
	Email       string              `json:"email"`
	Status      ApprovalStatus      `json:"status"`
	Staged      *StagedAlumniDetail `json:"staged,omitempty"`
	Live        *AlumniDetail       `json:"live,omitempty"`
	Education   []Education         `json:"education"`
	WorkHistory []WorkHistory       `json:"workHistory"`
	Skills      []Skill             `json:"skills"`
}
