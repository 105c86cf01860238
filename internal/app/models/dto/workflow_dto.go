package dto

import (
	"github.com/google/uuid"
	"github.com/yigit/alumnihub/internal/app/models"
)

// PromoteRequest approves a staged submission
type PromoteRequest struct {
	UserID string `json:"user_id" binding:"required,uuid"`
}

// RejectRequest rejects a staged submission
type RejectRequest struct {
	UserID string `json:"userId" binding:"required,uuid"`
	Reason string `json:"reason" binding:"max=500"`
}

// CommitImportRequest commits previously previewed rows as one batch
type CommitImportRequest struct {
	Filename string             `json:"filename" binding:"max=255"`
	Rows     []models.ImportRow `json:"rows"`
}

// CommitImportResponse reports the inserted batch
type CommitImportResponse struct {
	OK       bool      `json:"ok" example:"true"`
	Inserted int       `json:"inserted" example:"3"`
	BatchID  uuid.UUID `json:"batch_id"`
}

// ImportPreviewResponse is the server-side preview of an uploaded CSV
type ImportPreviewResponse struct {
	Filename string             `json:"filename"`
	Rows     []models.ImportRow `json:"rows"`
	Total    int                `json:"total"`
	Dropped  int                `json:"dropped"`
}

// CreateAlumniRequest is the manual single-entry form
type CreateAlumniRequest struct {
	models.ImportRow
}

// CreateAlumniResponse mirrors the manual entry acknowledgement
type CreateAlumniResponse struct {
	Success    bool      `json:"success" example:"true"`
	Message    string    `json:"message"`
	ImportedID uuid.UUID `json:"importedId"`
}

// GenerateInvitesRequest selects imported rows to invite
type GenerateInvitesRequest struct {
	ImportedIDs []string `json:"imported_ids" binding:"required,min=1,dive,uuid"`
}

// InviteResult is the outcome for one requested id
type InviteResult struct {
	ImportedID string `json:"importedId"`
	Code       string `json:"code,omitempty"`
	Link       string `json:"link,omitempty"`
	EmailSent  bool   `json:"emailSent"`
	Error      string `json:"error,omitempty"`
}

// GenerateInvitesResponse lists per-id results; partial failure is not rolled back
type GenerateInvitesResponse struct {
	OK      bool           `json:"ok"`
	Created int            `json:"created"`
	Failed  int            `json:"failed"`
	Results []InviteResult `json:"results"`
}

// RedeemInviteRequest claims an invite for the caller
type RedeemInviteRequest struct {
	Code string `json:"code" binding:"required"`
}

// CreateEventRequest is the admin event form
type CreateEventRequest struct {
	Title                string `json:"title" binding:"required,max=200"`
	Description          string `json:"description"`
	EventDate            string `json:"event_date" binding:"required"`
	EventEndDate         string `json:"event_end_date"`
	Location             string `json:"location" binding:"max=200"`
	Venue                string `json:"venue" binding:"max=200"`
	ImageURL             string `json:"image_url" binding:"omitempty,url"`
	IsPublished          *bool  `json:"is_published"`
	RegistrationRequired *bool  `json:"registration_required"`
	MaxAttendees         *int   `json:"max_attendees" binding:"omitempty,min=1"`
}

// EventResponse wraps a created event
type EventResponse struct {
	Event models.Event `json:"event"`
}

// RegisterEventRequest registers the caller for an event
type RegisterEventRequest struct {
	EventID string `json:"event_id"`
}

// AttendeeResponse wraps a created registration
type AttendeeResponse struct {
	Attendee models.EventAttendee `json:"attendee"`
}

// MarkReadRequest marks one or all notifications as read
type MarkReadRequest struct {
	ID      string `json:"id" binding:"omitempty,uuid"`
	MarkAll bool   `json:"markAll"`
}

// NotificationListResponse is the inbox payload
type NotificationListResponse struct {
	Notifications []models.Notification `json:"notifications"`
}

// CountResponse returns the unread notification count
type CountResponse struct {
	Count int64 `json:"count"`
}

// CreateJobRequest is the admin job posting form
type CreateJobRequest struct {
	Title            string `json:"title" binding:"required,max=200"`
	Company          string `json:"company" binding:"required,max=200"`
	JobType          string `json:"jobType" binding:"omitempty,oneof=full-time part-time contract internship remote"`
	Description      string `json:"description"`
	Location         string `json:"location"`
	SalaryRange      string `json:"salaryRange"`
	ApplicationURL   string `json:"applicationUrl" binding:"omitempty,url"`
	ApplicationEmail string `json:"applicationEmail" binding:"omitempty,email"`
	ExpiresAt        string `json:"expiresAt"`
	IsPublished      *bool  `json:"isPublished"`
}

// CreateNewsRequest is the admin news form
type CreateNewsRequest struct {
	Title            string `json:"title" binding:"required,max=200"`
	Slug             string `json:"slug" binding:"omitempty,max=200"`
	Excerpt          string `json:"excerpt"`
	Content          string `json:"content" binding:"required"`
	FeaturedImageURL string `json:"featuredImageUrl" binding:"omitempty,url"`
	Category         string `json:"category"`
	IsPublished      *bool  `json:"isPublished"`
}

// GalleryUploadRequest carries the multipart form fields of a gallery upload
type GalleryUploadRequest struct {
	Title       string `form:"title" binding:"required,max=200"`
	Description string `form:"description"`
	Category    string `form:"category" binding:"max=80"`
	EventID     string `form:"event_id" binding:"omitempty,uuid"`
}
