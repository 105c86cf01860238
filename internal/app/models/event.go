package models

import (
	"time"

	"github.com/google/uuid"
)

// Event is a scheduled gathering that approved alumni can browse and register for
type Event struct {
	ID                   uuid.UUID  `json:"id" db:"id"`
	Title                string     `json:"title" db:"title"`
	Description          string     `json:"description" db:"description"`
	EventDate            time.Time  `json:"eventDate" db:"event_date"`
	EventEndDate         *time.Time `json:"eventEndDate,omitempty" db:"event_end_date"`
	Location             string     `json:"location" db:"location"`
	Venue                string     `json:"venue" db:"venue"`
	ImageURL             string     `json:"imageUrl" db:"image_url"`
	IsPublished          bool       `json:"isPublished" db:"is_published"`
	RegistrationRequired bool       `json:"registrationRequired" db:"registration_required"`
	MaxAttendees         *int       `json:"maxAttendees,omitempty" db:"max_attendees"`
	CurrentAttendees     int        `json:"currentAttendees" db:"current_attendees"`
	CreatedBy            *uuid.UUID `json:"createdBy,omitempty" db:"created_by"`
	CreatedAt            time.Time  `json:"createdAt" db:"created_at"`
}

// EventAttendee links an account to an event
type EventAttendee struct {
	ID           uuid.UUID `json:"id" db:"id"`
	EventID      uuid.UUID `json:"eventId" db:"event_id"`
	UserID       uuid.UUID `json:"userId" db:"user_id"`
	Status       string    `json:"status" db:"status"`
	RegisteredAt time.Time `json:"registeredAt" db:"registered_at"`

	FullName  string  `json:"fullName,omitempty"`
	AvatarURL *string `json:"avatarUrl,omitempty"`
}

// EventDetail is an event plus its most recent attendees
type EventDetail struct {
	Event        Event           `json:"event"`
	Attendees    []EventAttendee `json:"attendees"`
	IsRegistered bool            `json:"isRegistered"`
}

// Notification is a row in an account's inbox
type Notification struct {
	ID             uuid.UUID        `json:"id" db:"id"`
	UserID         uuid.UUID        `json:"userId" db:"user_id"`
	Type           NotificationType `json:"type" db:"type"`
	Title          string           `json:"title" db:"title"`
	Message        string           `json:"message" db:"message"`
	RelatedEventID *uuid.UUID       `json:"relatedEventId,omitempty" db:"related_event_id"`
	IsRead         bool             `json:"isRead" db:"is_read"`
	CreatedAt      time.Time        `json:"createdAt" db:"created_at"`
}
