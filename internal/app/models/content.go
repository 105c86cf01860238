package models

import (
	"time"

	"github.com/google/uuid"
)

// Job posting
type Job struct {
	ID               uuid.UUID  `json:"id" db:"id"`
	Title            string     `json:"title" db:"title"`
	Company          string     `json:"company" db:"company"`
	JobType          string     `json:"jobType" db:"job_type"`
	Description      string     `json:"description" db:"description"`
	Location         string     `json:"location" db:"location"`
	SalaryRange      string     `json:"salaryRange" db:"salary_range"`
	ApplicationURL   string     `json:"applicationUrl" db:"application_url"`
	ApplicationEmail string     `json:"applicationEmail" db:"application_email"`
	IsPublished      bool       `json:"isPublished" db:"is_published"`
	ExpiresAt        *time.Time `json:"expiresAt,omitempty" db:"expires_at"`
	PostedBy         *uuid.UUID `json:"postedBy,omitempty" db:"posted_by"`
	CreatedAt        time.Time  `json:"createdAt" db:"created_at"`
}

// GalleryItem is one uploaded image
type GalleryItem struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description" db:"description"`
	ImageURL    string     `json:"imageUrl" db:"image_url"`
	Category    string     `json:"category" db:"category"`
	EventID     *uuid.UUID `json:"eventId,omitempty" db:"event_id"`
	IsPublished bool       `json:"isPublished" db:"is_published"`
	UploadedBy  *uuid.UUID `json:"uploadedBy,omitempty" db:"uploaded_by"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
}

// NewsArticle is addressable by id or slug
type NewsArticle struct {
	ID               uuid.UUID  `json:"id" db:"id"`
	Title            string     `json:"title" db:"title"`
	Slug             string     `json:"slug" db:"slug"`
	Excerpt          string     `json:"excerpt" db:"excerpt"`
	Content          string     `json:"content" db:"content"`
	FeaturedImageURL string     `json:"featuredImageUrl" db:"featured_image_url"`
	Category         string     `json:"category" db:"category"`
	IsPublished      bool       `json:"isPublished" db:"is_published"`
	PublishedAt      *time.Time `json:"publishedAt,omitempty" db:"published_at"`
	AuthorID         *uuid.UUID `json:"authorId,omitempty" db:"author_id"`
	CreatedAt        time.Time  `json:"createdAt" db:"created_at"`
}
