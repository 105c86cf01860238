package models

import (
	"github.com/google/uuid"
)

// DirectoryFilter is the parsed directory search form
type DirectoryFilter struct {
	Query      string
	Year       *int
	Department string
	Company    string
	Offset     uint64
	Limit      int
}

// DirectoryEntry is one card in the directory listing
type DirectoryEntry struct {
	UserID         uuid.UUID `json:"userId"`
	FullName       string    `json:"fullName"`
	Email          string    `json:"email,omitempty"` // admin list only
	AvatarURL      *string   `json:"avatarUrl,omitempty"`
	Headline       string    `json:"headline"`
	GradYear       *int      `json:"gradYear,omitempty"`
	Department     string    `json:"department"`
	CurrentCompany string    `json:"currentCompany"`
	CurrentTitle   string    `json:"currentTitle"`
	Location       string    `json:"location"`
}

// DirectoryStats feeds the filter dropdowns
type DirectoryStats struct {
	Years       []int    `json:"years"`
	Departments []string `json:"departments"`
}

// AlumniProfile is the public detail page of one alumnus
type AlumniProfile struct {
	Profile     Profile       `json:"profile"`
	Detail      AlumniDetail  `json:"detail"`
	Education   []Education   `json:"education"`
	WorkHistory []WorkHistory `json:"workHistory"`
	Skills      []Skill       `json:"skills"`
}

// AdminStats backs the admin dashboard counters
type AdminStats struct {
	Approved      int64 `json:"approved"`
	Pending       int64 `json:"pending"`
	TotalProfiles int64 `json:"totalProfiles"`
	LiveDetails   int64 `json:"liveDetails"`
}

// Dashboard is the landing page of an approved alumnus
type Dashboard struct {
	AlumniCount    int64   `json:"alumniCount"`
	UpcomingEvents []Event `json:"upcomingEvents"`
	UnreadCount    int64   `json:"unreadCount"`
}

// ExportRow is one line of the alumni CSV export
type ExportRow struct {
	FullName   string
	GradYear   *int
	Department string
	Company    string
	Title      string
	Location   string
}
