package services

import (
	"context"
	"io"
	"mime/multipart"

	"github.com/google/uuid"
	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/app/models/dto"
)

// Services defined in this package:
// - AuthService: accounts, tokens, magic links
// - ProfileService: staged submissions and live profile edits
// - ApprovalService: admin promote/reject decisions
// - ImportService: CSV import and manual entry of imported alumni
// - InviteService: invite codes for imported alumni
// - DirectoryService: directory search, detail, admin lists and export
// - EventService: events and registration
// - NotificationService: per-account inbox
// - ContentService: jobs, gallery and news

// IAuthService is consumed by the auth controller
type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	RequestMagicLink(ctx context.Context, email, next string) error
	ConsumeMagicLink(ctx context.Context, token string) (uuid.UUID, string, error)
	GetAccount(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error)
}

// LoginLinkIssuer emails a single-use login link to an account
type LoginLinkIssuer interface {
	IssueLoginLink(ctx context.Context, account *models.Account, next string) error
}

// IProfileService is consumed by the profile controller
type IProfileService interface {
	SaveStaged(ctx context.Context, userID uuid.UUID, req *dto.SaveStagedRequest) error
	SetupPrefill(ctx context.Context, userID uuid.UUID) (*dto.SetupPrefillResponse, error)
	UpdateLive(ctx context.Context, userID uuid.UUID, req *dto.UpdateProfileRequest) error
	GetOwnProfile(ctx context.Context, userID uuid.UUID) (*models.OwnProfile, error)
	UploadAvatar(ctx context.Context, userID uuid.UUID, file *multipart.FileHeader) (string, error)
}

// IApprovalService is consumed by the approval controller
type IApprovalService interface {
	Promote(ctx context.Context, adminID, userID uuid.UUID) error
	Reject(ctx context.Context, adminID, userID uuid.UUID, reason string) error
	ListPending(ctx context.Context) ([]models.PendingSubmission, error)
	Transitions(ctx context.Context, userID uuid.UUID) ([]models.ApprovalTransition, error)
}

// IImportService is consumed by the import controller
type IImportService interface {
	Preview(ctx context.Context, filename string, r io.Reader) (*dto.ImportPreviewResponse, error)
	Commit(ctx context.Context, adminID uuid.UUID, req *dto.CommitImportRequest) (*dto.CommitImportResponse, error)
	CreateManual(ctx context.Context, adminID uuid.UUID, row models.ImportRow) (uuid.UUID, error)
	ListImported(ctx context.Context, filter models.ImportedFilter, page int) ([]models.ImportedAlumni, *dto.PaginationInfo, error)
	ListBatches(ctx context.Context) ([]models.ImportBatch, error)
	SampleCSV() []byte
}

// IInviteService is consumed by the invite controller and the claim page
type IInviteService interface {
	Generate(ctx context.Context, adminID uuid.UUID, importedIDs []uuid.UUID) *dto.GenerateInvitesResponse
	Redeem(ctx context.Context, code string, userID uuid.UUID) (*models.Invite, error)
	LoginWithInvite(ctx context.Context, code string) error
}

// IDirectoryService is consumed by the directory and admin controllers
type IDirectoryService interface {
	Search(ctx context.Context, filter models.DirectoryFilter, page int) ([]models.DirectoryEntry, *dto.PaginationInfo, error)
	Stats(ctx context.Context) (*models.DirectoryStats, error)
	Detail(ctx context.Context, userID uuid.UUID) (*models.AlumniProfile, error)
	AdminList(ctx context.Context, page int) ([]models.DirectoryEntry, *dto.PaginationInfo, error)
	AdminStats(ctx context.Context) (*models.AdminStats, error)
	Dashboard(ctx context.Context, userID uuid.UUID) (*models.Dashboard, error)
	Export(ctx context.Context, w io.Writer) (int, error)
}

// IEventService is consumed by the event controller
type IEventService interface {
	Create(ctx context.Context, adminID uuid.UUID, req *dto.CreateEventRequest) (*models.Event, error)
	Register(ctx context.Context, userID uuid.UUID, rawEventID string) (*models.EventAttendee, error)
	ListPublished(ctx context.Context) ([]models.Event, error)
	Detail(ctx context.Context, eventID, userID uuid.UUID) (*models.EventDetail, error)
}

// INotificationService is consumed by the notification controller
type INotificationService interface {
	List(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit int) ([]models.Notification, error)
	MarkRead(ctx context.Context, userID uuid.UUID, req *dto.MarkReadRequest) (int64, error)
	UnreadCount(ctx context.Context, userID uuid.UUID) int64
}

// Notifier fans a notification out to approved accounts
type Notifier interface {
	NotifyApproved(ctx context.Context, template models.Notification, exclude uuid.UUID) (int64, error)
}

// IContentService is consumed by the content controller
type IContentService interface {
	ListJobs(ctx context.Context) ([]models.Job, error)
	CreateJob(ctx context.Context, adminID uuid.UUID, req *dto.CreateJobRequest) (*models.Job, error)
	ListGallery(ctx context.Context, category string) ([]models.GalleryItem, []string, error)
	UploadGalleryItem(ctx context.Context, adminID uuid.UUID, req *dto.GalleryUploadRequest, file *multipart.FileHeader) (*models.GalleryItem, error)
	ListNews(ctx context.Context, category string) ([]models.NewsArticle, error)
	GetNews(ctx context.Context, idOrSlug string) (*models.NewsArticle, error)
	CreateNews(ctx context.Context, adminID uuid.UUID, req *dto.CreateNewsRequest) (*models.NewsArticle, error)
}

var (
	_ IAuthService         = (*AuthService)(nil)
	_ LoginLinkIssuer      = (*AuthService)(nil)
	_ IProfileService      = (*ProfileService)(nil)
	_ IApprovalService     = (*ApprovalService)(nil)
	_ IImportService       = (*ImportService)(nil)
	_ IInviteService       = (*InviteService)(nil)
	_ IDirectoryService    = (*DirectoryService)(nil)
	_ IEventService        = (*EventService)(nil)
	_ INotificationService = (*NotificationService)(nil)
	_ Notifier             = (*NotificationService)(nil)
	_ IContentService      = (*ContentService)(nil)
)
