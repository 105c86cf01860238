package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/yigit/alumnihub/internal/app/models"
)

// IAccountRepository manages accounts, profiles and the access flags read on every request
type IAccountRepository interface {
	CreateAccount(ctx context.Context, email string, passwordHash *string, fullName string) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error)
	GetProfile(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	EnsureAdmin(ctx context.Context, email, passwordHash, fullName string) (uuid.UUID, error)

	IsAdmin(ctx context.Context, id uuid.UUID) (bool, error)
	ApprovalStatus(ctx context.Context, id uuid.UUID) (models.ApprovalStatus, error)
	HasStagedProfile(ctx context.Context, id uuid.UUID) (bool, error)
}

// ITokenRepository stores API refresh tokens
type ITokenRepository interface {
	CreateToken(ctx context.Context, token string, userID uuid.UUID, expiryDate time.Time) error
	GetTokenByValue(ctx context.Context, token string) (uuid.UUID, error)
	RevokeToken(ctx context.Context, token string) error
}

// ILoginTokenRepository stores single-use magic link tokens
type ILoginTokenRepository interface {
	Create(ctx context.Context, token models.LoginToken) error
	Consume(ctx context.Context, token string, now time.Time) (*models.LoginToken, error)
}

// IProfileRepository reads and writes staged and live profile data
type IProfileRepository interface {
	GetStaged(ctx context.Context, userID uuid.UUID) (*models.StagedAlumniDetail, error)
	GetLive(ctx context.Context, userID uuid.UUID) (*models.AlumniDetail, error)
	GetChildren(ctx context.Context, userID uuid.UUID) ([]models.Education, []models.WorkHistory, []models.Skill, error)
	UpdateLive(ctx context.Context, userID uuid.UUID, fullName string, fields models.AlumniFields, edu []models.Education, work []models.WorkHistory, skills []string) error
	UpdateAvatar(ctx context.Context, userID uuid.UUID, avatarURL string) (*string, error)
	SetFullNameIfEmpty(ctx context.Context, userID uuid.UUID, fullName string) error
}

// StatusWriter is the set of reads and writes an approval status change makes.
// Lock* reads hold their rows until the surrounding transaction ends.
type StatusWriter interface {
	LockStatus(ctx context.Context, userID uuid.UUID) (status models.ApprovalStatus, found bool, err error)
	LockStaged(ctx context.Context, userID uuid.UUID) (*models.StagedAlumniDetail, error)
	SaveStaged(ctx context.Context, staged models.StagedAlumniDetail) error
	UpdateProfile(ctx context.Context, userID uuid.UUID, fullName string, avatarURL *string) error
	PublishLive(ctx context.Context, userID uuid.UUID, fields models.AlumniFields) error
	SetStatus(ctx context.Context, userID uuid.UUID, status models.ApprovalStatus) error
	LogTransition(ctx context.Context, t models.ApprovalTransition) error
	Notify(ctx context.Context, n *models.Notification) error
}

// IApprovalRepository owns the approval flag, its audit log and the review queue
type IApprovalRepository interface {
	WithStatusChange(ctx context.Context, fn func(ctx context.Context, w StatusWriter) error) error
	ListPending(ctx context.Context) ([]models.PendingSubmission, error)
	Transitions(ctx context.Context, userID uuid.UUID) ([]models.ApprovalTransition, error)
}

// IImportRepository persists import batches and imported alumni
type IImportRepository interface {
	CommitBatch(ctx context.Context, batch models.ImportBatch, rows []models.ImportRow) (uuid.UUID, error)
	CreateManual(ctx context.Context, uploadedBy uuid.UUID, externalID string, row models.ImportRow) (uuid.UUID, error)
	ListImported(ctx context.Context, filter models.ImportedFilter) ([]models.ImportedAlumni, int64, error)
	ListBatches(ctx context.Context) ([]models.ImportBatch, error)
	GetImported(ctx context.Context, id uuid.UUID) (*models.ImportedAlumni, error)
	GetByLinkedUser(ctx context.Context, userID uuid.UUID) (*models.ImportedAlumni, error)
}

// IInviteRepository issues and redeems invite codes
type IInviteRepository interface {
	Upsert(ctx context.Context, importedID uuid.UUID, code string, createdBy uuid.UUID) (*models.Invite, *models.ImportedAlumni, error)
	Redeem(ctx context.Context, code string, userID uuid.UUID, now time.Time) (*models.Invite, error)
	GetByCode(ctx context.Context, code string) (*models.Invite, *models.ImportedAlumni, error)
}

// IDirectoryRepository serves the read side of approved alumni
type IDirectoryRepository interface {
	Search(ctx context.Context, filter models.DirectoryFilter) ([]models.DirectoryEntry, int64, error)
	Stats(ctx context.Context) (*models.DirectoryStats, error)
	Detail(ctx context.Context, userID uuid.UUID) (*models.AlumniProfile, error)
	AdminList(ctx context.Context, offset uint64, limit int) ([]models.DirectoryEntry, int64, error)
	AdminStats(ctx context.Context) (*models.AdminStats, error)
	CountApproved(ctx context.Context) (int64, error)
	ApprovedIDs(ctx context.Context) ([]uuid.UUID, error)
	ExportRows(ctx context.Context, ids []uuid.UUID) ([]models.ExportRow, error)
}

// IEventRepository manages events and registrations
type IEventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	Register(ctx context.Context, eventID, userID uuid.UUID) (*models.EventAttendee, error)
	ListPublished(ctx context.Context) ([]models.Event, error)
	Upcoming(ctx context.Context, now time.Time, limit int) ([]models.Event, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error)
	RecentAttendees(ctx context.Context, eventID uuid.UUID, limit int) ([]models.EventAttendee, error)
	IsRegistered(ctx context.Context, eventID, userID uuid.UUID) (bool, error)
}

// INotificationRepository is the per-account inbox
type INotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	CreateForApproved(ctx context.Context, template models.Notification, exclude uuid.UUID) (int64, error)
	List(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit int) ([]models.Notification, error)
	MarkRead(ctx context.Context, userID, id uuid.UUID) (int64, error)
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
}

// IContentRepository serves jobs, gallery and news
type IContentRepository interface {
	ListJobs(ctx context.Context, now time.Time) ([]models.Job, error)
	CreateJob(ctx context.Context, job *models.Job) error
	ListGallery(ctx context.Context, category string) ([]models.GalleryItem, error)
	GalleryCategories(ctx context.Context) ([]string, error)
	CreateGalleryItem(ctx context.Context, item *models.GalleryItem) error
	ListNews(ctx context.Context, now time.Time, category string) ([]models.NewsArticle, error)
	GetNews(ctx context.Context, idOrSlug string, now time.Time) (*models.NewsArticle, error)
	CreateNews(ctx context.Context, article *models.NewsArticle) error
}

var (
	_ IAccountRepository      = (*AccountRepository)(nil)
	_ ITokenRepository        = (*TokenRepository)(nil)
	_ ILoginTokenRepository   = (*LoginTokenRepository)(nil)
	_ IProfileRepository      = (*ProfileRepository)(nil)
	_ IApprovalRepository     = (*ApprovalRepository)(nil)
	_ IImportRepository       = (*ImportRepository)(nil)
	_ IInviteRepository       = (*InviteRepository)(nil)
	_ IDirectoryRepository    = (*DirectoryRepository)(nil)
	_ IEventRepository        = (*EventRepository)(nil)
	_ INotificationRepository = (*NotificationRepository)(nil)
	_ IContentRepository      = (*ContentRepository)(nil)
)
