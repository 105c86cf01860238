package repositories

import (
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
)

// psql is the shared statement builder; every repository uses $n placeholders
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// containsPattern is an ILIKE substring pattern; wildcards typed by the user match literally
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// Repositories holds all the repository instances
type Repositories struct {
	AccountRepository      *AccountRepository
	TokenRepository        *TokenRepository
	LoginTokenRepository   *LoginTokenRepository
	ProfileRepository      *ProfileRepository
	ApprovalRepository     *ApprovalRepository
	ImportRepository       *ImportRepository
	InviteRepository       *InviteRepository
	DirectoryRepository    *DirectoryRepository
	EventRepository        *EventRepository
	NotificationRepository *NotificationRepository
	ContentRepository      *ContentRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		AccountRepository:      NewAccountRepository(db),
		TokenRepository:        NewTokenRepository(db),
		LoginTokenRepository:   NewLoginTokenRepository(db),
		ProfileRepository:      NewProfileRepository(db),
		ApprovalRepository:     NewApprovalRepository(db),
		ImportRepository:       NewImportRepository(db),
		InviteRepository:       NewInviteRepository(db),
		DirectoryRepository:    NewDirectoryRepository(db),
		EventRepository:        NewEventRepository(db),
		NotificationRepository: NewNotificationRepository(db),
		ContentRepository:      NewContentRepository(db),
	}
}
