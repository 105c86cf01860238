package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/db"
	"github.com/yigit/alumnihub/internal/pkg/logger"
)

// NotificationRepository is the per-account inbox
type NotificationRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(db *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{db: db, sb: psql}
}

func insertNotification(ctx context.Context, q db.Querier, n *models.Notification) error {
	sql, args, err := psql.Insert("notifications").
		Columns("user_id", "type", "title", "message", "related_event_id").
		Values(n.UserID, n.Type, n.Title, n.Message, n.RelatedEventID).
		Suffix("RETURNING id, is_read, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create notification query: %w", err)
	}
	if err := q.QueryRow(ctx, sql, args...).Scan(&n.ID, &n.IsRead, &n.CreatedAt); err != nil {
		logger.Error().Err(err).Str("userID", n.UserID.String()).Msg("Error creating notification")
		return fmt.Errorf("error creating notification: %w", err)
	}
	return nil
}

// Create inserts one notification
func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	return insertNotification(ctx, r.db, n)
}

// CreateForApproved fans a notification out to every approved account except one
func (r *NotificationRepository) CreateForApproved(ctx context.Context, template models.Notification, exclude uuid.UUID) (int64, error) {
	selectApproved := r.sb.Select("user_id").
		Column("?", template.Type).
		Column("?", template.Title).
		Column("?", template.Message).
		Column("?::uuid", template.RelatedEventID).
		From("admin_flags").
		Where(squirrel.Eq{"status": models.StatusApproved}).
		Where(squirrel.NotEq{"user_id": exclude})

	sql, args, err := r.sb.Insert("notifications").
		Columns("user_id", "type", "title", "message", "related_event_id").
		Select(selectApproved).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building fan-out notification SQL")
		return 0, fmt.Errorf("failed to build fan-out notification query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error fanning out notification")
		return 0, fmt.Errorf("error creating notifications: %w", err)
	}
	return cmdTag.RowsAffected(), nil
}

// List returns an account's notifications, newest first
func (r *NotificationRepository) List(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit int) ([]models.Notification, error) {
	builder := r.sb.Select("id", "user_id", "type", "title", "message", "related_event_id", "is_read", "created_at").
		From("notifications").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		Limit(uint64(limit))
	if unreadOnly {
		builder = builder.Where(squirrel.Eq{"is_read": false})
	}
	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list notifications query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("userID", userID.String()).Msg("Error listing notifications")
		return nil, fmt.Errorf("error listing notifications: %w", err)
	}
	defer rows.Close()

	out := []models.Notification{}
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &n.RelatedEventID, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning notification: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// MarkRead marks one notification read; it only touches the caller's own rows
func (r *NotificationRepository) MarkRead(ctx context.Context, userID, id uuid.UUID) (int64, error) {
	return r.markRead(ctx, squirrel.Eq{"user_id": userID, "id": id})
}

// MarkAllRead marks every unread notification of the account read
func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	return r.markRead(ctx, squirrel.Eq{"user_id": userID, "is_read": false})
}

func (r *NotificationRepository) markRead(ctx context.Context, where squirrel.Eq) (int64, error) {
	sql, args, err := r.sb.Update("notifications").Set("is_read", true).Where(where).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build mark read query: %w", err)
	}
	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("error marking notifications read: %w", err)
	}
	return cmdTag.RowsAffected(), nil
}

// UnreadCount counts unread notifications
func (r *NotificationRepository) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND NOT is_read`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("error counting unread notifications: %w", err)
	}
	return n, nil
}
