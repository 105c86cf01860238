package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/db"
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
	"github.com/yigit/alumnihub/internal/pkg/logger"
)

// ApprovalRepository runs admin decisions on staged submissions
type ApprovalRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewApprovalRepository creates a new ApprovalRepository
func NewApprovalRepository(db *pgxpool.Pool) *ApprovalRepository {
	return &ApprovalRepository{db: db, sb: psql}
}

// WithStatusChange runs fn on one transaction. Everything fn writes through the
// StatusWriter commits together or not at all.
func (r *ApprovalRepository) WithStatusChange(ctx context.Context, fn func(ctx context.Context, w StatusWriter) error) error {
	return db.RunInTx(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		return fn(ctx, &statusTx{tx: tx})
	})
}

// statusTx implements StatusWriter over an open transaction
type statusTx struct {
	tx pgx.Tx
}

// LockStatus reads admin_flags.status FOR UPDATE. A missing row reads as
// pending with found=false.
func (w *statusTx) LockStatus(ctx context.Context, userID uuid.UUID) (models.ApprovalStatus, bool, error) {
	sql, args, err := lockStatusQuery(userID).ToSql()
	if err != nil {
		return "", false, fmt.Errorf("failed to build lock status query: %w", err)
	}
	var status models.ApprovalStatus
	err = w.tx.QueryRow(ctx, sql, args...).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.StatusPending, false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("error locking approval status: %w", err)
	}
	return status, true, nil
}

func (w *statusTx) LockStaged(ctx context.Context, userID uuid.UUID) (*models.StagedAlumniDetail, error) {
	return getStaged(ctx, w.tx, userID, true)
}

func (w *statusTx) SaveStaged(ctx context.Context, staged models.StagedAlumniDetail) error {
	sql, args, err := upsertStagedQuery(staged).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building upsert staged SQL")
		return fmt.Errorf("failed to build upsert staged query: %w", err)
	}
	if _, err := w.tx.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Str("userID", staged.UserID.String()).Msg("Error upserting staged profile")
		return fmt.Errorf("error saving staged profile: %w", err)
	}
	return nil
}

func (w *statusTx) UpdateProfile(ctx context.Context, userID uuid.UUID, fullName string, avatarURL *string) error {
	cmdTag, err := w.tx.Exec(ctx, `
		UPDATE profiles SET full_name = $2, avatar_url = COALESCE($3, avatar_url), updated_at = NOW()
		WHERE id = $1`, userID, fullName, avatarURL)
	if err != nil {
		return fmt.Errorf("error updating profile: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

func (w *statusTx) PublishLive(ctx context.Context, userID uuid.UUID, fields models.AlumniFields) error {
	return upsertLive(ctx, w.tx, userID, fields)
}

func (w *statusTx) SetStatus(ctx context.Context, userID uuid.UUID, status models.ApprovalStatus) error {
	sql, args, err := setStatusQuery(userID, status).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build set status query: %w", err)
	}
	if _, err := w.tx.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Str("userID", userID.String()).Str("status", string(status)).Msg("Error setting approval status")
		return fmt.Errorf("error setting approval status: %w", err)
	}
	return nil
}

func (w *statusTx) LogTransition(ctx context.Context, t models.ApprovalTransition) error {
	sql, args, err := psql.Insert("approval_transitions").
		Columns("user_id", "from_status", "to_status", "actor_id", "reason").
		Values(t.UserID, t.FromStatus, t.ToStatus, t.ActorID, t.Reason).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build transition query: %w", err)
	}
	if _, err := w.tx.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error writing transition: %w", err)
	}
	return nil
}

func (w *statusTx) Notify(ctx context.Context, n *models.Notification) error {
	return insertNotification(ctx, w.tx, n)
}

func lockStatusQuery(userID uuid.UUID) squirrel.SelectBuilder {
	return psql.Select("status").
		From("admin_flags").
		Where(squirrel.Eq{"user_id": userID}).
		Suffix("FOR UPDATE")
}

func setStatusQuery(userID uuid.UUID, status models.ApprovalStatus) squirrel.InsertBuilder {
	return psql.Insert("admin_flags").
		Columns("user_id", "status").
		Values(userID, status).
		Suffix("ON CONFLICT (user_id) DO UPDATE SET status = EXCLUDED.status, updated_at = NOW()")
}

func upsertStagedQuery(staged models.StagedAlumniDetail) squirrel.InsertBuilder {
	cols := append(append([]string{"user_id"}, fieldColumns...), identifierColumns...)
	vals := append(append([]any{staged.UserID}, fieldValues(staged.AlumniFields)...), identifierValues(staged.Identifiers)...)
	return psql.Insert("staged_alumni_details").
		Columns(append(cols, "updated_at")...).
		Values(append(vals, squirrel.Expr("NOW()"))...).
		Suffix("ON CONFLICT (user_id) DO UPDATE SET " + excludedAssignments(append(cols[1:], "updated_at")))
}

// ListPending returns pending accounts that have a staged submission, oldest first
func (r *ApprovalRepository) ListPending(ctx context.Context) ([]models.PendingSubmission, error) {
	cols := append([]string{"u.id", "u.email", "p.full_name", "p.avatar_url"}, selectColumns("s", fieldColumns)...)
	cols = append(cols, selectColumns("s", identifierColumns)...)
	sql, args, err := r.sb.Select(append(cols, "s.updated_at")...).
		From("admin_flags f").
		Join("users u ON u.id = f.user_id").
		Join("profiles p ON p.id = f.user_id").
		Join("staged_alumni_details s ON s.user_id = f.user_id").
		Where(squirrel.Eq{"f.status": models.StatusPending}).
		OrderBy("s.updated_at ASC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list pending SQL")
		return nil, fmt.Errorf("failed to build list pending query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error querying pending submissions")
		return nil, fmt.Errorf("error listing pending submissions: %w", err)
	}
	defer rows.Close()

	pending := []models.PendingSubmission{}
	for rows.Next() {
		var p models.PendingSubmission
		dest := append([]any{&p.UserID, &p.Email, &p.FullName, &p.AvatarURL}, fieldDest(&p.Staged.AlumniFields)...)
		dest = append(dest, identifierDest(&p.Staged.Identifiers)...)
		if err := rows.Scan(append(dest, &p.Staged.UpdatedAt)...); err != nil {
			return nil, fmt.Errorf("error scanning pending submission: %w", err)
		}
		p.Staged.UserID = p.UserID
		pending = append(pending, p)
	}
	return pending, rows.Err()
}

// Transitions returns the audit log of an account, newest first
func (r *ApprovalRepository) Transitions(ctx context.Context, userID uuid.UUID) ([]models.ApprovalTransition, error) {
	sql, args, err := r.sb.Select("id", "user_id", "from_status", "to_status", "actor_id", "reason", "created_at").
		From("approval_transitions").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build transitions query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing transitions: %w", err)
	}
	defer rows.Close()

	out := []models.ApprovalTransition{}
	for rows.Next() {
		var t models.ApprovalTransition
		if err := rows.Scan(&t.ID, &t.UserID, &t.FromStatus, &t.ToStatus, &t.ActorID, &t.Reason, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning transition: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
