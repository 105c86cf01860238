package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/db"
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
	"github.com/yigit/alumnihub/internal/pkg/dberrors"
	"github.com/yigit/alumnihub/internal/pkg/logger"
)

// ErrInviteCodeCollision is returned when a freshly generated code already exists
var ErrInviteCodeCollision = errors.New("invite code collision")

const inviteColumns = "id, imported_alumni_id, code, status, redeemed_by, redeemed_at, created_by, created_at"

// InviteRepository issues and redeems invite codes
type InviteRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewInviteRepository creates a new InviteRepository
func NewInviteRepository(db *pgxpool.Pool) *InviteRepository {
	return &InviteRepository{db: db, sb: psql}
}

func scanInvite(row pgx.Row) (*models.Invite, error) {
	var inv models.Invite
	err := row.Scan(&inv.ID, &inv.ImportedAlumniID, &inv.Code, &inv.Status, &inv.RedeemedBy, &inv.RedeemedAt, &inv.CreatedBy, &inv.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// Upsert issues a code for an imported row. An unredeemed invite gets a fresh
// code; a redeemed one is left untouched and reported as already redeemed.
func (r *InviteRepository) Upsert(ctx context.Context, importedID uuid.UUID, code string, createdBy uuid.UUID) (*models.Invite, *models.ImportedAlumni, error) {
	var (
		invite   *models.Invite
		imported *models.ImportedAlumni
	)

	err := db.RunInTx(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := r.sb.Select(importedSelectColumns()...).
			From("imported_alumni i").
			Where(squirrel.Eq{"i.id": importedID}).
			Suffix("FOR UPDATE").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build lock imported query: %w", err)
		}
		imported, err = scanImported(tx.QueryRow(ctx, sql, args...))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewResourceNotFoundError("Imported alumni not found")
			}
			return fmt.Errorf("error locking imported alumni: %w", err)
		}
		if imported.InviteStatus == models.ImportInviteAccepted {
			return apperrors.ErrInviteAlreadyRedeemed
		}

		sql, args, err = r.sb.Insert("invites").
			Columns("imported_alumni_id", "code", "status", "created_by").
			Values(importedID, code, models.InviteSent, createdBy).
			Suffix(`ON CONFLICT (imported_alumni_id) DO UPDATE
				SET code = EXCLUDED.code, created_by = EXCLUDED.created_by, created_at = NOW()
				WHERE invites.status = 'sent'
				RETURNING ` + inviteColumns).
			ToSql()
		if err != nil {
			logger.Error().Err(err).Msg("Error building upsert invite SQL")
			return fmt.Errorf("failed to build upsert invite query: %w", err)
		}
		invite, err = scanInvite(tx.QueryRow(ctx, sql, args...))
		if err != nil {
			switch {
			case errors.Is(err, pgx.ErrNoRows):
				return apperrors.ErrInviteAlreadyRedeemed
			case dberrors.IsDuplicateConstraintError(err, "invites_code_key"):
				return ErrInviteCodeCollision
			}
			logger.Error().Err(err).Str("importedID", importedID.String()).Msg("Error upserting invite")
			return fmt.Errorf("error upserting invite: %w", err)
		}

		if _, err := tx.Exec(ctx, `UPDATE imported_alumni SET invite_status = $2 WHERE id = $1`, importedID, models.ImportInviteSent); err != nil {
			return fmt.Errorf("error marking invite sent: %w", err)
		}
		imported.InviteStatus = models.ImportInviteSent
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return invite, imported, nil
}

// redeemInviteQuery only matches a code still in the sent state
func redeemInviteQuery(code string, userID uuid.UUID, now time.Time) squirrel.UpdateBuilder {
	return psql.Update("invites").
		Set("status", models.InviteRedeemed).
		Set("redeemed_by", userID).
		Set("redeemed_at", now).
		Where(squirrel.Eq{"code": code, "status": models.InviteSent}).
		Suffix("RETURNING " + inviteColumns)
}

// Redeem claims an invite for userID. Only one caller can ever move a code from
// sent to redeemed.
func (r *InviteRepository) Redeem(ctx context.Context, code string, userID uuid.UUID, now time.Time) (*models.Invite, error) {
	var invite *models.Invite

	err := db.RunInTx(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := redeemInviteQuery(code, userID, now).ToSql()
		if err != nil {
			logger.Error().Err(err).Msg("Error building redeem invite SQL")
			return fmt.Errorf("failed to build redeem invite query: %w", err)
		}

		invite, err = scanInvite(tx.QueryRow(ctx, sql, args...))
		if errors.Is(err, pgx.ErrNoRows) {
			var exists bool
			if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM invites WHERE code = $1)`, code).Scan(&exists); err != nil {
				return fmt.Errorf("error checking invite code: %w", err)
			}
			if !exists {
				return apperrors.ErrInviteNotFound
			}
			return apperrors.ErrInviteAlreadyRedeemed
		}
		if err != nil {
			logger.Error().Err(err).Msg("Error redeeming invite")
			return fmt.Errorf("error redeeming invite: %w", err)
		}

		_, err = tx.Exec(ctx, `UPDATE imported_alumni SET invite_status = $2, linked_user_id = $3 WHERE id = $1`,
			invite.ImportedAlumniID, models.ImportInviteAccepted, userID)
		if err != nil {
			return fmt.Errorf("error linking imported alumni: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return invite, nil
}

// GetByCode returns an invite with the imported row it was issued for
func (r *InviteRepository) GetByCode(ctx context.Context, code string) (*models.Invite, *models.ImportedAlumni, error) {
	sql, args, err := r.sb.Select(inviteColumns).
		From("invites").
		Where(squirrel.Eq{"code": code}).
		ToSql()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build get invite query: %w", err)
	}

	invite, err := scanInvite(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperrors.ErrInviteNotFound
		}
		return nil, nil, fmt.Errorf("error retrieving invite: %w", err)
	}

	sql, args, err = r.sb.Select(importedSelectColumns()...).
		From("imported_alumni i").
		Where(squirrel.Eq{"i.id": invite.ImportedAlumniID}).
		ToSql()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build get imported query: %w", err)
	}
	imported, err := scanImported(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, nil, fmt.Errorf("error retrieving invited alumni: %w", err)
	}
	return invite, imported, nil
}
