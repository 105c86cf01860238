package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

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

// AccountRepository handles users, profiles and admin_flags
type AccountRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewAccountRepository creates a new AccountRepository
func NewAccountRepository(db *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{db: db, sb: psql}
}

// CreateAccount inserts the user, its profile and a pending admin flag in one transaction
func (r *AccountRepository) CreateAccount(ctx context.Context, email string, passwordHash *string, fullName string) (*models.Account, error) {
	account := &models.Account{Email: strings.ToLower(strings.TrimSpace(email)), PasswordHash: passwordHash}

	err := db.RunInTx(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := r.sb.Insert("users").
			Columns("email", "password_hash").
			Values(account.Email, passwordHash).
			Suffix("RETURNING id, created_at").
			ToSql()
		if err != nil {
			logger.Error().Err(err).Msg("Error building create user SQL")
			return fmt.Errorf("failed to build create user query: %w", err)
		}
		if err := tx.QueryRow(ctx, sql, args...).Scan(&account.ID, &account.CreatedAt); err != nil {
			if dberrors.IsDuplicateConstraintError(err, "users_email_key") {
				return apperrors.ErrEmailAlreadyExists
			}
			logger.Error().Err(err).Str("email", account.Email).Msg("Error executing create user query")
			return fmt.Errorf("error creating user: %w", err)
		}

		sql, args, err = r.sb.Insert("profiles").
			Columns("id", "full_name").
			Values(account.ID, strings.TrimSpace(fullName)).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build create profile query: %w", err)
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("error creating profile: %w", err)
		}

		sql, args, err = r.sb.Insert("admin_flags").
			Columns("user_id", "status").
			Values(account.ID, models.StatusPending).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build create admin flag query: %w", err)
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("error creating admin flag: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return account, nil
}

// GetByEmail retrieves an account by case-insensitive email
func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	return r.getAccount(ctx, squirrel.Expr("LOWER(email) = LOWER(?)", strings.TrimSpace(email)))
}

// GetByID retrieves an account by id
func (r *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	return r.getAccount(ctx, squirrel.Eq{"id": id})
}

func (r *AccountRepository) getAccount(ctx context.Context, where squirrel.Sqlizer) (*models.Account, error) {
	sql, args, err := r.sb.Select("id", "email", "password_hash", "created_at").
		From("users").
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get account SQL")
		return nil, fmt.Errorf("failed to build get account query: %w", err)
	}

	var account models.Account
	err = r.db.QueryRow(ctx, sql, args...).Scan(&account.ID, &account.Email, &account.PasswordHash, &account.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		logger.Error().Err(err).Msg("Error scanning account row")
		return nil, fmt.Errorf("error retrieving account: %w", err)
	}
	return &account, nil
}

// GetProfile retrieves the profile row of an account
func (r *AccountRepository) GetProfile(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	sql, args, err := r.sb.Select("id", "full_name", "avatar_url", "is_admin", "created_at", "updated_at").
		From("profiles").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get profile SQL")
		return nil, fmt.Errorf("failed to build get profile query: %w", err)
	}

	var p models.Profile
	err = r.db.QueryRow(ctx, sql, args...).Scan(&p.ID, &p.FullName, &p.AvatarURL, &p.IsAdmin, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		logger.Error().Err(err).Str("userID", id.String()).Msg("Error scanning profile row")
		return nil, fmt.Errorf("error retrieving profile: %w", err)
	}
	return &p, nil
}

// EnsureAdmin creates the account when missing and marks it admin and approved.
// An existing password is kept.
func (r *AccountRepository) EnsureAdmin(ctx context.Context, email, passwordHash, fullName string) (uuid.UUID, error) {
	account, err := r.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, apperrors.ErrUserNotFound):
		account, err = r.CreateAccount(ctx, email, &passwordHash, fullName)
		if err != nil {
			return uuid.Nil, err
		}
	case err != nil:
		return uuid.Nil, err
	}

	err = db.RunInTx(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `UPDATE profiles SET is_admin = TRUE, updated_at = NOW() WHERE id = $1`, account.ID); err != nil {
			return fmt.Errorf("error promoting admin profile: %w", err)
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO admin_flags (user_id, status) VALUES ($1, $2)
			ON CONFLICT (user_id) DO UPDATE SET status = EXCLUDED.status, updated_at = NOW()`,
			account.ID, models.StatusApproved)
		if err != nil {
			return fmt.Errorf("error approving admin: %w", err)
		}
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	return account.ID, nil
}

// IsAdmin reads profiles.is_admin; a missing profile is not an admin
func (r *AccountRepository) IsAdmin(ctx context.Context, id uuid.UUID) (bool, error) {
	var isAdmin bool
	err := r.db.QueryRow(ctx, `SELECT is_admin FROM profiles WHERE id = $1`, id).Scan(&isAdmin)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("error reading admin flag: %w", err)
	}
	return isAdmin, nil
}

// ApprovalStatus reads admin_flags.status; a missing row reads as pending
func (r *AccountRepository) ApprovalStatus(ctx context.Context, id uuid.UUID) (models.ApprovalStatus, error) {
	var status models.ApprovalStatus
	err := r.db.QueryRow(ctx, `SELECT status FROM admin_flags WHERE user_id = $1`, id).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.StatusPending, nil
	}
	if err != nil {
		return models.StatusPending, fmt.Errorf("error reading approval status: %w", err)
	}
	return status, nil
}

// HasStagedProfile reports whether a staged submission row exists
func (r *AccountRepository) HasStagedProfile(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM staged_alumni_details WHERE user_id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error reading staged profile: %w", err)
	}
	return exists, nil
}
