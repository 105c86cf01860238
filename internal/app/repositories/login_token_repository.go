package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
	"github.com/yigit/alumnihub/internal/pkg/logger"
)

// LoginTokenRepository stores magic link tokens
type LoginTokenRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewLoginTokenRepository creates a new LoginTokenRepository
func NewLoginTokenRepository(db *pgxpool.Pool) *LoginTokenRepository {
	return &LoginTokenRepository{db: db, sb: psql}
}

// Create stores a new login token
func (r *LoginTokenRepository) Create(ctx context.Context, token models.LoginToken) error {
	sql, args, err := r.sb.Insert("login_tokens").
		Columns("token", "user_id", "redirect_path", "expires_at").
		Values(token.Token, token.UserID, token.RedirectPath, token.ExpiresAt).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create login token SQL")
		return fmt.Errorf("failed to build create login token query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Str("userID", token.UserID.String()).Msg("Error executing create login token query")
		return fmt.Errorf("error creating login token: %w", err)
	}
	return nil
}

// Consume marks an unused, unexpired token as used and returns it. A token can
// be consumed exactly once even under concurrent requests.
func (r *LoginTokenRepository) Consume(ctx context.Context, token string, now time.Time) (*models.LoginToken, error) {
	sql, args, err := r.sb.Update("login_tokens").
		Set("used_at", now).
		Where(squirrel.Eq{"token": token, "used_at": nil}).
		Where(squirrel.Gt{"expires_at": now}).
		Suffix("RETURNING token, user_id, redirect_path, expires_at, used_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building consume login token SQL")
		return nil, fmt.Errorf("failed to build consume login token query: %w", err)
	}

	var lt models.LoginToken
	err = r.db.QueryRow(ctx, sql, args...).Scan(&lt.Token, &lt.UserID, &lt.RedirectPath, &lt.ExpiresAt, &lt.UsedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTokenInvalid
		}
		logger.Error().Err(err).Msg("Error executing consume login token query")
		return nil, fmt.Errorf("error consuming login token: %w", err)
	}
	return &lt, nil
}

// DeleteExpired removes expired or used tokens
func (r *LoginTokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	sql, args, err := r.sb.Delete("login_tokens").
		Where(squirrel.Or{
			squirrel.Lt{"expires_at": now},
			squirrel.NotEq{"used_at": nil},
		}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building delete expired login tokens SQL")
		return 0, fmt.Errorf("failed to build delete expired login tokens query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error deleting expired login tokens")
		return 0, fmt.Errorf("error deleting expired login tokens: %w", err)
	}
	return cmdTag.RowsAffected(), nil
}
