// Package workers holds background loops started with the server
package workers

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// DefaultCleanupInterval is how often expired tokens are purged
const DefaultCleanupInterval = time.Hour

// RefreshTokenPurger deletes expired and long-revoked refresh tokens
type RefreshTokenPurger interface {
	CleanupExpiredTokens(ctx context.Context) (int64, error)
}

// LoginTokenPurger deletes expired or used magic link tokens
type LoginTokenPurger interface {
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// TokenCleanup periodically removes tokens that can no longer be used
type TokenCleanup struct {
	refreshTokens RefreshTokenPurger
	loginTokens   LoginTokenPurger
	interval      time.Duration
	logger        zerolog.Logger
	now           func() time.Time
}

// NewTokenCleanup creates a TokenCleanup; a non-positive interval uses DefaultCleanupInterval
func NewTokenCleanup(refreshTokens RefreshTokenPurger, loginTokens LoginTokenPurger, interval time.Duration, logger zerolog.Logger) *TokenCleanup {
	if interval <= 0 {
		interval = DefaultCleanupInterval
	}
	return &TokenCleanup{
		refreshTokens: refreshTokens,
		loginTokens:   loginTokens,
		interval:      interval,
		logger:        logger,
		now:           time.Now,
	}
}

// Run purges once immediately and then on every tick until ctx is done
func (w *TokenCleanup) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.RunOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce does a single purge of both token tables. Failures are logged and
// retried on the next tick.
func (w *TokenCleanup) RunOnce(ctx context.Context) {
	refreshed, err := w.refreshTokens.CleanupExpiredTokens(ctx)
	if err != nil {
		w.logger.Error().Err(err).Msg("Refresh token cleanup failed")
	}
	logins, err := w.loginTokens.DeleteExpired(ctx, w.now())
	if err != nil {
		w.logger.Error().Err(err).Msg("Login token cleanup failed")
	}
	w.logger.Debug().Int64("refreshTokens", refreshed).Int64("loginTokens", logins).Msg("Token cleanup finished")
}
