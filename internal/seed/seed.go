package seed

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/alumnihub/internal/pkg/auth"
)

// AdminStore creates or upgrades the bootstrap admin account
type AdminStore interface {
	EnsureAdmin(ctx context.Context, email, passwordHash, fullName string) (uuid.UUID, error)
}

// Admin describes the account created on first start
type Admin struct {
	Email    string
	Password string
	FullName string
}

// CreateDefaultData makes sure the configured admin exists and is approved.
// Without an admin email and password there is nothing to do.
func CreateDefaultData(ctx context.Context, store AdminStore, admin Admin, lgr zerolog.Logger) error {
	email := strings.ToLower(strings.TrimSpace(admin.Email))
	if email == "" || admin.Password == "" {
		lgr.Info().Msg("No admin account configured, skipping seed")
		return nil
	}

	hash, err := auth.HashPassword(admin.Password)
	if err != nil {
		lgr.Error().Err(err).Msg("Error hashing admin password")
		return err
	}

	id, err := store.EnsureAdmin(ctx, email, hash, admin.FullName)
	if err != nil {
		lgr.Error().Err(err).Str("email", email).Msg("Error creating admin account")
		return err
	}
	lgr.Info().Str("adminID", id.String()).Str("email", email).Msg("Admin account ensured")
	return nil
}
