package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	appauth "github.com/yigit/alumnihub/internal/app/auth"
	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/app/models/dto"
	"github.com/yigit/alumnihub/internal/app/repositories"
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
	"github.com/yigit/alumnihub/internal/pkg/auth"
	"github.com/yigit/alumnihub/internal/pkg/email"
	"github.com/yigit/alumnihub/internal/pkg/validation"
)

const loginTokenBytes = 32

// AuthService handles authentication operations
type AuthService struct {
	accountRepo    repositories.IAccountRepository
	tokenRepo      repositories.ITokenRepository
	loginTokenRepo repositories.ILoginTokenRepository
	authz          *appauth.AuthorizationService
	jwtService     *auth.JWTService
	emailService   email.EmailService
	siteURL        string
	magicLinkTTL   time.Duration
	logger         zerolog.Logger
	now            func() time.Time
}

// NewAuthService creates a new AuthService
func NewAuthService(
	accountRepo repositories.IAccountRepository,
	tokenRepo repositories.ITokenRepository,
	loginTokenRepo repositories.ILoginTokenRepository,
	authz *appauth.AuthorizationService,
	jwtService *auth.JWTService,
	emailService email.EmailService,
	siteURL string,
	magicLinkTTL time.Duration,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		accountRepo:    accountRepo,
		tokenRepo:      tokenRepo,
		loginTokenRepo: loginTokenRepo,
		authz:          authz,
		jwtService:     jwtService,
		emailService:   emailService,
		siteURL:        strings.TrimRight(siteURL, "/"),
		magicLinkTTL:   magicLinkTTL,
		logger:         logger,
		now:            time.Now,
	}
}

// Register creates a password account. The account starts pending until an
// admin approves its profile.
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	req.FullName = strings.TrimSpace(req.FullName)
	if !validation.ValidEmail(req.Email) {
		return nil, apperrors.NewValidationError("email", "Invalid email address")
	}
	if !validation.ValidPassword(req.Password) {
		return nil, apperrors.NewValidationError("password", "Password must be at least 8 characters and contain a letter and a digit")
	}
	if !validation.ValidFullName(req.FullName) {
		return nil, apperrors.NewValidationError("fullName", "Full name must be between 2 and 120 characters")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	account, err := s.accountRepo.CreateAccount(ctx, req.Email, &hash, req.FullName)
	if err != nil {
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("account creation error: %w", err)
	}

	s.logger.Info().Str("userID", account.ID.String()).Msg("Account registered")
	return s.authResponse(ctx, account)
}

// Login authenticates a password account
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return nil, apperrors.ErrInvalidCredentials
	}

	account, err := s.accountRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login lookup error: %w", err)
	}

	if account.PasswordHash == nil || !auth.CheckPassword(*account.PasswordHash, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	return s.authResponse(ctx, account)
}

// RefreshToken rotates a refresh token: the old one is revoked and a new pair issued
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return nil, apperrors.ErrTokenInvalid
	}

	userID, err := s.tokenRepo.GetTokenByValue(ctx, refreshToken)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrTokenNotFound, apperrors.ErrTokenExpired, apperrors.ErrTokenRevoked) {
			return nil, err
		}
		return nil, fmt.Errorf("token validation error: %w", err)
	}

	account, err := s.accountRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	if err := s.tokenRepo.RevokeToken(ctx, refreshToken); err != nil {
		return nil, fmt.Errorf("failed to revoke old token: %w", err)
	}

	return s.generateTokenResponse(ctx, account)
}

// Logout revokes a refresh token. An unknown token is not an error.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if strings.TrimSpace(refreshToken) == "" {
		return nil
	}
	if err := s.tokenRepo.RevokeToken(ctx, refreshToken); err != nil && !errors.Is(err, apperrors.ErrTokenNotFound) {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// RequestMagicLink emails a login link to an existing account. Unknown addresses
// are ignored silently so the endpoint cannot be used to probe for members.
func (s *AuthService) RequestMagicLink(ctx context.Context, emailAddr, next string) error {
	account, err := s.accountRepo.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			s.logger.Debug().Msg("Magic link requested for unknown email")
			return nil
		}
		return fmt.Errorf("magic link lookup error: %w", err)
	}
	return s.IssueLoginLink(ctx, account, next)
}

// IssueLoginLink stores a single-use token and emails the callback link
func (s *AuthService) IssueLoginLink(ctx context.Context, account *models.Account, next string) error {
	token, err := auth.GenerateOpaqueToken(loginTokenBytes)
	if err != nil {
		return err
	}

	redirect := validation.SafeRedirectPath(next, "/dashboard")
	err = s.loginTokenRepo.Create(ctx, models.LoginToken{
		Token:        token,
		UserID:       account.ID,
		RedirectPath: redirect,
		ExpiresAt:    s.now().Add(s.magicLinkTTL),
	})
	if err != nil {
		return fmt.Errorf("failed to store login token: %w", err)
	}

	query := url.Values{}
	query.Set("token", token)
	query.Set("next", redirect)
	link := s.siteURL + "/auth/callback?" + query.Encode()

	if err := s.emailService.SendMagicLinkEmail(account.Email, link); err != nil {
		s.logger.Error().Err(err).Str("userID", account.ID.String()).Msg("Failed to send magic link email")
		return fmt.Errorf("failed to send login link: %w", err)
	}
	return nil
}

// ConsumeMagicLink redeems a login token once and returns the account and the
// relative path to continue to.
func (s *AuthService) ConsumeMagicLink(ctx context.Context, token string) (uuid.UUID, string, error) {
	if strings.TrimSpace(token) == "" {
		return uuid.Nil, "", apperrors.ErrTokenInvalid
	}

	lt, err := s.loginTokenRepo.Consume(ctx, token, s.now())
	if err != nil {
		return uuid.Nil, "", err
	}
	return lt.UserID, validation.SafeRedirectPath(lt.RedirectPath, "/dashboard"), nil
}

// GetAccount returns the basic account payload for the current user
func (s *AuthService) GetAccount(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error) {
	account, err := s.accountRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.userResponse(ctx, account), nil
}

func (s *AuthService) userResponse(ctx context.Context, account *models.Account) *dto.UserResponse {
	user := &dto.UserResponse{ID: account.ID.String(), Email: account.Email}
	profile, err := s.accountRepo.GetProfile(ctx, account.ID)
	if err != nil {
		s.logger.Warn().Err(err).Str("userID", account.ID.String()).Msg("Could not load profile for account")
		return user
	}
	user.FullName = profile.FullName
	user.AvatarURL = profile.AvatarURL
	return user
}

func (s *AuthService) authResponse(ctx context.Context, account *models.Account) (*dto.AuthResponse, error) {
	token, err := s.generateTokenResponse(ctx, account)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{
		Token:  *token,
		User:   *s.userResponse(ctx, account),
		Access: s.authz.Resolve(ctx, account.ID),
	}, nil
}

// generateTokenResponse creates a token pair and persists the refresh token
func (s *AuthService) generateTokenResponse(ctx context.Context, account *models.Account) (*dto.TokenResponse, error) {
	pair, err := s.jwtService.GenerateTokenPair(account.ID, account.Email)
	if err != nil {
		return nil, fmt.Errorf("token generation error: %w", err)
	}

	if err := s.tokenRepo.CreateToken(ctx, pair.RefreshToken, account.ID, pair.RefreshExpiry); err != nil {
		return nil, fmt.Errorf("token saving error: %w", err)
	}

	return &dto.TokenResponse{
		AccessToken:           pair.AccessToken,
		TokenType:             "Bearer",
		ExpiresIn:             pair.ExpiresIn,
		RefreshToken:          pair.RefreshToken,
		RefreshTokenExpiresIn: pair.RefreshExpiresIn,
	}, nil
}
