package dto

import "github.com/yigit/alumnihub/internal/app/models"

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest creates a password account
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email,max=254"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	FullName string `json:"fullName" binding:"required,min=2,max=120"`
}

// TokenResponse represents JWT token information
type TokenResponse struct {
	AccessToken           string `json:"accessToken"`
	TokenType             string `json:"tokenType" example:"Bearer"`
	ExpiresIn             int64  `json:"expiresIn"`
	RefreshToken          string `json:"refreshToken,omitempty"`
	RefreshTokenExpiresIn int64  `json:"refreshTokenExpiresIn,omitempty"`
}

// RefreshTokenRequest represents refresh token request
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// LogoutRequest revokes the refresh token when given
type LogoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// MagicLinkRequest asks for a passwordless login link
type MagicLinkRequest struct {
	Email string `json:"email" binding:"required,email"`
	Next  string `json:"next"`
}

// InviteLoginRequest sends a login link to the address an invite was issued for
type InviteLoginRequest struct {
	Code string `json:"code" binding:"required"`
}

// AuthResponse represents successful authentication response
type AuthResponse struct {
	Token  TokenResponse       `json:"token"`
	User   UserResponse        `json:"user"`
	Access models.AccessStatus `json:"access"`
}

// UserResponse represents basic account information
type UserResponse struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	FullName  string  `json:"fullName"`
	AvatarURL *string `json:"avatarUrl,omitempty"`
}

// StatusResponse is what the client needs to decide which pages to show
type StatusResponse struct {
	User   UserResponse        `json:"user"`
	Access models.AccessStatus `json:"access"`
}
