package dto

import "github.com/vemac/institute/internal/app/models"

// LoginRequest represents login credentials. Login is an email address or a username.
type LoginRequest struct {
	Login    string `json:"login" binding:"required" example:"admin@institute.local"`
	Password string `json:"password" binding:"required" example:"change-me-now"`
}

// TokenResponse represents JWT token information
type TokenResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType" example:"Bearer"`
	ExpiresIn   int    `json:"expiresIn" example:"28800"`
}

// AuthResponse represents successful authentication response
type AuthResponse struct {
	Token TokenResponse `json:"token"`
	User  *models.User  `json:"user"`
}

// IdentityResponse is the caller identity as seen by the API
type IdentityResponse struct {
	UserID        int64  `json:"userId" example:"1"`
	Email         string `json:"email" example:"admin@institute.local"`
	Name          string `json:"name" example:"Administrator"`
	Role          string `json:"role" example:"admin"`
	InstituteName string `json:"instituteName,omitempty" example:"Main Branch"`
}
