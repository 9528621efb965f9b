package dto

import authdomain "mailboard-backend/internal/auth/domain"

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// GoogleLoginRequest signs a user in with tokens obtained from the Google
// OAuth flow. AccessToken/RefreshToken are the Gmail API credentials the
// board needs; they are stored on the user row.
type GoogleLoginRequest struct {
	Email        string `json:"email" binding:"required,email"`
	Name         string `json:"name"`
	AvatarURL    string `json:"avatarUrl"`
	AccessToken  string `json:"accessToken" binding:"required"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type AuthResponse struct {
	AccessToken  string           `json:"accessToken"`
	RefreshToken string           `json:"refreshToken"`
	User         *authdomain.User `json:"user"`
}
