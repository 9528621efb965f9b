package usecase

import (
	"errors"
	"time"

	authdomain "mailboard-backend/internal/auth/domain"
	"mailboard-backend/internal/auth/dto"
	"mailboard-backend/internal/auth/repository"
	"mailboard-backend/pkg/apperror"
	"mailboard-backend/pkg/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AuthUsecase handles registration, login and token lifecycle.
type AuthUsecase interface {
	Register(req dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(req dto.LoginRequest) (*dto.AuthResponse, error)
	GoogleLogin(req dto.GoogleLoginRequest) (*dto.AuthResponse, error)
	Refresh(req dto.RefreshRequest) (*dto.AuthResponse, error)
	Logout(refreshToken string) error
	ValidateAccessToken(token string) (string, error)
}

type authUsecase struct {
	users repository.UserRepository
	cfg   *config.Config
}

// NewAuthUsecase creates a new instance of authUsecase
func NewAuthUsecase(users repository.UserRepository, cfg *config.Config) AuthUsecase {
	return &authUsecase{users: users, cfg: cfg}
}

func (uc *authUsecase) Register(req dto.RegisterRequest) (*dto.AuthResponse, error) {
	existing, err := uc.users.FindByEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.Conflict("email %s is already registered", req.Email)
	}

	hash, err := repository.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user := &authdomain.User{
		Email:    req.Email,
		Password: hash,
		Name:     req.Name,
		Provider: "email",
	}
	if err := uc.users.Create(user); err != nil {
		return nil, err
	}
	return uc.issueTokens(user)
}

func (uc *authUsecase) Login(req dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := uc.users.FindByEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if user == nil || !repository.CheckPasswordHash(req.Password, user.Password) {
		return nil, apperror.Validation("invalid email or password")
	}
	return uc.issueTokens(user)
}

// GoogleLogin upserts the user and stores the Gmail OAuth credentials so the
// board can call the provider on the user's behalf.
func (uc *authUsecase) GoogleLogin(req dto.GoogleLoginRequest) (*dto.AuthResponse, error) {
	user, err := uc.users.FindByEmail(req.Email)
	if err != nil {
		return nil, err
	}

	expiry := time.Now().Add(time.Duration(req.ExpiresIn) * time.Second)
	if user == nil {
		user = &authdomain.User{
			Email:        req.Email,
			Name:         req.Name,
			AvatarURL:    req.AvatarURL,
			Provider:     "google",
			AccessToken:  req.AccessToken,
			RefreshToken: req.RefreshToken,
			TokenExpiry:  expiry,
		}
		if err := uc.users.Create(user); err != nil {
			return nil, err
		}
	} else {
		user.Name = req.Name
		user.AvatarURL = req.AvatarURL
		user.Provider = "google"
		user.AccessToken = req.AccessToken
		if req.RefreshToken != "" {
			user.RefreshToken = req.RefreshToken
		}
		user.TokenExpiry = expiry
		if err := uc.users.Update(user); err != nil {
			return nil, err
		}
	}
	return uc.issueTokens(user)
}

func (uc *authUsecase) Refresh(req dto.RefreshRequest) (*dto.AuthResponse, error) {
	stored, err := uc.users.FindRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, err
	}
	if stored == nil || stored.ExpiresAt.Before(time.Now()) {
		return nil, apperror.Validation("invalid or expired refresh token")
	}
	user, err := uc.users.FindByID(stored.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NotFound("user not found")
	}
	// Rotate: the old refresh token is single-use.
	if err := uc.users.DeleteRefreshToken(req.RefreshToken); err != nil {
		return nil, err
	}
	return uc.issueTokens(user)
}

func (uc *authUsecase) Logout(refreshToken string) error {
	return uc.users.DeleteRefreshToken(refreshToken)
}

// ValidateAccessToken parses a JWT and returns the user id it carries.
func (uc *authUsecase) ValidateAccessToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(uc.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return "", apperror.Validation("invalid access token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", apperror.Validation("invalid token claims")
	}
	userID, ok := claims["sub"].(string)
	if !ok || userID == "" {
		return "", apperror.Validation("token has no subject")
	}
	return userID, nil
}

func (uc *authUsecase) issueTokens(user *authdomain.User) (*dto.AuthResponse, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(uc.cfg.JWTAccessExpiry).Unix(),
	}
	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte(uc.cfg.JWTSecret))
	if err != nil {
		return nil, err
	}

	refreshToken := uuid.New().String()
	err = uc.users.SaveRefreshToken(&authdomain.RefreshToken{
		Token:     refreshToken,
		UserID:    user.ID,
		ExpiresAt: now.Add(uc.cfg.JWTRefreshExpiry),
	})
	if err != nil {
		return nil, err
	}

	// Never hand the password hash back, even in-process.
	user.Password = ""
	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}
