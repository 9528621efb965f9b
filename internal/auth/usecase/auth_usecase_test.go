package usecase

import (
	"testing"
	"time"

	authdomain "mailboard-backend/internal/auth/domain"
	"mailboard-backend/internal/auth/dto"
	"mailboard-backend/internal/auth/repository"
	"mailboard-backend/pkg/apperror"
	"mailboard-backend/pkg/config"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newAuthUsecase(t *testing.T) (AuthUsecase, repository.UserRepository) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&authdomain.User{}, &authdomain.RefreshToken{}))

	users := repository.NewUserRepository(db)
	cfg := &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: 24 * time.Hour,
	}
	return NewAuthUsecase(users, cfg), users
}

func TestRegisterAndLogin(t *testing.T) {
	uc, _ := newAuthUsecase(t)

	resp, err := uc.Register(dto.RegisterRequest{
		Email: "a@example.com", Password: "password123", Name: "A",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Empty(t, resp.User.Password, "hash must not leak")

	_, err = uc.Register(dto.RegisterRequest{
		Email: "a@example.com", Password: "password123", Name: "A",
	})
	assert.True(t, apperror.IsKind(err, apperror.KindConflict))

	login, err := uc.Login(dto.LoginRequest{Email: "a@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, login.User.ID)

	_, err = uc.Login(dto.LoginRequest{Email: "a@example.com", Password: "wrong"})
	assert.Error(t, err)
}

func TestValidateAccessToken(t *testing.T) {
	uc, _ := newAuthUsecase(t)

	resp, err := uc.Register(dto.RegisterRequest{
		Email: "a@example.com", Password: "password123", Name: "A",
	})
	require.NoError(t, err)

	userID, err := uc.ValidateAccessToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, userID)

	_, err = uc.ValidateAccessToken("not-a-token")
	assert.Error(t, err)
}

func TestRefreshRotatesToken(t *testing.T) {
	uc, _ := newAuthUsecase(t)

	resp, err := uc.Register(dto.RegisterRequest{
		Email: "a@example.com", Password: "password123", Name: "A",
	})
	require.NoError(t, err)

	refreshed, err := uc.Refresh(dto.RefreshRequest{RefreshToken: resp.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, resp.RefreshToken, refreshed.RefreshToken)

	// The old refresh token is single-use.
	_, err = uc.Refresh(dto.RefreshRequest{RefreshToken: resp.RefreshToken})
	assert.Error(t, err)
}

func TestGoogleLoginStoresProviderTokens(t *testing.T) {
	uc, users := newAuthUsecase(t)

	resp, err := uc.GoogleLogin(dto.GoogleLoginRequest{
		Email: "g@example.com", Name: "G",
		AccessToken: "gmail-access", RefreshToken: "gmail-refresh", ExpiresIn: 3600,
	})
	require.NoError(t, err)

	user, err := users.FindByID(resp.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "gmail-access", user.AccessToken)
	assert.Equal(t, "gmail-refresh", user.RefreshToken)

	// A later sign-in without a refresh token keeps the stored one.
	_, err = uc.GoogleLogin(dto.GoogleLoginRequest{
		Email: "g@example.com", Name: "G", AccessToken: "gmail-access-2",
	})
	require.NoError(t, err)
	user, err = users.FindByID(resp.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "gmail-access-2", user.AccessToken)
	assert.Equal(t, "gmail-refresh", user.RefreshToken)
}
