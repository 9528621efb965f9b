package usecase

import (
	"time"

	authrepo "mailboard-backend/internal/auth/repository"
	"mailboard-backend/internal/kanban/domain"
	"mailboard-backend/pkg/apperror"

	"golang.org/x/oauth2"
)

// credentialSource resolves a user's Gmail OAuth tokens and builds the
// callback that persists rotated tokens after a refresh.
type credentialSource struct {
	users authrepo.UserRepository
}

func newCredentialSource(users authrepo.UserRepository) *credentialSource {
	return &credentialSource{users: users}
}

func (s *credentialSource) tokens(userID string) (string, string, domain.TokenUpdateFunc, error) {
	user, err := s.users.FindByID(userID)
	if err != nil {
		return "", "", nil, err
	}
	if user == nil {
		return "", "", nil, apperror.NotFound("user %s not found", userID)
	}
	if user.AccessToken == "" && user.RefreshToken == "" {
		return "", "", nil, apperror.Validation("user has no linked Gmail account")
	}

	onRefresh := func(token *oauth2.Token) error {
		user.AccessToken = token.AccessToken
		if token.RefreshToken != "" {
			user.RefreshToken = token.RefreshToken
		}
		user.TokenExpiry = token.Expiry
		user.UpdatedAt = time.Now()
		return s.users.Update(user)
	}
	return user.AccessToken, user.RefreshToken, onRefresh, nil
}
