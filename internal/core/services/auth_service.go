package services

import (
	"context"
	"fmt"
	"time"

	"github.com/comitanigiacomo/kanso-health/internal/core/domain"
)

const profileLookupTimeout = 2 * time.Second

// ProfileChecker reports whether the profile a token was issued for still has data.
type ProfileChecker interface {
	ProfileExists(ctx context.Context, key string) (bool, error)
}

type AuthService struct {
	creds    *domain.Credentials
	tokens   *TokenService
	profiles ProfileChecker
}

func NewAuthService(creds *domain.Credentials, tokens *TokenService, profiles ProfileChecker) *AuthService {
	return &AuthService{
		creds:    creds,
		tokens:   tokens,
		profiles: profiles,
	}
}

func (s *AuthService) Enabled() bool {
	return s.creds.Enabled()
}

// Login exchanges the profile passcode for a signed token.
func (s *AuthService) Login(ctx context.Context, passcode string) (string, error) {
	if err := s.creds.CheckPasscode(passcode); err != nil {
		return "", err
	}

	token, err := s.tokens.Issue(s.creds.ProfileKey)
	if err != nil {
		return "", fmt.Errorf("auth service: failed to issue token: %w", err)
	}
	return token, nil
}

// Authenticate resolves a bearer token to its profile key. Tokens for another profile,
// or for one whose data was cleared, are rejected with ErrUnauthorized.
func (s *AuthService) Authenticate(ctx context.Context, token string) (string, error) {
	profileKey, err := s.tokens.Subject(token)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	if profileKey != s.creds.ProfileKey {
		return "", fmt.Errorf("%w: token issued for another profile", domain.ErrUnauthorized)
	}

	ctx, cancel := context.WithTimeout(ctx, profileLookupTimeout)
	defer cancel()

	exists, err := s.profiles.ProfileExists(ctx, profileKey)
	if err != nil {
		return "", fmt.Errorf("auth service: profile lookup: %w", err)
	}
	if !exists {
		return "", fmt.Errorf("%w: profile no longer exists", domain.ErrUnauthorized)
	}
	return profileKey, nil
}
