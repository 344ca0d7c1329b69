package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var errMissingSubject = errors.New("token has no subject")

// profileClaims carries the profile key in the subject.
type profileClaims struct {
	jwt.RegisteredClaims
}

// TokenService signs and verifies HS256 session tokens. It knows nothing about
// profiles; AuthService decides whether a verified subject is still allowed in.
type TokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
	parser *jwt.Parser
	now    func() time.Time
}

func NewTokenService(secret, issuer string, ttl time.Duration) *TokenService {
	s := &TokenService{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
	s.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return s.now() }),
	)
	return s
}

// Issue returns a signed token for profileKey that expires after the configured TTL.
func (s *TokenService) Issue(profileKey string) (string, error) {
	now := s.now()
	claims := profileClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   profileKey,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("token service: sign: %w", err)
	}
	return signed, nil
}

// Subject verifies signature, issuer and expiry and returns the profile key.
func (s *TokenService) Subject(raw string) (string, error) {
	var claims profileClaims
	if _, err := s.parser.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}); err != nil {
		return "", fmt.Errorf("token service: %w", err)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("token service: %w", errMissingSubject)
	}
	return claims.Subject, nil
}
