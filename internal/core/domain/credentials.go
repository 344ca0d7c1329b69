package domain

import (
	"errors"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPasscodeTooShort   = errors.New("passcode must be at least 6 characters long")
	ErrUnauthorized       = errors.New("unauthorized access")
)

const passcodeCost = 12

// Credentials guard the single profile served by the API.
type Credentials struct {
	ProfileKey   string
	PasscodeHash string
}

func NewCredentials(profileKey, passcodeHash string) *Credentials {
	return &Credentials{
		ProfileKey:   profileKey,
		PasscodeHash: passcodeHash,
	}
}

// HashPasscode returns the bcrypt hash to put in AUTH_PASSCODE_HASH.
func HashPasscode(plain string) (string, error) {
	if utf8.RuneCountInString(plain) < 6 {
		return "", ErrPasscodeTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plain), passcodeCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (c *Credentials) Enabled() bool {
	return c != nil && c.PasscodeHash != ""
}

func (c *Credentials) CheckPasscode(plain string) error {
	if !c.Enabled() {
		return ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(c.PasscodeHash), []byte(plain)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}
