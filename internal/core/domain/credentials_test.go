package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentials(t *testing.T) {
	t.Run("Hashed passcode verifies", func(t *testing.T) {
		hash, err := HashPasscode("correct-horse")
		require.NoError(t, err)

		creds := NewCredentials(StorageKey, hash)
		assert.True(t, creds.Enabled())
		assert.NoError(t, creds.CheckPasscode("correct-horse"))
		assert.ErrorIs(t, creds.CheckPasscode("wrong"), ErrInvalidCredentials)
	})

	t.Run("Short passcode is rejected", func(t *testing.T) {
		_, err := HashPasscode("123")
		assert.ErrorIs(t, err, ErrPasscodeTooShort)
	})

	t.Run("No hash means auth disabled", func(t *testing.T) {
		creds := NewCredentials(StorageKey, "")
		assert.False(t, creds.Enabled())
		assert.ErrorIs(t, creds.CheckPasscode("anything"), ErrInvalidCredentials)
	})
}
