package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-health/internal/core/domain"
)

func TestInMemoryStorage(t *testing.T) {
	ctx := context.Background()

	t.Run("Success: Save Load Delete", func(t *testing.T) {
		s := NewInMemoryStorage()

		_, err := s.Load(ctx, "k")
		assert.ErrorIs(t, err, domain.ErrDocumentNotFound)

		require.NoError(t, s.Save(ctx, "k", []byte(`{"entries":[]}`)))

		data, err := s.Load(ctx, "k")
		require.NoError(t, err)
		assert.JSONEq(t, `{"entries":[]}`, string(data))

		require.NoError(t, s.Delete(ctx, "k"))
		require.NoError(t, s.Delete(ctx, "k"))

		_, err = s.Load(ctx, "k")
		assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
	})

	t.Run("Success: Returned Bytes Are Copies", func(t *testing.T) {
		s := NewInMemoryStorage()
		payload := []byte("abc")
		require.NoError(t, s.Save(ctx, "k", payload))
		payload[0] = 'x'

		data, _ := s.Load(ctx, "k")
		data[1] = 'y'

		again, _ := s.Load(ctx, "k")
		assert.Equal(t, "abc", string(again))
	})

	t.Run("Fail: Quota Keeps Previous Value", func(t *testing.T) {
		s := NewInMemoryStorage().WithQuota(4)
		require.NoError(t, s.Save(ctx, "k", []byte("1234")))

		err := s.Save(ctx, "k", []byte("12345"))
		assert.ErrorIs(t, err, domain.ErrQuotaExceeded)

		data, _ := s.Load(ctx, "k")
		assert.Equal(t, "1234", string(data))
	})

	t.Run("Fail: Unavailable", func(t *testing.T) {
		s := NewInMemoryStorage()
		s.SetAvailable(false)

		_, err := s.Load(ctx, "k")
		assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
		assert.ErrorIs(t, s.Save(ctx, "k", nil), domain.ErrStorageUnavailable)
		assert.ErrorIs(t, s.Delete(ctx, "k"), domain.ErrStorageUnavailable)

		s.SetAvailable(true)
		assert.NoError(t, s.Save(ctx, "k", []byte("{}")))
	})
}
