package repository

import (
	"context"
	"testing"

	"github.com/coocood/freecache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-health/internal/core/domain"
)

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Load(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockStorage) Save(ctx context.Context, key string, data []byte) error {
	args := m.Called(ctx, key, data)
	return args.Error(0)
}

func (m *MockStorage) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func TestCachedStorage(t *testing.T) {
	ctx := context.Background()

	t.Run("Success: Second Load Is Served From Cache", func(t *testing.T) {
		next := new(MockStorage)
		next.On("Load", ctx, "k").Return([]byte(`{"entries":[]}`), nil).Once()

		s := NewCachedStorage(next, freecache.NewCache(1024*1024), nil)

		for i := 0; i < 3; i++ {
			data, err := s.Load(ctx, "k")
			require.NoError(t, err)
			assert.JSONEq(t, `{"entries":[]}`, string(data))
		}
		next.AssertExpectations(t)
	})

	t.Run("Success: Save Refreshes Cached Copy", func(t *testing.T) {
		next := new(MockStorage)
		next.On("Load", ctx, "k").Return([]byte("old"), nil).Once()
		next.On("Save", ctx, "k", []byte("new")).Return(nil)

		s := NewCachedStorage(next, freecache.NewCache(1024*1024), nil)

		data, _ := s.Load(ctx, "k")
		assert.Equal(t, "old", string(data))

		require.NoError(t, s.Save(ctx, "k", []byte("new")))

		data, _ = s.Load(ctx, "k")
		assert.Equal(t, "new", string(data))
		next.AssertExpectations(t)
		next.AssertNumberOfCalls(t, "Load", 1)
	})

	t.Run("Success: Load During Slow Save Cannot Resurrect Old Bytes", func(t *testing.T) {
		next := new(MockStorage)
		entered := make(chan struct{})
		release := make(chan struct{})
		next.On("Load", ctx, "k").Return([]byte("old"), nil)
		next.On("Save", ctx, "k", []byte("new")).Run(func(mock.Arguments) {
			close(entered)
			<-release
		}).Return(nil)

		s := NewCachedStorage(next, freecache.NewCache(1024*1024), nil)

		done := make(chan error)
		go func() { done <- s.Save(ctx, "k", []byte("new")) }()

		<-entered
		data, err := s.Load(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, "old", string(data))

		close(release)
		require.NoError(t, <-done)

		data, err = s.Load(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, "new", string(data))
	})

	t.Run("Success: Delete Invalidates", func(t *testing.T) {
		next := new(MockStorage)
		next.On("Load", ctx, "k").Return([]byte("old"), nil).Once()
		next.On("Delete", ctx, "k").Return(nil)
		next.On("Load", ctx, "k").Return(nil, domain.ErrDocumentNotFound).Once()

		s := NewCachedStorage(next, freecache.NewCache(1024*1024), nil)

		_, _ = s.Load(ctx, "k")
		require.NoError(t, s.Delete(ctx, "k"))

		_, err := s.Load(ctx, "k")
		assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
	})

	t.Run("Fail: Errors Are Not Cached", func(t *testing.T) {
		next := new(MockStorage)
		next.On("Load", ctx, "k").Return(nil, domain.ErrStorageUnavailable).Twice()

		s := NewCachedStorage(next, freecache.NewCache(1024*1024), nil)

		_, err := s.Load(ctx, "k")
		assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
		_, err = s.Load(ctx, "k")
		assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
		next.AssertExpectations(t)
	})

	t.Run("Fail: Failed Save Still Drops Stale Copy", func(t *testing.T) {
		next := new(MockStorage)
		next.On("Load", ctx, "k").Return([]byte("old"), nil).Twice()
		next.On("Save", ctx, "k", []byte("new")).Return(domain.ErrQuotaExceeded)

		s := NewCachedStorage(next, freecache.NewCache(1024*1024), nil)

		_, _ = s.Load(ctx, "k")
		assert.ErrorIs(t, s.Save(ctx, "k", []byte("new")), domain.ErrQuotaExceeded)

		data, _ := s.Load(ctx, "k")
		assert.Equal(t, "old", string(data))
		next.AssertExpectations(t)
	})
}
