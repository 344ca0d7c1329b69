package defaults

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSource(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "default.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"entries":[]}`), 0o600))

		data, err := NewFileSource(path).Fetch(context.Background())
		require.NoError(t, err)
		assert.JSONEq(t, `{"entries":[]}`, string(data))
	})

	t.Run("Fail: Missing File", func(t *testing.T) {
		_, err := NewFileSource(filepath.Join(t.TempDir(), "nope.json")).Fetch(context.Background())
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("Success: Bundled Dataset Is Readable", func(t *testing.T) {
		data, err := NewFileSource("../../../data/default.json").Fetch(context.Background())
		require.NoError(t, err)
		assert.Contains(t, string(data), `"entries"`)
	})
}

func TestHTTPSource(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, DatasetPath, r.URL.Path)
			w.Write([]byte(`{"entries":[]}`))
		}))
		defer srv.Close()

		src, err := NewHTTPSource(srv.URL, srv.Client())
		require.NoError(t, err)

		data, err := src.Fetch(context.Background())
		require.NoError(t, err)
		assert.JSONEq(t, `{"entries":[]}`, string(data))
	})

	t.Run("Fail: Not Found", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		defer srv.Close()

		src, err := NewHTTPSource(srv.URL, nil)
		require.NoError(t, err)

		_, err = src.Fetch(context.Background())
		assert.ErrorContains(t, err, "unexpected status 404")
	})

	t.Run("Fail: Cancelled Context", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		defer srv.Close()

		src, err := NewHTTPSource(srv.URL, nil)
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err = src.Fetch(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
