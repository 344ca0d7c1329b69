package defaults

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/comitanigiacomo/kanso-health/internal/core/domain"
)

// DatasetPath is where the bundled dataset is served from.
const DatasetPath = "/data/default.json"

const maxDatasetBytes = 5 << 20

var (
	_ domain.DefaultSource = (*FileSource)(nil)
	_ domain.DefaultSource = (*HTTPSource)(nil)
)

type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Fetch(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("defaults: read %s: %w", s.path, err)
	}
	return data, nil
}

// HTTPSource fetches the dataset from a running instance of the API.
type HTTPSource struct {
	url    string
	client *http.Client
}

func NewHTTPSource(baseURL string, client *http.Client) (*HTTPSource, error) {
	u, err := url.JoinPath(baseURL, DatasetPath)
	if err != nil {
		return nil, fmt.Errorf("defaults: bad base url %q: %w", baseURL, err)
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPSource{url: u, client: client}, nil
}

func (s *HTTPSource) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("defaults: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("defaults: fetch %s: %w", s.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("defaults: fetch %s: unexpected status %d", s.url, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDatasetBytes))
	if err != nil {
		return nil, fmt.Errorf("defaults: read body: %w", err)
	}
	return data, nil
}
