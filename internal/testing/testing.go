// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/spotzip/internal/models"
)

// MockCatalog is a test double for the export engine's playlist source.
// Function fields configure behavior; call counts are tracked for
// asserting which endpoints a run touched.
type MockCatalog struct {
	UserPlaylistsFunc func(ctx context.Context, token, userID string) ([]models.PlaylistRef, error)
	PlaylistFunc      func(ctx context.Context, token string, ref models.PlaylistRef) (*models.Playlist, error)

	mu            sync.Mutex
	listingCalls  int
	playlistCalls int
}

func (m *MockCatalog) UserPlaylists(ctx context.Context, token, userID string) ([]models.PlaylistRef, error) {
	m.mu.Lock()
	m.listingCalls++
	m.mu.Unlock()

	if m.UserPlaylistsFunc == nil {
		return nil, nil
	}
	return m.UserPlaylistsFunc(ctx, token, userID)
}

func (m *MockCatalog) Playlist(ctx context.Context, token string, ref models.PlaylistRef) (*models.Playlist, error) {
	m.mu.Lock()
	m.playlistCalls++
	m.mu.Unlock()

	if m.PlaylistFunc == nil {
		return &models.Playlist{ID: ref.ID}, nil
	}
	return m.PlaylistFunc(ctx, token, ref)
}

// ListingCalls returns how many times the playlist listing was resolved.
func (m *MockCatalog) ListingCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listingCalls
}

// PlaylistCalls returns how many playlist reads were started.
func (m *MockCatalog) PlaylistCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playlistCalls
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
