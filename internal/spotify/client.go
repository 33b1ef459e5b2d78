// package spotify implements the read-only Spotify Web API client used by
// the export engine.
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotzip/internal/models"
	"github.com/desertthunder/spotzip/internal/shared"
)

const DefaultBaseURL = "https://api.spotify.com/v1"

// Field selectors trimming API payloads down to what the export records
// actually carry.
const (
	playlistListFields = "next,items(id,owner.id)"
	playlistFields     = "name,id,external_urls.spotify,uri,owner.id,tracks"
	trackFields        = "next,total,items(track(name,album.name,artists.name,duration_ms,uri,preview_url))"
)

// maxSnippet caps how much of a failed response body lands in logs and errors.
const maxSnippet = 512

// FetchError describes a failed API call: a transport error, or a response
// with a non-200 status. StatusCode is zero when no response was received.
type FetchError struct {
	URL        string
	StatusCode int
	Snippet    string
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("GET %s: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("GET %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Client issues authenticated GET requests against the Spotify Web API.
// It holds no token state; every call is authorized with the caller's
// bearer token.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *log.Logger
	now        func() time.Time
}

// NewClient creates a Client. An empty baseURL selects the public API, a
// nil httpClient falls back to [http.DefaultClient].
func NewClient(baseURL string, httpClient *http.Client, logger *log.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
		now:        time.Now,
	}
}

// UserPlaylistsURL returns the URL for the first page of a user's playlist
// listing.
func (c *Client) UserPlaylistsURL(userID string) string {
	return fmt.Sprintf("%s/users/%s/playlists?fields=%s",
		c.baseURL, url.PathEscape(userID), url.QueryEscape(playlistListFields))
}

// PlaylistURL returns the URL fetching a playlist header together with its
// embedded first page of tracks.
func (c *Client) PlaylistURL(ownerID, playlistID string) string {
	fields := fmt.Sprintf("%s(%s)", playlistFields, trackFields)
	return fmt.Sprintf("%s/users/%s/playlists/%s?fields=%s",
		c.baseURL, url.PathEscape(ownerID), url.PathEscape(playlistID), url.QueryEscape(fields))
}

// Get performs one authenticated GET request and decodes the JSON response
// body into v. Any non-200 status or transport failure is returned as a
// *FetchError and logged. Requests are never retried.
func (c *Client) Get(ctx context.Context, token, rawURL string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("request failed", "url", rawURL, "error", err)
		return &FetchError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet := readSnippet(resp.Body)
		c.logger.Error("request failed", "url", rawURL, "status", resp.StatusCode, "body", snippet)
		return &FetchError{URL: rawURL, StatusCode: resp.StatusCode, Snippet: snippet, Err: statusErr(resp.StatusCode)}
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("GET %s: %w: %v", rawURL, shared.ErrMalformedResponse, err)
	}

	return nil
}

// statusErr maps response statuses onto the sentinel errors callers branch
// on with [errors.Is]: 404 means the playlist (or user) does not exist,
// while throttling and upstream server failures surface as unavailability.
func statusErr(status int) error {
	switch {
	case status == http.StatusNotFound:
		return shared.ErrPlaylistNotFound
	case status == http.StatusTooManyRequests || status >= http.StatusInternalServerError:
		return shared.ErrServiceUnavailable
	default:
		return nil
	}
}

func readSnippet(r io.Reader) string {
	body, err := io.ReadAll(io.LimitReader(r, maxSnippet))
	if err != nil {
		return ""
	}
	return string(body)
}

// UserPlaylists resolves every playlist in the user's library listing,
// following pagination cursors until exhausted.
func (c *Client) UserPlaylists(ctx context.Context, token, userID string) ([]models.PlaylistRef, error) {
	var refs []models.PlaylistRef

	next := c.UserPlaylistsURL(userID)
	for next != "" {
		var page PlaylistListPage
		if err := c.Get(ctx, token, next, &page); err != nil {
			return nil, err
		}

		for _, item := range page.Items {
			refs = append(refs, models.PlaylistRef{OwnerID: item.Owner.ID, ID: item.ID})
		}

		next = ""
		if page.Next != nil {
			next = *page.Next
		}
	}

	return refs, nil
}

// Playlist reads one playlist into its export record: header plus embedded
// first track page in a single request, then one request per remaining
// page until the cursor is exhausted. A failed page fetch aborts the whole
// read; partial records are never returned.
func (c *Client) Playlist(ctx context.Context, token string, ref models.PlaylistRef) (*models.Playlist, error) {
	var resp PlaylistResponse
	if err := c.Get(ctx, token, c.PlaylistURL(ref.OwnerID, ref.ID), &resp); err != nil {
		return nil, err
	}

	playlist := &models.Playlist{
		Name:        resp.Name,
		ID:          resp.ID,
		URL:         resp.ExternalURLs.Spotify,
		URI:         resp.URI,
		Owner:       "spotify:user:" + resp.Owner.ID,
		ExportedOn:  c.now().UTC().Format(http.TimeFormat),
		TracksTotal: resp.Tracks.Total,
		Tracks:      ReadTracks(resp.Tracks.Items),
	}

	next := resp.Tracks.Next
	for next != nil {
		var page TrackPage
		if err := c.Get(ctx, token, *next, &page); err != nil {
			return nil, err
		}
		playlist.Tracks = append(playlist.Tracks, ReadTracks(page.Items)...)
		next = page.Next
	}

	return playlist, nil
}

// ReadTracks maps one page of raw track entries into the export shape.
// Tombstoned entries, slots whose underlying track was deleted, arrive
// with a null track reference and are skipped.
func ReadTracks(items []TrackItem) []models.Track {
	tracks := make([]models.Track, 0, len(items))
	for _, item := range items {
		if item.Track == nil {
			continue
		}

		names := make([]string, len(item.Track.Artists))
		for i, artist := range item.Track.Artists {
			names[i] = artist.Name
		}

		tracks = append(tracks, models.Track{
			Name:     item.Track.Name,
			Album:    item.Track.Album.Name,
			Artists:  strings.Join(names, ", "),
			Duration: shared.FormatDuration(item.Track.DurationMS),
			URI:      item.Track.URI,
			Preview:  item.Track.PreviewURL,
		})
	}
	return tracks
}
