// package models defines the data model for the playlist export web service
package models

import (
	"fmt"
	"time"
)

// Track is the export shape of a single playlist track. Immutable once
// constructed by the track reader.
type Track struct {
	Name     string `json:"name"`
	Album    string `json:"album"`
	Artists  string `json:"artists"` // comma-joined, source order preserved
	Duration string `json:"duration"`
	URI      string `json:"uri"`
	Preview  string `json:"preview,omitempty"`
}

// Playlist is the export record produced for download, distinct from the
// Spotify API's native playlist representation.
//
// Tracks hold page arrival order, which is deterministic because pages are
// fetched strictly sequentially per playlist. TracksTotal carries the
// authoritative count from the playlist header.
type Playlist struct {
	Name        string  `json:"name"`
	ID          string  `json:"id"`
	URL         string  `json:"url"`
	URI         string  `json:"uri"`
	Owner       string  `json:"owner"`
	ExportedOn  string  `json:"exported_on"`
	TracksTotal int     `json:"tracks_total"`
	Tracks      []Track `json:"tracks"`
}

// PlaylistRef identifies one playlist to export.
type PlaylistRef struct {
	OwnerID string
	ID      string
}

// ExportRequest selects the playlists of one export run: every playlist in
// the user's library listing, or exactly one when PlaylistID is set.
type ExportRequest struct {
	UserID     string
	PlaylistID string
}

// Single reports whether the request names a single playlist.
func (r ExportRequest) Single() bool {
	return r.PlaylistID != ""
}

// PlaylistResult is the settled outcome of one playlist read: either a
// complete export record or the error that aborted the read. A playlist is
// never both partially populated and failed.
type PlaylistResult struct {
	Ref      PlaylistRef
	Playlist *Playlist
	Err      error
}

// ExportSummary describes one finished export run.
type ExportSummary struct {
	Requested   int
	Succeeded   int
	Failed      int
	Tracks      int
	Elapsed     time.Duration
	ArchiveName string
}

// ExportRun is the persisted history record of one export. Only run
// metadata is stored; playlist and track content never outlives the
// request that produced it.
type ExportRun struct {
	ID          string
	UserID      string
	PlaylistID  string
	Requested   int
	Succeeded   int
	Failed      int
	Tracks      int
	ElapsedMS   int64
	ArchiveName string
	CreatedAt   time.Time
}

// Validate checks if the run's data is valid and returns an error if not.
func (r *ExportRun) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("export run ID is required")
	}
	if r.UserID == "" {
		return fmt.Errorf("export run user ID is required")
	}
	if r.ArchiveName == "" {
		return fmt.Errorf("export run archive name is required")
	}
	return nil
}
