// package export implements the playlist export engine: resolving an
// export request to a set of playlists, reading them concurrently, and
// committing the settled result set to the archive writer exactly once.
package export

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotzip/internal/models"
	"github.com/desertthunder/spotzip/internal/shared"
	"golang.org/x/time/rate"
)

// Catalog defines the read operations the exporter needs from the music
// service: resolving a user's playlist listing and reading one playlist
// into its export record. Implemented by [spotify.Client].
type Catalog interface {
	// UserPlaylists resolves every playlist in the user's library
	// listing, following pagination until exhausted.
	UserPlaylists(ctx context.Context, token, userID string) ([]models.PlaylistRef, error)

	// Playlist reads one playlist to completion. Implementations return
	// either a fully paginated record or an error, never a partial one.
	Playlist(ctx context.Context, token string, ref models.PlaylistRef) (*models.Playlist, error)
}

// FlushFunc receives the settled result set. The exporter invokes it
// exactly once per run, after every playlist read has settled.
type FlushFunc func(results []models.PlaylistResult) error

// Options contains tunables for the export fan-out.
type Options struct {
	// Workers caps concurrent playlist reads. Zero or negative launches
	// one goroutine per playlist, like the hosted service.
	Workers int
	// RateLimit is the maximum playlist reads started per second.
	// Zero disables limiting.
	RateLimit float64
}

// Exporter coordinates export runs against a playlist source.
type Exporter struct {
	source  Catalog
	logger  *log.Logger
	workers int
	limiter *rate.Limiter
}

// New creates an Exporter reading from the given source.
func New(source Catalog, logger *log.Logger, opts Options) *Exporter {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	var limiter *rate.Limiter
	if opts.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	}

	return &Exporter{
		source:  source,
		logger:  logger,
		workers: opts.Workers,
		limiter: limiter,
	}
}

// Export runs one export: resolves the request to a fixed set of
// playlists, reads them concurrently, and flushes the settled results.
//
// A failed playlist read never cancels its siblings; it settles as an
// error-marked result and the run carries on. Flush fires exactly once,
// when the number of settled reads equals the resolved set's cardinality.
// Resolution failures return before any read is launched, without
// flushing.
func (e *Exporter) Export(ctx context.Context, token string, req models.ExportRequest, flush FlushFunc) (*models.ExportSummary, error) {
	start := time.Now()

	refs, err := e.resolve(ctx, token, req)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve export request: %w", err)
	}

	e.logger.Info("exporting playlists", "user", req.UserID, "playlists", len(refs))

	// Unbuffered: every completion is handed to the collector loop below
	// one at a time, which serializes completion handling.
	completions := make(chan models.PlaylistResult)

	var sem chan struct{}
	if e.workers > 0 {
		sem = make(chan struct{}, e.workers)
	}

	for _, ref := range refs {
		go func(ref models.PlaylistRef) {
			if sem != nil {
				sem <- struct{}{}
				defer func() { <-sem }()
			}
			completions <- e.read(ctx, token, ref)
		}(ref)
	}

	summary := &models.ExportSummary{Requested: len(refs)}
	results := make([]models.PlaylistResult, 0, len(refs))

	for len(results) < len(refs) {
		res := <-completions
		results = append(results, res)

		if res.Err != nil {
			summary.Failed++
			e.logger.Error("playlist read failed",
				"owner", res.Ref.OwnerID, "playlist", res.Ref.ID, "error", res.Err)
			continue
		}

		summary.Succeeded++
		summary.Tracks += len(res.Playlist.Tracks)
		e.logger.Info(fmt.Sprintf("%d tracks of playlist '%s' (%s) read in %d ms (playlist %d out of %d)",
			len(res.Playlist.Tracks), res.Playlist.Name, res.Playlist.ID,
			time.Since(start).Milliseconds(), len(results), len(refs)))
	}

	if err := flush(results); err != nil {
		return nil, fmt.Errorf("failed to write archive: %w", err)
	}

	summary.Elapsed = time.Since(start)
	e.logger.Info(fmt.Sprintf("%d tracks of %d playlists read in %d ms",
		summary.Tracks, summary.Requested, summary.Elapsed.Milliseconds()))

	return summary, nil
}

// read performs one playlist read, honoring the rate limiter when
// configured.
func (e *Exporter) read(ctx context.Context, token string, ref models.PlaylistRef) models.PlaylistResult {
	if e.limiter != nil {
		if err := e.limiter.Wait(ctx); err != nil {
			return models.PlaylistResult{Ref: ref, Err: err}
		}
	}

	playlist, err := e.source.Playlist(ctx, token, ref)
	return models.PlaylistResult{Ref: ref, Playlist: playlist, Err: err}
}

// resolve fixes the set of playlists the run will export. A single
// playlist request never touches the listing endpoint.
func (e *Exporter) resolve(ctx context.Context, token string, req models.ExportRequest) ([]models.PlaylistRef, error) {
	if req.Single() {
		return []models.PlaylistRef{{OwnerID: req.UserID, ID: req.PlaylistID}}, nil
	}
	return e.source.UserPlaylists(ctx, token, req.UserID)
}
