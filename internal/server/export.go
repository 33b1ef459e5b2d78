package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotzip/internal/archive"
	"github.com/desertthunder/spotzip/internal/export"
	"github.com/desertthunder/spotzip/internal/models"
	"github.com/desertthunder/spotzip/internal/repositories"
	"github.com/desertthunder/spotzip/internal/shared"
)

// ExportHandler serves GET /export: it runs the export engine for the
// requested playlists and streams the resulting zip archive.
type ExportHandler struct {
	exporter *export.Exporter
	runs     *repositories.ExportRunRepository // nil disables history
	logger   *log.Logger
}

// NewExportHandler creates an export handler. A nil runs repository
// disables export-history recording.
func NewExportHandler(exporter *export.Exporter, runs *repositories.ExportRunRepository, logger *log.Logger) *ExportHandler {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &ExportHandler{exporter: exporter, runs: runs, logger: logger}
}

// Routes returns the HTTP routes this handler serves.
func (h *ExportHandler) Routes() []string {
	return []string{"/export"}
}

// ServeHTTP validates the query parameters, runs the export, and streams
// the archive. The archive headers are committed inside the engine's flush
// callback, once the full result set has settled.
func (h *ExportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	token := query.Get("token")
	userID := query.Get("u")
	playlistID := query.Get("p")

	if token == "" || userID == "" {
		h.logger.Warn("export rejected",
			"error", shared.ErrMissingParameter, "token_set", token != "", "user", userID)
		http.Error(w, "Missing parameters: token and u are required", http.StatusBadRequest)
		return
	}

	req := models.ExportRequest{UserID: userID, PlaylistID: playlistID}

	var archiveName string
	flushed := false
	flush := func(results []models.PlaylistResult) error {
		flushed = true
		archiveName = archive.Name(results)

		w.Header().Set("Content-Type", "application/zip")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", archiveName))
		return archive.Write(w, results)
	}

	summary, err := h.exporter.Export(r.Context(), token, req, flush)
	if err != nil {
		if !flushed {
			http.Error(w, "Export failed", http.StatusBadGateway)
		}
		h.logger.Error("export failed", "user", userID, "playlist", playlistID, "error", err)
		return
	}

	summary.ArchiveName = archiveName
	h.record(req, summary)
}

// record persists the run summary, best effort.
func (h *ExportHandler) record(req models.ExportRequest, summary *models.ExportSummary) {
	if h.runs == nil {
		return
	}

	run := &models.ExportRun{
		UserID:      req.UserID,
		PlaylistID:  req.PlaylistID,
		Requested:   summary.Requested,
		Succeeded:   summary.Succeeded,
		Failed:      summary.Failed,
		Tracks:      summary.Tracks,
		ElapsedMS:   summary.Elapsed.Milliseconds(),
		ArchiveName: summary.ArchiveName,
		CreatedAt:   time.Now().UTC(),
	}

	if err := h.runs.Create(run); err != nil {
		h.logger.Error("failed to record export run", "error", err)
	}
}
