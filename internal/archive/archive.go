// package archive packages export records into a downloadable zip, one
// pretty-printed JSON document per playlist.
package archive

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"

	"github.com/desertthunder/spotzip/internal/models"
)

// MultiName is the archive name used when the archive holds anything other
// than exactly one successful playlist.
const MultiName = "playlists.zip"

// errorEntry is the body of an error-marker entry written for a playlist
// whose read failed.
type errorEntry struct {
	PlaylistID string `json:"playlist_id"`
	Owner      string `json:"owner"`
	Error      string `json:"error"`
}

// Name returns the download file name for a result set: a lone successful
// playlist names the archive after itself, anything else falls back to
// [MultiName].
func Name(results []models.PlaylistResult) string {
	if len(results) == 1 && results[0].Err == nil {
		return results[0].Playlist.Name + ".zip"
	}
	return MultiName
}

// Write serializes the result set as a zip archive: "{name}.json" per
// successful playlist and "{playlist_id}.error.json" per failed one.
func Write(w io.Writer, results []models.PlaylistResult) error {
	zw := zip.NewWriter(w)

	for _, res := range results {
		name, body, err := entry(res)
		if err != nil {
			zw.Close()
			return err
		}

		f, err := zw.Create(name)
		if err != nil {
			zw.Close()
			return fmt.Errorf("failed to create archive entry %s: %w", name, err)
		}
		if _, err := f.Write(body); err != nil {
			zw.Close()
			return fmt.Errorf("failed to write archive entry %s: %w", name, err)
		}
	}

	return zw.Close()
}

func entry(res models.PlaylistResult) (string, []byte, error) {
	if res.Err != nil {
		body, err := json.MarshalIndent(errorEntry{
			PlaylistID: res.Ref.ID,
			Owner:      res.Ref.OwnerID,
			Error:      res.Err.Error(),
		}, "", "  ")
		if err != nil {
			return "", nil, fmt.Errorf("failed to marshal error entry: %w", err)
		}
		return res.Ref.ID + ".error.json", body, nil
	}

	body, err := json.MarshalIndent(res.Playlist, "", "  ")
	if err != nil {
		return "", nil, fmt.Errorf("failed to marshal playlist %s: %w", res.Playlist.ID, err)
	}
	return res.Playlist.Name + ".json", body, nil
}
