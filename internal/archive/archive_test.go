package archive

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/desertthunder/spotzip/internal/models"
	mocks "github.com/desertthunder/spotzip/internal/testing"
)

func TestName(t *testing.T) {
	tests := []struct {
		name    string
		results []models.PlaylistResult
		want    string
	}{
		{
			name: "single successful playlist",
			results: []models.PlaylistResult{
				{Playlist: &models.Playlist{Name: "Roadtrip"}},
			},
			want: "Roadtrip.zip",
		},
		{
			name: "multiple playlists",
			results: []models.PlaylistResult{
				{Playlist: &models.Playlist{Name: "A"}},
				{Playlist: &models.Playlist{Name: "B"}},
			},
			want: MultiName,
		},
		{
			name: "single failed playlist",
			results: []models.PlaylistResult{
				{Ref: models.PlaylistRef{ID: "p1"}, Err: errors.New("status 502")},
			},
			want: MultiName,
		},
		{
			name:    "empty result set",
			results: nil,
			want:    MultiName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Name(tt.results); got != tt.want {
				t.Errorf("Name() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWrite(t *testing.T) {
	readEntries := func(t *testing.T, buf *bytes.Buffer) map[string]string {
		t.Helper()

		zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
		if err != nil {
			t.Fatalf("failed to open archive: %v", err)
		}

		entries := map[string]string{}
		for _, f := range zr.File {
			rc, err := f.Open()
			if err != nil {
				t.Fatalf("failed to open entry %s: %v", f.Name, err)
			}
			content, err := io.ReadAll(rc)
			rc.Close()
			if err != nil {
				t.Fatalf("failed to read entry %s: %v", f.Name, err)
			}
			entries[f.Name] = string(content)
		}
		return entries
	}

	t.Run("One JSON Document Per Playlist", func(t *testing.T) {
		playlist := &models.Playlist{
			Name:        "Roadtrip",
			ID:          "p1",
			Owner:       "spotify:user:alice",
			TracksTotal: 1,
			Tracks:      []models.Track{{Name: "one", Artists: "X", Duration: "00:01", URI: "u1"}},
		}
		results := []models.PlaylistResult{
			{Ref: models.PlaylistRef{OwnerID: "alice", ID: "p1"}, Playlist: playlist},
			{Ref: models.PlaylistRef{OwnerID: "bob", ID: "p2"}, Playlist: &models.Playlist{Name: "Gym", ID: "p2"}},
		}

		var buf bytes.Buffer
		if err := Write(&buf, results); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		entries := readEntries(t, &buf)
		if len(entries) != 2 {
			t.Fatalf("expected 2 entries, got %d", len(entries))
		}

		body, ok := entries["Roadtrip.json"]
		if !ok {
			t.Fatalf("missing Roadtrip.json, have %v", entries)
		}

		var decoded models.Playlist
		if err := json.Unmarshal([]byte(body), &decoded); err != nil {
			t.Fatalf("entry is not valid JSON: %v", err)
		}
		if decoded.Owner != "spotify:user:alice" || len(decoded.Tracks) != 1 {
			t.Errorf("unexpected decoded playlist %+v", decoded)
		}

		// Pretty-printed with two-space indent
		if !bytes.Contains([]byte(body), []byte("\n  \"name\"")) {
			t.Error("expected indented JSON body")
		}
	})

	t.Run("Failed Playlist Gets An Error Marker", func(t *testing.T) {
		results := []models.PlaylistResult{
			{Ref: models.PlaylistRef{OwnerID: "alice", ID: "p1"}, Playlist: &models.Playlist{Name: "Ok", ID: "p1"}},
			{Ref: models.PlaylistRef{OwnerID: "bob", ID: "p2"}, Err: errors.New("status 502")},
		}

		var buf bytes.Buffer
		if err := Write(&buf, results); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		entries := readEntries(t, &buf)
		body, ok := entries["p2.error.json"]
		if !ok {
			t.Fatalf("missing error entry, have %v", entries)
		}

		var marker struct {
			PlaylistID string `json:"playlist_id"`
			Owner      string `json:"owner"`
			Error      string `json:"error"`
		}
		if err := json.Unmarshal([]byte(body), &marker); err != nil {
			t.Fatalf("error entry is not valid JSON: %v", err)
		}
		if marker.PlaylistID != "p2" || marker.Owner != "bob" || marker.Error != "status 502" {
			t.Errorf("unexpected marker %+v", marker)
		}
	})

	t.Run("Empty Result Set", func(t *testing.T) {
		var buf bytes.Buffer
		if err := Write(&buf, nil); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if entries := readEntries(t, &buf); len(entries) != 0 {
			t.Errorf("expected empty archive, got %v", entries)
		}
	})

	t.Run("Writer Failure", func(t *testing.T) {
		results := []models.PlaylistResult{
			{Playlist: &models.Playlist{Name: "Ok", ID: "p1"}},
		}
		if err := Write(&mocks.FWriter{}, results); err == nil {
			t.Error("expected error from failing writer")
		}
	})
}
