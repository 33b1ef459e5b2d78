package spotify

// externalURLs carries the public link of a resource.
type externalURLs struct {
	Spotify string `json:"spotify"`
}

// Owner identifies the user owning a playlist.
type Owner struct {
	ID string `json:"id"`
}

// PlaylistResponse is the playlist header with its embedded first page of
// tracks, shaped by the playlist field selector.
type PlaylistResponse struct {
	Name         string       `json:"name"`
	ID           string       `json:"id"`
	ExternalURLs externalURLs `json:"external_urls"`
	URI          string       `json:"uri"`
	Owner        Owner        `json:"owner"`
	Tracks       TrackPage    `json:"tracks"`
}

// TrackPage is one page of playlist tracks. Next is the opaque
// continuation URL; nil signals the terminal page.
type TrackPage struct {
	Next  *string     `json:"next"`
	Total int         `json:"total"`
	Items []TrackItem `json:"items"`
}

// TrackItem is a playlist slot. Track is nil for tombstoned entries.
type TrackItem struct {
	Track *TrackData `json:"track"`
}

// TrackData carries the track fields selected for export.
type TrackData struct {
	Name       string       `json:"name"`
	Album      albumData    `json:"album"`
	Artists    []artistData `json:"artists"`
	DurationMS int          `json:"duration_ms"`
	URI        string       `json:"uri"`
	PreviewURL string       `json:"preview_url"`
}

type albumData struct {
	Name string `json:"name"`
}

type artistData struct {
	Name string `json:"name"`
}

// PlaylistListPage is one page of a user's playlist listing.
type PlaylistListPage struct {
	Next  *string            `json:"next"`
	Items []PlaylistListItem `json:"items"`
}

// PlaylistListItem is a playlist summary from the listing endpoint.
type PlaylistListItem struct {
	ID    string `json:"id"`
	Owner Owner  `json:"owner"`
}
