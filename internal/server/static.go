package server

import (
	"fmt"
	"net/http"
)

// IndexHandler serves the landing page. The page reads tokens from the URL
// fragment the OAuth callback redirects to.
type IndexHandler struct{}

// Routes returns the HTTP routes this handler serves.
func (h *IndexHandler) Routes() []string {
	return []string{"/{$}"}
}

func (h *IndexHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, `<!DOCTYPE html>
<html>
<head><title>spotzip</title></head>
<body>
  <h1>spotzip</h1>
  <p><a href="/login">Log in with Spotify</a></p>
  <p>Then download your playlists:
     <code>/export?token=&lt;access_token&gt;&amp;u=&lt;user_id&gt;[&amp;p=&lt;playlist_id&gt;]</code></p>
  <script>
    var params = new URLSearchParams(location.hash.slice(1));
    if (params.get('access_token')) {
      document.body.insertAdjacentHTML('beforeend',
        '<p>Access token: <code>' + params.get('access_token') + '</code></p>');
    }
    if (params.get('error')) {
      document.body.insertAdjacentHTML('beforeend',
        '<p>Login failed: <code>' + params.get('error') + '</code></p>');
    }
  </script>
</body>
</html>
`)
}
