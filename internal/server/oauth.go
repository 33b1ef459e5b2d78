package server

import (
	"net/http"
	"net/url"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotzip/internal/shared"
	"golang.org/x/oauth2"
)

// stateCookie stores the OAuth state parameter between /login and /callback.
const stateCookie = "spotify_auth_state"

// Scopes requested on login. Playlist reads only need library access plus
// the profile scopes the authorize dialog displays.
var Scopes = []string{"user-read-private", "user-read-email", "playlist-read-private"}

// OAuthHandler implements the Spotify authorization-code flow for browser
// sessions: /login redirects to the authorize dialog with a fresh state
// token, /callback verifies the state cookie and exchanges the code.
//
// Tokens are handed back to the page via the URL fragment; the service
// itself stores nothing.
type OAuthHandler struct {
	config *oauth2.Config
	logger *log.Logger

	// newState is swappable for tests.
	newState func() string
}

// NewOAuthHandler creates an OAuth handler from explicit client
// credentials.
func NewOAuthHandler(config *oauth2.Config, logger *log.Logger) *OAuthHandler {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &OAuthHandler{
		config:   config,
		logger:   logger,
		newState: shared.NewStateToken,
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *OAuthHandler) Routes() []string {
	return []string{"/login", "/callback"}
}

func (h *OAuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/login":
		h.login(w, r)
	case "/callback":
		h.callback(w, r)
	default:
		http.NotFound(w, r)
	}
}

// login stores a fresh state token in a cookie and redirects to the
// authorize dialog.
func (h *OAuthHandler) login(w http.ResponseWriter, r *http.Request) {
	state := h.newState()

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/",
		HttpOnly: true,
	})

	http.Redirect(w, r, h.config.AuthCodeURL(state), http.StatusFound)
}

// callback verifies the state parameter against the cookie and exchanges
// the authorization code for tokens. Outcomes are reported to the page
// through the URL fragment, matching what the landing page expects.
func (h *OAuthHandler) callback(w http.ResponseWriter, r *http.Request) {
	state := r.URL.Query().Get("state")

	cookie, err := r.Cookie(stateCookie)
	if state == "" || err != nil || state != cookie.Value {
		h.logger.Warn("callback rejected", "error", shared.ErrStateMismatch)
		h.redirectFragment(w, r, url.Values{"error": {"state_mismatch"}})
		return
	}

	// Single use only
	http.SetCookie(w, &http.Cookie{Name: stateCookie, Value: "", Path: "/", MaxAge: -1})

	token, err := h.config.Exchange(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		h.logger.Error("callback rejected", "error", shared.ErrTokenExchange, "cause", err)
		h.redirectFragment(w, r, url.Values{"error": {"invalid_token"}})
		return
	}

	params := url.Values{"access_token": {token.AccessToken}}
	if token.RefreshToken != "" {
		params.Set("refresh_token", token.RefreshToken)
	}
	h.redirectFragment(w, r, params)
}

func (h *OAuthHandler) redirectFragment(w http.ResponseWriter, r *http.Request, params url.Values) {
	http.Redirect(w, r, "/#"+params.Encode(), http.StatusFound)
}
