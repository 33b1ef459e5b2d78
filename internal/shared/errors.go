package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// OAuth errors
	ErrStateMismatch = fmt.Errorf("state parameter mismatch")
	ErrTokenExchange = fmt.Errorf("token exchange failed")

	// Export errors
	ErrMissingParameter   = fmt.Errorf("missing required parameter")
	ErrMalformedResponse  = fmt.Errorf("malformed response body")
	ErrPlaylistNotFound   = fmt.Errorf("playlist not found")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
)
