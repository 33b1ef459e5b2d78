// Package server provides HTTP routing, middleware, and the OAuth and
// export endpoints of the service.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # Handlers
//
// [OAuthHandler] implements the Spotify authorization-code flow for
// browser sessions: /login plants a state cookie and redirects to the
// authorize dialog, /callback verifies it and exchanges the code. The
// resulting token travels back to the page in the URL fragment and is
// passed to /export as a query parameter; the server keeps no session
// state.
//
// [ExportHandler] runs the export engine and streams the zip archive.
// Response headers are committed inside the engine's flush callback, so
// the archive name can reflect the settled result set.
package server
