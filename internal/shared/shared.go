// package shared defines shared helpers
package shared

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// NewLogger creates a new [log.Logger] instance with the specified [io.Writer], with timestamps and caller reporting enabled.
//
// The writer defaults to [os.Stderr]
func NewLogger(w io.Writer) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	opts := log.Options{ReportTimestamp: true, ReportCaller: true}
	return log.NewWithOptions(w, opts)
}

// WithLogger creates a child [log.Logger] with the specified key-value pairs added to all log entries.
func WithLogger(l *log.Logger, kv ...any) *log.Logger {
	return l.With(kv...)
}

// SetLogLevel sets the [log.Level] for the given [log.Logger].
func SetLogLevel(l *log.Logger, ll log.Level) {
	l.SetLevel(ll)
}

// GenerateID generates a new v4 [uuid.UUID] as a string
func GenerateID() string {
	return uuid.New().String()
}

// NewStateToken returns a random token for the OAuth state parameter.
func NewStateToken() string {
	return uuid.New().String() + uuid.New().String()
}

// FormatDuration renders a track duration in milliseconds as "mm:ss".
//
// Minutes truncate while seconds round up, so 59500ms is one second short
// of a minute and renders as "01:00" rather than "00:60".
func FormatDuration(ms int) string {
	const msPerSecond = 1000
	const msPerMinute = 60 * msPerSecond

	minutes := ms / msPerMinute
	remainder := ms - minutes*msPerMinute
	seconds := (remainder + msPerSecond - 1) / msPerSecond
	if seconds == 60 {
		minutes++
		seconds = 0
	}

	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}
