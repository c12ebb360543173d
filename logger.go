package pinpad

import (
	"log/slog"

	"github.com/gogpu/gg"
	"github.com/gogpu/pinpad/internal/logging"
)

// DefaultTag is the logcat tag used when LogConfig.Tag is empty.
const DefaultTag = "interstellar"

// DefaultFilter is the level filter used when LogConfig.Filter is empty.
const DefaultFilter = "info"

// LogConfig configures process-wide logging.
type LogConfig struct {
	// Tag identifies this module's output, the logcat tag on Android.
	Tag string

	// Filter is a level filter such as "info,engine=debug,surface=warn".
	Filter string
}

// InitLogging installs the platform log handler once per process. Only the
// first call has any effect; it reports whether this call configured
// logging. A malformed filter falls back to DefaultFilter.
//
// On Android records go to logcat, elsewhere to stderr.
func InitLogging(cfg LogConfig) bool {
	return logging.InitOnce(func() slog.Handler {
		tag := cfg.Tag
		if tag == "" {
			tag = DefaultTag
		}
		filter := cfg.Filter
		if filter == "" {
			filter = DefaultFilter
		}
		f, err := logging.ParseFilter(filter)
		if err != nil {
			f, _ = logging.ParseFilter(DefaultFilter)
		}
		h := f.Handler(logging.NewPlatformHandler(tag, f.MinLevel()))
		if err != nil {
			slog.New(h).Warn("bad log filter, using default", "filter", filter, "err", err)
		}
		gg.SetLogger(slog.New(h).With(logging.ComponentKey, "gg"))
		return h
	})
}

// SetLogger configures the logger for pinpad and all its sub-packages.
// By default, pinpad produces no log output. Call SetLogger (or
// InitLogging) to enable logging.
//
// SetLogger is safe for concurrent use: it stores the new logger atomically.
// Pass nil to disable logging (restore default silent behavior).
//
// Log levels used by pinpad:
//   - [slog.LevelDebug]: lifecycle details (handles, windows, frame counts)
//   - [slog.LevelWarn]: non-fatal issues (shader setup, frame errors)
//   - [slog.LevelError]: contract violations right before aborting
//
// The logger is also handed to gg, tagged with component "gg".
func SetLogger(l *slog.Logger) {
	logging.Set(l)
	if l == nil {
		gg.SetLogger(nil)
		return
	}
	gg.SetLogger(l.With(logging.ComponentKey, "gg"))
}

// Logger returns the current logger used by pinpad.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return logging.Logger()
}
