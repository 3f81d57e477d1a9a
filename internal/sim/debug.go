package sim

import "sync/atomic"

// debugLoggingEnabled guards per-tick debug logs, which are too frequent
// to build unconditionally.
var debugLoggingEnabled atomic.Bool

// EnableDebugLogging enables or disables per-tick debug logging.
// Call it once during startup, after the log level is known.
func EnableDebugLogging(enabled bool) {
	debugLoggingEnabled.Store(enabled)
}

// IsDebugEnabled reports whether per-tick debug logging is on:
//
//	if sim.IsDebugEnabled() {
//	    slog.Debug("tick", "state", expensiveSnapshot())
//	}
func IsDebugEnabled() bool {
	return debugLoggingEnabled.Load()
}
