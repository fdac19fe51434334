package hex

import "go.uber.org/zap"

// logger is the package-level structured logger used for internal
// solver diagnostics (ModelGenerator's per-call trace lines, the CDNL
// core's Trace gating and its SetOptimum notice). It defaults to a no-op logger, matching
// codenerd/internal/logging's pattern of an overridable package
// logger rather than a mandatory constructor argument threaded through
// every type.
var logger *zap.Logger = zap.NewNop()

// SetLogger replaces the package-level logger used for internal
// diagnostics. Passing nil restores the no-op logger. Call this before
// constructing any solver if diagnostic logging is wanted; the logger
// is read, not re-read, at the points each component logs from.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger = l
}
