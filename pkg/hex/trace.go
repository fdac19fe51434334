package hex

import "go.uber.org/zap"

// TraceEventKind classifies one CDNL trace event.
type TraceEventKind int

const (
	// TraceDecision records a decision literal being guessed.
	TraceDecision TraceEventKind = iota
	// TraceConflict records a learned nogood and its backjump level.
	TraceConflict
	// TraceModel records a complete model being emitted.
	TraceModel
)

// TraceEvent is one opt-in diagnostic event recorded during search,
// grounded on wfs_trace.go's lightweight tracing idiom: a trace buffer
// kept on the solver itself rather than a side-channel logger, so a
// caller can inspect exactly what search did after the fact without
// parsing log lines.
type TraceEvent struct {
	Kind  TraceEventKind
	DL    int32
	Lit   Id
	Extra string
}

// recordTrace appends ev to the solver's trace buffer, but only when
// the package logger is configured at debug level or below — tracing
// is diagnostic instrumentation, not a feature callers depend on by
// default, so it stays off (and allocation-free) unless SetLogger was
// given a debug-enabled logger.
func (s *CDNLSolver) recordTrace(ev TraceEvent) {
	if !logger.Core().Enabled(zap.DebugLevel) {
		return
	}
	s.trace = append(s.trace, ev)
}

// Trace returns every event recorded so far. Empty unless the package
// logger is debug-enabled (see SetLogger).
func (s *CDNLSolver) Trace() []TraceEvent { return s.trace }
