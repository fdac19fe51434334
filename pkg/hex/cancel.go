package hex

import "context"

// CancelToken is a cooperative cancellation flag checked at the top of
// the CDNL main loop (spec §5: "a cooperative cancellation flag may be
// checked between unit-propagation steps; there is no preemption").
// It is a trimmed adaptation of context_utils.go's ContextMonitor: the
// metrics/cleanup-callback machinery that ContextMonitor carries is
// dropped since spec §5 asks only for a check, not instrumentation.
type CancelToken struct {
	ctx context.Context
}

// NewCancelToken wraps ctx. A nil ctx is treated as context.Background,
// i.e. a token that never reports cancellation.
func NewCancelToken(ctx context.Context) CancelToken {
	if ctx == nil {
		ctx = context.Background()
	}
	return CancelToken{ctx: ctx}
}

// Cancelled reports whether the wrapped context has been cancelled.
func (t CancelToken) Cancelled() bool {
	select {
	case <-t.ctx.Done():
		return true
	default:
		return false
	}
}

// Err returns the wrapped context's error, or nil if it is still live.
func (t CancelToken) Err() error {
	return t.ctx.Err()
}
