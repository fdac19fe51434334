package hex

import (
	"fmt"

	"github.com/pkg/errors"
)

// ContractError reports that an API was used outside its legal state,
// e.g. calling GetInconsistencyCause before GetNextModel has ever
// returned "no model". Contract errors are fatal: there is no
// recovery, the caller's state machine is simply wrong.
type ContractError struct {
	Op     string
	Reason string
	cause  error
}

func (e *ContractError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("hex: contract violation in %s: %s: %v", e.Op, e.Reason, e.cause)
	}
	return fmt.Sprintf("hex: contract violation in %s: %s", e.Op, e.Reason)
}

// Unwrap exposes the wrapped cause, if any, to errors.Is/errors.As.
func (e *ContractError) Unwrap() error { return e.cause }

func newContractError(op, reason string) *ContractError {
	return &ContractError{Op: op, Reason: reason}
}

// SafetyError reports that a non-ground program failed the liberal
// domain-expansion safety check. It names the offending rule and the
// variables that could not be bounded.
type SafetyError struct {
	Rule       Id
	UnsafeVars []Id
	cause      error
}

func (e *SafetyError) Error() string {
	return fmt.Sprintf("hex: rule %s is not domain-expansion safe: unbound variables %v", e.Rule, e.UnsafeVars)
}

func (e *SafetyError) Unwrap() error { return e.cause }

func newSafetyError(rule Id, unsafe []Id) *SafetyError {
	return &SafetyError{Rule: rule, UnsafeVars: unsafe}
}

// UnsupportedConstructError reports that the internal solver was asked
// to handle a construct it deliberately does not implement (weight or
// weak constraints). No function in this package returns it:
// NewInternalGroundASPSolver does not inspect rule kinds.
type UnsupportedConstructError struct {
	Construct string
}

func (e *UnsupportedConstructError) Error() string {
	return fmt.Sprintf("hex: unsupported construct: %s", e.Construct)
}

func newUnsupportedConstructError(construct string) *UnsupportedConstructError {
	return &UnsupportedConstructError{Construct: construct}
}

// PropagatorError wraps an error raised by a Propagator during
// propagation. Propagator.Propagate has no error result and
// GetNextModel returns none, so the solvers in this package never
// produce it; WrapPropagatorError builds one for callers.
type PropagatorError struct {
	cause error
}

func (e *PropagatorError) Error() string {
	return fmt.Sprintf("hex: propagator error: %v", e.cause)
}

func (e *PropagatorError) Unwrap() error { return e.cause }

// WrapPropagatorError wraps cause (which may be nil, in which case nil
// is returned) as a *PropagatorError using github.com/pkg/errors so the
// original call site's stack is preserved for diagnostics.
func WrapPropagatorError(cause error) error {
	if cause == nil {
		return nil
	}
	return &PropagatorError{cause: errors.WithStack(cause)}
}
