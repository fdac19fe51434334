package hex

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// A single-literal nogood forces its one literal false, and the forced
// value in turn makes a second nogood unit without ever needing a
// decision.
func TestCDNLSolverUnitPropagationForcesValues(t *testing.T) {
	reg := NewRegistry()
	a := reg.InternAtom([]Id{reg.InternConstant("a")})
	b := reg.InternAtom([]Id{reg.InternConstant("b")})

	s := NewCDNLSolver(reg, []Id{a, b})
	s.AddNogood(NewNogood(a.Negate())) // forbids a=false, i.e. forces a=true
	s.AddNogood(NewNogood(a, b))       // forbids a&b both true

	model, ok := s.GetNextModel()
	require.True(t, ok)
	require.True(t, model.Get(a))
	require.False(t, model.Get(b))

	_, ok = s.GetNextModel()
	require.False(t, ok)
}

// With only "not(a=false and b=false and c=false)" forbidden, every
// assignment except all-false is a model: exactly 7 of the 8 possible
// 3-variable assignments. Finding all of them exercises decision,
// flip-on-backtrack, and level collapse, not just propagation.
func TestCDNLSolverEnumeratesAllModelsExcludingForbidden(t *testing.T) {
	reg := NewRegistry()
	a := reg.InternAtom([]Id{reg.InternConstant("a")})
	b := reg.InternAtom([]Id{reg.InternConstant("b")})
	c := reg.InternAtom([]Id{reg.InternConstant("c")})

	s := NewCDNLSolver(reg, []Id{a, b, c})
	s.AddNogood(NewNogood(a.Negate(), b.Negate(), c.Negate()))

	seen := map[[3]bool]bool{}
	for {
		model, ok := s.GetNextModel()
		if !ok {
			break
		}
		key := [3]bool{model.Get(a), model.Get(b), model.Get(c)}
		require.False(t, seen[key], "model %v enumerated twice", key)
		require.False(t, key == [3]bool{false, false, false}, "forbidden all-false assignment returned as a model")
		seen[key] = true
	}
	require.Len(t, seen, 7)
}

// GetInconsistencyCause is a contract violation unless it immediately
// follows a GetNextModel call that returned false with no model ever
// produced.
func TestCDNLSolverGetInconsistencyCauseContractViolation(t *testing.T) {
	reg := NewRegistry()
	a := reg.InternAtom([]Id{reg.InternConstant("a")})
	s := NewCDNLSolver(reg, []Id{a})

	_, err := s.GetInconsistencyCause(nil)
	require.Error(t, err)
	var contractErr *ContractError
	require.ErrorAs(t, err, &contractErr)
}

// GetInconsistencyCause succeeds once the solver is actually
// unsatisfiable and has never produced a model.
func TestCDNLSolverGetInconsistencyCauseAfterUnsat(t *testing.T) {
	reg := NewRegistry()
	a := reg.InternAtom([]Id{reg.InternConstant("a")})
	s := NewCDNLSolver(reg, []Id{a})
	s.AddNogood(NewNogood(a))          // forbids a=true
	s.AddNogood(NewNogood(a.Negate())) // forbids a=false: together, unsatisfiable

	_, ok := s.GetNextModel()
	require.False(t, ok)

	cause, err := s.GetInconsistencyCause(nil)
	require.NoError(t, err)
	require.Positive(t, cause.Len())
}

// AddNogood silently rejects (returns 0, does not panic or register)
// any nogood mentioning an atom outside the solver's declared universe.
func TestCDNLSolverAddNogoodRejectsOutsideUniverse(t *testing.T) {
	reg := NewRegistry()
	a := reg.InternAtom([]Id{reg.InternConstant("a")})
	outside := reg.InternAtom([]Id{reg.InternConstant("outside")})

	s := NewCDNLSolver(reg, []Id{a})
	before := s.NogoodCount()
	idx := s.AddNogood(NewNogood(outside))
	require.Equal(t, 0, idx)
	require.Equal(t, before, s.NogoodCount())
}
