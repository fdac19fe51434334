package hex

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// "p(X) <- q(X), &ext[X](Y)." with &ext declared finite-domain(0) and no
// other atom touching Y: &ext is the unique binder of Y, so the rule is
// safe and the occurrence must be marked necessary.
func TestLiberalSafetyCheckerAcceptsFiniteDomainBinder(t *testing.T) {
	reg := NewRegistry()
	x := reg.InternVariable("X")
	y := reg.InternVariable("Y")
	qX := reg.InternAtom([]Id{reg.InternConstant("q"), x})
	pX := reg.InternAtom([]Id{reg.InternConstant("p"), x})

	eaID, _, _ := reg.InternExternal(ExternalAtom{
		Predicate: reg.InternConstant("ext"),
		Inputs:    []Id{x},
		InputKind: []InputKind{InputConstant},
		Outputs:   []Id{y},
		Properties: ExtSourceProperties{Props: []ExtProperty{
			{Kind: PropFiniteDomain, Arg: 0},
		}},
	})

	rid := reg.InternRule(Rule{Head: []Id{pX}, Body: []Id{qX, eaID}})

	verdict := NewLiberalSafetyChecker(reg, []Id{rid}).Check()
	require.True(t, verdict.IsSafe)
	require.Empty(t, verdict.UnsafeRules)
	require.True(t, verdict.NecessaryExternalOccurrences[eaID])
}

// Same rule, but an ordinary "r(Y)" body literal already binds Y on its
// own: the program is still safe, but &ext need not be the binder.
func TestLiberalSafetyCheckerOrdinaryBinderMakesExternalUnnecessary(t *testing.T) {
	reg := NewRegistry()
	x := reg.InternVariable("X")
	y := reg.InternVariable("Y")
	qX := reg.InternAtom([]Id{reg.InternConstant("q"), x})
	rY := reg.InternAtom([]Id{reg.InternConstant("r"), y})
	pX := reg.InternAtom([]Id{reg.InternConstant("p"), x})

	eaID, _, _ := reg.InternExternal(ExternalAtom{
		Predicate: reg.InternConstant("ext"),
		Inputs:    []Id{x},
		InputKind: []InputKind{InputConstant},
		Outputs:   []Id{y},
	})

	rid := reg.InternRule(Rule{Head: []Id{pX}, Body: []Id{qX, eaID, rY}})

	verdict := NewLiberalSafetyChecker(reg, []Id{rid}).Check()
	require.True(t, verdict.IsSafe)
	require.False(t, verdict.NecessaryExternalOccurrences[eaID])
}

// "p(X,Y) <- q(X), &ext[X](Y)." with no finiteness annotation and no
// other binder for Y: the checker must reject the rule and name Y.
func TestLiberalSafetyCheckerRejectsUnboundExternalOutput(t *testing.T) {
	reg := NewRegistry()
	x := reg.InternVariable("X")
	y := reg.InternVariable("Y")
	qX := reg.InternAtom([]Id{reg.InternConstant("q"), x})
	pXY := reg.InternAtom([]Id{reg.InternConstant("p"), x, y})

	eaID, _, _ := reg.InternExternal(ExternalAtom{
		Predicate: reg.InternConstant("ext"),
		Inputs:    []Id{x},
		InputKind: []InputKind{InputConstant},
		Outputs:   []Id{y},
	})

	rid := reg.InternRule(Rule{Head: []Id{pXY}, Body: []Id{qX, eaID}})

	verdict := NewLiberalSafetyChecker(reg, []Id{rid}).Check()
	require.False(t, verdict.IsSafe)
	require.Len(t, verdict.UnsafeRules, 1)
	require.Equal(t, rid, verdict.UnsafeRules[0].Rule)
	require.Contains(t, verdict.UnsafeRules[0].Vars, y)

	_, err := NewLiberalSafetyChecker(reg, []Id{rid}).CheckOrError()
	require.Error(t, err)
	var safetyErr *SafetyError
	require.ErrorAs(t, err, &safetyErr)
	require.Equal(t, rid, safetyErr.Rule)
	require.Equal(t, []Id{y}, safetyErr.UnsafeVars)
}

// A plain ordinary rule with every body variable bound positively is
// safe with no external atoms involved at all.
func TestLiberalSafetyCheckerOrdinaryRuleSafeWithoutExternals(t *testing.T) {
	reg := NewRegistry()
	x := reg.InternVariable("X")
	qX := reg.InternAtom([]Id{reg.InternConstant("q"), x})
	pX := reg.InternAtom([]Id{reg.InternConstant("p"), x})
	rid := reg.InternRule(Rule{Head: []Id{pX}, Body: []Id{qX}})

	verdict := NewLiberalSafetyChecker(reg, []Id{rid}).Check()
	require.True(t, verdict.IsSafe)
}

// A rule whose only body literal is negated never binds its variable:
// negation-as-failure does not contribute to domain-expansion safety.
func TestLiberalSafetyCheckerRejectsPurelyNegativeBody(t *testing.T) {
	reg := NewRegistry()
	x := reg.InternVariable("X")
	qX := reg.InternAtom([]Id{reg.InternConstant("q"), x})
	pX := reg.InternAtom([]Id{reg.InternConstant("p"), x})
	rid := reg.InternRule(Rule{Head: []Id{pX}, Body: []Id{qX.Negate()}})

	verdict := NewLiberalSafetyChecker(reg, []Id{rid}).Check()
	require.False(t, verdict.IsSafe)
	require.Len(t, verdict.UnsafeRules, 1)
	require.Contains(t, verdict.UnsafeRules[0].Vars, x)
}
