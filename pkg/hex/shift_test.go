package hex

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestShiftNonDisjunctive(t *testing.T) {
	reg := NewRegistry()
	a := reg.InternAtom([]Id{reg.InternConstant("a")})
	b := reg.InternAtom([]Id{reg.InternConstant("b")})
	ru := Rule{Head: []Id{a}, Body: []Id{b}}

	out := Shift(ru)
	require.Len(t, out, 1)
	require.Equal(t, a, out[0].Head)
	require.Equal(t, []Id{b}, out[0].Body)
}

func TestShiftConstraintHasNoVariants(t *testing.T) {
	reg := NewRegistry()
	b := reg.InternAtom([]Id{reg.InternConstant("b")})
	ru := Rule{Body: []Id{b}}

	require.Empty(t, Shift(ru))
}

func TestShiftDisjunctiveNegatesSiblings(t *testing.T) {
	reg := NewRegistry()
	a := reg.InternAtom([]Id{reg.InternConstant("a")})
	b := reg.InternAtom([]Id{reg.InternConstant("b")})
	c := reg.InternAtom([]Id{reg.InternConstant("c")})
	ru := Rule{Head: []Id{a, b}, Body: []Id{c}}

	out := Shift(ru)
	require.Len(t, out, 2)

	require.Equal(t, a, out[0].Head)
	require.Contains(t, out[0].Body, c)
	require.Contains(t, out[0].Body, b.Negate())

	require.Equal(t, b, out[1].Head)
	require.Contains(t, out[1].Body, c)
	require.Contains(t, out[1].Body, a.Negate())
}

func TestCompletionBuilderOneBodyAtomPerRule(t *testing.T) {
	reg := NewRegistry()
	a := reg.InternAtom([]Id{reg.InternConstant("a")})
	b := reg.InternAtom([]Id{reg.InternConstant("b")})
	ru := Rule{Head: []Id{a}, Body: []Id{b}}
	rid := reg.InternRule(ru)

	cb := newCompletionBuilder(reg, []Id{rid})
	require.Len(t, cb.bodyAtomOf, 1)
	bodyAtom := cb.bodyAtomOf[rid.Address()]
	require.True(t, bodyAtom.IsAux())

	ngs := cb.nogoods()
	// body_r -> b, b -> body_r, a -> body_r, body_r -> a (non-disjunctive).
	require.Len(t, ngs, 4)
	for _, ng := range ngs {
		require.LessOrEqual(t, ng.Len(), 2)
	}
}

func TestCompletionBuilderDisjunctiveHasNoBackwardHeadImplication(t *testing.T) {
	reg := NewRegistry()
	a := reg.InternAtom([]Id{reg.InternConstant("a")})
	b := reg.InternAtom([]Id{reg.InternConstant("b")})
	ru := Rule{Head: []Id{a, b}}
	rid := reg.InternRule(ru)

	cb := newCompletionBuilder(reg, []Id{rid})
	ngs := cb.nogoods()

	bodyAtom := cb.bodyAtomOf[rid.Address()]
	// body_r -> a OR b: {body_r, not a, not b} must be present...
	foundDisjunctiveForward := false
	// ...but no nogood should force b false whenever a is true (the
	// converse of the disjunctive "pick one" is left open).
	for _, ng := range ngs {
		if ng.Len() == 3 && ng.Contains(bodyAtom) && ng.Contains(a.Negate()) && ng.Contains(b.Negate()) {
			foundDisjunctiveForward = true
		}
		require.False(t, ng.Contains(a) && ng.Contains(b.Negate()) && ng.Len() == 2,
			"disjunctive completion must not single out one head atom")
	}
	require.True(t, foundDisjunctiveForward)
}

func TestFLPReductFactUnchanged(t *testing.T) {
	reg := NewRegistry()
	a := reg.InternAtom([]Id{reg.InternConstant("a")})
	rid := reg.InternRule(Rule{Kind: RuleFact, Head: []Id{a}})

	out := FLPReduct(reg, []Id{rid})
	require.Len(t, out, 1)
	require.Equal(t, rid, out[0].SourceRule)
	require.Equal(t, []Id{a}, out[0].Head.Head)
	require.Equal(t, []Id{a}, out[0].Body.Head)
}

func TestFLPReductOrdinaryRuleSplitsHeadAndBody(t *testing.T) {
	reg := NewRegistry()
	a := reg.InternAtom([]Id{reg.InternConstant("a")})
	b := reg.InternAtom([]Id{reg.InternConstant("b")})
	rid := reg.InternRule(Rule{Head: []Id{a}, Body: []Id{b}})

	out := FLPReduct(reg, []Id{rid})
	require.Len(t, out, 1)
	red := out[0]

	require.Len(t, red.Head.Head, 1)
	require.True(t, red.Head.Head[0].IsAux())
	require.Equal(t, []Id{b}, red.Head.Body)

	require.Equal(t, []Id{a}, red.Body.Head)
	require.Contains(t, red.Body.Body, b)
	require.Contains(t, red.Body.Body, red.Head.Head[0])
	require.Len(t, red.Body.Body, 2)
}

func TestFLPReductConstraintStaysHeadless(t *testing.T) {
	reg := NewRegistry()
	b := reg.InternAtom([]Id{reg.InternConstant("b")})
	rid := reg.InternRule(Rule{Kind: RuleConstraint, Body: []Id{b}})

	out := FLPReduct(reg, []Id{rid})
	require.Len(t, out, 1)
	red := out[0]

	require.True(t, red.Body.IsConstraint())
	require.Contains(t, red.Body.Body, b)
	require.Contains(t, red.Body.Body, red.Head.Head[0])
}

func TestFLPReductDoesNotShiftDisjunctiveHead(t *testing.T) {
	reg := NewRegistry()
	a := reg.InternAtom([]Id{reg.InternConstant("a")})
	c := reg.InternAtom([]Id{reg.InternConstant("c")})
	b := reg.InternAtom([]Id{reg.InternConstant("b")})
	rid := reg.InternRule(Rule{Head: []Id{a, c}, Body: []Id{b}})

	out := FLPReduct(reg, []Id{rid})
	require.Len(t, out, 1)
	// The reduct's body half keeps both disjuncts in one rule head,
	// rather than shifting to two single-headed rules.
	require.ElementsMatch(t, []Id{a, c}, out[0].Body.Head)
}
