package hex

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNogoodAddDeduplicatesAndNormalizes(t *testing.T) {
	reg := NewRegistry()
	a := reg.InternAtom([]Id{reg.InternConstant("a")})

	ng := NewNogood(a, a, a.Negate())
	require.Equal(t, 2, ng.Len())
	require.True(t, ng.Contains(a))
	require.True(t, ng.Contains(a.Negate()))
}

func TestNogoodEqualIgnoresInsertionOrder(t *testing.T) {
	reg := NewRegistry()
	a := reg.InternAtom([]Id{reg.InternConstant("a")})
	b := reg.InternAtom([]Id{reg.InternConstant("b")})

	n1 := NewNogood(a, b.Negate())
	n2 := NewNogood(b.Negate(), a)
	require.True(t, n1.Equal(n2))
}

// Resolve's result must always be strictly smaller than the sum of its
// inputs, since the pivot address is dropped from both sides.
func TestNogoodResolveIsContractive(t *testing.T) {
	reg := NewRegistry()
	a := reg.InternAtom([]Id{reg.InternConstant("a")})
	b := reg.InternAtom([]Id{reg.InternConstant("b")})
	c := reg.InternAtom([]Id{reg.InternConstant("c")})

	n1 := NewNogood(a, b)
	n2 := NewNogood(a.Negate(), c)

	resolvent := n1.Resolve(n2, a.Address())
	require.Less(t, resolvent.Len(), n1.Len()+n2.Len())
	require.True(t, resolvent.Contains(b))
	require.True(t, resolvent.Contains(c))
	require.False(t, resolvent.Contains(a))
	require.False(t, resolvent.Contains(a.Negate()))
}

func TestNogoodCloneIsIndependent(t *testing.T) {
	reg := NewRegistry()
	a := reg.InternAtom([]Id{reg.InternConstant("a")})
	b := reg.InternAtom([]Id{reg.InternConstant("b")})

	n1 := NewNogood(a)
	clone := n1.Clone()
	clone.Add(b)

	require.Equal(t, 1, n1.Len())
	require.Equal(t, 2, clone.Len())
}

func TestNogoodMatchAppliesUnifier(t *testing.T) {
	reg := NewRegistry()
	x := reg.InternVariable("X")
	p := reg.InternConstant("p")
	q := reg.InternConstant("q")
	one := reg.InternInteger(1)

	// p(X, q) as a pattern literal.
	pattern := reg.InternAtom([]Id{p, x, q})
	ng := NewNogood(pattern)

	ground := reg.InternAtom([]Id{p, one, q})
	instance, ok := ng.Match(reg, ground)
	require.True(t, ok)
	require.True(t, instance.IsGround(reg))
}

func TestNogoodHeuristicNormalizationIsIdempotent(t *testing.T) {
	reg := NewRegistry()
	x := reg.InternVariable("X")
	y := reg.InternVariable("Y")
	p := reg.InternConstant("p")

	lit := reg.InternAtom([]Id{p, x, y})
	ng := NewNogood(lit)

	once := ng.HeuristicNormalization(reg)
	twice := once.HeuristicNormalization(reg)
	require.True(t, once.Equal(twice))
}
