package hex

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInterpretationSetClearGet(t *testing.T) {
	reg := NewRegistry()
	a := reg.InternAtom([]Id{reg.InternConstant("a")})

	ip := NewInterpretation(reg)
	require.False(t, ip.Get(a))
	ip.Set(a)
	require.True(t, ip.Get(a))
	ip.Clear(a)
	require.False(t, ip.Get(a))
}

func TestInterpretationUnionIntersectSubtract(t *testing.T) {
	reg := NewRegistry()
	a := reg.InternAtom([]Id{reg.InternConstant("a")})
	b := reg.InternAtom([]Id{reg.InternConstant("b")})
	c := reg.InternAtom([]Id{reg.InternConstant("c")})

	x := NewInterpretation(reg)
	x.Set(a)
	x.Set(b)
	y := NewInterpretation(reg)
	y.Set(b)
	y.Set(c)

	union := x.Clone()
	union.Union(y)
	require.Equal(t, 3, union.Count())

	inter := x.Clone()
	inter.Intersect(y)
	require.Equal(t, 1, inter.Count())
	require.True(t, inter.Get(b))

	sub := x.Clone()
	sub.Subtract(y)
	require.Equal(t, 1, sub.Count())
	require.True(t, sub.Get(a))
	require.False(t, sub.Get(b))
}

func TestInterpretationEqualAndClone(t *testing.T) {
	reg := NewRegistry()
	a := reg.InternAtom([]Id{reg.InternConstant("a")})

	x := NewInterpretation(reg)
	x.Set(a)
	y := x.Clone()
	require.True(t, x.Equal(y))

	y.Clear(a)
	require.False(t, x.Equal(y))
}

func TestInterpretationAtomsSkipsUnknownAddresses(t *testing.T) {
	reg := NewRegistry()
	a := reg.InternAtom([]Id{reg.InternConstant("a")})

	ip := NewInterpretation(reg)
	ip.Set(a)
	atoms := ip.Atoms()
	require.Len(t, atoms, 1)
	require.Equal(t, a.Address(), atoms[0].Address())
}
