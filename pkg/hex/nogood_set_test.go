package hex

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Adding an equal nogood twice must not grow the set; it only bumps the
// existing entry's add-count and returns the same index.
func TestNogoodSetAddIsIdempotentOnDuplicates(t *testing.T) {
	reg := NewRegistry()
	a := reg.InternAtom([]Id{reg.InternConstant("a")})
	b := reg.InternAtom([]Id{reg.InternConstant("b")})

	ns := NewNogoodSet()
	idx1 := ns.Add(NewNogood(a, b.Negate()))
	require.Equal(t, uint32(1), ns.AddCount(idx1))

	idx2 := ns.Add(NewNogood(b.Negate(), a)) // same literals, different insertion order
	require.Equal(t, idx1, idx2)
	require.Equal(t, uint32(2), ns.AddCount(idx1))
	require.Equal(t, 1, ns.Len())
}

// Defragment must preserve the exact multiset of live nogoods, just
// renumbered contiguously, after a Remove leaves a hole.
func TestNogoodSetDefragmentPreservesContent(t *testing.T) {
	reg := NewRegistry()
	a := reg.InternAtom([]Id{reg.InternConstant("a")})
	b := reg.InternAtom([]Id{reg.InternConstant("b")})
	c := reg.InternAtom([]Id{reg.InternConstant("c")})

	ns := NewNogoodSet()
	ns.Add(NewNogood(a))
	idxB := ns.Add(NewNogood(b))
	ns.Add(NewNogood(c))

	ns.Remove(idxB)
	require.Equal(t, 2, ns.Len())

	before := map[uint64]bool{}
	ns.ForEach(func(idx int, ng *Nogood) bool {
		before[ng.Hash()] = true
		return true
	})

	ns.Defragment()
	require.Equal(t, 2, ns.Len())

	after := map[uint64]bool{}
	ns.ForEach(func(idx int, ng *Nogood) bool {
		after[ng.Hash()] = true
		return true
	})
	require.Equal(t, before, after)

	// Entries are renumbered contiguously from 0.
	seen := map[int]bool{}
	ns.ForEach(func(idx int, ng *Nogood) bool {
		seen[idx] = true
		return true
	})
	require.Equal(t, map[int]bool{0: true, 1: true}, seen)
}

// RemoveNogood finds an entry by content, not by a previously recorded
// index, and Get returns nil once it is gone.
func TestNogoodSetRemoveNogoodByContent(t *testing.T) {
	reg := NewRegistry()
	a := reg.InternAtom([]Id{reg.InternConstant("a")})
	b := reg.InternAtom([]Id{reg.InternConstant("b")})

	ns := NewNogoodSet()
	idx := ns.Add(NewNogood(a, b))

	require.True(t, ns.RemoveNogood(NewNogood(b, a)))
	require.Nil(t, ns.Get(idx))
	require.Equal(t, 0, ns.Len())
}

// ForgetLeastFrequentlyAdded keeps only entries whose add-count is at
// least 5% of the current maximum.
func TestNogoodSetForgetLeastFrequentlyAdded(t *testing.T) {
	reg := NewRegistry()
	a := reg.InternAtom([]Id{reg.InternConstant("a")})
	b := reg.InternAtom([]Id{reg.InternConstant("b")})

	ns := NewNogoodSet()
	hot := ns.Add(NewNogood(a))
	for i := 0; i < 99; i++ {
		ns.Add(NewNogood(a))
	}
	cold := ns.Add(NewNogood(b))

	ns.ForgetLeastFrequentlyAdded()
	require.NotNil(t, ns.Get(hot))
	require.Nil(t, ns.Get(cold))
}
