package hex

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// a <- b. b <- a. forms a 2-cycle: both atoms belong to the same
// non-singular SCC and must be seeded unfounded before any fact is set.
func TestUFSBuildSCCsDetectsLoop(t *testing.T) {
	reg := NewRegistry()
	a := reg.InternAtom([]Id{reg.InternConstant("a")})
	b := reg.InternAtom([]Id{reg.InternConstant("b")})
	r1 := reg.InternRule(Rule{Head: []Id{a}, Body: []Id{b}})
	r2 := reg.InternRule(Rule{Head: []Id{b}, Body: []Id{a}})

	cb := newCompletionBuilder(reg, []Id{r1, r2})
	u := newUFSState(reg, []Id{r1, r2}, cb)

	require.True(t, u.nonSingularFacts[a.Address()])
	require.True(t, u.nonSingularFacts[b.Address()])
	require.Equal(t, u.componentOfAtom[a.Address()], u.componentOfAtom[b.Address()])

	u.seedUnfounded()
	require.True(t, u.unfounded[a.Address()])
	require.True(t, u.unfounded[b.Address()])
}

// a <- c. (no cycle) must not be seeded unfounded.
func TestUFSBuildSCCsNoLoopNotSeeded(t *testing.T) {
	reg := NewRegistry()
	a := reg.InternAtom([]Id{reg.InternConstant("a")})
	c := reg.InternAtom([]Id{reg.InternConstant("c")})
	r1 := reg.InternRule(Rule{Head: []Id{a}, Body: []Id{c}})

	cb := newCompletionBuilder(reg, []Id{r1})
	u := newUFSState(reg, []Id{r1}, cb)
	u.seedUnfounded()

	require.False(t, u.nonSingularFacts[a.Address()])
	require.Empty(t, u.unfounded)
}

func TestUFSGetExternalSupport(t *testing.T) {
	reg := NewRegistry()
	a := reg.InternAtom([]Id{reg.InternConstant("a")})
	b := reg.InternAtom([]Id{reg.InternConstant("b")})
	c := reg.InternAtom([]Id{reg.InternConstant("c")})
	// a <- c. (external: body c not in {a,b} set under test)
	// b <- a. (internal: body a is in the set)
	r1 := reg.InternRule(Rule{Head: []Id{a}, Body: []Id{c}})
	r2 := reg.InternRule(Rule{Head: []Id{b}, Body: []Id{a}})

	cb := newCompletionBuilder(reg, []Id{r1, r2})
	u := newUFSState(reg, []Id{r1, r2}, cb)

	set := map[uint32]bool{a.Address(): true, b.Address(): true}
	ext := u.getExternalSupport(set)
	require.Len(t, ext, 1)
	require.Equal(t, r1, ext[0])
}

func TestUFSSatisfiesIndependently(t *testing.T) {
	reg := NewRegistry()
	a := reg.InternAtom([]Id{reg.InternConstant("a")})
	b := reg.InternAtom([]Id{reg.InternConstant("b")})
	c := reg.InternAtom([]Id{reg.InternConstant("c")})
	rid := reg.InternRule(Rule{Head: []Id{a, b}, Body: []Id{c}})

	cb := newCompletionBuilder(reg, []Id{rid})
	u := newUFSState(reg, []Id{rid}, cb)

	bodyAtom := cb.bodyAtomOf[rid.Address()]
	out := u.satisfiesIndependently(rid, map[uint32]bool{a.Address(): true})
	require.Contains(t, out, bodyAtom.Negate())
	require.Contains(t, out, b)
	require.NotContains(t, out, a)
}
