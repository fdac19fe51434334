package hex

import "sort"

// Nogood is an ordered set of signed literal Ids that must not be
// jointly satisfied. Literals are kept normalized (inserted via Add,
// which clears stray property bits while retaining the NAF bit) and
// deduplicated; the nogood carries a cached hash so that NogoodSet can
// compare by hash before falling back to element-wise comparison.
type Nogood struct {
	lits   []Id
	hash   uint64
	hashOK bool
}

// NewNogood builds a Nogood from the given literals, normalizing and
// deduplicating them.
func NewNogood(lits ...Id) *Nogood {
	ng := &Nogood{}
	for _, l := range lits {
		ng.Add(l)
	}
	return ng
}

// Add inserts lit into the nogood if not already present, clearing any
// property bits beyond the NAF flag (the stored literal is the bare
// atom/NAF pair, no AUX/GROUND bookkeeping bits survive inside a
// Nogood since those are derivable from the Registry on demand).
func (ng *Nogood) Add(lit Id) {
	norm := newID(lit.mainType()|(lit.kind&FlagNAF), lit.Address())
	for _, l := range ng.lits {
		if l == norm {
			return
		}
	}
	ng.lits = append(ng.lits, norm)
	ng.hashOK = false
}

// Len returns the number of literals in the nogood.
func (ng *Nogood) Len() int { return len(ng.lits) }

// Literals returns the nogood's literals in insertion order. The
// returned slice must not be mutated.
func (ng *Nogood) Literals() []Id { return ng.lits }

// Contains reports whether lit (with its NAF bit significant) is in
// the nogood.
func (ng *Nogood) Contains(lit Id) bool {
	norm := newID(lit.mainType()|(lit.kind&FlagNAF), lit.Address())
	for _, l := range ng.lits {
		if l == norm {
			return true
		}
	}
	return false
}

// IsGround reports whether every literal in the nogood is an ordinary
// ground-atom literal. Nogood strips the ORDINARY/GROUND kind flags on
// insertion (only the main type and NAF bit survive), so groundness
// must be re-derived from the Registry's atom table rather than read
// off the literal's own Kind.
func (ng *Nogood) IsGround(r *Registry) bool {
	for _, l := range ng.lits {
		if !r.isGroundAtomID(l) {
			return false
		}
	}
	return true
}

// isGroundAtomID reports whether id's addressed atom exists and has no
// variable arguments.
func (r *Registry) isGroundAtomID(id Id) bool {
	a, ok := r.Atom(id.Strip())
	if !ok {
		return false
	}
	for _, arg := range a.Args() {
		if r.IsVariable(arg) {
			return false
		}
	}
	return true
}

// recomputeHash rebuilds the cached hash over the (possibly
// canonicalized) literal set. The hash is order-independent: the
// literal set is logically unordered, so two nogoods with the same
// literals in different insertion order must hash equal.
func (ng *Nogood) recomputeHash() {
	sorted := append([]Id(nil), ng.lits...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Less(sorted[j]) })
	var h uint64 = 1469598103934665603 // FNV-1a offset basis
	for _, l := range sorted {
		h ^= uint64(l.kind)
		h *= 1099511628211
		h ^= uint64(l.address)
		h *= 1099511628211
	}
	ng.hash = h
	ng.hashOK = true
}

// Hash returns the nogood's content hash, recomputing it if stale.
func (ng *Nogood) Hash() uint64 {
	if !ng.hashOK {
		ng.recomputeHash()
	}
	return ng.hash
}

// Equal reports whether ng and other contain exactly the same
// literals. Hash is compared first so that unequal nogoods short
// circuit without an element-wise scan.
func (ng *Nogood) Equal(other *Nogood) bool {
	if ng.Hash() != other.Hash() {
		return false
	}
	if len(ng.lits) != len(other.lits) {
		return false
	}
	for _, l := range ng.lits {
		if !other.Contains(l) {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of ng.
func (ng *Nogood) Clone() *Nogood {
	out := &Nogood{lits: append([]Id(nil), ng.lits...), hash: ng.hash, hashOK: ng.hashOK}
	return out
}

// Resolve computes the resolvent of ng and other on pivot: the union
// of both literal sets minus the complementary pair at pivot's
// address. Precondition: pivot (possibly negated) occurs in ng, and
// its complement occurs in other; callers that violate this get a
// resolvent that simply fails to shrink, since Resolve does not panic
// on a missing pivot — it is the caller's job (conflict analysis) to
// only ever resolve on a literal it has already confirmed is a cause.
//
// The resolvent's size is always strictly less than |ng|+|other|,
// since the pivot address contributes to both operands' length but at
// most once to the result (Testable property: "Nogood resolution is
// contractive").
func (ng *Nogood) Resolve(other *Nogood, pivotAddr uint32) *Nogood {
	out := &Nogood{}
	for _, l := range ng.lits {
		if l.Address() == pivotAddr {
			continue
		}
		out.Add(l)
	}
	for _, l := range other.lits {
		if l.Address() == pivotAddr {
			continue
		}
		out.Add(l)
	}
	return out
}

// ApplySubstitution rebuilds the nogood's atoms with each variable
// bound by sub replaced by its target term, and returns the new
// nogood. Variables not present in sub are left untouched, so the
// result may still be non-ground.
func (ng *Nogood) ApplySubstitution(r *Registry, sub map[Id]Id) *Nogood {
	out := &Nogood{}
	for _, l := range ng.lits {
		atom, ok := r.Atom(l.Strip())
		if !ok {
			out.Add(l)
			continue
		}
		newTuple := make([]Id, len(atom.Tuple))
		changed := false
		for i, arg := range atom.Tuple {
			if repl, ok := sub[arg]; ok {
				newTuple[i] = repl
				changed = true
			} else {
				newTuple[i] = arg
			}
		}
		if !changed {
			out.Add(l)
			continue
		}
		newAtomID := r.InternAtom(newTuple)
		out.Add(newAtomID.WithNaf(l.IsNaf()))
	}
	return out
}

// Match looks for a literal in the nogood that unifies with the given
// ground atom id (its sign is ignored for the unification test). If
// found, it applies the most general unifier implied by that match to
// the whole nogood and returns the resulting (possibly still
// non-ground) instance together with ok=true. Match always tries the
// first unifying literal it finds; callers that need to control which
// literal is unified against (e.g. NogoodGrounder's most-binding-
// literal selection, spec §4.5) should use MatchLiteral instead.
func (ng *Nogood) Match(r *Registry, groundAtom Id) (instance *Nogood, ok bool) {
	for _, l := range ng.lits {
		if instance, ok := ng.MatchLiteral(r, l, groundAtom); ok {
			return instance, true
		}
	}
	return nil, false
}

// MatchLiteral unifies lit — which must be (a literal of) ng — against
// groundAtom and, if they unify, applies the resulting most general
// unifier to the whole nogood. Unlike Match, the literal to unify
// against is chosen by the caller rather than being the first literal
// in the nogood that happens to unify; this is what lets
// NogoodGrounder watch a specific, deliberately chosen literal
// (NogoodGrounder.cpp's watchedLit) instead of whichever one Match
// would have picked.
func (ng *Nogood) MatchLiteral(r *Registry, lit Id, groundAtom Id) (instance *Nogood, ok bool) {
	la, lok := r.Atom(lit.Strip())
	ga, gok := r.Atom(groundAtom.Strip())
	if !lok || !gok || !la.Unifies(ga, r) {
		return nil, false
	}
	sub := make(map[Id]Id)
	for i, arg := range la.Args() {
		if r.IsVariable(arg) {
			sub[arg] = ga.Args()[i]
		}
	}
	return ng.ApplySubstitution(r, sub), true
}

// MostBindingLiteral returns the literal in ng whose atom has the
// largest number of distinct variable arguments, skipping literals
// that are already ground (spec §4.5: the Immediate/Lazy grounder
// strategies both "choose the literal that binds the largest number of
// distinct variables" before enumerating ground instances).
// Cross-checked against NogoodGrounder.cpp's watchedLit selection loop.
// ok is false when every literal in ng is already ground.
func (ng *Nogood) MostBindingLiteral(r *Registry) (lit Id, ok bool) {
	best := -1
	for _, l := range ng.lits {
		if r.isGroundAtomID(l) {
			continue
		}
		atom, aok := r.Atom(l.Strip())
		if !aok {
			continue
		}
		seen := map[Id]bool{}
		n := 0
		for _, arg := range atom.Args() {
			if r.IsVariable(arg) && !seen[arg] {
				seen[arg] = true
				n++
			}
		}
		if n > best {
			best = n
			lit = l
			ok = true
		}
	}
	return lit, ok
}

// varOccurrence tracks, for one variable, its total occurrence count
// and its occurrence count at each argument position (1-based), used
// to rank variables for HeuristicNormalization.
type varOccurrence struct {
	v        Id
	total    int
	byArgPos map[int]int
}

// HeuristicNormalization renames every variable in ng to a canonical
// name (X0, X1, ...), ranking variables by total occurrence count
// (descending), then by occurrence count at argument position 1
// (descending), then position 2, and so on. This collapses
// alpha-equivalent non-ground nogoods to one representative: two
// nogoods that differ only in variable naming normalize to literally
// equal Nogood values. Applying HeuristicNormalization twice in a row
// is a no-op (the second pass just renames X0..Xn-1 to themselves in
// the same order).
func (ng *Nogood) HeuristicNormalization(r *Registry) *Nogood {
	occ := map[Id]*varOccurrence{}
	order := []Id{}
	for _, l := range ng.lits {
		atom, ok := r.Atom(l.Strip())
		if !ok {
			continue
		}
		for pos, arg := range atom.Tuple {
			if !r.IsVariable(arg) {
				continue
			}
			o, seen := occ[arg]
			if !seen {
				o = &varOccurrence{v: arg, byArgPos: map[int]int{}}
				occ[arg] = o
				order = append(order, arg)
			}
			o.total++
			o.byArgPos[pos]++
		}
	}

	maxPos := 0
	for _, o := range occ {
		for pos := range o.byArgPos {
			if pos > maxPos {
				maxPos = pos
			}
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		oi, oj := occ[order[i]], occ[order[j]]
		if oi.total != oj.total {
			return oi.total > oj.total
		}
		for pos := 0; pos <= maxPos; pos++ {
			if oi.byArgPos[pos] != oj.byArgPos[pos] {
				return oi.byArgPos[pos] > oj.byArgPos[pos]
			}
		}
		return false
	})

	sub := make(map[Id]Id, len(order))
	for i, v := range order {
		sub[v] = r.InternVariable(canonicalVarName(i))
	}
	return ng.ApplySubstitution(r, sub)
}

func canonicalVarName(i int) string {
	const digits = "0123456789"
	if i < 10 {
		return "X" + string(digits[i])
	}
	// Falls back to a simple base-10 rendering for arity beyond 10
	// variables, which ordinary rules essentially never reach.
	var buf []byte
	n := i
	for n > 0 {
		buf = append([]byte{digits[n%10]}, buf...)
		n /= 10
	}
	return "X" + string(buf)
}
