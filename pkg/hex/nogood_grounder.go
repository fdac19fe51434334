package hex

// NogoodGrounder instantiates non-ground nogoods against the current
// set of known ground atoms, feeding the resulting ground instances
// into destination. It is grounded on fd_solver.go's BaseSolver-plus-
// specialization shape (a shared constructor/fields struct with two
// concrete update strategies), cross-checked against
// NogoodGrounder.cpp's Immediate/Lazy split.
type NogoodGrounder interface {
	// Update is called once per propagation round with the current
	// partial assignment, the full set of currently-known ground
	// atoms, and the atoms that changed since the last call. It
	// instantiates whatever non-ground nogoods it is responsible for
	// against mask and feeds new ground instances to destination.
	Update(partial, mask, changed *Interpretation)
}

// baseNogoodGrounder holds the fields both grounder strategies share:
// the registry, the watched (possibly non-ground) source nogoods, and
// the ground destination they instantiate into.
type baseNogoodGrounder struct {
	reg         *Registry
	watched     *NogoodSet
	destination *NogoodSet
}

// matchAgainst instantiates ng against every atom in candidates that
// unifies with watchLit, ng's most-binding literal (NogoodGrounder.cpp:
// both strategies pick the literal that binds the largest number of
// distinct variables before enumerating ground candidates, rather than
// just taking whichever literal Nogood.Match finds first).
func matchAgainst(reg *Registry, ng *Nogood, candidates *Interpretation) []*Nogood {
	watchLit, ok := ng.MostBindingLiteral(reg)
	if !ok {
		return nil
	}
	var out []*Nogood
	candidates.ForEach(func(addr uint32) bool {
		groundAtom := newID(KindAtom|FlagOrdinary|FlagGround, addr)
		if instance, matched := ng.MatchLiteral(reg, watchLit, groundAtom); matched {
			out = append(out, instance)
		}
		return true
	})
	return out
}

// simplifyInstance drops literals of instance that are already decided
// by universe (the full set of ground atoms the program can ever
// produce, independent of their current truth value) and reports
// whether the simplified instance is still worth forwarding.
//
// A ground positive literal whose atom is outside universe can never
// become true, so the whole nogood can never fire: it is dropped
// entirely (ok=false). A ground NAF literal whose atom is outside
// universe is always satisfied (the atom can never be derived), so
// that literal alone is dropped and the rest of the instance survives.
// Non-ground literals are left untouched; they are not yet decidable.
// Cross-checked against ImmediateNogoodGrounder::update's use of
// agp->getFact to classify literals outside the program mask.
func simplifyInstance(reg *Registry, instance *Nogood, universe *Interpretation) (*Nogood, bool) {
	out := &Nogood{}
	for _, l := range instance.Literals() {
		if !reg.isGroundAtomID(l) {
			out.Add(l)
			continue
		}
		if universe.Get(newID(KindAtom|FlagOrdinary|FlagGround, l.Address())) {
			out.Add(l)
			continue
		}
		if l.IsNaf() {
			continue
		}
		return nil, false
	}
	return out, true
}

// ImmediateNogoodGrounder instantiates every non-ground watched nogood
// against the full mask on every Update call, in round-robin slices
// bounded by a high-water mark so a single call cannot stall
// propagation on a very large watched set (spec §4.5 "high water mark"
// edge case; NogoodGrounder.cpp's ImmediateNogoodGrounder::update).
// Unlike the lazy strategy, every instance it produces is passed
// through simplifyInstance before being forwarded.
type ImmediateNogoodGrounder struct {
	baseNogoodGrounder
	cursor        int
	highWaterMark int
}

// NewImmediateNogoodGrounder returns a grounder that eagerly
// instantiates every watched non-ground nogood, at most highWaterMark
// per Update call (0 means unbounded).
func NewImmediateNogoodGrounder(reg *Registry, watched, destination *NogoodSet, highWaterMark int) *ImmediateNogoodGrounder {
	return &ImmediateNogoodGrounder{
		baseNogoodGrounder: baseNogoodGrounder{reg: reg, watched: watched, destination: destination},
		highWaterMark:      highWaterMark,
	}
}

// Update instantiates up to highWaterMark not-yet-ground watched
// nogoods per call, resuming from where the previous call left off.
func (g *ImmediateNogoodGrounder) Update(partial, mask, changed *Interpretation) {
	max := g.watched.Len()
	if max == 0 {
		return
	}
	if g.cursor >= max {
		g.cursor = 0
	}
	processed := 0
	limit := g.highWaterMark
	if limit <= 0 {
		limit = max
	}
	g.watched.ForEach(func(idx int, ng *Nogood) bool {
		if idx < g.cursor {
			return true
		}
		if ng.IsGround(g.reg) {
			g.cursor = idx + 1
			return processed < limit
		}
		for _, instance := range matchAgainst(g.reg, ng, mask) {
			simplified, keep := simplifyInstance(g.reg, instance, mask)
			if !keep {
				continue
			}
			if simplified.IsGround(g.reg) {
				g.destination.Add(simplified)
			} else {
				g.watched.Add(simplified)
			}
		}
		processed++
		g.cursor = idx + 1
		return processed < limit
	})
}

// LazyNogoodGrounder instantiates a non-ground nogood only against the
// atoms named by changed (those whose value was just set, whichever
// value that is), narrowing instantiation to
// the atoms that just appeared instead of rescanning the whole mask
// (spec §4.5 "lazy" strategy; NogoodGrounder.cpp's
// LazyNogoodGrounder::update, which keys off newly-set atoms rather
// than a round-robin scan). It deliberately does not run instances
// through simplifyInstance: the original source's lazy path forwards
// matches to the destination/watch set unfiltered.
type LazyNogoodGrounder struct {
	baseNogoodGrounder
}

// NewLazyNogoodGrounder returns a grounder that instantiates watched
// nogoods only against atoms that newly appeared.
func NewLazyNogoodGrounder(reg *Registry, watched, destination *NogoodSet) *LazyNogoodGrounder {
	return &LazyNogoodGrounder{baseNogoodGrounder{reg: reg, watched: watched, destination: destination}}
}

// Update instantiates every non-ground watched nogood against changed
// only (not the full mask), so cost is proportional to the delta since
// the last call rather than to the total known universe.
func (g *LazyNogoodGrounder) Update(partial, mask, changed *Interpretation) {
	g.watched.ForEach(func(idx int, ng *Nogood) bool {
		if ng.IsGround(g.reg) {
			return true
		}
		for _, instance := range matchAgainst(g.reg, ng, changed) {
			if instance.IsGround(g.reg) {
				g.destination.Add(instance)
			} else {
				g.watched.Add(instance)
			}
		}
		return true
	})
}
