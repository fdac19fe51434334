package hex

// InternalGroundASPSolver combines a CDNLSolver with Clark completion
// and unfounded-set detection to realize full disjunctive answer-set
// semantics over a ground program (spec §4.3). It is grounded on
// InternalGroundASPSolver.cpp's constructor, which performs exactly
// this assembly: shift + completion nogoods seeded into the core
// solver, then the source-pointer/UFS hooks wired onto its fact-
// assignment points.
type InternalGroundASPSolver struct {
	reg   *Registry
	core  *CDNLSolver
	ufs   *ufsState
	prog  GroundProgram
	aux   *Interpretation // completion's synthetic body atoms
}

// UnfoundedAtomCount reports how many atoms the unfounded-set detector
// currently considers unfounded, for diagnostics between NextModel
// calls.
func (s *InternalGroundASPSolver) UnfoundedAtomCount() int { return len(s.ufs.unfounded) }

// NewInternalGroundASPSolver builds the completion and unfounded-set
// machinery for prog and seeds them into a fresh CDNLSolver.
func NewInternalGroundASPSolver(reg *Registry, prog GroundProgram) *InternalGroundASPSolver {
	universe := collectUniverse(reg, prog)

	cb := newCompletionBuilder(reg, prog.IDB)
	aux := NewInterpretation(reg)
	for _, ba := range cb.bodyAtomOf {
		universe = append(universe, ba)
		aux.Set(ba)
	}

	core := NewCDNLSolver(reg, universe)

	for _, ng := range cb.nogoods() {
		core.AddNogood(ng)
	}

	facts := make([]Id, 0)
	prog.EDB.ForEach(func(addr uint32) bool {
		facts = append(facts, newID(KindAtom|FlagOrdinary|FlagGround, addr))
		return true
	})
	for _, rid := range prog.IDB {
		ru, ok := reg.Rule(rid)
		if !ok || !ru.IsFact() || ru.IsConstraint() || ru.IsDisjunctive() {
			continue
		}
		facts = append(facts, ru.Head...)
	}
	for _, f := range facts {
		core.AddNogood(NewNogood(f.Negate()))
	}

	for _, rid := range prog.IDB {
		ru, ok := reg.Rule(rid)
		if !ok || !ru.IsConstraint() {
			continue
		}
		core.AddNogood(NewNogood(ru.Body...))
	}

	u := newUFSState(reg, prog.IDB, cb)
	u.seedUnfounded()

	s := &InternalGroundASPSolver{reg: reg, core: core, ufs: u, prog: prog, aux: aux}

	core.SetFactHooks(
		func(lit Id, dl int32, cause int) { u.onSetFact(core, lit, dl, cause) },
		func(addr uint32) { u.onClearFact(addr) },
	)
	core.SetUnfoundedSetHook(func() bool {
		return u.check(core, func(ng *Nogood) { core.AddNogood(ng) })
	})

	return s
}

// collectUniverse gathers every ordinary ground atom address the
// program can possibly assign: EDB facts and every rule's head/body
// atoms. The caller additionally folds in completion's synthetic body
// atoms before constructing the core solver.
func collectUniverse(reg *Registry, prog GroundProgram) []Id {
	seen := map[uint32]bool{}
	var out []Id
	add := func(id Id) {
		if seen[id.Address()] {
			return
		}
		seen[id.Address()] = true
		out = append(out, newID(KindAtom|FlagOrdinary|FlagGround, id.Address()))
	}
	prog.EDB.ForEach(func(addr uint32) bool {
		add(newID(KindAtom, addr))
		return true
	})
	for _, rid := range prog.IDB {
		ru, ok := reg.Rule(rid)
		if !ok {
			continue
		}
		for _, h := range ru.Head {
			add(h)
		}
		for _, b := range ru.Body {
			add(b)
		}
	}
	return out
}

// GetNextModel delegates to the underlying CDNL core; its watch/
// propagate loop already consults the unfounded-set hook installed at
// construction time (spec §4.3/§4.2). The synthetic Clark-completion
// body atoms (AuxiliaryAtoms) are removed from every returned model.
func (s *InternalGroundASPSolver) GetNextModel() (*Interpretation, bool) {
	m, ok := s.core.GetNextModel()
	if ok {
		m.Subtract(s.aux)
	}
	return m, ok
}

// AddPropagator registers an external propagator (typically external-
// atom verification) with the underlying core.
func (s *InternalGroundASPSolver) AddPropagator(p Propagator) { s.core.AddPropagator(p) }

// RemovePropagator unregisters a previously added propagator.
func (s *InternalGroundASPSolver) RemovePropagator(p Propagator) { s.core.RemovePropagator(p) }

// RestartWithAssumptions clears the search state and re-asserts
// assumptions at decision level 0.
func (s *InternalGroundASPSolver) RestartWithAssumptions(assumptions []Id) {
	s.core.RestartWithAssumptions(assumptions)
}

// GetInconsistencyCause explains why no model exists, following the
// same contract as CDNLSolver.GetInconsistencyCause.
func (s *InternalGroundASPSolver) GetInconsistencyCause(explainAtoms []Id) (*Nogood, error) {
	return s.core.GetInconsistencyCause(explainAtoms)
}

// Mask returns the program's visibility mask, for callers that want to
// filter a returned model down to the atoms that should be reported.
func (s *InternalGroundASPSolver) Mask() *Interpretation { return s.prog.Mask }

// AuxiliaryAtoms returns the synthetic Clark-completion body atoms
// minted for this program. GetNextModel already removes them from the
// models it returns.
func (s *InternalGroundASPSolver) AuxiliaryAtoms() *Interpretation { return s.aux.Clone() }

// Registry returns the registry this solver was built over.
func (s *InternalGroundASPSolver) Registry() *Registry { return s.reg }

// AddNogood adds a learned or externally derived nogood directly to
// the underlying core, e.g. for a grounder feeding in lazily derived
// nogoods mid-search.
func (s *InternalGroundASPSolver) AddNogood(ng *Nogood) int { return s.core.AddNogood(ng) }

// SetOptimum is a no-op, forwarded for SatSolver conformance; the
// ground solver has no cost model to prune against.
func (s *InternalGroundASPSolver) SetOptimum(cost []int64) { s.core.SetOptimum(cost) }

var _ SatSolver = (*InternalGroundASPSolver)(nil)
