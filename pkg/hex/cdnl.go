package hex

import "sort"

// SatSolver is the public contract of the CDNL core (spec ground-atom
// SAT layer): add nogoods, enumerate models one at a time, and explain
// inconsistency once enumeration is exhausted without ever succeeding.
// InternalGroundASPSolver (asp_solver.go) builds answer-set semantics
// on top of a SatSolver by hooking its fact-assignment and post-
// propagation points; CDNLSolver is usable standalone as a plain
// ground SAT engine over nogoods.
type SatSolver interface {
	AddNogood(ng *Nogood) int
	RestartWithAssumptions(assumptions []Id)
	GetNextModel() (*Interpretation, bool)
	AddPropagator(p Propagator)
	RemovePropagator(p Propagator)
	SetOptimum(cost []int64)
	GetInconsistencyCause(explainAtoms []Id) (*Nogood, error)
}

// levelInfo records the decision literal guessed at one decision level,
// and whether it has already been flipped once during enumeration (a
// level with both polarities tried contributes no further choices and
// collapses into the level below it).
type levelInfo struct {
	lit     Id
	flipped bool
}

// CDNLSolver implements SatSolver with conflict-driven nogood learning
// over a fixed, known universe of ground atom addresses. It is
// grounded on fd_solver.go's watch/propagate driving loop and
// strategy.go's pluggable-then-fixed decision heuristic, with the
// watched-literal bookkeeping cross-checked line by line against
// CDNLSolver.cpp's updateWatchingStructuresAfter{AddNogood,SetFact,
// ClearFact}.
type CDNLSolver struct {
	reg      *Registry
	universe map[uint32]bool

	nogoods *NogoodSet
	pending []*Nogood

	assignment *Interpretation
	assigned   *Interpretation
	changed    *Interpretation

	decisionLevel map[uint32]int32
	cause         map[uint32]int // -1: no cause (assumption or decision)
	assignOrder   map[uint32]int
	nextOrder     int
	factsAtLevel  map[int32][]uint32
	levels        map[int32]*levelInfo

	nogoodsOfPos map[uint32]map[int]bool
	nogoodsOfNeg map[uint32]map[int]bool
	watchPos     map[uint32]map[int]bool
	watchNeg     map[uint32]map[int]bool
	watchedOf    map[int]map[Id]bool

	unit          map[int]bool
	contradictory map[int]bool

	activityPos map[uint32]uint32
	activityNeg map[uint32]uint32
	conflicts   int

	recentConflicts []int
	propagators     []Propagator

	currentDL    int32
	exhaustedDL  int32
	calledBefore bool
	everHadModel bool
	unsatCause   *Nogood

	// onSetFact/onClearFact let InternalGroundASPSolver maintain source
	// pointers without this package knowing about unfounded sets.
	onSetFact   func(lit Id, dl int32, cause int)
	onClearFact func(addr uint32)
	// ufsHook runs once unit propagation stabilizes without a conflict,
	// before propagators are consulted; it returns true if it added a
	// loop nogood, in which case the main loop re-enters immediately.
	ufsHook func() bool

	cancel CancelToken

	// trace accumulates opt-in diagnostic events; see trace.go.
	trace []TraceEvent
}

var _ SatSolver = (*CDNLSolver)(nil)

// NewCDNLSolver returns a solver over the given universe of ground
// atoms. Nogoods whose literals fall outside this universe are
// rejected by AddNogood rather than silently expanding it; call
// ExpandUniverse first if the universe grows (e.g. lazy grounding).
func NewCDNLSolver(reg *Registry, universe []Id) *CDNLSolver {
	s := &CDNLSolver{
		reg:           reg,
		universe:      make(map[uint32]bool, len(universe)),
		nogoods:       NewNogoodSet(),
		assignment:    NewInterpretation(reg),
		assigned:      NewInterpretation(reg),
		changed:       NewInterpretation(reg),
		decisionLevel: map[uint32]int32{},
		cause:         map[uint32]int{},
		assignOrder:   map[uint32]int{},
		factsAtLevel:  map[int32][]uint32{},
		levels:        map[int32]*levelInfo{},
		nogoodsOfPos:  map[uint32]map[int]bool{},
		nogoodsOfNeg:  map[uint32]map[int]bool{},
		watchPos:      map[uint32]map[int]bool{},
		watchNeg:      map[uint32]map[int]bool{},
		watchedOf:     map[int]map[Id]bool{},
		unit:          map[int]bool{},
		contradictory: map[int]bool{},
		activityPos:   map[uint32]uint32{},
		activityNeg:   map[uint32]uint32{},
		cancel:        NewCancelToken(nil),
	}
	s.ExpandUniverse(universe)
	return s
}

// ExpandUniverse adds atoms to the set of addresses AddNogood will
// accept, without disturbing any existing assignment or watch state.
func (s *CDNLSolver) ExpandUniverse(atoms []Id) {
	for _, a := range atoms {
		s.universe[a.Address()] = true
	}
}

// SetCancelToken installs the cooperative cancellation flag checked
// between iterations of the main search loop.
func (s *CDNLSolver) SetCancelToken(t CancelToken) { s.cancel = t }

// SetFactHooks installs callbacks invoked at the end of every setFact
// and clearFact, used by InternalGroundASPSolver to keep source
// pointers current without this type depending on unfounded-set
// bookkeeping.
func (s *CDNLSolver) SetFactHooks(onSet func(lit Id, dl int32, cause int), onClear func(addr uint32)) {
	s.onSetFact = onSet
	s.onClearFact = onClear
}

// SetUnfoundedSetHook installs the callback consulted once per
// successful, conflict-free unit-propagation round.
func (s *CDNLSolver) SetUnfoundedSetHook(f func() bool) { s.ufsHook = f }

// Assignment, Assigned and CurrentDL expose read-only solver state for
// callers layered on top (InternalGroundASPSolver, demos, tests). The
// returned Interpretations must not be mutated.
func (s *CDNLSolver) Assignment() *Interpretation { return s.assignment }
func (s *CDNLSolver) Assigned() *Interpretation   { return s.assigned }
func (s *CDNLSolver) CurrentDL() int32            { return s.currentDL }
func (s *CDNLSolver) NogoodCount() int            { return s.nogoods.Len() }
func (s *CDNLSolver) NogoodAt(idx int) *Nogood    { return s.nogoods.Get(idx) }

// ---------- literal/assignment helpers ----------

func (s *CDNLSolver) isAssigned(addr uint32) bool {
	return s.assigned.Get(newID(KindAtom, addr))
}

func (s *CDNLSolver) litValue(addr uint32) bool {
	return s.assignment.Get(newID(KindAtom, addr))
}

// IsAssigned reports whether the atom at addr currently has a truth
// value. Exported for InternalGroundASPSolver's source-pointer
// bookkeeping (ufs.go), which needs to query assignment state for
// atoms that are not necessarily decision literals.
func (s *CDNLSolver) IsAssigned(addr uint32) bool { return s.isAssigned(addr) }

// DecisionLevelOf returns the decision level at which addr was
// assigned, or 0 if it is unassigned.
func (s *CDNLSolver) DecisionLevelOf(addr uint32) int32 { return s.decisionLevel[addr] }

// AssignOrderOf returns the global assignment order index of addr,
// used to break ties between simultaneously-true disjunctive head
// literals (spec §4.3: "no other head literal ... was assigned true
// strictly earlier").
func (s *CDNLSolver) AssignOrderOf(addr uint32) int { return s.assignOrder[addr] }

// Falsified reports whether signed literal l is currently false.
func (s *CDNLSolver) Falsified(l Id) bool { return s.falsified(l) }

// Satisfied reports whether signed literal l is currently true.
func (s *CDNLSolver) Satisfied(l Id) bool {
	return s.isAssigned(l.Address()) && !s.falsified(l)
}

// falsified reports whether l's truth value, as a signed literal, is
// currently false. An unassigned literal is never falsified.
func (s *CDNLSolver) falsified(l Id) bool {
	if !s.isAssigned(l.Address()) {
		return false
	}
	v := s.litValue(l.Address())
	if l.IsNaf() {
		v = !v
	}
	return !v
}

// isDecisionLiteral reports whether addr was set with no nogood cause.
// This is true both for genuine guesses/flips and for restart
// assumptions set at decision level 0 — "spurious" decision
// literals that conflict analysis must stop at rather than resolve
// through, since they have no cause nogood to resolve with.
func (s *CDNLSolver) isDecisionLiteral(addr uint32) bool {
	c, ok := s.cause[addr]
	return ok && c == -1
}

func (s *CDNLSolver) complete() bool {
	for addr := range s.universe {
		if !s.isAssigned(addr) {
			return false
		}
	}
	return true
}

// ---------- watch-set bookkeeping ----------

func addWatchSet(m map[uint32]map[int]bool, addr uint32, idx int) {
	set, ok := m[addr]
	if !ok {
		set = map[int]bool{}
		m[addr] = set
	}
	set[idx] = true
}

func delWatchSet(m map[uint32]map[int]bool, addr uint32, idx int) {
	if set, ok := m[addr]; ok {
		delete(set, idx)
		if len(set) == 0 {
			delete(m, addr)
		}
	}
}

func cloneIdxSet(m map[int]bool) map[int]bool {
	out := make(map[int]bool, len(m))
	for k := range m {
		out[k] = true
	}
	return out
}

func (s *CDNLSolver) indexNogood(idx int, ng *Nogood) {
	for _, l := range ng.Literals() {
		if l.IsNaf() {
			addWatchSet(s.nogoodsOfNeg, l.Address(), idx)
		} else {
			addWatchSet(s.nogoodsOfPos, l.Address(), idx)
		}
	}
}

func (s *CDNLSolver) startWatching(idx int, l Id) {
	if s.watchedOf[idx] == nil {
		s.watchedOf[idx] = map[Id]bool{}
	}
	s.watchedOf[idx][l] = true
	if l.IsNaf() {
		addWatchSet(s.watchNeg, l.Address(), idx)
	} else {
		addWatchSet(s.watchPos, l.Address(), idx)
	}
}

func (s *CDNLSolver) stopWatching(idx int, l Id) {
	delete(s.watchedOf[idx], l)
	if l.IsNaf() {
		delWatchSet(s.watchNeg, l.Address(), idx)
	} else {
		delWatchSet(s.watchPos, l.Address(), idx)
	}
}

func (s *CDNLSolver) inactivateNogood(idx int) {
	for l := range s.watchedOf[idx] {
		if l.IsNaf() {
			delWatchSet(s.watchNeg, l.Address(), idx)
		} else {
			delWatchSet(s.watchPos, l.Address(), idx)
		}
	}
	delete(s.watchedOf, idx)
	delete(s.unit, idx)
	delete(s.contradictory, idx)
}

// spliceWatches picks up to two unassigned literals of ng to watch. If
// any literal is already falsified the nogood is inactive and gets no
// watches at all; with fewer than two unassigned literals remaining,
// ng is unit (one) or contradictory (zero).
func (s *CDNLSolver) spliceWatches(idx int, ng *Nogood) {
	var candidates []Id
	inactive := false
	for _, l := range ng.Literals() {
		if !s.isAssigned(l.Address()) {
			if len(candidates) < 2 {
				candidates = append(candidates, l)
			}
		} else if s.falsified(l) {
			inactive = true
		}
	}
	if inactive {
		return
	}
	for _, l := range candidates {
		s.startWatching(idx, l)
	}
	switch len(candidates) {
	case 1:
		s.unit[idx] = true
	case 0:
		s.contradictory[idx] = true
	}
}

// replaceWatch runs after l (one of ng's two watched literals) just
// became true, looking for another not-yet-watched, unassigned literal
// to take its place.
func (s *CDNLSolver) replaceWatch(idx int, l Id) {
	ng := s.nogoods.Get(idx)
	if ng == nil {
		return
	}
	s.stopWatching(idx, l)
	for _, cand := range ng.Literals() {
		if len(s.watchedOf[idx]) < 2 && !s.isAssigned(cand.Address()) && !s.watchedOf[idx][cand] {
			s.startWatching(idx, cand)
		} else if s.falsified(cand) {
			s.inactivateNogood(idx)
			return
		}
	}
	switch len(s.watchedOf[idx]) {
	case 1:
		s.unit[idx] = true
	case 0:
		s.contradictory[idx] = true
		delete(s.unit, idx)
	}
}

// restoreAfterClear runs for every nogood containing addr (whichever
// sign) after addr was unassigned by backtracking.
func (s *CDNLSolver) restoreAfterClear(idx int, oldLit Id) {
	ng := s.nogoods.Get(idx)
	if ng == nil {
		return
	}
	switch len(s.watchedOf[idx]) {
	case 0:
		var candidates []Id
		stillInactive := false
		for _, l := range ng.Literals() {
			if s.falsified(l) {
				stillInactive = true
				break
			}
			if !s.isAssigned(l.Address()) && len(candidates) < 2 {
				candidates = append(candidates, l)
			}
		}
		if !stillInactive {
			for _, l := range candidates {
				s.startWatching(idx, l)
			}
			if len(candidates) == 1 {
				s.unit[idx] = true
			}
			delete(s.contradictory, idx)
		}
	case 1:
		s.startWatching(idx, oldLit)
		delete(s.unit, idx)
	}
}

func (s *CDNLSolver) updateWatchesAfterSetFact(lit Id) {
	addr := lit.Address()
	var falsifiedWatchers, trueWatchers map[int]bool
	if lit.IsNaf() {
		falsifiedWatchers = s.watchPos[addr]
		trueWatchers = s.watchNeg[addr]
	} else {
		falsifiedWatchers = s.watchNeg[addr]
		trueWatchers = s.watchPos[addr]
	}
	for idx := range cloneIdxSet(falsifiedWatchers) {
		s.inactivateNogood(idx)
	}
	for idx := range cloneIdxSet(trueWatchers) {
		s.replaceWatch(idx, lit)
	}
}

// ---------- fact assignment ----------

func (s *CDNLSolver) setFact(lit Id, dl int32, causeIdx int) {
	addr := lit.Address()
	s.assigned.Set(newID(KindAtom, addr))
	s.changed.Set(newID(KindAtom, addr))
	s.decisionLevel[addr] = dl
	s.cause[addr] = causeIdx
	if lit.IsNaf() {
		s.assignment.Clear(newID(KindAtom, addr))
	} else {
		s.assignment.Set(newID(KindAtom, addr))
	}
	s.assignOrder[addr] = s.nextOrder
	s.nextOrder++
	s.factsAtLevel[dl] = append(s.factsAtLevel[dl], addr)

	s.updateWatchesAfterSetFact(lit)
	if s.onSetFact != nil {
		s.onSetFact(lit, dl, causeIdx)
	}
}

func (s *CDNLSolver) clearFact(addr uint32) {
	oldValue := s.assignment.Get(newID(KindAtom, addr))
	oldLit := newID(KindAtom, addr).WithNaf(!oldValue)

	s.assigned.Clear(newID(KindAtom, addr))
	s.changed.Set(newID(KindAtom, addr))
	delete(s.cause, addr)
	delete(s.assignOrder, addr)

	for idx := range s.nogoodsOfPos[addr] {
		s.restoreAfterClear(idx, oldLit)
	}
	for idx := range s.nogoodsOfNeg[addr] {
		s.restoreAfterClear(idx, oldLit)
	}
	if s.onClearFact != nil {
		s.onClearFact(addr)
	}
}

// backtrack clears every fact assigned at a decision level above dl,
// in ascending level order, and sets currentDL to dl.
func (s *CDNLSolver) backtrack(dl int32) {
	var levels []int32
	for lvl := range s.factsAtLevel {
		if lvl > dl {
			levels = append(levels, lvl)
		}
	}
	sort.Slice(levels, func(i, j int) bool { return levels[i] < levels[j] })
	for _, lvl := range levels {
		for _, a := range s.factsAtLevel[lvl] {
			s.clearFact(a)
		}
		delete(s.factsAtLevel, lvl)
		delete(s.levels, lvl)
	}
	s.currentDL = dl
}

// ---------- nogood management ----------

// AddNogood rejects ng if any literal falls outside the known atom
// universe (returning 0, so an over-approximating propagator need not
// special-case rejection), otherwise inserts it and splices its
// watches against the current assignment.
func (s *CDNLSolver) AddNogood(ng *Nogood) int {
	for _, l := range ng.Literals() {
		if !s.universe[l.Address()] {
			return 0
		}
	}
	idx := s.nogoods.Add(ng)
	s.indexNogood(idx, ng)
	s.spliceWatches(idx, ng)
	return idx
}

// ---------- activity heuristic ----------

func (s *CDNLSolver) touchActivity(ng *Nogood) {
	for _, l := range ng.Literals() {
		if l.IsNaf() {
			s.activityNeg[l.Address()]++
		} else {
			s.activityPos[l.Address()]++
		}
	}
}

func (s *CDNLSolver) decayActivity() {
	for a := range s.activityPos {
		s.activityPos[a] /= 2
	}
	for a := range s.activityNeg {
		s.activityNeg[a] /= 2
	}
}

func (s *CDNLSolver) activity(addr uint32) uint32 {
	return s.activityPos[addr] + s.activityNeg[addr]
}

// polarityPick guesses naf (the atom false) when its positive
// occurrences have been touched more often in conflicts than its
// negative ones, and vice versa — matching the sign convention of the
// original heuristic this is adapted from.
func (s *CDNLSolver) polarityPick(addr uint32) Id {
	if s.activityPos[addr] > s.activityNeg[addr] {
		return newID(KindAtom, addr).WithNaf(true)
	}
	return newID(KindAtom, addr)
}

// guess picks the next decision literal: the most active unassigned
// literal among the nogoods behind recent conflicts (most recent
// first), falling back to the globally most active unassigned atom.
func (s *CDNLSolver) guess() Id {
	for i := len(s.recentConflicts) - 1; i >= 0; i-- {
		ng := s.nogoods.Get(s.recentConflicts[i])
		if ng == nil || len(s.watchedOf[s.recentConflicts[i]]) == 0 {
			continue
		}
		var most Id
		found := false
		for _, l := range ng.Literals() {
			if s.isAssigned(l.Address()) {
				continue
			}
			if !found || s.activity(l.Address()) > s.activity(most.Address()) {
				most = s.polarityPick(l.Address())
				found = true
			}
		}
		if found {
			return most
		}
	}

	var addrs []uint32
	for addr := range s.universe {
		if !s.isAssigned(addr) {
			addrs = append(addrs, addr)
		}
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })
	var most Id
	found := false
	for _, addr := range addrs {
		if !found || s.activity(addr) > s.activity(most.Address()) {
			most = s.polarityPick(addr)
			found = true
		}
	}
	return most
}

// ---------- unit propagation and conflict analysis ----------

// unitPropagate drains the unit-nogood queue, setting each unit
// nogood's lone unassigned (watched) literal to false at the maximum decision
// level among the rest of its literals. It returns the first
// contradictory nogood found, or nil if propagation stabilized.
func (s *CDNLSolver) unitPropagate() *Nogood {
	for len(s.unit) > 0 {
		var idx int
		for k := range s.unit {
			idx = k
			break
		}
		delete(s.unit, idx)
		ng := s.nogoods.Get(idx)
		if ng == nil {
			continue
		}

		var propDL int32
		for _, l := range ng.Literals() {
			if s.isAssigned(l.Address()) {
				if dl := s.decisionLevel[l.Address()]; dl > propDL {
					propDL = dl
				}
			}
		}

		var watched Id
		for l := range s.watchedOf[idx] {
			watched = l
			break
		}
		s.setFact(watched.Negate(), propDL, idx)
	}

	if len(s.contradictory) == 0 {
		return nil
	}
	var idx int
	for k := range s.contradictory {
		idx = k
		break
	}
	return s.nogoods.Get(idx)
}

// analyze runs first-UIP conflict analysis starting from violated,
// resolving with the cause of one implied literal at the current
// conflict's highest decision level until a single literal remains
// there. It returns the learned nogood and the backjump level (the
// second-highest decision level among the learned nogood's literals).
func (s *CDNLSolver) analyze(violated *Nogood) (*Nogood, int32) {
	s.touchActivity(violated)
	learned := violated.Clone()
	var backjump int32
	resSteps := 0

	for {
		var latestLit Id
		latestOrder := -1
		for _, l := range learned.Literals() {
			if o, ok := s.assignOrder[l.Address()]; ok && o > latestOrder {
				latestOrder = o
				latestLit = l
			}
		}
		latestDL := s.decisionLevel[latestLit.Address()]

		count := 0
		var impliedAddr uint32
		foundImplied := false
		for _, l := range learned.Literals() {
			dl := s.decisionLevel[l.Address()]
			if dl == latestDL {
				count++
				if !s.isDecisionLiteral(l.Address()) {
					impliedAddr = l.Address()
					foundImplied = true
				}
			}
			if dl > backjump && l.Address() != latestLit.Address() && dl < latestDL {
				backjump = dl
			}
		}

		if count <= 1 {
			break
		}
		if !foundImplied && latestDL == 0 {
			break
		}
		causeNg := s.nogoods.Get(s.cause[impliedAddr])
		if causeNg == nil {
			break
		}
		s.touchActivity(causeNg)
		learned = learned.Resolve(causeNg, impliedAddr)
		resSteps++
	}
	if resSteps > 0 {
		s.touchActivity(learned)
	}

	s.conflicts++
	if s.conflicts >= 255 {
		s.decayActivity()
		s.conflicts = 0
	}
	return learned, backjump
}

// ---------- enumeration control ----------

// flipDecision negates the decision literal at level dl and re-asserts
// it at the same level. If that level's literal was already flipped
// once (both polarities tried), the level contributes no further
// choices: it collapses into dl-1, which is marked exhausted, and the
// search continues one level up. This generalizes the single-flip step
// described for the CDNL core to support full model enumeration, the
// way InternalGroundASPSolver's flipDecisionLiteral/getNextModel pair
// does in the solver this core is adapted from.
func (s *CDNLSolver) flipDecision(dl int32) {
	for dl > 0 {
		lv, ok := s.levels[dl]
		s.backtrack(dl - 1)
		if !ok {
			dl--
			continue
		}
		if lv.flipped {
			delete(s.levels, dl)
			s.exhaustedDL = dl - 1
			dl--
			continue
		}
		flipped := lv.lit.Negate()
		lv.lit = flipped
		lv.flipped = true
		s.levels[dl] = lv
		s.currentDL = dl
		s.setFact(flipped, dl, -1)
		return
	}
	s.currentDL = 0
}

func (s *CDNLSolver) runPropagators() bool {
	s.pending = nil
	sink := sinkFunc(func(ng *Nogood) { s.pending = append(s.pending, ng) })
	for _, p := range s.propagators {
		p.Propagate(s.assignment, s.assigned, s.changed, sink)
	}
	s.changed = NewInterpretation(s.reg)

	before := s.nogoods.Len()
	for _, ng := range s.pending {
		s.AddNogood(ng)
	}
	s.pending = nil
	return s.nogoods.Len() != before
}

// RestartWithAssumptions clears the whole assignment and re-asserts
// each assumption at decision level 0.
func (s *CDNLSolver) RestartWithAssumptions(assumptions []Id) {
	s.backtrack(0)
	s.currentDL = 0
	s.exhaustedDL = 0
	s.everHadModel = false
	s.unsatCause = nil
	for _, a := range assumptions {
		if s.universe[a.Address()] {
			s.setFact(a, 0, -1)
		}
	}
}

func (s *CDNLSolver) AddPropagator(p Propagator) {
	s.propagators = append(s.propagators, p)
}

// RemovePropagator removes p by interface equality; p's dynamic type
// must be comparable (a pointer or other comparable type), which rules
// out a bare PropagatorFunc value used only for registration.
func (s *CDNLSolver) RemovePropagator(p Propagator) {
	for i, q := range s.propagators {
		if q == p {
			s.propagators = append(s.propagators[:i], s.propagators[i+1:]...)
			return
		}
	}
}

// SetOptimum is a no-op: the ground CDNL core has no cost model to
// prune against. It exists only to satisfy SatSolver.
func (s *CDNLSolver) SetOptimum(cost []int64) {
	logger.Debug("SetOptimum called on a CDNL core with no cost model; ignored")
}

// GetInconsistencyCause returns the contradictory nogood recorded when
// the solver last returned no model, restricted to explainAtoms (or
// unrestricted if explainAtoms is empty). It is a contract violation
// to call this except right after a GetNextModel() call that returned
// false without this solver ever having produced a model.
func (s *CDNLSolver) GetInconsistencyCause(explainAtoms []Id) (*Nogood, error) {
	if s.unsatCause == nil || s.everHadModel {
		return nil, newContractError("GetInconsistencyCause", "must follow a get_next_model() call that returned no model, with no model ever produced")
	}
	explain := make(map[uint32]bool, len(explainAtoms))
	for _, a := range explainAtoms {
		explain[a.Address()] = true
	}
	out := NewNogood()
	for _, l := range s.unsatCause.Literals() {
		if len(explain) == 0 || explain[l.Address()] {
			out.Add(l)
		}
	}
	return out, nil
}

// GetNextModel runs the CDNL main loop (spec §4.2) until either a
// complete, nogood-satisfying assignment is found (returns it, true)
// or the search space is exhausted (returns nil, false).
func (s *CDNLSolver) GetNextModel() (*Interpretation, bool) {
	if s.everHadModel && s.currentDL == 0 {
		return nil, false
	}
	if s.calledBefore && s.complete() {
		if s.currentDL == 0 {
			return nil, false
		}
		s.flipDecision(s.currentDL)
		if s.currentDL == 0 {
			return nil, false
		}
	}
	s.calledBefore = true

	for {
		if s.cancel.Cancelled() {
			return nil, false
		}

		if violated := s.unitPropagate(); violated != nil {
			if s.currentDL == 0 {
				s.unsatCause = violated
				return nil, false
			}
			learned, backjump := s.analyze(violated)
			idx := s.AddNogood(learned)
			s.recentConflicts = append(s.recentConflicts, idx)
			s.recordTrace(TraceEvent{Kind: TraceConflict, DL: backjump, Extra: "learned nogood"})
			if backjump < s.exhaustedDL {
				s.flipDecision(s.currentDL)
				if s.currentDL == 0 {
					return nil, false
				}
			} else {
				s.backtrack(backjump)
			}
			continue
		}

		if s.ufsHook != nil && s.ufsHook() {
			continue
		}

		if s.runPropagators() {
			continue
		}

		if !s.complete() {
			s.currentDL++
			g := s.guess()
			if g.IsFail() {
				return nil, false
			}
			s.levels[s.currentDL] = &levelInfo{lit: g}
			s.setFact(g, s.currentDL, -1)
			s.recordTrace(TraceEvent{Kind: TraceDecision, DL: s.currentDL, Lit: g})
			continue
		}

		break
	}

	s.everHadModel = true
	s.recordTrace(TraceEvent{Kind: TraceModel, DL: s.currentDL})
	return s.assignment.Clone(), true
}
