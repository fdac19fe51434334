package hex

// ufsState is the unfounded-set detector's bookkeeping (spec §4.3,
// "UFS state"). It is grounded directly on slg_wfs.go/wfs_api.go's
// source-pointer/delay-set machinery for tabled predicates, generalized
// from "is this tabled answer still conditional on an unresolved
// negative subgoal" to "is this ground atom still founded," and
// cross-checked step by step against
// original_source/src/InternalGroundASPSolver.cpp's
// updateUnfoundedSetStructuresAfter{SetFact,ClearFact}/getUnfoundedSet/
// getPossibleSourceRule/getExternalSupport/satisfiesIndependently.
type ufsState struct {
	reg *Registry

	rules []ruleInfo

	bodyAtomOfRule map[uint32]Id // ruleAddr -> shared Clark-completion body atom
	ruleOfBodyAtom map[uint32]Id // body atom addr -> ruleID

	rulesWithPosHead map[uint32][]Id // head atom addr -> rules naming it positively in the head
	rulesWithPosBody map[uint32][]Id // atom addr -> rules naming it as a positive body literal

	sourceRule             map[uint32]Id           // atom addr -> the rule currently founding it (IDFail = fact/unset)
	foundedAtomsOfBodyAtom map[uint32]map[uint32]bool // ruleAddr -> atoms currently sourced from that rule

	unfounded        map[uint32]bool
	nonSingularFacts map[uint32]bool // atoms in a >1-element SCC of the positive dependency graph
	componentOfAtom  map[uint32]int
	sccAtoms         []map[uint32]bool
}

// newUFSState builds the static dependency bookkeeping (dependency
// graph, SCCs, bodyAtomOfRule) for idb. It holds no assignment of its
// own; NewInternalGroundASPSolver wires it to the CDNL core through
// SetFactHooks and SetUnfoundedSetHook.
func newUFSState(reg *Registry, idb []Id, cb *completionBuilder) *ufsState {
	u := &ufsState{
		reg:                    reg,
		bodyAtomOfRule:         map[uint32]Id{},
		ruleOfBodyAtom:         map[uint32]Id{},
		rulesWithPosHead:       map[uint32][]Id{},
		rulesWithPosBody:       map[uint32][]Id{},
		sourceRule:             map[uint32]Id{},
		foundedAtomsOfBodyAtom: map[uint32]map[uint32]bool{},
		unfounded:              map[uint32]bool{},
		nonSingularFacts:       map[uint32]bool{},
		componentOfAtom:        map[uint32]int{},
	}

	for _, rid := range idb {
		ru, ok := reg.Rule(rid)
		if !ok || ru.IsConstraint() {
			continue
		}
		u.rules = append(u.rules, ruleInfo{id: rid, rule: ru})
		if ba, ok := cb.bodyAtomOf[rid.Address()]; ok {
			u.bodyAtomOfRule[rid.Address()] = ba
			u.ruleOfBodyAtom[ba.Address()] = rid
		}
		for _, h := range ru.Head {
			u.rulesWithPosHead[h.Address()] = append(u.rulesWithPosHead[h.Address()], rid)
		}
		for _, b := range ru.Body {
			if !b.IsNaf() {
				u.rulesWithPosBody[b.Address()] = append(u.rulesWithPosBody[b.Address()], rid)
			}
		}
	}

	u.buildSCCs()
	return u
}

// buildSCCs computes the strongly-connected components of the positive
// predicate-dependency graph: an edge runs from every positive body
// atom of a rule to every head atom of that rule.
func (u *ufsState) buildSCCs() {
	nodes := map[uint32]int{}
	var addrs []uint32
	nodeID := func(addr uint32) int {
		if i, ok := nodes[addr]; ok {
			return i
		}
		i := len(addrs)
		nodes[addr] = i
		addrs = append(addrs, addr)
		return i
	}

	var adj [][]int
	ensure := func(i int) {
		for len(adj) <= i {
			adj = append(adj, nil)
		}
	}

	for _, ri := range u.rules {
		var heads []int
		for _, h := range ri.rule.Head {
			heads = append(heads, nodeID(h.Address()))
		}
		for _, b := range ri.rule.Body {
			if b.IsNaf() || b.IsExternal() {
				continue
			}
			bi := nodeID(b.Address())
			ensure(bi)
			for _, hi := range heads {
				adj[bi] = append(adj[bi], hi)
			}
		}
		for _, hi := range heads {
			ensure(hi)
		}
	}

	n := len(addrs)
	index := make([]int, n)
	low := make([]int, n)
	onStack := make([]bool, n)
	for i := range index {
		index[i] = -1
	}
	var stack []int
	counter := 0
	var strongconnect func(v int)
	strongconnect = func(v int) {
		index[v] = counter
		low[v] = counter
		counter++
		stack = append(stack, v)
		onStack[v] = true
		for _, w := range adj[v] {
			if index[w] == -1 {
				strongconnect(w)
				if low[w] < low[v] {
					low[v] = low[w]
				}
			} else if onStack[w] && index[w] < low[v] {
				low[v] = index[w]
			}
		}
		if low[v] == index[v] {
			comp := map[uint32]bool{}
			for {
				top := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[top] = false
				comp[addrs[top]] = true
				if top == v {
					break
				}
			}
			compIdx := len(u.sccAtoms)
			u.sccAtoms = append(u.sccAtoms, comp)
			for a := range comp {
				u.componentOfAtom[a] = compIdx
			}
			if len(comp) > 1 {
				for a := range comp {
					u.nonSingularFacts[a] = true
				}
			}
		}
	}
	for v := 0; v < n; v++ {
		if index[v] == -1 {
			strongconnect(v)
		}
	}
}

// seedUnfounded marks every atom in a non-singular SCC as initially
// unfounded: with no facts asserted yet, nothing has a source pointer.
// Call once before the first GetNextModel; asp_solver.go wires
// onSetFact/onClearFact/check to the solver's hooks separately.
func (u *ufsState) seedUnfounded() {
	for a := range u.nonSingularFacts {
		u.unfounded[a] = true
	}
}

// removeSourceFromAtom cancels atomAddr's source pointer, if any.
func (u *ufsState) removeSourceFromAtom(atomAddr uint32) {
	rule, ok := u.sourceRule[atomAddr]
	if !ok || rule.IsFail() {
		return
	}
	if set := u.foundedAtomsOfBodyAtom[rule.Address()]; set != nil {
		delete(set, atomAddr)
	}
	delete(u.sourceRule, atomAddr)
}

// addSourceToAtom records that rule currently founds atomAddr.
func (u *ufsState) addSourceToAtom(atomAddr uint32, rule Id) {
	u.sourceRule[atomAddr] = rule
	set := u.foundedAtomsOfBodyAtom[rule.Address()]
	if set == nil {
		set = map[uint32]bool{}
		u.foundedAtomsOfBodyAtom[rule.Address()] = set
	}
	set[atomAddr] = true
}

// dependingAtoms returns every atom currently sourced from a rule that
// names atomAddr as a positive body literal.
func (u *ufsState) dependingAtoms(atomAddr uint32) map[uint32]bool {
	out := map[uint32]bool{}
	for _, rid := range u.rulesWithPosBody[atomAddr] {
		for a := range u.foundedAtomsOfBodyAtom[rid.Address()] {
			out[a] = true
		}
	}
	return out
}

// onSetFact is wired to CDNLSolver.SetFactHooks. It maintains
// sourceRule/unfounded for every atom that just lost or gained support,
// per spec §4.3's "On every set_fact(l)" rule.
func (u *ufsState) onSetFact(s *CDNLSolver, lit Id, dl int32, cause int) {
	addr := lit.Address()
	initial := map[uint32]bool{}

	if lit.IsNaf() {
		u.removeSourceFromAtom(addr)
		delete(u.unfounded, addr)
		for a := range u.dependingAtoms(addr) {
			initial[a] = true
		}
	} else {
		for _, rid := range u.rulesWithPosHead[addr] {
			ru, ok := u.reg.Rule(rid)
			if !ok {
				continue
			}
			for _, h := range ru.Head {
				if h.Address() == addr {
					continue
				}
				if u.sourceRule[h.Address()] != rid {
					continue
				}
				if s.Satisfied(h) && s.AssignOrderOf(h.Address()) > s.AssignOrderOf(addr) {
					initial[h.Address()] = true
				}
				if u.componentOfAtom[h.Address()] != u.componentOfAtom[addr] {
					initial[h.Address()] = true
				}
			}
		}
	}

	newly := initial
	for len(newly) > 0 {
		next := map[uint32]bool{}
		for atom := range newly {
			if !u.nonSingularFacts[atom] {
				continue
			}
			if s.Falsified(newID(KindAtom, atom)) {
				continue
			}
			if u.unfounded[atom] {
				continue
			}
			u.removeSourceFromAtom(atom)
			u.unfounded[atom] = true
			for a := range u.dependingAtoms(atom) {
				next[a] = true
			}
		}
		newly = next
	}
}

// onClearFact is wired to CDNLSolver.SetFactHooks: an atom that loses
// its assignment and has no source pointer re-enters unfounded, per
// spec §4.3.
func (u *ufsState) onClearFact(addr uint32) {
	if u.nonSingularFacts[addr] {
		if _, has := u.sourceRule[addr]; !has {
			u.unfounded[addr] = true
		}
	}
}

// getExternalSupport returns every rule that head-mentions some atom in
// s with no body literal also in s (spec §4.3 step 2).
func (u *ufsState) getExternalSupport(set map[uint32]bool) []Id {
	seen := map[uint32]bool{}
	var out []Id
	for atom := range set {
		for _, rid := range u.rulesWithPosHead[atom] {
			if seen[rid.Address()] {
				continue
			}
			ru, _ := u.reg.Rule(rid)
			external := true
			for _, b := range ru.Body {
				if set[b.Address()] {
					external = false
					break
				}
			}
			if external {
				seen[rid.Address()] = true
				out = append(out, rid)
			}
		}
	}
	return out
}

// satisfiesIndependently returns the literals that satisfy rule
// independently of set: the rule's body-false literal, and every head
// literal not in set (spec §4.3 step 3/4).
func (u *ufsState) satisfiesIndependently(rid Id, set map[uint32]bool) []Id {
	ru, _ := u.reg.Rule(rid)
	out := []Id{u.bodyAtomOfRule[rid.Address()].Negate()}
	for _, h := range ru.Head {
		if !set[h.Address()] {
			out = append(out, h)
		}
	}
	return out
}

// getPossibleSourceRule returns the first rule in getExternalSupport(ufs)
// that is not independently satisfied, or IDFail if none survives.
func (u *ufsState) getPossibleSourceRule(s *CDNLSolver, set map[uint32]bool) Id {
	for _, rid := range u.getExternalSupport(set) {
		satisfiedIndependently := false
		for _, lit := range u.satisfiesIndependently(rid, set) {
			if s.Satisfied(lit) {
				satisfiedIndependently = true
				break
			}
		}
		if !satisfiedIndependently {
			return rid
		}
	}
	return IDFail
}

// useAsNewSourceForHeadAtom reports whether headAddr may adopt rid as
// its new source: headAddr must be currently unfounded, and no sibling
// head literal of rid may have become true strictly earlier (spec §4.3,
// "A head atom h uses rule r as its new source only if...").
func (u *ufsState) useAsNewSourceForHeadAtom(s *CDNLSolver, headAddr uint32, rid Id) bool {
	if !u.unfounded[headAddr] {
		return false
	}
	ru, _ := u.reg.Rule(rid)
	if s.IsAssigned(headAddr) {
		myOrder := s.AssignOrderOf(headAddr)
		for _, other := range ru.Head {
			if other.Address() == headAddr {
				continue
			}
			if s.Satisfied(other) && s.AssignOrderOf(other.Address()) < myOrder {
				return false
			}
		}
	} else {
		for _, other := range ru.Head {
			if other.Address() == headAddr {
				continue
			}
			if s.Satisfied(other) {
				return false
			}
		}
	}
	return true
}

// getUnfoundedSet grows a confirmed unfounded set starting from any
// currently-unfounded atom, per spec §4.3 steps 1-6 and
// InternalGroundASPSolver.cpp's getUnfoundedSet.
func (u *ufsState) getUnfoundedSet(s *CDNLSolver) map[uint32]bool {
	for seed := range u.unfounded {
		set := map[uint32]bool{seed: true}
		for len(set) > 0 {
			rid := u.getPossibleSourceRule(s, set)
			if rid.IsFail() {
				return set
			}
			ru, _ := u.reg.Rule(rid)
			dependsOnUnfounded := false
			for _, b := range ru.Body {
				if b.IsNaf() {
					continue
				}
				if u.unfounded[b.Address()] && u.componentOfAtom[b.Address()] == u.componentOfAtom[seed] {
					set[b.Address()] = true
					dependsOnUnfounded = true
				}
			}
			if !dependsOnUnfounded {
				changed := false
				for _, h := range ru.Head {
					if u.useAsNewSourceForHeadAtom(s, h.Address(), rid) {
						u.addSourceToAtom(h.Address(), rid)
						delete(u.unfounded, h.Address())
						delete(set, h.Address())
						changed = true
					}
				}
				if !changed {
					// No head atom could adopt this rule (e.g. all
					// already founded elsewhere); avoid an infinite
					// loop by treating the set as confirmed.
					return set
				}
			}
		}
	}
	return nil
}

// getLoopNogood builds the nogood that eliminates the confirmed
// unfounded set ufs: one literal from ufs, plus for every externally
// supporting rule one currently-true independent-satisfier literal
// (spec §4.3 step 4, InternalGroundASPSolver.cpp's getLoopNogood).
func (u *ufsState) getLoopNogood(s *CDNLSolver, ufs map[uint32]bool) *Nogood {
	ng := NewNogood()
	for a := range ufs {
		ng.Add(newID(KindAtom|FlagOrdinary|FlagGround, a))
		break
	}
	for _, rid := range u.getExternalSupport(ufs) {
		for _, lit := range u.satisfiesIndependently(rid, ufs) {
			if s.Satisfied(lit) {
				ng.Add(lit)
				break
			}
		}
	}
	return ng
}

// check runs one unfounded-set detection round: if any unfounded atom
// survives to a confirmed loop, it emits the loop nogood via sink and
// returns true (the caller should re-run unit propagation before
// calling check again).
func (u *ufsState) check(s *CDNLSolver, sink func(*Nogood)) bool {
	if len(u.unfounded) == 0 {
		return false
	}
	ufs := u.getUnfoundedSet(s)
	if len(ufs) == 0 {
		return false
	}
	sink(u.getLoopNogood(s, ufs))
	return true
}
