package hex

// SafetyVerdict is the result of running LiberalSafetyChecker.Check.
type SafetyVerdict struct {
	IsSafe bool
	// NecessaryExternalOccurrences is the set of external-atom
	// occurrences that were actually used to bound some variable; a
	// downstream grounder must not optimize these away.
	NecessaryExternalOccurrences map[Id]bool
	// UnsafeRules is populated only when IsSafe is false: one entry per
	// rule that still has an unbound variable.
	UnsafeRules []UnsafeRule
}

// UnsafeRule names one rule and the variables in it that the fixpoint
// could not bind.
type UnsafeRule struct {
	Rule Id
	Vars []Id
}

// ruleInfo is the per-rule bookkeeping the checker needs: which body
// literals are ordinary vs. external, and the external atom each
// external literal refers to.
type ruleInfo struct {
	id   Id
	rule Rule
}

// LiberalSafetyChecker decides whether a non-ground program can be
// soundly and finitely grounded, by iteratively classifying attributes
// as domain-expansion safe and variables as bounded (spec §4.6).
type LiberalSafetyChecker struct {
	reg   *Registry
	rules []ruleInfo

	graph *AttributeGraph

	// boundedVars[ruleAddr][varID] = true once bounded.
	boundedVars map[uint32]map[Id]bool
	safeAttrs   map[Attribute]bool

	necessary map[Id]bool // external-atom occurrence Id -> necessary
}

// NewLiberalSafetyChecker builds a checker over the given rule IDB.
func NewLiberalSafetyChecker(reg *Registry, idb []Id) *LiberalSafetyChecker {
	c := &LiberalSafetyChecker{
		reg:         reg,
		graph:       NewAttributeGraph(),
		boundedVars: make(map[uint32]map[Id]bool),
		safeAttrs:   make(map[Attribute]bool),
		necessary:   make(map[Id]bool),
	}
	for _, rid := range idb {
		ru, ok := reg.Rule(rid)
		if !ok {
			continue
		}
		c.rules = append(c.rules, ruleInfo{id: rid, rule: ru})
		c.boundedVars[rid.Address()] = make(map[Id]bool)
	}
	return c
}

func (c *LiberalSafetyChecker) bindVar(ruleAddr uint32, v Id) bool {
	m := c.boundedVars[ruleAddr]
	if m[v] {
		return false
	}
	m[v] = true
	return true
}

func (c *LiberalSafetyChecker) isBound(ruleAddr uint32, v Id) bool {
	return c.boundedVars[ruleAddr][v]
}

func (c *LiberalSafetyChecker) markSafe(a Attribute) bool {
	if c.safeAttrs[a] {
		return false
	}
	c.safeAttrs[a] = true
	return true
}

// attributesOfPredicate returns every Attribute this checker has seen
// for the ordinary predicate pred, across every rule, at every arity
// position observed so far.
func (c *LiberalSafetyChecker) attributesOfPredicate(pred Id, maxArity int) []Attribute {
	out := make([]Attribute, 0, maxArity)
	for i := 1; i <= maxArity; i++ {
		out = append(out, NewOrdinaryAttribute(pred, i))
	}
	return out
}

// buildGraph constructs the attribute graph's edges from shared
// variables in rule bodies/heads and from external-atom input/output
// relationships, per spec §4.6.
func (c *LiberalSafetyChecker) buildGraph() {
	// occSite records one occurrence of a variable: its attribute, and
	// whether the occurrence is in the body or head (and negated).
	type occSite struct {
		attr    Attribute
		inBody  bool
		negated bool
	}

	type predInputLink struct {
		attr Attribute
		pred Id
	}
	var predicateInputs []predInputLink
	maxArity := map[Id]int{}

	for _, ri := range c.rules {
		varSites := map[Id][]occSite{}

		recordAtomVars := func(atomID Id, inBody bool) {
			atom, ok := c.reg.Atom(atomID.Strip())
			if !ok {
				return
			}
			pred := atom.Predicate()
			if atom.Arity() > maxArity[pred] {
				maxArity[pred] = atom.Arity()
			}
			for pos, arg := range atom.Args() {
				if !c.reg.IsVariable(arg) {
					continue
				}
				attr := NewOrdinaryAttribute(pred, pos+1)
				varSites[arg] = append(varSites[arg], occSite{attr: attr, inBody: inBody, negated: inBody && atomID.IsNaf()})
			}
		}

		for _, h := range ri.rule.Head {
			recordAtomVars(h, false)
		}
		for _, b := range ri.rule.Body {
			if b.IsExternal() {
				continue
			}
			recordAtomVars(b, true)
		}

		// shared-variable edges: body->head and body<->body.
		for _, sites := range varSites {
			for i, si := range sites {
				for j, sj := range sites {
					if i == j {
						continue
					}
					if si.inBody && !sj.inBody {
						c.graph.AddEdge(si.attr, sj.attr)
					} else if si.inBody && sj.inBody {
						c.graph.AddEdge(si.attr, sj.attr)
					}
				}
			}
		}

		// external-atom input->output edges, plus predicate-input links.
		for _, b := range ri.rule.Body {
			if !b.IsExternal() {
				continue
			}
			ea, ok := c.reg.External(b.Strip())
			if !ok {
				continue
			}
			for i, in := range ea.Inputs {
				inAttr := NewExternalAttribute(ri.id, b.Strip(), ea.Predicate, true, i+1)
				for o := range ea.Outputs {
					outAttr := NewExternalAttribute(ri.id, b.Strip(), ea.Predicate, false, o+1)
					c.graph.AddEdge(inAttr, outAttr)
				}
				if i < len(ea.InputKind) && ea.InputKind[i] == InputPredicate {
					predicateInputs = append(predicateInputs, predInputLink{attr: inAttr, pred: in})
				}
			}
			// Record variable occurrences at external output positions
			// too, so ordinary atoms elsewhere that share the variable
			// get an edge from the output attribute once it is safe.
			for o, out := range ea.Outputs {
				if !c.reg.IsVariable(out) {
					continue
				}
				outAttr := NewExternalAttribute(ri.id, b.Strip(), ea.Predicate, false, o+1)
				for _, site := range varSites[out] {
					c.graph.AddEdge(outAttr, site.attr)
				}
			}
			for i, in := range ea.Inputs {
				if !c.reg.IsVariable(in) {
					continue
				}
				inAttr := NewExternalAttribute(ri.id, b.Strip(), ea.Predicate, true, i+1)
				for _, site := range varSites[in] {
					if site.inBody {
						c.graph.AddEdge(site.attr, inAttr)
					}
				}
			}
		}
	}

	for _, link := range predicateInputs {
		for _, attr := range c.attributesOfPredicate(link.pred, maxArity[link.pred]) {
			c.graph.AddEdge(attr, link.attr)
		}
	}
}

// seed marks ordinary positive body attributes as safe and their
// variables as bounded, per spec §4.6's seeding rule.
func (c *LiberalSafetyChecker) seed() bool {
	changed := false
	for _, ri := range c.rules {
		for _, b := range ri.rule.Body {
			if b.IsExternal() || b.IsNaf() {
				continue
			}
			atom, ok := c.reg.Atom(b.Strip())
			if !ok {
				continue
			}
			for pos, arg := range atom.Args() {
				a := NewOrdinaryAttribute(atom.Predicate(), pos+1)
				if c.markSafe(a) {
					changed = true
				}
				if c.reg.IsVariable(arg) {
					if c.bindVar(ri.id.Address(), arg) {
						changed = true
					}
				}
			}
		}
	}
	return changed
}

// propagateSafeToBound propagates: whenever an attribute becomes safe
// and some rule has an ordinary atom using that predicate whose
// matching argument is a variable, that variable becomes bounded (the
// converse direction of the seeding rule, needed once external/
// aggregate/builtin providers mark further attributes safe).
func (c *LiberalSafetyChecker) propagateSafeToBound() bool {
	changed := false
	for _, ri := range c.rules {
		all := append(append([]Id{}, ri.rule.Head...), ri.rule.Body...)
		for _, lit := range all {
			if lit.IsExternal() {
				continue
			}
			atom, ok := c.reg.Atom(lit.Strip())
			if !ok {
				continue
			}
			for pos, arg := range atom.Args() {
				if !c.reg.IsVariable(arg) {
					continue
				}
				if c.safeAttrs[NewOrdinaryAttribute(atom.Predicate(), pos+1)] {
					if c.bindVar(ri.id.Address(), arg) {
						changed = true
					}
				}
			}
		}
	}
	return changed
}

// finitenessProvider: output position j of an external atom declared
// PropFiniteDomain(j) has bounded output variables regardless of
// input boundedness.
func (c *LiberalSafetyChecker) finitenessProvider() bool {
	changed := false
	for _, ri := range c.rules {
		for _, b := range ri.rule.Body {
			if !b.IsExternal() {
				continue
			}
			ea, ok := c.reg.External(b.Strip())
			if !ok {
				continue
			}
			for o, out := range ea.Outputs {
				if !c.reg.IsVariable(out) {
					continue
				}
				if _, has := ea.Properties.Has(PropFiniteDomain); !has {
					continue
				}
				for _, prop := range ea.Properties.Props {
					if prop.Kind == PropFiniteDomain && prop.Arg == o {
						if c.bindVar(ri.id.Address(), out) {
							changed = true
							c.necessary[b.Strip()] = true
						}
					}
				}
			}
		}
	}
	return changed
}

// finiteFiberProvider: if every output variable of an external atom
// with the finite-fiber property is bounded, all its input variables
// become bounded too.
func (c *LiberalSafetyChecker) finiteFiberProvider() bool {
	changed := false
	for _, ri := range c.rules {
		for _, b := range ri.rule.Body {
			if !b.IsExternal() {
				continue
			}
			ea, ok := c.reg.External(b.Strip())
			if !ok {
				continue
			}
			if _, has := ea.Properties.Has(PropFiniteFiber); !has {
				continue
			}
			allOutBound := true
			for _, out := range ea.Outputs {
				if c.reg.IsVariable(out) && !c.isBound(ri.id.Address(), out) {
					allOutBound = false
					break
				}
			}
			if !allOutBound {
				continue
			}
			for _, in := range ea.Inputs {
				if c.reg.IsVariable(in) {
					if c.bindVar(ri.id.Address(), in) {
						changed = true
						c.necessary[b.Strip()] = true
					}
				}
			}
		}
	}
	return changed
}

// aggregateBuiltinProvider: variables assigned by an '=' aggregate or
// an #int(X) builtin become bounded. Aggregates/builtins are modeled
// as ordinary atoms whose predicate constant is a recognized marker
// ("aggregate=" / "builtin#int"), since spec §1 puts aggregate/builtin
// surface syntax out of scope for this package's input representation;
// this provider exists so a caller that does encode them this way gets
// the safety benefit spec §4.6 promises.
func (c *LiberalSafetyChecker) aggregateBuiltinProvider() bool {
	changed := false
	for _, ri := range c.rules {
		for _, b := range ri.rule.Body {
			if b.IsExternal() {
				continue
			}
			atom, ok := c.reg.Atom(b.Strip())
			if !ok {
				continue
			}
			pred := c.reg.TermText(atom.Predicate())
			if pred != "aggregate=" && pred != "builtin#int" {
				continue
			}
			for _, arg := range atom.Args() {
				if c.reg.IsVariable(arg) {
					if c.bindVar(ri.id.Address(), arg) {
						changed = true
					}
				}
			}
		}
	}
	return changed
}

// benignCycleProvider: for each SCC containing an unsafe external
// attribute, if every input->output pair inside the SCC is covered by
// a declared well-ordering, bind all output variables of external
// atoms in the SCC via that ordering.
func (c *LiberalSafetyChecker) benignCycleProvider() bool {
	changed := false
	for _, scc := range c.graph.SCCs() {
		if len(scc) < 2 {
			continue
		}
		nodes := make([]Attribute, len(scc))
		for i, n := range scc {
			nodes[i] = c.graph.Attribute(n)
		}
		hasExternal := false
		for _, a := range nodes {
			if a.Kind == AttrExternal {
				hasExternal = true
			}
		}
		if !hasExternal {
			continue
		}
		if !c.sccCoveredByWellOrdering(nodes) {
			continue
		}
		for _, a := range nodes {
			if a.Kind != AttrExternal || a.IsInput {
				continue
			}
			ea, ok := c.reg.External(a.EAtom)
			if !ok || a.ArgIndex-1 >= len(ea.Outputs) {
				continue
			}
			out := ea.Outputs[a.ArgIndex-1]
			if c.reg.IsVariable(out) {
				if c.bindVar(a.Rule.Address(), out) {
					changed = true
					c.necessary[a.EAtom] = true
				}
			}
		}
	}
	return changed
}

// sccCoveredByWellOrdering reports whether every external input/output
// attribute pair inside an SCC is justified by a declared
// well-ordering property (string-length or natural-number decreasing).
func (c *LiberalSafetyChecker) sccCoveredByWellOrdering(nodes []Attribute) bool {
	for _, a := range nodes {
		if a.Kind != AttrExternal || a.IsInput {
			continue
		}
		ea, ok := c.reg.External(a.EAtom)
		if !ok {
			return false
		}
		covered := false
		for _, p := range ea.Properties.Props {
			if (p.Kind == PropWellOrderingStrlen || p.Kind == PropWellOrderingNatural) && p.Arg2 == a.ArgIndex {
				covered = true
				break
			}
		}
		if !covered {
			return false
		}
	}
	return true
}

// Check runs the liberal safety fixpoint and returns the verdict. It
// never returns an error itself; callers that want the §7 SafetyError
// behavior should use CheckOrError.
func (c *LiberalSafetyChecker) Check() SafetyVerdict {
	c.buildGraph()
	for {
		changed := false
		if c.seed() {
			changed = true
		}
		if c.finitenessProvider() {
			changed = true
		}
		if c.finiteFiberProvider() {
			changed = true
		}
		if c.aggregateBuiltinProvider() {
			changed = true
		}
		if c.benignCycleProvider() {
			changed = true
		}
		if c.propagateSafeToBound() {
			changed = true
		}
		if !changed {
			break
		}
	}
	c.promoteOrdinarySafety()

	verdict := SafetyVerdict{NecessaryExternalOccurrences: c.necessary}
	for _, ri := range c.rules {
		var unsafe []Id
		for v := range c.collectVars(ri) {
			if !c.isBound(ri.id.Address(), v) {
				unsafe = append(unsafe, v)
			}
		}
		if len(unsafe) > 0 {
			verdict.UnsafeRules = append(verdict.UnsafeRules, UnsafeRule{Rule: ri.id, Vars: unsafe})
		}
	}
	verdict.IsSafe = len(verdict.UnsafeRules) == 0
	return verdict
}

// CheckOrError runs Check and, on failure, returns the most
// informative *SafetyError (the unsafe rule with the most unbound
// variables), per spec §4.6's failure contract.
func (c *LiberalSafetyChecker) CheckOrError() (SafetyVerdict, error) {
	v := c.Check()
	if v.IsSafe {
		return v, nil
	}
	worst := v.UnsafeRules[0]
	for _, ur := range v.UnsafeRules[1:] {
		if len(ur.Vars) > len(worst.Vars) {
			worst = ur
		}
	}
	return v, newSafetyError(worst.Rule, worst.Vars)
}

func (c *LiberalSafetyChecker) collectVars(ri ruleInfo) map[Id]bool {
	vars := map[Id]bool{}
	collect := func(atomID Id) {
		atom, ok := c.reg.Atom(atomID.Strip())
		if !ok {
			return
		}
		for _, arg := range atom.Args() {
			if c.reg.IsVariable(arg) {
				vars[arg] = true
			}
		}
	}
	for _, h := range ri.rule.Head {
		collect(h)
	}
	for _, b := range ri.rule.Body {
		if b.IsExternal() {
			if ea, ok := c.reg.External(b.Strip()); ok {
				for _, in := range ea.Inputs {
					if c.reg.IsVariable(in) {
						vars[in] = true
					}
				}
				for _, out := range ea.Outputs {
					if c.reg.IsVariable(out) {
						vars[out] = true
					}
				}
			}
			continue
		}
		collect(b)
	}
	return vars
}

// promoteOrdinarySafety re-examines each rule after the main fixpoint
// and marks as necessary every external atom not yet marked that has a
// variable output the fixpoint left unbound. It does not bind that
// variable, so a rule the fixpoint left unsafe stays unsafe.
func (c *LiberalSafetyChecker) promoteOrdinarySafety() {
	for _, ri := range c.rules {
		for _, b := range ri.rule.Body {
			if !b.IsExternal() {
				continue
			}
			if c.necessary[b.Strip()] {
				continue
			}
			ea, ok := c.reg.External(b.Strip())
			if !ok {
				continue
			}
			for _, out := range ea.Outputs {
				if c.reg.IsVariable(out) && !c.isBound(ri.id.Address(), out) {
					// This output is the only thing that could bind
					// the variable (nothing ordinary does): promote.
					c.necessary[b.Strip()] = true
				}
			}
		}
	}
}
