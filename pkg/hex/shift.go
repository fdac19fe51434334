package hex

import "fmt"

// ShiftedRule is one disjunct of a disjunctive rule after the
// "pick one head" shift described in spec §4.3: a head atom a_i paired
// with the original body extended by the negation of every other head
// atom. No other code in this package calls Shift: the unfounded-set
// detector (ufs.go) reasons about each head atom of the unshifted rule
// directly, and Clark completion is built from the rule's original,
// unshifted body (see completionBuilder below).
type ShiftedRule struct {
	Head Id
	Body []Id
}

// Shift returns the "pick one head" shift of rule: one ShiftedRule per
// head atom, each with the rest of the disjunction negated into its
// body. A fact/ordinary rule with a single head atom shifts to itself
// unchanged (there is nothing else to negate); a constraint (no head)
// yields no shifted rules.
func Shift(rule Rule) []ShiftedRule {
	if len(rule.Head) <= 1 {
		if len(rule.Head) == 0 {
			return nil // constraints have no source-pointer obligation
		}
		return []ShiftedRule{{Head: rule.Head[0], Body: rule.Body}}
	}
	out := make([]ShiftedRule, 0, len(rule.Head))
	for i, h := range rule.Head {
		body := append([]Id(nil), rule.Body...)
		for j, other := range rule.Head {
			if j == i {
				continue
			}
			body = append(body, other.Negate())
		}
		out = append(out, ShiftedRule{Head: h, Body: body})
	}
	return out
}

// flpReplacementName mints the synthetic FLP-reduct replacement
// predicate name for a rule. Mirrors FLPModelGeneratorBase.cpp's
// getAuxiliaryConstantSymbol('f', rid) naming scheme.
func flpReplacementName(ruleAddr uint32) string {
	return fmt.Sprintf("flp_r%d", ruleAddr)
}

// FLPReductRule is one source rule's Faber-Leone-Pfeifer reduct split
// into its "head" and "body" half, named after
// FLPModelGeneratorFactoryBase's xidbflphead/xidbflpbody rule sets.
type FLPReductRule struct {
	SourceRule Id
	Head       Rule // flp_r <- body(r)
	Body       Rule // (original head or constraint) <- body(r), flp_r
}

// FLPReduct builds the FLP-reduct auxiliaries for every rule in idb
// (spec §2's third shift.go deliverable, alongside disjunctive-head
// shift and Clark completion: "the FLP-reduct auxiliaries used by other
// model generators"). For each rule with a nonempty body it mints one
// fresh replacement atom flp_r and returns a matching pair of rules:
//
//	Head: flp_r <- body(r)
//	Body: head(r) <- body(r), flp_r        (r has a head)
//	      :- body(r), flp_r                (r is a constraint)
//
// Facts (empty body) are returned unchanged in both halves — a fact's
// reduct is itself regardless of the candidate model being checked,
// matching createFLPRules's "keep disjunctive facts as they are" case.
//
// The reduct construction never shifts r's head. Applying Shift
// here would let the reduct admit models the unshifted original program
// does not have, which is exactly what original_source's own comment
// warns against ("EA-aux input rules MUST NOT be shifted! This could
// eliminate models of the reduct").
//
// FLPReduct is a building block for minimal-model / FLP-check model
// generators; hexcore's own ModelGenerator does not run an FLP check
// (the outer model-builder and its per-component generator selection
// are out of this package's scope), but the construction itself is a
// named deliverable and is exercised directly by tests and available to
// any caller that wants to verify a candidate model's FLP-minimality.
func FLPReduct(reg *Registry, idb []Id) []FLPReductRule {
	var out []FLPReductRule
	for _, rid := range idb {
		ru, ok := reg.Rule(rid)
		if !ok {
			continue
		}
		if ru.IsFact() {
			out = append(out, FLPReductRule{SourceRule: rid, Head: ru, Body: ru})
			continue
		}

		pred := reg.InternConstant(flpReplacementName(rid.Address()))
		fid := reg.InternAtom([]Id{pred})
		fid = newID(fid.Kind()|FlagAux, fid.Address())

		headRule := Rule{Kind: RuleOrdinary, Head: []Id{fid}, Body: append([]Id(nil), ru.Body...)}

		body := append(append([]Id(nil), ru.Body...), fid)
		var bodyRule Rule
		if ru.IsConstraint() {
			bodyRule = Rule{Kind: RuleConstraint, Body: body}
		} else {
			bodyRule = Rule{Kind: ru.Kind, Head: append([]Id(nil), ru.Head...), Body: body}
		}

		out = append(out, FLPReductRule{SourceRule: rid, Head: headRule, Body: bodyRule})
	}
	return out
}

// bodyAtomName mints the synthetic predicate name for a rule's shared
// Clark-completion body atom. Mirrors InternalGroundASPSolver.cpp's
// bodyAtomOfRule naming scheme (there "body_" plus the rule's ID).
func bodyAtomName(ruleAddr uint32) string {
	return fmt.Sprintf("body_r%d", ruleAddr)
}

// completionBuilder accumulates the Clark-completion nogoods for a set
// of ground rules, grounded on spec §4.3's "Clark completion
// construction" and cross-checked against
// InternalGroundASPSolver.cpp's per-rule body-atom bookkeeping
// (bodyAtomOfRule, rulesWithPosHeadLiteral). One synthetic body atom is
// minted per rule (not per disjunct): it tracks whether the rule's
// unshifted body currently holds, which is all the information
// completion needs. Per-disjunct reasoning (which head atom gets to
// use the rule as its source) is left entirely to ufs.go.
type completionBuilder struct {
	reg *Registry

	// bodyAtomOf maps a rule's address to its synthesized body atom Id,
	// the ASP-level analogue of "the rule's body currently holds."
	bodyAtomOf map[uint32]Id
	// rulesOfHead maps an original head atom address to the rules that
	// name it in the head, used for the h -> OR(bodyAtom) completion
	// direction and by the UFS detector's source-pointer search.
	rulesOfHead map[uint32][]Id
	// ruleBody records each rule's original (unshifted) body, keyed by
	// rule address.
	ruleBody map[uint32][]Id
}

// newCompletionBuilder mints one body atom per non-constraint rule in
// idb and records each rule's head/body shape for later nogood
// construction.
func newCompletionBuilder(reg *Registry, idb []Id) *completionBuilder {
	cb := &completionBuilder{
		reg:         reg,
		bodyAtomOf:  map[uint32]Id{},
		rulesOfHead: map[uint32][]Id{},
		ruleBody:    map[uint32][]Id{},
	}
	for _, rid := range idb {
		ru, ok := reg.Rule(rid)
		if !ok || ru.IsConstraint() {
			continue
		}
		pred := reg.InternConstant(bodyAtomName(rid.Address()))
		bodyAtomID := reg.InternAtom([]Id{pred})
		bodyAtomID = newID(bodyAtomID.Kind()|FlagAux, bodyAtomID.Address())

		cb.bodyAtomOf[rid.Address()] = bodyAtomID
		cb.ruleBody[rid.Address()] = ru.Body
		for _, h := range ru.Head {
			cb.rulesOfHead[h.Address()] = append(cb.rulesOfHead[h.Address()], rid)
		}
	}
	return cb
}

// nogoods emits the standard disjunctive Clark-completion nogoods
// (spec §4.3):
//
//  1. body_r <-> conjunction(body literals), for every rule r.
//  2. h -> OR(body_r : r names h in its head), for every head atom h:
//     an atom cannot be true without some rule supporting it.
//  3. body_r -> OR(heads of r), for every rule r: a satisfied body
//     forces at least one disjunct true.
//
// Deliberately absent is the converse of (2) — h <- body_r for a
// specific h when r is disjunctive — since a disjunctive rule's body
// holding does not determine which disjunct is true. That
// underdetermination, and the resulting non-minimal models (e.g. "a
// supports b and b supports a" loops), is resolved by the
// unfounded-set detector (ufs.go), not by completion.
func (cb *completionBuilder) nogoods() []*Nogood {
	var out []*Nogood

	for ruleAddr, bodyAtom := range cb.bodyAtomOf {
		body := cb.ruleBody[ruleAddr]

		for _, lit := range body {
			out = append(out, NewNogood(bodyAtom, lit.Negate()))
		}

		backward := make([]Id, 0, len(body)+1)
		backward = append(backward, body...)
		backward = append(backward, bodyAtom.Negate())
		out = append(out, NewNogood(backward...))
	}

	for headAddr, rules := range cb.rulesOfHead {
		headLit := newID(KindAtom|FlagOrdinary|FlagGround, headAddr)

		forward := make([]Id, 0, len(rules)+1)
		forward = append(forward, headLit)
		for _, rid := range rules {
			forward = append(forward, cb.bodyAtomOf[rid.Address()].Negate())
		}
		out = append(out, NewNogood(forward...))
	}

	for ruleAddr, bodyAtom := range cb.bodyAtomOf {
		ru, ok := cb.reg.Rule(newID(KindRule, ruleAddr))
		if !ok {
			continue
		}
		disjunction := make([]Id, 0, len(ru.Head)+1)
		disjunction = append(disjunction, bodyAtom)
		for _, h := range ru.Head {
			disjunction = append(disjunction, h.Negate())
		}
		out = append(out, NewNogood(disjunction...))
	}

	return out
}
