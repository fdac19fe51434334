package hex

// OrdinaryAtom is a predicate applied to a tuple of argument terms.
// Tuple[0] is the predicate symbol; Tuple[1:] are the arguments, which
// may be variables when the atom is non-ground. Text is a cached
// textual rendering, used only for interning and diagnostics.
type OrdinaryAtom struct {
	Tuple []Id
	Text  string
}

// Arity returns the number of arguments (excluding the predicate).
func (a OrdinaryAtom) Arity() int {
	if len(a.Tuple) == 0 {
		return 0
	}
	return len(a.Tuple) - 1
}

// Predicate returns the atom's predicate term Id.
func (a OrdinaryAtom) Predicate() Id {
	if len(a.Tuple) == 0 {
		return IDFail
	}
	return a.Tuple[0]
}

// Args returns the atom's argument terms.
func (a OrdinaryAtom) Args() []Id {
	if len(a.Tuple) <= 1 {
		return nil
	}
	return a.Tuple[1:]
}

// Unifies reports whether a and b unify: equal arity, equal predicate
// and, pairwise, each argument pair is either equal or at least one side is a
// variable. r is consulted to tell variables from constants.
func (a OrdinaryAtom) Unifies(b OrdinaryAtom, r *Registry) bool {
	if a.Arity() != b.Arity() {
		return false
	}
	if a.Predicate() != b.Predicate() {
		return false
	}
	for i, x := range a.Args() {
		y := b.Args()[i]
		if x == y {
			continue
		}
		if r.IsVariable(x) || r.IsVariable(y) {
			continue
		}
		return false
	}
	return true
}

// InputKind classifies an external atom's declared input position.
type InputKind int

const (
	// InputConstant is a plain term input.
	InputConstant InputKind = iota
	// InputPredicate names a predicate; the external atom's input
	// interpretation is the set of ground atoms of that predicate.
	InputPredicate
	// InputTuple is a fixed-arity tuple of terms passed as one input.
	InputTuple
)

// ExtSourceProperty names one semantic annotation an external source
// can declare about itself. Properties with an associated position
// carry it in Arg/Arg2. PropFiniteDomain's Arg is a 0-based index into
// the external atom's Outputs; the well-ordering properties' Arg2 is
// 1-based, matching Attribute.ArgIndex.
type ExtSourceProperty int

const (
	// PropMonotonicOverall: the external atom's truth value is
	// monotonic in the union of all of its inputs.
	PropMonotonicOverall ExtSourceProperty = iota
	// PropMonotonicPerInput: monotonic in input position Arg.
	PropMonotonicPerInput
	// PropFiniteDomain: output position Arg has a finite domain
	// regardless of input.
	PropFiniteDomain
	// PropFiniteFiber: for any fixed output tuple, only finitely many
	// input tuples produce it (and that set is computable).
	PropFiniteFiber
	// PropRelativeFiniteDomain: output position Arg has a finite
	// domain once input position Arg2 is bound.
	PropRelativeFiniteDomain
	// PropWellOrderingStrlen: applications from input Arg to output
	// Arg2 strictly decrease under string length, so any induced chain
	// terminates.
	PropWellOrderingStrlen
	// PropWellOrderingNatural: as PropWellOrderingStrlen, but under
	// natural-number ordering.
	PropWellOrderingNatural
)

// ExtProperty is one declared annotation, with its associated argument
// position(s) where relevant (zero value otherwise).
type ExtProperty struct {
	Kind ExtSourceProperty
	Arg  int
	Arg2 int
}

// ExtSourceProperties is the set of semantic annotations a plugin
// declares for one external predicate.
type ExtSourceProperties struct {
	Props []ExtProperty
}

// Has reports whether p declares a property of the given kind,
// returning its first match.
func (p ExtSourceProperties) Has(kind ExtSourceProperty) (ExtProperty, bool) {
	for _, pr := range p.Props {
		if pr.Kind == kind {
			return pr, true
		}
	}
	return ExtProperty{}, false
}

// ExternalAtom is a relation computed by an opaque procedure,
// identified by its predicate and carrying typed input terms and
// output terms. A guessing rule
// aux_r_e(I,O) v aux_n_e(I,O) <- body(I)
// is associated with every occurrence via AuxInputPredicate.
type ExternalAtom struct {
	Predicate Id
	Inputs    []Id
	InputKind []InputKind
	Outputs   []Id

	AuxInputPredicate Id
	// AuxInputMapping maps each guessing-rule body position back to
	// the external atom's own input tuple position it corresponds to.
	AuxInputMapping [][]int

	InputMask  *Interpretation
	OutputMask *Interpretation

	Properties ExtSourceProperties
}

// Literal is an atom Id with an optional negation-as-failure bit,
// represented simply as an Id whose NAF flag carries the sign; Literal
// is a type alias used where a field is conceptually "a literal" for
// documentation purposes.
type Literal = Id

// RuleKind distinguishes constraint/fact/ordinary rule shapes.
type RuleKind int

const (
	// RuleOrdinary is a rule with a nonempty body.
	RuleOrdinary RuleKind = iota
	// RuleConstraint has an empty head: its body must never be
	// satisfied in any model.
	RuleConstraint
	// RuleFact has an empty body: its head is unconditionally true.
	RuleFact
	// RuleWeightConstraint is a weight constraint head. The internal
	// solver does not inspect rule kinds: such a rule is neither
	// rejected nor given weight semantics.
	RuleWeightConstraint
)

// Rule is a (possibly disjunctive) rule: Head lists disjunct atom Ids,
// Body lists literal Ids (with NAF encoded on the literal itself).
// Weight and Level are populated only for weak constraints, which the
// internal CDNL solver explicitly does not support (spec §1, §9).
type Rule struct {
	Kind   RuleKind
	Head   []Id
	Body   []Id
	Weight int64
	Level  int64
}

// IsDisjunctive reports whether the rule has more than one head atom.
func (ru Rule) IsDisjunctive() bool { return len(ru.Head) > 1 }

// IsFact reports whether the rule has no body literals.
func (ru Rule) IsFact() bool { return len(ru.Body) == 0 }

// IsConstraint reports whether the rule has no head atoms.
func (ru Rule) IsConstraint() bool { return len(ru.Head) == 0 }
