package hex

import "fmt"

// AttributeKind distinguishes the two Attribute shapes used by the
// liberal safety checker.
type AttributeKind int

const (
	// AttrOrdinary identifies a predicate-argument position of an
	// ordinary (non-external) atom.
	AttrOrdinary AttributeKind = iota
	// AttrExternal identifies an input or output argument position of
	// one external-atom occurrence inside one rule.
	AttrExternal
)

// Attribute is one node of the AttributeGraph: a predicate-argument
// position (ordinary), or an input/output argument position of one
// external-atom occurrence (external). ArgIndex is 1-based, per spec.
type Attribute struct {
	Kind AttributeKind

	// Ordinary fields.
	Predicate Id

	// External fields.
	Rule      Id
	EAtom     Id
	IsInput   bool

	ArgIndex int
}

// NewOrdinaryAttribute builds an Attribute naming argument position
// argIndex (1-based) of predicate.
func NewOrdinaryAttribute(predicate Id, argIndex int) Attribute {
	return Attribute{Kind: AttrOrdinary, Predicate: predicate, ArgIndex: argIndex}
}

// NewExternalAttribute builds an Attribute naming one input or output
// argument position of an external-atom occurrence eatom inside rule.
func NewExternalAttribute(rule, eatom, predicate Id, isInput bool, argIndex int) Attribute {
	return Attribute{
		Kind: AttrExternal, Rule: rule, EAtom: eatom, Predicate: predicate,
		IsInput: isInput, ArgIndex: argIndex,
	}
}

// String renders the attribute for diagnostics.
func (a Attribute) String() string {
	if a.Kind == AttrOrdinary {
		return fmt.Sprintf("%s[%d]", a.Predicate, a.ArgIndex)
	}
	dir := "out"
	if a.IsInput {
		dir = "in"
	}
	return fmt.Sprintf("%s/%s:%s[%d]@%s", a.EAtom, dir, a.Predicate, a.ArgIndex, a.Rule)
}
