package hex

// AnnotatedGroundProgram wraps a GroundProgram with per-external-atom
// masks (which ground atoms are the replacements of which
// external-atom occurrence) and a per-program mask. Invariant: the
// union of EAtomMasks equals the set of external-replacement atoms in
// Base.
type AnnotatedGroundProgram struct {
	Base        GroundProgram
	EAtomMasks  map[Id]*Interpretation // keyed by external-atom occurrence Id
	ProgramMask *Interpretation
}

// NewAnnotatedGroundProgram wraps base with empty masks.
func NewAnnotatedGroundProgram(r *Registry, base GroundProgram) *AnnotatedGroundProgram {
	return &AnnotatedGroundProgram{
		Base:        base,
		EAtomMasks:  make(map[Id]*Interpretation),
		ProgramMask: NewInterpretation(r),
	}
}

// SetEAtomMask records which replacement atoms belong to the given
// external-atom occurrence and folds them into the program mask.
func (a *AnnotatedGroundProgram) SetEAtomMask(eatom Id, mask *Interpretation) {
	a.EAtomMasks[eatom] = mask
	a.ProgramMask.Union(mask)
}

// ReplacementAtoms returns the union of every recorded external-atom
// mask: the full set of replacement atoms in the ground program.
func (a *AnnotatedGroundProgram) ReplacementAtoms(r *Registry) *Interpretation {
	out := NewInterpretation(r)
	for _, m := range a.EAtomMasks {
		out.Union(m)
	}
	return out
}
