package hex

// GroundProgram is the output of the grounder oracle: a set of facts
// (edb), a set of ground disjunctive rules (idb), the #maxint bound
// for built-ins, and a mask of atoms to hide from reported models.
type GroundProgram struct {
	EDB    *Interpretation
	IDB    []Id // RuleId values
	MaxInt uint32
	Mask   *Interpretation
}

// NewGroundProgram returns an empty GroundProgram bound to r.
func NewGroundProgram(r *Registry) GroundProgram {
	return GroundProgram{
		EDB:  NewInterpretation(r),
		Mask: NewInterpretation(r),
	}
}
