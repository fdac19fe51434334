package hex

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ModelGeneratorState is one of the four façade states (spec §4.7).
type ModelGeneratorState int

const (
	// StateFresh means NextModel has never been called.
	StateFresh ModelGeneratorState = iota
	// StateGrounded means the ground program and internal solver have
	// been built but no model has been requested from the solver yet.
	StateGrounded
	// StateIterating means at least one NextModel call has reached the
	// solver and returned a model.
	StateIterating
	// StateExhausted means the solver has reported no further models.
	StateExhausted
)

// GrounderOracle produces a GroundProgram from whatever non-ground
// input the caller holds, applying outer external-atom evaluation
// exactly once. Grounding itself (parsing, the component graph,
// Gringo bindings) is an external collaborator out of this package's
// scope (spec §1); GrounderOracle is the seam that input is received
// through.
type GrounderOracle func() (GroundProgram, error)

// ModelGenerator is the façade described in spec §4.7: a single
// next_model() operation driving Fresh -> Grounded -> Iterating ->
// Exhausted. It is grounded on stream.go's lazy, return-to-yield
// iteration idiom, trimmed to dlvhex's synchronous single-solver
// model: there is no producer goroutine, just a state machine around
// one InternalGroundASPSolver.
type ModelGenerator struct {
	ground GrounderOracle

	state  ModelGeneratorState
	reg    *Registry
	solver *InternalGroundASPSolver
	prog   AnnotatedGroundProgram

	modelCount int
}

// NewModelGenerator returns a façade in state Fresh. ground is called
// exactly once, on the first NextModel call.
func NewModelGenerator(reg *Registry, ground GrounderOracle) *ModelGenerator {
	return &ModelGenerator{reg: reg, ground: ground, state: StateFresh}
}

// State reports the façade's current state.
func (g *ModelGenerator) State() ModelGeneratorState { return g.state }

// NextModel advances the façade and returns the next model, projected
// through the program mask, or (nil, false) once the search space is
// exhausted. Every call is logged with a fresh trace id so a caller
// correlating several next_model calls across a run can find them in
// the solver's diagnostic log (SPEC_FULL.md §1.1, identifiers for
// tracing).
func (g *ModelGenerator) NextModel() (*Interpretation, bool, error) {
	traceID := uuid.New()
	log := logger.With(zap.String("trace_id", traceID.String()))

	if g.state == StateFresh {
		prog, err := g.ground()
		if err != nil {
			return nil, false, err
		}
		g.prog = *NewAnnotatedGroundProgram(g.reg, prog)
		// ProgramMask accumulates atoms to hide from reported models:
		// the program's own declared mask, plus the solver's synthetic
		// Clark-completion body atoms (AuxiliaryAtoms).
		g.prog.ProgramMask.Union(prog.Mask)
		g.solver = NewInternalGroundASPSolver(g.reg, prog)
		g.prog.ProgramMask.Union(g.solver.AuxiliaryAtoms())
		g.state = StateGrounded
		log.Debug("model generator grounded", zap.Int("idb_rules", len(prog.IDB)))
	}

	if g.state == StateExhausted {
		return nil, false, nil
	}

	model, ok := g.solver.GetNextModel()
	if !ok {
		g.state = StateExhausted
		log.Debug("model generator exhausted", zap.Int("models_returned", g.modelCount))
		return nil, false, nil
	}

	g.state = StateIterating
	g.modelCount++
	log.Debug("model generator produced model", zap.Int("model_index", g.modelCount))

	projected := model.Clone()
	projected.Subtract(g.prog.ProgramMask)
	return projected, true, nil
}

// GetInconsistencyCause forwards to the underlying solver; valid only
// once NextModel has reached StateExhausted without ever returning a
// model (the same contract CDNLSolver.GetInconsistencyCause enforces).
func (g *ModelGenerator) GetInconsistencyCause(explainAtoms []Id) (*Nogood, error) {
	if g.solver == nil {
		return nil, newContractError("GetInconsistencyCause", "model generator has not been grounded yet")
	}
	return g.solver.GetInconsistencyCause(explainAtoms)
}
