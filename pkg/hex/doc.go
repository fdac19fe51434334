// Package hex provides a ground-solver runtime for disjunctive logic
// programs extended with external atoms (HEX programs).
//
// The package treats the grounder as an oracle: callers hand it a
// GroundProgram produced elsewhere, and hex drives a conflict-driven
// nogood-learning (CDNL) search engine extended with unfounded-set
// detection to enumerate answer sets. A separate LiberalSafetyChecker
// decides, ahead of grounding, whether a non-ground program can be
// soundly and finitely grounded at all.
//
// hex is deliberately narrow: it does not parse HEX surface syntax, it
// does not implement external-atom plugins, and it does not schedule
// model generators across rule components. Those concerns belong to an
// outer pipeline that drives the types in this package.
//
// The central objects are:
//
//   - Registry: a process-wide interning arena for terms, atoms, and
//     rules, referenced everywhere else by compact Id values.
//   - NogoodSet: a deduplicating container of Nogood values, ground or
//     non-ground.
//   - AttributeGraph / LiberalSafetyChecker: the domain-expansion safety
//     analysis gating grounding.
//   - CDNLSolver / InternalGroundASPSolver: the ground search engine.
//   - ModelGenerator: a thin façade that drives grounding once and then
//     forwards repeated next_model() calls to the solver.
package hex
