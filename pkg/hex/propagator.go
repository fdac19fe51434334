package hex

// NogoodSink receives nogoods emitted by a Propagator during one
// propagation call. Implementations (the CDNL core) must accept
// duplicate or already-satisfied nogoods gracefully: NogoodGrounder
// and external-atom propagators are both allowed to over-approximate.
type NogoodSink interface {
	Emit(ng *Nogood)
}

// Propagator is the callback interface external-atom verification and
// other non-core reasoning hooks into the solver through. It is
// invoked synchronously, on the solver's own goroutine, once unit
// propagation stabilizes and once more between the last propagation
// and model emission (spec §4.4).
//
// Contract:
//   - changed lists atoms whose truth value possibly changed since the
//     last call (a superset of the actual changes is permitted).
//   - Propagate must not mutate partial or assigned.
//   - Every nogood passed to sink.Emit must be ground.
type Propagator interface {
	Propagate(partial, assigned, changed *Interpretation, sink NogoodSink)
}

// PropagatorFunc adapts a plain function to the Propagator interface,
// the way http.HandlerFunc adapts a function to http.Handler.
type PropagatorFunc func(partial, assigned, changed *Interpretation, sink NogoodSink)

// Propagate calls f.
func (f PropagatorFunc) Propagate(partial, assigned, changed *Interpretation, sink NogoodSink) {
	f(partial, assigned, changed, sink)
}

// sinkFunc is an internal NogoodSink adapter used where the solver
// wants to hand out a sink bound to a particular pending buffer
// without exposing the buffer's type.
type sinkFunc func(ng *Nogood)

func (f sinkFunc) Emit(ng *Nogood) { f(ng) }
