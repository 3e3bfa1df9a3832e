package emit

// Emitter receives observability events from a running braid.
//
// Implementations should be non-blocking and resilient: Emit must never
// panic, and a slow backend should buffer or drop rather than stall the
// worker that's reporting the event.
type Emitter interface {
	Emit(Event)
}

// NullEmitter discards every event. It is the zero-overhead default used
// when a Braid is constructed without WithEmitter.
type NullEmitter struct{}

// Emit implements Emitter by doing nothing.
func (NullEmitter) Emit(Event) {}
