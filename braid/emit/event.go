// Package emit provides pluggable observability for braid execution. It is
// a pure observation seam: nothing in the braid's dispatch, state, or
// $replace loop depends on an Emitter's behavior, so a slow or failing
// Emitter can never affect correctness.
package emit

import "time"

// Event is one observability event emitted while a braid runs a node.
type Event struct {
	// Time is when the event was emitted.
	Time time.Time

	// Kind names the event. A braid's workers emit "node_start",
	// "node_done" and "node_error".
	Kind string

	// Key is the result-table key the event concerns.
	Key string

	// Meta carries event-specific structured data, e.g. {"error": "..."}
	// on a node_error event.
	Meta map[string]any
}
