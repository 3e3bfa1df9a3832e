package braid

import "sync/atomic"

// monotonic hands out strictly increasing ids, used to build stable foreach
// fan-out key prefixes ("foreach:{id}:{index}").
type monotonic struct {
	n atomic.Int64
}

func newMonotonic() *monotonic { return &monotonic{} }

func (m *monotonic) next() int64 { return m.n.Add(1) }
