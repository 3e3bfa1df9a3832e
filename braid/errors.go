package braid

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for the braid error taxonomy. Callers should use
// errors.Is against these, not string comparison — wrapping types below
// carry the structured context (key, node, timeout) via errors.As.
var (
	// ErrUnfinishedThread is returned by Braid.Get when the named entry has
	// not yet reached a terminal state.
	ErrUnfinishedThread = errors.New("braid: result not yet finished")

	// ErrKeyOverrideAttempt is wrapped by the *KeyOverrideError that Run
	// panics with when a spawn key already exists in the result table.
	ErrKeyOverrideAttempt = errors.New("braid: key already present in result table")

	// ErrNoMatchedFunction is returned by the step processor when no
	// registered matcher accepts a node.
	ErrNoMatchedFunction = errors.New("braid: no matcher accepted node")

	// ErrWaitTimeout is returned by Wait when the configured timeout
	// elapses before every named key reaches a terminal state.
	ErrWaitTimeout = errors.New("braid: wait exceeded configured timeout")

	// ErrReplaceLimitExceeded guards against a misbehaving handler whose
	// $replace rewrites never converge.
	ErrReplaceLimitExceeded = errors.New("braid: $replace chain exceeded rewrite bound")
)

// KeyOverrideError wraps ErrKeyOverrideAttempt with the offending key.
type KeyOverrideError struct {
	Key string
}

func (e *KeyOverrideError) Error() string {
	return fmt.Sprintf("braid: key %q already present in result table", e.Key)
}

func (e *KeyOverrideError) Unwrap() error { return ErrKeyOverrideAttempt }

// DispatchError wraps a failure raised while evaluating a single node,
// carrying enough context (spawn key, offending node) for structured
// inspection via errors.As.
type DispatchError struct {
	Key   string
	Node  Value
	Cause error
}

func (e *DispatchError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("braid: node %q: %v", e.Key, e.Cause)
	}
	return fmt.Sprintf("braid: %v", e.Cause)
}

func (e *DispatchError) Unwrap() error { return e.Cause }

// WaitError wraps ErrWaitTimeout with the keys the timed-out Wait was
// waiting on (all of them, not only the ones still unfinished).
type WaitError struct {
	Keys    []string
	Timeout time.Duration
}

func (e *WaitError) Error() string {
	return fmt.Sprintf("braid: wait timed out after %s on keys %v", e.Timeout, e.Keys)
}

func (e *WaitError) Unwrap() error { return ErrWaitTimeout }
