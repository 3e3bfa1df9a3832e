package braid

import (
	"fmt"
	"strconv"
	"strings"
)

// foreachCounter generates the monotonic id foreach uses to build a stable
// auto-key prefix. It is package-level (shared across every Braid) since the
// source's own monotonic counter is likewise global to the process, and
// nothing in the contract requires per-braid numbering.
var foreachCounter = newMonotonic()

// --- ignore: floor fallback, always matches --------------------------------

func matchIgnore(node Value) bool { return true }

func handleIgnore(b *Braid, node Value, ts *TableStack, key string) (any, error) {
	return node, nil
}

// --- literal: "@..." wait shorthand and bare callables ---------------------

func matchLiteral(node Value) bool {
	switch v := node.(type) {
	case string:
		return strings.HasPrefix(v, "@")
	case Callable:
		return true
	}
	return false
}

func handleLiteral(b *Braid, node Value, ts *TableStack, key string) (any, error) {
	switch v := node.(type) {
	case string:
		tokens := strings.Split(strings.TrimPrefix(v, "@"), ",")
		for i := range tokens {
			tokens[i] = strings.TrimSpace(tokens[i])
		}
		return Branch{DirectiveReplace: Branch{DirectiveWait: tokens}}, nil
	case Callable:
		return Branch{DirectiveReplace: Branch{DirectiveRun: v}}, nil
	}
	return node, nil
}

// --- object: Branch spawns a parallel sub-braid ----------------------------

func matchBranch(node Value) bool {
	_, ok := node.(Branch)
	return ok
}

func handleObject(b *Braid, node Value, ts *TableStack, key string) (any, error) {
	br := node.(Branch)
	child := ts.Push(map[string]any{DirectiveResult: nil})

	b.runOn(br, child)

	if !isTruthy(br[DirectiveAsync]) {
		keys := make([]string, 0, len(br))
		for k := range br {
			if !isDirectiveKey(k) {
				keys = append(keys, k)
			}
		}
		if err := b.Wait(keys...); err != nil {
			return nil, err
		}
	}

	if v, ok := child.Get(DirectiveResult); ok {
		return v, nil
	}
	return nil, nil
}

// --- list: Chain runs sequentially, threading $result ----------------------

func matchChain(node Value) bool {
	_, ok := node.(Chain)
	return ok
}

func handleList(b *Braid, node Value, ts *TableStack, key string) (any, error) {
	chain := node.(Chain)
	frame := ts.Push(map[string]any{DirectiveResult: nil})

	var result any
	for _, item := range chain {
		v, err := evaluateStep(b, item, frame, key)
		if err != nil {
			return nil, err
		}
		result = v
		frame.Set(DirectiveResult, v)
	}
	return result, nil
}

// --- wait: $wait directive --------------------------------------------------

func matchWait(node Value) bool {
	br, ok := node.(Branch)
	return ok && branchHas(br, DirectiveWait)
}

// handleWait barrier-waits on the listed keys. When exactly one key is
// named — the shape produced by a literal "@key" — it publishes that key's
// own terminal value as the return value, so a chain step following
// "@key" sees it as $result (this is what makes the literal-@ dependency
// shorthand useful: a cross-branch reference like "@a" must hand a's own
// value to the next chain step, not the chain's prior $result, which is
// still null at that point). With more than one key, or when the single key
// has no entry, it falls back to the stack's current $result.
func handleWait(b *Braid, node Value, ts *TableStack, key string) (any, error) {
	br := node.(Branch)
	keys, err := toStringSlice(br[DirectiveWait])
	if err != nil {
		return nil, err
	}
	if err := b.Wait(keys...); err != nil {
		return nil, err
	}
	if len(keys) == 1 {
		if v, err := b.Get(keys[0]); err == nil {
			return v, nil
		}
	}
	if v, ok := ts.Get(DirectiveResult); ok {
		return v, nil
	}
	return nil, nil
}

func toStringSlice(v Value) ([]string, error) {
	switch t := v.(type) {
	case []string:
		return t, nil
	case []any:
		out := make([]string, len(t))
		for i, item := range t {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("braid: $wait key at index %d is not a string", i)
			}
			out[i] = s
		}
		return out, nil
	case string:
		return []string{t}, nil
	default:
		return nil, fmt.Errorf("braid: $wait expects a string or list of strings, got %T", v)
	}
}

// --- run: $run directive ----------------------------------------------------

func matchRun(node Value) bool {
	br, ok := node.(Branch)
	return ok && branchHas(br, DirectiveRun)
}

func handleRun(b *Braid, node Value, ts *TableStack, key string) (any, error) {
	br := node.(Branch)
	fn, ok := br[DirectiveRun].(Callable)
	if !ok {
		return nil, fmt.Errorf("braid: $run value is not a Callable (got %T)", br[DirectiveRun])
	}
	return fn(node, ts)
}

// --- foreach: $foreach directive --------------------------------------------

func matchForeach(node Value) bool {
	br, ok := node.(Branch)
	return ok && branchHas(br, DirectiveForeach)
}

func handleForeach(b *Braid, node Value, ts *TableStack, key string) (any, error) {
	br := node.(Branch)
	items, err := materialize(br[DirectiveForeach])
	if err != nil {
		return nil, err
	}

	id := foreachCounter.next()
	prefix := fmt.Sprintf("foreach:%d", id)
	width := digitWidth(len(items))

	throttle, hasThrottle := ts.Get(DirectiveThrottle)

	fanout := make(Branch, len(items))
	for i, item := range items {
		clone := make(Branch, len(br))
		for k, v := range br {
			if k == DirectiveForeach {
				continue
			}
			clone[k] = v
		}
		clone[DirectiveParam] = item
		clone[DirectiveSub] = 1
		if hasThrottle {
			clone[DirectiveThrottle] = throttle
		}
		childKey := fmt.Sprintf("%s:%0*d", prefix, width, i)
		fanout[childKey] = clone
	}
	fanout[DirectiveSub] = 1
	if hasThrottle {
		fanout[DirectiveThrottle] = throttle
	}

	return Branch{DirectiveReplace: fanout}, nil
}

// materialize converts a $foreach iterable value into a concrete slice. It
// accepts a []Value (copied) or a Chain; any other type, including channels,
// is an error.
func materialize(v Value) ([]Value, error) {
	switch t := v.(type) {
	case []Value:
		out := make([]Value, len(t))
		copy(out, t)
		return out, nil
	case Chain:
		return []Value(t), nil
	default:
		return nil, fmt.Errorf("braid: $foreach value is not an iterable (got %T)", v)
	}
}

func digitWidth(n int) int {
	if n <= 1 {
		return 1
	}
	return len(strconv.Itoa(n - 1))
}
