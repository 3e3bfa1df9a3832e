package braid

import "fmt"

// replaceLimit bounds the $replace rewrite loop. Every built-in $replace
// producer emits a node of strictly different shape so the loop is
// guaranteed to terminate for well-formed inputs; this is a backstop
// against a pathological external handler.
const replaceLimit = 32

// evaluateStep is the step processor: given a node, the current name stack,
// and the key it was spawned under, it dispatches through the matcher
// registry and follows any $replace chain to a terminal value.
func evaluateStep(b *Braid, node Value, ts *TableStack, parentKey string) (any, error) {
	for i := 0; i < replaceLimit; i++ {
		step := ts
		dispatchNode := node

		if br, ok := node.(Branch); ok {
			if raw, has := br[DirectiveParam]; has {
				step = ts.Push(paramFrame(raw))
			}
			if raw, has := br[DirectiveSub]; has && isTruthy(raw) {
				dispatchNode = subPrefix(br, parentKey)
			}
		}

		b.mu.RLock()
		handler, err := b.matchers.find(dispatchNode)
		b.mu.RUnlock()
		if err != nil {
			return nil, &DispatchError{Key: parentKey, Node: dispatchNode, Cause: err}
		}

		value, err := handler(b, dispatchNode, step, parentKey)
		if err != nil {
			return nil, &DispatchError{Key: parentKey, Node: dispatchNode, Cause: err}
		}

		if br, ok := value.(Branch); ok {
			if next, has := br[DirectiveReplace]; has {
				node = next
				continue
			}
		}
		return value, nil
	}
	return nil, &DispatchError{Key: parentKey, Node: node, Cause: ErrReplaceLimitExceeded}
}

// paramFrame turns a $param directive's value into the frame pushed before
// dispatch. The conventional shape is a Branch (a dict of bindings, as
// $foreach emits); anything else is exposed under the literal key "$param"
// so template lookups still have something to find.
func paramFrame(raw Value) map[string]any {
	if br, ok := raw.(Branch); ok {
		out := make(map[string]any, len(br))
		for k, v := range br {
			out[k] = v
		}
		return out
	}
	return map[string]any{DirectiveParam: raw}
}

// subPrefix rewrites every non-directive key of br to "parentKey:key",
// implementing $sub prefixing for nested fan-out (used by the foreach
// handler's clones).
func subPrefix(br Branch, parentKey string) Branch {
	out := make(Branch, len(br))
	for k, v := range br {
		if isDirectiveKey(k) {
			out[k] = v
			continue
		}
		out[fmt.Sprintf("%s:%s", parentKey, k)] = v
	}
	return out
}
