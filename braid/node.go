// Package braid implements a declarative task graph executor: a "braid" of
// parallel branches and sequential chains, dispatched to handlers by a
// rule-based matcher registry.
package braid

// Value is anything that can appear as a braid node: a scalar, a Chain, a
// Branch, or a Callable. Go has no native tagged union, so Value is kept as
// the empty interface and the concrete shape is recovered with type
// switches and assertions in the built-in handlers' match predicates.
type Value = any

// Chain is an ordered sequence of nodes evaluated left to right. Each step's
// return value becomes the "$result" visible to the next step via the name
// stack.
type Chain []Value

// Branch is a mapping from string key to node. Keys not beginning with "$"
// spawn a concurrent sub-thread when dispatched by Run; keys beginning with
// "$" are directives that steer dispatch instead (see the Directive* consts).
type Branch map[string]Value

// Callable is a host-language function node. The literal preprocessor
// rewrites a bare Callable into {$run: fn} before dispatch (see
// handleLiteral), so Callable itself never needs its own matcher.
type Callable func(node Value, ts *TableStack) (any, error)

// Directive key names recognized inside a Branch. All are optional.
const (
	DirectiveWait     = "$wait"
	DirectiveRun      = "$run"
	DirectiveForeach  = "$foreach"
	DirectiveParam    = "$param"
	DirectiveSub      = "$sub"
	DirectiveAsync    = "$async"
	DirectiveThrottle = "$throttle"
	DirectiveReplace  = "$replace"
	DirectiveResult   = "$result"
)

// isDirectiveKey reports whether k is a reserved "$"-prefixed key. Such keys
// are never inserted into the result table and never spawn a sub-thread.
func isDirectiveKey(k string) bool {
	return len(k) > 0 && k[0] == '$'
}

// branchHas reports whether a Branch contains a directive key, matching the
// "key present" test used throughout the matcher predicates (distinct from
// tablestack's falsy-but-present quirk, see TableStack.Contains).
func branchHas(b Branch, key string) bool {
	_, ok := b[key]
	return ok
}

// isTruthy mirrors the loose truthiness the source relies on for flags like
// $sub and $async: nil, false, "", and a zero int, int64 or float64 are
// false; every other value (other numeric types and empty collections
// included) is true.
func isTruthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case int:
		return t != 0
	case int64:
		return t != 0
	case float64:
		return t != 0
	}
	return true
}
