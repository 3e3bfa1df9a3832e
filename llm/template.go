package llm

import (
	"fmt"
	"regexp"
)

// placeholderPattern matches %-style named placeholders: %(name)s. Only the
// string conversion specifier is supported.
var placeholderPattern = regexp.MustCompile(`%\(([^)]+)\)s`)

// Interpolate substitutes every %(name)s placeholder in prompt with the
// string form of vars[name]. A missing key is left in place unchanged
// rather than failing the whole prompt over one unresolved variable.
func Interpolate(prompt string, vars map[string]any) string {
	return placeholderPattern.ReplaceAllStringFunc(prompt, func(match string) string {
		name := placeholderPattern.FindStringSubmatch(match)[1]
		v, ok := vars[name]
		if !ok {
			return match
		}
		return fmt.Sprintf("%v", v)
	})
}

// InterpolatePair processes a (system, user) prompt pair in one call.
func InterpolatePair(system, user string, vars map[string]any) (string, string) {
	return Interpolate(system, vars), Interpolate(user, vars)
}
