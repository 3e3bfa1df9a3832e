package llm

import (
	"context"
	"fmt"

	"github.com/codewillclick/braid/braid"
)

// DirectiveLLM is the trigger key this collaborator registers against.
const DirectiveLLM = "$llm"

// Manager dispatches $llm requests to a registered ChatModel chosen by the
// request's "provider" field.
type Manager struct {
	providers   map[string]ChatModel
	defaultName string
}

// NewManager creates a Manager. defaultProvider is used for requests with
// no explicit "provider" field.
func NewManager(defaultProvider string) *Manager {
	return &Manager{providers: map[string]ChatModel{}, defaultName: defaultProvider}
}

// Register adds a named provider. name is matched against a request's
// "provider" field.
func (m *Manager) Register(name string, model ChatModel) *Manager {
	m.providers[name] = model
	return m
}

// Matcher matches any Branch carrying the $llm directive. Register it with
// braid.Register so it outranks the core's built-in object handler for
// $llm-carrying nodes — externally registered handlers win over built-ins.
func Matcher(node braid.Value) bool {
	br, ok := node.(braid.Branch)
	return ok && branchHasLLM(br)
}

func branchHasLLM(br braid.Branch) bool {
	_, ok := br[DirectiveLLM]
	return ok
}

// Handler returns the braid.Handler for $llm: interpolate %(name)s
// placeholders in the prompt against the current tablestack, dispatch to
// the chosen provider, and stash provider metadata on the spawning key's
// ttable entry.
func (m *Manager) Handler() braid.Handler {
	return func(b *braid.Braid, node braid.Value, ts *braid.TableStack, key string) (any, error) {
		br, ok := node.(braid.Branch)
		if !ok {
			return nil, fmt.Errorf("llm: $llm handler received non-Branch node (%T)", node)
		}
		prompt, ok := br[DirectiveLLM].(string)
		if !ok {
			return nil, fmt.Errorf("llm: $llm value must be a string prompt")
		}

		processed := Interpolate(prompt, ts.Flat())

		providerName := m.defaultName
		if p, ok := br["provider"].(string); ok && p != "" {
			providerName = p
		}
		model, ok := m.providers[providerName]
		if !ok {
			return nil, fmt.Errorf("llm: unsupported provider %q", providerName)
		}

		out, err := model.Chat(context.Background(), []Message{{Role: RoleUser, Content: processed}})
		if err != nil {
			return nil, err
		}

		if key != "" {
			b.Annotate(key, map[string]any{"model": out.Model, "provider": providerName})
		}
		return out.Text, nil
	}
}
