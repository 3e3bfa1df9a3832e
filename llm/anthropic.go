package llm

import (
	"context"
	"fmt"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicModel implements ChatModel against Anthropic's Claude API. It has
// no tool-calling surface since $llm never shapes one.
type AnthropicModel struct {
	apiKey    string
	modelName string
}

// NewAnthropicModel creates an AnthropicModel. An empty modelName defaults
// to Claude Sonnet.
func NewAnthropicModel(apiKey, modelName string) *AnthropicModel {
	if modelName == "" {
		modelName = "claude-sonnet-4-5-20250929"
	}
	return &AnthropicModel{apiKey: apiKey, modelName: modelName}
}

// Chat sends messages to Claude, extracting any system messages into
// Anthropic's separate system parameter.
func (m *AnthropicModel) Chat(ctx context.Context, messages []Message) (ChatOut, error) {
	if m.apiKey == "" {
		return ChatOut{}, fmt.Errorf("llm: anthropic API key is required")
	}

	systemPrompt, rest := extractSystem(messages)
	client := anthropicsdk.NewClient(option.WithAPIKey(m.apiKey))

	params := anthropicsdk.MessageNewParams{
		Model:     anthropicsdk.Model(m.modelName),
		Messages:  toAnthropicMessages(rest),
		MaxTokens: 4096,
	}
	if systemPrompt != "" {
		params.System = []anthropicsdk.TextBlockParam{{Text: systemPrompt}}
	}

	resp, err := client.Messages.New(ctx, params)
	if err != nil {
		return ChatOut{}, fmt.Errorf("llm: anthropic call: %w", err)
	}

	var text string
	for _, block := range resp.Content {
		if b, ok := block.AsAny().(anthropicsdk.TextBlock); ok {
			if text != "" {
				text += "\n"
			}
			text += b.Text
		}
	}
	return ChatOut{Text: text, Model: m.modelName}, nil
}

func extractSystem(messages []Message) (string, []Message) {
	var system string
	var rest []Message
	for _, msg := range messages {
		if msg.Role == RoleSystem {
			if system != "" {
				system += "\n\n"
			}
			system += msg.Content
			continue
		}
		rest = append(rest, msg)
	}
	return system, rest
}

func toAnthropicMessages(messages []Message) []anthropicsdk.MessageParam {
	out := make([]anthropicsdk.MessageParam, len(messages))
	for i, msg := range messages {
		switch msg.Role {
		case RoleAssistant:
			out[i] = anthropicsdk.NewAssistantMessage(anthropicsdk.NewTextBlock(msg.Content))
		default:
			out[i] = anthropicsdk.NewUserMessage(anthropicsdk.NewTextBlock(msg.Content))
		}
	}
	return out
}
