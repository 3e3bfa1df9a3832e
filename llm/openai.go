package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIModel implements ChatModel against OpenAI's chat completions API
// (no tool-calling surface). Retries transient errors a few times with a
// fixed backoff.
type OpenAIModel struct {
	apiKey     string
	modelName  string
	maxRetries int
	retryDelay time.Duration
}

// NewOpenAIModel creates an OpenAIModel. An empty modelName defaults to
// "gpt-4.1-mini".
func NewOpenAIModel(apiKey, modelName string) *OpenAIModel {
	if modelName == "" {
		modelName = "gpt-4.1-mini"
	}
	return &OpenAIModel{apiKey: apiKey, modelName: modelName, maxRetries: 3, retryDelay: time.Second}
}

// Chat sends messages to OpenAI, retrying on transient-looking errors.
func (m *OpenAIModel) Chat(ctx context.Context, messages []Message) (ChatOut, error) {
	if m.apiKey == "" {
		return ChatOut{}, fmt.Errorf("llm: openai API key is required")
	}

	var lastErr error
	retries := 0
	for attempt := 0; attempt <= m.maxRetries; attempt++ {
		retries = attempt
		out, err := m.chatOnce(ctx, messages)
		if err == nil {
			return out, nil
		}
		lastErr = err
		if !isTransient(err) || attempt >= m.maxRetries {
			break
		}
		select {
		case <-time.After(m.retryDelay):
		case <-ctx.Done():
			return ChatOut{}, ctx.Err()
		}
	}
	return ChatOut{}, fmt.Errorf("llm: openai call failed after %d retries: %w", retries, lastErr)
}

func (m *OpenAIModel) chatOnce(ctx context.Context, messages []Message) (ChatOut, error) {
	client := openaisdk.NewClient(option.WithAPIKey(m.apiKey))
	params := openaisdk.ChatCompletionNewParams{
		Model:    openaisdk.ChatModel(m.modelName),
		Messages: toOpenAIMessages(messages),
	}

	resp, err := client.Chat.Completions.New(ctx, params)
	if err != nil {
		return ChatOut{}, fmt.Errorf("llm: openai API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return ChatOut{Model: m.modelName}, nil
	}
	return ChatOut{Text: resp.Choices[0].Message.Content, Model: m.modelName}, nil
}

func toOpenAIMessages(messages []Message) []openaisdk.ChatCompletionMessageParamUnion {
	out := make([]openaisdk.ChatCompletionMessageParamUnion, len(messages))
	for i, msg := range messages {
		switch msg.Role {
		case RoleSystem:
			out[i] = openaisdk.SystemMessage(msg.Content)
		case RoleAssistant:
			out[i] = openaisdk.AssistantMessage(msg.Content)
		default:
			out[i] = openaisdk.UserMessage(msg.Content)
		}
	}
	return out
}

func isTransient(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, pattern := range []string{"timeout", "network", "connection", "temporary", "503", "502", "500", "rate limit"} {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}
