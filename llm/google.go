package llm

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GoogleModel implements ChatModel against Google's Gemini API. It has no
// tool-calling surface and no SystemInstruction — every role is flattened
// to plain text parts before sending.
type GoogleModel struct {
	apiKey    string
	modelName string
}

// NewGoogleModel creates a GoogleModel. An empty modelName defaults to
// Gemini Flash.
func NewGoogleModel(apiKey, modelName string) *GoogleModel {
	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}
	return &GoogleModel{apiKey: apiKey, modelName: modelName}
}

// Chat sends messages to Gemini, concatenating every message's content into
// text parts (Gemini has no direct role-per-message chat shape the way
// OpenAI/Anthropic do).
func (m *GoogleModel) Chat(ctx context.Context, messages []Message) (ChatOut, error) {
	if m.apiKey == "" {
		return ChatOut{}, fmt.Errorf("llm: google API key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(m.apiKey))
	if err != nil {
		return ChatOut{}, fmt.Errorf("llm: failed to create google client: %w", err)
	}
	defer client.Close()

	genModel := client.GenerativeModel(m.modelName)

	var parts []genai.Part
	for _, msg := range messages {
		if msg.Content != "" {
			parts = append(parts, genai.Text(msg.Content))
		}
	}

	resp, err := genModel.GenerateContent(ctx, parts...)
	if err != nil {
		return ChatOut{}, fmt.Errorf("llm: google API error: %w", err)
	}
	return ChatOut{Text: extractGoogleText(resp), Model: m.modelName}, nil
}

func extractGoogleText(resp *genai.GenerateContentResponse) string {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var text string
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			if text != "" {
				text += "\n"
			}
			text += string(t)
		}
	}
	return text
}
