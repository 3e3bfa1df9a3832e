package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
)

// OllamaModel shells out to a local ollama binary for models that have no
// hosted API.
type OllamaModel struct {
	binary    string
	modelName string
}

// NewOllamaModel creates an OllamaModel. An empty binary path defaults to
// "ollama" on PATH, matching LLMManager's default ollama_path.
func NewOllamaModel(binary, modelName string) *OllamaModel {
	if binary == "" {
		binary = "ollama"
	}
	return &OllamaModel{binary: binary, modelName: modelName}
}

type ollamaRequest struct {
	Prompt string `json:"prompt"`
}

type ollamaResponse struct {
	Response string `json:"response"`
}

// Chat runs `ollama chat <model> --json`, writing a {"prompt": ...} payload
// built from the last user message to stdin and parsing the {"response":
// ...} JSON the binary prints to stdout, exactly as _call_ollama does.
func (m *OllamaModel) Chat(ctx context.Context, messages []Message) (ChatOut, error) {
	if m.modelName == "" {
		return ChatOut{}, fmt.Errorf("llm: ollama model not specified")
	}

	prompt := lastUserContent(messages)
	payload, err := json.Marshal(ollamaRequest{Prompt: prompt})
	if err != nil {
		return ChatOut{}, fmt.Errorf("llm: ollama request encode: %w", err)
	}

	cmd := exec.CommandContext(ctx, m.binary, "chat", m.modelName, "--json")
	cmd.Stdin = bytes.NewReader(payload)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return ChatOut{}, fmt.Errorf("llm: ollama call failed: %w: %s", err, stderr.String())
	}

	var resp ollamaResponse
	if err := json.Unmarshal(bytes.TrimSpace(stdout.Bytes()), &resp); err != nil {
		return ChatOut{}, fmt.Errorf("llm: ollama response decode: %w", err)
	}
	return ChatOut{Text: resp.Response, Model: m.modelName}, nil
}

func lastUserContent(messages []Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == RoleUser || messages[i].Role == "" {
			return messages[i].Content
		}
	}
	if len(messages) > 0 {
		return messages[len(messages)-1].Content
	}
	return ""
}
