package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/vk/cellgridgo/internal/ctxlog"
)

// DefaultChatModelName is used when neither the request nor the client
// carries a model name.
const DefaultChatModelName = "gpt-3.5-turbo"

// OpenAIChatModel implements ChatModel against any OpenAI-compatible
// chat-completions endpoint.
type OpenAIChatModel struct {
	baseURL      string
	apiKey       string
	defaultModel string
	client       *http.Client
}

// NewOpenAIChatModel creates a client for the given endpoint. A nil
// http.Client falls back to http.DefaultClient; an empty default model falls
// back to DefaultChatModelName.
func NewOpenAIChatModel(baseURL, apiKey, defaultModel string, client *http.Client) *OpenAIChatModel {
	if client == nil {
		client = http.DefaultClient
	}
	if defaultModel == "" {
		defaultModel = DefaultChatModelName
	}
	return &OpenAIChatModel{
		baseURL:      baseURL,
		apiKey:       apiKey,
		defaultModel: defaultModel,
		client:       client,
	}
}

// wireChoice is the provider's shape for one alternative; the engine flattens
// message.content into the choice text.
type wireChoice struct {
	Index        int    `json:"index"`
	FinishReason string `json:"finish_reason"`
	Message      struct {
		Content *string `json:"content"`
	} `json:"message"`
}

type wireResponse struct {
	ID      string       `json:"id"`
	Model   string       `json:"model"`
	Choices []wireChoice `json:"choices"`
	Usage   Usage        `json:"usage"`
}

// Batch implements ChatModel with a single POST to /chat/completions.
func (m *OpenAIChatModel) Batch(ctx context.Context, req ChatCompletionRequest) (*ChatCompletionResponse, error) {
	logger := ctxlog.FromContext(ctx)

	if req.Model == "" {
		req.Model = m.defaultModel
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("llm: failed to encode request: %w", err)
	}

	url := m.baseURL + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("llm: failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if m.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+m.apiKey)
	}

	logger.Debug("Issuing chat completion request.", "model", req.Model, "messages", len(req.Messages))
	resp, err := m.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("llm: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("llm: failed to read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("llm: provider returned %s: %s", resp.Status, string(respBody))
	}

	var wire wireResponse
	if err := json.Unmarshal(respBody, &wire); err != nil {
		return nil, fmt.Errorf("llm: failed to decode response: %w", err)
	}

	out := &ChatCompletionResponse{
		ID:      wire.ID,
		Model:   wire.Model,
		Usage:   wire.Usage,
		Choices: make([]ChatCompletionChoice, 0, len(wire.Choices)),
	}
	for _, c := range wire.Choices {
		out.Choices = append(out.Choices, ChatCompletionChoice{
			Text:         c.Message.Content,
			Index:        c.Index,
			FinishReason: c.FinishReason,
		})
	}
	logger.Debug("Chat completion finished.", "id", out.ID, "choices", len(out.Choices), "total_tokens", out.Usage.TotalTokens)
	return out, nil
}
