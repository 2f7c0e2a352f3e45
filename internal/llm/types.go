package llm

import "context"

// MessageRole tags a chat message with its author role.
type MessageRole string

const (
	RoleSystem    MessageRole = "system"
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
	RoleFunction  MessageRole = "function"
)

// FunctionCall is a provider-requested function invocation attached to a
// message.
type FunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// TemplateMessage is one rendered message of a chat-completion request.
type TemplateMessage struct {
	Role         MessageRole   `json:"role"`
	Content      string        `json:"content"`
	Name         *string       `json:"name,omitempty"`
	FunctionCall *FunctionCall `json:"function_call,omitempty"`
}

// ChatCompletionRequest is a single batched chat-completion call.
type ChatCompletionRequest struct {
	Model            string             `json:"model"`
	Messages         []TemplateMessage  `json:"messages"`
	Temperature      *float64           `json:"temperature,omitempty"`
	TopP             *float64           `json:"top_p,omitempty"`
	MaxTokens        *int64             `json:"max_tokens,omitempty"`
	PresencePenalty  *float64           `json:"presence_penalty,omitempty"`
	FrequencyPenalty *float64           `json:"frequency_penalty,omitempty"`
	LogitBias        map[string]float64 `json:"logit_bias,omitempty"`
	User             *string            `json:"user,omitempty"`
	Seed             *int64             `json:"seed,omitempty"`
}

// ChatCompletionChoice is one generated alternative of a response.
type ChatCompletionChoice struct {
	Text         *string `json:"text"`
	Index        int     `json:"index"`
	FinishReason string  `json:"finish_reason"`
}

// Usage reports token accounting for one call.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ChatCompletionResponse is the subset of a provider response the engine
// reads.
type ChatCompletionResponse struct {
	ID      string                 `json:"id"`
	Model   string                 `json:"model"`
	Choices []ChatCompletionChoice `json:"choices"`
	Usage   Usage                  `json:"usage"`
}

// ChatModel issues batched chat-completion calls against one provider.
type ChatModel interface {
	Batch(ctx context.Context, req ChatCompletionRequest) (*ChatCompletionResponse, error)
}
