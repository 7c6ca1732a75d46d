package llm

import (
	"context"
	"fmt"
)

// GenerationRequest is the input for generation providers. MaxTokens
// carries the caller's token budget; providers must pass it through as
// the completion length limit and never raise it.
type GenerationRequest struct {
	Model       string
	Prompt      string
	System      string
	MaxTokens   int
	Temperature float64
}

// Usage captures token accounting as reported by the provider.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Generation is the result of a completed generation call. Reasoning
// holds any <think>-style trace the model emitted separately from the
// final answer text.
type Generation struct {
	Text         string
	Reasoning    string
	FinishReason string
	Usage        Usage
	ProviderName string
	Model        string
}

// StreamChunk is emitted during streaming responses.
type StreamChunk struct {
	Text         string
	FinishReason string
	// Usage is set on the terminal chunk once token accounting is known.
	Usage *Usage
	Err   error
}

// Provider defines the contract for text-generation backends.
type Provider interface {
	Name() string
	Generate(ctx context.Context, req GenerationRequest) (Generation, error)
	Stream(ctx context.Context, req GenerationRequest) (<-chan StreamChunk, <-chan error)
}

// APIError is a non-2xx response from a remote inference endpoint.
// The dispatcher classifies failover reasons by Status.
type APIError struct {
	Status   int
	Provider string
	Model    string
	Body     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: model %s: status %d: %s", e.Provider, e.Model, e.Status, e.Body)
}
