// Package hf implements a client for the Hugging Face Inference
// Providers router, which serves hosted models behind an
// OpenAI-compatible chat completions endpoint.
package hf

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kvr06-ai/hf-ai-thinking-sim/internal/llm"
)

// DefaultBaseURL is the Hugging Face router endpoint.
const DefaultBaseURL = "https://router.huggingface.co"

// Provider calls the HF router. Authentication is a bearer token
// (an HF access token, usually supplied via HF_TOKEN).
type Provider struct {
	name    string
	client  *http.Client
	baseURL string
	token   string
}

// NewProvider constructs a Provider with sane defaults.
func NewProvider(name, baseURL, token string, timeout time.Duration) *Provider {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	return &Provider{
		name:    name,
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
	}
}

// Name returns the provider identifier.
func (p *Provider) Name() string {
	return p.name
}

// Generate executes a non-streaming chat completion against the router.
func (p *Provider) Generate(ctx context.Context, req llm.GenerationRequest) (llm.Generation, error) {
	if req.Model == "" {
		return llm.Generation{}, fmt.Errorf("model is required")
	}

	messages := make([]chatMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.System})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.Prompt})

	body := chatRequest{
		Model:       req.Model,
		Messages:    messages,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		Stream:      false,
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return llm.Generation{}, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v1/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return llm.Generation{}, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if p.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+p.token)
	}

	res, err := p.client.Do(httpReq)
	if err != nil {
		return llm.Generation{}, fmt.Errorf("send request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 300 {
		b, _ := io.ReadAll(res.Body)
		return llm.Generation{}, &llm.APIError{
			Status:   res.StatusCode,
			Provider: p.name,
			Model:    req.Model,
			Body:     strings.TrimSpace(string(b)),
		}
	}

	var resp chatResponse
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		return llm.Generation{}, fmt.Errorf("decode response: %w", err)
	}

	if len(resp.Choices) == 0 {
		return llm.Generation{}, fmt.Errorf("hf: empty choices for model %s", req.Model)
	}

	choice := resp.Choices[0]
	text, reasoning := llm.SplitReasoning(choice.Message.Content)
	if reasoning == "" && choice.Message.ReasoningContent != "" {
		reasoning = choice.Message.ReasoningContent
	}

	return llm.Generation{
		Text:         text,
		Reasoning:    reasoning,
		FinishReason: choice.FinishReason,
		Usage: llm.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
		ProviderName: p.name,
		Model:        req.Model,
	}, nil
}

// Stream performs a generation and emits a single chunk (simulated streaming).
func (p *Provider) Stream(ctx context.Context, req llm.GenerationRequest) (<-chan llm.StreamChunk, <-chan error) {
	ch := make(chan llm.StreamChunk, 1)
	errCh := make(chan error, 1)

	go func() {
		defer close(ch)
		defer close(errCh)

		gen, err := p.Generate(ctx, req)
		if err != nil {
			errCh <- err
			return
		}
		ch <- llm.StreamChunk{
			Text:         gen.Text,
			FinishReason: gen.FinishReason,
			Usage:        &gen.Usage,
		}
	}()

	return ch, errCh
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
	Stream      bool          `json:"stream,omitempty"`
}

type chatMessage struct {
	Role             string `json:"role"`
	Content          string `json:"content,omitempty"`
	ReasoningContent string `json:"reasoning_content,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Index        int         `json:"index"`
		FinishReason string      `json:"finish_reason"`
		Message      chatMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}
