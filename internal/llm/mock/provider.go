package mock

import (
	"context"

	"github.com/kvr06-ai/hf-ai-thinking-sim/internal/llm"
)

// Provider is a test double implementing llm.Provider.
type Provider struct {
	NameValue    string
	GenerateFn   func(ctx context.Context, req llm.GenerationRequest) (llm.Generation, error)
	StreamChunks []llm.StreamChunk
	StreamErr    error

	// Calls records every request seen, in order.
	Calls []llm.GenerationRequest
}

func (p *Provider) Name() string {
	if p.NameValue != "" {
		return p.NameValue
	}
	return "mock"
}

func (p *Provider) Generate(ctx context.Context, req llm.GenerationRequest) (llm.Generation, error) {
	p.Calls = append(p.Calls, req)
	if p.GenerateFn != nil {
		return p.GenerateFn(ctx, req)
	}
	return llm.Generation{
		Text:         "mock",
		FinishReason: "stop",
		ProviderName: p.Name(),
		Model:        req.Model,
	}, nil
}

func (p *Provider) Stream(ctx context.Context, req llm.GenerationRequest) (<-chan llm.StreamChunk, <-chan error) {
	p.Calls = append(p.Calls, req)
	ch := make(chan llm.StreamChunk, len(p.StreamChunks))
	errCh := make(chan error, 1)
	go func() {
		defer close(ch)
		defer close(errCh)
		for _, c := range p.StreamChunks {
			ch <- c
		}
		if p.StreamErr != nil {
			errCh <- p.StreamErr
		}
	}()
	return ch, errCh
}
