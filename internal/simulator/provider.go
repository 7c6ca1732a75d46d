// Package simulator provides an offline llm.Provider that replays the
// case-study catalog's canned, budget-tiered traces. It lets the demo
// run without credentials and gives tests a deterministic backend.
package simulator

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/kvr06-ai/hf-ai-thinking-sim/internal/casestudy"
	"github.com/kvr06-ai/hf-ai-thinking-sim/internal/llm"
)

// Provider serves canned generations from a catalog.
type Provider struct {
	name        string
	catalog     *casestudy.Catalog
	typingDelay time.Duration
}

// NewProvider constructs a simulator over the given catalog.
// typingDelay is the per-word cadence used by Stream.
func NewProvider(name string, catalog *casestudy.Catalog, typingDelay time.Duration) *Provider {
	if catalog == nil {
		catalog = casestudy.Builtin()
	}
	return &Provider{name: name, catalog: catalog, typingDelay: typingDelay}
}

// Name returns the provider identifier.
func (p *Provider) Name() string {
	return p.name
}

// Generate resolves the prompt against the catalog and returns the
// recorded tier for the requested budget. Prompts with no matching case
// fail with a 404-shaped APIError so the dispatcher fails over exactly
// as it would for a model the remote service does not serve.
func (p *Provider) Generate(ctx context.Context, req llm.GenerationRequest) (llm.Generation, error) {
	if err := ctx.Err(); err != nil {
		return llm.Generation{}, err
	}

	cs, ok := p.catalog.ByPrompt(req.Prompt)
	if !ok {
		return llm.Generation{}, &llm.APIError{
			Status:   http.StatusNotFound,
			Provider: p.name,
			Model:    req.Model,
			Body:     "no canned case study matches this prompt",
		}
	}

	_, tier := cs.TierFor(req.MaxTokens)

	return llm.Generation{
		Text:         tier.Answer,
		Reasoning:    tier.Response,
		FinishReason: "stop",
		Usage: llm.Usage{
			CompletionTokens: tier.Tokens,
			TotalTokens:      tier.Tokens,
		},
		ProviderName: p.name,
		Model:        req.Model,
	}, nil
}

// Stream replays the recorded reasoning trace word by word on the typing
// cadence, then emits the final answer.
func (p *Provider) Stream(ctx context.Context, req llm.GenerationRequest) (<-chan llm.StreamChunk, <-chan error) {
	ch := make(chan llm.StreamChunk, 16)
	errCh := make(chan error, 1)

	go func() {
		defer close(ch)
		defer close(errCh)

		gen, err := p.Generate(ctx, req)
		if err != nil {
			errCh <- err
			return
		}

		for _, word := range strings.Fields(gen.Reasoning) {
			select {
			case <-ctx.Done():
				errCh <- ctx.Err()
				return
			case ch <- llm.StreamChunk{Text: word + " "}:
			}
			if p.typingDelay > 0 {
				select {
				case <-ctx.Done():
					errCh <- ctx.Err()
					return
				case <-time.After(p.typingDelay):
				}
			}
		}

		ch <- llm.StreamChunk{Text: "\n" + gen.Text, FinishReason: gen.FinishReason, Usage: &gen.Usage}
	}()

	return ch, errCh
}
