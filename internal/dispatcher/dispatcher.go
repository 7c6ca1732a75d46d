// Package dispatcher implements the prompt dispatcher: it validates a
// prompt plus token budget, then tries an ordered chain of candidate
// models until one produces text.
package dispatcher

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kvr06-ai/hf-ai-thinking-sim/internal/config"
	"github.com/kvr06-ai/hf-ai-thinking-sim/internal/llm"
	"github.com/kvr06-ai/hf-ai-thinking-sim/internal/observability"
)

// Request is a single generation request.
type Request struct {
	Prompt      string
	TokenBudget int
	// Candidates optionally overrides the configured chain for this
	// request; ids must still resolve in the registry.
	Candidates []string
}

// Attempt records one candidate try, success or not.
type Attempt struct {
	Model    string        `json:"model"`
	Provider string        `json:"provider"`
	Reason   FailureReason `json:"reason,omitempty"`
	Error    string        `json:"error,omitempty"`
	Latency  time.Duration `json:"latency_ns"`
}

// Result is the outcome of a dispatch. Exactly one of Success/ErrorMessage
// carries the user-visible payload.
type Result struct {
	Success      bool      `json:"success"`
	Text         string    `json:"text,omitempty"`
	Reasoning    string    `json:"reasoning,omitempty"`
	ModelUsed    string    `json:"model_used,omitempty"`
	FinishReason string    `json:"finish_reason,omitempty"`
	Usage        llm.Usage `json:"usage"`
	TokenBudget  int       `json:"token_budget"`
	ErrorMessage string    `json:"error_message,omitempty"`
	Attempts     []Attempt `json:"attempts,omitempty"`
}

// Dispatcher forwards prompts to candidate models in priority order.
// It holds no mutable state across calls and is safe for concurrent use.
type Dispatcher struct {
	registry *llm.Registry
	cfg      config.DispatchConfig
	logger   *zap.Logger
	metrics  *observability.Metrics
}

// New builds a dispatcher.
func New(registry *llm.Registry, cfg config.DispatchConfig, logger *zap.Logger, metrics *observability.Metrics) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{registry: registry, cfg: cfg, logger: logger, metrics: metrics}
}

// ClampBudget applies the configured ceiling. Budgets at or under zero
// are invalid and handled by validation, not clamping.
func (d *Dispatcher) ClampBudget(budget int) int {
	if budget > d.cfg.MaxBudgetTokens {
		return d.cfg.MaxBudgetTokens
	}
	return budget
}

// Generate runs the candidate chain for the request. It never panics:
// every outcome is a Result with either text or a non-empty error message.
func (d *Dispatcher) Generate(ctx context.Context, req Request) Result {
	start := time.Now()

	if err := d.Validate(req); err != nil {
		d.metrics.RecordGenerate("rejected", time.Since(start), 0)
		return Result{
			Success:      false,
			TokenBudget:  req.TokenBudget,
			ErrorMessage: err.Error(),
		}
	}

	budget := d.ClampBudget(req.TokenBudget)
	candidates := req.Candidates
	if len(candidates) == 0 {
		candidates = d.cfg.Candidates
	}

	attempts := make([]Attempt, 0, len(candidates))
	var lastModel string
	var lastErr error

	for _, id := range candidates {
		attemptStart := time.Now()
		lastModel = id

		provider, route, err := d.registry.Resolve(id)
		if err != nil {
			lastErr = err
			attempts = append(attempts, Attempt{
				Model:   id,
				Reason:  ReasonModelUnavailable,
				Error:   err.Error(),
				Latency: time.Since(attemptStart),
			})
			d.metrics.RecordCandidateFailure(id, string(ReasonModelUnavailable))
			d.logger.Warn("candidate not resolvable, trying next",
				zap.String("model", id), zap.Error(err))
			continue
		}

		maxTokens := budget
		if route.MaxTokens > 0 && route.MaxTokens < maxTokens {
			maxTokens = route.MaxTokens
		}

		gen, err := provider.Generate(ctx, llm.GenerationRequest{
			Model:       route.Model,
			Prompt:      req.Prompt,
			System:      d.cfg.SystemPrompt,
			MaxTokens:   maxTokens,
			Temperature: route.Temperature,
		})
		if err != nil {
			reason := ClassifyError(err)
			lastErr = err
			attempts = append(attempts, Attempt{
				Model:    id,
				Provider: provider.Name(),
				Reason:   reason,
				Error:    err.Error(),
				Latency:  time.Since(attemptStart),
			})
			d.metrics.RecordCandidateFailure(id, string(reason))
			d.logger.Warn("candidate failed, trying next",
				zap.String("model", id),
				zap.String("provider", provider.Name()),
				zap.String("reason", string(reason)),
				zap.Error(err))

			if reason == ReasonCanceled {
				break
			}
			continue
		}

		attempts = append(attempts, Attempt{
			Model:    id,
			Provider: provider.Name(),
			Latency:  time.Since(attemptStart),
		})
		d.metrics.RecordCandidateSuccess(id)
		d.metrics.RecordGenerate("success", time.Since(start), gen.Usage.CompletionTokens)
		d.logger.Info("generation complete",
			zap.String("model", id),
			zap.String("provider", provider.Name()),
			zap.Int("budget", budget),
			zap.Int("completion_tokens", gen.Usage.CompletionTokens))

		return Result{
			Success:      true,
			Text:         gen.Text,
			Reasoning:    gen.Reasoning,
			ModelUsed:    id,
			FinishReason: gen.FinishReason,
			Usage:        gen.Usage,
			TokenBudget:  budget,
			Attempts:     attempts,
		}
	}

	d.metrics.RecordGenerate("exhausted", time.Since(start), 0)
	return Result{
		Success:      false,
		TokenBudget:  budget,
		ErrorMessage: exhaustedMessage(lastModel, lastErr),
		Attempts:     attempts,
	}
}

// GenerateStream runs the candidate chain and streams chunks from the
// first candidate that starts producing output. Failed candidates are
// reported through onFailover before the next is tried.
func (d *Dispatcher) GenerateStream(ctx context.Context, req Request, onFailover func(model string, reason FailureReason)) (<-chan llm.StreamChunk, string, error) {
	if err := d.Validate(req); err != nil {
		return nil, "", err
	}

	budget := d.ClampBudget(req.TokenBudget)
	candidates := req.Candidates
	if len(candidates) == 0 {
		candidates = d.cfg.Candidates
	}

	var lastModel string
	var lastErr error

	for _, id := range candidates {
		lastModel = id

		provider, route, err := d.registry.Resolve(id)
		if err != nil {
			lastErr = err
			d.metrics.RecordCandidateFailure(id, string(ReasonModelUnavailable))
			if onFailover != nil {
				onFailover(id, ReasonModelUnavailable)
			}
			continue
		}

		maxTokens := budget
		if route.MaxTokens > 0 && route.MaxTokens < maxTokens {
			maxTokens = route.MaxTokens
		}

		ch, errCh := provider.Stream(ctx, llm.GenerationRequest{
			Model:       route.Model,
			Prompt:      req.Prompt,
			System:      d.cfg.SystemPrompt,
			MaxTokens:   maxTokens,
			Temperature: route.Temperature,
		})

		// The providers buffer their terminal error, so a failed
		// stream surfaces before any chunk arrives.
		select {
		case chunk, ok := <-ch:
			if !ok {
				if err := <-errCh; err != nil {
					lastErr = err
					reason := ClassifyError(err)
					d.metrics.RecordCandidateFailure(id, string(reason))
					if onFailover != nil {
						onFailover(id, reason)
					}
					continue
				}
				lastErr = fmt.Errorf("model %s produced no output", id)
				continue
			}
			d.metrics.RecordCandidateSuccess(id)
			return relayStream(ctx, chunk, ch, errCh), id, nil
		case err := <-errCh:
			if err != nil {
				lastErr = err
				reason := ClassifyError(err)
				d.metrics.RecordCandidateFailure(id, string(reason))
				if onFailover != nil {
					onFailover(id, reason)
				}
				continue
			}
			// errCh closed cleanly before we read from ch; any
			// produced chunks are still buffered there.
			chunk, ok := <-ch
			if !ok {
				lastErr = fmt.Errorf("model %s produced no output", id)
				continue
			}
			d.metrics.RecordCandidateSuccess(id)
			return relayStream(ctx, chunk, ch, errCh), id, nil
		case <-ctx.Done():
			return nil, "", ctx.Err()
		}
	}

	return nil, "", fmt.Errorf("%w: %s", ErrAllCandidatesExhausted, exhaustedMessage(lastModel, lastErr))
}

// relayStream forwards an already-received first chunk plus the rest of
// the provider stream, folding the terminal error into the chunk stream.
// Sends are guarded on ctx so an abandoned consumer does not strand the
// relay goroutine.
func relayStream(ctx context.Context, first llm.StreamChunk, ch <-chan llm.StreamChunk, errCh <-chan error) <-chan llm.StreamChunk {
	out := make(chan llm.StreamChunk, 16)
	go func() {
		defer close(out)
		select {
		case out <- first:
		case <-ctx.Done():
			return
		}
		for c := range ch {
			select {
			case out <- c:
			case <-ctx.Done():
				return
			}
		}
		if err := <-errCh; err != nil {
			select {
			case out <- llm.StreamChunk{Err: err}:
			case <-ctx.Done():
			}
		}
	}()
	return out
}

// Validate checks a request without dispatching it: callers that stream
// can reject bad input before committing to a response body.
func (d *Dispatcher) Validate(req Request) error {
	if strings.TrimSpace(req.Prompt) == "" {
		return ErrEmptyPrompt
	}
	if req.TokenBudget <= 0 {
		return ErrInvalidBudget
	}
	candidates := req.Candidates
	if len(candidates) == 0 {
		candidates = d.cfg.Candidates
	}
	if len(candidates) == 0 {
		return ErrNoCandidates
	}
	return nil
}

func exhaustedMessage(lastModel string, lastErr error) string {
	if lastErr == nil {
		return ErrAllCandidatesExhausted.Error()
	}
	return fmt.Sprintf("%s; last candidate %s failed: %v", ErrAllCandidatesExhausted.Error(), lastModel, lastErr)
}
