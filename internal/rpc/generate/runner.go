// Package generate exposes the dispatcher over the daemon's transports:
// unary JSON, NDJSON streaming, and Connect bidi streaming.
package generate

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kvr06-ai/hf-ai-thinking-sim/internal/casestudy"
	"github.com/kvr06-ai/hf-ai-thinking-sim/internal/dispatcher"
	"github.com/kvr06-ai/hf-ai-thinking-sim/internal/llm"
	"github.com/kvr06-ai/hf-ai-thinking-sim/internal/rpc"
)

// Runner resolves requests against the catalog and runs the dispatcher.
type Runner interface {
	Generate(ctx context.Context, req rpc.GenerateRequest) rpc.GenerateResponse
	Stream(ctx context.Context, req rpc.GenerateRequest) (<-chan rpc.GenerateEvent, error)
}

// DispatchRunner is the production Runner.
type DispatchRunner struct {
	Dispatcher    *dispatcher.Dispatcher
	Catalog       *casestudy.Catalog
	DefaultBudget int
	Logger        *zap.Logger
}

// Generate performs one unary generation.
func (r *DispatchRunner) Generate(ctx context.Context, req rpc.GenerateRequest) rpc.GenerateResponse {
	dreq, err := r.resolve(req)
	if err != nil {
		return rpc.GenerateResponse{
			RequestID:    req.RequestID,
			Success:      false,
			ErrorMessage: err.Error(),
		}
	}

	res := r.Dispatcher.Generate(ctx, dreq)
	return toResponse(req.RequestID, res)
}

// Stream runs a generation and emits progress events: per-candidate
// failover messages, token chunks, the final result, then done.
func (r *DispatchRunner) Stream(ctx context.Context, req rpc.GenerateRequest) (<-chan rpc.GenerateEvent, error) {
	dreq, err := r.resolve(req)
	if err != nil {
		return nil, err
	}
	if err := r.Dispatcher.Validate(dreq); err != nil {
		return nil, err
	}

	out := make(chan rpc.GenerateEvent, 16)
	go func() {
		defer close(out)

		send := func(ev rpc.GenerateEvent) bool {
			select {
			case out <- ev:
				return true
			case <-ctx.Done():
				return false
			}
		}

		chunks, model, err := r.Dispatcher.GenerateStream(ctx, dreq, func(m string, reason dispatcher.FailureReason) {
			send(rpc.GenerateEvent{
				Type:      "message",
				RequestID: req.RequestID,
				Model:     m,
				Message:   fmt.Sprintf("model %s failed (%s), trying next candidate", m, reason),
			})
		})
		if err != nil {
			if send(rpc.GenerateEvent{Type: "error", RequestID: req.RequestID, Error: err.Error()}) {
				send(rpc.GenerateEvent{Type: "done", RequestID: req.RequestID, Done: true})
			}
			return
		}

		if !send(rpc.GenerateEvent{
			Type:      "message",
			RequestID: req.RequestID,
			Model:     model,
			Message:   "generating with " + model,
		}) {
			return
		}

		var text strings.Builder
		var usage llm.Usage
		finish := ""
		for chunk := range chunks {
			if chunk.Err != nil {
				if send(rpc.GenerateEvent{Type: "error", RequestID: req.RequestID, Error: chunk.Err.Error()}) {
					send(rpc.GenerateEvent{Type: "done", RequestID: req.RequestID, Done: true})
				}
				return
			}
			if chunk.Text != "" {
				text.WriteString(chunk.Text)
				if !send(rpc.GenerateEvent{Type: "token", RequestID: req.RequestID, Token: chunk.Text, Model: model}) {
					return
				}
			}
			if chunk.FinishReason != "" {
				finish = chunk.FinishReason
			}
			if chunk.Usage != nil {
				usage = *chunk.Usage
			}
		}

		if !send(rpc.GenerateEvent{
			Type:      "result",
			RequestID: req.RequestID,
			Model:     model,
			Result: &rpc.GenerateResponse{
				RequestID:    req.RequestID,
				Success:      true,
				Text:         text.String(),
				ModelUsed:    model,
				FinishReason: finish,
				Usage: rpc.UsageInfo{
					PromptTokens:     usage.PromptTokens,
					CompletionTokens: usage.CompletionTokens,
					TotalTokens:      usage.TotalTokens,
				},
				TokenBudget: r.Dispatcher.ClampBudget(dreq.TokenBudget),
			},
		}) {
			return
		}
		send(rpc.GenerateEvent{Type: "done", RequestID: req.RequestID, Done: true})
	}()

	return out, nil
}

// resolve fills the prompt and budget from the catalog when the request
// names a case study instead of carrying free text.
func (r *DispatchRunner) resolve(req rpc.GenerateRequest) (dispatcher.Request, error) {
	prompt := strings.TrimSpace(req.Prompt)
	budget := req.TokenBudget

	if req.Case != "" && prompt == "" {
		cs, ok := r.Catalog.Get(req.Case)
		if !ok {
			return dispatcher.Request{}, fmt.Errorf("unknown case study %q", req.Case)
		}
		prompt = cs.Prompt
		if budget <= 0 {
			if levels := cs.SuggestedBudgets(); len(levels) > 0 {
				budget = levels[0]
			}
		}
	}

	if budget == 0 {
		budget = r.DefaultBudget
	}

	return dispatcher.Request{
		Prompt:      prompt,
		TokenBudget: budget,
		Candidates:  req.Candidates,
	}, nil
}

func toResponse(requestID string, res dispatcher.Result) rpc.GenerateResponse {
	attempts := make([]rpc.AttemptInfo, 0, len(res.Attempts))
	for _, a := range res.Attempts {
		attempts = append(attempts, rpc.AttemptInfo{
			Model:     a.Model,
			Provider:  a.Provider,
			Reason:    string(a.Reason),
			Error:     a.Error,
			LatencyMs: a.Latency.Milliseconds(),
		})
	}

	return rpc.GenerateResponse{
		RequestID:    requestID,
		Success:      res.Success,
		Text:         res.Text,
		Reasoning:    res.Reasoning,
		ModelUsed:    res.ModelUsed,
		FinishReason: res.FinishReason,
		Usage: rpc.UsageInfo{
			PromptTokens:     res.Usage.PromptTokens,
			CompletionTokens: res.Usage.CompletionTokens,
			TotalTokens:      res.Usage.TotalTokens,
		},
		TokenBudget:  res.TokenBudget,
		ErrorMessage: res.ErrorMessage,
		Attempts:     attempts,
	}
}
