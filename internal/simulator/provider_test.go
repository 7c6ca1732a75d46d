package simulator

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kvr06-ai/hf-ai-thinking-sim/internal/llm"
)

func TestGenerateReplaysTierForBudget(t *testing.T) {
	t.Parallel()

	p := NewProvider("sim", nil, 0)

	gen, err := p.Generate(context.Background(), llm.GenerationRequest{
		Model:     "sim",
		Prompt:    "Explain a computer 'firewall' using an analogy.",
		MaxTokens: 125,
	})
	require.NoError(t, err)
	require.Equal(t, "A more detailed analogy.", gen.Text)
	require.Contains(t, gen.Reasoning, "digital security guard")
	require.Equal(t, 120, gen.Usage.CompletionTokens)
}

func TestGenerateUnknownPromptFailsOver(t *testing.T) {
	t.Parallel()

	p := NewProvider("sim", nil, 0)

	_, err := p.Generate(context.Background(), llm.GenerationRequest{
		Model:  "sim",
		Prompt: "What is the airspeed velocity of an unladen swallow?",
	})
	require.Error(t, err)

	var apiErr *llm.APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, 404, apiErr.Status)
}

func TestStreamEmitsWordsThenAnswer(t *testing.T) {
	t.Parallel()

	p := NewProvider("sim", nil, 0)

	ch, errCh := p.Stream(context.Background(), llm.GenerationRequest{
		Model:     "sim",
		Prompt:    "Explain a computer 'firewall' using an analogy.",
		MaxTokens: 50,
	})

	var b strings.Builder
	var finish string
	for chunk := range ch {
		b.WriteString(chunk.Text)
		if chunk.FinishReason != "" {
			finish = chunk.FinishReason
		}
	}
	require.NoError(t, <-errCh)
	require.Equal(t, "stop", finish)
	require.Contains(t, b.String(), "bouncer at a club")
	require.Contains(t, b.String(), "A simple analogy.")
}
