package generate

import (
	"context"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kvr06-ai/hf-ai-thinking-sim/internal/casestudy"
	"github.com/kvr06-ai/hf-ai-thinking-sim/internal/config"
	"github.com/kvr06-ai/hf-ai-thinking-sim/internal/dispatcher"
	"github.com/kvr06-ai/hf-ai-thinking-sim/internal/llm"
	"github.com/kvr06-ai/hf-ai-thinking-sim/internal/observability"
	"github.com/kvr06-ai/hf-ai-thinking-sim/internal/rpc"
	"github.com/kvr06-ai/hf-ai-thinking-sim/internal/simulator"
)

func newSimulatorRunner(t *testing.T) *DispatchRunner {
	t.Helper()

	catalog := casestudy.Builtin()

	reg := llm.NewRegistry()
	reg.RegisterProvider("sim", simulator.NewProvider("sim", catalog, 0))
	reg.RegisterModel("offline", llm.ModelRoute{Provider: "sim", Model: "simulator"}, true)

	d := dispatcher.New(reg, config.DispatchConfig{
		Candidates:      []string{"offline"},
		MaxBudgetTokens: 1024,
		DefaultBudget:   200,
	}, nil, observability.NewMetrics())

	return &DispatchRunner{
		Dispatcher:    d,
		Catalog:       catalog,
		DefaultBudget: 200,
	}
}

func TestRunnerResolvesCaseStudy(t *testing.T) {
	t.Parallel()

	r := newSimulatorRunner(t)

	resp := r.Generate(context.Background(), rpc.GenerateRequest{
		Case:        "Math Word Problem",
		TokenBudget: 110,
	})

	require.True(t, resp.Success)
	require.Equal(t, "offline", resp.ModelUsed)
	require.Equal(t, "$10.00", resp.Text)
	require.Equal(t, 95, resp.Usage.CompletionTokens)
}

func TestRunnerCaseDefaultsToLowestTierBudget(t *testing.T) {
	t.Parallel()

	r := newSimulatorRunner(t)

	resp := r.Generate(context.Background(), rpc.GenerateRequest{Case: "Math Word Problem"})

	require.True(t, resp.Success)
	// Lowest recorded tier is 50 tokens; its canned answer is "$10".
	require.Equal(t, 50, resp.TokenBudget)
	require.Equal(t, "$10", resp.Text)
}

func TestRunnerUnknownCase(t *testing.T) {
	t.Parallel()

	r := newSimulatorRunner(t)

	resp := r.Generate(context.Background(), rpc.GenerateRequest{Case: "No Such Case"})
	require.False(t, resp.Success)
	require.Contains(t, resp.ErrorMessage, "No Such Case")
}

func TestRunnerStreamEmitsTokensAndResult(t *testing.T) {
	t.Parallel()

	r := newSimulatorRunner(t)

	events, err := r.Stream(context.Background(), rpc.GenerateRequest{
		RequestID:   "req-1",
		Case:        "Analogy Generation",
		TokenBudget: 50,
	})
	require.NoError(t, err)

	var tokens int
	var sawResult, sawDone bool
	for ev := range events {
		switch ev.Type {
		case "token":
			tokens++
		case "result":
			sawResult = true
			require.NotNil(t, ev.Result)
			require.True(t, ev.Result.Success)
			require.Equal(t, "offline", ev.Result.ModelUsed)
		case "done":
			sawDone = true
		case "error":
			t.Fatalf("unexpected error event: %s", ev.Error)
		}
	}
	require.Greater(t, tokens, 5)
	require.True(t, sawResult)
	require.True(t, sawDone)
}

func TestRunnerStreamResultCarriesUsage(t *testing.T) {
	t.Parallel()

	r := newSimulatorRunner(t)

	events, err := r.Stream(context.Background(), rpc.GenerateRequest{
		RequestID:   "req-usage",
		Case:        "Math Word Problem",
		TokenBudget: 200,
	})
	require.NoError(t, err)

	var result *rpc.GenerateResponse
	for ev := range events {
		if ev.Type == "result" {
			result = ev.Result
		}
	}
	require.NotNil(t, result)
	require.Equal(t, 198, result.Usage.CompletionTokens)
	require.Equal(t, 200, result.TokenBudget)
}

func TestRunnerStreamReportsClampedBudget(t *testing.T) {
	t.Parallel()

	r := newSimulatorRunner(t)

	events, err := r.Stream(context.Background(), rpc.GenerateRequest{
		Case:        "Math Word Problem",
		TokenBudget: 5000,
	})
	require.NoError(t, err)

	var result *rpc.GenerateResponse
	for ev := range events {
		if ev.Type == "result" {
			result = ev.Result
		}
	}
	require.NotNil(t, result)
	// The dispatch ceiling in newSimulatorRunner is 1024.
	require.Equal(t, 1024, result.TokenBudget)
}

func TestRunnerStreamShutsDownWhenReaderGone(t *testing.T) {
	r := newSimulatorRunner(t)

	before := runtime.NumGoroutine()

	ctx, cancel := context.WithCancel(context.Background())
	events, err := r.Stream(ctx, rpc.GenerateRequest{
		Case:        "Logical Deduction",
		TokenBudget: 200,
	})
	require.NoError(t, err)

	// Read one event, then abandon the stream like a disconnected client.
	<-events
	cancel()

	// Poll from the test goroutine itself: require.Eventually runs its
	// condition in a spawned goroutine, which inflates runtime.NumGoroutine
	// and makes the baseline comparison unsatisfiable.
	deadline := time.Now().Add(2 * time.Second)
	for runtime.NumGoroutine() > before {
		if time.Now().After(deadline) {
			t.Fatal("stream producer still running after cancellation")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestRunnerStreamRejectsInvalidBudget(t *testing.T) {
	t.Parallel()

	r := newSimulatorRunner(t)

	_, err := r.Stream(context.Background(), rpc.GenerateRequest{
		Prompt:      "hi",
		TokenBudget: -3,
	})
	require.ErrorIs(t, err, dispatcher.ErrInvalidBudget)
}
