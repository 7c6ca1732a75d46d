package llm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplitReasoning(t *testing.T) {
	t.Parallel()

	text, reasoning := SplitReasoning("<think>step one\nstep two</think>The answer is 4.")
	require.Equal(t, "The answer is 4.", text)
	require.Equal(t, "step one\nstep two", reasoning)

	text, reasoning = SplitReasoning("plain answer")
	require.Equal(t, "plain answer", text)
	require.Empty(t, reasoning)

	// Budget-truncated trace: tag never closes.
	text, reasoning = SplitReasoning("<think>ran out of")
	require.Empty(t, text)
	require.Equal(t, "ran out of", reasoning)
}
