package openai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kvr06-ai/hf-ai-thinking-sim/internal/llm"
)

type roundTripFunc func(r *http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func TestGenerateSendsRequestAndParsesResponse(t *testing.T) {
	t.Parallel()

	p := NewProvider("openai", "http://mock", "key", 5*time.Second)
	p.client = &http.Client{
		Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			require.Equal(t, "/v1/chat/completions", r.URL.Path)
			require.Equal(t, "Bearer key", r.Header.Get("Authorization"))

			body, err := io.ReadAll(r.Body)
			require.NoError(t, err)

			var reqBody map[string]interface{}
			require.NoError(t, json.Unmarshal(body, &reqBody))
			require.Equal(t, "gpt-4o-mini", reqBody["model"])

			msgs, ok := reqBody["messages"].([]interface{})
			require.True(t, ok)
			require.Len(t, msgs, 2) // system + user

			return &http.Response{
				StatusCode: http.StatusOK,
				Header:     make(http.Header),
				Body: io.NopCloser(strings.NewReader(`{
					"choices": [{
						"index": 0,
						"finish_reason": "length",
						"message": {"role": "assistant", "content": "hello"}
					}],
					"usage": {"prompt_tokens": 1, "completion_tokens": 2, "total_tokens": 3}
				}`)),
			}, nil
		}),
	}

	gen, err := p.Generate(context.Background(), llm.GenerationRequest{
		Model:     "gpt-4o-mini",
		Prompt:    "hi",
		System:    "be brief",
		MaxTokens: 16,
	})
	require.NoError(t, err)
	require.Equal(t, "hello", gen.Text)
	require.Equal(t, "length", gen.FinishReason)
	require.Equal(t, 3, gen.Usage.TotalTokens)
}

func TestGenerateRequiresModel(t *testing.T) {
	t.Parallel()

	p := NewProvider("openai", "", "", 0)
	_, err := p.Generate(context.Background(), llm.GenerationRequest{Prompt: "hi"})
	require.Error(t, err)
}
