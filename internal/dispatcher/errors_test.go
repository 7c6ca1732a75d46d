package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kvr06-ai/hf-ai-thinking-sim/internal/llm"
)

func TestClassifyError(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want FailureReason
	}{
		{"unauthorized", &llm.APIError{Status: http.StatusUnauthorized}, ReasonAuthentication},
		{"forbidden", &llm.APIError{Status: http.StatusForbidden}, ReasonAuthentication},
		{"rate limit", &llm.APIError{Status: http.StatusTooManyRequests}, ReasonRateLimit},
		{"not found", &llm.APIError{Status: http.StatusNotFound}, ReasonModelUnavailable},
		{"bad gateway", &llm.APIError{Status: http.StatusBadGateway}, ReasonModelUnavailable},
		{"server error", &llm.APIError{Status: http.StatusInternalServerError}, ReasonProvider},
		{"wrapped api error", fmt.Errorf("send request: %w", &llm.APIError{Status: http.StatusTooManyRequests}), ReasonRateLimit},
		{"plain transport error", errors.New("dial tcp: connection refused"), ReasonNetwork},
		{"canceled", context.Canceled, ReasonCanceled},
		{"deadline", context.DeadlineExceeded, ReasonCanceled},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, ClassifyError(tc.err))
		})
	}
}
