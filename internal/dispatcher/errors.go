package dispatcher

import (
	"context"
	"errors"
	"net/http"

	"github.com/kvr06-ai/hf-ai-thinking-sim/internal/llm"
)

// Sentinel errors for request validation and terminal failure.
var (
	ErrEmptyPrompt            = errors.New("prompt must not be empty")
	ErrInvalidBudget          = errors.New("token budget must be a positive integer")
	ErrNoCandidates           = errors.New("no candidate models configured")
	ErrAllCandidatesExhausted = errors.New("all candidate models failed")
)

// FailureReason classifies why a single candidate attempt failed.
type FailureReason string

const (
	ReasonAuthentication   FailureReason = "authentication"
	ReasonRateLimit        FailureReason = "rate_limit"
	ReasonModelUnavailable FailureReason = "model_unavailable"
	ReasonNetwork          FailureReason = "network"
	ReasonCanceled         FailureReason = "canceled"
	ReasonProvider         FailureReason = "provider"
)

// ClassifyError maps a provider error to a failure reason. Status codes
// come through llm.APIError; anything else without a status is treated
// as a transport-level network failure.
func ClassifyError(err error) FailureReason {
	if err == nil {
		return ""
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return ReasonCanceled
	}

	var apiErr *llm.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Status {
		case http.StatusUnauthorized, http.StatusForbidden:
			return ReasonAuthentication
		case http.StatusTooManyRequests:
			return ReasonRateLimit
		case http.StatusNotFound, http.StatusBadGateway, http.StatusServiceUnavailable:
			return ReasonModelUnavailable
		default:
			return ReasonProvider
		}
	}

	return ReasonNetwork
}
