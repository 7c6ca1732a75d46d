package generate

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/kvr06-ai/hf-ai-thinking-sim/internal/observability"
	"github.com/kvr06-ai/hf-ai-thinking-sim/internal/rpc"
)

// UnaryHandler serves POST /api/generate with a JSON response.
type UnaryHandler struct {
	Runner  Runner
	Metrics *observability.Metrics
}

func (h UnaryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.Metrics.RecordTransportError("json", "method_not_allowed")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req rpc.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Metrics.RecordTransportError("json", "decode")
		http.Error(w, fmt.Sprintf("invalid request: %v", err), http.StatusBadRequest)
		return
	}
	if req.RequestID == "" {
		req.RequestID = fmt.Sprintf("req-%d", time.Now().UnixNano())
	}

	resp := h.Runner.Generate(r.Context(), req)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.Metrics.RecordTransportError("json", "encode")
	}
}

// StreamHandler serves POST /api/generate/stream with an NDJSON stream
// of GenerateEvent.
type StreamHandler struct {
	Runner  Runner
	Metrics *observability.Metrics
}

func (h StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.Metrics.RecordTransportError("ndjson", "method_not_allowed")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	h.Metrics.IncActiveStreams("ndjson")
	defer h.Metrics.DecActiveStreams("ndjson")

	var req rpc.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Metrics.RecordTransportError("ndjson", "decode")
		http.Error(w, fmt.Sprintf("invalid request: %v", err), http.StatusBadRequest)
		return
	}
	if req.RequestID == "" {
		req.RequestID = fmt.Sprintf("req-%d", time.Now().UnixNano())
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	events, err := h.Runner.Stream(r.Context(), req)
	if err != nil {
		h.Metrics.RecordTransportError("ndjson", "runner_error")
		http.Error(w, fmt.Sprintf("stream error: %v", err), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.WriteHeader(http.StatusOK)

	writer := bufio.NewWriter(w)
	for ev := range events {
		if err := json.NewEncoder(writer).Encode(ev); err != nil {
			break
		}
		writer.Flush()
		flusher.Flush()
	}
}
