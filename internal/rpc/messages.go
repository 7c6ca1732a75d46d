// Package rpc defines the wire types shared by the daemon's transports
// and the CLI client.
package rpc

// GenerateRequest asks the daemon for one generation.
//
// Either Prompt or Case must be set. When Case names a catalog entry and
// Prompt is empty, the case's prompt is used; a zero TokenBudget picks
// the configured default.
type GenerateRequest struct {
	RequestID   string   `json:"request_id,omitempty"`
	Prompt      string   `json:"prompt,omitempty"`
	Case        string   `json:"case,omitempty"`
	TokenBudget int      `json:"token_budget,omitempty"`
	Candidates  []string `json:"candidates,omitempty"`
}

// UsageInfo mirrors provider token accounting on the wire.
type UsageInfo struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// AttemptInfo reports one candidate try.
type AttemptInfo struct {
	Model     string `json:"model"`
	Provider  string `json:"provider,omitempty"`
	Reason    string `json:"reason,omitempty"`
	Error     string `json:"error,omitempty"`
	LatencyMs int64  `json:"latency_ms"`
}

// GenerateResponse is the unary result of a generation.
type GenerateResponse struct {
	RequestID    string        `json:"request_id,omitempty"`
	Success      bool          `json:"success"`
	Text         string        `json:"text,omitempty"`
	Reasoning    string        `json:"reasoning,omitempty"`
	ModelUsed    string        `json:"model_used,omitempty"`
	FinishReason string        `json:"finish_reason,omitempty"`
	Usage        UsageInfo     `json:"usage"`
	TokenBudget  int           `json:"token_budget"`
	ErrorMessage string        `json:"error_message,omitempty"`
	Attempts     []AttemptInfo `json:"attempts,omitempty"`
}

// GenerateEvent streams back progress from the daemon.
type GenerateEvent struct {
	Type      string            `json:"type"` // token|message|result|error|done
	RequestID string            `json:"request_id,omitempty"`
	Token     string            `json:"token,omitempty"`
	Message   string            `json:"message,omitempty"`
	Model     string            `json:"model,omitempty"`
	Error     string            `json:"error,omitempty"`
	Done      bool              `json:"done,omitempty"`
	Result    *GenerateResponse `json:"result,omitempty"`
}

// GenerateStreamRequest is the bidirectional stream payload for Connect.
// The first message must carry Run; later messages may carry control
// signals such as Cancel.
type GenerateStreamRequest struct {
	Run       *GenerateRequest `json:"run,omitempty"`
	Cancel    bool             `json:"cancel,omitempty"`
	RequestID string           `json:"request_id,omitempty"`
}
