package port

import "context"

// ChatMessage is a single message in a structured-output request.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest carries one structured-output completion request. Temperature
// is pinned to zero by the client; MaxOutputTokens bounds the response.
type ChatRequest struct {
	Messages        []ChatMessage
	MaxOutputTokens int
	// JSONObject requests a structured-output hint (a JSON-object response
	// format) from the backend when supported.
	JSONObject bool
}

// ChatResponse is the raw text produced by a backend, with the observed
// round-trip latency in milliseconds.
type ChatResponse struct {
	Content   string
	LatencyMS int64
}

// ChatBackend is a single named language-model backend. The extraction
// cascade iterates an ordered list of these; each Complete call is
// synchronous and blocking.
type ChatBackend interface {
	Name() string
	Complete(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}
