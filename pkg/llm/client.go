package llm

import "context"

type ChatRequest struct {
	System      string
	User        string
	Temperature float64
	MaxTokens   int
}

type ChatResponse struct {
	Content    string
	Model      string
	TokensUsed int
}

// ChatClient is a single-turn chat completion backend.
type ChatClient interface {
	Complete(ctx context.Context, req ChatRequest) (*ChatResponse, error)
	Name() string
}
