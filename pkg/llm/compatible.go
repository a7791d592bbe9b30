package llm

import (
	"context"
	"fmt"

	goopenai "github.com/sashabaranov/go-openai"
)

const DefaultGatewayURL = "https://ai.gateway.lovable.dev/v1"

// CompatibleClient talks to any OpenAI-compatible chat completions endpoint
// (hosted gateways, Ollama, vLLM) through a configurable base URL.
type CompatibleClient struct {
	client *goopenai.Client
	model  string
}

func NewCompatibleClient(apiKey, model, baseURL string) *CompatibleClient {
	if baseURL == "" {
		baseURL = DefaultGatewayURL
	}
	config := goopenai.DefaultConfig(apiKey)
	config.BaseURL = baseURL
	return &CompatibleClient{
		client: goopenai.NewClientWithConfig(config),
		model:  model,
	}
}

func (c *CompatibleClient) Name() string {
	return "compatible/" + c.model
}

func (c *CompatibleClient) Complete(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	resp, err := c.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model: c.model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: req.System},
			{Role: goopenai.ChatMessageRoleUser, Content: req.User},
		},
		Temperature: float32(req.Temperature),
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response choices")
	}

	return &ChatResponse{
		Content:    resp.Choices[0].Message.Content,
		Model:      c.model,
		TokensUsed: resp.Usage.TotalTokens,
	}, nil
}
