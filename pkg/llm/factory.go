package llm

import (
	"fmt"
	"strings"
)

const (
	ProviderOpenAI     = "openai"
	ProviderAnthropic  = "anthropic"
	ProviderCompatible = "compatible"
)

type ProviderConfig struct {
	Provider string `toml:"provider"`
	Model    string `toml:"model"`
	BaseURL  string `toml:"base_url"`
	APIKey   string `toml:"-"`
}

// NewChatClient picks the backend named by cfg.Provider. An empty provider
// means the OpenAI-compatible gateway.
func NewChatClient(cfg ProviderConfig) (ChatClient, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case ProviderOpenAI:
		return NewOpenAIClient(cfg.APIKey, cfg.Model, cfg.BaseURL), nil
	case ProviderAnthropic:
		return NewAnthropicClient(cfg.APIKey, cfg.Model, cfg.BaseURL), nil
	case ProviderCompatible, "":
		return NewCompatibleClient(cfg.APIKey, cfg.Model, cfg.BaseURL), nil
	default:
		return nil, fmt.Errorf("unsupported judge provider: %s", cfg.Provider)
	}
}
