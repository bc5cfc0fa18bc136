package backend

import (
	"context"
	"fmt"

	"github.com/rinaldofesta/superagents-sub002/internal/config"
)

// NewClientFromConfig builds the configured provider's client. Provider and
// key resolution (config keys, then environment) is the config package's
// job; this only wires the result.
func NewClientFromConfig(ctx context.Context, cfg *config.UserConfig) (Client, error) {
	provider, apiKey := cfg.ActiveProvider()
	if provider == "" || apiKey == "" {
		return nil, fmt.Errorf("no backend configured; set GEMINI_API_KEY or OPENAI_API_KEY, or add a key to %s", config.DefaultPath())
	}

	switch provider {
	case "gemini":
		clientCfg := DefaultGeminiConfig(apiKey)
		clientCfg.Models = cfg.Models
		return NewGeminiClient(ctx, clientCfg)

	case "openai":
		clientCfg := DefaultOpenAIConfig(apiKey)
		clientCfg.Models = cfg.Models
		if cfg.BaseURL != "" {
			clientCfg.BaseURL = cfg.BaseURL
		}
		return NewOpenAIClient(clientCfg), nil

	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}
