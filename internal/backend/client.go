package backend

import (
	"context"
	"time"
)

// Client is the single operation the orchestrator needs from a provider.
// Implementations make exactly one attempt per call; retry scheduling lives
// with the caller.
type Client interface {
	// Generate produces text for the prompt at the given capability tier.
	// On failure it returns a *RequestError whenever enough is known to
	// build one.
	Generate(ctx context.Context, prompt string, tier Tier) (string, error)

	// Provider names the backend for logging.
	Provider() string
}

// Config holds the settings shared by all provider clients.
type Config struct {
	APIKey  string
	BaseURL string
	// Models overrides the built-in tier tables, keyed by tier name.
	Models  map[string]string
	Timeout time.Duration
}

// DefaultTimeout bounds one generation call.
const DefaultTimeout = 120 * time.Second

// resolveModel returns the model ID for a tier, honoring config overrides.
func resolveModel(overrides map[string]string, defaults map[Tier]string, tier Tier) string {
	if m, ok := overrides[tier.String()]; ok && m != "" {
		return m
	}
	return defaults[tier]
}
