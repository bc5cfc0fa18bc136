// Package config loads superagents configuration from .superagents/config.json.
// This file is the single source of truth for provider selection, the tier
// ceiling, cache backend, and generation limits; environment variables only
// fill in missing API keys.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DotDir is the per-workspace directory superagents keeps its state in.
const DotDir = ".superagents"

// ValidProviders lists all supported generation backends.
var ValidProviders = []string{"gemini", "openai"}

// UserConfig holds ALL superagents configuration from .superagents/config.json.
//
// Supported models by provider:
//   - gemini: gemini-2.5-flash-lite (fast), gemini-2.5-flash (balanced), gemini-2.5-pro (deep)
//   - openai: gpt-4o-mini (fast), gpt-4o (balanced), o3 (deep), or any
//     OpenAI-compatible endpoint via base_url
type UserConfig struct {
	// =========================================================================
	// BACKEND PROVIDER CONFIGURATION
	// =========================================================================

	// Provider selection (gemini, openai). Empty means auto-detect from
	// whichever API key is available.
	Provider string `json:"provider,omitempty"`

	// API keys for each provider
	APIKey       string `json:"api_key,omitempty"`        // Legacy: single key
	GeminiAPIKey string `json:"gemini_api_key,omitempty"` // Google Gemini
	OpenAIAPIKey string `json:"openai_api_key,omitempty"` // OpenAI-compatible

	// BaseURL overrides the OpenAI-compatible endpoint (self-hosted gateways).
	BaseURL string `json:"base_url,omitempty"`

	// Models maps a tier name (fast, balanced, deep) to a provider model ID,
	// overriding the built-in tier tables.
	Models map[string]string `json:"models,omitempty"`

	// =========================================================================
	// GENERATION
	// =========================================================================

	// Tier is the capability ceiling (fast, balanced, deep). Task tier
	// selection never goes above it.
	Tier string `json:"tier,omitempty"`

	// Concurrency is the worker ceiling shared across one generation batch.
	Concurrency int `json:"concurrency,omitempty"`

	// MaxRetries is the number of additional attempts after a retryable
	// backend failure. Total attempts per task = 1 + MaxRetries.
	MaxRetries int `json:"max_retries,omitempty"`

	// RetryBaseDelayMS is the first backoff delay in milliseconds; each
	// subsequent retry doubles it.
	RetryBaseDelayMS int `json:"retry_base_delay_ms,omitempty"`

	// OutputDir is where generated artifacts are written, relative to the
	// workspace root unless absolute.
	OutputDir string `json:"output_dir,omitempty"`

	// =========================================================================
	// CACHE
	// =========================================================================

	// CacheBackend selects the durable store: "fs" (default) or "sqlite".
	CacheBackend string `json:"cache_backend,omitempty"`

	// CacheDir overrides the cache location (default .superagents/cache).
	CacheDir string `json:"cache_dir,omitempty"`

	// =========================================================================
	// LOGGING
	// =========================================================================

	Logging LoggingConfig `json:"logging,omitempty"`
}

// LoggingConfig configures the logger built at startup.
type LoggingConfig struct {
	Level string `json:"level,omitempty"` // debug, info, warn, error
}

// Default generation limits. The concurrency ceiling is deliberately small:
// one batch shares it to stay under backend rate limits.
const (
	DefaultConcurrency    = 3
	DefaultMaxRetries     = 3
	DefaultRetryBaseDelay = 500 * time.Millisecond
	DefaultTier           = "balanced"
	DefaultCacheBackend   = "fs"
)

// DefaultPath returns the config path under the workspace root, falling back
// to a relative path when the root cannot be determined.
func DefaultPath() string {
	root, err := FindWorkspaceRoot()
	if err != nil {
		return filepath.Join(DotDir, "config.json")
	}
	return filepath.Join(root, DotDir, "config.json")
}

// FindWorkspaceRoot attempts to find the project root by looking for
// .superagents or go.mod. If not found, returns the current working directory.
func FindWorkspaceRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	originalDir := dir
	for {
		if _, err := os.Stat(filepath.Join(dir, DotDir)); err == nil {
			return dir, nil
		}
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return originalDir, nil
}

// Load loads configuration from a .superagents/config.json path. A missing
// file yields the defaults, not an error; a malformed file is an error.
func Load(path string) (*UserConfig, error) {
	cfg := &UserConfig{}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyDefaults()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

// Save saves configuration to the given path, creating parent directories.
func (c *UserConfig) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyDefaults fills in zero values after load.
func (c *UserConfig) applyDefaults() {
	if c.Tier == "" {
		c.Tier = DefaultTier
	}
	if c.Concurrency <= 0 {
		c.Concurrency = DefaultConcurrency
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = DefaultMaxRetries
	}
	if c.RetryBaseDelayMS <= 0 {
		c.RetryBaseDelayMS = int(DefaultRetryBaseDelay / time.Millisecond)
	}
	if c.CacheBackend == "" {
		c.CacheBackend = DefaultCacheBackend
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// Validate checks that the configuration can drive a generation run.
func (c *UserConfig) Validate() error {
	if c.Provider != "" {
		valid := false
		for _, p := range ValidProviders {
			if c.Provider == p {
				valid = true
				break
			}
		}
		if !valid {
			return fmt.Errorf("invalid provider: %s (valid: %v)", c.Provider, ValidProviders)
		}
	}

	if c.CacheBackend != "fs" && c.CacheBackend != "sqlite" {
		return fmt.Errorf("invalid cache backend: %s (valid: fs, sqlite)", c.CacheBackend)
	}

	if _, key := c.ActiveProvider(); key == "" {
		return fmt.Errorf("no API key configured (set GEMINI_API_KEY or OPENAI_API_KEY, or add one to %s)", filepath.Join(DotDir, "config.json"))
	}

	return nil
}

// RetryBaseDelay returns the configured base backoff as a duration.
func (c *UserConfig) RetryBaseDelay() time.Duration {
	return time.Duration(c.RetryBaseDelayMS) * time.Millisecond
}

// ResolveCacheDir returns the cache directory for a workspace root.
func (c *UserConfig) ResolveCacheDir(root string) string {
	if c.CacheDir != "" {
		if filepath.IsAbs(c.CacheDir) {
			return c.CacheDir
		}
		return filepath.Join(root, c.CacheDir)
	}
	return filepath.Join(root, DotDir, "cache")
}

// ResolveOutputDir returns the artifact output directory for a workspace root.
func (c *UserConfig) ResolveOutputDir(root string) string {
	if c.OutputDir != "" {
		if filepath.IsAbs(c.OutputDir) {
			return c.OutputDir
		}
		return filepath.Join(root, c.OutputDir)
	}
	return filepath.Join(root, DotDir)
}

// ModelOverride returns the configured model ID for a tier name, or "" when
// the built-in tier table should be used.
func (c *UserConfig) ModelOverride(tier string) string {
	if c.Models == nil {
		return ""
	}
	return c.Models[tier]
}

// ActiveProvider returns the provider and API key to use.
// Priority: explicit provider setting > first available config key >
// environment (GEMINI_API_KEY, then OPENAI_API_KEY) > legacy api_key.
func (c *UserConfig) ActiveProvider() (provider string, apiKey string) {
	// If provider is explicitly set, use that provider's key
	if c.Provider != "" {
		switch c.Provider {
		case "gemini":
			if c.GeminiAPIKey != "" {
				return "gemini", c.GeminiAPIKey
			}
			if key := os.Getenv("GEMINI_API_KEY"); key != "" {
				return "gemini", key
			}
			return "gemini", c.APIKey
		case "openai":
			if c.OpenAIAPIKey != "" {
				return "openai", c.OpenAIAPIKey
			}
			if key := os.Getenv("OPENAI_API_KEY"); key != "" {
				return "openai", key
			}
			return "openai", c.APIKey
		}
	}

	// Check for provider-specific keys in priority order
	if c.GeminiAPIKey != "" {
		return "gemini", c.GeminiAPIKey
	}
	if c.OpenAIAPIKey != "" {
		return "openai", c.OpenAIAPIKey
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return "gemini", key
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return "openai", key
	}

	// Legacy: single api_key field (assume gemini)
	if c.APIKey != "" {
		return "gemini", c.APIKey
	}

	return "", ""
}
