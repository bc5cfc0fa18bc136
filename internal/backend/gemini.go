package backend

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/genai"
)

// geminiTierModels maps tiers to default Gemini models.
var geminiTierModels = map[Tier]string{
	TierFast:     "gemini-2.5-flash-lite",
	TierBalanced: "gemini-2.5-flash",
	TierDeep:     "gemini-2.5-pro",
}

// GeminiClient generates text through the Google GenAI SDK.
type GeminiClient struct {
	client *genai.Client
	models map[string]string
}

// DefaultGeminiConfig returns sensible defaults.
func DefaultGeminiConfig(apiKey string) Config {
	return Config{
		APIKey:  apiKey,
		Timeout: DefaultTimeout,
	}
}

// NewGeminiClient creates a Gemini client from config.
func NewGeminiClient(ctx context.Context, cfg Config) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, &RequestError{Provider: "gemini", Message: "API key not configured"}
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, &RequestError{Provider: "gemini", Message: "failed to create client", Err: err}
	}

	return &GeminiClient{client: client, models: cfg.Models}, nil
}

func (c *GeminiClient) Provider() string {
	return "gemini"
}

// Generate makes a single generateContent call at the given tier.
func (c *GeminiClient) Generate(ctx context.Context, prompt string, tier Tier) (string, error) {
	model := resolveModel(c.models, geminiTierModels, tier)

	result, err := c.client.Models.GenerateContent(ctx, model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0.4),
	})
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return "", &RequestError{
				Provider:   "gemini",
				StatusCode: apiErr.Code,
				Message:    apiErr.Message,
				Err:        err,
			}
		}
		return "", &RequestError{Provider: "gemini", Message: "request failed", Err: err}
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		return "", &RequestError{Provider: "gemini", Message: "no completion returned"}
	}
	return text, nil
}
