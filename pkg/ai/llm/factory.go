package llm

import (
	"context"
	"os"
	"time"

	v1alpha1 "github.com/ErdemAslans/ReCiSt/api/recist/v1alpha1"
	"github.com/ErdemAslans/ReCiSt/pkg/apierrors"
)

// NewFromPolicyConfig builds the vendor transport a SelfHealingPolicy's
// LlmConfig selects. The API key is read from the environment under the
// secret's name (the manager mounts the named Secret's key as an
// identically named env var on the controller Deployment), matching the
// original's env-var based credential loading.
func NewFromPolicyConfig(ctx context.Context, cfg v1alpha1.LlmConfig) (Client, error) {
	apiKey := os.Getenv(cfg.APIKeySecret)
	baseURL := ""
	if cfg.BaseURL != nil {
		baseURL = *cfg.BaseURL
	}

	switch cfg.Provider {
	case v1alpha1.LlmProviderClaude:
		return NewClaudeClient(apiKey, cfg.Model), nil
	case v1alpha1.LlmProviderOpenAI:
		return NewOpenAIClient("OpenAI", apiKey, cfg.Model, baseURL)
	case v1alpha1.LlmProviderGemini:
		return NewGeminiClient(apiKey, cfg.Model, baseURL)
	case v1alpha1.LlmProviderOllama:
		return NewOllamaClient(baseURL, cfg.Model)
	default:
		return nil, apierrors.Config("unknown llm provider %q", cfg.Provider)
	}
}

// NewBedrockFromPolicyConfig builds a Bedrock-backed Claude transport for
// policies that opt into AWS-hosted inference instead of the direct
// Anthropic API. TimeoutSeconds is not applied (Bedrock's SDK client
// manages its own connection timeouts).
func NewBedrockFromPolicyConfig(ctx context.Context, region string, cfg v1alpha1.LlmConfig) (Client, error) {
	_ = time.Duration(cfg.TimeoutSeconds) * time.Second
	return NewBedrockClaudeClient(ctx, region, cfg.Model)
}
