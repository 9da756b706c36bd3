package llm

import (
	"context"
	"testing"

	v1alpha1 "github.com/ErdemAslans/ReCiSt/api/recist/v1alpha1"
	"github.com/ErdemAslans/ReCiSt/pkg/apierrors"
)

func TestNewFromPolicyConfig_Claude(t *testing.T) {
	client, err := NewFromPolicyConfig(context.Background(), v1alpha1.LlmConfig{Provider: v1alpha1.LlmProviderClaude, Model: "claude-3-opus"})
	if err != nil {
		t.Fatalf("NewFromPolicyConfig() returned error: %v", err)
	}
	if client.ProviderName() != "Claude" {
		t.Errorf("ProviderName() = %q, want Claude", client.ProviderName())
	}
	if client.ModelName() != "claude-3-opus" {
		t.Errorf("ModelName() = %q, want claude-3-opus", client.ModelName())
	}
}

func TestNewFromPolicyConfig_OpenAI(t *testing.T) {
	client, err := NewFromPolicyConfig(context.Background(), v1alpha1.LlmConfig{Provider: v1alpha1.LlmProviderOpenAI, Model: "gpt-4"})
	if err != nil {
		t.Fatalf("NewFromPolicyConfig() returned error: %v", err)
	}
	if client.ModelName() != "gpt-4" {
		t.Errorf("ModelName() = %q, want gpt-4", client.ModelName())
	}
}

func TestNewFromPolicyConfig_Gemini(t *testing.T) {
	client, err := NewFromPolicyConfig(context.Background(), v1alpha1.LlmConfig{Provider: v1alpha1.LlmProviderGemini, Model: "gemini-1.5-pro"})
	if err != nil {
		t.Fatalf("NewFromPolicyConfig() returned error: %v", err)
	}
	if client.ModelName() != "gemini-1.5-pro" {
		t.Errorf("ModelName() = %q, want gemini-1.5-pro", client.ModelName())
	}
}

func TestNewFromPolicyConfig_Ollama(t *testing.T) {
	baseURL := "http://ollama:11434"
	client, err := NewFromPolicyConfig(context.Background(), v1alpha1.LlmConfig{Provider: v1alpha1.LlmProviderOllama, Model: "llama3", BaseURL: &baseURL})
	if err != nil {
		t.Fatalf("NewFromPolicyConfig() returned error: %v", err)
	}
	if client.ModelName() != "llama3" {
		t.Errorf("ModelName() = %q, want llama3", client.ModelName())
	}
}

func TestNewFromPolicyConfig_UnknownProviderIsAConfigError(t *testing.T) {
	_, err := NewFromPolicyConfig(context.Background(), v1alpha1.LlmConfig{Provider: v1alpha1.LlmProvider("bogus")})
	if err == nil {
		t.Fatal("expected an error for an unrecognized provider")
	}
	if !apierrors.IsKind(err, apierrors.KindConfig) {
		t.Errorf("expected a Config-kind error, got %v", err)
	}
}
