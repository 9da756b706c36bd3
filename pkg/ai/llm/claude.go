package llm

import (
	"context"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/sony/gobreaker"

	"github.com/ErdemAslans/ReCiSt/pkg/apierrors"
	"github.com/ErdemAslans/ReCiSt/pkg/domain"
)

// ClaudeClient talks to the Anthropic Messages API using the native SDK
// (rather than a hand-rolled HTTP client), since anthropic-sdk-go is a
// direct dependency of the pack this module is grounded on.
type ClaudeClient struct {
	client  anthropic.Client
	model   string
	breaker *gobreaker.CircuitBreaker
}

// NewClaudeClient builds a Claude transport for the given API key and
// model.
func NewClaudeClient(apiKey, model string) *ClaudeClient {
	return &ClaudeClient{
		client:  anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:   model,
		breaker: newBreaker("claude"),
	}
}

func (c *ClaudeClient) send(ctx context.Context, system, prompt string) (string, error) {
	return callWithBreaker(ctx, c.breaker, func() (string, error) {
		params := anthropic.MessageNewParams{
			Model:     anthropic.Model(c.model),
			MaxTokens: 4096,
			Messages: []anthropic.MessageParam{
				anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
			},
		}
		if system != "" {
			params.System = []anthropic.TextBlockParam{{Text: system}}
		}

		msg, err := c.client.Messages.New(ctx, params)
		if err != nil {
			return "", apierrors.WrapLLM(err, "claude request failed")
		}

		text := ""
		for _, block := range msg.Content {
			if block.Type == "text" {
				text += block.Text
			}
		}
		return text, nil
	})
}

func (c *ClaudeClient) Complete(ctx context.Context, prompt string) (string, error) {
	return c.send(ctx, "", prompt)
}

func (c *ClaudeClient) CompleteWithSystem(ctx context.Context, system, prompt string) (string, error) {
	return c.send(ctx, system, prompt)
}

func (c *ClaudeClient) Diagnose(ctx context.Context, request DiagnosisRequest) (domain.LlmDiagnosisResponse, error) {
	prompt := BuildDiagnosisPrompt(request)
	response, err := c.CompleteWithSystem(ctx, DiagnosisSystemPrompt, prompt)
	if err != nil {
		return domain.LlmDiagnosisResponse{}, err
	}
	return ParseDiagnosisResponse(response)
}

func (c *ClaudeClient) EvaluateStrategy(ctx context.Context, request StrategyEvaluationRequest) (domain.StrategyEvaluation, error) {
	prompt := BuildStrategyEvaluationPrompt(request)
	response, err := c.CompleteWithSystem(ctx, StrategyEvaluationSystemPrompt, prompt)
	if err != nil {
		return domain.StrategyEvaluation{}, err
	}
	return ParseStrategyEvaluation(response, string(request.StrategyType))
}

// GenerateEmbedding always fails: Claude has no embeddings endpoint, so
// the Knowledge agent must be configured with a vendor that has one.
func (c *ClaudeClient) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	return nil, errNoEmbeddings
}

func (c *ClaudeClient) ProviderName() string { return "Claude" }
func (c *ClaudeClient) ModelName() string    { return c.model }
