package llm

import (
	"context"

	"github.com/sony/gobreaker"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/ErdemAslans/ReCiSt/pkg/apierrors"
	"github.com/ErdemAslans/ReCiSt/pkg/domain"
)

// OpenAIClient backs both the "openai" and "gemini" providers when the
// vendor exposes an OpenAI-compatible chat-completions endpoint (Gemini
// does, via its OpenAI compatibility layer) — langchaingo's openai
// package accepts a BaseURL override for exactly this, so one transport
// covers both without a vendor-specific SDK for either.
type OpenAIClient struct {
	llm      *openai.LLM
	embedder *openai.LLM
	model    string
	provider string
	breaker  *gobreaker.CircuitBreaker
}

// NewOpenAIClient builds a transport for the OpenAI API (baseURL empty)
// or an OpenAI-compatible endpoint such as Gemini's (baseURL set).
func NewOpenAIClient(providerName, apiKey, model, baseURL string) (*OpenAIClient, error) {
	opts := []openai.Option{
		openai.WithToken(apiKey),
		openai.WithModel(model),
	}
	if baseURL != "" {
		opts = append(opts, openai.WithBaseURL(baseURL))
	}
	client, err := openai.New(opts...)
	if err != nil {
		return nil, apierrors.WrapLLM(err, "failed to build %s client", providerName)
	}
	return &OpenAIClient{
		llm:      client,
		embedder: client,
		model:    model,
		provider: providerName,
		breaker:  newBreaker(providerName),
	}, nil
}

func (c *OpenAIClient) send(ctx context.Context, system, prompt string) (string, error) {
	return callWithBreaker(ctx, c.breaker, func() (string, error) {
		var messages []llms.MessageContent
		if system != "" {
			messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, system))
		}
		messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, prompt))

		resp, err := c.llm.GenerateContent(ctx, messages, llms.WithMaxTokens(4096))
		if err != nil {
			return "", apierrors.WrapLLM(err, "%s request failed", c.provider)
		}
		if len(resp.Choices) == 0 {
			return "", apierrors.LLM("%s returned no choices", c.provider)
		}
		return resp.Choices[0].Content, nil
	})
}

func (c *OpenAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	return c.send(ctx, "", prompt)
}

func (c *OpenAIClient) CompleteWithSystem(ctx context.Context, system, prompt string) (string, error) {
	return c.send(ctx, system, prompt)
}

func (c *OpenAIClient) Diagnose(ctx context.Context, request DiagnosisRequest) (domain.LlmDiagnosisResponse, error) {
	response, err := c.CompleteWithSystem(ctx, DiagnosisSystemPrompt, BuildDiagnosisPrompt(request))
	if err != nil {
		return domain.LlmDiagnosisResponse{}, err
	}
	return ParseDiagnosisResponse(response)
}

func (c *OpenAIClient) EvaluateStrategy(ctx context.Context, request StrategyEvaluationRequest) (domain.StrategyEvaluation, error) {
	response, err := c.CompleteWithSystem(ctx, StrategyEvaluationSystemPrompt, BuildStrategyEvaluationPrompt(request))
	if err != nil {
		return domain.StrategyEvaluation{}, err
	}
	return ParseStrategyEvaluation(response, string(request.StrategyType))
}

func (c *OpenAIClient) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	vectors, err := c.embedder.CreateEmbedding(ctx, []string{text})
	if err != nil {
		return nil, apierrors.WrapLLM(err, "%s embedding request failed", c.provider)
	}
	if len(vectors) == 0 {
		return nil, apierrors.LLM("%s returned no embedding", c.provider)
	}
	return vectors[0], nil
}

func (c *OpenAIClient) ProviderName() string { return c.provider }
func (c *OpenAIClient) ModelName() string    { return c.model }
