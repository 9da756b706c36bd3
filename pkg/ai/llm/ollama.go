package llm

import (
	"context"

	"github.com/sony/gobreaker"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"

	"github.com/ErdemAslans/ReCiSt/pkg/apierrors"
	"github.com/ErdemAslans/ReCiSt/pkg/domain"
)

// OllamaClient backs the "ollama" provider for clusters running a local
// model server instead of an external vendor.
type OllamaClient struct {
	llm     *ollama.LLM
	model   string
	breaker *gobreaker.CircuitBreaker
}

// NewOllamaClient builds a transport for an Ollama server at serverURL
// (e.g. "http://ollama:11434").
func NewOllamaClient(serverURL, model string) (*OllamaClient, error) {
	client, err := ollama.New(ollama.WithServerURL(serverURL), ollama.WithModel(model))
	if err != nil {
		return nil, apierrors.WrapLLM(err, "failed to build ollama client")
	}
	return &OllamaClient{llm: client, model: model, breaker: newBreaker("ollama")}, nil
}

func (c *OllamaClient) send(ctx context.Context, system, prompt string) (string, error) {
	return callWithBreaker(ctx, c.breaker, func() (string, error) {
		var messages []llms.MessageContent
		if system != "" {
			messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, system))
		}
		messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, prompt))

		resp, err := c.llm.GenerateContent(ctx, messages)
		if err != nil {
			return "", apierrors.WrapLLM(err, "ollama request failed")
		}
		if len(resp.Choices) == 0 {
			return "", apierrors.LLM("ollama returned no choices")
		}
		return resp.Choices[0].Content, nil
	})
}

func (c *OllamaClient) Complete(ctx context.Context, prompt string) (string, error) {
	return c.send(ctx, "", prompt)
}

func (c *OllamaClient) CompleteWithSystem(ctx context.Context, system, prompt string) (string, error) {
	return c.send(ctx, system, prompt)
}

func (c *OllamaClient) Diagnose(ctx context.Context, request DiagnosisRequest) (domain.LlmDiagnosisResponse, error) {
	response, err := c.CompleteWithSystem(ctx, DiagnosisSystemPrompt, BuildDiagnosisPrompt(request))
	if err != nil {
		return domain.LlmDiagnosisResponse{}, err
	}
	return ParseDiagnosisResponse(response)
}

func (c *OllamaClient) EvaluateStrategy(ctx context.Context, request StrategyEvaluationRequest) (domain.StrategyEvaluation, error) {
	response, err := c.CompleteWithSystem(ctx, StrategyEvaluationSystemPrompt, BuildStrategyEvaluationPrompt(request))
	if err != nil {
		return domain.StrategyEvaluation{}, err
	}
	return ParseStrategyEvaluation(response, string(request.StrategyType))
}

// GenerateEmbedding uses Ollama's embeddings endpoint via langchaingo,
// for local embedding models (e.g. nomic-embed-text).
func (c *OllamaClient) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	vectors, err := c.llm.CreateEmbedding(ctx, []string{text})
	if err != nil {
		return nil, apierrors.WrapLLM(err, "ollama embedding request failed")
	}
	if len(vectors) == 0 {
		return nil, apierrors.LLM("ollama returned no embedding")
	}
	return vectors[0], nil
}

func (c *OllamaClient) ProviderName() string { return "Ollama" }
func (c *OllamaClient) ModelName() string    { return c.model }
