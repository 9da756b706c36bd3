package llm

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/sony/gobreaker"

	"github.com/ErdemAslans/ReCiSt/pkg/apierrors"
	"github.com/ErdemAslans/ReCiSt/pkg/domain"
)

// BedrockClaudeClient is an alternate Claude transport that calls the
// model through AWS Bedrock instead of the public Anthropic API. It is
// built only through NewBedrockClaudeClient or NewBedrockFromPolicyConfig;
// NewFromPolicyConfig never selects it, so the claude provider always uses
// ClaudeClient.
type BedrockClaudeClient struct {
	runtime *bedrockruntime.Client
	modelID string
	breaker *gobreaker.CircuitBreaker
}

// NewBedrockClaudeClient builds a Bedrock-backed Claude transport for the
// given AWS region and Bedrock model ID (e.g.
// "anthropic.claude-3-5-sonnet-20241022-v2:0").
func NewBedrockClaudeClient(ctx context.Context, region, modelID string) (*BedrockClaudeClient, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, apierrors.WrapLLM(err, "failed to load AWS config for bedrock")
	}
	return &BedrockClaudeClient{
		runtime: bedrockruntime.NewFromConfig(cfg),
		modelID: modelID,
		breaker: newBreaker("claude-bedrock"),
	}, nil
}

type bedrockClaudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type bedrockClaudeRequest struct {
	AnthropicVersion string                 `json:"anthropic_version"`
	MaxTokens        int                    `json:"max_tokens"`
	System           string                 `json:"system,omitempty"`
	Messages         []bedrockClaudeMessage `json:"messages"`
}

type bedrockClaudeContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type bedrockClaudeResponse struct {
	Content []bedrockClaudeContentBlock `json:"content"`
}

func (c *BedrockClaudeClient) send(ctx context.Context, system, prompt string) (string, error) {
	return callWithBreaker(ctx, c.breaker, func() (string, error) {
		body, err := json.Marshal(bedrockClaudeRequest{
			AnthropicVersion: "bedrock-2023-05-31",
			MaxTokens:        4096,
			System:           system,
			Messages:         []bedrockClaudeMessage{{Role: "user", Content: prompt}},
		})
		if err != nil {
			return "", apierrors.WrapJSON(err, "failed to marshal bedrock request")
		}

		out, err := c.runtime.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
			ModelId:     aws.String(c.modelID),
			ContentType: aws.String("application/json"),
			Body:        body,
		})
		if err != nil {
			return "", apierrors.WrapLLM(err, "bedrock invoke failed")
		}

		var resp bedrockClaudeResponse
		if err := json.Unmarshal(out.Body, &resp); err != nil {
			return "", apierrors.WrapJSON(err, "failed to parse bedrock response")
		}

		text := ""
		for _, block := range resp.Content {
			if block.Type == "text" {
				text += block.Text
			}
		}
		return text, nil
	})
}

func (c *BedrockClaudeClient) Complete(ctx context.Context, prompt string) (string, error) {
	return c.send(ctx, "", prompt)
}

func (c *BedrockClaudeClient) CompleteWithSystem(ctx context.Context, system, prompt string) (string, error) {
	return c.send(ctx, system, prompt)
}

func (c *BedrockClaudeClient) Diagnose(ctx context.Context, request DiagnosisRequest) (domain.LlmDiagnosisResponse, error) {
	response, err := c.CompleteWithSystem(ctx, DiagnosisSystemPrompt, BuildDiagnosisPrompt(request))
	if err != nil {
		return domain.LlmDiagnosisResponse{}, err
	}
	return ParseDiagnosisResponse(response)
}

func (c *BedrockClaudeClient) EvaluateStrategy(ctx context.Context, request StrategyEvaluationRequest) (domain.StrategyEvaluation, error) {
	response, err := c.CompleteWithSystem(ctx, StrategyEvaluationSystemPrompt, BuildStrategyEvaluationPrompt(request))
	if err != nil {
		return domain.StrategyEvaluation{}, err
	}
	return ParseStrategyEvaluation(response, string(request.StrategyType))
}

func (c *BedrockClaudeClient) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	return nil, errNoEmbeddings
}

func (c *BedrockClaudeClient) ProviderName() string { return "Claude" }
func (c *BedrockClaudeClient) ModelName() string    { return c.modelID }
