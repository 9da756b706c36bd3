package metacognitive

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ErdemAslans/ReCiSt/pkg/ai/llm"
	"github.com/ErdemAslans/ReCiSt/pkg/domain"
)

// initialConfidence seeds a micro-agent's first-pass estimate before any
// LLM reasoning, so a cold micro-agent can still rank candidates even if
// the first evaluation call fails.
var initialConfidence = map[domain.StrategyType]float64{
	domain.StrategyPodRestart:        0.85,
	domain.StrategyHorizontalScale:   0.75,
	domain.StrategyVerticalScale:     0.70,
	domain.StrategyConfigUpdate:      0.65,
	domain.StrategyDependencyRestart: 0.60,
	domain.StrategyNetworkIsolation:  0.80,
	domain.StrategyComposite:         0.70,
}

// historicalSuccessRate is the fallback success-rate prior handed to the
// LLM when Knowledge has no recorded outcome for this strategy type yet.
var historicalSuccessRate = map[domain.StrategyType]float64{
	domain.StrategyPodRestart:        0.85,
	domain.StrategyHorizontalScale:   0.75,
	domain.StrategyVerticalScale:     0.70,
	domain.StrategyConfigUpdate:      0.65,
	domain.StrategyDependencyRestart: 0.60,
	domain.StrategyNetworkIsolation:  0.80,
	domain.StrategyComposite:         0.70,
}

// microAgent evaluates exactly one candidate strategy type through a
// bounded loop of LLM reasoning calls, stopping as soon as its estimate
// clears the decision threshold or it runs out of reasoning depth.
type microAgent struct {
	id     uuid.UUID
	client llm.Client
}

func newMicroAgent(client llm.Client) *microAgent {
	return &microAgent{id: uuid.New(), client: client}
}

// evaluate runs up to maxDepth LLM evaluation calls for one strategy
// type against a diagnosis, returning the most recent successful
// evaluation (or the seeded initial estimate when no call succeeded) and
// how many reasoning iterations it actually spent.
func (m *microAgent) evaluate(ctx context.Context, strategyType domain.StrategyType, hypothesis domain.DiagnosisHypothesis, metrics []llm.MetricSnapshot, decisionThreshold float64, maxDepth int) domain.MicroAgentResult {
	if maxDepth < 1 {
		maxDepth = 1
	}

	best := domain.StrategyEvaluation{
		StrategyType:         strategyType,
		SuccessProbability:   initialConfidence[strategyType],
		RiskScore:            0.5,
		EstimatedTimeSeconds: uint64(domain.EstimatedDurationFor(strategyType).Seconds()),
		Reasoning:            "initial estimate, no reasoning performed yet",
		PrerequisitesMet:     true,
	}

	depth := 0
	successRate := historicalSuccessRate[strategyType]

	for ; depth < maxDepth; depth++ {
		evaluation, err := m.client.EvaluateStrategy(ctx, llm.StrategyEvaluationRequest{
			Diagnosis:             hypothesis.Explanation,
			RootCause:             hypothesis.RootCause,
			StrategyType:          strategyType,
			CurrentMetrics:        metrics,
			HistoricalSuccessRate: &successRate,
		})
		if err != nil {
			break
		}
		best = evaluation
		if best.SuccessProbability >= decisionThreshold {
			depth++
			break
		}
	}

	return domain.MicroAgentResult{
		MicroAgentID:   m.id,
		StrategyType:   strategyType,
		Evaluation:     best,
		ReasoningDepth: depth,
	}
}

func (m *microAgent) String() string {
	return fmt.Sprintf("micro-agent[%s]", m.id)
}
