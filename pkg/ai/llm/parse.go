package llm

import (
	"encoding/json"

	"github.com/ErdemAslans/ReCiSt/pkg/apierrors"
	"github.com/ErdemAslans/ReCiSt/pkg/domain"
)

type rawDiagnosis struct {
	RootCause        string   `json:"root_cause"`
	Confidence       float64  `json:"confidence"`
	Evidence         []string `json:"evidence"`
	Explanation      string   `json:"explanation"`
	SuggestedActions []string `json:"suggested_actions"`
}

// ParseDiagnosisResponse extracts and decodes the JSON object embedded in
// an LLM's free-text diagnosis response. Confidence arrives as a 0-100
// scale and is normalized to 0-1, matching the original.
func ParseDiagnosisResponse(response string) (domain.LlmDiagnosisResponse, error) {
	var raw rawDiagnosis
	if err := json.Unmarshal([]byte(extractJSON(response)), &raw); err != nil {
		return domain.LlmDiagnosisResponse{}, apierrors.WrapLLM(err, "failed to parse diagnosis JSON")
	}
	if raw.RootCause == "" {
		raw.RootCause = "Unknown"
	}
	return domain.LlmDiagnosisResponse{
		RootCause:        raw.RootCause,
		Confidence:       raw.Confidence / 100.0,
		Evidence:         raw.Evidence,
		Explanation:      raw.Explanation,
		SuggestedActions: raw.SuggestedActions,
	}, nil
}

type rawStrategyEvaluation struct {
	SuccessProbability   float64 `json:"success_probability"`
	RiskScore            float64 `json:"risk_score"`
	EstimatedTimeSeconds uint64  `json:"estimated_time_seconds"`
	Reasoning            string  `json:"reasoning"`
	PrerequisitesMet     *bool   `json:"prerequisites_met"`
}

// ParseStrategyEvaluation extracts and decodes the JSON object embedded
// in an LLM's free-text strategy-evaluation response.
func ParseStrategyEvaluation(response string, strategyTypeRaw string) (domain.StrategyEvaluation, error) {
	var raw rawStrategyEvaluation
	if err := json.Unmarshal([]byte(extractJSON(response)), &raw); err != nil {
		return domain.StrategyEvaluation{}, apierrors.WrapLLM(err, "failed to parse evaluation JSON")
	}
	prerequisitesMet := true
	if raw.PrerequisitesMet != nil {
		prerequisitesMet = *raw.PrerequisitesMet
	}
	riskScore := raw.RiskScore
	if riskScore == 0 {
		riskScore = 0.5
	}
	estimated := raw.EstimatedTimeSeconds
	if estimated == 0 {
		estimated = 30
	}
	return domain.StrategyEvaluation{
		StrategyType:         parseStrategyType(strategyTypeRaw),
		SuccessProbability:   raw.SuccessProbability,
		RiskScore:            riskScore,
		EstimatedTimeSeconds: estimated,
		Reasoning:            raw.Reasoning,
		PrerequisitesMet:     prerequisitesMet,
	}, nil
}
