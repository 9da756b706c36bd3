// Package llm defines the vendor-agnostic LLM contract every agent calls
// through: Complete/CompleteWithSystem for free-form prompting,
// Diagnose/EvaluateStrategy for the two structured JSON-returning calls
// Diagnosis and Meta-cognitive depend on, and GenerateEmbedding for
// Knowledge's post-mortem vectors. Prompt assembly and response parsing
// are shared here; only wire transport differs per vendor.
package llm

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/ErdemAslans/ReCiSt/pkg/apierrors"
	"github.com/ErdemAslans/ReCiSt/pkg/domain"
)

// Client is the logical contract every vendor transport implements.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
	CompleteWithSystem(ctx context.Context, system, prompt string) (string, error)
	Diagnose(ctx context.Context, request DiagnosisRequest) (domain.LlmDiagnosisResponse, error)
	EvaluateStrategy(ctx context.Context, request StrategyEvaluationRequest) (domain.StrategyEvaluation, error)
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
	ProviderName() string
	ModelName() string
}

// MetricSnapshot is one metric reading handed to the LLM for context.
type MetricSnapshot struct {
	Name      string
	Value     float64
	Threshold *float64
}

// DiagnosisRequest bundles the evidence Diagnosis collected for one
// incident into the shape the diagnosis prompt builder expects.
type DiagnosisRequest struct {
	Logs              []string
	Metrics           []MetricSnapshot
	KubernetesEvents  []string
	PodName           string
	Namespace         string
	ErrorType         string
}

// StrategyEvaluationRequest bundles one candidate strategy and its
// supporting diagnosis into the shape the strategy-evaluation prompt
// builder expects.
type StrategyEvaluationRequest struct {
	Diagnosis              string
	RootCause               string
	StrategyType            domain.StrategyType
	CurrentMetrics          []MetricSnapshot
	HistoricalSuccessRate   *float64
}

const DiagnosisSystemPrompt = `You are an expert Site Reliability Engineer (SRE) analyzing system failures. Your task is to:

1. Analyze the provided logs, metrics, and Kubernetes events
2. Identify the root cause of the issue
3. Provide a confidence score (0-100) for your diagnosis
4. List supporting evidence from the logs

Respond in JSON format:
{
    "root_cause": "Brief description of the root cause",
    "confidence": 85,
    "evidence": ["Evidence line 1", "Evidence line 2"],
    "explanation": "Detailed explanation of the diagnosis",
    "suggested_actions": ["Action 1", "Action 2"]
}`

const StrategyEvaluationSystemPrompt = `You are an expert Site Reliability Engineer evaluating healing strategies. Your task is to:

1. Evaluate if the proposed strategy is appropriate for the diagnosed issue
2. Estimate success probability based on the evidence
3. Identify any risks or prerequisites
4. Provide a risk score (0-100)

Respond in JSON format:
{
    "success_probability": 0.85,
    "risk_score": 0.2,
    "estimated_time_seconds": 30,
    "reasoning": "Why this strategy is appropriate",
    "prerequisites_met": true
}`

// BuildDiagnosisPrompt renders a DiagnosisRequest into the user prompt
// sent alongside DiagnosisSystemPrompt: at most 50 logs, then metrics,
// then Kubernetes events, matching the original's exact layout.
func BuildDiagnosisPrompt(req DiagnosisRequest) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Analyze the following issue for pod '%s' in namespace '%s'.\n\n", req.PodName, req.Namespace)
	fmt.Fprintf(&b, "Error Type: %s\n\n", req.ErrorType)

	b.WriteString("=== LOGS ===\n")
	logs := req.Logs
	if len(logs) > 50 {
		logs = logs[:50]
	}
	for i, l := range logs {
		fmt.Fprintf(&b, "[%d] %s\n", i+1, l)
	}
	b.WriteString("\n")

	b.WriteString("=== METRICS ===\n")
	for _, m := range req.Metrics {
		thresholdStr := ""
		if m.Threshold != nil {
			thresholdStr = fmt.Sprintf(" (threshold: %s)", strconv.FormatFloat(*m.Threshold, 'g', -1, 64))
		}
		fmt.Fprintf(&b, "%s: %s%s\n", m.Name, strconv.FormatFloat(m.Value, 'g', -1, 64), thresholdStr)
	}
	b.WriteString("\n")

	b.WriteString("=== KUBERNETES EVENTS ===\n")
	for _, e := range req.KubernetesEvents {
		fmt.Fprintf(&b, "- %s\n", e)
	}
	b.WriteString("\n")

	b.WriteString("Based on the above information, provide your diagnosis in JSON format.")

	return b.String()
}

// BuildStrategyEvaluationPrompt renders a StrategyEvaluationRequest into
// the user prompt sent alongside StrategyEvaluationSystemPrompt.
func BuildStrategyEvaluationPrompt(req StrategyEvaluationRequest) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Evaluate the '%s' strategy for the following issue:\n\n", req.StrategyType)
	fmt.Fprintf(&b, "Diagnosis: %s\n", req.Diagnosis)
	fmt.Fprintf(&b, "Root Cause: %s\n\n", req.RootCause)

	b.WriteString("=== CURRENT METRICS ===\n")
	for _, m := range req.CurrentMetrics {
		fmt.Fprintf(&b, "%s: %s\n", m.Name, strconv.FormatFloat(m.Value, 'g', -1, 64))
	}
	b.WriteString("\n")

	if req.HistoricalSuccessRate != nil {
		fmt.Fprintf(&b, "Historical success rate for this strategy: %.1f%%\n\n", *req.HistoricalSuccessRate*100)
	}

	b.WriteString("Evaluate if this strategy is appropriate and provide your assessment in JSON format.")

	return b.String()
}

// extractJSON scans for the first '{' and last '}' in text and returns
// the substring between them, matching the original's tolerant
// extraction of a JSON object embedded in a chattier LLM response.
func extractJSON(text string) string {
	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start == -1 || end == -1 || end < start {
		return text
	}
	return text[start : end+1]
}

func parseStrategyType(raw string) domain.StrategyType {
	switch strings.ToLower(raw) {
	case "podrestart", "pod_restart":
		return domain.StrategyPodRestart
	case "horizontalscale", "horizontal_scale":
		return domain.StrategyHorizontalScale
	case "verticalscale", "vertical_scale":
		return domain.StrategyVerticalScale
	case "configupdate", "config_update":
		return domain.StrategyConfigUpdate
	case "dependencyrestart", "dependency_restart":
		return domain.StrategyDependencyRestart
	case "networkisolation", "network_isolation":
		return domain.StrategyNetworkIsolation
	default:
		return domain.StrategyPodRestart
	}
}

// errNoEmbeddings is returned by vendor transports (Claude) that have no
// native embedding endpoint.
var errNoEmbeddings = apierrors.LLM("does not support embeddings directly; use a separate embedding model")
