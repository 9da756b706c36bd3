package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Topic buckets knowledge entries by the kind of failure they describe,
// so similarity search and proactive prediction can scope to a
// neighborhood instead of the whole store.
type Topic string

const (
	TopicMemoryIssues       Topic = "memory_issues"
	TopicResourceSaturation Topic = "resource_saturation"
	TopicNetworkIssues      Topic = "network_issues"
	TopicDatabaseIssues     Topic = "database_issues"
	TopicDependencyIssues   Topic = "dependency_issues"
	TopicConfigurationIssues Topic = "configuration_issues"
	TopicGeneral            Topic = "general"
)

// ClassifyTopic maps free-text root-cause/explanation text to a Topic
// using the same keyword table as the original implementation. Checks
// run in table order so the first matching keyword wins.
func ClassifyTopic(text string) Topic {
	lower := toLower(text)
	type rule struct {
		keywords []string
		topic    Topic
	}
	rules := []rule{
		{[]string{"memory", "oom", "leak"}, TopicMemoryIssues},
		{[]string{"cpu", "load", "capacity"}, TopicResourceSaturation},
		{[]string{"connection", "network", "timeout"}, TopicNetworkIssues},
		{[]string{"database", "query", "sql"}, TopicDatabaseIssues},
		{[]string{"dependency", "upstream", "downstream"}, TopicDependencyIssues},
		{[]string{"config", "configuration"}, TopicConfigurationIssues},
	}
	for _, r := range rules {
		for _, kw := range r.keywords {
			if contains(lower, kw) {
				return r.topic
			}
		}
	}
	return TopicGeneral
}

func toLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

func contains(haystack, needle string) bool {
	if len(needle) == 0 {
		return true
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return true
		}
	}
	return false
}

// UpdateCentroid folds a new embedding into a running-average centroid,
// weighted by how many embeddings have been folded in so far.
func (t *TopicCentroid) UpdateCentroid(embedding []float32) {
	if len(t.Centroid) == 0 {
		t.Centroid = append([]float32(nil), embedding...)
		t.Count = 1
		return
	}
	n := float32(t.Count)
	for i := range t.Centroid {
		if i < len(embedding) {
			t.Centroid[i] = (t.Centroid[i]*n + embedding[i]) / (n + 1)
		}
	}
	t.Count++
}

// TopicCentroid tracks the running-average embedding for a Topic, used to
// bias similarity search toward topically relevant entries.
type TopicCentroid struct {
	Topic    Topic
	Centroid []float32
	Count    int
}

// DiagnosisSummary is the condensed diagnosis recorded in a knowledge
// entry's post-mortem.
type DiagnosisSummary struct {
	RootCause  string
	Confidence float64
}

// SolutionSummary is the condensed strategy recorded in a knowledge
// entry's post-mortem.
type SolutionSummary struct {
	StrategyType StrategyType
	Description  string
}

// OutcomeSummary records whether the recorded healing ultimately
// succeeded and how long it took.
type OutcomeSummary struct {
	Success    bool
	DurationMs int64
}

// KnowledgeEntry is one closed-loop healing post-mortem: what went wrong,
// what was tried, and whether it worked. UpdateUsage folds a new outcome
// into usage_count/success_rate; retrieving an entry does not call it.
type KnowledgeEntry struct {
	ID           uuid.UUID
	Namespace    string
	Topic        Topic
	Diagnosis    DiagnosisSummary
	Solution     SolutionSummary
	Outcome      OutcomeSummary
	Embedding    []float32
	UsageCount   int
	SuccessRate  float64
	CreatedAt    time.Time
	LastUsedAt   time.Time
}

// SummaryText renders the human-readable one-liner used in logs and LLM
// prompts, matching the original's format string.
func (k KnowledgeEntry) SummaryText() string {
	return fmt.Sprintf("[%s] %s -> %s (success_rate=%.0f%%, used=%d)",
		k.Topic, k.Diagnosis.RootCause, k.Solution.Description, k.SuccessRate*100, k.UsageCount)
}

// UpdateUsage folds a new outcome into the entry's running success rate:
// success_rate becomes a weighted average over usage_count+1 observations,
// then usage_count increments and LastUsedAt is stamped.
func (k *KnowledgeEntry) UpdateUsage(success bool) {
	outcome := 0.0
	if success {
		outcome = 1.0
	}
	n := float64(k.UsageCount)
	k.SuccessRate = (k.SuccessRate*n + outcome) / (n + 1)
	k.UsageCount++
	k.LastUsedAt = time.Now()
}

// SimilaritySearchResult pairs a stored entry with its similarity score
// against a query embedding.
type SimilaritySearchResult struct {
	Entry KnowledgeEntry
	Score float64
}

// TrendDirection classifies the slope of a series of timed samples.
// Supplemental type (not present in spec.md) carried over from the
// original's knowledge model to back ProactivePrediction.
type TrendDirection string

const (
	TrendIncreasing TrendDirection = "Increasing"
	TrendDecreasing TrendDirection = "Decreasing"
	TrendStable     TrendDirection = "Stable"
)

// TimedValue is one sample in a time series, e.g. an error-rate reading.
type TimedValue struct {
	Timestamp time.Time
	Value     float64
}

// TrendAnalysis is the result of fitting a simple linear trend to a
// series of TimedValue samples.
type TrendAnalysis struct {
	Direction TrendDirection
	Slope     float64
}

// AnalyzeTrend fits an ordinary least-squares line to the samples (using
// sample index as x) and classifies the slope as Increasing/Decreasing/
// Stable against a small dead band, so noise near zero reads as Stable.
func AnalyzeTrend(samples []TimedValue) TrendAnalysis {
	n := len(samples)
	if n < 2 {
		return TrendAnalysis{Direction: TrendStable, Slope: 0}
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, s := range samples {
		x := float64(i)
		sumX += x
		sumY += s.Value
		sumXY += x * s.Value
		sumXX += x * x
	}
	fn := float64(n)
	denom := fn*sumXX - sumX*sumX
	if denom == 0 {
		return TrendAnalysis{Direction: TrendStable, Slope: 0}
	}
	slope := (fn*sumXY - sumX*sumY) / denom

	const deadBand = 0.01
	switch {
	case slope > deadBand:
		return TrendAnalysis{Direction: TrendIncreasing, Slope: slope}
	case slope < -deadBand:
		return TrendAnalysis{Direction: TrendDecreasing, Slope: slope}
	default:
		return TrendAnalysis{Direction: TrendStable, Slope: slope}
	}
}

// ProactivePrediction is a forward-looking warning the Knowledge agent can
// raise before a fault has been detected by Containment, derived from the
// recent trend of a metric series only; historical success rates of past
// entries are not consulted. Supplemental type carried over from the original's knowledge
// model; realizes the otherwise-unused ProactiveWarning event kind.
type ProactivePrediction struct {
	Namespace   string
	PodName     *string
	Topic       Topic
	Probability float64
	Trend       TrendAnalysis
	Rationale   string
}
