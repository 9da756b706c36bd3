package domain

import (
	"testing"
	"time"
)

func TestClassifyTopic(t *testing.T) {
	tests := []struct {
		text     string
		expected Topic
	}{
		{"Pod killed due to OOM condition", TopicMemoryIssues},
		{"memory leak detected", TopicMemoryIssues},
		{"sustained high CPU load", TopicResourceSaturation},
		{"connection timeout talking to upstream", TopicNetworkIssues},
		{"slow SQL query against the database", TopicDatabaseIssues},
		{"downstream dependency unavailable", TopicDependencyIssues},
		{"invalid configuration value", TopicConfigurationIssues},
		{"completely unrelated text", TopicGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := ClassifyTopic(tt.text); got != tt.expected {
				t.Errorf("ClassifyTopic(%q) = %v, want %v", tt.text, got, tt.expected)
			}
		})
	}
}

func TestUpdateUsage(t *testing.T) {
	entry := KnowledgeEntry{}

	entry.UpdateUsage(true)
	if entry.UsageCount != 1 {
		t.Fatalf("UsageCount = %d, want 1", entry.UsageCount)
	}
	if entry.SuccessRate != 1.0 {
		t.Fatalf("SuccessRate = %v, want 1.0", entry.SuccessRate)
	}

	entry.UpdateUsage(false)
	if entry.UsageCount != 2 {
		t.Fatalf("UsageCount = %d, want 2", entry.UsageCount)
	}
	if entry.SuccessRate != 0.5 {
		t.Fatalf("SuccessRate = %v, want 0.5", entry.SuccessRate)
	}
	if entry.LastUsedAt.IsZero() {
		t.Error("LastUsedAt should be stamped after UpdateUsage")
	}
}

func TestTopicCentroid_UpdateCentroid(t *testing.T) {
	centroid := TopicCentroid{Topic: TopicMemoryIssues}

	centroid.UpdateCentroid([]float32{1, 1})
	if centroid.Count != 1 {
		t.Fatalf("Count = %d, want 1", centroid.Count)
	}

	centroid.UpdateCentroid([]float32{3, 3})
	if centroid.Count != 2 {
		t.Fatalf("Count = %d, want 2", centroid.Count)
	}
	if centroid.Centroid[0] != 2 || centroid.Centroid[1] != 2 {
		t.Errorf("Centroid = %v, want [2 2]", centroid.Centroid)
	}
}

func TestAnalyzeTrend(t *testing.T) {
	now := time.Now()
	increasing := []TimedValue{
		{Timestamp: now, Value: 0.1},
		{Timestamp: now, Value: 0.3},
		{Timestamp: now, Value: 0.5},
		{Timestamp: now, Value: 0.7},
	}
	if got := AnalyzeTrend(increasing).Direction; got != TrendIncreasing {
		t.Errorf("Direction = %v, want Increasing", got)
	}

	decreasing := []TimedValue{
		{Timestamp: now, Value: 0.9},
		{Timestamp: now, Value: 0.6},
		{Timestamp: now, Value: 0.3},
	}
	if got := AnalyzeTrend(decreasing).Direction; got != TrendDecreasing {
		t.Errorf("Direction = %v, want Decreasing", got)
	}

	flat := []TimedValue{
		{Timestamp: now, Value: 0.5},
		{Timestamp: now, Value: 0.5},
		{Timestamp: now, Value: 0.5},
	}
	if got := AnalyzeTrend(flat).Direction; got != TrendStable {
		t.Errorf("Direction = %v, want Stable", got)
	}

	if got := AnalyzeTrend([]TimedValue{{Value: 1}}).Direction; got != TrendStable {
		t.Errorf("Direction with < 2 samples = %v, want Stable", got)
	}
}

func TestKnowledgeEntry_SummaryText(t *testing.T) {
	entry := KnowledgeEntry{
		Topic:       TopicMemoryIssues,
		Diagnosis:   DiagnosisSummary{RootCause: "OOM"},
		Solution:    SolutionSummary{Description: "vertical scale"},
		SuccessRate: 0.8,
		UsageCount:  4,
	}
	expected := "[memory_issues] OOM -> vertical scale (success_rate=80%, used=4)"
	if got := entry.SummaryText(); got != expected {
		t.Errorf("SummaryText() = %q, want %q", got, expected)
	}
}
