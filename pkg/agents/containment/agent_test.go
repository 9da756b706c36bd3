package containment

import (
	"testing"

	v1alpha1 "github.com/ErdemAslans/ReCiSt/api/recist/v1alpha1"
	"github.com/ErdemAslans/ReCiSt/pkg/domain"
)

func TestReasonsFor(t *testing.T) {
	a := &Agent{threshold: v1alpha1.Thresholds{CPU: 0.9, Memory: 0.85, LatencyMs: 500, ErrorRate: 0.05}}

	tests := []struct {
		name        string
		snap        domain.PodMetricsSnapshot
		wantReasons int
	}{
		{"nothing breached", domain.PodMetricsSnapshot{CPUUsage: 0.1, MemoryUsage: 0.2, LatencyMs: 50, ErrorRate: 0.01}, 0},
		{"cpu only", domain.PodMetricsSnapshot{CPUUsage: 0.95, MemoryUsage: 0.2, LatencyMs: 50, ErrorRate: 0.01}, 1},
		{"all four breached", domain.PodMetricsSnapshot{CPUUsage: 0.99, MemoryUsage: 0.99, LatencyMs: 900, ErrorRate: 0.5}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reasons, _ := a.reasonsFor(tt.snap)
			if len(reasons) != tt.wantReasons {
				t.Errorf("len(reasons) = %d, want %d (%v)", len(reasons), tt.wantReasons, reasons)
			}
		})
	}
}

func TestReasonsFor_WorstOvershootRatio(t *testing.T) {
	a := &Agent{threshold: v1alpha1.Thresholds{CPU: 0.5, Memory: 0.5}}
	_, worst := a.reasonsFor(domain.PodMetricsSnapshot{CPUUsage: 0.6, MemoryUsage: 1.0})

	if worst != 1.0 {
		t.Errorf("worst = %v, want 1.0 (memory overshot its threshold by 100%%)", worst)
	}
}

func TestReasonsFor_ZeroThresholdNeverTrips(t *testing.T) {
	a := &Agent{threshold: v1alpha1.Thresholds{CPU: 0}}
	reasons, worst := a.reasonsFor(domain.PodMetricsSnapshot{CPUUsage: 99})
	if len(reasons) != 0 || worst != 0 {
		t.Errorf("a zero threshold should never trip, got reasons=%v worst=%v", reasons, worst)
	}
}

func TestDetermineIsolationStrategy(t *testing.T) {
	tests := []struct {
		configured v1alpha1.IsolationStrategy
		want       domain.IsolationStrategy
	}{
		{v1alpha1.IsolationStrategyHard, domain.IsolationStrategyHard},
		{v1alpha1.IsolationStrategyAuto, domain.IsolationStrategyAuto},
		{v1alpha1.IsolationStrategySoft, domain.IsolationStrategySoft},
		{v1alpha1.IsolationStrategy("unrecognized"), domain.IsolationStrategySoft},
	}
	for _, tt := range tests {
		a := &Agent{config: v1alpha1.ContainmentConfig{IsolationStrategy: tt.configured}}
		if got := a.determineIsolationStrategy(); got != tt.want {
			t.Errorf("determineIsolationStrategy() with %v = %v, want %v", tt.configured, got, tt.want)
		}
	}
}

func TestReasonSummary(t *testing.T) {
	tests := []struct {
		reasons []domain.TriggerReason
		want    string
	}{
		{nil, ""},
		{[]domain.TriggerReason{domain.ReasonHighCPU}, "HighCpu"},
		{[]domain.TriggerReason{domain.ReasonHighCPU, domain.ReasonHighMemory}, "HighCpu,HighMemory"},
	}
	for _, tt := range tests {
		if got := reasonSummary(tt.reasons); got != tt.want {
			t.Errorf("reasonSummary(%v) = %q, want %q", tt.reasons, got, tt.want)
		}
	}
}

func TestStop_MarksNotRunning(t *testing.T) {
	a := &Agent{running: true}
	a.Stop()
	if a.running {
		t.Error("Stop() should clear running")
	}
}
