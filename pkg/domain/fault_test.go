package domain

import "testing"

func f64Ptr(v float64) *float64 { return &v }

func TestComputeFaultSeverity(t *testing.T) {
	tests := []struct {
		name     string
		reasons  []TriggerReason
		metrics  TriggerMetrics
		expected FaultSeverity
	}{
		{"oom-killed is always critical", []TriggerReason{ReasonOomKilled}, TriggerMetrics{}, SeverityCritical},
		{"crash-loop is always critical", []TriggerReason{ReasonCrashLoop}, TriggerMetrics{}, SeverityCritical},
		{"oom-killed outranks a low error rate", []TriggerReason{ReasonOomKilled, ReasonHighCPU}, TriggerMetrics{ErrorRate: f64Ptr(0.01)}, SeverityCritical},
		{"error rate above 0.5 is critical", []TriggerReason{ReasonHighErrorRate}, TriggerMetrics{ErrorRate: f64Ptr(0.6)}, SeverityCritical},
		{"error rate above 0.2 is high", []TriggerReason{ReasonHighErrorRate}, TriggerMetrics{ErrorRate: f64Ptr(0.3)}, SeverityHigh},
		{"cpu above 0.95 is high", []TriggerReason{ReasonHighCPU}, TriggerMetrics{CPUUsage: f64Ptr(0.96)}, SeverityHigh},
		{"memory above 0.95 is high", []TriggerReason{ReasonHighMemory}, TriggerMetrics{MemoryUsage: f64Ptr(0.99)}, SeverityHigh},
		{"scenario 1: cpu=0.95 over a 0.9 threshold is medium", []TriggerReason{ReasonHighCPU}, TriggerMetrics{CPUUsage: f64Ptr(0.95)}, SeverityMedium},
		{"no metrics set falls back to medium", []TriggerReason{ReasonHighLatency}, TriggerMetrics{}, SeverityMedium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComputeFaultSeverity(tt.reasons, tt.metrics); got != tt.expected {
				t.Errorf("ComputeFaultSeverity(%v, %+v) = %v, want %v", tt.reasons, tt.metrics, got, tt.expected)
			}
		})
	}
}

func TestFaultSeverity_String(t *testing.T) {
	tests := []struct {
		severity FaultSeverity
		expected string
	}{
		{SeverityLow, "Low"},
		{SeverityMedium, "Medium"},
		{SeverityHigh, "High"},
		{SeverityCritical, "Critical"},
		{FaultSeverity(99), "Low"},
	}
	for _, tt := range tests {
		if got := tt.severity.String(); got != tt.expected {
			t.Errorf("String() = %q, want %q", got, tt.expected)
		}
	}
}

func TestNewIsolationRule(t *testing.T) {
	tests := []struct {
		name     string
		strategy IsolationStrategy
		severity FaultSeverity
		expected IsolationRuleType
	}{
		{"soft stays soft", IsolationStrategySoft, SeverityCritical, IsolationDenyIngress},
		{"hard stays hard", IsolationStrategyHard, SeverityLow, IsolationDenyAll},
		{"auto resolves to hard at critical", IsolationStrategyAuto, SeverityCritical, IsolationDenyAll},
		{"auto resolves to soft below critical", IsolationStrategyAuto, SeverityHigh, IsolationDenyIngress},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := NewIsolationRule("web-0", "prod", tt.strategy, tt.severity)
			if rule.RuleType != tt.expected {
				t.Errorf("RuleType = %v, want %v", rule.RuleType, tt.expected)
			}
			if rule.NetworkPolicyName != "recist-isolate-web-0" {
				t.Errorf("NetworkPolicyName = %q, want %q", rule.NetworkPolicyName, "recist-isolate-web-0")
			}
		})
	}
}

func TestFaultCluster(t *testing.T) {
	cluster := NewFaultCluster("prod")
	if !cluster.IsEmpty() {
		t.Fatal("a freshly built cluster should be empty")
	}

	cluster.AddFault(NewFault("web-0", "prod", []TriggerReason{ReasonHighCPU}, TriggerMetrics{}))
	if cluster.IsEmpty() {
		t.Fatal("a cluster with one fault should not be empty")
	}
	if len(cluster.Faults) != 1 {
		t.Errorf("len(Faults) = %d, want 1", len(cluster.Faults))
	}
}

func TestNegotiateNeighborCapacity(t *testing.T) {
	neighbors := []PodMetricsSnapshot{
		{PodName: "web-0", CPUUsage: 0.95, MemoryUsage: 0.2},
		{PodName: "web-1", CPUUsage: 0.1, MemoryUsage: 0.2},
		{PodName: "web-2", CPUUsage: 0.5, MemoryUsage: 0.91},
		{PodName: "web-3", CPUUsage: 0.3, MemoryUsage: 0.3},
	}

	result := NegotiateNeighborCapacity("web-0", neighbors, 0.7)

	if result.RequestingPod != "web-0" {
		t.Errorf("RequestingPod = %q, want web-0", result.RequestingPod)
	}

	acceptedNames := map[string]bool{}
	for _, a := range result.Accepting {
		acceptedNames[a.PodName] = true
		if a.AcceptedLoadFraction < 0 || a.AcceptedLoadFraction > 0.5 {
			t.Errorf("AcceptedLoadFraction for %s = %v, want in [0, 0.5]", a.PodName, a.AcceptedLoadFraction)
		}
	}
	if !acceptedNames["web-1"] || !acceptedNames["web-3"] {
		t.Errorf("expected web-1 and web-3 to accept load, got %+v", result.Accepting)
	}

	rejectedNames := map[string]bool{}
	for _, r := range result.Rejected {
		rejectedNames[r.PodName] = true
	}
	if !rejectedNames["web-2"] {
		t.Errorf("expected web-2 (high memory usage) to be rejected, got %+v", result.Rejected)
	}

	for _, name := range []string{"web-0", "web-1", "web-2", "web-3"} {
		if name == "web-0" {
			if acceptedNames[name] || rejectedNames[name] {
				t.Error("the requesting pod must not appear in its own negotiation result")
			}
		}
	}
}
