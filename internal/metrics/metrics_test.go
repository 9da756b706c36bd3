package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewTimer(t *testing.T) {
	timer := NewTimer("containment")
	if timer.start.IsZero() {
		t.Error("NewTimer() start time is zero")
	}
	if timer.agent != "containment" {
		t.Errorf("NewTimer().agent = %q, want %q", timer.agent, "containment")
	}
}

func TestTimer_ObserveDurationRecordsAgainstTheLabelledHistogram(t *testing.T) {
	before := testutil.CollectAndCount(AgentLatencySeconds)

	timer := NewTimer("diagnosis")
	time.Sleep(10 * time.Millisecond)
	elapsed := timer.ObserveDuration("diagnose")

	if elapsed < 10*time.Millisecond {
		t.Errorf("ObserveDuration() = %v, want >= 10ms", elapsed)
	}
	if after := testutil.CollectAndCount(AgentLatencySeconds); after <= before {
		t.Errorf("CollectAndCount(AgentLatencySeconds) = %d, want more than %d after observing", after, before)
	}
}

func TestCounters_IncrementPerLabelSet(t *testing.T) {
	FaultsDetectedTotal.WithLabelValues("prod", "High").Inc()
	if got := testutil.ToFloat64(FaultsDetectedTotal.WithLabelValues("prod", "High")); got < 1 {
		t.Errorf("FaultsDetectedTotal{prod,High} = %v, want >= 1", got)
	}

	ContainmentAppliedTotal.WithLabelValues("prod", "DenyIngress").Inc()
	if got := testutil.ToFloat64(ContainmentAppliedTotal.WithLabelValues("prod", "DenyIngress")); got < 1 {
		t.Errorf("ContainmentAppliedTotal{prod,DenyIngress} = %v, want >= 1", got)
	}

	HealingAttemptsTotal.WithLabelValues("prod", "restart_pod", "success").Inc()
	if got := testutil.ToFloat64(HealingAttemptsTotal.WithLabelValues("prod", "restart_pod", "success")); got < 1 {
		t.Errorf("HealingAttemptsTotal{prod,restart_pod,success} = %v, want >= 1", got)
	}

	KnowledgeEntriesTotal.WithLabelValues("prod").Inc()
	if got := testutil.ToFloat64(KnowledgeEntriesTotal.WithLabelValues("prod")); got < 1 {
		t.Errorf("KnowledgeEntriesTotal{prod} = %v, want >= 1", got)
	}
}

func TestHandler_ServesRecistMetrics(t *testing.T) {
	FaultsDetectedTotal.WithLabelValues("staging", "Medium").Inc()

	req := httptest.NewRequest("GET", "/recist-metrics", nil)
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("Handler() status = %d, want 200", rec.Code)
	}
	if body := rec.Body.String(); !strings.Contains(body, "recist_faults_detected_total") {
		t.Error("expected recist_faults_detected_total in the served metrics body")
	}
}
