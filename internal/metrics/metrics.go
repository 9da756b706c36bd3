// Package metrics exposes the controller's own healing counters and
// agent latencies on the manager's /metrics endpoint, alongside the
// controller-runtime metrics controller-runtime itself registers there.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	ctrlmetrics "sigs.k8s.io/controller-runtime/pkg/metrics"
)

var (
	// FaultsDetectedTotal counts faults the containment agent has found
	// during a sweep, by namespace and severity.
	FaultsDetectedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recist_faults_detected_total",
			Help: "Total number of faults detected by the containment sweep",
		},
		[]string{"namespace", "severity"},
	)

	// ContainmentAppliedTotal counts isolation rules applied, by namespace
	// and rule type.
	ContainmentAppliedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recist_containment_applied_total",
			Help: "Total number of isolation rules applied by the containment agent",
		},
		[]string{"namespace", "rule_type"},
	)

	// HealingAttemptsTotal counts every strategy execution the
	// meta-cognitive agent drives to completion, by namespace, strategy
	// type, and outcome (success/failure).
	HealingAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recist_healing_attempts_total",
			Help: "Total number of healing strategy executions, by strategy type and outcome",
		},
		[]string{"namespace", "strategy", "outcome"},
	)

	// KnowledgeEntriesTotal counts knowledge base entries recorded after
	// an incident closes.
	KnowledgeEntriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recist_knowledge_entries_total",
			Help: "Total number of knowledge entries recorded",
		},
		[]string{"namespace"},
	)

	// AgentLatencySeconds tracks how long each agent phase takes, by
	// agent name and operation.
	AgentLatencySeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recist_agent_latency_seconds",
			Help:    "Time spent in each agent's operations, in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"agent", "operation"},
	)
)

func init() {
	ctrlmetrics.Registry.MustRegister(
		FaultsDetectedTotal,
		ContainmentAppliedTotal,
		HealingAttemptsTotal,
		KnowledgeEntriesTotal,
		AgentLatencySeconds,
	)
}

// Handler serves recist_* metrics straight off ctrlmetrics.Registry
// through promhttp. Wired onto the manager's metrics server as an
// ExtraHandler, so the controller's counters and latencies are also
// reachable at a fixed path of their own on that same server.
func Handler() http.Handler {
	return promhttp.HandlerFor(ctrlmetrics.Registry, promhttp.HandlerOpts{})
}

// Timer measures the duration of an in-flight agent operation and
// records it against AgentLatencySeconds when stopped.
type Timer struct {
	start time.Time
	agent string
}

// NewTimer starts timing an operation for the named agent.
func NewTimer(agent string) *Timer {
	return &Timer{start: time.Now(), agent: agent}
}

// ObserveDuration records the elapsed time against the given operation
// label and returns it.
func (t *Timer) ObserveDuration(operation string) time.Duration {
	elapsed := time.Since(t.start)
	AgentLatencySeconds.WithLabelValues(t.agent, operation).Observe(elapsed.Seconds())
	return elapsed
}
