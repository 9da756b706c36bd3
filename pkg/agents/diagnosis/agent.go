// Package diagnosis implements the second healing phase: correlating a
// faulting pod's logs, metrics, and Kubernetes events into a causal
// graph, then handing that evidence to an LLM to produce a root-cause
// hypothesis.
package diagnosis

import (
	"context"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"

	v1alpha1 "github.com/ErdemAslans/ReCiSt/api/recist/v1alpha1"
	"github.com/ErdemAslans/ReCiSt/internal/eventbus"
	obsmetrics "github.com/ErdemAslans/ReCiSt/internal/metrics"
	"github.com/ErdemAslans/ReCiSt/pkg/ai/llm"
	"github.com/ErdemAslans/ReCiSt/pkg/domain"
	"github.com/ErdemAslans/ReCiSt/pkg/platform/k8s"
	"github.com/ErdemAslans/ReCiSt/pkg/platform/monitoring"
)

// Agent gathers evidence for one faulting pod and produces a diagnosis
// hypothesis from it.
type Agent struct {
	logs    *monitoring.LogBackend
	metrics *monitoring.MetricsCollector
	cluster *k8s.ClusterAPI
	llm     llm.Client
	bus     *eventbus.Bus
	log     logr.Logger
	config  v1alpha1.DiagnosisConfig
}

// New builds a Diagnosis agent against its collaborators and the
// policy-level evidence-collection configuration.
func New(logs *monitoring.LogBackend, metrics *monitoring.MetricsCollector, cluster *k8s.ClusterAPI, client llm.Client, bus *eventbus.Bus, log logr.Logger, config v1alpha1.DiagnosisConfig) *Agent {
	return &Agent{
		logs:    logs,
		metrics: metrics,
		cluster: cluster,
		llm:     client,
		bus:     bus,
		log:     log.WithName("diagnosis"),
		config:  config,
	}
}

// Diagnose collects logs, metrics, and events for podName, builds a
// causal tree from the logs, calls the LLM for a root-cause hypothesis,
// and assembles the result. correlationID ties the emitted events back
// to the incident containment opened.
func (a *Agent) Diagnose(ctx context.Context, correlationID uuid.UUID, namespace, podName string, errorType string) (domain.DiagnosisHypothesis, error) {
	timer := obsmetrics.NewTimer("diagnosis")
	defer timer.ObserveDuration("diagnose")

	if _, err := a.bus.Publish(domain.NewDiagnosisStartedEvent(correlationID, namespace, podName)); err != nil {
		a.log.Error(err, "failed to publish diagnosis started event", "pod", podName)
	}

	lookback := time.Duration(a.config.LogLookbackMinutes) * time.Minute
	maxLines := int(a.config.MaxLogLines)

	structuredLogs, err := a.logs.QueryRange(ctx, namespace, podName, lookback, maxLines)
	if err != nil {
		a.log.Error(err, "failed to collect logs", "pod", podName, "namespace", namespace)
	}

	events, err := a.cluster.RecentEvents(ctx, namespace, podName, lookback)
	if err != nil {
		a.log.Error(err, "failed to collect events", "pod", podName, "namespace", namespace)
	}

	snapshot := a.metrics.Snapshot(ctx, namespace, podName)
	metricSnapshots := []llm.MetricSnapshot{
		{Name: "cpu_usage", Value: snapshot.CPUUsage},
		{Name: "memory_usage", Value: snapshot.MemoryUsage},
		{Name: "latency_ms", Value: snapshot.LatencyMs},
		{Name: "error_rate", Value: snapshot.ErrorRate},
	}

	causalTree := domain.NewCausalTree(structuredLogs)

	logLines := make([]string, 0, len(structuredLogs))
	for _, l := range structuredLogs {
		logLines = append(logLines, string(l.Level)+" "+l.Message)
	}

	response, err := a.llm.Diagnose(ctx, llm.DiagnosisRequest{
		Logs:             logLines,
		Metrics:          metricSnapshots,
		KubernetesEvents: events,
		PodName:          podName,
		Namespace:        namespace,
		ErrorType:        errorType,
	})
	if err != nil {
		return domain.DiagnosisHypothesis{}, err
	}

	evidence := make([]domain.Evidence, 0, len(response.Evidence))
	for _, e := range response.Evidence {
		evidence = append(evidence, domain.Evidence{Source: domain.EvidenceSourceLog, Description: e, Confidence: response.Confidence})
	}

	hypothesis := domain.DiagnosisHypothesis{
		ID:               uuid.New(),
		Namespace:        namespace,
		PodName:          podName,
		RootCause:        response.RootCause,
		Confidence:       response.Confidence,
		Evidence:         evidence,
		Explanation:      response.Explanation,
		SuggestedActions: response.SuggestedActions,
		CausalTree:       causalTree,
		CreatedAt:        time.Now(),
	}

	if hypothesis.Confidence < a.config.ConfidenceThreshold {
		a.log.Info("diagnosis confidence below threshold", "pod", podName, "namespace", namespace,
			"confidence", hypothesis.Confidence, "threshold", a.config.ConfidenceThreshold)
	}

	if _, err := a.bus.Publish(domain.NewDiagnosisCompleteEvent(correlationID, namespace, podName, hypothesis)); err != nil {
		a.log.Error(err, "failed to publish diagnosis complete event", "pod", podName)
	}
	return hypothesis, nil
}
