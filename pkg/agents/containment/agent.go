// Package containment implements the first of the five healing phases:
// sweeping target namespaces for threshold breaches, clustering the
// faults it finds, isolating faulting pods with a NetworkPolicy, and
// negotiating with healthy neighbors to absorb redirected load.
package containment

import (
	"context"
	"sync"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"

	v1alpha1 "github.com/ErdemAslans/ReCiSt/api/recist/v1alpha1"
	"github.com/ErdemAslans/ReCiSt/internal/eventbus"
	obsmetrics "github.com/ErdemAslans/ReCiSt/internal/metrics"
	"github.com/ErdemAslans/ReCiSt/pkg/domain"
	"github.com/ErdemAslans/ReCiSt/pkg/platform/k8s"
	"github.com/ErdemAslans/ReCiSt/pkg/platform/monitoring"
)

// Agent runs the containment sweep loop for one policy's target
// namespaces and tracks the isolation rules it has applied so they can
// be lifted again once a pod heals.
type Agent struct {
	metrics   *monitoring.MetricsCollector
	cluster   *k8s.ClusterAPI
	bus       *eventbus.Bus
	log       logr.Logger
	config    v1alpha1.ContainmentConfig
	threshold v1alpha1.Thresholds

	mu               sync.Mutex
	activeIsolations map[string]domain.IsolationRule
	running          bool
}

// New builds a Containment agent against its collaborators and the
// policy-level sweep configuration.
func New(metrics *monitoring.MetricsCollector, cluster *k8s.ClusterAPI, bus *eventbus.Bus, log logr.Logger, config v1alpha1.ContainmentConfig, thresholds v1alpha1.Thresholds) *Agent {
	return &Agent{
		metrics:          metrics,
		cluster:          cluster,
		bus:              bus,
		log:              log.WithName("containment"),
		config:           config,
		threshold:        thresholds,
		activeIsolations: map[string]domain.IsolationRule{},
	}
}

// reasonsFor checks one pod's metric snapshot against the policy's
// thresholds, returning every reason it breached and the worst
// overshoot ratio among them (used to score severity).
func (a *Agent) reasonsFor(snap domain.PodMetricsSnapshot) ([]domain.TriggerReason, float64) {
	var reasons []domain.TriggerReason
	worst := 0.0

	check := func(value, threshold float64, reason domain.TriggerReason) {
		if threshold <= 0 {
			return
		}
		if value >= threshold {
			reasons = append(reasons, reason)
			if ratio := (value - threshold) / threshold; ratio > worst {
				worst = ratio
			}
		}
	}

	check(snap.CPUUsage, a.threshold.CPU, domain.ReasonHighCPU)
	check(snap.MemoryUsage, a.threshold.Memory, domain.ReasonHighMemory)
	check(snap.LatencyMs, float64(a.threshold.LatencyMs), domain.ReasonHighLatency)
	check(snap.ErrorRate, a.threshold.ErrorRate, domain.ReasonHighErrorRate)

	return reasons, worst
}

// CheckMetrics sweeps every pod in namespace against the configured
// thresholds and returns a cluster of the faults it finds, each stamped
// with the severity ComputeFaultSeverity derives from its reasons and
// metric values.
func (a *Agent) CheckMetrics(ctx context.Context, namespace string) (domain.FaultCluster, error) {
	cluster := domain.NewFaultCluster(namespace)

	names, err := a.cluster.ListPodNames(ctx, namespace)
	if err != nil {
		return cluster, err
	}

	for _, name := range names {
		snap := a.metrics.Snapshot(ctx, namespace, name)
		reasons, _ := a.reasonsFor(snap)
		if len(reasons) == 0 {
			continue
		}

		latencyMs := uint64(snap.LatencyMs)
		fault := domain.NewFault(name, namespace, reasons, domain.TriggerMetrics{
			CPUUsage:    &snap.CPUUsage,
			MemoryUsage: &snap.MemoryUsage,
			LatencyMs:   &latencyMs,
			ErrorRate:   &snap.ErrorRate,
		})
		cluster.AddFault(fault)
	}

	return cluster, nil
}

func (a *Agent) determineIsolationStrategy() domain.IsolationStrategy {
	switch a.config.IsolationStrategy {
	case v1alpha1.IsolationStrategyHard:
		return domain.IsolationStrategyHard
	case v1alpha1.IsolationStrategyAuto:
		return domain.IsolationStrategyAuto
	default:
		return domain.IsolationStrategySoft
	}
}

// IsolatePod creates the quarantine NetworkPolicy for a faulting pod and
// remembers the rule so it can be lifted later.
func (a *Agent) IsolatePod(ctx context.Context, fault domain.Fault) (domain.IsolationRule, error) {
	strategy := a.determineIsolationStrategy()
	rule := domain.NewIsolationRule(fault.PodName, fault.Namespace, strategy, fault.Severity)

	if err := a.cluster.ApplyIsolation(ctx, rule); err != nil {
		return rule, err
	}

	a.mu.Lock()
	a.activeIsolations[fault.Namespace+"/"+fault.PodName] = rule
	a.mu.Unlock()

	a.log.Info("applied isolation", "pod", fault.PodName, "namespace", fault.Namespace, "ruleType", rule.RuleType)
	return rule, nil
}

// RemoveIsolation lifts a previously applied isolation rule, used once a
// pod's healing has been verified.
func (a *Agent) RemoveIsolation(ctx context.Context, namespace, podName string) error {
	if err := a.cluster.RemoveIsolation(ctx, namespace, podName); err != nil {
		return err
	}

	a.mu.Lock()
	delete(a.activeIsolations, namespace+"/"+podName)
	a.mu.Unlock()

	a.log.Info("removed isolation", "pod", podName, "namespace", namespace)
	return nil
}

// NegotiateWithNeighbors snapshots every other pod in namespace and asks
// domain.NegotiateNeighborCapacity which of them can absorb traffic
// redirected away from the faulting pod.
func (a *Agent) NegotiateWithNeighbors(ctx context.Context, faultyPod, namespace string) (domain.NeighborNegotiationResult, error) {
	names, err := a.cluster.ListPodNames(ctx, namespace)
	if err != nil {
		return domain.NeighborNegotiationResult{RequestingPod: faultyPod}, err
	}

	snapshots := a.metrics.SnapshotAll(ctx, namespace, names)
	return domain.NegotiateNeighborCapacity(faultyPod, snapshots, a.config.NeighborCapacityThreshold), nil
}

// RunCheckLoop ticks every CheckIntervalSeconds, sweeping each of the
// given namespaces, isolating any fault it finds, negotiating neighbor
// capacity for it, and publishing a FaultDetected event per incident
// opened. It runs until ctx is cancelled or Stop is called.
func (a *Agent) RunCheckLoop(ctx context.Context, namespaces []string) {
	a.mu.Lock()
	a.running = true
	a.mu.Unlock()

	interval := time.Duration(a.config.CheckIntervalSeconds) * time.Second
	if interval <= 0 {
		interval = 10 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			a.mu.Lock()
			a.running = false
			a.mu.Unlock()
			return
		case <-ticker.C:
			a.mu.Lock()
			stillRunning := a.running
			a.mu.Unlock()
			if !stillRunning {
				return
			}
			for _, ns := range namespaces {
				a.sweepNamespace(ctx, ns)
			}
		}
	}
}

func (a *Agent) sweepNamespace(ctx context.Context, namespace string) {
	timer := obsmetrics.NewTimer("containment")
	defer timer.ObserveDuration("sweep")

	cluster, err := a.CheckMetrics(ctx, namespace)
	if err != nil {
		a.log.Error(err, "containment sweep failed", "namespace", namespace)
		return
	}
	if cluster.IsEmpty() {
		return
	}

	for _, fault := range cluster.Faults {
		correlationID := uuid.New()
		obsmetrics.FaultsDetectedTotal.WithLabelValues(namespace, fault.Severity.String()).Inc()

		if _, err := a.NegotiateWithNeighbors(ctx, fault.PodName, namespace); err != nil {
			a.log.Error(err, "neighbor negotiation failed", "pod", fault.PodName)
		}

		rule, err := a.IsolatePod(ctx, fault)
		if err != nil {
			a.log.Error(err, "isolation failed", "pod", fault.PodName)
			continue
		}
		obsmetrics.ContainmentAppliedTotal.WithLabelValues(namespace, string(rule.RuleType)).Inc()

		if _, err := a.bus.Publish(domain.NewFaultDetectedEvent(correlationID, namespace, fault.PodName, domain.FaultInfo{
			Namespace: namespace,
			PodName:   fault.PodName,
			Severity:  fault.Severity,
			Reason:    reasonSummary(fault.Reasons),
		})); err != nil {
			a.log.Error(err, "failed to publish fault detected event", "pod", fault.PodName)
		}
		if _, err := a.bus.Publish(domain.NewContainmentAppliedEvent(correlationID, namespace, fault.PodName, "isolation applied")); err != nil {
			a.log.Error(err, "failed to publish containment applied event", "pod", fault.PodName)
		}
	}
}

func reasonSummary(reasons []domain.TriggerReason) string {
	if len(reasons) == 0 {
		return ""
	}
	summary := string(reasons[0])
	for _, r := range reasons[1:] {
		summary += "," + string(r)
	}
	return summary
}

// Stop signals RunCheckLoop to exit at its next tick.
func (a *Agent) Stop() {
	a.mu.Lock()
	a.running = false
	a.mu.Unlock()
}

// HandleEvent reacts to events other agents publish. On HealingComplete
// it lifts any isolation still held for the healed pod; unlike the
// original's log-only handling of this transition, this actually calls
// RemoveIsolation so quarantined pods rejoin traffic once verification
// confirms the fault is gone instead of staying isolated until the next
// manual cleanup.
func (a *Agent) HandleEvent(ctx context.Context, event domain.AgentEvent) {
	if event.Kind != domain.EventHealingComplete {
		return
	}

	a.mu.Lock()
	_, held := a.activeIsolations[event.Namespace+"/"+event.PodName]
	a.mu.Unlock()
	if !held {
		return
	}

	if err := a.RemoveIsolation(ctx, event.Namespace, event.PodName); err != nil {
		a.log.Error(err, "failed to lift isolation after healing", "pod", event.PodName, "namespace", event.Namespace)
	}
}

// Watch subscribes to the bus and dispatches every event to HandleEvent
// until ctx is cancelled.
func (a *Agent) Watch(ctx context.Context) {
	events, unsubscribe := a.bus.Subscribe()
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			a.HandleEvent(ctx, event)
		}
	}
}
