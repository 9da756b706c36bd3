// Package metacognitive implements the third and fourth healing phases:
// generating candidate remediation strategies from a diagnosis,
// evaluating them in parallel through bounded micro-agent reasoning
// loops, executing the winning strategy's planned actions, and
// verifying the fault no longer reproduces.
package metacognitive

import (
	"context"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	v1alpha1 "github.com/ErdemAslans/ReCiSt/api/recist/v1alpha1"
	"github.com/ErdemAslans/ReCiSt/internal/eventbus"
	obsmetrics "github.com/ErdemAslans/ReCiSt/internal/metrics"
	"github.com/ErdemAslans/ReCiSt/pkg/ai/llm"
	"github.com/ErdemAslans/ReCiSt/pkg/apierrors"
	"github.com/ErdemAslans/ReCiSt/pkg/domain"
	"github.com/ErdemAslans/ReCiSt/pkg/platform/k8s"
	"github.com/ErdemAslans/ReCiSt/pkg/platform/monitoring"
)

// Agent selects and executes a remediation strategy for a diagnosed
// fault.
type Agent struct {
	client  llm.Client
	cluster *k8s.ClusterAPI
	metrics *monitoring.MetricsCollector
	bus     *eventbus.Bus
	log     logr.Logger
	config  v1alpha1.MetaCognitiveConfig
}

// New builds a Meta-cognitive agent against its collaborators and the
// policy-level micro-agent fan-out configuration.
func New(client llm.Client, cluster *k8s.ClusterAPI, metrics *monitoring.MetricsCollector, bus *eventbus.Bus, log logr.Logger, config v1alpha1.MetaCognitiveConfig) *Agent {
	return &Agent{client: client, cluster: cluster, metrics: metrics, bus: bus, log: log.WithName("metacognitive"), config: config}
}

// candidateKeywords maps a substring found in a diagnosis's root cause
// or explanation to the strategy type it suggests. PodRestart is always
// included as a baseline candidate regardless of keyword match.
var candidateKeywords = []struct {
	keyword  string
	strategy domain.StrategyType
}{
	{"memory", domain.StrategyVerticalScale},
	{"oom", domain.StrategyVerticalScale},
	{"cpu", domain.StrategyHorizontalScale},
	{"load", domain.StrategyHorizontalScale},
	{"capacity", domain.StrategyHorizontalScale},
	{"config", domain.StrategyConfigUpdate},
	{"dependency", domain.StrategyDependencyRestart},
	{"upstream", domain.StrategyDependencyRestart},
	{"downstream", domain.StrategyDependencyRestart},
	{"network", domain.StrategyNetworkIsolation},
	{"connection", domain.StrategyNetworkIsolation},
	{"crash", domain.StrategyPodRestart},
	{"timeout", domain.StrategyPodRestart},
}

// GenerateCandidates derives candidate strategy types from a diagnosis
// hypothesis's root cause and explanation text, always including
// PodRestart as the safe default.
func (a *Agent) GenerateCandidates(hypothesis domain.DiagnosisHypothesis) []domain.StrategyType {
	text := strings.ToLower(hypothesis.RootCause + " " + hypothesis.Explanation)

	seen := map[domain.StrategyType]bool{domain.StrategyPodRestart: true}
	candidates := []domain.StrategyType{domain.StrategyPodRestart}

	for _, ck := range candidateKeywords {
		if !strings.Contains(text, ck.keyword) {
			continue
		}
		if seen[ck.strategy] {
			continue
		}
		seen[ck.strategy] = true
		candidates = append(candidates, ck.strategy)
	}

	max := int(a.config.MaxMicroAgents)
	if max > 0 && len(candidates) > max {
		candidates = candidates[:max]
	}
	return candidates
}

// EvaluateStrategies fans candidates out across one micro-agent per
// strategy type, run concurrently, and returns every result.
func (a *Agent) EvaluateStrategies(ctx context.Context, hypothesis domain.DiagnosisHypothesis, candidates []domain.StrategyType) ([]domain.MicroAgentResult, error) {
	snapshot := a.metrics.Snapshot(ctx, hypothesis.Namespace, hypothesis.PodName)
	metricSnapshots := []llm.MetricSnapshot{
		{Name: "cpu_usage", Value: snapshot.CPUUsage},
		{Name: "memory_usage", Value: snapshot.MemoryUsage},
		{Name: "latency_ms", Value: snapshot.LatencyMs},
		{Name: "error_rate", Value: snapshot.ErrorRate},
	}

	results := make([]domain.MicroAgentResult, len(candidates))
	group, gctx := errgroup.WithContext(ctx)
	for i, strategyType := range candidates {
		i, strategyType := i, strategyType
		group.Go(func() error {
			agent := newMicroAgent(a.client)
			results[i] = agent.evaluate(gctx, strategyType, hypothesis, metricSnapshots, a.config.DecisionThreshold, int(a.config.MaxReasoningDepth))
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// SelectStrategy keeps only the candidates whose confidence clears the
// configured decision threshold and picks the highest-confidence one
// among those, building its planned actions and rollback plan. If no
// candidate clears the threshold, the pipeline fails outright rather
// than falling back to a low-confidence guess, matching the original's
// "No strategy met confidence threshold" error.
func (a *Agent) SelectStrategy(results []domain.MicroAgentResult, hypothesis domain.DiagnosisHypothesis) (domain.SolutionStrategy, error) {
	if len(results) == 0 {
		return domain.SolutionStrategy{}, apierrors.Internal("no strategy candidates evaluated")
	}

	var best *domain.MicroAgentResult
	for i := range results {
		r := results[i]
		if r.Evaluation.SuccessProbability < a.config.DecisionThreshold {
			continue
		}
		if best == nil || r.Evaluation.SuccessProbability > best.Evaluation.SuccessProbability {
			best = &r
		}
	}
	if best == nil {
		return domain.SolutionStrategy{}, apierrors.Healing("no-strategy-met-threshold: no candidate strategy cleared the confidence threshold")
	}

	strategyType := best.Evaluation.StrategyType
	actions, rollback := a.buildPlan(strategyType, hypothesis)

	return domain.SolutionStrategy{
		ID:             uuid.New(),
		Type:           strategyType,
		Risk:           domain.RiskLevelFor(strategyType),
		EstimatedTime:  domain.EstimatedDurationFor(strategyType),
		PlannedActions: actions,
		RollbackPlan:   rollback,
		Confidence:     best.Evaluation.SuccessProbability,
	}, nil
}

// deploymentNameFromPod infers a workload's Deployment name from its
// pod name by trimming the last two dash-delimited segments (the
// ReplicaSet hash and the pod's own suffix). This mirrors the original
// implementation's inference exactly, including its failure mode against
// StatefulSet pods and Deployments whose own name contains a dash
// (tracked as a known open question rather than "fixed" here, since the
// rest of the pipeline assumes this same inference).
func deploymentNameFromPod(podName string) string {
	parts := strings.Split(podName, "-")
	if len(parts) <= 2 {
		return podName
	}
	return strings.Join(parts[:len(parts)-2], "-")
}

func (a *Agent) buildPlan(strategyType domain.StrategyType, hypothesis domain.DiagnosisHypothesis) ([]domain.PlannedAction, domain.RollbackPlan) {
	namespace := hypothesis.Namespace
	pod := hypothesis.PodName
	deployment := deploymentNameFromPod(pod)

	switch domain.ToActionType(strategyType) {
	case domain.ActionRestartPod:
		return []domain.PlannedAction{{
				Type:        domain.ActionRestartPod,
				Target:      domain.ActionTarget{Kind: domain.ResourcePod, Namespace: namespace, Name: pod},
				Description: "delete pod to trigger a restart under its owning controller",
			}}, domain.RollbackPlan{Actions: []domain.RollbackAction{{
				Type:   domain.RollbackNone,
				Target: domain.ActionTarget{Kind: domain.ResourcePod, Namespace: namespace, Name: pod},
			}}}

	case domain.ActionScaleDeployment:
		return []domain.PlannedAction{{
				Type:        domain.ActionScaleDeployment,
				Target:      domain.ActionTarget{Kind: domain.ResourceDeployment, Namespace: namespace, Name: deployment},
				Parameters:  map[string]string{"replicas": "scale_up"},
				Description: "scale deployment " + deployment + " up by one replica",
			}}, domain.RollbackPlan{Actions: []domain.RollbackAction{{
				Type:       domain.RollbackRestorePodCount,
				Target:     domain.ActionTarget{Kind: domain.ResourceDeployment, Namespace: namespace, Name: deployment},
				Parameters: map[string]string{"replicas": "restore"},
			}}}

	case domain.ActionPatchResources:
		return []domain.PlannedAction{{
				Type:        domain.ActionPatchResources,
				Target:      domain.ActionTarget{Kind: domain.ResourceDeployment, Namespace: namespace, Name: deployment},
				Parameters:  map[string]string{"scope": "vertical"},
				Description: "increase resource requests/limits on deployment " + deployment,
			}}, domain.RollbackPlan{Actions: []domain.RollbackAction{{
				Type:   domain.RollbackRestoreResources,
				Target: domain.ActionTarget{Kind: domain.ResourceDeployment, Namespace: namespace, Name: deployment},
			}}}

	case domain.ActionUpdateConfigMap:
		return []domain.PlannedAction{{
				Type:        domain.ActionUpdateConfigMap,
				Target:      domain.ActionTarget{Kind: domain.ResourceConfigMap, Namespace: namespace, Name: deployment + "-config"},
				Description: "apply recommended configuration change for " + deployment,
			}}, domain.RollbackPlan{Actions: []domain.RollbackAction{{
				Type:   domain.RollbackRestoreConfigMap,
				Target: domain.ActionTarget{Kind: domain.ResourceConfigMap, Namespace: namespace, Name: deployment + "-config"},
			}}}

	case domain.ActionApplyNetworkPolicy:
		return []domain.PlannedAction{{
				Type:        domain.ActionApplyNetworkPolicy,
				Target:      domain.ActionTarget{Kind: domain.ResourcePod, Namespace: namespace, Name: pod},
				Description: "isolation already applied by containment",
			}}, domain.RollbackPlan{Actions: []domain.RollbackAction{{
				Type:   domain.RollbackRemoveNetworkPolicy,
				Target: domain.ActionTarget{Kind: domain.ResourcePod, Namespace: namespace, Name: pod},
			}}}

	default:
		return []domain.PlannedAction{{Type: domain.ActionNoop, Target: domain.ActionTarget{Kind: domain.ResourcePod, Namespace: namespace, Name: pod}}},
			domain.RollbackPlan{Actions: []domain.RollbackAction{{Type: domain.RollbackNone, Target: domain.ActionTarget{Kind: domain.ResourcePod, Namespace: namespace, Name: pod}}}}
	}
}

// Execute runs every planned action of a strategy in order, stopping at
// the first failure so later actions don't compound a bad state.
func (a *Agent) Execute(ctx context.Context, strategy domain.SolutionStrategy) domain.ActionResult {
	start := time.Now()
	for _, action := range strategy.PlannedActions {
		if err := a.executeAction(ctx, action); err != nil {
			return domain.ActionResult{
				ActionType: action.Type,
				Success:    false,
				Message:    err.Error(),
				ExecutedAt: start,
				DurationMs: time.Since(start).Milliseconds(),
			}
		}
	}
	return domain.ActionResult{
		ActionType: domain.ToActionType(strategy.Type),
		Success:    true,
		Message:    "strategy executed",
		ExecutedAt: start,
		DurationMs: time.Since(start).Milliseconds(),
	}
}

func (a *Agent) executeAction(ctx context.Context, action domain.PlannedAction) error {
	switch action.Type {
	case domain.ActionRestartPod:
		return a.cluster.DeletePod(ctx, action.Target.Namespace, action.Target.Name)
	case domain.ActionScaleDeployment:
		return a.cluster.ScaleDeployment(ctx, action.Target.Namespace, action.Target.Name, 0)
	case domain.ActionPatchResources:
		patch := `{"spec":{"template":{"spec":{"containers":[{"name":"` + action.Target.Name + `","resources":{"requests":{"cpu":"500m","memory":"512Mi"},"limits":{"cpu":"1000m","memory":"1Gi"}}}]}}}}`
		return a.cluster.PatchResources(ctx, action.Target.Namespace, action.Target.Name, []byte(patch))
	case domain.ActionUpdateConfigMap:
		return a.cluster.UpdateConfigMap(ctx, action.Target.Namespace, action.Target.Name, action.Parameters)
	case domain.ActionApplyNetworkPolicy, domain.ActionNoop:
		return nil
	default:
		return apierrors.Internal("unknown action type %s", action.Type)
	}
}

// VerifyHealing waits VerificationWaitSeconds and then checks whether
// the target pod is healthy again: Running with every container ready.
// A pod that can no longer be found is
// treated as a successful restart (its owning controller already
// replaced it), matching the original's 404-as-success verification.
func (a *Agent) VerifyHealing(ctx context.Context, namespace, podName string) (bool, error) {
	wait := time.Duration(a.config.VerificationWaitSeconds) * time.Second
	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case <-time.After(wait):
	}

	pod, err := a.cluster.GetPod(ctx, namespace, podName)
	if err != nil {
		if apierrors.IsKind(err, apierrors.KindNotFound) {
			return true, nil
		}
		return false, err
	}
	if pod.Status.Phase != "Running" {
		return false, nil
	}
	for _, cs := range pod.Status.ContainerStatuses {
		if !cs.Ready {
			return false, nil
		}
	}
	return true, nil
}

// SelectAndExecute drives strategy selection and execution for one
// diagnosed incident, publishing StrategySelected and HealingStarted as
// it goes. It deliberately stops short of verification so the reconciler
// can persist the chosen strategy and executed result to the status
// subresource between reconcile ticks before asking CompleteVerification
// to finish the incident on a later tick.
func (a *Agent) SelectAndExecute(ctx context.Context, correlationID uuid.UUID, hypothesis domain.DiagnosisHypothesis) (domain.SolutionStrategy, domain.ActionResult, error) {
	timer := obsmetrics.NewTimer("metacognitive")
	defer timer.ObserveDuration("select_and_execute")

	candidates := a.GenerateCandidates(hypothesis)
	results, err := a.EvaluateStrategies(ctx, hypothesis, candidates)
	if err != nil {
		return domain.SolutionStrategy{}, domain.ActionResult{}, err
	}

	strategy, err := a.SelectStrategy(results, hypothesis)
	if err != nil {
		return domain.SolutionStrategy{}, domain.ActionResult{}, err
	}
	if _, err := a.bus.Publish(domain.NewStrategySelectedEvent(correlationID, hypothesis.Namespace, hypothesis.PodName, strategy)); err != nil {
		a.log.Error(err, "failed to publish strategy selected event", "pod", hypothesis.PodName)
	}
	if _, err := a.bus.Publish(domain.NewHealingStartedEvent(correlationID, hypothesis.Namespace, hypothesis.PodName)); err != nil {
		a.log.Error(err, "failed to publish healing started event", "pod", hypothesis.PodName)
	}

	result := a.Execute(ctx, strategy)
	return strategy, result, nil
}

// CompleteVerification waits out the verification window and checks
// whether the target pod is healthy again, folding the outcome into
// result and publishing HealingComplete or HealingFailed.
func (a *Agent) CompleteVerification(ctx context.Context, correlationID uuid.UUID, namespace, podName string, result domain.ActionResult) domain.ActionResult {
	if !result.Success {
		obsmetrics.HealingAttemptsTotal.WithLabelValues(namespace, string(result.ActionType), "failure").Inc()
		if _, pubErr := a.bus.Publish(domain.NewHealingFailedEvent(correlationID, namespace, podName, result.Message)); pubErr != nil {
			a.log.Error(pubErr, "failed to publish healing failed event", "pod", podName)
		}
		return result
	}

	healthy, err := a.VerifyHealing(ctx, namespace, podName)
	if err != nil || !healthy {
		result.Success = false
		result.Message = "verification failed"
		if err != nil {
			result.Message = err.Error()
		}
		obsmetrics.HealingAttemptsTotal.WithLabelValues(namespace, string(result.ActionType), "failure").Inc()
		if _, pubErr := a.bus.Publish(domain.NewHealingFailedEvent(correlationID, namespace, podName, result.Message)); pubErr != nil {
			a.log.Error(pubErr, "failed to publish healing failed event", "pod", podName)
		}
		return result
	}

	obsmetrics.HealingAttemptsTotal.WithLabelValues(namespace, string(result.ActionType), "success").Inc()
	if _, err := a.bus.Publish(domain.NewHealingCompleteEvent(correlationID, namespace, podName, result)); err != nil {
		a.log.Error(err, "failed to publish healing complete event", "pod", podName)
	}
	return result
}
