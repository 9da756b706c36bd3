package controller

import (
	"context"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"

	v1alpha1 "github.com/ErdemAslans/ReCiSt/api/recist/v1alpha1"
	"github.com/ErdemAslans/ReCiSt/pkg/domain"
	"github.com/ErdemAslans/ReCiSt/pkg/notify"
)

// requeue durations mirror the original reconciler's fixed tick and
// error backoff for HealingEvent objects: a short tick while an incident
// is active, a longer one after an error.
const (
	healingEventRequeueAfter      = 5 * time.Second
	healingEventErrorRequeueAfter = 30 * time.Second
)

// HealingEventReconciler advances one HealingEvent exactly one phase per
// reconcile call — the original implementation only moves the state
// machine forward on a timer tick rather than cascading every eligible
// transition within a single reconcile, and this preserves that
// behavior rather than "fixing" it into a tight loop.
type HealingEventReconciler struct {
	client.Client
	Coordinator *Coordinator
	Log         logr.Logger
	Notifier    *notify.SlackNotifier
}

// Reconcile implements the controller-runtime Reconciler interface.
func (r *HealingEventReconciler) Reconcile(ctx context.Context, req ctrl.Request) (ctrl.Result, error) {
	var event v1alpha1.HealingEvent
	if err := r.Get(ctx, req.NamespacedName, &event); err != nil {
		return ctrl.Result{}, client.IgnoreNotFound(err)
	}

	if event.Status.Phase == "" {
		event.Status.Phase = v1alpha1.PhasePending
	}
	if event.Status.Phase == v1alpha1.PhaseCompleted || event.Status.Phase == v1alpha1.PhaseFailed {
		return ctrl.Result{}, nil
	}

	correlationID := correlationIDFor(event)

	var err error
	switch event.Status.Phase {
	case v1alpha1.PhasePending:
		err = r.advanceToContaining(&event)
	case v1alpha1.PhaseContaining:
		err = r.advanceToDiagnosing(&event)
	case v1alpha1.PhaseDiagnosing:
		err = r.runDiagnosis(ctx, correlationID, &event)
	case v1alpha1.PhaseHealing:
		err = r.runHealing(ctx, correlationID, &event)
	case v1alpha1.PhaseVerifying:
		err = r.finalizeOutcome(ctx, correlationID, &event)
	}

	if statusErr := r.Status().Update(ctx, &event); statusErr != nil {
		return ctrl.Result{RequeueAfter: healingEventErrorRequeueAfter}, statusErr
	}
	if err != nil {
		r.Log.Error(err, "healing event reconcile step failed", "name", req.Name, "phase", event.Status.Phase)
		return ctrl.Result{RequeueAfter: healingEventErrorRequeueAfter}, nil
	}

	if event.Status.Phase == v1alpha1.PhaseCompleted || event.Status.Phase == v1alpha1.PhaseFailed {
		return ctrl.Result{}, nil
	}
	return ctrl.Result{RequeueAfter: healingEventRequeueAfter}, nil
}

func correlationIDFor(event v1alpha1.HealingEvent) uuid.UUID {
	if id, err := uuid.Parse(string(event.UID)); err == nil {
		return id
	}
	return uuid.New()
}

func (r *HealingEventReconciler) advanceToContaining(event *v1alpha1.HealingEvent) error {
	now := metav1.Now()
	event.Status.StartTime = &now
	event.Status.Phase = v1alpha1.PhaseContaining
	return nil
}

func (r *HealingEventReconciler) advanceToDiagnosing(event *v1alpha1.HealingEvent) error {
	event.Status.Phase = v1alpha1.PhaseDiagnosing
	return nil
}

func (r *HealingEventReconciler) runDiagnosis(ctx context.Context, correlationID uuid.UUID, event *v1alpha1.HealingEvent) error {
	hypothesis, err := r.Coordinator.Diagnosis.Diagnose(ctx, correlationID, event.Spec.TargetNamespace, event.Spec.TargetPod, string(event.Spec.TriggerReason))
	if err != nil {
		event.Status.Phase = v1alpha1.PhaseFailed
		return err
	}

	event.Status.Diagnosis = &v1alpha1.DiagnosisResult{
		Hypothesis:  hypothesis.Explanation,
		Confidence:  hypothesis.Confidence,
		RootCause:   hypothesis.RootCause,
		Evidence:    evidenceDescriptions(hypothesis.Evidence),
		RelatedLogs: hypothesis.CausalTree.GetRootCauseChain(),
	}
	event.Status.Phase = v1alpha1.PhaseHealing
	return nil
}

func evidenceDescriptions(evidence []domain.Evidence) []string {
	descriptions := make([]string, 0, len(evidence))
	for _, e := range evidence {
		descriptions = append(descriptions, e.Description)
	}
	return descriptions
}

func (r *HealingEventReconciler) runHealing(ctx context.Context, correlationID uuid.UUID, event *v1alpha1.HealingEvent) error {
	hypothesis := hypothesisFromStatus(*event)

	strategy, result, err := r.Coordinator.MetaCognitive.SelectAndExecute(ctx, correlationID, hypothesis)
	if err != nil {
		event.Status.Phase = v1alpha1.PhaseFailed
		return err
	}

	event.Status.AppliedActions = append(event.Status.AppliedActions, v1alpha1.AppliedAction{
		ActionType:   actionOutcomeType(result.ActionType),
		Timestamp:    time.Now().Format(time.RFC3339),
		Result:       actionOutcome(result.Success),
		Details:      result.Message,
		RollbackInfo: string(strategy.Type),
	})
	event.Status.Phase = v1alpha1.PhaseVerifying
	return nil
}

func hypothesisFromStatus(event v1alpha1.HealingEvent) domain.DiagnosisHypothesis {
	hypothesis := domain.DiagnosisHypothesis{
		Namespace: event.Spec.TargetNamespace,
		PodName:   event.Spec.TargetPod,
	}
	if event.Status.Diagnosis != nil {
		hypothesis.RootCause = event.Status.Diagnosis.RootCause
		hypothesis.Confidence = event.Status.Diagnosis.Confidence
		hypothesis.Explanation = event.Status.Diagnosis.Hypothesis
	}
	return hypothesis
}

func actionOutcomeType(t domain.ActionType) v1alpha1.ActionType {
	switch t {
	case domain.ActionRestartPod:
		return v1alpha1.ActionTypePodRestart
	case domain.ActionScaleDeployment:
		return v1alpha1.ActionTypeHorizontalScale
	case domain.ActionPatchResources:
		return v1alpha1.ActionTypeVerticalScale
	case domain.ActionUpdateConfigMap:
		return v1alpha1.ActionTypeConfigUpdate
	case domain.ActionApplyNetworkPolicy:
		return v1alpha1.ActionTypeNetworkIsolation
	default:
		return v1alpha1.ActionTypePodRestart
	}
}

func actionOutcome(success bool) v1alpha1.ActionOutcome {
	if success {
		return v1alpha1.ActionOutcomeSuccess
	}
	return v1alpha1.ActionOutcomeFailed
}

func (r *HealingEventReconciler) finalizeOutcome(ctx context.Context, correlationID uuid.UUID, event *v1alpha1.HealingEvent) error {
	if len(event.Status.AppliedActions) == 0 {
		event.Status.Phase = v1alpha1.PhaseFailed
		return nil
	}
	last := event.Status.AppliedActions[len(event.Status.AppliedActions)-1]

	hypothesis := hypothesisFromStatus(*event)
	result := r.Coordinator.MetaCognitive.CompleteVerification(ctx, correlationID, event.Spec.TargetNamespace, event.Spec.TargetPod, domain.ActionResult{
		ActionType: domainActionType(last.ActionType),
		Success:    last.Result == v1alpha1.ActionOutcomeSuccess,
		Message:    last.Details,
	})

	now := metav1.Now()
	event.Status.EndTime = &now
	if event.Status.StartTime != nil {
		durationMs := now.Sub(event.Status.StartTime.Time).Milliseconds()
		event.Status.DurationMs = &durationMs
	}
	event.Status.Outcome = &v1alpha1.HealingOutcome{
		Success:            result.Success,
		Message:            outcomeMessage(result.Success),
		VerificationMethod: "pod-existence-check",
	}

	strategy := domain.SolutionStrategy{
		Type:           domain.StrategyType(last.RollbackInfo),
		PlannedActions: []domain.PlannedAction{{Type: domainActionType(last.ActionType), Description: last.Details}},
	}
	if entry, err := r.Coordinator.Knowledge.RecordHealingEvent(ctx, correlationID, hypothesis, strategy, result); err == nil {
		event.Status.KnowledgeEntryID = entry.ID.String()
	}

	r.notifyOutcome(ctx, *event, result)

	if result.Success {
		event.Status.Phase = v1alpha1.PhaseCompleted
	} else {
		event.Status.Phase = v1alpha1.PhaseFailed
	}
	return nil
}

func (r *HealingEventReconciler) notifyOutcome(ctx context.Context, event v1alpha1.HealingEvent, result domain.ActionResult) {
	if r.Notifier == nil {
		return
	}

	var policy v1alpha1.SelfHealingPolicy
	if err := r.Get(ctx, client.ObjectKey{Namespace: event.Namespace, Name: event.Spec.PolicyRef}, &policy); err != nil {
		return
	}

	var durationMs int64
	if event.Status.DurationMs != nil {
		durationMs = *event.Status.DurationMs
	}
	rootCause := ""
	if event.Status.Diagnosis != nil {
		rootCause = event.Status.Diagnosis.RootCause
	}

	outcome := notify.Outcome{
		Namespace:  event.Spec.TargetNamespace,
		PodName:    event.Spec.TargetPod,
		Success:    result.Success,
		RootCause:  rootCause,
		Message:    result.Message,
		DurationMs: durationMs,
	}
	if err := r.Notifier.Notify(ctx, policy.Spec.Notifications, outcome); err != nil {
		r.Log.Error(err, "failed to send healing outcome notification", "name", event.Name)
	}
}

func domainActionType(t v1alpha1.ActionType) domain.ActionType {
	switch t {
	case v1alpha1.ActionTypePodRestart, v1alpha1.ActionTypeDependencyRestart:
		return domain.ActionRestartPod
	case v1alpha1.ActionTypeHorizontalScale:
		return domain.ActionScaleDeployment
	case v1alpha1.ActionTypeVerticalScale:
		return domain.ActionPatchResources
	case v1alpha1.ActionTypeConfigUpdate:
		return domain.ActionUpdateConfigMap
	case v1alpha1.ActionTypeNetworkIsolation, v1alpha1.ActionTypeNetworkRestore:
		return domain.ActionApplyNetworkPolicy
	default:
		return domain.ActionNoop
	}
}

func outcomeMessage(success bool) string {
	if success {
		return "healing verified successful"
	}
	return "healing failed verification"
}

// SetupWithManager registers the reconciler with mgr, matching the
// original's per-type controller registration.
func (r *HealingEventReconciler) SetupWithManager(mgr ctrl.Manager) error {
	return ctrl.NewControllerManagedBy(mgr).
		For(&v1alpha1.HealingEvent{}).
		Complete(r)
}
