package controller

import (
	"context"
	"sync"
	"time"

	"github.com/go-logr/logr"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"

	v1alpha1 "github.com/ErdemAslans/ReCiSt/api/recist/v1alpha1"
)

// requeue durations mirror the original reconciler's policy-level tick
// and error backoff: policies change rarely, so their reconcile loop
// runs far less often than a HealingEvent's.
const (
	policyRequeueAfter      = 300 * time.Second
	policyErrorRequeueAfter = 60 * time.Second
)

// PolicyReconciler makes sure each live SelfHealingPolicy has a running
// Containment sweep loop over its target namespaces, starting one the
// first time it sees a policy and stopping it again once the policy is
// deleted.
type PolicyReconciler struct {
	client.Client
	Coordinator *Coordinator
	Log         logr.Logger

	mu      sync.Mutex
	cancels map[string]context.CancelFunc
}

// NewPolicyReconciler builds a reconciler with its sweep-tracking map
// initialized.
func NewPolicyReconciler(c client.Client, coordinator *Coordinator, log logr.Logger) *PolicyReconciler {
	return &PolicyReconciler{Client: c, Coordinator: coordinator, Log: log, cancels: map[string]context.CancelFunc{}}
}

// Reconcile implements the controller-runtime Reconciler interface.
func (r *PolicyReconciler) Reconcile(ctx context.Context, req ctrl.Request) (ctrl.Result, error) {
	var policy v1alpha1.SelfHealingPolicy
	if err := r.Get(ctx, req.NamespacedName, &policy); err != nil {
		if client.IgnoreNotFound(err) == nil {
			r.stopSweep(req.String())
			return ctrl.Result{}, nil
		}
		return ctrl.Result{RequeueAfter: policyErrorRequeueAfter}, err
	}

	r.ensureSweep(req.String(), policy)

	policy.Status.ObservedGeneration = policy.Generation
	if err := r.Status().Update(ctx, &policy); err != nil {
		return ctrl.Result{RequeueAfter: policyErrorRequeueAfter}, err
	}

	return ctrl.Result{RequeueAfter: policyRequeueAfter}, nil
}

func (r *PolicyReconciler) ensureSweep(key string, policy v1alpha1.SelfHealingPolicy) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, running := r.cancels[key]; running {
		return
	}

	sweepCtx, cancel := context.WithCancel(context.Background())
	r.cancels[key] = cancel

	namespaces := policy.Spec.TargetNamespaces
	if len(namespaces) == 0 {
		namespaces = []string{policy.Namespace}
	}

	go r.Coordinator.Containment.RunCheckLoop(sweepCtx, namespaces)
	go r.Coordinator.Containment.Watch(sweepCtx)
}

func (r *PolicyReconciler) stopSweep(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cancel, ok := r.cancels[key]; ok {
		cancel()
		delete(r.cancels, key)
	}
}

// SetupWithManager registers the reconciler with mgr.
func (r *PolicyReconciler) SetupWithManager(mgr ctrl.Manager) error {
	return ctrl.NewControllerManagedBy(mgr).
		For(&v1alpha1.SelfHealingPolicy{}).
		Complete(r)
}
