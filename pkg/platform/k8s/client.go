// Package k8s wraps the client-go typed clients for the handful of
// operations the agents perform directly against the cluster: creating
// and removing isolation NetworkPolicies, restarting and scaling
// workloads, and reading recent Events for an incident.
package k8s

import (
	"context"
	"time"

	corev1 "k8s.io/api/core/v1"
	networkingv1 "k8s.io/api/networking/v1"
	apierrs "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/fields"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"

	"github.com/ErdemAslans/ReCiSt/pkg/apierrors"
	"github.com/ErdemAslans/ReCiSt/pkg/domain"
)

// ClusterAPI is the thin collaborator every agent goes through instead of
// holding a raw client-go clientset, so call sites read as cluster
// operations rather than REST verbs.
type ClusterAPI struct {
	clientset kubernetes.Interface
}

// NewClusterAPI builds a ClusterAPI from the in-cluster or kubeconfig
// REST config, matching the manager's own client configuration.
func NewClusterAPI(cfg *rest.Config) (*ClusterAPI, error) {
	clientset, err := kubernetes.NewForConfig(cfg)
	if err != nil {
		return nil, apierrors.WrapClusterAPI(err, "failed to build kubernetes clientset")
	}
	return &ClusterAPI{clientset: clientset}, nil
}

// NewClusterAPIFromClientset wraps an existing clientset, used by tests
// with a fake clientset.
func NewClusterAPIFromClientset(clientset kubernetes.Interface) *ClusterAPI {
	return &ClusterAPI{clientset: clientset}
}

func isolationNetworkPolicy(rule domain.IsolationRule) *networkingv1.NetworkPolicy {
	policyTypes := []networkingv1.PolicyType{networkingv1.PolicyTypeIngress}
	var egress []networkingv1.NetworkPolicyEgressRule
	if rule.RuleType == domain.IsolationDenyAll {
		policyTypes = append(policyTypes, networkingv1.PolicyTypeEgress)
		egress = []networkingv1.NetworkPolicyEgressRule{}
	}

	return &networkingv1.NetworkPolicy{
		ObjectMeta: metav1.ObjectMeta{
			Name:      rule.NetworkPolicyName,
			Namespace: rule.Namespace,
			Labels: map[string]string{
				"app.kubernetes.io/managed-by": "recist",
			},
		},
		Spec: networkingv1.NetworkPolicySpec{
			PodSelector: metav1.LabelSelector{
				MatchLabels: map[string]string{
					"statefulset.kubernetes.io/pod-name": rule.PodName,
				},
			},
			PolicyTypes: policyTypes,
			Ingress:     []networkingv1.NetworkPolicyIngressRule{},
			Egress:      egress,
		},
	}
}

// ApplyIsolation creates the quarantine NetworkPolicy for rule. A 409
// Conflict (the policy already exists, e.g. from a prior strategy
// iteration) is resolved by deleting and recreating it, matching the
// original's create-or-replace semantics.
func (c *ClusterAPI) ApplyIsolation(ctx context.Context, rule domain.IsolationRule) error {
	policy := isolationNetworkPolicy(rule)
	api := c.clientset.NetworkingV1().NetworkPolicies(rule.Namespace)

	_, err := api.Create(ctx, policy, metav1.CreateOptions{})
	if err == nil {
		return nil
	}
	if apierrs.IsConflict(err) || apierrs.IsAlreadyExists(err) {
		_ = api.Delete(ctx, rule.NetworkPolicyName, metav1.DeleteOptions{})
		_, err = api.Create(ctx, policy, metav1.CreateOptions{})
		if err != nil {
			return apierrors.WrapClusterAPI(err, "failed to recreate network policy %s", rule.NetworkPolicyName)
		}
		return nil
	}
	return apierrors.WrapClusterAPI(err, "failed to create network policy %s", rule.NetworkPolicyName)
}

// RemoveIsolation deletes the quarantine NetworkPolicy for pod. A 404
// NotFound (already removed) is treated as success.
func (c *ClusterAPI) RemoveIsolation(ctx context.Context, namespace, pod string) error {
	policyName := "recist-isolate-" + pod
	err := c.clientset.NetworkingV1().NetworkPolicies(namespace).Delete(ctx, policyName, metav1.DeleteOptions{})
	if err != nil && !apierrs.IsNotFound(err) {
		return apierrors.WrapClusterAPI(err, "failed to remove network policy %s", policyName)
	}
	return nil
}

// ListPodNames returns the name of every pod in namespace, used by
// Containment's sweep loop to enumerate check candidates.
func (c *ClusterAPI) ListPodNames(ctx context.Context, namespace string) ([]string, error) {
	pods, err := c.clientset.CoreV1().Pods(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, apierrors.WrapClusterAPI(err, "failed to list pods in %s", namespace)
	}
	names := make([]string, 0, len(pods.Items))
	for _, p := range pods.Items {
		names = append(names, p.Name)
	}
	return names, nil
}

// GetPod fetches a pod; a 404 is surfaced as apierrors.NotFound so
// callers (notably strategy verification, which treats "pod gone" as
// "restart succeeded") can branch on it cheaply.
func (c *ClusterAPI) GetPod(ctx context.Context, namespace, name string) (*corev1.Pod, error) {
	pod, err := c.clientset.CoreV1().Pods(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		if apierrs.IsNotFound(err) {
			return nil, apierrors.NotFound("pod %s/%s not found", namespace, name)
		}
		return nil, apierrors.WrapClusterAPI(err, "failed to get pod %s/%s", namespace, name)
	}
	return pod, nil
}

// DeletePod deletes a pod to trigger a restart under its owning
// controller. 404 is treated as success.
func (c *ClusterAPI) DeletePod(ctx context.Context, namespace, name string) error {
	err := c.clientset.CoreV1().Pods(namespace).Delete(ctx, name, metav1.DeleteOptions{})
	if err != nil && !apierrs.IsNotFound(err) {
		return apierrors.WrapClusterAPI(err, "failed to delete pod %s/%s", namespace, name)
	}
	return nil
}

// ScaleDeployment patches a Deployment's replica count.
func (c *ClusterAPI) ScaleDeployment(ctx context.Context, namespace, name string, replicas int32) error {
	scale, err := c.clientset.AppsV1().Deployments(namespace).GetScale(ctx, name, metav1.GetOptions{})
	if err != nil {
		return apierrors.WrapClusterAPI(err, "failed to read scale for deployment %s/%s", namespace, name)
	}
	scale.Spec.Replicas = replicas
	_, err = c.clientset.AppsV1().Deployments(namespace).UpdateScale(ctx, name, scale, metav1.UpdateOptions{})
	if err != nil {
		return apierrors.WrapClusterAPI(err, "failed to scale deployment %s/%s", namespace, name)
	}
	return nil
}

// PatchResources merge-patches a Deployment's container resource
// requests/limits, used by the vertical-scale strategy.
func (c *ClusterAPI) PatchResources(ctx context.Context, namespace, name string, patch []byte) error {
	_, err := c.clientset.AppsV1().Deployments(namespace).Patch(ctx, name, types.StrategicMergePatchType, patch, metav1.PatchOptions{})
	if err != nil {
		return apierrors.WrapClusterAPI(err, "failed to patch deployment %s/%s", namespace, name)
	}
	return nil
}

// UpdateConfigMap merge-patches a ConfigMap's data, used by the
// config-update strategy.
func (c *ClusterAPI) UpdateConfigMap(ctx context.Context, namespace, name string, data map[string]string) error {
	cm, err := c.clientset.CoreV1().ConfigMaps(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return apierrors.WrapClusterAPI(err, "failed to read configmap %s/%s", namespace, name)
	}
	if cm.Data == nil {
		cm.Data = map[string]string{}
	}
	for k, v := range data {
		cm.Data[k] = v
	}
	_, err = c.clientset.CoreV1().ConfigMaps(namespace).Update(ctx, cm, metav1.UpdateOptions{})
	if err != nil {
		return apierrors.WrapClusterAPI(err, "failed to update configmap %s/%s", namespace, name)
	}
	return nil
}

// RecentEvents lists Events involving pod within lookback, formatted for
// the diagnosis prompt.
func (c *ClusterAPI) RecentEvents(ctx context.Context, namespace, pod string, lookback time.Duration) ([]string, error) {
	events, err := c.clientset.CoreV1().Events(namespace).List(ctx, metav1.ListOptions{
		FieldSelector: fields.OneTermEqualSelector("involvedObject.name", pod).String(),
	})
	if err != nil {
		return nil, apierrors.WrapClusterAPI(err, "failed to list events for pod %s/%s", namespace, pod)
	}

	cutoff := time.Now().Add(-lookback)
	var formatted []string
	for _, e := range events.Items {
		if e.LastTimestamp.Time.Before(cutoff) {
			continue
		}
		formatted = append(formatted, e.Reason+": "+e.Message)
	}
	return formatted, nil
}
