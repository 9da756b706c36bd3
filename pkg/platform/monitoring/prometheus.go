// Package monitoring wraps the two observability backends Diagnosis and
// Containment read from: Prometheus for metric snapshots and Loki for
// structured logs.
package monitoring

import (
	"context"
	"time"

	promapi "github.com/prometheus/client_golang/api"
	promv1 "github.com/prometheus/client_golang/api/prometheus/v1"
	"github.com/prometheus/common/model"

	"github.com/ErdemAslans/ReCiSt/pkg/apierrors"
	"github.com/ErdemAslans/ReCiSt/pkg/domain"
)

// MetricsCollector queries a Prometheus-compatible backend for the
// instant values Containment sweeps and Diagnosis correlates.
type MetricsCollector struct {
	api     promv1.API
	timeout time.Duration
}

// NewMetricsCollector builds a collector against the given Prometheus
// query endpoint.
func NewMetricsCollector(address string, timeout time.Duration) (*MetricsCollector, error) {
	client, err := promapi.NewClient(promapi.Config{Address: address})
	if err != nil {
		return nil, apierrors.WrapMetricsBackend(err, "failed to build prometheus client for %s", address)
	}
	return &MetricsCollector{api: promv1.NewAPI(client), timeout: timeout}, nil
}

// Query runs an instant PromQL query, returning the single sampled value
// for a vector result, matching the original's single-metric-per-pod
// read pattern.
func (m *MetricsCollector) Query(ctx context.Context, promQL string) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	result, warnings, err := m.api.Query(ctx, promQL, time.Now())
	if err != nil {
		return 0, apierrors.WrapMetricsBackend(err, "prometheus query failed: %s", promQL)
	}
	_ = warnings

	vector, ok := result.(model.Vector)
	if !ok || len(vector) == 0 {
		return 0, apierrors.NotFound("no samples for query: %s", promQL)
	}
	return float64(vector[0].Value), nil
}

// PodMetrics is the set of instant readings Containment's sweep loop
// cares about for one pod.
type PodMetrics struct {
	CPU       float64
	Memory    float64
	LatencyMs float64
	ErrorRate float64
}

// Snapshot reads every PodMetricsQueries value for one pod, tolerating
// individual query failures as zero values (a pod with no traffic yet
// has no error-rate series, for instance) so a single missing series
// never fails the whole sweep.
func (m *MetricsCollector) Snapshot(ctx context.Context, namespace, pod string) domain.PodMetricsSnapshot {
	queries := PodMetricsQueries(namespace, pod)
	snap := domain.PodMetricsSnapshot{PodName: pod}
	if v, err := m.Query(ctx, queries["cpu"]); err == nil {
		snap.CPUUsage = v
	}
	if v, err := m.Query(ctx, queries["memory"]); err == nil {
		snap.MemoryUsage = v
	}
	if v, err := m.Query(ctx, queries["latency"]); err == nil {
		snap.LatencyMs = v
	}
	if v, err := m.Query(ctx, queries["errorRate"]); err == nil {
		snap.ErrorRate = v
	}
	return snap
}

// SnapshotAll reads a snapshot for every named pod, used by Containment
// to assess sweep candidates and neighbor capacity together.
func (m *MetricsCollector) SnapshotAll(ctx context.Context, namespace string, pods []string) []domain.PodMetricsSnapshot {
	snapshots := make([]domain.PodMetricsSnapshot, 0, len(pods))
	for _, pod := range pods {
		snapshots = append(snapshots, m.Snapshot(ctx, namespace, pod))
	}
	return snapshots
}

// PodMetricsQueries maps each PodMetrics field to the PromQL expression
// used to populate it, parameterized by namespace and pod.
func PodMetricsQueries(namespace, pod string) map[string]string {
	return map[string]string{
		"cpu":       `sum(rate(container_cpu_usage_seconds_total{namespace="` + namespace + `",pod="` + pod + `"}[5m]))`,
		"memory":    `sum(container_memory_working_set_bytes{namespace="` + namespace + `",pod="` + pod + `"}) / sum(kube_pod_container_resource_limits{namespace="` + namespace + `",pod="` + pod + `",resource="memory"})`,
		"latency":   `histogram_quantile(0.95, sum(rate(http_request_duration_seconds_bucket{namespace="` + namespace + `",pod="` + pod + `"}[5m])) by (le))`,
		"errorRate": `sum(rate(http_requests_total{namespace="` + namespace + `",pod="` + pod + `",status=~"5.."}[5m])) / sum(rate(http_requests_total{namespace="` + namespace + `",pod="` + pod + `"}[5m]))`,
	}
}
