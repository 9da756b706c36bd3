package domain

import (
	"time"

	"github.com/google/uuid"
)

// FaultSeverity classifies how serious a fault is, driving both the
// isolation strategy Containment picks under "auto" and the severity
// surfaced to the operator.
type FaultSeverity int

const (
	SeverityLow FaultSeverity = iota
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

func (s FaultSeverity) String() string {
	switch s {
	case SeverityLow:
		return "Low"
	case SeverityMedium:
		return "Medium"
	case SeverityHigh:
		return "High"
	case SeverityCritical:
		return "Critical"
	default:
		return "Low"
	}
}

// TriggerReason is one metric threshold a fault tripped; a single Fault
// may carry several reasons (e.g. both HighCpu and HighLatency).
type TriggerReason string

const (
	ReasonHighCPU           TriggerReason = "HighCpu"
	ReasonHighMemory        TriggerReason = "HighMemory"
	ReasonHighLatency       TriggerReason = "HighLatency"
	ReasonHighErrorRate     TriggerReason = "HighErrorRate"
	ReasonCrashLoop         TriggerReason = "CrashLoop"
	ReasonOomKilled         TriggerReason = "OomKilled"
	ReasonNetworkError      TriggerReason = "NetworkError"
	ReasonDependencyFailure TriggerReason = "DependencyFailure"
	ReasonUnknown           TriggerReason = "Unknown"
)

// PodMetricsSnapshot is one pod's instant metric readings as returned by
// the metrics collaborator.
type PodMetricsSnapshot struct {
	PodName     string
	CPUUsage    float64
	MemoryUsage float64
	LatencyMs   float64
	ErrorRate   float64
}

// TriggerMetrics freezes the metric values that caused a fault, carried
// onto the HealingEvent spec for audit.
type TriggerMetrics struct {
	CPUUsage     *float64
	MemoryUsage  *float64
	LatencyMs    *uint64
	ErrorRate    *float64
	RestartCount *int32
}

// Fault is a single pod's threshold breach, with every reason it
// breached and the metric snapshot that triggered it. Severity is fixed
// at construction by ComputeFaultSeverity, matching the original's
// Fault::new.
type Fault struct {
	PodName    string
	Namespace  string
	Reasons    []TriggerReason
	Metrics    TriggerMetrics
	Severity   FaultSeverity
	DetectedAt time.Time
}

// NewFault builds a Fault at the current time, computing its severity
// from reasons and metrics exactly as the original's Fault::new does.
func NewFault(podName, namespace string, reasons []TriggerReason, metrics TriggerMetrics) Fault {
	return Fault{
		PodName:    podName,
		Namespace:  namespace,
		Reasons:    reasons,
		Metrics:    metrics,
		Severity:   ComputeFaultSeverity(reasons, metrics),
		DetectedAt: time.Now(),
	}
}

// FaultCluster groups the faults observed in one containment sweep of a
// namespace.
type FaultCluster struct {
	ID        uuid.UUID
	Namespace string
	Faults    []Fault
	DetectedAt time.Time
}

// NewFaultCluster starts an empty cluster for a namespace sweep.
func NewFaultCluster(namespace string) FaultCluster {
	return FaultCluster{ID: uuid.New(), Namespace: namespace, DetectedAt: time.Now()}
}

// AddFault appends a fault to the cluster.
func (f *FaultCluster) AddFault(fault Fault) {
	f.Faults = append(f.Faults, fault)
}

// IsEmpty reports whether the sweep found no faults.
func (f FaultCluster) IsEmpty() bool {
	return len(f.Faults) == 0
}

// ComputeFaultSeverity matches the original's calculate_severity exactly:
// an OomKilled or CrashLoop reason is always Critical; otherwise an error
// rate above 0.5 is Critical and above 0.2 is High; otherwise CPU or
// memory above 0.95 is High; anything else that tripped a threshold is
// Medium.
func ComputeFaultSeverity(reasons []TriggerReason, metrics TriggerMetrics) FaultSeverity {
	for _, r := range reasons {
		if r == ReasonOomKilled || r == ReasonCrashLoop {
			return SeverityCritical
		}
	}

	errorRate := 0.0
	if metrics.ErrorRate != nil {
		errorRate = *metrics.ErrorRate
	}
	if errorRate > 0.5 {
		return SeverityCritical
	}
	if errorRate > 0.2 {
		return SeverityHigh
	}

	cpu, memory := 0.0, 0.0
	if metrics.CPUUsage != nil {
		cpu = *metrics.CPUUsage
	}
	if metrics.MemoryUsage != nil {
		memory = *metrics.MemoryUsage
	}
	if cpu > 0.95 || memory > 0.95 {
		return SeverityHigh
	}

	return SeverityMedium
}

// IsolationStrategy controls how aggressively Containment quarantines a
// faulting pod: Soft denies ingress only, Hard denies ingress and egress,
// Auto escalates to Hard once a fault reaches SeverityCritical.
type IsolationStrategy string

const (
	IsolationStrategySoft IsolationStrategy = "Soft"
	IsolationStrategyHard IsolationStrategy = "Hard"
	IsolationStrategyAuto IsolationStrategy = "Auto"
)

// IsolationRuleType is the concrete network policy shape applied, derived
// from IsolationStrategy once Auto has been resolved against severity.
type IsolationRuleType string

const (
	IsolationDenyAll     IsolationRuleType = "DenyAll"
	IsolationDenyIngress IsolationRuleType = "DenyIngress"
)

// IsolationRule records the network policy Containment created for a
// faulting pod, kept so it can be found again and removed once healing
// completes.
type IsolationRule struct {
	PodName           string
	Namespace         string
	NetworkPolicyName string
	RuleType          IsolationRuleType
	CreatedAt         time.Time
}

// NewIsolationRule resolves an isolation strategy to a concrete rule
// type and names the network policy "recist-isolate-<pod>", matching the
// original implementation.
func NewIsolationRule(pod, namespace string, strategy IsolationStrategy, severity FaultSeverity) IsolationRule {
	resolved := strategy
	if resolved == IsolationStrategyAuto {
		if severity >= SeverityCritical {
			resolved = IsolationStrategyHard
		} else {
			resolved = IsolationStrategySoft
		}
	}
	ruleType := IsolationDenyIngress
	if resolved == IsolationStrategyHard {
		ruleType = IsolationDenyAll
	}
	return IsolationRule{
		PodName:           pod,
		Namespace:         namespace,
		NetworkPolicyName: "recist-isolate-" + pod,
		RuleType:          ruleType,
		CreatedAt:         time.Now(),
	}
}

// AcceptingNeighbor is a candidate pod willing to absorb redirected
// traffic from an isolated workload.
type AcceptingNeighbor struct {
	PodName             string
	AvailableCapacity   float64
	AcceptedLoadFraction float64
}

// RejectedNeighbor is a candidate pod that could not accept redirected
// traffic, with the reason it was rejected.
type RejectedNeighbor struct {
	PodName string
	Reason  string
}

// NeighborNegotiationResult is the outcome of asking a pod's siblings to
// absorb its traffic before isolating it.
type NeighborNegotiationResult struct {
	RequestingPod string
	Accepting     []AcceptingNeighbor
	Rejected      []RejectedNeighbor
}

// NegotiateNeighborCapacity mirrors the original's negotiation exactly:
// a neighbor's available capacity is 1 minus its higher of CPU/memory
// usage; neighbors at or above capacityThreshold accept a load fraction
// proportional to their headroom past the threshold, capped at 0.5.
func NegotiateNeighborCapacity(requestingPod string, neighbors []PodMetricsSnapshot, capacityThreshold float64) NeighborNegotiationResult {
	result := NeighborNegotiationResult{RequestingPod: requestingPod}

	for _, m := range neighbors {
		if m.PodName == requestingPod {
			continue
		}
		used := m.CPUUsage
		if m.MemoryUsage > used {
			used = m.MemoryUsage
		}
		available := 1.0 - used

		if available >= capacityThreshold {
			loadFraction := (available - capacityThreshold) / (1.0 - capacityThreshold)
			if loadFraction > 0.5 {
				loadFraction = 0.5
			}
			result.Accepting = append(result.Accepting, AcceptingNeighbor{
				PodName:              m.PodName,
				AvailableCapacity:    available,
				AcceptedLoadFraction: loadFraction,
			})
		} else {
			result.Rejected = append(result.Rejected, RejectedNeighbor{
				PodName: m.PodName,
				Reason:  "insufficient capacity",
			})
		}
	}

	return result
}
