package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// TriggerReason is why a HealingEvent was opened.
type TriggerReason string

const (
	TriggerHighCPU           TriggerReason = "HighCpu"
	TriggerHighMemory        TriggerReason = "HighMemory"
	TriggerHighLatency       TriggerReason = "HighLatency"
	TriggerHighErrorRate     TriggerReason = "HighErrorRate"
	TriggerCrashLoop         TriggerReason = "CrashLoop"
	TriggerOomKilled         TriggerReason = "OomKilled"
	TriggerNetworkError      TriggerReason = "NetworkError"
	TriggerDependencyFailure TriggerReason = "DependencyFailure"
	TriggerUnknown           TriggerReason = "Unknown"
)

// TriggerMetrics snapshots the metric values that caused the trigger.
type TriggerMetrics struct {
	CPUUsage     *float64 `json:"cpuUsage,omitempty"`
	MemoryUsage  *float64 `json:"memoryUsage,omitempty"`
	LatencyMs    *uint64  `json:"latencyMs,omitempty"`
	ErrorRate    *float64 `json:"errorRate,omitempty"`
	RestartCount *int32   `json:"restartCount,omitempty"`
}

// HealingEventSpec identifies the incident a HealingEvent tracks.
type HealingEventSpec struct {
	PolicyRef       string          `json:"policyRef"`
	TargetPod       string          `json:"targetPod"`
	TargetNamespace string          `json:"targetNamespace"`
	TriggerReason   TriggerReason   `json:"triggerReason"`
	TriggerMetrics  *TriggerMetrics `json:"triggerMetrics,omitempty"`
}

// HealingPhase mirrors internal/healing.State on the wire.
// +kubebuilder:validation:Enum=Pending;Containing;Diagnosing;Healing;Verifying;Completed;Failed
type HealingPhase string

const (
	PhasePending    HealingPhase = "Pending"
	PhaseContaining HealingPhase = "Containing"
	PhaseDiagnosing HealingPhase = "Diagnosing"
	PhaseHealing    HealingPhase = "Healing"
	PhaseVerifying  HealingPhase = "Verifying"
	PhaseCompleted  HealingPhase = "Completed"
	PhaseFailed     HealingPhase = "Failed"
)

// DiagnosisResult summarizes the Diagnosis agent's output on the status
// subresource.
type DiagnosisResult struct {
	Hypothesis  string   `json:"hypothesis"`
	Confidence  float64  `json:"confidence"`
	RootCause   string   `json:"rootCause"`
	Evidence    []string `json:"evidence,omitempty"`
	RelatedLogs []string `json:"relatedLogs,omitempty"`
}

// ActionType names the concrete operation an applied action performed.
type ActionType string

const (
	ActionTypePodRestart        ActionType = "PodRestart"
	ActionTypeHorizontalScale   ActionType = "HorizontalScale"
	ActionTypeVerticalScale     ActionType = "VerticalScale"
	ActionTypeConfigUpdate      ActionType = "ConfigUpdate"
	ActionTypeNetworkIsolation  ActionType = "NetworkIsolation"
	ActionTypeNetworkRestore    ActionType = "NetworkRestore"
	ActionTypeDependencyRestart ActionType = "DependencyRestart"
)

// ActionOutcome is the narrow pass/fail/pending/rolled-back result
// recorded per applied action on the status subresource. Named
// ActionOutcome (rather than ActionResult) to avoid colliding with the
// richer execution-result struct of the same name in pkg/domain — see
// DESIGN.md.
type ActionOutcome string

const (
	ActionOutcomeSuccess    ActionOutcome = "Success"
	ActionOutcomeFailed     ActionOutcome = "Failed"
	ActionOutcomePending    ActionOutcome = "Pending"
	ActionOutcomeRolledBack ActionOutcome = "RolledBack"
)

// AppliedAction is one recorded execution step on the status subresource.
type AppliedAction struct {
	ActionType   ActionType    `json:"actionType"`
	Timestamp    string        `json:"timestamp"`
	Result       ActionOutcome `json:"result"`
	Details      string        `json:"details,omitempty"`
	RollbackInfo string        `json:"rollbackInfo,omitempty"`
}

// HealingOutcome is the final verification result.
type HealingOutcome struct {
	Success             bool            `json:"success"`
	Message             string          `json:"message"`
	VerificationMethod  string          `json:"verificationMethod,omitempty"`
	MetricsAfter        *TriggerMetrics `json:"metricsAfter,omitempty"`
}

// CausalNodeType is the node kind the status subresource renders. It
// shares Symptom and RootCause with pkg/domain.CausalNodeType, adds the
// finer-grained Error/Warning/Metric/Event leaf kinds, and has no
// counterpart for the domain's Condition kind.
type CausalNodeType string

const (
	CausalNodeTypeError     CausalNodeType = "Error"
	CausalNodeTypeWarning   CausalNodeType = "Warning"
	CausalNodeTypeSymptom   CausalNodeType = "Symptom"
	CausalNodeTypeRootCause CausalNodeType = "RootCause"
	CausalNodeTypeMetric    CausalNodeType = "Metric"
	CausalNodeTypeEvent     CausalNodeType = "Event"
)

// CausalNode is one vertex of the causal graph as rendered on status.
type CausalNode struct {
	ID          string         `json:"id"`
	NodeType    CausalNodeType `json:"nodeType"`
	Description string         `json:"description"`
	Timestamp   string         `json:"timestamp"`
	Severity    string         `json:"severity,omitempty"`
	Source      string         `json:"source,omitempty"`
}

// CausalEdge is one edge of the causal graph as rendered on status.
type CausalEdge struct {
	FromNode     string   `json:"fromNode"`
	ToNode       string   `json:"toNode"`
	RelationType string   `json:"relationType"`
	Confidence   *float64 `json:"confidence,omitempty"`
}

// CausalGraph is the rendered causal graph attached to a HealingEvent's
// status.
type CausalGraph struct {
	Nodes          []CausalNode `json:"nodes"`
	Edges          []CausalEdge `json:"edges"`
	RootCauseNodeID string      `json:"rootCauseNodeId,omitempty"`
}

// HealingEventStatus tracks one incident's lifecycle end to end.
type HealingEventStatus struct {
	Phase HealingPhase `json:"phase"`

	StartTime *metav1.Time `json:"startTime,omitempty"`
	EndTime   *metav1.Time `json:"endTime,omitempty"`
	DurationMs *int64      `json:"durationMs,omitempty"`

	Diagnosis      *DiagnosisResult `json:"diagnosis,omitempty"`
	AppliedActions []AppliedAction  `json:"appliedActions,omitempty"`
	Outcome        *HealingOutcome  `json:"outcome,omitempty"`
	CausalGraph    *CausalGraph     `json:"causalGraph,omitempty"`

	KnowledgeEntryID string `json:"knowledgeEntryId,omitempty"`
}

// +kubebuilder:object:root=true
// +kubebuilder:subresource:status
// +kubebuilder:resource:shortName=he
// +kubebuilder:printcolumn:name="Phase",type=string,JSONPath=".status.phase"
// +kubebuilder:printcolumn:name="Target Pod",type=string,JSONPath=".spec.targetPod"
// +kubebuilder:printcolumn:name="Reason",type=string,JSONPath=".spec.triggerReason"
// +kubebuilder:printcolumn:name="Success",type=boolean,JSONPath=".status.outcome.success"
// +kubebuilder:printcolumn:name="Duration",type=string,JSONPath=".status.durationMs"
// +kubebuilder:printcolumn:name="Age",type=date,JSONPath=".metadata.creationTimestamp"

// HealingEvent is the Schema for the healingevents API.
type HealingEvent struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   HealingEventSpec   `json:"spec,omitempty"`
	Status HealingEventStatus `json:"status,omitempty"`
}

// +kubebuilder:object:root=true

// HealingEventList contains a list of HealingEvent.
type HealingEventList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []HealingEvent `json:"items"`
}
