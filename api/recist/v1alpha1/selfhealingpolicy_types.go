package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// AllowedAction is one remediation action class a policy permits agents
// to execute.
type AllowedAction string

const (
	ActionAllowRestart         AllowedAction = "restart"
	ActionAllowScale           AllowedAction = "scale"
	ActionAllowUpdateConfig    AllowedAction = "updateConfig"
	ActionAllowUpdateResources AllowedAction = "updateResources"
	ActionAllowIsolate         AllowedAction = "isolate"
)

// LlmProvider selects which LLM vendor transport backs this policy's
// agents.
type LlmProvider string

const (
	LlmProviderClaude LlmProvider = "claude"
	LlmProviderOpenAI LlmProvider = "openai"
	LlmProviderGemini LlmProvider = "gemini"
	LlmProviderOllama LlmProvider = "ollama"
)

// IsolationStrategy controls how aggressively Containment quarantines a
// faulting pod.
type IsolationStrategy string

const (
	IsolationStrategySoft IsolationStrategy = "soft"
	IsolationStrategyHard IsolationStrategy = "hard"
	IsolationStrategyAuto IsolationStrategy = "auto"
)

// Thresholds are the metric levels that trigger containment.
type Thresholds struct {
	// +kubebuilder:default=0.9
	CPU float64 `json:"cpu,omitempty"`
	// +kubebuilder:default=0.85
	Memory float64 `json:"memory,omitempty"`
	// +kubebuilder:default=500
	LatencyMs uint64 `json:"latencyMs,omitempty"`
	// +kubebuilder:default=0.05
	ErrorRate float64 `json:"errorRate,omitempty"`
}

// LlmConfig selects and configures the LLM backend used for diagnosis
// and strategy evaluation.
type LlmConfig struct {
	Provider LlmProvider `json:"provider"`
	Model    string      `json:"model"`
	// APIKeySecret names the Secret holding the vendor API key.
	APIKeySecret string `json:"apiKeySecret"`
	// +kubebuilder:default=30
	TimeoutSeconds uint64  `json:"timeoutSeconds,omitempty"`
	BaseURL        *string `json:"baseUrl,omitempty"`
}

// NotificationConfig optionally forwards healing outcomes to external
// notification channels.
type NotificationConfig struct {
	Enabled       bool    `json:"enabled,omitempty"`
	SlackWebhook  *string `json:"slackWebhook,omitempty"`
	Email         *string `json:"email,omitempty"`
	PagerDutyKey  *string `json:"pagerdutyKey,omitempty"`
}

// ContainmentConfig tunes the Containment agent's sweep loop.
type ContainmentConfig struct {
	// +kubebuilder:default=10
	CheckIntervalSeconds uint64 `json:"checkIntervalSeconds,omitempty"`
	// +kubebuilder:default=soft
	IsolationStrategy IsolationStrategy `json:"isolationStrategy,omitempty"`
	// +kubebuilder:default=0.7
	NeighborCapacityThreshold float64 `json:"neighborCapacityThreshold,omitempty"`
}

// DiagnosisConfig tunes the Diagnosis agent's evidence collection.
type DiagnosisConfig struct {
	// +kubebuilder:default=5
	LogLookbackMinutes uint64 `json:"logLookbackMinutes,omitempty"`
	// +kubebuilder:default=1000
	MaxLogLines uint64 `json:"maxLogLines,omitempty"`
	// +kubebuilder:default=0.7
	ConfidenceThreshold float64 `json:"confidenceThreshold,omitempty"`
}

// MetaCognitiveConfig tunes the Meta-cognitive agent's micro-agent fan-out
// and decision logic.
type MetaCognitiveConfig struct {
	// +kubebuilder:default=5
	MaxMicroAgents uint32 `json:"maxMicroAgents,omitempty"`
	// +kubebuilder:default=10
	MaxReasoningDepth uint32 `json:"maxReasoningDepth,omitempty"`
	// +kubebuilder:default=60
	ActionTimeoutSeconds uint64 `json:"actionTimeoutSeconds,omitempty"`
	// +kubebuilder:default=30
	VerificationWaitSeconds uint64 `json:"verificationWaitSeconds,omitempty"`
	// +kubebuilder:default=0.7
	DecisionThreshold float64 `json:"decisionThreshold,omitempty"`
}

// KnowledgeConfig tunes the Knowledge agent's retrieval and retention.
type KnowledgeConfig struct {
	// +kubebuilder:default=0.8
	SimilarityThreshold float64 `json:"similarityThreshold,omitempty"`
	// +kubebuilder:default=100
	MaxLocalEvents uint64 `json:"maxLocalEvents,omitempty"`
	// +kubebuilder:default=90
	KnowledgeTTLDays uint64 `json:"knowledgeTtlDays,omitempty"`
	// +kubebuilder:default=1536
	EmbeddingDimensions uint32 `json:"embeddingDimensions,omitempty"`
}

// SelfHealingPolicySpec defines which workloads a policy governs and how
// its agents should behave toward them.
type SelfHealingPolicySpec struct {
	TargetNamespaces []string          `json:"targetNamespaces,omitempty"`
	TargetLabels     map[string]string `json:"targetLabels,omitempty"`

	Thresholds     Thresholds     `json:"thresholds"`
	AllowedActions []AllowedAction `json:"allowedActions,omitempty"`
	LlmConfig      LlmConfig      `json:"llmConfig"`

	Notifications *NotificationConfig `json:"notifications,omitempty"`

	ContainmentConfig   ContainmentConfig   `json:"containmentConfig,omitempty"`
	DiagnosisConfig     DiagnosisConfig     `json:"diagnosisConfig,omitempty"`
	MetaCognitiveConfig MetaCognitiveConfig `json:"metacognitiveConfig,omitempty"`
	KnowledgeConfig     KnowledgeConfig     `json:"knowledgeConfig,omitempty"`
}

// PolicyCondition is one Kubernetes-style condition on a policy's status.
type PolicyCondition struct {
	Type               string `json:"conditionType"`
	Status             string `json:"status"`
	LastTransitionTime string `json:"lastTransitionTime"`
	Reason             string `json:"reason,omitempty"`
	Message            string `json:"message,omitempty"`
}

// SelfHealingPolicyStatus reports aggregate healing activity governed by
// this policy.
type SelfHealingPolicyStatus struct {
	ObservedGeneration  int64             `json:"observedGeneration,omitempty"`
	ActiveHealings      int32             `json:"activeHealings,omitempty"`
	LastHealingTime     *metav1.Time      `json:"lastHealingTime,omitempty"`
	TotalHealings       int64             `json:"totalHealings,omitempty"`
	SuccessfulHealings  int64             `json:"successfulHealings,omitempty"`
	Conditions          []PolicyCondition `json:"conditions,omitempty"`
}

// +kubebuilder:object:root=true
// +kubebuilder:subresource:status
// +kubebuilder:resource:shortName=shp
// +kubebuilder:printcolumn:name="Active Healings",type=integer,JSONPath=".status.activeHealings"
// +kubebuilder:printcolumn:name="Last Healing",type=date,JSONPath=".status.lastHealingTime"
// +kubebuilder:printcolumn:name="Age",type=date,JSONPath=".metadata.creationTimestamp"

// SelfHealingPolicy is the Schema for the selfhealingpolicies API.
type SelfHealingPolicy struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   SelfHealingPolicySpec   `json:"spec,omitempty"`
	Status SelfHealingPolicyStatus `json:"status,omitempty"`
}

// +kubebuilder:object:root=true

// SelfHealingPolicyList contains a list of SelfHealingPolicy.
type SelfHealingPolicyList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []SelfHealingPolicy `json:"items"`
}
