package domain

import (
	"time"

	"github.com/google/uuid"
)

// StrategyType enumerates the remediation strategies the Meta-cognitive
// agent can propose.
type StrategyType string

const (
	StrategyPodRestart        StrategyType = "PodRestart"
	StrategyHorizontalScale   StrategyType = "HorizontalScale"
	StrategyVerticalScale     StrategyType = "VerticalScale"
	StrategyConfigUpdate      StrategyType = "ConfigUpdate"
	StrategyDependencyRestart StrategyType = "DependencyRestart"
	StrategyNetworkIsolation  StrategyType = "NetworkIsolation"
	StrategyComposite         StrategyType = "Composite"
)

// RiskLevel is the blast-radius classification attached to a strategy.
type RiskLevel string

const (
	RiskLow      RiskLevel = "Low"
	RiskMedium   RiskLevel = "Medium"
	RiskHigh     RiskLevel = "High"
)

// RiskLevelFor returns the fixed risk level the original assigns to each
// strategy type.
func RiskLevelFor(t StrategyType) RiskLevel {
	switch t {
	case StrategyPodRestart:
		return RiskLow
	case StrategyHorizontalScale:
		return RiskLow
	case StrategyVerticalScale:
		return RiskMedium
	case StrategyConfigUpdate:
		return RiskMedium
	case StrategyDependencyRestart:
		return RiskHigh
	case StrategyNetworkIsolation:
		return RiskMedium
	case StrategyComposite:
		return RiskHigh
	default:
		return RiskMedium
	}
}

// EstimatedDurationFor returns the fixed duration estimate the original
// assigns to each strategy type.
func EstimatedDurationFor(t StrategyType) time.Duration {
	switch t {
	case StrategyPodRestart:
		return 30 * time.Second
	case StrategyHorizontalScale:
		return 60 * time.Second
	case StrategyVerticalScale:
		return 90 * time.Second
	case StrategyConfigUpdate:
		return 45 * time.Second
	case StrategyDependencyRestart:
		return 120 * time.Second
	case StrategyNetworkIsolation:
		return 20 * time.Second
	case StrategyComposite:
		return 180 * time.Second
	default:
		return 60 * time.Second
	}
}

// ActionType is the concrete cluster operation a planned action performs.
type ActionType string

const (
	ActionRestartPod       ActionType = "RestartPod"
	ActionScaleDeployment  ActionType = "ScaleDeployment"
	ActionPatchResources   ActionType = "PatchResources"
	ActionUpdateConfigMap  ActionType = "UpdateConfigMap"
	ActionApplyNetworkPolicy ActionType = "ApplyNetworkPolicy"
	ActionNoop             ActionType = "Noop"
)

// ToActionType maps a strategy type to the cluster operation that
// executes it; NetworkIsolation maps to Noop because containment already
// applied the network policy by the time Meta-cognitive runs.
func ToActionType(t StrategyType) ActionType {
	switch t {
	case StrategyPodRestart:
		return ActionRestartPod
	case StrategyHorizontalScale:
		return ActionScaleDeployment
	case StrategyVerticalScale:
		return ActionPatchResources
	case StrategyConfigUpdate:
		return ActionUpdateConfigMap
	case StrategyDependencyRestart:
		return ActionRestartPod
	case StrategyNetworkIsolation:
		return ActionNoop
	default:
		return ActionNoop
	}
}

// ResourceType names the kind of Kubernetes object a planned action acts
// upon.
type ResourceType string

const (
	ResourcePod         ResourceType = "Pod"
	ResourceDeployment  ResourceType = "Deployment"
	ResourceStatefulSet ResourceType = "StatefulSet"
	ResourceConfigMap   ResourceType = "ConfigMap"
)

// ActionTarget identifies the object a planned action will modify.
type ActionTarget struct {
	Kind      ResourceType
	Namespace string
	Name      string
}

// PlannedAction is one step of a strategy's execution plan.
type PlannedAction struct {
	Type        ActionType
	Target      ActionTarget
	Parameters  map[string]string
	Description string
}

// RollbackActionType mirrors ActionType for the inverse operation a
// rollback plan performs.
type RollbackActionType string

const (
	RollbackRestorePodCount    RollbackActionType = "RestorePodCount"
	RollbackRestoreResources   RollbackActionType = "RestoreResources"
	RollbackRestoreConfigMap   RollbackActionType = "RestoreConfigMap"
	RollbackRemoveNetworkPolicy RollbackActionType = "RemoveNetworkPolicy"
	RollbackNone               RollbackActionType = "None"
)

// RollbackAction is one step of a strategy's rollback plan.
type RollbackAction struct {
	Type       RollbackActionType
	Target     ActionTarget
	Parameters map[string]string
}

// RollbackPlan is the set of actions that would undo a strategy's planned
// actions if verification fails.
type RollbackPlan struct {
	Actions []RollbackAction
}

// SolutionStrategy is a candidate remediation the Meta-cognitive agent
// generates, evaluates via micro-agents, and — if selected — executes.
type SolutionStrategy struct {
	ID              uuid.UUID
	Type            StrategyType
	Risk            RiskLevel
	EstimatedTime   time.Duration
	PlannedActions  []PlannedAction
	RollbackPlan    RollbackPlan
	Confidence      float64
}

// MicroAgentResult is one micro-agent's evaluation of a single candidate
// strategy.
type MicroAgentResult struct {
	MicroAgentID  uuid.UUID
	StrategyType  StrategyType
	Evaluation    StrategyEvaluation
	ReasoningDepth int
}

// StrategyEvaluation is the structured verdict an LLM (or micro-agent
// reasoning loop) returns for a candidate strategy.
type StrategyEvaluation struct {
	StrategyType          StrategyType
	SuccessProbability    float64
	RiskScore             float64
	EstimatedTimeSeconds  uint64
	Reasoning             string
	PrerequisitesMet      bool
}

// ActionResult is the outcome of executing one planned action, including
// enough state to drive a rollback if verification later fails.
type ActionResult struct {
	ActionType   ActionType
	Success      bool
	Message      string
	ExecutedAt   time.Time
	DurationMs   int64
	RollbackData map[string]string
}
