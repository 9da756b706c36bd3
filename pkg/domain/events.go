// Package domain holds the plain data types shared by every agent and
// collaborator: events, faults, diagnoses, strategies and knowledge
// entries. None of these types carry behavior beyond small value-object
// helpers; agents own the operations.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// AgentType identifies which of the four cooperating agents produced or
// consumed an event.
type AgentType string

const (
	AgentContainment   AgentType = "containment"
	AgentDiagnosis     AgentType = "diagnosis"
	AgentMetaCognitive AgentType = "metacognitive"
	AgentKnowledge     AgentType = "knowledge"
)

func (a AgentType) String() string { return string(a) }

// AgentEventType enumerates the kinds of events agents publish on the
// event bus.
type AgentEventType string

const (
	EventFaultDetected      AgentEventType = "FaultDetected"
	EventContainmentApplied AgentEventType = "ContainmentApplied"
	EventDiagnosisStarted   AgentEventType = "DiagnosisStarted"
	EventDiagnosisComplete  AgentEventType = "DiagnosisComplete"
	EventStrategySelected   AgentEventType = "StrategySelected"
	EventHealingStarted     AgentEventType = "HealingStarted"
	EventHealingComplete    AgentEventType = "HealingComplete"
	EventHealingFailed      AgentEventType = "HealingFailed"
	EventKnowledgeUpdated   AgentEventType = "KnowledgeUpdated"
	EventProactiveWarning   AgentEventType = "ProactiveWarning"
)

// FaultInfo is the minimal fault summary carried on fault-related events.
type FaultInfo struct {
	Namespace string
	PodName   string
	Severity  FaultSeverity
	Reason    string
}

// EventPayload is a closed union of the data an AgentEvent may carry.
// At most one field is populated per AgentEventType (DiagnosisStarted and
// HealingStarted carry none); unused fields are
// left at their zero value, matching the original's enum-of-structs shape
// translated into Go's lack of tagged unions.
type EventPayload struct {
	Fault              *FaultInfo
	Hypothesis         *DiagnosisHypothesis
	Strategy           *SolutionStrategy
	ActionResult       *ActionResult
	KnowledgeEntry     *KnowledgeEntry
	ProactivePrediction *ProactivePrediction
	Message            string
}

// AgentEvent is the envelope published on the event bus.
type AgentEvent struct {
	ID            uuid.UUID
	CorrelationID uuid.UUID
	Source        AgentType
	Kind          AgentEventType
	Namespace     string
	PodName       string
	Payload       EventPayload
	Timestamp     time.Time
}

func newEvent(correlationID uuid.UUID, source AgentType, kind AgentEventType, namespace, pod string, payload EventPayload) AgentEvent {
	return AgentEvent{
		ID:            uuid.New(),
		CorrelationID: correlationID,
		Source:        source,
		Kind:          kind,
		Namespace:     namespace,
		PodName:       pod,
		Payload:       payload,
		Timestamp:     time.Now(),
	}
}

// NewFaultDetectedEvent builds the event Containment publishes once a
// fault cluster crosses its isolation threshold.
func NewFaultDetectedEvent(correlationID uuid.UUID, namespace, pod string, info FaultInfo) AgentEvent {
	return newEvent(correlationID, AgentContainment, EventFaultDetected, namespace, pod, EventPayload{Fault: &info})
}

// NewContainmentAppliedEvent builds the event Containment publishes after
// a network policy has been created for a fault.
func NewContainmentAppliedEvent(correlationID uuid.UUID, namespace, pod, message string) AgentEvent {
	return newEvent(correlationID, AgentContainment, EventContainmentApplied, namespace, pod, EventPayload{Message: message})
}

// NewDiagnosisStartedEvent builds the event Diagnosis publishes when it
// begins correlating logs/metrics/events for an incident.
func NewDiagnosisStartedEvent(correlationID uuid.UUID, namespace, pod string) AgentEvent {
	return newEvent(correlationID, AgentDiagnosis, EventDiagnosisStarted, namespace, pod, EventPayload{})
}

// NewDiagnosisCompleteEvent builds the event Diagnosis publishes once an
// LLM root-cause hypothesis has been assembled.
func NewDiagnosisCompleteEvent(correlationID uuid.UUID, namespace, pod string, hypothesis DiagnosisHypothesis) AgentEvent {
	return newEvent(correlationID, AgentDiagnosis, EventDiagnosisComplete, namespace, pod, EventPayload{Hypothesis: &hypothesis})
}

// NewStrategySelectedEvent builds the event Meta-cognitive publishes once
// a remediation strategy has been chosen.
func NewStrategySelectedEvent(correlationID uuid.UUID, namespace, pod string, strategy SolutionStrategy) AgentEvent {
	return newEvent(correlationID, AgentMetaCognitive, EventStrategySelected, namespace, pod, EventPayload{Strategy: &strategy})
}

// NewHealingStartedEvent builds the event Meta-cognitive publishes when it
// begins executing the selected strategy's planned actions.
func NewHealingStartedEvent(correlationID uuid.UUID, namespace, pod string) AgentEvent {
	return newEvent(correlationID, AgentMetaCognitive, EventHealingStarted, namespace, pod, EventPayload{})
}

// NewHealingCompleteEvent builds the event Meta-cognitive publishes when
// verification confirms the fault no longer reproduces.
func NewHealingCompleteEvent(correlationID uuid.UUID, namespace, pod string, result ActionResult) AgentEvent {
	return newEvent(correlationID, AgentMetaCognitive, EventHealingComplete, namespace, pod, EventPayload{ActionResult: &result})
}

// NewHealingFailedEvent builds the event Meta-cognitive publishes when
// execution or verification fails.
func NewHealingFailedEvent(correlationID uuid.UUID, namespace, pod, reason string) AgentEvent {
	return newEvent(correlationID, AgentMetaCognitive, EventHealingFailed, namespace, pod, EventPayload{Message: reason})
}

// NewKnowledgeUpdatedEvent builds the event Knowledge publishes after
// recording a post-mortem entry.
func NewKnowledgeUpdatedEvent(correlationID uuid.UUID, namespace, pod string, entry KnowledgeEntry) AgentEvent {
	return newEvent(correlationID, AgentKnowledge, EventKnowledgeUpdated, namespace, pod, EventPayload{KnowledgeEntry: &entry})
}

// NewProactiveWarningEvent builds the event Knowledge publishes when a
// trend-derived prediction crosses its probability threshold.
func NewProactiveWarningEvent(correlationID uuid.UUID, namespace, pod string, prediction ProactivePrediction) AgentEvent {
	return newEvent(correlationID, AgentKnowledge, EventProactiveWarning, namespace, pod, EventPayload{ProactivePrediction: &prediction})
}
