// Package healing implements the incident state machine shared by the
// reconcilers and agents: Pending -> Containing -> Diagnosing -> Healing
// -> Verifying -> {Completed | Failed}, with Failed reachable from any
// non-terminal state.
package healing

import (
	"time"

	"github.com/ErdemAslans/ReCiSt/pkg/apierrors"
)

// State is one stage of the healing pipeline.
type State string

const (
	StatePending     State = "Pending"
	StateContaining  State = "Containing"
	StateDiagnosing  State = "Diagnosing"
	StateHealing     State = "Healing"
	StateVerifying   State = "Verifying"
	StateCompleted   State = "Completed"
	StateFailed      State = "Failed"
)

// IsTerminal reports whether a state has no further transitions.
func (s State) IsTerminal() bool {
	return s == StateCompleted || s == StateFailed
}

// allowedTransitions is the exact transition table: every non-terminal
// state may additionally move to Failed, checked in validTransition.
var allowedTransitions = map[State][]State{
	StatePending:    {StateContaining},
	StateContaining: {StateDiagnosing},
	StateDiagnosing: {StateHealing},
	StateHealing:    {StateVerifying},
	StateVerifying:  {StateCompleted},
	StateCompleted:  {},
	StateFailed:     {},
}

func validTransition(from, to State) bool {
	if to == StateFailed && from != StateFailed && from != StateCompleted {
		return true
	}
	for _, candidate := range allowedTransitions[from] {
		if candidate == to {
			return true
		}
	}
	return false
}

// StateTransition records one state change with timing, for audit on the
// HealingEvent status and for duration_ms computation.
type StateTransition struct {
	From      State
	To        State
	Timestamp time.Time
	Reason    string
}

// HealingContext tracks one incident's progress through the state
// machine from its first detection to a terminal state.
type HealingContext struct {
	CurrentState State
	StartedAt    time.Time
	Transitions  []StateTransition
}

// NewHealingContext starts a fresh incident in StatePending.
func NewHealingContext() *HealingContext {
	now := time.Now()
	return &HealingContext{
		CurrentState: StatePending,
		StartedAt:    now,
		Transitions: []StateTransition{
			{From: StatePending, To: StatePending, Timestamp: now, Reason: "incident opened"},
		},
	}
}

// Transition moves the context to a new state if the transition is legal,
// recording it with a reason; otherwise it returns an
// InvalidStateTransition error and leaves the context unchanged.
func (h *HealingContext) Transition(to State, reason string) error {
	if !validTransition(h.CurrentState, to) {
		return apierrors.InvalidStateTransition(string(h.CurrentState), string(to))
	}
	h.Transitions = append(h.Transitions, StateTransition{
		From:      h.CurrentState,
		To:        to,
		Timestamp: time.Now(),
		Reason:    reason,
	})
	h.CurrentState = to
	return nil
}

// DurationMs returns the elapsed milliseconds since the incident started.
// Once the context is terminal the value is fixed at the time of the
// transition into the terminal state.
func (h *HealingContext) DurationMs() int64 {
	if h.IsTerminal() && len(h.Transitions) > 0 {
		return h.Transitions[len(h.Transitions)-1].Timestamp.Sub(h.StartedAt).Milliseconds()
	}
	return time.Since(h.StartedAt).Milliseconds()
}

// IsTerminal reports whether the context has reached Completed or Failed.
func (h *HealingContext) IsTerminal() bool {
	return h.CurrentState.IsTerminal()
}
