// Package controller implements the controller-runtime reconcilers that
// drive SelfHealingPolicy and HealingEvent objects through the healing
// pipeline, delegating the actual agent work to pkg/agents.
package controller

import (
	"github.com/ErdemAslans/ReCiSt/pkg/agents/containment"
	"github.com/ErdemAslans/ReCiSt/pkg/agents/diagnosis"
	"github.com/ErdemAslans/ReCiSt/pkg/agents/knowledge"
	"github.com/ErdemAslans/ReCiSt/pkg/agents/metacognitive"
	"github.com/ErdemAslans/ReCiSt/internal/eventbus"
)

// Coordinator bundles the four agents and the event bus they share, so
// reconcilers have one collaborator to depend on instead of four.
type Coordinator struct {
	Containment   *containment.Agent
	Diagnosis     *diagnosis.Agent
	MetaCognitive *metacognitive.Agent
	Knowledge     *knowledge.Agent
	EventBus      *eventbus.Bus
}
