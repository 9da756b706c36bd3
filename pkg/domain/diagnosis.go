package domain

import (
	"time"

	"github.com/google/uuid"
)

// LogLevel is the severity a structured log line was emitted at.
type LogLevel string

const (
	LogLevelTrace LogLevel = "TRACE"
	LogLevelDebug LogLevel = "DEBUG"
	LogLevelInfo  LogLevel = "INFO"
	LogLevelWarn  LogLevel = "WARN"
	LogLevelError LogLevel = "ERROR"
)

// StructuredLog is a single normalized log line collected from Loki.
type StructuredLog struct {
	Timestamp time.Time
	Level     LogLevel
	PodName   string
	Message   string
}

// LogAnalysisRequest bundles the material handed to the causal-graph
// builder and, ultimately, the LLM diagnosis prompt.
type LogAnalysisRequest struct {
	Namespace string
	PodName   string
	Logs      []StructuredLog
	Metrics   map[string]float64
	Threshold *float64
	Events    []string
}

// EvidenceSource names where a piece of supporting evidence came from.
type EvidenceSource string

const (
	EvidenceSourceLog    EvidenceSource = "Log"
	EvidenceSourceMetric EvidenceSource = "Metric"
	EvidenceSourceEvent  EvidenceSource = "Event"
)

// Evidence is one fact the diagnosis hypothesis cites in support of its
// root cause.
type Evidence struct {
	Source      EvidenceSource
	Description string
	Confidence  float64
}

// CausalNodeType classifies a node in the causal graph.
type CausalNodeType string

const (
	CausalNodeSymptom    CausalNodeType = "Symptom"
	CausalNodeCondition  CausalNodeType = "Condition"
	CausalNodeRootCause  CausalNodeType = "RootCause"
)

// CausalNode is one vertex of the causal graph: an observed symptom, an
// intermediate condition, or a candidate root cause.
type CausalNode struct {
	ID      string
	Type    CausalNodeType
	Summary string
}

// CausalRelation labels the edge between two causal nodes.
type CausalRelation string

const (
	RelationCauses     CausalRelation = "Causes"
	RelationCorrelates CausalRelation = "Correlates"
)

// CausalEdge connects two causal nodes by ID.
type CausalEdge struct {
	From     string
	To       string
	Relation CausalRelation
}

// CausalTree is the bounded evidence graph Diagnosis builds before calling
// the LLM: at most 20 log-derived nodes and 10 edges, matching the
// original implementation's caps to keep the LLM prompt small.
type CausalTree struct {
	Nodes map[string]CausalNode
	Edges []CausalEdge
	Root  string
}

const (
	MaxCausalLogNodes = 20
	MaxCausalEdges    = 10
)

// NewCausalTree builds a causal tree from structured logs: each distinct
// message becomes a node (capped at MaxCausalLogNodes), a Condition node
// for ERROR-level logs and a Symptom node otherwise; nodes are chained by
// arrival order with a Correlates edge (capped at MaxCausalEdges), and
// Root is the node of the last distinct message.
func NewCausalTree(logs []StructuredLog) CausalTree {
	tree := CausalTree{Nodes: map[string]CausalNode{}}

	seen := map[string]bool{}
	var order []string
	for _, l := range logs {
		if len(order) >= MaxCausalLogNodes {
			break
		}
		if seen[l.Message] {
			continue
		}
		seen[l.Message] = true
		id := uuid.New().String()
		nodeType := CausalNodeSymptom
		if l.Level == LogLevelError {
			nodeType = CausalNodeCondition
		}
		tree.Nodes[id] = CausalNode{ID: id, Type: nodeType, Summary: l.Message}
		order = append(order, id)
	}

	for i := 1; i < len(order) && len(tree.Edges) < MaxCausalEdges; i++ {
		tree.Edges = append(tree.Edges, CausalEdge{
			From:     order[i-1],
			To:       order[i],
			Relation: RelationCorrelates,
		})
	}

	if len(order) > 0 {
		tree.Root = order[len(order)-1]
	}

	return tree
}

// GetRootCauseChain walks the tree from the root backward, following each
// node's first incoming edge whatever its relation, and returns the node
// summaries in the order visited, starting with the root.
func (t CausalTree) GetRootCauseChain() []string {
	if t.Root == "" {
		return nil
	}
	var chain []string
	visited := map[string]bool{}
	current := t.Root
	for current != "" && !visited[current] {
		visited[current] = true
		node, ok := t.Nodes[current]
		if !ok {
			break
		}
		chain = append(chain, node.Summary)

		next := ""
		for _, e := range t.Edges {
			if e.To == current {
				next = e.From
				break
			}
		}
		current = next
	}
	return chain
}

// DiagnosisHypothesis is the assembled output of the Diagnosis agent: an
// LLM-proposed root cause plus the evidence and causal chain that back it.
type DiagnosisHypothesis struct {
	ID               uuid.UUID
	Namespace        string
	PodName          string
	RootCause        string
	Confidence       float64
	Evidence         []Evidence
	Explanation      string
	SuggestedActions []string
	CausalTree       CausalTree
	CreatedAt        time.Time
}

// LlmDiagnosisResponse is the raw shape the LLM returns for a diagnosis
// request, before it is folded into a DiagnosisHypothesis.
type LlmDiagnosisResponse struct {
	RootCause        string
	Confidence       float64
	Evidence         []string
	Explanation      string
	SuggestedActions []string
}
