package domain

import "testing"

func logsOf(messages ...string) []StructuredLog {
	logs := make([]StructuredLog, 0, len(messages))
	for _, m := range messages {
		logs = append(logs, StructuredLog{Level: LogLevelInfo, Message: m})
	}
	return logs
}

func TestNewCausalTree(t *testing.T) {
	tree := NewCausalTree(logsOf("a", "b", "c"))

	if len(tree.Nodes) != 3 {
		t.Fatalf("len(Nodes) = %d, want 3", len(tree.Nodes))
	}
	if len(tree.Edges) != 2 {
		t.Fatalf("len(Edges) = %d, want 2", len(tree.Edges))
	}
	if tree.Root == "" {
		t.Fatal("Root should be set to the last distinct log's node")
	}
	if tree.Nodes[tree.Root].Summary != "c" {
		t.Errorf("root summary = %q, want %q", tree.Nodes[tree.Root].Summary, "c")
	}
}

func TestNewCausalTree_DeduplicatesMessages(t *testing.T) {
	tree := NewCausalTree(logsOf("dup", "dup", "dup"))
	if len(tree.Nodes) != 1 {
		t.Errorf("len(Nodes) = %d, want 1 (duplicates collapsed)", len(tree.Nodes))
	}
}

func TestNewCausalTree_CapsAtMaxNodesAndEdges(t *testing.T) {
	messages := make([]string, 0, 30)
	for i := 0; i < 30; i++ {
		messages = append(messages, string(rune('a'+i)))
	}
	tree := NewCausalTree(logsOf(messages...))

	if len(tree.Nodes) != MaxCausalLogNodes {
		t.Errorf("len(Nodes) = %d, want %d", len(tree.Nodes), MaxCausalLogNodes)
	}
	if len(tree.Edges) != MaxCausalEdges {
		t.Errorf("len(Edges) = %d, want %d", len(tree.Edges), MaxCausalEdges)
	}
}

func TestGetRootCauseChain(t *testing.T) {
	tree := NewCausalTree(logsOf("first", "second", "third"))
	chain := tree.GetRootCauseChain()

	if len(chain) != 3 {
		t.Fatalf("len(chain) = %d, want 3", len(chain))
	}
	if chain[0] != "third" {
		t.Errorf("chain[0] = %q, want %q (walk starts at root)", chain[0], "third")
	}
	if chain[len(chain)-1] != "first" {
		t.Errorf("chain[last] = %q, want %q", chain[len(chain)-1], "first")
	}
}

func TestGetRootCauseChain_EmptyTree(t *testing.T) {
	tree := NewCausalTree(nil)
	if chain := tree.GetRootCauseChain(); chain != nil {
		t.Errorf("GetRootCauseChain() on an empty tree = %v, want nil", chain)
	}
}
