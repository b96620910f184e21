package domain

import (
	"errors"
	"testing"
)

func sampleMap() *TopicalMap {
	return &TopicalMap{
		Nodes: []TopicalMapNode{
			{ID: "p", Type: NodePillar, Title: "Guide"},
			{ID: "c1", Type: NodeCluster, Title: "Cost"},
			{ID: "c2", Type: NodeCluster, Title: "Documents"},
		},
		Edges: []TopicalMapEdge{
			{ID: "e1", Source: "p", Target: "c1", Type: EdgeHierarchical},
			{ID: "e2", Source: "p", Target: "c2", Type: EdgeHierarchical},
			{ID: "e3", Source: "c1", Target: "c2", Type: EdgeContextual},
		},
	}
}

func TestDeleteNodeCascadesEdges(t *testing.T) {
	m := sampleMap()
	removed, err := m.DeleteNode("c1")
	if err != nil {
		t.Fatalf("DeleteNode: %v", err)
	}
	if removed != 2 {
		t.Fatalf("removed = %d, want 2", removed)
	}
	if len(m.Nodes) != 2 || len(m.Edges) != 1 || m.Edges[0].ID != "e2" {
		t.Fatalf("map after delete = %+v", m)
	}
	if _, err := m.DeleteNode("c1"); !errors.Is(err, ErrNodeNotFound) {
		t.Fatalf("second delete: %v", err)
	}
}

func TestAddEdgeValidatesEndpoints(t *testing.T) {
	m := sampleMap()
	if err := m.AddEdge(TopicalMapEdge{ID: "e4", Source: "c2", Target: "nope"}); !errors.Is(err, ErrEdgeEndpoint) {
		t.Fatalf("expected ErrEdgeEndpoint, got %v", err)
	}
	if err := m.AddEdge(TopicalMapEdge{ID: "e1", Source: "c2", Target: "p"}); !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
	if err := m.AddEdge(TopicalMapEdge{ID: "e4", Source: "c2", Target: "p"}); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	if m.Edges[3].Type != EdgeHierarchical {
		t.Fatalf("default edge type = %q", m.Edges[3].Type)
	}
}

func TestUpdateNodePartial(t *testing.T) {
	m := sampleMap()
	intent := IntentTransactional
	pos := Position{X: 10, Y: 20}
	n, err := m.UpdateNode("c2", NodePatch{Intent: &intent, Position: &pos})
	if err != nil {
		t.Fatalf("UpdateNode: %v", err)
	}
	if n.Title != "Documents" || n.Intent != IntentTransactional || n.Position != pos {
		t.Fatalf("node = %+v", n)
	}
	bad := NodeType("hub")
	if _, err := m.UpdateNode("c2", NodePatch{Type: &bad}); !errors.Is(err, ErrInvalidNode) {
		t.Fatalf("expected ErrInvalidNode, got %v", err)
	}
	if _, err := m.UpdateNode("zz", NodePatch{}); !errors.Is(err, ErrNodeNotFound) {
		t.Fatalf("expected ErrNodeNotFound, got %v", err)
	}
}

func TestAddNodeDefaults(t *testing.T) {
	m := sampleMap()
	if err := m.AddNode(TopicalMapNode{ID: "s", Type: NodeSupporting, Title: "Photo"}); err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	n := m.Nodes[3]
	if n.Intent != IntentInformational || n.Keywords == nil || n.PAAQuestions == nil {
		t.Fatalf("defaults not applied: %+v", n)
	}
	if err := m.AddNode(TopicalMapNode{ID: "p", Type: NodePillar, Title: "Dup"}); !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
}
