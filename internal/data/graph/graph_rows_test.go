package graph

import (
	"testing"

	"github.com/google/uuid"

	"github.com/Berguit/topical-map-app/internal/domain"
)

func TestTopicalMapRowsSkipsDanglingEdges(t *testing.T) {
	tm := &domain.TopicalMap{
		Nodes: []domain.TopicalMapNode{
			{ID: "a", Type: domain.NodePillar, Title: "A", Keywords: []domain.NodeKeyword{{Keyword: "x"}, {Keyword: "y", IsMain: true}}},
			{ID: "b", Type: domain.NodeCluster, Title: "B"},
		},
		Edges: []domain.TopicalMapEdge{
			{ID: "e1", Source: "a", Target: "b", Type: domain.EdgeHierarchical},
			{ID: "e2", Source: "a", Target: "ghost", Type: domain.EdgeRelated},
		},
	}
	nodes, rels := topicalMapRows(uuid.New(), tm, "now")
	if len(nodes) != 2 || len(rels) != 1 {
		t.Fatalf("nodes=%d rels=%d", len(nodes), len(rels))
	}
	if nodes[0]["main_keyword"] != "y" {
		t.Fatalf("main keyword = %v", nodes[0]["main_keyword"])
	}
	if rels[0]["id"] != "e1" {
		t.Fatalf("rel = %+v", rels[0])
	}
}

func TestEAVRowsSkipsNamedRelations(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	eav := &domain.EAVModel{
		Entities: []domain.Entity{{ID: a, Name: "Visa"}, {ID: b, Name: "Consulate"}},
		Relations: []domain.EntityRelation{
			{ID: uuid.New(), SourceEntityID: b.String(), TargetEntityID: a.String(), RelationType: domain.RelationProvides},
			{ID: uuid.New(), SourceEntityID: a.String(), TargetEntityID: "Embassy", RelationType: domain.RelationRelatedTo},
		},
	}
	entities, rels := eavRows(uuid.New(), eav, "now")
	if len(entities) != 2 || len(rels) != 1 {
		t.Fatalf("entities=%d rels=%d", len(entities), len(rels))
	}
	if rels[0]["type"] != "provides" {
		t.Fatalf("rel type = %v", rels[0]["type"])
	}
}
