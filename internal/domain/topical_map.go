package domain

import "github.com/google/uuid"

type NodeType string

const (
	NodePillar     NodeType = "pillar"
	NodeCluster    NodeType = "cluster"
	NodeSupporting NodeType = "supporting"
)

func (t NodeType) Valid() bool {
	return t == NodePillar || t == NodeCluster || t == NodeSupporting
}

type EdgeType string

const (
	EdgeHierarchical EdgeType = "hierarchical"
	EdgeContextual   EdgeType = "contextual"
	EdgeRelated      EdgeType = "related"
)

func (t EdgeType) Valid() bool {
	return t == EdgeHierarchical || t == EdgeContextual || t == EdgeRelated
}

type KeywordSource string

const (
	SourceHaloscan  KeywordSource = "haloscan"
	SourceManual    KeywordSource = "manual"
	SourceGenerated KeywordSource = "generated"
)

type NodeKeyword struct {
	Keyword string        `json:"keyword"`
	Volume  *float64      `json:"volume,omitempty"`
	KGR     *float64      `json:"kgr,omitempty"`
	IsMain  bool          `json:"isMain"`
	Source  KeywordSource `json:"source"`
}

type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// TopicalMapNode ids are strings so that user-created nodes and generated
// nodes share one id space; generated nodes always carry a uuid.
type TopicalMapNode struct {
	ID                     string        `json:"id"`
	Type                   NodeType      `json:"type"`
	Title                  string        `json:"title"`
	Description            string        `json:"description"`
	Intent                 SearchIntent  `json:"intent"`
	FiveWH                 []FiveWH      `json:"fiveWH,omitempty"`
	Keywords               []NodeKeyword `json:"keywords"`
	PAAQuestions           []string      `json:"paaQuestions"`
	BasedOnHaloscanCluster string        `json:"basedOnHaloscanCluster,omitempty"`
	Position               Position      `json:"position"`
}

type TopicalMapEdge struct {
	ID     string   `json:"id"`
	Source string   `json:"source"`
	Target string   `json:"target"`
	Type   EdgeType `json:"type"`
}

type TopicalMap struct {
	ID        uuid.UUID        `json:"id"`
	ProjectID uuid.UUID        `json:"projectId"`
	Nodes     []TopicalMapNode `json:"nodes"`
	Edges     []TopicalMapEdge `json:"edges"`
}

func (m *TopicalMap) NodeIndex(id string) int {
	if m == nil {
		return -1
	}
	for i := range m.Nodes {
		if m.Nodes[i].ID == id {
			return i
		}
	}
	return -1
}

func (m *TopicalMap) EdgeIndex(id string) int {
	if m == nil {
		return -1
	}
	for i := range m.Edges {
		if m.Edges[i].ID == id {
			return i
		}
	}
	return -1
}
