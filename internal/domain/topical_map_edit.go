package domain

import (
	"errors"
	"strings"
)

var (
	ErrNodeNotFound = errors.New("node not found")
	ErrEdgeNotFound = errors.New("edge not found")
	ErrDuplicateID  = errors.New("id already exists")
	ErrInvalidNode  = errors.New("invalid node")
	ErrInvalidEdge  = errors.New("invalid edge")
	ErrNoTopicalMap = errors.New("project has no topical map")
	ErrEdgeEndpoint = errors.New("edge endpoint does not exist")
)

// NodePatch carries a partial node update; nil fields are left unchanged.
type NodePatch struct {
	Title        *string        `json:"title,omitempty"`
	Description  *string        `json:"description,omitempty"`
	Intent       *SearchIntent  `json:"intent,omitempty"`
	Type         *NodeType      `json:"type,omitempty"`
	Keywords     *[]NodeKeyword `json:"keywords,omitempty"`
	PAAQuestions *[]string      `json:"paaQuestions,omitempty"`
	Position     *Position      `json:"position,omitempty"`
}

func (m *TopicalMap) AddNode(n TopicalMapNode) error {
	if strings.TrimSpace(n.ID) == "" || strings.TrimSpace(n.Title) == "" || !n.Type.Valid() {
		return ErrInvalidNode
	}
	if m.NodeIndex(n.ID) >= 0 {
		return ErrDuplicateID
	}
	if n.Intent == "" {
		n.Intent = IntentInformational
	}
	if n.Keywords == nil {
		n.Keywords = []NodeKeyword{}
	}
	if n.PAAQuestions == nil {
		n.PAAQuestions = []string{}
	}
	m.Nodes = append(m.Nodes, n)
	return nil
}

func (m *TopicalMap) UpdateNode(id string, patch NodePatch) (TopicalMapNode, error) {
	i := m.NodeIndex(id)
	if i < 0 {
		return TopicalMapNode{}, ErrNodeNotFound
	}
	n := m.Nodes[i]
	if patch.Title != nil {
		if strings.TrimSpace(*patch.Title) == "" {
			return TopicalMapNode{}, ErrInvalidNode
		}
		n.Title = *patch.Title
	}
	if patch.Description != nil {
		n.Description = *patch.Description
	}
	if patch.Intent != nil {
		if !patch.Intent.Valid() {
			return TopicalMapNode{}, ErrInvalidNode
		}
		n.Intent = *patch.Intent
	}
	if patch.Type != nil {
		if !patch.Type.Valid() {
			return TopicalMapNode{}, ErrInvalidNode
		}
		n.Type = *patch.Type
	}
	if patch.Keywords != nil {
		n.Keywords = append([]NodeKeyword{}, *patch.Keywords...)
	}
	if patch.PAAQuestions != nil {
		n.PAAQuestions = append([]string{}, *patch.PAAQuestions...)
	}
	if patch.Position != nil {
		n.Position = *patch.Position
	}
	m.Nodes[i] = n
	return n, nil
}

// DeleteNode removes the node and every edge touching it. It returns the
// number of edges removed.
func (m *TopicalMap) DeleteNode(id string) (int, error) {
	i := m.NodeIndex(id)
	if i < 0 {
		return 0, ErrNodeNotFound
	}
	m.Nodes = append(m.Nodes[:i], m.Nodes[i+1:]...)

	kept := m.Edges[:0]
	removed := 0
	for _, e := range m.Edges {
		if e.Source == id || e.Target == id {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	m.Edges = kept
	return removed, nil
}

func (m *TopicalMap) AddEdge(e TopicalMapEdge) error {
	if strings.TrimSpace(e.ID) == "" {
		return ErrInvalidEdge
	}
	if e.Type == "" {
		e.Type = EdgeHierarchical
	}
	if !e.Type.Valid() {
		return ErrInvalidEdge
	}
	if m.EdgeIndex(e.ID) >= 0 {
		return ErrDuplicateID
	}
	if m.NodeIndex(e.Source) < 0 || m.NodeIndex(e.Target) < 0 {
		return ErrEdgeEndpoint
	}
	m.Edges = append(m.Edges, e)
	return nil
}

func (m *TopicalMap) DeleteEdge(id string) error {
	i := m.EdgeIndex(id)
	if i < 0 {
		return ErrEdgeNotFound
	}
	m.Edges = append(m.Edges[:i], m.Edges[i+1:]...)
	return nil
}
