package steps

import (
	"context"
	"fmt"

	"github.com/Berguit/topical-map-app/internal/domain"
	"github.com/Berguit/topical-map-app/internal/modules/topicalmap/prompts"
)

type TopicalMapOutput struct {
	TopicalMap  *domain.TopicalMap
	Fingerprint string
}

func GenerateTopicalMap(ctx context.Context, deps Deps, in Input) (TopicalMapOutput, error) {
	out := TopicalMapOutput{}
	if err := CheckPreconditions(StageTopicalMap, in); err != nil {
		return out, err
	}
	if err := requireCompleter(StageTopicalMap, deps); err != nil {
		return out, err
	}

	in.Progress.emit(StageTopicalMap, StatusInProgress, "Generating Topical Map...", nil)
	raw, p, err := completeStage(ctx, deps, in, StageTopicalMap, prompts.PromptTopicalMap, largeMaxTokens)
	if err != nil {
		return out, err
	}

	tm, err := buildTopicalMap(deps, in.Project, raw)
	if err != nil {
		return out, in.Progress.fail(StageTopicalMap, err)
	}

	in.Progress.emit(StageTopicalMap, StatusCompleted,
		fmt.Sprintf("Topical Map: %d nodes, %d edges", len(tm.Nodes), len(tm.Edges)), tm)
	out.TopicalMap = tm
	out.Fingerprint = p.Fingerprint()
	return out, nil
}

func buildTopicalMap(deps Deps, project domain.Project, raw map[string]any) (*domain.TopicalMap, error) {
	rawNodesAny, err := requireArray(StageTopicalMap, raw, "nodes")
	if err != nil {
		return nil, err
	}
	rawNodes := make([]map[string]any, 0, len(rawNodesAny))
	for _, x := range rawNodesAny {
		if m, ok := x.(map[string]any); ok {
			rawNodes = append(rawNodes, m)
		}
	}

	tm := &domain.TopicalMap{
		ID:        deps.newID(),
		ProjectID: project.ID,
		Nodes:     []domain.TopicalMapNode{},
		Edges:     []domain.TopicalMapEdge{},
	}

	// Pillars first, then clusters, then supporting pages; input order is kept
	// inside each band. Nodes of any other type are dropped.
	for _, t := range []domain.NodeType{domain.NodePillar, domain.NodeCluster, domain.NodeSupporting} {
		index := 0
		for _, m := range rawNodes {
			if domain.NodeType(lowerEnum(m["type"])) != t {
				continue
			}
			tm.Nodes = append(tm.Nodes, buildNode(deps, m, t, index))
			index++
		}
	}

	idMap, err := reconcileNodeIDs(deps.StrictIDs, rawNodes, tm.Nodes)
	if err != nil {
		return nil, err
	}

	for _, m := range mapsFromAny(raw["edges"]) {
		src := stringFromAny(m["source"])
		dst := stringFromAny(m["target"])
		if src == "" || dst == "" {
			if deps.StrictIDs {
				return nil, &ValidationError{
					Stage:  StageTopicalMap,
					Field:  "edges",
					Reason: fmt.Sprintf("edge without endpoint %q -> %q", src, dst),
				}
			}
			continue
		}
		newSrc, okSrc := idMap[src]
		newDst, okDst := idMap[dst]
		if deps.StrictIDs && (!okSrc || !okDst) {
			return nil, &ValidationError{
				Stage:  StageTopicalMap,
				Field:  "edges",
				Reason: fmt.Sprintf("unresolved node reference %q -> %q", src, dst),
			}
		}
		if !okSrc {
			newSrc = src
		}
		if !okDst {
			newDst = dst
		}
		et := domain.EdgeType(lowerEnum(m["type"]))
		if !et.Valid() {
			et = domain.EdgeHierarchical
		}
		tm.Edges = append(tm.Edges, domain.TopicalMapEdge{
			ID:     deps.newID().String(),
			Source: newSrc,
			Target: newDst,
			Type:   et,
		})
	}
	return tm, nil
}

func buildNode(deps Deps, m map[string]any, t domain.NodeType, index int) domain.TopicalMapNode {
	n := domain.TopicalMapNode{
		ID:                     deps.newID().String(),
		Type:                   t,
		Title:                  stringFromAny(m["title"]),
		Description:            stringFromAny(m["description"]),
		Intent:                 intentFromAny(m["intent"]),
		Keywords:               []domain.NodeKeyword{},
		PAAQuestions:           stringSliceFromAny(m["paaQuestions"]),
		BasedOnHaloscanCluster: stringFromAny(m["basedOnHaloscanCluster"]),
		Position:               GetPosition(t, index),
	}
	for _, w := range stringSliceFromAny(m["fiveWH"]) {
		if fw, ok := fiveWHFromAny(w); ok {
			n.FiveWH = append(n.FiveWH, fw)
		}
	}
	for _, k := range sliceAny(m["keywords"]) {
		switch kw := k.(type) {
		case string:
			if s := stringFromAny(kw); s != "" {
				// isMain follows the node's position in its band, not the
				// keyword's position in the list.
				n.Keywords = append(n.Keywords, domain.NodeKeyword{
					Keyword: s,
					IsMain:  index == 0,
					Source:  domain.SourceHaloscan,
				})
			}
		case map[string]any:
			s := stringFromAny(kw["keyword"])
			if s == "" {
				continue
			}
			n.Keywords = append(n.Keywords, domain.NodeKeyword{
				Keyword: s,
				Volume:  optFloat(kw["volume"]),
				KGR:     optFloat(kw["kgr"]),
				IsMain:  boolFromAny(kw["isMain"]),
				Source:  domain.SourceHaloscan,
			})
		}
	}
	return n
}

// reconcileNodeIDs maps each model-side node id to the fresh id of the first
// built node sharing its title. Duplicate titles collide onto that first node
// unless strict is set.
func reconcileNodeIDs(strict bool, rawNodes []map[string]any, built []domain.TopicalMapNode) (map[string]string, error) {
	firstByTitle := make(map[string]string, len(built))
	for _, n := range built {
		if _, ok := firstByTitle[n.Title]; ok {
			if strict {
				return nil, &ValidationError{
					Stage:  StageTopicalMap,
					Field:  "nodes",
					Reason: fmt.Sprintf("duplicate title %q", n.Title),
				}
			}
			continue
		}
		firstByTitle[n.Title] = n.ID
	}

	idMap := map[string]string{}
	for _, m := range rawNodes {
		rawID := stringFromAny(m["id"])
		if rawID == "" {
			continue
		}
		if id, ok := firstByTitle[stringFromAny(m["title"])]; ok {
			idMap[rawID] = id
		}
	}
	return idMap, nil
}
