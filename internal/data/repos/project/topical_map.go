package project

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Berguit/topical-map-app/internal/domain"
	"github.com/Berguit/topical-map-app/internal/platform/dbctx"
)

func (r *projectRepo) AddNode(dbc dbctx.Context, id uuid.UUID, node domain.TopicalMapNode) (*domain.TopicalMap, error) {
	return r.mutateMap(dbc, id, func(tm *domain.TopicalMap) error {
		return tm.AddNode(node)
	})
}

func (r *projectRepo) UpdateNode(dbc dbctx.Context, id uuid.UUID, nodeID string, patch domain.NodePatch) (*domain.TopicalMap, error) {
	return r.mutateMap(dbc, id, func(tm *domain.TopicalMap) error {
		_, err := tm.UpdateNode(nodeID, patch)
		return err
	})
}

func (r *projectRepo) DeleteNode(dbc dbctx.Context, id uuid.UUID, nodeID string) (*domain.TopicalMap, error) {
	return r.mutateMap(dbc, id, func(tm *domain.TopicalMap) error {
		_, err := tm.DeleteNode(nodeID)
		return err
	})
}

func (r *projectRepo) AddEdge(dbc dbctx.Context, id uuid.UUID, edge domain.TopicalMapEdge) (*domain.TopicalMap, error) {
	return r.mutateMap(dbc, id, func(tm *domain.TopicalMap) error {
		return tm.AddEdge(edge)
	})
}

func (r *projectRepo) DeleteEdge(dbc dbctx.Context, id uuid.UUID, edgeID string) (*domain.TopicalMap, error) {
	return r.mutateMap(dbc, id, func(tm *domain.TopicalMap) error {
		return tm.DeleteEdge(edgeID)
	})
}

// mutateMap applies fn to the stored topical map inside one transaction and
// writes the result back. Nothing is written when fn fails.
func (r *projectRepo) mutateMap(dbc dbctx.Context, id uuid.UUID, fn func(*domain.TopicalMap) error) (*domain.TopicalMap, error) {
	var out *domain.TopicalMap
	err := dbc.DB(r.db).Transaction(func(tx *gorm.DB) error {
		rec, err := r.load(tx, id, true)
		if err != nil {
			return err
		}
		p, err := rec.ToProject()
		if err != nil {
			return err
		}
		if p.TopicalMap == nil {
			return domain.ErrNoTopicalMap
		}
		if err := fn(p.TopicalMap); err != nil {
			return err
		}
		if err := rec.SetStages(nil, nil, nil, p.TopicalMap); err != nil {
			return err
		}
		if err := tx.Model(&domain.ProjectRecord{}).Where("id = ?", id).Updates(map[string]interface{}{
			"topical_map": rec.TopicalMap,
			"updated_at":  r.now(),
		}).Error; err != nil {
			return err
		}
		out = p.TopicalMap
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
