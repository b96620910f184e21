package project

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Berguit/topical-map-app/internal/domain"
	"github.com/Berguit/topical-map-app/internal/platform/dbctx"
	"github.com/Berguit/topical-map-app/internal/platform/logger"
)

var ErrNotFound = errors.New("project not found")

// Stages holds generated stage documents to persist. Nil fields leave the
// stored document untouched.
type Stages struct {
	KnowledgeDomain *domain.KnowledgeDomain
	ContextVector   *domain.ContextVector
	EAVModel        *domain.EAVModel
	TopicalMap      *domain.TopicalMap
}

func (s Stages) Empty() bool {
	return s.KnowledgeDomain == nil && s.ContextVector == nil && s.EAVModel == nil && s.TopicalMap == nil
}

type ProjectRepo interface {
	Create(dbc dbctx.Context, p *domain.Project) (*domain.Project, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.Project, error)
	List(dbc dbctx.Context) ([]*domain.Project, error)
	Update(dbc dbctx.Context, p *domain.Project) (*domain.Project, error)
	Delete(dbc dbctx.Context, id uuid.UUID) error
	SaveStages(dbc dbctx.Context, id uuid.UUID, stages Stages) (*domain.Project, error)

	AddNode(dbc dbctx.Context, id uuid.UUID, node domain.TopicalMapNode) (*domain.TopicalMap, error)
	UpdateNode(dbc dbctx.Context, id uuid.UUID, nodeID string, patch domain.NodePatch) (*domain.TopicalMap, error)
	DeleteNode(dbc dbctx.Context, id uuid.UUID, nodeID string) (*domain.TopicalMap, error)
	AddEdge(dbc dbctx.Context, id uuid.UUID, edge domain.TopicalMapEdge) (*domain.TopicalMap, error)
	DeleteEdge(dbc dbctx.Context, id uuid.UUID, edgeID string) (*domain.TopicalMap, error)
}

type projectRepo struct {
	db  *gorm.DB
	log *logger.Logger
	now func() time.Time
}

func NewProjectRepo(db *gorm.DB, baseLog *logger.Logger) ProjectRepo {
	return &projectRepo{
		db:  db,
		log: baseLog.With("repo", "ProjectRepo"),
		now: func() time.Time { return time.Now().UTC() },
	}
}

func (r *projectRepo) Create(dbc dbctx.Context, p *domain.Project) (*domain.Project, error) {
	if p == nil {
		return nil, fmt.Errorf("nil project")
	}
	cp := *p
	if cp.ID == uuid.Nil {
		cp.ID = uuid.New()
	}
	now := r.now()
	cp.CreatedAt, cp.UpdatedAt = now, now

	rec, err := domain.NewProjectRecord(&cp)
	if err != nil {
		return nil, err
	}
	if err := dbc.DB(r.db).Create(rec).Error; err != nil {
		return nil, err
	}
	return rec.ToProject()
}

func (r *projectRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.Project, error) {
	if id == uuid.Nil {
		return nil, ErrNotFound
	}
	rec, err := r.load(dbc.DB(r.db), id, false)
	if err != nil {
		return nil, err
	}
	return rec.ToProject()
}

func (r *projectRepo) List(dbc dbctx.Context) ([]*domain.Project, error) {
	var rows []*domain.ProjectRecord
	if err := dbc.DB(r.db).Order("updated_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*domain.Project, 0, len(rows))
	for _, rec := range rows {
		p, err := rec.ToProject()
		if err != nil {
			return nil, fmt.Errorf("project %s: %w", rec.ID, err)
		}
		out = append(out, p)
	}
	return out, nil
}

// Update writes the descriptive fields of p and bumps updatedAt. Stage
// documents are only written through SaveStages and the map edit calls.
func (r *projectRepo) Update(dbc dbctx.Context, p *domain.Project) (*domain.Project, error) {
	if p == nil || p.ID == uuid.Nil {
		return nil, ErrNotFound
	}
	rec, err := domain.NewProjectRecord(&domain.Project{Objectives: p.Objectives})
	if err != nil {
		return nil, err
	}
	res := dbc.DB(r.db).Model(&domain.ProjectRecord{}).
		Where("id = ?", p.ID).
		Updates(map[string]interface{}{
			"name":          p.Name,
			"business_type": string(p.BusinessType),
			"audience":      p.Audience,
			"main_topic":    p.MainTopic,
			"objectives":    rec.Objectives,
			"updated_at":    r.now(),
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(dbc, p.ID)
}

func (r *projectRepo) Delete(dbc dbctx.Context, id uuid.UUID) error {
	res := dbc.DB(r.db).Where("id = ?", id).Delete(&domain.ProjectRecord{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *projectRepo) SaveStages(dbc dbctx.Context, id uuid.UUID, stages Stages) (*domain.Project, error) {
	var out *domain.Project
	err := dbc.DB(r.db).Transaction(func(tx *gorm.DB) error {
		rec, err := r.load(tx, id, true)
		if err != nil {
			return err
		}
		if err := rec.SetStages(stages.KnowledgeDomain, stages.ContextVector, stages.EAVModel, stages.TopicalMap); err != nil {
			return err
		}
		rec.UpdatedAt = r.now()
		if err := tx.Model(&domain.ProjectRecord{}).Where("id = ?", id).Updates(map[string]interface{}{
			"knowledge_domain": rec.KnowledgeDomain,
			"context_vector":   rec.ContextVector,
			"eav_model":        rec.EAVModel,
			"topical_map":      rec.TopicalMap,
			"updated_at":       rec.UpdatedAt,
		}).Error; err != nil {
			return err
		}
		out, err = rec.ToProject()
		return err
	})
	if err != nil {
		return nil, err
	}
	r.log.Debug("stages saved", "project_id", id.String(),
		"knowledge_domain", stages.KnowledgeDomain != nil,
		"context_vector", stages.ContextVector != nil,
		"eav_model", stages.EAVModel != nil,
		"topical_map", stages.TopicalMap != nil,
	)
	return out, nil
}

// load reads one row. forUpdate takes a row lock where the dialect has one.
func (r *projectRepo) load(tx *gorm.DB, id uuid.UUID, forUpdate bool) (*domain.ProjectRecord, error) {
	q := tx
	if forUpdate && tx.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var rec domain.ProjectRecord
	err := q.Where("id = ?", id).Limit(1).Find(&rec).Error
	if err != nil {
		return nil, err
	}
	if rec.ID == uuid.Nil {
		return nil, ErrNotFound
	}
	return &rec, nil
}
