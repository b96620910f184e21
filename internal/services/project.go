package services

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Berguit/topical-map-app/internal/data/repos"
	"github.com/Berguit/topical-map-app/internal/domain"
	"github.com/Berguit/topical-map-app/internal/platform/dbctx"
	"github.com/Berguit/topical-map-app/internal/platform/logger"
)

// ProjectInput is the editable metadata of a project. On update, nil fields
// are left unchanged.
type ProjectInput struct {
	Name         *string   `json:"name,omitempty"`
	BusinessType *string   `json:"businessType,omitempty"`
	Audience     *string   `json:"audience,omitempty"`
	MainTopic    *string   `json:"mainTopic,omitempty"`
	Objectives   *[]string `json:"objectives,omitempty"`
}

type ProjectService interface {
	Create(dbc dbctx.Context, in ProjectInput) (*domain.Project, error)
	Get(dbc dbctx.Context, id uuid.UUID) (*domain.Project, error)
	List(dbc dbctx.Context) ([]*domain.Project, error)
	Update(dbc dbctx.Context, id uuid.UUID, in ProjectInput) (*domain.Project, error)
	Delete(dbc dbctx.Context, id uuid.UUID) error
	Runs(dbc dbctx.Context, id uuid.UUID, limit int) ([]*domain.GenerationRun, error)

	AddNode(dbc dbctx.Context, id uuid.UUID, node domain.TopicalMapNode) (*domain.TopicalMap, error)
	UpdateNode(dbc dbctx.Context, id uuid.UUID, nodeID string, patch domain.NodePatch) (*domain.TopicalMap, error)
	DeleteNode(dbc dbctx.Context, id uuid.UUID, nodeID string) (*domain.TopicalMap, error)
	AddEdge(dbc dbctx.Context, id uuid.UUID, edge domain.TopicalMapEdge) (*domain.TopicalMap, error)
	DeleteEdge(dbc dbctx.Context, id uuid.UUID, edgeID string) (*domain.TopicalMap, error)
}

type projectService struct {
	log    *logger.Logger
	repo   repos.ProjectRepo
	runs   repos.GenerationRunRepo
	graph  *GraphSync
	notify GenerationNotifier
}

func NewProjectService(
	baseLog *logger.Logger,
	repo repos.ProjectRepo,
	runs repos.GenerationRunRepo,
	graph *GraphSync,
	notify GenerationNotifier,
) ProjectService {
	return &projectService{
		log:    baseLog.With("service", "ProjectService"),
		repo:   repo,
		runs:   runs,
		graph:  graph,
		notify: notify,
	}
}

func (s *projectService) Create(dbc dbctx.Context, in ProjectInput) (*domain.Project, error) {
	p := &domain.Project{
		ID:           uuid.New(),
		BusinessType: domain.BusinessOther,
		Objectives:   []string{},
	}
	if err := applyProjectInput(p, in); err != nil {
		return nil, err
	}
	if err := validateProject(p); err != nil {
		return nil, err
	}
	created, err := s.repo.Create(dbc, p)
	if err != nil {
		return nil, MapError(err)
	}
	s.log.Info("project created", "project_id", created.ID.String(), "main_topic", created.MainTopic)
	return created, nil
}

func (s *projectService) Get(dbc dbctx.Context, id uuid.UUID) (*domain.Project, error) {
	p, err := s.repo.GetByID(dbc, id)
	if err != nil {
		return nil, MapError(err)
	}
	return p, nil
}

func (s *projectService) List(dbc dbctx.Context) ([]*domain.Project, error) {
	return s.repo.List(dbc)
}

func (s *projectService) Update(dbc dbctx.Context, id uuid.UUID, in ProjectInput) (*domain.Project, error) {
	p, err := s.repo.GetByID(dbc, id)
	if err != nil {
		return nil, MapError(err)
	}
	if err := applyProjectInput(p, in); err != nil {
		return nil, err
	}
	if err := validateProject(p); err != nil {
		return nil, err
	}
	updated, err := s.repo.Update(dbc, p)
	if err != nil {
		return nil, MapError(err)
	}
	s.notify.ProjectUpdated(dbc.Ctx, updated)
	return updated, nil
}

func (s *projectService) Delete(dbc dbctx.Context, id uuid.UUID) error {
	if err := s.repo.Delete(dbc, id); err != nil {
		return MapError(err)
	}
	s.graph.DeleteProject(dbc.Ctx, id)
	s.log.Info("project deleted", "project_id", id.String())
	return nil
}

func (s *projectService) Runs(dbc dbctx.Context, id uuid.UUID, limit int) ([]*domain.GenerationRun, error) {
	if _, err := s.repo.GetByID(dbc, id); err != nil {
		return nil, MapError(err)
	}
	return s.runs.ListByProject(dbc, id, limit)
}

func (s *projectService) AddNode(dbc dbctx.Context, id uuid.UUID, node domain.TopicalMapNode) (*domain.TopicalMap, error) {
	if strings.TrimSpace(node.ID) == "" {
		node.ID = uuid.NewString()
	}
	return s.afterMapEdit(dbc, id)(s.repo.AddNode(dbc, id, node))
}

func (s *projectService) UpdateNode(dbc dbctx.Context, id uuid.UUID, nodeID string, patch domain.NodePatch) (*domain.TopicalMap, error) {
	return s.afterMapEdit(dbc, id)(s.repo.UpdateNode(dbc, id, nodeID, patch))
}

func (s *projectService) DeleteNode(dbc dbctx.Context, id uuid.UUID, nodeID string) (*domain.TopicalMap, error) {
	return s.afterMapEdit(dbc, id)(s.repo.DeleteNode(dbc, id, nodeID))
}

func (s *projectService) AddEdge(dbc dbctx.Context, id uuid.UUID, edge domain.TopicalMapEdge) (*domain.TopicalMap, error) {
	if strings.TrimSpace(edge.ID) == "" {
		edge.ID = uuid.NewString()
	}
	return s.afterMapEdit(dbc, id)(s.repo.AddEdge(dbc, id, edge))
}

func (s *projectService) DeleteEdge(dbc dbctx.Context, id uuid.UUID, edgeID string) (*domain.TopicalMap, error) {
	return s.afterMapEdit(dbc, id)(s.repo.DeleteEdge(dbc, id, edgeID))
}

// afterMapEdit maps repository errors and, on success, mirrors the edited
// map to the graph and tells subscribers.
func (s *projectService) afterMapEdit(dbc dbctx.Context, id uuid.UUID) func(*domain.TopicalMap, error) (*domain.TopicalMap, error) {
	return func(tm *domain.TopicalMap, err error) (*domain.TopicalMap, error) {
		if err != nil {
			return nil, MapError(err)
		}
		s.graph.SyncTopicalMap(dbc.Ctx, id, tm)
		s.notify.TopicalMapUpdated(dbc.Ctx, id, tm)
		return tm, nil
	}
}

func applyProjectInput(p *domain.Project, in ProjectInput) error {
	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.BusinessType != nil {
		bt := domain.BusinessType(strings.ToLower(strings.TrimSpace(*in.BusinessType)))
		if !bt.Valid() {
			return invalid("invalid_business_type", fmt.Errorf("unknown business type %q", *in.BusinessType))
		}
		p.BusinessType = bt
	}
	if in.Audience != nil {
		p.Audience = strings.TrimSpace(*in.Audience)
	}
	if in.MainTopic != nil {
		p.MainTopic = strings.TrimSpace(*in.MainTopic)
	}
	if in.Objectives != nil {
		objectives := make([]string, 0, len(*in.Objectives))
		for _, o := range *in.Objectives {
			if o = strings.TrimSpace(o); o != "" {
				objectives = append(objectives, o)
			}
		}
		p.Objectives = objectives
	}
	return nil
}

func validateProject(p *domain.Project) error {
	if p.Name == "" {
		return invalid("missing_name", fmt.Errorf("name is required"))
	}
	if p.MainTopic == "" {
		return invalid("missing_main_topic", fmt.Errorf("mainTopic is required"))
	}
	return nil
}
