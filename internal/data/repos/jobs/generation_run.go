package jobs

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Berguit/topical-map-app/internal/domain"
	"github.com/Berguit/topical-map-app/internal/platform/dbctx"
	"github.com/Berguit/topical-map-app/internal/platform/logger"
)

type GenerationRunRepo interface {
	Start(dbc dbctx.Context, projectID uuid.UUID, step string) (*domain.GenerationRun, error)
	Finish(dbc dbctx.Context, id uuid.UUID, result RunResult) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.GenerationRun, error)
	ListByProject(dbc dbctx.Context, projectID uuid.UUID, limit int) ([]*domain.GenerationRun, error)
	// HasRunning reports whether a run for the project started after
	// staleAfter ago is still marked running.
	HasRunning(dbc dbctx.Context, projectID uuid.UUID, staleAfter time.Duration) (bool, error)
}

// RunResult is what a finished run records. A non-nil Err marks it failed.
type RunResult struct {
	Fingerprints map[string]string
	KeywordData  *domain.KeywordDataBundle
	Err          error
}

type generationRunRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGenerationRunRepo(db *gorm.DB, baseLog *logger.Logger) GenerationRunRepo {
	return &generationRunRepo{
		db:  db,
		log: baseLog.With("repo", "GenerationRunRepo"),
	}
}

func (r *generationRunRepo) Start(dbc dbctx.Context, projectID uuid.UUID, step string) (*domain.GenerationRun, error) {
	now := time.Now().UTC()
	run := &domain.GenerationRun{
		ID:           uuid.New(),
		ProjectID:    projectID,
		Step:         step,
		Status:       domain.GenerationRunning,
		Fingerprints: datatypes.JSON([]byte("{}")),
		StartedAt:    now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := dbc.DB(r.db).Create(run).Error; err != nil {
		return nil, err
	}
	return run, nil
}

func (r *generationRunRepo) Finish(dbc dbctx.Context, id uuid.UUID, result RunResult) error {
	now := time.Now().UTC()
	updates := map[string]interface{}{
		"status":      domain.GenerationSucceeded,
		"finished_at": now,
		"updated_at":  now,
	}
	if result.Err != nil {
		updates["status"] = domain.GenerationFailed
		updates["error"] = result.Err.Error()
	}
	if len(result.Fingerprints) > 0 {
		b, err := json.Marshal(result.Fingerprints)
		if err != nil {
			return err
		}
		updates["fingerprints"] = datatypes.JSON(b)
	}
	if result.KeywordData != nil {
		b, err := json.Marshal(result.KeywordData)
		if err != nil {
			return err
		}
		updates["keyword_data"] = datatypes.JSON(b)
	}
	return dbc.DB(r.db).Model(&domain.GenerationRun{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *generationRunRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.GenerationRun, error) {
	var run domain.GenerationRun
	if err := dbc.DB(r.db).Where("id = ?", id).Limit(1).Find(&run).Error; err != nil {
		return nil, err
	}
	if run.ID == uuid.Nil {
		return nil, nil
	}
	return &run, nil
}

func (r *generationRunRepo) ListByProject(dbc dbctx.Context, projectID uuid.UUID, limit int) ([]*domain.GenerationRun, error) {
	if limit <= 0 {
		limit = 20
	}
	var out []*domain.GenerationRun
	if err := dbc.DB(r.db).
		Where("project_id = ?", projectID).
		Order("started_at DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *generationRunRepo) HasRunning(dbc dbctx.Context, projectID uuid.UUID, staleAfter time.Duration) (bool, error) {
	q := dbc.DB(r.db).Model(&domain.GenerationRun{}).
		Where("project_id = ? AND status = ?", projectID, domain.GenerationRunning)
	if staleAfter > 0 {
		q = q.Where("started_at > ?", time.Now().UTC().Add(-staleAfter))
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}
