package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/Berguit/topical-map-app/internal/data/repos"
	"github.com/Berguit/topical-map-app/internal/domain"
	"github.com/Berguit/topical-map-app/internal/modules/topicalmap/steps"
	"github.com/Berguit/topical-map-app/internal/platform/ctxutil"
	"github.com/Berguit/topical-map-app/internal/platform/dbctx"
	"github.com/Berguit/topical-map-app/internal/platform/logger"
)

type GenerateRequest struct {
	Step        string                    `json:"step"`
	KeywordData *domain.KeywordDataBundle `json:"keywordData,omitempty"`
}

type GenerateResult struct {
	*StepResult
	Step    Step            `json:"step"`
	RunID   uuid.UUID       `json:"runId,omitempty"`
	Project *domain.Project `json:"project,omitempty"`
}

type GenerationService interface {
	// Generate runs a step for a stored project and persists what it
	// produced.
	Generate(ctx context.Context, projectID uuid.UUID, req GenerateRequest) (*GenerateResult, error)
	// GenerateStateless runs a step for a project supplied by the caller.
	// Nothing is persisted and no events are published.
	GenerateStateless(ctx context.Context, project domain.Project, req GenerateRequest) (*GenerateResult, error)
}

type generationService struct {
	log    *logger.Logger
	repo   repos.ProjectRepo
	runs   repos.GenerationRunRepo
	runner PipelineRunner
	locks  *ProjectLocks
	graph  *GraphSync
	notify GenerationNotifier
}

func NewGenerationService(
	baseLog *logger.Logger,
	repo repos.ProjectRepo,
	runs repos.GenerationRunRepo,
	runner PipelineRunner,
	locks *ProjectLocks,
	graph *GraphSync,
	notify GenerationNotifier,
) GenerationService {
	if locks == nil {
		locks = NewProjectLocks(nil, 0, baseLog)
	}
	return &generationService{
		log:    baseLog.With("service", "GenerationService"),
		repo:   repo,
		runs:   runs,
		runner: runner,
		locks:  locks,
		graph:  graph,
		notify: notify,
	}
}

func (s *generationService) Generate(ctx context.Context, projectID uuid.UUID, req GenerateRequest) (*GenerateResult, error) {
	step, err := ParseStep(req.Step)
	if err != nil {
		return nil, MapError(err)
	}

	release, err := s.locks.Acquire(ctx, projectID)
	if err != nil {
		return nil, MapError(err)
	}
	defer release()

	dbc := dbctx.New(ctx)
	project, err := s.repo.GetByID(dbc, projectID)
	if err != nil {
		return nil, MapError(err)
	}

	run, err := s.runs.Start(dbc, projectID, string(step))
	if err != nil {
		return nil, err
	}
	log := s.log.With(append(ctxutil.LogFields(ctx),
		"project_id", projectID.String(),
		"run_id", run.ID.String(),
		"step", string(step),
	)...)
	log.Info("generation started")
	s.notify.Started(ctx, projectID, run.ID, step)

	progress := steps.NewProgressStream(func(ev steps.ProgressEvent) {
		s.notify.Progress(ctx, projectID, ev)
	})
	in := stepInput(*project, req.KeywordData, progress)

	res, runErr := s.runner.RunStep(ctx, step, in)

	// The run row is closed even if the request was cancelled.
	finishCtx := dbctx.New(context.WithoutCancel(ctx))
	if runErr != nil {
		s.finish(finishCtx, log, run.ID, res, runErr)
		// A failed full run still keeps the stages it completed.
		if step.IsFull() && res != nil {
			if _, err := s.repo.SaveStages(finishCtx, projectID, stagesOf(res)); err != nil {
				log.Warn("save partial stages failed", "error", err)
			}
		}
		log.Warn("generation failed", "error", runErr)
		s.notify.Failed(ctx, projectID, run.ID, step, runErr)
		return nil, MapError(runErr)
	}

	stages := stagesOf(res)
	if !stages.Empty() {
		project, err = s.repo.SaveStages(finishCtx, projectID, stages)
		if err != nil {
			s.finish(finishCtx, log, run.ID, res, err)
			s.notify.Failed(ctx, projectID, run.ID, step, err)
			return nil, MapError(err)
		}
	}
	s.finish(finishCtx, log, run.ID, res, nil)

	s.graph.SyncEAV(finishCtx.Ctx, projectID, res.EAVModel)
	s.graph.SyncTopicalMap(finishCtx.Ctx, projectID, res.TopicalMap)

	log.Info("generation completed", "fingerprints", len(res.Fingerprints))
	s.notify.Done(ctx, projectID, run.ID, step, project)
	return &GenerateResult{StepResult: res, Step: step, RunID: run.ID, Project: project}, nil
}

func (s *generationService) finish(dbc dbctx.Context, log *logger.Logger, runID uuid.UUID, res *StepResult, runErr error) {
	result := repos.RunResult{Err: runErr}
	if res != nil {
		result.Fingerprints = res.Fingerprints
		result.KeywordData = res.KeywordData
	}
	if err := s.runs.Finish(dbc, runID, result); err != nil {
		log.Warn("finish generation run failed", "error", err)
	}
}

func (s *generationService) GenerateStateless(ctx context.Context, project domain.Project, req GenerateRequest) (*GenerateResult, error) {
	step, err := ParseStep(req.Step)
	if err != nil {
		return nil, MapError(err)
	}
	if project.ID == uuid.Nil {
		project.ID = uuid.New()
	}
	if strings.TrimSpace(string(project.BusinessType)) == "" {
		project.BusinessType = domain.BusinessOther
	}

	in := stepInput(project, req.KeywordData, nil)
	res, err := s.runner.RunStep(ctx, step, in)
	if err != nil {
		return nil, MapError(err)
	}
	return &GenerateResult{StepResult: res, Step: step}, nil
}

// stepInput seeds the stage input with whatever the project already holds so
// that individual steps can build on earlier runs.
func stepInput(p domain.Project, kw *domain.KeywordDataBundle, progress *steps.ProgressStream) steps.Input {
	return steps.Input{
		Project:         p,
		KeywordData:     kw,
		KnowledgeDomain: p.KnowledgeDomain,
		ContextVector:   p.ContextVector,
		EAVModel:        p.EAVModel,
		Progress:        progress,
	}
}

func stagesOf(res *StepResult) repos.Stages {
	if res == nil {
		return repos.Stages{}
	}
	return repos.Stages{
		KnowledgeDomain: res.KnowledgeDomain,
		ContextVector:   res.ContextVector,
		EAVModel:        res.EAVModel,
		TopicalMap:      res.TopicalMap,
	}
}
