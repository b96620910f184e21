package generation

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	temporalsdkclient "go.temporal.io/sdk/client"

	"github.com/Berguit/topical-map-app/internal/modules/topicalmap/steps"
	"github.com/Berguit/topical-map-app/internal/platform/apierr"
	"github.com/Berguit/topical-map-app/internal/platform/logger"
	"github.com/Berguit/topical-map-app/internal/services"
)

// TemporalRunner hands steps to the generation workflow and waits for the
// result. It satisfies services.PipelineRunner.
type TemporalRunner struct {
	tc        temporalsdkclient.Client
	taskQueue string
	log       *logger.Logger
}

func NewTemporalRunner(tc temporalsdkclient.Client, taskQueue string, baseLog *logger.Logger) *TemporalRunner {
	return &TemporalRunner{
		tc:        tc,
		taskQueue: taskQueue,
		log:       baseLog.With("runner", "TemporalRunner"),
	}
}

func (r *TemporalRunner) RunStep(ctx context.Context, step services.Step, in steps.Input) (*services.StepResult, error) {
	if r == nil || r.tc == nil {
		return nil, fmt.Errorf("temporal runner not configured")
	}
	workflowID := fmt.Sprintf("topicalmap-%s-%s", in.Project.ID, uuid.NewString())
	run, err := r.tc.ExecuteWorkflow(ctx, temporalsdkclient.StartWorkflowOptions{
		ID:        workflowID,
		TaskQueue: r.taskQueue,
	}, WorkflowName, Input{
		Project:         in.Project,
		Step:            step,
		KeywordData:     in.KeywordData,
		KnowledgeDomain: in.KnowledgeDomain,
		ContextVector:   in.ContextVector,
		EAVModel:        in.EAVModel,
	})
	if err != nil {
		return nil, fmt.Errorf("start generation workflow: %w", err)
	}
	r.log.Debug("generation workflow started", "workflow_id", workflowID, "run_id", run.GetRunID(), "step", string(step))

	var out Output
	if err := run.Get(ctx, &out); err != nil {
		return nil, fmt.Errorf("generation workflow %s: %w", workflowID, err)
	}
	if out.Error != nil {
		return out.Result, apierr.New(out.Error.Status, out.Error.Code, errors.New(out.Error.Message))
	}
	if out.Result == nil {
		out.Result = &services.StepResult{}
	}
	return out.Result, nil
}
