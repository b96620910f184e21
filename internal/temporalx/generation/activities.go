package generation

import (
	"context"
	"net/http"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"github.com/Berguit/topical-map-app/internal/modules/topicalmap/steps"
	"github.com/Berguit/topical-map-app/internal/platform/apierr"
	"github.com/Berguit/topical-map-app/internal/platform/logger"
	"github.com/Berguit/topical-map-app/internal/services"
)

type Activities struct {
	Log    *logger.Logger
	Deps   steps.Deps
	Notify services.GenerationNotifier
}

// RunStage runs one step in the worker and publishes its progress to the
// project's channel.
func (a *Activities) RunStage(ctx context.Context, in Input) (*services.StepResult, error) {
	stopHB := startHeartbeat(ctx, 20*time.Second)
	defer stopHB()

	progress := steps.NewProgressStream(func(ev steps.ProgressEvent) {
		if a.Notify != nil {
			a.Notify.Progress(ctx, in.Project.ID, ev)
		}
	})
	res, err := services.RunStep(ctx, a.Deps, in.Step, steps.Input{
		Project:         in.Project,
		KeywordData:     in.KeywordData,
		KnowledgeDomain: in.KnowledgeDomain,
		ContextVector:   in.ContextVector,
		EAVModel:        in.EAVModel,
		Progress:        progress,
	})
	if err != nil {
		if a.Log != nil {
			a.Log.Warn("generation activity failed", "project_id", in.Project.ID.String(), "step", string(in.Step), "error", err)
		}
		return nil, toApplicationError(err)
	}
	return res, nil
}

// codeInvalidModelOutput marks a reply that failed to parse or validate. The
// stage aborts on it and the completion is not requested again.
const codeInvalidModelOutput = "invalid_model_output"

// toApplicationError keeps the status and code the HTTP layer needs. Only
// upstream failures are retried. Caller mistakes, configuration problems
// and unusable model output are final.
func toApplicationError(err error) error {
	status, code := apierr.Status(services.MapError(err))
	if code == codeInvalidModelOutput {
		return temporal.NewNonRetryableApplicationError(err.Error(), code, nil, status)
	}
	switch status {
	case http.StatusBadRequest, http.StatusNotFound, http.StatusConflict, http.StatusInternalServerError:
		return temporal.NewNonRetryableApplicationError(err.Error(), code, nil, status)
	}
	return temporal.NewApplicationError(err.Error(), code, status)
}

func startHeartbeat(ctx context.Context, every time.Duration) func() {
	if !activity.IsActivity(ctx) {
		return func() {}
	}
	done := make(chan struct{})
	go func() {
		t := time.NewTicker(every)
		defer t.Stop()
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				return
			case <-t.C:
				activity.RecordHeartbeat(ctx)
			}
		}
	}()
	return func() { close(done) }
}
