package generation

import (
	"errors"
	"net/http"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/Berguit/topical-map-app/internal/services"
)

// Workflow runs a generation step. A full run is split into one activity per
// stage so that a retry resumes at the failing stage instead of redoing the
// ones that already succeeded.
//
// Step failures are reported inside Output rather than as a workflow error
// so that a failed full run still returns the stages it completed.
func Workflow(ctx workflow.Context, in Input) (*Output, error) {
	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 15 * time.Minute,
		HeartbeatTimeout:    time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2,
			MaximumAttempts:    3,
		},
	})

	sequence := []services.Step{in.Step}
	if in.Step.IsFull() {
		sequence = fullSequence
	}

	out := &Output{Result: &services.StepResult{}}
	for _, step := range sequence {
		req := in
		req.Step = step
		var res services.StepResult
		if err := workflow.ExecuteActivity(ctx, ActivityRunStage, req).Get(ctx, &res); err != nil {
			workflow.GetLogger(ctx).Warn("generation step failed", "step", string(step), "error", err)
			out.Error = stepErrorFrom(err)
			return out, nil
		}
		merge(out.Result, &res)
		in.absorb(&res)
	}
	return out, nil
}

func stepErrorFrom(err error) *StepError {
	se := &StepError{Status: http.StatusBadGateway, Code: "generation_failed", Message: err.Error()}
	var appErr *temporal.ApplicationError
	if errors.As(err, &appErr) {
		se.Message = appErr.Message()
		if appErr.Type() != "" {
			se.Code = appErr.Type()
		}
		var status int
		if appErr.HasDetails() && appErr.Details(&status) == nil && status > 0 {
			se.Status = status
		}
	}
	return se
}
