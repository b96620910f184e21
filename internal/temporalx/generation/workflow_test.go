package generation

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/google/uuid"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/testsuite"

	"github.com/Berguit/topical-map-app/internal/domain"
	"github.com/Berguit/topical-map-app/internal/modules/topicalmap/steps"
	"github.com/Berguit/topical-map-app/internal/platform/apierr"
	"github.com/Berguit/topical-map-app/internal/platform/haloscan"
	"github.com/Berguit/topical-map-app/internal/platform/openrouter"
	"github.com/Berguit/topical-map-app/internal/services"
)

type stageRecorder struct {
	mu     sync.Mutex
	seen   []services.Step
	inputs []Input
	failAt services.Step
}

func (s *stageRecorder) run(ctx context.Context, in Input) (*services.StepResult, error) {
	s.mu.Lock()
	s.seen = append(s.seen, in.Step)
	s.inputs = append(s.inputs, in)
	s.mu.Unlock()

	if in.Step == s.failAt {
		return nil, temporal.NewNonRetryableApplicationError("model returned no nodes", "invalid_model_output", nil, http.StatusBadGateway)
	}
	res := &services.StepResult{Fingerprints: map[string]string{string(in.Step): "fp-" + string(in.Step)}}
	switch in.Step {
	case services.StepHaloscan:
		res.KeywordData = &domain.KeywordDataBundle{SeedKeyword: in.Project.MainTopic}
	case services.StepKnowledgeDomain:
		res.KnowledgeDomain = &domain.KnowledgeDomain{ID: uuid.New()}
	case services.StepContextVector:
		res.ContextVector = &domain.ContextVector{ID: uuid.New()}
	case services.StepEAVModel:
		res.EAVModel = &domain.EAVModel{ID: uuid.New()}
	case services.StepTopicalMap:
		res.TopicalMap = &domain.TopicalMap{ID: uuid.New()}
	}
	return res, nil
}

func runWorkflow(t *testing.T, rec *stageRecorder, in Input) *Output {
	t.Helper()
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()
	env.RegisterActivityWithOptions(rec.run, activity.RegisterOptions{Name: ActivityRunStage})
	env.ExecuteWorkflow(Workflow, in)

	if !env.IsWorkflowCompleted() {
		t.Fatalf("workflow did not complete")
	}
	if err := env.GetWorkflowError(); err != nil {
		t.Fatalf("workflow error: %v", err)
	}
	var out Output
	if err := env.GetWorkflowResult(&out); err != nil {
		t.Fatalf("workflow result: %v", err)
	}
	return &out
}

func testProject() domain.Project {
	return domain.Project{ID: uuid.New(), Name: "Visa Guide", MainTopic: "visa schengen", BusinessType: domain.BusinessOther}
}

func TestWorkflowRunsFullSequence(t *testing.T) {
	rec := &stageRecorder{}
	out := runWorkflow(t, rec, Input{Project: testProject(), Step: services.StepFullWithHaloscan})

	if out.Error != nil {
		t.Fatalf("unexpected step error: %+v", out.Error)
	}
	if len(rec.seen) != len(fullSequence) {
		t.Fatalf("ran %v", rec.seen)
	}
	for i, step := range fullSequence {
		if rec.seen[i] != step {
			t.Fatalf("step %d = %s, want %s", i, rec.seen[i], step)
		}
	}
	// The topical map stage sees everything produced before it.
	last := rec.inputs[len(rec.inputs)-1]
	if last.KeywordData == nil || last.KnowledgeDomain == nil || last.ContextVector == nil || last.EAVModel == nil {
		t.Fatalf("topical map input missing prerequisites: %+v", last)
	}
	res := out.Result
	if res.TopicalMap == nil || res.EAVModel == nil || res.KeywordData == nil {
		t.Fatalf("result = %+v", res)
	}
	if len(res.Fingerprints) != len(fullSequence) {
		t.Fatalf("fingerprints = %v", res.Fingerprints)
	}
}

func TestWorkflowKeepsPartialResultOnFailure(t *testing.T) {
	rec := &stageRecorder{failAt: services.StepEAVModel}
	out := runWorkflow(t, rec, Input{Project: testProject(), Step: services.StepFull})

	if out.Error == nil {
		t.Fatalf("expected step error")
	}
	if out.Error.Code != "invalid_model_output" || out.Error.Status != http.StatusBadGateway {
		t.Fatalf("step error = %+v", out.Error)
	}
	if out.Result.ContextVector == nil || out.Result.KnowledgeDomain == nil {
		t.Fatalf("completed stages lost: %+v", out.Result)
	}
	if out.Result.TopicalMap != nil {
		t.Fatalf("topical map must not run after a failure")
	}
	if rec.seen[len(rec.seen)-1] != services.StepEAVModel {
		t.Fatalf("ran %v", rec.seen)
	}
}

func TestWorkflowSingleStep(t *testing.T) {
	rec := &stageRecorder{}
	out := runWorkflow(t, rec, Input{Project: testProject(), Step: services.StepKnowledgeDomain})

	if len(rec.seen) != 1 || rec.seen[0] != services.StepKnowledgeDomain {
		t.Fatalf("ran %v", rec.seen)
	}
	if out.Result.KnowledgeDomain == nil {
		t.Fatalf("result = %+v", out.Result)
	}
}

func TestToApplicationErrorRetryability(t *testing.T) {
	cases := []struct {
		err       error
		code      string
		retryable bool
	}{
		{&steps.PreconditionError{Stage: steps.StageTopicalMap, Missing: []string{"eavModel"}}, "precondition_failed", false},
		{&steps.ValidationError{Stage: steps.StageEAVModel, Reason: "no entities"}, "invalid_model_output", false},
		{&openrouter.ParseError{Err: errors.New("invalid character"), Preview: "Sorry"}, "invalid_model_output", false},
		{&openrouter.CompletionError{StatusCode: http.StatusServiceUnavailable}, "completion_failed", true},
		{&haloscan.ProviderError{Endpoint: "/keywords/overview", Err: errors.New("connection reset")}, "keyword_provider_failed", true},
		{services.ErrMissingKeyword, "missing_keyword", false},
	}
	for _, tc := range cases {
		err := toApplicationError(tc.err)
		var appErr *temporal.ApplicationError
		if !errors.As(err, &appErr) {
			t.Fatalf("%v: not an application error", tc.err)
		}
		if appErr.Type() != tc.code {
			t.Fatalf("%v: type = %q, want %q", tc.err, appErr.Type(), tc.code)
		}
		if appErr.NonRetryable() == tc.retryable {
			t.Fatalf("%v: non-retryable = %v", tc.err, appErr.NonRetryable())
		}
	}
}

type countingCompleter struct {
	mu    sync.Mutex
	calls int
	reply string
}

func (c *countingCompleter) CompleteSimple(ctx context.Context, prompt, systemPrompt string, opts openrouter.Options) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	return c.reply, nil
}

func TestUnparseableReplyIsNotRetried(t *testing.T) {
	completer := &countingCompleter{reply: "Sorry, I cannot produce JSON"}
	acts := &Activities{Deps: steps.Deps{Completer: completer}}

	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()
	env.RegisterActivityWithOptions(acts.RunStage, activity.RegisterOptions{Name: ActivityRunStage})
	env.ExecuteWorkflow(Workflow, Input{Project: testProject(), Step: services.StepKnowledgeDomain})

	if !env.IsWorkflowCompleted() {
		t.Fatalf("workflow did not complete")
	}
	if err := env.GetWorkflowError(); err != nil {
		t.Fatalf("workflow error: %v", err)
	}
	var out Output
	if err := env.GetWorkflowResult(&out); err != nil {
		t.Fatalf("workflow result: %v", err)
	}
	if out.Error == nil || out.Error.Code != "invalid_model_output" || out.Error.Status != http.StatusBadGateway {
		t.Fatalf("step error = %+v", out.Error)
	}
	if completer.calls != 1 {
		t.Fatalf("completion calls = %d, want 1", completer.calls)
	}
}

func TestStepErrorFromPlainError(t *testing.T) {
	se := stepErrorFrom(errors.New("worker crashed"))
	if se.Status != http.StatusBadGateway || se.Code != "generation_failed" {
		t.Fatalf("step error = %+v", se)
	}
	status, code := apierr.Status(apierr.New(se.Status, se.Code, se))
	if status != http.StatusBadGateway || code != "generation_failed" {
		t.Fatalf("status = %d code = %s", status, code)
	}
}
