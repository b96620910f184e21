package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/Berguit/topical-map-app/internal/data/repos"
	"github.com/Berguit/topical-map-app/internal/data/repos/testutil"
	"github.com/Berguit/topical-map-app/internal/domain"
	"github.com/Berguit/topical-map-app/internal/modules/topicalmap/keyworddata"
	"github.com/Berguit/topical-map-app/internal/modules/topicalmap/steps"
	"github.com/Berguit/topical-map-app/internal/platform/apierr"
	"github.com/Berguit/topical-map-app/internal/platform/dbctx"
	"github.com/Berguit/topical-map-app/internal/platform/haloscan"
	"github.com/Berguit/topical-map-app/internal/platform/openrouter"
	"github.com/Berguit/topical-map-app/internal/realtime"
)

type recordingEmitter struct {
	mu   sync.Mutex
	msgs []realtime.SSEMessage
}

func (e *recordingEmitter) Emit(ctx context.Context, msg realtime.SSEMessage) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.msgs = append(e.msgs, msg)
}

func (e *recordingEmitter) events() []realtime.SSEEvent {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]realtime.SSEEvent, 0, len(e.msgs))
	for _, m := range e.msgs {
		out = append(out, m.Event)
	}
	return out
}

type fakeRunner struct {
	res   *StepResult
	err   error
	steps []Step
	ins   []steps.Input
}

func (f *fakeRunner) RunStep(ctx context.Context, step Step, in steps.Input) (*StepResult, error) {
	f.steps = append(f.steps, step)
	f.ins = append(f.ins, in)
	in.Progress.Emit(steps.ProgressEvent{Stage: steps.StageTopicalMap, Status: steps.StatusCompleted, Message: "done"})
	return f.res, f.err
}

type fixture struct {
	projects repos.ProjectRepo
	runs     repos.GenerationRunRepo
	emitter  *recordingEmitter
	runner   *fakeRunner
	gen      GenerationService
	proj     ProjectService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := testutil.Logger(t)
	db := testutil.DB(t)
	f := &fixture{
		projects: repos.NewProjectRepo(db, log),
		runs:     repos.NewGenerationRunRepo(db, log),
		emitter:  &recordingEmitter{},
		runner:   &fakeRunner{},
	}
	notify := NewGenerationNotifier(f.emitter)
	graph := NewGraphSync(nil, log)
	f.gen = NewGenerationService(log, f.projects, f.runs, f.runner, NewProjectLocks(nil, 0, log), graph, notify)
	f.proj = NewProjectService(log, f.projects, f.runs, graph, notify)
	return f
}

func strPtr(s string) *string { return &s }

func (f *fixture) createProject(t *testing.T) *domain.Project {
	t.Helper()
	p, err := f.proj.Create(dbctx.New(context.Background()), ProjectInput{
		Name:         strPtr("Visa Guide"),
		BusinessType: strPtr("blog"),
		MainTopic:    strPtr("visa schengen"),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return p
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var ae *apierr.Error
	if !errors.As(err, &ae) {
		t.Fatalf("expected *apierr.Error, got %T: %v", err, err)
	}
	status, _ := apierr.Status(err)
	return status
}

func TestMapErrorStatuses(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"precondition", &steps.PreconditionError{Stage: steps.StageEAVModel, Missing: []string{"contextVector"}}, http.StatusBadRequest},
		{"validation", fmt.Errorf("wrap: %w", &steps.ValidationError{Stage: steps.StageKnowledgeDomain, Field: "sourceContext"}), http.StatusBadGateway},
		{"parse", &openrouter.ParseError{Err: errors.New("bad"), Preview: "x"}, http.StatusBadGateway},
		{"completion", &openrouter.CompletionError{StatusCode: 500}, http.StatusBadGateway},
		{"rate limited", &openrouter.CompletionError{StatusCode: 429}, http.StatusTooManyRequests},
		{"provider", &haloscan.ProviderError{Endpoint: "keywords/overview", StatusCode: 503}, http.StatusBadGateway},
		{"provider unreachable", &haloscan.ProviderError{Endpoint: "keywords/overview", Err: errors.New("connection refused")}, http.StatusBadGateway},
		{"configuration", &haloscan.ConfigurationError{Reason: "no key"}, http.StatusInternalServerError},
		{"project missing", repos.ErrProjectNotFound, http.StatusNotFound},
		{"node missing", domain.ErrNodeNotFound, http.StatusNotFound},
		{"edge endpoint", domain.ErrEdgeEndpoint, http.StatusBadRequest},
		{"duplicate", domain.ErrDuplicateID, http.StatusConflict},
		{"busy", ErrGenerationInProgress, http.StatusConflict},
		{"empty seed", keyworddata.ErrEmptySeed, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := statusOf(t, MapError(tc.err)); got != tc.want {
				t.Fatalf("status = %d, want %d", got, tc.want)
			}
		})
	}

	plain := errors.New("boom")
	if MapError(plain) != plain {
		t.Fatalf("unknown errors must pass through")
	}
	if MapError(nil) != nil {
		t.Fatalf("nil must stay nil")
	}
}

func TestParseStep(t *testing.T) {
	if s, err := ParseStep(""); err != nil || s != StepFullWithHaloscan {
		t.Fatalf("empty step = %q, %v", s, err)
	}
	if s, err := ParseStep(" EAV-Model "); err != nil || s != StepEAVModel {
		t.Fatalf("eav step = %q, %v", s, err)
	}
	if _, err := ParseStep("everything"); !errors.Is(err, ErrUnknownStep) {
		t.Fatalf("expected ErrUnknownStep, got %v", err)
	}
}

func TestProjectLocksExclusive(t *testing.T) {
	locks := NewProjectLocks(nil, 0, nil)
	id := uuid.New()

	release, err := locks.Acquire(context.Background(), id)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if _, err := locks.Acquire(context.Background(), id); !errors.Is(err, ErrGenerationInProgress) {
		t.Fatalf("second acquire: %v", err)
	}
	if _, err := locks.Acquire(context.Background(), uuid.New()); err != nil {
		t.Fatalf("other project should not be blocked: %v", err)
	}
	release()
	release()
	if locks.Held(id) {
		t.Fatalf("lock still held after release")
	}
	if _, err := locks.Acquire(context.Background(), id); err != nil {
		t.Fatalf("reacquire: %v", err)
	}
}

func TestProjectServiceValidation(t *testing.T) {
	f := newFixture(t)
	dbc := dbctx.New(context.Background())

	_, err := f.proj.Create(dbc, ProjectInput{Name: strPtr("x")})
	if statusOf(t, err) != http.StatusBadRequest {
		t.Fatalf("missing main topic should be 400: %v", err)
	}
	_, err = f.proj.Create(dbc, ProjectInput{Name: strPtr("x"), MainTopic: strPtr("y"), BusinessType: strPtr("bakery")})
	if statusOf(t, err) != http.StatusBadRequest {
		t.Fatalf("bad business type should be 400: %v", err)
	}
	_, err = f.proj.Get(dbc, uuid.New())
	if statusOf(t, err) != http.StatusNotFound {
		t.Fatalf("unknown project should be 404: %v", err)
	}
}

func TestProjectServiceUpdateNotifies(t *testing.T) {
	f := newFixture(t)
	p := f.createProject(t)

	updated, err := f.proj.Update(dbctx.New(context.Background()), p.ID, ProjectInput{Audience: strPtr(" travellers ")})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Audience != "travellers" || updated.Name != "Visa Guide" {
		t.Fatalf("updated = %+v", updated)
	}
	ev := f.emitter.events()
	if len(ev) != 1 || ev[0] != realtime.SSEEventProjectUpdated {
		t.Fatalf("events = %v", ev)
	}
	if f.emitter.msgs[0].Channel != realtime.ProjectChannel(p.ID) {
		t.Fatalf("channel = %q", f.emitter.msgs[0].Channel)
	}
}

func TestGeneratePersistsStagesAndRun(t *testing.T) {
	f := newFixture(t)
	p := f.createProject(t)
	f.runner.res = &StepResult{
		KnowledgeDomain: &domain.KnowledgeDomain{ID: uuid.New(), ProjectID: p.ID, Name: p.MainTopic, SourceContext: "guide"},
		Fingerprints:    map[string]string{"knowledge_domain": "abc"},
	}

	res, err := f.gen.Generate(context.Background(), p.ID, GenerateRequest{Step: "knowledge-domain"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if res.Step != StepKnowledgeDomain || res.RunID == uuid.Nil {
		t.Fatalf("result = %+v", res)
	}
	if res.Project == nil || res.Project.KnowledgeDomain == nil || res.Project.KnowledgeDomain.SourceContext != "guide" {
		t.Fatalf("project not updated: %+v", res.Project)
	}
	if f.runner.ins[0].Project.ID != p.ID {
		t.Fatalf("runner got project %s", f.runner.ins[0].Project.ID)
	}

	run, err := f.runs.GetByID(dbctx.New(context.Background()), res.RunID)
	if err != nil || run == nil {
		t.Fatalf("GetByID: %v %v", run, err)
	}
	if run.Status != domain.GenerationSucceeded || run.FinishedAt == nil {
		t.Fatalf("run = %+v", run)
	}

	ev := f.emitter.events()
	want := []realtime.SSEEvent{
		realtime.SSEEventGenerationStarted,
		realtime.SSEEventGenerationProgress,
		realtime.SSEEventGenerationDone,
	}
	if len(ev) != len(want) {
		t.Fatalf("events = %v", ev)
	}
	for i := range want {
		if ev[i] != want[i] {
			t.Fatalf("event %d = %s, want %s", i, ev[i], want[i])
		}
	}
}

func TestGenerateFailureMarksRunFailed(t *testing.T) {
	f := newFixture(t)
	p := f.createProject(t)
	f.runner.err = &steps.PreconditionError{Stage: steps.StageContextVector, Missing: []string{"knowledgeDomain"}}

	_, err := f.gen.Generate(context.Background(), p.ID, GenerateRequest{Step: "context-vector"})
	if statusOf(t, err) != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}

	runs, err := f.proj.Runs(dbctx.New(context.Background()), p.ID, 0)
	if err != nil {
		t.Fatalf("Runs: %v", err)
	}
	if len(runs) != 1 || runs[0].Status != domain.GenerationFailed || runs[0].Error == "" {
		t.Fatalf("runs = %+v", runs)
	}
	ev := f.emitter.events()
	if ev[len(ev)-1] != realtime.SSEEventGenerationFailed {
		t.Fatalf("last event = %s", ev[len(ev)-1])
	}
}

func TestGenerateRejectsUnknownStepAndProject(t *testing.T) {
	f := newFixture(t)
	p := f.createProject(t)

	_, err := f.gen.Generate(context.Background(), p.ID, GenerateRequest{Step: "nope"})
	if statusOf(t, err) != http.StatusBadRequest {
		t.Fatalf("unknown step: %v", err)
	}
	_, err = f.gen.Generate(context.Background(), uuid.New(), GenerateRequest{Step: "full"})
	if statusOf(t, err) != http.StatusNotFound {
		t.Fatalf("unknown project: %v", err)
	}
	if len(f.runner.steps) != 0 {
		t.Fatalf("runner should not run, got %v", f.runner.steps)
	}
}

func TestGenerateStatelessChecksPreconditionsFirst(t *testing.T) {
	kw := &countingKeywords{}
	runner := NewLocalRunner(steps.Deps{Keywords: kw})
	gen := NewGenerationService(testutil.Logger(t), nil, nil, runner, nil, nil, nil)

	_, err := gen.GenerateStateless(context.Background(), domain.Project{Name: "x", MainTopic: "visa"}, GenerateRequest{Step: "topical-map"})
	if statusOf(t, err) != http.StatusBadRequest {
		t.Fatalf("expected precondition 400, got %v", err)
	}
	if kw.calls != 0 {
		t.Fatalf("keyword data fetched before preconditions were checked")
	}
}

func TestRunStepHaloscanPassesSuppliedData(t *testing.T) {
	kw := &countingKeywords{}
	supplied := &domain.KeywordDataBundle{SeedKeyword: "visa"}
	res, err := RunStep(context.Background(), steps.Deps{Keywords: kw}, StepHaloscan, steps.Input{
		Project:     domain.Project{MainTopic: "visa"},
		KeywordData: supplied,
	})
	if err != nil {
		t.Fatalf("RunStep: %v", err)
	}
	if res.KeywordData != supplied || kw.calls != 0 {
		t.Fatalf("supplied data not passed through (calls=%d)", kw.calls)
	}
	body := res.Response(StepHaloscan)
	if _, ok := body["haloscanData"]; !ok || len(body) != 1 {
		t.Fatalf("response = %v", body)
	}
}

type countingKeywords struct {
	calls int
}

func (c *countingKeywords) Fetch(ctx context.Context, seed string) (*domain.KeywordDataBundle, error) {
	c.calls++
	return &domain.KeywordDataBundle{SeedKeyword: seed}, nil
}

type fakeResearch struct {
	countingKeywords
}

func (f *fakeResearch) Overview(ctx context.Context, seed string) (*haloscan.OverviewResponse, error) {
	return &haloscan.OverviewResponse{}, nil
}

func (f *fakeResearch) Questions(ctx context.Context, seed string) ([]domain.QuestionRecord, error) {
	return nil, nil
}

func (f *fakeResearch) Structure(ctx context.Context, seed string) (*keyworddata.Structure, error) {
	return &keyworddata.Structure{}, nil
}

func TestKeywordServiceActions(t *testing.T) {
	svc := NewKeywordService(testutil.Logger(t), &fakeResearch{})
	ctx := context.Background()

	for action, key := range map[string]string{
		"overview":  "overview",
		"questions": "questions",
		"structure": "structure",
		"full":      "analysis",
		"":          "analysis",
	} {
		out, err := svc.Research(ctx, "visa", action)
		if err != nil {
			t.Fatalf("%q: %v", action, err)
		}
		if _, ok := out[key]; !ok || len(out) != 1 {
			t.Fatalf("%q: result = %v", action, out)
		}
	}

	if _, err := svc.Research(ctx, "  ", "overview"); statusOf(t, err) != http.StatusBadRequest {
		t.Fatalf("missing keyword: %v", err)
	}
	if _, err := svc.Research(ctx, "visa", "dance"); statusOf(t, err) != http.StatusBadRequest {
		t.Fatalf("unknown action: %v", err)
	}
}
