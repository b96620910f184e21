package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Berguit/topical-map-app/internal/data/repos"
	"github.com/Berguit/topical-map-app/internal/data/repos/testutil"
	"github.com/Berguit/topical-map-app/internal/domain"
	"github.com/Berguit/topical-map-app/internal/http/response"
	"github.com/Berguit/topical-map-app/internal/modules/topicalmap/steps"
	"github.com/Berguit/topical-map-app/internal/services"
)

type fakeGeneration struct {
	res *services.GenerateResult
	err error
	got []services.GenerateRequest
}

func (f *fakeGeneration) Generate(ctx context.Context, projectID uuid.UUID, req services.GenerateRequest) (*services.GenerateResult, error) {
	f.got = append(f.got, req)
	return f.res, f.err
}

func (f *fakeGeneration) GenerateStateless(ctx context.Context, project domain.Project, req services.GenerateRequest) (*services.GenerateResult, error) {
	f.got = append(f.got, req)
	return f.res, f.err
}

func newTestRouter(t *testing.T, gen services.GenerationService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := testutil.Logger(t)
	db := testutil.DB(t)
	projects := services.NewProjectService(log,
		repos.NewProjectRepo(db, log),
		repos.NewGenerationRunRepo(db, log),
		services.NewGraphSync(nil, log),
		services.NewGenerationNotifier(nil),
	)
	ph := NewProjectHandler(log, projects)
	gh := NewGenerateHandler(log, gen)

	r := gin.New()
	api := r.Group("/api")
	api.GET("/projects", ph.List)
	api.POST("/projects", ph.Create)
	api.GET("/projects/:id", ph.Get)
	api.PATCH("/projects/:id", ph.Update)
	api.DELETE("/projects/:id", ph.Delete)
	api.POST("/projects/:id/nodes", ph.AddNode)
	api.POST("/projects/:id/generate", gh.GenerateForProject)
	api.POST("/generate", gh.Generate)
	return r
}

func do(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var env response.ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode error envelope: %v (%s)", err, rec.Body.String())
	}
	return env.Error.Code
}

func TestProjectLifecycle(t *testing.T) {
	r := newTestRouter(t, &fakeGeneration{})

	rec := do(t, r, http.MethodPost, "/api/projects", map[string]any{
		"name":         "Visa Guide",
		"businessType": "blog",
		"mainTopic":    "visa schengen",
		"objectives":   []string{"traffic", " "},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d (%s)", rec.Code, rec.Body.String())
	}
	var created struct {
		Project domain.Project `json:"project"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(created.Project.Objectives) != 1 {
		t.Fatalf("objectives = %v", created.Project.Objectives)
	}
	path := "/api/projects/" + created.Project.ID.String()

	if rec := do(t, r, http.MethodGet, path, nil); rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	if rec := do(t, r, http.MethodPatch, path, map[string]any{"audience": "students"}); rec.Code != http.StatusOK {
		t.Fatalf("patch status = %d (%s)", rec.Code, rec.Body.String())
	}

	// No map has been generated yet.
	rec = do(t, r, http.MethodPost, path+"/nodes", map[string]any{"title": "Pillar", "type": "pillar"})
	if rec.Code != http.StatusNotFound || errorCode(t, rec) != "topical_map_not_found" {
		t.Fatalf("add node status = %d (%s)", rec.Code, rec.Body.String())
	}

	if rec := do(t, r, http.MethodDelete, path, nil); rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}
	rec = do(t, r, http.MethodGet, path, nil)
	if rec.Code != http.StatusNotFound || errorCode(t, rec) != "project_not_found" {
		t.Fatalf("get after delete = %d (%s)", rec.Code, rec.Body.String())
	}
}

func TestProjectValidationErrors(t *testing.T) {
	r := newTestRouter(t, &fakeGeneration{})

	rec := do(t, r, http.MethodGet, "/api/projects/not-a-uuid", nil)
	if rec.Code != http.StatusBadRequest || errorCode(t, rec) != "invalid_project_id" {
		t.Fatalf("bad id = %d (%s)", rec.Code, rec.Body.String())
	}
	rec = do(t, r, http.MethodPost, "/api/projects", map[string]any{"name": "x"})
	if rec.Code != http.StatusBadRequest || errorCode(t, rec) != "missing_main_topic" {
		t.Fatalf("missing topic = %d (%s)", rec.Code, rec.Body.String())
	}
}

func TestGenerateForProjectShapesResponse(t *testing.T) {
	cv := &domain.ContextVector{ID: uuid.New()}
	gen := &fakeGeneration{res: &services.GenerateResult{
		StepResult: &services.StepResult{ContextVector: cv, KeywordData: &domain.KeywordDataBundle{}},
		Step:       services.StepContextVector,
		RunID:      uuid.New(),
	}}
	r := newTestRouter(t, gen)

	rec := do(t, r, http.MethodPost, "/api/projects/"+uuid.NewString()+"/generate", map[string]any{"step": "context-vector"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
	}
	var body map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, key := range []string{"contextVector", "runId", "step"} {
		if _, ok := body[key]; !ok {
			t.Fatalf("missing %q in %s", key, rec.Body.String())
		}
	}
	if _, ok := body["haloscanData"]; ok {
		t.Fatalf("context vector step must not echo keyword data")
	}
	if gen.got[0].Step != "context-vector" {
		t.Fatalf("request = %+v", gen.got[0])
	}
}

func TestStatelessGenerateMapsErrors(t *testing.T) {
	gen := &fakeGeneration{err: services.MapError(&steps.PreconditionError{
		Stage:   steps.StageTopicalMap,
		Missing: []string{"knowledgeDomain", "contextVector", "eavModel"},
	})}
	r := newTestRouter(t, gen)

	rec := do(t, r, http.MethodPost, "/api/generate", map[string]any{"step": "topical-map"})
	if rec.Code != http.StatusBadRequest || errorCode(t, rec) != "missing_project" {
		t.Fatalf("missing project = %d (%s)", rec.Code, rec.Body.String())
	}

	rec = do(t, r, http.MethodPost, "/api/generate", map[string]any{
		"project": map[string]any{"name": "x", "mainTopic": "visa"},
		"step":    "topical-map",
	})
	if rec.Code != http.StatusBadRequest || errorCode(t, rec) != "precondition_failed" {
		t.Fatalf("precondition = %d (%s)", rec.Code, rec.Body.String())
	}
}
