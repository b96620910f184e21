package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Berguit/topical-map-app/internal/domain"
	"github.com/Berguit/topical-map-app/internal/http/response"
	"github.com/Berguit/topical-map-app/internal/platform/logger"
	"github.com/Berguit/topical-map-app/internal/services"
)

type GenerateHandler struct {
	log *logger.Logger
	gen services.GenerationService
}

func NewGenerateHandler(log *logger.Logger, gen services.GenerationService) *GenerateHandler {
	return &GenerateHandler{log: log.With("handler", "GenerateHandler"), gen: gen}
}

// POST /api/projects/:id/generate
func (h *GenerateHandler) GenerateForProject(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}
	var req services.GenerateRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
			return
		}
	}
	res, err := h.gen.Generate(c.Request.Context(), id, req)
	if err != nil {
		h.log.Warn("generate failed", "project_id", id.String(), "step", req.Step, "error", err)
		response.RespondServiceError(c, err)
		return
	}
	body := res.Response(res.Step)
	body["step"] = res.Step
	body["runId"] = res.RunID
	body["project"] = res.Project
	response.RespondOK(c, body)
}

type statelessGenerateRequest struct {
	Project     *domain.Project           `json:"project"`
	Step        string                    `json:"step"`
	KeywordData *domain.KeywordDataBundle `json:"keywordData,omitempty"`
}

// POST /api/generate
func (h *GenerateHandler) Generate(c *gin.Context) {
	var req statelessGenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if req.Project == nil {
		response.RespondError(c, http.StatusBadRequest, "missing_project", errors.New("project is required"))
		return
	}
	res, err := h.gen.GenerateStateless(c.Request.Context(), *req.Project, services.GenerateRequest{
		Step:        req.Step,
		KeywordData: req.KeywordData,
	})
	if err != nil {
		h.log.Warn("stateless generate failed", "step", req.Step, "error", err)
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, res.Response(res.Step))
}
