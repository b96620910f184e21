package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Berguit/topical-map-app/internal/http/response"
	"github.com/Berguit/topical-map-app/internal/services"
)

type KeywordHandler struct {
	keywords services.KeywordService
}

func NewKeywordHandler(keywords services.KeywordService) *KeywordHandler {
	return &KeywordHandler{keywords: keywords}
}

type keywordRequest struct {
	Keyword string `json:"keyword"`
	Action  string `json:"action"`
}

// POST /api/keywords
func (h *KeywordHandler) Research(c *gin.Context) {
	var req keywordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	out, err := h.keywords.Research(c.Request.Context(), req.Keyword, req.Action)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, out)
}
