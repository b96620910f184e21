package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Berguit/topical-map-app/internal/domain"
	"github.com/Berguit/topical-map-app/internal/http/response"
	"github.com/Berguit/topical-map-app/internal/platform/dbctx"
)

// Topical map edits live on ProjectHandler; every route answers with the
// whole map so the client can re-render in one step.

// POST /api/projects/:id/nodes
func (h *ProjectHandler) AddNode(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}
	var node domain.TopicalMapNode
	if err := c.ShouldBindJSON(&node); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	tm, err := h.projects.AddNode(dbctx.New(c.Request.Context()), id, node)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"topicalMap": tm})
}

// PATCH /api/projects/:id/nodes/:nodeId
func (h *ProjectHandler) UpdateNode(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}
	var patch domain.NodePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	tm, err := h.projects.UpdateNode(dbctx.New(c.Request.Context()), id, c.Param("nodeId"), patch)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"topicalMap": tm})
}

// DELETE /api/projects/:id/nodes/:nodeId
func (h *ProjectHandler) DeleteNode(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}
	tm, err := h.projects.DeleteNode(dbctx.New(c.Request.Context()), id, c.Param("nodeId"))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"topicalMap": tm})
}

// POST /api/projects/:id/edges
func (h *ProjectHandler) AddEdge(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}
	var edge domain.TopicalMapEdge
	if err := c.ShouldBindJSON(&edge); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	tm, err := h.projects.AddEdge(dbctx.New(c.Request.Context()), id, edge)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"topicalMap": tm})
}

// DELETE /api/projects/:id/edges/:edgeId
func (h *ProjectHandler) DeleteEdge(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}
	tm, err := h.projects.DeleteEdge(dbctx.New(c.Request.Context()), id, c.Param("edgeId"))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"topicalMap": tm})
}
