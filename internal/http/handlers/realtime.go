package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/Berguit/topical-map-app/internal/http/response"
	"github.com/Berguit/topical-map-app/internal/platform/dbctx"
	"github.com/Berguit/topical-map-app/internal/platform/logger"
	"github.com/Berguit/topical-map-app/internal/realtime"
	"github.com/Berguit/topical-map-app/internal/services"
)

type RealtimeHandler struct {
	log      *logger.Logger
	hub      *realtime.SSEHub
	projects services.ProjectService
}

func NewRealtimeHandler(log *logger.Logger, hub *realtime.SSEHub, projects services.ProjectService) *RealtimeHandler {
	return &RealtimeHandler{
		log:      log.With("handler", "RealtimeHandler"),
		hub:      hub,
		projects: projects,
	}
}

// GET /api/projects/:id/events
//
// Streams generation progress and map edits for one project until the
// client disconnects.
func (h *RealtimeHandler) ProjectEvents(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}
	if _, err := h.projects.Get(dbctx.New(c.Request.Context()), id); err != nil {
		response.RespondServiceError(c, err)
		return
	}

	client := h.hub.NewSSEClient()
	h.hub.AddChannel(client, realtime.ProjectChannel(id))
	h.log.Debug("SSE stream open", "project_id", id.String(), "client_id", client.ID.String())

	h.hub.ServeHTTP(c.Writer, c.Request, client)

	h.hub.CloseClient(client)
	h.log.Debug("SSE stream closed", "project_id", id.String(), "client_id", client.ID.String())
}
