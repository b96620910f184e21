package realtime

import "github.com/google/uuid"

type SSEEvent string

const (
	SSEEventGenerationStarted  SSEEvent = "GenerationStarted"
	SSEEventGenerationProgress SSEEvent = "GenerationProgress"
	SSEEventGenerationDone     SSEEvent = "GenerationDone"
	SSEEventGenerationFailed   SSEEvent = "GenerationFailed"
	SSEEventProjectUpdated     SSEEvent = "ProjectUpdated"
	SSEEventTopicalMapUpdated  SSEEvent = "TopicalMapUpdated"
)

type SSEMessage struct {
	Channel string   `json:"channel"`
	Event   SSEEvent `json:"event"`
	Data    any      `json:"data,omitempty"`
}

// ProjectChannel is the channel all live updates for a project go to.
func ProjectChannel(projectID uuid.UUID) string {
	return "project:" + projectID.String()
}
