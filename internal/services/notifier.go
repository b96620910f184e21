package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/Berguit/topical-map-app/internal/domain"
	"github.com/Berguit/topical-map-app/internal/modules/topicalmap/steps"
	"github.com/Berguit/topical-map-app/internal/realtime"
)

// =========================
// Generation notifier
// =========================

type GenerationNotifier interface {
	Started(ctx context.Context, projectID uuid.UUID, runID uuid.UUID, step Step)
	Progress(ctx context.Context, projectID uuid.UUID, ev steps.ProgressEvent)
	Done(ctx context.Context, projectID uuid.UUID, runID uuid.UUID, step Step, project *domain.Project)
	Failed(ctx context.Context, projectID uuid.UUID, runID uuid.UUID, step Step, err error)
	ProjectUpdated(ctx context.Context, project *domain.Project)
	TopicalMapUpdated(ctx context.Context, projectID uuid.UUID, tm *domain.TopicalMap)
}

type generationNotifier struct {
	emit SSEEmitter
}

func NewGenerationNotifier(emit SSEEmitter) GenerationNotifier {
	return &generationNotifier{emit: emit}
}

func (n *generationNotifier) send(ctx context.Context, projectID uuid.UUID, event realtime.SSEEvent, data any) {
	if n == nil || n.emit == nil || projectID == uuid.Nil {
		return
	}
	n.emit.Emit(ctx, realtime.SSEMessage{
		Channel: realtime.ProjectChannel(projectID),
		Event:   event,
		Data:    data,
	})
}

func (n *generationNotifier) Started(ctx context.Context, projectID uuid.UUID, runID uuid.UUID, step Step) {
	n.send(ctx, projectID, realtime.SSEEventGenerationStarted, map[string]any{
		"run_id": runID,
		"step":   step,
	})
}

func (n *generationNotifier) Progress(ctx context.Context, projectID uuid.UUID, ev steps.ProgressEvent) {
	// Stage payloads can be large; clients re-read the project when done.
	n.send(ctx, projectID, realtime.SSEEventGenerationProgress, map[string]any{
		"step":    ev.Stage,
		"status":  ev.Status,
		"message": ev.Message,
		"at":      ev.At,
	})
}

func (n *generationNotifier) Done(ctx context.Context, projectID uuid.UUID, runID uuid.UUID, step Step, project *domain.Project) {
	n.send(ctx, projectID, realtime.SSEEventGenerationDone, map[string]any{
		"run_id":  runID,
		"step":    step,
		"project": project,
	})
}

func (n *generationNotifier) Failed(ctx context.Context, projectID uuid.UUID, runID uuid.UUID, step Step, err error) {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	n.send(ctx, projectID, realtime.SSEEventGenerationFailed, map[string]any{
		"run_id": runID,
		"step":   step,
		"error":  msg,
	})
}

func (n *generationNotifier) ProjectUpdated(ctx context.Context, project *domain.Project) {
	if project == nil {
		return
	}
	n.send(ctx, project.ID, realtime.SSEEventProjectUpdated, map[string]any{"project": project})
}

func (n *generationNotifier) TopicalMapUpdated(ctx context.Context, projectID uuid.UUID, tm *domain.TopicalMap) {
	n.send(ctx, projectID, realtime.SSEEventTopicalMapUpdated, map[string]any{"topical_map": tm})
}
