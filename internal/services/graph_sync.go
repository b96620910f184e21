package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/Berguit/topical-map-app/internal/data/graph"
	"github.com/Berguit/topical-map-app/internal/domain"
	"github.com/Berguit/topical-map-app/internal/platform/logger"
	"github.com/Berguit/topical-map-app/internal/platform/neo4jdb"
)

// GraphSync mirrors stage documents into neo4j. The relational store stays
// the source of truth, so failures are logged and never returned to callers.
type GraphSync struct {
	client *neo4jdb.Client
	log    *logger.Logger
}

// NewGraphSync accepts a nil client; every method is then a no-op.
func NewGraphSync(client *neo4jdb.Client, baseLog *logger.Logger) *GraphSync {
	if baseLog == nil {
		baseLog = logger.Nop()
	}
	return &GraphSync{client: client, log: baseLog.With("service", "GraphSync")}
}

func (g *GraphSync) enabled() bool { return g != nil && g.client != nil }

func (g *GraphSync) SyncTopicalMap(ctx context.Context, projectID uuid.UUID, tm *domain.TopicalMap) {
	if !g.enabled() || tm == nil {
		return
	}
	if err := graph.ReplaceTopicalMapGraph(ctx, g.client, g.log, projectID, tm); err != nil {
		g.log.Warn("topical map graph sync failed", "project_id", projectID.String(), "error", err)
	}
}

func (g *GraphSync) SyncEAV(ctx context.Context, projectID uuid.UUID, eav *domain.EAVModel) {
	if !g.enabled() || eav == nil {
		return
	}
	if err := graph.ReplaceEAVGraph(ctx, g.client, g.log, projectID, eav); err != nil {
		g.log.Warn("eav graph sync failed", "project_id", projectID.String(), "error", err)
	}
}

func (g *GraphSync) DeleteProject(ctx context.Context, projectID uuid.UUID) {
	if !g.enabled() {
		return
	}
	if err := graph.DeleteProjectGraph(ctx, g.client, projectID); err != nil {
		g.log.Warn("project graph delete failed", "project_id", projectID.String(), "error", err)
	}
}
