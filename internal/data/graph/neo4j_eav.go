package graph

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/Berguit/topical-map-app/internal/domain"
	"github.com/Berguit/topical-map-app/internal/platform/logger"
	"github.com/Berguit/topical-map-app/internal/platform/neo4jdb"
)

func eavRows(projectID uuid.UUID, eav *domain.EAVModel, now string) ([]map[string]any, []map[string]any) {
	entities := make([]map[string]any, 0, len(eav.Entities))
	known := map[string]bool{}
	for _, e := range eav.Entities {
		if e.ID == uuid.Nil {
			continue
		}
		known[e.ID.String()] = true
		keyAttrs := make([]string, 0, len(e.KeyAttributes))
		for _, a := range e.KeyAttributes {
			keyAttrs = append(keyAttrs, a.Name)
		}
		stdAttrs := make([]string, 0, len(e.StandardAttributes))
		for _, a := range e.StandardAttributes {
			stdAttrs = append(stdAttrs, a.Name)
		}
		entities = append(entities, map[string]any{
			"id":             e.ID.String(),
			"project_id":     projectID.String(),
			"name":           e.Name,
			"type":           string(e.Type),
			"description":    e.Description,
			"is_main":        e.IsMainEntity,
			"cluster":        e.BasedOnCluster,
			"key_attributes": keyAttrs,
			"attributes":     stdAttrs,
			"synced_at":      now,
		})
	}

	// Relations that still carry a raw entity name instead of an id have
	// nothing to attach to and are left out.
	rels := make([]map[string]any, 0, len(eav.Relations))
	for _, r := range eav.Relations {
		if !known[r.SourceEntityID] || !known[r.TargetEntityID] {
			continue
		}
		rels = append(rels, map[string]any{
			"id":          r.ID.String(),
			"from_id":     r.SourceEntityID,
			"to_id":       r.TargetEntityID,
			"type":        string(r.RelationType),
			"description": r.Description,
			"synced_at":   now,
		})
	}
	return entities, rels
}

func ReplaceEAVGraph(ctx context.Context, client *neo4jdb.Client, log *logger.Logger, projectID uuid.UUID, eav *domain.EAVModel) error {
	if client == nil || client.Driver == nil || projectID == uuid.Nil || eav == nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	entities, rels := eavRows(projectID, eav, time.Now().UTC().Format(time.RFC3339Nano))

	session := client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: client.Database,
	})
	defer session.Close(ctx)

	ensureSchema(ctx, session, log, []string{
		`CREATE CONSTRAINT entity_id_unique IF NOT EXISTS FOR (e:Entity) REQUIRE e.id IS UNIQUE`,
	})

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		if err := run(ctx, tx, `
MATCH (e:Entity {project_id: $project_id})
DETACH DELETE e
`, map[string]any{"project_id": projectID.String()}); err != nil {
			return nil, err
		}
		if len(entities) > 0 {
			if err := run(ctx, tx, `
MERGE (p:Project {id: $project_id})
WITH p
UNWIND $entities AS e
MERGE (en:Entity {id: e.id})
SET en += e
MERGE (p)-[:HAS_ENTITY]->(en)
`, map[string]any{"project_id": projectID.String(), "entities": entities}); err != nil {
				return nil, err
			}
		}
		if len(rels) > 0 {
			if err := run(ctx, tx, `
UNWIND $rels AS r
MATCH (a:Entity {id: r.from_id})
MATCH (b:Entity {id: r.to_id})
MERGE (a)-[e:RELATES {id: r.id}]->(b)
SET e.type = r.type,
    e.description = r.description,
    e.synced_at = r.synced_at
`, map[string]any{"rels": rels}); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	return err
}
