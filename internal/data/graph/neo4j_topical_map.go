package graph

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/Berguit/topical-map-app/internal/domain"
	"github.com/Berguit/topical-map-app/internal/platform/logger"
	"github.com/Berguit/topical-map-app/internal/platform/neo4jdb"
)

// topicalMapRows flattens a map into UNWIND parameters. Edges whose
// endpoints are not nodes of the map are skipped.
func topicalMapRows(projectID uuid.UUID, tm *domain.TopicalMap, now string) ([]map[string]any, []map[string]any) {
	nodes := make([]map[string]any, 0, len(tm.Nodes))
	known := make(map[string]bool, len(tm.Nodes))
	for _, n := range tm.Nodes {
		if strings.TrimSpace(n.ID) == "" {
			continue
		}
		known[n.ID] = true
		main := ""
		keywords := make([]string, 0, len(n.Keywords))
		for _, k := range n.Keywords {
			keywords = append(keywords, k.Keyword)
			if k.IsMain && main == "" {
				main = k.Keyword
			}
		}
		nodes = append(nodes, map[string]any{
			"id":           n.ID,
			"project_id":   projectID.String(),
			"type":         string(n.Type),
			"title":        n.Title,
			"description":  n.Description,
			"intent":       string(n.Intent),
			"main_keyword": main,
			"keywords":     keywords,
			"paa":          append([]string{}, n.PAAQuestions...),
			"cluster":      n.BasedOnHaloscanCluster,
			"x":            n.Position.X,
			"y":            n.Position.Y,
			"synced_at":    now,
		})
	}

	rels := make([]map[string]any, 0, len(tm.Edges))
	for _, e := range tm.Edges {
		if !known[e.Source] || !known[e.Target] {
			continue
		}
		rels = append(rels, map[string]any{
			"id":         e.ID,
			"project_id": projectID.String(),
			"from_id":    e.Source,
			"to_id":      e.Target,
			"type":       string(e.Type),
			"synced_at":  now,
		})
	}
	return nodes, rels
}

// ReplaceTopicalMapGraph rewrites the project's map in Neo4j so it mirrors
// tm exactly. A nil client is a no-op.
func ReplaceTopicalMapGraph(ctx context.Context, client *neo4jdb.Client, log *logger.Logger, projectID uuid.UUID, tm *domain.TopicalMap) error {
	if client == nil || client.Driver == nil || projectID == uuid.Nil || tm == nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	nodes, rels := topicalMapRows(projectID, tm, time.Now().UTC().Format(time.RFC3339Nano))

	session := client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: client.Database,
	})
	defer session.Close(ctx)

	ensureSchema(ctx, session, log, []string{
		`CREATE CONSTRAINT topic_node_id_unique IF NOT EXISTS FOR (n:TopicNode) REQUIRE n.id IS UNIQUE`,
		`CREATE CONSTRAINT project_id_unique IF NOT EXISTS FOR (p:Project) REQUIRE p.id IS UNIQUE`,
	})

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		if err := run(ctx, tx, `
MATCH (n:TopicNode {project_id: $project_id})
DETACH DELETE n
`, map[string]any{"project_id": projectID.String()}); err != nil {
			return nil, err
		}

		if len(nodes) > 0 {
			if err := run(ctx, tx, `
MERGE (p:Project {id: $project_id})
WITH p
UNWIND $nodes AS n
MERGE (tn:TopicNode {id: n.id})
SET tn += n
MERGE (p)-[:HAS_TOPIC]->(tn)
`, map[string]any{"project_id": projectID.String(), "nodes": nodes}); err != nil {
				return nil, err
			}
		}

		if len(rels) > 0 {
			if err := run(ctx, tx, `
UNWIND $rels AS r
MATCH (a:TopicNode {id: r.from_id})
MATCH (b:TopicNode {id: r.to_id})
MERGE (a)-[e:LINKS_TO {id: r.id}]->(b)
SET e.project_id = r.project_id,
    e.type = r.type,
    e.synced_at = r.synced_at
`, map[string]any{"rels": rels}); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	return err
}

// DeleteProjectGraph removes every node projected for the project.
func DeleteProjectGraph(ctx context.Context, client *neo4jdb.Client, projectID uuid.UUID) error {
	if client == nil || client.Driver == nil || projectID == uuid.Nil {
		return nil
	}
	session := client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: client.Database,
	})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		if err := run(ctx, tx, `
MATCH (n) WHERE (n:TopicNode OR n:Entity) AND n.project_id = $project_id
DETACH DELETE n
`, map[string]any{"project_id": projectID.String()}); err != nil {
			return nil, err
		}
		return nil, run(ctx, tx, `
MATCH (p:Project {id: $project_id})
DETACH DELETE p
`, map[string]any{"project_id": projectID.String()})
	})
	return err
}

func run(ctx context.Context, tx neo4j.ManagedTransaction, cypher string, params map[string]any) error {
	res, err := tx.Run(ctx, cypher, params)
	if err != nil {
		return err
	}
	_, err = res.Consume(ctx)
	return err
}

// ensureSchema is best effort; constraint failures are logged and ignored.
func ensureSchema(ctx context.Context, session neo4j.SessionWithContext, log *logger.Logger, stmts []string) {
	for _, q := range stmts {
		res, err := session.Run(ctx, q, nil)
		if err != nil {
			if log != nil {
				log.Warn("neo4j schema init failed (continuing)", "error", err)
			}
			continue
		}
		_, _ = res.Consume(ctx)
	}
}
