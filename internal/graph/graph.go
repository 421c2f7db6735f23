// Package graph mirrors findings and their relationships into Neo4j so the
// attack-chain can be queried as a property graph (shortest path, blast
// radius) instead of only the relational union-find read path of
// internal/correlation. Grounded in
// modules/shared/infrastructure/persistence/neo4j_temporal.go's
// ExecuteWrite/MERGE idiom and service/semantic_lineage_service.go's
// SyncAssetToNeo4j pattern of syncing relational rows into the graph after
// they change.
package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/synapsec/core/internal/domain/entity"
)

// Config mirrors configs/neo4j.go's LoadNeo4jConfig fields.
type Config struct {
	URI      string
	Username string
	Password string
	Database string
}

type Mirror struct {
	driver neo4j.DriverWithContext
	db     string
}

func Open(ctx context.Context, cfg Config) (*Mirror, error) {
	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.Username, cfg.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("create neo4j driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		return nil, fmt.Errorf("verify neo4j connectivity: %w", err)
	}
	return &Mirror{driver: driver, db: cfg.Database}, nil
}

func (m *Mirror) Close(ctx context.Context) error {
	return m.driver.Close(ctx)
}

func (m *Mirror) session(ctx context.Context) neo4j.SessionWithContext {
	return m.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: m.db})
}

// SyncFinding upserts a Finding node keyed by its id, matching the relational
// row's identity, severity and category so graph queries can filter without
// a round trip back to Postgres.
func (m *Mirror) SyncFinding(ctx context.Context, f *entity.Finding) error {
	session := m.session(ctx)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (interface{}, error) {
		_, err := tx.Run(ctx, `
			MERGE (f:Finding {id: $id})
			SET f.source_tool = $sourceTool,
			    f.category = $category,
			    f.severity = $severity,
			    f.status = $status,
			    f.application_id = $applicationID
		`, map[string]interface{}{
			"id":            f.ID.String(),
			"sourceTool":    f.SourceTool,
			"category":      string(f.FindingCategory),
			"severity":      string(f.NormalizedSeverity),
			"status":        string(f.Status),
			"applicationID": applicationIDString(f),
		})
		return nil, err
	})
	if err != nil {
		return fmt.Errorf("sync finding %s to graph: %w", f.ID, err)
	}
	return nil
}

func applicationIDString(f *entity.Finding) string {
	if f.ApplicationID == nil {
		return ""
	}
	return f.ApplicationID.String()
}

// SyncRelationship mirrors one cross-tool correlation edge (spec §4.E) into
// the graph as a CORRELATES_WITH relationship, carrying the rule that
// produced it for later explainability queries.
func (m *Mirror) SyncRelationship(ctx context.Context, rel *entity.FindingRelationship) error {
	session := m.session(ctx)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (interface{}, error) {
		_, err := tx.Run(ctx, `
			MATCH (a:Finding {id: $sourceID})
			MATCH (b:Finding {id: $targetID})
			MERGE (a)-[r:CORRELATES_WITH {type: $relType}]->(b)
			SET r.notes = $notes, r.confidence = $confidence
		`, map[string]interface{}{
			"sourceID":   rel.SourceFindingID.String(),
			"targetID":   rel.TargetFindingID.String(),
			"relType":    string(rel.RelationshipType),
			"notes":      rel.Notes,
			"confidence": string(rel.Confidence),
		})
		return nil, err
	})
	if err != nil {
		return fmt.Errorf("sync relationship %s->%s to graph: %w", rel.SourceFindingID, rel.TargetFindingID, err)
	}
	return nil
}

// ShortestPath returns the ids of findings on the shortest CORRELATES_WITH
// path between two findings, for ad-hoc attack-chain investigation.
func (m *Mirror) ShortestPath(ctx context.Context, fromID, toID string) ([]string, error) {
	session := m.session(ctx)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (interface{}, error) {
		res, err := tx.Run(ctx, `
			MATCH p = shortestPath((a:Finding {id: $fromID})-[:CORRELATES_WITH*]-(b:Finding {id: $toID}))
			RETURN [n IN nodes(p) | n.id] AS ids
		`, map[string]interface{}{"fromID": fromID, "toID": toID})
		if err != nil {
			return nil, err
		}
		if !res.Next(ctx) {
			return []string{}, nil
		}
		raw, _ := res.Record().Get("ids")
		rawList, _ := raw.([]interface{})
		ids := make([]string, 0, len(rawList))
		for _, v := range rawList {
			if s, ok := v.(string); ok {
				ids = append(ids, s)
			}
		}
		return ids, nil
	})
	if err != nil {
		return nil, fmt.Errorf("shortest path %s -> %s: %w", fromID, toID, err)
	}
	return result.([]string), nil
}
