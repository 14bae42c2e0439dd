// Package export writes the result of a marking pass to Neo4j.
package export

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"linkmark/internal/logger"
	"linkmark/internal/markset"
	"linkmark/internal/metadata"
)

// BatchSize caps the number of rows sent in one UNWIND statement.
const BatchSize = 1000

// Neo4jLoader loads a metadata graph and its mark set into a Neo4j
// database using batch UNWIND queries.
type Neo4jLoader struct {
	driver neo4j.DriverWithContext
	ctx    context.Context
	log    logger.Logger
}

// NewNeo4jLoader connects to Neo4j and returns a ready-to-use loader.
func NewNeo4jLoader(ctx context.Context, uri, user, password string, log logger.Logger) (*Neo4jLoader, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, fmt.Errorf("failed to reach neo4j at %s: %w", uri, err)
	}
	return &Neo4jLoader{driver: driver, ctx: ctx, log: log}, nil
}

// Close releases the underlying Neo4j driver resources.
func (l *Neo4jLoader) Close() {
	l.driver.Close(l.ctx)
}

// runCypher runs a single Cypher statement with optional parameters.
func (l *Neo4jLoader) runCypher(cypher string, params map[string]any) error {
	_, err := neo4j.ExecuteQuery(l.ctx, l.driver, cypher, params, neo4j.EagerResultTransformer)
	return err
}

// runBatches runs cypher once per chunk of rows, bound to $batch.
func (l *Neo4jLoader) runBatches(cypher string, rows []map[string]any) error {
	for _, batch := range batches(rows, BatchSize) {
		if err := l.runCypher(cypher, map[string]any{"batch": batch}); err != nil {
			return err
		}
	}
	return nil
}

// CleanGraph removes all previously exported assemblies and nodes.
func (l *Neo4jLoader) CleanGraph() error {
	l.log.Logf("Cleaning existing link graph data...")
	queries := []string{
		"MATCH ()-[r:KEEPS]->() DELETE r",
		"MATCH ()-[r:IN_ASSEMBLY]->() DELETE r",
		"MATCH (n:LinkNode) DETACH DELETE n",
		"MATCH (n:LinkAssembly) DETACH DELETE n",
	}
	for _, q := range queries {
		if err := l.runCypher(q, nil); err != nil {
			return err
		}
	}
	return nil
}

// CreateIndexes ensures the required Neo4j indexes exist.
func (l *Neo4jLoader) CreateIndexes() error {
	l.log.Logf("Creating indexes...")
	indexes := []string{
		"CREATE INDEX link_assembly_name IF NOT EXISTS FOR (n:LinkAssembly) ON (n.name)",
		"CREATE INDEX link_node_id IF NOT EXISTS FOR (n:LinkNode) ON (n.id)",
		"CREATE INDEX link_node_kept IF NOT EXISTS FOR (n:LinkNode) ON (n.kept)",
	}
	for _, q := range indexes {
		if err := l.runCypher(q, nil); err != nil {
			return err
		}
	}
	return nil
}

// LoadAssemblies upserts LinkAssembly nodes.
func (l *Neo4jLoader) LoadAssemblies(g *metadata.Graph) error {
	rows := AssemblyRows(g)
	l.log.Logf("Loading %d assemblies...", len(rows))
	return l.runBatches(
		`UNWIND $batch AS row
		 MERGE (a:LinkAssembly {name: row.name})
		 SET a.types = row.types`,
		rows,
	)
}

// LoadNodes upserts one LinkNode per graph node with its kept status and
// links it to its assembly.
func (l *Neo4jLoader) LoadNodes(g *metadata.Graph, marks *markset.Frozen) error {
	rows := NodeRows(g, marks)
	l.log.Logf("Loading %d nodes (%d kept)...", len(rows), marks.Len())
	return l.runBatches(
		`UNWIND $batch AS row
		 MERGE (n:LinkNode {id: row.id})
		 SET n.kind = row.kind, n.assembly = row.assembly, n.name = row.name,
		     n.kept = row.kept, n.root = row.root, n.forced_fields = row.forced_fields
		 WITH n, row
		 MATCH (a:LinkAssembly {name: row.assembly})
		 MERGE (n)-[:IN_ASSEMBLY]->(a)`,
		rows,
	)
}

// LoadEdges upserts a KEEPS relationship from the node whose processing
// kept each node, labelled with the edge kind.
func (l *Neo4jLoader) LoadEdges(marks *markset.Frozen) error {
	rows := EdgeRows(marks)
	l.log.Logf("Loading %d keep edges...", len(rows))
	return l.runBatches(
		`UNWIND $batch AS row
		 MATCH (from:LinkNode {id: row.from}), (to:LinkNode {id: row.to})
		 MERGE (from)-[r:KEEPS]->(to)
		 SET r.label = row.label`,
		rows,
	)
}

// Export writes g and marks. With clean set, previously exported data is
// removed first.
func (l *Neo4jLoader) Export(g *metadata.Graph, marks *markset.Frozen, clean bool) error {
	if clean {
		if err := l.CleanGraph(); err != nil {
			return err
		}
	}
	if err := l.CreateIndexes(); err != nil {
		return err
	}
	if err := l.LoadAssemblies(g); err != nil {
		return err
	}
	if err := l.LoadNodes(g, marks); err != nil {
		return err
	}
	return l.LoadEdges(marks)
}
