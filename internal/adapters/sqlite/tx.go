package sqlite

import (
	"database/sql"

	"relinker/internal/domain"
	"relinker/internal/ports"
)

// indexTx implements ports.IndexTx
type indexTx struct {
	tx *sql.Tx
}

// Ensure indexTx implements IndexTx
var _ ports.IndexTx = (*indexTx)(nil)

// UpsertNode inserts or updates a node
func (t *indexTx) UpsertNode(node *domain.IndexNode) error {
	_, err := t.tx.Exec(`
		INSERT OR REPLACE INTO nodes (path, guid, asset_type, is_dir, mtime)
		VALUES (?, ?, ?, ?, ?)
	`, node.Path, nullString(node.GUID), string(node.Type), node.IsDir, node.Mtime)
	return err
}

// DeleteNode removes a node and its outgoing edges
func (t *indexTx) DeleteNode(path string) error {
	if _, err := t.tx.Exec(`DELETE FROM nodes WHERE path = ?`, path); err != nil {
		return err
	}
	_, err := t.tx.Exec(`DELETE FROM edges WHERE source_path = ?`, path)
	return err
}

// DeleteEdgesFromFile removes all edges from a source file
func (t *indexTx) DeleteEdgesFromFile(sourcePath string) error {
	_, err := t.tx.Exec(`DELETE FROM edges WHERE source_path = ?`, sourcePath)
	return err
}

// InsertEdge adds a new edge
func (t *indexTx) InsertEdge(edge *domain.Edge) error {
	_, err := t.tx.Exec(`
		INSERT OR IGNORE INTO edges (source_path, target_guid)
		VALUES (?, ?)
	`, edge.SourcePath, edge.TargetGUID)
	return err
}

// nullString returns nil for empty strings (for nullable columns)
func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
