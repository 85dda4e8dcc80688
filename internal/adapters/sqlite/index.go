package sqlite

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"relinker/internal/domain"
	"relinker/internal/ports"

	_ "modernc.org/sqlite"
)

const schemaVersion = "1"

// DefaultRoots are the project directories indexed when none are given
var DefaultRoots = []string{"Assets"}

// Index implements ports.AssetIndex using SQLite
type Index struct {
	db          *sql.DB
	projectPath string
	dbPath      string
	roots       []string
}

// Ensure Index implements AssetIndex
var _ ports.AssetIndex = (*Index)(nil)

// NewIndex creates a new SQLite index over the given project roots
func NewIndex(roots ...string) *Index {
	if len(roots) == 0 {
		roots = DefaultRoots
	}
	return &Index{roots: roots}
}

// Open initializes the index for the given project path
func (idx *Index) Open(projectPath string) error {
	// Expand ~ in path
	if len(projectPath) > 0 && projectPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		projectPath = filepath.Join(home, projectPath[1:])
	}
	abs, err := filepath.Abs(projectPath)
	if err != nil {
		return fmt.Errorf("failed to resolve project path: %w", err)
	}

	idx.projectPath = abs
	idx.dbPath = databasePath(abs)

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(idx.dbPath), 0755); err != nil {
		return fmt.Errorf("failed to create index directory: %w", err)
	}

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", idx.dbPath+"?_journal_mode=WAL")
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	idx.db = db

	// Performance pragmas + schema in single batch (reduces round-trips)
	_, err = db.Exec(`
		PRAGMA synchronous = NORMAL;
		PRAGMA cache_size = -64000;
		PRAGMA temp_store = MEMORY;
		PRAGMA busy_timeout = 5000;

		CREATE TABLE IF NOT EXISTS nodes (
			path TEXT PRIMARY KEY,
			guid TEXT,
			asset_type TEXT NOT NULL,
			is_dir INTEGER NOT NULL,
			mtime INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS edges (
			source_path TEXT NOT NULL,
			target_guid TEXT NOT NULL,
			PRIMARY KEY (source_path, target_guid)
		);
		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_nodes_guid ON nodes(guid);
		CREATE INDEX IF NOT EXISTS idx_edges_target ON edges(target_guid);
		CREATE INDEX IF NOT EXISTS idx_edges_source ON edges(source_path);
	`)
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to setup database: %w", err)
	}

	return nil
}

// Close closes the database connection
func (idx *Index) Close() error {
	if idx.db != nil {
		return idx.db.Close()
	}
	return nil
}

// ProjectPath returns the absolute project directory
func (idx *Index) ProjectPath() string {
	return idx.projectPath
}

// DBPath returns the database file location
func (idx *Index) DBPath() string {
	return idx.dbPath
}

// NeedsFullRebuild returns true if the index should be fully rebuilt
func (idx *Index) NeedsFullRebuild() bool {
	var version, projectHash, roots string

	idx.db.QueryRow("SELECT value FROM meta WHERE key = 'schema_version'").Scan(&version)
	idx.db.QueryRow("SELECT value FROM meta WHERE key = 'project_path_hash'").Scan(&projectHash)
	idx.db.QueryRow("SELECT value FROM meta WHERE key = 'roots'").Scan(&roots)

	return version != schemaVersion ||
		projectHash != hashProjectPath(idx.projectPath) ||
		roots != strings.Join(idx.roots, ",")
}

// Checkpoint flushes the write-ahead log into the database file
func (idx *Index) Checkpoint() error {
	_, err := idx.db.Exec(`PRAGMA wal_checkpoint(TRUNCATE)`)
	return err
}

// databasePath returns the path for the SQLite database
func databasePath(projectPath string) string {
	// XDG data directory
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}

	// Hash project path for unique DB name
	hash := hashProjectPath(projectPath)

	return filepath.Join(dataHome, "relinker", hash+".db")
}

// hashProjectPath returns a short hash of the project path
func hashProjectPath(projectPath string) string {
	h := sha256.Sum256([]byte(projectPath))
	return hex.EncodeToString(h[:8]) // First 8 bytes = 16 hex chars
}

// updateMeta records the schema version, project hash and indexed roots
func (idx *Index) updateMeta(tx *sql.Tx) error {
	_, err := tx.Exec(`
		INSERT OR REPLACE INTO meta (key, value) VALUES ('schema_version', ?);
		INSERT OR REPLACE INTO meta (key, value) VALUES ('project_path_hash', ?);
		INSERT OR REPLACE INTO meta (key, value) VALUES ('roots', ?);
	`, schemaVersion, hashProjectPath(idx.projectPath), strings.Join(idx.roots, ","))
	return err
}

const nodeColumns = `path, guid, asset_type, is_dir, mtime`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNode(row rowScanner) (*domain.IndexNode, error) {
	var node domain.IndexNode
	var guid sql.NullString
	var assetType string

	if err := row.Scan(&node.Path, &guid, &assetType, &node.IsDir, &node.Mtime); err != nil {
		return nil, err
	}
	node.GUID = guid.String
	node.Type = domain.AssetType(assetType)
	return &node, nil
}

// GetNode retrieves a node by path
func (idx *Index) GetNode(path string) (*domain.IndexNode, error) {
	node, err := scanNode(idx.db.QueryRow(`
		SELECT `+nodeColumns+`
		FROM nodes WHERE path = ?
	`, path))

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return node, nil
}

// GetNodeByGUID retrieves a node by identifier. Duplicated identifiers
// resolve to the first path in lexical order.
func (idx *Index) GetNodeByGUID(guid string) (*domain.IndexNode, error) {
	node, err := scanNode(idx.db.QueryRow(`
		SELECT `+nodeColumns+`
		FROM nodes WHERE guid = ?
		ORDER BY path LIMIT 1
	`, guid))

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return node, nil
}

// ListNodesUnder returns every node strictly under any of roots, ordered by path
func (idx *Index) ListNodesUnder(roots []string) ([]domain.IndexNode, error) {
	seen := make(map[string]bool)
	var nodes []domain.IndexNode

	for _, root := range roots {
		prefix := strings.TrimSuffix(root, "/") + "/"
		rows, err := idx.db.Query(`
			SELECT `+nodeColumns+`
			FROM nodes WHERE substr(path, 1, ?) = ?
		`, len(prefix), prefix)
		if err != nil {
			return nil, err
		}
		for rows.Next() {
			node, err := scanNode(rows)
			if err != nil {
				rows.Close()
				return nil, err
			}
			if seen[node.Path] {
				continue
			}
			seen[node.Path] = true
			nodes = append(nodes, *node)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, err
		}
		rows.Close()
	}

	sort.Slice(nodes, func(i, j int) bool {
		return nodes[i].Path < nodes[j].Path
	})
	return nodes, nil
}

// FindReferencesTo returns all edges pointing to an identifier
func (idx *Index) FindReferencesTo(guid string) ([]domain.Edge, error) {
	return idx.queryEdges(`
		SELECT source_path, target_guid
		FROM edges WHERE target_guid = ?
		ORDER BY source_path
	`, guid)
}

// FindReferencesFrom returns all edges from a source asset
func (idx *Index) FindReferencesFrom(sourcePath string) ([]domain.Edge, error) {
	return idx.queryEdges(`
		SELECT source_path, target_guid
		FROM edges WHERE source_path = ?
		ORDER BY target_guid
	`, sourcePath)
}

func (idx *Index) queryEdges(query string, arg string) ([]domain.Edge, error) {
	rows, err := idx.db.Query(query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var edges []domain.Edge
	for rows.Next() {
		var e domain.Edge
		if err := rows.Scan(&e.SourcePath, &e.TargetGUID); err != nil {
			return nil, err
		}
		edges = append(edges, e)
	}

	return edges, rows.Err()
}
