package ports

import "relinker/internal/domain"

// AssetIndex provides cached access to project structure and the reference graph.
type AssetIndex interface {
	// Lifecycle
	Open(projectPath string) error
	Close() error

	// Sync operations
	NeedsFullRebuild() bool
	SyncIncremental() (*domain.SyncStats, error)
	SyncFull() (*domain.SyncStats, error)
	Checkpoint() error

	// Node queries
	GetNode(path string) (*domain.IndexNode, error)
	GetNodeByGUID(guid string) (*domain.IndexNode, error)
	ListNodesUnder(roots []string) ([]domain.IndexNode, error)

	// Edge queries (reference graph)
	FindReferencesTo(guid string) ([]domain.Edge, error)
	FindReferencesFrom(sourcePath string) ([]domain.Edge, error)
}

// IndexTx writes scanned assets inside a sync transaction
type IndexTx interface {
	// Node operations
	UpsertNode(node *domain.IndexNode) error
	DeleteNode(path string) error

	// Edge operations
	DeleteEdgesFromFile(sourcePath string) error
	InsertEdge(edge *domain.Edge) error
}
