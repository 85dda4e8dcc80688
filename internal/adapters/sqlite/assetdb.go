package sqlite

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"relinker/internal/domain"
	"relinker/internal/ports"
)

// resolveCacheSize bounds the identifier -> path cache
const resolveCacheSize = 4096

// AssetDatabase implements ports.AssetDatabase on top of the index.
//
// Lookups read the last synced snapshot. Reindex requested inside a batch
// scope is deferred until the outermost scope ends.
type AssetDatabase struct {
	index  ports.AssetIndex
	cache  *lru.Cache[string, string]
	logger *zap.Logger

	mu      sync.Mutex
	depth   int
	pending bool
}

// Ensure AssetDatabase implements ports.AssetDatabase
var _ ports.AssetDatabase = (*AssetDatabase)(nil)

// NewAssetDatabase creates an asset database over an opened index
func NewAssetDatabase(index ports.AssetIndex, logger *zap.Logger) (*AssetDatabase, error) {
	cache, err := lru.New[string, string](resolveCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create resolve cache: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssetDatabase{index: index, cache: cache, logger: logger}, nil
}

// Resolve returns the location of guid, or "" when unknown
func (d *AssetDatabase) Resolve(guid string) (string, error) {
	if p, ok := d.cache.Get(guid); ok {
		return p, nil
	}

	node, err := d.index.GetNodeByGUID(guid)
	if err != nil {
		return "", err
	}
	if node == nil {
		return "", nil
	}
	d.cache.Add(guid, node.Path)
	return node.Path, nil
}

// PathToGUID returns the identifier at location, or "" when unknown
func (d *AssetDatabase) PathToGUID(location string) (string, error) {
	node, err := d.index.GetNode(location)
	if err != nil {
		return "", err
	}
	if node == nil {
		return "", nil
	}
	return node.GUID, nil
}

// Enumerate returns identifiers of filter members strictly under any root.
// Assets without a sidecar identifier are never members.
func (d *AssetDatabase) Enumerate(filter *domain.SearchFilter, roots []string) ([]string, error) {
	nodes, err := d.index.ListNodesUnder(roots)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(nodes))
	ids := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if n.GUID == "" || seen[n.GUID] {
			continue
		}
		if !filter.Matches(n.Path, n.IsDir) {
			continue
		}
		seen[n.GUID] = true
		ids = append(ids, n.GUID)
	}
	return ids, nil
}

// ForwardDependencies returns location followed by every asset it
// references, directly or transitively
func (d *AssetDatabase) ForwardDependencies(location string) ([]string, error) {
	return domain.Closure(location, func(p string) ([]string, error) {
		edges, err := d.index.FindReferencesFrom(p)
		if err != nil {
			return nil, err
		}
		deps := make([]string, 0, len(edges))
		for _, e := range edges {
			target, err := d.Resolve(e.TargetGUID)
			if err != nil {
				return nil, err
			}
			// References to assets outside the indexed roots
			if target == "" {
				continue
			}
			deps = append(deps, target)
		}
		return deps, nil
	})
}

// MetaPathFor returns the sidecar location of an asset location
func (d *AssetDatabase) MetaPathFor(location string) string {
	return domain.MetaPath(location)
}

// BeginBatch opens a batch scope. Scopes nest.
func (d *AssetDatabase) BeginBatch() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.depth++
	return nil
}

// EndBatch closes a batch scope and runs a deferred reindex when the
// outermost scope ends
func (d *AssetDatabase) EndBatch() error {
	d.mu.Lock()
	if d.depth == 0 {
		d.mu.Unlock()
		return fmt.Errorf("end batch: no batch in progress")
	}
	d.depth--
	run := d.depth == 0 && d.pending
	if run {
		d.pending = false
	}
	d.mu.Unlock()

	if run {
		return d.sync()
	}
	return nil
}

// PersistAll checkpoints the write-ahead log
func (d *AssetDatabase) PersistAll() error {
	if err := d.index.Checkpoint(); err != nil {
		return fmt.Errorf("failed to checkpoint index: %w", err)
	}
	return nil
}

// Reindex brings the index up to date with the project
func (d *AssetDatabase) Reindex() error {
	d.mu.Lock()
	if d.depth > 0 {
		d.pending = true
		d.mu.Unlock()
		d.logger.Debug("reindex deferred until batch ends")
		return nil
	}
	d.mu.Unlock()

	return d.sync()
}

func (d *AssetDatabase) sync() error {
	var (
		stats *domain.SyncStats
		err   error
		full  = d.index.NeedsFullRebuild()
	)
	if full {
		stats, err = d.index.SyncFull()
	} else {
		stats, err = d.index.SyncIncremental()
	}
	d.cache.Purge()
	if err != nil {
		return fmt.Errorf("failed to sync index: %w", err)
	}

	d.logger.Debug("index synced",
		zap.Bool("full", full),
		zap.Int("scanned", stats.FilesScanned),
		zap.Int("added", stats.NodesAdded),
		zap.Int("updated", stats.NodesUpdated),
		zap.Int("deleted", stats.NodesDeleted),
		zap.Int("edges", stats.EdgesAdded),
		zap.Duration("duration", stats.Duration))
	return nil
}
