package memory

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"relinker/internal/domain"
)

// Database implements ports.AssetDatabase over a FileStore.
//
// Identifiers are read from sidecars and dependencies are derived from
// content on Reindex, so lookups keep returning the last snapshot until the
// batch scope ends.
type Database struct {
	mu    sync.RWMutex
	files *FileStore

	guidToPath map[string]string
	pathToGUID map[string]string
	deps       map[string][]string

	depth   int
	pending bool

	// Call counters for the batch scope
	Batches   int
	Persisted int
	Reindexed int

	// Failures injected into the batch scope
	EndBatchErr   error
	PersistAllErr error
	ReindexErr    error
}

// NewDatabase creates a database over files and indexes it
func NewDatabase(files *FileStore) *Database {
	db := &Database{files: files}
	db.rebuild()
	return db
}

// Resolve returns the location of guid, or "" when unknown
func (d *Database) Resolve(guid string) (string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.guidToPath[guid], nil
}

// PathToGUID returns the identifier at location, or "" when unknown
func (d *Database) PathToGUID(location string) (string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.pathToGUID[location], nil
}

// Enumerate returns identifiers of filter members strictly under any root
func (d *Database) Enumerate(filter *domain.SearchFilter, roots []string) ([]string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var paths []string
	for p := range d.pathToGUID {
		if !under(p, roots) {
			continue
		}
		if !filter.Matches(p, d.files.IsDir(p)) {
			continue
		}
		paths = append(paths, p)
	}
	sort.Strings(paths)

	ids := make([]string, 0, len(paths))
	for _, p := range paths {
		ids = append(ids, d.pathToGUID[p])
	}
	return ids, nil
}

// ForwardDependencies returns location and everything it transitively references
func (d *Database) ForwardDependencies(location string) ([]string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if _, ok := d.pathToGUID[location]; !ok {
		return nil, fmt.Errorf("unknown asset %s", location)
	}
	return domain.Closure(location, func(p string) ([]string, error) {
		return d.deps[p], nil
	})
}

// MetaPathFor returns the sidecar location of an asset location
func (d *Database) MetaPathFor(location string) string {
	return domain.MetaPath(location)
}

// BeginBatch opens a batch scope. Scopes nest.
func (d *Database) BeginBatch() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.depth++
	d.Batches++
	return nil
}

// EndBatch closes a batch scope and runs any reindex deferred by it
func (d *Database) EndBatch() error {
	d.mu.Lock()
	if d.depth == 0 {
		d.mu.Unlock()
		return fmt.Errorf("end batch: no batch in progress")
	}
	d.depth--
	run := d.depth == 0 && d.pending
	d.mu.Unlock()

	if run {
		d.rebuild()
	}
	return d.EndBatchErr
}

// PersistAll is a no-op apart from counting
func (d *Database) PersistAll() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Persisted++
	return d.PersistAllErr
}

// Reindex refreshes the snapshot, or defers it until the batch scope ends
func (d *Database) Reindex() error {
	d.mu.Lock()
	d.Reindexed++
	if d.depth > 0 {
		d.pending = true
		d.mu.Unlock()
		return d.ReindexErr
	}
	d.mu.Unlock()

	d.rebuild()
	return d.ReindexErr
}

// InBatch reports whether a batch scope is open
func (d *Database) InBatch() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.depth > 0
}

func (d *Database) rebuild() {
	guidToPath := make(map[string]string)
	pathToGUID := make(map[string]string)

	for _, p := range d.files.Files() {
		if !domain.IsMetaPath(p) {
			continue
		}
		asset := strings.TrimSuffix(p, domain.MetaExt)
		if !d.files.Exists(asset) {
			continue
		}
		guid := domain.ParseMetaGUID(d.files.Content(p))
		if guid == "" {
			continue
		}
		if _, dup := guidToPath[guid]; dup {
			continue
		}
		guidToPath[guid] = asset
		pathToGUID[asset] = guid
	}

	deps := make(map[string][]string, len(pathToGUID))
	for asset, own := range pathToGUID {
		text := d.files.Content(domain.MetaPath(asset))
		if !d.files.IsDir(asset) {
			text = d.files.Content(asset) + "\n" + text
		}
		var out []string
		for guid, target := range guidToPath {
			if guid == own || target == asset {
				continue
			}
			if strings.Contains(text, guid) {
				out = append(out, target)
			}
		}
		sort.Strings(out)
		deps[asset] = out
	}

	d.mu.Lock()
	d.guidToPath = guidToPath
	d.pathToGUID = pathToGUID
	d.deps = deps
	d.pending = false
	d.mu.Unlock()
}

func under(p string, roots []string) bool {
	for _, r := range roots {
		if strings.HasPrefix(p, strings.TrimSuffix(r, "/")+"/") {
			return true
		}
	}
	return false
}
