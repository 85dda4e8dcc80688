package sqlite

import (
	"bytes"
	"database/sql"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"relinker/internal/domain"
	"relinker/internal/ports"
)

// Identifier references as serialized by the host: "guid: <32 hex>"
var guidRefPattern = regexp.MustCompile(`guid:\s*([0-9a-fA-F]{32})`)

// Bytes inspected when deciding whether a file is binary
const sniffLen = 8000

// Files modified this close to the previous sync start are rescanned, since
// coarse filesystem clocks can stamp a later write with an earlier time
const syncSlack = 2 * time.Second

// scannedNode is a walked asset with the edges found in its content and sidecar
type scannedNode struct {
	node  domain.IndexNode
	edges []string
}

// SyncFull performs a complete rebuild of the index
func (idx *Index) SyncFull() (*domain.SyncStats, error) {
	start := time.Now()
	stats := &domain.SyncStats{}

	tx, err := idx.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// Clear existing data
	if _, err := tx.Exec(`DELETE FROM nodes`); err != nil {
		return nil, err
	}
	if _, err := tx.Exec(`DELETE FROM edges`); err != nil {
		return nil, err
	}

	var itx ports.IndexTx = &indexTx{tx: tx}
	err = idx.walk(func(rel string, mtime int64, entry fs.DirEntry) error {
		stats.FilesScanned++
		stats.NodesAdded++
		return store(itx, idx.scan(rel, mtime, entry.IsDir()), stats)
	})
	if err != nil {
		return stats, err
	}

	if err := idx.finishSync(tx, start); err != nil {
		return stats, err
	}

	stats.Duration = time.Since(start)
	return stats, nil
}

// SyncIncremental updates only assets whose asset or sidecar mtime changed
// since the last sync
func (idx *Index) SyncIncremental() (*domain.SyncStats, error) {
	start := time.Now()
	stats := &domain.SyncStats{}

	// Get last sync start
	var lastSyncNano int64
	idx.db.QueryRow(`SELECT value FROM meta WHERE key = 'last_sync_start'`).Scan(&lastSyncNano)
	threshold := lastSyncNano - int64(syncSlack)

	// Track existing paths to detect deletions and changes
	existing := make(map[string]int64)
	rows, err := idx.db.Query(`SELECT path, mtime FROM nodes`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var path string
		var mtime int64
		if err := rows.Scan(&path, &mtime); err != nil {
			rows.Close()
			return nil, err
		}
		existing[path] = mtime
	}
	rows.Close()

	tx, err := idx.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// Track paths we've seen during this walk
	seen := make(map[string]bool)
	var itx ports.IndexTx = &indexTx{tx: tx}

	err = idx.walk(func(rel string, mtime int64, entry fs.DirEntry) error {
		seen[rel] = true
		stats.FilesScanned++

		previous, known := existing[rel]
		if known && previous == mtime && mtime < threshold {
			return nil
		}

		if known {
			stats.NodesUpdated++
			if err := itx.DeleteEdgesFromFile(rel); err != nil {
				return err
			}
		} else {
			stats.NodesAdded++
		}
		return store(itx, idx.scan(rel, mtime, entry.IsDir()), stats)
	})
	if err != nil {
		return stats, err
	}

	// Delete nodes that no longer exist
	for path := range existing {
		if seen[path] {
			continue
		}
		if err := itx.DeleteNode(path); err != nil {
			return stats, err
		}
		stats.NodesDeleted++
	}

	if err := idx.finishSync(tx, start); err != nil {
		return stats, err
	}

	stats.Duration = time.Since(start)
	return stats, nil
}

// store writes a scanned asset and its outgoing references
func store(itx ports.IndexTx, scanned scannedNode, stats *domain.SyncStats) error {
	if err := itx.UpsertNode(&scanned.node); err != nil {
		return err
	}
	for _, target := range scanned.edges {
		if err := itx.InsertEdge(&domain.Edge{SourcePath: scanned.node.Path, TargetGUID: target}); err != nil {
			return err
		}
		stats.EdgesAdded++
	}
	return nil
}

func (idx *Index) finishSync(tx *sql.Tx, start time.Time) error {
	if err := idx.updateMeta(tx); err != nil {
		return err
	}
	if _, err := tx.Exec(`
		INSERT OR REPLACE INTO meta (key, value) VALUES ('last_sync_time', ?);
		INSERT OR REPLACE INTO meta (key, value) VALUES ('last_sync_start', ?);
	`, time.Now().Unix(), start.UnixNano()); err != nil {
		return err
	}
	return tx.Commit()
}

// walk visits every asset under the indexed roots, the roots included.
// Sidecars are folded into their asset's mtime and never visited as assets.
func (idx *Index) walk(visit func(rel string, mtime int64, entry fs.DirEntry) error) error {
	for _, root := range idx.roots {
		rootPath := filepath.Join(idx.projectPath, filepath.FromSlash(root))
		if _, err := os.Stat(rootPath); errors.Is(err, fs.ErrNotExist) {
			continue
		}

		err := filepath.WalkDir(rootPath, func(path string, entry fs.DirEntry, err error) error {
			if err != nil {
				return nil // Skip errors
			}

			name := entry.Name()
			if path != rootPath && ignored(name) {
				if entry.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if !entry.IsDir() && domain.IsMetaPath(name) {
				return nil
			}

			relPath, err := filepath.Rel(idx.projectPath, path)
			if err != nil {
				return nil
			}
			rel := filepath.ToSlash(relPath)

			return visit(rel, idx.mtime(path, entry), entry)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// ignored reports names the host never imports: dot files and backups
func ignored(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasSuffix(name, "~")
}

// mtime returns the later of the asset and sidecar modification times.
// Directories only count their sidecar, since adding or removing children
// does not change the directory asset.
func (idx *Index) mtime(path string, entry fs.DirEntry) int64 {
	var mtime int64
	if !entry.IsDir() {
		if info, err := entry.Info(); err == nil {
			mtime = info.ModTime().UnixNano()
		}
	}
	if info, err := os.Stat(path + domain.MetaExt); err == nil {
		if m := info.ModTime().UnixNano(); m > mtime {
			mtime = m
		}
	}
	return mtime
}

// scan reads an asset's sidecar identifier and the identifiers it references
func (idx *Index) scan(rel string, mtime int64, isDir bool) scannedNode {
	full := filepath.Join(idx.projectPath, filepath.FromSlash(rel))
	result := scannedNode{node: domain.IndexNode{
		Path:  rel,
		Type:  domain.TypeForPath(rel, isDir),
		IsDir: isDir,
		Mtime: mtime,
	}}

	meta, err := os.ReadFile(full + domain.MetaExt)
	if err == nil {
		result.node.GUID = domain.ParseMetaGUID(string(meta))
	}

	var text []byte
	if !isDir {
		if content, err := os.ReadFile(full); err == nil && !isBinary(content) {
			text = content
		}
	}

	seen := map[string]bool{}
	for _, src := range [][]byte{text, meta} {
		for _, m := range guidRefPattern.FindAllSubmatch(src, -1) {
			target := string(m[1])
			if target == result.node.GUID || seen[target] {
				continue
			}
			seen[target] = true
			result.edges = append(result.edges, target)
		}
	}

	return result
}

// isBinary reports whether content looks binary: a NUL byte in the first sniffLen bytes
func isBinary(content []byte) bool {
	if len(content) > sniffLen {
		content = content[:sniffLen]
	}
	return bytes.IndexByte(content, 0) >= 0
}
