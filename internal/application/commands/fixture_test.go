package commands

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"relinker/internal/adapters/memory"
	"relinker/internal/domain"
)

const (
	guidA  = "a0000000000000000000000000000001"
	guidAx = "a0000000000000000000000000000002"
	guidAy = "a0000000000000000000000000000003"
	guidB  = "b0000000000000000000000000000001"
	guidBx = "b0000000000000000000000000000002"
	guidBy = "b0000000000000000000000000000003"
	guidC  = "c0000000000000000000000000000001"
	guidCz = "c0000000000000000000000000000002"
)

// project is an in-memory layout with two parallel trees and a consumer:
//
//	Assets/A/x.mat     Assets/B/x.mat
//	Assets/A/y.prefab  Assets/B/y.prefab
//	Assets/C/z.prefab  (references A/x and A/y)
//
// A/y references A/x.
type project struct {
	files *memory.FileStore
	db    *memory.Database
}

func newProject(t *testing.T) *project {
	t.Helper()

	files := memory.NewFileStore()
	files.PutFolder("Assets/A", guidA)
	files.PutAsset("Assets/A/x.mat", guidAx, "Material:\n  m_Name: x\n")
	files.PutAsset("Assets/A/y.prefab", guidAy, "m_Material: {fileID: 2100000, guid: "+guidAx+", type: 2}\n")
	files.PutFolder("Assets/B", guidB)
	files.PutAsset("Assets/B/x.mat", guidBx, "Material:\n  m_Name: x\n")
	files.PutAsset("Assets/B/y.prefab", guidBy, "m_Name: y\n")
	files.PutFolder("Assets/C", guidC)
	files.PutAsset("Assets/C/z.prefab", guidCz,
		"m_Material: {fileID: 2100000, guid: "+guidAx+", type: 2}\n"+
			"m_Prefab: {fileID: 100100000, guid: "+guidAy+", type: 3}\n")

	db := memory.NewDatabase(files)
	require.NoError(t, db.Reindex())
	return &project{files: files, db: db}
}

func allAssets() *domain.SearchFilter {
	return domain.MustParseSearchFilter("t:Object")
}

type progressEvent struct {
	kind  string
	path  string
	done  int
	total int
}

type recordingObserver struct {
	events []progressEvent
	pairs  []domain.ReportEntry
}

func (o *recordingObserver) Scanned(location string, done, total int) {
	o.events = append(o.events, progressEvent{kind: "scan", path: location, done: done, total: total})
}

func (o *recordingObserver) Rewriting(_, dependent string, done, total int) {
	o.events = append(o.events, progressEvent{kind: "rewrite", path: dependent, done: done, total: total})
}

func (o *recordingObserver) PairDone(assetPath string, substitutions int) {
	o.pairs = append(o.pairs, domain.ReportEntry{Path: assetPath, Substitutions: substitutions})
}

// failingWrites rejects writes to one location and delegates everything else
type failingWrites struct {
	*memory.FileStore
	location string
}

func (f *failingWrites) Write(location, content string) error {
	if location == f.location {
		return errors.New("disk full")
	}
	return f.FileStore.Write(location, content)
}

// staleDatabase ignores refreshes until a batch opens, so lookups keep the
// snapshot taken before the test changed files. reindexErr fails the
// closing reindex only.
type staleDatabase struct {
	*memory.Database
	batched    bool
	reindexErr error
}

func (d *staleDatabase) BeginBatch() error {
	d.batched = true
	return d.Database.BeginBatch()
}

func (d *staleDatabase) Reindex() error {
	if !d.batched {
		return nil
	}
	if err := d.Database.Reindex(); err != nil {
		return err
	}
	return d.reindexErr
}
