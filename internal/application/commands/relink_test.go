package commands

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"relinker/internal/application"
	"relinker/internal/domain"
)

func TestRelinkCommand_RelinksSourceTree(t *testing.T) {
	p := newProject(t)
	observer := &recordingObserver{}

	result, err := NewRelinkCommand(p.db, p.files, allAssets(), guidA, guidB).
		WithObserver(observer).
		Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []domain.ReportEntry{
		{Path: "Assets/A", Substitutions: 0},
		{Path: "Assets/A/x.mat", Substitutions: 2},
		{Path: "Assets/A/y.prefab", Substitutions: 1},
	}, result.Report.Entries)
	assert.Equal(t, observer.pairs, result.Report.Entries)
	assert.Equal(t, "Updated GUID for 3 assets (3 references rewritten).", result.Message)
	assert.Equal(t, 5, result.References)

	// Source assets adopt the reference identifiers
	assert.Equal(t, guidB, domain.ParseMetaGUID(p.files.Content("Assets/A.meta")))
	assert.Equal(t, guidBx, domain.ParseMetaGUID(p.files.Content("Assets/A/x.mat.meta")))
	assert.Equal(t, guidBy, domain.ParseMetaGUID(p.files.Content("Assets/A/y.prefab.meta")))

	// Reference assets take the retired identifiers
	assert.Equal(t, guidA, domain.ParseMetaGUID(p.files.Content("Assets/B.meta")))
	assert.Equal(t, guidAx, domain.ParseMetaGUID(p.files.Content("Assets/B/x.mat.meta")))
	assert.Equal(t, guidAy, domain.ParseMetaGUID(p.files.Content("Assets/B/y.prefab.meta")))

	// Dependents point at the new identifiers
	z := p.files.Content("Assets/C/z.prefab")
	assert.Contains(t, z, "guid: "+guidBx)
	assert.Contains(t, z, "guid: "+guidBy)
	assert.NotContains(t, z, guidAx)
	assert.NotContains(t, z, guidAy)
	assert.Contains(t, p.files.Content("Assets/A/y.prefab"), "guid: "+guidBx)

	// The database is refreshed once the batch ends
	assert.False(t, p.db.InBatch())
	assert.Equal(t, 1, p.db.Persisted)
	loc, err := p.db.Resolve(guidBx)
	require.NoError(t, err)
	assert.Equal(t, "Assets/A/x.mat", loc)
}

func TestRelinkCommand_LeavesUnrelatedFilesAlone(t *testing.T) {
	p := newProject(t)
	before := p.files.Snapshot("Assets/")

	_, err := NewRelinkCommand(p.db, p.files, allAssets(), guidA, guidB).Execute(context.Background())
	require.NoError(t, err)

	touched := map[string]bool{
		"Assets/A.meta": true, "Assets/A/x.mat.meta": true, "Assets/A/y.prefab.meta": true,
		"Assets/B.meta": true, "Assets/B/x.mat.meta": true, "Assets/B/y.prefab.meta": true,
		"Assets/A/y.prefab": true, "Assets/C/z.prefab": true,
	}
	after := p.files.Snapshot("Assets/")
	for loc, content := range before {
		if touched[loc] {
			continue
		}
		assert.Equal(t, content, after[loc], loc)
	}
}

func TestRelinkCommand_RoundTrip(t *testing.T) {
	p := newProject(t)
	before := p.files.Snapshot("Assets/")

	_, err := NewRelinkCommand(p.db, p.files, allAssets(), guidA, guidB).Execute(context.Background())
	require.NoError(t, err)

	// The source root now carries the reference root identifier
	_, err = NewRelinkCommand(p.db, p.files, allAssets(), guidB, guidA).Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, before, p.files.Snapshot("Assets/"))
}

func TestRelinkCommand_AbortsOnMissingSidecar(t *testing.T) {
	p := newProject(t)
	// The database snapshot still lists A/y
	p.files.Remove("Assets/A/y.prefab.meta")

	result, err := NewRelinkCommand(&staleDatabase{Database: p.db}, p.files, allAssets(), guidA, guidB).Execute(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, application.ErrMetadataMissing)
	assert.Contains(t, err.Error(), "/y.prefab")

	// Completed pairs stay relinked
	require.NotNil(t, result)
	assert.Equal(t, []domain.ReportEntry{
		{Path: "Assets/A", Substitutions: 0},
		{Path: "Assets/A/x.mat", Substitutions: 2},
	}, result.Report.Entries)
	assert.Equal(t, guidBx, domain.ParseMetaGUID(p.files.Content("Assets/A/x.mat.meta")))
	assert.Equal(t, guidBy, domain.ParseMetaGUID(p.files.Content("Assets/B/y.prefab.meta")))
	assert.Contains(t, p.files.Content("Assets/C/z.prefab"), guidAy)

	// The batch bracket is released on failure too
	assert.False(t, p.db.InBatch())
	assert.Equal(t, 1, p.db.Persisted)
}

func TestRelinkCommand_AbortsOnWriteFailure(t *testing.T) {
	p := newProject(t)
	writeErr := errors.New("read-only file system")
	p.files.Fail("Assets/C/z.prefab", writeErr)

	result, err := NewRelinkCommand(p.db, p.files, allAssets(), guidA, guidB).Execute(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, writeErr)

	assert.Equal(t, []domain.ReportEntry{{Path: "Assets/A", Substitutions: 0}}, result.Report.Entries)
	assert.Equal(t, "Updated GUID for 1 assets (0 references rewritten).", result.Message)
	assert.False(t, p.db.InBatch())
}

func TestRelinkCommand_CleanupFailuresAreReported(t *testing.T) {
	p := newProject(t)
	persistErr := errors.New("persist failed")
	reindexErr := errors.New("reindex failed")
	p.db.PersistAllErr = persistErr
	db := &staleDatabase{Database: p.db, reindexErr: reindexErr}

	result, err := NewRelinkCommand(db, p.files, allAssets(), guidA, guidB).Execute(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, persistErr)
	assert.ErrorIs(t, err, reindexErr)
	assert.Equal(t, 3, result.Report.Updated())
}

func TestRelinkCommand_CleanupFailureKeepsRunError(t *testing.T) {
	p := newProject(t)
	p.files.Remove("Assets/A/y.prefab.meta")
	db := &staleDatabase{Database: p.db, reindexErr: errors.New("reindex failed")}

	_, err := NewRelinkCommand(db, p.files, allAssets(), guidA, guidB).Execute(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, application.ErrMetadataMissing)
	assert.ErrorIs(t, err, db.reindexErr)
}

func TestRelinkCommand_InvalidRootsNeverOpenBatch(t *testing.T) {
	p := newProject(t)

	_, err := NewRelinkCommand(p.db, p.files, allAssets(), guidA, guidA).Execute(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, application.ErrInvalidOperation)
	assert.Zero(t, p.db.Batches)
}

func TestRelinkCommand_RootNotFound(t *testing.T) {
	p := newProject(t)
	before := p.files.Snapshot("Assets/")

	result, err := NewRelinkCommand(p.db, p.files, allAssets(), "f0000000000000000000000000000000", guidB).Execute(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, application.ErrRootNotFound)
	assert.Zero(t, result.Report.Updated())
	assert.Equal(t, before, p.files.Snapshot("Assets/"))
	assert.False(t, p.db.InBatch())
}

func TestRelinkCommand_CanceledBeforeMutation(t *testing.T) {
	p := newProject(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRelinkCommand(p.db, p.files, allAssets(), guidA, guidB).Execute(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, p.files.Writes())
	assert.False(t, p.db.InBatch())
}

func TestRelinkCommand_RewriteProgressSpansAllPairs(t *testing.T) {
	p := newProject(t)
	observer := &recordingObserver{}

	_, err := NewRelinkCommand(p.db, p.files, allAssets(), guidA, guidB).
		WithObserver(observer).
		Execute(context.Background())
	require.NoError(t, err)

	var rewrites []progressEvent
	for _, ev := range observer.events {
		if ev.kind == "rewrite" {
			rewrites = append(rewrites, ev)
		}
	}
	// Six dependents of A/x plus four of A/y
	require.Len(t, rewrites, 10)
	for i, ev := range rewrites {
		assert.Equal(t, i+1, ev.done)
		assert.Equal(t, 10, ev.total)
	}
}

func TestRelinkCommand_AbortsOnMismatchedSidecar(t *testing.T) {
	p := newProject(t)
	// A/y's sidecar was regenerated with another identifier after the snapshot
	p.files.Put("Assets/A/y.prefab.meta", domain.FormatMeta("a0000000000000000000000000000009"))

	result, err := NewRelinkCommand(&staleDatabase{Database: p.db}, p.files, allAssets(), guidA, guidB).Execute(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, application.ErrMetadataMismatch)

	var metaErr *application.MetadataError
	require.ErrorAs(t, err, &metaErr)
	assert.Equal(t, guidAy, metaErr.GUID)
	assert.Equal(t, "Assets/A/y.prefab", metaErr.AssetPath)

	require.NotNil(t, result)
	assert.Equal(t, []domain.ReportEntry{
		{Path: "Assets/A", Substitutions: 0},
		{Path: "Assets/A/x.mat", Substitutions: 2},
	}, result.Report.Entries)
	assert.Equal(t, "Updated GUID for 2 assets (2 references rewritten).", result.Message)

	// Neither side of the failing pair was written
	assert.Equal(t, domain.FormatMeta(guidBy), p.files.Content("Assets/B/y.prefab.meta"))
	assert.Contains(t, p.files.Content("Assets/C/z.prefab"), guidAy)
	assert.False(t, p.db.InBatch())
}

func TestRelinkCommand_RewritesDependentsWrittenAfterLastSync(t *testing.T) {
	p := newProject(t)
	p.files.PutAsset("Assets/C/late.prefab", "c0000000000000000000000000000003",
		"m_Material: {fileID: 2100000, guid: "+guidAx+", type: 2}\n")

	result, err := NewRelinkCommand(p.db, p.files, allAssets(), guidA, guidB).Execute(context.Background())
	require.NoError(t, err)

	late := p.files.Content("Assets/C/late.prefab")
	assert.Contains(t, late, "guid: "+guidBx)
	assert.NotContains(t, late, guidAx)
	assert.Equal(t, "Updated GUID for 3 assets (4 references rewritten).", result.Message)
}

func TestRelinkCommand_RefreshFailureLeavesProjectAlone(t *testing.T) {
	p := newProject(t)
	p.db.ReindexErr = errors.New("index locked")
	before := p.files.Snapshot("Assets/")

	result, err := NewRelinkCommand(p.db, p.files, allAssets(), guidA, guidB).Execute(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, p.db.ReindexErr)
	assert.Nil(t, result)

	assert.Zero(t, p.db.Batches)
	assert.Empty(t, p.files.Writes())
	assert.Equal(t, before, p.files.Snapshot("Assets/"))
}

func TestRelinkCommand_ProgressSkipsDirectoryPairs(t *testing.T) {
	p := newProject(t)
	// References the source folder, which is swapped but never rewritten
	p.files.PutAsset("Assets/C/w.asset", "c0000000000000000000000000000004",
		"folder: {guid: "+guidA+"}\n")
	observer := &recordingObserver{}

	_, err := NewRelinkCommand(p.db, p.files, allAssets(), guidA, guidB).
		WithObserver(observer).
		Execute(context.Background())
	require.NoError(t, err)

	var last progressEvent
	rewrites := 0
	for _, ev := range observer.events {
		if ev.kind == "rewrite" {
			rewrites++
			last = ev
		}
	}
	assert.Equal(t, 10, rewrites)
	assert.Equal(t, 10, last.total)
	assert.Equal(t, last.total, last.done)
}
