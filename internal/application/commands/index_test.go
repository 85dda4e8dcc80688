package commands

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildReverseIndexCommand_RecordsDependents(t *testing.T) {
	p := newProject(t)

	index, err := NewBuildReverseIndexCommand(p.db, p.files, allAssets(),
		[]string{"Assets"}, []string{guidA, guidAx, guidAy}).Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Assets/A/x.mat", "Assets/A/x.mat.meta",
		"Assets/A/y.prefab", "Assets/A/y.prefab.meta",
		"Assets/C/z.prefab", "Assets/C/z.prefab.meta",
	}, index.Dependents(guidAx))
	assert.Equal(t, []string{
		"Assets/A/y.prefab", "Assets/A/y.prefab.meta",
		"Assets/C/z.prefab", "Assets/C/z.prefab.meta",
	}, index.Dependents(guidAy))

	// Folders are never scanned, so nothing depends on a folder root
	assert.Empty(t, index.Dependents(guidA))
	assert.Equal(t, 3, index.Keys())
	assert.Equal(t, 5, index.ReferencesCount)
}

func TestBuildReverseIndexCommand_IgnoresUntracked(t *testing.T) {
	p := newProject(t)

	index, err := NewBuildReverseIndexCommand(p.db, p.files, allAssets(),
		[]string{"Assets"}, []string{guidAy}).Execute(context.Background())
	require.NoError(t, err)

	assert.False(t, index.Tracks(guidAx))
	assert.Nil(t, index.Dependents(guidAx))
	assert.Len(t, index.Dependents(guidAy), 4)
	assert.Equal(t, 2, index.ReferencesCount)
}

func TestBuildReverseIndexCommand_CorpusRoots(t *testing.T) {
	p := newProject(t)

	index, err := NewBuildReverseIndexCommand(p.db, p.files, allAssets(),
		[]string{"Assets/C"}, []string{guidAx}).Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"Assets/C/z.prefab", "Assets/C/z.prefab.meta"}, index.Dependents(guidAx))
}

func TestBuildReverseIndexCommand_ReportsScanProgress(t *testing.T) {
	p := newProject(t)
	observer := &recordingObserver{}

	_, err := NewBuildReverseIndexCommand(p.db, p.files, allAssets(),
		[]string{"Assets"}, []string{guidAx}).WithObserver(observer).Execute(context.Background())
	require.NoError(t, err)

	// Three folders and five files
	require.Len(t, observer.events, 8)
	for i, ev := range observer.events {
		assert.Equal(t, "scan", ev.kind)
		assert.Equal(t, i+1, ev.done)
		assert.Equal(t, 8, ev.total)
	}
	assert.Equal(t, "Assets/A", observer.events[0].path)
}

func TestBuildReverseIndexCommand_Canceled(t *testing.T) {
	p := newProject(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewBuildReverseIndexCommand(p.db, p.files, allAssets(),
		[]string{"Assets"}, []string{guidAx}).Execute(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
