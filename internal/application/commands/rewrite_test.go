package commands

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"relinker/internal/domain"
)

func TestRewriteCommand_ReplacesOldIdentifier(t *testing.T) {
	p := newProject(t)
	pair := domain.MatchedPair{OldGUID: guidAx, NewGUID: guidBx}
	dependents := []string{
		"Assets/A/x.mat", "Assets/A/x.mat.meta",
		"Assets/A/y.prefab", "Assets/A/y.prefab.meta",
		"Assets/C/z.prefab", "Assets/C/z.prefab.meta",
	}

	result, err := NewRewriteCommand(p.files, pair, "Assets/A/x.mat", dependents).Execute(context.Background())
	require.NoError(t, err)

	// x.mat.meta still records the old identifier because no swap ran
	assert.Equal(t, 3, result.Substitutions)
	assert.Equal(t, []string{"Assets/A/x.mat.meta", "Assets/A/y.prefab", "Assets/C/z.prefab"}, result.Rewritten)
	assert.NotContains(t, p.files.Content("Assets/C/z.prefab"), guidAx)
	assert.Contains(t, p.files.Content("Assets/C/z.prefab"), guidBx)
	assert.Contains(t, p.files.Content("Assets/C/z.prefab"), guidAy)
}

func TestRewriteCommand_CountsFilesNotOccurrences(t *testing.T) {
	p := newProject(t)
	p.files.Put("Assets/C/z.prefab", "a: "+guidAx+"\nb: "+guidAx+"\nc: "+guidAx+"\n")
	pair := domain.MatchedPair{OldGUID: guidAx, NewGUID: guidBx}

	result, err := NewRewriteCommand(p.files, pair, "Assets/A/x.mat", []string{"Assets/C/z.prefab"}).Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Substitutions)
	assert.Equal(t, "a: "+guidBx+"\nb: "+guidBx+"\nc: "+guidBx+"\n", p.files.Content("Assets/C/z.prefab"))
}

func TestRewriteCommand_SkipsFilesWithoutToken(t *testing.T) {
	p := newProject(t)
	pair := domain.MatchedPair{OldGUID: guidAx, NewGUID: guidBx}

	result, err := NewRewriteCommand(p.files, pair, "Assets/A/x.mat", []string{"Assets/B/y.prefab", "Assets/A/x.mat"}).Execute(context.Background())
	require.NoError(t, err)

	assert.Zero(t, result.Substitutions)
	assert.Empty(t, p.files.Writes())
}

func TestRewriteCommand_DirectoryAsset(t *testing.T) {
	p := newProject(t)
	pair := domain.MatchedPair{OldGUID: guidA, NewGUID: guidB}
	p.files.Put("Assets/C/z.prefab", "folder: "+guidA+"\n")

	result, err := NewRewriteCommand(p.files, pair, "Assets/A", []string{"Assets/C/z.prefab"}).Execute(context.Background())
	require.NoError(t, err)

	assert.Zero(t, result.Substitutions)
	assert.Equal(t, "folder: "+guidA+"\n", p.files.Content("Assets/C/z.prefab"))
}

func TestRewriteCommand_ReadFailureStops(t *testing.T) {
	p := newProject(t)
	readErr := errors.New("permission denied")
	p.files.Fail("Assets/A/y.prefab", readErr)
	pair := domain.MatchedPair{OldGUID: guidAx, NewGUID: guidBx}

	result, err := NewRewriteCommand(p.files, pair, "Assets/A/x.mat",
		[]string{"Assets/A/y.prefab", "Assets/C/z.prefab"}).Execute(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, readErr)
	assert.Zero(t, result.Substitutions)
	assert.Contains(t, p.files.Content("Assets/C/z.prefab"), guidAx)
}

func TestRewriteCommand_SharedProgress(t *testing.T) {
	p := newProject(t)
	observer := &recordingObserver{}
	done := 4
	pair := domain.MatchedPair{OldGUID: guidAy, NewGUID: guidBy}

	_, err := NewRewriteCommand(p.files, pair, "Assets/A/y.prefab", []string{"Assets/C/z.prefab", "Assets/C/z.prefab.meta"}).
		WithObserver(observer, &done, 10).
		Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 6, done)
	assert.Equal(t, []progressEvent{
		{kind: "rewrite", path: "Assets/C/z.prefab", done: 5, total: 10},
		{kind: "rewrite", path: "Assets/C/z.prefab.meta", done: 6, total: 10},
	}, observer.events)
}
