package sqlite

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"relinker/internal/domain"
)

func TestIndex_OpenUsesDataHome(t *testing.T) {
	dir := setupTestProject(t)
	idx := openIndex(t, dir)

	assert.Equal(t, os.Getenv("XDG_DATA_HOME"), filepath.Dir(filepath.Dir(idx.DBPath())))
	assert.Equal(t, "relinker", filepath.Base(filepath.Dir(idx.DBPath())))
	assert.True(t, idx.NeedsFullRebuild())

	_, err := idx.SyncFull()
	require.NoError(t, err)
	assert.False(t, idx.NeedsFullRebuild())
}

func TestIndex_SyncFull(t *testing.T) {
	dir := setupTestProject(t)
	writeFile(t, dir, "Assets/.hidden/skip.mat", "guid: "+guidAx)
	writeFile(t, dir, "Assets/C/backup.prefab~", "guid: "+guidAx)
	writeFile(t, dir, "Assets/C/tex.png", "\x89PNG\x00guid: "+guidAx)
	idx := openIndex(t, dir)

	stats, err := idx.SyncFull()
	require.NoError(t, err)

	// Assets, three folders, five assets and tex.png
	assert.Equal(t, 10, stats.NodesAdded)
	assert.Equal(t, 10, stats.FilesScanned)

	node, err := idx.GetNode("Assets/A/x.mat")
	require.NoError(t, err)
	require.NotNil(t, node)
	assert.Equal(t, guidAx, node.GUID)
	assert.Equal(t, domain.TypeMaterial, node.Type)
	assert.False(t, node.IsDir)

	folder, err := idx.GetNodeByGUID(guidA)
	require.NoError(t, err)
	require.NotNil(t, folder)
	assert.Equal(t, "Assets/A", folder.Path)
	assert.True(t, folder.IsDir)

	root, err := idx.GetNode("Assets")
	require.NoError(t, err)
	require.NotNil(t, root)
	assert.Empty(t, root.GUID)

	for _, skipped := range []string{"Assets/.hidden/skip.mat", "Assets/C/backup.prefab~", "Assets/A/x.mat.meta"} {
		node, err := idx.GetNode(skipped)
		require.NoError(t, err)
		assert.Nil(t, node, skipped)
	}

	// Binary content is not scanned for references
	edges, err := idx.FindReferencesFrom("Assets/C/tex.png")
	require.NoError(t, err)
	assert.Empty(t, edges)
}

func TestIndex_Edges(t *testing.T) {
	dir := setupTestProject(t)
	idx := openIndex(t, dir)
	_, err := idx.SyncFull()
	require.NoError(t, err)

	from, err := idx.FindReferencesFrom("Assets/C/z.prefab")
	require.NoError(t, err)
	assert.Equal(t, []domain.Edge{
		{SourcePath: "Assets/C/z.prefab", TargetGUID: guidAx},
		{SourcePath: "Assets/C/z.prefab", TargetGUID: guidAy},
	}, from)

	to, err := idx.FindReferencesTo(guidAx)
	require.NoError(t, err)
	assert.Equal(t, []domain.Edge{
		{SourcePath: "Assets/A/y.prefab", TargetGUID: guidAx},
		{SourcePath: "Assets/C/z.prefab", TargetGUID: guidAx},
	}, to)

	// Own sidecar identifier is not a reference
	self, err := idx.FindReferencesFrom("Assets/A/x.mat")
	require.NoError(t, err)
	assert.Empty(t, self)
}

func TestIndex_SidecarReferences(t *testing.T) {
	dir := setupTestProject(t)
	writeFile(t, dir, "Assets/C/model.fbx", "binary\x00data")
	writeFile(t, dir, "Assets/C/model.fbx.meta",
		domain.FormatMeta("c0000000000000000000000000000003")+
			"externalObjects:\n- first: {type: Material}\n  second: {fileID: 2100000, guid: "+guidAx+", type: 2}\n")
	idx := openIndex(t, dir)
	_, err := idx.SyncFull()
	require.NoError(t, err)

	edges, err := idx.FindReferencesFrom("Assets/C/model.fbx")
	require.NoError(t, err)
	assert.Equal(t, []domain.Edge{{SourcePath: "Assets/C/model.fbx", TargetGUID: guidAx}}, edges)
}

func TestIndex_ListNodesUnder(t *testing.T) {
	dir := setupTestProject(t)
	idx := openIndex(t, dir)
	_, err := idx.SyncFull()
	require.NoError(t, err)

	nodes, err := idx.ListNodesUnder([]string{"Assets/C", "Assets/A", "Assets/A/"})
	require.NoError(t, err)

	var paths []string
	for _, n := range nodes {
		paths = append(paths, n.Path)
	}
	assert.Equal(t, []string{"Assets/A/x.mat", "Assets/A/y.prefab", "Assets/C/z.prefab"}, paths)
}

func TestIndex_SyncIncremental(t *testing.T) {
	dir := setupTestProject(t)
	idx := openIndex(t, dir)
	_, err := idx.SyncFull()
	require.NoError(t, err)

	// Nothing changed
	stats, err := idx.SyncIncremental()
	require.NoError(t, err)
	assert.Zero(t, stats.NodesAdded)
	assert.Zero(t, stats.NodesUpdated)
	assert.Zero(t, stats.NodesDeleted)

	// Sidecar rewritten, asset added, asset removed
	writeFile(t, dir, "Assets/A/x.mat.meta", domain.FormatMeta(guidBx))
	touch(t, dir, "Assets/A/x.mat.meta")
	writeAsset(t, dir, "Assets/C/w.prefab", "c0000000000000000000000000000004", "m_Prefab: {guid: "+guidAy+"}\n")
	require.NoError(t, os.Remove(filepath.Join(dir, "Assets", "B", "y.prefab")))

	stats, err = idx.SyncIncremental()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.NodesAdded)
	assert.Equal(t, 1, stats.NodesUpdated)
	assert.Equal(t, 1, stats.NodesDeleted)

	node, err := idx.GetNode("Assets/A/x.mat")
	require.NoError(t, err)
	assert.Equal(t, guidBx, node.GUID)

	gone, err := idx.GetNodeByGUID(guidBy)
	require.NoError(t, err)
	assert.Nil(t, gone)

	to, err := idx.FindReferencesTo(guidAy)
	require.NoError(t, err)
	assert.Len(t, to, 2)
}

func TestIndex_RootsChangeForcesRebuild(t *testing.T) {
	dir := setupTestProject(t)
	idx := openIndex(t, dir)
	_, err := idx.SyncFull()
	require.NoError(t, err)
	require.NoError(t, idx.Close())

	other := NewIndex("Assets", "Packages")
	require.NoError(t, other.Open(dir))
	defer other.Close()
	assert.True(t, other.NeedsFullRebuild())
}

func TestIsBinary(t *testing.T) {
	assert.False(t, isBinary([]byte("guid: abc")))
	assert.True(t, isBinary([]byte("ab\x00cd")))

	late := make([]byte, sniffLen+10)
	for i := range late {
		late[i] = 'a'
	}
	late[sniffLen+5] = 0
	assert.False(t, isBinary(late))
}
