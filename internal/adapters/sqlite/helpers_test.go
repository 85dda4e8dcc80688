package sqlite

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

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

// setupTestProject writes a project with two parallel trees and a consumer
// prefab referencing the first one, and points the index database at a
// temp directory.
func setupTestProject(t *testing.T) string {
	t.Helper()
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	dir := t.TempDir()
	writeFolder(t, dir, "Assets/A", guidA)
	writeAsset(t, dir, "Assets/A/x.mat", guidAx, "Material:\n  m_Name: x\n")
	writeAsset(t, dir, "Assets/A/y.prefab", guidAy, "m_Material: {fileID: 2100000, guid: "+guidAx+", type: 2}\n")
	writeFolder(t, dir, "Assets/B", guidB)
	writeAsset(t, dir, "Assets/B/x.mat", guidBx, "Material:\n  m_Name: x\n")
	writeAsset(t, dir, "Assets/B/y.prefab", guidBy, "m_Name: y\n")
	writeFolder(t, dir, "Assets/C", guidC)
	writeAsset(t, dir, "Assets/C/z.prefab", guidCz,
		"m_Material: {fileID: 2100000, guid: "+guidAx+", type: 2}\n"+
			"m_Prefab: {fileID: 100100000, guid: "+guidAy+", type: 3}\n")
	age(t, dir)
	return dir
}

// age moves every mtime under dir an hour back so later writes stand out
// to incremental sync
func age(t testing.TB, dir string) {
	t.Helper()
	past := time.Now().Add(-time.Hour)
	err := filepath.Walk(dir, func(path string, _ os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		return os.Chtimes(path, past, past)
	})
	require.NoError(t, err)
}

func writeFile(t testing.TB, dir, rel, content string) {
	t.Helper()
	full := filepath.Join(dir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0644))
}

func writeAsset(t testing.TB, dir, rel, guid, content string) {
	t.Helper()
	writeFile(t, dir, rel, content)
	writeFile(t, dir, rel+domain.MetaExt, domain.FormatMeta(guid))
}

func writeFolder(t testing.TB, dir, rel, guid string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, filepath.FromSlash(rel)), 0755))
	writeFile(t, dir, rel+domain.MetaExt, domain.FormatMeta(guid))
}

// touch moves the mtime of rel forward so incremental sync picks it up
// regardless of filesystem timestamp resolution
func touch(t testing.TB, dir, rel string) {
	t.Helper()
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(dir, filepath.FromSlash(rel)), future, future))
}

func openIndex(t *testing.T, dir string) *Index {
	t.Helper()
	idx := NewIndex()
	require.NoError(t, idx.Open(dir))
	t.Cleanup(func() { idx.Close() })
	return idx
}

func openDatabase(t *testing.T, dir string) (*Index, *AssetDatabase) {
	t.Helper()
	idx := openIndex(t, dir)
	db, err := NewAssetDatabase(idx, nil)
	require.NoError(t, err)
	require.NoError(t, db.Reindex())
	return idx, db
}
