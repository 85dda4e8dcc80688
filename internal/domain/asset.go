package domain

import (
	"path"
	"strings"

	"github.com/google/uuid"
)

// Asset represents a corpus member addressed by a stable identifier
type Asset struct {
	GUID  string    // Opaque unique identifier stored in the sidecar
	Path  string    // Project-relative location using forward slashes
	Type  AssetType // Derived from the extension (Folder for directories)
	IsDir bool
}

// AssetTree is a rooted subset of the corpus
type AssetTree struct {
	RootGUID string
	RootPath string
}

// Contains reports whether p lies strictly inside the tree root.
func (t AssetTree) Contains(p string) bool {
	if t.RootPath == "" {
		return false
	}
	return strings.HasPrefix(p, strings.TrimSuffix(t.RootPath, "/")+"/")
}

// RelativePath strips the tree root from p. The root itself maps to "".
// Paths outside the root are returned unchanged.
func (t AssetTree) RelativePath(p string) string {
	if p == t.RootPath {
		return ""
	}
	return strings.TrimPrefix(p, t.RootPath)
}

// MatchedPair is one (oldId, newId) correspondence derived from identical
// relative paths in the source and reference trees
type MatchedPair struct {
	OldGUID      string
	NewGUID      string
	RelativePath string
}

// MatchResult contains the outcome of matching two trees
type MatchResult struct {
	Source     AssetTree
	Reference  AssetTree
	Pairs      []MatchedPair
	Enumerated int // source candidates, root included
	Dropped    int // source candidates with no counterpart
}

// Matched returns the number of matched pairs
func (r *MatchResult) Matched() int {
	return len(r.Pairs)
}

// SourceGUIDs returns the identifiers the reverse index must track:
// every matched old identifier plus the source root.
func (r *MatchResult) SourceGUIDs() []string {
	ids := make([]string, 0, len(r.Pairs)+1)
	seen := make(map[string]bool, len(r.Pairs)+1)
	for _, p := range r.Pairs {
		if !seen[p.OldGUID] {
			seen[p.OldGUID] = true
			ids = append(ids, p.OldGUID)
		}
	}
	if r.Source.RootGUID != "" && !seen[r.Source.RootGUID] {
		ids = append(ids, r.Source.RootGUID)
	}
	return ids
}

// NormalizePath cleans a project-relative path: forward slashes, no leading "./".
func NormalizePath(p string) string {
	clean := path.Clean(strings.ReplaceAll(p, "\\", "/"))
	if clean == "." {
		return ""
	}
	return strings.TrimPrefix(clean, "./")
}

// NewGUID returns a fresh 32 character lowercase hex identifier
func NewGUID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}

// IsGUID reports whether s has the host's 32 hex character identifier shape
func IsGUID(s string) bool {
	if len(s) != 32 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}
