package domain

import "time"

// IndexNode represents a cached project entry
type IndexNode struct {
	Path  string // Project-relative path (primary key)
	GUID  string // Identifier read from the sidecar (empty when missing)
	Type  AssetType
	IsDir bool
	Mtime int64 // Latest of asset and sidecar mtime, for incremental sync
}

// Edge represents a textual identifier reference from a file
type Edge struct {
	SourcePath string // Asset whose content or sidecar holds the reference
	TargetGUID string // Referenced identifier
}

// SyncStats holds statistics from a sync operation
type SyncStats struct {
	NodesAdded   int
	NodesUpdated int
	NodesDeleted int
	EdgesAdded   int
	FilesScanned int
	Duration     time.Duration
}
