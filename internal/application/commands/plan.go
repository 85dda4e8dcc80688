package commands

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"relinker/internal/domain"
	"relinker/internal/ports"
)

// PlanEntry describes what a relink would do for one matched pair
type PlanEntry struct {
	Pair       domain.MatchedPair
	OldPath    string
	NewPath    string
	IsDir      bool
	Dependents int
}

// PlanResult contains the dry-run outcome
type PlanResult struct {
	Match      *domain.MatchResult
	References int
	Entries    []PlanEntry
	Message    string
}

// PlanCommand runs matching and dependency scanning without mutating anything
type PlanCommand struct {
	db                ports.AssetDatabase
	files             ports.FileStore
	filter            *domain.SearchFilter
	observer          ports.ProgressObserver
	logger            *zap.Logger
	SourceRootGUID    string
	ReferenceRootGUID string
	CorpusRoots       []string
}

// NewPlanCommand creates a new PlanCommand
func NewPlanCommand(db ports.AssetDatabase, files ports.FileStore, filter *domain.SearchFilter, sourceRootGUID, referenceRootGUID string) *PlanCommand {
	return &PlanCommand{
		db:                db,
		files:             files,
		filter:            filter,
		logger:            zap.NewNop(),
		SourceRootGUID:    sourceRootGUID,
		ReferenceRootGUID: referenceRootGUID,
		CorpusRoots:       []string{DefaultCorpusRoot},
	}
}

// WithObserver sets the progress observer
func (c *PlanCommand) WithObserver(o ports.ProgressObserver) *PlanCommand {
	c.observer = o
	return c
}

// WithLogger sets the logger
func (c *PlanCommand) WithLogger(logger *zap.Logger) *PlanCommand {
	if logger != nil {
		c.logger = logger
	}
	return c
}

// WithCorpusRoots overrides the roots scanned for dependents
func (c *PlanCommand) WithCorpusRoots(roots ...string) *PlanCommand {
	if len(roots) > 0 {
		c.CorpusRoots = roots
	}
	return c
}

// Execute refreshes the asset database and computes the plan
func (c *PlanCommand) Execute(ctx context.Context) (*PlanResult, error) {
	if err := c.db.Reindex(); err != nil {
		return nil, fmt.Errorf("failed to refresh asset database: %w", err)
	}

	match, err := NewMatchCommand(c.db, c.filter, c.SourceRootGUID, c.ReferenceRootGUID).
		WithLogger(c.logger).
		Execute(ctx)
	if err != nil {
		return nil, err
	}

	index, err := NewBuildReverseIndexCommand(c.db, c.files, c.filter, c.CorpusRoots, match.SourceGUIDs()).
		WithObserver(c.observer).
		WithLogger(c.logger).
		Execute(ctx)
	if err != nil {
		return nil, err
	}

	result := &PlanResult{
		Match:      match,
		References: index.ReferencesCount,
		Entries:    make([]PlanEntry, 0, len(match.Pairs)),
		Message:    fmt.Sprintf("Ready to update %d/%d", match.Matched(), match.Enumerated),
	}
	for _, pair := range match.Pairs {
		oldPath, err := c.db.Resolve(pair.OldGUID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", pair.OldGUID, err)
		}
		newPath, err := c.db.Resolve(pair.NewGUID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", pair.NewGUID, err)
		}
		entry := PlanEntry{
			Pair:    pair,
			OldPath: oldPath,
			NewPath: newPath,
			IsDir:   c.files.IsDir(oldPath),
		}
		if !entry.IsDir {
			entry.Dependents = len(index.Dependents(pair.OldGUID))
		}
		result.Entries = append(result.Entries, entry)
	}

	return result, nil
}
