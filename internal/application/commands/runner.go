package commands

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"relinker/internal/domain"
	"relinker/internal/ports"
)

// Runner binds the relink settings to the ports so front ends can plan and
// run without wiring commands themselves
type Runner struct {
	db                ports.AssetDatabase
	files             ports.FileStore
	filter            *domain.SearchFilter
	logger            *zap.Logger
	SourceRootGUID    string
	ReferenceRootGUID string
	CorpusRoots       []string
}

// NewRunner creates a new Runner
func NewRunner(db ports.AssetDatabase, files ports.FileStore, filter *domain.SearchFilter, sourceRootGUID, referenceRootGUID string, corpusRoots ...string) *Runner {
	if len(corpusRoots) == 0 {
		corpusRoots = []string{DefaultCorpusRoot}
	}
	return &Runner{
		db:                db,
		files:             files,
		filter:            filter,
		logger:            zap.NewNop(),
		SourceRootGUID:    sourceRootGUID,
		ReferenceRootGUID: referenceRootGUID,
		CorpusRoots:       corpusRoots,
	}
}

// WithLogger sets the logger
func (r *Runner) WithLogger(logger *zap.Logger) *Runner {
	if logger != nil {
		r.logger = logger
	}
	return r
}

// WithRoots returns a copy of r targeting other trees
func (r *Runner) WithRoots(sourceRootGUID, referenceRootGUID string) *Runner {
	c := *r
	if sourceRootGUID != "" {
		c.SourceRootGUID = sourceRootGUID
	}
	if referenceRootGUID != "" {
		c.ReferenceRootGUID = referenceRootGUID
	}
	return &c
}

// Plan computes what a relink would do
func (r *Runner) Plan(ctx context.Context, observer ports.ProgressObserver) (*PlanResult, error) {
	return NewPlanCommand(r.db, r.files, r.filter, r.SourceRootGUID, r.ReferenceRootGUID).
		WithCorpusRoots(r.CorpusRoots...).
		WithObserver(observer).
		WithLogger(r.logger).
		Execute(ctx)
}

// Relink performs the relink
func (r *Runner) Relink(ctx context.Context, observer ports.ProgressObserver) (*RelinkResult, error) {
	return NewRelinkCommand(r.db, r.files, r.filter, r.SourceRootGUID, r.ReferenceRootGUID).
		WithCorpusRoots(r.CorpusRoots...).
		WithObserver(observer).
		WithLogger(r.logger).
		Execute(ctx)
}

// Dependents returns the reverse dependencies of guid across the corpus
func (r *Runner) Dependents(ctx context.Context, guid string) ([]string, error) {
	if err := r.db.Reindex(); err != nil {
		return nil, fmt.Errorf("failed to refresh asset database: %w", err)
	}
	index, err := NewBuildReverseIndexCommand(r.db, r.files, r.filter, r.CorpusRoots, []string{guid}).
		WithLogger(r.logger).
		Execute(ctx)
	if err != nil {
		return nil, err
	}
	return index.Dependents(guid), nil
}

// Resolve returns the location of guid, or "" when unknown
func (r *Runner) Resolve(guid string) (string, error) {
	return r.db.Resolve(guid)
}

// Reindex refreshes the asset database
func (r *Runner) Reindex() error {
	return r.db.Reindex()
}
