package commands

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"relinker/internal/application"
	"relinker/internal/domain"
	"relinker/internal/ports"
)

// DefaultCorpusRoot is the global assets root scanned for dependents
const DefaultCorpusRoot = "Assets"

// RelinkResult contains the result of a relink run. On failure it still
// holds the pairs that completed before the abort.
type RelinkResult struct {
	Match      *domain.MatchResult
	References int
	Report     *domain.UpdateReport
	Message    string
}

// RelinkCommand makes every source tree asset adopt the identifier of its
// reference tree counterpart and repoints every dependent file
type RelinkCommand struct {
	db                ports.AssetDatabase
	files             ports.FileStore
	filter            *domain.SearchFilter
	observer          ports.ProgressObserver
	logger            *zap.Logger
	SourceRootGUID    string
	ReferenceRootGUID string
	CorpusRoots       []string
}

// NewRelinkCommand creates a new RelinkCommand
func NewRelinkCommand(db ports.AssetDatabase, files ports.FileStore, filter *domain.SearchFilter, sourceRootGUID, referenceRootGUID string) *RelinkCommand {
	return &RelinkCommand{
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
func (c *RelinkCommand) WithObserver(o ports.ProgressObserver) *RelinkCommand {
	c.observer = o
	return c
}

// WithLogger sets the logger
func (c *RelinkCommand) WithLogger(logger *zap.Logger) *RelinkCommand {
	if logger != nil {
		c.logger = logger
	}
	return c
}

// WithCorpusRoots overrides the roots scanned for dependents
func (c *RelinkCommand) WithCorpusRoots(roots ...string) *RelinkCommand {
	if len(roots) > 0 {
		c.CorpusRoots = roots
	}
	return c
}

// Validate checks the configured roots
func (c *RelinkCommand) Validate() error {
	return application.ValidateDistinctRoots(c.SourceRootGUID, c.ReferenceRootGUID)
}

// Execute refreshes the asset database, then runs the relink inside a batch
// scope on it. The scope is always released, persisted and reindexed, even on failure.
// Nothing is rolled back: pairs processed before an error stay relinked.
func (c *RelinkCommand) Execute(ctx context.Context) (result *RelinkResult, err error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	// Dependents written since the last sync must be in the reverse index,
	// or they keep the retired identifier
	if err := c.db.Reindex(); err != nil {
		return nil, fmt.Errorf("failed to refresh asset database: %w", err)
	}

	result = &RelinkResult{Report: &domain.UpdateReport{}}

	if err := c.db.BeginBatch(); err != nil {
		return nil, fmt.Errorf("failed to begin batch: %w", err)
	}
	defer func() {
		err = c.release(err)
		result.Message = result.Report.Summary()
	}()

	if err := c.run(ctx, result); err != nil {
		c.logger.Error("relink aborted",
			zap.Error(err),
			zap.Int("completed", result.Report.Updated()))
		return result, err
	}

	c.logger.Info(result.Report.Format(application.Version))
	return result, nil
}

func (c *RelinkCommand) run(ctx context.Context, result *RelinkResult) error {
	match, err := NewMatchCommand(c.db, c.filter, c.SourceRootGUID, c.ReferenceRootGUID).
		WithLogger(c.logger).
		Execute(ctx)
	if err != nil {
		return err
	}
	result.Match = match

	index, err := NewBuildReverseIndexCommand(c.db, c.files, c.filter, c.CorpusRoots, match.SourceGUIDs()).
		WithObserver(c.observer).
		WithLogger(c.logger).
		Execute(ctx)
	if err != nil {
		return err
	}
	result.References = index.ReferencesCount

	// Directory pairs are never rewritten, so their dependents are not counted
	total := 0
	for _, pair := range match.Pairs {
		location, err := c.db.Resolve(pair.OldGUID)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", pair.OldGUID, err)
		}
		if location != "" && c.files.IsDir(location) {
			continue
		}
		total += len(index.Dependents(pair.OldGUID))
	}

	// No cancellation past this point: a pair is either fully processed or
	// the run aborts on the first error.
	done := 0
	for _, pair := range match.Pairs {
		swap, err := NewSwapCommand(c.db, c.files, pair).Execute(ctx)
		if err != nil {
			return fmt.Errorf("failed to swap %q: %w", pair.RelativePath, err)
		}

		rewrite, err := NewRewriteCommand(c.files, pair, swap.OldPath, index.Dependents(pair.OldGUID)).
			WithObserver(c.observer, &done, total).
			Execute(ctx)
		if err != nil {
			return fmt.Errorf("failed to rewrite references to %s: %w", swap.OldPath, err)
		}

		result.Report.Add(swap.OldPath, rewrite.Substitutions)
		notify(c.observer).PairDone(swap.OldPath, rewrite.Substitutions)
		c.logger.Debug("relinked asset",
			zap.String("path", swap.OldPath),
			zap.String("old_guid", pair.OldGUID),
			zap.String("new_guid", pair.NewGUID),
			zap.Int("references", rewrite.Substitutions))
	}

	return nil
}

// release ends the batch scope and refreshes the database, folding any
// cleanup failure into runErr
func (c *RelinkCommand) release(runErr error) error {
	var cleanup *multierror.Error
	if err := c.db.EndBatch(); err != nil {
		cleanup = multierror.Append(cleanup, fmt.Errorf("end batch: %w", err))
	}
	if err := c.db.PersistAll(); err != nil {
		cleanup = multierror.Append(cleanup, fmt.Errorf("persist: %w", err))
	}
	if err := c.db.Reindex(); err != nil {
		cleanup = multierror.Append(cleanup, fmt.Errorf("reindex: %w", err))
	}

	if cleanup.ErrorOrNil() == nil {
		return runErr
	}
	c.logger.Error("failed to release asset database", zap.Error(cleanup))
	if runErr == nil {
		return cleanup
	}
	return multierror.Append(runErr, cleanup.Errors...)
}
