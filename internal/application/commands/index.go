package commands

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"relinker/internal/domain"
	"relinker/internal/ports"
)

// BuildReverseIndexCommand scans the corpus and records, for every tracked
// identifier, the locations whose forward dependencies include it
type BuildReverseIndexCommand struct {
	db       ports.AssetDatabase
	files    ports.FileStore
	filter   *domain.SearchFilter
	observer ports.ProgressObserver
	logger   *zap.Logger
	Roots    []string // Corpus roots (the global assets root)
	Tracked  []string // Identifiers to index
}

// NewBuildReverseIndexCommand creates a new BuildReverseIndexCommand
func NewBuildReverseIndexCommand(db ports.AssetDatabase, files ports.FileStore, filter *domain.SearchFilter, roots, tracked []string) *BuildReverseIndexCommand {
	return &BuildReverseIndexCommand{
		db:      db,
		files:   files,
		filter:  filter,
		logger:  zap.NewNop(),
		Roots:   roots,
		Tracked: tracked,
	}
}

// WithObserver sets the progress observer
func (c *BuildReverseIndexCommand) WithObserver(o ports.ProgressObserver) *BuildReverseIndexCommand {
	c.observer = o
	return c
}

// WithLogger sets the logger
func (c *BuildReverseIndexCommand) WithLogger(logger *zap.Logger) *BuildReverseIndexCommand {
	if logger != nil {
		c.logger = logger
	}
	return c
}

// Execute builds the reverse index. The scan is read-only, so ctx is honored
// between assets.
func (c *BuildReverseIndexCommand) Execute(ctx context.Context) (*domain.ReverseIndex, error) {
	index := domain.NewReverseIndex(c.Tracked)

	corpus, err := c.db.Enumerate(c.filter, c.Roots)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate corpus: %w", err)
	}

	for i, guid := range corpus {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		location, err := c.db.Resolve(guid)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", guid, err)
		}
		notify(c.observer).Scanned(location, i+1, len(corpus))
		if location == "" || c.files.IsDir(location) {
			continue
		}

		deps, err := c.db.ForwardDependencies(location)
		if err != nil {
			return nil, fmt.Errorf("failed to list dependencies of %s: %w", location, err)
		}
		for _, dep := range deps {
			depGUID, err := c.db.PathToGUID(dep)
			if err != nil {
				return nil, fmt.Errorf("failed to look up %s: %w", dep, err)
			}
			if !index.Tracks(depGUID) {
				continue
			}
			index.Add(depGUID, location)
			// Sidecars can embed references too (external material remaps)
			index.Add(depGUID, c.db.MetaPathFor(location))
			index.ReferencesCount++
		}
	}

	c.logger.Info("scanned guid references",
		zap.Int("assets", len(corpus)),
		zap.Int("tracked", index.Keys()),
		zap.Int("references", index.ReferencesCount))

	return index, nil
}
