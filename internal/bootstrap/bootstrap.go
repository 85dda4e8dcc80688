// Package bootstrap wires the adapters shared by every front end.
package bootstrap

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"relinker/internal/adapters/filesystem"
	"relinker/internal/adapters/sqlite"
	"relinker/internal/application/commands"
	"relinker/internal/config"
)

// Env holds the opened adapters for one project
type Env struct {
	Config *config.Config
	Logger *zap.Logger
	Index  *sqlite.Index
	DB     *sqlite.AssetDatabase
	Files  *filesystem.Store
	Runner *commands.Runner
}

// Open opens the asset index of cfg.ProjectPath and builds a runner over it.
// The index is not synced; call Sync before relying on it.
func Open(cfg *config.Config, logger *zap.Logger) (*Env, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	filter, err := cfg.SearchFilter()
	if err != nil {
		return nil, err
	}

	index := sqlite.NewIndex(cfg.AssetsRoot)
	if err := index.Open(cfg.ProjectPath); err != nil {
		return nil, err
	}

	db, err := sqlite.NewAssetDatabase(index, logger.Named("index"))
	if err != nil {
		_ = index.Close()
		return nil, err
	}

	files := filesystem.NewStore(index.ProjectPath())
	runner := commands.NewRunner(db, files, filter, cfg.SourceGUID, cfg.ReferenceGUID, cfg.AssetsRoot).
		WithLogger(logger)

	logger.Debug("project opened",
		zap.String("project", index.ProjectPath()),
		zap.String("index", index.DBPath()))

	return &Env{
		Config: cfg,
		Logger: logger,
		Index:  index,
		DB:     db,
		Files:  files,
		Runner: runner,
	}, nil
}

// Sync brings the index up to date with the project
func (e *Env) Sync() error {
	if err := e.DB.Reindex(); err != nil {
		return fmt.Errorf("failed to index %s: %w", e.Index.ProjectPath(), err)
	}
	return nil
}

// Close closes the index and flushes the logger
func (e *Env) Close() error {
	var result *multierror.Error
	if err := e.Index.Close(); err != nil {
		result = multierror.Append(result, err)
	}
	// Sync fails on terminals; only the index error matters
	_ = e.Logger.Sync()
	return result.ErrorOrNil()
}
