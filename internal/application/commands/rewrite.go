package commands

import (
	"context"
	"fmt"
	"strings"

	"relinker/internal/domain"
	"relinker/internal/ports"
)

// RewriteResult contains the substitutions made for one relinked asset
type RewriteResult struct {
	AssetPath     string
	Substitutions int
	Rewritten     []string
}

// RewriteCommand replaces the old identifier with the new one in every
// dependent of a swapped asset
type RewriteCommand struct {
	files      ports.FileStore
	observer   ports.ProgressObserver
	Pair       domain.MatchedPair
	AssetPath  string   // Location of the swapped asset
	Dependents []string // Reverse dependencies of Pair.OldGUID
	progress   *int
	total      int
}

// NewRewriteCommand creates a new RewriteCommand
func NewRewriteCommand(files ports.FileStore, pair domain.MatchedPair, assetPath string, dependents []string) *RewriteCommand {
	return &RewriteCommand{
		files:      files,
		Pair:       pair,
		AssetPath:  assetPath,
		Dependents: dependents,
	}
}

// WithObserver sets the progress observer. done is shared across pairs so
// progress runs over the whole reference count.
func (c *RewriteCommand) WithObserver(o ports.ProgressObserver, done *int, total int) *RewriteCommand {
	c.observer = o
	c.progress = done
	c.total = total
	return c
}

// Execute rewrites dependents. Directory assets are never referenced by
// content and record zero substitutions.
func (c *RewriteCommand) Execute(_ context.Context) (*RewriteResult, error) {
	result := &RewriteResult{AssetPath: c.AssetPath}
	if c.files.IsDir(c.AssetPath) {
		return result, nil
	}

	var local int
	done := c.progress
	if done == nil {
		done = &local
	}
	total := c.total
	if total == 0 {
		total = len(c.Dependents)
	}

	for _, dep := range c.Dependents {
		*done++
		notify(c.observer).Rewriting(c.AssetPath, dep, *done, total)

		if c.files.IsDir(dep) {
			continue
		}

		content, err := c.files.Read(dep)
		if err != nil {
			return result, fmt.Errorf("failed to read %s: %w", dep, err)
		}
		if !strings.Contains(content, c.Pair.OldGUID) {
			continue
		}

		content = strings.ReplaceAll(content, c.Pair.OldGUID, c.Pair.NewGUID)
		if err := c.files.Write(dep, content); err != nil {
			return result, fmt.Errorf("failed to write %s: %w", dep, err)
		}
		result.Substitutions++
		result.Rewritten = append(result.Rewritten, dep)
	}

	return result, nil
}
