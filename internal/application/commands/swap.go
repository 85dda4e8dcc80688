package commands

import (
	"context"
	"fmt"
	"strings"

	"relinker/internal/application"
	"relinker/internal/domain"
	"relinker/internal/ports"
)

// SwapResult contains the locations touched by a swap
type SwapResult struct {
	Pair        domain.MatchedPair
	OldPath     string
	NewPath     string
	OldMetaPath string
	NewMetaPath string
}

// SwapCommand exchanges the identifiers of a matched pair in both sidecars.
// The old asset adopts the new identifier and the new asset adopts the old
// one, so two live assets never share an identifier.
type SwapCommand struct {
	db    ports.AssetDatabase
	files ports.FileStore
	Pair  domain.MatchedPair
}

// NewSwapCommand creates a new SwapCommand
func NewSwapCommand(db ports.AssetDatabase, files ports.FileStore, pair domain.MatchedPair) *SwapCommand {
	return &SwapCommand{db: db, files: files, Pair: pair}
}

// Validate checks the pair
func (c *SwapCommand) Validate() error {
	if err := application.ValidateRequired("guid", c.Pair.OldGUID); err != nil {
		return err
	}
	if err := application.ValidateRequired("guid", c.Pair.NewGUID); err != nil {
		return err
	}
	if c.Pair.OldGUID == c.Pair.NewGUID {
		return &application.ValidationError{
			Field:   "guid",
			Message: fmt.Sprintf("pair maps %s onto itself", c.Pair.OldGUID),
		}
	}
	return nil
}

// Execute checks both sidecars before writing either, then rewrites them
func (c *SwapCommand) Execute(_ context.Context) (*SwapResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	oldSide, err := c.load(c.Pair.OldGUID)
	if err != nil {
		return nil, err
	}
	newSide, err := c.load(c.Pair.NewGUID)
	if err != nil {
		return nil, err
	}

	if err := c.writeMeta(oldSide.metaPath, strings.ReplaceAll(oldSide.content, c.Pair.OldGUID, c.Pair.NewGUID)); err != nil {
		return nil, fmt.Errorf("failed to update %s: %w", oldSide.metaPath, err)
	}
	if err := c.writeMeta(newSide.metaPath, strings.ReplaceAll(newSide.content, c.Pair.NewGUID, c.Pair.OldGUID)); err != nil {
		return nil, fmt.Errorf("failed to update %s: %w", newSide.metaPath, err)
	}

	return &SwapResult{
		Pair:        c.Pair,
		OldPath:     oldSide.assetPath,
		NewPath:     newSide.assetPath,
		OldMetaPath: oldSide.metaPath,
		NewMetaPath: newSide.metaPath,
	}, nil
}

type sidecar struct {
	assetPath string
	metaPath  string
	content   string
}

// load resolves guid to its sidecar and checks that it records guid
func (c *SwapCommand) load(guid string) (*sidecar, error) {
	assetPath, err := c.db.Resolve(guid)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", guid, err)
	}
	if assetPath == "" {
		return nil, &application.MetadataError{Kind: application.MetadataMissingKind, GUID: guid}
	}

	metaPath := c.db.MetaPathFor(assetPath)
	if !c.files.Exists(metaPath) {
		return nil, &application.MetadataError{
			Kind:      application.MetadataMissingKind,
			GUID:      guid,
			AssetPath: assetPath,
			MetaPath:  metaPath,
		}
	}

	content, err := c.files.Read(metaPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", metaPath, err)
	}
	if !strings.Contains(content, guid) {
		return nil, &application.MetadataError{
			Kind:      application.MetadataMismatchKind,
			GUID:      guid,
			AssetPath: assetPath,
			MetaPath:  metaPath,
		}
	}

	return &sidecar{assetPath: assetPath, metaPath: metaPath, content: content}, nil
}

// writeMeta writes a sidecar, clearing the hidden attribute for the write
// and restoring it whatever the outcome
func (c *SwapCommand) writeMeta(metaPath, content string) (err error) {
	hidden, err := c.files.IsHidden(metaPath)
	if err != nil {
		return err
	}
	if hidden {
		if err := c.files.SetHidden(metaPath, false); err != nil {
			return err
		}
		defer func() {
			if herr := c.files.SetHidden(metaPath, true); herr != nil && err == nil {
				err = herr
			}
		}()
	}
	return c.files.Write(metaPath, content)
}
