package commands

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"relinker/internal/application"
	"relinker/internal/domain"
	"relinker/internal/ports"
)

// MatchCommand pairs source tree assets with their reference tree
// counterparts by relative path
type MatchCommand struct {
	db                ports.AssetDatabase
	filter            *domain.SearchFilter
	logger            *zap.Logger
	SourceRootGUID    string
	ReferenceRootGUID string
}

// NewMatchCommand creates a new MatchCommand
func NewMatchCommand(db ports.AssetDatabase, filter *domain.SearchFilter, sourceRootGUID, referenceRootGUID string) *MatchCommand {
	return &MatchCommand{
		db:                db,
		filter:            filter,
		logger:            zap.NewNop(),
		SourceRootGUID:    sourceRootGUID,
		ReferenceRootGUID: referenceRootGUID,
	}
}

// WithLogger sets the logger
func (c *MatchCommand) WithLogger(logger *zap.Logger) *MatchCommand {
	if logger != nil {
		c.logger = logger
	}
	return c
}

// Validate checks the configured roots
func (c *MatchCommand) Validate() error {
	return application.ValidateDistinctRoots(c.SourceRootGUID, c.ReferenceRootGUID)
}

// Execute resolves both roots and matches their members
func (c *MatchCommand) Execute(ctx context.Context) (*domain.MatchResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	source, err := c.resolveRoot("source", c.SourceRootGUID)
	if err != nil {
		return nil, err
	}
	reference, err := c.resolveRoot("reference", c.ReferenceRootGUID)
	if err != nil {
		return nil, err
	}

	c.logger.Info("matching trees",
		zap.String("source", source.RootPath),
		zap.String("reference", reference.RootPath))

	referenceIDs, err := c.members(reference, source)
	if err != nil {
		return nil, err
	}
	sourceIDs, err := c.members(source, reference)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Relative path -> reference identifier, first match wins
	counterparts := make(map[string]string, len(referenceIDs))
	for _, id := range referenceIDs {
		p, err := c.db.Resolve(id)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", id, err)
		}
		rel := reference.RelativePath(p)
		if _, dup := counterparts[rel]; !dup {
			counterparts[rel] = id
		}
	}

	result := &domain.MatchResult{
		Source:     source,
		Reference:  reference,
		Enumerated: len(sourceIDs),
	}
	for _, id := range sourceIDs {
		p, err := c.db.Resolve(id)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", id, err)
		}
		rel := source.RelativePath(p)
		newID, ok := counterparts[rel]
		if !ok {
			continue
		}
		result.Pairs = append(result.Pairs, domain.MatchedPair{
			OldGUID:      id,
			NewGUID:      newID,
			RelativePath: rel,
		})
	}
	result.Dropped = result.Enumerated - result.Matched()

	c.logger.Info(fmt.Sprintf("Ready to update %d/%d", result.Matched(), result.Enumerated),
		zap.Int("dropped", result.Dropped))

	return result, nil
}

func (c *MatchCommand) resolveRoot(role, guid string) (domain.AssetTree, error) {
	p, err := c.db.Resolve(guid)
	if err != nil {
		return domain.AssetTree{}, fmt.Errorf("failed to resolve %s root: %w", role, err)
	}
	if p == "" {
		return domain.AssetTree{}, &application.RootError{Role: role, GUID: guid}
	}
	return domain.AssetTree{RootGUID: guid, RootPath: p}, nil
}

// members returns the root identifier followed by the filter members of
// tree, leaving out anything that lies inside other
func (c *MatchCommand) members(tree, other domain.AssetTree) ([]string, error) {
	ids, err := c.db.Enumerate(c.filter, []string{tree.RootPath})
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate %s: %w", tree.RootPath, err)
	}

	members := make([]string, 0, len(ids)+1)
	members = append(members, tree.RootGUID)
	for _, id := range ids {
		if id == tree.RootGUID {
			continue
		}
		if !tree.Contains(other.RootPath) {
			members = append(members, id)
			continue
		}
		// other is nested inside tree
		p, err := c.db.Resolve(id)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", id, err)
		}
		if p == other.RootPath || other.Contains(p) {
			continue
		}
		members = append(members, id)
	}
	return members, nil
}
