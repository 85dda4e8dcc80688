package ports

import "relinker/internal/domain"

// AssetDatabase is the host's identifier registry.
// Lookups reflect the last reindex: swaps made inside a batch are not
// visible until the batch ends and Reindex runs.
type AssetDatabase interface {
	// Resolve returns the location of guid, or "" when unknown
	Resolve(guid string) (string, error)

	// PathToGUID returns the identifier at location, or "" when unknown
	PathToGUID(location string) (string, error)

	// Enumerate returns identifiers of filter members strictly under any root,
	// ordered by location
	Enumerate(filter *domain.SearchFilter, roots []string) ([]string, error)

	// ForwardDependencies returns the locations location depends on,
	// including itself and transitive dependencies
	ForwardDependencies(location string) ([]string, error)

	// MetaPathFor returns the sidecar location of an asset location
	MetaPathFor(location string) string

	// Batch scope
	BeginBatch() error
	EndBatch() error
	PersistAll() error
	Reindex() error
}
