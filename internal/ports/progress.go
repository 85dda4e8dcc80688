package ports

// ProgressObserver receives advisory progress. Implementations must not
// affect the run; a nil observer is allowed everywhere one is accepted.
type ProgressObserver interface {
	// Scanned is called after each corpus asset is scanned for dependencies
	Scanned(location string, done, total int)

	// Rewriting is called before each dependent of a relinked asset is inspected
	Rewriting(assetPath, dependent string, done, total int)

	// PairDone is called after an asset has been swapped and its dependents rewritten
	PairDone(assetPath string, substitutions int)
}
