package domain

// ReverseIndex maps a tracked identifier to the locations that depend on it.
// Only identifiers registered with Track accept dependents. Dependents keep
// their insertion order.
type ReverseIndex struct {
	dependents map[string][]string
	seen       map[string]map[string]struct{}

	// ReferencesCount counts recorded dependency edges. Progress only.
	ReferencesCount int
}

// NewReverseIndex creates an index tracking the given identifiers
func NewReverseIndex(guids []string) *ReverseIndex {
	idx := &ReverseIndex{
		dependents: make(map[string][]string, len(guids)),
		seen:       make(map[string]map[string]struct{}, len(guids)),
	}
	for _, g := range guids {
		idx.Track(g)
	}
	return idx
}

// Track registers an identifier as a key
func (r *ReverseIndex) Track(guid string) {
	if _, ok := r.seen[guid]; ok {
		return
	}
	r.seen[guid] = make(map[string]struct{})
	r.dependents[guid] = nil
}

// Tracks reports whether guid is a key
func (r *ReverseIndex) Tracks(guid string) bool {
	_, ok := r.seen[guid]
	return ok
}

// Add records location as a dependent of guid. Returns false when guid is
// untracked or the location was already recorded.
func (r *ReverseIndex) Add(guid, location string) bool {
	set, ok := r.seen[guid]
	if !ok {
		return false
	}
	if _, dup := set[location]; dup {
		return false
	}
	set[location] = struct{}{}
	r.dependents[guid] = append(r.dependents[guid], location)
	return true
}

// Dependents returns the dependent locations of guid
func (r *ReverseIndex) Dependents(guid string) []string {
	return r.dependents[guid]
}

// Keys returns the number of tracked identifiers
func (r *ReverseIndex) Keys() int {
	return len(r.seen)
}
