package domain

import (
	"fmt"
	"strings"
)

// ReportEntry records the substitutions made for one relinked asset
type ReportEntry struct {
	Path          string // Final location of the relinked asset
	Substitutions int    // Dependent files rewritten; 0 for directories
}

// UpdateReport aggregates per-asset results in processing order
type UpdateReport struct {
	Entries []ReportEntry
}

// Add appends an entry
func (r *UpdateReport) Add(path string, substitutions int) {
	r.Entries = append(r.Entries, ReportEntry{Path: path, Substitutions: substitutions})
}

// Updated returns the number of relinked assets
func (r *UpdateReport) Updated() int {
	return len(r.Entries)
}

// TotalSubstitutions sums substitutions over every entry
func (r *UpdateReport) TotalSubstitutions() int {
	total := 0
	for _, e := range r.Entries {
		total += e.Substitutions
	}
	return total
}

// Summary returns the one-line terminal summary
func (r *UpdateReport) Summary() string {
	return fmt.Sprintf("Updated GUID for %d assets (%d references rewritten).", r.Updated(), r.TotalSubstitutions())
}

// Format renders the detailed report
func (r *UpdateReport) Format(version string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "GUID Relinker %s\n", version)
	if r.Updated() > 0 {
		fmt.Fprintf(&b, "%d Updated Asset/s\n", r.Updated())
	}
	for _, e := range r.Entries {
		fmt.Fprintf(&b, "%d references\t%s\n", e.Substitutions, e.Path)
	}
	return b.String()
}
