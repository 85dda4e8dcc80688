package domain

import (
	"fmt"
	"path"
	"strings"

	"github.com/gobwas/glob"
)

// SearchFilter is the corpus membership predicate.
//
// Syntax (space separated terms):
//
//	t:Material        asset type, any t: term may match
//	glob:Assets/**.mat path glob, any glob: term may match
//	rock              name term, every name term must be in the file name
//
// An empty filter matches everything.
type SearchFilter struct {
	raw   string
	types []string
	globs []glob.Glob
	names []string
}

// ParseSearchFilter compiles a filter expression
func ParseSearchFilter(expr string) (*SearchFilter, error) {
	f := &SearchFilter{raw: strings.TrimSpace(expr)}
	for _, term := range strings.Fields(expr) {
		switch {
		case strings.HasPrefix(term, "t:"):
			if t := strings.TrimPrefix(term, "t:"); t != "" {
				f.types = append(f.types, t)
			}
		case strings.HasPrefix(term, "glob:"):
			g, err := glob.Compile(strings.TrimPrefix(term, "glob:"), '/')
			if err != nil {
				return nil, fmt.Errorf("invalid glob %q: %w", term, err)
			}
			f.globs = append(f.globs, g)
		default:
			f.names = append(f.names, strings.ToLower(term))
		}
	}
	return f, nil
}

// MustParseSearchFilter is like ParseSearchFilter but panics on error
func MustParseSearchFilter(expr string) *SearchFilter {
	f, err := ParseSearchFilter(expr)
	if err != nil {
		panic(err)
	}
	return f
}

// String returns the original expression
func (f *SearchFilter) String() string {
	if f == nil {
		return ""
	}
	return f.raw
}

// Matches reports whether the asset at p is a corpus member
func (f *SearchFilter) Matches(p string, isDir bool) bool {
	if f == nil {
		return true
	}

	if len(f.types) > 0 {
		ok := false
		for _, t := range f.types {
			if IsA(p, isDir, t) {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}

	if len(f.globs) > 0 {
		ok := false
		for _, g := range f.globs {
			if g.Match(p) {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}

	name := strings.ToLower(path.Base(p))
	for _, n := range f.names {
		if !strings.Contains(name, n) {
			return false
		}
	}

	return true
}
