package filesystem

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"relinker/internal/ports"
)

// Store implements ports.FileStore over a project directory. Locations are
// project-relative and use forward slashes.
type Store struct {
	projectPath string
}

// Ensure Store implements FileStore
var _ ports.FileStore = (*Store)(nil)

// NewStore creates a new filesystem store rooted at projectPath
func NewStore(projectPath string) *Store {
	return &Store{projectPath: ExpandPath(projectPath)}
}

// ExpandPath expands a leading ~ to the home directory
func ExpandPath(p string) string {
	if strings.HasPrefix(p, "~") {
		home, _ := os.UserHomeDir()
		p = filepath.Join(home, p[1:])
	}
	return p
}

// ProjectPath returns the project directory
func (s *Store) ProjectPath() string {
	return s.projectPath
}

// Abs returns the absolute path of a location
func (s *Store) Abs(location string) string {
	return filepath.Join(s.projectPath, filepath.FromSlash(location))
}

// Read returns the content of location
func (s *Store) Read(location string) (string, error) {
	data, err := os.ReadFile(s.Abs(location))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Write replaces the content of location, keeping its permissions
func (s *Store) Write(location, content string) error {
	full := s.Abs(location)

	mode := os.FileMode(0644)
	if info, err := os.Stat(full); err == nil {
		if info.IsDir() {
			return fmt.Errorf("write %s: is a directory", location)
		}
		mode = info.Mode().Perm()
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}

	return os.WriteFile(full, []byte(content), mode)
}

// Exists reports whether location exists
func (s *Store) Exists(location string) bool {
	_, err := os.Stat(s.Abs(location))
	return err == nil
}

// IsDir reports whether location is a directory
func (s *Store) IsDir(location string) bool {
	info, err := os.Stat(s.Abs(location))
	return err == nil && info.IsDir()
}

// IsHidden reports whether location carries the hidden attribute
func (s *Store) IsHidden(location string) (bool, error) {
	return isHidden(s.Abs(location))
}

// SetHidden sets or clears the hidden attribute of location
func (s *Store) SetHidden(location string, hidden bool) error {
	return setHidden(s.Abs(location), hidden)
}
