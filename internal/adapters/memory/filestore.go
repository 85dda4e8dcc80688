// Package memory provides in-process adapters for the relink ports. They back
// the command tests and the dry-run paths that must not touch a project.
package memory

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"relinker/internal/domain"
)

// FileStore implements ports.FileStore over a map of locations
type FileStore struct {
	mu       sync.RWMutex
	files    map[string]string
	dirs     map[string]bool
	hidden   map[string]bool
	failures map[string]error
	writes   []string
}

// NewFileStore creates an empty store
func NewFileStore() *FileStore {
	return &FileStore{
		files:    make(map[string]string),
		dirs:     make(map[string]bool),
		hidden:   make(map[string]bool),
		failures: make(map[string]error),
	}
}

// Read returns the content at location
func (s *FileStore) Read(location string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.failures[location]; err != nil {
		return "", err
	}
	content, ok := s.files[location]
	if !ok {
		return "", fmt.Errorf("read %s: %w", location, os.ErrNotExist)
	}
	return content, nil
}

// Write replaces the content at location
func (s *FileStore) Write(location, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.failures[location]; err != nil {
		return err
	}
	if s.dirs[location] {
		return fmt.Errorf("write %s: is a directory", location)
	}
	if s.hidden[location] {
		return fmt.Errorf("write %s: %w", location, os.ErrPermission)
	}
	s.files[location] = content
	s.writes = append(s.writes, location)
	return nil
}

// Exists reports whether location is a file or directory
func (s *FileStore) Exists(location string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.files[location]
	return ok || s.dirs[location]
}

// IsDir reports whether location is a directory
func (s *FileStore) IsDir(location string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dirs[location]
}

// IsHidden reports the hidden attribute of location
func (s *FileStore) IsHidden(location string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hidden[location], nil
}

// SetHidden sets the hidden attribute of location. Hidden files reject writes,
// mirroring hosts where the attribute blocks opening for write.
func (s *FileStore) SetHidden(location string, hidden bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if hidden {
		s.hidden[location] = true
	} else {
		delete(s.hidden, location)
	}
	return nil
}

// Put stores content at location
func (s *FileStore) Put(location, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[location] = content
}

// Mkdir registers location as a directory
func (s *FileStore) Mkdir(location string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dirs[location] = true
}

// Remove deletes a file
func (s *FileStore) Remove(location string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, location)
	delete(s.hidden, location)
}

// PutAsset stores an asset file with a sidecar recording guid
func (s *FileStore) PutAsset(location, guid, content string) {
	s.Put(location, content)
	s.Put(domain.MetaPath(location), domain.FormatMeta(guid))
}

// PutFolder registers a directory asset with a sidecar recording guid
func (s *FileStore) PutFolder(location, guid string) {
	s.Mkdir(location)
	s.Put(domain.MetaPath(location), domain.FormatMeta(guid))
}

// Fail makes every read and write of location return err. A nil err clears it.
func (s *FileStore) Fail(location string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failures, location)
		return
	}
	s.failures[location] = err
}

// Content returns the content at location, or "" when absent
func (s *FileStore) Content(location string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.files[location]
}

// Writes returns every written location in write order
func (s *FileStore) Writes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.writes...)
}

// Files returns every file location, sorted
func (s *FileStore) Files() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.files))
	for p := range s.files {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Snapshot copies every file whose location has prefix
func (s *FileStore) Snapshot(prefix string) map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string)
	for p, c := range s.files {
		if strings.HasPrefix(p, prefix) {
			out[p] = c
		}
	}
	return out
}
