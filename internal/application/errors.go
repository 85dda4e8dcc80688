package application

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions
var (
	ErrInvalidOperation = errors.New("invalid operation")
	ErrRootNotFound     = errors.New("root not found")
	ErrMetadataMissing  = errors.New("metadata missing")
	ErrMetadataMismatch = errors.New("metadata mismatch")
)

// ValidationError represents a validation failure with details
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidOperation
}

// RootError reports a tree root identifier that resolves to no location
type RootError struct {
	Role string // "source" or "reference"
	GUID string
}

func (e *RootError) Error() string {
	return fmt.Sprintf("failed to find %s root %s", e.Role, e.GUID)
}

func (e *RootError) Is(target error) bool {
	return target == ErrRootNotFound
}

// MetadataKind distinguishes sidecar failures
type MetadataKind int

const (
	MetadataMissingKind MetadataKind = iota
	MetadataMismatchKind
)

// MetadataError reports a sidecar that is absent or does not record the
// identifier of its asset
type MetadataError struct {
	Kind      MetadataKind
	GUID      string
	AssetPath string
	MetaPath  string
}

func (e *MetadataError) Error() string {
	if e.Kind == MetadataMismatchKind {
		return fmt.Sprintf("the GUID of [%s] does not match the GUID in its meta file %s (expected %s)", e.AssetPath, e.MetaPath, e.GUID)
	}
	return fmt.Sprintf("the meta file of asset %s cannot be found (guid %s, meta %s)", e.AssetPath, e.GUID, e.MetaPath)
}

func (e *MetadataError) Is(target error) bool {
	switch e.Kind {
	case MetadataMismatchKind:
		return target == ErrMetadataMismatch
	default:
		return target == ErrMetadataMissing
	}
}
