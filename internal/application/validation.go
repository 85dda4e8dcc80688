package application

import (
	"fmt"
	"strings"
)

// ValidateRequired checks if a string field is non-empty (after trimming whitespace).
// Returns a ValidationError if the field is empty.
func ValidateRequired(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		displayName := formatFieldName(fieldName)
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s is required", displayName),
		}
	}
	return nil
}

// ValidateDistinctRoots checks that the source and reference roots differ
func ValidateDistinctRoots(sourceGUID, referenceGUID string) error {
	if err := ValidateRequired("sourceGUID", sourceGUID); err != nil {
		return err
	}
	if err := ValidateRequired("referenceGUID", referenceGUID); err != nil {
		return err
	}
	if strings.TrimSpace(sourceGUID) == strings.TrimSpace(referenceGUID) {
		return &ValidationError{
			Field:   "referenceGUID",
			Message: "reference root must differ from source root",
		}
	}
	return nil
}

// formatFieldName converts camelCase field names to space-separated words
// for more readable error messages (e.g., "sourceGUID" -> "source GUID")
func formatFieldName(fieldName string) string {
	replacements := map[string]string{
		"sourceGUID":    "source GUID",
		"referenceGUID": "reference GUID",
		"guid":          "GUID",
		"path":          "path",
	}

	if formatted, ok := replacements[fieldName]; ok {
		return formatted
	}

	return fieldName
}
