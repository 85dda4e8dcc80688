package domain

import (
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// MetaExt is the sidecar metadata suffix
const MetaExt = ".meta"

var metaGUIDLine = regexp.MustCompile(`(?m)^guid:[ \t]*([^\s#]+)`)

// MetaPath returns the sidecar location for an asset location
func MetaPath(assetPath string) string {
	return strings.TrimSuffix(assetPath, "/") + MetaExt
}

// IsMetaPath reports whether p is a sidecar file
func IsMetaPath(p string) bool {
	return strings.HasSuffix(strings.ToLower(p), MetaExt)
}

// ParseMetaGUID extracts the identifier recorded in sidecar content.
// Returns "" when the content records none.
func ParseMetaGUID(content string) string {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(content), &doc); err == nil {
		if guid, ok := scalarValue(&doc, "guid"); ok {
			return guid
		}
		return ""
	}

	// Some sidecars carry directives or tags the decoder rejects
	if m := metaGUIDLine.FindStringSubmatch(content); m != nil {
		return m[1]
	}
	return ""
}

// scalarValue returns the scalar value under a top-level mapping key
func scalarValue(doc *yaml.Node, key string) (string, bool) {
	node := doc
	if node.Kind == yaml.DocumentNode {
		if len(node.Content) == 0 {
			return "", false
		}
		node = node.Content[0]
	}
	if node.Kind != yaml.MappingNode {
		return "", false
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		k, v := node.Content[i], node.Content[i+1]
		if k.Value == key && v.Kind == yaml.ScalarNode {
			return v.Value, true
		}
	}
	return "", false
}

// FormatMeta renders a minimal sidecar for an identifier
func FormatMeta(guid string) string {
	return "fileFormatVersion: 2\nguid: " + guid + "\n"
}
