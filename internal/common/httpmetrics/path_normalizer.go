package httpmetrics

import (
	"regexp"
	"strings"
)

var uuidRegex = regexp.MustCompile(`[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`)

var knownSurfaces = map[string]struct{}{
	"admin":   {},
	"user":    {},
	"public":  {},
	"weather": {},
	"metrics": {},
}

// NormalizePath collapses identifiers so that metric label cardinality stays
// bounded.
func NormalizePath(path string) string {
	if path == "" {
		return "/"
	}

	normalized := uuidRegex.ReplaceAllString(path, "{id}")

	parts := strings.Split(normalized, "/")
	for i, part := range parts {
		if part != "" && part != "{id}" && isNumeric(part) {
			parts[i] = "{param}"
		}
	}

	result := strings.Join(parts, "/")
	if result == "" {
		return "/"
	}

	return result
}

// Surface returns the first path segment when it names one of the API
// surfaces, and "other" otherwise.
func Surface(path string) string {
	seg := strings.TrimPrefix(path, "/")
	if idx := strings.IndexByte(seg, '/'); idx != -1 {
		seg = seg[:idx]
	}
	if _, ok := knownSurfaces[seg]; ok {
		return seg
	}
	return "other"
}

func isNumeric(s string) bool {
	if len(s) == 0 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
