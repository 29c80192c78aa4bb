// Package projection projects a loosely-typed source record onto a
// resolved mapping document: path-based value extraction, per-format
// display rendering, and reduced-mode filtering.
package projection

import (
	"strconv"
	"strings"
)

// Extract walks a source path through a nested record and returns the raw
// value, reporting ok=false when any segment is missing or of an
// unexpected shape. Paths support dot-separated nesting and a bracketed
// array index per segment, e.g. "enrollment.terms[0].startDate". Extract
// is total: partial records are routine and never an error.
func Extract(rec map[string]any, path string) (any, bool) {
	if path == "" {
		return nil, false
	}

	var current any = rec

	for _, segment := range strings.Split(path, ".") {
		name, index, indexed, ok := parseSegment(segment)
		if !ok {
			return nil, false
		}

		obj, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}

		value, ok := obj[name]
		if !ok {
			return nil, false
		}

		if indexed {
			seq, ok := value.([]any)
			if !ok || index < 0 || index >= len(seq) {
				return nil, false
			}

			value = seq[index]
		}

		current = value
	}

	return current, true
}

// parseSegment splits one path segment into its key name and optional
// bracketed index. Malformed brackets make the segment unresolvable.
func parseSegment(segment string) (name string, index int, indexed bool, ok bool) {
	open := strings.IndexByte(segment, '[')
	if open < 0 {
		return segment, 0, false, segment != ""
	}

	if open == 0 || !strings.HasSuffix(segment, "]") {
		return "", 0, false, false
	}

	idx, err := strconv.Atoi(segment[open+1 : len(segment)-1])
	if err != nil {
		return "", 0, false, false
	}

	return segment[:open], idx, true, true
}
