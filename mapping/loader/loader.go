// Package loader reads raw mapping documents from a directory of YAML
// files. It performs structural validation only; inheritance is the
// resolver's concern.
package loader

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/0xalexb/facesheet/mapping"
)

// ErrPathIsFile is returned when the configured documents path points to a
// file instead of a directory.
var ErrPathIsFile = errors.New("path is a file, not a directory")

// ErrDuplicateDocument is returned by Load when two files declare the same
// document name.
var ErrDuplicateDocument = errors.New("duplicate document name")

// Loader reads mapping documents from a directory. The directory is
// scanned at construction time and the parsed documents cached; mapping
// configuration is not hot-reloaded within a process lifetime.
type Loader struct {
	dir  string
	docs map[string]mapping.RawDocument
}

// New returns a constructor function that creates a Loader for the given
// directory, reading and validating every .yaml/.yml file in it. The
// constructor-returning shape lets the DI container decide when the read
// happens. Unreadable or structurally invalid files are logged and
// skipped, not fatal: one broken tenant document must not take down
// every other tenant's configuration.
func New(dir string) func() (*Loader, error) {
	return func() (*Loader, error) {
		cleanDir := filepath.Clean(dir)

		stat, err := os.Stat(cleanDir)
		if err != nil {
			return nil, fmt.Errorf("stat documents dir %q: %w", cleanDir, err)
		}

		if !stat.IsDir() {
			return nil, fmt.Errorf("path %q: %w", cleanDir, ErrPathIsFile)
		}

		entries, err := os.ReadDir(cleanDir)
		if err != nil {
			return nil, fmt.Errorf("reading documents dir %q: %w", cleanDir, err)
		}

		docs := make(map[string]mapping.RawDocument)

		for _, entry := range entries {
			if entry.IsDir() || !isYAML(entry.Name()) {
				continue
			}

			path := filepath.Join(cleanDir, entry.Name())

			doc, err := readDocument(path)
			if err != nil {
				slog.Warn("loader: skipping document", "path", path, "error", err)

				continue
			}

			if _, exists := docs[doc.Name]; exists {
				return nil, fmt.Errorf("file %q: %w: %q", path, ErrDuplicateDocument, doc.Name)
			}

			docs[doc.Name] = doc
		}

		slog.Info("loader: mapping documents loaded", "dir", cleanDir, "count", len(docs))

		return &Loader{dir: cleanDir, docs: docs}, nil
	}
}

// Documents returns the loaded raw documents keyed by name. The returned
// map is a copy; the cached set is never exposed for mutation.
func (l *Loader) Documents() map[string]mapping.RawDocument {
	out := make(map[string]mapping.RawDocument, len(l.docs))

	for name, doc := range l.docs {
		out[name] = doc
	}

	return out
}

func isYAML(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))

	return ext == ".yaml" || ext == ".yml"
}

func readDocument(path string) (mapping.RawDocument, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from a directory scan of the configured dir
	if err != nil {
		return mapping.RawDocument{}, fmt.Errorf("reading file: %w", err)
	}

	var doc mapping.RawDocument

	err = yaml.Unmarshal(data, &doc)
	if err != nil {
		return mapping.RawDocument{}, fmt.Errorf("unmarshal error: %w", err)
	}

	err = doc.Validate()
	if err != nil {
		return mapping.RawDocument{}, fmt.Errorf("invalid document: %w", err)
	}

	return doc, nil
}
