// Package resume loads the owner-authored résumé document from disk and keeps
// it cached until the file's modification time changes.
package resume

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Document is an untyped tree of maps, lists and scalars. Its schema belongs
// to whoever writes the file, so it is passed through as is.
type Document = any

// Loader memoizes the parsed document keyed by the file's mtime
type Loader struct {
	path string

	mu      sync.Mutex
	cached  Document
	mtime   time.Time
	present bool
}

// NewLoader creates a loader for the given file. YAML is used for .yaml and
// .yml, JSON for everything else.
func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Load returns the current document. A missing file yields an empty object;
// a malformed file yields an error.
func (l *Loader) Load() (Document, error) {
	info, err := os.Stat(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			l.mu.Lock()
			l.cached = nil
			l.present = false
			l.mu.Unlock()
			return map[string]any{}, nil
		}
		return nil, fmt.Errorf("failed to stat resume %s: %w", l.path, err)
	}
	mtime := info.ModTime()

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.present && l.mtime.Equal(mtime) {
		return l.cached, nil
	}

	raw, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read resume %s: %w", l.path, err)
	}
	doc, err := parse(l.path, raw)
	if err != nil {
		return nil, err
	}

	l.cached = doc
	l.mtime = mtime
	l.present = true
	return doc, nil
}

func parse(path string, raw []byte) (Document, error) {
	var doc any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse resume %s: %w", path, err)
		}
		doc = stringKeys(doc)
	default:
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse resume %s: %w", path, err)
		}
	}
	if doc == nil {
		return map[string]any{}, nil
	}
	return doc, nil
}

// stringKeys rewrites YAML mappings with non-string keys (years, say) into
// map[string]any so the document stays JSON-encodable.
func stringKeys(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, child := range t {
			t[k] = stringKeys(child)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, child := range t {
			out[fmt.Sprint(k)] = stringKeys(child)
		}
		return out
	case []any:
		for i, child := range t {
			t[i] = stringKeys(child)
		}
		return t
	default:
		return v
	}
}
