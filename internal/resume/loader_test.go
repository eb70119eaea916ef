package resume

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string, mtime time.Time) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	require.NoError(t, os.Chtimes(path, mtime, mtime))
}

func TestLoadMissingFileIsEmpty(t *testing.T) {
	l := NewLoader(filepath.Join(t.TempDir(), "resume.yaml"))

	doc, err := l.Load()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{}, doc)
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume.yaml")
	writeFile(t, path, "name: Mikhail\nskills:\n  - ros\n  - go\n", time.Now())

	doc, err := NewLoader(path).Load()
	require.NoError(t, err)

	m, ok := doc.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Mikhail", m["name"])
	assert.Equal(t, []any{"ros", "go"}, m["skills"])
}

func TestLoadYAMLNonStringKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume.yml")
	writeFile(t, path, "history:\n  2021: drones\n  2023: robots\n", time.Now())

	doc, err := NewLoader(path).Load()
	require.NoError(t, err)

	_, err = json.Marshal(doc)
	require.NoError(t, err)
	history := doc.(map[string]any)["history"].(map[string]any)
	assert.Equal(t, "drones", history["2021"])
}

func TestLoadEmptyYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume.yaml")
	writeFile(t, path, "", time.Now())

	doc, err := NewLoader(path).Load()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{}, doc)
}

func TestLoadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume.json")
	writeFile(t, path, `{"name":"Mikhail","years":7}`, time.Now())

	doc, err := NewLoader(path).Load()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "Mikhail", "years": float64(7)}, doc)
}

func TestLoadMalformedReturnsError(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "resume.yaml")
	writeFile(t, yamlPath, "name: [unclosed\n", time.Now())
	_, err := NewLoader(yamlPath).Load()
	assert.Error(t, err)

	jsonPath := filepath.Join(dir, "resume.json")
	writeFile(t, jsonPath, `{"name":`, time.Now())
	_, err = NewLoader(jsonPath).Load()
	assert.Error(t, err)
}

func TestLoadCachesUntilMtimeChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume.yaml")
	stamp := time.Now().Add(-time.Hour).Truncate(time.Second)
	writeFile(t, path, "name: first\n", stamp)

	l := NewLoader(path)
	first, err := l.Load()
	require.NoError(t, err)

	// New content but the same mtime: the cached document must be served
	// without reading the file again.
	writeFile(t, path, "name: second\n", stamp)
	second, err := l.Load()
	require.NoError(t, err)
	assert.Equal(t, "first", second.(map[string]any)["name"])
	assert.Equal(t, first, second)

	// Touching the file forces a re-read.
	touched := stamp.Add(time.Minute)
	require.NoError(t, os.Chtimes(path, touched, touched))
	third, err := l.Load()
	require.NoError(t, err)
	assert.Equal(t, "second", third.(map[string]any)["name"])
}

func TestLoadPicksUpFileCreatedLater(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume.yaml")
	l := NewLoader(path)

	doc, err := l.Load()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{}, doc)

	writeFile(t, path, "name: later\n", time.Now())
	doc, err = l.Load()
	require.NoError(t, err)
	assert.Equal(t, "later", doc.(map[string]any)["name"])
}

func TestLoadRestoredFileWithSameMtime(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume.yaml")
	stamp := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	l := NewLoader(path)

	writeFile(t, path, "name: old\n", stamp)
	doc, err := l.Load()
	require.NoError(t, err)
	assert.Equal(t, "old", doc.(map[string]any)["name"])

	require.NoError(t, os.Remove(path))
	doc, err = l.Load()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{}, doc)

	// A restore that preserves timestamps must still be re-read.
	writeFile(t, path, "name: new\n", stamp)
	doc, err = l.Load()
	require.NoError(t, err)
	assert.Equal(t, "new", doc.(map[string]any)["name"])
}

func TestLoadConcurrent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume.yaml")
	writeFile(t, path, "name: racy\n", time.Now())
	l := NewLoader(path)

	done := make(chan error, 8)
	for i := 0; i < 8; i++ {
		go func() {
			_, err := l.Load()
			done <- err
		}()
	}
	for i := 0; i < 8; i++ {
		require.NoError(t, <-done)
	}
}
