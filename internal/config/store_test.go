package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreGetMissingSectionOrKey(t *testing.T) {
	s := NewStore()
	_, ok := s.Get("datasets", "files")
	assert.False(t, ok)

	s.setRaw("datasets", "files", "a.root")
	_, ok = s.Get("datasets", "other")
	assert.False(t, ok)

	v, ok := s.Get("datasets", "files")
	require.True(t, ok)
	assert.Equal(t, "a.root", v)
}

func TestStoreSetFiresCallbacksOnlyOnValueChange(t *testing.T) {
	s := NewStore()
	var fired [][]string
	s.register("datasets", "files", []string{"datasets"}, func(tags []string) {
		fired = append(fired, tags)
	})

	s.Set("datasets", "files", "a.root", []string{"datasets"})
	require.Len(t, fired, 1)
	assert.Equal(t, []string{"datasets"}, fired[0])

	// Same value again: no new callback.
	s.Set("datasets", "files", "a.root", []string{"datasets"})
	assert.Len(t, fired, 1)

	// Different value: fires again.
	s.Set("datasets", "files", "b.root", []string{"datasets"})
	assert.Len(t, fired, 2)
}

func TestStoreSetSkipsCallbackWhenTagsDontIntersect(t *testing.T) {
	s := NewStore()
	fired := 0
	s.register("datasets", "files", []string{"parameters"}, func([]string) { fired++ })

	s.Set("datasets", "files", "a.root", []string{"datasets"})
	assert.Equal(t, 0, fired, "callback scoped to \"parameters\" shouldn't fire for a \"datasets\"-tagged change")
}

func TestStoreSectionsSorted(t *testing.T) {
	s := NewStore()
	s.setRaw("z", "k", "v")
	s.setRaw("a", "k", "v")
	s.setRaw("m", "k", "v")
	assert.Equal(t, []string{"a", "m", "z"}, s.Sections())
}

func TestLoadTOMLMissingFileReturnsEmptyStore(t *testing.T) {
	s, err := LoadTOML(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Empty(t, s.Sections())
}

func TestLoadTOMLDecodesSectionsAndScalarTypes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gridctl.toml")
	contents := `
[datasets]
files = "a.root"
recursive = true
jobs = 5

[split]
strategy = "events"
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	s, err := LoadTOML(path)
	require.NoError(t, err)

	v, ok := s.Get("datasets", "files")
	require.True(t, ok)
	assert.Equal(t, "a.root", v)

	v, ok = s.Get("datasets", "recursive")
	require.True(t, ok)
	assert.Equal(t, "true", v)

	v, ok = s.Get("datasets", "jobs")
	require.True(t, ok)
	assert.Equal(t, "5", v)

	v, ok = s.Get("split", "strategy")
	require.True(t, ok)
	assert.Equal(t, "events", v)
}

func TestToStringValueJoinsListsWithNewlines(t *testing.T) {
	got := toStringValue([]any{"a.root", "b.root", "c.root"})
	assert.Equal(t, "a.root\nb.root\nc.root", got)
}
