package docs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/databuild/internal/fingerprint"
)

func TestDisplayTitle(t *testing.T) {
	assert.Equal(t, "Survey Results 2024", DisplayTitle("survey_results_2024"))
	assert.Equal(t, "Raw Counts", DisplayTitle("raw-counts"))
}

func TestAutogenerateCarriesMarkerAndDigest(t *testing.T) {
	rec := &fingerprint.Record{Version: "0.1.0", Objects: map[string]string{"cars": "abc123"}}
	stubs := Autogenerate([]string{"cars"}, rec)

	require.Contains(t, stubs, "cars")
	stub := stubs["cars"]
	assert.True(t, stub.Auto)
	assert.Contains(t, stub.Content, Marker)
	assert.Contains(t, stub.Content, "abc123")
	assert.Contains(t, stub.Content, "# Cars")
}

func TestMergePrefersUserEntries(t *testing.T) {
	existing := Stubs{"a": {Name: "a", Content: "user text", Auto: false}}
	generated := Stubs{
		"a": {Name: "a", Content: "auto text", Auto: true},
		"b": {Name: "b", Content: "auto text", Auto: true},
	}

	merged := Merge(existing, generated)
	require.Len(t, merged, 2)
	assert.Equal(t, "user text", merged["a"].Content)
	assert.Equal(t, "auto text", merged["b"].Content)
}

func TestMergeRefreshesAutoEntries(t *testing.T) {
	existing := Stubs{"a": {Name: "a", Content: "old auto " + Marker, Auto: true}}
	generated := Stubs{"a": {Name: "a", Content: "new auto " + Marker, Auto: true}}

	merged := Merge(existing, generated)
	assert.Equal(t, "new auto "+Marker, merged["a"].Content)
}

func TestMergeRetainsStaleEntries(t *testing.T) {
	existing := Stubs{"gone": {Name: "gone", Content: "kept", Auto: false}}
	merged := Merge(existing, Stubs{})
	assert.Contains(t, merged, "gone")
}

func TestLoadCorpusDetectsProvenance(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "auto.md"),
		[]byte("# Auto\n\n"+Marker+"\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "manual.md"),
		[]byte("# Manual\n\nHand-written.\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.md"),
		[]byte("# Data Package Index\n"+Marker+"\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"),
		[]byte("ignored"), 0o600))

	corpus, err := LoadCorpus(dir)
	require.NoError(t, err)
	require.Len(t, corpus, 2, "index and non-markdown files are not entries")
	assert.True(t, corpus["auto"].Auto)
	assert.False(t, corpus["manual"].Auto)
}

func TestLoadCorpusMissingDir(t *testing.T) {
	corpus, err := LoadCorpus(filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)
	assert.Empty(t, corpus)
}

func TestWriteCorpusSkipsUserEntries(t *testing.T) {
	dir := t.TempDir()
	userPath := filepath.Join(dir, "manual.md")
	require.NoError(t, os.WriteFile(userPath, []byte("original"), 0o600))

	stubs := Stubs{
		"manual": {Name: "manual", Content: "MUST NOT BE WRITTEN", Auto: false},
		"auto":   {Name: "auto", Content: "# Auto\n" + Marker + "\n", Auto: true},
	}
	require.NoError(t, WriteCorpus(dir, stubs))

	data, err := os.ReadFile(userPath)
	require.NoError(t, err)
	assert.Equal(t, "original", string(data))
	assert.FileExists(t, filepath.Join(dir, "auto.md"))
}

func TestFirstHeading(t *testing.T) {
	assert.Equal(t, "My Title", FirstHeading([]byte("# My Title\n\nbody\n")))
	assert.Equal(t, "", FirstHeading([]byte("no heading here\n")))
	assert.Equal(t, "Top", FirstHeading([]byte("## sub first? no\n\n# Top\n")))
}

func TestSyncEndToEnd(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.md"),
		[]byte("# Curated A\n\nuser text\n"), 0o600))

	rec := &fingerprint.Record{
		Version: "1.0.0",
		Objects: map[string]string{"a": strings.Repeat("a", 64), "b": strings.Repeat("b", 64)},
	}
	require.NoError(t, Sync(dir, rec))

	// User-authored entry untouched.
	data, err := os.ReadFile(filepath.Join(dir, "a.md"))
	require.NoError(t, err)
	assert.Equal(t, "# Curated A\n\nuser text\n", string(data))

	// New object got a stub.
	assert.FileExists(t, filepath.Join(dir, "b.md"))

	// Index regenerated with user title for a and provenance flags.
	index, err := os.ReadFile(filepath.Join(dir, "index.md"))
	require.NoError(t, err)
	assert.Contains(t, string(index), "Curated A")
	assert.Contains(t, string(index), "| `a` |")
	assert.Contains(t, string(index), "user")
	assert.Contains(t, string(index), "| `b` |")
}

func TestSyncIdempotent(t *testing.T) {
	dir := t.TempDir()
	rec := &fingerprint.Record{Version: "1.0.0", Objects: map[string]string{"x": strings.Repeat("c", 64)}}

	require.NoError(t, Sync(dir, rec))
	first, err := os.ReadFile(filepath.Join(dir, "x.md"))
	require.NoError(t, err)

	require.NoError(t, Sync(dir, rec))
	second, err := os.ReadFile(filepath.Join(dir, "x.md"))
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}
