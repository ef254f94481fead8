package digeststore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/databuild/internal/fingerprint"
)

func TestLoadAbsent(t *testing.T) {
	rec, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, rec, "missing record must not be an error")
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	rec := &fingerprint.Record{
		Version: "0.2.1",
		Objects: map[string]string{"cars": "aaaa", "trees": "bbbb"},
	}

	require.NoError(t, Save(dir, rec))

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, rec, loaded)
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	rec := &fingerprint.Record{Version: "0.1.0", Objects: map[string]string{"a": "h"}}
	require.NoError(t, Save(dir, rec))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, RecordFile, entries[0].Name())
}

func TestSaveCreatesStateDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), ".databuild")
	rec := &fingerprint.Record{Version: "0.1.0", Objects: map[string]string{}}
	require.NoError(t, Save(dir, rec))

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "0.1.0", loaded.Version)
}

func TestLoadCorruptRecord(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, RecordFile), []byte("{not yaml: ["), 0o600))

	_, err := Load(dir)
	assert.Error(t, err)
}
