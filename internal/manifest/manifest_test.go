package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "datapackage.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeManifest(t, `
name: mtcars-plus
title: Motor Trend Cars, Extended
version: 1.2.3
description: Example package.
`)

	m, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "mtcars-plus", m.PackageName())
	assert.Equal(t, "1.2.3", m.VersionString())
}

func TestLoadMissingVersion(t *testing.T) {
	path := writeManifest(t, "name: something\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestSetVersionAndSavePreservesExtraFields(t *testing.T) {
	path := writeManifest(t, `
name: pkg
version: 0.1.0
license: MIT
maintainers:
  - name: A. Person
    email: a@example.org
`)

	m, err := Load(path)
	require.NoError(t, err)

	m.SetVersionString("0.1.1")
	require.NoError(t, m.Save())

	reloaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "0.1.1", reloaded.VersionString())
	assert.Equal(t, "MIT", reloaded.Extra["license"])
	assert.Contains(t, reloaded.Extra, "maintainers")
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	path := writeManifest(t, "name: pkg\nversion: 0.1.0\n")

	m, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, m.Save())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1)
}
