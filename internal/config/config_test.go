package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dberrors "git.home.luguber.info/inful/databuild/internal/errors"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "databuild.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func writeScript(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("#!/bin/sh\n"), 0o700))
}

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "run.sh")
	path := writeConfig(t, dir, `
render:
  units:
    - script: run.sh
  objects: [a]
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "datapackage.yaml", cfg.Package.Manifest)
	assert.Equal(t, dir, cfg.RenderRoot())
	assert.Equal(t, filepath.Join(dir, "data"), cfg.DataDir())
	assert.Equal(t, filepath.Join(dir, "docs"), cfg.DocsDir())
	assert.Equal(t, filepath.Join(dir, ".databuild"), cfg.StateDir())
	assert.True(t, cfg.Build.IsStrict(), "strict is the default")
	require.NoError(t, cfg.Validate())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, dberrors.IsCategory(err, dberrors.CategoryConfig))
}

func TestValidateNoEnabledUnits(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "run.sh")
	path := writeConfig(t, dir, `
render:
  units:
    - script: run.sh
      enabled: false
  objects: [a]
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	err = cfg.Validate()
	require.Error(t, err)
	assert.True(t, dberrors.IsCategory(err, dberrors.CategoryConfig))
}

func TestValidateEmptyAllowlist(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "run.sh")
	path := writeConfig(t, dir, `
render:
  units:
    - script: run.sh
  objects: []
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Error(t, cfg.Validate())
}

func TestValidateDuplicateAllowlistEntry(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "run.sh")
	path := writeConfig(t, dir, `
render:
  units:
    - script: run.sh
  objects: [a, a]
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Error(t, cfg.Validate())
}

func TestValidateMissingScript(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
render:
  units:
    - script: does-not-exist.sh
  objects: [a]
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	err = cfg.Validate()
	require.Error(t, err)
	assert.True(t, dberrors.IsCategory(err, dberrors.CategoryConfig))
}

func TestEnabledUnitsPreserveOrder(t *testing.T) {
	dir := t.TempDir()
	for _, s := range []string{"a.sh", "b.sh", "c.sh"} {
		writeScript(t, dir, s)
	}
	path := writeConfig(t, dir, `
render:
  units:
    - script: a.sh
    - script: b.sh
      enabled: false
    - script: c.sh
  objects: [x]
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	units := cfg.EnabledUnits()
	require.Len(t, units, 2)
	assert.Equal(t, "a.sh", units[0].Script)
	assert.Equal(t, "c.sh", units[1].Script)
}

func TestEnvExpansion(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "run.sh")
	t.Setenv("DATABUILD_TEST_OBJ", "expanded_name")
	path := writeConfig(t, dir, `
render:
  units:
    - script: run.sh
  objects: [${DATABUILD_TEST_OBJ}]
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.Render.Objects, 1)
	assert.Equal(t, "expanded_name", cfg.Render.Objects[0])
}

func TestInitCreatesSkeleton(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "databuild.yaml")

	require.NoError(t, Init(path, false))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.DirExists(t, cfg.DataDir())
	assert.DirExists(t, cfg.DocsDir())
	assert.FileExists(t, cfg.ManifestPath())

	// Second init without force must refuse to clobber.
	assert.Error(t, Init(path, false))
	assert.NoError(t, Init(path, true))
}
