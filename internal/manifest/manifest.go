// Package manifest reads and writes the package manifest (datapackage.yaml).
// The build pipeline only ever reads and sets the version field; every other
// field is carried through saves untouched.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Manifest is the parsed package manifest. Fields the pipeline does not
// interpret are preserved in Extra across a load/save cycle.
type Manifest struct {
	Name        string `yaml:"name"`
	Title       string `yaml:"title,omitempty"`
	Version     string `yaml:"version"`
	Description string `yaml:"description,omitempty"`

	Extra map[string]any `yaml:",inline"`

	path string
}

// Load reads the manifest from path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read package manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse package manifest %s: %w", path, err)
	}
	if m.Version == "" {
		return nil, fmt.Errorf("package manifest %s has no version field", path)
	}
	m.path = path
	return &m, nil
}

// PackageName returns the manifest's package name.
func (m *Manifest) PackageName() string { return m.Name }

// VersionString returns the current version field.
func (m *Manifest) VersionString() string { return m.Version }

// SetVersionString replaces the version field. The change is not persisted
// until Save is called.
func (m *Manifest) SetVersionString(v string) { m.Version = v }

// Save writes the manifest back to the file it was loaded from, atomically.
func (m *Manifest) Save() error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal package manifest: %w", err)
	}

	dir := filepath.Dir(m.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(m.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp manifest: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write temp manifest: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp manifest: %w", err)
	}

	if err := os.Rename(tmpPath, m.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename manifest into place: %w", err)
	}
	return nil
}
