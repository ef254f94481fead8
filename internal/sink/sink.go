// Package sink persists merged objects into the package's data area.
package sink

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ObjectSink serializes named objects. The orchestrator calls Store exactly
// once per merged-context entry, and only after a non-fatal build decision.
type ObjectSink interface {
	Store(name string, object any) error
}

// FSSink writes each object as YAML to <dataDir>/<name>.yaml.
type FSSink struct {
	dataDir string
}

// NewFSSink creates a filesystem sink rooted at dataDir.
func NewFSSink(dataDir string) *FSSink {
	return &FSSink{dataDir: dataDir}
}

// Store writes the object atomically (temp file + rename).
func (s *FSSink) Store(name string, object any) error {
	if err := os.MkdirAll(s.dataDir, 0o750); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	data, err := yaml.Marshal(object)
	if err != nil {
		return fmt.Errorf("serialize object %s: %w", name, err)
	}

	target := filepath.Join(s.dataDir, name+".yaml")
	tmp, err := os.CreateTemp(s.dataDir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp object file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write object %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close object %s: %w", name, err)
	}

	if err := os.Rename(tmpPath, target); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename object %s into place: %w", name, err)
	}
	return nil
}
