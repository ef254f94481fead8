// Package digeststore persists the fingerprint record of the previous
// build under the package's state directory.
package digeststore

import (
	"fmt"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/databuild/internal/fingerprint"
)

// RecordFile is the name of the persisted fingerprint record inside the
// state directory.
const RecordFile = "fingerprints.yaml"

// Load reads the prior build's record from stateDir. A missing file is not
// an error: it returns (nil, nil) so a first-ever build can proceed.
func Load(stateDir string) (*fingerprint.Record, error) {
	path := filepath.Join(stateDir, RecordFile)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read fingerprint record: %w", err)
	}

	rec, err := fingerprint.FromYAML(data)
	if err != nil {
		return nil, fmt.Errorf("parse fingerprint record %s: %w", path, err)
	}
	return rec, nil
}

// Save atomically persists the record to stateDir: the record is written to
// a temp file in the same directory and renamed into place, so a concurrent
// reader never observes a partially written record and a crash mid-write
// leaves the previous record intact.
func Save(stateDir string, rec *fingerprint.Record) error {
	if err := os.MkdirAll(stateDir, 0o750); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}

	data, err := rec.ToYAML()
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(stateDir, RecordFile+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp record: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write temp record: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp record: %w", err)
	}

	if err := os.Rename(tmpPath, filepath.Join(stateDir, RecordFile)); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename record into place: %w", err)
	}
	return nil
}
