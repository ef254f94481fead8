package docs

import (
	"log/slog"

	"git.home.luguber.info/inful/databuild/internal/fingerprint"
	"git.home.luguber.info/inful/databuild/internal/logfields"
)

// Sync brings the documentation directory up to date with a persisted
// build: load the existing corpus, generate fresh stubs for every built
// object, merge (user-authored entries always win), write the result and
// regenerate the index.
func Sync(docsDir string, record *fingerprint.Record) error {
	existing, err := LoadCorpus(docsDir)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(record.Objects))
	for name := range record.Objects {
		names = append(names, name)
	}

	generated := Autogenerate(names, record)
	merged := Merge(existing, generated)

	added := 0
	for name := range generated {
		if _, ok := existing[name]; !ok {
			added++
			slog.Debug("Adding documentation stub", logfields.Object(name))
		}
	}
	if added > 0 {
		slog.Info("Documentation stubs added", "count", added)
	}

	if err := WriteCorpus(docsDir, merged); err != nil {
		return err
	}
	return WriteIndex(docsDir, record, merged)
}
