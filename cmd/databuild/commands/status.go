package commands

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"git.home.luguber.info/inful/databuild/internal/config"
	"git.home.luguber.info/inful/databuild/internal/digeststore"
	"git.home.luguber.info/inful/databuild/internal/history"
	"git.home.luguber.info/inful/databuild/internal/manifest"
)

// StatusCmd implements the 'status' command. It never executes units: it
// only reports the recorded state of the package.
type StatusCmd struct{}

func (s *StatusCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	pkg, err := manifest.Load(cfg.ManifestPath())
	if err != nil {
		return err
	}
	fmt.Printf("Package %s, manifest version %s\n", pkg.PackageName(), pkg.VersionString())

	rec, err := digeststore.Load(cfg.StateDir())
	if err != nil {
		return err
	}
	if rec == nil {
		fmt.Println("No fingerprint record yet: the next build will be the first.")
		return nil
	}

	fmt.Printf("Recorded version %s, %d objects\n", rec.Version, len(rec.Objects))
	if pkg.VersionString() != rec.Version {
		fmt.Printf("Note: manifest version differs from recorded version; the next build will reconcile them.\n")
	}

	names := make([]string, 0, len(rec.Objects))
	for name := range rec.Objects {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := make([][]string, 0, len(names))
	for _, name := range names {
		rows = append(rows, []string{name, shorten(rec.Objects[name], 12)})
	}
	fmt.Println(renderTable([]string{"Object", "Digest"}, rows, nil))

	store, err := history.NewSQLiteStore(filepath.Join(cfg.StateDir(), "history.db"))
	if err != nil {
		return nil // no history yet
	}
	defer store.Close()

	entries, err := store.Recent(context.Background(), 5)
	if err != nil || len(entries) == 0 {
		return nil
	}
	fmt.Println("Recent builds:")
	fmt.Println(renderHistoryTable(entries))
	return nil
}
