package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/databuild/internal/build"
	"git.home.luguber.info/inful/databuild/internal/config"
	"git.home.luguber.info/inful/databuild/internal/history"
	"git.home.luguber.info/inful/databuild/internal/logfields"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct{}

func (b *BuildCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	return RunBuild(context.Background(), cfg)
}

// RunBuild executes one build against the loaded configuration.
func RunBuild(ctx context.Context, cfg *config.Config) error {
	var store *history.SQLiteStore
	if err := os.MkdirAll(cfg.StateDir(), 0o750); err != nil {
		slog.Warn("Cannot create state directory", logfields.Error(err))
	} else {
		s, err := history.NewSQLiteStore(filepath.Join(cfg.StateDir(), "history.db"))
		if err != nil {
			// History is supplemental; a broken store must not block builds.
			slog.Warn("Build history unavailable", logfields.Error(err))
		} else {
			store = s
			defer store.Close()
		}
	}

	svc := build.NewService(cfg)
	if store != nil {
		svc = svc.WithHistory(store)
	}

	result, err := svc.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Build %s: %s at version %s (%d objects, %s)\n",
		shorten(result.BuildID, 8), result.Action, result.Version, result.Objects,
		result.Duration.Round(10*time.Millisecond))
	return nil
}
