package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"git.home.luguber.info/inful/databuild/internal/config"
	"git.home.luguber.info/inful/databuild/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Every time.Duration `help:"Also rebuild on a fixed interval (e.g. 10m); 0 disables" default:"0"`
}

func (w *WatchCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Reload configuration on every build so unit and allowlist edits take
	// effect without restarting the watcher.
	buildOnce := func(ctx context.Context) error {
		cfg, err := config.Load(root.Config)
		if err != nil {
			return err
		}
		return RunBuild(ctx, cfg)
	}

	watcher, err := watch.New(cfg, root.Config, buildOnce, w.Every)
	if err != nil {
		return err
	}

	fmt.Println("Watching for changes (ctrl-c to stop)")
	return watcher.Run(ctx)
}
