// Package watch reruns the build when unit scripts or the configuration
// change, with an optional fixed interval as a fallback trigger.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/databuild/internal/config"
	"git.home.luguber.info/inful/databuild/internal/logfields"
)

// BuildFunc runs one build. Watcher does not care about the result value;
// errors are logged and watching continues.
type BuildFunc func(ctx context.Context) error

// Watcher monitors the unit scripts and configuration file and triggers
// debounced rebuilds.
type Watcher struct {
	cfg          *config.Config
	configPath   string
	build        BuildFunc
	watcher      *fsnotify.Watcher
	rebuildChan  chan struct{}
	debounceTime time.Duration
	interval     time.Duration
}

// New creates a watcher. interval zero disables periodic rebuilds.
func New(cfg *config.Config, configPath string, build BuildFunc, interval time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	absConfig, err := filepath.Abs(configPath)
	if err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to resolve config path: %w", err)
	}

	return &Watcher{
		cfg:          cfg,
		configPath:   absConfig,
		build:        build,
		watcher:      fsw,
		rebuildChan:  make(chan struct{}, 1),
		debounceTime: 2 * time.Second, // Debounce rapid file changes
		interval:     interval,
	}, nil
}

// Run watches until ctx is cancelled. An initial build runs immediately.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	// Watch the directories containing the watched files (more reliable
	// than watching the files directly).
	dirs := map[string]bool{filepath.Dir(w.configPath): true}
	for _, unit := range w.cfg.EnabledUnits() {
		dirs[filepath.Dir(w.cfg.ResolvePath(unit.Script))] = true
	}
	for dir := range dirs {
		if err := w.watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch directory %s: %w", dir, err)
		}
		slog.Debug("Watching directory", "dir", dir)
	}

	var scheduler gocron.Scheduler
	if w.interval > 0 {
		s, err := gocron.NewScheduler()
		if err != nil {
			return fmt.Errorf("failed to create scheduler: %w", err)
		}
		_, err = s.NewJob(
			gocron.DurationJob(w.interval),
			gocron.NewTask(w.trigger),
			gocron.WithName("periodic-build"),
		)
		if err != nil {
			return fmt.Errorf("failed to schedule periodic build: %w", err)
		}
		s.Start()
		scheduler = s
		defer func() { _ = scheduler.Shutdown() }()
		slog.Info("Periodic rebuild enabled", "interval", w.interval.String())
	}

	w.runBuild(ctx)

	go w.watchLoop(ctx)
	w.rebuildLoop(ctx)
	return nil
}

// watchLoop converts filesystem events on watched files into rebuild
// triggers.
func (w *Watcher) watchLoop(ctx context.Context) {
	watched := map[string]bool{w.configPath: true}
	for _, unit := range w.cfg.EnabledUnits() {
		watched[w.cfg.ResolvePath(unit.Script)] = true
	}

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !watched[event.Name] {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				slog.Debug("Watched file changed", "file", event.Name, "op", event.Op.String())
				w.trigger()
			} else if event.Op&fsnotify.Remove != 0 {
				slog.Warn("Watched file removed", "file", event.Name)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("File watcher error", logfields.Error(err))
		}
	}
}

// rebuildLoop debounces triggers and runs builds.
func (w *Watcher) rebuildLoop(ctx context.Context) {
	var timer *time.Timer
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		case <-w.rebuildChan:
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounceTime, func() {
				w.runBuild(ctx)
			})
		}
	}
}

func (w *Watcher) trigger() {
	select {
	case w.rebuildChan <- struct{}{}:
	default:
		// Rebuild already pending
	}
}

func (w *Watcher) runBuild(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	slog.Info("Triggering build")
	if err := w.build(ctx); err != nil {
		slog.Error("Build failed", logfields.Error(err))
	}
}
