// Package commands implements the databuild CLI subcommands.
package commands

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
)

// Global context passed to subcommands if we need to share global state later.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags - used by commands that need access to root config.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"databuild.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Init    InitCmd    `cmd:"" help:"Initialize a new configuration file and package skeleton"`
	Build   BuildCmd   `cmd:"" help:"Run the processing units and persist the package outputs"`
	Status  StatusCmd  `cmd:"" help:"Show the recorded fingerprints, manifest version and recent builds"`
	History HistoryCmd `cmd:"" help:"List recorded builds"`
	Watch   WatchCmd   `cmd:"" help:"Rebuild whenever unit scripts or the configuration change"`
}

// AfterApply runs after flag parsing; setup logging once.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}
