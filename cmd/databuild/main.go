package main

import (
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/databuild/cmd/databuild/commands"
)

var version = "dev"

func main() {
	var cli commands.CLI
	ctx := kong.Parse(&cli,
		kong.Name("databuild"),
		kong.Description("Reproducible data-package builds with fingerprint-based change detection."),
		kong.Vars{"version": version},
	)

	if err := ctx.Run(&commands.Global{}, &cli); err != nil {
		ctx.Errorf("%v", err)
		os.Exit(1)
	}
}
