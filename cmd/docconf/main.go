package main

import (
	"fmt"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docconf/cmd/docconf/commands"
	"git.home.luguber.info/inful/docconf/internal/version"
)

func main() {
	cli := &commands.CLI{}
	ctx := kong.Parse(cli,
		kong.Name("docconf"),
		kong.Description("Validate Read the Docs build manifests and pip requirements across repositories."),
		kong.UsageOnError(),
		kong.Vars{
			"version": fmt.Sprintf("docconf %s (commit %s, built %s)", version.Version, version.GitCommit, version.BuildTime),
		},
	)

	err := ctx.Run(&commands.Global{}, cli)
	ctx.FatalIfErrorf(err)
}
