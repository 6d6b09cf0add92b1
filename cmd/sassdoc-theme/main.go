package main

import (
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/sassdoc-theme/cmd/sassdoc-theme/commands"
	"git.home.luguber.info/inful/sassdoc-theme/internal/foundation/errors"
	"git.home.luguber.info/inful/sassdoc-theme/internal/notify"
	"git.home.luguber.info/inful/sassdoc-theme/internal/version"

	// Built-in themes register themselves.
	_ "git.home.luguber.info/inful/sassdoc-theme/internal/themes/sassdoc"
	_ "git.home.luguber.info/inful/sassdoc-theme/internal/themes/starter"
)

func main() {
	cli := &commands.CLI{}
	global := &commands.Global{}
	parser := kong.Parse(cli,
		kong.Name("sassdoc-theme"),
		kong.Description("Render SassDoc data through a theme into a static documentation site."),
		kong.UsageOnError(),
		kong.Vars{
			"version":        version.String(),
			"default_config": commands.DefaultConfigFile,
			"nats_subject":   notify.DefaultSubject,
		},
		kong.Bind(global),
	)

	if err := parser.Run(global, cli); err != nil {
		adapter := errors.NewCLIErrorAdapter(cli.Verbose, global.Logger)
		os.Exit(adapter.HandleError(err))
	}
}
