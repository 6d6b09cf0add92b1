package commands

import (
	"fmt"

	"git.home.luguber.info/inful/sassdoc-theme/internal/config"
	"git.home.luguber.info/inful/sassdoc-theme/internal/theme"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Theme string `short:"t" name:"theme" default:"sassdoc" help:"Theme whose defaults seed the configuration."`
	Force bool   `help:"Overwrite existing configuration file."`
}

func (i *InitCmd) Run(_ *Global, root *CLI) error {
	path, _ := root.ConfigFile()
	return RunInit(path, i.Theme, i.Force)
}

// RunInit writes the starter configuration for themeRef to path.
func RunInit(path, themeRef string, force bool) error {
	t, err := theme.Resolve(themeRef)
	if err != nil {
		return err
	}
	defaults, err := t.Defaults()
	if err != nil {
		return err
	}
	if err := config.WriteStarter(path, defaults, force); err != nil {
		return err
	}
	fmt.Printf("Wrote %s configuration to %s\n", t.Name(), path)
	return nil
}
