package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"git.home.luguber.info/inful/sassdoc-theme/internal/theme"
)

// ThemesCmd implements the 'themes' command.
type ThemesCmd struct{}

func (ThemesCmd) Run(_ *Global, _ *CLI) error {
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "NAME\tPASSES\tDESCRIPTION")
	for _, name := range theme.Names() {
		t, err := theme.Get(name)
		if err != nil {
			return err
		}
		m := t.Manifest()
		_, _ = fmt.Fprintf(tw, "%s\t%v\t%s\n", name, m.Passes, m.Description)
	}
	return tw.Flush()
}
