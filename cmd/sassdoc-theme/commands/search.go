package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"git.home.luguber.info/inful/sassdoc-theme/internal/config"
	"git.home.luguber.info/inful/sassdoc-theme/internal/docmodel"
	"git.home.luguber.info/inful/sassdoc-theme/internal/enrich"
	"git.home.luguber.info/inful/sassdoc-theme/internal/rendercontext"
	"git.home.luguber.info/inful/sassdoc-theme/internal/search"
)

// SearchCmd implements the 'search' command.
type SearchCmd struct {
	Data  string `short:"d" name:"data" help:"SassDoc data file. Defaults to the \"data\" key of the configuration." type:"path"`
	Limit int    `short:"n" name:"limit" default:"10" help:"Maximum number of results."`
	JSON  bool   `name:"json" help:"Print results as JSON."`
	Query string `arg:"" help:"Search terms."`
}

func (s *SearchCmd) Run(_ *Global, root *CLI) error {
	hits, err := RunSearch(context.Background(), root, s.Data, s.Query, s.Limit)
	if err != nil {
		return err
	}
	if s.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(hits)
	}
	if len(hits) == 0 {
		fmt.Println("No matches.")
		return nil
	}
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "NAME\tTYPE\tGROUP\tSUMMARY")
	for _, h := range hits {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", h.Name, h.Type, strings.Join(h.Groups, ","), h.Summary)
	}
	return tw.Flush()
}

// RunSearch loads entities, renders their descriptions and queries them.
func RunSearch(ctx context.Context, root *CLI, dataFile, query string, limit int) ([]search.Hit, error) {
	cfgPath, optional := root.ConfigFile()
	user, err := config.LoadFile(cfgPath, optional)
	if err != nil {
		return nil, err
	}
	var entities []docmodel.Entity
	if dataFile != "" {
		entities, err = docmodel.LoadFile(dataFile)
	} else {
		entities, err = docmodel.FromValue(user[rendercontext.DataKey])
	}
	if err != nil {
		return nil, err
	}

	rc, err := rendercontext.Build(ctx, nil, user, entities, rendercontext.Options{
		Passes: []string{enrich.PassSummary},
	})
	if err != nil {
		return nil, err
	}

	idx, err := search.NewIndex(search.Documents(rc.Entities))
	if err != nil {
		return nil, err
	}
	defer func() { _ = idx.Close() }()
	return idx.Search(query, limit)
}
