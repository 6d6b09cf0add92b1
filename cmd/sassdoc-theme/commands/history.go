package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"git.home.luguber.info/inful/sassdoc-theme/internal/eventstore"
	"git.home.luguber.info/inful/sassdoc-theme/internal/foundation/errors"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	DB    string `name:"history" required:"" help:"SQLite database written by render --history." type:"path"`
	Limit int    `short:"n" name:"limit" default:"20" help:"Number of renders to show."`
	JSON  bool   `name:"json" help:"Print renders as JSON."`
}

func (h *HistoryCmd) Run(_ *Global, _ *CLI) error {
	renders, err := RunHistory(context.Background(), h.DB, h.Limit)
	if err != nil {
		return err
	}
	if h.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(renders)
	}
	if len(renders) == 0 {
		fmt.Println("No renders recorded.")
		return nil
	}
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "STARTED\tBUILD\tTHEME\tSTATUS\tOUTCOME\tENTITIES\tFILES\tDURATION")
	for _, r := range renders {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\t%d\t%s\n",
			r.StartedAt.Local().Format(time.DateTime), shortID(r.BuildID), r.Theme, r.Status,
			r.Outcome, r.Entities, r.Files, r.Duration)
	}
	return tw.Flush()
}

// RunHistory returns up to limit renders, newest first.
func RunHistory(ctx context.Context, db string, limit int) ([]eventstore.RenderSummary, error) {
	if !fileExists(db) {
		return nil, errors.NewError(errors.CategoryNotFound, "history database not found").
			WithContext("path", db).
			UserAction().
			Build()
	}
	store, err := eventstore.NewSQLiteStore(db)
	if err != nil {
		return nil, err
	}
	defer func() { _ = store.Close() }()

	proj := eventstore.NewHistoryProjection(store, 0)
	if err := proj.Rebuild(ctx); err != nil {
		return nil, err
	}
	return proj.Recent(limit), nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
