package commands

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"

	"git.home.luguber.info/inful/databuild/internal/config"
	"git.home.luguber.info/inful/databuild/internal/history"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	Limit int `short:"n" help:"Maximum number of builds to list" default:"20"`
}

func (h *HistoryCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	store, err := history.NewSQLiteStore(filepath.Join(cfg.StateDir(), "history.db"))
	if err != nil {
		return fmt.Errorf("open build history: %w", err)
	}
	defer store.Close()

	entries, err := store.Recent(context.Background(), h.Limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No builds recorded.")
		return nil
	}
	fmt.Println(renderHistoryTable(entries))
	return nil
}

func renderHistoryTable(entries []history.Entry) string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			shorten(e.BuildID, 8),
			e.CreatedAt.Format("2006-01-02 15:04:05"),
			e.Decision,
			e.Version,
			strconv.Itoa(e.Objects),
			shorten(e.Commit, 10),
		})
	}
	return renderTable(
		[]string{"Build", "When", "Decision", "Version", "Objects", "Commit"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
	)
}
