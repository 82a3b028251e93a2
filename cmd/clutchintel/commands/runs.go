package commands

import (
	"fmt"
	"time"

	"clutchintel/cmd/clutchintel/utils"
	"clutchintel/lib/runjournal"
	journaldb "clutchintel/lib/runjournal/db"
	"clutchintel/lib/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var runsLimit *int

func init() {
	runsLimit = runsCmd.Flags().Int("limit", 20, "How many runs to list.")
	rootCmd.AddCommand(runsCmd)
}

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Lists past extraction runs from the journal, newest first.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := readConfig()
		if cfg.Database.File == "" && cfg.Database.Url == "" {
			serviceutil.Fatal("no journal configured", fmt.Errorf("config.json5 has no database block"))
		}

		database, err := cfg.Database.OpenDB(journaldb.Schema)
		if err != nil {
			serviceutil.Fatal("failed to open run journal", err)
		}
		defer database.Close()

		runs, err := runjournal.NewStore(database).ListRuns(cmd.Context(), *runsLimit)
		if err != nil {
			serviceutil.Fatal("failed to list runs", err)
		}

		t := utils.NewTable()
		t.AppendHeader(table.Row{"ID", "Kind", "Started", "Duration", "Sources", "OK", "Failed", "URLs", "Output"})
		for _, r := range runs {
			t.AppendRow(table.Row{
				r.ID,
				r.Kind,
				r.StartedAt.Format(time.DateTime),
				r.FinishedAt.Sub(r.StartedAt).Round(time.Second),
				r.TotalSources,
				r.Succeeded,
				r.Failed,
				r.URLCount,
				r.OutputCSV,
			})
		}
		t.Render()
	},
}
