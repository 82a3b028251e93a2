package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"clutchintel/cmd/clutchintel/utils"
	"clutchintel/lib/scoring"
	"clutchintel/lib/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var scoreInput *string
var scoreOutput *string
var scoreTop *int

func init() {
	scoreInput = scoreCmd.Flags().String("input", "", "Path to the company csv to score.")
	scoreOutput = scoreCmd.Flags().String("output", "", "Path to write the scored csv to, defaults to <input>_scored.csv.")
	scoreTop = scoreCmd.Flags().Int("top", 10, "How many leaders to print.")
	rootCmd.AddCommand(scoreCmd)
}

var scoreCmd = &cobra.Command{
	Use:   "score --input <companies.csv>",
	Short: "Ranks a company csv by weighted rating, review count, cost and size.",
	Run: func(cmd *cobra.Command, args []string) {
		if *scoreInput == "" {
			serviceutil.Fatal("nothing to do", fmt.Errorf("pass --input"))
		}

		f, err := os.Open(*scoreInput)
		if err != nil {
			serviceutil.Fatal("failed to open input csv", err)
		}
		defer f.Close()

		companies, err := scoring.Load(f)
		if err != nil {
			serviceutil.Fatal("failed to read companies", err)
		}

		ranked := scoring.Rank(companies)
		slog.Info("scored companies", "total", len(companies), "ranked", len(ranked))

		outPath := *scoreOutput
		if outPath == "" {
			ext := filepath.Ext(*scoreInput)
			outPath = strings.TrimSuffix(*scoreInput, ext) + "_scored.csv"
		}
		out, err := os.Create(outPath)
		if err != nil {
			serviceutil.Fatal("failed to create output csv", err)
		}
		defer out.Close()

		err = scoring.WriteCSV(ranked, out)
		if err != nil {
			serviceutil.Fatal("failed to write output csv", err)
		}
		slog.Info("wrote scored csv", "path", outPath)

		t := utils.NewTable()
		t.AppendHeader(table.Row{"#", "Company", "Rating", "Reviews", "Score"})
		for i, c := range ranked {
			if i >= *scoreTop {
				break
			}
			t.AppendRow(table.Row{i + 1, c.Name, c.Rating, c.ReviewCount, c.Score})
		}
		t.Render()
	},
}
