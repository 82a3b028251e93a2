package commands

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"clutchintel/lib/runjournal"
	"clutchintel/lib/scrapers/profiles"
	"clutchintel/lib/scrapers/sitemaps"
	"clutchintel/lib/serviceutil"
	"clutchintel/lib/telemetry"

	"github.com/spf13/cobra"
)

var profilesInput *string
var profilesDelay *float64
var profilesFormat *string
var profilesLimit *int

func init() {
	profilesInput = profilesCmd.Flags().String("input", "", "Path to a text file listing profile urls, one per line.")
	profilesDelay = profilesCmd.Flags().Float64("delay", 0, "Seconds to wait between profile pages, overrides the config.")
	profilesFormat = profilesCmd.Flags().String("format", "both", "Output format: json, csv or both.")
	profilesLimit = profilesCmd.Flags().Int("limit", 0, "Scrape at most this many urls, 0 means all of them.")
	rootCmd.AddCommand(profilesCmd)
}

var profilesCmd = &cobra.Command{
	Use:   "profiles --input <urls.txt>",
	Short: "Scrapes company profile pages and writes json + csv result files.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := readConfig()
		if *profilesDelay > 0 {
			cfg.DelaySeconds = *profilesDelay
		}

		format := *profilesFormat
		if format != "json" && format != "csv" && format != "both" {
			serviceutil.Fatal("bad flag", fmt.Errorf("unknown format %q", format))
		}
		if *profilesInput == "" {
			serviceutil.Fatal("nothing to do", fmt.Errorf("pass --input"))
		}

		urls, err := profiles.LoadURLList(*profilesInput)
		if err != nil {
			serviceutil.Fatal("failed to read url list", err)
		}
		if *profilesLimit > 0 && len(urls) > *profilesLimit {
			urls = urls[:*profilesLimit]
		}

		client, err := profiles.NewClient(profiles.ClientOptions{
			Timeout: seconds(cfg.TimeoutSeconds),
		})
		if err != nil {
			serviceutil.Fatal("failed to initialize client", err)
		}

		err = os.MkdirAll(cfg.OutputDir, 0755)
		if err != nil {
			serviceutil.Fatal("failed to create output directory", err)
		}

		ctx := cmd.Context()
		telemetry.InstrumentPerfStats(ctx)

		t1 := time.Now()
		scraped, failures := client.ScrapeBatch(ctx, urls, seconds(cfg.DelaySeconds))
		t2 := time.Now()
		slog.Info("scraping time", "seconds", t2.Sub(t1).Seconds())

		var jsonPath, csvPath string
		var outputs []string
		if format == "json" || format == "both" {
			jsonPath, err = profiles.WriteJSON(scraped, t1, cfg.OutputDir)
			if err != nil {
				serviceutil.Fatal("failed to write json", err)
			}
			outputs = append(outputs, jsonPath)
		}
		if format == "csv" || format == "both" {
			csvPath, err = profiles.WriteCSV(scraped, t1, cfg.OutputDir)
			if err != nil {
				serviceutil.Fatal("failed to write csv", err)
			}
			outputs = append(outputs, csvPath)
		}

		report := sitemaps.RunReport{
			TotalSources: len(urls),
			Succeeded:    len(scraped),
			Failed:       len(failures),
			URLCount:     len(scraped),
			StartedAt:    t1,
			FinishedAt:   t2,
		}
		for _, f := range failures {
			report.Failures = append(report.Failures, sitemaps.SourceFailure{
				Source:       sitemaps.RemoteSource(f.URL),
				Status:       sitemaps.StatusError,
				AttemptCount: 1,
				Reason:       f.Reason,
			})
		}

		printRunSummary(report, outputs...)
		logFailureHints(ctx, report.Failures)

		journalRun(ctx, cfg, runjournal.Run{
			Kind:         runjournal.KindProfiles,
			StartedAt:    t1,
			FinishedAt:   t2,
			TotalSources: len(urls),
			Succeeded:    len(scraped),
			Failed:       len(failures),
			URLCount:     len(scraped),
			OutputCSV:    csvPath,
			OutputTXT:    jsonPath,
		})
		sendRunAlert(ctx, cfg, runjournal.KindProfiles, report)
	},
}
