package commands

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"clutchintel/lib/runjournal"
	"clutchintel/lib/scrapers/sitemaps"
	"clutchintel/lib/serviceutil"
	"clutchintel/lib/telemetry"

	"github.com/spf13/cobra"
)

var sitemapsSingle *string
var sitemapsBatch *string
var sitemapsDelay *float64
var sitemapsRetries *int
var sitemapsOutput *string

func init() {
	sitemapsSingle = sitemapsCmd.Flags().String("single", "", "Extract one sitemap url or local file.")
	sitemapsBatch = sitemapsCmd.Flags().String("batch", "", "Path to a text file listing sitemap sources, one per line.")
	sitemapsDelay = sitemapsCmd.Flags().Float64("delay", 0, "Seconds to wait between sources, overrides the config.")
	sitemapsRetries = sitemapsCmd.Flags().Int("retries", -1, "Extra attempts per source, overrides the config.")
	sitemapsOutput = sitemapsCmd.Flags().String("output", "", "Directory to write result files to, overrides the config.")
	rootCmd.AddCommand(sitemapsCmd)
}

var sitemapsCmd = &cobra.Command{
	Use:   "sitemaps [--single <url|path> | --batch <list.txt>]",
	Short: "Extracts page urls from sitemap sources and writes csv + txt result files.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := readConfig()
		if *sitemapsDelay > 0 {
			cfg.DelaySeconds = *sitemapsDelay
		}
		if *sitemapsRetries >= 0 {
			cfg.MaxRetries = *sitemapsRetries
		} else if cfg.MaxRetries == 0 {
			cfg.MaxRetries = 2
		}
		if *sitemapsOutput != "" {
			cfg.OutputDir = *sitemapsOutput
		}

		var sources []sitemaps.Source
		switch {
		case *sitemapsSingle != "":
			sources = []sitemaps.Source{sitemaps.ParseSource(*sitemapsSingle)}
		case *sitemapsBatch != "":
			var err error
			sources, err = sitemaps.LoadSourceList(*sitemapsBatch)
			if err != nil {
				serviceutil.Fatal("failed to read source list", err)
			}
		default:
			serviceutil.Fatal("nothing to do", fmt.Errorf("pass --single or --batch"))
		}

		fetcher, err := sitemaps.NewFetcher(sitemaps.FetcherOptions{
			HeaderProfiles: cfg.HeaderProfiles,
			Timeout:        seconds(cfg.TimeoutSeconds),
			MaxRetries:     cfg.MaxRetries,
			BaseDelay:      seconds(cfg.BaseDelaySeconds),
		})
		if err != nil {
			serviceutil.Fatal("failed to initialize fetcher", err)
		}
		batch := sitemaps.NewBatch(fetcher, sitemaps.BatchOptions{
			Delay: seconds(cfg.DelaySeconds),
		})

		err = os.MkdirAll(cfg.OutputDir, 0755)
		if err != nil {
			serviceutil.Fatal("failed to create output directory", err)
		}

		ctx := cmd.Context()
		telemetry.InstrumentPerfStats(ctx)

		t1 := time.Now()
		result, err := batch.Run(ctx, sources)
		if err != nil {
			serviceutil.Fatal("extraction failed", err)
		}
		t2 := time.Now()
		slog.Info("extraction time", "seconds", t2.Sub(t1).Seconds())

		csvPath, txtPath, err := sitemaps.WriteResults(result.URLs, result.Report, cfg.OutputDir)
		if err != nil {
			serviceutil.Fatal("failed to write results", err)
		}

		printRunSummary(result.Report, csvPath, txtPath)
		printTopDomains(result.URLs)
		logFailureHints(ctx, result.Report.Failures)

		journalRun(ctx, cfg, runjournal.Run{
			Kind:         runjournal.KindSitemaps,
			StartedAt:    result.Report.StartedAt,
			FinishedAt:   result.Report.FinishedAt,
			TotalSources: result.Report.TotalSources,
			Succeeded:    result.Report.Succeeded,
			Failed:       result.Report.Failed,
			URLCount:     result.Report.URLCount,
			OutputCSV:    csvPath,
			OutputTXT:    txtPath,
		})
		sendRunAlert(ctx, cfg, runjournal.KindSitemaps, result.Report)
	},
}
