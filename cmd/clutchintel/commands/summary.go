package commands

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"slices"
	"strings"
	"time"

	"clutchintel/cmd/clutchintel/utils"
	"clutchintel/lib/alert"
	"clutchintel/lib/runjournal"
	journaldb "clutchintel/lib/runjournal/db"
	"clutchintel/lib/scrapers/sitemaps"

	"github.com/jedib0t/go-pretty/v6/table"
)

func printRunSummary(report sitemaps.RunReport, outputs ...string) {
	t := utils.NewTable()
	t.AppendHeader(table.Row{"Metric", "Value"})
	t.AppendRow(table.Row{"sources", report.TotalSources})
	t.AppendRow(table.Row{"succeeded", report.Succeeded})
	t.AppendRow(table.Row{"failed", report.Failed})
	t.AppendRow(table.Row{"unique urls", report.URLCount})
	t.AppendRow(table.Row{"duration", report.Duration().Round(time.Millisecond)})
	for _, out := range outputs {
		t.AppendRow(table.Row{"output", out})
	}
	t.Render()
}

func printTopDomains(urls []sitemaps.ExtractedURL) {
	if len(urls) == 0 {
		return
	}

	counts := map[string]int{}
	for _, u := range urls {
		parsed, err := url.Parse(u.Value)
		if err != nil || parsed.Host == "" {
			continue
		}
		counts[parsed.Host]++
	}

	type domainCount struct {
		domain string
		count  int
	}
	ranked := make([]domainCount, 0, len(counts))
	for domain, count := range counts {
		ranked = append(ranked, domainCount{domain, count})
	}
	slices.SortFunc(ranked, func(a, b domainCount) int {
		if a.count != b.count {
			return b.count - a.count
		}
		return strings.Compare(a.domain, b.domain)
	})

	t := utils.NewTable()
	t.AppendHeader(table.Row{"Domain", "URLs"})
	for i, dc := range ranked {
		if i >= 10 {
			break
		}
		t.AppendRow(table.Row{dc.domain, dc.count})
	}
	t.Render()
}

// logFailureHints prints a manual download command per failed remote
// source, the blocked ones sometimes go through from a plain shell.
func logFailureHints(ctx context.Context, failures []sitemaps.SourceFailure) {
	for _, f := range failures {
		if f.Source.Kind != sitemaps.KindRemote {
			continue
		}
		slog.WarnContext(ctx, "source failed, try downloading manually",
			"status", f.Status,
			"hint", fmt.Sprintf("curl -A 'Mozilla/5.0' -o sitemap.xml '%s'", f.Source.Location))
	}
}

// journalRun records the run when a journal database is configured.
// Journal failures are logged, never fatal.
func journalRun(ctx context.Context, cfg Config, run runjournal.Run) {
	if cfg.Database.File == "" && cfg.Database.Url == "" {
		return
	}

	database, err := cfg.Database.OpenDB(journaldb.Schema)
	if err != nil {
		slog.WarnContext(ctx, "failed to open run journal", "err", err)
		return
	}
	defer database.Close()

	id, err := runjournal.NewStore(database).RecordRun(ctx, run)
	if err != nil {
		slog.WarnContext(ctx, "failed to journal run", "err", err)
		return
	}
	slog.InfoContext(ctx, "journaled run", "id", id)
}

func sendRunAlert(ctx context.Context, cfg Config, kind string, report sitemaps.RunReport) {
	sent, err := alert.NewMailer(cfg.Alerts).SendRunAlert(ctx, kind, report)
	if err != nil {
		slog.WarnContext(ctx, "failed to send run alert", "err", err)
		return
	}
	if sent {
		slog.InfoContext(ctx, "sent run alert", "to", cfg.Alerts.To)
	}
}
