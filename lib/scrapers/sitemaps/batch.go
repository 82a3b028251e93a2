package sitemaps

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var NoSources = fmt.Errorf("no sitemap sources given")

type BatchOptions struct {
	// pause between consecutive sources, never before the first
	Delay time.Duration
}

// Batch runs a whole list of sitemap sources through fetch, retry and
// parse, folding every extracted url into one deduplicated set.
type Batch struct {
	fetcher *Fetcher
	opts    BatchOptions
}

func NewBatch(fetcher *Fetcher, opts BatchOptions) *Batch {
	return &Batch{fetcher: fetcher, opts: opts}
}

type BatchResult struct {
	URLs   []ExtractedURL
	Report RunReport
}

// Run processes the sources strictly in order. A source that fails to
// fetch or parse is recorded on the report and the batch moves on; the
// only error Run itself returns is an empty source list. Cancelling
// the context stops the batch between sources and returns what was
// collected so far.
func (b *Batch) Run(ctx context.Context, sources []Source) (BatchResult, error) {
	report := RunReport{
		TotalSources: len(sources),
		StartedAt:    time.Now(),
	}
	if len(sources) == 0 {
		report.FinishedAt = report.StartedAt
		return BatchResult{Report: report}, NoSources
	}

	ctx, span := tracer.Start(ctx, "Run", trace.WithAttributes(
		attribute.Int("sources", len(sources)),
	))
	defer span.End()

	seen := map[string]bool{}
	var urls []ExtractedURL

	for i, src := range sources {
		if i > 0 && b.opts.Delay > 0 {
			if !sleepContext(ctx, b.opts.Delay) {
				break
			}
		}
		if ctx.Err() != nil {
			break
		}

		result := b.fetcher.FetchWithRetry(ctx, src)
		if result.Status != StatusOk {
			report.Failed++
			report.Failures = append(report.Failures, failureOf(result, result.Status, result.Err))
			slog.WarnContext(ctx, "sitemap source failed",
				"source", src.Location,
				"status", result.Status,
				"attempts", result.AttemptCount)
			continue
		}

		extracted, err := Parse(result.Payload)
		if err != nil {
			report.Failed++
			report.Failures = append(report.Failures, failureOf(result, StatusError, err))
			slog.WarnContext(ctx, "sitemap source unparseable",
				"source", src.Location,
				"err", err)
			continue
		}

		report.Succeeded++
		added := 0
		for _, loc := range extracted {
			if seen[loc] {
				continue
			}
			seen[loc] = true
			urls = append(urls, ExtractedURL{Value: loc, Origin: src})
			added++
		}
		slog.InfoContext(ctx, "sitemap source done",
			"source", src.Location,
			"urls", len(extracted),
			"new", added)
	}

	report.URLCount = len(urls)
	report.FinishedAt = time.Now()
	return BatchResult{URLs: urls, Report: report}, nil
}

func failureOf(result FetchResult, status Status, reason error) SourceFailure {
	failure := SourceFailure{
		Source:       result.Source,
		Status:       status,
		AttemptCount: result.AttemptCount,
	}
	if reason != nil {
		failure.Reason = reason.Error()
	}
	return failure
}
