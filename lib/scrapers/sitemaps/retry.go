package sitemaps

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// FetchWithRetry fetches a source, retrying blocked and timed out
// attempts with a linear backoff and a rotated header profile. A
// transport error gets one immediate extra attempt with the same
// parameters; a second error ends the run.
func (f *Fetcher) FetchWithRetry(ctx context.Context, src Source) FetchResult {
	ctx, span := tracer.Start(ctx, "FetchWithRetry", trace.WithAttributes(
		attribute.String("source", src.Location),
	))
	defer span.End()

	maxAttempts := f.opts.MaxRetries + 1
	rotation := 0
	errorRetried := false

	var result FetchResult
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		profile := f.opts.HeaderProfiles[rotation%len(f.opts.HeaderProfiles)]

		result = f.Fetch(ctx, src, profile)
		result.AttemptCount = attempt
		span.AddEvent("attempt", trace.WithAttributes(
			attribute.Int("number", attempt),
			attribute.String("status", string(result.Status)),
		))

		switch result.Status {
		case StatusOk:
			return result

		case StatusBlocked, StatusTimeout:
			if attempt == maxAttempts {
				break
			}
			wait := f.opts.BaseDelay * time.Duration(attempt)
			slog.DebugContext(ctx, "fetch attempt rejected, backing off",
				"source", src.Location,
				"status", result.Status,
				"attempt", attempt,
				"wait", wait)
			rotation++
			if !sleepContext(ctx, wait) {
				span.SetStatus(codes.Error, "cancelled")
				return result
			}

		case StatusError:
			if errorRetried || attempt == maxAttempts {
				span.RecordError(result.Err)
				span.SetStatus(codes.Error, "fetch failed")
				return result
			}
			slog.DebugContext(ctx, "fetch attempt errored, retrying once",
				"source", src.Location,
				"attempt", attempt,
				"err", result.Err)
			errorRetried = true
		}
	}

	if result.Err != nil {
		span.RecordError(result.Err)
	}
	span.SetStatus(codes.Error, "fetch failed")
	return result
}

// sleepContext waits for the given duration, returning false if the
// context was cancelled first.
func sleepContext(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
