package profiles

import (
	"bufio"
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ScrapeBatch works through the urls strictly in order with a pause
// between consecutive requests. Pages that fail are recorded and
// skipped, never aborting the batch. Cancelling the context stops the
// batch between pages and returns what was collected so far.
func (c *Client) ScrapeBatch(ctx context.Context, urls []string, delay time.Duration) ([]Profile, []Failure) {
	ctx, span := tracer.Start(ctx, "ScrapeBatch", trace.WithAttributes(
		attribute.Int("urls", len(urls)),
	))
	defer span.End()

	var profiles []Profile
	var failures []Failure
	for i, url := range urls {
		if i > 0 && delay > 0 {
			if !sleepContext(ctx, delay) {
				break
			}
		}
		if ctx.Err() != nil {
			break
		}

		slog.InfoContext(ctx, "scraping profile",
			"index", i+1,
			"total", len(urls),
			"url", url)

		profile, err := c.Scrape(ctx, url)
		if err != nil {
			slog.WarnContext(ctx, "profile scrape failed", "url", url, "err", err)
			failures = append(failures, Failure{URL: url, Reason: err.Error()})
			continue
		}
		profiles = append(profiles, profile)
	}
	return profiles, failures
}

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

// LoadURLList reads profile urls from a text file, one per line.
// Blank lines and lines starting with `#` are skipped.
func LoadURLList(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var urls []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return urls, nil
}
