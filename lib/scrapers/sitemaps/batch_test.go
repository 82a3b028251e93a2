package sitemaps

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"clutchintel/lib/telemetry"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func testBatch(t *testing.T, opts FetcherOptions, delay time.Duration) *Batch {
	t.Helper()
	if opts.BaseDelay == 0 {
		opts.BaseDelay = time.Millisecond
	}
	fetcher, err := NewFetcher(opts)
	require.NoError(t, err)
	return NewBatch(fetcher, BatchOptions{Delay: delay})
}

func writeLocalSitemap(t *testing.T, dir, name, payload string) Source {
	t.Helper()
	path := filepath.Join(dir, name)
	err := os.WriteFile(path, []byte(payload), 0644)
	require.NoError(t, err)
	return LocalSource(path)
}

func TestBatchRemoteIndex(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/sitemaps")
	defer cleanup()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>
<sitemapindex xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
	<sitemap><loc>https://x.test/sitemap-a.xml</loc></sitemap>
	<sitemap><loc>https://x.test/sitemap-b.xml</loc></sitemap>
</sitemapindex>`))
	}))
	defer server.Close()

	batch := testBatch(t, FetcherOptions{}, 0)
	source := RemoteSource(server.URL + "/sitemap-index.xml")

	result, err := batch.Run(context.Background(), []Source{source})
	require.NoError(t, err)

	diff := cmp.Diff([]ExtractedURL{
		{Value: "https://x.test/sitemap-a.xml", Origin: source},
		{Value: "https://x.test/sitemap-b.xml", Origin: source},
	}, result.URLs)
	if diff != "" {
		t.Fatal(diff)
	}
	require.Equal(t, 1, result.Report.TotalSources)
	require.Equal(t, 1, result.Report.Succeeded)
	require.Equal(t, 0, result.Report.Failed)
	require.Equal(t, 2, result.Report.URLCount)
}

func TestBatchBlockedSourceFails(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/sitemaps")
	defer cleanup()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	batch := testBatch(t, FetcherOptions{MaxRetries: 2}, 0)
	result, err := batch.Run(context.Background(), []Source{RemoteSource(server.URL)})
	require.NoError(t, err)

	require.Equal(t, 0, result.Report.Succeeded)
	require.Equal(t, 1, result.Report.Failed)
	require.Empty(t, result.URLs)

	require.Len(t, result.Report.Failures, 1)
	failure := result.Report.Failures[0]
	require.Equal(t, StatusBlocked, failure.Status)
	require.Equal(t, 3, failure.AttemptCount)
	require.NotEmpty(t, failure.Reason)
}

func TestBatchContinuesPastMalformedSource(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/sitemaps")
	defer cleanup()

	dir := t.TempDir()
	bad := writeLocalSitemap(t, dir, "bad.xml", `<not-xml`)
	good := writeLocalSitemap(t, dir, "good.xml",
		`<urlset><url><loc>https://x.test/p1</loc></url></urlset>`)

	batch := testBatch(t, FetcherOptions{}, 0)
	result, err := batch.Run(context.Background(), []Source{bad, good})
	require.NoError(t, err)

	require.Equal(t, 1, result.Report.Failed)
	require.Equal(t, 1, result.Report.Succeeded)
	diff := cmp.Diff([]ExtractedURL{
		{Value: "https://x.test/p1", Origin: good},
	}, result.URLs)
	if diff != "" {
		t.Fatal(diff)
	}

	require.Len(t, result.Report.Failures, 1)
	failure := result.Report.Failures[0]
	require.Equal(t, bad, failure.Source)
	require.Equal(t, StatusError, failure.Status)
	require.Contains(t, failure.Reason, "malformed")
}

func TestBatchDedup(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/sitemaps")
	defer cleanup()

	dir := t.TempDir()
	first := writeLocalSitemap(t, dir, "first.xml", `<urlset>
	<url><loc>https://x.test/shared</loc></url>
	<url><loc>https://x.test/only-first</loc></url>
</urlset>`)
	second := writeLocalSitemap(t, dir, "second.xml", `<urlset>
	<url><loc>https://x.test/shared</loc></url>
	<url><loc>https://x.test/only-second</loc></url>
</urlset>`)

	batch := testBatch(t, FetcherOptions{}, 0)
	result, err := batch.Run(context.Background(), []Source{first, second})
	require.NoError(t, err)

	// the shared url keeps its first-seen origin
	diff := cmp.Diff([]ExtractedURL{
		{Value: "https://x.test/shared", Origin: first},
		{Value: "https://x.test/only-first", Origin: first},
		{Value: "https://x.test/only-second", Origin: second},
	}, result.URLs)
	if diff != "" {
		t.Fatal(diff)
	}
	require.Equal(t, 3, result.Report.URLCount)
	require.Equal(t, 2, result.Report.Succeeded)
}

func TestBatchIdempotence(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/sitemaps")
	defer cleanup()

	dir := t.TempDir()
	sources := []Source{
		writeLocalSitemap(t, dir, "a.xml", `<urlset><url><loc>https://x.test/1</loc></url></urlset>`),
		writeLocalSitemap(t, dir, "b.xml", `<urlset><url><loc>https://x.test/2</loc></url></urlset>`),
	}

	batch := testBatch(t, FetcherOptions{}, 0)
	one, err := batch.Run(context.Background(), sources)
	require.NoError(t, err)
	two, err := batch.Run(context.Background(), sources)
	require.NoError(t, err)

	diff := cmp.Diff(one.URLs, two.URLs)
	if diff != "" {
		t.Fatal(diff)
	}
}

func TestBatchEmptySourceList(t *testing.T) {
	batch := testBatch(t, FetcherOptions{}, 0)
	result, err := batch.Run(context.Background(), nil)
	require.ErrorIs(t, err, NoSources)
	require.Equal(t, 0, result.Report.TotalSources)
}

func TestBatchCancelledContext(t *testing.T) {
	dir := t.TempDir()
	sources := []Source{
		writeLocalSitemap(t, dir, "a.xml", `<urlset><url><loc>https://x.test/1</loc></url></urlset>`),
		writeLocalSitemap(t, dir, "b.xml", `<urlset><url><loc>https://x.test/2</loc></url></urlset>`),
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	batch := testBatch(t, FetcherOptions{}, 0)
	result, err := batch.Run(ctx, sources)
	require.NoError(t, err)
	require.Equal(t, 2, result.Report.TotalSources)
	require.Equal(t, 0, result.Report.Succeeded)
	require.Equal(t, 0, result.Report.Failed)
	require.Empty(t, result.URLs)
}

func TestBatchNoDelayBeforeFirstSource(t *testing.T) {
	dir := t.TempDir()
	source := writeLocalSitemap(t, dir, "a.xml",
		`<urlset><url><loc>https://x.test/1</loc></url></urlset>`)

	batch := testBatch(t, FetcherOptions{}, time.Second*5)
	start := time.Now()
	result, err := batch.Run(context.Background(), []Source{source})
	require.NoError(t, err)
	require.Equal(t, 1, result.Report.Succeeded)
	require.Less(t, time.Since(start), time.Second)
}
