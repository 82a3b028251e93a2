package runjournal

import (
	"context"
	"testing"
	"time"

	"clutchintel/lib/runjournal/db"
	"clutchintel/lib/testutil"

	"github.com/stretchr/testify/require"
)

func TestStore(t *testing.T) {
	setup, cleanup := testutil.Setup(t, testutil.Params{
		Name:     "runjournal",
		DbSchema: db.Schema,
	})
	defer cleanup()
	store := NewStore(setup.DB)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	runs, err := store.ListRuns(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	require.Len(t, runs, 0)

	started := time.Date(2026, 3, 4, 15, 0, 0, 0, time.UTC)
	first, err := store.RecordRun(ctx, Run{
		Kind:         KindSitemaps,
		StartedAt:    started,
		FinishedAt:   started.Add(90 * time.Second),
		TotalSources: 3,
		Succeeded:    2,
		Failed:       1,
		URLCount:     128,
		OutputCSV:    "out/sitemap_extraction_20260304_150000.csv",
		OutputTXT:    "out/sitemap_extraction_20260304_150000.txt",
	})
	if err != nil {
		t.Fatal(err)
	}
	require.Len(t, first, 8)

	second, err := store.RecordRun(ctx, Run{
		Kind:         KindProfiles,
		StartedAt:    started.Add(time.Hour),
		FinishedAt:   started.Add(time.Hour + time.Minute),
		TotalSources: 40,
		Succeeded:    38,
		Failed:       2,
	})
	if err != nil {
		t.Fatal(err)
	}
	require.NotEqual(t, first, second)

	runs, err = store.ListRuns(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	require.Len(t, runs, 2)
	require.Equal(t, second, runs[0].ID)
	require.Equal(t, first, runs[1].ID)
	require.Equal(t, KindSitemaps, runs[1].Kind)
	require.Equal(t, 3, runs[1].TotalSources)
	require.Equal(t, 128, runs[1].URLCount)
	require.Equal(t, started.Unix(), runs[1].StartedAt.Unix())
	require.Equal(t, "out/sitemap_extraction_20260304_150000.csv", runs[1].OutputCSV)

	runs, err = store.ListRuns(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	require.Len(t, runs, 1)
	require.Equal(t, second, runs[0].ID)

	got, err := store.GetRun(ctx, first)
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, KindSitemaps, got.Kind)
	require.Equal(t, 2, got.Succeeded)
}
