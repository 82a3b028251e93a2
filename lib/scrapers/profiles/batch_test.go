package profiles

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

func TestScrapeBatch(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/profiles")
	defer cleanup()

	mux := http.NewServeMux()
	mux.HandleFunc("/profile/nimble-foundry", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(profileHtml))
	})
	mux.HandleFunc("/profile/gone", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client, err := NewClient(ClientOptions{})
	require.NoError(t, err)

	urls := []string{
		server.URL + "/profile/nimble-foundry",
		server.URL + "/profile/gone",
	}
	profiles, failures := client.ScrapeBatch(context.Background(), urls, time.Millisecond)

	require.Len(t, profiles, 1)
	require.Equal(t, urls[0], profiles[0].URL)
	require.Equal(t, "Nimble Foundry", profiles[0].CompanyName)
	require.False(t, profiles[0].ScrapedAt.IsZero())

	require.Len(t, failures, 1)
	require.Equal(t, urls[1], failures[0].URL)
	require.Contains(t, failures[0].Reason, "404")
}

func TestScrapeBatchCancelledContext(t *testing.T) {
	client, err := NewClient(ClientOptions{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	profiles, failures := client.ScrapeBatch(ctx, []string{"https://x.test/a", "https://x.test/b"}, 0)
	require.Empty(t, profiles)
	require.Empty(t, failures)
}

func TestLoadURLList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "urls.txt")
	err := os.WriteFile(path, []byte(`# profiles worth a look

https://clutch.co/profile/a
  https://clutch.co/profile/b
`), 0644)
	require.NoError(t, err)

	urls, err := LoadURLList(path)
	require.NoError(t, err)

	diff := cmp.Diff([]string{
		"https://clutch.co/profile/a",
		"https://clutch.co/profile/b",
	}, urls)
	if diff != "" {
		t.Fatal(diff)
	}
}
