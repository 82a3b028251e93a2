package sitemaps

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestLoadSourceList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sitemaps.txt")
	err := os.WriteFile(path, []byte(`# reference sitemaps

https://x.test/sitemap.xml
  local/path.xml
# disabled for now
/abs/path.xml
`), 0644)
	require.NoError(t, err)

	sources, err := LoadSourceList(path)
	require.NoError(t, err)

	diff := cmp.Diff([]Source{
		RemoteSource("https://x.test/sitemap.xml"),
		LocalSource("local/path.xml"),
		LocalSource("/abs/path.xml"),
	}, sources)
	if diff != "" {
		t.Fatal(diff)
	}
}

func TestLoadSourceListMissingFile(t *testing.T) {
	_, err := LoadSourceList(filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
}
