package sitemaps

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseUrlset(t *testing.T) {
	cases := []struct {
		name     string
		payload  string
		expected []string
	}{
		{
			name: "plain",
			payload: `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
	<url><loc>https://x.test/p1</loc></url>
	<url><loc>https://x.test/p2</loc><lastmod>2024-01-01</lastmod></url>
	<url><loc>   https://x.test/p3	</loc></url>
</urlset>`,
			expected: []string{"https://x.test/p1", "https://x.test/p2", "https://x.test/p3"},
		},
		{
			name: "skips entries without a usable loc",
			payload: `<urlset>
	<url><loc></loc></url>
	<url><lastmod>2024-01-01</lastmod></url>
	<url><loc>https://x.test/kept</loc></url>
	<url><loc>  </loc></url>
</urlset>`,
			expected: []string{"https://x.test/kept"},
		},
		{
			name: "namespace prefix and mixed case",
			payload: `<sm:URLSET xmlns:sm="http://www.sitemaps.org/schemas/sitemap/0.9">
	<sm:url><sm:loc>https://x.test/a</sm:loc></sm:url>
	<sm:url><sm:loc>https://x.test/b</sm:loc></sm:url>
</sm:URLSET>`,
			expected: []string{"https://x.test/a", "https://x.test/b"},
		},
		{
			name: "first loc per entry wins",
			payload: `<urlset>
	<url><loc>https://x.test/first</loc><loc>https://x.test/second</loc></url>
</urlset>`,
			expected: []string{"https://x.test/first"},
		},
		{
			name:     "empty urlset",
			payload:  `<urlset></urlset>`,
			expected: nil,
		},
		{
			name:     "unknown root",
			payload:  `<html><body><a href="https://x.test/p1">p1</a></body></html>`,
			expected: nil,
		},
	}

	for _, test := range cases {
		urls, err := Parse([]byte(test.payload))
		if err != nil {
			t.Fatal(test.name, err)
		}
		diff := cmp.Diff(test.expected, urls)
		if diff != "" {
			t.Fatal(test.name, diff)
		}
	}
}

func TestParseSitemapIndex(t *testing.T) {
	payload := `<?xml version="1.0" encoding="UTF-8"?>
<sitemapindex xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
	<sitemap><loc>https://x.test/sitemap-1.xml</loc></sitemap>
	<sitemap><loc>https://x.test/sitemap-2.xml</loc></sitemap>
</sitemapindex>`

	urls, err := Parse([]byte(payload))
	if err != nil {
		t.Fatal(err)
	}
	diff := cmp.Diff([]string{
		"https://x.test/sitemap-1.xml",
		"https://x.test/sitemap-2.xml",
	}, urls)
	if diff != "" {
		t.Fatal(diff)
	}
}

func TestParseMalformed(t *testing.T) {
	cases := []string{
		"<not-xml",
		"",
		"plain text, no markup",
	}
	for _, payload := range cases {
		_, err := Parse([]byte(payload))
		if !errors.Is(err, MalformedDocument) {
			t.Fatalf("payload %q: expected MalformedDocument, got %v", payload, err)
		}
	}
}

func TestParseDamagedTail(t *testing.T) {
	payload := `<urlset>
	<url><loc>https://x.test/p1</loc></url>
	<url><loc>https://x.test/p2</loc></url>
	<url><loc`

	urls, err := Parse([]byte(payload))
	if err != nil {
		t.Fatal(err)
	}
	diff := cmp.Diff([]string{"https://x.test/p1", "https://x.test/p2"}, urls)
	if diff != "" {
		t.Fatal(diff)
	}
}
