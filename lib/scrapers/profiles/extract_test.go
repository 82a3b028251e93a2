package profiles

import (
	"context"
	"strings"
	"testing"

	_ "embed"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

//go:embed testdata/profile.html
var profileHtml string

func TestExtract(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(profileHtml))
	require.NoError(t, err)

	profile := extract(context.Background(), doc, profileHtml, "https://clutch.co/profile/nimble-foundry")

	require.Equal(t, "Nimble Foundry", profile.CompanyName)
	require.Equal(t, "Product engineering for ambitious teams", profile.Tagline)
	require.Equal(t,
		"Nimble Foundry designs and ships digital products end to end, from discovery workshops to production operations.",
		profile.Description)
	require.Equal(t, 28, profile.ReviewCount)
	require.Equal(t, 4.8, profile.Rating)
	require.Equal(t, "$10,000+", profile.MinProjectSize)
	require.Equal(t, "$50 - $99 / hr", profile.HourlyRate)
	require.Equal(t, "10 - 49", profile.Employees)
	require.Equal(t, "2015", profile.YearFounded)
	require.Equal(t, "Berlin, Germany", profile.Location)

	diff := cmp.Diff([]Service{
		{Name: "Web Development", Percentage: 40},
		{Name: "Mobile App Development", Percentage: 35},
		{Name: "UX/UI Design", Percentage: 25},
	}, profile.Services)
	if diff != "" {
		t.Fatal(diff)
	}

	require.Equal(t, Contact{
		Email:   "hello@nimblefoundry.test",
		Phone:   "+4930123456789",
		Website: "https://nimblefoundry.test/?utm_source=directory",
	}, profile.Contact)
	require.Equal(t, Social{
		LinkedIn: "https://www.linkedin.com/company/nimble-foundry",
		Twitter:  "https://x.com/nimblefoundry",
	}, profile.Social)
}

func TestExtractNameFallbacks(t *testing.T) {
	cases := []struct {
		name   string
		html   string
		expect string
	}{
		{
			name:   "title trimmed at separator",
			html:   `<html><head><title>Acme Digital | Reviews</title></head><body></body></html>`,
			expect: "Acme Digital",
		},
		{
			name:   "embedded json name",
			html:   `<html><head><script>{"name":"Acme Digital"}</script></head><body></body></html>`,
			expect: "Acme Digital",
		},
		{
			name:   "oversized heading skipped",
			html:   `<html><body><h1>` + strings.Repeat("x", 120) + `</h1><h2>Acme Digital</h2></body></html>`,
			expect: "Acme Digital",
		},
	}

	for _, test := range cases {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(test.html))
		require.NoError(t, err)

		profile := extract(context.Background(), doc, test.html, "https://x.test")
		require.Equal(t, test.expect, profile.CompanyName, test.name)
	}
}
