package sitemaps

// HeaderProfile is a fixed set of request headers presented as one
// client fingerprint. Profiles rotate across retries of a source.
type HeaderProfile map[string]string

// DefaultHeaderProfiles returns the builtin rotation: a desktop
// browser, a plain xml client and a search engine bot.
//
// Accept-Encoding is deliberately left unset so the transport keeps
// negotiating and decompressing gzip on its own.
func DefaultHeaderProfiles() []HeaderProfile {
	return []HeaderProfile{
		{
			"User-Agent":      "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
			"Accept-Language": "en-US,en;q=0.5",
		},
		{
			"User-Agent": "clutchintel-sitemap-parser/1.0",
			"Accept":     "application/xml,text/xml,*/*",
		},
		{
			"User-Agent": "Googlebot/2.1 (+http://www.google.com/bot.html)",
			"Accept":     "*/*",
		},
	}
}
