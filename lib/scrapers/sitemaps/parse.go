package sitemaps

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

var MalformedDocument = fmt.Errorf("malformed sitemap document")

// Parse extracts the `<loc>` values from a sitemap document. A
// `<sitemapindex>` root yields the locations of its `<sitemap>`
// entries, a `<urlset>` root the locations of its `<url>` entries,
// both in document order. Entries without a usable location are
// skipped. Damaged markup after the root element truncates the result
// instead of failing; a document with no root element at all is
// MalformedDocument.
func Parse(data []byte) ([]string, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))

	var (
		urls     []string
		rootName string
		entryTag string
		depth    int
		inEntry  bool
		entryHit bool
		inLoc    bool
		locText  strings.Builder
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			if rootName == "" {
				return nil, fmt.Errorf("%w: %v", MalformedDocument, err)
			}
			// damaged tail, keep what was collected so far
			break
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			switch depth {
			case 1:
				rootName = strings.ToLower(t.Name.Local)
				switch rootName {
				case "sitemapindex":
					entryTag = "sitemap"
				case "urlset":
					entryTag = "url"
				}
			case 2:
				if entryTag != "" && strings.EqualFold(t.Name.Local, entryTag) {
					inEntry = true
					entryHit = false
				}
			case 3:
				if inEntry && !entryHit && strings.EqualFold(t.Name.Local, "loc") {
					inLoc = true
					locText.Reset()
				}
			}

		case xml.EndElement:
			if inLoc && depth == 3 {
				inLoc = false
				entryHit = true
				if loc := strings.TrimSpace(locText.String()); loc != "" {
					urls = append(urls, loc)
				}
			}
			if inEntry && depth == 2 {
				inEntry = false
			}
			depth--

		case xml.CharData:
			if inLoc {
				locText.Write(t)
			}
		}
	}

	if rootName == "" {
		return nil, MalformedDocument
	}
	return urls, nil
}
