package sitemaps

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
)

const timestampFormat = "20060102_150405"

// WriteResults serializes the extracted urls as CSV (url,domain
// columns) and plain text (one url per line), both in insertion
// order, into dir. Both filenames carry the run timestamp taken from
// report.StartedAt. Files are staged under a temporary name and
// renamed into place, so a failed write never leaves a partial file
// under the final name.
func WriteResults(urls []ExtractedURL, report RunReport, dir string) (string, string, error) {
	stamp := report.StartedAt.Format(timestampFormat)
	csvPath := filepath.Join(dir, fmt.Sprintf("sitemap_extraction_%s.csv", stamp))
	txtPath := filepath.Join(dir, fmt.Sprintf("sitemap_extraction_%s.txt", stamp))

	err := writeAtomic(csvPath, func(w io.Writer) error {
		cw := csv.NewWriter(w)
		if err := cw.Write([]string{"url", "domain"}); err != nil {
			return err
		}
		for _, u := range urls {
			if err := cw.Write([]string{u.Value, domainOf(u.Value)}); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	})
	if err != nil {
		return "", "", fmt.Errorf("write csv: %w", err)
	}

	err = writeAtomic(txtPath, func(w io.Writer) error {
		bw := bufio.NewWriter(w)
		for _, u := range urls {
			if _, err := fmt.Fprintln(bw, u.Value); err != nil {
				return err
			}
		}
		return bw.Flush()
	})
	if err != nil {
		return "", "", fmt.Errorf("write txt: %w", err)
	}

	return csvPath, txtPath, nil
}

func writeAtomic(path string, fill func(w io.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := fill(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// domainOf extracts the host of a url, best effort. Unparseable
// values yield an empty domain.
func domainOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Host
}
