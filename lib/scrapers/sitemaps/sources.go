package sitemaps

import (
	"bufio"
	"os"
	"strings"
)

// LoadSourceList reads sitemap sources from a text file, one per line.
// Blank lines and lines starting with `#` are skipped.
func LoadSourceList(path string) ([]Source, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var sources []Source
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		sources = append(sources, ParseSource(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return sources, nil
}
