// Package sitemaps fetches sitemap XML documents from remote urls or
// local files, extracts the page urls they list and aggregates them
// across a batch run with retry, rotation and dedup semantics.
package sitemaps

import (
	"strings"
	"time"

	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("scrapers/sitemaps")

type SourceKind string

const (
	KindRemote SourceKind = "remote"
	KindLocal  SourceKind = "local"
)

// Source points at one sitemap document. Immutable once built.
type Source struct {
	Kind     SourceKind
	Location string
}

func RemoteSource(url string) Source {
	return Source{Kind: KindRemote, Location: url}
}

func LocalSource(path string) Source {
	return Source{Kind: KindLocal, Location: path}
}

// ParseSource classifies a location as remote or local by scheme.
func ParseSource(location string) Source {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return RemoteSource(location)
	}
	return LocalSource(location)
}

type Status string

const (
	StatusOk      Status = "ok"
	StatusBlocked Status = "blocked"
	StatusTimeout Status = "timeout"
	StatusError   Status = "error"
)

// FetchResult is the terminal outcome of fetching one source.
// Payload is only set when Status is ok.
type FetchResult struct {
	Source       Source
	Status       Status
	Payload      []byte
	AttemptCount int
	Err          error
}

// ExtractedURL is one deduplicated url. Origin is the source it was
// first seen in.
type ExtractedURL struct {
	Value  string
	Origin Source
}

type SourceFailure struct {
	Source       Source
	Status       Status
	AttemptCount int
	Reason       string
}

// RunReport summarizes one batch run. Failed sources contribute zero
// urls but are always enumerable through Failures.
type RunReport struct {
	TotalSources int
	Succeeded    int
	Failed       int
	URLCount     int
	StartedAt    time.Time
	FinishedAt   time.Time
	Failures     []SourceFailure
}

func (r RunReport) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

func (r RunReport) SuccessRate() float64 {
	if r.TotalSources == 0 {
		return 0
	}
	return float64(r.Succeeded) / float64(r.TotalSources)
}
