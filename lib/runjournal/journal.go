// Package runjournal keeps a row per extraction run so past runs can
// be listed and compared later.
package runjournal

import (
	"context"
	"database/sql"
	"time"

	"clutchintel/lib/runjournal/db"

	"github.com/mazen160/go-random"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

var tracer = otel.Tracer("runjournal")

const (
	KindSitemaps = "sitemaps"
	KindProfiles = "profiles"
)

type Store struct {
	db  *sql.DB
	qry *db.Queries
}

func NewStore(database *sql.DB) Store {
	return Store{
		db:  database,
		qry: db.New(database),
	}
}

type Run struct {
	ID           string
	Kind         string
	StartedAt    time.Time
	FinishedAt   time.Time
	TotalSources int
	Succeeded    int
	Failed       int
	URLCount     int
	OutputCSV    string
	OutputTXT    string
}

// RecordRun inserts a run row under a fresh id and returns the id.
// Any id already set on the run is ignored.
func (s Store) RecordRun(ctx context.Context, run Run) (string, error) {
	ctx, span := tracer.Start(ctx, "RecordRun")
	defer span.End()

	id, err := random.String(8)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to generate run id")
		return "", err
	}
	err = s.qry.CreateExtractionRun(ctx, db.CreateExtractionRunParams{
		ID:           id,
		Kind:         run.Kind,
		StartedAt:    run.StartedAt.Unix(),
		FinishedAt:   run.FinishedAt.Unix(),
		TotalSources: int64(run.TotalSources),
		Succeeded:    int64(run.Succeeded),
		Failed:       int64(run.Failed),
		UrlCount:     int64(run.URLCount),
		OutputCsv:    run.OutputCSV,
		OutputTxt:    run.OutputTXT,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to insert run row")
		return "", err
	}
	return id, nil
}

// ListRuns returns up to limit runs, newest first. A limit of zero or
// less falls back to 20.
func (s Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	ctx, span := tracer.Start(ctx, "ListRuns")
	defer span.End()

	if limit <= 0 {
		limit = 20
	}
	rows, err := s.qry.ListExtractionRuns(ctx, int64(limit))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	runs := make([]Run, len(rows))
	for i, r := range rows {
		runs[i] = runFromRow(r)
	}
	return runs, nil
}

func (s Store) GetRun(ctx context.Context, id string) (Run, error) {
	ctx, span := tracer.Start(ctx, "GetRun")
	defer span.End()

	row, err := s.qry.GetExtractionRun(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Run{}, err
	}
	return runFromRow(row), nil
}

func runFromRow(r db.ExtractionRun) Run {
	return Run{
		ID:           r.ID,
		Kind:         r.Kind,
		StartedAt:    time.Unix(r.StartedAt, 0),
		FinishedAt:   time.Unix(r.FinishedAt, 0),
		TotalSources: int(r.TotalSources),
		Succeeded:    int(r.Succeeded),
		Failed:       int(r.Failed),
		URLCount:     int(r.UrlCount),
		OutputCSV:    r.OutputCsv,
		OutputTXT:    r.OutputTxt,
	}
}
