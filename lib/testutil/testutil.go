package testutil

import (
	"database/sql"
	"fmt"
	"testing"

	"clutchintel/lib/sqliteutil"
	"clutchintel/lib/telemetry"
)

type Params struct {
	Name string
	// if unspecified, it will skip setting up a db
	DbSchema string
	// if unspecified, it will use `:memory:`
	DbPath string
}

type Result struct {
	DB *sql.DB
}

// Setup initializes telemetry for a test and, when a schema is given,
// opens a throwaway sqlite database.
func Setup(t testing.TB, params Params) (Result, func()) {
	cleanup := telemetry.SetupForTesting(t, fmt.Sprintf("test:%s", params.Name))

	if params.DbSchema == "" {
		return Result{}, cleanup
	}

	dbpath := params.DbPath
	if dbpath == "" {
		dbpath = ":memory:"
	}
	db, err := sqliteutil.OpenDB(params.DbSchema, dbpath)
	if err != nil {
		t.Fatal(err)
	}

	return Result{DB: db}, func() {
		db.Close()
		cleanup()
	}
}
