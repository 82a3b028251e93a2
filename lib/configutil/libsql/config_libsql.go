package configlibsql

import (
	"database/sql"
	"fmt"
	"net/url"

	"clutchintel/lib/sqliteutil"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

type Struct struct {
	File      string `json:"file"`
	Url       string `json:"url"`
	AuthToken string `json:"auth_token"`
}

// OpenDB connects to the configured database and applies the schema.
// A url selects a remote libsql database, otherwise a local sqlite
// file is opened at the given path.
func (config Struct) OpenDB(schema string) (*sql.DB, error) {
	if config.Url == "" {
		if config.File == "" {
			return nil, fmt.Errorf("a database path was not specified")
		}
		return sqliteutil.OpenDB(schema, config.File)
	}

	values := url.Values{}
	if config.AuthToken != "" {
		values.Add("authToken", config.AuthToken)
	}
	db, err := sql.Open("libsql", config.Url+"?"+values.Encode())
	if err != nil {
		return nil, err
	}
	if schema != "" {
		_, err = db.Exec(schema)
		if err != nil {
			db.Close()
			return nil, err
		}
	}
	return db, nil
}
