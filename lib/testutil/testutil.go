package testutil

import (
	configlibsql "apiprobe/lib/configutil/libsql"
	"apiprobe/lib/telemetry"
	"database/sql"
	"fmt"
	"testing"
)

type Params struct {
	Name string
	// if unspecified, no schema is applied
	DbSchema string
	// if unspecified, it will use `:memory:`
	DbPath string
}

// SetupDB sets up telemetry for the test and opens a database with
// `params.DbSchema` applied, both are torn down when the test ends.
func SetupDB(t testing.TB, params Params) *sql.DB {
	t.Cleanup(telemetry.SetupForTesting(t, fmt.Sprintf("test:%s", params.Name)))

	dbpath := params.DbPath
	if dbpath == "" {
		dbpath = ":memory:"
	}
	database, err := configlibsql.Struct{File: dbpath}.OpenDB()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { database.Close() })

	if params.DbSchema != "" {
		_, err = database.Exec(params.DbSchema)
		if err != nil {
			t.Fatal(err)
		}
	}
	return database
}
