// Package db manages the DuckDB connection used to ingest tabular
// species data (Parquet or CSV) for the generator.
package db

import (
	"database/sql"
	"fmt"

	_ "github.com/marcboeker/go-duckdb"
)

// Open returns an in-memory DuckDB connection with the extensions needed
// for reading species tables loaded.
func Open() (*sql.DB, error) {
	conn, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("opening duckdb: %w", err)
	}

	// Parquet support ships as an extension; CSV is built in.
	extensions := []string{"parquet"}
	for _, ext := range extensions {
		if _, err := conn.Exec(fmt.Sprintf("INSTALL %s; LOAD %s;", ext, ext)); err != nil {
			// Extension might already be installed, continue
		}
	}

	return conn, nil
}
