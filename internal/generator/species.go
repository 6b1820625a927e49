package generator

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// SpeciesRow is one row of the species attribute table: a tree species,
// its flower colour, flowering month ranges, and how prominent the
// flowering is when in season.
type SpeciesRow struct {
	Name       string
	ColourHex  string
	Prominence string
	Flowering  [12]bool // indexed by calendar month, Jan = 0
}

// prominenceWeights maps the table's prominence labels to blending
// weights. Unknown labels weigh the same as "low".
var prominenceWeights = map[string]float64{
	"low":  1.0,
	"med":  2.0,
	"high": 3.0,
}

func prominenceWeight(label string) float64 {
	if w, ok := prominenceWeights[strings.ToLower(strings.TrimSpace(label))]; ok {
		return w
	}
	return prominenceWeights["low"]
}

// LoadSpeciesTable reads the species attribute table through DuckDB.
// Parquet and CSV files are supported, selected by extension. Rows
// missing a colour or a months range are dropped, mirroring the
// published data files.
func LoadSpeciesTable(conn *sql.DB, path string) (map[string]SpeciesRow, error) {
	var reader string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet", ".geoparquet":
		reader = "read_parquet"
	case ".csv":
		reader = "read_csv_auto"
	default:
		return nil, fmt.Errorf("unsupported species table format: %s", path)
	}

	// Table function arguments can't be bound as prepared parameters,
	// so the path is inlined with quote escaping.
	query := fmt.Sprintf(
		`SELECT TreeName, colour, months, prominence FROM %s('%s') WHERE colour IS NOT NULL AND months IS NOT NULL`,
		reader, strings.ReplaceAll(path, "'", "''"),
	)

	rows, err := conn.Query(query)
	if err != nil {
		return nil, fmt.Errorf("reading species table: %w", err)
	}
	defer rows.Close()

	table := make(map[string]SpeciesRow)
	for rows.Next() {
		var name, colour, months string
		var prominence sql.NullString
		if err := rows.Scan(&name, &colour, &months, &prominence); err != nil {
			return nil, fmt.Errorf("scanning species row: %w", err)
		}

		flowering, err := ParseMonthRanges(months)
		if err != nil {
			return nil, fmt.Errorf("species %q: %w", name, err)
		}

		table[name] = SpeciesRow{
			Name:       name,
			ColourHex:  strings.TrimSpace(colour),
			Prominence: prominence.String,
			Flowering:  flowering,
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return table, nil
}

// ParseMonthRanges expands a months expression like "3-5;10-12" into a
// per-month flowering flag array. Ranges are 1-based and inclusive at
// both ends.
func ParseMonthRanges(expr string) ([12]bool, error) {
	var flowering [12]bool

	for _, r := range strings.Split(expr, ";") {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		parts := strings.SplitN(r, "-", 2)
		if len(parts) != 2 {
			return flowering, fmt.Errorf("malformed month range %q", r)
		}
		start, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			return flowering, fmt.Errorf("malformed month range %q", r)
		}
		end, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return flowering, fmt.Errorf("malformed month range %q", r)
		}
		if start < 1 || end > 12 || start > end {
			return flowering, fmt.Errorf("month range %q out of bounds", r)
		}
		for i := start - 1; i <= end-1; i++ {
			flowering[i] = true
		}
	}

	return flowering, nil
}
