package generator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urbanbloom/bloomgrid/internal/db"
)

func TestParseMonthRanges(t *testing.T) {
	t.Run("single range", func(t *testing.T) {
		flowering, err := ParseMonthRanges("3-5")
		require.NoError(t, err)
		assert.Equal(t, [12]bool{false, false, true, true, true}, flowering)
	})

	t.Run("multiple ranges", func(t *testing.T) {
		flowering, err := ParseMonthRanges("1-2;11-12")
		require.NoError(t, err)
		assert.Equal(t, [12]bool{true, true, false, false, false, false, false, false, false, false, true, true}, flowering)
	})

	t.Run("single month range", func(t *testing.T) {
		flowering, err := ParseMonthRanges("6-6")
		require.NoError(t, err)
		assert.Equal(t, [12]bool{5: true}, flowering)
	})

	t.Run("full year", func(t *testing.T) {
		flowering, err := ParseMonthRanges("1-12")
		require.NoError(t, err)
		for i, f := range flowering {
			assert.True(t, f, "month %d", i+1)
		}
	})

	t.Run("malformed", func(t *testing.T) {
		for _, expr := range []string{"3", "a-b", "0-4", "10-13", "8-3"} {
			_, err := ParseMonthRanges(expr)
			assert.Error(t, err, "expr %q", expr)
		}
	})
}

func TestLoadSpeciesTableCSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "species.csv")
	csv := `TreeName,colour,months,prominence
Gulmohar,#e4572e,4-6,high
Jacaranda,#8e6bbf,2-4,med
Neem,,5-6,low
Amaltas,#ffd700,,med
Tabebuia,#f49ac2,1-2;12-12,low
`
	require.NoError(t, os.WriteFile(path, []byte(csv), 0644))

	conn, err := db.Open()
	require.NoError(t, err)
	defer conn.Close()

	table, err := LoadSpeciesTable(conn, path)
	require.NoError(t, err)

	// rows without colour or months are dropped
	require.Len(t, table, 3)

	gulmohar := table["Gulmohar"]
	assert.Equal(t, "#e4572e", gulmohar.ColourHex)
	assert.Equal(t, "high", gulmohar.Prominence)
	assert.True(t, gulmohar.Flowering[3]) // Apr
	assert.False(t, gulmohar.Flowering[0])

	tabebuia := table["Tabebuia"]
	assert.True(t, tabebuia.Flowering[0])
	assert.True(t, tabebuia.Flowering[11])
	assert.False(t, tabebuia.Flowering[5])
}

func TestLoadSpeciesTableUnsupportedFormat(t *testing.T) {
	conn, err := db.Open()
	require.NoError(t, err)
	defer conn.Close()

	_, err = LoadSpeciesTable(conn, "species.xlsx")
	assert.Error(t, err)
}
