// Package store reads the per-month hexagon distribution files, either
// from the local data directory or over HTTP from a static host.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/paulmach/orb/geojson"

	"github.com/urbanbloom/bloomgrid/internal/hexgrid"
)

// fileRe matches distribution file names and captures (month, resolution).
var fileRe = regexp.MustCompile(`^h3_tree_distribution_([A-Z][a-z]{2})_resolution_(\d+)\.geojson$`)

// MonthFile describes one published distribution file.
type MonthFile struct {
	Month      string `json:"month" doc:"Month code" example:"Mar"`
	Resolution int    `json:"resolution" doc:"H3 resolution" example:"10"`
	Name       string `json:"name" doc:"File name" example:"h3_tree_distribution_Mar_resolution_10.geojson"`
	Size       string `json:"size" doc:"Human-readable file size" example:"412.7 KB"`
}

// Store serves distribution files from <dataDir>/geojson.
type Store struct {
	geojsonDir string
}

// New creates a store rooted at dataDir.
func New(dataDir string) *Store {
	return &Store{
		geojsonDir: filepath.Join(dataDir, "geojson"),
	}
}

// Months returns the published distribution files in calendar order.
// Files whose names don't match the contract are ignored.
func (s *Store) Months() ([]MonthFile, error) {
	entries, err := os.ReadDir(s.geojsonDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []MonthFile{}, nil
		}
		return nil, err
	}

	byMonth := make(map[string]MonthFile)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		m := fileRe.FindStringSubmatch(entry.Name())
		if m == nil || !hexgrid.IsMonth(m[1]) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		res, _ := strconv.Atoi(m[2])
		byMonth[m[1]] = MonthFile{
			Month:      m[1],
			Resolution: res,
			Name:       entry.Name(),
			Size:       formatSize(info.Size()),
		}
	}

	files := make([]MonthFile, 0, len(byMonth))
	for _, month := range hexgrid.Months {
		if f, ok := byMonth[month]; ok {
			files = append(files, f)
		}
	}
	return files, nil
}

// Path returns the on-disk path for a month's distribution file.
func (s *Store) Path(month string) string {
	return filepath.Join(s.geojsonDir, hexgrid.FileName(month, hexgrid.ShippedResolution))
}

// Read loads and parses a month's distribution file.
func (s *Store) Read(month string) (*geojson.FeatureCollection, error) {
	data, err := os.ReadFile(s.Path(month))
	if err != nil {
		return nil, err
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", hexgrid.FileName(month, hexgrid.ShippedResolution), err)
	}
	return fc, nil
}

// Dir returns the path to the geojson directory.
func (s *Store) Dir() string {
	return s.geojsonDir
}

// formatSize returns a human-readable file size.
func formatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
