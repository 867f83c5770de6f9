// Package store persists matches and shots as flat CSV files.
//
// Files are UTF-8, comma-separated, with a header row. Every write replaces
// the previous file wholesale through a temp file + rename, so readers never
// observe a half-written file and re-fetches never merge with old rows.
package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// Store resolves flat-file paths under a data directory.
type Store struct {
	dir          string
	matchesFile  string
	shotsPattern string
}

// New creates a store. shotsPattern is a fmt pattern with one %s for the
// season, e.g. "tottenham_shots_%s.csv".
func New(dir, matchesFile, shotsPattern string) *Store {
	if dir == "" {
		dir = "."
	}
	return &Store{dir: dir, matchesFile: matchesFile, shotsPattern: shotsPattern}
}

// MatchesPath is the combined match file.
func (s *Store) MatchesPath() string {
	return filepath.Join(s.dir, s.matchesFile)
}

// ShotsPath is the shot file for one season.
func (s *Store) ShotsPath(season string) string {
	return filepath.Join(s.dir, fmt.Sprintf(s.shotsPattern, season))
}

// ShotsExist reports whether the season's shot file is present.
func (s *Store) ShotsExist(season string) bool {
	_, err := os.Stat(s.ShotsPath(season))
	return err == nil
}

// ShotsUpdatedAt returns the modification time of the season's shot file.
func (s *Store) ShotsUpdatedAt(season string) (time.Time, bool) {
	info, err := os.Stat(s.ShotsPath(season))
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

// IsNotExist reports whether err means the requested file is absent.
func IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

// writeFile writes header + rows to path atomically.
func writeFile(path string, header []string, rows [][]string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(header); err != nil {
		tmp.Close()
		return fmt.Errorf("write header: %w", err)
	}
	if err := w.WriteAll(rows); err != nil {
		tmp.Close()
		return fmt.Errorf("write rows: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

// readFile reads a CSV file and returns its rows keyed by header name.
func readFile(path string, required []string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%s: empty file", path)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: read header: %w", path, err)
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[h] = i
	}
	for _, col := range required {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%s: missing column %q", path, col)
		}
	}

	var rows []map[string]string
	for line := 2; ; line++ {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: line %d: %w", path, line, err)
		}
		row := make(map[string]string, len(header))
		for name, i := range index {
			if i < len(rec) {
				row[name] = rec[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// SweepTemp removes temp files left behind by interrupted writes that are
// older than maxAge. It returns how many files were removed.
func (s *Store) SweepTemp(maxAge time.Duration) (int, error) {
	matches, err := filepath.Glob(filepath.Join(s.dir, ".*.tmp"))
	if err != nil {
		return 0, err
	}
	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, path := range matches {
		info, err := os.Stat(path)
		if err != nil || info.IsDir() || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(path); err != nil && !IsNotExist(err) {
			return removed, fmt.Errorf("remove %s: %w", path, err)
		}
		removed++
	}
	return removed, nil
}
