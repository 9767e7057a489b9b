package refstore

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/giygas/medicaments-safety/entities"
	"github.com/giygas/medicaments-safety/interfaces"
	"github.com/giygas/medicaments-safety/logging"

	_ "modernc.org/sqlite"
)

var _ interfaces.Loader = (*SQLiteLoader)(nil)

// SQLiteLoader reads one SQLite database per store from Dir
// (medicines.db, drug_interactions.db, conditions.db, ...).
// Only medicines.db is required; a missing optional database loads as an empty store.
type SQLiteLoader struct {
	Dir string
}

func NewSQLiteLoader(dir string) *SQLiteLoader {
	return &SQLiteLoader{Dir: dir}
}

func (l *SQLiteLoader) Source() string { return "sqlite:" + l.Dir }

// Load reads every store concurrently. Each table writes its own Dataset field.
func (l *SQLiteLoader) Load(ctx context.Context) (*entities.Dataset, error) {
	ds := &entities.Dataset{}
	g, ctx := errgroup.WithContext(ctx)

	for _, t := range tables {
		t := t
		g.Go(func() error {
			path := filepath.Join(l.Dir, t.file+".db")
			if _, err := os.Stat(path); err != nil {
				if t.required {
					return fmt.Errorf("required %s database %s: %w", t.name, path, err)
				}
				logging.Warn("Reference database missing, store will be empty", "store", t.name, "path", path)
				return nil
			}
			return loadSQLiteTable(ctx, path, t, ds)
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return ds, nil
}

func loadSQLiteTable(ctx context.Context, path string, t table, ds *entities.Dataset) (err error) {
	db, err := sql.Open("sqlite", readOnlyDSN(path))
	if err != nil {
		return fmt.Errorf("failed to open %s database: %w", t.name, err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			logging.Warn("Failed to close reference database", "store", t.name, "error", cerr)
		}
	}()

	rows, err := db.QueryContext(ctx, t.query)
	if err != nil {
		if !t.required && isMissingTable(err) {
			logging.Warn("Reference table missing, store will be empty", "store", t.name, "path", path)
			return nil
		}
		return fmt.Errorf("failed to query %s: %w", t.name, err)
	}
	defer rows.Close()

	var stats skipStats
	fields := make([]string, t.columns)
	dest := make([]any, t.columns)
	for i := range fields {
		dest[i] = &fields[i]
	}

	for rows.Next() {
		stats.lines++
		if err := rows.Scan(dest...); err != nil {
			stats.formatErrors++
			continue
		}
		if err := t.decode(ds, fields); err != nil {
			logging.Debug("Skipping reference row", "store", t.name, "row", stats.lines, "error", err)
			stats.formatErrors++
			continue
		}
		stats.parsed++
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read %s rows: %w", t.name, err)
	}

	logTableStats(t.name, stats)
	return nil
}

func readOnlyDSN(path string) string {
	return (&url.URL{Scheme: "file", Path: path, RawQuery: "mode=ro"}).String()
}

func isMissingTable(err error) bool {
	return strings.Contains(err.Error(), "no such table")
}

func logTableStats(store string, s skipStats) {
	if s.skipped() {
		logging.Info("Reference store skip statistics",
			"store", store,
			"empty_lines", s.empty,
			"missing_columns", s.missingColumns,
			"format_errors", s.formatErrors,
			"total_lines", s.lines,
			"records_parsed", s.parsed)
	}
	logging.Debug("Reference store loaded", "store", store, "records", s.parsed)
}
