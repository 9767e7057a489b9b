package refstore

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/charmap"

	"github.com/giygas/medicaments-safety/entities"
	"github.com/giygas/medicaments-safety/interfaces"
	"github.com/giygas/medicaments-safety/logging"
)

var _ interfaces.Loader = (*TSVLoader)(nil)

// TSVLoader reads one tab separated file per store from Dir
// (medicines.tsv, drug_interactions.tsv, ...). Columns follow the order of
// the store's SQLite query. Blank lines and lines starting with '#' are ignored.
type TSVLoader struct {
	Dir string
	// Latin1 decodes files as ISO-8859-1 instead of UTF-8.
	Latin1 bool
}

func NewTSVLoader(dir string, latin1 bool) *TSVLoader {
	return &TSVLoader{Dir: dir, Latin1: latin1}
}

func (l *TSVLoader) Source() string { return "tsv:" + l.Dir }

func (l *TSVLoader) Load(ctx context.Context) (*entities.Dataset, error) {
	ds := &entities.Dataset{}
	for _, t := range tables {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		path := filepath.Join(l.Dir, t.file+".tsv")
		f, err := os.Open(path)
		if err != nil {
			if t.required || !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to open %s: %w", path, err)
			}
			logging.Warn("Reference file missing, store will be empty", "store", t.name, "path", path)
			continue
		}

		var r io.Reader = f
		if l.Latin1 {
			r = charmap.ISO8859_1.NewDecoder().Reader(f)
		}
		stats, err := readTSV(r, t, ds)
		if cerr := f.Close(); cerr != nil {
			logging.Warn("Failed to close reference TSV file", "path", path, "error", cerr)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		logTableStats(t.name, stats)
	}
	return ds, nil
}

func readTSV(r io.Reader, t table, ds *entities.Dataset) (skipStats, error) {
	var stats skipStats
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		stats.lines++
		line := strings.TrimRight(scanner.Text(), "\r")

		if strings.TrimSpace(line) == "" {
			stats.empty++
			continue
		}
		if strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) < t.columns {
			stats.missingColumns++
			continue
		}

		if err := t.decode(ds, fields[:t.columns]); err != nil {
			logging.Debug("Skipping reference row", "store", t.name, "line", stats.lines, "error", err)
			stats.formatErrors++
			continue
		}
		stats.parsed++
	}
	return stats, scanner.Err()
}
