package refstore

import (
	"fmt"

	"github.com/giygas/medicaments-safety/interfaces"
)

// Source kinds accepted by New.
const (
	SourceSQLite = "sqlite"
	SourceTSV    = "tsv"
	SourceSample = "sample"
)

// New returns the loader for kind reading from dir.
func New(kind, dir string, latin1 bool) (interfaces.Loader, error) {
	switch kind {
	case SourceSQLite:
		return NewSQLiteLoader(dir), nil
	case SourceTSV:
		return NewTSVLoader(dir, latin1), nil
	case SourceSample:
		return SampleLoader{}, nil
	default:
		return nil, fmt.Errorf("unknown data source %q", kind)
	}
}
