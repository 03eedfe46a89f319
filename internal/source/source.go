// Package source reads and rewrites the upstream sample CSV. Everything is
// kept as text to avoid type coercion on identifiers, and rewrites go
// through a temp file plus rename so a crash never truncates the source of
// truth.
package source

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"

	"github.com/echosoil/echorepo-lite/internal/model"
)

// ReadTable loads a CSV file into an in-memory table. The first row is the
// header; variable field counts are tolerated and short rows are padded at
// the point of use.
func ReadTable(path string) (*model.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "source: open")
	}
	defer f.Close() //nolint:errcheck

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return model.NewTable(nil), nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "source: read header")
	}

	t := model.NewTable(header)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "source: read row")
		}
		t.AppendRow(record)
	}
	return t, nil
}

// WriteTableAtomic writes the table as CSV to a temp file in the target
// directory and renames it over path in one step.
func WriteTableAtomic(t *model.Table, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return eris.Wrap(err, "source: create dir")
	}

	tmp, err := os.CreateTemp(dir, ".echo-source-*.csv")
	if err != nil {
		return eris.Wrap(err, "source: create temp")
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) //nolint:errcheck

	w := csv.NewWriter(tmp)
	if err := w.Write(t.Columns); err != nil {
		tmp.Close() //nolint:errcheck
		return eris.Wrap(err, "source: write header")
	}
	for i := range t.Rows {
		row := make([]string, len(t.Columns))
		for j := range t.Columns {
			row[j] = t.Value(i, j)
		}
		if err := w.Write(row); err != nil {
			tmp.Close() //nolint:errcheck
			return eris.Wrap(err, "source: write row")
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close() //nolint:errcheck
		return eris.Wrap(err, "source: flush")
	}
	if err := tmp.Close(); err != nil {
		return eris.Wrap(err, "source: close temp")
	}

	return eris.Wrap(os.Rename(tmpPath, path), "source: rename")
}
