// Package store is the canonical published sample store: a single sqlite
// file that readers query while rebuilds prepare a replacement next to it.
// The samples table is created dynamically from the source header
// (everything is text), and the enrichment table carries externally uploaded
// measurements that must survive rebuilds.
package store

import (
	"context"
	"database/sql"
	"strings"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/echosoil/echorepo-lite/internal/model"
)

// Key columns tried when patching a published row by natural key.
var naturalKeyColumns = []string{"sampleId", "QR_qrCode"}

// Lookup indexes built on the published store, applied only when the column
// actually exists in the source header.
var indexColumns = []struct {
	Suffix string
	Column string
}{
	{"email", "email"},
	{"userId", "userId"},
	{"qr", "QR_qrCode"},
	{"sample", "sampleId"},
	{"date", "collectedAt"},
}

// Store wraps one sqlite database holding the samples table plus the
// enrichment table.
type Store struct {
	db    *sql.DB
	table string
}

// Open opens the store the way the published copy is served: WAL with a
// busy timeout.
func Open(path, table string) (*Store, error) {
	return open(path, table, []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	})
}

// OpenBulk opens the store for a one-shot bulk build at a temporary path.
// Journaling is off: the file is throwaway until the publish rename, and
// must end up as a single file with no WAL sidecars.
func OpenBulk(path, table string) (*Store, error) {
	return open(path, table, []string{
		"PRAGMA journal_mode=OFF",
		"PRAGMA synchronous=OFF",
	})
}

func open(path, table string, pragmas []string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrap(err, "store: open")
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close() //nolint:errcheck
			return nil, eris.Wrapf(err, "store: exec %s", pragma)
		}
	}
	return &Store{db: db, table: table}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Migrate creates the enrichment table.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS enrichment (
	natural_key    TEXT NOT NULL,
	parameter      TEXT NOT NULL,
	value          TEXT,
	unit           TEXT,
	contributor_id TEXT,
	raw_payload    TEXT,
	updated_at     DATETIME NOT NULL,
	PRIMARY KEY (natural_key, parameter)
)`)
	return eris.Wrap(err, "store: migrate")
}

// SamplesTableExists reports whether the samples table has been published
// into this store.
func (s *Store) SamplesTableExists(ctx context.Context) (bool, error) {
	return s.tableExists(ctx, s.table)
}

func (s *Store) tableExists(ctx context.Context, name string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name=?`, name,
	).Scan(&n)
	if err != nil {
		return false, eris.Wrapf(err, "store: check table %s", name)
	}
	return n == 1, nil
}

// ReplaceSamples drops and recreates the samples table from the given
// in-memory table. All columns are TEXT; rows are inserted in one
// transaction.
func (s *Store) ReplaceSamples(ctx context.Context, t *model.Table) error {
	if len(t.Columns) == 0 {
		return eris.New("store: source table has no columns")
	}

	if _, err := s.db.ExecContext(ctx, `DROP TABLE IF EXISTS `+quoteIdent(s.table)); err != nil {
		return eris.Wrap(err, "store: drop samples")
	}

	cols := make([]string, len(t.Columns))
	marks := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		cols[i] = quoteIdent(c) + " TEXT"
		marks[i] = "?"
	}
	create := "CREATE TABLE " + quoteIdent(s.table) + " (" + strings.Join(cols, ", ") + ")"
	if _, err := s.db.ExecContext(ctx, create); err != nil {
		return eris.Wrap(err, "store: create samples")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "store: begin insert")
	}
	defer tx.Rollback() //nolint:errcheck

	insert := "INSERT INTO " + quoteIdent(s.table) + " VALUES (" + strings.Join(marks, ", ") + ")"
	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return eris.Wrap(err, "store: prepare insert")
	}
	defer stmt.Close() //nolint:errcheck

	args := make([]any, len(t.Columns))
	for i := range t.Rows {
		for j := range t.Columns {
			args[j] = t.Value(i, j)
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return eris.Wrapf(err, "store: insert row %d", i)
		}
	}
	return eris.Wrap(tx.Commit(), "store: commit insert")
}

// CreateIndexes builds the lookup indexes for key columns present in the
// published table.
func (s *Store) CreateIndexes(ctx context.Context) error {
	present, err := s.columnSet(ctx)
	if err != nil {
		return err
	}
	for _, ix := range indexColumns {
		col, ok := present[strings.ToLower(ix.Column)]
		if !ok {
			continue
		}
		stmt := "CREATE INDEX IF NOT EXISTS " +
			quoteIdent("idx_"+s.table+"_"+ix.Suffix) +
			" ON " + quoteIdent(s.table) + " (" + quoteIdent(col) + ")"
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return eris.Wrapf(err, "store: create index %s", ix.Suffix)
		}
	}
	return nil
}

// Samples reads the whole published table back into memory.
func (s *Store) Samples(ctx context.Context) (*model.Table, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT * FROM `+quoteIdent(s.table))
	if err != nil {
		return nil, eris.Wrap(err, "store: query samples")
	}
	defer rows.Close() //nolint:errcheck

	cols, err := rows.Columns()
	if err != nil {
		return nil, eris.Wrap(err, "store: sample columns")
	}
	t := model.NewTable(cols)

	for rows.Next() {
		vals := make([]sql.NullString, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, eris.Wrap(err, "store: scan sample")
		}
		cells := make([]string, len(cols))
		for i, v := range vals {
			if v.Valid {
				cells[i] = v.String
			}
		}
		t.AppendRow(cells)
	}
	return t, eris.Wrap(rows.Err(), "store: iterate samples")
}

// UpdateSampleCoords patches the coordinate columns of published rows
// matching naturalKey on any natural key column present. Returns the number
// of patched rows.
func (s *Store) UpdateSampleCoords(ctx context.Context, latCol, lonCol, naturalKey, lat, lon string) (int64, error) {
	present, err := s.columnSet(ctx)
	if err != nil {
		return 0, err
	}

	conds := make([]string, 0, len(naturalKeyColumns))
	args := []any{lat, lon}
	for _, kc := range naturalKeyColumns {
		if col, ok := present[strings.ToLower(kc)]; ok {
			conds = append(conds, quoteIdent(col)+" = ?")
			args = append(args, naturalKey)
		}
	}
	if len(conds) == 0 {
		return 0, eris.New("store: no natural key column in published table")
	}

	stmt := "UPDATE " + quoteIdent(s.table) +
		" SET " + quoteIdent(latCol) + " = ?, " + quoteIdent(lonCol) + " = ?" +
		" WHERE " + strings.Join(conds, " OR ")
	res, err := s.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return 0, eris.Wrapf(err, "store: update coords %s", naturalKey)
	}
	n, err := res.RowsAffected()
	return n, eris.Wrap(err, "store: rows affected")
}

func (s *Store) columnSet(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM pragma_table_info(?)`, s.table)
	if err != nil {
		return nil, eris.Wrap(err, "store: table info")
	}
	defer rows.Close() //nolint:errcheck

	present := make(map[string]string)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, eris.Wrap(err, "store: scan table info")
		}
		present[strings.ToLower(name)] = name
	}
	return present, eris.Wrap(rows.Err(), "store: iterate table info")
}

// quoteIdent quotes an identifier for sqlite, doubling embedded quotes.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
