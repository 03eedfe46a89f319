// Package planned loads the QR-to-planned-countries table reviewers declare
// before collection trips. The index is an explicit reloadable object, not a
// hidden singleton cache.
package planned

import (
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/echosoil/echorepo-lite/internal/country"
	"github.com/echosoil/echorepo-lite/internal/model"
	"github.com/echosoil/echorepo-lite/internal/source"
)

// Column headers recognized for the QR and planned-country columns,
// matched after trimming and lowercasing.
var (
	qrHeaders      = map[string]bool{"qr code": true, "qr_code": true, "qr": true}
	countryHeaders = map[string]bool{"country planned": true, "planned country": true, "countries planned": true}
)

var splitRe = regexp.MustCompile(`[;,]`)

// Index maps normalized QR codes to the set of ISO2 codes the contributor
// declared. Safe for concurrent readers; Reload swaps the mapping atomically.
type Index struct {
	path string

	mu   sync.RWMutex
	byQR map[string]map[string]bool
}

// Load reads the planned-country table from a CSV or XLSX file.
func Load(path string) (*Index, error) {
	ix := &Index{path: path}
	if err := ix.Reload(); err != nil {
		return nil, err
	}
	return ix, nil
}

// Reload re-reads the source file and replaces the mapping. The explicit
// invalidate/reload operation for callers that keep the index long-lived.
func (ix *Index) Reload() error {
	byQR, err := loadFile(ix.path)
	if err != nil {
		return err
	}
	ix.mu.Lock()
	ix.byQR = byQR
	ix.mu.Unlock()
	return nil
}

// Get returns the planned ISO2 set for a QR code. Never nil; unknown QRs
// yield an empty set.
func (ix *Index) Get(qr string) map[string]bool {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	if set, ok := ix.byQR[strings.TrimSpace(qr)]; ok {
		out := make(map[string]bool, len(set))
		for cc := range set {
			out[cc] = true
		}
		return out
	}
	return map[string]bool{}
}

// Len returns the number of QR codes with at least one planned country.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.byQR)
}

func loadFile(path string) (map[string]map[string]bool, error) {
	var t *model.Table
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xls":
		t, err = readXLSX(path)
	default:
		t, err = source.ReadTable(path)
	}
	if err != nil {
		return nil, err
	}
	return buildMapping(t), nil
}

func buildMapping(t *model.Table) map[string]map[string]bool {
	log := zap.L().With(zap.String("component", "planned"))

	qrCol, countryCol := -1, -1
	for i, c := range t.Columns {
		key := strings.ToLower(strings.TrimSpace(c))
		if qrHeaders[key] && qrCol < 0 {
			qrCol = i
		}
		if countryHeaders[key] && countryCol < 0 {
			countryCol = i
		}
	}
	if qrCol < 0 || countryCol < 0 {
		log.Warn("planned table missing qr or country column", zap.Strings("columns", t.Columns))
		return map[string]map[string]bool{}
	}

	mapping := make(map[string]map[string]bool)
	for i := range t.Rows {
		qr := strings.TrimSpace(t.Value(i, qrCol))
		if qr == "" {
			continue
		}
		set := splitCountries(t.Value(i, countryCol), log)
		if len(set) == 0 {
			continue
		}
		// Duplicate QR rows union rather than overwrite.
		if existing, ok := mapping[qr]; ok {
			for cc := range set {
				existing[cc] = true
			}
			continue
		}
		mapping[qr] = set
	}
	return mapping
}

// splitCountries parses a planned-country cell: comma/semicolon separated
// names, each normalized to ISO2. Unresolvable names are dropped from the
// set and logged, never fatal.
func splitCountries(cell string, log *zap.Logger) map[string]bool {
	set := make(map[string]bool)
	for _, part := range splitRe.Split(cell, -1) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		cc, ok := country.ToISO2(part)
		if !ok {
			log.Warn("unresolvable planned country", zap.String("name", part))
			continue
		}
		set[cc] = true
	}
	return set
}

func readXLSX(path string) (*model.Table, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "planned: open xlsx")
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("planned: xlsx has no sheets")
	}
	sheet := f.Sheets[0]

	var t *model.Table
	for i, row := range sheet.Rows {
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = cell.String()
		}
		if i == 0 {
			t = model.NewTable(cells)
			continue
		}
		t.AppendRow(cells)
	}
	if t == nil {
		t = model.NewTable(nil)
	}
	return t, nil
}
