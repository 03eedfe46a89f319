// Package validate annotates published sample rows with country-mismatch
// results: resolved country versus the contributor's declared travel plan.
// Results are data, never errors; unresolved rows stay visible with an
// unknown country so partial results always render.
package validate

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/echosoil/echorepo-lite/internal/coord"
	"github.com/echosoil/echorepo-lite/internal/model"
	"github.com/echosoil/echorepo-lite/internal/resolve"
)

// PlannedIndex supplies the declared country set per QR code.
type PlannedIndex interface {
	Get(qr string) map[string]bool
}

// Options configures one validation pass.
type Options struct {
	// QRColumn overrides the declared-plan key column. Defaults to QR_qrCode.
	QRColumn string

	PreferredLat string
	PreferredLon string

	// Sentinel pair marking rows whose GPS was never captured.
	SentinelLat float64
	SentinelLon float64

	ChunkSize    int
	ChunkTimeout time.Duration
}

func (o Options) qrColumn() string {
	if o.QRColumn != "" {
		return o.QRColumn
	}
	return "QR_qrCode"
}

// Annotate computes one annotation per row. Sentinel rows are excluded from
// both resolution and mismatch determination; they are their own issue
// category ("GPS never captured"). Rows whose coordinates fail to parse keep
// HasCoords=false and an unknown country.
func Annotate(ctx context.Context, t *model.Table, idx PlannedIndex, r resolve.Resolver, opts Options) ([]model.Annotation, error) {
	latCol, lonCol, ok := coord.PickLatLon(t.Columns, opts.PreferredLat, opts.PreferredLon)
	if !ok {
		return nil, eris.New("validate: could not detect coordinate columns")
	}
	latIdx := t.ColumnIndex(latCol)
	lonIdx := t.ColumnIndex(lonCol)
	qrIdx := t.ColumnIndex(opts.qrColumn())
	sampleIdx := t.ColumnIndex("sampleId")

	annotations := make([]model.Annotation, t.Len())
	var points []resolve.Point
	var pointRows []int

	for i := range t.Rows {
		a := model.Annotation{Row: i, PlannedSet: map[string]bool{}}
		if qrIdx >= 0 {
			a.QRCode = strings.TrimSpace(t.Value(i, qrIdx))
		}
		a.NaturalKey = a.QRCode
		if sampleIdx >= 0 {
			if v := strings.TrimSpace(t.Value(i, sampleIdx)); v != "" {
				a.NaturalKey = v
			}
		}
		if idx != nil && a.QRCode != "" {
			a.PlannedSet = idx.Get(a.QRCode)
		}

		lat, latErr := coord.Parse(t.Value(i, latIdx), coord.AxisLat)
		lon, lonErr := coord.Parse(t.Value(i, lonIdx), coord.AxisLon)
		if latErr == nil && lonErr == nil {
			a.HasCoords = true
			a.Lat, a.Lon = lat, lon
			if lat == opts.SentinelLat && lon == opts.SentinelLon {
				// Known placeholder; no value in resolving it.
				a.IsDefaultSentinel = true
			} else {
				points = append(points, resolve.Point{Lat: lat, Lon: lon})
				pointRows = append(pointRows, i)
			}
		}
		annotations[i] = a
	}

	if len(points) > 0 && r != nil {
		chunked := &resolve.Chunked{Inner: r, ChunkSize: opts.ChunkSize, Timeout: opts.ChunkTimeout}
		results := chunked.Resolve(ctx, points)
		for i, row := range pointRows {
			annotations[row].ActualCountry = results[i]
		}
	}

	for i := range annotations {
		a := &annotations[i]
		a.PlannedMatch = !a.IsDefaultSentinel &&
			len(a.PlannedSet) > 0 &&
			a.ActualCountry != resolve.Unknown &&
			a.PlannedSet[a.ActualCountry]
	}

	zap.L().Debug("validation pass complete",
		zap.String("component", "validate"),
		zap.Int("rows", t.Len()),
		zap.Int("resolved", len(points)),
	)
	return annotations, nil
}

// ConfirmedMismatches filters annotations down to rows where a mismatch is
// certain: a non-empty planned set, a known resolved country, and no match.
// Sentinel rows, unknown countries, and empty plans are excluded; they stay
// visible in the full annotation list for diagnostics.
func ConfirmedMismatches(annotations []model.Annotation) []model.Annotation {
	var out []model.Annotation
	for _, a := range annotations {
		if a.IsDefaultSentinel || len(a.PlannedSet) == 0 || a.ActualCountry == resolve.Unknown {
			continue
		}
		if !a.PlannedSet[a.ActualCountry] {
			out = append(out, a)
		}
	}
	return out
}

// FindSentinelRows returns the indices of rows whose coordinates exactly
// equal the configured sentinel pair.
func FindSentinelRows(t *model.Table, opts Options) ([]int, error) {
	latCol, lonCol, ok := coord.PickLatLon(t.Columns, opts.PreferredLat, opts.PreferredLon)
	if !ok {
		return nil, eris.New("validate: could not detect coordinate columns")
	}
	latIdx := t.ColumnIndex(latCol)
	lonIdx := t.ColumnIndex(lonCol)

	var rows []int
	for i := range t.Rows {
		lat, latErr := coord.Parse(t.Value(i, latIdx), coord.AxisLat)
		lon, lonErr := coord.Parse(t.Value(i, lonIdx), coord.AxisLon)
		if latErr != nil || lonErr != nil {
			continue
		}
		if lat == opts.SentinelLat && lon == opts.SentinelLon {
			rows = append(rows, i)
		}
	}
	return rows, nil
}
