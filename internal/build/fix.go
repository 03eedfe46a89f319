package build

import (
	"context"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/echosoil/echorepo-lite/internal/coord"
	"github.com/echosoil/echorepo-lite/internal/jitter"
	"github.com/echosoil/echorepo-lite/internal/model"
	"github.com/echosoil/echorepo-lite/internal/source"
	"github.com/echosoil/echorepo-lite/internal/store"
)

// FixResult reports what a manual coordinate correction touched.
type FixResult struct {
	NaturalKey string
	SourceRows int
	StoreRows  int64

	// OutOfRange flags corrections outside world bounds. They are accepted
	// and written for human review instead of being rejected, and are not
	// jittered.
	OutOfRange bool
}

// FixCoordinates applies a manual coordinate correction: the upstream source
// of truth is rewritten with the true coordinates, and the already-published
// store is patched (with jittered values) so the fix is visible before the
// next full rebuild. Out-of-range values are flagged, not rejected; this is
// the loose-parse policy of the manual path.
func FixCoordinates(ctx context.Context, cfg Config, naturalKey, latRaw, lonRaw string) (*FixResult, error) {
	naturalKey = strings.TrimSpace(naturalKey)
	if naturalKey == "" {
		return nil, eris.New("build: empty natural key")
	}

	lat, err := coord.ParseLoose(latRaw, coord.AxisLat)
	if err != nil {
		return nil, err
	}
	lon, err := coord.ParseLoose(lonRaw, coord.AxisLon)
	if err != nil {
		return nil, err
	}
	outOfRange := lat.OutOfRange || lon.OutOfRange

	t, err := source.ReadTable(cfg.SourcePath)
	if err != nil {
		return nil, err
	}
	latCol, lonCol, ok := coord.PickLatLon(t.Columns, cfg.PreferredLat, cfg.PreferredLon)
	if !ok {
		return nil, eris.New("build: could not detect coordinate columns in source")
	}

	matched, stableKey := patchSourceRows(t, naturalKey, latCol, lonCol, lat.Value, lon.Value)
	if matched == 0 {
		return nil, eris.Errorf("build: natural key %q not found in source", naturalKey)
	}
	if err := source.WriteTableAtomic(t, cfg.SourcePath); err != nil {
		return nil, err
	}

	res := &FixResult{NaturalKey: naturalKey, SourceRows: matched, OutOfRange: outOfRange}

	storeLat, storeLon := lat.Value, lon.Value
	if !outOfRange {
		storeLat, storeLon = jitter.Jitter(lat.Value, lon.Value, stableKey, cfg.Salt, cfg.RadiusMeters)
	}
	patched, err := patchPublishedStore(ctx, cfg, latCol, lonCol, naturalKey, storeLat, storeLon)
	if err != nil {
		return nil, err
	}
	res.StoreRows = patched

	zap.L().Info("coordinates fixed",
		zap.String("component", "build"),
		zap.String("natural_key", naturalKey),
		zap.Int("source_rows", matched),
		zap.Int64("store_rows", patched),
		zap.Bool("out_of_range", outOfRange),
	)
	return res, nil
}

// patchSourceRows updates every source row whose natural key column matches,
// and returns the stable key of the first matched row for jitter seeding.
func patchSourceRows(t *model.Table, naturalKey, latCol, lonCol string, lat, lon float64) (int, string) {
	latIdx := t.ColumnIndex(latCol)
	lonIdx := t.ColumnIndex(lonCol)

	var keyCols []int
	for _, kc := range []string{"sampleId", "QR_qrCode"} {
		if idx := t.ColumnIndex(kc); idx >= 0 {
			keyCols = append(keyCols, idx)
		}
	}

	matched := 0
	stableKey := naturalKey
	for i := range t.Rows {
		hit := false
		for _, kc := range keyCols {
			if strings.TrimSpace(t.Value(i, kc)) == naturalKey {
				hit = true
				break
			}
		}
		if !hit {
			continue
		}
		if matched == 0 {
			stableKey = chooseStableKey(t, i)
		}
		t.SetValue(i, latIdx, formatCoord(lat))
		t.SetValue(i, lonIdx, formatCoord(lon))
		matched++
	}
	return matched, stableKey
}

func patchPublishedStore(ctx context.Context, cfg Config, latCol, lonCol, naturalKey string, lat, lon float64) (int64, error) {
	if _, err := os.Stat(cfg.StorePath); err != nil {
		return 0, nil // nothing published yet; the next rebuild picks up the fix
	}
	s, err := store.Open(cfg.StorePath, cfg.Table)
	if err != nil {
		return 0, err
	}
	defer s.Close() //nolint:errcheck
	return s.UpdateSampleCoords(ctx, latCol, lonCol, naturalKey, formatCoord(lat), formatCoord(lon))
}
