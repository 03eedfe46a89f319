package build

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/echosoil/echorepo-lite/internal/source"
)

func TestFixCoordinates_RewritesSourceAndStore(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t, basicCSV)
	ctx := context.Background()

	_, err := Build(ctx, cfg)
	require.NoError(t, err)

	res, err := FixCoordinates(ctx, cfg, "S1", "44.25", "8.5")
	require.NoError(t, err)
	assert.Equal(t, 1, res.SourceRows)
	assert.Equal(t, int64(1), res.StoreRows)
	assert.False(t, res.OutOfRange)

	// The source of truth carries the true coordinates.
	src, err := source.ReadTable(cfg.SourcePath)
	require.NoError(t, err)
	latIdx := src.ColumnIndex("GPS_lat")
	assert.Equal(t, "44.25000000", src.Value(0, latIdx))
	assert.Equal(t, "46.0", src.Value(1, latIdx), "other rows untouched")

	// The published store carries a jittered point near, but not at, the fix.
	tbl := publishedSamples(t, cfg)
	published, err := strconv.ParseFloat(tbl.Value(0, tbl.ColumnIndex("GPS_lat")), 64)
	require.NoError(t, err)
	assert.NotEqual(t, 44.25, published)
	assert.InDelta(t, 44.25, published, 0.02)
}

func TestFixCoordinates_OutOfRangeFlaggedNotJittered(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t, basicCSV)
	ctx := context.Background()

	_, err := Build(ctx, cfg)
	require.NoError(t, err)

	res, err := FixCoordinates(ctx, cfg, "S2", "123.45", "9.0")
	require.NoError(t, err)
	assert.True(t, res.OutOfRange)

	// The raw value is published verbatim for review.
	tbl := publishedSamples(t, cfg)
	assert.Equal(t, "123.45000000", tbl.Value(1, tbl.ColumnIndex("GPS_lat")))
}

func TestFixCoordinates_NoPublishedStoreYet(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t, basicCSV)
	res, err := FixCoordinates(context.Background(), cfg, "S1", "44.25", "8.5")
	require.NoError(t, err)
	assert.Equal(t, 1, res.SourceRows)
	assert.Equal(t, int64(0), res.StoreRows)
}

func TestFixCoordinates_UnknownKey(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t, basicCSV)
	_, err := FixCoordinates(context.Background(), cfg, "S999", "44.25", "8.5")
	assert.Error(t, err)
}

func TestFixCoordinates_RejectsGarbage(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t, basicCSV)
	_, err := FixCoordinates(context.Background(), cfg, "S1", "not-a-lat", "8.5")
	assert.Error(t, err)

	_, err = FixCoordinates(context.Background(), cfg, "", "44.25", "8.5")
	assert.Error(t, err)
}
