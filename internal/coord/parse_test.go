package coord

import (
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Decimal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		axis Axis
		want float64
	}{
		{"plain", "45.5", AxisLat, 45.5},
		{"integer", "46", AxisLat, 46},
		{"negative", "-12.25", AxisLat, -12.25},
		{"plus sign", "+9.75", AxisLon, 9.75},
		{"comma separator", "45,5", AxisLat, 45.5},
		{"whitespace", "  11.35  ", AxisLon, 11.35},
		{"unicode minus", "−8.5", AxisLon, -8.5},
		{"lon beyond lat range", "120.5", AxisLon, 120.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Parse(tt.raw, tt.axis)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestParse_DMS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		axis Axis
		want float64
	}{
		{"degrees only", "46°", AxisLat, 46},
		{"degrees minutes", "46°30'", AxisLat, 46.5},
		{"degrees minutes seconds", `46°30'36"`, AxisLat, 46.51},
		{"hemisphere north", "46°30'N", AxisLat, 46.5},
		{"hemisphere south", "46°30'S", AxisLat, -46.5},
		{"hemisphere west", "12°30'W", AxisLon, -12.5},
		{"hemisphere overrides sign", "-12°30'N", AxisLat, 12.5},
		{"ascii marks", "46d30m", AxisLat, 46.5},
		{"unicode prime marks", "9°15′30″E", AxisLon, 9.2583333},
		{"decimal seconds", `7°0'30.6"`, AxisLat, 7.0085},
		{"bare hemisphere decimal", "45.5N", AxisLat, 45.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Parse(tt.raw, tt.axis)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-6)
		})
	}
}

// A fractional degree token with no minute or second part is decimal degrees,
// not sixty minutes.
func TestParse_FractionalDegreeToken(t *testing.T) {
	t.Parallel()

	got, err := Parse("46.5°N", AxisLat)
	require.NoError(t, err)
	assert.InDelta(t, 46.5, got, 1e-9)

	got, err = Parse("46,5°", AxisLat)
	require.NoError(t, err)
	assert.InDelta(t, 46.5, got, 1e-9)
}

func TestParse_Unparseable(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "   ", "abc", "12.3.4", "N46E009", "--5"} {
		t.Run("raw="+raw, func(t *testing.T) {
			t.Parallel()
			_, err := Parse(raw, AxisLat)
			require.Error(t, err)
			assert.True(t, eris.Is(err, ErrUnparseable))
		})
	}
}

func TestParse_OutOfRange(t *testing.T) {
	t.Parallel()

	_, err := Parse("91", AxisLat)
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrOutOfRange))

	_, err = Parse("-180.5", AxisLon)
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrOutOfRange))

	// Boundary values are valid.
	v, err := Parse("90", AxisLat)
	require.NoError(t, err)
	assert.Equal(t, 90.0, v)
}

func TestParseLoose_FlagsInsteadOfRejecting(t *testing.T) {
	t.Parallel()

	got, err := ParseLoose("123.45", AxisLat)
	require.NoError(t, err)
	assert.True(t, got.OutOfRange)
	assert.InDelta(t, 123.45, got.Value, 1e-9)

	got, err = ParseLoose("45.5", AxisLat)
	require.NoError(t, err)
	assert.False(t, got.OutOfRange)
	assert.InDelta(t, 45.5, got.Value, 1e-9)

	_, err = ParseLoose("garbage", AxisLat)
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrUnparseable))
}

func TestPickLatLon_PreferredPairWins(t *testing.T) {
	t.Parallel()

	cols := []string{"sampleId", "GPS_lat", "GPS_long", "latitude", "longitude"}
	lat, lon, ok := PickLatLon(cols, "GPS_lat", "GPS_long")
	require.True(t, ok)
	assert.Equal(t, "GPS_lat", lat)
	assert.Equal(t, "GPS_long", lon)
}

func TestPickLatLon_FallsBackToCandidates(t *testing.T) {
	t.Parallel()

	cols := []string{"id", "Latitude", "Longitude"}
	lat, lon, ok := PickLatLon(cols, "GPS_lat", "GPS_long")
	require.True(t, ok)
	assert.Equal(t, "Latitude", lat)
	assert.Equal(t, "Longitude", lon)
}

// A preferred pair only wins as a pair; a lone preferred latitude falls back
// to candidate matching for both axes.
func TestPickLatLon_PartialPreferredFallsBack(t *testing.T) {
	t.Parallel()

	cols := []string{"GPS_lat", "lng"}
	lat, lon, ok := PickLatLon(cols, "GPS_lat", "GPS_long")
	require.True(t, ok)
	assert.Equal(t, "GPS_lat", lat)
	assert.Equal(t, "lng", lon)
}

func TestPickLatLon_Unresolved(t *testing.T) {
	t.Parallel()

	_, _, ok := PickLatLon([]string{"id", "name"}, "GPS_lat", "GPS_long")
	assert.False(t, ok)
}
