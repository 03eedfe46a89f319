package export

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/echosoil/echorepo-lite/internal/model"
)

type featureCollection struct {
	Type     string `json:"type"`
	Features []struct {
		Type     string `json:"type"`
		Geometry struct {
			Type        string    `json:"type"`
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
		Properties map[string]any `json:"properties"`
	} `json:"features"`
}

func decode(t *testing.T, b []byte) featureCollection {
	t.Helper()
	var fc featureCollection
	require.NoError(t, json.Unmarshal(b, &fc))
	return fc
}

func testOptions() Options {
	return Options{PreferredLat: "GPS_lat", PreferredLon: "GPS_long"}
}

func TestGeoJSON_Basic(t *testing.T) {
	t.Parallel()

	tbl := model.NewTable([]string{"sampleId", "GPS_lat", "GPS_long", "PH_ph", "internal_notes"})
	tbl.AppendRow([]string{"S1", "45.5", "9.25", "6.8", "do not publish"})

	b, err := GeoJSON(tbl, testOptions())
	require.NoError(t, err)

	fc := decode(t, b)
	assert.Equal(t, "FeatureCollection", fc.Type)
	require.Len(t, fc.Features, 1)

	f := fc.Features[0]
	assert.Equal(t, "Point", f.Geometry.Type)
	require.Len(t, f.Geometry.Coordinates, 2)
	// GeoJSON order is lon, lat.
	assert.InDelta(t, 9.25, f.Geometry.Coordinates[0], 1e-9)
	assert.InDelta(t, 45.5, f.Geometry.Coordinates[1], 1e-9)

	assert.Equal(t, "S1", f.Properties["sampleId"])
	assert.Equal(t, "6.8", f.Properties["PH_ph"])
	assert.NotContains(t, f.Properties, "internal_notes")
}

func TestGeoJSON_SkipsUnparseableRows(t *testing.T) {
	t.Parallel()

	tbl := model.NewTable([]string{"sampleId", "GPS_lat", "GPS_long"})
	tbl.AppendRow([]string{"S1", "45.5", "9.25"})
	tbl.AppendRow([]string{"S2", "", ""})
	tbl.AppendRow([]string{"S3", "95.0", "9.0"})

	b, err := GeoJSON(tbl, testOptions())
	require.NoError(t, err)

	fc := decode(t, b)
	require.Len(t, fc.Features, 1)
	assert.Equal(t, "S1", fc.Features[0].Properties["sampleId"])
}

func TestGeoJSON_PhotoAndContactColumns(t *testing.T) {
	t.Parallel()

	tbl := model.NewTable([]string{"sampleId", "GPS_lat", "GPS_long", "PHOTO_site", "PHOTO_profile", "email"})
	tbl.AppendRow([]string{"S1", "45.5", "9.25", "site.jpg", "profile.jpg", "a@example.org"})

	b, err := GeoJSON(tbl, testOptions())
	require.NoError(t, err)

	fc := decode(t, b)
	require.Len(t, fc.Features, 1)
	props := fc.Features[0].Properties
	assert.Equal(t, "site.jpg", props["PHOTO_site"])
	assert.Equal(t, "profile.jpg", props["PHOTO_profile"])
	assert.Equal(t, "a@example.org", props["email"])
}

func TestGeoJSON_NoCoordinateColumns(t *testing.T) {
	t.Parallel()

	tbl := model.NewTable([]string{"sampleId"})
	tbl.AppendRow([]string{"S1"})

	b, err := GeoJSON(tbl, testOptions())
	require.NoError(t, err)

	fc := decode(t, b)
	assert.Equal(t, "FeatureCollection", fc.Type)
	assert.Empty(t, fc.Features)
}

func TestGeoJSON_EmptyTable(t *testing.T) {
	t.Parallel()

	b, err := GeoJSON(model.NewTable(nil), testOptions())
	require.NoError(t, err)
	fc := decode(t, b)
	assert.Empty(t, fc.Features)
}
