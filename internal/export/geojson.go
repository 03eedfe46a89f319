// Package export renders the published sample table as GeoJSON for map
// consumers. Rows without parseable coordinates are skipped, not errors.
package export

import (
	"strings"

	geom "github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/echosoil/echorepo-lite/internal/coord"
	"github.com/echosoil/echorepo-lite/internal/model"

	"github.com/rotisserie/eris"
)

// Property columns carried into each feature, in order, plus every PHOTO_*
// column and the contact columns when present.
var keyFields = []string{
	"sampleId", "collectedAt", "QR_qrCode", "PH_ph", "SOIL_COLOR_color",
	"SOIL_TEXTURE_texture", "SOIL_STRUCTURE_structure", "SOIL_DIVER_earthworms",
	"SOIL_CONTAMINATION_plastic", "SOIL_CONTAMINATION_debris", "SOIL_CONTAMINATION_comments",
	"METALS_info",
}

var contactFields = []string{"email", "userId"}

// Options configures the GeoJSON export.
type Options struct {
	PreferredLat string
	PreferredLon string
}

// GeoJSON renders the table as a FeatureCollection. An empty or
// column-less table yields an empty collection.
func GeoJSON(t *model.Table, opts Options) ([]byte, error) {
	fc := &geojson.FeatureCollection{Features: []*geojson.Feature{}}

	latCol, lonCol, ok := coord.PickLatLon(t.Columns, opts.PreferredLat, opts.PreferredLon)
	if !ok {
		return marshal(fc)
	}
	latIdx := t.ColumnIndex(latCol)
	lonIdx := t.ColumnIndex(lonCol)

	fields := propertyFields(t)

	for i := range t.Rows {
		lat, latErr := coord.Parse(t.Value(i, latIdx), coord.AxisLat)
		lon, lonErr := coord.Parse(t.Value(i, lonIdx), coord.AxisLon)
		if latErr != nil || lonErr != nil {
			continue
		}

		props := make(map[string]any, len(fields))
		for _, f := range fields {
			props[f.name] = t.Value(i, f.idx)
		}

		fc.Features = append(fc.Features, &geojson.Feature{
			Geometry:   geom.NewPointFlat(geom.XY, []float64{lon, lat}),
			Properties: props,
		})
	}
	return marshal(fc)
}

type field struct {
	name string
	idx  int
}

func propertyFields(t *model.Table) []field {
	seen := make(map[string]bool)
	var fields []field
	add := func(name string) {
		if seen[name] {
			return
		}
		if idx := t.ColumnIndex(name); idx >= 0 {
			fields = append(fields, field{name: name, idx: idx})
			seen[name] = true
		}
	}

	for _, name := range keyFields {
		add(name)
	}
	for _, c := range t.Columns {
		if strings.HasPrefix(c, "PHOTO_") {
			add(c)
		}
	}
	for _, name := range contactFields {
		add(name)
	}
	return fields
}

func marshal(fc *geojson.FeatureCollection) ([]byte, error) {
	b, err := fc.MarshalJSON()
	return b, eris.Wrap(err, "export: marshal geojson")
}
