package coord

import "strings"

// Ordered candidate column names resolved by first structural match when the
// configured preferred names are absent. Pure data, matched case-insensitively.
var (
	latCandidates = []string{
		"lat", "latitude", "y",
		"gps_lat", "gps_latitude", "geom_lat", "geo_lat",
		"gps_lat_deg", "latitude_deg",
	}
	lonCandidates = []string{
		"lon", "lng", "longitude", "x",
		"gps_lon", "gps_longitude", "geom_lon", "geo_lon",
		"long", "gps_long", "longitude_deg",
	}
)

// PickLatLon resolves the latitude and longitude column names for a header.
// The preferred pair wins when both are present; otherwise each axis falls
// back to its candidate list in order. Returns ok=false when either axis
// stays unresolved.
func PickLatLon(columns []string, preferredLat, preferredLon string) (lat, lon string, ok bool) {
	byLower := make(map[string]string, len(columns))
	for _, c := range columns {
		if _, exists := byLower[strings.ToLower(c)]; !exists {
			byLower[strings.ToLower(c)] = c
		}
	}

	if pl, okLat := byLower[strings.ToLower(preferredLat)]; okLat {
		if pn, okLon := byLower[strings.ToLower(preferredLon)]; okLon {
			return pl, pn, true
		}
	}

	for _, cand := range latCandidates {
		if c, found := byLower[cand]; found {
			lat = c
			break
		}
	}
	for _, cand := range lonCandidates {
		if c, found := byLower[cand]; found {
			lon = c
			break
		}
	}
	return lat, lon, lat != "" && lon != ""
}
