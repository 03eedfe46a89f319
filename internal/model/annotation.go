package model

import "sort"

// Annotation is the derived country-mismatch result for one sample row.
// It is recomputed on every validation pass and never persisted
// authoritatively.
type Annotation struct {
	Row        int    `json:"row"`
	NaturalKey string `json:"natural_key"`
	QRCode     string `json:"qr_code"`

	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	HasCoords bool    `json:"has_coords"`

	// IsDefaultSentinel marks rows whose coordinates equal the configured
	// placeholder pair: GPS was never captured, so the row is excluded from
	// resolution and mismatch determination.
	IsDefaultSentinel bool `json:"is_default_sentinel"`

	// ActualCountry is the resolved ISO2 code, or "" when unknown.
	ActualCountry string `json:"actual_country"`

	PlannedSet   map[string]bool `json:"planned_set"`
	PlannedMatch bool            `json:"planned_match"`
}

// PlannedList returns the planned set as a sorted slice for display.
// Empty when no plan is on file.
func (a Annotation) PlannedList() []string {
	if len(a.PlannedSet) == 0 {
		return nil
	}
	out := make([]string, 0, len(a.PlannedSet))
	for cc := range a.PlannedSet {
		out = append(out, cc)
	}
	sort.Strings(out)
	return out
}
