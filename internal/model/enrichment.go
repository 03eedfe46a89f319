package model

import "time"

// EnrichmentRecord is an externally uploaded measurement attached to a
// sample by business identity. It is never produced by the rebuild pipeline,
// only preserved across it.
type EnrichmentRecord struct {
	NaturalKey    string    `json:"natural_key"`
	Parameter     string    `json:"parameter"`
	Value         string    `json:"value"`
	Unit          string    `json:"unit"`
	ContributorID string    `json:"contributor_id"`
	RawPayload    string    `json:"raw_payload"`
	UpdatedAt     time.Time `json:"updated_at"`
}
