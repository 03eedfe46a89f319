package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/rotisserie/eris"

	"github.com/echosoil/echorepo-lite/internal/model"
)

// UpsertEnrichment inserts or updates one enrichment row by its business
// identity (natural_key, parameter).
func (s *Store) UpsertEnrichment(ctx context.Context, rec model.EnrichmentRecord) error {
	updatedAt := rec.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO enrichment (natural_key, parameter, value, unit, contributor_id, raw_payload, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (natural_key, parameter) DO UPDATE SET
	value = excluded.value,
	unit = excluded.unit,
	contributor_id = excluded.contributor_id,
	raw_payload = excluded.raw_payload,
	updated_at = excluded.updated_at`,
		rec.NaturalKey, rec.Parameter, rec.Value, rec.Unit, rec.ContributorID, rec.RawPayload, updatedAt,
	)
	return eris.Wrapf(err, "store: upsert enrichment %s/%s", rec.NaturalKey, rec.Parameter)
}

// GetEnrichment returns one enrichment row, or nil when absent.
func (s *Store) GetEnrichment(ctx context.Context, naturalKey, parameter string) (*model.EnrichmentRecord, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT natural_key, parameter, value, unit, contributor_id, raw_payload, updated_at
FROM enrichment WHERE natural_key = ? AND parameter = ?`,
		naturalKey, parameter,
	)
	var rec model.EnrichmentRecord
	err := row.Scan(&rec.NaturalKey, &rec.Parameter, &rec.Value, &rec.Unit,
		&rec.ContributorID, &rec.RawPayload, &rec.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "store: get enrichment")
	}
	return &rec, nil
}

// SnapshotEnrichment reads every enrichment row. A store without the
// enrichment table yields an empty snapshot.
func (s *Store) SnapshotEnrichment(ctx context.Context) ([]model.EnrichmentRecord, error) {
	exists, err := s.tableExists(ctx, "enrichment")
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT natural_key, parameter, value, unit, contributor_id, raw_payload, updated_at
FROM enrichment`)
	if err != nil {
		return nil, eris.Wrap(err, "store: snapshot enrichment")
	}
	defer rows.Close() //nolint:errcheck

	var recs []model.EnrichmentRecord
	for rows.Next() {
		var rec model.EnrichmentRecord
		if err := rows.Scan(&rec.NaturalKey, &rec.Parameter, &rec.Value, &rec.Unit,
			&rec.ContributorID, &rec.RawPayload, &rec.UpdatedAt); err != nil {
			return nil, eris.Wrap(err, "store: scan enrichment")
		}
		recs = append(recs, rec)
	}
	return recs, eris.Wrap(rows.Err(), "store: iterate enrichment")
}
