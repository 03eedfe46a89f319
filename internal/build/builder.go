// Package build orchestrates the republish pipeline: signature gate,
// coordinate sanitize + jitter, store write at a temp path, enrichment
// preservation, and the atomic rename that publishes the result.
package build

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/echosoil/echorepo-lite/internal/coord"
	"github.com/echosoil/echorepo-lite/internal/jitter"
	"github.com/echosoil/echorepo-lite/internal/model"
	"github.com/echosoil/echorepo-lite/internal/signature"
	"github.com/echosoil/echorepo-lite/internal/source"
	"github.com/echosoil/echorepo-lite/internal/store"
)

// Columns tried (in order) as the stable key seeding deterministic jitter.
// A row with none of them falls back to its ordinal, which is stable only
// while upstream ordering is; uploads carry at least a sample id in practice.
var stableKeyPrefs = []string{"sampleId", "QR_qrCode", "userId", "email"}

// Config is everything one rebuild needs. Concurrent builders targeting the
// same StorePath are not safe; serialize them externally.
type Config struct {
	SourcePath string
	StorePath  string
	Table      string

	RadiusMeters  float64
	Salt          string
	PreferredLat  string
	PreferredLon  string
	KeepOriginals bool
	OrigSuffix    string

	Force   bool
	Workers int
}

// SigPath returns the co-located signature artifact path.
func (c Config) SigPath() string { return c.StorePath + ".sig" }

func (c Config) signatureConfig() signature.Config {
	return signature.Config{
		Version:       signature.Version,
		RadiusMeters:  c.RadiusMeters,
		KeepOriginals: c.KeepOriginals,
		PreferredLat:  c.PreferredLat,
		PreferredLon:  c.PreferredLon,
		Salt:          c.Salt,
		Table:         c.Table,
	}
}

// Result summarizes one Build call.
type Result struct {
	BuildID       string
	Skipped       bool
	Signature     string
	Rows          int
	Jittered      int
	ParseFailures int
	Enrichment    int
}

// Build republishes the canonical store from the source file. Rebuilds are
// idempotent: an unchanged source and config yield an equal signature and the
// published store is left untouched. On any failure before the final rename
// the previous store and signature survive intact.
func Build(ctx context.Context, cfg Config) (*Result, error) {
	buildID := uuid.New().String()
	log := zap.L().With(
		zap.String("component", "build"),
		zap.String("build_id", buildID),
	)

	if _, err := os.Stat(cfg.SourcePath); err != nil {
		return nil, eris.Wrapf(err, "build: source %s", cfg.SourcePath)
	}

	sig, err := signature.Compute(cfg.SourcePath, cfg.signatureConfig())
	if err != nil {
		return nil, err
	}
	stored, err := signature.Load(cfg.SigPath())
	if err != nil {
		return nil, err
	}

	if !signature.ShouldRebuild(sig, stored, storeReady(ctx, cfg), cfg.Force) {
		log.Info("no changes detected, keeping existing store",
			zap.String("store", cfg.StorePath))
		return &Result{BuildID: buildID, Skipped: true, Signature: sig}, nil
	}

	t, err := source.ReadTable(cfg.SourcePath)
	if err != nil {
		return nil, err
	}

	latCol, lonCol, ok := coord.PickLatLon(t.Columns, cfg.PreferredLat, cfg.PreferredLon)
	if !ok {
		return nil, eris.Errorf(
			"build: could not detect coordinate columns (tried preferred %s/%s and common candidates)",
			cfg.PreferredLat, cfg.PreferredLon)
	}

	if cfg.KeepOriginals {
		keepOriginals(t, latCol, lonCol, cfg.origSuffix())
	}

	jittered, parseFailures, err := jitterRows(ctx, t, latCol, lonCol, cfg)
	if err != nil {
		return nil, err
	}

	snapshot, err := snapshotEnrichment(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := publish(ctx, cfg, t, snapshot); err != nil {
		return nil, err
	}

	if err := signature.Save(cfg.SigPath(), sig); err != nil {
		return nil, err
	}

	log.Info("store published",
		zap.String("store", cfg.StorePath),
		zap.Int("rows", t.Len()),
		zap.Int("jittered", jittered),
		zap.Int("parse_failures", parseFailures),
		zap.Int("enrichment_restored", len(snapshot)),
	)
	return &Result{
		BuildID:       buildID,
		Signature:     sig,
		Rows:          t.Len(),
		Jittered:      jittered,
		ParseFailures: parseFailures,
		Enrichment:    len(snapshot),
	}, nil
}

func (c Config) origSuffix() string {
	if c.OrigSuffix == "" {
		return "_orig"
	}
	return c.OrigSuffix
}

func (c Config) workers() int {
	if c.Workers <= 0 {
		return 4
	}
	return c.Workers
}

// storeReady reports whether the published store exists with a samples
// table. Any error means rebuild.
func storeReady(ctx context.Context, cfg Config) bool {
	if _, err := os.Stat(cfg.StorePath); err != nil {
		return false
	}
	s, err := store.Open(cfg.StorePath, cfg.Table)
	if err != nil {
		return false
	}
	defer s.Close() //nolint:errcheck
	ok, err := s.SamplesTableExists(ctx)
	return err == nil && ok
}

// keepOriginals copies the raw coordinate columns under alternate names
// before jitter overwrites them.
func keepOriginals(t *model.Table, latCol, lonCol, suffix string) {
	for _, col := range []string{latCol, lonCol} {
		origName := col + suffix
		if t.ColumnIndex(origName) >= 0 {
			continue
		}
		src := t.ColumnIndex(col)
		dst := t.EnsureColumn(origName)
		for i := range t.Rows {
			t.SetValue(i, dst, t.Value(i, src))
		}
	}
}

// jitterRows sanitizes and jitters every row in place, in parallel. Rows
// whose coordinates cannot be parsed are left untouched and counted.
func jitterRows(ctx context.Context, t *model.Table, latCol, lonCol string, cfg Config) (jittered, parseFailures int, err error) {
	latIdx := t.ColumnIndex(latCol)
	lonIdx := t.ColumnIndex(lonCol)

	jitteredPerRow := make([]bool, t.Len())
	failedPerRow := make([]bool, t.Len())

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(cfg.workers())

	const batch = 512
	for start := 0; start < t.Len(); start += batch {
		start := start
		end := start + batch
		if end > t.Len() {
			end = t.Len()
		}
		g.Go(func() error {
			for i := start; i < end; i++ {
				lat, latErr := coord.Parse(t.Value(i, latIdx), coord.AxisLat)
				lon, lonErr := coord.Parse(t.Value(i, lonIdx), coord.AxisLon)
				if latErr != nil || lonErr != nil {
					failedPerRow[i] = true
					continue
				}
				key := chooseStableKey(t, i)
				jLat, jLon := jitter.Jitter(lat, lon, key, cfg.Salt, cfg.RadiusMeters)
				t.SetValue(i, latIdx, formatCoord(jLat))
				t.SetValue(i, lonIdx, formatCoord(jLon))
				jitteredPerRow[i] = true
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, 0, err
	}

	for i := range jitteredPerRow {
		if jitteredPerRow[i] {
			jittered++
		}
		if failedPerRow[i] {
			parseFailures++
		}
	}
	return jittered, parseFailures, nil
}

// chooseStableKey picks the jitter seed for a row: first non-empty preferred
// key column, else the row ordinal.
func chooseStableKey(t *model.Table, row int) string {
	for _, pref := range stableKeyPrefs {
		if idx := t.ColumnIndex(pref); idx >= 0 {
			if v := strings.TrimSpace(t.Value(row, idx)); v != "" {
				return v
			}
		}
	}
	return strconv.Itoa(row)
}

func formatCoord(v float64) string {
	return fmt.Sprintf("%.8f", v)
}

// snapshotEnrichment reads all enrichment rows from the published store
// before the destructive replace. A missing store yields an empty snapshot;
// a failing snapshot aborts the build rather than silently dropping
// independently uploaded data.
func snapshotEnrichment(ctx context.Context, cfg Config) ([]model.EnrichmentRecord, error) {
	if _, err := os.Stat(cfg.StorePath); err != nil {
		return nil, nil
	}
	prev, err := store.Open(cfg.StorePath, cfg.Table)
	if err != nil {
		return nil, err
	}
	defer prev.Close() //nolint:errcheck
	return prev.SnapshotEnrichment(ctx)
}

// publish writes the full result into a fresh store at a temporary path in
// the same directory, restores enrichment, then atomically replaces the
// canonical path. Readers never observe a partially written store.
func publish(ctx context.Context, cfg Config, t *model.Table, snapshot []model.EnrichmentRecord) error {
	dir := filepath.Dir(cfg.StorePath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return eris.Wrap(err, "build: create store dir")
	}

	tmpPath := filepath.Join(dir, fmt.Sprintf(".echo-store-%s.tmp", uuid.New().String()))
	defer os.Remove(tmpPath) //nolint:errcheck

	tmp, err := store.OpenBulk(tmpPath, cfg.Table)
	if err != nil {
		return err
	}

	build := func() error {
		if err := tmp.Migrate(ctx); err != nil {
			return err
		}
		if err := tmp.ReplaceSamples(ctx, t); err != nil {
			return err
		}
		if err := tmp.CreateIndexes(ctx); err != nil {
			return err
		}
		// Restore is an unconditional upsert: enrichment whose natural key
		// vanished from the base data is kept, not pruned.
		for _, rec := range snapshot {
			if err := tmp.UpsertEnrichment(ctx, rec); err != nil {
				return err
			}
		}
		return nil
	}

	if err := build(); err != nil {
		tmp.Close() //nolint:errcheck
		return err
	}
	if err := tmp.Close(); err != nil {
		return eris.Wrap(err, "build: close temp store")
	}

	if err := os.Rename(tmpPath, cfg.StorePath); err != nil {
		return eris.Wrap(err, "build: publish rename")
	}
	// Drop WAL sidecars left by the previous store; they no longer match the
	// freshly published file.
	os.Remove(cfg.StorePath + "-wal") //nolint:errcheck
	os.Remove(cfg.StorePath + "-shm") //nolint:errcheck
	return nil
}
