package main

import (
	"encoding/csv"
	"os"
	"time"

	"github.com/rotisserie/eris"

	"github.com/echosoil/echorepo-lite/internal/build"
	"github.com/echosoil/echorepo-lite/internal/validate"
)

// buildConfig translates the loaded app configuration into one rebuild run.
func buildConfig(force bool) build.Config {
	return build.Config{
		SourcePath:    cfg.Source.Path,
		StorePath:     cfg.Store.Path,
		Table:         cfg.Store.Table,
		RadiusMeters:  cfg.Jitter.RadiusMeters,
		Salt:          cfg.Jitter.Salt,
		PreferredLat:  cfg.Columns.Lat,
		PreferredLon:  cfg.Columns.Lon,
		KeepOriginals: cfg.Jitter.KeepOriginals,
		OrigSuffix:    cfg.Jitter.OrigSuffix,
		Force:         force,
		Workers:       cfg.Build.Workers,
	}
}

// validateOptions translates the loaded app configuration into one
// validation pass.
func validateOptions() validate.Options {
	return validate.Options{
		PreferredLat: cfg.Columns.Lat,
		PreferredLon: cfg.Columns.Lon,
		SentinelLat:  cfg.Sentinel.Lat,
		SentinelLon:  cfg.Sentinel.Lon,
		ChunkSize:    cfg.Resolver.ChunkSize,
		ChunkTimeout: time.Duration(cfg.Resolver.ChunkTimeoutSecs) * time.Second,
	}
}

// writeCSV writes a report to path, or stdout when path is empty.
func writeCSV(path string, header []string, rows [][]string) error {
	out := os.Stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return eris.Wrapf(err, "create %s", path)
		}
		defer f.Close() //nolint:errcheck
		out = f
	}

	w := csv.NewWriter(out)
	if err := w.Write(header); err != nil {
		return eris.Wrap(err, "write header")
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return eris.Wrap(err, "write row")
		}
	}
	w.Flush()
	return eris.Wrap(w.Error(), "flush csv")
}
