package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/echosoil/echorepo-lite/internal/config"
)

func loadTestConfig(t *testing.T) {
	t.Helper()
	c, err := config.Load()
	require.NoError(t, err)
	cfg = c
}

func TestBuildConfig_FromAppConfig(t *testing.T) {
	t.Setenv("ECHO_JITTER_SALT", "cmd-test-salt")
	loadTestConfig(t)

	bc := buildConfig(true)
	assert.Equal(t, cfg.Source.Path, bc.SourcePath)
	assert.Equal(t, cfg.Store.Path, bc.StorePath)
	assert.Equal(t, "samples", bc.Table)
	assert.Equal(t, "cmd-test-salt", bc.Salt)
	assert.Equal(t, 1000.0, bc.RadiusMeters)
	assert.True(t, bc.KeepOriginals)
	assert.True(t, bc.Force)
	assert.Equal(t, bc.StorePath+".sig", bc.SigPath())
}

func TestValidateOptions_FromAppConfig(t *testing.T) {
	loadTestConfig(t)

	opts := validateOptions()
	assert.Equal(t, "GPS_lat", opts.PreferredLat)
	assert.Equal(t, "GPS_long", opts.PreferredLon)
	assert.Equal(t, 46.5, opts.SentinelLat)
	assert.Equal(t, 11.35, opts.SentinelLon)
	assert.Equal(t, 120*time.Second, opts.ChunkTimeout)
}

func TestWriteCSV_ToFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "report.csv")
	err := writeCSV(path,
		[]string{"natural_key", "actual", "planned"},
		[][]string{{"S1", "IT", "DE"}})
	require.NoError(t, err)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "natural_key,actual,planned\nS1,IT,DE\n", string(b))
}

func TestRootCommand_HasSubcommands(t *testing.T) {
	t.Parallel()

	want := map[string]bool{
		"refresh": false, "status": false, "validate": false,
		"sentinels": false, "fix-coords": false, "export": false, "planned": false,
	}
	for _, c := range rootCmd.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		assert.True(t, found, "missing subcommand %s", name)
	}
}
