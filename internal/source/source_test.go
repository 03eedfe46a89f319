package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/echosoil/echorepo-lite/internal/model"
)

func TestReadTable_Basic(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "samples.csv")
	require.NoError(t, os.WriteFile(path, []byte(
		"sampleId,GPS_lat,GPS_long\nS1,45.0,9.0\nS2,46.5,11.35\n"), 0o644))

	got, err := ReadTable(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"sampleId", "GPS_lat", "GPS_long"}, got.Columns)
	require.Equal(t, 2, got.Len())
	assert.Equal(t, "S2", got.Value(1, 0))
	assert.Equal(t, "11.35", got.Value(1, 2))
}

func TestReadTable_RaggedRows(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "samples.csv")
	require.NoError(t, os.WriteFile(path, []byte(
		"a,b,c\n1\n2,3,4,5\n"), 0o644))

	got, err := ReadTable(path)
	require.NoError(t, err)
	require.Equal(t, 2, got.Len())
	// Short rows read as empty cells, long rows are truncated to the header.
	assert.Equal(t, "", got.Value(0, 1))
	assert.Equal(t, "4", got.Value(1, 2))
}

func TestReadTable_EmptyFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	got, err := ReadTable(path)
	require.NoError(t, err)
	assert.Empty(t, got.Columns)
	assert.Equal(t, 0, got.Len())
}

func TestReadTable_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := ReadTable(filepath.Join(t.TempDir(), "absent.csv"))
	assert.Error(t, err)
}

func TestWriteTableAtomic_RoundTrip(t *testing.T) {
	t.Parallel()

	in := model.NewTable([]string{"sampleId", "note"})
	in.AppendRow([]string{"S1", "has, comma"})
	in.AppendRow([]string{"S2", `has "quotes"`})

	path := filepath.Join(t.TempDir(), "out", "samples.csv")
	require.NoError(t, WriteTableAtomic(in, path))

	got, err := ReadTable(path)
	require.NoError(t, err)
	assert.Equal(t, in.Columns, got.Columns)
	require.Equal(t, 2, got.Len())
	assert.Equal(t, "has, comma", got.Value(0, 1))
	assert.Equal(t, `has "quotes"`, got.Value(1, 1))
}

func TestWriteTableAtomic_ReplacesExisting(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "samples.csv")
	require.NoError(t, os.WriteFile(path, []byte("old,content\n"), 0o644))

	in := model.NewTable([]string{"sampleId"})
	in.AppendRow([]string{"S1"})
	require.NoError(t, WriteTableAtomic(in, path))

	got, err := ReadTable(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"sampleId"}, got.Columns)

	// No temp files left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
