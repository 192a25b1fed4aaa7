package loader

import (
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadCSV_CommaDelimited(t *testing.T) {
	path := writeFile(t, "data.csv", "code_insee,name\n75056, Paris \n69123,Lyon\n")

	table, err := ReadCSV(path, []string{"code_insee", "name"})
	require.NoError(t, err)

	require.Len(t, table.Rows, 2)
	assert.Equal(t, "Paris", table.Rows[0]["name"], "cells are trimmed")
	assert.Equal(t, "75056", table.Rows[0]["code_insee"])
}

func TestReadCSV_SemicolonDelimited(t *testing.T) {
	path := writeFile(t, "data.csv", "code_insee;name\n75056;Paris\n")

	table, err := ReadCSV(path, []string{"code_insee", "name"})
	require.NoError(t, err)

	require.Len(t, table.Rows, 1)
	assert.Equal(t, "Paris", table.Rows[0]["name"])
}

func TestReadCSV_BOMHeader(t *testing.T) {
	path := writeFile(t, "data.csv", "\uFEFFcode_insee,name\n75056,Paris\n")

	table, err := ReadCSV(path, []string{"code_insee"})
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "75056", table.Rows[0]["code_insee"])
}

func TestReadCSV_MissingRequiredColumnIsFatal(t *testing.T) {
	path := writeFile(t, "data.csv", "name\nParis\n")

	_, err := ReadCSV(path, []string{"code_insee"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "code_insee")
}

func TestReadCSV_RowMissingRequiredValueIsDropped(t *testing.T) {
	path := writeFile(t, "data.csv", "code_insee,name\n75056,Paris\n,Ghost\n69123,Lyon\n")

	table, err := ReadCSV(path, []string{"code_insee", "name"})
	require.NoError(t, err)
	assert.Len(t, table.Rows, 2)
}

func TestReadCSV_Gzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv.gz")

	f, err := os.Create(path)
	require.NoError(t, err)
	gz := gzip.NewWriter(f)
	_, err = gz.Write([]byte("code_insee;name\n75056;Paris\n"))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())

	table, err := ReadCSV(path, []string{"code_insee", "name"})
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "Paris", table.Rows[0]["name"])
}

func TestReadCSV_MidFileParseErrorIsFatal(t *testing.T) {
	path := writeFile(t, "data.csv", "code_insee,name\n75056,Paris\n69123,\"Lyon\n13055,Marseille\n")

	_, err := ReadCSV(path, []string{"code_insee", "name"})
	require.Error(t, err, "an unparsable row must abort the dataset, not truncate it")
}

func TestReadCSV_MissingFile(t *testing.T) {
	_, err := ReadCSV(filepath.Join(t.TempDir(), "absent.csv"), nil)
	assert.Error(t, err)
}

func TestDedupeByKey_FirstWins(t *testing.T) {
	rows := []Row{
		{"code_insee": "75056", "name": "Paris"},
		{"code_insee": "75056", "name": "Paris bis"},
		{"code_insee": "", "name": "keyless"},
		{"code_insee": "69123", "name": "Lyon"},
	}

	out, dropped := DedupeByKey(rows, "code_insee")
	assert.Equal(t, 2, dropped)
	require.Len(t, out, 2)
	assert.Equal(t, "Paris", out[0]["name"])
	assert.Equal(t, "Lyon", out[1]["name"])
}
