package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pairs.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadManifest(t *testing.T) {
	batchVendor = "custom"
	t.Cleanup(func() { batchVendor = "" })

	path := writeManifest(t, "po,oa,vendor\n"+
		"po1.pdf,oa1.pdf,posco\n"+
		"po2.csv,oa2.csv,\n"+
		",oa3.pdf,posco\n")

	pairs, err := readManifest(path)
	require.NoError(t, err)
	require.Len(t, pairs, 2)

	assert.Equal(t, pair{PO: "po1.pdf", OA: "oa1.pdf", Vendor: "posco"}, pairs[0])
	// Empty vendor cell falls back to the --vendor flag.
	assert.Equal(t, pair{PO: "po2.csv", OA: "oa2.csv", Vendor: "custom"}, pairs[1])
}

func TestReadManifest_HeaderCaseInsensitive(t *testing.T) {
	path := writeManifest(t, "PO,OA\na.pdf,b.pdf\n")

	pairs, err := readManifest(path)
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Equal(t, "a.pdf", pairs[0].PO)
}

func TestReadManifest_MissingColumns(t *testing.T) {
	path := writeManifest(t, "left,right\na.pdf,b.pdf\n")

	_, err := readManifest(path)
	assert.Error(t, err)
}

func TestReadManifest_Empty(t *testing.T) {
	path := writeManifest(t, "")

	_, err := readManifest(path)
	assert.Error(t, err)
}
