package tolerance

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProfiles(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profiles.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadProfiles(t *testing.T) {
	path := writeProfiles(t, `
vendors:
  acme:
    vendor: Acme Steel
    rules:
      - field: Thickness
        mode: absolute
        threshold: 0.0005
      - field: Quantity
        mode: percent
        threshold: 1.0
`)

	profiles, err := LoadProfiles(path)
	require.NoError(t, err)

	p, ok := profiles["acme"]
	require.True(t, ok)
	assert.Equal(t, "Acme Steel", p.Vendor)
	r, found := p.Rule("Quantity")
	require.True(t, found)
	assert.Equal(t, RelativePercent, r.Mode)
	assert.Equal(t, 1.0, r.Threshold)
}

func TestLoadProfiles_InvalidRule(t *testing.T) {
	path := writeProfiles(t, `
vendors:
  bad:
    rules:
      - field: Thickness
        mode: absolute
        threshold: -0.1
`)

	_, err := LoadProfiles(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "negative threshold")
}

func TestResolve(t *testing.T) {
	// Builtin fallback, case-insensitive.
	p, err := Resolve("POSCO", "")
	require.NoError(t, err)
	assert.Equal(t, "Posco", p.Vendor)

	// Empty vendor means the Custom preset.
	p, err = Resolve("", "")
	require.NoError(t, err)
	assert.Equal(t, "Custom", p.Vendor)

	// Unknown vendor errors.
	_, err = Resolve("nobody", "")
	assert.Error(t, err)

	// Profiles file takes precedence.
	path := writeProfiles(t, `
vendors:
  posco:
    rules:
      - field: Thickness
        mode: absolute
        threshold: 0.01
`)
	p, err = Resolve("posco", path)
	require.NoError(t, err)
	r, _ := p.Rule("Thickness")
	assert.Equal(t, 0.01, r.Threshold)
}
