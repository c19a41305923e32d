package registry_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saadjs/macros/internal/nutrient"
	"github.com/saadjs/macros/internal/registry"
)

const extensionYAML = `
units:
  - name: scoops
    abbr: scoop
    metric_equivalent: 31
    type: mass
  - id: 150
    name: drops
    abbr: drop
    metric_equivalent: 0.05
    type: volume
nutrients:
  - name: Vitamin C
    types: [mass]
  - name: beta glucan
    types: [mass, volume]
`

func TestBuildAppliesExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.yaml")
	require.NoError(t, os.WriteFile(path, []byte(extensionYAML), 0o600))

	cat, err := registry.Build(path)
	require.NoError(t, err)
	assert.NotSame(t, nutrient.DefaultCatalog(), cat)

	scoop, ok := cat.Unit("SCOOP")
	require.True(t, ok)
	assert.Equal(t, nutrient.Mass, scoop.Type)
	assert.GreaterOrEqual(t, scoop.ID, nutrient.FirstCustomUnitID)

	drop, ok := cat.Unit("drop")
	require.True(t, ok)
	assert.Equal(t, 150, drop.ID)

	vitC, ok := cat.Nutrient("vitamin_c")
	require.True(t, ok)
	assert.False(t, vitC.Inbuilt)
	glucan, ok := cat.Nutrient("beta glucan")
	require.True(t, ok)
	assert.True(t, glucan.Types.Has(nutrient.Volume))
	assert.Equal(t, glucan.Index+1, cat.NumNutrients())
}

func TestBuildWithoutFileUsesDefaults(t *testing.T) {
	cat, err := registry.Build("  ")
	require.NoError(t, err)
	assert.Same(t, nutrient.DefaultCatalog(), cat)
}

func TestLoadRejectsBadEntries(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"non-positive metric equivalent", "units:\n  - abbr: bad\n    metric_equivalent: 0\n    type: mass\n"},
		{"reserved id", "units:\n  - id: 3\n    abbr: bad\n    metric_equivalent: 1\n    type: mass\n"},
		{"duplicate nutrient", "nutrients:\n  - name: protein\n    types: [mass]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ext, err := registry.Load(strings.NewReader(tt.yaml))
			require.NoError(t, err)
			err = ext.Apply(nutrient.NewUnitRegistry(), nutrient.NewNutrientRegistry())
			var cfgErr *nutrient.ConfigError
			assert.True(t, errors.As(err, &cfgErr), "got %v", err)
		})
	}
}

func TestLoadRejectsUnknownType(t *testing.T) {
	ext, err := registry.Load(strings.NewReader("units:\n  - abbr: ft\n    metric_equivalent: 1\n    type: length\n"))
	require.NoError(t, err)
	assert.Error(t, ext.Apply(nutrient.NewUnitRegistry(), nutrient.NewNutrientRegistry()))
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	_, err := registry.Load(strings.NewReader("unitz: []\n"))
	assert.Error(t, err)
}

func TestLoadEmptyFile(t *testing.T) {
	ext, err := registry.Load(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, ext.Units)
	assert.Empty(t, ext.Nutrients)
}

func TestApplyAfterSealFails(t *testing.T) {
	units := nutrient.NewUnitRegistry()
	nutrients := nutrient.NewNutrientRegistry()
	nutrient.Seal(units, nutrients)

	ext, err := registry.Load(strings.NewReader(extensionYAML))
	require.NoError(t, err)
	err = ext.Apply(units, nutrients)
	var closed *nutrient.RegistryClosedError
	assert.True(t, errors.As(err, &closed))
}
