// Package registry loads deployment-specific units and nutrients from a YAML
// file and seals them, together with the built-ins, into a catalog.
package registry

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/saadjs/macros/internal/nutrient"
)

// Extension is the on-disk shape of a registry file.
type Extension struct {
	Units     []UnitDef     `yaml:"units"`
	Nutrients []NutrientDef `yaml:"nutrients"`
}

type UnitDef struct {
	ID               int     `yaml:"id"`
	Name             string  `yaml:"name"`
	Abbr             string  `yaml:"abbr"`
	MetricEquivalent float64 `yaml:"metric_equivalent"`
	Type             string  `yaml:"type"`
}

type NutrientDef struct {
	Name  string   `yaml:"name"`
	Types []string `yaml:"types"`
}

// LoadFile reads an extension file.
func LoadFile(path string) (*Extension, error) {
	root, err := os.OpenRoot(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("open registry directory: %w", err)
	}
	defer func() {
		_ = root.Close()
	}()
	f, err := root.Open(filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("open registry file: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()
	return Load(f)
}

// Load decodes an extension from r.
func Load(r io.Reader) (*Extension, error) {
	var ext Extension
	if err := yaml.NewDecoder(r, yaml.DisallowUnknownField()).Decode(&ext); err != nil {
		if errors.Is(err, io.EOF) {
			return &ext, nil
		}
		return nil, fmt.Errorf("decode registry YAML: %w", err)
	}
	return &ext, nil
}

// Apply registers every unit and nutrient of the extension. It stops at the
// first rejected entry.
func (e *Extension) Apply(units *nutrient.UnitRegistry, nutrients *nutrient.NutrientRegistry) error {
	for _, def := range e.Units {
		t, err := nutrient.ParseUnitType(def.Type)
		if err != nil {
			return fmt.Errorf("unit %q: %w", def.Abbr, err)
		}
		var u *nutrient.Unit
		if def.ID != 0 {
			u, err = units.RegisterUnitWithID(def.ID, def.Name, def.Abbr, def.MetricEquivalent, t)
		} else {
			u, err = units.RegisterUnit(def.Name, def.Abbr, def.MetricEquivalent, t)
		}
		if err != nil {
			return fmt.Errorf("register unit %q: %w", def.Abbr, err)
		}
		slog.Debug("registered unit", "abbr", u.Abbr, "id", u.ID, "type", u.Type.String())
	}
	for _, def := range e.Nutrients {
		var types []nutrient.UnitType
		for _, raw := range def.Types {
			t, err := nutrient.ParseUnitType(raw)
			if err != nil {
				return fmt.Errorf("nutrient %q: %w", def.Name, err)
			}
			types = append(types, t)
		}
		n, err := nutrients.RegisterNutrient(def.Name, nutrient.TypesOf(types...))
		if err != nil {
			return fmt.Errorf("register nutrient %q: %w", def.Name, err)
		}
		slog.Debug("registered nutrient", "name", n.Name, "index", n.Index, "types", n.Types.String())
	}
	return nil
}

// Build returns the catalog for a deployment. An empty path yields the shared
// built-in catalog.
func Build(path string) (*nutrient.Catalog, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nutrient.DefaultCatalog(), nil
	}
	ext, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	units := nutrient.NewUnitRegistry()
	nutrients := nutrient.NewNutrientRegistry()
	if err := ext.Apply(units, nutrients); err != nil {
		return nil, err
	}
	cat := nutrient.Seal(units, nutrients)
	slog.Debug("sealed catalog", "nutrients", cat.NumNutrients(), "file", path)
	return cat, nil
}
