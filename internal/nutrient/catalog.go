package nutrient

import (
	"fmt"
	"sync"
)

// Catalog is the sealed, read-only view of both registries. Containers are
// always built against a catalog so their slot count can never change.
type Catalog struct {
	units     *UnitRegistry
	nutrients []*Nutrient
	byName    map[string]*Nutrient

	Quantity           *Nutrient
	Energy             *Nutrient
	Protein            *Nutrient
	Fat                *Nutrient
	SaturatedFat       *Nutrient
	MonounsaturatedFat *Nutrient
	PolyunsaturatedFat *Nutrient
	Carbohydrate       *Nutrient
	CarbohydrateByDiff *Nutrient
	Sugar              *Nutrient
	Starch             *Nutrient
	Fibre              *Nutrient
	Alcohol            *Nutrient

	Grams       *Unit
	Millilitre  *Unit
	Kilojoule   *Unit
	Kilocalorie *Unit
}

// Seal closes both registries and returns the catalog built from them.
func Seal(units *UnitRegistry, nutrients *NutrientRegistry) *Catalog {
	units.Units()
	all := nutrients.Nutrients()
	c := &Catalog{
		units:     units,
		nutrients: all,
		byName:    make(map[string]*Nutrient, len(all)),
	}
	for _, n := range all {
		c.byName[n.Name] = n
	}
	c.Quantity = c.mustNutrient(NameQuantity)
	c.Energy = c.mustNutrient(NameEnergy)
	c.Protein = c.mustNutrient(NameProtein)
	c.Fat = c.mustNutrient(NameFat)
	c.SaturatedFat = c.mustNutrient(NameSaturatedFat)
	c.MonounsaturatedFat = c.mustNutrient(NameMonounsaturatedFat)
	c.PolyunsaturatedFat = c.mustNutrient(NamePolyunsaturatedFat)
	c.Carbohydrate = c.mustNutrient(NameCarbohydrate)
	c.CarbohydrateByDiff = c.mustNutrient(NameCarbohydrateByDiff)
	c.Sugar = c.mustNutrient(NameSugar)
	c.Starch = c.mustNutrient(NameStarch)
	c.Fibre = c.mustNutrient(NameFibre)
	c.Alcohol = c.mustNutrient(NameAlcohol)

	c.Grams = c.mustUnit("g")
	c.Millilitre = c.mustUnit("ml")
	c.Kilojoule = c.mustUnit("kJ")
	c.Kilocalorie = c.mustUnit("kcal")
	return c
}

var (
	defaultCatalogOnce sync.Once
	defaultCatalog     *Catalog
)

// DefaultCatalog returns the shared catalog of built-in units and nutrients.
func DefaultCatalog() *Catalog {
	defaultCatalogOnce.Do(func() {
		defaultCatalog = Seal(NewUnitRegistry(), NewNutrientRegistry())
	})
	return defaultCatalog
}

func (c *Catalog) mustNutrient(name string) *Nutrient {
	n, ok := c.byName[name]
	if !ok {
		panic(fmt.Sprintf("catalog is missing inbuilt nutrient %q", name))
	}
	return n
}

func (c *Catalog) mustUnit(abbr string) *Unit {
	u, ok := c.units.ByAbbr(abbr)
	if !ok {
		panic(fmt.Sprintf("catalog is missing built-in unit %q", abbr))
	}
	return u
}

func (c *Catalog) NumNutrients() int {
	return len(c.nutrients)
}

// Nutrients returns the nutrients in index order. The slice must not be modified.
func (c *Catalog) Nutrients() []*Nutrient {
	return c.nutrients
}

func (c *Catalog) Nutrient(name string) (*Nutrient, bool) {
	n, ok := c.byName[normalizeNutrientName(name)]
	return n, ok
}

func (c *Catalog) NutrientByID(id int) (*Nutrient, bool) {
	if id < 1 || id > len(c.nutrients) {
		return nil, false
	}
	return c.nutrients[id-1], true
}

func (c *Catalog) Unit(abbr string) (*Unit, bool) {
	return c.units.ByAbbr(abbr)
}

func (c *Catalog) UnitByID(id int) (*Unit, bool) {
	return c.units.ByID(id)
}

func (c *Catalog) Units() []*Unit {
	return c.units.Units()
}

func (c *Catalog) CompatibleUnits(n *Nutrient) []*Unit {
	return c.units.CompatibleWith(n)
}

// CanonicalUnit returns the base unit nutrients are normalised to before
// summation: g for mass, ml for volume-only nutrients, kJ for energy.
func (c *Catalog) CanonicalUnit(n *Nutrient) *Unit {
	switch {
	case n.Types.Has(Mass):
		return c.Grams
	case n.Types.Has(Volume):
		return c.Millilitre
	case n.Types.Has(Energy):
		return c.Kilojoule
	default:
		return nil
	}
}

func (c *Catalog) owns(n *Nutrient) bool {
	return n != nil && n.Index >= 0 && n.Index < len(c.nutrients) && c.nutrients[n.Index] == n
}
