// Package nutrient holds the nutrient-data engine: unit and nutrient registries,
// immutable nutrient values, and the fixed-slot container that stores, scales,
// combines and derives energy statistics from a nutrient profile.
package nutrient

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
)

// UnitType classifies a unit. Each constant occupies a single bit so that
// nutrients can accept more than one type.
type UnitType uint8

const (
	Mass UnitType = 1 << iota
	Volume
	Energy
	Density
)

var unitTypeNames = map[UnitType]string{
	Mass:    "mass",
	Volume:  "volume",
	Energy:  "energy",
	Density: "density",
}

func (t UnitType) String() string {
	if name, ok := unitTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("UnitType(%d)", uint8(t))
}

// ParseUnitType accepts the lowercase type names used in registry files.
func ParseUnitType(s string) (UnitType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for t, name := range unitTypeNames {
		if name == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown unit type %q", s)
}

// UnitTypes is a set of unit types.
type UnitTypes uint8

// TypesOf builds a set from individual types.
func TypesOf(types ...UnitType) UnitTypes {
	var set UnitTypes
	for _, t := range types {
		set |= UnitTypes(t)
	}
	return set
}

func (s UnitTypes) Has(t UnitType) bool {
	return s&UnitTypes(t) != 0
}

func (s UnitTypes) Intersects(other UnitTypes) bool {
	return s&other != 0
}

// Types lists the members in bit order.
func (s UnitTypes) Types() []UnitType {
	out := make([]UnitType, 0, 2)
	for _, t := range []UnitType{Mass, Volume, Energy, Density} {
		if s.Has(t) {
			out = append(out, t)
		}
	}
	return out
}

func (s UnitTypes) String() string {
	types := s.Types()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.String()
	}
	return strings.Join(names, "|")
}

// Unit is an immutable measurement unit. MetricEquivalent is the size of the
// unit relative to the canonical unit of its type (g, ml, kJ, g/ml).
type Unit struct {
	ID               int
	Name             string
	Abbr             string
	MetricEquivalent float64
	Type             UnitType
}

func (u *Unit) String() string {
	return u.Abbr
}

// Convert converts between two units of the same type.
func Convert(amount float64, from, to *Unit) (float64, error) {
	if from.Type != to.Type {
		return 0, &IncompatibleUnitError{
			Unit:   to.Abbr,
			Reason: fmt.Sprintf("cannot convert %s (%s) to %s (%s)", from.Abbr, from.Type, to.Abbr, to.Type),
		}
	}
	return amount * from.MetricEquivalent / to.MetricEquivalent, nil
}

// ConvertQuantity converts a reference quantity, allowing mass/volume
// conversion through a density in g/ml (mass = volume × density).
// A density <= 0 means the density is unknown.
func ConvertQuantity(amount float64, from, to *Unit, densityGML float64) (float64, error) {
	if from.Type == to.Type {
		return Convert(amount, from, to)
	}
	quantityTypes := TypesOf(Mass, Volume)
	if !quantityTypes.Has(from.Type) || !quantityTypes.Has(to.Type) {
		return 0, &IncompatibleUnitError{
			Unit:   to.Abbr,
			Reason: fmt.Sprintf("cannot convert %s (%s) to %s (%s)", from.Abbr, from.Type, to.Abbr, to.Type),
		}
	}
	if densityGML <= 0 || math.IsNaN(densityGML) || math.IsInf(densityGML, 0) {
		return 0, &MissingDensityError{From: from.Abbr, To: to.Abbr}
	}

	var grams float64
	if from.Type == Mass {
		grams = amount * from.MetricEquivalent
	} else {
		grams = amount * from.MetricEquivalent * densityGML
	}
	if to.Type == Mass {
		return grams / to.MetricEquivalent, nil
	}
	return grams / densityGML / to.MetricEquivalent, nil
}

// FirstCustomUnitID is the lowest id available to units registered after the
// built-ins; ids below it are reserved.
const FirstCustomUnitID = 100

// UnitRegistry owns the set of known units. It is safe for concurrent use.
type UnitRegistry struct {
	mu     sync.Mutex
	closed bool
	byID   map[int]*Unit
	byAbbr map[string]*Unit
	nextID int
}

// NewUnitRegistry returns a registry holding the built-in units.
func NewUnitRegistry() *UnitRegistry {
	r := &UnitRegistry{
		byID:   map[int]*Unit{},
		byAbbr: map[string]*Unit{},
		nextID: FirstCustomUnitID,
	}
	for _, def := range builtinUnits {
		u := def
		if err := r.add(&u); err != nil {
			panic(err)
		}
	}
	return r
}

// RegisterUnit registers a unit under the next free custom id.
func (r *UnitRegistry) RegisterUnit(name, abbr string, metricEquivalent float64, t UnitType) (*Unit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, &RegistryClosedError{Registry: "unit"}
	}
	for r.byID[r.nextID] != nil {
		r.nextID++
	}
	u := &Unit{ID: r.nextID, Name: strings.TrimSpace(name), Abbr: strings.TrimSpace(abbr), MetricEquivalent: metricEquivalent, Type: t}
	if err := r.add(u); err != nil {
		return nil, err
	}
	r.nextID++
	return u, nil
}

// RegisterUnitWithID registers a unit under an explicit id outside the
// reserved built-in range.
func (r *UnitRegistry) RegisterUnitWithID(id int, name, abbr string, metricEquivalent float64, t UnitType) (*Unit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, &RegistryClosedError{Registry: "unit"}
	}
	if id < FirstCustomUnitID {
		return nil, newConfigError("id", "unit id %d is in the reserved range below %d", id, FirstCustomUnitID)
	}
	return r.addChecked(&Unit{ID: id, Name: strings.TrimSpace(name), Abbr: strings.TrimSpace(abbr), MetricEquivalent: metricEquivalent, Type: t})
}

func (r *UnitRegistry) addChecked(u *Unit) (*Unit, error) {
	if err := r.add(u); err != nil {
		return nil, err
	}
	return u, nil
}

// add validates and stores u; the caller holds mu.
func (r *UnitRegistry) add(u *Unit) error {
	if u.MetricEquivalent <= 0 || math.IsNaN(u.MetricEquivalent) || math.IsInf(u.MetricEquivalent, 0) {
		return newConfigError("metric_equivalent", "unit %q metric equivalent must be > 0, got %v", u.Abbr, u.MetricEquivalent)
	}
	if u.Abbr == "" {
		return newConfigError("abbr", "unit abbreviation is required")
	}
	if _, ok := unitTypeNames[u.Type]; !ok {
		return newConfigError("type", "unit %q has invalid type %d", u.Abbr, u.Type)
	}
	key := strings.ToLower(u.Abbr)
	if _, taken := r.byAbbr[key]; taken {
		return newConfigError("abbr", "unit abbreviation %q is already registered", u.Abbr)
	}
	if _, taken := r.byID[u.ID]; taken {
		return newConfigError("id", "unit id %d is already registered", u.ID)
	}
	if u.Name == "" {
		u.Name = u.Abbr
	}
	r.byID[u.ID] = u
	r.byAbbr[key] = u
	return nil
}

// ByAbbr looks up a unit by abbreviation, ignoring case.
func (r *UnitRegistry) ByAbbr(abbr string) (*Unit, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byAbbr[strings.ToLower(strings.TrimSpace(abbr))]
	return u, ok
}

func (r *UnitRegistry) ByID(id int) (*Unit, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	return u, ok
}

// CompatibleWith returns every unit whose type the nutrient accepts, ordered by id.
func (r *UnitRegistry) CompatibleWith(n *Nutrient) []*Unit {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Unit, 0)
	for _, u := range r.byID {
		if n.Types.Has(u.Type) {
			out = append(out, u)
		}
	}
	sortUnits(out)
	return out
}

// Units returns all registered units ordered by id and closes the registry.
func (r *UnitRegistry) Units() []*Unit {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	out := make([]*Unit, 0, len(r.byID))
	for _, u := range r.byID {
		out = append(out, u)
	}
	sortUnits(out)
	return out
}

// Closed reports whether the registry has been sealed.
func (r *UnitRegistry) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

func sortUnits(units []*Unit) {
	sort.Slice(units, func(i, j int) bool { return units[i].ID < units[j].ID })
}
