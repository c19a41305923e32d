package nutrient

import (
	"strings"
	"sync"
)

// Nutrient is an immutable named quantity. Index is the container slot the
// registry assigned at registration time; ID is the persisted identifier.
type Nutrient struct {
	ID      int
	Name    string
	Types   UnitTypes
	Inbuilt bool
	Index   int
}

func (n *Nutrient) String() string {
	return n.Name
}

// NutrientRegistry assigns ordinal indices to nutrients. Reading the full set
// or its size closes registration, since containers are sized from it.
type NutrientRegistry struct {
	mu        sync.Mutex
	closed    bool
	nutrients []*Nutrient
	byName    map[string]*Nutrient
}

// NewNutrientRegistry returns an open registry holding the inbuilt nutrients.
func NewNutrientRegistry() *NutrientRegistry {
	r := &NutrientRegistry{byName: map[string]*Nutrient{}}
	for _, def := range builtinNutrients {
		if _, err := r.register(def.name, def.types, true); err != nil {
			panic(err)
		}
	}
	return r
}

// RegisterNutrient adds a custom nutrient under the next ordinal.
func (r *NutrientRegistry) RegisterNutrient(name string, types UnitTypes) (*Nutrient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.register(name, types, false)
}

// register stores a nutrient; the caller holds mu.
func (r *NutrientRegistry) register(name string, types UnitTypes, inbuilt bool) (*Nutrient, error) {
	if r.closed {
		return nil, &RegistryClosedError{Registry: "nutrient"}
	}
	key := normalizeNutrientName(name)
	if key == "" {
		return nil, newConfigError("name", "nutrient name is required")
	}
	if types == 0 {
		return nil, newConfigError("types", "nutrient %q must accept at least one unit type", key)
	}
	if _, taken := r.byName[key]; taken {
		return nil, newConfigError("name", "nutrient %q is already registered", key)
	}
	index := len(r.nutrients)
	n := &Nutrient{ID: index + 1, Name: key, Types: types, Inbuilt: inbuilt, Index: index}
	r.nutrients = append(r.nutrients, n)
	r.byName[key] = n
	return n, nil
}

// Nutrients returns every nutrient in index order and closes registration.
func (r *NutrientRegistry) Nutrients() []*Nutrient {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	out := make([]*Nutrient, len(r.nutrients))
	copy(out, r.nutrients)
	return out
}

// NumNutrients returns the nutrient count and closes registration.
func (r *NutrientRegistry) NumNutrients() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return len(r.nutrients)
}

func (r *NutrientRegistry) ByID(id int) (*Nutrient, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id < 1 || id > len(r.nutrients) {
		return nil, false
	}
	return r.nutrients[id-1], true
}

func (r *NutrientRegistry) ByName(name string) (*Nutrient, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.byName[normalizeNutrientName(name)]
	return n, ok
}

func (r *NutrientRegistry) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

// normalizeNutrientName maps "Saturated Fat", "SATURATED_FAT" and
// "saturated-fat" to "saturated_fat".
func normalizeNutrientName(raw string) string {
	k := strings.TrimSpace(strings.ToLower(raw))
	k = strings.ReplaceAll(k, "-", "_")
	k = strings.ReplaceAll(k, " ", "_")
	k = strings.Trim(k, "_")
	for strings.Contains(k, "__") {
		k = strings.ReplaceAll(k, "__", "_")
	}
	return k
}
