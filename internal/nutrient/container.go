package nutrient

import (
	"fmt"
)

// Container is a fixed-slot nutrient profile for one subject (a food, a meal,
// a goal). Each slot holds an optional value and an independent completeness
// flag. A container starts mutable and can be frozen exactly once; a frozen
// container is safe to share between goroutines.
type Container struct {
	catalog           *Catalog
	values            []*Value
	complete          []bool
	frozen            bool
	completeIfPresent bool
}

// Option configures a new container.
type Option func(*Container)

// CompleteIfPresent toggles the policy that setting a value marks the
// nutrient complete and clearing it marks it incomplete. It is on by default.
func CompleteIfPresent(enabled bool) Option {
	return func(c *Container) {
		c.completeIfPresent = enabled
	}
}

// NewContainer returns an empty mutable container sized to the catalog.
func NewContainer(catalog *Catalog, opts ...Option) *Container {
	size := catalog.NumNutrients()
	c := &Container{
		catalog:           catalog,
		values:            make([]*Value, size),
		complete:          make([]bool, size),
		completeIfPresent: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Container) Catalog() *Catalog {
	return c.catalog
}

func (c *Container) slot(n *Nutrient) int {
	if !c.catalog.owns(n) {
		panic(fmt.Sprintf("nutrient %v does not belong to this container's catalog", n))
	}
	return n.Index
}

// Get returns the value stored for n.
func (c *Container) Get(n *Nutrient) (Value, bool) {
	v := c.values[c.slot(n)]
	if v == nil {
		return Value{}, false
	}
	return *v, true
}

// Amount returns the amount of n in its stored unit.
func (c *Container) Amount(n *Nutrient) (float64, bool) {
	v, ok := c.Get(n)
	if !ok {
		return 0, false
	}
	return v.amount, true
}

// AmountIn returns the amount of n converted to u. A missing value yields
// ok=false; an unsuitable unit yields an *IncompatibleUnitError.
func (c *Container) AmountIn(n *Nutrient, u *Unit) (float64, bool, error) {
	v, ok := c.Get(n)
	if !ok {
		if !n.Types.Has(u.Type) {
			return 0, false, &IncompatibleUnitError{Nutrient: n.Name, Unit: u.Abbr, Reason: fmt.Sprintf("%s accepts %s units, not %s", n.Name, n.Types, u.Type)}
		}
		return 0, false, nil
	}
	amount, err := v.ConvertTo(u)
	if err != nil {
		return 0, true, err
	}
	return amount, true, nil
}

// AmountOr returns the amount of n in u, or def when it is missing or cannot
// be expressed in u.
func (c *Container) AmountOr(n *Nutrient, u *Unit, def float64) float64 {
	amount, ok, err := c.AmountIn(n, u)
	if !ok || err != nil {
		return def
	}
	return amount
}

// Quantity returns the reference amount every other value is expressed per.
func (c *Container) Quantity() (Value, bool) {
	return c.Get(c.catalog.Quantity)
}

func (c *Container) HasCompleteData(n *Nutrient) bool {
	return c.complete[c.slot(n)]
}

// Set stores v under its nutrient.
func (c *Container) Set(v Value) error {
	if v.nutrient == nil {
		return fmt.Errorf("value has no nutrient")
	}
	if c.frozen {
		return &ImmutabilityError{Op: "set", Nutrient: v.nutrient.Name}
	}
	i := c.slot(v.nutrient)
	stored := v
	c.values[i] = &stored
	if c.completeIfPresent {
		c.complete[i] = true
	}
	return nil
}

// Put builds and stores a value in one step.
func (c *Container) Put(n *Nutrient, amount float64, u *Unit) error {
	if c.frozen {
		return &ImmutabilityError{Op: "set", Nutrient: n.Name}
	}
	v, err := NewValue(n, amount, u)
	if err != nil {
		return err
	}
	return c.Set(v)
}

// Clear removes the value for n.
func (c *Container) Clear(n *Nutrient) error {
	if c.frozen {
		return &ImmutabilityError{Op: "clear", Nutrient: n.Name}
	}
	i := c.slot(n)
	c.values[i] = nil
	if c.completeIfPresent {
		c.complete[i] = false
	}
	return nil
}

// SetComplete overrides the completeness flag for n.
func (c *Container) SetComplete(n *Nutrient, complete bool) error {
	if c.frozen {
		return &ImmutabilityError{Op: "mark", Nutrient: n.Name}
	}
	c.complete[c.slot(n)] = complete
	return nil
}

// Freeze makes the container read-only. It cannot be undone.
func (c *Container) Freeze() {
	c.frozen = true
}

func (c *Container) Frozen() bool {
	return c.frozen
}

// Copy returns a mutable duplicate with the same values, flags and policy.
func (c *Container) Copy() *Container {
	out := &Container{
		catalog:           c.catalog,
		values:            make([]*Value, len(c.values)),
		complete:          make([]bool, len(c.complete)),
		completeIfPresent: c.completeIfPresent,
	}
	copy(out.values, c.values)
	copy(out.complete, c.complete)
	return out
}

// Present lists the nutrients that hold a value, in index order.
func (c *Container) Present() []*Nutrient {
	out := make([]*Nutrient, 0, len(c.values))
	for i, v := range c.values {
		if v != nil {
			out = append(out, c.catalog.nutrients[i])
		}
	}
	return out
}

// Values lists the stored values in index order.
func (c *Container) Values() []Value {
	out := make([]Value, 0, len(c.values))
	for _, v := range c.values {
		if v != nil {
			out = append(out, *v)
		}
	}
	return out
}
