package nutrient

import (
	"fmt"
	"math"
)

// Rescale returns a mutable copy with every present amount, the quantity
// included, multiplied by factor. Units and completeness are unchanged.
func (c *Container) Rescale(factor float64) (*Container, error) {
	if math.IsNaN(factor) || math.IsInf(factor, 0) {
		return nil, fmt.Errorf("rescale factor must be finite, got %v", factor)
	}
	out := c.Copy()
	for i, v := range out.values {
		if v == nil {
			continue
		}
		scaled := v.scaled(factor)
		out.values[i] = &scaled
	}
	return out, nil
}

// WithQuantityUnit returns a mutable copy whose quantity is re-expressed in
// target. Mass/volume changes need densityGML > 0. Other nutrients keep their
// amounts, since they still describe the same portion of food.
func (c *Container) WithQuantityUnit(target *Unit, densityGML float64) (*Container, error) {
	q, ok := c.Quantity()
	if !ok {
		return nil, fmt.Errorf("container has no quantity to convert")
	}
	if !q.nutrient.Types.Has(target.Type) {
		return nil, &IncompatibleUnitError{Nutrient: q.nutrient.Name, Unit: target.Abbr, Reason: fmt.Sprintf("quantity accepts %s units, not %s", q.nutrient.Types, target.Type)}
	}
	amount, err := ConvertQuantity(q.amount, q.unit, target, densityGML)
	if err != nil {
		return nil, err
	}
	out := c.Copy()
	out.values[q.nutrient.Index] = &Value{nutrient: q.nutrient, amount: amount, unit: target}
	return out, nil
}

// PerQuantity re-expresses the profile per amount of unit, for example per
// 100 g or per 250 ml.
func (c *Container) PerQuantity(amount float64, unit *Unit, densityGML float64) (*Container, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("reference amount must be > 0")
	}
	converted, err := c.WithQuantityUnit(unit, densityGML)
	if err != nil {
		return nil, err
	}
	q, _ := converted.Quantity()
	if q.amount == 0 {
		return nil, fmt.Errorf("cannot rescale a zero quantity")
	}
	return converted.Rescale(amount / q.amount)
}

// InUnits returns a mutable copy with every present nutrient other than the
// quantity converted to the unit pick returns. A nil unit leaves the value as is.
func (c *Container) InUnits(pick func(*Nutrient) *Unit) (*Container, error) {
	out := c.Copy()
	for i, v := range out.values {
		if v == nil || v.nutrient == c.catalog.Quantity {
			continue
		}
		u := pick(v.nutrient)
		if u == nil || u == v.unit {
			continue
		}
		converted, err := v.In(u)
		if err != nil {
			return nil, err
		}
		out.values[i] = &converted
	}
	return out, nil
}

// Sum adds containers slot by slot. Missing values count as zero; a result
// slot is complete only when every input was complete. Inputs must already
// agree on the unit of each nutrient.
func Sum(catalog *Catalog, containers ...*Container) (*Container, error) {
	out := NewContainer(catalog)
	if len(containers) == 0 {
		return out, nil
	}
	for i, in := range containers {
		if in == nil {
			return nil, fmt.Errorf("cannot sum a nil container at position %d", i)
		}
		if in.catalog != catalog {
			return nil, fmt.Errorf("cannot sum containers built from different catalogs")
		}
	}

	for i, n := range catalog.nutrients {
		var (
			total    float64
			unit     *Unit
			complete = true
		)
		for _, in := range containers {
			complete = complete && in.complete[i]
			v := in.values[i]
			if v == nil {
				continue
			}
			if unit == nil {
				unit = v.unit
			} else if v.unit != unit {
				return nil, &UnitMismatchError{Nutrient: n.Name, Want: unit.Abbr, Got: v.unit.Abbr}
			}
			total += v.amount
		}
		if unit != nil {
			out.values[i] = &Value{nutrient: n, amount: total, unit: unit}
		}
		out.complete[i] = complete
	}
	return out, nil
}
