package nutrient

import (
	"fmt"
	"math"
)

// Value is an immutable (nutrient, amount, unit) triple.
type Value struct {
	nutrient *Nutrient
	amount   float64
	unit     *Unit
}

// NewValue builds a value, checking that the unit suits the nutrient.
func NewValue(n *Nutrient, amount float64, u *Unit) (Value, error) {
	if n == nil || u == nil {
		return Value{}, fmt.Errorf("nutrient and unit are required")
	}
	if !n.Types.Has(u.Type) {
		return Value{}, &IncompatibleUnitError{
			Nutrient: n.Name,
			Unit:     u.Abbr,
			Reason:   fmt.Sprintf("%s accepts %s units, not %s", n.Name, n.Types, u.Type),
		}
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return Value{}, fmt.Errorf("%s amount must be finite", n.Name)
	}
	return Value{nutrient: n, amount: amount, unit: u}, nil
}

func (v Value) Nutrient() *Nutrient { return v.nutrient }
func (v Value) Amount() float64     { return v.amount }
func (v Value) Unit() *Unit         { return v.unit }

// ConvertTo returns the amount expressed in u.
func (v Value) ConvertTo(u *Unit) (float64, error) {
	if !v.nutrient.Types.Has(u.Type) {
		return 0, &IncompatibleUnitError{
			Nutrient: v.nutrient.Name,
			Unit:     u.Abbr,
			Reason:   fmt.Sprintf("%s accepts %s units, not %s", v.nutrient.Name, v.nutrient.Types, u.Type),
		}
	}
	out, err := Convert(v.amount, v.unit, u)
	if err != nil {
		if ie, ok := err.(*IncompatibleUnitError); ok {
			ie.Nutrient = v.nutrient.Name
		}
		return 0, err
	}
	return out, nil
}

// In returns a new value expressed in u.
func (v Value) In(u *Unit) (Value, error) {
	amount, err := v.ConvertTo(u)
	if err != nil {
		return Value{}, err
	}
	return Value{nutrient: v.nutrient, amount: amount, unit: u}, nil
}

func (v Value) scaled(factor float64) Value {
	return Value{nutrient: v.nutrient, amount: v.amount * factor, unit: v.unit}
}

func (v Value) String() string {
	return fmt.Sprintf("%s=%g%s", v.nutrient.Name, v.amount, v.unit.Abbr)
}
