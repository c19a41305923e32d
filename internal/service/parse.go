package service

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/saadjs/macros/internal/nutrient"
)

// ParseAmount splits inputs such as "20g", "1.5 cup" or "250 kcal" into an
// amount and a catalog unit.
func ParseAmount(cat *nutrient.Catalog, raw string) (float64, *nutrient.Unit, error) {
	s := strings.TrimSpace(raw)
	end := 0
	for end < len(s) && (isDigit(s[end]) || s[end] == '.' || (end == 0 && (s[end] == '-' || s[end] == '+'))) {
		end++
	}
	if end == 0 {
		return 0, nil, fmt.Errorf("invalid amount %q (expected e.g. 20g)", raw)
	}
	amount, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0, nil, fmt.Errorf("invalid amount %q: %w", raw, err)
	}
	if amount < 0 {
		return 0, nil, fmt.Errorf("amount must be >= 0, got %q", raw)
	}
	abbr := strings.TrimSpace(s[end:])
	if abbr == "" {
		return 0, nil, fmt.Errorf("amount %q has no unit", raw)
	}
	u, ok := cat.Unit(abbr)
	if !ok {
		return 0, nil, fmt.Errorf("unknown unit %q", abbr)
	}
	return amount, u, nil
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// ParseNutrientAssignment parses "protein=20g" into a value.
func ParseNutrientAssignment(cat *nutrient.Catalog, raw string) (nutrient.Value, error) {
	name, amountText, ok := strings.Cut(raw, "=")
	if !ok {
		return nutrient.Value{}, fmt.Errorf("invalid nutrient %q (expected name=amount, e.g. protein=20g)", raw)
	}
	n, ok := cat.Nutrient(name)
	if !ok {
		return nutrient.Value{}, fmt.Errorf("unknown nutrient %q", strings.TrimSpace(name))
	}
	amount, u, err := ParseAmount(cat, amountText)
	if err != nil {
		return nutrient.Value{}, fmt.Errorf("%s: %w", n.Name, err)
	}
	return nutrient.NewValue(n, amount, u)
}

// ParseProfile builds a mutable container from assignments. quantity may be
// empty for profiles without a reference amount, such as goals.
func ParseProfile(cat *nutrient.Catalog, quantity string, assignments []string, opts ...nutrient.Option) (*nutrient.Container, error) {
	c := nutrient.NewContainer(cat, opts...)
	if strings.TrimSpace(quantity) != "" {
		amount, u, err := ParseAmount(cat, quantity)
		if err != nil {
			return nil, fmt.Errorf("quantity: %w", err)
		}
		if err := c.Put(cat.Quantity, amount, u); err != nil {
			return nil, err
		}
	}
	for _, raw := range assignments {
		v, err := ParseNutrientAssignment(cat, raw)
		if err != nil {
			return nil, err
		}
		if _, dup := c.Get(v.Nutrient()); dup {
			return nil, fmt.Errorf("nutrient %s given more than once", v.Nutrient().Name)
		}
		if err := c.Set(v); err != nil {
			return nil, err
		}
	}
	return c, nil
}
