package nutrient

import "fmt"

// Row is the storage shape of one stored value. Rows name their nutrient
// rather than carrying its ID, since custom nutrient IDs follow registration
// order and change when a registry file is edited.
type Row struct {
	Nutrient string
	Amount   float64
	UnitAbbr string
}

// Rows deconstructs the container into one row per present value, in index order.
func (c *Container) Rows() []Row {
	out := make([]Row, 0, len(c.values))
	for _, v := range c.values {
		if v == nil {
			continue
		}
		out = append(out, Row{Nutrient: v.nutrient.Name, Amount: v.amount, UnitAbbr: v.unit.Abbr})
	}
	return out
}

// FromRows rebuilds a mutable container from stored rows.
func FromRows(catalog *Catalog, rows []Row, opts ...Option) (*Container, error) {
	c := NewContainer(catalog, opts...)
	for _, r := range rows {
		n, ok := catalog.Nutrient(r.Nutrient)
		if !ok {
			return nil, fmt.Errorf("unknown nutrient %q", r.Nutrient)
		}
		u, ok := catalog.Unit(r.UnitAbbr)
		if !ok {
			return nil, fmt.Errorf("unknown unit %q for %s", r.UnitAbbr, n.Name)
		}
		if err := c.Put(n, r.Amount, u); err != nil {
			return nil, err
		}
	}
	return c, nil
}
