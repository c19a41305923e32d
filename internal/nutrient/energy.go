package nutrient

// Energy densities in kJ per gram.
const (
	ProteinKJPerGram      = 17.0
	FatKJPerGram          = 37.0
	CarbohydrateKJPerGram = 17.0
	FibreKJPerGram        = 8.27
	AlcoholKJPerGram      = 29.0
)

// EnergyBreakdown holds the macronutrient energy components of a profile, in kJ.
// Fat and Carbohydrate are already coerced up to the sum of their subtypes.
// Total covers protein, fat, carbohydrate and fibre; alcohol is reported
// separately and left out of it.
type EnergyBreakdown struct {
	Protein      float64
	Fat          float64
	SaturatedFat float64
	MonoFat      float64
	PolyFat      float64
	Carbohydrate float64
	Sugar        float64
	Starch       float64
	Fibre        float64
	Alcohol      float64
	Total        float64

	kilojoule *Unit
}

// TotalIn converts Total to another energy unit.
func (b EnergyBreakdown) TotalIn(u *Unit) (float64, error) {
	return Convert(b.Total, b.kilojoule, u)
}

// MacroEnergy computes the energy contributed by each macronutrient. Missing
// values count as zero whatever their completeness.
func MacroEnergy(c *Container) EnergyBreakdown {
	cat := c.catalog
	grams := func(n *Nutrient) float64 {
		return c.AmountOr(n, cat.Grams, 0)
	}

	b := EnergyBreakdown{
		Protein:      grams(cat.Protein) * ProteinKJPerGram,
		SaturatedFat: grams(cat.SaturatedFat) * FatKJPerGram,
		MonoFat:      grams(cat.MonounsaturatedFat) * FatKJPerGram,
		PolyFat:      grams(cat.PolyunsaturatedFat) * FatKJPerGram,
		Sugar:        grams(cat.Sugar) * CarbohydrateKJPerGram,
		Starch:       grams(cat.Starch) * CarbohydrateKJPerGram,
		Fibre:        grams(cat.Fibre) * FibreKJPerGram,
		Alcohol:      grams(cat.Alcohol) * AlcoholKJPerGram,
		kilojoule:    cat.Kilojoule,
	}
	b.Fat = max(grams(cat.Fat)*FatKJPerGram, b.SaturatedFat+b.MonoFat+b.PolyFat)
	b.Carbohydrate = max(carbohydrateForEnergy(c)*CarbohydrateKJPerGram, b.Sugar+b.Starch)
	b.Total = b.Protein + b.Fat + b.Carbohydrate + b.Fibre
	return b
}

// carbohydrateForEnergy uses the stored carbohydrate when there is one and the
// best-effort estimate otherwise.
func carbohydrateForEnergy(c *Container) float64 {
	cat := c.catalog
	if amount, ok, err := c.AmountIn(cat.Carbohydrate, cat.Grams); ok && err == nil {
		return amount
	}
	return bestEffortCarbohydrate(c)
}

// bestEffortCarbohydrate estimates available carbohydrate in grams from
// whatever complete data the profile has. It never writes back.
func bestEffortCarbohydrate(c *Container) float64 {
	cat := c.catalog
	grams := func(n *Nutrient) float64 {
		return c.AmountOr(n, cat.Grams, 0)
	}
	switch {
	case c.HasCompleteData(cat.Carbohydrate):
		return grams(cat.Carbohydrate)
	case c.HasCompleteData(cat.CarbohydrateByDiff) && c.HasCompleteData(cat.Fibre):
		return grams(cat.CarbohydrateByDiff) - grams(cat.Fibre)
	case c.HasCompleteData(cat.CarbohydrateByDiff):
		return grams(cat.CarbohydrateByDiff)
	default:
		return 0
	}
}

// EnergeticNutrients lists the nutrients that carry an energy proportion.
func (c *Catalog) EnergeticNutrients() []*Nutrient {
	return []*Nutrient{
		c.Protein, c.Fat, c.SaturatedFat, c.MonounsaturatedFat, c.PolyunsaturatedFat,
		c.Carbohydrate, c.Sugar, c.Starch, c.Fibre, c.Alcohol,
	}
}

// Component returns the energy attributed to n, or 0 for nutrients outside
// the energetic set.
func (b EnergyBreakdown) Component(cat *Catalog, n *Nutrient) float64 {
	switch n {
	case cat.Protein:
		return b.Protein
	case cat.Fat:
		return b.Fat
	case cat.SaturatedFat:
		return b.SaturatedFat
	case cat.MonounsaturatedFat:
		return b.MonoFat
	case cat.PolyunsaturatedFat:
		return b.PolyFat
	case cat.Carbohydrate:
		return b.Carbohydrate
	case cat.Sugar:
		return b.Sugar
	case cat.Starch:
		return b.Starch
	case cat.Fibre:
		return b.Fibre
	case cat.Alcohol:
		return b.Alcohol
	default:
		return 0
	}
}

// EnergyProportion returns the share of total macro energy attributed to n.
// Fat and carbohydrate subtypes report a breakdown of their parent's share,
// so only protein, fat, carbohydrate and fibre add up to 1.
func EnergyProportion(c *Container, n *Nutrient) float64 {
	b := MacroEnergy(c)
	return b.proportion(c.catalog, n)
}

// EnergyProportions returns the proportion of every energetic nutrient.
func EnergyProportions(c *Container) map[*Nutrient]float64 {
	b := MacroEnergy(c)
	out := map[*Nutrient]float64{}
	for _, n := range c.catalog.EnergeticNutrients() {
		out[n] = b.proportion(c.catalog, n)
	}
	return out
}

func (b EnergyBreakdown) proportion(cat *Catalog, n *Nutrient) float64 {
	if b.Total <= 0 {
		return 0
	}
	return b.Component(cat, n) / b.Total
}
