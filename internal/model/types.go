package model

import (
	"time"

	"github.com/saadjs/macros/internal/nutrient"
)

// Food is a stored nutrient profile. Nutrients is frozen when loaded and nil
// in list results.
type Food struct {
	ID         int64
	Name       string
	DensityGML float64
	Notes      string
	Nutrients  *nutrient.Container
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Meal struct {
	ID        int64
	Name      string
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type MealItem struct {
	ID       int64
	MealID   int64
	FoodID   int64
	FoodName string
	Quantity float64
	Unit     string
	Position int
}

// Goal holds per-nutrient targets. Targets is frozen when loaded.
type Goal struct {
	ID        int64
	Name      string
	Targets   *nutrient.Container
	CreatedAt time.Time
	UpdatedAt time.Time
}

type NutrientProgress struct {
	Nutrient  *nutrient.Nutrient
	Unit      *nutrient.Unit
	Target    float64
	Actual    float64
	HasActual bool
	// Estimated marks an energy actual derived from macronutrients.
	Estimated bool
	Fraction  float64
	Complete  bool
}
