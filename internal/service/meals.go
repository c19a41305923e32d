package service

import (
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/saadjs/macros/internal/db"
	"github.com/saadjs/macros/internal/model"
	"github.com/saadjs/macros/internal/nutrient"
)

func CreateMeal(conn *db.Conn, name, notes string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, fmt.Errorf("meal name is required")
	}
	id, err := insertReturningID(conn, `INSERT INTO meals(name, notes) VALUES(?, ?)`, name, strings.TrimSpace(notes))
	if err != nil {
		return 0, fmt.Errorf("create meal %q: %w", name, err)
	}
	slog.Debug("created meal", "id", id, "name", name)
	return id, nil
}

func ResolveMeal(conn *db.Conn, idOrName string) (*model.Meal, error) {
	idOrName = strings.TrimSpace(idOrName)
	if idOrName == "" {
		return nil, fmt.Errorf("meal identifier is required")
	}
	const cols = `SELECT id, name, notes, created_at, updated_at FROM meals`
	var m model.Meal
	var err error
	if id, perr := parseIDLoose(idOrName); perr == nil {
		err = conn.QueryRow(cols+` WHERE id = ?`, id).Scan(&m.ID, &m.Name, &m.Notes, &m.CreatedAt, &m.UpdatedAt)
	} else {
		err = conn.QueryRow(cols+` WHERE LOWER(name) = ?`, strings.ToLower(idOrName)).Scan(&m.ID, &m.Name, &m.Notes, &m.CreatedAt, &m.UpdatedAt)
	}
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("meal %q not found", idOrName)
		}
		return nil, fmt.Errorf("resolve meal %q: %w", idOrName, err)
	}
	return &m, nil
}

func ListMeals(conn *db.Conn) ([]model.Meal, error) {
	rows, err := conn.Query(`SELECT id, name, notes, created_at, updated_at FROM meals ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list meals: %w", err)
	}
	defer rows.Close()

	items := make([]model.Meal, 0)
	for rows.Next() {
		var m model.Meal
		if err := rows.Scan(&m.ID, &m.Name, &m.Notes, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan meal: %w", err)
		}
		items = append(items, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate meals: %w", err)
	}
	return items, nil
}

type MealItemInput struct {
	Food     string
	Quantity float64
	Unit     string
}

// AddMealItem appends a portion of a food to a meal. The unit must be a mass
// or volume unit the food's quantity can be converted to.
func AddMealItem(conn *db.Conn, cat *nutrient.Catalog, mealIdentifier string, in MealItemInput) (int64, error) {
	if in.Quantity <= 0 || math.IsNaN(in.Quantity) || math.IsInf(in.Quantity, 0) {
		return 0, fmt.Errorf("quantity must be a finite number > 0")
	}
	meal, err := ResolveMeal(conn, mealIdentifier)
	if err != nil {
		return 0, err
	}
	food, err := ResolveFood(conn, cat, in.Food)
	if err != nil {
		return 0, err
	}
	u, ok := cat.Unit(in.Unit)
	if !ok {
		return 0, fmt.Errorf("unknown unit %q", in.Unit)
	}
	q, _ := food.Nutrients.Quantity()
	if _, err := nutrient.ConvertQuantity(q.Amount(), q.Unit(), u, food.DensityGML); err != nil {
		return 0, fmt.Errorf("portion of %q in %s: %w", food.Name, u.Abbr, err)
	}

	var position int
	if err := conn.QueryRow(`SELECT COALESCE(MAX(position), 0) FROM meal_items WHERE meal_id = ?`, meal.ID).Scan(&position); err != nil {
		return 0, fmt.Errorf("next position for meal %q: %w", meal.Name, err)
	}
	id, err := insertReturningID(conn, `INSERT INTO meal_items(meal_id, food_id, quantity, unit, position) VALUES(?, ?, ?, ?, ?)`,
		meal.ID, food.ID, in.Quantity, u.Abbr, position+1)
	if err != nil {
		return 0, fmt.Errorf("add item to meal %q: %w", meal.Name, err)
	}
	if _, err := conn.Exec(`UPDATE meals SET updated_at = CURRENT_TIMESTAMP WHERE id = ?`, meal.ID); err != nil {
		return 0, fmt.Errorf("touch meal %q: %w", meal.Name, err)
	}
	slog.Debug("added meal item", "meal", meal.Name, "food", food.Name, "quantity", in.Quantity, "unit", u.Abbr)
	return id, nil
}

func ListMealItems(conn *db.Conn, mealIdentifier string) ([]model.MealItem, error) {
	meal, err := ResolveMeal(conn, mealIdentifier)
	if err != nil {
		return nil, err
	}
	rows, err := conn.Query(`
SELECT mi.id, mi.meal_id, mi.food_id, f.name, mi.quantity, mi.unit, mi.position
FROM meal_items mi
JOIN foods f ON f.id = mi.food_id
WHERE mi.meal_id = ?
ORDER BY mi.position, mi.id
`, meal.ID)
	if err != nil {
		return nil, fmt.Errorf("list items for meal %q: %w", meal.Name, err)
	}
	defer rows.Close()

	items := make([]model.MealItem, 0)
	for rows.Next() {
		var it model.MealItem
		if err := rows.Scan(&it.ID, &it.MealID, &it.FoodID, &it.FoodName, &it.Quantity, &it.Unit, &it.Position); err != nil {
			return nil, fmt.Errorf("scan meal item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate meal items: %w", err)
	}
	return items, nil
}

func RemoveMealItem(conn *db.Conn, mealIdentifier string, itemID int64) error {
	meal, err := ResolveMeal(conn, mealIdentifier)
	if err != nil {
		return err
	}
	res, err := conn.Exec(`DELETE FROM meal_items WHERE id = ? AND meal_id = ?`, itemID, meal.ID)
	if err != nil {
		return fmt.Errorf("remove item %d from meal %q: %w", itemID, meal.Name, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("remove item %d rows affected: %w", itemID, err)
	}
	if affected == 0 {
		return fmt.Errorf("meal %q has no item %d", meal.Name, itemID)
	}
	return nil
}

func DeleteMeal(conn *db.Conn, idOrName string) error {
	meal, err := ResolveMeal(conn, idOrName)
	if err != nil {
		return err
	}
	if _, err := conn.Exec(`DELETE FROM meals WHERE id = ?`, meal.ID); err != nil {
		return fmt.Errorf("delete meal %q: %w", meal.Name, err)
	}
	return nil
}

// MealNutrients totals every item of a meal. Each food profile is normalised
// to canonical units, re-expressed per the item's unit, scaled to the item's
// quantity and converted to a shared quantity unit before summing. The shared
// unit is g unless some item can only be measured by volume, in which case
// every item must be expressible in ml.
func MealNutrients(conn *db.Conn, cat *nutrient.Catalog, mealIdentifier string) (*nutrient.Container, error) {
	items, err := ListMealItems(conn, mealIdentifier)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		empty := nutrient.NewContainer(cat)
		if err := empty.Put(cat.Quantity, 0, cat.Grams); err != nil {
			return nil, err
		}
		empty.Freeze()
		return empty, nil
	}

	foods := make(map[int64]*model.Food, len(items))
	for _, it := range items {
		if _, ok := foods[it.FoodID]; ok {
			continue
		}
		f, err := ResolveFood(conn, cat, fmt.Sprint(it.FoodID))
		if err != nil {
			return nil, err
		}
		foods[it.FoodID] = f
	}

	target, err := sharedQuantityUnit(cat, items, foods)
	if err != nil {
		return nil, err
	}

	portions := make([]*nutrient.Container, 0, len(items))
	for _, it := range items {
		portion, err := itemPortion(cat, it, foods[it.FoodID], target)
		if err != nil {
			return nil, fmt.Errorf("meal item %d (%s): %w", it.ID, it.FoodName, err)
		}
		portions = append(portions, portion)
	}
	total, err := nutrient.Sum(cat, portions...)
	if err != nil {
		return nil, fmt.Errorf("sum meal items: %w", err)
	}
	total.Freeze()
	return total, nil
}

func itemPortion(cat *nutrient.Catalog, it model.MealItem, food *model.Food, target *nutrient.Unit) (*nutrient.Container, error) {
	u, ok := cat.Unit(it.Unit)
	if !ok {
		return nil, fmt.Errorf("unknown unit %q", it.Unit)
	}
	profile, err := food.Nutrients.InUnits(cat.CanonicalUnit)
	if err != nil {
		return nil, err
	}
	inItemUnit, err := profile.WithQuantityUnit(u, food.DensityGML)
	if err != nil {
		return nil, err
	}
	q, _ := inItemUnit.Quantity()
	if q.Amount() <= 0 {
		return nil, fmt.Errorf("food %q has no usable quantity", food.Name)
	}
	scaled, err := inItemUnit.Rescale(it.Quantity / q.Amount())
	if err != nil {
		return nil, err
	}
	return scaled.WithQuantityUnit(target, food.DensityGML)
}

func sharedQuantityUnit(cat *nutrient.Catalog, items []model.MealItem, foods map[int64]*model.Food) (*nutrient.Unit, error) {
	allMass, allVolume := true, true
	for _, it := range items {
		u, ok := cat.Unit(it.Unit)
		if !ok {
			return nil, fmt.Errorf("unknown unit %q", it.Unit)
		}
		hasDensity := foods[it.FoodID].DensityGML > 0
		if u.Type != nutrient.Mass && !hasDensity {
			allMass = false
		}
		if u.Type != nutrient.Volume && !hasDensity {
			allVolume = false
		}
	}
	switch {
	case allMass:
		return cat.Grams, nil
	case allVolume:
		return cat.Millilitre, nil
	default:
		return nil, fmt.Errorf("meal mixes mass and volume items without densities to reconcile them")
	}
}

// SaveMealAsFood stores the meal's total as a new food.
func SaveMealAsFood(conn *db.Conn, cat *nutrient.Catalog, mealIdentifier, foodName string) (int64, error) {
	meal, err := ResolveMeal(conn, mealIdentifier)
	if err != nil {
		return 0, err
	}
	total, err := MealNutrients(conn, cat, mealIdentifier)
	if err != nil {
		return 0, err
	}
	if q, _ := total.Quantity(); q.Amount() <= 0 {
		return 0, fmt.Errorf("meal %q has no items", meal.Name)
	}
	foodName = strings.TrimSpace(foodName)
	if foodName == "" {
		foodName = meal.Name
	}
	return CreateFood(conn, FoodInput{
		Name:      foodName,
		Notes:     fmt.Sprintf("from meal %s", meal.Name),
		Nutrients: total,
	})
}
