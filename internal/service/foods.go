package service

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/saadjs/macros/internal/db"
	"github.com/saadjs/macros/internal/model"
	"github.com/saadjs/macros/internal/nutrient"
)

type FoodInput struct {
	Name       string
	DensityGML float64
	Notes      string
	// Nutrients must carry a positive quantity; every other value is per
	// that quantity.
	Nutrients *nutrient.Container
}

const foodProfileQuery = `SELECT nutrient, amount, unit, complete FROM food_nutrients WHERE food_id = ?`

func CreateFood(conn *db.Conn, in FoodInput) (int64, error) {
	if err := validateFoodInput(in); err != nil {
		return 0, err
	}
	tx, err := conn.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin create food: %w", err)
	}
	id, err := insertReturningID(tx, `INSERT INTO foods(name, density_g_ml, notes) VALUES(?, ?, ?)`,
		strings.TrimSpace(in.Name), in.DensityGML, strings.TrimSpace(in.Notes))
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("create food %q: %w", in.Name, err)
	}
	if err := writeFoodNutrients(tx, id, in.Nutrients, nil); err != nil {
		_ = tx.Rollback()
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit create food: %w", err)
	}
	slog.Debug("created food", "id", id, "name", in.Name, "nutrients", len(in.Nutrients.Values()))
	return id, nil
}

// UpdateFoodNutrients merges the values of update into a stored food. When
// update carries its own quantity it is first rescaled to the food's stored
// quantity; the stored quantity never changes. Every nutrient in incomplete is
// flagged as a lower bound afterwards, whether or not update sets it, and
// must then have a stored value.
func UpdateFoodNutrients(conn *db.Conn, idOrName string, update *nutrient.Container, incomplete ...*nutrient.Nutrient) error {
	food, err := ResolveFood(conn, update.Catalog(), idOrName)
	if err != nil {
		return err
	}
	if err := validateProfile(update, false); err != nil {
		return err
	}
	if _, ok := update.Quantity(); ok {
		q, _ := food.Nutrients.Quantity()
		update, err = update.PerQuantity(q.Amount(), q.Unit(), food.DensityGML)
		if err != nil {
			return fmt.Errorf("rebase update for %q: %w", food.Name, err)
		}
	}

	tx, err := conn.Begin()
	if err != nil {
		return fmt.Errorf("begin update food: %w", err)
	}
	skip := update.Catalog().Quantity
	if err := writeFoodNutrients(tx, food.ID, update, skip); err != nil {
		_ = tx.Rollback()
		return err
	}
	for _, n := range incomplete {
		if err := markStoredIncomplete(tx, food, n); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	if _, err := tx.Exec(`UPDATE foods SET updated_at = CURRENT_TIMESTAMP WHERE id = ?`, food.ID); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("touch food %q: %w", food.Name, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit update food: %w", err)
	}
	slog.Debug("updated food nutrients", "id", food.ID, "values", len(update.Values()), "incomplete", len(incomplete))
	return nil
}

func writeFoodNutrients(tx *db.Tx, foodID int64, c *nutrient.Container, skip *nutrient.Nutrient) error {
	for _, v := range c.Values() {
		n := v.Nutrient()
		if n == skip {
			continue
		}
		_, err := tx.Exec(`
INSERT INTO food_nutrients(food_id, nutrient, amount, unit, complete)
VALUES(?, ?, ?, ?, ?)
ON CONFLICT(food_id, nutrient) DO UPDATE SET
  amount=excluded.amount,
  unit=excluded.unit,
  complete=excluded.complete
`, foodID, n.Name, v.Amount(), v.Unit().Abbr, boolInt(c.HasCompleteData(n)))
		if err != nil {
			return fmt.Errorf("store %s for food %d: %w", n.Name, foodID, err)
		}
	}
	return nil
}

func markStoredIncomplete(tx *db.Tx, food *model.Food, n *nutrient.Nutrient) error {
	res, err := tx.Exec(`UPDATE food_nutrients SET complete = 0 WHERE food_id = ? AND nutrient = ?`, food.ID, n.Name)
	if err != nil {
		return fmt.Errorf("mark %s incomplete for food %q: %w", n.Name, food.Name, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark %s incomplete for food %q: %w", n.Name, food.Name, err)
	}
	if affected == 0 {
		return fmt.Errorf("food %q has no %s value to mark incomplete", food.Name, n.Name)
	}
	return nil
}

// ResolveFood loads a food by id or case-insensitive name, with its frozen
// nutrient profile.
func ResolveFood(conn *db.Conn, cat *nutrient.Catalog, idOrName string) (*model.Food, error) {
	idOrName = strings.TrimSpace(idOrName)
	if idOrName == "" {
		return nil, fmt.Errorf("food identifier is required")
	}
	const cols = `SELECT id, name, density_g_ml, notes, created_at, updated_at FROM foods`
	var f model.Food
	var err error
	if id, perr := parseIDLoose(idOrName); perr == nil {
		err = conn.QueryRow(cols+` WHERE id = ?`, id).Scan(&f.ID, &f.Name, &f.DensityGML, &f.Notes, &f.CreatedAt, &f.UpdatedAt)
	} else {
		err = conn.QueryRow(cols+` WHERE LOWER(name) = ?`, strings.ToLower(idOrName)).Scan(&f.ID, &f.Name, &f.DensityGML, &f.Notes, &f.CreatedAt, &f.UpdatedAt)
	}
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("food %q not found", idOrName)
		}
		return nil, fmt.Errorf("resolve food %q: %w", idOrName, err)
	}

	f.Nutrients, err = loadProfile(conn, cat, foodProfileQuery, f.ID)
	if err != nil {
		return nil, fmt.Errorf("load nutrients for food %q: %w", f.Name, err)
	}
	return &f, nil
}

func ListFoods(conn *db.Conn) ([]model.Food, error) {
	rows, err := conn.Query(`
SELECT id, name, density_g_ml, notes, created_at, updated_at
FROM foods
ORDER BY name
`)
	if err != nil {
		return nil, fmt.Errorf("list foods: %w", err)
	}
	defer rows.Close()

	items := make([]model.Food, 0)
	for rows.Next() {
		var f model.Food
		if err := rows.Scan(&f.ID, &f.Name, &f.DensityGML, &f.Notes, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan food: %w", err)
		}
		items = append(items, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate foods: %w", err)
	}
	return items, nil
}

// DeleteFood removes a food and its nutrients. Foods still used by a meal
// cannot be deleted.
func DeleteFood(conn *db.Conn, cat *nutrient.Catalog, idOrName string) error {
	food, err := ResolveFood(conn, cat, idOrName)
	if err != nil {
		return err
	}
	var uses int
	if err := conn.QueryRow(`SELECT COUNT(1) FROM meal_items WHERE food_id = ?`, food.ID).Scan(&uses); err != nil {
		return fmt.Errorf("count meal items for food %q: %w", food.Name, err)
	}
	if uses > 0 {
		return fmt.Errorf("food %q is used by %d meal item(s)", food.Name, uses)
	}
	if _, err := conn.Exec(`DELETE FROM foods WHERE id = ?`, food.ID); err != nil {
		return fmt.Errorf("delete food %q: %w", food.Name, err)
	}
	slog.Debug("deleted food", "id", food.ID, "name", food.Name)
	return nil
}

func validateFoodInput(in FoodInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("food name is required")
	}
	if err := validateNonNegativeFloat("density", in.DensityGML); err != nil {
		return err
	}
	if in.Nutrients == nil {
		return fmt.Errorf("food nutrients are required")
	}
	return validateProfile(in.Nutrients, true)
}
