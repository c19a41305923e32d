package service

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/saadjs/macros/internal/db"
	"github.com/saadjs/macros/internal/model"
	"github.com/saadjs/macros/internal/nutrient"
)

const goalTargetsQuery = `SELECT nutrient, amount, unit, 1 FROM goal_nutrients WHERE goal_id = ?`

// SetGoal creates or replaces the named goal. The quantity slot of targets is
// ignored.
func SetGoal(conn *db.Conn, name string, targets *nutrient.Container) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, fmt.Errorf("goal name is required")
	}
	if err := validateProfile(targets, false); err != nil {
		return 0, err
	}
	quantity := targets.Catalog().Quantity

	tx, err := conn.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin set goal: %w", err)
	}
	id, err := insertReturningID(tx, `
INSERT INTO goals(name) VALUES(?)
ON CONFLICT(name) DO UPDATE SET updated_at = CURRENT_TIMESTAMP`, name)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("set goal %q: %w", name, err)
	}
	if _, err := tx.Exec(`DELETE FROM goal_nutrients WHERE goal_id = ?`, id); err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("clear targets for goal %q: %w", name, err)
	}
	written := 0
	for _, v := range targets.Values() {
		if v.Nutrient() == quantity {
			continue
		}
		if _, err := tx.Exec(`INSERT INTO goal_nutrients(goal_id, nutrient, amount, unit) VALUES(?, ?, ?, ?)`,
			id, v.Nutrient().Name, v.Amount(), v.Unit().Abbr); err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("store %s target for goal %q: %w", v.Nutrient().Name, name, err)
		}
		written++
	}
	if written == 0 {
		_ = tx.Rollback()
		return 0, fmt.Errorf("goal %q needs at least one nutrient target", name)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit set goal: %w", err)
	}
	slog.Debug("set goal", "id", id, "name", name, "targets", written)
	return id, nil
}

func ResolveGoal(conn *db.Conn, cat *nutrient.Catalog, idOrName string) (*model.Goal, error) {
	idOrName = strings.TrimSpace(idOrName)
	if idOrName == "" {
		return nil, fmt.Errorf("goal identifier is required")
	}
	const cols = `SELECT id, name, created_at, updated_at FROM goals`
	var g model.Goal
	var err error
	if id, perr := parseIDLoose(idOrName); perr == nil {
		err = conn.QueryRow(cols+` WHERE id = ?`, id).Scan(&g.ID, &g.Name, &g.CreatedAt, &g.UpdatedAt)
	} else {
		err = conn.QueryRow(cols+` WHERE LOWER(name) = ?`, strings.ToLower(idOrName)).Scan(&g.ID, &g.Name, &g.CreatedAt, &g.UpdatedAt)
	}
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("goal %q not found", idOrName)
		}
		return nil, fmt.Errorf("resolve goal %q: %w", idOrName, err)
	}
	g.Targets, err = loadProfile(conn, cat, goalTargetsQuery, g.ID)
	if err != nil {
		return nil, fmt.Errorf("load targets for goal %q: %w", g.Name, err)
	}
	return &g, nil
}

// GoalProgress compares actual against every target of goal, in nutrient
// order. A missing energy value in actual is estimated from macronutrients.
func GoalProgress(goal *model.Goal, actual *nutrient.Container) ([]model.NutrientProgress, error) {
	cat := goal.Targets.Catalog()
	if actual.Catalog() != cat {
		return nil, fmt.Errorf("goal and intake use different nutrient catalogs")
	}
	out := make([]model.NutrientProgress, 0)
	for _, target := range goal.Targets.Values() {
		n := target.Nutrient()
		p := model.NutrientProgress{
			Nutrient: n,
			Unit:     target.Unit(),
			Target:   target.Amount(),
			Complete: actual.HasCompleteData(n),
		}
		amount, ok, err := actual.AmountIn(n, target.Unit())
		if err != nil {
			return nil, fmt.Errorf("progress for %s: %w", n.Name, err)
		}
		if !ok && n == cat.Energy {
			amount, err = nutrient.MacroEnergy(actual).TotalIn(target.Unit())
			if err != nil {
				return nil, fmt.Errorf("estimate energy: %w", err)
			}
			ok = true
			p.Estimated = true
		}
		p.Actual = amount
		p.HasActual = ok
		if p.Target > 0 {
			p.Fraction = p.Actual / p.Target
		}
		out = append(out, p)
	}
	return out, nil
}

// AdherenceWithin reports whether actual lies within tolerance of target.
func AdherenceWithin(actual float64, target float64, tolerance float64) bool {
	if target == 0 {
		return actual == 0
	}
	lower := target * (1 - tolerance)
	upper := target * (1 + tolerance)
	return actual >= lower && actual <= upper
}
