package db

import (
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
)

type migration struct {
	version int
	name    string
	sql     string
}

// Statements use {{pk}} for the dialect's auto-incrementing primary key.
var migrations = []migration{
	{
		version: 1,
		name:    "foods",
		sql: `
CREATE TABLE IF NOT EXISTS foods (
  id {{pk}},
  name TEXT NOT NULL UNIQUE,
  density_g_ml DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK(density_g_ml >= 0),
  notes TEXT NOT NULL DEFAULT '',
  created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS food_nutrients (
  food_id BIGINT NOT NULL,
  nutrient TEXT NOT NULL,
  amount DOUBLE PRECISION NOT NULL,
  unit TEXT NOT NULL,
  complete INTEGER NOT NULL DEFAULT 1,
  PRIMARY KEY(food_id, nutrient),
  FOREIGN KEY(food_id) REFERENCES foods(id) ON DELETE CASCADE
);
`,
	},
	{
		version: 2,
		name:    "meals",
		sql: `
CREATE TABLE IF NOT EXISTS meals (
  id {{pk}},
  name TEXT NOT NULL UNIQUE,
  notes TEXT NOT NULL DEFAULT '',
  created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS meal_items (
  id {{pk}},
  meal_id BIGINT NOT NULL,
  food_id BIGINT NOT NULL,
  quantity DOUBLE PRECISION NOT NULL CHECK(quantity > 0),
  unit TEXT NOT NULL,
  position INTEGER NOT NULL DEFAULT 0,
  FOREIGN KEY(meal_id) REFERENCES meals(id) ON DELETE CASCADE,
  FOREIGN KEY(food_id) REFERENCES foods(id)
);

CREATE INDEX IF NOT EXISTS idx_meal_items_meal_id ON meal_items(meal_id);
`,
	},
	{
		version: 3,
		name:    "goals",
		sql: `
CREATE TABLE IF NOT EXISTS goals (
  id {{pk}},
  name TEXT NOT NULL UNIQUE,
  created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS goal_nutrients (
  goal_id BIGINT NOT NULL,
  nutrient TEXT NOT NULL,
  amount DOUBLE PRECISION NOT NULL CHECK(amount >= 0),
  unit TEXT NOT NULL,
  PRIMARY KEY(goal_id, nutrient),
  FOREIGN KEY(goal_id) REFERENCES goals(id) ON DELETE CASCADE
);
`,
	},
	{
		version: 4,
		name:    "app_config",
		sql: `
CREATE TABLE IF NOT EXISTS app_config (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`,
	},
}

var defaultDisplayUnits = map[string]string{
	"display_unit.energy":      "kcal",
	"display_unit.sodium":      "mg",
	"display_unit.potassium":   "mg",
	"display_unit.calcium":     "mg",
	"display_unit.iron":        "mg",
	"display_unit.cholesterol": "mg",
	"display_unit.caffeine":    "mg",
}

func (c *Conn) primaryKey() string {
	if c.Driver == DriverPostgres {
		return "BIGSERIAL PRIMARY KEY"
	}
	return "INTEGER PRIMARY KEY AUTOINCREMENT"
}

func (c *Conn) statements(sqlText string) []string {
	sqlText = strings.ReplaceAll(sqlText, "{{pk}}", c.primaryKey())
	var out []string
	for _, stmt := range strings.Split(sqlText, ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			out = append(out, stmt)
		}
	}
	return out
}

func ApplyMigrations(conn *Conn) error {
	if _, err := conn.Exec(`
CREATE TABLE IF NOT EXISTS schema_migrations (
  version INTEGER PRIMARY KEY,
  name TEXT NOT NULL,
  applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)
`); err != nil {
		return fmt.Errorf("ensure schema_migrations table: %w", err)
	}

	for _, m := range migrations {
		var exists int
		err := conn.QueryRow(`SELECT 1 FROM schema_migrations WHERE version = ?`, m.version).Scan(&exists)
		if err == nil {
			continue
		}
		if err != sql.ErrNoRows {
			return fmt.Errorf("check migration version %d: %w", m.version, err)
		}

		tx, err := conn.Begin()
		if err != nil {
			return fmt.Errorf("begin migration tx: %w", err)
		}

		for _, stmt := range conn.statements(m.sql) {
			if _, err := tx.Exec(stmt); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("apply migration version %d (%s): %w", m.version, m.name, err)
			}
		}
		if _, err := tx.Exec(`INSERT INTO schema_migrations(version, name) VALUES(?, ?)`, m.version, m.name); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration version %d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration version %d: %w", m.version, err)
		}
		slog.Debug("applied migration", "version", m.version, "name", m.name)
	}

	for key, value := range defaultDisplayUnits {
		if _, err := conn.Exec(`INSERT INTO app_config(key, value) VALUES(?, ?) ON CONFLICT(key) DO NOTHING`, key, value); err != nil {
			return fmt.Errorf("seed default config %s: %w", key, err)
		}
	}

	return nil
}
