package service

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/saadjs/macros/internal/db"
	"github.com/saadjs/macros/internal/nutrient"
)

// DisplayUnitPrefix prefixes app_config keys naming the unit a nutrient is
// shown in, e.g. display_unit.sodium = mg.
const DisplayUnitPrefix = "display_unit."

// SetConfig stores a plain setting. Display-unit keys need a catalog to be
// checked against and must go through SetDisplayUnit.
func SetConfig(conn *db.Conn, key, value string) error {
	key = strings.TrimSpace(strings.ToLower(key))
	if key == "" {
		return fmt.Errorf("config key is required")
	}
	if strings.HasPrefix(key, DisplayUnitPrefix) {
		return fmt.Errorf("config key %q names a display unit; set it with a nutrient and unit", key)
	}
	return putConfig(conn, key, value)
}

func putConfig(conn *db.Conn, key, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return fmt.Errorf("config value for %q is required", key)
	}
	_, err := conn.Exec(`
INSERT INTO app_config(key, value, updated_at)
VALUES(?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at
`, key, value)
	if err != nil {
		return fmt.Errorf("set config %q: %w", key, err)
	}
	slog.Debug("set config", "key", key, "value", value)
	return nil
}

func GetConfig(conn *db.Conn, key string) (string, bool, error) {
	key = strings.TrimSpace(strings.ToLower(key))
	if key == "" {
		return "", false, fmt.Errorf("config key is required")
	}
	var value string
	err := conn.QueryRow(`SELECT value FROM app_config WHERE key = ?`, key).Scan(&value)
	if isNoRows(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get config %q: %w", key, err)
	}
	return value, true, nil
}

func ListConfig(conn *db.Conn) (map[string]string, error) {
	rows, err := conn.Query(`SELECT key, value FROM app_config ORDER BY key ASC`)
	if err != nil {
		return nil, fmt.Errorf("list config: %w", err)
	}
	defer rows.Close()
	out := map[string]string{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan config: %w", err)
		}
		out[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate config: %w", err)
	}
	return out, nil
}

// SetDisplayUnit stores the display unit for a nutrient after checking that
// the unit suits it.
func SetDisplayUnit(conn *db.Conn, cat *nutrient.Catalog, nutrientName, unitAbbr string) error {
	n, ok := cat.Nutrient(nutrientName)
	if !ok {
		return fmt.Errorf("unknown nutrient %q", nutrientName)
	}
	u, ok := cat.Unit(unitAbbr)
	if !ok {
		return fmt.Errorf("unknown unit %q", unitAbbr)
	}
	if !n.Types.Has(u.Type) {
		return &nutrient.IncompatibleUnitError{Nutrient: n.Name, Unit: u.Abbr, Reason: fmt.Sprintf("%s accepts %s units", n.Name, n.Types)}
	}
	return putConfig(conn, DisplayUnitPrefix+n.Name, u.Abbr)
}

// DisplayUnits returns the configured display unit per nutrient. Entries
// naming unknown nutrients or unsuitable units are skipped.
func DisplayUnits(conn *db.Conn, cat *nutrient.Catalog) (map[*nutrient.Nutrient]*nutrient.Unit, error) {
	cfg, err := ListConfig(conn)
	if err != nil {
		return nil, err
	}
	out := make(map[*nutrient.Nutrient]*nutrient.Unit)
	for key, value := range cfg {
		name, ok := strings.CutPrefix(key, DisplayUnitPrefix)
		if !ok {
			continue
		}
		n, ok := cat.Nutrient(name)
		if !ok {
			slog.Warn("ignoring display unit for unknown nutrient", "key", key)
			continue
		}
		u, ok := cat.Unit(value)
		if !ok || !n.Types.Has(u.Type) {
			slog.Warn("ignoring unusable display unit", "key", key, "unit", value)
			continue
		}
		out[n] = u
	}
	return out, nil
}
