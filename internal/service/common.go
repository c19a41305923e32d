package service

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/saadjs/macros/internal/db"
	"github.com/saadjs/macros/internal/nutrient"
)

func validateNonNegativeFloat(name string, value float64) error {
	if value < 0 || math.IsNaN(value) {
		return fmt.Errorf("%s must be >= 0", name)
	}
	return nil
}

func normalizeName(name string) string {
	return strings.TrimSpace(strings.ToLower(name))
}

func parseIDLoose(value string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("not numeric")
	}
	return id, nil
}

// insertReturningID runs an INSERT ... RETURNING id statement.
func insertReturningID(q interface {
	QueryRow(string, ...any) *sql.Row
}, query string, args ...any) (int64, error) {
	var id int64
	if err := q.QueryRow(query+" RETURNING id", args...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// validateProfile checks that every present amount is non-negative and that
// the quantity, when required, is positive.
func validateProfile(c *nutrient.Container, requireQuantity bool) error {
	q, ok := c.Quantity()
	if requireQuantity && (!ok || q.Amount() <= 0) {
		return fmt.Errorf("quantity must be > 0")
	}
	for _, v := range c.Values() {
		if err := validateNonNegativeFloat(v.Nutrient().Name, v.Amount()); err != nil {
			return err
		}
	}
	return nil
}

type profileRow struct {
	nutrient.Row
	Complete bool
}

func loadProfile(conn *db.Conn, cat *nutrient.Catalog, query string, id int64) (*nutrient.Container, error) {
	rows, err := conn.Query(query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stored []profileRow
	for rows.Next() {
		var r profileRow
		var complete int
		if err := rows.Scan(&r.Nutrient, &r.Amount, &r.UnitAbbr, &complete); err != nil {
			return nil, err
		}
		if _, ok := cat.Nutrient(r.Nutrient); !ok {
			slog.Warn("ignoring stored value for unregistered nutrient", "nutrient", r.Nutrient, "owner", id)
			continue
		}
		r.Complete = complete != 0
		stored = append(stored, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	plain := make([]nutrient.Row, len(stored))
	for i, r := range stored {
		plain[i] = r.Row
	}
	c, err := nutrient.FromRows(cat, plain)
	if err != nil {
		return nil, err
	}
	for _, r := range stored {
		if r.Complete {
			continue
		}
		n, _ := cat.Nutrient(r.Nutrient)
		if err := c.SetComplete(n, false); err != nil {
			return nil, err
		}
	}
	c.Freeze()
	return c, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
