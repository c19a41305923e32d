package service_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/saadjs/macros/internal/db"
	"github.com/saadjs/macros/internal/nutrient"
	"github.com/saadjs/macros/internal/service"
)

func newTestDB(t *testing.T) *db.Conn {
	t.Helper()
	path := filepath.Join(t.TempDir(), "macros.db")
	conn, err := db.Open(db.DriverSQLite, path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.ApplyMigrations(conn); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func mustProfile(t *testing.T, quantity string, assignments ...string) *nutrient.Container {
	t.Helper()
	c, err := service.ParseProfile(nutrient.DefaultCatalog(), quantity, assignments)
	require.NoError(t, err)
	return c
}

// seedBreakfast stores oats (per 100 g) and milk (per 100 ml, 1.03 g/ml).
func seedBreakfast(t *testing.T, conn *db.Conn) {
	t.Helper()
	_, err := service.CreateFood(conn, service.FoodInput{
		Name:      "Oats",
		Nutrients: mustProfile(t, "100g", "energy=1580kJ", "protein=13g", "fat=7g", "carbohydrate=60g", "fibre=10g"),
	})
	require.NoError(t, err)
	_, err = service.CreateFood(conn, service.FoodInput{
		Name:       "Milk",
		DensityGML: 1.03,
		Nutrients:  mustProfile(t, "100ml", "energy=64kcal", "protein=3.4g", "fat=3.6g", "carbohydrate=4.8g"),
	})
	require.NoError(t, err)
}
