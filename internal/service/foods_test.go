package service_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saadjs/macros/internal/nutrient"
	"github.com/saadjs/macros/internal/registry"
	"github.com/saadjs/macros/internal/service"
)

func TestCreateAndResolveFood(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)
	cat := nutrient.DefaultCatalog()
	seedBreakfast(t, conn)

	oats, err := service.ResolveFood(conn, cat, "oats")
	require.NoError(t, err)
	assert.Equal(t, "Oats", oats.Name)
	assert.True(t, oats.Nutrients.Frozen())

	q, ok := oats.Nutrients.Quantity()
	require.True(t, ok)
	assert.Equal(t, 100.0, q.Amount())
	assert.Equal(t, cat.Grams, q.Unit())

	protein, ok := oats.Nutrients.Amount(cat.Protein)
	require.True(t, ok)
	assert.Equal(t, 13.0, protein)
	assert.True(t, oats.Nutrients.HasCompleteData(cat.Fibre))
	assert.False(t, oats.Nutrients.HasCompleteData(cat.Sugar))

	byID, err := service.ResolveFood(conn, cat, "1")
	require.NoError(t, err)
	assert.Equal(t, oats.ID, byID.ID)

	milk, err := service.ResolveFood(conn, cat, "MILK")
	require.NoError(t, err)
	assert.Equal(t, 1.03, milk.DensityGML)
	energy, ok := milk.Nutrients.Get(cat.Energy)
	require.True(t, ok)
	assert.Equal(t, cat.Kilocalorie, energy.Unit())
}

func TestCreateFoodValidation(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)

	tests := []struct {
		name    string
		in      service.FoodInput
		wantErr string
	}{
		{"missing name", service.FoodInput{Nutrients: mustProfile(t, "100g")}, "food name is required"},
		{"missing quantity", service.FoodInput{Name: "x", Nutrients: mustProfile(t, "", "protein=1g")}, "quantity must be > 0"},
		{"zero quantity", service.FoodInput{Name: "x", Nutrients: mustProfile(t, "0g")}, "quantity must be > 0"},
		{"negative density", service.FoodInput{Name: "x", DensityGML: -1, Nutrients: mustProfile(t, "100g")}, "density must be >= 0"},
		{"no nutrients", service.FoodInput{Name: "x"}, "food nutrients are required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.CreateFood(conn, tt.in)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestCreateFoodRejectsDuplicateName(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)
	seedBreakfast(t, conn)

	_, err := service.CreateFood(conn, service.FoodInput{Name: "Oats", Nutrients: mustProfile(t, "100g")})
	assert.Error(t, err)
}

func TestIncompleteValuesSurviveStorage(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)
	cat := nutrient.DefaultCatalog()

	profile := mustProfile(t, "100g", "sugar=4g")
	require.NoError(t, profile.SetComplete(cat.Sugar, false))
	_, err := service.CreateFood(conn, service.FoodInput{Name: "Guess", Nutrients: profile})
	require.NoError(t, err)

	food, err := service.ResolveFood(conn, cat, "guess")
	require.NoError(t, err)
	sugar, ok := food.Nutrients.Amount(cat.Sugar)
	require.True(t, ok)
	assert.Equal(t, 4.0, sugar)
	assert.False(t, food.Nutrients.HasCompleteData(cat.Sugar))
}

func TestUpdateFoodNutrientsRebasesToStoredQuantity(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)
	cat := nutrient.DefaultCatalog()
	seedBreakfast(t, conn)

	// 1 g of sugar per 50 g is 2 g per stored 100 g.
	require.NoError(t, service.UpdateFoodNutrients(conn, "oats", mustProfile(t, "50g", "sugar=1g", "protein=6g")))

	oats, err := service.ResolveFood(conn, cat, "oats")
	require.NoError(t, err)
	q, _ := oats.Nutrients.Quantity()
	assert.Equal(t, 100.0, q.Amount())
	assert.InDelta(t, 2.0, oats.Nutrients.AmountOr(cat.Sugar, cat.Grams, 0), 1e-9)
	assert.InDelta(t, 12.0, oats.Nutrients.AmountOr(cat.Protein, cat.Grams, 0), 1e-9)
	assert.InDelta(t, 7.0, oats.Nutrients.AmountOr(cat.Fat, cat.Grams, 0), 1e-9)
}

func TestUpdateFoodNutrientsWithoutQuantity(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)
	cat := nutrient.DefaultCatalog()
	seedBreakfast(t, conn)

	require.NoError(t, service.UpdateFoodNutrients(conn, "milk", mustProfile(t, "", "calcium=120mg")))

	milk, err := service.ResolveFood(conn, cat, "milk")
	require.NoError(t, err)
	q, _ := milk.Nutrients.Quantity()
	assert.Equal(t, cat.Millilitre, q.Unit())
	calcium, ok := cat.Nutrient("calcium")
	require.True(t, ok)
	assert.InDelta(t, 0.12, milk.Nutrients.AmountOr(calcium, cat.Grams, 0), 1e-9)
}

func TestUpdateFoodMarksStoredValueIncomplete(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)
	cat := nutrient.DefaultCatalog()
	seedBreakfast(t, conn)

	require.NoError(t, service.UpdateFoodNutrients(conn, "oats", mustProfile(t, ""), cat.Fat))

	oats, err := service.ResolveFood(conn, cat, "oats")
	require.NoError(t, err)
	assert.False(t, oats.Nutrients.HasCompleteData(cat.Fat))
	assert.InDelta(t, 7.0, oats.Nutrients.AmountOr(cat.Fat, cat.Grams, 0), 1e-9)
	assert.True(t, oats.Nutrients.HasCompleteData(cat.Protein))

	err = service.UpdateFoodNutrients(conn, "oats", mustProfile(t, "", "protein=14g"), cat.Sugar)
	assert.ErrorContains(t, err, "no sugar value")

	// The failed update is rolled back as a whole.
	oats, err = service.ResolveFood(conn, cat, "oats")
	require.NoError(t, err)
	assert.InDelta(t, 13.0, oats.Nutrients.AmountOr(cat.Protein, cat.Grams, 0), 1e-9)
}

func buildCatalog(t *testing.T, nutrients ...string) *nutrient.Catalog {
	t.Helper()
	body := "nutrients:\n"
	for _, name := range nutrients {
		body += "  - name: " + name + "\n    types: [mass]\n"
	}
	path := filepath.Join(t.TempDir(), "registry.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	cat, err := registry.Build(path)
	require.NoError(t, err)
	return cat
}

func TestStoredValuesFollowNutrientAcrossRegistryEdits(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)

	original := buildCatalog(t, "alpha", "beta")
	profile, err := service.ParseProfile(original, "100g", []string{"beta=5g", "protein=2g"})
	require.NoError(t, err)
	_, err = service.CreateFood(conn, service.FoodInput{Name: "Powder", Nutrients: profile})
	require.NoError(t, err)

	reordered := buildCatalog(t, "beta", "alpha")
	food, err := service.ResolveFood(conn, reordered, "powder")
	require.NoError(t, err)
	beta, _ := reordered.Nutrient("beta")
	alpha, _ := reordered.Nutrient("alpha")
	amount, ok := food.Nutrients.Amount(beta)
	require.True(t, ok)
	assert.Equal(t, 5.0, amount)
	_, ok = food.Nutrients.Amount(alpha)
	assert.False(t, ok)

	trimmed := buildCatalog(t, "beta")
	food, err = service.ResolveFood(conn, trimmed, "powder")
	require.NoError(t, err)
	beta, _ = trimmed.Nutrient("beta")
	amount, ok = food.Nutrients.Amount(beta)
	require.True(t, ok)
	assert.Equal(t, 5.0, amount)

	// Values of a nutrient dropped from the registry are skipped, not fatal.
	food, err = service.ResolveFood(conn, nutrient.DefaultCatalog(), "powder")
	require.NoError(t, err)
	assert.Equal(t, 2.0, food.Nutrients.AmountOr(nutrient.DefaultCatalog().Protein, nutrient.DefaultCatalog().Grams, 0))
}

func TestListAndDeleteFoods(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)
	cat := nutrient.DefaultCatalog()
	seedBreakfast(t, conn)

	foods, err := service.ListFoods(conn)
	require.NoError(t, err)
	require.Len(t, foods, 2)
	assert.Equal(t, "Milk", foods[0].Name)
	assert.Nil(t, foods[0].Nutrients)

	require.NoError(t, service.DeleteFood(conn, cat, "milk"))
	_, err = service.ResolveFood(conn, cat, "milk")
	assert.ErrorContains(t, err, "not found")

	var rows int
	require.NoError(t, conn.QueryRow(`SELECT COUNT(1) FROM food_nutrients WHERE food_id = ?`, foods[0].ID).Scan(&rows))
	assert.Zero(t, rows)
}

func TestDeleteFoodInUse(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)
	cat := nutrient.DefaultCatalog()
	seedBreakfast(t, conn)

	_, err := service.CreateMeal(conn, "Porridge", "")
	require.NoError(t, err)
	_, err = service.AddMealItem(conn, cat, "porridge", service.MealItemInput{Food: "oats", Quantity: 50, Unit: "g"})
	require.NoError(t, err)

	assert.ErrorContains(t, service.DeleteFood(conn, cat, "oats"), "used by 1 meal item")
}
