package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saadjs/macros/internal/model"
	"github.com/saadjs/macros/internal/nutrient"
	"github.com/saadjs/macros/internal/service"
)

func progressFor(t *testing.T, rows []model.NutrientProgress, n *nutrient.Nutrient) model.NutrientProgress {
	t.Helper()
	for _, p := range rows {
		if p.Nutrient == n {
			return p
		}
	}
	t.Fatalf("no progress row for %s", n.Name)
	return model.NutrientProgress{}
}

func TestSetGoalReplacesTargets(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)
	cat := nutrient.DefaultCatalog()

	first, err := service.SetGoal(conn, "Cut", mustProfile(t, "", "energy=2000kcal", "protein=150g", "fat=70g"))
	require.NoError(t, err)
	second, err := service.SetGoal(conn, "Cut", mustProfile(t, "", "energy=1800kcal", "protein=160g"))
	require.NoError(t, err)
	assert.Equal(t, first, second)

	goal, err := service.ResolveGoal(conn, cat, "CUT")
	require.NoError(t, err)
	assert.True(t, goal.Targets.Frozen())
	assert.InDelta(t, 1800, goal.Targets.AmountOr(cat.Energy, cat.Kilocalorie, 0), 1e-9)
	_, hasFat := goal.Targets.Get(cat.Fat)
	assert.False(t, hasFat)
}

func TestSetGoalValidation(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)

	_, err := service.SetGoal(conn, " ", mustProfile(t, "", "protein=1g"))
	assert.ErrorContains(t, err, "goal name is required")

	_, err = service.SetGoal(conn, "empty", mustProfile(t, "100g"))
	assert.ErrorContains(t, err, "at least one nutrient target")

	_, err = service.ResolveGoal(conn, nutrient.DefaultCatalog(), "empty")
	assert.ErrorContains(t, err, "not found")
}

func TestGoalProgress(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)
	cat := nutrient.DefaultCatalog()

	_, err := service.SetGoal(conn, "Daily", mustProfile(t, "", "energy=2000kJ", "protein=100g", "fibre=30g", "sugar=0g"))
	require.NoError(t, err)
	goal, err := service.ResolveGoal(conn, cat, "daily")
	require.NoError(t, err)

	actual := mustProfile(t, "300g", "protein=50g", "fat=10g")
	require.NoError(t, actual.Put(cat.Fibre, 6, cat.Grams))
	require.NoError(t, actual.SetComplete(cat.Fibre, false))

	rows, err := service.GoalProgress(goal, actual)
	require.NoError(t, err)
	require.Len(t, rows, 4)

	protein := progressFor(t, rows, cat.Protein)
	assert.InDelta(t, 0.5, protein.Fraction, 1e-9)
	assert.True(t, protein.HasActual)
	assert.True(t, protein.Complete)

	energy := progressFor(t, rows, cat.Energy)
	assert.True(t, energy.Estimated)
	assert.InDelta(t, 50*17+10*37+6*8.27, energy.Actual, 1e-9)
	assert.False(t, energy.Complete)

	fibre := progressFor(t, rows, cat.Fibre)
	assert.InDelta(t, 0.2, fibre.Fraction, 1e-9)
	assert.False(t, fibre.Complete)

	sugar := progressFor(t, rows, cat.Sugar)
	assert.False(t, sugar.HasActual)
	assert.Zero(t, sugar.Fraction)
}

func TestAdherenceWithin(t *testing.T) {
	t.Parallel()
	assert.True(t, service.AdherenceWithin(95, 100, 0.1))
	assert.False(t, service.AdherenceWithin(80, 100, 0.1))
	assert.True(t, service.AdherenceWithin(0, 0, 0.1))
	assert.False(t, service.AdherenceWithin(1, 0, 0.1))
}
