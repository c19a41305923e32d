package nutrient

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBestEffortCarbohydrate(t *testing.T) {
	t.Parallel()
	cat := DefaultCatalog()

	tests := []struct {
		name       string
		setup      func(c *Container) error
		wantCarb   float64
		wantEnergy float64
	}{
		{
			name: "complete carbohydrate wins",
			setup: func(c *Container) error {
				if err := c.Put(cat.Carbohydrate, 12, cat.Grams); err != nil {
					return err
				}
				return c.Put(cat.CarbohydrateByDiff, 30, cat.Grams)
			},
			wantCarb:   12,
			wantEnergy: 12 * CarbohydrateKJPerGram,
		},
		{
			name: "by difference minus fibre",
			setup: func(c *Container) error {
				if err := c.Put(cat.CarbohydrateByDiff, 30, cat.Grams); err != nil {
					return err
				}
				return c.Put(cat.Fibre, 5, cat.Grams)
			},
			wantCarb:   25,
			wantEnergy: 25 * CarbohydrateKJPerGram,
		},
		{
			name: "incomplete fibre falls back to by difference",
			setup: func(c *Container) error {
				if err := c.Put(cat.CarbohydrateByDiff, 30, cat.Grams); err != nil {
					return err
				}
				if err := c.Put(cat.Fibre, 5, cat.Grams); err != nil {
					return err
				}
				return c.SetComplete(cat.Fibre, false)
			},
			wantCarb:   30,
			wantEnergy: 30 * CarbohydrateKJPerGram,
		},
		{
			name:       "nothing known",
			setup:      func(c *Container) error { return nil },
			wantCarb:   0,
			wantEnergy: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewContainer(cat)
			require.NoError(t, tt.setup(c))
			assert.InDelta(t, tt.wantCarb, bestEffortCarbohydrate(c), 1e-9)
			assert.InDelta(t, tt.wantEnergy, MacroEnergy(c).Carbohydrate, 1e-9)

			if c.HasCompleteData(cat.Carbohydrate) {
				return
			}
			_, stored := c.Get(cat.Carbohydrate)
			assert.False(t, stored, "estimate is never written back")
		})
	}
}

func TestStoredIncompleteCarbohydrateStillCountsForEnergy(t *testing.T) {
	t.Parallel()
	cat := DefaultCatalog()
	c := NewContainer(cat)
	require.NoError(t, c.Put(cat.Carbohydrate, 10, cat.Grams))
	require.NoError(t, c.SetComplete(cat.Carbohydrate, false))

	assert.Equal(t, 0.0, bestEffortCarbohydrate(c))
	assert.InDelta(t, 170, MacroEnergy(c).Carbohydrate, 1e-9)
}
