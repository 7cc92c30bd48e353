package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func amount(v int64) *int64 { return &v }

// catalogTiers mirrors the live product catalog, deliberately out of order.
func catalogTiers() []Tier {
	return []Tier{
		{ID: "price_1Iw2R3CYyIPWwVWID44yDnV9", LowerLimit: 51, UpperLimit: 199, Ranged: true, UnitAmount: amount(49900)},
		{ID: "price_1Iw2R2CYyIPWwVWIJoX56JMX", LowerLimit: 200, UpperLimit: 499, Ranged: true, UnitAmount: amount(64900)},
		{ID: "price_1Iw2R0CYyIPWwVWIEqQOd9Zr", LowerLimit: 1000, UpperLimit: 999999, Ranged: true, UnitAmount: amount(94900)},
		{ID: "price_1Iw2QyCYyIPWwVWIVJN6AW80", LowerLimit: 500, UpperLimit: 999, Ranged: true, UnitAmount: amount(79900)},
		{ID: "price_1Iw2QuCYyIPWwVWIcrwi7l8L", LowerLimit: 31, UpperLimit: 50, Ranged: true, UnitAmount: amount(34900)},
		{ID: "price_1Iw2QsCYyIPWwVWIfB6HXkzA", LowerLimit: 16, UpperLimit: 30, Ranged: true, UnitAmount: amount(29900)},
		{ID: "price_1Iw2QqCYyIPWwVWIt5fYf5LL", LowerLimit: 10, UpperLimit: 15, Ranged: true, UnitAmount: amount(24900)},
		{ID: "price_1Iw2QoCYyIPWwVWIhUPl8KrA", LowerLimit: 1, UpperLimit: 9, Ranged: true, UnitAmount: amount(14900)},
	}
}

func TestResolveTier(t *testing.T) {
	tests := []struct {
		name       string
		employees  int
		wantID     string
		wantAmount int64
	}{
		{
			name:       "15 employees hits the 10-15 band",
			employees:  15,
			wantID:     "price_1Iw2QqCYyIPWwVWIt5fYf5LL",
			wantAmount: 24900,
		},
		{
			name:       "single employee hits the lowest band",
			employees:  1,
			wantID:     "price_1Iw2QoCYyIPWwVWIhUPl8KrA",
			wantAmount: 14900,
		},
		{
			name:       "upper boundary is inclusive",
			employees:  50,
			wantID:     "price_1Iw2QuCYyIPWwVWIcrwi7l8L",
			wantAmount: 34900,
		},
		{
			name:       "lower boundary is inclusive",
			employees:  51,
			wantID:     "price_1Iw2R3CYyIPWwVWID44yDnV9",
			wantAmount: 49900,
		},
		{
			name:       "zero employees falls back to the last tier",
			employees:  0,
			wantID:     "price_1Iw2R0CYyIPWwVWIEqQOd9Zr",
			wantAmount: 94900,
		},
		{
			name:       "beyond every band falls back to the last tier",
			employees:  5000000,
			wantID:     "price_1Iw2R0CYyIPWwVWIEqQOd9Zr",
			wantAmount: 94900,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveTier(catalogTiers(), tt.employees)
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, got.ID)
			assert.Equal(t, tt.wantAmount, got.UnitAmount)
		})
	}
}

func TestResolveTier_Errors(t *testing.T) {
	t.Run("empty catalog", func(t *testing.T) {
		_, err := ResolveTier(nil, 10)
		assert.ErrorIs(t, err, ErrNoPricesAvailable)
		assert.EqualError(t, err, "NO_PRICES_PROVIDED")
	})

	t.Run("matched tier without amount", func(t *testing.T) {
		tiers := []Tier{{ID: "price_custom", LowerLimit: 1, UpperLimit: 10, Ranged: true}}
		_, err := ResolveTier(tiers, 5)
		assert.ErrorIs(t, err, ErrNoPriceDetermined)
		assert.EqualError(t, err, "NO_PRICE_DETERMINED")
	})
}

func TestResolveTier_UnrangedTiersOnlyServeAsFallback(t *testing.T) {
	tiers := []Tier{
		{ID: "price_unranged", UnitAmount: amount(100)},
		{ID: "price_small", LowerLimit: 1, UpperLimit: 10, Ranged: true, UnitAmount: amount(200)},
	}

	got, err := ResolveTier(tiers, 0)
	require.NoError(t, err)
	assert.Equal(t, "price_unranged", got.ID)

	got, err = ResolveTier(tiers, 5)
	require.NoError(t, err)
	assert.Equal(t, "price_small", got.ID)
}

func TestResolveTier_OverlappingBandsFirstWins(t *testing.T) {
	tiers := []Tier{
		{ID: "price_wide", LowerLimit: 1, UpperLimit: 100, Ranged: true, UnitAmount: amount(500)},
		{ID: "price_narrow", LowerLimit: 1, UpperLimit: 20, Ranged: true, UnitAmount: amount(300)},
	}

	got, err := ResolveTier(tiers, 10)
	require.NoError(t, err)
	assert.Equal(t, "price_narrow", got.ID)
}

func TestSortTiers_DoesNotMutateInput(t *testing.T) {
	in := catalogTiers()
	first := in[0].ID

	sorted := SortTiers(in)
	assert.Equal(t, first, in[0].ID)
	assert.Equal(t, "price_1Iw2QoCYyIPWwVWIhUPl8KrA", sorted[0].ID)
	assert.Equal(t, "price_1Iw2R0CYyIPWwVWIEqQOd9Zr", sorted[len(sorted)-1].ID)
}
