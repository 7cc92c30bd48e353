package pricing

import (
	"errors"
	"sort"
)

var (
	// ErrNoPricesAvailable is returned when the catalog holds no one-time prices.
	ErrNoPricesAvailable = errors.New("NO_PRICES_PROVIDED")
	// ErrNoPriceDetermined is returned when the selected tier carries no unit amount.
	ErrNoPriceDetermined = errors.New("NO_PRICE_DETERMINED")
)

// Tier is a one-time price banded by company employee count.
type Tier struct {
	ID         string `json:"id"`
	LowerLimit int    `json:"lower_limit"`
	UpperLimit int    `json:"upper_limit"`
	// Ranged is false when the catalog entry had no usable numeric limits.
	// Such tiers never match a range and sort after every ranged tier.
	Ranged bool `json:"ranged"`
	// UnitAmount is in pence; nil when the price has no fixed amount.
	UnitAmount *int64 `json:"unit_amount,omitempty"`
}

// Contains reports whether employees falls inside the tier's inclusive range.
func (t Tier) Contains(employees int) bool {
	return t.Ranged && t.LowerLimit <= employees && employees <= t.UpperLimit
}

// SelectedPrice is the outcome of tier resolution.
type SelectedPrice struct {
	ID         string `json:"id"`
	UnitAmount int64  `json:"unit_amount"`
}

// SortTiers orders tiers by (lower, upper) ascending, unranged last.
// The sort is stable so equal keys keep catalog order.
func SortTiers(tiers []Tier) []Tier {
	sorted := make([]Tier, len(tiers))
	copy(sorted, tiers)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Ranged != b.Ranged {
			return a.Ranged
		}
		if a.LowerLimit != b.LowerLimit {
			return a.LowerLimit < b.LowerLimit
		}
		return a.UpperLimit < b.UpperLimit
	})

	return sorted
}

// ResolveTier picks the price for a company of the given size.
//
// The first tier (after sorting) whose range contains employees wins. When
// nothing matches, the last and most expensive tier is used.
func ResolveTier(tiers []Tier, employees int) (SelectedPrice, error) {
	sorted := SortTiers(tiers)
	if len(sorted) == 0 {
		return SelectedPrice{}, ErrNoPricesAvailable
	}

	selected := sorted[len(sorted)-1]
	for _, tier := range sorted {
		if tier.Contains(employees) {
			selected = tier
			break
		}
	}

	if selected.UnitAmount == nil {
		return SelectedPrice{}, ErrNoPriceDetermined
	}

	return SelectedPrice{ID: selected.ID, UnitAmount: *selected.UnitAmount}, nil
}
