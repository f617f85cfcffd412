// Package rarity implements the weighted rarity draw used to pick a catalog tier.
package rarity

import (
	"errors"
	"fmt"
	"math"

	"github.com/iktkiosk/tcgreceipt/internal/models"
)

// ErrConfiguration is returned when a weight table cannot produce a draw.
var ErrConfiguration = errors.New("invalid rarity configuration")

// Source supplies uniform reals in [0, 1). *rand.Rand from math/rand/v2
// satisfies it; tests pass a seeded generator.
type Source interface {
	Float64() float64
}

// Sample draws one tier from tiers with probability proportional to its weight.
//
// The draw walks the cumulative weights in the order given and returns the
// first tier whose cumulative weight exceeds u*total, so a fixed Source
// sequence always yields the same tiers. Tiers with a weight <= 0 are never
// returned.
func Sample(src Source, tiers []models.WeightedTier) (models.Tier, error) {
	total, err := Total(tiers)
	if err != nil {
		return "", err
	}

	draw := src.Float64() * total
	cumulative := 0.0
	var last models.Tier
	for _, t := range tiers {
		if !usable(t.Weight) {
			continue
		}
		cumulative += t.Weight
		last = t.Tier
		if cumulative > draw {
			return t.Tier, nil
		}
	}

	// float rounding can leave draw == cumulative on the final step
	return last, nil
}

// Total validates tiers and returns the sum of their positive weights.
func Total(tiers []models.WeightedTier) (float64, error) {
	if len(tiers) == 0 {
		return 0, fmt.Errorf("%w: tier table is empty", ErrConfiguration)
	}
	total := 0.0
	for _, t := range tiers {
		if math.IsNaN(t.Weight) || math.IsInf(t.Weight, 0) {
			return 0, fmt.Errorf("%w: tier %s has non-finite weight", ErrConfiguration, t.Tier)
		}
		if usable(t.Weight) {
			total += t.Weight
		}
	}
	if total <= 0 {
		return 0, fmt.Errorf("%w: no tier has a positive weight", ErrConfiguration)
	}
	return total, nil
}

// Distribution returns each tier's share of the total weight, in table order.
func Distribution(tiers []models.WeightedTier) (map[models.Tier]float64, error) {
	total, err := Total(tiers)
	if err != nil {
		return nil, err
	}
	out := make(map[models.Tier]float64, len(tiers))
	for _, t := range tiers {
		share := 0.0
		if usable(t.Weight) {
			share = t.Weight / total
		}
		out[t.Tier] += share
	}
	return out, nil
}

func usable(w float64) bool {
	return w > 0
}
