package rarity

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/iktkiosk/tcgreceipt/internal/models"
)

// fixedSource replays a list of draws.
type fixedSource struct {
	values []float64
	i      int
}

func (f *fixedSource) Float64() float64 {
	v := f.values[f.i%len(f.values)]
	f.i++
	return v
}

func TestSampleConvergesToWeights(t *testing.T) {
	tiers := models.DefaultWeights()
	src := rand.New(rand.NewPCG(42, 1024))

	const draws = 100000
	counts := make(map[models.Tier]int)
	for i := 0; i < draws; i++ {
		tier, err := Sample(src, tiers)
		if err != nil {
			t.Fatalf("Sample returned error: %v", err)
		}
		counts[tier]++
	}

	want, err := Distribution(tiers)
	if err != nil {
		t.Fatalf("Distribution returned error: %v", err)
	}
	for tier, fraction := range want {
		got := float64(counts[tier]) / draws
		if math.Abs(got-fraction) > 0.015 {
			t.Errorf("Expected tier %s near %.3f, got %.3f", tier, fraction, got)
		}
	}
}

func TestSampleSinglePositiveTier(t *testing.T) {
	tiers := []models.WeightedTier{
		{Tier: models.TierE, Weight: 0},
		{Tier: models.TierD, Weight: 0},
		{Tier: models.TierB, Weight: 3},
		{Tier: models.TierS, Weight: 0},
	}
	src := &fixedSource{values: []float64{0, 0.25, 0.5, 0.999999}}
	for i := 0; i < 8; i++ {
		tier, err := Sample(src, tiers)
		if err != nil {
			t.Fatalf("Sample returned error: %v", err)
		}
		if tier != models.TierB {
			t.Errorf("Expected tier B, got %s", tier)
		}
	}
}

func TestSampleCumulativeOrder(t *testing.T) {
	tiers := []models.WeightedTier{
		{Tier: models.TierE, Weight: 1},
		{Tier: models.TierD, Weight: 0},
		{Tier: models.TierC, Weight: 1},
		{Tier: models.TierB, Weight: 2},
	}

	tests := []struct {
		name     string
		draw     float64
		expected models.Tier
	}{
		{name: "start of range", draw: 0, expected: models.TierE},
		{name: "just below first boundary", draw: 0.2499, expected: models.TierE},
		{name: "first boundary skips zero weight", draw: 0.25, expected: models.TierC},
		{name: "second boundary", draw: 0.5, expected: models.TierB},
		{name: "end of range", draw: 0.99999, expected: models.TierB},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tier, err := Sample(&fixedSource{values: []float64{tt.draw}}, tiers)
			if err != nil {
				t.Fatalf("Sample returned error: %v", err)
			}
			if tier != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, tier)
			}
		})
	}
}

func TestSampleDeterministicWithSeed(t *testing.T) {
	tiers := models.DefaultWeights()
	a := rand.New(rand.NewPCG(7, 7))
	b := rand.New(rand.NewPCG(7, 7))
	for i := 0; i < 500; i++ {
		ta, _ := Sample(a, tiers)
		tb, _ := Sample(b, tiers)
		if ta != tb {
			t.Fatalf("Expected identical draws at %d, got %s and %s", i, ta, tb)
		}
	}
}

func TestSampleConfigurationErrors(t *testing.T) {
	tests := []struct {
		name  string
		tiers []models.WeightedTier
	}{
		{name: "empty table", tiers: nil},
		{name: "all zero", tiers: []models.WeightedTier{{Tier: models.TierE}, {Tier: models.TierS}}},
		{name: "all negative", tiers: []models.WeightedTier{{Tier: models.TierE, Weight: -1}}},
		{name: "nan weight", tiers: []models.WeightedTier{{Tier: models.TierE, Weight: math.NaN()}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Sample(&fixedSource{values: []float64{0.5}}, tt.tiers)
			if !errors.Is(err, ErrConfiguration) {
				t.Errorf("Expected ErrConfiguration, got %v", err)
			}
		})
	}
}
