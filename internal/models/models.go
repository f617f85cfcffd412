package models

import "time"

// Tier is a rarity class of a catalog entry. Tiers are ordered from most
// common (E) to rarest (S).
type Tier string

const (
	TierE Tier = "E"
	TierD Tier = "D"
	TierC Tier = "C"
	TierB Tier = "B"
	TierA Tier = "A"
	TierS Tier = "S"
)

// Tiers returns every tier in declaration order.
func Tiers() []Tier {
	return []Tier{TierE, TierD, TierC, TierB, TierA, TierS}
}

// Valid reports whether t is one of the known tiers.
func (t Tier) Valid() bool {
	for _, known := range Tiers() {
		if t == known {
			return true
		}
	}
	return false
}

// WeightedTier pairs a tier with its relative draw weight
type WeightedTier struct {
	Tier   Tier    `json:"tier" yaml:"tier"`
	Weight float64 `json:"weight" yaml:"weight"`
}

// DefaultWeights is the stock TCG distribution (higher weight = more common).
func DefaultWeights() []WeightedTier {
	return []WeightedTier{
		{Tier: TierE, Weight: 40},
		{Tier: TierD, Weight: 30},
		{Tier: TierC, Weight: 20},
		{Tier: TierB, Weight: 7},
		{Tier: TierA, Weight: 2.5},
		{Tier: TierS, Weight: 0.5},
	}
}

// CatalogEntry represents a card subject fetched from the catalog
type CatalogEntry struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Rarity      Tier   `json:"rarity"`
	Description string `json:"description"`
}

// ReasonOther is the default reason stored with a receipt record
const ReasonOther = "other"

// ReceiptRecord is the row written to the receipt store for each printed job
type ReceiptRecord struct {
	PersonID  string    `json:"person"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created"`
}
