package gacha

import (
	"fmt"
	"math"
	"math/rand"
	"sync"

	"github.com/starvault/starvault/starvault/catalog"
)

// Variant is the quality modifier rolled independently for every card
// issued from a pack. Tiers are ordered: each one strictly raises both
// stats and value over the previous.
type Variant string

const (
	VariantNormal Variant = "normal"
	VariantSilver Variant = "silver"
	VariantGold   Variant = "gold"
	VariantDeluxe Variant = "deluxe"
)

// VariantOrder lists variants from lowest to highest quality.
var VariantOrder = []Variant{VariantNormal, VariantSilver, VariantGold, VariantDeluxe}

func (v Variant) Valid() bool {
	for _, known := range VariantOrder {
		if v == known {
			return true
		}
	}
	return false
}

// Tier returns the variant's position in the quality ordering.
func (v Variant) Tier() int {
	for i, known := range VariantOrder {
		if v == known {
			return i
		}
	}
	return -1
}

// Variant roll probabilities. Checked rarest-first; the remainder of the
// unit interval is normal.
const (
	deluxeChance = 0.005
	goldChance   = 0.010
	silverChance = 0.020
)

// InvalidWeightTableError reports a weight table with no positive weight.
type InvalidWeightTableError struct {
	Total float64
}

func (e *InvalidWeightTableError) Error() string {
	return fmt.Sprintf("invalid weight table: total weight %v, need > 0", e.Total)
}

// Resolver performs the random draws of a pack opening. The rand source
// is injected so drop sequences are reproducible in tests. A mutex guards
// the source, which is not safe for concurrent use on its own.
type Resolver struct {
	mu   sync.Mutex
	rand *rand.Rand
}

func NewResolver(rnd *rand.Rand) *Resolver {
	return &Resolver{rand: rnd}
}

// ResolveRarity draws one rarity tier from the weight table. The draw is
// uniform over [0, totalWeight); tiers are walked in canonical order so
// identical tables always map a given draw to the same tier. Tiers with
// zero or negative weight are never selectable.
func (r *Resolver) ResolveRarity(weights map[catalog.Rarity]float64) (catalog.Rarity, error) {
	total := totalWeight(weights)
	if total <= 0 {
		return "", &InvalidWeightTableError{Total: total}
	}
	return rarityAt(weights, r.float64()*total), nil
}

// ResolveVariant rolls the quality variant for one issued card,
// independently of rarity and of other cards in the same opening.
func (r *Resolver) ResolveVariant() Variant {
	return variantAt(r.float64())
}

func (r *Resolver) float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

func (r *Resolver) intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

func totalWeight(weights map[catalog.Rarity]float64) float64 {
	var total float64
	for _, w := range weights {
		if w > 0 && !math.IsInf(w, 1) && !math.IsNaN(w) {
			total += w
		}
	}
	return total
}

// rarityAt maps a draw in [0, totalWeight) onto the tier whose cumulative
// range contains it.
func rarityAt(weights map[catalog.Rarity]float64, draw float64) catalog.Rarity {
	var last catalog.Rarity
	for _, rarity := range catalog.RarityOrder {
		w := weights[rarity]
		if w <= 0 || math.IsInf(w, 1) || math.IsNaN(w) {
			continue
		}
		if draw < w {
			return rarity
		}
		draw -= w
		last = rarity
	}
	// Float accumulation can leave the draw a hair past the final range.
	return last
}

func variantAt(roll float64) Variant {
	switch {
	case roll < deluxeChance:
		return VariantDeluxe
	case roll < deluxeChance+goldChance:
		return VariantGold
	case roll < deluxeChance+goldChance+silverChance:
		return VariantSilver
	default:
		return VariantNormal
	}
}
