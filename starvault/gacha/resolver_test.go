package gacha

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/starvault/starvault/starvault/catalog"
)

func standardWeights() map[catalog.Rarity]float64 {
	return map[catalog.Rarity]float64{
		catalog.RarityCommon:    50,
		catalog.RarityUncommon:  30,
		catalog.RarityRare:      15,
		catalog.RarityLegendary: 4,
		catalog.RarityMythic:    1,
	}
}

func TestRarityAt(t *testing.T) {
	weights := standardWeights()

	tests := []struct {
		draw float64
		want catalog.Rarity
	}{
		{0, catalog.RarityCommon},
		{49.999, catalog.RarityCommon},
		{50, catalog.RarityUncommon},
		{79.999, catalog.RarityUncommon},
		{80, catalog.RarityRare},
		{94.999, catalog.RarityRare},
		{95, catalog.RarityLegendary},
		{98.999, catalog.RarityLegendary},
		{99, catalog.RarityMythic},
		{99.999, catalog.RarityMythic},
	}

	for _, tt := range tests {
		if got := rarityAt(weights, tt.draw); got != tt.want {
			t.Errorf("rarityAt(%v) = %v, want %v", tt.draw, got, tt.want)
		}
	}
}

func TestRarityAt_SkipsZeroWeightTiers(t *testing.T) {
	weights := map[catalog.Rarity]float64{
		catalog.RarityCommon: 0,
		catalog.RarityRare:   10,
	}

	for _, draw := range []float64{0, 5, 9.999} {
		if got := rarityAt(weights, draw); got != catalog.RarityRare {
			t.Errorf("rarityAt(%v) = %v, want rare", draw, got)
		}
	}
}

func TestRarityAt_DriftFallsToLastTier(t *testing.T) {
	weights := map[catalog.Rarity]float64{
		catalog.RarityCommon: 0.1,
		catalog.RarityRare:   0.2,
	}

	// A draw a hair past the accumulated total must still resolve.
	if got := rarityAt(weights, 0.30000000000000004); got != catalog.RarityRare {
		t.Errorf("rarityAt(drifted draw) = %v, want rare", got)
	}
}

func TestResolveRarity_InvalidWeightTable(t *testing.T) {
	r := NewResolver(rand.New(rand.NewSource(1)))

	tables := []map[catalog.Rarity]float64{
		nil,
		{},
		{catalog.RarityCommon: 0},
		{catalog.RarityCommon: -5},
		{catalog.RarityCommon: math.Inf(1)},
		{catalog.RarityCommon: math.NaN()},
	}

	for _, weights := range tables {
		_, err := r.ResolveRarity(weights)
		var iwt *InvalidWeightTableError
		if !errors.As(err, &iwt) {
			t.Errorf("ResolveRarity(%v) error = %v, want InvalidWeightTableError", weights, err)
		}
	}
}

func TestResolveRarity_Frequencies(t *testing.T) {
	r := NewResolver(rand.New(rand.NewSource(42)))
	weights := standardWeights()

	const draws = 100000
	counts := make(map[catalog.Rarity]int)
	for i := 0; i < draws; i++ {
		rarity, err := r.ResolveRarity(weights)
		if err != nil {
			t.Fatalf("ResolveRarity() error = %v", err)
		}
		counts[rarity]++
	}

	for rarity, weight := range weights {
		want := weight / 100
		got := float64(counts[rarity]) / draws
		if math.Abs(got-want) > 0.01 {
			t.Errorf("rarity %s frequency = %.4f, want %.4f ±0.01", rarity, got, want)
		}
	}
}

func TestVariantAt(t *testing.T) {
	tests := []struct {
		roll float64
		want Variant
	}{
		{0, VariantDeluxe},
		{0.004999, VariantDeluxe},
		{0.005, VariantGold},
		{0.014999, VariantGold},
		{0.015, VariantSilver},
		{0.034999, VariantSilver},
		{0.035, VariantNormal},
		{0.5, VariantNormal},
		{0.999999, VariantNormal},
	}

	for _, tt := range tests {
		if got := variantAt(tt.roll); got != tt.want {
			t.Errorf("variantAt(%v) = %v, want %v", tt.roll, got, tt.want)
		}
	}
}

func TestVariantTierOrdering(t *testing.T) {
	for i := 1; i < len(VariantOrder); i++ {
		if VariantOrder[i].Tier() <= VariantOrder[i-1].Tier() {
			t.Errorf("variant %s tier %d not above %s tier %d",
				VariantOrder[i], VariantOrder[i].Tier(),
				VariantOrder[i-1], VariantOrder[i-1].Tier())
		}
	}

	if Variant("holo").Valid() {
		t.Error("unknown variant should not be valid")
	}
	if tier := Variant("holo").Tier(); tier != -1 {
		t.Errorf("unknown variant tier = %d, want -1", tier)
	}
}
