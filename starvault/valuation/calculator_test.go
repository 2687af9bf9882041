package valuation

import (
	"errors"
	"testing"

	"github.com/starvault/starvault/starvault/catalog"
	"github.com/starvault/starvault/starvault/gacha"
)

// The reference card: rare, stats summing 305. At normal variant and
// zero ROI its value is round(5 + 30.5) = 36.
var referenceCard = &catalog.CardDef{
	ID:     3,
	Name:   "Session Vocalist",
	Rarity: catalog.RarityRare,
	Stats:  catalog.Stats{Off: 80, Def: 75, Abl: 80, Mch: 70},
}

func TestCardValueAt_Reference(t *testing.T) {
	if got := CardValueAt(referenceCard, gacha.VariantNormal, 0); got != 36 {
		t.Errorf("CardValueAt(reference, normal, 0) = %d, want 36", got)
	}
}

func TestCardValueAt_Deterministic(t *testing.T) {
	first := CardValueAt(referenceCard, gacha.VariantGold, 0.15)
	for i := 0; i < 100; i++ {
		if got := CardValueAt(referenceCard, gacha.VariantGold, 0.15); got != first {
			t.Fatalf("CardValueAt() = %d on iteration %d, want %d", got, i, first)
		}
	}
}

func TestCardValueAt_VariantMonotonicity(t *testing.T) {
	prev := int64(-1)
	for _, variant := range gacha.VariantOrder {
		got := CardValueAt(referenceCard, variant, 0)
		if got <= prev {
			t.Errorf("CardValueAt(%s) = %d, want > %d", variant, got, prev)
		}
		prev = got
	}
}

func TestCardValueAt_ROIRaisesValue(t *testing.T) {
	base := CardValueAt(referenceCard, gacha.VariantNormal, 0)
	marked := CardValueAt(referenceCard, gacha.VariantNormal, 0.25)
	if marked <= base {
		t.Errorf("CardValueAt(roi=0.25) = %d, want > %d", marked, base)
	}
}

func TestResolvedStats(t *testing.T) {
	stats := catalog.Stats{Off: 10, Def: 20, Abl: 30, Mch: 40}

	tests := []struct {
		variant gacha.Variant
		want    catalog.Stats
	}{
		{gacha.VariantNormal, catalog.Stats{Off: 10, Def: 20, Abl: 30, Mch: 40}},
		{gacha.VariantSilver, catalog.Stats{Off: 16, Def: 27, Abl: 38, Mch: 49}},
		{gacha.VariantGold, catalog.Stats{Off: 23, Def: 35, Abl: 48, Mch: 60}},
		{gacha.VariantDeluxe, catalog.Stats{Off: 30, Def: 45, Abl: 60, Mch: 75}},
	}

	for _, tt := range tests {
		if got := ResolvedStats(stats, tt.variant); got != tt.want {
			t.Errorf("ResolvedStats(%s) = %+v, want %+v", tt.variant, got, tt.want)
		}
	}
}

func packTestCatalog(t *testing.T, packs ...*catalog.PackDef) *catalog.Catalog {
	t.Helper()
	cards := []*catalog.CardDef{
		{ID: 1, Name: "A", Rarity: catalog.RarityCommon, Stats: catalog.Stats{Off: 10, Def: 10, Abl: 10, Mch: 10}},
		{ID: 2, Name: "B", Rarity: catalog.RarityRare, Stats: catalog.Stats{Off: 80, Def: 75, Abl: 80, Mch: 70}},
	}
	cat, err := catalog.New(cards, packs)
	if err != nil {
		t.Fatalf("catalog.New() error = %v", err)
	}
	return cat
}

func TestPackPrice_ExplicitPriceWins(t *testing.T) {
	pack := &catalog.PackDef{ID: 10, Price: 75, Rarities: map[catalog.Rarity]float64{catalog.RarityCommon: 100}}
	cat := packTestCatalog(t, pack)

	c := NewCalculator(Config{})
	got, err := c.PackPrice(pack, cat)
	if err != nil {
		t.Fatalf("PackPrice() error = %v", err)
	}
	if got != 75 {
		t.Errorf("PackPrice() = %d, want explicit 75", got)
	}
}

func TestPackPriceAt_ExpectedValue(t *testing.T) {
	// Common avg value: round(1 + 4) = 5. Rare avg value: 36.
	// Expected at 50/50: 0.5*5 + 0.5*36 = 20.5 → 21 with one card per open.
	pack := &catalog.PackDef{ID: 10, Rarities: map[catalog.Rarity]float64{
		catalog.RarityCommon: 50,
		catalog.RarityRare:   50,
	}}
	cat := packTestCatalog(t, pack)

	got, err := PackPriceAt(pack, cat, 0)
	if err != nil {
		t.Fatalf("PackPriceAt() error = %v", err)
	}
	if got != 21 {
		t.Errorf("PackPriceAt() = %d, want 21", got)
	}
}

func TestPackPriceAt_ScalesWithCardsPerOpen(t *testing.T) {
	pack := &catalog.PackDef{ID: 10, CardCount: 3, Rarities: map[catalog.Rarity]float64{
		catalog.RarityCommon: 100,
	}}
	cat := packTestCatalog(t, pack)

	got, err := PackPriceAt(pack, cat, 0)
	if err != nil {
		t.Fatalf("PackPriceAt() error = %v", err)
	}
	if got != 15 {
		t.Errorf("PackPriceAt() = %d, want 15 (3 × avg 5)", got)
	}
}

func TestPackPriceAt_InvalidWeightTable(t *testing.T) {
	pack := &catalog.PackDef{ID: 10, Rarities: map[catalog.Rarity]float64{catalog.RarityCommon: 0}}
	cat := packTestCatalog(t, pack)

	_, err := PackPriceAt(pack, cat, 0)
	var iwt *gacha.InvalidWeightTableError
	if !errors.As(err, &iwt) {
		t.Errorf("PackPriceAt() error = %v, want InvalidWeightTableError", err)
	}
}

func TestPackPriceAt_NoEligibleCardForWeightedTier(t *testing.T) {
	pack := &catalog.PackDef{ID: 10, Rarities: map[catalog.Rarity]float64{catalog.RarityMythic: 100}}
	cat := packTestCatalog(t, pack)

	_, err := PackPriceAt(pack, cat, 0)
	var nec *gacha.NoEligibleCardError
	if !errors.As(err, &nec) {
		t.Fatalf("PackPriceAt() error = %v, want NoEligibleCardError", err)
	}
	if nec.Rarity != catalog.RarityMythic {
		t.Errorf("NoEligibleCardError.Rarity = %s, want mythic", nec.Rarity)
	}
}

func TestSetROIPercentage_DropsCachedPrices(t *testing.T) {
	pack := &catalog.PackDef{ID: 10, Rarities: map[catalog.Rarity]float64{catalog.RarityCommon: 100}}
	cat := packTestCatalog(t, pack)

	c := NewCalculator(Config{})
	before, err := c.PackPrice(pack, cat)
	if err != nil {
		t.Fatalf("PackPrice() error = %v", err)
	}

	c.SetROIPercentage(1.0)
	after, err := c.PackPrice(pack, cat)
	if err != nil {
		t.Fatalf("PackPrice() error = %v", err)
	}
	if after != before*2 {
		t.Errorf("PackPrice() after ROI change = %d, want %d", after, before*2)
	}
}

func TestSaleValue(t *testing.T) {
	c := NewCalculator(Config{})

	tests := []struct {
		value int64
		want  int64
	}{
		{0, 0},
		{1, 0},   // floor(0.7)
		{10, 7},
		{36, 25}, // floor(25.2)
		{99, 69}, // floor(69.3)
	}

	for _, tt := range tests {
		if got := c.SaleValue(tt.value); got != tt.want {
			t.Errorf("SaleValue(%d) = %d, want %d", tt.value, got, tt.want)
		}
	}
}

func TestSaleValue_CustomRatio(t *testing.T) {
	c := NewCalculator(Config{SellRatio: 0.5})
	if got := c.SaleValue(10); got != 5 {
		t.Errorf("SaleValue(10) = %d, want 5 at ratio 0.5", got)
	}
}
