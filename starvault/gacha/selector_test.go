package gacha

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/starvault/starvault/starvault/catalog"
)

func selectorCatalog(t *testing.T, cards []*catalog.CardDef, packs []*catalog.PackDef) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New(cards, packs)
	if err != nil {
		t.Fatalf("catalog.New() error = %v", err)
	}
	return cat
}

func TestSelectCard_ExactMatch(t *testing.T) {
	cards := []*catalog.CardDef{
		{ID: 1, Name: "A", Rarity: catalog.RarityCommon},
		{ID: 2, Name: "B", Rarity: catalog.RarityRare},
	}
	pack := &catalog.PackDef{ID: 10}
	cat := selectorCatalog(t, cards, []*catalog.PackDef{pack})

	r := NewResolver(rand.New(rand.NewSource(1)))
	got, err := r.SelectCard(catalog.RarityRare, pack, cat)
	if err != nil {
		t.Fatalf("SelectCard() error = %v", err)
	}
	if got.ID != 2 {
		t.Errorf("SelectCard() = card %d, want 2", got.ID)
	}
}

func TestSelectCard_FallsBackToAnyRarity(t *testing.T) {
	// No mythic exists; the allow-list still holds, so the only pick is
	// the allowed common.
	cards := []*catalog.CardDef{
		{ID: 1, Name: "A", Rarity: catalog.RarityCommon},
		{ID: 2, Name: "B", Rarity: catalog.RarityCommon},
	}
	pack := &catalog.PackDef{ID: 10, AllowedCards: []int64{1}}
	cat := selectorCatalog(t, cards, []*catalog.PackDef{pack})

	r := NewResolver(rand.New(rand.NewSource(1)))
	got, err := r.SelectCard(catalog.RarityMythic, pack, cat)
	if err != nil {
		t.Fatalf("SelectCard() error = %v", err)
	}
	if got.ID != 1 {
		t.Errorf("SelectCard() = card %d, want allow-listed card 1", got.ID)
	}
}

func TestSelectCard_FallsBackPastAllowList(t *testing.T) {
	// The allow-list points at a card id that does not exist; only the
	// final widening (exclusivity only) can produce a card.
	cards := []*catalog.CardDef{
		{ID: 1, Name: "A", Rarity: catalog.RarityCommon},
		{ID: 2, Name: "B", Rarity: catalog.RarityCommon, PackExclusive: []int64{99}},
	}
	pack := &catalog.PackDef{ID: 10, AllowedCards: []int64{777}}
	cat := selectorCatalog(t, cards, []*catalog.PackDef{pack})

	r := NewResolver(rand.New(rand.NewSource(1)))
	got, err := r.SelectCard(catalog.RarityCommon, pack, cat)
	if err != nil {
		t.Fatalf("SelectCard() error = %v", err)
	}
	// Card 2 is exclusive to pack 99 and stays ineligible even in the
	// widest fallback.
	if got.ID != 1 {
		t.Errorf("SelectCard() = card %d, want 1", got.ID)
	}
}

func TestSelectCard_NoEligibleCard(t *testing.T) {
	cards := []*catalog.CardDef{
		{ID: 1, Name: "A", Rarity: catalog.RarityCommon, PackExclusive: []int64{99}},
	}
	pack := &catalog.PackDef{ID: 10}
	cat := selectorCatalog(t, cards, []*catalog.PackDef{pack})

	r := NewResolver(rand.New(rand.NewSource(1)))
	_, err := r.SelectCard(catalog.RarityCommon, pack, cat)

	var nec *NoEligibleCardError
	if !errors.As(err, &nec) {
		t.Fatalf("SelectCard() error = %v, want NoEligibleCardError", err)
	}
	if nec.PackID != 10 {
		t.Errorf("NoEligibleCardError.PackID = %d, want 10", nec.PackID)
	}
}
