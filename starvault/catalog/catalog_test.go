package catalog

import (
	"strings"
	"testing"
	"time"
)

func testCards() []*CardDef {
	return []*CardDef{
		{ID: 1, Name: "Street Performer", Rarity: RarityCommon, Stats: Stats{Off: 10, Def: 10, Abl: 10, Mch: 10}},
		{ID: 2, Name: "Backup Dancer", Rarity: RarityCommon, Stats: Stats{Off: 20, Def: 15, Abl: 10, Mch: 5}},
		{ID: 3, Name: "Session Vocalist", Rarity: RarityRare, Stats: Stats{Off: 80, Def: 75, Abl: 80, Mch: 70}},
		{ID: 4, Name: "Tour Headliner", Rarity: RarityLegendary, Stats: Stats{Off: 120, Def: 110, Abl: 115, Mch: 100}, PackExclusive: []int64{20}},
	}
}

func testPacks() []*PackDef {
	return []*PackDef{
		{ID: 10, Name: "Starter Pack", Rarities: map[Rarity]float64{RarityCommon: 80, RarityRare: 20}},
		{ID: 20, Name: "Tour Pack", Rarities: map[Rarity]float64{RarityRare: 70, RarityLegendary: 30}, AllowedCards: []int64{3, 4}},
	}
}

func mustCatalog(t *testing.T) *Catalog {
	t.Helper()
	cat, err := New(testCards(), testPacks())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return cat
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name    string
		cards   []*CardDef
		packs   []*PackDef
		wantErr string
	}{
		{
			name:    "duplicate card id",
			cards:   []*CardDef{{ID: 1, Rarity: RarityCommon}, {ID: 1, Rarity: RarityCommon}},
			wantErr: "duplicate card id",
		},
		{
			name:    "unknown rarity",
			cards:   []*CardDef{{ID: 1, Rarity: "ultra"}},
			wantErr: "unknown rarity",
		},
		{
			name:    "duplicate pack id",
			packs:   []*PackDef{{ID: 10}, {ID: 10}},
			wantErr: "duplicate pack id",
		},
		{
			name:    "bad weight table rarity",
			packs:   []*PackDef{{ID: 10, Rarities: map[Rarity]float64{"shiny": 1}}},
			wantErr: "unknown rarity",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cards, tt.packs)
			if err == nil {
				t.Fatalf("New() error = nil, want containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("New() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestEligibleCards(t *testing.T) {
	cat := mustCatalog(t)
	starter, _ := cat.Pack(10)
	tour, _ := cat.Pack(20)

	// Card 4 is exclusive to pack 20 and must not drop from the starter.
	got := cat.EligibleCards(starter, RarityLegendary)
	if len(got) != 0 {
		t.Errorf("EligibleCards(starter, legendary) = %d cards, want 0", len(got))
	}

	got = cat.EligibleCards(tour, RarityLegendary)
	if len(got) != 1 || got[0].ID != 4 {
		t.Errorf("EligibleCards(tour, legendary) = %v, want card 4", got)
	}

	// The tour pack's allow-list excludes the commons.
	got = cat.EligibleCards(tour, "")
	if len(got) != 2 {
		t.Errorf("EligibleCards(tour, any) = %d cards, want 2", len(got))
	}

	got = cat.EligibleCards(starter, RarityCommon)
	if len(got) != 2 {
		t.Errorf("EligibleCards(starter, common) = %d cards, want 2", len(got))
	}
}

func TestDecode(t *testing.T) {
	cardsDoc := strings.NewReader(`[
		{"id": 1, "name": "Street Performer", "rarity": "common", "stats": {"OFF": 10, "DEF": 20, "ABL": 30, "MCH": 40}}
	]`)
	packsDoc := strings.NewReader(`{
		"packs": [
			{"id": 10, "name": "Starter Pack", "price": 50, "rarities": {"common": 100}, "cardCount": 3}
		]
	}`)

	cat, err := Decode(cardsDoc, packsDoc)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	card, ok := cat.Card(1)
	if !ok {
		t.Fatal("Card(1) not found")
	}
	if card.Stats.Total() != 100 {
		t.Errorf("Stats.Total() = %d, want 100", card.Stats.Total())
	}

	pack, ok := cat.Pack(10)
	if !ok {
		t.Fatal("Pack(10) not found")
	}
	if pack.CardsPerOpen() != 3 {
		t.Errorf("CardsPerOpen() = %d, want 3", pack.CardsPerOpen())
	}
	if pack.Price != 50 {
		t.Errorf("Price = %d, want 50", pack.Price)
	}
}

func TestPackDef_CardsPerOpenDefault(t *testing.T) {
	p := &PackDef{ID: 1}
	if got := p.CardsPerOpen(); got != 1 {
		t.Errorf("CardsPerOpen() = %d, want 1", got)
	}
}

func TestPackDef_Available(t *testing.T) {
	now := time.Now()

	open := &PackDef{ID: 1}
	if !open.Available(now) {
		t.Error("unlimited pack should always be available")
	}

	expired := &PackDef{ID: 2, Limited: true, AvailableUntil: now.Add(-time.Hour)}
	if expired.Available(now) {
		t.Error("expired limited pack should not be available")
	}

	active := &PackDef{ID: 3, Limited: true, AvailableUntil: now.Add(time.Hour)}
	if !active.Available(now) {
		t.Error("active limited pack should be available")
	}
}

func TestSearchCards(t *testing.T) {
	cat := mustCatalog(t)

	got := cat.SearchCards("vocalist", 5)
	if len(got) == 0 || got[0].ID != 3 {
		t.Errorf("SearchCards(vocalist) = %v, want card 3 first", got)
	}

	if got := cat.SearchCards("zzzzzz", 5); len(got) != 0 {
		t.Errorf("SearchCards(zzzzzz) = %d results, want 0", len(got))
	}
}
