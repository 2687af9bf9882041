package catalog

import (
	"fmt"
	"time"

	"github.com/sahilm/fuzzy"
)

// Rarity is the drop tier of a card. Order matters: weight tables are
// walked common→mythic when resolving a draw.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityLegendary Rarity = "legendary"
	RarityMythic    Rarity = "mythic"
)

// RarityOrder is the canonical walk order for weight tables.
var RarityOrder = []Rarity{
	RarityCommon,
	RarityUncommon,
	RarityRare,
	RarityLegendary,
	RarityMythic,
}

func (r Rarity) Valid() bool {
	for _, known := range RarityOrder {
		if r == known {
			return true
		}
	}
	return false
}

// Stats are the base combat stats printed on a card definition.
type Stats struct {
	Off int `json:"OFF"`
	Def int `json:"DEF"`
	Abl int `json:"ABL"`
	Mch int `json:"MCH"`
}

func (s Stats) Total() int {
	return s.Off + s.Def + s.Abl + s.Mch
}

// CardDef is an immutable card definition from the catalog.
type CardDef struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Rarity Rarity `json:"rarity"`
	Stats  Stats  `json:"stats"`

	// PackExclusive restricts the card to the listed pack ids.
	// Empty means the card can drop from any pack.
	PackExclusive []int64 `json:"packExclusive,omitempty"`
}

// DroppableFrom reports whether this card may appear in the given pack.
func (c *CardDef) DroppableFrom(packID int64) bool {
	if len(c.PackExclusive) == 0 {
		return true
	}
	for _, id := range c.PackExclusive {
		if id == packID {
			return true
		}
	}
	return false
}

// PackDef is a purchasable pack definition from the shop catalog.
type PackDef struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`

	// Price is the explicit shop price. Zero means the price is derived
	// from the expected value of the pack's contents.
	Price int64 `json:"price"`

	// Rarities maps tier to drop weight. Weights need not sum to 100.
	Rarities map[Rarity]float64 `json:"rarities"`

	// AllowedCards restricts drops to the listed card ids. Empty means
	// every catalog card is eligible.
	AllowedCards []int64 `json:"allowedCards,omitempty"`

	// CardCount is how many cards one pack yields when opened.
	CardCount int `json:"cardCount,omitempty"`

	// Limited packs stop being purchasable after AvailableUntil.
	Limited        bool      `json:"limited,omitempty"`
	AvailableUntil time.Time `json:"availableUntil,omitempty"`
}

// Allows reports whether the card id passes the pack's allow-list.
func (p *PackDef) Allows(cardID int64) bool {
	if len(p.AllowedCards) == 0 {
		return true
	}
	for _, id := range p.AllowedCards {
		if id == cardID {
			return true
		}
	}
	return false
}

// CardsPerOpen returns the number of cards issued per opened pack.
func (p *PackDef) CardsPerOpen() int {
	if p.CardCount <= 0 {
		return 1
	}
	return p.CardCount
}

// Available reports whether the pack can still be purchased at now.
func (p *PackDef) Available(now time.Time) bool {
	if !p.Limited || p.AvailableUntil.IsZero() {
		return true
	}
	return now.Before(p.AvailableUntil)
}

// Catalog is the immutable reference data the engine resolves against:
// card definitions and pack definitions, indexed for lookup.
type Catalog struct {
	cards         []*CardDef
	cardsByID     map[int64]*CardDef
	cardsByRarity map[Rarity][]*CardDef

	packs     []*PackDef
	packsByID map[int64]*PackDef

	cardNames []string
}

// New builds a catalog from definitions, validating ids and rarities.
func New(cards []*CardDef, packs []*PackDef) (*Catalog, error) {
	c := &Catalog{
		cards:         cards,
		cardsByID:     make(map[int64]*CardDef, len(cards)),
		cardsByRarity: make(map[Rarity][]*CardDef),
		packs:         packs,
		packsByID:     make(map[int64]*PackDef, len(packs)),
		cardNames:     make([]string, 0, len(cards)),
	}

	for _, card := range cards {
		if !card.Rarity.Valid() {
			return nil, fmt.Errorf("card %d (%s): unknown rarity %q", card.ID, card.Name, card.Rarity)
		}
		if _, dup := c.cardsByID[card.ID]; dup {
			return nil, fmt.Errorf("duplicate card id %d", card.ID)
		}
		c.cardsByID[card.ID] = card
		c.cardsByRarity[card.Rarity] = append(c.cardsByRarity[card.Rarity], card)
		c.cardNames = append(c.cardNames, card.Name)
	}

	for _, pack := range packs {
		if _, dup := c.packsByID[pack.ID]; dup {
			return nil, fmt.Errorf("duplicate pack id %d", pack.ID)
		}
		for rarity := range pack.Rarities {
			if !rarity.Valid() {
				return nil, fmt.Errorf("pack %d (%s): unknown rarity %q in weight table", pack.ID, pack.Name, rarity)
			}
		}
		c.packsByID[pack.ID] = pack
	}

	return c, nil
}

func (c *Catalog) Card(id int64) (*CardDef, bool) {
	card, ok := c.cardsByID[id]
	return card, ok
}

func (c *Catalog) Pack(id int64) (*PackDef, bool) {
	pack, ok := c.packsByID[id]
	return pack, ok
}

func (c *Catalog) Cards() []*CardDef {
	return c.cards
}

func (c *Catalog) Packs() []*PackDef {
	return c.packs
}

func (c *Catalog) CardsByRarity(r Rarity) []*CardDef {
	return c.cardsByRarity[r]
}

// EligibleCards returns the cards of the given rarity that satisfy both
// the pack's allow-list and each card's pack-exclusivity. An empty rarity
// matches every tier.
func (c *Catalog) EligibleCards(pack *PackDef, rarity Rarity) []*CardDef {
	source := c.cards
	if rarity != "" {
		source = c.cardsByRarity[rarity]
	}

	var eligible []*CardDef
	for _, card := range source {
		if pack.Allows(card.ID) && card.DroppableFrom(pack.ID) {
			eligible = append(eligible, card)
		}
	}
	return eligible
}

// SearchCards fuzzy-matches card names for the command layer's lookups.
func (c *Catalog) SearchCards(query string, limit int) []*CardDef {
	matches := fuzzy.Find(query, c.cardNames)
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}

	results := make([]*CardDef, 0, len(matches))
	for _, m := range matches {
		results = append(results, c.cards[m.Index])
	}
	return results
}
