package gacha

import (
	"fmt"

	"github.com/starvault/starvault/starvault/catalog"
)

// NoEligibleCardError reports that no catalog card can satisfy a pack's
// constraints.
type NoEligibleCardError struct {
	PackID int64
	Rarity catalog.Rarity
}

func (e *NoEligibleCardError) Error() string {
	if e.Rarity != "" {
		return fmt.Sprintf("no eligible card for pack %d at rarity %s", e.PackID, e.Rarity)
	}
	return fmt.Sprintf("no eligible card for pack %d", e.PackID)
}

// SelectCard picks a concrete card definition for a resolved rarity.
//
// The constraint set is widened in a fixed order when empty, because the
// fallback order decides drop-rate fairness:
//  1. rarity + allow-list + exclusivity
//  2. allow-list + exclusivity (rarity dropped)
//  3. exclusivity only (allow-list dropped)
//
// Only when step 3 is also empty does the selection fail. The pick within
// the final set is uniform.
func (r *Resolver) SelectCard(rarity catalog.Rarity, pack *catalog.PackDef, cat *catalog.Catalog) (*catalog.CardDef, error) {
	eligible := cat.EligibleCards(pack, rarity)

	if len(eligible) == 0 {
		eligible = cat.EligibleCards(pack, "")
	}

	if len(eligible) == 0 {
		for _, card := range cat.Cards() {
			if card.DroppableFrom(pack.ID) {
				eligible = append(eligible, card)
			}
		}
	}

	if len(eligible) == 0 {
		return nil, &NoEligibleCardError{PackID: pack.ID, Rarity: rarity}
	}

	return eligible[r.intn(len(eligible))], nil
}
