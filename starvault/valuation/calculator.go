package valuation

import (
	"fmt"
	"math"

	lru "github.com/hashicorp/golang-lru"
	"github.com/starvault/starvault/starvault/catalog"
	"github.com/starvault/starvault/starvault/gacha"
)

// Value formula, kept in one place so stored values can be recomputed:
//
//	resolvedStat = round(stat × variantMultiplier) + variantBonus
//	cardValue    = round((baseValue(rarity) × variantMultiplier +
//	               resolvedStatTotal × statWeight) × (1 + roi))
//
// with statWeight = 0.1 and roi ∈ [0, 1]. Pack prices are the expected
// card value over the weight table, times cards per open, unless the
// pack carries an explicit price.
const statWeight = 0.1

const priceCacheSize = 1024

// baseValues keys rarity to its base star value, in drop-rarity order.
var baseValues = map[catalog.Rarity]int64{
	catalog.RarityCommon:    1,
	catalog.RarityUncommon:  3,
	catalog.RarityRare:      5,
	catalog.RarityLegendary: 15,
	catalog.RarityMythic:    30,
}

type variantMod struct {
	multiplier float64
	statBonus  int
}

// variantMods must stay strictly increasing with variant tier.
var variantMods = map[gacha.Variant]variantMod{
	gacha.VariantNormal: {multiplier: 1.00, statBonus: 0},
	gacha.VariantSilver: {multiplier: 1.10, statBonus: 5},
	gacha.VariantGold:   {multiplier: 1.25, statBonus: 10},
	gacha.VariantDeluxe: {multiplier: 1.50, statBonus: 15},
}

// Config holds the tunable knobs of the valuation formula.
type Config struct {
	// ROIPercentage is the uniform markup applied to values and prices,
	// in [0, 1].
	ROIPercentage float64

	// SellRatio is the fraction of an item's value credited on sale.
	SellRatio float64
}

func (c Config) sellRatio() float64 {
	if c.SellRatio <= 0 {
		return 0.7
	}
	return c.SellRatio
}

// Calculator computes card values and pack prices. The computation is
// deterministic; the LRU cache only skips recomputing pack prices, which
// walk the whole eligible card set.
type Calculator struct {
	cfg        Config
	priceCache *lru.Cache
}

func NewCalculator(cfg Config) *Calculator {
	cache, _ := lru.New(priceCacheSize)
	return &Calculator{
		cfg:        cfg,
		priceCache: cache,
	}
}

func (c *Calculator) ROIPercentage() float64 {
	return c.cfg.ROIPercentage
}

// SetROIPercentage changes the markup and drops cached pack prices.
func (c *Calculator) SetROIPercentage(roi float64) {
	c.cfg.ROIPercentage = roi
	c.priceCache.Purge()
}

// ResolvedStats applies the variant bonus to a card's base stats.
func ResolvedStats(stats catalog.Stats, variant gacha.Variant) catalog.Stats {
	mod, ok := variantMods[variant]
	if !ok {
		return stats
	}
	return catalog.Stats{
		Off: resolveStat(stats.Off, mod),
		Def: resolveStat(stats.Def, mod),
		Abl: resolveStat(stats.Abl, mod),
		Mch: resolveStat(stats.Mch, mod),
	}
}

func resolveStat(stat int, mod variantMod) int {
	return int(math.Round(float64(stat)*mod.multiplier)) + mod.statBonus
}

// CardValue computes the star value of a card issued at the given
// variant, using the calculator's ROI percentage.
func (c *Calculator) CardValue(def *catalog.CardDef, variant gacha.Variant) int64 {
	return CardValueAt(def, variant, c.cfg.ROIPercentage)
}

// CardValueAt is the pure valuation function. Two calls with identical
// inputs always return identical results.
func CardValueAt(def *catalog.CardDef, variant gacha.Variant, roi float64) int64 {
	mod, ok := variantMods[variant]
	if !ok {
		mod = variantMods[gacha.VariantNormal]
	}

	base := float64(baseValues[def.Rarity]) * mod.multiplier
	statSum := float64(ResolvedStats(def.Stats, variant).Total()) * statWeight

	return int64(math.Round((base + statSum) * (1 + roi)))
}

// PackPrice returns the shop price of a pack: its explicit price when
// set, otherwise the expected value of its contents under the weight
// table, scaled by ROI and cards per open.
//
// A tier with positive weight but no eligible card is a catalog
// configuration error and fails with NoEligibleCardError instead of
// silently averaging over fewer tiers.
func (c *Calculator) PackPrice(pack *catalog.PackDef, cat *catalog.Catalog) (int64, error) {
	if pack.Price > 0 {
		return pack.Price, nil
	}

	key := fmt.Sprintf("%d:%v", pack.ID, c.cfg.ROIPercentage)
	if cached, ok := c.priceCache.Get(key); ok {
		return cached.(int64), nil
	}

	price, err := PackPriceAt(pack, cat, c.cfg.ROIPercentage)
	if err != nil {
		return 0, err
	}

	c.priceCache.Add(key, price)
	return price, nil
}

// PackPriceAt computes the derived pack price without caching.
func PackPriceAt(pack *catalog.PackDef, cat *catalog.Catalog, roi float64) (int64, error) {
	var total float64
	for _, w := range pack.Rarities {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return 0, &gacha.InvalidWeightTableError{Total: total}
	}

	var expected float64
	for _, rarity := range catalog.RarityOrder {
		weight := pack.Rarities[rarity]
		if weight <= 0 {
			continue
		}

		eligible := cat.EligibleCards(pack, rarity)
		if len(eligible) == 0 {
			return 0, &gacha.NoEligibleCardError{PackID: pack.ID, Rarity: rarity}
		}

		var sum int64
		for _, card := range eligible {
			sum += CardValueAt(card, gacha.VariantNormal, 0)
		}
		avg := float64(sum) / float64(len(eligible))
		expected += avg * (weight / total)
	}

	expected *= float64(pack.CardsPerOpen())
	return int64(math.Round(expected * (1 + roi))), nil
}

// SaleValue is the amount credited for selling an item worth value.
func (c *Calculator) SaleValue(value int64) int64 {
	return int64(math.Floor(float64(value) * c.cfg.sellRatio()))
}
