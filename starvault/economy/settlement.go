// Package economy coordinates settlements: multi-step economic operations
// that must apply atomically against the ledger store. Every operation
// follows the same shape: validate against the catalog, reserve the
// user's ledger row, resolve outcomes, persist, then commit. Any failure
// before commit rolls the whole operation back.
package economy

import (
	"context"
	"log/slog"
	"time"

	"github.com/starvault/starvault/starvault/catalog"
	"github.com/starvault/starvault/starvault/database/models"
	"github.com/starvault/starvault/starvault/gacha"
	"github.com/starvault/starvault/starvault/ledger"
	"github.com/starvault/starvault/starvault/valuation"
)

const (
	defaultMaxOpenQuantity  = 5
	defaultOperationTimeout = 10 * time.Second
)

// Config tunes settlement behavior.
type Config struct {
	// MaxOpenQuantity caps how many packs one open settlement may
	// consume. Zero means the default of 5.
	MaxOpenQuantity int

	// OperationTimeout bounds each settlement transaction. A store that
	// cannot commit within it rolls back and reports unavailability.
	// Zero means the default of 10s.
	OperationTimeout time.Duration

	Daily GrantRule
	Busk  GrantRule
}

func (c Config) maxOpenQuantity() int {
	if c.MaxOpenQuantity <= 0 {
		return defaultMaxOpenQuantity
	}
	return c.MaxOpenQuantity
}

func (c Config) operationTimeout() time.Duration {
	if c.OperationTimeout <= 0 {
		return defaultOperationTimeout
	}
	return c.OperationTimeout
}

// Coordinator executes settlements against one ledger store.
type Coordinator struct {
	store    ledger.Store
	catalog  *catalog.Catalog
	resolver *gacha.Resolver
	values   *valuation.Calculator
	cfg      Config
}

func NewCoordinator(store ledger.Store, cat *catalog.Catalog, resolver *gacha.Resolver, values *valuation.Calculator, cfg Config) *Coordinator {
	return &Coordinator{
		store:    store,
		catalog:  cat,
		resolver: resolver,
		values:   values,
		cfg:      cfg,
	}
}

// withTx runs one settlement transaction under the operation timeout.
func (c *Coordinator) withTx(ctx context.Context, fn func(ctx context.Context, tx ledger.Tx) error) error {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.operationTimeout())
	defer cancel()
	return c.store.WithTx(ctx, fn)
}

// PurchaseResult reports a committed pack purchase.
type PurchaseResult struct {
	Pack       *models.UserPack
	Price      int64
	NewBalance int64
}

// Purchase debits the pack's current price and stores a new unopened
// pack instance, atomically.
func (c *Coordinator) Purchase(ctx context.Context, userID string, packID int64) (*PurchaseResult, error) {
	def, ok := c.catalog.Pack(packID)
	if !ok || !def.Available(time.Now()) {
		return nil, &PackNotFoundError{PackID: packID}
	}

	price, err := c.values.PackPrice(def, c.catalog)
	if err != nil {
		return nil, err
	}

	result := &PurchaseResult{Price: price}
	err = c.withTx(ctx, func(ctx context.Context, tx ledger.Tx) error {
		balance, err := tx.AdjustBalance(ctx, userID, -price, 0)
		if err != nil {
			return err
		}

		pack := &models.UserPack{
			UserID:    userID,
			PackID:    def.ID,
			Name:      def.Name,
			PricePaid: price,
		}
		if err := tx.InsertPack(ctx, pack); err != nil {
			return err
		}

		result.Pack = pack
		result.NewBalance = balance
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Pack purchased",
		slog.String("user_id", userID),
		slog.Int64("pack_id", packID),
		slog.Int64("price", price))
	return result, nil
}

// OpenResult reports a committed pack opening. Remaining counts the
// user's unopened instances of the pack type left after consumption.
type OpenResult struct {
	Cards     []*models.UserCard
	Consumed  []int64
	Remaining int
}

// Open consumes quantity unopened instances of the pack type and issues
// the resolved cards, atomically. The quantity is clamped to
// [1, MaxOpenQuantity]; each consumed instance yields the pack's
// CardsPerOpen draws.
func (c *Coordinator) Open(ctx context.Context, userID string, packID int64, quantity int) (*OpenResult, error) {
	def, ok := c.catalog.Pack(packID)
	if !ok {
		return nil, &PackNotFoundError{PackID: packID}
	}

	if quantity < 1 {
		quantity = 1
	}
	if max := c.cfg.maxOpenQuantity(); quantity > max {
		quantity = max
	}

	result := &OpenResult{}
	err := c.withTx(ctx, func(ctx context.Context, tx ledger.Tx) error {
		// Reserve: locks the user's ledger row so concurrent settlements
		// for the same user serialize.
		if _, err := tx.Balance(ctx, userID); err != nil {
			return err
		}

		packs, err := tx.UnopenedPacks(ctx, userID, packID, quantity)
		if err != nil {
			return err
		}
		if len(packs) < quantity {
			return &InsufficientPacksError{
				UserID: userID,
				PackID: packID,
				Have:   len(packs),
				Want:   quantity,
			}
		}

		cards := make([]*models.UserCard, 0, quantity*def.CardsPerOpen())
		ids := make([]int64, 0, quantity)
		for _, pack := range packs {
			ids = append(ids, pack.ID)
			for i := 0; i < def.CardsPerOpen(); i++ {
				card, err := c.resolveCard(userID, def)
				if err != nil {
					return err
				}
				cards = append(cards, card)
			}
		}

		if err := tx.ConsumePacks(ctx, ids); err != nil {
			return err
		}
		if err := tx.InsertCards(ctx, cards); err != nil {
			return err
		}

		remaining, err := tx.CountUnopened(ctx, userID, packID)
		if err != nil {
			return err
		}

		result.Cards = cards
		result.Consumed = ids
		result.Remaining = remaining
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Packs opened",
		slog.String("user_id", userID),
		slog.Int64("pack_id", packID),
		slog.Int("consumed", len(result.Consumed)),
		slog.Int("cards", len(result.Cards)))
	return result, nil
}

// resolveCard runs the full draw chain for one issued card: rarity from
// the pack's weight table, variant, then a concrete card definition.
// Stats and value are resolved at issue time.
func (c *Coordinator) resolveCard(userID string, def *catalog.PackDef) (*models.UserCard, error) {
	rarity, err := c.resolver.ResolveRarity(def.Rarities)
	if err != nil {
		return nil, err
	}
	variant := c.resolver.ResolveVariant()

	cardDef, err := c.resolver.SelectCard(rarity, def, c.catalog)
	if err != nil {
		return nil, err
	}

	stats := valuation.ResolvedStats(cardDef.Stats, variant)
	return &models.UserCard{
		UserID:   userID,
		CardID:   cardDef.ID,
		Name:     cardDef.Name,
		Rarity:   string(cardDef.Rarity),
		Variant:  string(variant),
		StatsOff: stats.Off,
		StatsDef: stats.Def,
		StatsAbl: stats.Abl,
		StatsMch: stats.Mch,
		Value:    c.values.CardValue(cardDef, variant),
	}, nil
}

// ItemKind selects what an ItemSelector points at.
type ItemKind string

const (
	ItemCard ItemKind = "card"
	ItemPack ItemKind = "pack"
)

// ItemSelector identifies one owned instance for sale.
type ItemSelector struct {
	Kind ItemKind
	ID   int64
}

// SellResult reports a committed sale.
type SellResult struct {
	Credited   int64
	NewBalance int64
}

// Sell removes the selected item from the user's inventory and credits
// its sale value, atomically. Cards sell for a fraction of their stored
// value, packs for a fraction of the price paid. A sold item cannot be
// sold again: the second attempt fails with the item not found.
func (c *Coordinator) Sell(ctx context.Context, userID string, sel ItemSelector) (*SellResult, error) {
	result := &SellResult{}
	err := c.withTx(ctx, func(ctx context.Context, tx ledger.Tx) error {
		if _, err := tx.Balance(ctx, userID); err != nil {
			return err
		}

		var credit int64
		switch sel.Kind {
		case ItemPack:
			pack, err := tx.Pack(ctx, userID, sel.ID)
			if err != nil {
				return err
			}
			credit = c.values.SaleValue(pack.PricePaid)
			if err := tx.DeletePack(ctx, userID, sel.ID); err != nil {
				return err
			}
		default:
			card, err := tx.Card(ctx, userID, sel.ID)
			if err != nil {
				return err
			}
			credit = c.values.SaleValue(card.Value)
			if err := tx.DeleteCard(ctx, userID, sel.ID); err != nil {
				return err
			}
		}

		balance, err := tx.AdjustBalance(ctx, userID, credit, 0)
		if err != nil {
			return err
		}

		result.Credited = credit
		result.NewBalance = balance
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Item sold",
		slog.String("user_id", userID),
		slog.String("kind", string(sel.Kind)),
		slog.Int64("item_id", sel.ID),
		slog.Int64("credited", result.Credited))
	return result, nil
}

// Balance returns the user's balance, creating the ledger row on first
// access.
func (c *Coordinator) Balance(ctx context.Context, userID string) (int64, error) {
	var balance int64
	err := c.withTx(ctx, func(ctx context.Context, tx ledger.Tx) error {
		var err error
		balance, err = tx.Balance(ctx, userID)
		return err
	})
	return balance, err
}

// TopBalances returns the richest ledgers, highest first.
func (c *Coordinator) TopBalances(ctx context.Context, limit int) ([]*models.User, error) {
	var users []*models.User
	err := c.withTx(ctx, func(ctx context.Context, tx ledger.Tx) error {
		var err error
		users, err = tx.TopBalances(ctx, limit)
		return err
	})
	return users, err
}

// Inventory is a consistent snapshot of everything a user owns.
type Inventory struct {
	Balance int64
	Cards   []*models.UserCard
	Packs   []*models.UserPack
}

// Inventory reads the user's balance, cards and packs in one transaction
// scope.
func (c *Coordinator) Inventory(ctx context.Context, userID string) (*Inventory, error) {
	inv := &Inventory{}
	err := c.withTx(ctx, func(ctx context.Context, tx ledger.Tx) error {
		var err error
		if inv.Balance, err = tx.Balance(ctx, userID); err != nil {
			return err
		}
		if inv.Cards, err = tx.ListCards(ctx, userID); err != nil {
			return err
		}
		inv.Packs, err = tx.ListPacks(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return inv, nil
}
