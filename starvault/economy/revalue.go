package economy

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/starvault/starvault/starvault/gacha"
	"github.com/starvault/starvault/starvault/ledger"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

const (
	revalueBatchSize      = 500
	maxConcurrentRevalues = 4
)

// revalueCard is the slice of card state a revaluation needs, copied out
// of the snapshot transaction before the concurrent batches start.
type revalueCard struct {
	id      int64
	cardID  int64
	variant string
	value   int64
}

// RevalueStats summarizes one revaluation run.
type RevalueStats struct {
	Total   int
	Updated int32
	Skipped int32
}

// RevalueAll recomputes the stored value of every issued card against the
// current catalog and valuation config. Cards whose definition left the
// catalog, or that carry an unknown variant, are skipped. Batches run
// concurrently, each in its own transaction scope.
func (c *Coordinator) RevalueAll(ctx context.Context) (*RevalueStats, error) {
	start := time.Now()

	var cards []revalueCard
	err := c.withTx(ctx, func(ctx context.Context, tx ledger.Tx) error {
		all, err := tx.AllCards(ctx)
		if err != nil {
			return err
		}
		cards = make([]revalueCard, 0, len(all))
		for _, card := range all {
			cards = append(cards, revalueCard{
				id:      card.ID,
				cardID:  card.CardID,
				variant: card.Variant,
				value:   card.Value,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	stats := &RevalueStats{Total: len(cards)}
	sem := semaphore.NewWeighted(maxConcurrentRevalues)
	g, ctx := errgroup.WithContext(ctx)

	for i := 0; i < len(cards); i += revalueBatchSize {
		end := i + revalueBatchSize
		if end > len(cards) {
			end = len(cards)
		}
		batch := cards[i:end]

		g.Go(func() error {
			if err := sem.Acquire(ctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)

			return c.withTx(ctx, func(ctx context.Context, tx ledger.Tx) error {
				for _, card := range batch {
					def, ok := c.catalog.Card(card.cardID)
					if !ok {
						atomic.AddInt32(&stats.Skipped, 1)
						continue
					}
					variant := gacha.Variant(card.variant)
					if !variant.Valid() {
						atomic.AddInt32(&stats.Skipped, 1)
						continue
					}

					value := c.values.CardValue(def, variant)
					if value == card.value {
						continue
					}
					if err := tx.UpdateCardValue(ctx, card.id, value); err != nil {
						return err
					}
					atomic.AddInt32(&stats.Updated, 1)
				}
				return nil
			})
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	slog.Info("Revaluation completed",
		slog.Int("total", stats.Total),
		slog.Int("updated", int(atomic.LoadInt32(&stats.Updated))),
		slog.Int("skipped", int(atomic.LoadInt32(&stats.Skipped))),
		slog.Duration("took", time.Since(start)))
	return stats, nil
}
