package economy

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"github.com/starvault/starvault/starvault/ledger"
)

// GrantKind names a time-gated balance grant.
type GrantKind string

const (
	GrantDaily GrantKind = "daily"
	GrantBusk  GrantKind = "busk"
)

// GrantRule bounds a grant's payout and its claim frequency.
type GrantRule struct {
	Min      int64
	Max      int64
	Cooldown time.Duration
}

// DefaultDailyRule matches the long-standing daily payout window.
func DefaultDailyRule() GrantRule {
	return GrantRule{Min: 150, Max: 500, Cooldown: 12 * time.Hour}
}

// DefaultBuskRule matches the short busking payout window.
func DefaultBuskRule() GrantRule {
	return GrantRule{Min: 5, Max: 50, Cooldown: time.Minute}
}

func (c Config) grantRule(kind GrantKind) GrantRule {
	var rule GrantRule
	switch kind {
	case GrantBusk:
		rule = c.Busk
		if rule == (GrantRule{}) {
			rule = DefaultBuskRule()
		}
	default:
		rule = c.Daily
		if rule == (GrantRule{}) {
			rule = DefaultDailyRule()
		}
	}
	return rule
}

// GrantResult reports a committed grant claim.
type GrantResult struct {
	Amount     int64
	NewBalance int64
	NextAt     time.Time
}

// Grant credits a random payout within the kind's bounds and arms its
// cooldown, atomically. Claiming before the cooldown expires fails with
// GrantOnCooldownError and mutates nothing.
func (c *Coordinator) Grant(ctx context.Context, userID string, kind GrantKind) (*GrantResult, error) {
	rule := c.cfg.grantRule(kind)
	key := "grant:" + string(kind)

	result := &GrantResult{}
	err := c.withTx(ctx, func(ctx context.Context, tx ledger.Tx) error {
		if _, err := tx.Balance(ctx, userID); err != nil {
			return err
		}

		now := time.Now()
		expiry, err := tx.Cooldown(ctx, userID, key)
		if err != nil {
			return err
		}
		if now.Before(expiry) {
			return &GrantOnCooldownError{UserID: userID, Kind: kind, Until: expiry}
		}

		amount := rule.Min
		if spread := rule.Max - rule.Min; spread > 0 {
			amount += rand.Int63n(spread + 1)
		}

		balance, err := tx.AdjustBalance(ctx, userID, amount, 0)
		if err != nil {
			return err
		}

		next := now.Add(rule.Cooldown)
		if err := tx.SetCooldown(ctx, userID, key, next); err != nil {
			return err
		}

		result.Amount = amount
		result.NewBalance = balance
		result.NextAt = next
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Grant claimed",
		slog.String("user_id", userID),
		slog.String("kind", string(kind)),
		slog.Int64("amount", result.Amount))
	return result, nil
}
