// Package ledger defines the transactional store behind the settlement
// engine: balances, owned packs, owned cards and grant cooldowns, all
// read and mutated through one transaction scope so no operation can be
// observed half-applied.
package ledger

import (
	"context"
	"time"

	"github.com/starvault/starvault/starvault/database/models"
)

// Store opens transaction scopes against the durable ledger. Exactly one
// concrete adapter (Postgres, Mongo or the in-process file store) is
// active per deployment.
type Store interface {
	// WithTx runs fn inside one transaction. A nil return commits; any
	// error rolls back every mutation made through the Tx.
	WithTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error

	Close(ctx context.Context) error
}

// Tx is one transaction scope. Implementations serialize conflicting
// same-user operations: Balance acquires the user-scoped lock, so it
// doubles as the Reserve step of a settlement.
type Tx interface {
	// Balance returns the user's balance, lazily creating the ledger row
	// with the store's starting balance on first access. The row is
	// locked for the remainder of the transaction.
	Balance(ctx context.Context, userID string) (int64, error)

	// AdjustBalance applies delta and returns the new balance. It fails
	// with *InsufficientFundsError, mutating nothing, if the result
	// would drop below minAllowed.
	AdjustBalance(ctx context.Context, userID string, delta, minAllowed int64) (int64, error)

	// Cooldown returns the expiry of the keyed cooldown, or the zero
	// time when none is set.
	Cooldown(ctx context.Context, userID, key string) (time.Time, error)
	SetCooldown(ctx context.Context, userID, key string, until time.Time) error

	// InsertPack stores a new pack instance and assigns its id.
	InsertPack(ctx context.Context, pack *models.UserPack) error

	// Pack returns the user's pack instance or *NotFoundError.
	Pack(ctx context.Context, userID string, id int64) (*models.UserPack, error)

	// UnopenedPacks returns up to limit unopened instances of the pack
	// type, locked for consumption within this transaction.
	UnopenedPacks(ctx context.Context, userID string, packID int64, limit int) ([]*models.UserPack, error)

	CountUnopened(ctx context.Context, userID string, packID int64) (int, error)

	// ConsumePacks removes the pack instances. Consuming an id that no
	// longer exists is *NotFoundError: a pack is opened exactly once.
	ConsumePacks(ctx context.Context, ids []int64) error

	// DeletePack removes the user's pack instance or *NotFoundError.
	DeletePack(ctx context.Context, userID string, id int64) error

	ListPacks(ctx context.Context, userID string) ([]*models.UserPack, error)

	// InsertCards stores the issued card instances and assigns ids.
	InsertCards(ctx context.Context, cards []*models.UserCard) error

	// Card returns the user's card instance or *NotFoundError.
	Card(ctx context.Context, userID string, id int64) (*models.UserCard, error)

	// DeleteCard removes the user's card instance or *NotFoundError.
	DeleteCard(ctx context.Context, userID string, id int64) error

	ListCards(ctx context.Context, userID string) ([]*models.UserCard, error)

	// AllCards returns every stored card instance, for revaluation runs.
	AllCards(ctx context.Context) ([]*models.UserCard, error)

	UpdateCardValue(ctx context.Context, id int64, value int64) error

	// TopBalances returns the richest ledgers, highest first.
	TopBalances(ctx context.Context, limit int) ([]*models.User, error)
}
