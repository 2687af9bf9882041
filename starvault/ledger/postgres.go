package ledger

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"time"

	"github.com/starvault/starvault/starvault/database/models"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"
)

// PostgresStore is the primary ledger adapter. Same-user operations are
// serialized by locking the user's ledger row (SELECT ... FOR UPDATE)
// inside the transaction opened by WithTx.
type PostgresStore struct {
	db              *bun.DB
	startingBalance int64
}

func NewPostgresStore(db *bun.DB, startingBalance int64) *PostgresStore {
	return &PostgresStore{db: db, startingBalance: startingBalance}
}

func (s *PostgresStore) WithTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	err := s.db.RunInTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted}, func(ctx context.Context, tx bun.Tx) error {
		return fn(ctx, &pgTx{tx: tx, startingBalance: s.startingBalance})
	})
	return classifyPGError(err)
}

func (s *PostgresStore) Close(ctx context.Context) error {
	return s.db.Close()
}

type pgTx struct {
	tx              bun.Tx
	startingBalance int64
}

// ensureUser creates the ledger row on first interaction. DO NOTHING on
// conflict: an existing balance is never reset.
func (t *pgTx) ensureUser(ctx context.Context, userID string) error {
	now := time.Now()
	_, err := t.tx.NewInsert().
		Model(&models.User{
			UserID:    userID,
			Balance:   t.startingBalance,
			CreatedAt: now,
			UpdatedAt: now,
		}).
		On("CONFLICT (user_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to ensure ledger row: %w", err)
	}
	return nil
}

func (t *pgTx) Balance(ctx context.Context, userID string) (int64, error) {
	if err := t.ensureUser(ctx, userID); err != nil {
		return 0, err
	}

	var user models.User
	err := t.tx.NewSelect().
		Model(&user).
		Column("balance").
		Where("user_id = ?", userID).
		For("UPDATE").
		Scan(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get balance: %w", err)
	}
	return user.Balance, nil
}

func (t *pgTx) AdjustBalance(ctx context.Context, userID string, delta, minAllowed int64) (int64, error) {
	balance, err := t.Balance(ctx, userID)
	if err != nil {
		return 0, err
	}

	if balance+delta < minAllowed {
		return 0, &InsufficientFundsError{
			UserID:  userID,
			Balance: balance,
			Needed:  minAllowed - delta,
		}
	}

	_, err = t.tx.NewUpdate().
		Model((*models.User)(nil)).
		Set("balance = balance + ?", delta).
		Set("updated_at = ?", time.Now()).
		Where("user_id = ?", userID).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to update balance: %w", err)
	}
	return balance + delta, nil
}

func (t *pgTx) Cooldown(ctx context.Context, userID, key string) (time.Time, error) {
	var cd models.Cooldown
	err := t.tx.NewSelect().
		Model(&cd).
		Where("user_id = ? AND key = ?", userID, key).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, nil
		}
		return time.Time{}, fmt.Errorf("failed to get cooldown: %w", err)
	}
	return cd.ExpiresAt, nil
}

func (t *pgTx) SetCooldown(ctx context.Context, userID, key string, until time.Time) error {
	now := time.Now()
	_, err := t.tx.NewInsert().
		Model(&models.Cooldown{
			UserID:    userID,
			Key:       key,
			ExpiresAt: until,
			UpdatedAt: now,
		}).
		On("CONFLICT (user_id, key) DO UPDATE").
		Set("expires_at = EXCLUDED.expires_at").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to set cooldown: %w", err)
	}
	return nil
}

func (t *pgTx) InsertPack(ctx context.Context, pack *models.UserPack) error {
	now := time.Now()
	pack.CreatedAt = now
	pack.UpdatedAt = now
	if pack.Purchased.IsZero() {
		pack.Purchased = now
	}

	_, err := t.tx.NewInsert().Model(pack).Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to insert pack instance: %w", err)
	}
	return nil
}

func (t *pgTx) Pack(ctx context.Context, userID string, id int64) (*models.UserPack, error) {
	pack := new(models.UserPack)
	err := t.tx.NewSelect().
		Model(pack).
		Where("id = ? AND user_id = ?", id, userID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Entity: "pack instance", ID: id}
		}
		return nil, fmt.Errorf("failed to get pack instance: %w", err)
	}
	return pack, nil
}

func (t *pgTx) UnopenedPacks(ctx context.Context, userID string, packID int64, limit int) ([]*models.UserPack, error) {
	var packs []*models.UserPack
	err := t.tx.NewSelect().
		Model(&packs).
		Where("user_id = ? AND pack_id = ? AND opened = false", userID, packID).
		Order("id ASC").
		Limit(limit).
		For("UPDATE").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list unopened packs: %w", err)
	}
	return packs, nil
}

func (t *pgTx) CountUnopened(ctx context.Context, userID string, packID int64) (int, error) {
	count, err := t.tx.NewSelect().
		Model((*models.UserPack)(nil)).
		Where("user_id = ? AND pack_id = ? AND opened = false", userID, packID).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count unopened packs: %w", err)
	}
	return count, nil
}

func (t *pgTx) ConsumePacks(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	result, err := t.tx.NewDelete().
		Model((*models.UserPack)(nil)).
		Where("id IN (?) AND opened = false", bun.In(ids)).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to consume pack instances: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected != int64(len(ids)) {
		return &NotFoundError{Entity: "pack instance", ID: ids}
	}
	return nil
}

func (t *pgTx) DeletePack(ctx context.Context, userID string, id int64) error {
	result, err := t.tx.NewDelete().
		Model((*models.UserPack)(nil)).
		Where("id = ? AND user_id = ?", id, userID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete pack instance: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return &NotFoundError{Entity: "pack instance", ID: id}
	}
	return nil
}

func (t *pgTx) ListPacks(ctx context.Context, userID string) ([]*models.UserPack, error) {
	var packs []*models.UserPack
	err := t.tx.NewSelect().
		Model(&packs).
		Where("user_id = ?", userID).
		Order("purchased DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list packs: %w", err)
	}
	return packs, nil
}

func (t *pgTx) InsertCards(ctx context.Context, cards []*models.UserCard) error {
	if len(cards) == 0 {
		return nil
	}

	now := time.Now()
	for _, card := range cards {
		card.CreatedAt = now
		card.UpdatedAt = now
		if card.Obtained.IsZero() {
			card.Obtained = now
		}
	}

	_, err := t.tx.NewInsert().Model(&cards).Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to insert card instances: %w", err)
	}
	return nil
}

func (t *pgTx) Card(ctx context.Context, userID string, id int64) (*models.UserCard, error) {
	card := new(models.UserCard)
	err := t.tx.NewSelect().
		Model(card).
		Where("id = ? AND user_id = ?", id, userID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Entity: "card instance", ID: id}
		}
		return nil, fmt.Errorf("failed to get card instance: %w", err)
	}
	return card, nil
}

func (t *pgTx) DeleteCard(ctx context.Context, userID string, id int64) error {
	result, err := t.tx.NewDelete().
		Model((*models.UserCard)(nil)).
		Where("id = ? AND user_id = ?", id, userID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete card instance: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return &NotFoundError{Entity: "card instance", ID: id}
	}
	return nil
}

func (t *pgTx) ListCards(ctx context.Context, userID string) ([]*models.UserCard, error) {
	var cards []*models.UserCard
	err := t.tx.NewSelect().
		Model(&cards).
		Where("user_id = ?", userID).
		Order("obtained DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	return cards, nil
}

func (t *pgTx) AllCards(ctx context.Context) ([]*models.UserCard, error) {
	var cards []*models.UserCard
	err := t.tx.NewSelect().
		Model(&cards).
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list all cards: %w", err)
	}
	return cards, nil
}

func (t *pgTx) UpdateCardValue(ctx context.Context, id int64, value int64) error {
	_, err := t.tx.NewUpdate().
		Model((*models.UserCard)(nil)).
		Set("value = ?", value).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update card value: %w", err)
	}
	return nil
}

func (t *pgTx) TopBalances(ctx context.Context, limit int) ([]*models.User, error) {
	var users []*models.User
	err := t.tx.NewSelect().
		Model(&users).
		Order("balance DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list top balances: %w", err)
	}
	return users, nil
}

// classifyPGError maps driver-level failures onto the ledger taxonomy.
// Errors already classified pass through untouched.
func classifyPGError(err error) error {
	if err == nil {
		return nil
	}

	var (
		ife *InsufficientFundsError
		nfe *NotFoundError
		ce  *ConflictError
		ue  *UnavailableError
	)
	if errors.As(err, &ife) || errors.As(err, &nfe) || errors.As(err, &ce) || errors.As(err, &ue) {
		return err
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &UnavailableError{Err: err}
	}
	if errors.Is(err, sql.ErrConnDone) || errors.Is(err, driver.ErrBadConn) {
		return &UnavailableError{Err: err}
	}

	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) {
		switch pgErr.Field('C') {
		case "40001", "40P01": // serialization failure, deadlock detected
			return &ConflictError{Err: err}
		}
	}

	return err
}
