package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/starvault/starvault/starvault/database/models"
)

// MemoryStore keeps the whole ledger in process memory, optionally
// snapshotted to a JSON file on every commit. Transactions run against a
// staged deep copy under one store-wide mutex, so rollback is a discard
// and commit is a pointer swap.
//
// It doubles as the test double: FailNext arms a one-shot error for a
// named operation so settlement rollback paths can be exercised.
type MemoryStore struct {
	mu              sync.Mutex
	state           *memState
	path            string
	startingBalance int64
	ids             idGen

	failures map[string]error
}

type memState struct {
	Users     map[string]*models.User     `json:"users"`
	Cards     map[int64]*models.UserCard  `json:"cards"`
	Packs     map[int64]*models.UserPack  `json:"packs"`
	Cooldowns map[string]time.Time        `json:"cooldowns"`
}

func newMemState() *memState {
	return &memState{
		Users:     make(map[string]*models.User),
		Cards:     make(map[int64]*models.UserCard),
		Packs:     make(map[int64]*models.UserPack),
		Cooldowns: make(map[string]time.Time),
	}
}

func (s *memState) clone() *memState {
	c := newMemState()
	for k, v := range s.Users {
		u := *v
		c.Users[k] = &u
	}
	for k, v := range s.Cards {
		card := *v
		c.Cards[k] = &card
	}
	for k, v := range s.Packs {
		p := *v
		c.Packs[k] = &p
	}
	for k, v := range s.Cooldowns {
		c.Cooldowns[k] = v
	}
	return c
}

// NewMemoryStore creates an in-process store. path may be empty for a
// purely volatile store; otherwise the ledger is loaded from and
// persisted to that file.
func NewMemoryStore(path string, startingBalance int64) (*MemoryStore, error) {
	s := &MemoryStore{
		state:           newMemState(),
		path:            path,
		startingBalance: startingBalance,
		failures:        make(map[string]error),
	}
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to read ledger file: %w", err)
	}
	if err := json.Unmarshal(data, s.state); err != nil {
		return nil, fmt.Errorf("failed to parse ledger file: %w", err)
	}
	return s, nil
}

// FailNext arms a one-shot failure for the named operation (for example
// "InsertCards"). The next call of that operation returns err and the
// surrounding transaction rolls back.
func (s *MemoryStore) FailNext(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = err
}

func (s *MemoryStore) takeFailure(op string) error {
	if err, ok := s.failures[op]; ok {
		delete(s.failures, op)
		return err
	}
	return nil
}

func (s *MemoryStore) WithTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return &UnavailableError{Err: err}
	}

	stage := s.state.clone()
	if err := fn(ctx, &memTx{store: s, stage: stage}); err != nil {
		return err
	}

	// A deadline that expired while fn ran must roll back, not commit.
	if err := ctx.Err(); err != nil {
		return &UnavailableError{Err: err}
	}

	if s.path != "" {
		if err := s.persist(stage); err != nil {
			return &UnavailableError{Err: err}
		}
	}
	s.state = stage
	return nil
}

func (s *MemoryStore) persist(state *memState) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func (s *MemoryStore) Close(ctx context.Context) error {
	return nil
}

type memTx struct {
	store *MemoryStore
	stage *memState
}

func cooldownKey(userID, key string) string {
	return userID + "\x00" + key
}

func (t *memTx) Balance(ctx context.Context, userID string) (int64, error) {
	if err := t.store.takeFailure("Balance"); err != nil {
		return 0, err
	}

	user, ok := t.stage.Users[userID]
	if !ok {
		now := time.Now()
		user = &models.User{
			ID:        t.store.ids.next(),
			UserID:    userID,
			Balance:   t.store.startingBalance,
			CreatedAt: now,
			UpdatedAt: now,
		}
		t.stage.Users[userID] = user
	}
	return user.Balance, nil
}

func (t *memTx) AdjustBalance(ctx context.Context, userID string, delta, minAllowed int64) (int64, error) {
	balance, err := t.Balance(ctx, userID)
	if err != nil {
		return 0, err
	}
	if err := t.store.takeFailure("AdjustBalance"); err != nil {
		return 0, err
	}

	if balance+delta < minAllowed {
		return 0, &InsufficientFundsError{
			UserID:  userID,
			Balance: balance,
			Needed:  minAllowed - delta,
		}
	}

	user := t.stage.Users[userID]
	user.Balance += delta
	user.UpdatedAt = time.Now()
	return user.Balance, nil
}

func (t *memTx) Cooldown(ctx context.Context, userID, key string) (time.Time, error) {
	return t.stage.Cooldowns[cooldownKey(userID, key)], nil
}

func (t *memTx) SetCooldown(ctx context.Context, userID, key string, until time.Time) error {
	t.stage.Cooldowns[cooldownKey(userID, key)] = until
	return nil
}

func (t *memTx) InsertPack(ctx context.Context, pack *models.UserPack) error {
	if err := t.store.takeFailure("InsertPack"); err != nil {
		return err
	}

	now := time.Now()
	pack.ID = t.store.ids.next()
	pack.CreatedAt = now
	pack.UpdatedAt = now
	if pack.Purchased.IsZero() {
		pack.Purchased = now
	}

	stored := *pack
	t.stage.Packs[pack.ID] = &stored
	return nil
}

func (t *memTx) Pack(ctx context.Context, userID string, id int64) (*models.UserPack, error) {
	pack, ok := t.stage.Packs[id]
	if !ok || pack.UserID != userID {
		return nil, &NotFoundError{Entity: "pack instance", ID: id}
	}
	p := *pack
	return &p, nil
}

func (t *memTx) UnopenedPacks(ctx context.Context, userID string, packID int64, limit int) ([]*models.UserPack, error) {
	var packs []*models.UserPack
	for _, pack := range t.stage.Packs {
		if pack.UserID == userID && pack.PackID == packID && !pack.Opened {
			p := *pack
			packs = append(packs, &p)
		}
	}
	sort.Slice(packs, func(i, j int) bool { return packs[i].ID < packs[j].ID })
	if limit > 0 && len(packs) > limit {
		packs = packs[:limit]
	}
	return packs, nil
}

func (t *memTx) CountUnopened(ctx context.Context, userID string, packID int64) (int, error) {
	count := 0
	for _, pack := range t.stage.Packs {
		if pack.UserID == userID && pack.PackID == packID && !pack.Opened {
			count++
		}
	}
	return count, nil
}

func (t *memTx) ConsumePacks(ctx context.Context, ids []int64) error {
	if err := t.store.takeFailure("ConsumePacks"); err != nil {
		return err
	}

	for _, id := range ids {
		pack, ok := t.stage.Packs[id]
		if !ok || pack.Opened {
			return &NotFoundError{Entity: "pack instance", ID: id}
		}
	}
	for _, id := range ids {
		delete(t.stage.Packs, id)
	}
	return nil
}

func (t *memTx) DeletePack(ctx context.Context, userID string, id int64) error {
	pack, ok := t.stage.Packs[id]
	if !ok || pack.UserID != userID {
		return &NotFoundError{Entity: "pack instance", ID: id}
	}
	delete(t.stage.Packs, id)
	return nil
}

func (t *memTx) ListPacks(ctx context.Context, userID string) ([]*models.UserPack, error) {
	var packs []*models.UserPack
	for _, pack := range t.stage.Packs {
		if pack.UserID == userID {
			p := *pack
			packs = append(packs, &p)
		}
	}
	sort.Slice(packs, func(i, j int) bool { return packs[i].Purchased.After(packs[j].Purchased) })
	return packs, nil
}

func (t *memTx) InsertCards(ctx context.Context, cards []*models.UserCard) error {
	if err := t.store.takeFailure("InsertCards"); err != nil {
		return err
	}

	now := time.Now()
	for _, card := range cards {
		card.ID = t.store.ids.next()
		card.CreatedAt = now
		card.UpdatedAt = now
		if card.Obtained.IsZero() {
			card.Obtained = now
		}
		stored := *card
		t.stage.Cards[card.ID] = &stored
	}
	return nil
}

func (t *memTx) Card(ctx context.Context, userID string, id int64) (*models.UserCard, error) {
	card, ok := t.stage.Cards[id]
	if !ok || card.UserID != userID {
		return nil, &NotFoundError{Entity: "card instance", ID: id}
	}
	c := *card
	return &c, nil
}

func (t *memTx) DeleteCard(ctx context.Context, userID string, id int64) error {
	if err := t.store.takeFailure("DeleteCard"); err != nil {
		return err
	}

	card, ok := t.stage.Cards[id]
	if !ok || card.UserID != userID {
		return &NotFoundError{Entity: "card instance", ID: id}
	}
	delete(t.stage.Cards, id)
	return nil
}

func (t *memTx) ListCards(ctx context.Context, userID string) ([]*models.UserCard, error) {
	var cards []*models.UserCard
	for _, card := range t.stage.Cards {
		if card.UserID == userID {
			c := *card
			cards = append(cards, &c)
		}
	}
	sort.Slice(cards, func(i, j int) bool { return cards[i].Obtained.After(cards[j].Obtained) })
	return cards, nil
}

func (t *memTx) AllCards(ctx context.Context) ([]*models.UserCard, error) {
	var cards []*models.UserCard
	for _, card := range t.stage.Cards {
		c := *card
		cards = append(cards, &c)
	}
	sort.Slice(cards, func(i, j int) bool { return cards[i].ID < cards[j].ID })
	return cards, nil
}

func (t *memTx) UpdateCardValue(ctx context.Context, id int64, value int64) error {
	card, ok := t.stage.Cards[id]
	if !ok {
		return &NotFoundError{Entity: "card instance", ID: id}
	}
	card.Value = value
	card.UpdatedAt = time.Now()
	return nil
}

func (t *memTx) TopBalances(ctx context.Context, limit int) ([]*models.User, error) {
	var users []*models.User
	for _, user := range t.stage.Users {
		u := *user
		users = append(users, &u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Balance > users[j].Balance })
	if limit > 0 && len(users) > limit {
		users = users[:limit]
	}
	return users, nil
}
