package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/starvault/starvault/starvault/database/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	collUsers     = "users"
	collUserCards = "user_cards"
	collUserPacks = "user_packs"
	collCooldowns = "cooldowns"
)

// MongoStore is the document-store ledger adapter. Each WithTx scope maps
// onto one multi-document transaction; write conflicts between concurrent
// same-user transactions surface as ConflictError.
type MongoStore struct {
	client          *mongo.Client
	db              *mongo.Database
	startingBalance int64
	ids             idGen
}

func NewMongoStore(client *mongo.Client, dbName string, startingBalance int64) *MongoStore {
	return &MongoStore{
		client:          client,
		db:              client.Database(dbName),
		startingBalance: startingBalance,
	}
}

func (s *MongoStore) WithTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	sess, err := s.client.StartSession()
	if err != nil {
		return &UnavailableError{Err: err}
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc, &mongoTx{store: s})
	})
	return classifyMongoError(err)
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

type mongoTx struct {
	store *MongoStore
}

func (t *mongoTx) coll(name string) *mongo.Collection {
	return t.store.db.Collection(name)
}

func (t *mongoTx) Balance(ctx context.Context, userID string) (int64, error) {
	now := time.Now()

	// The upsert both lazily creates the ledger document and registers a
	// write intent on it, so concurrent same-user transactions conflict
	// instead of interleaving. $setOnInsert never touches an existing
	// balance.
	var user models.User
	err := t.coll(collUsers).FindOneAndUpdate(ctx,
		bson.M{"_id": userID},
		bson.M{
			"$setOnInsert": bson.M{
				"balance":    t.store.startingBalance,
				"created_at": now,
			},
			"$set": bson.M{"updated_at": now},
		},
		options.FindOneAndUpdate().
			SetUpsert(true).
			SetReturnDocument(options.After),
	).Decode(&user)
	if err != nil {
		return 0, fmt.Errorf("failed to get balance: %w", err)
	}
	return user.Balance, nil
}

func (t *mongoTx) AdjustBalance(ctx context.Context, userID string, delta, minAllowed int64) (int64, error) {
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

	_, err = t.coll(collUsers).UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{
			"$inc": bson.M{"balance": delta},
			"$set": bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		return 0, fmt.Errorf("failed to update balance: %w", err)
	}
	return balance + delta, nil
}

func (t *mongoTx) Cooldown(ctx context.Context, userID, key string) (time.Time, error) {
	var cd models.Cooldown
	err := t.coll(collCooldowns).FindOne(ctx,
		bson.M{"user_id": userID, "key": key},
	).Decode(&cd)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return time.Time{}, nil
		}
		return time.Time{}, fmt.Errorf("failed to get cooldown: %w", err)
	}
	return cd.ExpiresAt, nil
}

func (t *mongoTx) SetCooldown(ctx context.Context, userID, key string, until time.Time) error {
	_, err := t.coll(collCooldowns).UpdateOne(ctx,
		bson.M{"user_id": userID, "key": key},
		bson.M{"$set": bson.M{
			"expires_at": until,
			"updated_at": time.Now(),
		}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to set cooldown: %w", err)
	}
	return nil
}

func (t *mongoTx) InsertPack(ctx context.Context, pack *models.UserPack) error {
	now := time.Now()
	pack.ID = t.store.ids.next()
	pack.CreatedAt = now
	pack.UpdatedAt = now
	if pack.Purchased.IsZero() {
		pack.Purchased = now
	}

	_, err := t.coll(collUserPacks).InsertOne(ctx, pack)
	if err != nil {
		return fmt.Errorf("failed to insert pack instance: %w", err)
	}
	return nil
}

func (t *mongoTx) Pack(ctx context.Context, userID string, id int64) (*models.UserPack, error) {
	pack := new(models.UserPack)
	err := t.coll(collUserPacks).FindOne(ctx,
		bson.M{"_id": id, "user_id": userID},
	).Decode(pack)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &NotFoundError{Entity: "pack instance", ID: id}
		}
		return nil, fmt.Errorf("failed to get pack instance: %w", err)
	}
	return pack, nil
}

func (t *mongoTx) UnopenedPacks(ctx context.Context, userID string, packID int64, limit int) ([]*models.UserPack, error) {
	cur, err := t.coll(collUserPacks).Find(ctx,
		bson.M{"user_id": userID, "pack_id": packID, "opened": false},
		options.Find().
			SetSort(bson.D{{Key: "_id", Value: 1}}).
			SetLimit(int64(limit)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list unopened packs: %w", err)
	}
	defer cur.Close(ctx)

	var packs []*models.UserPack
	if err := cur.All(ctx, &packs); err != nil {
		return nil, fmt.Errorf("failed to decode unopened packs: %w", err)
	}
	return packs, nil
}

func (t *mongoTx) CountUnopened(ctx context.Context, userID string, packID int64) (int, error) {
	count, err := t.coll(collUserPacks).CountDocuments(ctx,
		bson.M{"user_id": userID, "pack_id": packID, "opened": false},
	)
	if err != nil {
		return 0, fmt.Errorf("failed to count unopened packs: %w", err)
	}
	return int(count), nil
}

func (t *mongoTx) ConsumePacks(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	result, err := t.coll(collUserPacks).DeleteMany(ctx,
		bson.M{"_id": bson.M{"$in": ids}, "opened": false},
	)
	if err != nil {
		return fmt.Errorf("failed to consume pack instances: %w", err)
	}
	if result.DeletedCount != int64(len(ids)) {
		return &NotFoundError{Entity: "pack instance", ID: ids}
	}
	return nil
}

func (t *mongoTx) DeletePack(ctx context.Context, userID string, id int64) error {
	result, err := t.coll(collUserPacks).DeleteOne(ctx,
		bson.M{"_id": id, "user_id": userID},
	)
	if err != nil {
		return fmt.Errorf("failed to delete pack instance: %w", err)
	}
	if result.DeletedCount == 0 {
		return &NotFoundError{Entity: "pack instance", ID: id}
	}
	return nil
}

func (t *mongoTx) ListPacks(ctx context.Context, userID string) ([]*models.UserPack, error) {
	cur, err := t.coll(collUserPacks).Find(ctx,
		bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "purchased", Value: -1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list packs: %w", err)
	}
	defer cur.Close(ctx)

	var packs []*models.UserPack
	if err := cur.All(ctx, &packs); err != nil {
		return nil, fmt.Errorf("failed to decode packs: %w", err)
	}
	return packs, nil
}

func (t *mongoTx) InsertCards(ctx context.Context, cards []*models.UserCard) error {
	if len(cards) == 0 {
		return nil
	}

	now := time.Now()
	docs := make([]interface{}, len(cards))
	for i, card := range cards {
		card.ID = t.store.ids.next()
		card.CreatedAt = now
		card.UpdatedAt = now
		if card.Obtained.IsZero() {
			card.Obtained = now
		}
		docs[i] = card
	}

	_, err := t.coll(collUserCards).InsertMany(ctx, docs)
	if err != nil {
		return fmt.Errorf("failed to insert card instances: %w", err)
	}
	return nil
}

func (t *mongoTx) Card(ctx context.Context, userID string, id int64) (*models.UserCard, error) {
	card := new(models.UserCard)
	err := t.coll(collUserCards).FindOne(ctx,
		bson.M{"_id": id, "user_id": userID},
	).Decode(card)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &NotFoundError{Entity: "card instance", ID: id}
		}
		return nil, fmt.Errorf("failed to get card instance: %w", err)
	}
	return card, nil
}

func (t *mongoTx) DeleteCard(ctx context.Context, userID string, id int64) error {
	result, err := t.coll(collUserCards).DeleteOne(ctx,
		bson.M{"_id": id, "user_id": userID},
	)
	if err != nil {
		return fmt.Errorf("failed to delete card instance: %w", err)
	}
	if result.DeletedCount == 0 {
		return &NotFoundError{Entity: "card instance", ID: id}
	}
	return nil
}

func (t *mongoTx) ListCards(ctx context.Context, userID string) ([]*models.UserCard, error) {
	cur, err := t.coll(collUserCards).Find(ctx,
		bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "obtained", Value: -1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	defer cur.Close(ctx)

	var cards []*models.UserCard
	if err := cur.All(ctx, &cards); err != nil {
		return nil, fmt.Errorf("failed to decode cards: %w", err)
	}
	return cards, nil
}

func (t *mongoTx) AllCards(ctx context.Context) ([]*models.UserCard, error) {
	cur, err := t.coll(collUserCards).Find(ctx,
		bson.M{},
		options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list all cards: %w", err)
	}
	defer cur.Close(ctx)

	var cards []*models.UserCard
	if err := cur.All(ctx, &cards); err != nil {
		return nil, fmt.Errorf("failed to decode all cards: %w", err)
	}
	return cards, nil
}

func (t *mongoTx) UpdateCardValue(ctx context.Context, id int64, value int64) error {
	_, err := t.coll(collUserCards).UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"value":      value,
			"updated_at": time.Now(),
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to update card value: %w", err)
	}
	return nil
}

func (t *mongoTx) TopBalances(ctx context.Context, limit int) ([]*models.User, error) {
	cur, err := t.coll(collUsers).Find(ctx,
		bson.M{},
		options.Find().
			SetSort(bson.D{{Key: "balance", Value: -1}}).
			SetLimit(int64(limit)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list top balances: %w", err)
	}
	defer cur.Close(ctx)

	var users []*models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode top balances: %w", err)
	}
	return users, nil
}

// classifyMongoError maps driver-level failures onto the ledger taxonomy.
func classifyMongoError(err error) error {
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

	var srvErr mongo.ServerError
	if errors.As(err, &srvErr) {
		if srvErr.HasErrorLabel("TransientTransactionError") ||
			srvErr.HasErrorLabel("UnknownTransactionCommitResult") {
			return &ConflictError{Err: err}
		}
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) ||
		mongo.IsTimeout(err) || mongo.IsNetworkError(err) {
		return &UnavailableError{Err: err}
	}

	return err
}
