package economy

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/starvault/starvault/starvault/database/models"
	"github.com/starvault/starvault/starvault/gacha"
	"github.com/starvault/starvault/starvault/ledger"
	"github.com/starvault/starvault/starvault/ledger/mock"
	"github.com/starvault/starvault/starvault/valuation"
	"go.uber.org/mock/gomock"
)

func mockCoordinator(t *testing.T) (*Coordinator, *mock.MockStore, *mock.MockTx) {
	t.Helper()
	ctrl := gomock.NewController(t)
	store := mock.NewMockStore(ctrl)
	tx := mock.NewMockTx(ctrl)

	resolver := gacha.NewResolver(rand.New(rand.NewSource(7)))
	values := valuation.NewCalculator(valuation.Config{})
	return NewCoordinator(store, testCatalog(t), resolver, values, Config{}), store, tx
}

func passThroughTx(store *mock.MockStore, tx *mock.MockTx) {
	store.EXPECT().
		WithTx(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context, ledger.Tx) error) error {
			return fn(ctx, tx)
		})
}

func TestSell_StepOrder(t *testing.T) {
	c, store, tx := mockCoordinator(t)
	passThroughTx(store, tx)

	// The ledger row is reserved first, the item is read and removed
	// before any credit, and the credit comes last.
	card := &models.UserCard{ID: 7, UserID: testUser, Value: 36}
	gomock.InOrder(
		tx.EXPECT().Balance(gomock.Any(), testUser).Return(int64(100), nil),
		tx.EXPECT().Card(gomock.Any(), testUser, int64(7)).Return(card, nil),
		tx.EXPECT().DeleteCard(gomock.Any(), testUser, int64(7)).Return(nil),
		tx.EXPECT().AdjustBalance(gomock.Any(), testUser, int64(25), int64(0)).Return(int64(125), nil),
	)

	result, err := c.Sell(context.Background(), testUser, ItemSelector{Kind: ItemCard, ID: 7})
	if err != nil {
		t.Fatalf("Sell() error = %v", err)
	}
	if result.Credited != 25 {
		t.Errorf("Credited = %d, want floor(36 × 0.7) = 25", result.Credited)
	}
	if result.NewBalance != 125 {
		t.Errorf("NewBalance = %d, want 125", result.NewBalance)
	}
}

func TestPurchase_StepOrder(t *testing.T) {
	c, store, tx := mockCoordinator(t)
	passThroughTx(store, tx)

	gomock.InOrder(
		tx.EXPECT().AdjustBalance(gomock.Any(), testUser, int64(-40), int64(0)).Return(int64(60), nil),
		tx.EXPECT().InsertPack(gomock.Any(), gomock.Any()).DoAndReturn(
			func(ctx context.Context, pack *models.UserPack) error {
				pack.ID = 99
				return nil
			}),
	)

	result, err := c.Purchase(context.Background(), testUser, 10)
	if err != nil {
		t.Fatalf("Purchase() error = %v", err)
	}
	if result.Pack.ID != 99 {
		t.Errorf("Pack.ID = %d, want store-assigned 99", result.Pack.ID)
	}
	if result.NewBalance != 60 {
		t.Errorf("NewBalance = %d, want 60", result.NewBalance)
	}
}

func TestSell_CardReadFailureSkipsCredit(t *testing.T) {
	c, store, tx := mockCoordinator(t)
	passThroughTx(store, tx)

	// A missing item aborts the settlement before any delete or credit:
	// no AdjustBalance or DeleteCard expectation is armed.
	tx.EXPECT().Balance(gomock.Any(), testUser).Return(int64(100), nil)
	tx.EXPECT().Card(gomock.Any(), testUser, int64(7)).
		Return(nil, &ledger.NotFoundError{Entity: "card instance", ID: int64(7)})

	_, err := c.Sell(context.Background(), testUser, ItemSelector{Kind: ItemCard, ID: 7})
	if got := CodeOf(err); got != CodeItemNotFound {
		t.Errorf("CodeOf(Sell err) = %s, want %s", got, CodeItemNotFound)
	}
}

func TestPurchase_StoreUnavailable(t *testing.T) {
	c, store, _ := mockCoordinator(t)

	// The store cannot open or commit the transaction in time; the
	// coordinator surfaces unavailability without retrying.
	store.EXPECT().
		WithTx(gomock.Any(), gomock.Any()).
		Return(&ledger.UnavailableError{Err: context.DeadlineExceeded})

	_, err := c.Purchase(context.Background(), testUser, 10)
	if got := CodeOf(err); got != CodeStoreUnavailable {
		t.Fatalf("CodeOf(Purchase err) = %s, want %s", got, CodeStoreUnavailable)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Purchase() error = %v, want wrapping deadline exceeded", err)
	}
}
