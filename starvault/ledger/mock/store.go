package mock

import (
	context "context"
	reflect "reflect"
	time "time"

	models "github.com/starvault/starvault/starvault/database/models"
	ledger "github.com/starvault/starvault/starvault/ledger"
	gomock "go.uber.org/mock/gomock"
)

// MockStore is a mock of Store interface.
type MockStore struct {
	ctrl     *gomock.Controller
	recorder *MockStoreMockRecorder
	isgomock struct{}
}

// MockStoreMockRecorder is the mock recorder for MockStore.
type MockStoreMockRecorder struct {
	mock *MockStore
}

// NewMockStore creates a new mock instance.
func NewMockStore(ctrl *gomock.Controller) *MockStore {
	mock := &MockStore{ctrl: ctrl}
	mock.recorder = &MockStoreMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockStore) EXPECT() *MockStoreMockRecorder {
	return m.recorder
}

// Close mocks base method.
func (m *MockStore) Close(ctx context.Context) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Close", ctx)
	ret0, _ := ret[0].(error)
	return ret0
}

// Close indicates an expected call of Close.
func (mr *MockStoreMockRecorder) Close(ctx any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Close", reflect.TypeOf((*MockStore)(nil).Close), ctx)
}

// WithTx mocks base method.
func (m *MockStore) WithTx(ctx context.Context, fn func(context.Context, ledger.Tx) error) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "WithTx", ctx, fn)
	ret0, _ := ret[0].(error)
	return ret0
}

// WithTx indicates an expected call of WithTx.
func (mr *MockStoreMockRecorder) WithTx(ctx, fn any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "WithTx", reflect.TypeOf((*MockStore)(nil).WithTx), ctx, fn)
}

// MockTx is a mock of Tx interface.
type MockTx struct {
	ctrl     *gomock.Controller
	recorder *MockTxMockRecorder
	isgomock struct{}
}

// MockTxMockRecorder is the mock recorder for MockTx.
type MockTxMockRecorder struct {
	mock *MockTx
}

// NewMockTx creates a new mock instance.
func NewMockTx(ctrl *gomock.Controller) *MockTx {
	mock := &MockTx{ctrl: ctrl}
	mock.recorder = &MockTxMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockTx) EXPECT() *MockTxMockRecorder {
	return m.recorder
}

// AdjustBalance mocks base method.
func (m *MockTx) AdjustBalance(ctx context.Context, userID string, delta, minAllowed int64) (int64, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "AdjustBalance", ctx, userID, delta, minAllowed)
	ret0, _ := ret[0].(int64)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// AdjustBalance indicates an expected call of AdjustBalance.
func (mr *MockTxMockRecorder) AdjustBalance(ctx, userID, delta, minAllowed any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "AdjustBalance", reflect.TypeOf((*MockTx)(nil).AdjustBalance), ctx, userID, delta, minAllowed)
}

// AllCards mocks base method.
func (m *MockTx) AllCards(ctx context.Context) ([]*models.UserCard, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "AllCards", ctx)
	ret0, _ := ret[0].([]*models.UserCard)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// AllCards indicates an expected call of AllCards.
func (mr *MockTxMockRecorder) AllCards(ctx any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "AllCards", reflect.TypeOf((*MockTx)(nil).AllCards), ctx)
}

// Balance mocks base method.
func (m *MockTx) Balance(ctx context.Context, userID string) (int64, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Balance", ctx, userID)
	ret0, _ := ret[0].(int64)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Balance indicates an expected call of Balance.
func (mr *MockTxMockRecorder) Balance(ctx, userID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Balance", reflect.TypeOf((*MockTx)(nil).Balance), ctx, userID)
}

// Card mocks base method.
func (m *MockTx) Card(ctx context.Context, userID string, id int64) (*models.UserCard, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Card", ctx, userID, id)
	ret0, _ := ret[0].(*models.UserCard)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Card indicates an expected call of Card.
func (mr *MockTxMockRecorder) Card(ctx, userID, id any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Card", reflect.TypeOf((*MockTx)(nil).Card), ctx, userID, id)
}

// ConsumePacks mocks base method.
func (m *MockTx) ConsumePacks(ctx context.Context, ids []int64) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ConsumePacks", ctx, ids)
	ret0, _ := ret[0].(error)
	return ret0
}

// ConsumePacks indicates an expected call of ConsumePacks.
func (mr *MockTxMockRecorder) ConsumePacks(ctx, ids any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ConsumePacks", reflect.TypeOf((*MockTx)(nil).ConsumePacks), ctx, ids)
}

// Cooldown mocks base method.
func (m *MockTx) Cooldown(ctx context.Context, userID, key string) (time.Time, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Cooldown", ctx, userID, key)
	ret0, _ := ret[0].(time.Time)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Cooldown indicates an expected call of Cooldown.
func (mr *MockTxMockRecorder) Cooldown(ctx, userID, key any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Cooldown", reflect.TypeOf((*MockTx)(nil).Cooldown), ctx, userID, key)
}

// CountUnopened mocks base method.
func (m *MockTx) CountUnopened(ctx context.Context, userID string, packID int64) (int, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CountUnopened", ctx, userID, packID)
	ret0, _ := ret[0].(int)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// CountUnopened indicates an expected call of CountUnopened.
func (mr *MockTxMockRecorder) CountUnopened(ctx, userID, packID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CountUnopened", reflect.TypeOf((*MockTx)(nil).CountUnopened), ctx, userID, packID)
}

// DeleteCard mocks base method.
func (m *MockTx) DeleteCard(ctx context.Context, userID string, id int64) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "DeleteCard", ctx, userID, id)
	ret0, _ := ret[0].(error)
	return ret0
}

// DeleteCard indicates an expected call of DeleteCard.
func (mr *MockTxMockRecorder) DeleteCard(ctx, userID, id any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "DeleteCard", reflect.TypeOf((*MockTx)(nil).DeleteCard), ctx, userID, id)
}

// DeletePack mocks base method.
func (m *MockTx) DeletePack(ctx context.Context, userID string, id int64) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "DeletePack", ctx, userID, id)
	ret0, _ := ret[0].(error)
	return ret0
}

// DeletePack indicates an expected call of DeletePack.
func (mr *MockTxMockRecorder) DeletePack(ctx, userID, id any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "DeletePack", reflect.TypeOf((*MockTx)(nil).DeletePack), ctx, userID, id)
}

// InsertCards mocks base method.
func (m *MockTx) InsertCards(ctx context.Context, cards []*models.UserCard) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "InsertCards", ctx, cards)
	ret0, _ := ret[0].(error)
	return ret0
}

// InsertCards indicates an expected call of InsertCards.
func (mr *MockTxMockRecorder) InsertCards(ctx, cards any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "InsertCards", reflect.TypeOf((*MockTx)(nil).InsertCards), ctx, cards)
}

// InsertPack mocks base method.
func (m *MockTx) InsertPack(ctx context.Context, pack *models.UserPack) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "InsertPack", ctx, pack)
	ret0, _ := ret[0].(error)
	return ret0
}

// InsertPack indicates an expected call of InsertPack.
func (mr *MockTxMockRecorder) InsertPack(ctx, pack any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "InsertPack", reflect.TypeOf((*MockTx)(nil).InsertPack), ctx, pack)
}

// ListCards mocks base method.
func (m *MockTx) ListCards(ctx context.Context, userID string) ([]*models.UserCard, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListCards", ctx, userID)
	ret0, _ := ret[0].([]*models.UserCard)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ListCards indicates an expected call of ListCards.
func (mr *MockTxMockRecorder) ListCards(ctx, userID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListCards", reflect.TypeOf((*MockTx)(nil).ListCards), ctx, userID)
}

// ListPacks mocks base method.
func (m *MockTx) ListPacks(ctx context.Context, userID string) ([]*models.UserPack, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListPacks", ctx, userID)
	ret0, _ := ret[0].([]*models.UserPack)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ListPacks indicates an expected call of ListPacks.
func (mr *MockTxMockRecorder) ListPacks(ctx, userID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListPacks", reflect.TypeOf((*MockTx)(nil).ListPacks), ctx, userID)
}

// Pack mocks base method.
func (m *MockTx) Pack(ctx context.Context, userID string, id int64) (*models.UserPack, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Pack", ctx, userID, id)
	ret0, _ := ret[0].(*models.UserPack)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Pack indicates an expected call of Pack.
func (mr *MockTxMockRecorder) Pack(ctx, userID, id any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Pack", reflect.TypeOf((*MockTx)(nil).Pack), ctx, userID, id)
}

// SetCooldown mocks base method.
func (m *MockTx) SetCooldown(ctx context.Context, userID, key string, until time.Time) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "SetCooldown", ctx, userID, key, until)
	ret0, _ := ret[0].(error)
	return ret0
}

// SetCooldown indicates an expected call of SetCooldown.
func (mr *MockTxMockRecorder) SetCooldown(ctx, userID, key, until any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SetCooldown", reflect.TypeOf((*MockTx)(nil).SetCooldown), ctx, userID, key, until)
}

// TopBalances mocks base method.
func (m *MockTx) TopBalances(ctx context.Context, limit int) ([]*models.User, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "TopBalances", ctx, limit)
	ret0, _ := ret[0].([]*models.User)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// TopBalances indicates an expected call of TopBalances.
func (mr *MockTxMockRecorder) TopBalances(ctx, limit any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "TopBalances", reflect.TypeOf((*MockTx)(nil).TopBalances), ctx, limit)
}

// UnopenedPacks mocks base method.
func (m *MockTx) UnopenedPacks(ctx context.Context, userID string, packID int64, limit int) ([]*models.UserPack, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "UnopenedPacks", ctx, userID, packID, limit)
	ret0, _ := ret[0].([]*models.UserPack)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// UnopenedPacks indicates an expected call of UnopenedPacks.
func (mr *MockTxMockRecorder) UnopenedPacks(ctx, userID, packID, limit any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "UnopenedPacks", reflect.TypeOf((*MockTx)(nil).UnopenedPacks), ctx, userID, packID, limit)
}

// UpdateCardValue mocks base method.
func (m *MockTx) UpdateCardValue(ctx context.Context, id, value int64) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "UpdateCardValue", ctx, id, value)
	ret0, _ := ret[0].(error)
	return ret0
}

// UpdateCardValue indicates an expected call of UpdateCardValue.
func (mr *MockTxMockRecorder) UpdateCardValue(ctx, id, value any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "UpdateCardValue", reflect.TypeOf((*MockTx)(nil).UpdateCardValue), ctx, id, value)
}
