package broker

import (
	"errors"
	"sync"
	"testing"
	"time"

	"ebroker-go/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockTraderRepo is a mock implementation of Repository[models.Trader].
type MockTraderRepo struct {
	mock.Mock
}

func (m *MockTraderRepo) Get(id int) (*models.Trader, error) {
	args := m.Called(id)
	if t, ok := args.Get(0).(*models.Trader); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTraderRepo) GetAll() ([]models.Trader, error) {
	args := m.Called()
	return args.Get(0).([]models.Trader), args.Error(1)
}

func (m *MockTraderRepo) Insert(t *models.Trader) (int, error) {
	args := m.Called(t)
	return args.Int(0), args.Error(1)
}

func (m *MockTraderRepo) Update(t *models.Trader) error {
	args := m.Called(t)
	return args.Error(0)
}

func (m *MockTraderRepo) Delete(id int) error {
	args := m.Called(id)
	return args.Error(0)
}

// MockEquityRepo is a mock implementation of Repository[models.Equity].
type MockEquityRepo struct {
	mock.Mock
}

func (m *MockEquityRepo) Get(id int) (*models.Equity, error) {
	args := m.Called(id)
	if e, ok := args.Get(0).(*models.Equity); ok {
		return e, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockEquityRepo) GetAll() ([]models.Equity, error) {
	args := m.Called()
	return args.Get(0).([]models.Equity), args.Error(1)
}

func (m *MockEquityRepo) Insert(e *models.Equity) (int, error) {
	args := m.Called(e)
	return args.Int(0), args.Error(1)
}

func (m *MockEquityRepo) Update(e *models.Equity) error {
	args := m.Called(e)
	return args.Error(0)
}

func (m *MockEquityRepo) Delete(id int) error {
	args := m.Called(id)
	return args.Error(0)
}

func setupManager(t *testing.T) (*TraderManager, *MockTraderRepo, *MockEquityRepo) {
	t.Helper()
	traderRepo := new(MockTraderRepo)
	equityRepo := new(MockEquityRepo)
	return NewTraderManager(traderRepo, equityRepo, zap.NewNop()), traderRepo, equityRepo
}

var (
	marketOpen   = time.Date(2024, 3, 14, 10, 0, 0, 0, time.Local)
	marketClosed = time.Date(2024, 3, 14, 16, 0, 0, 0, time.Local)
)

func TestBuyEquity_MarketClosed(t *testing.T) {
	manager, traderRepo, equityRepo := setupManager(t)

	done, err := manager.BuyEquity(1, 7, 3, marketClosed)

	assert.NoError(t, err, "closed market is a business rejection, not an error")
	assert.False(t, done)
	traderRepo.AssertNotCalled(t, "Get", mock.Anything)
	equityRepo.AssertNotCalled(t, "Get", mock.Anything)
}

func TestBuyEquity_InvalidTraderID(t *testing.T) {
	manager, traderRepo, _ := setupManager(t)

	done, err := manager.BuyEquity(0, 7, 3, marketOpen)

	assert.False(t, done)
	var rangeErr *RangeError
	assert.ErrorAs(t, err, &rangeErr)
	traderRepo.AssertNotCalled(t, "Get", mock.Anything)
}

func TestBuyEquity_TraderNotFound(t *testing.T) {
	manager, traderRepo, equityRepo := setupManager(t)
	traderRepo.On("Get", 1).Return(nil, nil)

	done, err := manager.BuyEquity(1, 7, 3, marketOpen)

	assert.False(t, done)
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "Trader", notFound.Entity)
	equityRepo.AssertNotCalled(t, "Get", mock.Anything)
}

func TestBuyEquity_EquityNotFound(t *testing.T) {
	manager, traderRepo, equityRepo := setupManager(t)
	traderRepo.On("Get", 1).Return(&models.Trader{ID: 1, Funds: 1000}, nil)
	equityRepo.On("Get", 7).Return(nil, nil)

	done, err := manager.BuyEquity(1, 7, 3, marketOpen)

	assert.False(t, done)
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "Equity", notFound.Entity)
	traderRepo.AssertNotCalled(t, "Update", mock.Anything)
}

func TestBuyEquity_InsufficientFunds(t *testing.T) {
	manager, traderRepo, equityRepo := setupManager(t)
	traderRepo.On("Get", 1).Return(&models.Trader{ID: 1, Funds: 100}, nil)
	equityRepo.On("Get", 7).Return(&models.Equity{ID: 7, Amount: 50}, nil)

	done, err := manager.BuyEquity(1, 7, 3, marketOpen)

	assert.NoError(t, err)
	assert.False(t, done)
	traderRepo.AssertNotCalled(t, "Update", mock.Anything)
}

func TestBuyEquity_Success(t *testing.T) {
	manager, traderRepo, equityRepo := setupManager(t)
	trader := &models.Trader{ID: 1, Funds: 1000}
	traderRepo.On("Get", 1).Return(trader, nil)
	equityRepo.On("Get", 7).Return(&models.Equity{ID: 7, Amount: 50}, nil)
	traderRepo.On("Update", trader).Return(nil)

	done, err := manager.BuyEquity(1, 7, 3, marketOpen)

	assert.NoError(t, err)
	assert.True(t, done)
	assert.Equal(t, 850.0, trader.Funds)
	require.Len(t, trader.Positions, 1)
	assert.Equal(t, 3, trader.Positions[0].Quantity)
	traderRepo.AssertExpectations(t)
	equityRepo.AssertExpectations(t)
}

func TestBuyEquity_RepositoryError(t *testing.T) {
	manager, traderRepo, _ := setupManager(t)
	traderRepo.On("Get", 1).Return(nil, errors.New("db closed"))

	done, err := manager.BuyEquity(1, 7, 3, marketOpen)

	assert.False(t, done)
	assert.ErrorContains(t, err, "db closed")
}

func TestSellEquity_MarketClosed(t *testing.T) {
	manager, traderRepo, _ := setupManager(t)

	done, err := manager.SellEquity(1, 7, 3, marketClosed)

	assert.NoError(t, err)
	assert.False(t, done)
	traderRepo.AssertNotCalled(t, "Get", mock.Anything)
}

func TestSellEquity_TraderNotFound(t *testing.T) {
	manager, traderRepo, _ := setupManager(t)
	traderRepo.On("Get", 1).Return(nil, nil)

	done, err := manager.SellEquity(1, 7, 3, marketOpen)

	assert.False(t, done)
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "Trader", notFound.Entity)
}

func TestSellEquity_InsufficientHoldings(t *testing.T) {
	manager, traderRepo, equityRepo := setupManager(t)
	trader := &models.Trader{ID: 1, Funds: 500, Positions: []models.Position{
		{TraderID: 1, EquityID: 7, Quantity: 2, Equity: models.Equity{ID: 7, Amount: 50}},
	}}
	traderRepo.On("Get", 1).Return(trader, nil)

	done, err := manager.SellEquity(1, 7, 3, marketOpen)

	assert.NoError(t, err)
	assert.False(t, done)
	assert.Equal(t, 500.0, trader.Funds)
	traderRepo.AssertNotCalled(t, "Update", mock.Anything)
	// Sell prices off the position's attached equity; the equity repo is
	// never consulted.
	equityRepo.AssertNotCalled(t, "Get", mock.Anything)
}

func TestSellEquity_Success(t *testing.T) {
	manager, traderRepo, equityRepo := setupManager(t)
	trader := &models.Trader{ID: 1, Funds: 0, Positions: []models.Position{
		{TraderID: 1, EquityID: 7, Quantity: 100, Equity: models.Equity{ID: 7, Amount: 1000}},
	}}
	traderRepo.On("Get", 1).Return(trader, nil)
	traderRepo.On("Update", trader).Return(nil)

	done, err := manager.SellEquity(1, 7, 100, marketOpen)

	assert.NoError(t, err)
	assert.True(t, done)
	assert.InDelta(t, 99950, trader.Funds, 1e-9) // gross 100000 minus 50 brokerage
	assert.Equal(t, 0, trader.Positions[0].Quantity)
	traderRepo.AssertExpectations(t)
	equityRepo.AssertNotCalled(t, "Get", mock.Anything)
}

func TestAddFunds_InvalidTraderID(t *testing.T) {
	manager, traderRepo, _ := setupManager(t)

	done, err := manager.AddFunds(-1, 500)

	assert.False(t, done)
	var rangeErr *RangeError
	assert.ErrorAs(t, err, &rangeErr)
	traderRepo.AssertNotCalled(t, "Get", mock.Anything)
}

func TestAddFunds_TraderNotFound(t *testing.T) {
	manager, traderRepo, _ := setupManager(t)
	traderRepo.On("Get", 1).Return(nil, nil)

	done, err := manager.AddFunds(1, 500)

	assert.False(t, done)
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "Trader", notFound.Entity)
}

func TestAddFunds_Success(t *testing.T) {
	manager, traderRepo, _ := setupManager(t)
	trader := &models.Trader{ID: 1, Funds: 20000}
	traderRepo.On("Get", 1).Return(trader, nil)
	traderRepo.On("Update", trader).Return(nil)

	done, err := manager.AddFunds(1, 100001)

	assert.NoError(t, err)
	assert.True(t, done)
	assert.InDelta(t, 119950.9995, trader.Funds, 1e-9)
	traderRepo.AssertExpectations(t)
}

func TestManager_GetByID_Contracts(t *testing.T) {
	repo := new(MockTraderRepo)
	manager := NewManager[models.Trader](repo, zap.NewNop())

	for _, id := range []int{0, -1, -42} {
		got, err := manager.GetByID(id)
		assert.Nil(t, got)
		var rangeErr *RangeError
		assert.ErrorAs(t, err, &rangeErr)
	}
	repo.AssertNotCalled(t, "Get", mock.Anything)

	repo.On("Get", 5).Return(&models.Trader{ID: 5, Name: "Bob"}, nil)
	first, err := manager.GetByID(5)
	require.NoError(t, err)
	second, err := manager.GetByID(5)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestManager_InsertUpdate_NilModel(t *testing.T) {
	repo := new(MockTraderRepo)
	manager := NewManager[models.Trader](repo, zap.NewNop())

	_, err := manager.Insert(nil)
	assert.ErrorIs(t, err, ErrNilModel)
	assert.ErrorIs(t, manager.Update(nil), ErrNilModel)
	repo.AssertNotCalled(t, "Insert", mock.Anything)
	repo.AssertNotCalled(t, "Update", mock.Anything)
}

func TestManager_Delete_Contracts(t *testing.T) {
	repo := new(MockTraderRepo)
	manager := NewManager[models.Trader](repo, zap.NewNop())

	var rangeErr *RangeError
	assert.ErrorAs(t, manager.Delete(0), &rangeErr)
	repo.AssertNotCalled(t, "Delete", mock.Anything)

	repo.On("Delete", 3).Return(nil)
	assert.NoError(t, manager.Delete(3))
	repo.AssertExpectations(t)
}

// memTraderRepo is a trivial in-memory repository that simulates the
// load-mutate-save pattern with copies, to exercise per-trader serialization.
type memTraderRepo struct {
	mu     sync.Mutex
	trader models.Trader
}

func (r *memTraderRepo) Get(id int) (*models.Trader, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := r.trader
	cp.Positions = append([]models.Position(nil), r.trader.Positions...)
	return &cp, nil
}

func (r *memTraderRepo) GetAll() ([]models.Trader, error) { return nil, nil }

func (r *memTraderRepo) Insert(t *models.Trader) (int, error) { return t.ID, nil }

func (r *memTraderRepo) Update(t *models.Trader) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.trader = *t
	return nil
}

func (r *memTraderRepo) Delete(id int) error { return nil }

func TestAddFunds_SerializedPerTrader(t *testing.T) {
	repo := &memTraderRepo{trader: models.Trader{ID: 1, Funds: 0}}
	manager := NewTraderManager(repo, new(MockEquityRepo), zap.NewNop())

	const workers = 50
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			done, err := manager.AddFunds(1, 10)
			assert.NoError(t, err)
			assert.True(t, done)
		}()
	}
	wg.Wait()

	trader, err := repo.Get(1)
	require.NoError(t, err)
	assert.Equal(t, float64(workers*10), trader.Funds, "concurrent deposits must not lose updates")
}
