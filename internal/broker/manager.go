package broker

import (
	"time"

	"ebroker-go/internal/models"

	"go.uber.org/zap"
)

// Repository is the persistence contract the managers depend on.
// Get returns (nil, nil) when no record exists for the id.
type Repository[T any] interface {
	Get(id int) (*T, error)
	GetAll() ([]T, error)
	Insert(m *T) (int, error)
	Update(m *T) error
	Delete(id int) error
}

func checkID(id int) error {
	if id <= 0 {
		return &RangeError{Field: "id", Reason: "identifier must be positive"}
	}
	return nil
}

// Manager is the generic CRUD surface over one aggregate type. It enforces
// the id and nil-model contracts before the repository is touched.
type Manager[T any] struct {
	repo Repository[T]
	log  *zap.Logger
}

// NewManager creates a manager over the given repository.
func NewManager[T any](repo Repository[T], log *zap.Logger) *Manager[T] {
	return &Manager[T]{repo: repo, log: log}
}

// GetByID returns the aggregate for id, or (nil, nil) when absent.
func (m *Manager[T]) GetByID(id int) (*T, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	return m.repo.Get(id)
}

// GetAll returns all aggregates.
func (m *Manager[T]) GetAll() ([]T, error) {
	return m.repo.GetAll()
}

// Insert stores a new aggregate and returns its assigned id.
func (m *Manager[T]) Insert(model *T) (int, error) {
	if model == nil {
		return 0, ErrNilModel
	}
	return m.repo.Insert(model)
}

// Update stores changes to an existing aggregate.
func (m *Manager[T]) Update(model *T) error {
	if model == nil {
		return ErrNilModel
	}
	return m.repo.Update(model)
}

// Delete removes the aggregate for id.
func (m *Manager[T]) Delete(id int) error {
	if err := checkID(id); err != nil {
		return err
	}
	return m.repo.Delete(id)
}

// TraderManager orchestrates the three mutating trading operations on top
// of the generic CRUD surface. Each operation is a single load-mutate-save
// pass against one trader, serialized per trader id.
type TraderManager struct {
	*Manager[models.Trader]
	equities Repository[models.Equity]
	locks    keyedMutex
	log      *zap.Logger
}

// NewTraderManager creates a TraderManager over the trader and equity
// repositories.
func NewTraderManager(traders Repository[models.Trader], equities Repository[models.Equity], log *zap.Logger) *TraderManager {
	return &TraderManager{
		Manager:  NewManager(traders, log),
		equities: equities,
		log:      log,
	}
}

// BuyEquity purchases quantity units of the equity for the trader. It
// returns (false, nil) for business rejections (closed market, insufficient
// funds) and a non-nil error for contract violations and missing records.
func (m *TraderManager) BuyEquity(traderID, equityID, quantity int, at time.Time) (bool, error) {
	// A closed market is an ordinary rejection at this layer, not an error.
	if ok, _ := IsOperatingHours(at); !ok {
		m.log.Debug("buy rejected outside operating hours", zap.Int("trader_id", traderID))
		return false, nil
	}

	unlock := m.locks.Lock(traderID)
	defer unlock()

	trader, err := m.loadTrader(traderID)
	if err != nil {
		return false, err
	}

	equity, err := m.loadEquity(equityID)
	if err != nil {
		return false, err
	}

	if !AddEquities(trader, equity, quantity) {
		m.log.Debug("buy rejected for insufficient funds",
			zap.Int("trader_id", traderID),
			zap.Int("equity_id", equityID),
			zap.Int("quantity", quantity))
		return false, nil
	}

	if err := m.repo.Update(trader); err != nil {
		return false, err
	}

	m.log.Info("equity bought",
		zap.Int("trader_id", traderID),
		zap.Int("equity_id", equityID),
		zap.Int("quantity", quantity),
		zap.Float64("funds", trader.Funds))
	return true, nil
}

// SellEquity sells quantity units of the trader's holding in the equity.
// Pricing comes from the equity snapshot attached to the position when the
// trader was loaded; the equity aggregate is not re-fetched.
func (m *TraderManager) SellEquity(traderID, equityID, quantity int, at time.Time) (bool, error) {
	if ok, _ := IsOperatingHours(at); !ok {
		m.log.Debug("sell rejected outside operating hours", zap.Int("trader_id", traderID))
		return false, nil
	}

	unlock := m.locks.Lock(traderID)
	defer unlock()

	trader, err := m.loadTrader(traderID)
	if err != nil {
		return false, err
	}

	if !ReduceEquities(trader, equityID, quantity) {
		m.log.Debug("sell rejected for insufficient holdings",
			zap.Int("trader_id", traderID),
			zap.Int("equity_id", equityID),
			zap.Int("quantity", quantity))
		return false, nil
	}

	if err := m.repo.Update(trader); err != nil {
		return false, err
	}

	m.log.Info("equity sold",
		zap.Int("trader_id", traderID),
		zap.Int("equity_id", equityID),
		zap.Int("quantity", quantity),
		zap.Float64("funds", trader.Funds))
	return true, nil
}

// AddFunds credits a deposit to the trader. The rule layer accepts any
// amount today, but the rejection branch is kept for future deposit rules.
func (m *TraderManager) AddFunds(traderID int, amount float64) (bool, error) {
	unlock := m.locks.Lock(traderID)
	defer unlock()

	trader, err := m.loadTrader(traderID)
	if err != nil {
		return false, err
	}

	if !IncreaseFunds(trader, amount) {
		return false, nil
	}

	if err := m.repo.Update(trader); err != nil {
		return false, err
	}

	m.log.Info("funds added",
		zap.Int("trader_id", traderID),
		zap.Float64("amount", amount),
		zap.Float64("funds", trader.Funds))
	return true, nil
}

func (m *TraderManager) loadTrader(id int) (*models.Trader, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	trader, err := m.repo.Get(id)
	if err != nil {
		return nil, err
	}
	if trader == nil {
		return nil, &NotFoundError{Entity: "Trader"}
	}
	return trader, nil
}

func (m *TraderManager) loadEquity(id int) (*models.Equity, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	equity, err := m.equities.Get(id)
	if err != nil {
		return nil, err
	}
	if equity == nil {
		return nil, &NotFoundError{Entity: "Equity"}
	}
	return equity, nil
}
