package repository

import (
	"errors"

	"ebroker-go/internal/broker"
	"ebroker-go/internal/models"

	"gorm.io/gorm"
)

// TraderRepository persists Trader aggregates, including their positions.
type TraderRepository struct {
	db *gorm.DB
}

var _ broker.Repository[models.Trader] = (*TraderRepository)(nil)

// NewTraderRepository creates a TraderRepository over the given database.
func NewTraderRepository(db *gorm.DB) *TraderRepository {
	return &TraderRepository{db: db}
}

// Get loads a trader with its positions, resolving each position's equity
// snapshot from the equity table. Returns (nil, nil) when no trader exists.
func (r *TraderRepository) Get(id int) (*models.Trader, error) {
	var trader models.Trader
	err := r.db.Preload("Positions").First(&trader, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := r.resolveEquities(&trader); err != nil {
		return nil, err
	}
	return &trader, nil
}

// GetAll loads every trader with resolved positions.
func (r *TraderRepository) GetAll() ([]models.Trader, error) {
	var traders []models.Trader
	if err := r.db.Preload("Positions").Find(&traders).Error; err != nil {
		return nil, err
	}

	for i := range traders {
		if err := r.resolveEquities(&traders[i]); err != nil {
			return nil, err
		}
	}
	return traders, nil
}

// Insert stores a new trader and returns its assigned id.
func (r *TraderRepository) Insert(m *models.Trader) (int, error) {
	if err := r.db.Create(m).Error; err != nil {
		return 0, err
	}
	return m.ID, nil
}

// Update saves the trader and all of its positions.
func (r *TraderRepository) Update(m *models.Trader) error {
	return r.db.Session(&gorm.Session{FullSaveAssociations: true}).Save(m).Error
}

// Delete removes the trader and its positions.
func (r *TraderRepository) Delete(id int) error {
	if err := r.db.Where("trader_id = ?", id).Delete(&models.Position{}).Error; err != nil {
		return err
	}
	return r.db.Delete(&models.Trader{}, id).Error
}

func (r *TraderRepository) resolveEquities(trader *models.Trader) error {
	for i := range trader.Positions {
		var equity models.Equity
		err := r.db.First(&equity, trader.Positions[i].EquityID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		trader.Positions[i].Equity = equity
	}
	return nil
}
