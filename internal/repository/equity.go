package repository

import (
	"errors"

	"ebroker-go/internal/broker"
	"ebroker-go/internal/models"

	"gorm.io/gorm"
)

// EquityRepository persists Equity aggregates.
type EquityRepository struct {
	db *gorm.DB
}

var _ broker.Repository[models.Equity] = (*EquityRepository)(nil)

// NewEquityRepository creates an EquityRepository over the given database.
func NewEquityRepository(db *gorm.DB) *EquityRepository {
	return &EquityRepository{db: db}
}

// Get returns the equity for id, or (nil, nil) when absent.
func (r *EquityRepository) Get(id int) (*models.Equity, error) {
	var equity models.Equity
	err := r.db.First(&equity, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &equity, nil
}

// GetAll returns every equity.
func (r *EquityRepository) GetAll() ([]models.Equity, error) {
	var equities []models.Equity
	if err := r.db.Find(&equities).Error; err != nil {
		return nil, err
	}
	return equities, nil
}

// Insert stores a new equity and returns its assigned id.
func (r *EquityRepository) Insert(m *models.Equity) (int, error) {
	if err := r.db.Create(m).Error; err != nil {
		return 0, err
	}
	return m.ID, nil
}

// Update saves changes to an existing equity.
func (r *EquityRepository) Update(m *models.Equity) error {
	return r.db.Save(m).Error
}

// Delete removes the equity for id.
func (r *EquityRepository) Delete(id int) error {
	return r.db.Delete(&models.Equity{}, id).Error
}
