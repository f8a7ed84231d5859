package models

// Equity represents a tradable equity with a unit price.
type Equity struct {
	ID     int     `gorm:"primaryKey" json:"id"`
	Name   string  `json:"name"`
	Amount float64 `gorm:"not null" json:"amount"` // unit price
}
