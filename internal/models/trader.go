package models

// Trader represents a registered trader holding cash funds and equity positions.
type Trader struct {
	ID        int        `gorm:"primaryKey" json:"id"`
	Name      string     `json:"name"`
	Funds     float64    `gorm:"not null" json:"funds"`
	Positions []Position `gorm:"foreignKey:TraderID" json:"positions"`
}

// PositionFor returns the trader's position for the given equity id,
// or nil if the trader holds no position for it. A trader holds at most
// one position per equity id.
func (t *Trader) PositionFor(equityID int) *Position {
	for i := range t.Positions {
		if t.Positions[i].EquityID == equityID {
			return &t.Positions[i]
		}
	}
	return nil
}
