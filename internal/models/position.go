package models

// Position links a trader to an equity it holds.
// Quantity may reach zero on a full sale; the row is retained so a later
// buy increments it rather than recreating the relationship.
type Position struct {
	ID       int `gorm:"primaryKey" json:"id"`
	TraderID int `gorm:"index" json:"trader_id"`
	EquityID int `gorm:"index" json:"equity_id"`
	Quantity int `gorm:"not null" json:"quantity"`

	// Equity is resolved from the equity table when the owning trader is
	// loaded. It is a read-only snapshot, never written back through the
	// position.
	Equity Equity `gorm:"-" json:"equity"`
}
