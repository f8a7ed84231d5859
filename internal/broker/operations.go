package broker

import (
	"time"

	"ebroker-go/internal/models"
)

// Trading window, local wall-clock hours. The minute component is ignored:
// hour 9 through 14 inclusive is open, everything else closed.
const (
	OpeningHour = 9
	ClosingHour = 15
)

// AddEquities debits the trader for a purchase of quantity units of equity
// and records the holding, merging into an existing position for the same
// equity id. Returns false without mutating anything when funds are
// insufficient.
func AddEquities(trader *models.Trader, equity *models.Equity, quantity int) bool {
	cost := PurchaseCost(equity.Amount, quantity)
	if trader.Funds < cost {
		return false
	}

	trader.Funds -= cost

	if pos := trader.PositionFor(equity.ID); pos != nil {
		pos.Quantity += quantity
		return true
	}

	trader.Positions = append(trader.Positions, models.Position{
		TraderID: trader.ID,
		EquityID: equity.ID,
		Quantity: quantity,
		Equity:   *equity,
	})
	return true
}

// ReduceEquities credits the trader with the net proceeds of selling
// quantity units of the equity identified by equityID and decrements the
// held quantity. Pricing uses the equity snapshot attached to the position
// at load time. Returns false without mutating anything when the trader
// holds no position for the equity or holds fewer units than requested.
//
// The position is kept when its quantity reaches zero, so a later buy
// increments it instead of recreating the relationship.
func ReduceEquities(trader *models.Trader, equityID int, quantity int) bool {
	pos := trader.PositionFor(equityID)
	if pos == nil || pos.Quantity < quantity {
		return false
	}

	trader.Funds += SaleProceeds(pos.Equity.Amount, quantity, trader.Funds)
	pos.Quantity -= quantity
	return true
}

// IncreaseFunds credits the trader with a deposit, applying the
// large-deposit handling fee. It accepts any amount; validating that the
// amount is meaningful is the caller's job.
func IncreaseFunds(trader *models.Trader, amount float64) bool {
	trader.Funds += DepositCredit(amount)
	return true
}

// IsOperatingHours reports whether t falls inside the trading window
// [09:00, 15:00). A timestamp outside the window yields a RangeError: when
// called directly this is a contract violation, while the orchestrator
// treats the same condition as an ordinary closed-market rejection.
func IsOperatingHours(t time.Time) (bool, error) {
	if t.Hour() < OpeningHour || t.Hour() >= ClosingHour {
		return false, &RangeError{
			Field:  "time",
			Reason: "time of operation should be between 9:00 AM and 3:00 PM",
		}
	}
	return true, nil
}
