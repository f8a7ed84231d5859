package broker

// Domain fee constants. These are fixed business rules, not configuration.
const (
	// BrokerageRate is the proportional fee on sale proceeds.
	BrokerageRate = 0.0005
	// MinBrokerage is the floor applied to the brokerage fee.
	MinBrokerage = 20.0
	// LargeDepositThreshold is the deposit size above which a handling fee applies.
	LargeDepositThreshold = 100000.0
	// DepositFeeRate is the handling fee rate on large deposits.
	DepositFeeRate = 0.0005
)

// PurchaseCost returns the total cost of buying quantity units at the given
// unit price. Purchases carry no fee.
func PurchaseCost(unitPrice float64, quantity int) float64 {
	return unitPrice * float64(quantity)
}

// SaleProceeds returns the net amount credited for selling quantity units at
// the given unit price. Brokerage is max(gross*BrokerageRate, MinBrokerage),
// capped at gross plus the trader's current funds so settlement can never go
// below zero overall.
func SaleProceeds(unitPrice float64, quantity int, funds float64) float64 {
	gross := unitPrice * float64(quantity)

	brokerage := gross * BrokerageRate
	if brokerage < MinBrokerage {
		brokerage = MinBrokerage
	}
	if brokerage > gross+funds {
		brokerage = gross + funds
	}

	return gross - brokerage
}

// DepositCredit returns the amount actually credited for a deposit. Deposits
// above LargeDepositThreshold are reduced by a handling fee; smaller deposits
// are credited in full.
func DepositCredit(amount float64) float64 {
	if amount > LargeDepositThreshold {
		amount -= amount * DepositFeeRate
	}
	return amount
}
