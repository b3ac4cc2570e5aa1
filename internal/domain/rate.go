package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRateDay is the quote published for a single calendar day.
// BuyRate and SellRate are equal when upstream reports one reference value.
type ExchangeRateDay struct {
	Date     time.Time
	BuyRate  decimal.Decimal
	SellRate decimal.Decimal
}

// ExchangeRateRange keeps Rates in the order upstream returned them.
type ExchangeRateRange struct {
	StartDate time.Time
	EndDate   time.Time
	Rates     []ExchangeRateDay
}

type ExchangeRateAverage struct {
	Year    int
	Month   int
	Average decimal.Decimal
}
