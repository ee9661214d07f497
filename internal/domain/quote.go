package domain

import "github.com/shopspring/decimal"

// PriceQuote is a point-in-time market read for a pair: the current price
// together with the rolling average the strategy compares against.
type PriceQuote struct {
	Pair         Pair
	CurrentPrice decimal.Decimal
	AveragePrice decimal.Decimal
}
