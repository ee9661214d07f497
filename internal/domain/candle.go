package domain

import "github.com/shopspring/decimal"

// Candle single OHLCV candlestick.
type Candle struct {
	// OpenTime epoch milliseconds of the interval start.
	OpenTime int64
	Open     decimal.Decimal
	High     decimal.Decimal
	Low      decimal.Decimal
	Close    decimal.Decimal
	Volume   decimal.Decimal
	// CloseTime epoch milliseconds of the interval end.
	CloseTime int64
}

// PricePoint converts the candle into a close-price point.
func (c *Candle) PricePoint() PricePoint {
	return PricePoint{Timestamp: c.OpenTime, Value: c.Close}
}
