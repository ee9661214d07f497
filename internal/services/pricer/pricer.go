// Package pricer implements exchange-backed price sources. A quote combines
// the latest traded price with a rolling average derived from recent
// minute candles.
package pricer

import (
	"github.com/dipward/dipward/internal/domain"
	"github.com/dipward/dipward/internal/services/indicator"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// AverageConfig selects the rolling average a price source reports in its
// quotes.
type AverageConfig struct {
	Type   indicator.MovingAverageType
	Period int
}

// Validate checks the average configuration and returns the candle history
// size it needs.
func (c AverageConfig) Validate() (int, error) {
	if c.Period < 1 {
		return 0, errors.Errorf("invalid average period %d", c.Period)
	}
	return indicator.MinPoints(c.Type, c.Period)
}

func averagePrice(cfg AverageConfig, candles []domain.Candle) (decimal.Decimal, error) {
	points := make([]domain.PricePoint, len(candles))
	for i := range candles {
		points[i] = candles[i].PricePoint()
	}

	result, err := indicator.MovingAverage(cfg.Type, cfg.Period, points)
	if err != nil {
		return decimal.Decimal{}, errors.Wrap(err, "average price")
	}

	return result.Value, nil
}
