package indicator

import (
	"github.com/dipward/dipward/internal/domain"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const evolutionPrecision = 4

// MarketEvolutionResult carries the percentage change between the newest
// value and the value exactly period steps back.
type MarketEvolutionResult struct {
	Period       int
	LastValue    decimal.Decimal
	CurrentValue decimal.Decimal
	Percentage   decimal.Decimal
}

// MarketEvolution compares the most recent value against the value period
// steps earlier: current/last - 1, rounded to 4 decimal places.
func MarketEvolution(period int, points []domain.PricePoint) (MarketEvolutionResult, error) {
	if period < 1 {
		return MarketEvolutionResult{}, errors.Errorf("invalid period %d", period)
	}

	normalized := domain.NormalizePoints(points)
	if len(normalized) < period+1 {
		return MarketEvolutionResult{}, errors.Wrapf(domain.ErrInsufficientData, "market evolution needs %d points, got %d", period+1, len(normalized))
	}

	current := normalized[0].Value
	last := normalized[period].Value

	return MarketEvolutionResult{
		Period:       period,
		LastValue:    last,
		CurrentValue: current,
		Percentage:   current.Div(last).Sub(decimal.NewFromInt(1)).Round(evolutionPrecision),
	}, nil
}
