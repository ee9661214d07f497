// Package indicator derives technical indicators from time-ordered price points.
package indicator

import (
	"github.com/dipward/dipward/internal/domain"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// MovingAverageType selects the averaging method.
type MovingAverageType string

const (
	// SMA simple moving average.
	SMA MovingAverageType = "SMA"
	// CMA cumulative moving average.
	CMA MovingAverageType = "CMA"
	// EMA exponential moving average.
	EMA MovingAverageType = "EMA"
)

const movingAveragePrecision = 8

// MovingAverageResult carries the computed average.
type MovingAverageResult struct {
	Type   MovingAverageType
	Period int
	Value  decimal.Decimal
}

// MovingAverage computes the requested average over the period, rounded to
// 8 decimal places. Points are normalized newest-first before any indexing.
//
// Each type has its own minimum history: an SMA over period N averages the N
// points immediately preceding the most recent one and therefore needs N+1
// points; a CMA averages the newest N points and needs N; an EMA needs N*3
// points so the seed bias decays.
func MovingAverage(typ MovingAverageType, period int, points []domain.PricePoint) (MovingAverageResult, error) {
	if period < 1 {
		return MovingAverageResult{}, errors.Errorf("invalid period %d", period)
	}

	normalized := domain.NormalizePoints(points)

	var value decimal.Decimal
	var err error
	switch typ {
	case SMA:
		value, err = simpleMovingAverage(period, normalized)
	case CMA:
		value, err = cumulativeMovingAverage(period, normalized)
	case EMA:
		value, err = exponentialMovingAverage(period, normalized)
	default:
		return MovingAverageResult{}, errors.Wrapf(domain.ErrUnsupportedType, "moving average type %q", typ)
	}
	if err != nil {
		return MovingAverageResult{}, err
	}

	return MovingAverageResult{
		Type:   typ,
		Period: period,
		Value:  value.Round(movingAveragePrecision),
	}, nil
}

// MinPoints returns the minimum history the given average type needs.
func MinPoints(typ MovingAverageType, period int) (int, error) {
	switch typ {
	case SMA:
		return period + 1, nil
	case CMA:
		return period, nil
	case EMA:
		return period * 3, nil
	default:
		return 0, errors.Wrapf(domain.ErrUnsupportedType, "moving average type %q", typ)
	}
}

func simpleMovingAverage(period int, points []domain.PricePoint) (decimal.Decimal, error) {
	if len(points) < period+1 {
		return decimal.Decimal{}, errors.Wrapf(domain.ErrInsufficientData, "SMA needs %d points, got %d", period+1, len(points))
	}

	// the newest point is excluded: the window is the period points
	// immediately preceding it
	return mean(points[1 : period+1]), nil
}

func cumulativeMovingAverage(period int, points []domain.PricePoint) (decimal.Decimal, error) {
	if len(points) < period {
		return decimal.Decimal{}, errors.Wrapf(domain.ErrInsufficientData, "CMA needs %d points, got %d", period, len(points))
	}

	return mean(points[:period]), nil
}

func exponentialMovingAverage(period int, points []domain.PricePoint) (decimal.Decimal, error) {
	window := period * 3
	if len(points) < window {
		return decimal.Decimal{}, errors.Wrapf(domain.ErrInsufficientData, "EMA needs %d points, got %d", window, len(points))
	}

	alpha := decimal.NewFromInt(2).Div(decimal.NewFromInt(int64(period) + 1))
	oneMinusAlpha := decimal.NewFromInt(1).Sub(alpha)

	// points are newest-first; seed with the oldest value of the window and
	// fold toward the newest
	acc := points[window-1].Value
	for i := window - 2; i >= 0; i-- {
		acc = points[i].Value.Mul(alpha).Add(acc.Mul(oneMinusAlpha))
	}

	return acc, nil
}

func mean(points []domain.PricePoint) decimal.Decimal {
	sum := decimal.Zero
	for _, p := range points {
		sum = sum.Add(p.Value)
	}
	return sum.Div(decimal.NewFromInt(int64(len(points))))
}
