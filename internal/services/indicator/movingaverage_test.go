package indicator

import (
	"testing"

	"github.com/dipward/dipward/internal/domain"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func sixPoints() []domain.PricePoint {
	values := []int64{20, 30, 40, 50, 60, 70}
	points := make([]domain.PricePoint, len(values))
	for i, v := range values {
		points[i] = domain.PricePoint{Timestamp: int64(i + 1), Value: decimal.NewFromInt(v)}
	}
	return points
}

func TestMovingAverageSMA(t *testing.T) {
	// normalized newest-first: 70 60 50 40 30 20; the newest point is excluded
	result, err := MovingAverage(SMA, 5, sixPoints())
	require.NoError(t, err)
	require.Equal(t, SMA, result.Type)
	require.Equal(t, 5, result.Period)
	require.True(t, result.Value.Equal(decimal.NewFromInt(40)), "got %s", result.Value.String())
}

func TestMovingAverageCMA(t *testing.T) {
	result, err := MovingAverage(CMA, 5, sixPoints())
	require.NoError(t, err)
	require.True(t, result.Value.Equal(decimal.NewFromInt(50)), "got %s", result.Value.String())

	result, err = MovingAverage(CMA, 6, sixPoints())
	require.NoError(t, err)
	require.True(t, result.Value.Equal(decimal.NewFromInt(45)), "got %s", result.Value.String())
}

func TestMovingAverageEMA(t *testing.T) {
	// constant series: the EMA must equal the constant regardless of seeding
	points := make([]domain.PricePoint, 9)
	for i := range points {
		points[i] = domain.PricePoint{Timestamp: int64(i), Value: decimal.NewFromInt(42)}
	}

	result, err := MovingAverage(EMA, 3, points)
	require.NoError(t, err)
	require.True(t, result.Value.Equal(decimal.NewFromInt(42)), "got %s", result.Value.String())
}

func TestMovingAverageEMAFold(t *testing.T) {
	// period 1: alpha = 1, the EMA collapses to the newest value
	points := sixPoints()
	result, err := MovingAverage(EMA, 1, points)
	require.NoError(t, err)
	require.True(t, result.Value.Equal(decimal.NewFromInt(70)), "got %s", result.Value.String())
}

func TestMovingAverageInsufficientData(t *testing.T) {
	tests := []struct {
		name   string
		typ    MovingAverageType
		period int
	}{
		{"SMA needs period+1", SMA, 6},
		{"CMA needs period", CMA, 7},
		{"EMA needs period*3", EMA, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := MovingAverage(tt.typ, tt.period, sixPoints())
			require.ErrorIs(t, err, domain.ErrInsufficientData)
		})
	}
}

func TestMovingAverageUnsupportedType(t *testing.T) {
	_, err := MovingAverage(MovingAverageType("WMA"), 3, sixPoints())
	require.ErrorIs(t, err, domain.ErrUnsupportedType)
}

func TestMovingAverageInvalidPeriod(t *testing.T) {
	_, err := MovingAverage(SMA, 0, sixPoints())
	require.Error(t, err)
	require.False(t, errors.Is(err, domain.ErrInsufficientData))
}

func TestMinPoints(t *testing.T) {
	for _, tt := range []struct {
		typ      MovingAverageType
		period   int
		expected int
	}{
		{SMA, 5, 6},
		{CMA, 5, 5},
		{EMA, 7, 21},
	} {
		n, err := MinPoints(tt.typ, tt.period)
		require.NoError(t, err)
		require.Equal(t, tt.expected, n)
	}

	_, err := MinPoints(MovingAverageType("WMA"), 3)
	require.ErrorIs(t, err, domain.ErrUnsupportedType)
}
