package candles

import (
	"context"
	"sort"
	"strconv"
	"time"

	"github.com/dipward/dipward/internal/domain"
	"github.com/hirokisan/bybit/v2"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// BybitCandleSource fetches historical klines from the Bybit V5 API.
type BybitCandleSource struct {
	client *bybit.Client
}

// NewBybitCandleSource creates a Bybit candle source.
func NewBybitCandleSource(client *bybit.Client) *BybitCandleSource {
	return &BybitCandleSource{client: client}
}

// FetchRange fetches the candles of [start, end] inclusive, oldest first.
// Bybit serves klines newest-first, the result is reordered.
func (s *BybitCandleSource) FetchRange(ctx context.Context, pair domain.Pair, interval time.Duration, maxPoints int, start, end time.Time) ([]domain.Candle, error) {
	intervalName, err := bybitInterval(interval)
	if err != nil {
		return nil, err
	}

	startMs := start.UnixMilli()
	endMs := end.UnixMilli()

	resp, err := s.client.V5().Market().GetKline(bybit.V5GetKlineParam{
		Category: bybit.CategoryV5Spot,
		Symbol:   bybit.SymbolV5(pair.Symbol()),
		Interval: intervalName,
		Start:    &startMs,
		End:      &endMs,
		Limit:    &maxPoints,
	})
	if err != nil {
		return nil, errors.Wrapf(domain.ErrSourceUnavailable, "bybit klines for %s: %v", pair.String(), err)
	}

	candles := make([]domain.Candle, 0, len(resp.Result.List))
	for _, item := range resp.Result.List {
		candle, err := parseBybitKline(item, interval)
		if err != nil {
			return nil, err
		}
		candles = append(candles, candle)
	}

	sort.Slice(candles, func(i, j int) bool {
		return candles[i].OpenTime < candles[j].OpenTime
	})

	return candles, nil
}

func parseBybitKline(item bybit.V5GetKlineItem, interval time.Duration) (domain.Candle, error) {
	startTime, err := strconv.ParseInt(item.StartTime, 10, 64)
	if err != nil {
		return domain.Candle{}, errors.Wrapf(err, "parse kline start time %q", item.StartTime)
	}
	open, err := decimal.NewFromString(item.Open)
	if err != nil {
		return domain.Candle{}, errors.Wrapf(err, "parse open price %q", item.Open)
	}
	high, err := decimal.NewFromString(item.High)
	if err != nil {
		return domain.Candle{}, errors.Wrapf(err, "parse high price %q", item.High)
	}
	low, err := decimal.NewFromString(item.Low)
	if err != nil {
		return domain.Candle{}, errors.Wrapf(err, "parse low price %q", item.Low)
	}
	closePrice, err := decimal.NewFromString(item.Close)
	if err != nil {
		return domain.Candle{}, errors.Wrapf(err, "parse close price %q", item.Close)
	}
	volume, err := decimal.NewFromString(item.Volume)
	if err != nil {
		return domain.Candle{}, errors.Wrapf(err, "parse volume %q", item.Volume)
	}

	return domain.Candle{
		OpenTime:  startTime,
		Open:      open,
		High:      high,
		Low:       low,
		Close:     closePrice,
		Volume:    volume,
		CloseTime: startTime + interval.Milliseconds() - 1,
	}, nil
}
