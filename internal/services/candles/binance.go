package candles

import (
	"context"
	"time"

	"github.com/adshao/go-binance/v2"
	"github.com/dipward/dipward/internal/domain"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// BinanceCandleSource fetches historical klines from Binance.
type BinanceCandleSource struct {
	client *binance.Client
}

// NewBinanceCandleSource creates a Binance candle source.
func NewBinanceCandleSource(client *binance.Client) *BinanceCandleSource {
	return &BinanceCandleSource{client: client}
}

// FetchRange fetches the candles of [start, end] inclusive, oldest first.
func (s *BinanceCandleSource) FetchRange(ctx context.Context, pair domain.Pair, interval time.Duration, maxPoints int, start, end time.Time) ([]domain.Candle, error) {
	intervalName, err := binanceInterval(interval)
	if err != nil {
		return nil, err
	}

	klines, err := s.client.NewKlinesService().
		Symbol(pair.Symbol()).
		Interval(intervalName).
		StartTime(start.UnixMilli()).
		EndTime(end.UnixMilli()).
		Limit(maxPoints).
		Do(ctx)
	if err != nil {
		return nil, errors.Wrapf(domain.ErrSourceUnavailable, "binance klines for %s: %v", pair.String(), err)
	}

	candles := make([]domain.Candle, 0, len(klines))
	for _, k := range klines {
		candle, err := parseBinanceKline(k)
		if err != nil {
			return nil, err
		}
		candles = append(candles, candle)
	}

	return candles, nil
}

func parseBinanceKline(k *binance.Kline) (domain.Candle, error) {
	open, err := decimal.NewFromString(k.Open)
	if err != nil {
		return domain.Candle{}, errors.Wrapf(err, "parse open price %q", k.Open)
	}
	high, err := decimal.NewFromString(k.High)
	if err != nil {
		return domain.Candle{}, errors.Wrapf(err, "parse high price %q", k.High)
	}
	low, err := decimal.NewFromString(k.Low)
	if err != nil {
		return domain.Candle{}, errors.Wrapf(err, "parse low price %q", k.Low)
	}
	closePrice, err := decimal.NewFromString(k.Close)
	if err != nil {
		return domain.Candle{}, errors.Wrapf(err, "parse close price %q", k.Close)
	}
	volume, err := decimal.NewFromString(k.Volume)
	if err != nil {
		return domain.Candle{}, errors.Wrapf(err, "parse volume %q", k.Volume)
	}

	return domain.Candle{
		OpenTime:  k.OpenTime,
		Open:      open,
		High:      high,
		Low:       low,
		Close:     closePrice,
		Volume:    volume,
		CloseTime: k.CloseTime,
	}, nil
}
