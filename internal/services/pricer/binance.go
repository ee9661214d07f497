package pricer

import (
	"context"

	"github.com/adshao/go-binance/v2"
	"github.com/dipward/dipward/internal/domain"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const binanceAverageInterval = "1m"

// BinancePriceSource reads quotes from the Binance spot API.
type BinancePriceSource struct {
	client  *binance.Client
	average AverageConfig
	history int
}

// NewBinancePriceSource creates a Binance price source.
func NewBinancePriceSource(client *binance.Client, average AverageConfig) (*BinancePriceSource, error) {
	history, err := average.Validate()
	if err != nil {
		return nil, err
	}

	return &BinancePriceSource{client: client, average: average, history: history}, nil
}

// GetQuote returns the last traded price and the rolling average over the
// latest minute candles.
func (s *BinancePriceSource) GetQuote(ctx context.Context, pair domain.Pair) (domain.PriceQuote, error) {
	prices, err := s.client.NewListPricesService().Symbol(pair.Symbol()).Do(ctx)
	if err != nil {
		return domain.PriceQuote{}, errors.Wrapf(domain.ErrSourceUnavailable, "binance ticker for %s: %v", pair.String(), err)
	}
	if len(prices) == 0 {
		return domain.PriceQuote{}, errors.Wrapf(domain.ErrSourceUnavailable, "binance returned no price for %s", pair.String())
	}

	current, err := decimal.NewFromString(prices[0].Price)
	if err != nil {
		return domain.PriceQuote{}, errors.Wrapf(err, "parse binance price %q", prices[0].Price)
	}

	klines, err := s.client.NewKlinesService().
		Symbol(pair.Symbol()).
		Interval(binanceAverageInterval).
		Limit(s.history).
		Do(ctx)
	if err != nil {
		return domain.PriceQuote{}, errors.Wrapf(domain.ErrSourceUnavailable, "binance klines for %s: %v", pair.String(), err)
	}

	candles := make([]domain.Candle, 0, len(klines))
	for _, k := range klines {
		candle, err := binanceCandle(k)
		if err != nil {
			return domain.PriceQuote{}, err
		}
		candles = append(candles, candle)
	}

	average, err := averagePrice(s.average, candles)
	if err != nil {
		return domain.PriceQuote{}, err
	}

	return domain.PriceQuote{Pair: pair, CurrentPrice: current, AveragePrice: average}, nil
}

func binanceCandle(k *binance.Kline) (domain.Candle, error) {
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
