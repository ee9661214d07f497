package pricer

import (
	"context"
	"strconv"

	"github.com/dipward/dipward/internal/domain"
	"github.com/hirokisan/bybit/v2"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const bybitAverageInterval = bybit.Interval("1")

// BybitPriceSource reads quotes from the Bybit V5 spot API.
type BybitPriceSource struct {
	client  *bybit.Client
	average AverageConfig
	history int
}

// NewBybitPriceSource creates a Bybit price source.
func NewBybitPriceSource(client *bybit.Client, average AverageConfig) (*BybitPriceSource, error) {
	history, err := average.Validate()
	if err != nil {
		return nil, err
	}

	return &BybitPriceSource{client: client, average: average, history: history}, nil
}

// GetQuote returns the last traded price and the rolling average over the
// latest minute candles.
func (s *BybitPriceSource) GetQuote(ctx context.Context, pair domain.Pair) (domain.PriceQuote, error) {
	symbol := bybit.SymbolV5(pair.Symbol())

	tickers, err := s.client.V5().Market().GetTickers(bybit.V5GetTickersParam{
		Category: bybit.CategoryV5Spot,
		Symbol:   &symbol,
	})
	if err != nil {
		return domain.PriceQuote{}, errors.Wrapf(domain.ErrSourceUnavailable, "bybit tickers for %s: %v", pair.String(), err)
	}
	if len(tickers.Result.Spot.List) == 0 {
		return domain.PriceQuote{}, errors.Wrapf(domain.ErrSourceUnavailable, "bybit returned no price for %s", pair.String())
	}

	current, err := decimal.NewFromString(tickers.Result.Spot.List[0].LastPrice)
	if err != nil {
		return domain.PriceQuote{}, errors.Wrapf(err, "parse bybit price %q", tickers.Result.Spot.List[0].LastPrice)
	}

	limit := s.history
	klines, err := s.client.V5().Market().GetKline(bybit.V5GetKlineParam{
		Category: bybit.CategoryV5Spot,
		Symbol:   symbol,
		Interval: bybitAverageInterval,
		Limit:    &limit,
	})
	if err != nil {
		return domain.PriceQuote{}, errors.Wrapf(domain.ErrSourceUnavailable, "bybit klines for %s: %v", pair.String(), err)
	}

	candles := make([]domain.Candle, 0, len(klines.Result.List))
	for _, item := range klines.Result.List {
		candle, err := bybitCandle(item)
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

func bybitCandle(item bybit.V5GetKlineItem) (domain.Candle, error) {
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
		CloseTime: startTime,
	}, nil
}
