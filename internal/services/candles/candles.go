// Package candles implements exchange-backed candlestick sources used by the
// historical backfill.
package candles

import (
	"time"

	"github.com/adshao/go-binance/v2"
	"github.com/dipward/dipward/internal/domain"
	"github.com/dipward/dipward/internal/services/backfill"
	"github.com/hirokisan/bybit/v2"
	"github.com/pkg/errors"
)

// Exchange identifiers accepted by ForExchange.
const (
	ExchangeBinance = "binance"
	ExchangeBybit   = "bybit"
)

// Clients bundles the exchange clients a source may be built from.
type Clients struct {
	Binance *binance.Client
	Bybit   *bybit.Client
}

// ForExchange returns the candle source for the named exchange.
func ForExchange(exchange string, clients Clients) (backfill.CandleSource, error) {
	switch exchange {
	case ExchangeBinance:
		if clients.Binance == nil {
			return nil, errors.Errorf("binance client is not configured")
		}
		return NewBinanceCandleSource(clients.Binance), nil
	case ExchangeBybit:
		if clients.Bybit == nil {
			return nil, errors.Errorf("bybit client is not configured")
		}
		return NewBybitCandleSource(clients.Bybit), nil
	default:
		return nil, errors.Wrapf(domain.ErrUnsupportedExchange, "exchange %q", exchange)
	}
}

func binanceInterval(interval time.Duration) (string, error) {
	switch interval {
	case time.Minute:
		return "1m", nil
	case 3 * time.Minute:
		return "3m", nil
	case 5 * time.Minute:
		return "5m", nil
	case 15 * time.Minute:
		return "15m", nil
	case time.Hour:
		return "1h", nil
	case 4 * time.Hour:
		return "4h", nil
	case 24 * time.Hour:
		return "1d", nil
	default:
		return "", errors.Errorf("unsupported candle interval %s", interval)
	}
}

func bybitInterval(interval time.Duration) (bybit.Interval, error) {
	switch interval {
	case time.Minute:
		return bybit.Interval("1"), nil
	case 3 * time.Minute:
		return bybit.Interval("3"), nil
	case 5 * time.Minute:
		return bybit.Interval("5"), nil
	case 15 * time.Minute:
		return bybit.Interval("15"), nil
	case time.Hour:
		return bybit.Interval("60"), nil
	case 4 * time.Hour:
		return bybit.Interval("240"), nil
	case 24 * time.Hour:
		return bybit.Interval("D"), nil
	default:
		return "", errors.Errorf("unsupported candle interval %s", interval)
	}
}
