package trader

import (
	"context"
	"testing"
	"time"

	"github.com/dipward/dipward/internal/domain"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakePriceSource struct {
	quote domain.PriceQuote
	err   error
}

func (f *fakePriceSource) GetQuote(_ context.Context, _ domain.Pair) (domain.PriceQuote, error) {
	return f.quote, f.err
}

type fakeGateway struct {
	buyOutcome  domain.OrderOutcome
	sellOutcome domain.OrderOutcome
	buyErr      error
	sellErr     error

	buyCalls     int
	sellCalls    int
	sellQuantity decimal.Decimal
	sellPrice    decimal.Decimal
}

func (f *fakeGateway) PlaceMarketBuy(_ context.Context, _ domain.Pair, _ decimal.Decimal) (domain.OrderOutcome, error) {
	f.buyCalls++
	return f.buyOutcome, f.buyErr
}

func (f *fakeGateway) PlaceTakeProfitSell(_ context.Context, _ domain.Pair, baseQuantity, price decimal.Decimal) (domain.OrderOutcome, error) {
	f.sellCalls++
	f.sellQuantity = baseQuantity
	f.sellPrice = price
	return f.sellOutcome, f.sellErr
}

type fakeStore struct {
	last    *domain.TradeRecord
	lastErr error
	saveErr error
	saved   []domain.TradeRecord
}

func (f *fakeStore) Save(_ context.Context, record domain.TradeRecord) (domain.TradeRecord, error) {
	if f.saveErr != nil {
		return domain.TradeRecord{}, f.saveErr
	}
	f.saved = append(f.saved, record)
	return record, nil
}

func (f *fakeStore) GetLast(_ context.Context, pair domain.Pair) (domain.TradeRecord, error) {
	if f.lastErr != nil {
		return domain.TradeRecord{}, f.lastErr
	}
	if f.last == nil {
		return domain.TradeRecord{}, errors.Wrapf(domain.ErrNoTrades, "pair %s", pair.String())
	}
	return *f.last, nil
}

func testTradingConfig() domain.TradingConfig {
	return domain.TradingConfig{
		Pair:               domain.Pair{Base: "BTC", Quote: "USDT"},
		QuoteAssetQuantity: decimal.NewFromInt(100),
		BuyPercentage:      decimal.RequireFromString("-0.03"),
		SellPercentage:     decimal.RequireFromString("0.03"),
		DumpPercentage:     decimal.RequireFromString("-0.002"),
	}
}

func newTestTrader(t *testing.T, source PriceSource, gw OrderGateway, store TradeHistoryStore) *Trader {
	tr, err := NewTrader(zap.NewNop(), testTradingConfig(), source, gw, store)
	require.NoError(t, err)
	tr.now = func() time.Time { return time.UnixMilli(1630494000000).UTC() }
	return tr
}

func quote(current, average string) domain.PriceQuote {
	return domain.PriceQuote{
		Pair:         domain.Pair{Base: "BTC", Quote: "USDT"},
		CurrentPrice: decimal.RequireFromString(current),
		AveragePrice: decimal.RequireFromString(average),
	}
}

func TestTradeNoBuyNoSideEffects(t *testing.T) {
	gw := &fakeGateway{}
	store := &fakeStore{}
	tr := newTestTrader(t, &fakePriceSource{quote: quote("100", "100")}, gw, store)

	require.NoError(t, tr.Trade(context.Background()))
	require.Zero(t, gw.buyCalls)
	require.Zero(t, gw.sellCalls)
	require.Empty(t, store.saved)
}

func TestTradeBuyAndPersist(t *testing.T) {
	gw := &fakeGateway{
		buyOutcome:  domain.OrderOutcome{ID: "buy-1", Quantity: decimal.RequireFromString("0.002"), Price: decimal.RequireFromString("49753.17")},
		sellOutcome: domain.OrderOutcome{ID: "sell-1", Quantity: decimal.RequireFromString("0.002"), Price: decimal.RequireFromString("51245.77")},
	}
	store := &fakeStore{}
	tr := newTestTrader(t, &fakePriceSource{quote: quote("100", "100.25")}, gw, store)

	require.NoError(t, tr.Trade(context.Background()))

	require.Equal(t, 1, gw.buyCalls)
	require.Equal(t, 1, gw.sellCalls)
	require.True(t, gw.sellQuantity.Equal(decimal.RequireFromString("0.002")))
	// 49753.17 * 1.03 rounded to 2 decimals
	require.Equal(t, "51245.77", gw.sellPrice.String())

	require.Len(t, store.saved, 1)
	record := store.saved[0]
	require.Equal(t, "BTCUSDT/1630494000000", record.ID)
	require.Equal(t, "buy-1", record.BuyOrder.ID)
	require.Equal(t, "sell-1", record.SellOrder.ID)
	require.True(t, record.Evaluation.ShouldBuy)
}

func TestTradeSellFailureSkipsSave(t *testing.T) {
	gw := &fakeGateway{
		buyOutcome: domain.OrderOutcome{ID: "buy-1", Quantity: decimal.RequireFromString("0.002"), Price: decimal.RequireFromString("50000")},
		sellErr:    errors.Wrap(domain.ErrOrderRejected, "rejected"),
	}
	store := &fakeStore{}
	tr := newTestTrader(t, &fakePriceSource{quote: quote("100", "100.25")}, gw, store)

	err := tr.Trade(context.Background())
	require.ErrorIs(t, err, domain.ErrOrderRejected)
	require.Equal(t, 1, gw.buyCalls)
	require.Empty(t, store.saved, "no record may be saved after a failed sell")
}

func TestTradeBuyFailure(t *testing.T) {
	gw := &fakeGateway{buyErr: errors.Wrap(domain.ErrOrderRejected, "rejected")}
	store := &fakeStore{}
	tr := newTestTrader(t, &fakePriceSource{quote: quote("100", "100.25")}, gw, store)

	err := tr.Trade(context.Background())
	require.ErrorIs(t, err, domain.ErrOrderRejected)
	require.Zero(t, gw.sellCalls)
	require.Empty(t, store.saved)
}

func TestTradeUsesLastBuyPrice(t *testing.T) {
	// price 101 sits inside the hysteresis band around the last buy at 100,
	// so even with the dump on the average no buy happens
	last := domain.TradeRecord{
		BuyOrder: domain.OrderOutcome{Price: decimal.RequireFromString("100")},
	}
	gw := &fakeGateway{}
	store := &fakeStore{last: &last}
	tr := newTestTrader(t, &fakePriceSource{quote: quote("101", "105")}, gw, store)

	require.NoError(t, tr.Trade(context.Background()))
	require.Zero(t, gw.buyCalls)
}

func TestTradeQuoteError(t *testing.T) {
	store := &fakeStore{}
	tr := newTestTrader(t, &fakePriceSource{err: errors.Wrap(domain.ErrSourceUnavailable, "down")}, &fakeGateway{}, store)

	err := tr.Trade(context.Background())
	require.ErrorIs(t, err, domain.ErrSourceUnavailable)
	require.Empty(t, store.saved)
}

func TestTradeStoreErrorPropagates(t *testing.T) {
	gw := &fakeGateway{}
	store := &fakeStore{lastErr: errors.New("store down")}
	tr := newTestTrader(t, &fakePriceSource{quote: quote("100", "100.25")}, gw, store)

	err := tr.Trade(context.Background())
	require.Error(t, err)
	require.Zero(t, gw.buyCalls)
}
