// Package trader executes the buy-the-dip strategy: it evaluates the market
// and, when instructed, places a market buy followed by a take-profit sell
// and persists the resulting trade record.
package trader

import (
	"context"
	"time"

	"github.com/dipward/dipward/internal/domain"
	"github.com/dipward/dipward/internal/services/strategy"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const sellPricePrecision = 2

// PriceSource provides the current and rolling-average price of a pair.
type PriceSource interface {
	GetQuote(ctx context.Context, pair domain.Pair) (domain.PriceQuote, error)
}

// OrderGateway places orders on the exchange and reports their settled outcome.
type OrderGateway interface {
	PlaceMarketBuy(ctx context.Context, pair domain.Pair, quoteQuantity decimal.Decimal) (domain.OrderOutcome, error)
	PlaceTakeProfitSell(ctx context.Context, pair domain.Pair, baseQuantity, price decimal.Decimal) (domain.OrderOutcome, error)
}

// TradeHistoryStore persists trade records and exposes the most recent one.
type TradeHistoryStore interface {
	Save(ctx context.Context, record domain.TradeRecord) (domain.TradeRecord, error)
	GetLast(ctx context.Context, pair domain.Pair) (domain.TradeRecord, error)
}

// Trader makes trades for a specific trade pair.
type Trader struct {
	cfg     domain.TradingConfig
	source  PriceSource
	gateway OrderGateway
	store   TradeHistoryStore
	logger  *zap.Logger
	now     func() time.Time
}

// NewTrader creates a Trader.
func NewTrader(logger *zap.Logger, cfg domain.TradingConfig, source PriceSource, gateway OrderGateway, store TradeHistoryStore) (*Trader, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Trader{
		cfg:     cfg,
		source:  source,
		gateway: gateway,
		store:   store,
		logger:  logger,
		now:     time.Now,
	}, nil
}

// Trade runs one decision cycle. The quote and the last trade record are
// read concurrently; both must succeed before evaluation. If the evaluation
// says not to buy, Trade returns with no side effects. Otherwise it places a
// market buy, then a take-profit sell for the executed quantity, then saves
// the trade record. Errors propagate unmodified and abort the sequence: if
// the sell fails after a filled buy, the position stays open and no record
// is saved. The trader itself never retries.
func (t *Trader) Trade(ctx context.Context) error {
	var quote domain.PriceQuote
	var lastBuyPrice *decimal.Decimal

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		quote, err = t.source.GetQuote(gctx, t.cfg.Pair)
		return errors.Wrapf(err, "get quote for %s", t.cfg.Pair.String())
	})
	g.Go(func() error {
		last, err := t.store.GetLast(gctx, t.cfg.Pair)
		if err != nil {
			if errors.Is(err, domain.ErrNoTrades) {
				return nil
			}
			return errors.Wrapf(err, "get last trade for %s", t.cfg.Pair.String())
		}
		lastBuyPrice = &last.BuyOrder.Price
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	evaluation := strategy.Evaluate(t.cfg, quote.CurrentPrice, quote.AveragePrice, lastBuyPrice)

	t.logger.Debug("market evaluated",
		zap.String("pair", t.cfg.Pair.String()),
		zap.String("current_price", evaluation.CurrentPrice.String()),
		zap.String("average_price", evaluation.AveragePrice.String()),
		zap.String("average_change", evaluation.AveragePriceChangePercentage.String()),
		zap.Bool("dump", evaluation.DumpFromAveragePrice),
		zap.Bool("should_buy", evaluation.ShouldBuy))

	if !evaluation.ShouldBuy {
		return nil
	}

	buy, err := t.gateway.PlaceMarketBuy(ctx, t.cfg.Pair, t.cfg.QuoteAssetQuantity)
	if err != nil {
		return errors.Wrapf(err, "market buy failed for %s", t.cfg.Pair.String())
	}

	t.logger.Info("buy executed",
		zap.String("pair", t.cfg.Pair.String()),
		zap.String("order_id", buy.ID),
		zap.String("quantity", buy.Quantity.String()),
		zap.String("price", buy.Price.String()))

	sellPrice := buy.Price.Mul(decimal.NewFromInt(1).Add(t.cfg.SellPercentage)).Round(sellPricePrecision)

	sell, err := t.gateway.PlaceTakeProfitSell(ctx, t.cfg.Pair, buy.Quantity, sellPrice)
	if err != nil {
		// the buy already filled: the position is left open and no record is
		// saved, compensation is up to the operator
		return errors.Wrapf(err, "take-profit sell failed for %s after buy %s", t.cfg.Pair.String(), buy.ID)
	}

	t.logger.Info("take-profit sell placed",
		zap.String("pair", t.cfg.Pair.String()),
		zap.String("order_id", sell.ID),
		zap.String("quantity", sell.Quantity.String()),
		zap.String("price", sell.Price.String()))

	createdAt := t.now()
	record := domain.TradeRecord{
		ID:           domain.NewTradeRecordID(t.cfg.Pair, createdAt),
		Pair:         t.cfg.Pair,
		CreationDate: createdAt,
		Evaluation:   evaluation,
		BuyOrder:     buy,
		SellOrder:    sell,
	}

	if _, err := t.store.Save(ctx, record); err != nil {
		return errors.Wrapf(err, "save trade record %s", record.ID)
	}

	t.logger.Info("trade recorded", zap.String("id", record.ID))

	return nil
}
