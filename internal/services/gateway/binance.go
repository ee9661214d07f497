// Package gateway implements exchange order gateways.
package gateway

import (
	"context"

	"github.com/adshao/go-binance/v2"
	"github.com/adshao/go-binance/v2/common"
	"github.com/dipward/dipward/internal/domain"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const (
	buyClientPrefix  = "dipward-buy-"
	sellClientPrefix = "dipward-tp-"

	quantityPrecision = 8
)

// BinanceGateway places spot orders on Binance.
type BinanceGateway struct {
	client *binance.Client
}

// NewBinanceGateway creates a Binance order gateway.
func NewBinanceGateway(client *binance.Client) *BinanceGateway {
	return &BinanceGateway{client: client}
}

// PlaceMarketBuy spends quoteQuantity of the quote asset on a market buy and
// returns the executed base quantity and the effective fill price.
func (g *BinanceGateway) PlaceMarketBuy(ctx context.Context, pair domain.Pair, quoteQuantity decimal.Decimal) (domain.OrderOutcome, error) {
	order, err := g.client.NewCreateOrderService().
		Symbol(pair.Symbol()).
		Side(binance.SideTypeBuy).
		Type(binance.OrderTypeMarket).
		QuoteOrderQty(quoteQuantity.String()).
		NewClientOrderID(buyClientPrefix + uuid.NewString()).
		Do(ctx)
	if err != nil {
		return domain.OrderOutcome{}, classifyBinanceError(err, "binance market buy for "+pair.String())
	}

	executedQty, err := decimal.NewFromString(order.ExecutedQuantity)
	if err != nil {
		return domain.OrderOutcome{}, errors.Wrapf(err, "parse executed quantity %q", order.ExecutedQuantity)
	}
	spentQuote, err := decimal.NewFromString(order.CummulativeQuoteQuantity)
	if err != nil {
		return domain.OrderOutcome{}, errors.Wrapf(err, "parse cumulative quote quantity %q", order.CummulativeQuoteQuantity)
	}
	if executedQty.IsZero() {
		return domain.OrderOutcome{}, errors.Wrapf(domain.ErrOrderRejected, "binance market buy for %s filled nothing", pair.String())
	}

	return domain.OrderOutcome{
		ID:       order.ClientOrderID,
		Quantity: executedQty,
		Price:    spentQuote.Div(executedQty),
	}, nil
}

// PlaceTakeProfitSell places a take-profit limit sell of baseQuantity at the
// given price threshold.
func (g *BinanceGateway) PlaceTakeProfitSell(ctx context.Context, pair domain.Pair, baseQuantity, price decimal.Decimal) (domain.OrderOutcome, error) {
	quantity := baseQuantity.RoundFloor(quantityPrecision)

	order, err := g.client.NewCreateOrderService().
		Symbol(pair.Symbol()).
		Side(binance.SideTypeSell).
		Type(binance.OrderTypeTakeProfitLimit).
		TimeInForce(binance.TimeInForceTypeGTC).
		Quantity(quantity.String()).
		Price(price.String()).
		StopPrice(price.String()).
		NewClientOrderID(sellClientPrefix + uuid.NewString()).
		Do(ctx)
	if err != nil {
		return domain.OrderOutcome{}, classifyBinanceError(err, "binance take-profit sell for "+pair.String())
	}

	return domain.OrderOutcome{
		ID:       order.ClientOrderID,
		Quantity: quantity,
		Price:    price,
	}, nil
}

func classifyBinanceError(err error, msg string) error {
	if apiErr, ok := err.(*common.APIError); ok {
		return errors.Wrapf(domain.ErrOrderRejected, "%s: %s", msg, apiErr.Error())
	}
	return errors.Wrapf(domain.ErrSourceUnavailable, "%s: %v", msg, err)
}
