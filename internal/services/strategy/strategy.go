// Package strategy implements the hysteresis-based buy decision.
package strategy

import (
	"github.com/dipward/dipward/internal/domain"
	"github.com/shopspring/decimal"
)

const changePrecision = 4

// Evaluate decides whether to buy given the current price, the rolling
// average and the price of the last executed buy (nil when no trade has
// happened yet). Pure and deterministic.
//
// Without a last buy, a dump from the average is the only trigger. With one,
// three mutually exclusive zones apply, checked in order:
//
//  1. price fell at least BuyPercentage since the last buy: buy unless the
//     market is still dumping below the average;
//  2. price rose at least SellPercentage since the last buy: buy only on a
//     dump from the average;
//  3. price is inside the band: never buy.
//
// The asymmetry between the zones is the strategy's hysteresis and is
// intentional.
func Evaluate(cfg domain.TradingConfig, currentPrice, averagePrice decimal.Decimal, lastBuyPrice *decimal.Decimal) domain.Evaluation {
	averageChange := changePercentage(currentPrice, averagePrice)
	dump := averageChange.LessThanOrEqual(cfg.DumpPercentage)

	evaluation := domain.Evaluation{
		CurrentPrice:                 currentPrice,
		AveragePrice:                 averagePrice,
		AveragePriceChangePercentage: averageChange,
		DumpFromAveragePrice:         dump,
	}

	if lastBuyPrice == nil {
		evaluation.ShouldBuy = dump
		return evaluation
	}

	lastBuyChange := changePercentage(currentPrice, *lastBuyPrice)
	evaluation.LastBuyPrice = lastBuyPrice
	evaluation.LastBuyPriceChangePercentage = &lastBuyChange

	switch {
	case lastBuyChange.LessThanOrEqual(cfg.BuyPercentage):
		evaluation.ShouldBuy = !dump
	case lastBuyChange.GreaterThanOrEqual(cfg.SellPercentage):
		evaluation.ShouldBuy = dump
	default:
		evaluation.ShouldBuy = false
	}

	return evaluation
}

func changePercentage(current, reference decimal.Decimal) decimal.Decimal {
	return current.Div(reference).Sub(decimal.NewFromInt(1)).Round(changePrecision)
}
