package strategy

import (
	"testing"

	"github.com/dipward/dipward/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func testConfig() domain.TradingConfig {
	return domain.TradingConfig{
		Pair:               domain.Pair{Base: "BTC", Quote: "USDT"},
		QuoteAssetQuantity: decimal.NewFromInt(100),
		BuyPercentage:      decimal.RequireFromString("-0.03"),
		SellPercentage:     decimal.RequireFromString("0.03"),
		DumpPercentage:     decimal.RequireFromString("-0.002"),
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestEvaluateNoLastBuy(t *testing.T) {
	cfg := testConfig()

	t.Run("dump triggers buy", func(t *testing.T) {
		// 100/100.25 - 1 rounds to -0.0025 <= -0.002
		evaluation := Evaluate(cfg, dec("100"), dec("100.25"), nil)
		require.True(t, evaluation.DumpFromAveragePrice)
		require.True(t, evaluation.ShouldBuy)
		require.Nil(t, evaluation.LastBuyPrice)
	})

	t.Run("no dump no buy", func(t *testing.T) {
		evaluation := Evaluate(cfg, dec("100"), dec("100"), nil)
		require.True(t, evaluation.AveragePriceChangePercentage.IsZero())
		require.False(t, evaluation.DumpFromAveragePrice)
		require.False(t, evaluation.ShouldBuy)
	})
}

func TestEvaluateBuyZone(t *testing.T) {
	cfg := testConfig()
	lastBuy := dec("100")

	t.Run("fallen past buy threshold, market calm", func(t *testing.T) {
		// change from last buy is exactly -0.03, no dump from average
		evaluation := Evaluate(cfg, dec("97"), dec("97"), &lastBuy)
		require.False(t, evaluation.DumpFromAveragePrice)
		require.Equal(t, "-0.03", evaluation.LastBuyPriceChangePercentage.String())
		require.True(t, evaluation.ShouldBuy)
	})

	t.Run("fallen past buy threshold, still dumping", func(t *testing.T) {
		evaluation := Evaluate(cfg, dec("97"), dec("100"), &lastBuy)
		require.True(t, evaluation.DumpFromAveragePrice)
		require.False(t, evaluation.ShouldBuy)
	})
}

func TestEvaluateSellZone(t *testing.T) {
	cfg := testConfig()
	lastBuy := dec("100")

	t.Run("risen past sell threshold with dump", func(t *testing.T) {
		// change from last buy is exactly +0.03
		evaluation := Evaluate(cfg, dec("103"), dec("104"), &lastBuy)
		require.Equal(t, "0.03", evaluation.LastBuyPriceChangePercentage.String())
		require.True(t, evaluation.DumpFromAveragePrice)
		require.True(t, evaluation.ShouldBuy)
	})

	t.Run("risen past sell threshold without dump", func(t *testing.T) {
		evaluation := Evaluate(cfg, dec("103"), dec("103"), &lastBuy)
		require.False(t, evaluation.DumpFromAveragePrice)
		require.False(t, evaluation.ShouldBuy)
	})
}

func TestEvaluateNeutralBand(t *testing.T) {
	cfg := testConfig()
	lastBuy := dec("100")

	// inside the band nothing triggers, dump or not
	for _, average := range []string{"101", "105"} {
		evaluation := Evaluate(cfg, dec("101"), dec(average), &lastBuy)
		require.False(t, evaluation.ShouldBuy, "average %s", average)
	}
}

func TestEvaluateRounding(t *testing.T) {
	cfg := testConfig()

	// 100/99 - 1 = 0.010101... rounds to 0.0101 at 4 decimals
	evaluation := Evaluate(cfg, dec("100"), dec("99"), nil)
	require.Equal(t, "0.0101", evaluation.AveragePriceChangePercentage.String())
}
