package domain

import (
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// TradingConfig holds the strategy parameters for one pair. Immutable per run.
type TradingConfig struct {
	Pair Pair
	// QuoteAssetQuantity amount of the quote asset spent on every buy.
	QuoteAssetQuantity decimal.Decimal
	// BuyPercentage signed fraction, typically negative. A drop from the last
	// buy price at least this large re-arms buying.
	BuyPercentage decimal.Decimal
	// SellPercentage signed fraction, typically positive. Take-profit distance
	// above the buy price.
	SellPercentage decimal.Decimal
	// DumpPercentage signed fraction, typically negative. A drop from the
	// rolling average at least this large counts as a dump.
	DumpPercentage decimal.Decimal
}

// Validate checks the config invariants.
func (c *TradingConfig) Validate() error {
	if c.Pair.Base == "" || c.Pair.Quote == "" {
		return errors.New("trading config: pair is not set")
	}
	if !c.QuoteAssetQuantity.IsPositive() {
		return errors.Errorf("trading config: quote asset quantity must be positive, got %s", c.QuoteAssetQuantity.String())
	}
	return nil
}
