package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Evaluation is the outcome of one hysteresis decision. Built fresh on every
// call, never mutated afterwards.
type Evaluation struct {
	CurrentPrice                 decimal.Decimal  `json:"current_price"`
	AveragePrice                 decimal.Decimal  `json:"average_price"`
	AveragePriceChangePercentage decimal.Decimal  `json:"average_price_change_percentage"`
	DumpFromAveragePrice         bool             `json:"dump_from_average_price"`
	LastBuyPrice                 *decimal.Decimal `json:"last_buy_price,omitempty"`
	LastBuyPriceChangePercentage *decimal.Decimal `json:"last_buy_price_change_percentage,omitempty"`
	ShouldBuy                    bool             `json:"should_buy"`
}

// OrderOutcome holds the settled results of a placed order, not the intent.
type OrderOutcome struct {
	ID       string          `json:"id"`
	Quantity decimal.Decimal `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// TradeRecord is one executed buy plus its take-profit sell. Records are
// created once and never updated in place; the store keeps a "last" pointer
// to the most recent one.
type TradeRecord struct {
	ID           string       `json:"id"`
	Pair         Pair         `json:"pair"`
	CreationDate time.Time    `json:"creation_date"`
	Evaluation   Evaluation   `json:"evaluation"`
	BuyOrder     OrderOutcome `json:"buy_order"`
	SellOrder    OrderOutcome `json:"sell_order"`
}

// NewTradeRecordID formats the record identifier. Uniqueness relies on the
// millisecond creation time.
func NewTradeRecordID(pair Pair, createdAt time.Time) string {
	return fmt.Sprintf("%s/%d", pair.Symbol(), createdAt.UnixMilli())
}
