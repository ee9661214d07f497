// Package domain defines the core data structures of the trading bot.
package domain

import "fmt"

// Pair cryptocurrency trading pair.
type Pair struct {
	// Base currency symbol, the asset being bought and sold.
	Base string
	// Quote currency symbol, the pricing and settlement asset.
	Quote string
}

// String returns the string representation.
func (p *Pair) String() string {
	return fmt.Sprintf("%s_%s", p.Base, p.Quote)
}

// Symbol returns the concatenated symbol representation.
func (p *Pair) Symbol() string {
	return fmt.Sprintf("%s%s", p.Base, p.Quote)
}
