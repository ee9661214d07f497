package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

// PricePoint is a single timestamped price value.
type PricePoint struct {
	// Timestamp epoch milliseconds.
	Timestamp int64
	// Value price at that instant.
	Value decimal.Decimal
}

// NormalizePoints returns a copy of points sorted by descending timestamp,
// most recent first. The order of points sharing a timestamp is unspecified.
// The input slice is not modified.
func NormalizePoints(points []PricePoint) []PricePoint {
	normalized := make([]PricePoint, len(points))
	copy(normalized, points)

	sort.Slice(normalized, func(i, j int) bool {
		return normalized[i].Timestamp > normalized[j].Timestamp
	})

	return normalized
}
