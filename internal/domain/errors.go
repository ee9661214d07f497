package domain

import "github.com/pkg/errors"

var (
	// ErrInsufficientData means a calculator got fewer points than the
	// requested period needs.
	ErrInsufficientData = errors.New("not enough data points")
	// ErrUnsupportedType means an unknown indicator type was requested.
	ErrUnsupportedType = errors.New("unsupported indicator type")
	// ErrUnsupportedExchange means an unknown exchange identifier was requested.
	ErrUnsupportedExchange = errors.New("unsupported exchange")
	// ErrSourceUnavailable wraps transport failures of a downstream collaborator.
	ErrSourceUnavailable = errors.New("source unavailable")
	// ErrOrderRejected means the exchange refused an order.
	ErrOrderRejected = errors.New("order rejected")
	// ErrNoTrades means the trade history store holds no records yet.
	ErrNoTrades = errors.New("no trades found")
)
