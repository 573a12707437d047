package port

import "context"

// PriceSource returns the current market price for a named market,
// e.g. "DOT/USD".
type PriceSource interface {
	MarketPrice(ctx context.Context, market string) (float64, error)
}
