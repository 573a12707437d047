package domain

import "math"

// Side is the venue trade side of a position.
type Side int

const (
	SideBuy  Side = 1
	SideSell Side = 2
)

func (s Side) String() string {
	switch s {
	case SideBuy:
		return "buy"
	case SideSell:
		return "sell"
	default:
		return "unknown"
	}
}

// ParseSide maps a config string to a Side. Empty defaults to sell,
// which is the side the hedge book runs on.
func ParseSide(s string) Side {
	if s == "buy" {
		return SideBuy
	}
	return SideSell
}

// Position is one open or closed position as reported by the venue
// reconcile response. Monetary fields are venue-scaled integers: divide
// by 10^MoneyDigits to get the real value.
type Position struct {
	SymbolID    int64
	Side        Side
	Volume      int64
	Price       float64
	Swap        int64
	UsedMargin  int64
	MoneyDigits uint32
	Open        bool
}

// Deal is a historical fill. Only deals closing a position carry
// realized profit and swap.
type Deal struct {
	SymbolID    int64
	GrossProfit int64
	Swap        int64
	MoneyDigits uint32
	Closing     bool
	ExecutedAt  int64
}

// ScaleMoney converts a venue-scaled integer amount to its real value.
func ScaleMoney(v int64, digits uint32) float64 {
	return float64(v) / math.Pow10(int(digits))
}

// OpenAggregate is the per-symbol rollup of open positions.
// Size is signed: sell positions contribute negative size.
type OpenAggregate struct {
	Size     float64
	AvgPrice float64
	Swap     float64
	Margin   float64
}

// DealTotals accumulates realized results across deal-history pages.
type DealTotals struct {
	RealizedPnl float64
	ClosedSwap  float64
}

// AccountReport is the final result of one venue conversation.
type AccountReport struct {
	AccountBalance float64
	Open           OpenAggregate
	Deals          DealTotals
}

// VenueCredentials identifies the application and the trading account
// for one conversation.
type VenueCredentials struct {
	AccountID    int64
	ClientID     string
	ClientSecret string
	AccessToken  string
	RefreshToken string
}

// ReportRequest is everything a venue conversation needs to produce an
// AccountReport for one tracked symbol.
type ReportRequest struct {
	Credentials VenueCredentials
	SymbolID    int64
	Side        Side
}

// TokenPair is the result of a token-refresh conversation.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}
