package domain

import "math"

// RawSnapshot is one append-only row of collected inputs.
type RawSnapshot struct {
	UnixTime       int64
	AccountBalance float64
	OpenSize       float64
	OpenAvgPrice   float64
	OpenSwap       float64
	OpenMargin     float64
	RealizedPnl    float64
	ClosedSwap     float64
	MarketPrice    float64
	ChainBalance   float64
	ChainStaked    float64
	ChainRewards   float64
	FundsMoved     float64
}

// DerivedSnapshot is one append-only row of computed metrics.
type DerivedSnapshot struct {
	UnixTime              int64
	UnrealizedPnl         float64
	LiquidationValue      float64
	ChainLiquidationValue float64
	TotalLiquidationValue float64
	NetPosition           float64
	Fees                  float64
	TotalInterest         float64
	InterestPnl           float64
	PositionPnl           float64
	TotalPnl              float64
}

// Round rounds to 5 decimal places. Applied only when a snapshot is
// persisted or logged, never between derived calculations.
func Round(v float64) float64 {
	return math.Round(v*1e5) / 1e5
}

// Rounded returns a copy with every metric rounded for persistence.
func (s RawSnapshot) Rounded() RawSnapshot {
	s.AccountBalance = Round(s.AccountBalance)
	s.OpenSize = Round(s.OpenSize)
	s.OpenAvgPrice = Round(s.OpenAvgPrice)
	s.OpenSwap = Round(s.OpenSwap)
	s.OpenMargin = Round(s.OpenMargin)
	s.RealizedPnl = Round(s.RealizedPnl)
	s.ClosedSwap = Round(s.ClosedSwap)
	s.MarketPrice = Round(s.MarketPrice)
	s.ChainBalance = Round(s.ChainBalance)
	s.ChainStaked = Round(s.ChainStaked)
	s.ChainRewards = Round(s.ChainRewards)
	s.FundsMoved = Round(s.FundsMoved)
	return s
}

// Rounded returns a copy with every metric rounded for persistence.
func (s DerivedSnapshot) Rounded() DerivedSnapshot {
	s.UnrealizedPnl = Round(s.UnrealizedPnl)
	s.LiquidationValue = Round(s.LiquidationValue)
	s.ChainLiquidationValue = Round(s.ChainLiquidationValue)
	s.TotalLiquidationValue = Round(s.TotalLiquidationValue)
	s.NetPosition = Round(s.NetPosition)
	s.Fees = Round(s.Fees)
	s.TotalInterest = Round(s.TotalInterest)
	s.InterestPnl = Round(s.InterestPnl)
	s.PositionPnl = Round(s.PositionPnl)
	s.TotalPnl = Round(s.TotalPnl)
	return s
}
