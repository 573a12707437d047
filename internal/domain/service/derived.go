package service

import "hedgesync/internal/domain"

// DerivedInput carries everything the derived metrics need: the venue
// aggregates, the market price, on-chain figures and the previous
// persisted totals. HasPriorLiq / HasPriorInterest distinguish a real
// prior value from a first run, where both period deltas are 0.
type DerivedInput struct {
	MarketPrice    float64
	OpenSize       float64
	OpenAvgPrice   float64
	AccountBalance float64
	ClosedSwap     float64

	ChainBalance float64
	ChainRewards float64
	FundsMoved   float64

	PriorTotalLiq      float64
	HasPriorLiq        bool
	PriorTotalInterest float64
	HasPriorInterest   bool
}

// Derive computes the point-in-time metrics. Nothing here is rounded;
// rounding happens once, at the persistence boundary, so downstream
// fields never compound rounding error from upstream ones.
//
// The fee formula does not yet account for funds withdrawn to external
// exchanges. Known approximation, kept as documented.
func Derive(in DerivedInput) domain.DerivedSnapshot {
	var d domain.DerivedSnapshot

	// OpenSize is signed (short book is negative), hence the leading
	// negation: a rising market yields a positive magnitude here.
	d.UnrealizedPnl = -(in.MarketPrice - in.OpenAvgPrice) * in.OpenSize
	d.LiquidationValue = in.AccountBalance + d.UnrealizedPnl
	d.ChainLiquidationValue = in.MarketPrice * in.ChainBalance
	d.TotalLiquidationValue = d.LiquidationValue + d.ChainLiquidationValue

	d.NetPosition = in.ChainBalance - in.OpenSize
	d.Fees = in.FundsMoved - in.ChainBalance + in.ChainRewards
	d.TotalInterest = in.ChainRewards*in.MarketPrice + in.ClosedSwap

	if in.HasPriorInterest {
		d.InterestPnl = d.TotalInterest - in.PriorTotalInterest
	}
	if in.HasPriorLiq {
		d.PositionPnl = d.TotalLiquidationValue - in.PriorTotalLiq
	}
	d.TotalPnl = d.PositionPnl + d.InterestPnl

	return d
}
