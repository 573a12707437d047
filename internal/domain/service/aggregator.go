package service

import (
	"math"

	"hedgesync/internal/domain"
)

// AggregateOpenPositions rolls up the open positions matching the
// tracked symbol and side. Sell positions contribute negative size, so
// a pure short book aggregates to a negative Size. The weighted average
// entry price is |sum(size*price)| / |sum(size)|, defined as 0 when the
// aggregate size is 0.
func AggregateOpenPositions(positions []domain.Position, symbolID int64, side domain.Side) domain.OpenAggregate {
	var agg domain.OpenAggregate
	var weighted float64

	for _, p := range positions {
		if !p.Open || p.SymbolID != symbolID || p.Side != side {
			continue
		}
		volume := domain.ScaleMoney(p.Volume, p.MoneyDigits)
		if p.Side == domain.SideSell {
			volume = -volume
		}
		agg.Size += volume
		agg.Swap += domain.ScaleMoney(p.Swap, p.MoneyDigits)
		agg.Margin += domain.ScaleMoney(p.UsedMargin, p.MoneyDigits)
		weighted += volume * p.Price
	}

	if agg.Size != 0 {
		agg.AvgPrice = math.Abs(weighted) / math.Abs(agg.Size)
	}
	return agg
}

// AccumulateDeals merges one page of deal history into the running
// totals. Only deals for the tracked symbol that closed a position
// carry realized profit and swap. Merging is order-independent, so
// pages from disjoint time windows can arrive in any order.
func AccumulateDeals(acc domain.DealTotals, deals []domain.Deal, symbolID int64) domain.DealTotals {
	for _, d := range deals {
		if d.SymbolID != symbolID || !d.Closing {
			continue
		}
		acc.RealizedPnl += domain.ScaleMoney(d.GrossProfit, d.MoneyDigits)
		acc.ClosedSwap += domain.ScaleMoney(d.Swap, d.MoneyDigits)
	}
	return acc
}
