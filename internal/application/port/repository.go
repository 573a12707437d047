package port

import (
	"context"

	"hedgesync/internal/domain"
)

// Derived columns readable through LastDerivedValue.
const (
	ColTotalLiquidationValue = "total_liquidation_value"
	ColTotalInterest         = "total_interest"
)

// SnapshotRepo persists the append-only raw and derived time series.
type SnapshotRepo interface {
	InsertRaw(ctx context.Context, row domain.RawSnapshot) error
	InsertDerived(ctx context.Context, row domain.DerivedSnapshot) error

	// LastDerivedValue returns the named column from the most recent
	// derived row by unix_time. ok is false when no row exists yet,
	// which is distinct from a legitimate stored zero.
	LastDerivedValue(ctx context.Context, column string) (value float64, ok bool, err error)

	Close() error
}
