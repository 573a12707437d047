package port

import "context"

// ChainClient reads balances and accumulated staking rewards for the
// hedged asset's on-chain address. Amounts are in whole units, not
// base denominations.
type ChainClient interface {
	TotalBalance(ctx context.Context, address string) (float64, error)
	StakedBalance(ctx context.Context, address string) (float64, error)
	TotalRewards(ctx context.Context, address string) (float64, error)
}
