package service

// Secret-store keys. The operator seeds these once; the token-refresh
// flow rotates the two token keys.
const (
	KeyAccountID    = "venue-account-id"
	KeyClientID     = "venue-client-id"
	KeyClientSecret = "venue-client-secret"
	KeyAccessToken  = "venue-access-token"
	KeyRefreshToken = "venue-refresh-token"
	KeySymbolID     = "venue-symbol-id"
	KeyChainAddress = "chain-address"

	// KeyFundsMoved is the operator-maintained total of units moved
	// on-chain, used by the fee approximation. Missing reads as 0.
	KeyFundsMoved = "hedge-funds-moved"
)
