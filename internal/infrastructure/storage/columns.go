// Package storage holds what the postgres and sqlite snapshot repos
// share: the column whitelist for last-value reads.
package storage

// DerivedColumns whitelists the hedge_derived columns that
// LastDerivedValue may select. Column names are interpolated into SQL,
// so nothing outside this set is ever queried.
var DerivedColumns = map[string]struct{}{
	"unrealized_pnl":          {},
	"liquidation_value":       {},
	"chain_liquidation_value": {},
	"total_liquidation_value": {},
	"net_position":            {},
	"fees":                    {},
	"total_interest":          {},
	"interest_pnl":            {},
	"position_pnl":            {},
	"total_pnl":               {},
}

// Allowed reports whether column may be read back from hedge_derived.
func Allowed(column string) bool {
	_, ok := DerivedColumns[column]
	return ok
}
