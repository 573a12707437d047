package venue

// Request and response bodies. Field names follow the venue's wire
// naming.

type ApplicationAuthReq struct {
	ClientID     string `json:"clientId"`
	ClientSecret string `json:"clientSecret"`
}

type ApplicationAuthRes struct{}

type AccountAuthReq struct {
	AccountID   int64  `json:"ctidTraderAccountId"`
	AccessToken string `json:"accessToken"`
}

type AccountAuthRes struct {
	AccountID int64 `json:"ctidTraderAccountId"`
}

type ReconcileReq struct {
	AccountID int64 `json:"ctidTraderAccountId"`
}

type ReconcileRes struct {
	AccountID int64      `json:"ctidTraderAccountId"`
	Positions []Position `json:"position"`
}

type TradeData struct {
	SymbolID int64 `json:"symbolId"`
	Volume   int64 `json:"volume"`
	Side     int   `json:"tradeSide"`
	OpenTime int64 `json:"openTimestamp,omitempty"`
}

const positionStatusOpen = 1

type Position struct {
	PositionID  int64     `json:"positionId"`
	TradeData   TradeData `json:"tradeData"`
	Price       float64   `json:"price"`
	Swap        int64     `json:"swap"`
	UsedMargin  int64     `json:"usedMargin"`
	MoneyDigits uint32    `json:"moneyDigits"`
	Status      int       `json:"positionStatus"`
}

type DealListReq struct {
	AccountID     int64 `json:"ctidTraderAccountId"`
	FromTimestamp int64 `json:"fromTimestamp"`
	ToTimestamp   int64 `json:"toTimestamp"`
	MaxRows       int   `json:"maxRows,omitempty"`
}

type DealListRes struct {
	AccountID int64  `json:"ctidTraderAccountId"`
	Deals     []Deal `json:"deal"`
	HasMore   bool   `json:"hasMore,omitempty"`
}

type ClosePositionDetail struct {
	GrossProfit int64  `json:"grossProfit"`
	Swap        int64  `json:"swap"`
	MoneyDigits uint32 `json:"moneyDigits"`
}

type Deal struct {
	DealID        int64                `json:"dealId"`
	SymbolID      int64                `json:"symbolId"`
	ExecutionTime int64                `json:"executionTimestamp"`
	CloseDetail   *ClosePositionDetail `json:"closePositionDetail,omitempty"`
}

type TraderReq struct {
	AccountID int64 `json:"ctidTraderAccountId"`
}

type Trader struct {
	Balance     int64  `json:"balance"`
	MoneyDigits uint32 `json:"moneyDigits"`
}

type TraderRes struct {
	AccountID int64  `json:"ctidTraderAccountId"`
	Trader    Trader `json:"trader"`
}

type RefreshTokenReq struct {
	RefreshToken string `json:"refreshToken"`
}

type RefreshTokenRes struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresInSeconds,omitempty"`
}

// errorCodeTokenExpired and friends arrive in an ErrorRes when a
// request is rejected.
const (
	errorCodeTokenExpired = "CH_ACCESS_TOKEN_INVALID"
	errorCodeAuthDenied   = "OA_AUTH_TOKEN_EXPIRED"
)

type ErrorRes struct {
	ErrorCode   string `json:"errorCode"`
	Description string `json:"description"`
}
