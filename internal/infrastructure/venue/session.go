package venue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"hedgesync/internal/domain"
	dservice "hedgesync/internal/domain/service"
)

// State is the protocol step a session is currently at. Transitions are
// linear; any step can jump to StateFailed and both StateDone and
// StateFailed are terminal.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateAppAuthenticated
	StateAccountAuthenticated
	StatePositionsReceived
	StateDealsPaginating
	StateTraderInfoReceived
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateAppAuthenticated:
		return "app_authenticated"
	case StateAccountAuthenticated:
		return "account_authenticated"
	case StatePositionsReceived:
		return "positions_received"
	case StateDealsPaginating:
		return "deals_paginating"
	case StateTraderInfoReceived:
		return "trader_info_received"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// DealWindowStep is the width of one deal-history page window.
const DealWindowStep = 7 * 24 * time.Hour

// SessionConfig wires one conversation. Pacing is the delay before each
// post-auth request (the venue rate-limits bursts); 0 disables it.
type SessionConfig struct {
	Transport    Transport
	Credentials  domain.VenueCredentials
	SymbolID     int64
	Side         domain.Side
	Pacing       time.Duration
	HistoryStart time.Time
	Now          func() time.Time
}

// Session drives a single conversation with the venue. One request in
// flight at a time; accumulators live on the session and are never
// shared across invocations. Not safe for concurrent use, by
// construction single-use.
type Session struct {
	tr           Transport
	creds        domain.VenueCredentials
	symbolID     int64
	side         domain.Side
	pacing       time.Duration
	historyStart time.Time
	now          func() time.Time

	state   State
	cursor  Cursor
	open    domain.OpenAggregate
	deals   domain.DealTotals
	balance float64
}

func NewSession(cfg SessionConfig) *Session {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Session{
		tr:           cfg.Transport,
		creds:        cfg.Credentials,
		symbolID:     cfg.SymbolID,
		side:         cfg.Side,
		pacing:       cfg.Pacing,
		historyStart: cfg.HistoryStart,
		now:          now,
		state:        StateDisconnected,
	}
}

// State reports the current protocol step.
func (s *Session) State() State { return s.state }

// Cursor reports the pagination cursor, meaningful from
// StateDealsPaginating onward.
func (s *Session) Cursor() Cursor { return s.cursor }

// Collect runs the full reconcile conversation:
// auth -> positions -> deal pages -> trader info. The connection is
// released on return regardless of outcome.
func (s *Session) Collect(ctx context.Context) (domain.AccountReport, error) {
	defer s.tr.Close()

	s.state = StateConnecting
	if err := s.authenticate(ctx); err != nil {
		return domain.AccountReport{}, s.fail(err)
	}

	var rec ReconcileRes
	if err := s.call(ctx, PayloadReconcileReq, ReconcileReq{AccountID: s.creds.AccountID}, PayloadReconcileRes, &rec); err != nil {
		return domain.AccountReport{}, s.fail(err)
	}
	s.open = dservice.AggregateOpenPositions(toDomainPositions(rec.Positions), s.symbolID, s.side)
	s.state = StatePositionsReceived
	log.Info().Int("positions", len(rec.Positions)).
		Float64("open_size", s.open.Size).
		Float64("avg_price", s.open.AvgPrice).
		Msg("venue positions reconciled")

	s.state = StateDealsPaginating
	s.cursor = NewCursor(s.historyStart, DealWindowStep, s.now())
	pages := 0
	for !s.cursor.Done() {
		req := DealListReq{
			AccountID:     s.creds.AccountID,
			FromTimestamp: s.cursor.WindowStart,
			ToTimestamp:   s.cursor.WindowEnd,
		}
		var page DealListRes
		if err := s.call(ctx, PayloadDealListReq, req, PayloadDealListRes, &page); err != nil {
			return domain.AccountReport{}, s.fail(&PartialDataError{Cursor: s.cursor, Err: err})
		}
		s.deals = dservice.AccumulateDeals(s.deals, toDomainDeals(page.Deals), s.symbolID)
		pages++
		s.cursor = s.cursor.Advance()
	}
	log.Info().Int("pages", pages).
		Float64("realized_pnl", s.deals.RealizedPnl).
		Float64("closed_swap", s.deals.ClosedSwap).
		Msg("venue deal history paginated")

	var tr TraderRes
	if err := s.call(ctx, PayloadTraderReq, TraderReq{AccountID: s.creds.AccountID}, PayloadTraderRes, &tr); err != nil {
		return domain.AccountReport{}, s.fail(err)
	}
	s.balance = domain.ScaleMoney(tr.Trader.Balance, tr.Trader.MoneyDigits)
	s.state = StateTraderInfoReceived
	log.Info().Float64("balance", s.balance).Msg("venue trader info received")

	s.state = StateDone
	return domain.AccountReport{
		AccountBalance: s.balance,
		Open:           s.open,
		Deals:          s.deals,
	}, nil
}

// RefreshToken runs the short token-refresh conversation: same auth
// prefix, then one RefreshToken round trip.
func (s *Session) RefreshToken(ctx context.Context) (domain.TokenPair, error) {
	defer s.tr.Close()

	s.state = StateConnecting
	if err := s.authenticate(ctx); err != nil {
		return domain.TokenPair{}, s.fail(err)
	}

	var res RefreshTokenRes
	req := RefreshTokenReq{RefreshToken: s.creds.RefreshToken}
	if err := s.call(ctx, PayloadRefreshTokenReq, req, PayloadRefreshTokenRes, &res); err != nil {
		return domain.TokenPair{}, s.fail(err)
	}
	s.state = StateDone
	log.Info().Msg("venue access token refreshed")
	return domain.TokenPair{AccessToken: res.AccessToken, RefreshToken: res.RefreshToken}, nil
}

// authenticate performs application then account auth back to back, no
// pacing: the venue expects both straight after connect.
func (s *Session) authenticate(ctx context.Context) error {
	app := ApplicationAuthReq{ClientID: s.creds.ClientID, ClientSecret: s.creds.ClientSecret}
	var appRes ApplicationAuthRes
	if err := s.exchange(ctx, PayloadApplicationAuthReq, app, PayloadApplicationAuthRes, &appRes); err != nil {
		return err
	}
	s.state = StateAppAuthenticated
	log.Info().Msg("venue application authorized")

	acct := AccountAuthReq{AccountID: s.creds.AccountID, AccessToken: s.creds.AccessToken}
	var acctRes AccountAuthRes
	if err := s.exchange(ctx, PayloadAccountAuthReq, acct, PayloadAccountAuthRes, &acctRes); err != nil {
		return err
	}
	s.state = StateAccountAuthenticated
	log.Info().Int64("account_id", acctRes.AccountID).Msg("venue account authorized")
	return nil
}

// call is exchange with the pacing delay applied first.
func (s *Session) call(ctx context.Context, reqPT PayloadType, body any, wantPT PayloadType, out any) error {
	if err := s.pace(ctx); err != nil {
		return err
	}
	return s.exchange(ctx, reqPT, body, wantPT, out)
}

// exchange sends one request and blocks until the matching response
// arrives, skipping anything else the venue pushes in between.
func (s *Session) exchange(ctx context.Context, reqPT PayloadType, body any, wantPT PayloadType, out any) error {
	msgID := uuid.NewString()
	frame, err := Encode(reqPT, msgID, body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProtocol, err)
	}
	if err := s.tr.Send(ctx, frame); err != nil {
		return connectionErr(err)
	}
	env, err := s.await(ctx, wantPT, msgID)
	if err != nil {
		return err
	}
	if err := env.DecodeBody(out); err != nil {
		return fmt.Errorf("%w: %v", ErrProtocol, err)
	}
	return nil
}

func (s *Session) await(ctx context.Context, want PayloadType, msgID string) (Envelope, error) {
	for {
		if ctx.Err() != nil {
			return Envelope{}, fmt.Errorf("%w: %v", ErrConnection, ctx.Err())
		}
		raw, err := s.tr.Recv(ctx)
		if err != nil {
			return Envelope{}, connectionErr(err)
		}
		env, err := Decode(raw)
		if err != nil {
			return Envelope{}, fmt.Errorf("%w: %v", ErrProtocol, err)
		}
		if env.PayloadType == PayloadErrorRes {
			return Envelope{}, s.classifyErrorRes(env, want)
		}
		if !env.Known() {
			log.Debug().Uint32("payload_type", uint32(env.PayloadType)).Msg("skipping unknown message")
			continue
		}
		if env.ClientMsgID != "" && env.ClientMsgID != msgID {
			log.Debug().Str("client_msg_id", env.ClientMsgID).Msg("skipping uncorrelated message")
			continue
		}
		if env.PayloadType != want {
			log.Debug().Uint32("payload_type", uint32(env.PayloadType)).Msg("skipping unexpected message")
			continue
		}
		return env, nil
	}
}

// classifyErrorRes maps an ErrorRes to an error kind: rejections of the
// two auth steps (and expired tokens anywhere) are AuthError, the rest
// is ProtocolError.
func (s *Session) classifyErrorRes(env Envelope, want PayloadType) error {
	var er ErrorRes
	if err := env.DecodeBody(&er); err != nil {
		return fmt.Errorf("%w: %v", ErrProtocol, err)
	}
	authStep := want == PayloadApplicationAuthRes || want == PayloadAccountAuthRes
	if authStep || er.ErrorCode == errorCodeTokenExpired || er.ErrorCode == errorCodeAuthDenied {
		return fmt.Errorf("%w: %s: %s", ErrAuth, er.ErrorCode, er.Description)
	}
	return fmt.Errorf("%w: %s: %s", ErrProtocol, er.ErrorCode, er.Description)
}

func (s *Session) pace(ctx context.Context) error {
	if s.pacing <= 0 {
		return nil
	}
	t := time.NewTimer(s.pacing)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", ErrConnection, ctx.Err())
	case <-t.C:
		return nil
	}
}

func (s *Session) fail(err error) error {
	s.state = StateFailed
	log.Error().Err(err).Str("state", s.state.String()).Msg("venue conversation failed")
	return err
}

func connectionErr(err error) error {
	if errors.Is(err, ErrConnection) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrConnection, err)
}

func toDomainPositions(in []Position) []domain.Position {
	out := make([]domain.Position, 0, len(in))
	for _, p := range in {
		out = append(out, domain.Position{
			SymbolID:    p.TradeData.SymbolID,
			Side:        domain.Side(p.TradeData.Side),
			Volume:      p.TradeData.Volume,
			Price:       p.Price,
			Swap:        p.Swap,
			UsedMargin:  p.UsedMargin,
			MoneyDigits: p.MoneyDigits,
			Open:        p.Status == positionStatusOpen,
		})
	}
	return out
}

func toDomainDeals(in []Deal) []domain.Deal {
	out := make([]domain.Deal, 0, len(in))
	for _, d := range in {
		dd := domain.Deal{
			SymbolID:   d.SymbolID,
			ExecutedAt: d.ExecutionTime,
		}
		if d.CloseDetail != nil {
			dd.Closing = true
			dd.GrossProfit = d.CloseDetail.GrossProfit
			dd.Swap = d.CloseDetail.Swap
			dd.MoneyDigits = d.CloseDetail.MoneyDigits
		}
		out = append(out, dd)
	}
	return out
}
