package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"hedgesync/internal/application/port"
	"hedgesync/internal/domain"
	dservice "hedgesync/internal/domain/service"
)

// CollectDeps wires the collect flow's collaborators.
type CollectDeps struct {
	Venue   port.VenueReader
	Prices  port.PriceSource
	Chain   port.ChainClient
	Secrets port.SecretStore
	Repo    port.SnapshotRepo

	Market string
	Side   domain.Side
	DryRun bool
	Now    func() time.Time
}

// CollectService is the once-per-invocation reconcile flow: venue
// conversation, on-chain reads, market price, derived metrics, then one
// raw and one derived row. On any failure nothing is written, so the
// store only ever sees complete snapshots.
type CollectService struct {
	d CollectDeps
}

func NewCollectService(d CollectDeps) *CollectService {
	if d.Now == nil {
		d.Now = time.Now
	}
	return &CollectService{d: d}
}

func (s *CollectService) Run(ctx context.Context) error {
	creds, symbolID, address, err := s.loadInputs(ctx)
	if err != nil {
		return err
	}

	marketPrice, err := s.d.Prices.MarketPrice(ctx, s.d.Market)
	if err != nil {
		return fmt.Errorf("market price: %w", err)
	}

	chainBalance, err := s.d.Chain.TotalBalance(ctx, address)
	if err != nil {
		return fmt.Errorf("chain balance: %w", err)
	}
	chainStaked, err := s.d.Chain.StakedBalance(ctx, address)
	if err != nil {
		return fmt.Errorf("chain staked balance: %w", err)
	}
	chainRewards, err := s.d.Chain.TotalRewards(ctx, address)
	if err != nil {
		return fmt.Errorf("chain rewards: %w", err)
	}

	fundsMoved, err := s.loadFundsMoved(ctx)
	if err != nil {
		return err
	}

	report, err := s.d.Venue.FetchReport(ctx, domain.ReportRequest{
		Credentials: creds,
		SymbolID:    symbolID,
		Side:        s.d.Side,
	})
	if err != nil {
		return fmt.Errorf("venue report: %w", err)
	}

	priorLiq, hasLiq, err := s.d.Repo.LastDerivedValue(ctx, port.ColTotalLiquidationValue)
	if err != nil {
		return fmt.Errorf("read prior liquidation value: %w", err)
	}
	priorInterest, hasInterest, err := s.d.Repo.LastDerivedValue(ctx, port.ColTotalInterest)
	if err != nil {
		return fmt.Errorf("read prior interest: %w", err)
	}

	now := s.d.Now().Unix()
	raw := domain.RawSnapshot{
		UnixTime:       now,
		AccountBalance: report.AccountBalance,
		OpenSize:       report.Open.Size,
		OpenAvgPrice:   report.Open.AvgPrice,
		OpenSwap:       report.Open.Swap,
		OpenMargin:     report.Open.Margin,
		RealizedPnl:    report.Deals.RealizedPnl,
		ClosedSwap:     report.Deals.ClosedSwap,
		MarketPrice:    marketPrice,
		ChainBalance:   chainBalance,
		ChainStaked:    chainStaked,
		ChainRewards:   chainRewards,
		FundsMoved:     fundsMoved,
	}.Rounded()

	derived := dservice.Derive(dservice.DerivedInput{
		MarketPrice:        marketPrice,
		OpenSize:           report.Open.Size,
		OpenAvgPrice:       report.Open.AvgPrice,
		AccountBalance:     report.AccountBalance,
		ClosedSwap:         report.Deals.ClosedSwap,
		ChainBalance:       chainBalance,
		ChainRewards:       chainRewards,
		FundsMoved:         fundsMoved,
		PriorTotalLiq:      priorLiq,
		HasPriorLiq:        hasLiq,
		PriorTotalInterest: priorInterest,
		HasPriorInterest:   hasInterest,
	})
	derived.UnixTime = now
	derived = derived.Rounded()

	logSnapshots(raw, derived)

	if s.d.DryRun {
		log.Info().Msg("dry run, skipping persistence")
		return nil
	}

	if err := s.d.Repo.InsertRaw(ctx, raw); err != nil {
		return fmt.Errorf("insert raw snapshot: %w", err)
	}
	if err := s.d.Repo.InsertDerived(ctx, derived); err != nil {
		return fmt.Errorf("insert derived snapshot: %w", err)
	}
	log.Info().Int64("unix_time", now).Msg("snapshots persisted")
	return nil
}

func (s *CollectService) loadInputs(ctx context.Context) (domain.VenueCredentials, int64, string, error) {
	var creds domain.VenueCredentials

	accountID, err := s.secretInt(ctx, KeyAccountID)
	if err != nil {
		return creds, 0, "", err
	}
	symbolID, err := s.secretInt(ctx, KeySymbolID)
	if err != nil {
		return creds, 0, "", err
	}

	creds.AccountID = accountID
	if creds.ClientID, err = s.d.Secrets.Get(ctx, KeyClientID); err != nil {
		return creds, 0, "", fmt.Errorf("load %s: %w", KeyClientID, err)
	}
	if creds.ClientSecret, err = s.d.Secrets.Get(ctx, KeyClientSecret); err != nil {
		return creds, 0, "", fmt.Errorf("load %s: %w", KeyClientSecret, err)
	}
	if creds.AccessToken, err = s.d.Secrets.Get(ctx, KeyAccessToken); err != nil {
		return creds, 0, "", fmt.Errorf("load %s: %w", KeyAccessToken, err)
	}

	address, err := s.d.Secrets.Get(ctx, KeyChainAddress)
	if err != nil {
		return creds, 0, "", fmt.Errorf("load %s: %w", KeyChainAddress, err)
	}
	return creds, symbolID, address, nil
}

func (s *CollectService) secretInt(ctx context.Context, key string) (int64, error) {
	v, err := s.d.Secrets.Get(ctx, key)
	if err != nil {
		return 0, fmt.Errorf("load %s: %w", key, err)
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return n, nil
}

func (s *CollectService) loadFundsMoved(ctx context.Context) (float64, error) {
	v, err := s.d.Secrets.Get(ctx, KeyFundsMoved)
	if errors.Is(err, port.ErrSecretNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("load %s: %w", KeyFundsMoved, err)
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", KeyFundsMoved, err)
	}
	return f, nil
}

func logSnapshots(raw domain.RawSnapshot, derived domain.DerivedSnapshot) {
	log.Info().
		Float64("account_balance", raw.AccountBalance).
		Float64("open_size", raw.OpenSize).
		Float64("open_avg_price", raw.OpenAvgPrice).
		Float64("open_swap", raw.OpenSwap).
		Float64("open_margin", raw.OpenMargin).
		Float64("realized_pnl", raw.RealizedPnl).
		Float64("closed_swap", raw.ClosedSwap).
		Float64("market_price", raw.MarketPrice).
		Float64("chain_balance", raw.ChainBalance).
		Float64("chain_staked", raw.ChainStaked).
		Float64("chain_rewards", raw.ChainRewards).
		Float64("funds_moved", raw.FundsMoved).
		Msg("raw snapshot")
	log.Info().
		Float64("unrealized_pnl", derived.UnrealizedPnl).
		Float64("liquidation_value", derived.LiquidationValue).
		Float64("chain_liquidation_value", derived.ChainLiquidationValue).
		Float64("total_liquidation_value", derived.TotalLiquidationValue).
		Float64("net_position", derived.NetPosition).
		Float64("fees", derived.Fees).
		Float64("total_interest", derived.TotalInterest).
		Float64("interest_pnl", derived.InterestPnl).
		Float64("position_pnl", derived.PositionPnl).
		Float64("total_pnl", derived.TotalPnl).
		Msg("derived snapshot")
}
