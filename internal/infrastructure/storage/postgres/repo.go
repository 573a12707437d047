package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"

	"hedgesync/internal/application/port"
	"hedgesync/internal/domain"
	"hedgesync/internal/infrastructure/storage"
)

type Repo struct {
	db *sql.DB
}

func New(dsn string) (*Repo, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(2)
	db.SetMaxIdleConns(1)

	r := &Repo{db: db}
	if err := r.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return r, nil
}

// NewWithDB wraps an existing handle and skips migration. Used by the
// sqlmock tests.
func NewWithDB(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) Close() error { return r.db.Close() }

func (r *Repo) migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS hedge_raw (
  id BIGSERIAL PRIMARY KEY,
  unix_time BIGINT NOT NULL,
  account_balance DOUBLE PRECISION,
  open_size DOUBLE PRECISION,
  open_avg_price DOUBLE PRECISION,
  open_swap DOUBLE PRECISION,
  open_margin DOUBLE PRECISION,
  realized_pnl DOUBLE PRECISION,
  closed_swap DOUBLE PRECISION,
  market_price DOUBLE PRECISION,
  chain_balance DOUBLE PRECISION,
  chain_staked DOUBLE PRECISION,
  chain_rewards DOUBLE PRECISION,
  funds_moved DOUBLE PRECISION
);
CREATE INDEX IF NOT EXISTS idx_hedge_raw_ts ON hedge_raw(unix_time);

CREATE TABLE IF NOT EXISTS hedge_derived (
  id BIGSERIAL PRIMARY KEY,
  unix_time BIGINT NOT NULL,
  unrealized_pnl DOUBLE PRECISION,
  liquidation_value DOUBLE PRECISION,
  chain_liquidation_value DOUBLE PRECISION,
  total_liquidation_value DOUBLE PRECISION,
  net_position DOUBLE PRECISION,
  fees DOUBLE PRECISION,
  total_interest DOUBLE PRECISION,
  interest_pnl DOUBLE PRECISION,
  position_pnl DOUBLE PRECISION,
  total_pnl DOUBLE PRECISION
);
CREATE INDEX IF NOT EXISTS idx_hedge_derived_ts ON hedge_derived(unix_time);
`)
	return err
}

func (r *Repo) InsertRaw(ctx context.Context, row domain.RawSnapshot) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO hedge_raw (
			unix_time, account_balance, open_size, open_avg_price, open_swap,
			open_margin, realized_pnl, closed_swap, market_price,
			chain_balance, chain_staked, chain_rewards, funds_moved
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		row.UnixTime, row.AccountBalance, row.OpenSize, row.OpenAvgPrice, row.OpenSwap,
		row.OpenMargin, row.RealizedPnl, row.ClosedSwap, row.MarketPrice,
		row.ChainBalance, row.ChainStaked, row.ChainRewards, row.FundsMoved,
	)
	return err
}

func (r *Repo) InsertDerived(ctx context.Context, row domain.DerivedSnapshot) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO hedge_derived (
			unix_time, unrealized_pnl, liquidation_value, chain_liquidation_value,
			total_liquidation_value, net_position, fees, total_interest,
			interest_pnl, position_pnl, total_pnl
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		row.UnixTime, row.UnrealizedPnl, row.LiquidationValue, row.ChainLiquidationValue,
		row.TotalLiquidationValue, row.NetPosition, row.Fees, row.TotalInterest,
		row.InterestPnl, row.PositionPnl, row.TotalPnl,
	)
	return err
}

func (r *Repo) LastDerivedValue(ctx context.Context, column string) (float64, bool, error) {
	if !storage.Allowed(column) {
		return 0, false, fmt.Errorf("column %q not readable", column)
	}
	var v float64
	query := fmt.Sprintf(`SELECT %s FROM hedge_derived ORDER BY unix_time DESC LIMIT 1`, column)
	err := r.db.QueryRowContext(ctx, query).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return v, true, nil
}

var _ port.SnapshotRepo = (*Repo)(nil)
