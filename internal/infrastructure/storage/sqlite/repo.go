package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"hedgesync/internal/application/port"
	"hedgesync/internal/domain"
	"hedgesync/internal/infrastructure/storage"
)

type Repo struct {
	db *sql.DB
}

func New(path string) (*Repo, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		_ = os.MkdirAll(dir, 0o755)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	r := &Repo{db: db}
	if err := r.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return r, nil
}

func (r *Repo) Close() error { return r.db.Close() }

func (r *Repo) migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS hedge_raw (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  unix_time INTEGER NOT NULL,
  account_balance REAL,
  open_size REAL,
  open_avg_price REAL,
  open_swap REAL,
  open_margin REAL,
  realized_pnl REAL,
  closed_swap REAL,
  market_price REAL,
  chain_balance REAL,
  chain_staked REAL,
  chain_rewards REAL,
  funds_moved REAL
);
CREATE INDEX IF NOT EXISTS idx_hedge_raw_ts ON hedge_raw(unix_time);

CREATE TABLE IF NOT EXISTS hedge_derived (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  unix_time INTEGER NOT NULL,
  unrealized_pnl REAL,
  liquidation_value REAL,
  chain_liquidation_value REAL,
  total_liquidation_value REAL,
  net_position REAL,
  fees REAL,
  total_interest REAL,
  interest_pnl REAL,
  position_pnl REAL,
  total_pnl REAL
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
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
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
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
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
