package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"hedgesync/internal/application/port"
	"hedgesync/internal/domain"
)

type mockVenue struct {
	report domain.AccountReport
	err    error
	gotReq domain.ReportRequest
}

func (m *mockVenue) FetchReport(_ context.Context, req domain.ReportRequest) (domain.AccountReport, error) {
	m.gotReq = req
	return m.report, m.err
}

type mockPrices struct {
	price float64
	err   error
}

func (m *mockPrices) MarketPrice(context.Context, string) (float64, error) {
	return m.price, m.err
}

type mockChain struct {
	balance, staked, rewards float64
}

func (m *mockChain) TotalBalance(context.Context, string) (float64, error)  { return m.balance, nil }
func (m *mockChain) StakedBalance(context.Context, string) (float64, error) { return m.staked, nil }
func (m *mockChain) TotalRewards(context.Context, string) (float64, error)  { return m.rewards, nil }

type mockSecrets struct {
	values map[string]string
}

func (m *mockSecrets) Get(_ context.Context, key string) (string, error) {
	v, ok := m.values[key]
	if !ok {
		return "", port.ErrSecretNotFound
	}
	return v, nil
}

func (m *mockSecrets) Set(_ context.Context, key, value string) error {
	m.values[key] = value
	return nil
}

type mockRepo struct {
	last     map[string]float64
	raws     []domain.RawSnapshot
	deriveds []domain.DerivedSnapshot
}

func (m *mockRepo) InsertRaw(_ context.Context, row domain.RawSnapshot) error {
	m.raws = append(m.raws, row)
	return nil
}

func (m *mockRepo) InsertDerived(_ context.Context, row domain.DerivedSnapshot) error {
	m.deriveds = append(m.deriveds, row)
	return nil
}

func (m *mockRepo) LastDerivedValue(_ context.Context, column string) (float64, bool, error) {
	v, ok := m.last[column]
	return v, ok, nil
}

func (m *mockRepo) Close() error { return nil }

func testSecrets() *mockSecrets {
	return &mockSecrets{values: map[string]string{
		KeyAccountID:    "42",
		KeyClientID:     "cid",
		KeyClientSecret: "sec",
		KeyAccessToken:  "tok",
		KeySymbolID:     "22",
		KeyChainAddress: "addr1",
	}}
}

func testDeps(venue *mockVenue, repo *mockRepo) CollectDeps {
	return CollectDeps{
		Venue:   venue,
		Prices:  &mockPrices{price: 12},
		Chain:   &mockChain{balance: 150, staked: 100, rewards: 4},
		Secrets: testSecrets(),
		Repo:    repo,
		Market:  "DOT/USD",
		Side:    domain.SideSell,
		Now:     func() time.Time { return time.Unix(1700000000, 0) },
	}
}

func testReport() domain.AccountReport {
	return domain.AccountReport{
		AccountBalance: 3000,
		Open:           domain.OpenAggregate{Size: -100, AvgPrice: 10, Swap: -2.5, Margin: 1000},
		Deals:          domain.DealTotals{RealizedPnl: 12, ClosedSwap: -2},
	}
}

func TestCollectFirstRunWritesBothRows(t *testing.T) {
	venue := &mockVenue{report: testReport()}
	repo := &mockRepo{last: map[string]float64{}}
	svc := NewCollectService(testDeps(venue, repo))

	if err := svc.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if venue.gotReq.SymbolID != 22 || venue.gotReq.Credentials.AccountID != 42 {
		t.Errorf("venue request not built from secrets: %+v", venue.gotReq)
	}
	if len(repo.raws) != 1 || len(repo.deriveds) != 1 {
		t.Fatalf("expected one raw and one derived row, got %d/%d", len(repo.raws), len(repo.deriveds))
	}

	raw := repo.raws[0]
	if raw.UnixTime != 1700000000 {
		t.Errorf("unexpected raw timestamp %d", raw.UnixTime)
	}
	if raw.OpenSize != -100 || raw.MarketPrice != 12 || raw.ChainBalance != 150 {
		t.Errorf("raw row not assembled from inputs: %+v", raw)
	}

	derived := repo.deriveds[0]
	// first run: no prior row, both period deltas are 0
	if derived.PositionPnl != 0 || derived.InterestPnl != 0 || derived.TotalPnl != 0 {
		t.Errorf("first-run policy violated: %+v", derived)
	}
	if derived.UnrealizedPnl != 200 {
		t.Errorf("expected unrealized pnl 200, got %v", derived.UnrealizedPnl)
	}
	if derived.TotalLiquidationValue != 5000 {
		t.Errorf("expected total liquidation value 5000, got %v", derived.TotalLiquidationValue)
	}
}

func TestCollectUsesPriorRowForDeltas(t *testing.T) {
	venue := &mockVenue{report: testReport()}
	repo := &mockRepo{last: map[string]float64{
		port.ColTotalLiquidationValue: 4700,
		port.ColTotalInterest:         40,
	}}
	svc := NewCollectService(testDeps(venue, repo))

	if err := svc.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	derived := repo.deriveds[0]
	if derived.PositionPnl != 300 {
		t.Errorf("expected position pnl 300, got %v", derived.PositionPnl)
	}
	if derived.InterestPnl != 6 { // (4*12 - 2) - 40
		t.Errorf("expected interest pnl 6, got %v", derived.InterestPnl)
	}
	if derived.TotalPnl != 306 {
		t.Errorf("expected total pnl 306, got %v", derived.TotalPnl)
	}
}

func TestCollectDryRunWritesNothing(t *testing.T) {
	venue := &mockVenue{report: testReport()}
	repo := &mockRepo{last: map[string]float64{}}
	deps := testDeps(venue, repo)
	deps.DryRun = true
	svc := NewCollectService(deps)

	if err := svc.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(repo.raws) != 0 || len(repo.deriveds) != 0 {
		t.Errorf("dry run persisted rows: %d/%d", len(repo.raws), len(repo.deriveds))
	}
}

func TestCollectVenueFailureWritesNothing(t *testing.T) {
	venue := &mockVenue{err: errors.New("conversation failed")}
	repo := &mockRepo{last: map[string]float64{}}
	svc := NewCollectService(testDeps(venue, repo))

	if err := svc.Run(context.Background()); err == nil {
		t.Fatal("expected venue failure to propagate")
	}
	if len(repo.raws) != 0 || len(repo.deriveds) != 0 {
		t.Errorf("failed run persisted rows: %d/%d", len(repo.raws), len(repo.deriveds))
	}
}

func TestCollectMissingFundsMovedDefaultsToZero(t *testing.T) {
	venue := &mockVenue{report: testReport()}
	repo := &mockRepo{last: map[string]float64{}}
	svc := NewCollectService(testDeps(venue, repo))

	if err := svc.Run(context.Background()); err != nil {
		t.Fatalf("Run failed without funds-moved key: %v", err)
	}
	// fees = 0 - 150 + 4
	if repo.deriveds[0].Fees != -146 {
		t.Errorf("expected fees -146, got %v", repo.deriveds[0].Fees)
	}
}

func TestCollectMissingCredentialFails(t *testing.T) {
	venue := &mockVenue{report: testReport()}
	repo := &mockRepo{last: map[string]float64{}}
	deps := testDeps(venue, repo)
	delete(deps.Secrets.(*mockSecrets).values, KeyAccessToken)
	svc := NewCollectService(deps)

	err := svc.Run(context.Background())
	if !errors.Is(err, port.ErrSecretNotFound) {
		t.Fatalf("expected missing secret error, got %v", err)
	}
}

func TestCollectRoundsAtPersistence(t *testing.T) {
	report := testReport()
	report.Open.AvgPrice = 10.0000012345
	venue := &mockVenue{report: report}
	repo := &mockRepo{last: map[string]float64{}}
	svc := NewCollectService(testDeps(venue, repo))

	if err := svc.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if repo.raws[0].OpenAvgPrice != 10 {
		t.Errorf("expected avg price rounded to 5 places, got %v", repo.raws[0].OpenAvgPrice)
	}
}
