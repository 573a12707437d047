package venue

import (
	"context"
	"time"

	"hedgesync/internal/application/port"
	"hedgesync/internal/domain"
)

const (
	defaultPacing  = 3 * time.Second
	defaultTimeout = 5 * time.Minute
)

// ClientConfig selects the endpoint and the conversation parameters.
type ClientConfig struct {
	Host         string
	Port         int
	Pacing       time.Duration
	Timeout      time.Duration
	HistoryStart time.Time
}

// Client opens one fresh session per call. It holds no connection
// between calls; every conversation dials, runs and releases.
type Client struct {
	cfg ClientConfig
}

func NewClient(cfg ClientConfig) *Client {
	if cfg.Pacing == 0 {
		cfg.Pacing = defaultPacing
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Client{cfg: cfg}
}

func (c *Client) FetchReport(ctx context.Context, req domain.ReportRequest) (domain.AccountReport, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	tr, err := Dial(ctx, c.cfg.Host, c.cfg.Port)
	if err != nil {
		return domain.AccountReport{}, err
	}
	sess := NewSession(SessionConfig{
		Transport:    tr,
		Credentials:  req.Credentials,
		SymbolID:     req.SymbolID,
		Side:         req.Side,
		Pacing:       c.cfg.Pacing,
		HistoryStart: c.cfg.HistoryStart,
	})
	return sess.Collect(ctx)
}

func (c *Client) RefreshToken(ctx context.Context, creds domain.VenueCredentials) (domain.TokenPair, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	tr, err := Dial(ctx, c.cfg.Host, c.cfg.Port)
	if err != nil {
		return domain.TokenPair{}, err
	}
	sess := NewSession(SessionConfig{
		Transport:   tr,
		Credentials: creds,
		Pacing:      c.cfg.Pacing,
	})
	return sess.RefreshToken(ctx)
}

var (
	_ port.VenueReader         = (*Client)(nil)
	_ port.VenueTokenRefresher = (*Client)(nil)
)
