package pricefeed

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"hedgesync/internal/application/port"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// RESTSource reads the spot market price from the exchange's public
// markets endpoint. No auth needed for a price read.
type RESTSource struct {
	baseURL string
	http    *http.Client
}

func NewRESTSource(baseURL string) *RESTSource {
	return &RESTSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

type marketResponse struct {
	Success bool `json:"success"`
	Result  struct {
		Name  string  `json:"name"`
		Price float64 `json:"price"`
	} `json:"result"`
}

func (s *RESTSource) MarketPrice(ctx context.Context, market string) (float64, error) {
	endpoint := fmt.Sprintf("%s/markets/%s", s.baseURL, url.PathEscape(market))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, err
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("market price request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("market price http %d", resp.StatusCode)
	}

	var out marketResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("market price decode: %w", err)
	}
	if !out.Success {
		return 0, fmt.Errorf("market %s lookup rejected", market)
	}
	if out.Result.Price <= 0 {
		return 0, fmt.Errorf("market %s returned price %v", market, out.Result.Price)
	}
	return out.Result.Price, nil
}

var _ port.PriceSource = (*RESTSource)(nil)
