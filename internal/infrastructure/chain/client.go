package chain

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"

	"hedgesync/internal/application/port"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// plancksPerUnit scales the chain's base denomination to whole units.
const plancksPerUnit = 1e10

// Client reads account state over the node's websocket JSON-RPC
// endpoint and accumulated staking rewards from an indexer HTTP API.
// Each RPC call dials a fresh connection; this job makes three calls
// per invocation, so holding a connection open buys nothing.
type Client struct {
	rpcURL     string
	rewardsURL string
	http       *http.Client
}

func NewClient(rpcURL, rewardsURL string) *Client {
	return &Client{
		rpcURL:     rpcURL,
		rewardsURL: rewardsURL,
		http:       &http.Client{Timeout: 30 * time.Second},
	}
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	Result jsoniter.RawMessage `json:"result"`
	Error  *rpcError           `json:"error"`
}

func (c *Client) rpcCall(ctx context.Context, method string, params any) (jsoniter.RawMessage, error) {
	dctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	conn, _, err := websocket.DefaultDialer.DialContext(dctx, c.rpcURL, nil)
	if err != nil {
		return nil, fmt.Errorf("chain rpc dial: %w", err)
	}
	defer conn.Close()

	if dl, ok := ctx.Deadline(); ok {
		_ = conn.SetWriteDeadline(dl)
		_ = conn.SetReadDeadline(dl)
	} else {
		_ = conn.SetWriteDeadline(time.Now().Add(30 * time.Second))
		_ = conn.SetReadDeadline(time.Now().Add(30 * time.Second))
	}

	if err := conn.WriteJSON(rpcRequest{JSONRPC: "2.0", ID: 1, Method: method, Params: params}); err != nil {
		return nil, fmt.Errorf("chain rpc write: %w", err)
	}
	var res rpcResponse
	if err := conn.ReadJSON(&res); err != nil {
		return nil, fmt.Errorf("chain rpc read: %w", err)
	}
	if res.Error != nil {
		return nil, fmt.Errorf("chain rpc %s: %d %s", method, res.Error.Code, res.Error.Message)
	}
	return res.Result, nil
}

func (c *Client) TotalBalance(ctx context.Context, address string) (float64, error) {
	raw, err := c.rpcCall(ctx, "system_account", []string{address})
	if err != nil {
		return 0, err
	}
	var out struct {
		Data struct {
			Free string `json:"free"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return 0, fmt.Errorf("chain balance decode: %w", err)
	}
	return plancksToUnits(out.Data.Free)
}

func (c *Client) StakedBalance(ctx context.Context, address string) (float64, error) {
	raw, err := c.rpcCall(ctx, "staking_ledger", []string{address})
	if err != nil {
		return 0, err
	}
	var out struct {
		Active string `json:"active"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return 0, fmt.Errorf("chain staked decode: %w", err)
	}
	return plancksToUnits(out.Active)
}

func (c *Client) TotalRewards(ctx context.Context, address string) (float64, error) {
	body, err := json.Marshal(map[string]any{
		"row":     100,
		"page":    0,
		"address": address,
	})
	if err != nil {
		return 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.rewardsURL, bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("rewards request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("rewards http %d", resp.StatusCode)
	}

	var out struct {
		Data struct {
			List []struct {
				Amount string `json:"amount"`
			} `json:"list"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("rewards decode: %w", err)
	}

	var total float64
	for _, reward := range out.Data.List {
		v, err := plancksToUnits(reward.Amount)
		if err != nil {
			return 0, err
		}
		total += v
	}
	return total, nil
}

func plancksToUnits(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse chain amount %q: %w", s, err)
	}
	return v / plancksPerUnit, nil
}

var _ port.ChainClient = (*Client)(nil)
