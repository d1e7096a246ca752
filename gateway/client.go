// Copyright 2024 by the Authors
// This file is part of the go-core library.
//
// The go-core library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-core library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR ANY PURPOSE. See the GNU Lesser General Public
// License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-core library. If not, see <http://www.gnu.org/licenses/>.

package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/smartweave-go/evaluator/internal/evmlog"
)

// Config names the gateway endpoint; defaults mirror the local HTTP
// surface's query-parameter defaults.
type Config struct {
	Protocol string
	Host     string
	Port     int
}

// DefaultConfig points at the production Arweave gateway.
func DefaultConfig() Config {
	return Config{Protocol: "https", Host: "arweave.net", Port: 443}
}

// BaseURL renders "{protocol}://{host}[:{port}]", eliding the port when 80.
func (c Config) BaseURL() string {
	if c.Port == 80 {
		return fmt.Sprintf("%s://%s", c.Protocol, c.Host)
	}
	return fmt.Sprintf("%s://%s:%d", c.Protocol, c.Host, c.Port)
}

// Client is the REST + GraphQL reader against one gateway. It performs no
// retries of its own; transient failures are reported as *NetworkError for
// the caller to retry.
type Client struct {
	cfg  Config
	http *http.Client
	log  evmlog.Logger
}

// NewClient returns a Client against cfg, using http for transport. If
// http is nil, a client with a generous default timeout is constructed.
func NewClient(cfg Config, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{cfg: cfg, http: httpClient, log: evmlog.Root().New("module", "gateway", "host", cfg.Host)}
}

// HostURL returns the canonical gateway URL SMARTWEAVE_HOST() exposes to
// contract guests.
func (c *Client) HostURL() string { return c.cfg.BaseURL() }

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	body, err := c.getBytes(ctx, path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &ContractMalformed{Reason: fmt.Sprintf("decoding %s: %v", path, err)}
	}
	return nil
}

func (c *Client) getBytes(ctx context.Context, path string) ([]byte, error) {
	c.log.Debug("GET", "path", path)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL()+path, nil)
	if err != nil {
		return nil, &NetworkError{Op: "build request " + path, Err: err}
	}
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("request failed", "path", path, "err", err)
		return nil, &NetworkError{Op: "GET " + path, Err: err}
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Op: "read body " + path, Err: err}
	}
	if resp.StatusCode >= 400 {
		c.log.Warn("non-2xx response", "path", path, "status", resp.StatusCode)
		return nil, &NetworkError{Op: "GET " + path, Err: fmt.Errorf("status %d", resp.StatusCode)}
	}
	return body, nil
}

// GetNetworkInfo is GET /info.
func (c *Client) GetNetworkInfo(ctx context.Context) (*NetworkInfo, error) {
	var info NetworkInfo
	if err := c.getJSON(ctx, "/info", &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// GetTransaction is GET /tx/{id}.
func (c *Client) GetTransaction(ctx context.Context, txid string) (*TransactionMeta, error) {
	var meta TransactionMeta
	if err := c.getJSON(ctx, "/tx/"+txid, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// GetTransactionStatus is GET /tx/{id}/status.
func (c *Client) GetTransactionStatus(ctx context.Context, txid string) (*TxStatus, error) {
	var status TxStatus
	if err := c.getJSON(ctx, "/tx/"+txid+"/status", &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// GetBlockByHash is GET /block/hash/{h}.
func (c *Client) GetBlockByHash(ctx context.Context, hash string) (*BlockInfo, error) {
	var block BlockInfo
	if err := c.getJSON(ctx, "/block/hash/"+hash, &block); err != nil {
		return nil, err
	}
	return &block, nil
}

// GetTransactionData is GET /{id}, the raw transaction body.
func (c *Client) GetTransactionData(ctx context.Context, txid string) ([]byte, error) {
	return c.getBytes(ctx, "/"+txid)
}

// GetBundledContract is GET /{id} decoded as a BundledContract. A 4xx/5xx
// or malformed body is reported as *BundleMissing, since a contract
// loader treats either as "the bundle was not served".
func (c *Client) GetBundledContract(ctx context.Context, txid string) (*BundledContract, error) {
	body, err := c.getBytes(ctx, "/"+txid)
	if err != nil {
		return nil, &BundleMissing{TxID: txid}
	}
	var bc BundledContract
	if err := json.Unmarshal(body, &bc); err != nil {
		return nil, &BundleMissing{TxID: txid}
	}
	return &bc, nil
}

// GetWalletBalance is GET /wallet/{addr}/balance.
func (c *Client) GetWalletBalance(ctx context.Context, addr string) (string, error) {
	body, err := c.getBytes(ctx, "/wallet/"+addr+"/balance")
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// GetWalletLastTx is GET /wallet/{addr}/last_tx.
func (c *Client) GetWalletLastTx(ctx context.Context, addr string) (string, error) {
	body, err := c.getBytes(ctx, "/wallet/"+addr+"/last_tx")
	if err != nil {
		return "", err
	}
	return string(body), nil
}
