// Copyright (c) 2026 The suisuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package gql

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/suisuite/suiwallet/sui"
)

const (
	// defaultCoinPageSize is the number of coins requested per page when
	// paging through an owner's coins.
	defaultCoinPageSize = 50

	// defaultRequestTimeout bounds a single HTTP round-trip when the
	// caller did not supply its own http.Client.
	defaultRequestTimeout = 30 * time.Second
)

// RPCClientConfig defines the options used when initializing the RPC
// client.
type RPCClientConfig struct {
	// URL is the GraphQL endpoint of the node, e.g.
	// "https://sui-mainnet.mystenlabs.com/graphql".
	URL string

	// HTTPClient optionally overrides the HTTP client used for requests.
	// If nil, a client with a default timeout is used.
	HTTPClient *http.Client

	// CoinPageSize optionally overrides the number of coins requested
	// per page. Zero selects the default.
	CoinPageSize int
}

// validate checks the required config options are set.
func (c *RPCClientConfig) validate() error {
	if c == nil {
		return errors.New("missing rpc config")
	}

	if c.URL == "" {
		return errors.New("missing node url")
	}

	if c.CoinPageSize < 0 {
		return errors.New("coin page size must be positive")
	}

	return nil
}

// RPCClient talks to a Sui GraphQL node over HTTP. It is stateless apart
// from the underlying http.Client and safe for concurrent use.
type RPCClient struct {
	cfg      *RPCClientConfig
	http     *http.Client
	pageSize int
}

// A compile-time check to ensure that RPCClient satisfies the Client
// interface.
var _ Client = (*RPCClient)(nil)

// NewRPCClient creates a client for the node named in the config.
func NewRPCClient(cfg *RPCClientConfig) (*RPCClient, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultRequestTimeout}
	}

	pageSize := cfg.CoinPageSize
	if pageSize == 0 {
		pageSize = defaultCoinPageSize
	}

	return &RPCClient{
		cfg:      cfg,
		http:     httpClient,
		pageSize: pageSize,
	}, nil
}

// rpcRequest is the JSON body of a GraphQL POST.
type rpcRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// rpcError is one entry of a GraphQL error list.
type rpcError struct {
	Message string `json:"message"`
}

// rpcResponse is the JSON envelope of a GraphQL response.
type rpcResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []rpcError      `json:"errors"`
}

// execute posts one GraphQL document and decodes the data payload into
// result. A transport failure is returned wrapped; a remote-reported error
// list is returned as a *QueryError carrying the messages verbatim.
func (c *RPCClient) execute(ctx context.Context, op, query string,
	vars map[string]any, result any) error {

	body, err := json.Marshal(&rpcRequest{Query: query, Variables: vars})
	if err != nil {
		return fmt.Errorf("encode %s request: %w", op, err)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.cfg.URL, bytes.NewReader(body),
	)
	if err != nil {
		return fmt.Errorf("build %s request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")

	log.Tracef("Executing %s against %s", op, c.cfg.URL)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute %s: %w", op, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s response: %w", op, err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("execute %s: unexpected status %d", op,
			resp.StatusCode)
	}

	var envelope rpcResponse
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("decode %s response: %w", op, err)
	}

	if len(envelope.Errors) > 0 {
		msgs := make([]string, 0, len(envelope.Errors))
		for _, e := range envelope.Errors {
			msgs = append(msgs, e.Message)
		}

		return &QueryError{Op: op, Message: strings.Join(msgs, "; ")}
	}

	if err := json.Unmarshal(envelope.Data, result); err != nil {
		return fmt.Errorf("decode %s data: %w", op, err)
	}

	return nil
}

// coinNode is the wire form of one coin in a coinsByOwner page.
type coinNode struct {
	Address     string `json:"address"`
	Version     uint64 `json:"version"`
	Digest      string `json:"digest"`
	CoinBalance string `json:"coinBalance"`
}

// decode converts the wire form into a Coin.
func (n *coinNode) decode() (Coin, error) {
	id, err := sui.ParseObjectID(n.Address)
	if err != nil {
		return Coin{}, err
	}

	digest, err := sui.ParseDigest(n.Digest)
	if err != nil {
		return Coin{}, err
	}

	balance, err := strconv.ParseUint(n.CoinBalance, 10, 64)
	if err != nil {
		return Coin{}, fmt.Errorf("parse coin balance %q: %w",
			n.CoinBalance, err)
	}

	return Coin{
		CoinObjectID: id,
		Version:      n.Version,
		Digest:       digest,
		Balance:      balance,
	}, nil
}

// CoinsByOwner returns one page of the coins owned by the given address.
func (c *RPCClient) CoinsByOwner(ctx context.Context, owner sui.Address,
	after string) (*CoinPage, error) {

	vars := map[string]any{
		"owner": owner.String(),
		"first": c.pageSize,
	}
	if after != "" {
		vars["after"] = after
	}

	var result struct {
		Address struct {
			Coins struct {
				PageInfo struct {
					HasNextPage bool    `json:"hasNextPage"`
					EndCursor   *string `json:"endCursor"`
				} `json:"pageInfo"`
				Nodes []coinNode `json:"nodes"`
			} `json:"coins"`
		} `json:"address"`
	}

	err := c.execute(ctx, "coinsByOwner", coinsByOwnerQuery, vars, &result)
	if err != nil {
		return nil, err
	}

	page := &CoinPage{
		Coins: make([]Coin, 0, len(result.Address.Coins.Nodes)),
		PageInfo: PageInfo{
			HasNextPage: result.Address.Coins.PageInfo.HasNextPage,
		},
	}
	if cursor := result.Address.Coins.PageInfo.EndCursor; cursor != nil {
		page.PageInfo.EndCursor = *cursor
	}

	for _, node := range result.Address.Coins.Nodes {
		coin, err := node.decode()
		if err != nil {
			return nil, fmt.Errorf("coinsByOwner: %w", err)
		}

		page.Coins = append(page.Coins, coin)
	}

	log.Debugf("Fetched %d coin(s) for %v, hasNextPage=%v",
		len(page.Coins), owner, page.PageInfo.HasNextPage)

	return page, nil
}

// CoinsByID returns the coin objects with the given IDs.
func (c *RPCClient) CoinsByID(ctx context.Context,
	ids []sui.ObjectID) ([]Coin, error) {

	idStrs := make([]string, 0, len(ids))
	for _, id := range ids {
		idStrs = append(idStrs, id.String())
	}

	var result struct {
		Objects struct {
			Nodes []struct {
				Address      string `json:"address"`
				Version      uint64 `json:"version"`
				Digest       string `json:"digest"`
				AsMoveObject *struct {
					AsCoin *struct {
						CoinBalance string `json:"coinBalance"`
					} `json:"asCoin"`
				} `json:"asMoveObject"`
			} `json:"nodes"`
		} `json:"objects"`
	}

	err := c.execute(
		ctx, "coinsByID", coinsByIDQuery,
		map[string]any{"ids": idStrs}, &result,
	)
	if err != nil {
		return nil, err
	}

	coins := make([]Coin, 0, len(result.Objects.Nodes))
	for _, node := range result.Objects.Nodes {
		if node.AsMoveObject == nil || node.AsMoveObject.AsCoin == nil {
			return nil, &QueryError{
				Op: "coinsByID",
				Message: fmt.Sprintf("object %s is not a coin",
					node.Address),
			}
		}

		wire := coinNode{
			Address:     node.Address,
			Version:     node.Version,
			Digest:      node.Digest,
			CoinBalance: node.AsMoveObject.AsCoin.CoinBalance,
		}

		coin, err := wire.decode()
		if err != nil {
			return nil, fmt.Errorf("coinsByID: %w", err)
		}

		coins = append(coins, coin)
	}

	return coins, nil
}

// DryRunTransactionKind simulates a transaction kind against current ledger
// state without committing any effects.
func (c *RPCClient) DryRunTransactionKind(ctx context.Context,
	req DryRunRequest) (*DryRunResult, error) {

	txMeta := map[string]any{
		"sender":   req.Sender.String(),
		"gasPrice": req.GasPrice,
	}
	req.Sponsor.WhenSome(func(sponsor sui.Address) {
		txMeta["gasSponsor"] = sponsor.String()
	})

	vars := map[string]any{
		"txBytes":    req.TxBytes,
		"txMeta":     txMeta,
		"skipChecks": req.SkipChecks,
	}

	var result struct {
		DryRunTransactionBlock struct {
			Error       *string `json:"error"`
			Transaction *struct {
				Effects struct {
					Status     string `json:"status"`
					GasEffects struct {
						GasSummary struct {
							ComputationCost string `json:"computationCost"`
							StorageCost     string `json:"storageCost"`
							StorageRebate   string `json:"storageRebate"`
						} `json:"gasSummary"`
					} `json:"gasEffects"`
				} `json:"effects"`
			} `json:"transaction"`
		} `json:"dryRunTransactionBlock"`
	}

	err := c.execute(ctx, "dryRunTransactionKind", dryRunQuery, vars,
		&result)
	if err != nil {
		return nil, err
	}

	dryRun := result.DryRunTransactionBlock

	// A node-level dry run error means the simulation itself could not
	// execute (e.g. unparseable bytes). Report it as a failed run with
	// the remote message preserved.
	if dryRun.Transaction == nil {
		out := &DryRunResult{Status: ExecutionStatusFailure}
		if dryRun.Error != nil {
			out.Errors = []string{*dryRun.Error}
		}

		return out, nil
	}

	effects := dryRun.Transaction.Effects
	summary := effects.GasEffects.GasSummary

	out := &DryRunResult{Status: ExecutionStatus(effects.Status)}
	if dryRun.Error != nil {
		out.Errors = append(out.Errors, *dryRun.Error)
	}

	if out.Status == ExecutionStatusSuccess {
		out.ComputationCost, err = strconv.ParseUint(
			summary.ComputationCost, 10, 64,
		)
		if err != nil {
			return nil, fmt.Errorf("parse computation cost %q: %w",
				summary.ComputationCost, err)
		}

		out.StorageCost, err = strconv.ParseUint(
			summary.StorageCost, 10, 64,
		)
		if err != nil {
			return nil, fmt.Errorf("parse storage cost %q: %w",
				summary.StorageCost, err)
		}

		// The rebate is optional in the schema.
		if summary.StorageRebate != "" {
			out.StorageRebate, err = strconv.ParseUint(
				summary.StorageRebate, 10, 64,
			)
			if err != nil {
				return nil, fmt.Errorf(
					"parse storage rebate %q: %w",
					summary.StorageRebate, err)
			}
		}
	}

	log.Debugf("Dry run finished: status=%v, computation=%d, storage=%d",
		out.Status, out.ComputationCost, out.StorageCost)

	return out, nil
}

// ReferenceGasPrice returns the reference gas price of the current epoch.
func (c *RPCClient) ReferenceGasPrice(ctx context.Context) (uint64, error) {
	var result struct {
		Epoch struct {
			ReferenceGasPrice string `json:"referenceGasPrice"`
		} `json:"epoch"`
	}

	err := c.execute(
		ctx, "referenceGasPrice", referenceGasPriceQuery, nil, &result,
	)
	if err != nil {
		return 0, err
	}

	price, err := strconv.ParseUint(
		result.Epoch.ReferenceGasPrice, 10, 64,
	)
	if err != nil {
		return 0, fmt.Errorf("parse reference gas price %q: %w",
			result.Epoch.ReferenceGasPrice, err)
	}

	return price, nil
}
