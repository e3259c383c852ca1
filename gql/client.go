// Copyright (c) 2026 The suisuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package gql defines the boundary to a Sui GraphQL RPC node. The Client
// interface is the capability the rest of the module is written against,
// and RPCClient is the concrete implementation speaking GraphQL over HTTP.
package gql

import (
	"context"
	"fmt"

	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/suisuite/suiwallet/sui"
)

// Client is the remote query capability required by the wallet. A client
// answers three kinds of questions: which coins exist (by ID or by owner,
// with cursor pagination), what a transaction kind would cost if executed
// now (dry run), and what the current reference gas price is.
//
// Implementations must be safe for concurrent use; the wallet may resolve
// gas for independent transactions in parallel.
type Client interface {
	// CoinsByOwner returns one page of the coins owned by the given
	// address. The after cursor selects the page; the empty cursor
	// requests the first page. Callers follow PageInfo.EndCursor until
	// PageInfo.HasNextPage is false.
	CoinsByOwner(ctx context.Context, owner sui.Address,
		after string) (*CoinPage, error)

	// CoinsByID returns the coin objects with the given IDs.
	CoinsByID(ctx context.Context, ids []sui.ObjectID) ([]Coin, error)

	// DryRunTransactionKind simulates a transaction kind against current
	// ledger state without committing any effects, returning the
	// execution status and gas cost breakdown.
	DryRunTransactionKind(ctx context.Context,
		req DryRunRequest) (*DryRunResult, error)

	// ReferenceGasPrice returns the reference gas price of the current
	// epoch, in Mist per gas unit.
	ReferenceGasPrice(ctx context.Context) (uint64, error)
}

// Coin is a read-only snapshot of a fungible coin object fetched from the
// ledger. It is never mutated locally; a fresh snapshot is fetched per
// resolution call.
type Coin struct {
	// CoinObjectID identifies the coin object.
	CoinObjectID sui.ObjectID

	// Version is the object version the snapshot was taken at.
	Version uint64

	// Digest is the content digest of the object at Version.
	Digest sui.Digest

	// Balance is the coin's value in Mist.
	Balance uint64
}

// Ref returns the object reference pinning this coin snapshot.
func (c Coin) Ref() sui.ObjectRef {
	return sui.ObjectRef{
		ID:      c.CoinObjectID,
		Version: c.Version,
		Digest:  c.Digest,
	}
}

// PageInfo carries the pagination state of a coin query.
type PageInfo struct {
	// HasNextPage is true when more results exist past EndCursor.
	HasNextPage bool

	// EndCursor is the cursor of the last item in this page. Only
	// meaningful when HasNextPage is true.
	EndCursor string
}

// CoinPage is one page of an owner's coins.
type CoinPage struct {
	// Coins holds this page's coins in retrieval order.
	Coins []Coin

	// PageInfo describes whether and how to fetch the next page.
	PageInfo PageInfo
}

// DryRunRequest describes a transaction-kind simulation.
type DryRunRequest struct {
	// TxBytes is the base64-encoded serialized transaction kind.
	TxBytes string

	// Sender is the address the simulation runs as.
	Sender sui.Address

	// GasPrice is the gas price the simulation assumes.
	GasPrice uint64

	// Sponsor optionally names a distinct fee-paying address; it is
	// simulation metadata only.
	Sponsor fn.Option[sui.Address]

	// SkipChecks disables state-change validity checks so the run
	// measures cost only. Validity may depend on a gas payment that has
	// not been resolved yet, so cost estimation must not require it.
	SkipChecks bool
}

// ExecutionStatus is the remote-reported outcome of a (simulated)
// execution.
type ExecutionStatus string

const (
	// ExecutionStatusSuccess indicates the execution succeeded.
	ExecutionStatusSuccess ExecutionStatus = "SUCCESS"

	// ExecutionStatusFailure indicates the execution aborted.
	ExecutionStatusFailure ExecutionStatus = "FAILURE"
)

// DryRunResult is the outcome of a transaction-kind simulation.
type DryRunResult struct {
	// Status is the simulated execution status.
	Status ExecutionStatus

	// ComputationCost is the computation charge in Mist.
	ComputationCost uint64

	// StorageCost is the storage charge in Mist.
	StorageCost uint64

	// StorageRebate is the storage rebate in Mist. Informational; it
	// does not reduce the budget a transaction must carry.
	StorageRebate uint64

	// Errors holds the remote-reported execution errors, verbatim, when
	// Status is not success.
	Errors []string
}

// QueryError is returned when the remote node answered a request but
// reported a query-level failure (bad filter, unknown object, malformed
// document). Transport failures are returned as plain wrapped errors
// instead, so callers can tell "the node said no" from "the node was
// unreachable".
type QueryError struct {
	// Op names the query that failed.
	Op string

	// Message is the remote-reported error text, verbatim.
	Message string
}

// Error returns the remote message prefixed with the failing operation.
func (e *QueryError) Error() string {
	return fmt.Sprintf("query %s: %s", e.Op, e.Message)
}
