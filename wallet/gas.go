// Copyright (c) 2026 The suisuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package wallet implements client-side funding of Sui transactions: given
// a transaction kind and a signing context, it selects the gas coins that
// pay for execution, estimates the budget through a dry run when none is
// given, and assembles the GasData structure the transaction encoder
// consumes.
package wallet

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/suisuite/suiwallet/gql"
	"github.com/suisuite/suiwallet/sui"
)

var (
	// ErrMixedCoinSource is returned when a caller-supplied coin source
	// names coins both by ID and as fetched objects. A source must be
	// one or the other.
	ErrMixedCoinSource = errors.New("gas coins must be given either as " +
		"ids or as objects, not both")

	// ErrZeroGasBudget is returned when an explicit budget of zero is
	// supplied. Omit the budget instead to have it estimated.
	ErrZeroGasBudget = errors.New("explicit gas budget must be positive")

	// ErrZeroGasPrice is returned when the gas price is missing from a
	// resolution request.
	ErrZeroGasPrice = errors.New("gas price must be positive")

	// ErrMissingSigner is returned when a resolution request carries no
	// signing context.
	ErrMissingSigner = errors.New("missing signer block")

	// ErrNoFundingCoins is returned when, after removing coins already
	// committed elsewhere in the transaction, no candidate coins remain
	// to even attempt selection with.
	ErrNoFundingCoins = errors.New("no coin objects found to fund " +
		"transaction")

	// ErrInsufficientGas is returned when the candidate coins exist but
	// collectively fall short of the required budget. The wrapped
	// message reports both the total found and the budget required.
	ErrInsufficientGas = errors.New("insufficient gas coins")
)

// SimulationError is returned when a budget-estimation dry run executed but
// reported a non-success status. Errs holds the remote-reported errors
// verbatim. A failed simulation is never treated as a zero budget.
type SimulationError struct {
	// Errs is the remote-reported error list.
	Errs []string
}

// Error returns the remote errors joined into one message.
func (e *SimulationError) Error() string {
	return "dry run failed: " + strings.Join(e.Errs, "; ")
}

// CoinSource names the coins a caller wants to pay gas with, either by
// object ID (to be fetched) or as already-fetched coin objects. Exactly one
// of the two fields may be populated; the variant is fixed when the source
// is built, not discovered mid-algorithm.
type CoinSource struct {
	// IDs names gas coins to fetch by object ID.
	IDs []sui.ObjectID

	// Objects holds pre-fetched gas coins, used as-is.
	Objects []gql.Coin
}

// GasRequest carries the inputs of one gas resolution call. The request is
// read-only to the resolver; a single request value must not be mutated
// while a resolution call is in flight.
type GasRequest struct {
	// Signer supplies the paying address and optional sponsor.
	Signer *SignerBlock

	// Budget optionally fixes the gas budget in Mist. When absent, the
	// budget is estimated with a dry run of TxKind.
	Budget fn.Option[uint64]

	// Coins optionally restricts which coins may pay. When nil, all
	// coins owned by the paying address are candidates.
	Coins *CoinSource

	// InUse holds the IDs of objects already committed elsewhere in the
	// same transaction. Coins in this set never pay gas; spending one
	// twice would double-use the object within one transaction.
	InUse fn.Set[sui.ObjectID]

	// GasPrice is the reference gas price the transaction commits to,
	// in Mist per gas unit.
	GasPrice uint64

	// TxKind is the serialized transaction kind, needed only when the
	// budget is estimated.
	TxKind []byte
}

// validate checks the request preconditions that can be decided without
// touching the network.
func (r *GasRequest) validate() error {
	if r.Signer == nil {
		return ErrMissingSigner
	}

	if r.GasPrice == 0 {
		return ErrZeroGasPrice
	}

	if r.Budget.IsSome() && r.Budget.UnwrapOr(0) == 0 {
		return ErrZeroGasBudget
	}

	if r.Coins != nil && len(r.Coins.IDs) > 0 && len(r.Coins.Objects) > 0 {
		return ErrMixedCoinSource
	}

	return nil
}

// ResolveGasData resolves the fee payment of a transaction: it gathers
// candidate coins, obtains a budget (estimating via dry run when none was
// supplied), drops coins already in use elsewhere in the transaction,
// selects the coins that pay, and assembles the final GasData.
//
// Worst case the call makes two remote round-trips (inventory fetch plus
// dry run); when both a budget and pre-fetched coins are supplied it makes
// none. Any failure aborts the call; no partial GasData is ever returned.
func ResolveGasData(ctx context.Context, client gql.Client,
	req *GasRequest) (*sui.GasData, error) {

	if err := req.validate(); err != nil {
		return nil, err
	}

	payer := req.Signer.PayerAddress()

	// Gather candidate coins from the requested source, defaulting to
	// everything the payer owns.
	var (
		candidates []gql.Coin
		err        error
	)
	switch {
	case req.Coins != nil && len(req.Coins.IDs) > 0:
		candidates, err = fetchCoinsByID(ctx, client, req.Coins.IDs)

	case req.Coins != nil && len(req.Coins.Objects) > 0:
		candidates = req.Coins.Objects

	default:
		candidates, err = fetchOwnedCoins(ctx, client, payer)
	}
	if err != nil {
		return nil, err
	}

	// Obtain the budget, simulating the transaction kind only when the
	// caller did not fix one.
	budget := req.Budget.UnwrapOr(0)
	if req.Budget.IsNone() {
		budget, err = dryRunForBudget(
			ctx, client, req.Signer, req.TxKind, req.GasPrice,
		)
		if err != nil {
			return nil, err
		}
	}

	// Drop duplicates and coins already committed elsewhere in this
	// transaction.
	candidates = filterCandidates(candidates, req.InUse)

	// Nothing left to even try is a distinct failure from trying and
	// coming up short.
	if len(candidates) == 0 {
		return nil, ErrNoFundingCoins
	}

	payment, err := coinsForBudget(candidates, budget)
	if err != nil {
		return nil, err
	}

	log.Debugf("Resolved gas for %v: budget=%d, price=%d, coins=%d",
		payer, budget, req.GasPrice, len(payment))

	return &sui.GasData{
		Payment: payment,
		Owner:   payer,
		Price:   req.GasPrice,
		Budget:  budget,
	}, nil
}

// fetchCoinsByID fetches the named gas coins in one query.
func fetchCoinsByID(ctx context.Context, client gql.Client,
	ids []sui.ObjectID) ([]gql.Coin, error) {

	coins, err := client.CoinsByID(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("fetch gas coins by id: %w", err)
	}

	return coins, nil
}

// fetchOwnedCoins accumulates every page of the owner's coins, following
// the page cursor until the node reports no further pages. A failure on any
// page, the first included, aborts the fetch: an unreachable node must not
// be mistaken for an owner with no funds. Only a page that reports
// hasNextPage=false ends the walk.
func fetchOwnedCoins(ctx context.Context, client gql.Client,
	owner sui.Address) ([]gql.Coin, error) {

	var (
		coins  []gql.Coin
		cursor string
	)
	for {
		page, err := client.CoinsByOwner(ctx, owner, cursor)
		if err != nil {
			return nil, fmt.Errorf("fetch coins owned by %v: %w",
				owner, err)
		}

		coins = append(coins, page.Coins...)

		if !page.PageInfo.HasNextPage {
			break
		}
		cursor = page.PageInfo.EndCursor
	}

	return coins, nil
}

// dryRunForBudget estimates the gas budget by simulating the transaction
// kind with state-change checks disabled, then summing the reported
// computation and storage cost. Checks must stay off here: validity can
// depend on the gas payment this estimate is computing.
func dryRunForBudget(ctx context.Context, client gql.Client,
	signer *SignerBlock, txKind []byte, gasPrice uint64) (uint64, error) {

	result, err := client.DryRunTransactionKind(ctx, gql.DryRunRequest{
		TxBytes:    base64.StdEncoding.EncodeToString(txKind),
		Sender:     signer.Sender,
		GasPrice:   gasPrice,
		Sponsor:    signer.Sponsor,
		SkipChecks: true,
	})
	if err != nil {
		return 0, fmt.Errorf("dry run transaction kind: %w", err)
	}

	if result.Status != gql.ExecutionStatusSuccess {
		return 0, &SimulationError{Errs: result.Errors}
	}

	budget := result.ComputationCost + result.StorageCost

	log.Debugf("Estimated budget %d (computation=%d, storage=%d)",
		budget, result.ComputationCost, result.StorageCost)

	return budget, nil
}

// filterCandidates removes duplicate coin IDs (first occurrence wins) and
// coins whose ID is already in use elsewhere in the transaction. Input
// order is preserved.
func filterCandidates(coins []gql.Coin,
	inUse fn.Set[sui.ObjectID]) []gql.Coin {

	seen := fn.NewSet[sui.ObjectID]()
	kept := make([]gql.Coin, 0, len(coins))

	for _, coin := range coins {
		if seen.Contains(coin.CoinObjectID) {
			continue
		}
		seen.Add(coin.CoinObjectID)

		if inUse.Contains(coin.CoinObjectID) {
			log.Debugf("Skipping in-use coin %v",
				coin.CoinObjectID)
			continue
		}

		kept = append(kept, coin)
	}

	return kept
}

// coinsForBudget picks the coins that pay for the budget and returns their
// object references in selection order.
//
// The first coin found whose balance strictly exceeds the budget pays
// alone, avoiding needless input fragmentation. Otherwise coins accumulate
// in input order until their sum reaches the budget; a coin matching the
// budget exactly therefore goes through accumulation, not the shortcut. If
// the coins run out first, the selection fails.
func coinsForBudget(coins []gql.Coin, budget uint64) ([]sui.ObjectRef,
	error) {

	for _, coin := range coins {
		if coin.Balance > budget {
			return []sui.ObjectRef{coin.Ref()}, nil
		}
	}

	var (
		sum  uint64
		refs []sui.ObjectRef
	)
	for _, coin := range coins {
		if sum >= budget {
			break
		}

		refs = append(refs, coin.Ref())
		sum += coin.Balance
	}

	if sum < budget {
		return nil, fmt.Errorf("%w: total gas available %d, "+
			"transaction requires %d", ErrInsufficientGas, sum,
			budget)
	}

	return refs, nil
}
