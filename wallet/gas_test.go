// Copyright (c) 2026 The suisuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wallet

import (
	"context"
	"errors"
	"testing"

	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/suisuite/suiwallet/gql"
	"github.com/suisuite/suiwallet/sui"
)

var (
	errRemote    = errors.New("remote fail")
	errTransport = errors.New("transport fail")
)

// mockClient is a mock implementation of the gql.Client interface.
type mockClient struct {
	mock.Mock
}

var _ gql.Client = (*mockClient)(nil)

func (m *mockClient) CoinsByOwner(ctx context.Context, owner sui.Address,
	after string) (*gql.CoinPage, error) {

	args := m.Called(ctx, owner, after)
	page, _ := args.Get(0).(*gql.CoinPage)

	return page, args.Error(1)
}

func (m *mockClient) CoinsByID(ctx context.Context,
	ids []sui.ObjectID) ([]gql.Coin, error) {

	args := m.Called(ctx, ids)
	coins, _ := args.Get(0).([]gql.Coin)

	return coins, args.Error(1)
}

func (m *mockClient) DryRunTransactionKind(ctx context.Context,
	req gql.DryRunRequest) (*gql.DryRunResult, error) {

	args := m.Called(ctx, req)
	result, _ := args.Get(0).(*gql.DryRunResult)

	return result, args.Error(1)
}

func (m *mockClient) ReferenceGasPrice(ctx context.Context) (uint64, error) {
	args := m.Called(ctx)

	return args.Get(0).(uint64), args.Error(1)
}

// testID builds a deterministic object ID from a tag byte.
func testID(tag byte) sui.ObjectID {
	var id sui.ObjectID
	id[sui.AddressLen-1] = tag

	return id
}

// testCoin builds a coin snapshot with a deterministic ID, version and
// digest derived from the tag.
func testCoin(tag byte, balance uint64) gql.Coin {
	var digest sui.Digest
	digest[0] = tag

	return gql.Coin{
		CoinObjectID: testID(tag),
		Version:      uint64(tag),
		Digest:       digest,
		Balance:      balance,
	}
}

// testSender is the sender address used throughout the tests.
var testSender = sui.MustAddress("0xa11ce")

// TestCoinsForBudget checks the selection algorithm against the documented
// scenarios.
func TestCoinsForBudget(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name        string
		coins       []gql.Coin
		budget      uint64
		expectedIDs []sui.ObjectID
		expectedErr error
	}{
		{
			// No single coin strictly exceeds the budget, so
			// accumulation runs in input order and stops at c2.
			name: "accumulation in input order",
			coins: []gql.Coin{
				testCoin(1, 50), testCoin(2, 30),
				testCoin(3, 40),
			},
			budget:      60,
			expectedIDs: []sui.ObjectID{testID(1), testID(2)},
		},
		{
			name:        "single coin shortcut",
			coins:       []gql.Coin{testCoin(1, 100)},
			budget:      60,
			expectedIDs: []sui.ObjectID{testID(1)},
		},
		{
			// An exact match is not strictly greater, so it goes
			// through accumulation rather than the shortcut.
			name:        "exact match accumulates",
			coins:       []gql.Coin{testCoin(1, 60)},
			budget:      60,
			expectedIDs: []sui.ObjectID{testID(1)},
		},
		{
			// The first coin strictly over budget wins, not the
			// largest one.
			name: "first oversized coin wins",
			coins: []gql.Coin{
				testCoin(1, 10), testCoin(2, 70),
				testCoin(3, 500),
			},
			budget:      60,
			expectedIDs: []sui.ObjectID{testID(2)},
		},
		{
			name: "insufficient funds",
			coins: []gql.Coin{
				testCoin(1, 10), testCoin(2, 20),
			},
			budget:      60,
			expectedErr: ErrInsufficientGas,
		},
		{
			name:        "empty candidate set",
			coins:       nil,
			budget:      10,
			expectedErr: ErrInsufficientGas,
		},
	}

	for _, tc := range testCases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			refs, err := coinsForBudget(tc.coins, tc.budget)

			if tc.expectedErr != nil {
				require.ErrorIs(t, err, tc.expectedErr)
				require.Nil(t, refs)

				return
			}

			require.NoError(t, err)

			ids := make([]sui.ObjectID, 0, len(refs))
			for _, ref := range refs {
				ids = append(ids, ref.ID)
			}
			require.Equal(t, tc.expectedIDs, ids)
		})
	}
}

// TestCoinsForBudgetMinimality checks that dropping the last accumulated
// coin always leaves the selection short of the budget.
func TestCoinsForBudgetMinimality(t *testing.T) {
	t.Parallel()

	coins := []gql.Coin{
		testCoin(1, 7), testCoin(2, 13), testCoin(3, 11),
		testCoin(4, 19), testCoin(5, 23),
	}

	balances := make(map[sui.ObjectID]uint64)
	var total uint64
	for _, coin := range coins {
		balances[coin.CoinObjectID] = coin.Balance
		total += coin.Balance
	}

	// Budgets at and beyond any single balance force the accumulation
	// path.
	for budget := uint64(24); budget <= total; budget++ {
		refs, err := coinsForBudget(coins, budget)
		require.NoError(t, err)

		var sum uint64
		for _, ref := range refs {
			sum += balances[ref.ID]
		}
		require.GreaterOrEqual(t, sum, budget)

		last := balances[refs[len(refs)-1].ID]
		require.Less(t, sum-last, budget)
	}
}

// TestCoinsForBudgetInsufficientReportsAmounts checks the failure message
// reports both the total found and the budget required.
func TestCoinsForBudgetInsufficientReportsAmounts(t *testing.T) {
	t.Parallel()

	_, err := coinsForBudget([]gql.Coin{testCoin(1, 30)}, 100)
	require.ErrorIs(t, err, ErrInsufficientGas)
	require.ErrorContains(t, err, "total gas available 30")
	require.ErrorContains(t, err, "transaction requires 100")
}

// TestResolveGasDataExplicitInputs checks that supplying both a budget and
// pre-fetched coins resolves without any remote round-trip.
func TestResolveGasDataExplicitInputs(t *testing.T) {
	t.Parallel()

	client := &mockClient{}

	gasData, err := ResolveGasData(context.Background(), client,
		&GasRequest{
			Signer: NewSignerBlock(testSender),
			Budget: fn.Some(uint64(60)),
			Coins: &CoinSource{
				Objects: []gql.Coin{
					testCoin(1, 50), testCoin(2, 30),
				},
			},
			GasPrice: 1000,
		})
	require.NoError(t, err)

	require.Equal(t, testSender, gasData.Owner)
	require.EqualValues(t, 1000, gasData.Price)
	require.EqualValues(t, 60, gasData.Budget)
	require.Len(t, gasData.Payment, 2)
	require.Equal(t, testID(1), gasData.Payment[0].ID)
	require.Equal(t, testID(2), gasData.Payment[1].ID)

	// No inventory fetch, and in particular no dry run, may happen when
	// the budget is explicit.
	client.AssertNotCalled(t, "DryRunTransactionKind",
		mock.Anything, mock.Anything)
	client.AssertNotCalled(t, "CoinsByOwner",
		mock.Anything, mock.Anything, mock.Anything)
}

// TestResolveGasDataFetchesOwnedCoins checks the paginated owner fetch is
// followed to the last page before selection.
func TestResolveGasDataFetchesOwnedCoins(t *testing.T) {
	t.Parallel()

	client := &mockClient{}
	client.On("CoinsByOwner", mock.Anything, testSender, "").Return(
		&gql.CoinPage{
			Coins: []gql.Coin{testCoin(1, 10)},
			PageInfo: gql.PageInfo{
				HasNextPage: true,
				EndCursor:   "cursor-1",
			},
		}, nil).Once()
	client.On("CoinsByOwner", mock.Anything, testSender, "cursor-1").
		Return(&gql.CoinPage{
			Coins: []gql.Coin{testCoin(2, 20), testCoin(3, 40)},
		}, nil).Once()

	gasData, err := ResolveGasData(context.Background(), client,
		&GasRequest{
			Signer:   NewSignerBlock(testSender),
			Budget:   fn.Some(uint64(60)),
			GasPrice: 1,
		})
	require.NoError(t, err)

	// 10+20+40 accumulated across pages in retrieval order.
	require.Len(t, gasData.Payment, 3)
	client.AssertExpectations(t)
}

// TestResolveGasDataFirstPageError checks a failing first page aborts the
// resolution instead of being mistaken for an empty inventory.
func TestResolveGasDataFirstPageError(t *testing.T) {
	t.Parallel()

	client := &mockClient{}
	client.On("CoinsByOwner", mock.Anything, testSender, "").
		Return(nil, errTransport).Once()

	_, err := ResolveGasData(context.Background(), client, &GasRequest{
		Signer:   NewSignerBlock(testSender),
		Budget:   fn.Some(uint64(60)),
		GasPrice: 1,
	})
	require.ErrorIs(t, err, errTransport)
	require.NotErrorIs(t, err, ErrNoFundingCoins)
}

// TestResolveGasDataEstimatesBudget checks the dry-run estimation path:
// exactly one simulation with checks skipped, budget = computation +
// storage cost.
func TestResolveGasDataEstimatesBudget(t *testing.T) {
	t.Parallel()

	sponsor := sui.MustAddress("0xb0b")
	txKind := []byte{0x01, 0x02, 0x03}

	client := &mockClient{}
	client.On("DryRunTransactionKind", mock.Anything,
		mock.MatchedBy(func(req gql.DryRunRequest) bool {
			return req.SkipChecks &&
				req.Sender == testSender &&
				req.GasPrice == 1000 &&
				req.Sponsor.UnwrapOr(sui.Address{}) == sponsor
		})).
		Return(&gql.DryRunResult{
			Status:          gql.ExecutionStatusSuccess,
			ComputationCost: 750,
			StorageCost:     250,
		}, nil).Once()

	gasData, err := ResolveGasData(context.Background(), client,
		&GasRequest{
			Signer: NewSponsoredSignerBlock(testSender, sponsor),
			Coins: &CoinSource{
				Objects: []gql.Coin{testCoin(1, 5000)},
			},
			GasPrice: 1000,
			TxKind:   txKind,
		})
	require.NoError(t, err)

	require.EqualValues(t, 1000, gasData.Budget)

	// The sponsor pays, so the sponsor owns the gas.
	require.Equal(t, sponsor, gasData.Owner)

	client.AssertExpectations(t)
	client.AssertNumberOfCalls(t, "DryRunTransactionKind", 1)
}

// TestResolveGasDataSimulationFailure checks a non-success dry run surfaces
// the remote errors and is never treated as a zero budget.
func TestResolveGasDataSimulationFailure(t *testing.T) {
	t.Parallel()

	client := &mockClient{}
	client.On("DryRunTransactionKind", mock.Anything, mock.Anything).
		Return(&gql.DryRunResult{
			Status: gql.ExecutionStatusFailure,
			Errors: []string{"MoveAbort(7)", "budget too low"},
		}, nil).Once()

	_, err := ResolveGasData(context.Background(), client, &GasRequest{
		Signer: NewSignerBlock(testSender),
		Coins: &CoinSource{
			Objects: []gql.Coin{testCoin(1, 5000)},
		},
		GasPrice: 1000,
	})

	var simErr *SimulationError
	require.ErrorAs(t, err, &simErr)
	require.Equal(t, []string{"MoveAbort(7)", "budget too low"},
		simErr.Errs)
}

// TestResolveGasDataDryRunTransportError checks a failed simulation query
// aborts the resolution.
func TestResolveGasDataDryRunTransportError(t *testing.T) {
	t.Parallel()

	client := &mockClient{}
	client.On("DryRunTransactionKind", mock.Anything, mock.Anything).
		Return(nil, errRemote).Once()

	_, err := ResolveGasData(context.Background(), client, &GasRequest{
		Signer: NewSignerBlock(testSender),
		Coins: &CoinSource{
			Objects: []gql.Coin{testCoin(1, 5000)},
		},
		GasPrice: 1000,
	})
	require.ErrorIs(t, err, errRemote)
}

// TestResolveGasDataCoinsByID checks a source naming coins by ID resolves
// them in one query.
func TestResolveGasDataCoinsByID(t *testing.T) {
	t.Parallel()

	ids := []sui.ObjectID{testID(1), testID(2)}

	client := &mockClient{}
	client.On("CoinsByID", mock.Anything, ids).Return([]gql.Coin{
		testCoin(1, 50), testCoin(2, 30),
	}, nil).Once()

	gasData, err := ResolveGasData(context.Background(), client,
		&GasRequest{
			Signer:   NewSignerBlock(testSender),
			Budget:   fn.Some(uint64(60)),
			Coins:    &CoinSource{IDs: ids},
			GasPrice: 1,
		})
	require.NoError(t, err)
	require.Len(t, gasData.Payment, 2)
	client.AssertExpectations(t)
}

// TestResolveGasDataReservedCoinsExcluded checks coins already committed
// elsewhere in the transaction never pay gas.
func TestResolveGasDataReservedCoinsExcluded(t *testing.T) {
	t.Parallel()

	client := &mockClient{}

	gasData, err := ResolveGasData(context.Background(), client,
		&GasRequest{
			Signer: NewSignerBlock(testSender),
			Budget: fn.Some(uint64(40)),
			Coins: &CoinSource{
				Objects: []gql.Coin{
					testCoin(1, 100), testCoin(2, 50),
				},
			},
			InUse:    fn.NewSet(testID(1)),
			GasPrice: 1,
		})
	require.NoError(t, err)

	require.Len(t, gasData.Payment, 1)
	require.Equal(t, testID(2), gasData.Payment[0].ID)
}

// TestResolveGasDataNoFundingCoins checks that an empty candidate set after
// filtering fails with the dedicated error, distinct from insufficiency.
func TestResolveGasDataNoFundingCoins(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		req  *GasRequest
	}{
		{
			name: "owner has no coins",
			req: &GasRequest{
				Signer:   NewSignerBlock(testSender),
				Budget:   fn.Some(uint64(10)),
				GasPrice: 1,
			},
		},
		{
			name: "all candidates reserved",
			req: &GasRequest{
				Signer: NewSignerBlock(testSender),
				Budget: fn.Some(uint64(10)),
				Coins: &CoinSource{
					Objects: []gql.Coin{
						testCoin(1, 100),
					},
				},
				InUse:    fn.NewSet(testID(1)),
				GasPrice: 1,
			},
		},
	}

	for _, tc := range testCases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			client := &mockClient{}
			client.On("CoinsByOwner", mock.Anything, testSender,
				"").Return(&gql.CoinPage{}, nil).Maybe()

			_, err := ResolveGasData(
				context.Background(), client, tc.req,
			)
			require.ErrorIs(t, err, ErrNoFundingCoins)
			require.NotErrorIs(t, err, ErrInsufficientGas)
		})
	}
}

// TestResolveGasDataDuplicateCandidates checks duplicate snapshots of the
// same coin are collapsed before selection.
func TestResolveGasDataDuplicateCandidates(t *testing.T) {
	t.Parallel()

	client := &mockClient{}

	gasData, err := ResolveGasData(context.Background(), client,
		&GasRequest{
			Signer: NewSignerBlock(testSender),
			Budget: fn.Some(uint64(60)),
			Coins: &CoinSource{
				Objects: []gql.Coin{
					testCoin(1, 50), testCoin(1, 50),
					testCoin(2, 30),
				},
			},
			GasPrice: 1,
		})
	require.NoError(t, err)

	require.Len(t, gasData.Payment, 2)
	require.Equal(t, testID(1), gasData.Payment[0].ID)
	require.Equal(t, testID(2), gasData.Payment[1].ID)
}

// TestGasRequestValidation checks the precondition failures that need no
// network.
func TestGasRequestValidation(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name        string
		req         *GasRequest
		expectedErr error
	}{
		{
			name: "missing signer",
			req: &GasRequest{
				GasPrice: 1,
			},
			expectedErr: ErrMissingSigner,
		},
		{
			name: "zero gas price",
			req: &GasRequest{
				Signer: NewSignerBlock(testSender),
			},
			expectedErr: ErrZeroGasPrice,
		},
		{
			name: "explicit zero budget",
			req: &GasRequest{
				Signer:   NewSignerBlock(testSender),
				Budget:   fn.Some(uint64(0)),
				GasPrice: 1,
			},
			expectedErr: ErrZeroGasBudget,
		},
		{
			name: "mixed coin source",
			req: &GasRequest{
				Signer: NewSignerBlock(testSender),
				Budget: fn.Some(uint64(10)),
				Coins: &CoinSource{
					IDs: []sui.ObjectID{testID(1)},
					Objects: []gql.Coin{
						testCoin(2, 10),
					},
				},
				GasPrice: 1,
			},
			expectedErr: ErrMixedCoinSource,
		},
	}

	for _, tc := range testCases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			client := &mockClient{}

			_, err := ResolveGasData(
				context.Background(), client, tc.req,
			)
			require.ErrorIs(t, err, tc.expectedErr)

			// Validation failures must never reach the network.
			client.AssertNotCalled(t, "CoinsByOwner",
				mock.Anything, mock.Anything, mock.Anything)
			client.AssertNotCalled(t, "DryRunTransactionKind",
				mock.Anything, mock.Anything)
		})
	}
}
