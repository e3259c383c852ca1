// Copyright (c) 2026 The suisuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package gql

// GraphQL documents sent by RPCClient. Field selections mirror the subset
// of the node schema this module consumes; anything else the node returns
// is ignored by the decoders in rpcclient.go.
const (
	// coinsByOwnerQuery pages through the coins owned by one address.
	coinsByOwnerQuery = `
query coinsByOwner($owner: SuiAddress!, $after: String, $first: Int) {
  address(address: $owner) {
    coins(first: $first, after: $after) {
      pageInfo {
        hasNextPage
        endCursor
      }
      nodes {
        address
        version
        digest
        coinBalance
      }
    }
  }
}`

	// coinsByIDQuery fetches specific coin objects by ID.
	coinsByIDQuery = `
query coinsByID($ids: [SuiAddress!]!) {
  objects(filter: {objectIds: $ids}) {
    nodes {
      address
      version
      digest
      asMoveObject {
        asCoin {
          coinBalance
        }
      }
    }
  }
}`

	// dryRunQuery simulates a serialized transaction kind.
	dryRunQuery = `
query dryRunTxKind($txBytes: String!, $txMeta: TransactionMetadata!,
                   $skipChecks: Boolean!) {
  dryRunTransactionBlock(txBytes: $txBytes, txMeta: $txMeta,
                         skipChecks: $skipChecks) {
    error
    transaction {
      effects {
        status
        gasEffects {
          gasSummary {
            computationCost
            storageCost
            storageRebate
          }
        }
      }
    }
  }
}`

	// referenceGasPriceQuery reads the current epoch's reference gas
	// price.
	referenceGasPriceQuery = `
query referenceGasPrice {
  epoch {
    referenceGasPrice
  }
}`
)
