// Copyright (c) 2026 The suisuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package sui

import "fmt"

// ObjectRef pins down one specific version of a ledger object: the object
// ID, the version (sequence number) at which it was observed, and the
// content digest of that version. Transactions reference their inputs, gas
// coins included, through object references.
type ObjectRef struct {
	// ID is the object identifier.
	ID ObjectID

	// Version is the object's sequence number.
	Version uint64

	// Digest is the content digest of the object at Version.
	Digest Digest
}

// String returns a compact human-readable form of the reference.
func (r ObjectRef) String() string {
	return fmt.Sprintf("%v@%d", r.ID, r.Version)
}

// GasData is the fee-payment structure of a transaction: which coins pay,
// who owns them, the gas price the transaction commits to, and the maximum
// budget it may consume. It is assembled once per transaction and handed to
// the transaction encoder as plain data.
type GasData struct {
	// Payment lists the coins paying for the transaction, in selection
	// order.
	Payment []ObjectRef

	// Owner is the address the payment coins belong to.
	Owner Address

	// Price is the gas price, in Mist per gas unit.
	Price uint64

	// Budget is the maximum fee, in Mist, the transaction may consume.
	Budget uint64
}
