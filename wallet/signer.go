// Copyright (c) 2026 The suisuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wallet

import (
	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/suisuite/suiwallet/sui"
)

// SignerBlock is the signing context of a transaction under construction:
// the sender, and optionally a sponsor that pays the fee on the sender's
// behalf. Gas resolution reads it, never mutates it.
type SignerBlock struct {
	// Sender is the address the transaction executes as.
	Sender sui.Address

	// Sponsor optionally names a distinct address that pays the
	// transaction's fee. When set, gas coins are drawn from the sponsor.
	Sponsor fn.Option[sui.Address]
}

// NewSignerBlock creates a signing context for the given sender.
func NewSignerBlock(sender sui.Address) *SignerBlock {
	return &SignerBlock{Sender: sender}
}

// NewSponsoredSignerBlock creates a signing context where sponsor pays the
// fee for transactions sent by sender.
func NewSponsoredSignerBlock(sender, sponsor sui.Address) *SignerBlock {
	return &SignerBlock{
		Sender:  sender,
		Sponsor: fn.Some(sponsor),
	}
}

// PayerAddress returns the address whose coins fund the transaction: the
// sponsor when one is set, the sender otherwise.
func (s *SignerBlock) PayerAddress() sui.Address {
	return s.Sponsor.UnwrapOr(s.Sender)
}
