// Copyright (c) 2026 The suisuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package sui provides the primitive value types of the Sui object model
// that the rest of the module is built on: addresses, object IDs, digests
// and object references. All types are immutable value types and are safe
// to copy and compare.
package sui

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// AddressLen is the length in bytes of an on-ledger address. Object IDs
// share the same representation.
const AddressLen = 32

var (
	// ErrInvalidAddress is returned when a string cannot be parsed as an
	// on-ledger address or object ID.
	ErrInvalidAddress = errors.New("invalid sui address")
)

// Address is a 32-byte account or object address. The canonical string form
// is "0x" followed by 64 lowercase hex characters.
type Address [AddressLen]byte

// ParseAddress parses the string form of an address. The "0x" prefix is
// optional and short strings are left-padded with zeros, matching how the
// ledger normalizes addresses like "0x2".
func ParseAddress(s string) (Address, error) {
	var addr Address

	trimmed := strings.TrimPrefix(strings.ToLower(s), "0x")
	if trimmed == "" || len(trimmed) > AddressLen*2 {
		return addr, fmt.Errorf("%w: %q", ErrInvalidAddress, s)
	}

	if len(trimmed)%2 != 0 {
		trimmed = "0" + trimmed
	}

	raw, err := hex.DecodeString(trimmed)
	if err != nil {
		return addr, fmt.Errorf("%w: %q", ErrInvalidAddress, s)
	}

	copy(addr[AddressLen-len(raw):], raw)

	return addr, nil
}

// MustAddress parses an address and panics on failure. It is intended for
// constants and tests.
func MustAddress(s string) Address {
	addr, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}

	return addr
}

// String returns the canonical "0x"-prefixed hex form of the address.
func (a Address) String() string {
	return "0x" + hex.EncodeToString(a[:])
}

// IsZero reports whether the address is all zeros.
func (a Address) IsZero() bool {
	return a == Address{}
}

// ObjectID identifies a ledger object. It shares the address representation
// but is kept as a distinct type so coin identifiers and account addresses
// cannot be mixed up.
type ObjectID [AddressLen]byte

// ParseObjectID parses the string form of an object ID.
func ParseObjectID(s string) (ObjectID, error) {
	addr, err := ParseAddress(s)

	return ObjectID(addr), err
}

// MustObjectID parses an object ID and panics on failure. It is intended
// for constants and tests.
func MustObjectID(s string) ObjectID {
	id, err := ParseObjectID(s)
	if err != nil {
		panic(err)
	}

	return id
}

// String returns the canonical "0x"-prefixed hex form of the object ID.
func (o ObjectID) String() string {
	return Address(o).String()
}
