// Copyright (c) 2026 The suisuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package sui

import (
	"errors"
	"fmt"

	"github.com/mr-tron/base58"
)

// DigestLen is the length in bytes of an object or transaction digest.
const DigestLen = 32

var (
	// ErrInvalidDigest is returned when a string cannot be parsed as a
	// base58-encoded 32-byte digest.
	ErrInvalidDigest = errors.New("invalid sui digest")
)

// Digest is the 32-byte content digest of a specific object version. The
// string form is base58, as reported by the ledger.
type Digest [DigestLen]byte

// ParseDigest parses the base58 string form of a digest.
func ParseDigest(s string) (Digest, error) {
	var d Digest

	raw, err := base58.Decode(s)
	if err != nil {
		return d, fmt.Errorf("%w: %q", ErrInvalidDigest, s)
	}
	if len(raw) != DigestLen {
		return d, fmt.Errorf("%w: got %d bytes, want %d",
			ErrInvalidDigest, len(raw), DigestLen)
	}

	copy(d[:], raw)

	return d, nil
}

// MustDigest parses a digest and panics on failure. It is intended for
// tests.
func MustDigest(s string) Digest {
	d, err := ParseDigest(s)
	if err != nil {
		panic(err)
	}

	return d
}

// String returns the base58 form of the digest.
func (d Digest) String() string {
	return base58.Encode(d[:])
}
