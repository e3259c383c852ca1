// Copyright (c) 2026 The suisuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package keyring manages the local signing state of a Sui client: keys,
// their derived addresses, human-readable aliases, and the connection
// profiles they are grouped under. Key material lives in flag-prefixed
// base64 keystrings compatible with the standard Sui keystore format.
package keyring

import (
	"crypto/ed25519"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/suisuite/suiwallet/sui"
	"github.com/tyler-smith/go-bip39"
	"golang.org/x/crypto/blake2b"
)

// SignatureScheme identifies the signature scheme of a key. The byte value
// is the flag prefixed to public keys and keystrings on the ledger.
type SignatureScheme byte

const (
	// SchemeEd25519 is the default signature scheme.
	SchemeEd25519 SignatureScheme = 0x00

	// SchemeSecp256k1 is the secp256k1 ECDSA scheme.
	SchemeSecp256k1 SignatureScheme = 0x01

	// SchemeSecp256r1 is the NIST P-256 ECDSA scheme. It is recognized
	// when parsing but key generation is not supported.
	SchemeSecp256r1 SignatureScheme = 0x02
)

// String returns the scheme name.
func (s SignatureScheme) String() string {
	switch s {
	case SchemeEd25519:
		return "ed25519"
	case SchemeSecp256k1:
		return "secp256k1"
	case SchemeSecp256r1:
		return "secp256r1"
	default:
		return fmt.Sprintf("unknown(%#x)", byte(s))
	}
}

const (
	// privKeyLen is the raw private key length for all supported
	// schemes.
	privKeyLen = 32

	// DefaultWordCount is the mnemonic length used when the caller does
	// not pick one.
	DefaultWordCount = 12
)

// Default derivation paths, per the coin type registered for the ledger
// (784).
const (
	defaultEd25519Path   = "m/44'/784'/0'/0'/0'"
	defaultSecp256k1Path = "m/54'/784'/0'/0/0"
)

var (
	// ErrUnsupportedScheme is returned when key generation is requested
	// for a scheme this package cannot produce.
	ErrUnsupportedScheme = errors.New("unsupported signature scheme")

	// ErrInvalidKeyString is returned when a keystring cannot be parsed.
	ErrInvalidKeyString = errors.New("invalid keystring")

	// ErrInvalidDerivationPath is returned when a derivation path cannot
	// be parsed or is not valid for the chosen scheme.
	ErrInvalidDerivationPath = errors.New("invalid derivation path")

	// ErrInvalidWordCount is returned when the requested mnemonic length
	// is not one of 12, 15, 18, 21 or 24 words.
	ErrInvalidWordCount = errors.New("mnemonic word count must be 12, " +
		"15, 18, 21 or 24")
)

// KeyPair is a scheme-tagged signing key with its public half. Values are
// immutable after construction.
type KeyPair struct {
	scheme SignatureScheme
	priv   []byte
	pub    []byte
}

// Scheme returns the signature scheme of the key.
func (k *KeyPair) Scheme() SignatureScheme {
	return k.scheme
}

// PublicKey returns the raw public key bytes.
func (k *KeyPair) PublicKey() []byte {
	out := make([]byte, len(k.pub))
	copy(out, k.pub)

	return out
}

// SchemeAndKey returns the flag-prefixed public key, the form aliases and
// multisig participants are identified by.
func (k *KeyPair) SchemeAndKey() []byte {
	out := make([]byte, 0, len(k.pub)+1)
	out = append(out, byte(k.scheme))
	out = append(out, k.pub...)

	return out
}

// Address derives the on-ledger address of the key: the blake2b-256 digest
// of the flag-prefixed public key.
func (k *KeyPair) Address() sui.Address {
	return sui.Address(blake2b.Sum256(k.SchemeAndKey()))
}

// Serialize returns the keystring: base64 of the scheme flag followed by
// the 32-byte private key, the format used by the standard keystore file.
func (k *KeyPair) Serialize() string {
	raw := make([]byte, 0, privKeyLen+1)
	raw = append(raw, byte(k.scheme))
	raw = append(raw, k.priv...)

	return base64.StdEncoding.EncodeToString(raw)
}

// ParseKeyString parses a flag-prefixed base64 keystring back into a key
// pair, reconstructing the public half.
func ParseKeyString(s string) (*KeyPair, error) {
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKeyString, err)
	}
	if len(raw) != privKeyLen+1 {
		return nil, fmt.Errorf("%w: got %d bytes, want %d",
			ErrInvalidKeyString, len(raw), privKeyLen+1)
	}

	scheme := SignatureScheme(raw[0])
	priv := make([]byte, privKeyLen)
	copy(priv, raw[1:])

	return newKeyPair(scheme, priv)
}

// newKeyPair builds a KeyPair from raw private key bytes, deriving the
// public key for the scheme.
func newKeyPair(scheme SignatureScheme, priv []byte) (*KeyPair, error) {
	var pub []byte

	switch scheme {
	case SchemeEd25519:
		edPriv := ed25519.NewKeyFromSeed(priv)
		pub = append(pub, edPriv.Public().(ed25519.PublicKey)...)

	case SchemeSecp256k1:
		privKey := secp256k1.PrivKeyFromBytes(priv)
		pub = privKey.PubKey().SerializeCompressed()

	default:
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedScheme, scheme)
	}

	return &KeyPair{scheme: scheme, priv: priv, pub: pub}, nil
}

// NewKeyPair generates a fresh mnemonic of the given word count and derives
// a key pair from it. An empty derivation path selects the scheme's default
// path. The mnemonic is returned so the caller can present it for backup;
// it is not stored anywhere.
func NewKeyPair(scheme SignatureScheme, wordCount int,
	path string) (string, *KeyPair, error) {

	if wordCount == 0 {
		wordCount = DefaultWordCount
	}

	bits, err := entropyBits(wordCount)
	if err != nil {
		return "", nil, err
	}

	entropy, err := bip39.NewEntropy(bits)
	if err != nil {
		return "", nil, fmt.Errorf("generate entropy: %w", err)
	}

	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", nil, fmt.Errorf("generate mnemonic: %w", err)
	}

	keyPair, err := KeyPairFromMnemonic(scheme, mnemonic, path)
	if err != nil {
		return "", nil, err
	}

	return mnemonic, keyPair, nil
}

// KeyPairFromMnemonic derives a key pair from an existing mnemonic phrase.
// An empty derivation path selects the scheme's default path.
func KeyPairFromMnemonic(scheme SignatureScheme, mnemonic,
	path string) (*KeyPair, error) {

	seed, err := bip39.NewSeedWithErrorChecking(mnemonic, "")
	if err != nil {
		return nil, fmt.Errorf("derive seed: %w", err)
	}

	switch scheme {
	case SchemeEd25519:
		if path == "" {
			path = defaultEd25519Path
		}

		priv, err := deriveEd25519(seed, path)
		if err != nil {
			return nil, err
		}

		return newKeyPair(scheme, priv)

	case SchemeSecp256k1:
		if path == "" {
			path = defaultSecp256k1Path
		}

		priv, err := deriveSecp256k1(seed, path)
		if err != nil {
			return nil, err
		}

		return newKeyPair(scheme, priv)

	default:
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedScheme, scheme)
	}
}

// freshMnemonic draws a new mnemonic of the default word count.
func freshMnemonic() (string, error) {
	bits, err := entropyBits(DefaultWordCount)
	if err != nil {
		return "", err
	}

	entropy, err := bip39.NewEntropy(bits)
	if err != nil {
		return "", fmt.Errorf("generate entropy: %w", err)
	}

	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", fmt.Errorf("generate mnemonic: %w", err)
	}

	return mnemonic, nil
}

// entropyBits maps a mnemonic word count to its entropy size.
func entropyBits(wordCount int) (int, error) {
	switch wordCount {
	case 12, 15, 18, 21, 24:
		return wordCount / 3 * 32, nil
	default:
		return 0, fmt.Errorf("%w: got %d", ErrInvalidWordCount,
			wordCount)
	}
}

// hardenedOffset marks a hardened child index in a derivation path.
const hardenedOffset = uint32(0x80000000)

// parseDerivationPath parses an "m/44'/784'/..." path into child indexes,
// with hardened components flagged by hardenedOffset.
func parseDerivationPath(path string) ([]uint32, error) {
	parts := strings.Split(path, "/")
	if len(parts) < 2 || parts[0] != "m" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDerivationPath,
			path)
	}

	indexes := make([]uint32, 0, len(parts)-1)
	for _, part := range parts[1:] {
		hardened := strings.HasSuffix(part, "'") ||
			strings.HasSuffix(part, "h")

		if hardened {
			part = part[:len(part)-1]
		}

		index, err := strconv.ParseUint(part, 10, 32)
		if err != nil || index >= uint64(hardenedOffset) {
			return nil, fmt.Errorf("%w: %q",
				ErrInvalidDerivationPath, path)
		}

		child := uint32(index)
		if hardened {
			child |= hardenedOffset
		}

		indexes = append(indexes, child)
	}

	return indexes, nil
}

// deriveEd25519 derives an ed25519 private key from a seed along a fully
// hardened path (SLIP-0010). Non-hardened components are rejected since
// ed25519 has no normal derivation.
func deriveEd25519(seed []byte, path string) ([]byte, error) {
	indexes, err := parseDerivationPath(path)
	if err != nil {
		return nil, err
	}

	mac := hmac.New(sha512.New, []byte("ed25519 seed"))
	mac.Write(seed)
	sum := mac.Sum(nil)

	key, chainCode := sum[:32], sum[32:]

	for _, index := range indexes {
		if index < hardenedOffset {
			return nil, fmt.Errorf("%w: ed25519 requires "+
				"hardened components", ErrInvalidDerivationPath)
		}

		var serialized [4]byte
		binary.BigEndian.PutUint32(serialized[:], index)

		mac = hmac.New(sha512.New, chainCode)
		mac.Write([]byte{0x00})
		mac.Write(key)
		mac.Write(serialized[:])
		sum = mac.Sum(nil)

		key, chainCode = sum[:32], sum[32:]
	}

	return key, nil
}

// deriveSecp256k1 derives a secp256k1 private key from a seed along a BIP32
// path.
func deriveSecp256k1(seed []byte, path string) ([]byte, error) {
	indexes, err := parseDerivationPath(path)
	if err != nil {
		return nil, err
	}

	// The chain params only select the extended-key version bytes, which
	// never leave this function.
	key, err := hdkeychain.NewMaster(seed, &chaincfg.MainNetParams)
	if err != nil {
		return nil, fmt.Errorf("derive master key: %w", err)
	}

	for _, index := range indexes {
		key, err = key.Derive(index)
		if err != nil {
			return nil, fmt.Errorf("derive child %d: %w", index,
				err)
		}
	}

	privKey, err := key.ECPrivKey()
	if err != nil {
		return nil, fmt.Errorf("extract private key: %w", err)
	}

	return privKey.Serialize(), nil
}
