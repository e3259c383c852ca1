// Copyright (c) 2026 The suisuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package keyring

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

const (
	// MinAliasLen and MaxAliasLen bound the length of a key alias.
	MinAliasLen = 3
	MaxAliasLen = 64

	// aliasGenAttempts bounds how many fresh mnemonics the alias
	// generator draws before giving up on finding an unused name.
	aliasGenAttempts = 3
)

var (
	// ErrProfileNotFound is returned when a profile name is not in the
	// group.
	ErrProfileNotFound = errors.New("profile not found in group")

	// ErrProfileExists is returned when adding a profile whose name is
	// already taken.
	ErrProfileExists = errors.New("profile already exists")

	// ErrAliasNotFound is returned when an alias is not in the group.
	ErrAliasNotFound = errors.New("alias not found in group")

	// ErrAliasExists is returned when an alias name is already taken.
	ErrAliasExists = errors.New("alias already exists")

	// ErrInvalidAlias is returned when an alias violates the length
	// bounds.
	ErrInvalidAlias = fmt.Errorf("alias must be between %d and %d "+
		"characters", MinAliasLen, MaxAliasLen)

	// ErrAddressNotFound is returned when an address is not in the
	// group.
	ErrAddressNotFound = errors.New("address not found in group")

	// ErrKeyExists is returned when adding a key whose keystring is
	// already in the group.
	ErrKeyExists = errors.New("keystring already exists in group")
)

// Profile is one named connection target: a node URL plus optional faucet
// endpoints. The name plays the role of the environment alias in the
// standard client configuration.
type Profile struct {
	Name            string `yaml:"profile_name"`
	URL             string `yaml:"url"`
	FaucetURL       string `yaml:"faucet_url,omitempty"`
	FaucetStatusURL string `yaml:"faucet_status_url,omitempty"`
}

// ProfileKey holds one keystring (flag-prefixed base64 private key).
type ProfileKey struct {
	PrivateKeyBase64 string `yaml:"private_key_base64"`
}

// ProfileAlias names a public key. The alias is the human-readable handle;
// the base64 field is the flag-prefixed public key it stands for.
type ProfileAlias struct {
	Alias           string `yaml:"alias"`
	PublicKeyBase64 string `yaml:"public_key_base64"`
}

// ProfileGroup is a named bundle of connection profiles and signing state.
// Addresses, keys and aliases are parallel lists: index i of each belongs
// to the same identity. One address and one profile are "active" at a time
// and are what a client built from this group signs with and connects to.
type ProfileGroup struct {
	Name         string         `yaml:"group_name"`
	UsingProfile string         `yaml:"using_profile"`
	UsingAddress string         `yaml:"using_address"`
	Aliases      []ProfileAlias `yaml:"alias_list"`
	Keys         []ProfileKey   `yaml:"key_list"`
	Addresses    []string       `yaml:"address_list"`
	Profiles     []Profile      `yaml:"profiles"`
}

// profileIndex returns the index of the named profile, or -1.
func (g *ProfileGroup) profileIndex(name string) int {
	for i, profile := range g.Profiles {
		if profile.Name == name {
			return i
		}
	}

	return -1
}

// aliasIndex returns the index of the named alias, or -1.
func (g *ProfileGroup) aliasIndex(name string) int {
	for i, alias := range g.Aliases {
		if alias.Alias == name {
			return i
		}
	}

	return -1
}

// addressIndex returns the index of the given address, or -1.
func (g *ProfileGroup) addressIndex(address string) int {
	for i, addr := range g.Addresses {
		if addr == address {
			return i
		}
	}

	return -1
}

// ActiveAddress returns the group's active address.
func (g *ProfileGroup) ActiveAddress() string {
	return g.UsingAddress
}

// SetActiveAddress makes the given address active. The address must already
// be in the group.
func (g *ProfileGroup) SetActiveAddress(address string) error {
	if g.addressIndex(address) < 0 {
		return fmt.Errorf("%w: %s", ErrAddressNotFound, address)
	}

	g.UsingAddress = address

	return nil
}

// ActiveAlias returns the alias of the active address.
func (g *ProfileGroup) ActiveAlias() (string, error) {
	i := g.addressIndex(g.UsingAddress)
	if i < 0 || i >= len(g.Aliases) {
		return "", fmt.Errorf("%w: %s", ErrAddressNotFound,
			g.UsingAddress)
	}

	return g.Aliases[i].Alias, nil
}

// SetActiveAlias makes the address behind the given alias active and
// returns that address.
func (g *ProfileGroup) SetActiveAlias(alias string) (string, error) {
	i := g.aliasIndex(alias)
	if i < 0 || i >= len(g.Addresses) {
		return "", fmt.Errorf("%w: %s", ErrAliasNotFound, alias)
	}

	g.UsingAddress = g.Addresses[i]

	return g.UsingAddress, nil
}

// AddressForAlias returns the address behind an alias.
func (g *ProfileGroup) AddressForAlias(alias string) (string, error) {
	i := g.aliasIndex(alias)
	if i < 0 || i >= len(g.Addresses) {
		return "", fmt.Errorf("%w: %s", ErrAliasNotFound, alias)
	}

	return g.Addresses[i], nil
}

// AliasForAddress returns the alias entry of an address.
func (g *ProfileGroup) AliasForAddress(address string) (ProfileAlias,
	error) {

	i := g.addressIndex(address)
	if i < 0 || i >= len(g.Aliases) {
		return ProfileAlias{}, fmt.Errorf("%w: %s",
			ErrAddressNotFound, address)
	}

	return g.Aliases[i], nil
}

// RenameAlias renames an alias and returns the address it stands for. The
// new name must be unused and within the length bounds.
func (g *ProfileGroup) RenameAlias(from, to string) (string, error) {
	if err := validAlias(to); err != nil {
		return "", err
	}

	i := g.aliasIndex(from)
	if i < 0 || i >= len(g.Addresses) {
		return "", fmt.Errorf("%w: %s", ErrAliasNotFound, from)
	}

	if g.aliasIndex(to) >= 0 {
		return "", fmt.Errorf("%w: %s", ErrAliasExists, to)
	}

	g.Aliases[i].Alias = to

	return g.Addresses[i], nil
}

// ActiveProfile returns the group's active connection profile.
func (g *ProfileGroup) ActiveProfile() (Profile, error) {
	i := g.profileIndex(g.UsingProfile)
	if i < 0 {
		return Profile{}, fmt.Errorf("%w: %s", ErrProfileNotFound,
			g.UsingProfile)
	}

	return g.Profiles[i], nil
}

// SetActiveProfile makes the named profile active.
func (g *ProfileGroup) SetActiveProfile(name string) error {
	if g.profileIndex(name) < 0 {
		return fmt.Errorf("%w: %s", ErrProfileNotFound, name)
	}

	g.UsingProfile = name

	return nil
}

// AddProfile adds a connection profile, optionally making it active.
func (g *ProfileGroup) AddProfile(profile Profile, makeActive bool) error {
	if g.profileIndex(profile.Name) >= 0 {
		return fmt.Errorf("%w: %s", ErrProfileExists, profile.Name)
	}

	g.Profiles = append(g.Profiles, profile)

	if makeActive {
		g.UsingProfile = profile.Name
	}

	return nil
}

// AddKeyPair registers a key pair under the given alias and returns the
// derived address. The keystring must be new to the group and the alias
// unused.
func (g *ProfileGroup) AddKeyPair(keyPair *KeyPair, alias string,
	makeActive bool) (string, error) {

	if err := validAlias(alias); err != nil {
		return "", err
	}

	keyString := keyPair.Serialize()
	for _, key := range g.Keys {
		if key.PrivateKeyBase64 == keyString {
			return "", ErrKeyExists
		}
	}

	if g.aliasIndex(alias) >= 0 {
		return "", fmt.Errorf("%w: %s", ErrAliasExists, alias)
	}

	address := keyPair.Address().String()

	g.Addresses = append(g.Addresses, address)
	g.Keys = append(g.Keys, ProfileKey{PrivateKeyBase64: keyString})
	g.Aliases = append(g.Aliases, ProfileAlias{
		Alias: alias,
		PublicKeyBase64: base64.StdEncoding.EncodeToString(
			keyPair.SchemeAndKey(),
		),
	})

	if makeActive {
		g.UsingAddress = address
	}

	log.Infof("Added %v key %s to group %s", keyPair.Scheme(), alias,
		g.Name)

	return address, nil
}

// NewKey generates a key pair from a fresh mnemonic, registers it, and
// returns the mnemonic and derived address. An empty alias is replaced by a
// generated two-word name; an empty derivation path selects the scheme's
// default.
func (g *ProfileGroup) NewKey(scheme SignatureScheme, wordCount int, path,
	alias string, makeActive bool) (string, string, error) {

	mnemonic, keyPair, err := NewKeyPair(scheme, wordCount, path)
	if err != nil {
		return "", "", err
	}

	if alias == "" {
		alias, err = g.genAlias(mnemonic)
		if err != nil {
			return "", "", err
		}
	}

	address, err := g.AddKeyPair(keyPair, alias, makeActive)
	if err != nil {
		return "", "", err
	}

	return mnemonic, address, nil
}

// KeyPairForAddress returns the key pair controlling an address.
func (g *ProfileGroup) KeyPairForAddress(address string) (*KeyPair, error) {
	i := g.addressIndex(address)
	if i < 0 || i >= len(g.Keys) {
		return nil, fmt.Errorf("%w: %s", ErrAddressNotFound, address)
	}

	return ParseKeyString(g.Keys[i].PrivateKeyBase64)
}

// genAlias derives an unused "word-word" alias from mnemonic word pairs,
// drawing fresh mnemonics if every pair from the given one is taken.
func (g *ProfileGroup) genAlias(mnemonic string) (string, error) {
	var err error
	for attempt := 0; attempt < aliasGenAttempts; attempt++ {
		words := strings.Fields(mnemonic)
		half := len(words) / 2

		for i := 0; i < half; i++ {
			candidate := words[i] + "-" + words[i+half]
			if g.aliasIndex(candidate) < 0 {
				return candidate, nil
			}
		}

		mnemonic, err = freshMnemonic()
		if err != nil {
			return "", err
		}
	}

	return "", errors.New("unable to find unique alias")
}

// validAlias checks the alias length bounds.
func validAlias(alias string) error {
	if len(alias) < MinAliasLen || len(alias) > MaxAliasLen {
		return fmt.Errorf("%w: %q", ErrInvalidAlias, alias)
	}

	return nil
}
