// Copyright (c) 2026 The suisuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package keyring

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// configFilePerm keeps the config file private to the owner since it holds
// private key material.
const configFilePerm = 0o600

var (
	// ErrGroupNotFound is returned when a group name is not in the
	// config.
	ErrGroupNotFound = errors.New("profile group not found")

	// ErrGroupExists is returned when adding a group whose name is
	// already taken.
	ErrGroupExists = errors.New("profile group already exists")

	// ErrNoActiveGroup is returned when the config names no active
	// group.
	ErrNoActiveGroup = errors.New("no active profile group")
)

// Config is the on-disk collection of profile groups. One group is active
// at a time; its active profile and address are what a client built from
// the config uses by default.
type Config struct {
	// ActiveGroup names the group in use.
	ActiveGroup string `yaml:"active_group"`

	// Groups holds all known profile groups.
	Groups []*ProfileGroup `yaml:"groups"`

	// path is where the config was loaded from and saves back to.
	path string
}

// NewConfig creates an empty config that will save to the given path.
func NewConfig(path string) *Config {
	return &Config{path: path}
}

// LoadConfig reads a config from the given YAML file.
func LoadConfig(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := &Config{path: path}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	log.Debugf("Loaded %d profile group(s) from %s", len(cfg.Groups),
		path)

	return cfg, nil
}

// Save writes the config back to the file it was loaded from, owner-only
// readable.
func (c *Config) Save() error {
	raw, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	if err := os.WriteFile(c.path, raw, configFilePerm); err != nil {
		return fmt.Errorf("write config %s: %w", c.path, err)
	}

	return nil
}

// Group returns the named profile group.
func (c *Config) Group(name string) (*ProfileGroup, error) {
	for _, group := range c.Groups {
		if group.Name == name {
			return group, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrGroupNotFound, name)
}

// ActiveProfileGroup returns the group currently in use.
func (c *Config) ActiveProfileGroup() (*ProfileGroup, error) {
	if c.ActiveGroup == "" {
		return nil, ErrNoActiveGroup
	}

	return c.Group(c.ActiveGroup)
}

// AddGroup adds a profile group, optionally making it active.
func (c *Config) AddGroup(group *ProfileGroup, makeActive bool) error {
	if _, err := c.Group(group.Name); err == nil {
		return fmt.Errorf("%w: %s", ErrGroupExists, group.Name)
	}

	c.Groups = append(c.Groups, group)

	if makeActive {
		c.ActiveGroup = group.Name
	}

	return nil
}
