// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"
)

// Keyring coordinates for the API key.
const (
	KeyringService = "pandanexus"
	KeyringUser    = "openrouter_api_key"
)

// Where the API key was found.
const (
	SourceNone    = "none"
	SourceEnv     = "env"
	SourceKeyring = "keyring"
	SourceFile    = "file"
)

// APIKeySource reports where Cloud.APIKey came from.
func (c *Config) APIKeySource() string {
	if c.apiKeySource == "" {
		return SourceNone
	}
	return c.apiKeySource
}

// resolveAPIKey consults the keyring unless the environment set the key.
// A keyring entry takes precedence over a key stored in the file.
func (c *Config) resolveAPIKey() {
	if c.apiKeySource == SourceEnv {
		return
	}
	if key, err := LoadAPIKey(); err == nil && key != "" {
		c.Cloud.APIKey = key
		c.apiKeySource = SourceKeyring
	}
}

// StoreAPIKey saves the API key in the OS keyring.
func StoreAPIKey(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("API key is empty")
	}
	if err := keyring.Set(KeyringService, KeyringUser, key); err != nil {
		return fmt.Errorf("failed to store API key in keyring: %w", err)
	}
	return nil
}

// LoadAPIKey reads the API key from the OS keyring. A missing entry returns
// an empty key and no error.
func LoadAPIKey() (string, error) {
	key, err := keyring.Get(KeyringService, KeyringUser)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read API key from keyring: %w", err)
	}
	return strings.TrimSpace(key), nil
}

// DeleteAPIKey removes the API key from the OS keyring.
func DeleteAPIKey() error {
	err := keyring.Delete(KeyringService, KeyringUser)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to delete API key from keyring: %w", err)
	}
	return nil
}
