// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for PandaNexus.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - CloudConfig: Completion API endpoint, credentials and sampling
//   - ServerConfig: HTTP API listener and middleware settings
//   - Watcher: Reloads the file on change and hands out the new Config
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (PANDANEXUS_*, OPENROUTER_API_KEY), including
//     values from .env and .env.local in the working directory
//   - ~/.pandanexus/config.toml (or the --config path)
//   - Built-in defaults
//
// The API key is looked up in the environment first, then in the OS
// keyring, then in the file.
//
// # Usage
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	timeout := cfg.Cloud.RequestTimeout()
package config
