// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads .env and .env.local from dir into the process
// environment. Variables already set are not overwritten and missing files
// are ignored.
func LoadDotEnv(dir string) {
	for _, name := range []string{".env", ".env.local"} {
		_ = godotenv.Load(filepath.Join(dir, name))
	}
}

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - PANDANEXUS_API_KEY, OPENROUTER_API_KEY: cloud.api_key
//   - PANDANEXUS_BASE_URL: cloud.base_url
//   - PANDANEXUS_TIMEOUT: cloud.request_timeout_secs
//   - PANDANEXUS_HISTORY_WINDOW: routing.history_window
//   - PANDANEXUS_OFFLINE: routing.offline_mode
//   - PANDANEXUS_SERVICE: routing.default_category
//   - PANDANEXUS_MODEL_<CATEGORY>: models.<category> (AUTO, CODE, CREATIVE, KNOWLEDGE, GENERAL, IMAGE)
//   - PANDANEXUS_ADDR: server.addr
//   - PANDANEXUS_LOG_LEVEL, PANDANEXUS_LOG_FORMAT: logging.level, logging.format
func (c *Config) ApplyEnvOverrides() {
	// PANDANEXUS_API_KEY wins over the generic OPENROUTER_API_KEY
	for _, name := range []string{"OPENROUTER_API_KEY", "PANDANEXUS_API_KEY"} {
		if key := strings.TrimSpace(os.Getenv(name)); key != "" {
			c.Cloud.APIKey = key
			c.apiKeySource = SourceEnv
		}
	}

	if url := os.Getenv("PANDANEXUS_BASE_URL"); url != "" {
		c.Cloud.BaseURL = url
	}
	if secs, ok := envInt("PANDANEXUS_TIMEOUT"); ok {
		c.Cloud.RequestTimeoutSecs = secs
	}
	if n, ok := envInt("PANDANEXUS_HISTORY_WINDOW"); ok {
		c.Routing.HistoryWindow = n
	}
	if offline := os.Getenv("PANDANEXUS_OFFLINE"); offline != "" {
		c.Routing.OfflineMode = parseBool(offline)
	}
	if service := os.Getenv("PANDANEXUS_SERVICE"); service != "" {
		c.Routing.DefaultCategory = strings.ToLower(service)
	}

	models := map[string]*string{
		"AUTO":      &c.Models.Auto,
		"CODE":      &c.Models.Code,
		"CREATIVE":  &c.Models.Creative,
		"KNOWLEDGE": &c.Models.Knowledge,
		"GENERAL":   &c.Models.General,
		"IMAGE":     &c.Models.Image,
	}
	for suffix, dst := range models {
		if id := os.Getenv("PANDANEXUS_MODEL_" + suffix); id != "" {
			*dst = id
		}
	}

	if addr := os.Getenv("PANDANEXUS_ADDR"); addr != "" {
		c.Server.Addr = addr
	}
	if level := os.Getenv("PANDANEXUS_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	if format := os.Getenv("PANDANEXUS_LOG_FORMAT"); format != "" {
		c.Logging.Format = format
	}
}

func envInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}
