// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"github.com/ssssjaj14-ux/shakeel/internal/cloud"
	"github.com/ssssjaj14-ux/shakeel/internal/model"
)

func TestMain(m *testing.M) {
	keyring.MockInit()
	os.Exit(m.Run())
}

// clearEnv blanks every variable ApplyEnvOverrides reads.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"OPENROUTER_API_KEY", "PANDANEXUS_API_KEY", "PANDANEXUS_BASE_URL",
		"PANDANEXUS_TIMEOUT", "PANDANEXUS_HISTORY_WINDOW", "PANDANEXUS_OFFLINE",
		"PANDANEXUS_SERVICE", "PANDANEXUS_ADDR", "PANDANEXUS_LOG_LEVEL",
		"PANDANEXUS_LOG_FORMAT", "PANDANEXUS_MODEL_AUTO", "PANDANEXUS_MODEL_CODE",
		"PANDANEXUS_MODEL_CREATIVE", "PANDANEXUS_MODEL_KNOWLEDGE",
		"PANDANEXUS_MODEL_GENERAL", "PANDANEXUS_MODEL_IMAGE",
	} {
		t.Setenv(name, "")
	}
	require.NoError(t, DeleteAPIKey())
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
}

// =============================================================================
// DEFAULTS / VALIDATION
// =============================================================================

func TestDefault_Validates(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 5, cfg.Routing.HistoryWindow)
	assert.Equal(t, 30*time.Second, cfg.Cloud.RequestTimeout())
	assert.Equal(t, model.DefaultModelTable(), cfg.Models)
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	cfg := Default()
	cfg.Routing.HistoryWindow = 0
	cfg.Cloud.BaseURL = "ftp://example.com"
	cfg.Cloud.TopP = 3
	cfg.Logging.Format = "xml"
	cfg.Models.Code = ""

	err := cfg.Validate()
	require.Error(t, err)

	var verrs ValidateErrors
	require.True(t, errors.As(err, &verrs))

	fields := make([]string, 0, len(verrs))
	for _, v := range verrs {
		fields = append(fields, v.Field)
	}
	assert.ElementsMatch(t, []string{
		"routing.history_window", "cloud.base_url", "cloud.top_p", "logging.format", "models",
	}, fields)
}

// =============================================================================
// LOAD / SAVE
// =============================================================================

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default().Models, cfg.Models)
	assert.Equal(t, SourceNone, cfg.APIKeySource())
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, `
[cloud]
api_key = "sk-or-from-file"

[models]
code = "custom/coder"

[routing]
history_window = 8
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "custom/coder", cfg.Models.Code)
	assert.Equal(t, model.DefaultCreativeModel, cfg.Models.Creative)
	assert.Equal(t, 8, cfg.Routing.HistoryWindow)
	assert.True(t, cfg.Cloud.RemoteSpellCheck, "unset bool keeps its default")
	assert.Equal(t, "sk-or-from-file", cfg.Cloud.APIKey)
	assert.Equal(t, cloud.DefaultUserAgent, cfg.Cloud.UserAgent)
	assert.Equal(t, SourceFile, cfg.APIKeySource())
}

func TestLoad_InvalidFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, "[routing]\nhistory_window = -1\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "routing.history_window")

	writeFile(t, path, "this is not toml = = =")
	_, err = Load(path)
	require.Error(t, err)
}

func TestSaveAndLoad_RoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := Default()
	cfg.Models.Knowledge = "some/researcher"
	cfg.Server.CORSOrigins = []string{"https://a.example", "https://b.example"}
	require.NoError(t, Save(cfg, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "some/researcher", loaded.Models.Knowledge)
	assert.Equal(t, cfg.Server.CORSOrigins, loaded.Server.CORSOrigins)
}

// =============================================================================
// ENVIRONMENT / SECRETS
// =============================================================================

func TestApplyEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENROUTER_API_KEY", "sk-or-generic")
	t.Setenv("PANDANEXUS_API_KEY", "sk-or-specific")
	t.Setenv("PANDANEXUS_TIMEOUT", "12")
	t.Setenv("PANDANEXUS_OFFLINE", "true")
	t.Setenv("PANDANEXUS_MODEL_CODE", "env/coder")
	t.Setenv("PANDANEXUS_HISTORY_WINDOW", "not-a-number")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	assert.Equal(t, "sk-or-specific", cfg.Cloud.APIKey)
	assert.Equal(t, SourceEnv, cfg.APIKeySource())
	assert.Equal(t, 12, cfg.Cloud.RequestTimeoutSecs)
	assert.True(t, cfg.Routing.OfflineMode)
	assert.Equal(t, "env/coder", cfg.Models.Code)
	assert.Equal(t, 5, cfg.Routing.HistoryWindow, "bad integers are ignored")
}

func TestAPIKeyPrecedence(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, "[cloud]\napi_key = \"sk-or-file\"\n")

	require.NoError(t, StoreAPIKey("sk-or-keyring"))
	t.Cleanup(func() { _ = DeleteAPIKey() })

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sk-or-keyring", cfg.Cloud.APIKey)
	assert.Equal(t, SourceKeyring, cfg.APIKeySource())

	t.Setenv("PANDANEXUS_API_KEY", "sk-or-env")
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sk-or-env", cfg.Cloud.APIKey)
	assert.Equal(t, SourceEnv, cfg.APIKeySource())
}

func TestStoreAPIKey_Empty(t *testing.T) {
	assert.Error(t, StoreAPIKey("   "))
}

func TestLoadDotEnv_DoesNotOverride(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".env"), "PANDANEXUS_TEST_A=from-file\nPANDANEXUS_TEST_B=from-file\n")
	t.Setenv("PANDANEXUS_TEST_A", "from-env")
	t.Cleanup(func() { os.Unsetenv("PANDANEXUS_TEST_B") })

	LoadDotEnv(dir)

	assert.Equal(t, "from-env", os.Getenv("PANDANEXUS_TEST_A"))
	assert.Equal(t, "from-file", os.Getenv("PANDANEXUS_TEST_B"))
}

func TestString_RedactsAPIKey(t *testing.T) {
	cfg := Default()
	cfg.Cloud.APIKey = "sk-or-secret-value"

	assert.NotContains(t, cfg.String(), "secret-value")
	out, err := cfg.TOML()
	require.NoError(t, err)
	assert.NotContains(t, out, "secret-value")
	assert.Equal(t, "sk-or-secret-value", cfg.Cloud.APIKey, "original untouched")
}

// =============================================================================
// GET / SET
// =============================================================================

func TestGetSet(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Set("models.code", "x/coder"))
	require.NoError(t, cfg.Set("routing.history_window", "9"))
	require.NoError(t, cfg.Set("routing.temperature.creative", "1.1"))
	require.NoError(t, cfg.Set("routing.offline_mode", "yes"))
	require.NoError(t, cfg.Set("server.cors_origins", "https://a, https://b"))
	require.NoError(t, cfg.Set("image.enhance", "false"))
	require.NoError(t, cfg.Set("cloud.user_agent", "panda-test/2"))

	assert.Equal(t, "x/coder", cfg.Models.Code)
	assert.Equal(t, 9, cfg.Routing.HistoryWindow)
	assert.Equal(t, 1.1, cfg.Routing.Temperature.CreativeTemperature)
	assert.True(t, cfg.Routing.OfflineMode)
	assert.Equal(t, []string{"https://a", "https://b"}, cfg.Server.CORSOrigins)
	require.NotNil(t, cfg.Image.Enhance)
	assert.False(t, *cfg.Image.Enhance)
	assert.Equal(t, "panda-test/2", cfg.Cloud.UserAgent)

	v, err := cfg.Get("routing.history_window")
	require.NoError(t, err)
	assert.Equal(t, 9, v)

	_, err = cfg.Get("routing.nope")
	assert.Error(t, err)
	assert.Error(t, cfg.Set("routing.history_window", "nine"))
	assert.Error(t, cfg.Set("models.code.deeper", "x"))
	assert.Error(t, cfg.Set("", "x"))
}

func TestClone_IsDeep(t *testing.T) {
	cfg := Default()
	clone := cfg.Clone()
	clone.Server.CORSOrigins[0] = "changed"
	assert.Equal(t, "*", cfg.Server.CORSOrigins[0])
}

// =============================================================================
// WATCHER
// =============================================================================

func TestWatcher_ReloadsOnChange(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, "[routing]\nhistory_window = 3\n")

	var reloads atomic.Int32
	var lastWindow atomic.Int32
	w := NewWatcher(path, func(cfg *Config) {
		lastWindow.Store(int32(cfg.Routing.HistoryWindow))
		reloads.Add(1)
	}, slog.New(slog.NewTextHandler(io.Discard, nil))).WithDebounce(20 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Invalid edits are skipped, valid ones delivered. Rewrite until the
	// watcher is observed to be running.
	require.Eventually(t, func() bool {
		writeFile(t, path, "[routing]\nhistory_window = 7\n")
		return reloads.Load() > 0
	}, 5*time.Second, 100*time.Millisecond)
	assert.Equal(t, int32(7), lastWindow.Load())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatcher_MissingDirectory(t *testing.T) {
	w := NewWatcher(filepath.Join(t.TempDir(), "missing", "config.toml"), func(*Config) {}, nil)
	err := w.Run(context.Background())
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "failed to watch"))
}
