// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ssssjaj14-ux/shakeel/internal/assistant"
	"github.com/ssssjaj14-ux/shakeel/internal/cloud"
	"github.com/ssssjaj14-ux/shakeel/internal/config"
	"github.com/ssssjaj14-ux/shakeel/internal/imagegen"
	"github.com/ssssjaj14-ux/shakeel/internal/model"
	"github.com/ssssjaj14-ux/shakeel/internal/offline"
)

// app is what a command runs with: the effective config, a logger and the
// pipeline built from them.
type app struct {
	cfg    *config.Config
	path   string
	logger *slog.Logger
	svc    *assistant.Service
}

// load reads the config and builds the pipeline. Interactive commands log
// at warn and above unless --verbose is set so logs do not interleave with
// replies.
func (g *globalOptions) load(cmd *cobra.Command, interactive bool) (*app, error) {
	path, err := config.ResolvePath(g.configPath)
	if err != nil {
		return nil, &ConfigError{Path: g.configPath, Err: err}
	}

	config.LoadDotEnv(".")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}

	setupColors(cmd.OutOrStdout())
	logger := newLogger(cmd.ErrOrStderr(), cfg.Logging, g.verbose, interactive)
	offline.SetOfflineMode(cfg.Routing.OfflineMode)

	logger.Debug("config loaded",
		"path", path,
		"api_key_source", cfg.APIKeySource(),
		"offline", cfg.Routing.OfflineMode,
	)
	return &app{cfg: cfg, path: path, logger: logger, svc: NewService(cfg, logger)}, nil
}

// newLogger builds the slog logger described by the [logging] section.
func newLogger(w io.Writer, lc config.LoggingConfig, verbose, interactive bool) *slog.Logger {
	level := parseLevel(lc.Level)
	if interactive && level < slog.LevelWarn {
		level = slog.LevelWarn
	}
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if strings.EqualFold(lc.Format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewService builds the request pipeline from a config. Without an API key
// the pipeline has no completer and answers text requests with fallbacks.
func NewService(cfg *config.Config, logger *slog.Logger) *assistant.Service {
	var completer assistant.Completer
	if cfg.Cloud.APIKey != "" {
		client := cloud.NewClient(cfg.Cloud.APIKey).
			WithBaseURL(cfg.Cloud.BaseURL).
			WithSiteURL(cfg.Cloud.SiteURL).
			WithSiteName(cfg.Cloud.SiteName).
			WithUserAgent(cfg.Cloud.UserAgent).
			WithLogger(logger)
		if cfg.Cloud.RateLimitRPS > 0 {
			client = client.WithRateLimit(cfg.Cloud.RateLimitRPS, cfg.Cloud.RateLimitBurst)
		}
		completer = client
	}

	opts := assistant.Options{
		Models:           cfg.Models,
		Sampling:         cfg.Routing.Temperature,
		HistoryWindow:    cfg.Routing.HistoryWindow,
		RequestTimeout:   cfg.Cloud.RequestTimeout(),
		MaxTokens:        cfg.Cloud.MaxTokens,
		TopP:             cfg.Cloud.TopP,
		FrequencyPenalty: cfg.Cloud.FrequencyPenalty,
		PresencePenalty:  cfg.Cloud.PresencePenalty,
		RemoteSpellCheck: cfg.Cloud.RemoteSpellCheck,
	}
	return assistant.New(completer, imagegen.New(cfg.Image), opts, logger)
}

// defaultCategory is the configured service for requests that name none.
func defaultCategory(cfg *config.Config) model.ServiceCategory {
	return model.ServiceCategory(cfg.Routing.DefaultCategory).Resolve()
}

// resolveCategory maps a --service flag value. Empty uses the configured
// default; unknown names pass through and degrade to auto routing.
func resolveCategory(flag string, cfg *config.Config) model.ServiceCategory {
	if strings.TrimSpace(flag) == "" {
		return defaultCategory(cfg)
	}
	if cat, ok := model.ParseCategory(flag); ok {
		return cat
	}
	return model.ServiceCategory(flag)
}
