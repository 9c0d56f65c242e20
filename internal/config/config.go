// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/ssssjaj14-ux/shakeel/internal/cloud"
	"github.com/ssssjaj14-ux/shakeel/internal/imagegen"
	"github.com/ssssjaj14-ux/shakeel/internal/model"
	"github.com/ssssjaj14-ux/shakeel/internal/router"
	"github.com/ssssjaj14-ux/shakeel/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete PandaNexus configuration.
type Config struct {
	Version string `toml:"version" json:"version"`

	// Cloud (OpenRouter) configuration
	Cloud CloudConfig `toml:"cloud" json:"cloud"`

	// Models maps service categories to upstream model ids
	Models model.ModelTable `toml:"models" json:"models"`

	// Routing configuration
	Routing RoutingConfig `toml:"routing" json:"routing"`

	// Image generation service
	Image imagegen.Options `toml:"image" json:"image"`

	// HTTP API server
	Server ServerConfig `toml:"server" json:"server"`

	// Logging
	Logging LoggingConfig `toml:"logging" json:"logging"`

	// Terminal client
	UI UIConfig `toml:"ui" json:"ui"`

	// apiKeySource records where Cloud.APIKey came from.
	apiKeySource string
}

// CloudConfig contains the completion API settings.
type CloudConfig struct {
	APIKey             string  `toml:"api_key" json:"api_key"`
	BaseURL            string  `toml:"base_url" json:"base_url"`
	SiteURL            string  `toml:"site_url" json:"site_url"`
	SiteName           string  `toml:"site_name" json:"site_name"`
	UserAgent          string  `toml:"user_agent" json:"user_agent"`
	RequestTimeoutSecs int     `toml:"request_timeout_secs" json:"request_timeout_secs"`
	MaxTokens          int     `toml:"max_tokens" json:"max_tokens"`
	TopP               float64 `toml:"top_p" json:"top_p"`
	FrequencyPenalty   float64 `toml:"frequency_penalty" json:"frequency_penalty"`
	PresencePenalty    float64 `toml:"presence_penalty" json:"presence_penalty"`
	RateLimitRPS       float64 `toml:"rate_limit_rps" json:"rate_limit_rps"`
	RateLimitBurst     int     `toml:"rate_limit_burst" json:"rate_limit_burst"`
	RemoteSpellCheck   bool    `toml:"remote_spellcheck" json:"remote_spellcheck"`
}

// RequestTimeout returns the request timeout as a duration.
func (c CloudConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSecs) * time.Second
}

// RoutingConfig contains routing and resilience settings.
type RoutingConfig struct {
	HistoryWindow   int            `toml:"history_window" json:"history_window"`
	OfflineMode     bool           `toml:"offline_mode" json:"offline_mode"`
	DefaultCategory string         `toml:"default_category" json:"default_category"`
	Temperature     router.Options `toml:"temperature" json:"temperature"`
}

// ServerConfig contains the HTTP API settings.
type ServerConfig struct {
	Addr           string   `toml:"addr" json:"addr"`
	CORSOrigins    []string `toml:"cors_origins" json:"cors_origins"`
	RateLimitRPS   float64  `toml:"rate_limit_rps" json:"rate_limit_rps"`
	RateLimitBurst int      `toml:"rate_limit_burst" json:"rate_limit_burst"`
	BodyLimit      string   `toml:"body_limit" json:"body_limit"`
	WatchConfig    bool     `toml:"watch_config" json:"watch_config"`
}

// LoggingConfig contains log output settings.
type LoggingConfig struct {
	Level  string `toml:"level" json:"level"`
	Format string `toml:"format" json:"format"`
}

// UIConfig contains terminal client settings.
type UIConfig struct {
	Markdown  bool `toml:"markdown" json:"markdown"`
	WordWrap  int  `toml:"word_wrap" json:"word_wrap"`
	ShowModel bool `toml:"show_model" json:"show_model"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Version: "1.0.0",

		Cloud: CloudConfig{
			BaseURL:            "https://openrouter.ai/api/v1",
			SiteURL:            "https://pandanexus.dev",
			SiteName:           "PandaNexus AI Platform",
			UserAgent:          cloud.DefaultUserAgent,
			RequestTimeoutSecs: 30,
			MaxTokens:          2000,
			TopP:               0.9,
			FrequencyPenalty:   0.1,
			PresencePenalty:    0.1,
			RateLimitRPS:       0, // unlimited
			RateLimitBurst:     1,
			RemoteSpellCheck:   true,
		},

		Models: model.DefaultModelTable(),

		Routing: RoutingConfig{
			HistoryWindow:   5,
			OfflineMode:     false,
			DefaultCategory: string(model.CategoryAuto),
			Temperature:     router.DefaultOptions(),
		},

		Image: imagegen.DefaultOptions(),

		Server: ServerConfig{
			Addr:           "127.0.0.1:8080",
			CORSOrigins:    []string{"*"},
			RateLimitRPS:   5,
			RateLimitBurst: 10,
			BodyLimit:      "1M",
			WatchConfig:    true,
		},

		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},

		UI: UIConfig{
			Markdown:  true,
			WordWrap:  80,
			ShowModel: true,
		},
	}
}

// fillDefaults fills in any missing values with defaults.
func fillDefaults(cfg *Config) {
	d := Default()

	if cfg.Version == "" {
		cfg.Version = d.Version
	}

	// Cloud
	if cfg.Cloud.BaseURL == "" {
		cfg.Cloud.BaseURL = d.Cloud.BaseURL
	}
	if cfg.Cloud.SiteURL == "" {
		cfg.Cloud.SiteURL = d.Cloud.SiteURL
	}
	if cfg.Cloud.SiteName == "" {
		cfg.Cloud.SiteName = d.Cloud.SiteName
	}
	if cfg.Cloud.UserAgent == "" {
		cfg.Cloud.UserAgent = d.Cloud.UserAgent
	}
	if cfg.Cloud.RequestTimeoutSecs == 0 {
		cfg.Cloud.RequestTimeoutSecs = d.Cloud.RequestTimeoutSecs
	}
	if cfg.Cloud.MaxTokens == 0 {
		cfg.Cloud.MaxTokens = d.Cloud.MaxTokens
	}
	if cfg.Cloud.RateLimitBurst == 0 {
		cfg.Cloud.RateLimitBurst = d.Cloud.RateLimitBurst
	}

	// Models
	cfg.Models = cfg.Models.WithDefaults()

	// Routing
	if cfg.Routing.HistoryWindow == 0 {
		cfg.Routing.HistoryWindow = d.Routing.HistoryWindow
	}
	if cfg.Routing.DefaultCategory == "" {
		cfg.Routing.DefaultCategory = d.Routing.DefaultCategory
	}
	if cfg.Routing.Temperature == (router.Options{}) {
		cfg.Routing.Temperature = d.Routing.Temperature
	}

	// Image
	if cfg.Image.BaseURL == "" {
		cfg.Image.BaseURL = d.Image.BaseURL
	}
	if cfg.Image.ServiceName == "" {
		cfg.Image.ServiceName = d.Image.ServiceName
	}
	if cfg.Image.Width == 0 {
		cfg.Image.Width = d.Image.Width
	}
	if cfg.Image.Height == 0 {
		cfg.Image.Height = d.Image.Height
	}

	// Server
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = d.Server.Addr
	}
	if cfg.Server.RateLimitBurst == 0 {
		cfg.Server.RateLimitBurst = d.Server.RateLimitBurst
	}
	if cfg.Server.BodyLimit == "" {
		cfg.Server.BodyLimit = d.Server.BodyLimit
	}

	// Logging
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = d.Logging.Level
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = d.Logging.Format
	}

	// UI
	if cfg.UI.WordWrap == 0 {
		cfg.UI.WordWrap = d.UI.WordWrap
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the PandaNexus configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".pandanexus"), nil
}

// DefaultPath returns the path to the TOML config file.
func DefaultPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ResolvePath returns path if set, else the default path.
func ResolvePath(path string) (string, error) {
	if path != "" {
		return path, nil
	}
	return DefaultPath()
}

// ensureSecurePermissions narrows a config file to 0600 since it may hold an API key.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if mode := info.Mode().Perm(); mode != 0600 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions (was %o): %w", mode, err)
		}
	}
	return nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from path, or the default location when path
// is empty. A missing file is not an error: defaults are used. Environment
// overrides are applied after the file, then the API key is resolved and
// the result validated.
func Load(path string) (*Config, error) {
	path, err := ResolvePath(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if _, statErr := os.Stat(path); statErr == nil {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
		}
	} else if !errors.Is(statErr, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to stat config %s: %w", path, statErr)
	}

	if cfg.Cloud.APIKey != "" {
		cfg.apiKeySource = SourceFile
	}
	cfg.ApplyEnvOverrides()
	cfg.resolveAPIKey()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML decodes a TOML file into cfg and fills missing values. Keys
// absent from the file keep whatever cfg already holds.
func LoadTOML(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		fmt.Fprintf(os.Stderr, "Warning: unknown config keys in %s: %s\n", path, strings.Join(keys, ", "))
	}
	fillDefaults(cfg)
	return nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save writes the configuration as TOML to path (default location when empty).
// The file is written atomically with 0600 permissions.
func Save(cfg *Config, path string) error {
	path, err := ResolvePath(path)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	buf.WriteString("# PandaNexus configuration file\n")
	buf.WriteString("# Environment variables (PANDANEXUS_*) override these values.\n")
	buf.WriteString("# Prefer `pandanexus config set-key` over storing the API key here.\n\n")

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFileWithDir(path, buf.Bytes(), 0600, 0700); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors as ValidateErrors.
func (c *Config) Validate() error {
	var errs ValidateErrors
	add := func(field, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	// Cloud
	if err := validateHTTPURL(c.Cloud.BaseURL); err != nil {
		add("cloud.base_url", "%v", err)
	}
	if c.Cloud.RequestTimeoutSecs < 1 || c.Cloud.RequestTimeoutSecs > 600 {
		add("cloud.request_timeout_secs", "must be 1-600, got %d", c.Cloud.RequestTimeoutSecs)
	}
	if c.Cloud.MaxTokens < 1 {
		add("cloud.max_tokens", "must be positive, got %d", c.Cloud.MaxTokens)
	}
	if c.Cloud.TopP < 0 || c.Cloud.TopP > 1 {
		add("cloud.top_p", "must be 0-1, got %g", c.Cloud.TopP)
	}
	if c.Cloud.FrequencyPenalty < -2 || c.Cloud.FrequencyPenalty > 2 {
		add("cloud.frequency_penalty", "must be -2 to 2, got %g", c.Cloud.FrequencyPenalty)
	}
	if c.Cloud.PresencePenalty < -2 || c.Cloud.PresencePenalty > 2 {
		add("cloud.presence_penalty", "must be -2 to 2, got %g", c.Cloud.PresencePenalty)
	}
	if c.Cloud.RateLimitRPS < 0 {
		add("cloud.rate_limit_rps", "cannot be negative")
	}

	// Models
	if err := c.Models.Validate(); err != nil {
		add("models", "%v", err)
	}

	// Routing
	if c.Routing.HistoryWindow < 1 || c.Routing.HistoryWindow > 100 {
		add("routing.history_window", "must be 1-100, got %d", c.Routing.HistoryWindow)
	}
	if !model.ServiceCategory(c.Routing.DefaultCategory).IsKnown() {
		add("routing.default_category", "unknown category '%s'", c.Routing.DefaultCategory)
	}
	for name, temp := range map[string]float64{
		"creative": c.Routing.Temperature.CreativeTemperature,
		"code":     c.Routing.Temperature.CodeTemperature,
		"default":  c.Routing.Temperature.DefaultTemperature,
	} {
		if temp < 0 || temp > 2 {
			add("routing.temperature."+name, "must be 0-2, got %g", temp)
		}
	}

	// Image
	if err := validateHTTPURL(c.Image.BaseURL); err != nil {
		add("image.base_url", "%v", err)
	}
	if c.Image.Width < 64 || c.Image.Width > 2048 {
		add("image.width", "must be 64-2048, got %d", c.Image.Width)
	}
	if c.Image.Height < 64 || c.Image.Height > 2048 {
		add("image.height", "must be 64-2048, got %d", c.Image.Height)
	}

	// Server
	if c.Server.RateLimitRPS < 0 {
		add("server.rate_limit_rps", "cannot be negative")
	}

	// Logging
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		add("logging.level", "must be debug, info, warn or error, got '%s'", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		add("logging.format", "must be text or json, got '%s'", c.Logging.Format)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateHTTPURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL: %v", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL must use http or https, got '%s'", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("URL has no host: '%s'", raw)
	}
	return nil
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value by its TOML key path (e.g. "models.code").
func (c *Config) Get(key string) (any, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	if field.Kind() == reflect.Ptr {
		if field.IsNil() {
			return nil, nil
		}
		return field.Elem().Interface(), nil
	}
	return field.Interface(), nil
}

// Set sets a configuration value by its TOML key path (e.g. "routing.history_window").
// String values are converted to the field's type.
func (c *Config) Set(key string, value any) error {
	field, err := c.lookup(key)
	if err != nil {
		return err
	}
	if !field.CanSet() {
		return fmt.Errorf("cannot set field: %s", key)
	}
	return setFieldValue(field, value)
}

// lookup walks the struct tree matching each part of key against toml tags.
func (c *Config) lookup(key string) (reflect.Value, error) {
	if strings.TrimSpace(key) == "" {
		return reflect.Value{}, errors.New("empty key")
	}
	parts := strings.Split(key, ".")

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		field, ok := fieldByTag(v, part)
		if !ok {
			return reflect.Value{}, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}
		if i == len(parts)-1 {
			return field, nil
		}
		if field.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("field '%s' is not a section", strings.Join(parts[:i+1], "."))
		}
		v = field
	}
	return reflect.Value{}, fmt.Errorf("invalid key: %s", key)
}

func fieldByTag(v reflect.Value, name string) (reflect.Value, bool) {
	name = strings.ReplaceAll(strings.ToLower(name), "-", "_")
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		tag := strings.Split(sf.Tag.Get("toml"), ",")[0]
		if tag == name {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}

// setFieldValue sets a reflect.Value from a value with type conversion.
func setFieldValue(field reflect.Value, value any) error {
	if field.Kind() == reflect.Ptr {
		elem := reflect.New(field.Type().Elem())
		if err := setFieldValue(elem.Elem(), value); err != nil {
			return err
		}
		field.Set(elem)
		return nil
	}

	if strVal, ok := value.(string); ok {
		switch field.Kind() {
		case reflect.String:
			field.SetString(strVal)
			return nil
		case reflect.Int, reflect.Int64:
			intVal, err := strconv.ParseInt(strings.TrimSpace(strVal), 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value: %v", err)
			}
			field.SetInt(intVal)
			return nil
		case reflect.Float64:
			floatVal, err := strconv.ParseFloat(strings.TrimSpace(strVal), 64)
			if err != nil {
				return fmt.Errorf("invalid float value: %v", err)
			}
			field.SetFloat(floatVal)
			return nil
		case reflect.Bool:
			field.SetBool(parseBool(strVal))
			return nil
		case reflect.Slice:
			if field.Type().Elem().Kind() == reflect.String {
				field.Set(reflect.ValueOf(splitList(strVal)))
				return nil
			}
		}
	}

	val := reflect.ValueOf(value)
	if !val.IsValid() {
		return fmt.Errorf("cannot assign nil to %s", field.Type())
	}
	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}
	if val.Type().ConvertibleTo(field.Type()) && val.Kind() != reflect.String {
		field.Set(val.Convert(field.Type()))
		return nil
	}
	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// =============================================================================
// COPY / DISPLAY
// =============================================================================

// Clone creates a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Server.CORSOrigins != nil {
		clone.Server.CORSOrigins = append([]string(nil), c.Server.CORSOrigins...)
	}
	if c.Image.Enhance != nil {
		enhance := *c.Image.Enhance
		clone.Image.Enhance = &enhance
	}
	return &clone
}

// Redacted returns a copy safe to print or log.
func (c *Config) Redacted() *Config {
	safe := c.Clone()
	if safe.Cloud.APIKey != "" {
		safe.Cloud.APIKey = "[REDACTED]"
	}
	return safe
}

// String returns a JSON representation with the API key redacted.
func (c *Config) String() string {
	data, _ := json.MarshalIndent(c.Redacted(), "", "  ")
	return string(data)
}

// TOML returns the redacted configuration encoded as TOML.
func (c *Config) TOML() (string, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c.Redacted()); err != nil {
		return "", err
	}
	return buf.String(), nil
}
