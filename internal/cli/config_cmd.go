// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ssssjaj14-ux/shakeel/internal/cloud"
	"github.com/ssssjaj14-ux/shakeel/internal/config"
	"github.com/ssssjaj14-ux/shakeel/internal/ui/styles"
)

// newConfigCmd creates `pandanexus config` and its subcommands.
func newConfigCmd(g *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and edit the configuration",
		Long: `Inspect and edit the configuration file.

Keys use dotted TOML paths, for example models.code or routing.offline_mode.
The API key is best kept in the OS keyring with set-key.

Examples:
  pandanexus config init
  pandanexus config show
  pandanexus config set models.code qwen/qwen3-coder:free
  pandanexus config set-key`,
	}

	cmd.AddCommand(
		newConfigShowCmd(g),
		newConfigPathCmd(g),
		newConfigInitCmd(g),
		newConfigGetCmd(g),
		newConfigSetCmd(g),
		newConfigSetKeyCmd(),
		newConfigDeleteKeyCmd(),
	)
	return cmd
}

func newConfigShowCmd(g *globalOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration (API key redacted)",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.load(cmd, true)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				fmt.Fprintln(out, a.cfg.String())
				return nil
			}
			text, err := a.cfg.TOML()
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "# %s (api key from %s)\n", a.path, a.cfg.APIKeySource())
			fmt.Fprint(out, text)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

func newConfigPathCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.ResolvePath(g.configPath)
			if err != nil {
				return &ConfigError{Path: g.configPath, Err: err}
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

func newConfigInitCmd(g *globalOptions) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default settings",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.ResolvePath(g.configPath)
			if err != nil {
				return &ConfigError{Path: g.configPath, Err: err}
			}
			if _, err := os.Stat(path); err == nil && !force {
				return &UsageError{Reason: fmt.Sprintf("%s already exists (use --force to overwrite)", path)}
			}
			if err := config.Save(config.Default(), path); err != nil {
				return &ConfigError{Path: path, Err: err}
			}
			fmt.Fprintln(cmd.OutOrStdout(), styles.RenderSuccess("wrote "+path))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	return cmd
}

func newConfigGetCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print one configuration value",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.load(cmd, true)
			if err != nil {
				return err
			}
			value, err := a.cfg.Redacted().Get(args[0])
			if err != nil {
				return &UsageError{Reason: err.Error()}
			}
			if list, ok := value.([]string); ok {
				value = strings.Join(list, ",")
			}
			if value == nil {
				value = ""
			}
			fmt.Fprintln(cmd.OutOrStdout(), value)
			return nil
		},
	}
}

// newConfigSetCmd edits the file itself rather than the effective config so
// that environment overrides and keyring secrets are not written out.
func newConfigSetCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one value in the config file",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.ResolvePath(g.configPath)
			if err != nil {
				return &ConfigError{Path: g.configPath, Err: err}
			}
			cfg := config.Default()
			if _, err := os.Stat(path); err == nil {
				if err := config.LoadTOML(cfg, path); err != nil {
					return &ConfigError{Path: path, Err: err}
				}
			}
			if err := cfg.Set(args[0], args[1]); err != nil {
				return &UsageError{Reason: err.Error()}
			}
			if err := cfg.Validate(); err != nil {
				return &UsageError{Reason: err.Error()}
			}
			if err := config.Save(cfg, path); err != nil {
				return &ConfigError{Path: path, Err: err}
			}
			fmt.Fprintln(cmd.OutOrStdout(), styles.RenderSuccess(fmt.Sprintf("%s = %s", args[0], args[1])))
			return nil
		},
	}
}

func newConfigSetKeyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-key [key]",
		Short: "Store the API key in the OS keyring",
		Long: `Store the API key in the OS keyring. Without an argument the key is read
from the terminal without echo, or from stdin when piped.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var key string
			if len(args) == 1 {
				key = args[0]
			} else {
				var err error
				key, err = readSecret(cmd.InOrStdin(), cmd.ErrOrStderr())
				if err != nil {
					return err
				}
			}
			key = strings.TrimSpace(key)
			if key == "" {
				return &UsageError{Reason: "API key is empty"}
			}
			out := cmd.OutOrStdout()
			if !cloud.ValidateAPIKey(key) {
				fmt.Fprintln(out, styles.RenderWarning("key does not look like an OpenRouter key (sk-or-...)"))
			}
			if err := config.StoreAPIKey(key); err != nil {
				return err
			}
			fmt.Fprintln(out, styles.RenderSuccess("API key stored ("+cloud.Fingerprint(key)+")"))
			return nil
		},
	}
}

func newConfigDeleteKeyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete-key",
		Short: "Remove the API key from the OS keyring",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.DeleteAPIKey(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), styles.RenderSuccess("API key removed from keyring"))
			return nil
		},
	}
}

// readSecret reads a line without echo when in is a terminal.
func readSecret(in io.Reader, prompt io.Writer) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(prompt, "OpenRouter API key: ")
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(prompt)
		if err != nil {
			return "", fmt.Errorf("failed to read key: %w", err)
		}
		return string(b), nil
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read key: %w", err)
	}
	return line, nil
}
