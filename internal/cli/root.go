// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/ssssjaj14-ux/shakeel/internal/ui/styles"
)

// Version information (can be overridden at build time)
var (
	Version   = "1.0.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// globalOptions holds the persistent flags shared by every command.
type globalOptions struct {
	configPath string
	verbose    bool
}

// NewRootCmd creates the root command with every subcommand registered.
func NewRootCmd() *cobra.Command {
	g := &globalOptions{}

	root := &cobra.Command{
		Use:   "pandanexus",
		Short: "PandaNexus AI assistant",
		Long: `PandaNexus routes each message to a model suited to the chosen service
(code, creative, knowledge, general chat), turns drawing requests into
generated images, and answers with a friendly fallback when the AI
service cannot be reached.

Examples:
  pandanexus chat
  pandanexus ask --service code "how do I reverse a slice in Go?"
  pandanexus ask "draw a panda astronaut"
  pandanexus spellcheck "i beleive teh answer is yes"
  pandanexus serve --addr 127.0.0.1:8080`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetVersionTemplate(fmt.Sprintf("pandanexus %s (commit %s, built %s, %s/%s)\n",
		Version, GitCommit, BuildDate, runtime.GOOS, runtime.GOARCH))

	root.PersistentFlags().StringVarP(&g.configPath, "config", "c", "", "config file (default ~/.pandanexus/config.toml)")
	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newServeCmd(g),
		newChatCmd(g),
		newAskCmd(g),
		newSpellCheckCmd(g),
		newModelsCmd(g),
		newConfigCmd(g),
	)
	return root
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, styles.RenderError(err.Error()))
		return ExitCode(err)
	}
	return ExitSuccess
}

// minArgs is cobra.MinimumNArgs returning a UsageError.
func minArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < n {
			return &UsageError{Usage: cmd.UseLine(), Reason: fmt.Sprintf("%s needs at least %d argument(s)", cmd.Name(), n)}
		}
		return nil
	}
}

// exactArgs is cobra.ExactArgs returning a UsageError.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return &UsageError{Usage: cmd.UseLine(), Reason: fmt.Sprintf("%s takes %d argument(s), got %d", cmd.Name(), n, len(args))}
		}
		return nil
	}
}
