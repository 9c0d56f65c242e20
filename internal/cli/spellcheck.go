// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newSpellCheckCmd creates `pandanexus spellcheck`.
func newSpellCheckCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "spellcheck <text>",
		Aliases: []string{"fix"},
		Short:   "Correct spelling, grammar and punctuation",
		Long: `Print the corrected text. Common misspellings, a lowercase "i", sentence
capitalization and missing final punctuation are fixed locally. When that
changes nothing and remote spell check is enabled, the general model is
asked for a correction. A text of "-" is read from stdin.

Examples:
  pandanexus spellcheck "i beleive teh meeting is tommorow"
  pbpaste | pandanexus spellcheck -`,
		Args: minArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := promptFromArgs(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			a, err := g.load(cmd, true)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), a.svc.SpellCheck(cmd.Context(), text))
			return nil
		},
	}
}
