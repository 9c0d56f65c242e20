// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ssssjaj14-ux/shakeel/internal/model"
	"github.com/ssssjaj14-ux/shakeel/internal/offline"
)

// newAskCmd creates `pandanexus ask`.
func newAskCmd(g *globalOptions) *cobra.Command {
	var (
		service string
		image   string
		file    string
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "ask [flags] <prompt>",
		Short: "Ask a single question",
		Long: `Send one message and print the reply. A prompt of "-" is read from stdin.

The reply is never an error: if the AI service cannot be reached the
service's offline reply is printed instead.

Examples:
  pandanexus ask "what is a goroutine?"
  pandanexus ask --service creative "a haiku about bamboo"
  pandanexus ask --image cat.png "what breed is this?"
  pandanexus ask --file main.go "review this"
  git diff | pandanexus ask --service code -`,
		Args: minArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt, err := promptFromArgs(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			a, err := g.load(cmd, true)
			if err != nil {
				return err
			}

			var history []model.Message
			if file != "" {
				content, err := fileMessage(file)
				if err != nil {
					return err
				}
				history = append(history, model.NewUserMessage(content))
			}
			msg := model.NewUserMessage(prompt)
			if image != "" {
				ref, err := imageRef(image)
				if err != nil {
					return err
				}
				msg = msg.WithImage(ref)
			}
			history = append(history, msg)

			category := resolveCategory(service, a.cfg)
			result := a.svc.SendMessage(cmd.Context(), history, category)

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, askOutput{
					CompletionResult: result,
					Service:          string(category),
					Fallback:         offline.IsFallback(result),
				})
			}
			p := &resultPrinter{
				out:       out,
				markdown:  newMarkdownRenderer(out, a.cfg.UI.Markdown, a.cfg.UI.WordWrap),
				showModel: a.cfg.UI.ShowModel,
			}
			p.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&service, "service", "s", "", "service: auto, code, creative, knowledge, general")
	cmd.Flags().StringVarP(&image, "image", "i", "", "attach an image (path or URL)")
	cmd.Flags().StringVarP(&file, "file", "f", "", "include a text file before the prompt")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	return cmd
}

// promptFromArgs joins args into a prompt. A lone "-" reads r instead.
func promptFromArgs(r io.Reader, args []string) (string, error) {
	if len(args) == 1 && args[0] == "-" {
		data, err := io.ReadAll(io.LimitReader(r, MaxFileBytes+1))
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		if len(data) > MaxFileBytes {
			return "", fmt.Errorf("stdin exceeds %d bytes", MaxFileBytes)
		}
		args = []string{string(data)}
	}
	prompt := strings.TrimSpace(strings.Join(args, " "))
	if prompt == "" {
		return "", &UsageError{Reason: "prompt is empty"}
	}
	return prompt, nil
}
