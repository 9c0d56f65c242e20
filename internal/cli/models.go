// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/ssssjaj14-ux/shakeel/internal/cloud"
	"github.com/ssssjaj14-ux/shakeel/internal/model"
	"github.com/ssssjaj14-ux/shakeel/internal/ui/styles"
)

// modelRow is one line of the routing table.
type modelRow struct {
	Service string `json:"service"`
	Label   string `json:"label"`
	Model   string `json:"model"`
}

// newModelsCmd creates `pandanexus models`.
func newModelsCmd(g *globalOptions) *cobra.Command {
	var (
		remote   bool
		freeOnly bool
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "models",
		Short: "Show which model serves each service",
		Long: `Show the routing table: the model each service is sent to, the model
used for messages with images, and the image generation service.

With --remote, list the models the completion API offers instead.

Examples:
  pandanexus models
  pandanexus models --remote --free`,
		Args: exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.load(cmd, true)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if remote {
				client := cloud.NewClient(a.cfg.Cloud.APIKey).
					WithBaseURL(a.cfg.Cloud.BaseURL).
					WithUserAgent(a.cfg.Cloud.UserAgent).
					WithLogger(a.logger)
				models, err := client.ListModels(cmd.Context())
				if err != nil {
					return &NetworkError{Op: "list models", Err: err}
				}
				models = filterModels(models, freeOnly)
				if asJSON {
					return writeJSON(out, models)
				}
				printRemoteModels(out, models, a.svc.Models())
				return nil
			}

			rows := routingRows(a.svc.Models())
			if asJSON {
				return writeJSON(out, struct {
					Services []modelRow `json:"services"`
					Vision   string     `json:"vision_model"`
					Images   string     `json:"image_service"`
				}{rows, a.svc.Models().Image, a.cfg.Image.ServiceName})
			}
			printRoutingTable(out, rows, a.svc.Models().Image, a.cfg.Image.ServiceName)
			return nil
		},
	}

	cmd.Flags().BoolVar(&remote, "remote", false, "list models offered by the completion API")
	cmd.Flags().BoolVar(&freeOnly, "free", false, "with --remote, only list free models")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

func routingRows(t model.ModelTable) []modelRow {
	cats := model.Categories()
	rows := make([]modelRow, 0, len(cats))
	for _, info := range cats {
		rows = append(rows, modelRow{
			Service: string(info.Category),
			Label:   info.Label,
			Model:   t.For(info.Category),
		})
	}
	return rows
}

func printRoutingTable(w io.Writer, rows []modelRow, vision, images string) {
	fmt.Fprintln(w, titleStyle.Render("Service routing"))
	fmt.Fprintln(w, separator(60))
	for _, r := range rows {
		name := categoryText(model.ServiceCategory(r.Service), padRight(r.Service, 11))
		fmt.Fprintf(w, "  %s %s %s\n", name, labelStyle.Render(padRight(r.Label, 10)), valueStyle.Render(r.Model))
	}
	fmt.Fprintln(w, separator(60))
	fmt.Fprintf(w, "  %s %s\n", labelStyle.Render(padRight("images in", 22)), valueStyle.Render(vision))
	fmt.Fprintf(w, "  %s %s\n", labelStyle.Render(padRight("images out", 22)), valueStyle.Render(images))
}

func filterModels(models []cloud.ModelInfo, freeOnly bool) []cloud.ModelInfo {
	out := models[:0:0]
	for _, m := range models {
		if freeOnly && !m.IsFree() {
			continue
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// printRemoteModels lists models, marking those in the routing table.
func printRemoteModels(w io.Writer, models []cloud.ModelInfo, table model.ModelTable) {
	if len(models) == 0 {
		fmt.Fprintln(w, styles.RenderInfo("no models matched"))
		return
	}
	for _, m := range models {
		mark := "  "
		if table.Contains(m.ID) {
			mark = commandStyle.Render("* ")
		}
		ctx := ""
		if m.ContextSize > 0 {
			ctx = fmt.Sprintf("%dk ctx", m.ContextSize/1000)
		}
		fmt.Fprintf(w, "%s%s %s\n", mark, valueStyle.Render(padRight(m.ID, 56)), mutedStyle.Render(ctx))
	}
	fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("%d models; * marks models in the routing table", len(models))))
}

func categoryText(c model.ServiceCategory, s string) string {
	return titleStyle.Foreground(styles.CategoryColor(c)).Render(s)
}
