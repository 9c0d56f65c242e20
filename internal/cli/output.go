// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ssssjaj14-ux/shakeel/internal/model"
	"github.com/ssssjaj14-ux/shakeel/internal/offline"
	"github.com/ssssjaj14-ux/shakeel/internal/ui/styles"
	"github.com/ssssjaj14-ux/shakeel/internal/util"
)

// =============================================================================
// STYLES
// =============================================================================

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(styles.Cyan).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(styles.TextSecondary)

	valueStyle = lipgloss.NewStyle().
			Foreground(styles.TextPrimary)

	mutedStyle = lipgloss.NewStyle().
			Foreground(styles.TextMuted)

	commandStyle = lipgloss.NewStyle().
			Foreground(styles.Emerald)

	separatorStyle = lipgloss.NewStyle().
			Foreground(styles.Overlay)
)

// separator renders a horizontal rule.
func separator(width int) string {
	return separatorStyle.Render(strings.Repeat("-", width))
}

// =============================================================================
// RESULT RENDERING
// =============================================================================

// resultPrinter writes CompletionResults for people.
type resultPrinter struct {
	out       io.Writer
	markdown  *markdownRenderer
	showModel bool
}

// Print writes the reply, an image link if any, and a model footer.
func (p *resultPrinter) Print(r model.CompletionResult) {
	content := r.Content
	if p.markdown != nil {
		content = strings.TrimRight(p.markdown.Render(content), "\n")
	}
	fmt.Fprintln(p.out, content)

	if r.HasImage() {
		fmt.Fprintln(p.out, styles.RenderLink(r.GeneratedImage))
	}

	switch {
	case offline.IsFallback(r):
		fmt.Fprintln(p.out, styles.RenderWarning("offline reply: the AI service could not be reached"))
	case p.showModel:
		fmt.Fprintln(p.out, mutedStyle.Render("via "+r.ModelUsed))
	}
}

// =============================================================================
// JSON OUTPUT
// =============================================================================

// askOutput is the --json form of an answer.
type askOutput struct {
	model.CompletionResult
	Service  string `json:"service"`
	Fallback bool   `json:"fallback"`
}

// writeJSON writes v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// =============================================================================
// TABLES
// =============================================================================

// padRight pads s with spaces to a display width, truncating if longer.
func padRight(s string, width int) string {
	s = util.TruncateWidth(s, width)
	if w := util.StringWidth(s); w < width {
		s += strings.Repeat(" ", width-w)
	}
	return s
}
