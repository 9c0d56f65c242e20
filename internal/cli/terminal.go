// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// =============================================================================
// TTY DETECTION
// =============================================================================

// isTerminal reports whether w is a terminal. Buffers and pipes are not.
func isTerminal(w any) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

const (
	// DefaultTerminalWidth is the fallback when the width is unknown.
	DefaultTerminalWidth = 80

	// MinTerminalWidth is the narrowest width used for wrapping.
	MinTerminalWidth = 40
)

// terminalWidth returns the width of w, or DefaultTerminalWidth.
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return DefaultTerminalWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return DefaultTerminalWidth
	}
	if width < MinTerminalWidth {
		return MinTerminalWidth
	}
	return width
}

// =============================================================================
// COLOR OUTPUT CONTROL
// =============================================================================

var colorsOnce sync.Once

// setupColors picks the lipgloss color profile once per process. NO_COLOR
// disables colors, FORCE_COLOR enables them regardless of the terminal.
func setupColors(out io.Writer) {
	colorsOnce.Do(func() {
		lipgloss.SetColorProfile(colorProfile(out))
	})
}

func colorProfile(out io.Writer) termenv.Profile {
	switch {
	case os.Getenv("NO_COLOR") != "":
		return termenv.Ascii
	case os.Getenv("FORCE_COLOR") != "":
		return termenv.ANSI256
	case !isTerminal(out):
		return termenv.Ascii
	default:
		return termenv.NewOutput(out).EnvColorProfile()
	}
}

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

// markdownRenderer renders replies for a terminal. A nil renderer, or one
// that fails, leaves text unchanged.
type markdownRenderer struct {
	r *glamour.TermRenderer
}

// newMarkdownRenderer returns a renderer for out, or nil when out is not a
// terminal or markdown is disabled.
func newMarkdownRenderer(out io.Writer, enabled bool, wrap int) *markdownRenderer {
	if !enabled || !isTerminal(out) {
		return nil
	}
	if wrap <= 0 {
		wrap = terminalWidth(out) - 2
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return nil
	}
	return &markdownRenderer{r: r}
}

func (m *markdownRenderer) Render(content string) string {
	if m == nil || m.r == nil {
		return content
	}
	out, err := m.r.Render(content)
	if err != nil {
		return content
	}
	return out
}
