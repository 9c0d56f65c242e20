// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ssssjaj14-ux/shakeel/internal/model"
)

// =============================================================================
// COLOR TESTS
// =============================================================================

func TestCategoryColor_Distinct(t *testing.T) {
	seen := map[lipglossKey]model.ServiceCategory{}
	for _, info := range model.Categories() {
		c := CategoryColor(info.Category)
		key := lipglossKey{c.Light, c.Dark}
		if other, dup := seen[key]; dup {
			t.Errorf("categories %s and %s share a color", other, info.Category)
		}
		seen[key] = info.Category
	}
}

type lipglossKey struct{ light, dark string }

func TestCategoryColor_UnknownUsesAuto(t *testing.T) {
	if CategoryColor("astrology") != CategoryColor(model.CategoryAuto) {
		t.Error("unknown category should use the auto accent")
	}
}

func TestRoleColor(t *testing.T) {
	if RoleColor(model.RoleUser) == RoleColor(model.RoleAssistant) {
		t.Error("user and assistant should have different colors")
	}
}

func TestRenderHelpers_IncludeIndicators(t *testing.T) {
	tests := []struct {
		name      string
		got       string
		indicator string
	}{
		{"success", RenderSuccess("saved"), StatusIndicators.Success},
		{"error", RenderError("failed"), StatusIndicators.Error},
		{"warning", RenderWarning("careful"), StatusIndicators.Warning},
		{"info", RenderInfo("note"), StatusIndicators.Info},
	}
	for _, tc := range tests {
		if !strings.Contains(tc.got, tc.indicator) {
			t.Errorf("%s: %q missing indicator %q", tc.name, tc.got, tc.indicator)
		}
	}
}

// =============================================================================
// SPINNER TESTS
// =============================================================================

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinnerConfig_Duration(t *testing.T) {
	if d := LineSpinner.Duration(); d != 100*time.Millisecond {
		t.Errorf("Duration() = %v, want 100ms", d)
	}
	if d := (SpinnerConfig{}).Duration(); d <= 0 {
		t.Errorf("zero FPS Duration() = %v, want positive", d)
	}
}

func TestSpinner_StartStop(t *testing.T) {
	var out syncBuffer
	s := NewSpinner(&out, SpinnerConfig{Frames: []string{"*"}, FPS: 100}, "thinking")

	s.Start()
	s.Start() // no-op while running
	time.Sleep(30 * time.Millisecond)
	s.Stop()
	s.Stop() // no-op when stopped

	got := out.String()
	if !strings.Contains(got, "thinking") {
		t.Errorf("output %q missing label", got)
	}
	if !strings.HasSuffix(got, "\r") {
		t.Errorf("output %q should end by returning to column 0", got)
	}
}

func TestSpinner_EmptyFramesUseDefault(t *testing.T) {
	var out syncBuffer
	s := NewSpinner(&out, SpinnerConfig{}, "x")
	s.Start()
	s.Stop()
	if out.String() == "" {
		t.Error("spinner drew nothing")
	}
}
