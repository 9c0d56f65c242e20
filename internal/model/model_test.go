// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "testing"

// =============================================================================
// CATEGORY TESTS
// =============================================================================

func TestServiceCategory_Resolve(t *testing.T) {
	tests := []struct {
		in   ServiceCategory
		want ServiceCategory
	}{
		{CategoryAuto, CategoryAuto},
		{CategoryCode, CategoryCode},
		{CategoryCreative, CategoryCreative},
		{CategoryKnowledge, CategoryKnowledge},
		{CategoryGeneral, CategoryGeneral},
		{"", CategoryAuto},
		{"poetry", CategoryAuto},
		{"CODE", CategoryAuto},
	}

	for _, tc := range tests {
		if got := tc.in.Resolve(); got != tc.want {
			t.Errorf("ServiceCategory(%q).Resolve() = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in     string
		want   ServiceCategory
		wantOK bool
	}{
		{"code", CategoryCode, true},
		{"  Creative ", CategoryCreative, true},
		{"chat", CategoryGeneral, true},
		{"general", CategoryGeneral, true},
		{"nonsense", CategoryAuto, false},
	}

	for _, tc := range tests {
		got, ok := ParseCategory(tc.in)
		if got != tc.want || ok != tc.wantOK {
			t.Errorf("ParseCategory(%q) = (%q, %v), want (%q, %v)", tc.in, got, ok, tc.want, tc.wantOK)
		}
	}
}

func TestCategories_ReturnsCopy(t *testing.T) {
	cats := Categories()
	if len(cats) != 5 {
		t.Fatalf("Categories() returned %d entries, want 5", len(cats))
	}
	cats[0].Label = "changed"
	if Categories()[0].Label != "Auto" {
		t.Error("Categories() exposed internal slice")
	}
}

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestMessage_IsBlank(t *testing.T) {
	tests := []struct {
		name string
		msg  Message
		want bool
	}{
		{"empty", Message{Role: RoleUser}, true},
		{"whitespace", NewUserMessage("  \n\t"), true},
		{"text", NewUserMessage("hi"), false},
		{"image only", NewUserMessage("").WithImage("https://x/y.png"), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.msg.IsBlank(); got != tc.want {
				t.Errorf("IsBlank() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestRole_IsCallerRole(t *testing.T) {
	if !RoleUser.IsCallerRole() || !RoleAssistant.IsCallerRole() {
		t.Error("user and assistant should be caller roles")
	}
	if RoleSystem.IsCallerRole() || Role("tool").IsCallerRole() {
		t.Error("system and unknown roles should not be caller roles")
	}
}

func TestLatest(t *testing.T) {
	if _, ok := Latest(nil); ok {
		t.Error("Latest(nil) should report no message")
	}
	h := []Message{NewUserMessage("a"), NewAssistantMessage("b")}
	if m, ok := Latest(h); !ok || m.Content != "b" {
		t.Errorf("Latest() = %+v, %v", m, ok)
	}
}

// =============================================================================
// MODEL TABLE TESTS
// =============================================================================

func TestModelTable_ForIsTotal(t *testing.T) {
	table := DefaultModelTable()
	for _, c := range []ServiceCategory{CategoryAuto, CategoryCode, CategoryCreative, CategoryKnowledge, CategoryGeneral, "", "unknown"} {
		if table.For(c) == "" {
			t.Errorf("For(%q) returned empty model id", c)
		}
	}
	if table.For("unknown") != table.Auto {
		t.Error("unknown category should map to the auto model")
	}
}

func TestModelTable_WithDefaults(t *testing.T) {
	table := ModelTable{Code: "custom/coder"}.WithDefaults()
	if table.Code != "custom/coder" {
		t.Errorf("Code = %q, want custom/coder", table.Code)
	}
	if table.Image != DefaultImageModel {
		t.Errorf("Image = %q, want default", table.Image)
	}
	if err := table.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
	if err := (ModelTable{}).Validate(); err == nil {
		t.Error("empty table should not validate")
	}
}
