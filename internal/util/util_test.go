// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"os"
	"path/filepath"
	"testing"
)

// =============================================================================
// ATOMIC WRITE TESTS
// =============================================================================

func TestAtomicWriteFile_CreatesAndOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")

	if err := AtomicWriteFile(path, []byte("one"), 0600); err != nil {
		t.Fatalf("AtomicWriteFile() error = %v", err)
	}
	if err := AtomicWriteFile(path, []byte("two"), 0600); err != nil {
		t.Fatalf("AtomicWriteFile() second write error = %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(got) != "two" {
		t.Errorf("content = %q, want %q", got, "two")
	}

	info, _ := os.Stat(path)
	if info.Mode().Perm() != 0600 {
		t.Errorf("perm = %o, want 0600", info.Mode().Perm())
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, temp files left behind", len(entries))
	}
}

func TestAtomicWriteFileWithDir_DirPerm(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "private")
	if err := AtomicWriteFileWithDir(filepath.Join(dir, "f"), nil, 0600, 0700); err != nil {
		t.Fatalf("AtomicWriteFileWithDir() error = %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm()&0077 != 0 {
		t.Errorf("dir perm = %o, want no group/other bits", info.Mode().Perm())
	}
}

// =============================================================================
// STRING TESTS
// =============================================================================

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"hello", 10, "hello"},
		{"hello world", 8, "hello..."},
		{"héllo wörld", 8, "héllo..."},
		{"abc", 2, "ab"},
		{"abc", 0, ""},
	}
	for _, tc := range tests {
		if got := TruncateRunes(tc.in, tc.max); got != tc.want {
			t.Errorf("TruncateRunes(%q, %d) = %q, want %q", tc.in, tc.max, got, tc.want)
		}
	}
}

func TestStringWidth(t *testing.T) {
	if w := StringWidth("abc"); w != 3 {
		t.Errorf("StringWidth(abc) = %d, want 3", w)
	}
	if w := StringWidth("熊猫"); w != 4 {
		t.Errorf("StringWidth(熊猫) = %d, want 4", w)
	}
}

func TestTruncateWidth(t *testing.T) {
	if got := TruncateWidth("hello world", 20); got != "hello world" {
		t.Errorf("TruncateWidth() = %q, want unchanged", got)
	}
	got := TruncateWidth("熊猫熊猫熊猫", 7)
	if StringWidth(got) > 7 {
		t.Errorf("TruncateWidth() = %q exceeds width 7", got)
	}
	if TruncateWidth("anything", 0) != "" {
		t.Error("TruncateWidth(_, 0) should be empty")
	}
}

func TestOneLine(t *testing.T) {
	if got := OneLine("  a\n\tb   c \n"); got != "a b c" {
		t.Errorf("OneLine() = %q", got)
	}
}
