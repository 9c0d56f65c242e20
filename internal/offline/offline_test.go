// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package offline

import (
	"errors"
	"sync"
	"testing"

	"github.com/ssssjaj14-ux/shakeel/internal/model"
)

func TestSetOfflineMode(t *testing.T) {
	defer SetOfflineMode(IsOfflineMode())

	SetOfflineMode(true)
	if !IsOfflineMode() {
		t.Error("IsOfflineMode should return true after SetOfflineMode(true)")
	}
	if !errors.Is(CheckCloudAllowed(), ErrCloudBlocked) {
		t.Error("CheckCloudAllowed should return ErrCloudBlocked while offline")
	}
	if StatusBadge() != "[OFFLINE]" {
		t.Errorf("StatusBadge() = %q", StatusBadge())
	}

	SetOfflineMode(false)
	if IsOfflineMode() {
		t.Error("IsOfflineMode should return false after SetOfflineMode(false)")
	}
	if err := CheckCloudAllowed(); err != nil {
		t.Errorf("CheckCloudAllowed() = %v, want nil", err)
	}
	if StatusBadge() != "" {
		t.Errorf("StatusBadge() = %q, want empty", StatusBadge())
	}
}

func TestOfflineMode_ConcurrentToggle(t *testing.T) {
	defer SetOfflineMode(IsOfflineMode())

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(seed int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				SetOfflineMode((seed+j)%2 == 0)
				_ = CheckCloudAllowed()
			}
		}(i)
	}
	wg.Wait()
}

// =============================================================================
// FALLBACK TESTS
// =============================================================================

func TestFallback_CoversEveryCategory(t *testing.T) {
	seen := make(map[string]model.ServiceCategory)
	for _, info := range model.Categories() {
		r := Fallback(info.Category)
		if r.Content == "" {
			t.Errorf("Fallback(%q) has empty content", info.Category)
		}
		if r.ModelUsed != Sentinel {
			t.Errorf("Fallback(%q).ModelUsed = %q, want sentinel", info.Category, r.ModelUsed)
		}
		if r.HasImage() {
			t.Errorf("Fallback(%q) should not carry an image", info.Category)
		}
		if prev, dup := seen[r.Content]; dup {
			t.Errorf("Fallback(%q) duplicates Fallback(%q)", info.Category, prev)
		}
		seen[r.Content] = info.Category
	}
}

func TestFallback_UnknownCategoryUsesAuto(t *testing.T) {
	if got, want := Fallback("mystery").Content, Fallback(model.CategoryAuto).Content; got != want {
		t.Errorf("Fallback(unknown) = %q, want %q", got, want)
	}
}

func TestFallback_ExactMessages(t *testing.T) {
	if got := FallbackMessage(model.CategoryCode); got != "Here's a simple code example: console.log('Hello PandaNexus');" {
		t.Errorf("code fallback = %q", got)
	}
}

func TestSentinel_NotInModelTable(t *testing.T) {
	if model.DefaultModelTable().Contains(Sentinel) {
		t.Error("sentinel must not be a routable model id")
	}
	if !IsFallback(Fallback(model.CategoryGeneral)) {
		t.Error("IsFallback should recognise fallback results")
	}
}
