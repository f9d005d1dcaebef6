// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package version

import (
	"runtime"
	"strings"
	"testing"
)

func TestInfoString(t *testing.T) {
	info := Info{
		Version:   "v1.0.0",
		GitCommit: "abc1234",
		BuildTime: "2025-01-30T12:00:00Z",
	}

	got := info.String()
	for _, want := range []string{"recipectl v1.0.0", "commit: abc1234", "built: 2025-01-30T12:00:00Z", runtime.Version()} {
		if !strings.Contains(got, want) {
			t.Errorf("String() = %q, want it to contain %q", got, want)
		}
	}
}

func TestInfoZeroValue(t *testing.T) {
	// Zero value before ldflags injection
	got := Info{}.String()

	if !strings.HasPrefix(got, "recipectl dev ") {
		t.Errorf("String() = %q, want dev version", got)
	}
	if !strings.Contains(got, "commit: unknown") {
		t.Errorf("String() = %q, want unknown commit", got)
	}
}
