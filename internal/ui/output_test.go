//go:build !integration && !e2e

package ui

import (
	"strings"
	"testing"

	"reactor.de/certprofile/internal/testutil"
)

func TestNewListTable(t *testing.T) {
	out := testutil.CaptureOutput(t, func() {
		table := NewListTable()
		if table == nil {
			t.Fatal("NewListTable() returned nil")
		}
		table.Header([]string{"Name", "Description"})
		table.Append([]string{"webserver", "A certificate for a webserver."})
		table.Render()
	})

	if !strings.Contains(out, "webserver") {
		t.Errorf("table output missing row, got:\n%s", out)
	}
}

func TestMessages(t *testing.T) {
	tests := []struct {
		name string
		fn   func()
		want string
	}{
		{"success", func() { Success("Created form '%s'", "req-1") }, "✓ Created form 'req-1'"},
		{"warning", func() { Warning("%d diagnostics", 2) }, "! 2 diagnostics"},
		{"info", func() { Info("No forms found.") }, "i No forms found."},
		{"action", func() { Action("Validating") }, "→ Validating"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := testutil.CaptureOutput(t, tt.fn)
			if strings.TrimSpace(got) != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGetColoredLogo(t *testing.T) {
	logo := GetColoredLogo()
	if lines := strings.Count(logo, "\n"); lines != 6 {
		t.Errorf("logo has %d lines, want 6", lines)
	}
}
