package widgets

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestRenderValueBarFill(t *testing.T) {
	cases := []struct {
		value, filled int
	}{
		{-1, 0}, {0, 0}, {1, 1}, {64, 6}, {127, 10}, {200, 10},
	}
	for _, c := range cases {
		bar := RenderValueBar(c.value, 10, '#', '.', lipgloss.Color("#ffffff"))
		if got := strings.Count(bar, "#"); got != c.filled {
			t.Errorf("value %d: %d filled, want %d", c.value, got, c.filled)
		}
		if got := strings.Count(bar, "."); got != 10-c.filled {
			t.Errorf("value %d: %d empty", c.value, got)
		}
	}
}

func TestRenderValue(t *testing.T) {
	if got := RenderValue(-1); got != "  -" {
		t.Errorf("got %q", got)
	}
	if got := RenderValue(7); got != "  7" {
		t.Errorf("got %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("Transport: Play", 20); got != "Transport: Play" {
		t.Errorf("got %q", got)
	}
	if got := Truncate("Track Selected: Set Volume", 10); got != "Track Sel…" {
		t.Errorf("got %q", got)
	}
}
