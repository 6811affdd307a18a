package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// RenderSwatch renders one colored symbol
func RenderSwatch(color lipgloss.Color, sym rune) string {
	return lipgloss.NewStyle().Foreground(color).Render(string(sym))
}

// RenderValueBar renders a 7-bit value as a bar of width cells.
// Unknown values (< 0) render as empty cells.
func RenderValueBar(value, width int, full, empty rune, color lipgloss.Color) string {
	if width <= 0 {
		return ""
	}
	filled := 0
	if value > 0 {
		filled = (min(value, 127)*width + 126) / 127
	}
	bar := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat(string(full), filled))
	return bar + strings.Repeat(string(empty), width-filled)
}

// RenderValue renders a value right-aligned in 3 cells, "  -" when unknown
func RenderValue(value int) string {
	if value < 0 {
		return "  -"
	}
	return fmt.Sprintf("%3d", value)
}

// RenderLegendItem renders a single legend item: "■ Name - description"
func RenderLegendItem(color lipgloss.Color, sym rune, name, desc string) string {
	return fmt.Sprintf("  %s %s - %s", RenderSwatch(color, sym), name, desc)
}

// Truncate cuts s to width cells, marking the cut with …
func Truncate(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r))+1 > width {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}
