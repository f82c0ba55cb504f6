package overlay

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Center places layer in the middle of a width×height base view.
func Center(base, layer string, width, height int) string {
	if layer == "" {
		return base
	}
	lines := splitLines(layer)
	x := (width - maxLineWidth(lines)) / 2
	y := (height - len(lines)) / 2
	return At(base, layer, max(x, 0), max(y, 0), width, height)
}

// BottomRight places layer against the bottom-right corner, inset by margin.
func BottomRight(base, layer string, width, height, margin int) string {
	if layer == "" {
		return base
	}
	lines := splitLines(layer)
	x := width - maxLineWidth(lines) - margin
	y := height - len(lines) - margin
	return At(base, layer, max(x, 0), max(y, 0), width, height)
}

// At composites layer on top of base at cell (x, y). Both are line grids;
// the base is padded to height rows so layers can sit below short content.
func At(base, layer string, x, y, width, height int) string {
	baseLines := splitLines(base)
	for len(baseLines) < height {
		baseLines = append(baseLines, "")
	}
	layerLines := splitLines(layer)
	layerWidth := maxLineWidth(layerLines)
	for i, line := range layerLines {
		row := y + i
		if row < 0 || row >= len(baseLines) || (height > 0 && row >= height) {
			continue
		}
		target := padRight(baseLines[row], width)
		left := ansi.Truncate(target, x, "")
		if w := ansi.StringWidth(left); w < x {
			left += strings.Repeat(" ", x-w)
		}

		layerLine := padRight(line, layerWidth)
		pos := x + ansi.StringWidth(layerLine)
		right := ""
		if width > 0 {
			right = ansi.TruncateLeft(target, pos, "")
			gap := width - pos - ansi.StringWidth(right)
			if gap > 0 {
				right = strings.Repeat(" ", gap) + right
			}
		}

		baseLines[row] = left + layerLine + right
	}
	return strings.Join(baseLines, "\n")
}

// splitLines splits a string on newlines, returning at least one element.
func splitLines(s string) []string {
	if s == "" {
		return []string{""}
	}
	return strings.Split(s, "\n")
}

func maxLineWidth(lines []string) int {
	m := 0
	for _, line := range lines {
		if w := ansi.StringWidth(line); w > m {
			m = w
		}
	}
	return m
}

// padRight pads s with spaces so its visual width equals width.
func padRight(s string, width int) string {
	if width <= 0 {
		return s
	}
	w := ansi.StringWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

// Truncate shortens s to width cells, appending "…" if it was cut.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(s, width, "…")
}
