// Package notify implements transient toast notifications: severity and icon
// mapping, an auto-dismissing bubbletea stack, and a plain writer for CLI use.
package notify

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Severity tags a notification.
type Severity string

const (
	Success Severity = "success"
	Error   Severity = "error"
	Warning Severity = "warning"
	Info    Severity = "info"
)

var icons = map[Severity]string{
	Success: "✔",
	Error:   "✖",
	Warning: "⚠",
	Info:    "ℹ",
}

// ParseSeverity maps s to a Severity. Matching is exact and case-sensitive;
// unknown or empty strings become Info.
func ParseSeverity(s string) Severity {
	sev := Severity(s)
	if _, ok := icons[sev]; ok {
		return sev
	}
	return Info
}

// Icon returns the glyph shown next to a toast of the given severity.
func Icon(sev Severity) string {
	if icon, ok := icons[sev]; ok {
		return icon
	}
	return icons[Info]
}

// Notifier surfaces a user-visible message.
type Notifier interface {
	Notify(message string, sev Severity)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(message string, sev Severity)

func (f NotifierFunc) Notify(message string, sev Severity) { f(message, sev) }

// WriterNotifier prints one "icon message" line per notification.
type WriterNotifier struct {
	mu    sync.Mutex
	w     io.Writer
	color bool
}

// NewWriterNotifier writes to w; color enables severity styling.
func NewWriterNotifier(w io.Writer, color bool) *WriterNotifier {
	return &WriterNotifier{w: w, color: color}
}

func (n *WriterNotifier) Notify(message string, sev Severity) {
	n.mu.Lock()
	defer n.mu.Unlock()
	line := Icon(sev) + " " + message
	if n.color {
		line = severityStyle(sev).Render(line)
	}
	_, _ = fmt.Fprintln(n.w, line)
}

// Catppuccin Mocha accents, shared with the TUI theme.
var severityColors = map[Severity]lipgloss.Color{
	Success: lipgloss.Color("#a6e3a1"),
	Error:   lipgloss.Color("#f38ba8"),
	Warning: lipgloss.Color("#f9e2af"),
	Info:    lipgloss.Color("#94e2d5"),
}

func severityStyle(sev Severity) lipgloss.Style {
	c, ok := severityColors[sev]
	if !ok {
		c = severityColors[Info]
	}
	return lipgloss.NewStyle().Foreground(c)
}
