// Package overlay draws modal layers (the loading overlay, toasts, dialogs)
// on top of a rendered terminal view.
package overlay

import (
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Handle identifies one Show call. The zero Handle is never issued.
type Handle uint64

// Loading is the single full-screen loading overlay. Show and Hide may be
// called from any goroutine; Update and View belong to the UI loop.
type Loading struct {
	mu      sync.Mutex
	last    Handle
	current Handle
	label   string
	spinner spinner.Model
}

// NewLoading returns a hidden overlay.
func NewLoading() *Loading {
	s := spinner.New(spinner.WithSpinner(spinner.Dot))
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#f5c2e7"))
	return &Loading{spinner: s}
}

// Show makes the overlay visible with label and returns its handle. A later
// Show takes over the slot; the earlier handle becomes stale.
func (l *Loading) Show(label string) Handle {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.last++
	l.current = l.last
	l.label = label
	return l.current
}

// Hide removes the overlay if h is the current handle. Stale or zero handles
// are ignored.
func (l *Loading) Hide(h Handle) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if h == 0 || h != l.current {
		return
	}
	l.current = 0
	l.label = ""
}

// Visible reports whether an overlay is showing.
func (l *Loading) Visible() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current != 0
}

// Tick starts the spinner animation.
func (l *Loading) Tick() tea.Cmd {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.spinner.Tick
}

// Update advances the spinner. Ticks keep flowing while hidden so the
// animation is already running when Show is called off the UI loop.
func (l *Loading) Update(msg tea.Msg) tea.Cmd {
	if _, ok := msg.(spinner.TickMsg); !ok {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	var cmd tea.Cmd
	l.spinner, cmd = l.spinner.Update(msg)
	return cmd
}

var loadingBox = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("#b4befe")).
	Foreground(lipgloss.Color("#cdd6f4")).
	Padding(1, 4)

// View renders the overlay box, or "" while hidden.
func (l *Loading) View() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.current == 0 {
		return ""
	}
	return loadingBox.Render(l.spinner.View() + " " + l.label)
}
