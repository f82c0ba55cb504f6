package notify

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
)

const (
	// DefaultVisible is how long a toast stays before its exit starts.
	DefaultVisible = 5000 * time.Millisecond
	// DefaultExit is the length of the exit phase before removal.
	DefaultExit = 300 * time.Millisecond
)

// Toast is one notification in the stack.
type Toast struct {
	ID       string
	Message  string
	Severity Severity
	Created  time.Time
	Leaving  bool
}

type leaveMsg struct{ id string }

type removeMsg struct{ id string }

// Stack is the toast container. The host forwards every message to Update
// and places View somewhere on screen.
type Stack struct {
	Visible time.Duration
	Exit    time.Duration
	Width   int

	toasts []Toast
	now    func() time.Time
}

// NewStack returns a stack using the given display window; zero values fall
// back to the defaults.
func NewStack(visible, exit time.Duration) *Stack {
	if visible <= 0 {
		visible = DefaultVisible
	}
	if exit <= 0 {
		exit = DefaultExit
	}
	return &Stack{Visible: visible, Exit: exit, Width: 48, now: time.Now}
}

// Push appends a toast and returns the command that retires it.
func (s *Stack) Push(message string, sev Severity) tea.Cmd {
	if _, ok := icons[sev]; !ok {
		sev = Info
	}
	t := Toast{ID: uuid.NewString(), Message: message, Severity: sev, Created: s.now()}
	s.toasts = append(s.toasts, t)
	id := t.ID
	return tea.Tick(s.Visible, func(time.Time) tea.Msg { return leaveMsg{id: id} })
}

// Toasts returns the current toasts, oldest first.
func (s *Stack) Toasts() []Toast {
	out := make([]Toast, len(s.toasts))
	copy(out, s.toasts)
	return out
}

// Len reports the number of toasts on screen.
func (s *Stack) Len() int { return len(s.toasts) }

// Update handles the stack's own timer messages and ignores everything else.
func (s *Stack) Update(msg tea.Msg) tea.Cmd {
	switch m := msg.(type) {
	case leaveMsg:
		for i := range s.toasts {
			if s.toasts[i].ID == m.id {
				s.toasts[i].Leaving = true
				id := m.id
				return tea.Tick(s.Exit, func(time.Time) tea.Msg { return removeMsg{id: id} })
			}
		}
	case removeMsg:
		for i := range s.toasts {
			if s.toasts[i].ID == m.id {
				s.toasts = append(s.toasts[:i], s.toasts[i+1:]...)
				break
			}
		}
	}
	return nil
}

var (
	toastBox    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	leavingFg   = lipgloss.Color("#6c7086")
	toastTextFg = lipgloss.Color("#cdd6f4")
)

// View renders the stack, newest at the bottom. Empty stacks render "".
func (s *Stack) View() string {
	if len(s.toasts) == 0 {
		return ""
	}
	blocks := make([]string, 0, len(s.toasts))
	for _, t := range s.toasts {
		accent := severityColors[t.Severity]
		text := toastTextFg
		if t.Leaving {
			accent, text = leavingFg, leavingFg
		}
		icon := lipgloss.NewStyle().Foreground(accent).Render(Icon(t.Severity))
		msg := lipgloss.NewStyle().Foreground(text).Render(t.Message)
		box := toastBox.BorderForeground(accent)
		if s.Width > 0 {
			box = box.Width(s.Width)
		}
		blocks = append(blocks, box.Render(icon+" "+msg))
	}
	return strings.Join(blocks, "\n")
}
