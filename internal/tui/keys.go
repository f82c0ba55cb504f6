package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Jobs      key.Binding
	Processes key.Binding
	Activity  key.Binding
	NextTab   key.Binding
	Up        key.Binding
	Down      key.Binding
	Search    key.Binding
	Refresh   key.Binding
	Run       key.Binding
	Toggle    key.Binding
	Delete    key.Binding
	Export    key.Binding
	Copy      key.Binding
	Confirm   key.Binding
	Cancel    key.Binding
	Accept    key.Binding
	Quit      key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Jobs:      key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "jobs")),
		Processes: key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "processes")),
		Activity:  key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "activity")),
		NextTab:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Search:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Refresh:   key.NewBinding(key.WithKeys("R", "ctrl+r"), key.WithHelp("R", "refresh")),
		Run:       key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "run job")),
		Toggle:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "toggle job")),
		Delete:    key.NewBinding(key.WithKeys("x", "delete"), key.WithHelp("x", "delete process")),
		Export:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export csv")),
		Copy:      key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy")),
		Confirm:   key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "yes")),
		Cancel:    key.NewBinding(key.WithKeys("n", "N", "esc"), key.WithHelp("n", "no")),
		Accept:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "apply")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// help returns the footer bindings for the active view.
func (k keyMap) help(state appState) []key.Binding {
	switch state {
	case viewJobs:
		return []key.Binding{k.Up, k.Down, k.Run, k.Toggle, k.Copy, k.Search, k.Refresh, k.NextTab, k.Quit}
	case viewProcesses:
		return []key.Binding{k.Up, k.Down, k.Delete, k.Export, k.Copy, k.Search, k.Refresh, k.NextTab, k.Quit}
	default:
		return []key.Binding{k.Up, k.Down, k.Search, k.Refresh, k.NextTab, k.Quit}
	}
}
