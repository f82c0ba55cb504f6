package tui

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fiscal-auditor/adminctl/internal/actions"
	"github.com/fiscal-auditor/adminctl/internal/api"
	"github.com/fiscal-auditor/adminctl/internal/audit"
	"github.com/fiscal-auditor/adminctl/internal/clipboard"
	"github.com/fiscal-auditor/adminctl/internal/export"
	"github.com/fiscal-auditor/adminctl/internal/notify"
)

type jobsMsg []api.Job

type processesMsg []api.Process

type activityMsg []audit.Entry

// queryMsg carries a debounced search query and the search generation it
// was typed in.
type queryMsg struct {
	text string
	gen  uint64
}

type outcomeMsg actions.Outcome

type refreshMsg struct{}

type toastMsg struct {
	message  string
	severity notify.Severity
}

type exportDoneMsg struct {
	path string
	rows int
	size int64
}

type errMsg struct{ error }

func (a *App) loadAll() tea.Cmd {
	return tea.Batch(a.loadJobs(), a.loadProcesses(), a.loadActivity())
}

func (a *App) loadJobs() tea.Cmd {
	return func() tea.Msg {
		if a.services.Backend == nil {
			return errMsg{fmt.Errorf("backend not configured")}
		}
		jobs, err := a.services.Backend.ListJobs(a.ctx, false)
		if err != nil {
			return errMsg{fmt.Errorf("listar jobs: %w", err)}
		}
		return jobsMsg(jobs)
	}
}

func (a *App) loadProcesses() tea.Cmd {
	return func() tea.Msg {
		if a.services.Backend == nil {
			return processesMsg(nil)
		}
		procs, err := a.services.Backend.ListProcesses(a.ctx, api.ProcessFilter{Limit: processLimit})
		if err != nil {
			return errMsg{fmt.Errorf("listar processos: %w", err)}
		}
		return processesMsg(procs)
	}
}

func (a *App) loadActivity() tea.Cmd {
	return func() tea.Msg {
		if a.services.Activity == nil {
			return activityMsg(nil)
		}
		entries, err := a.services.Activity.Recent(a.ctx, activityLimit)
		if err != nil {
			return errMsg{fmt.Errorf("histórico: %w", err)}
		}
		return activityMsg(entries)
	}
}

// waitForQuery blocks until the debouncer publishes a search query.
func (a *App) waitForQuery() tea.Cmd {
	return func() tea.Msg {
		select {
		case q := <-a.searchCh:
			return q
		case <-a.ctx.Done():
			return nil
		}
	}
}

func (a *App) runJobCmd(id int) tea.Cmd {
	// the runner raises the loading overlay for the duration of the request
	return func() tea.Msg {
		return outcomeMsg(a.services.Runner.RunJob(a.ctx, id))
	}
}

func (a *App) toggleJobCmd(id int, current bool) tea.Cmd {
	return func() tea.Msg {
		return outcomeMsg(a.services.Runner.ToggleJob(a.ctx, id, current))
	}
}

// deleteProcessCmd runs after the confirm modal was accepted.
func (a *App) deleteProcessCmd(id int) tea.Cmd {
	return func() tea.Msg {
		return outcomeMsg(a.services.Runner.DeleteProcess(a.ctx, id, actions.Confirmed))
	}
}

func (a *App) copyCmd(text string) tea.Cmd {
	return func() tea.Msg {
		var out toastMsg
		clipboard.Copy(a.ctx, a.services.Copier, text, notify.NotifierFunc(func(m string, s notify.Severity) {
			out = toastMsg{message: m, severity: s}
		}))
		return out
	}
}

// exportCmd writes the visible processes, in backend field order, to the
// export directory.
func (a *App) exportCmd() tea.Cmd {
	visible := map[int]bool{}
	for _, p := range a.filteredProcesses() {
		visible[p.ID] = true
	}
	filtered := a.query != ""
	return func() tea.Msg {
		records, err := a.services.Backend.ProcessRecords(a.ctx, api.ProcessFilter{Limit: processLimit})
		if err != nil {
			return errMsg{fmt.Errorf("exportar: %w", err)}
		}
		if filtered {
			records = keepRecords(records, visible)
		}
		name := fmt.Sprintf("processos_%s.csv", time.Now().In(a.tz).Format("20060102_150405"))
		path, err := export.WriteFile(a.cfg.Export.Dir, name, records)
		if err != nil {
			return errMsg{err}
		}
		done := exportDoneMsg{path: path, rows: len(records)}
		if fi, err := os.Stat(path); err == nil {
			done.size = fi.Size()
		}
		return done
	}
}

func keepRecords(records []export.Record, ids map[int]bool) []export.Record {
	var out []export.Record
	for _, r := range records {
		v, _ := r.Get("id")
		var id int
		if _, err := fmt.Sscan(fmt.Sprint(v), &id); err == nil && ids[id] {
			out = append(out, r)
		}
	}
	return out
}
