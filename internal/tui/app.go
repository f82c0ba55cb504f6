package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/fiscal-auditor/adminctl/internal/actions"
	"github.com/fiscal-auditor/adminctl/internal/api"
	"github.com/fiscal-auditor/adminctl/internal/audit"
	"github.com/fiscal-auditor/adminctl/internal/clipboard"
	"github.com/fiscal-auditor/adminctl/internal/config"
	"github.com/fiscal-auditor/adminctl/internal/debounce"
	"github.com/fiscal-auditor/adminctl/internal/export"
	"github.com/fiscal-auditor/adminctl/internal/notify"
	"github.com/fiscal-auditor/adminctl/internal/overlay"
)

// App ties together views.
type App struct {
	ctx      context.Context
	cfg      config.Config
	services Services
	tz       *time.Location
	keys     keyMap
	help     help.Model

	state      appState
	jobs       []api.Job
	processes  []api.Process
	activity   []audit.Entry
	jobCursor  int
	procCursor int
	actCursor  int
	lastLoad   time.Time
	status     string

	modal         modalState
	pendingDelete int

	searching bool
	search    textinput.Model
	query     string
	searchGen uint64
	searchCh  chan queryMsg
	debouncer *debounce.Debouncer[queryMsg]

	toasts  *notify.Stack
	loading *overlay.Loading

	width  int
	height int
}

// Backend lists what the views display.
type Backend interface {
	ListJobs(ctx context.Context, activeOnly bool) ([]api.Job, error)
	ListProcesses(ctx context.Context, f api.ProcessFilter) ([]api.Process, error)
	ProcessRecords(ctx context.Context, f api.ProcessFilter) ([]export.Record, error)
}

// ActivityLog is the read side of the audit store.
type ActivityLog interface {
	Recent(ctx context.Context, limit int) ([]audit.Entry, error)
}

type Services struct {
	Backend  Backend
	Runner   *actions.Runner
	Activity ActivityLog
	Copier   clipboard.Copier
}

type appState string

const (
	viewJobs      appState = "jobs"
	viewProcesses appState = "processes"
	viewActivity  appState = "activity"
)

var tabOrder = []appState{viewJobs, viewProcesses, viewActivity}

type modalState string

const (
	modalNone          modalState = ""
	modalConfirmDelete modalState = "confirmDelete"
)

const (
	processLimit  = 200
	activityLimit = 200
)

// New builds the app. The runner's overlay is replaced by the app's own so
// RunJob blocks the screen while it is in flight.
func New(ctx context.Context, cfg config.Config, services Services, tz *time.Location) *App {
	if tz == nil {
		tz = time.Local
	}
	search := textinput.New()
	search.Placeholder = "nome do job ou arquivo"
	search.Prompt = "/ "
	search.CharLimit = 120

	a := &App{
		ctx:      ctx,
		cfg:      cfg,
		services: services,
		tz:       tz,
		keys:     newKeyMap(),
		help:     help.New(),
		state:    viewJobs,
		search:   search,
		searchCh: make(chan queryMsg, 1),
		toasts:   notify.NewStack(cfg.UI.ToastDuration, cfg.UI.ToastExit),
		loading:  overlay.NewLoading(),
	}
	wait := cfg.UI.SearchDebounce
	if wait <= 0 {
		wait = 300 * time.Millisecond
	}
	a.debouncer = debounce.New(wait, a.publishQuery)
	if services.Runner != nil {
		services.Runner.Overlay = a.loading
	}
	return a
}

// publishQuery runs on the debouncer's timer goroutine; only the newest
// query is kept for the UI loop.
func (a *App) publishQuery(q queryMsg) {
	select {
	case <-a.searchCh:
	default:
	}
	a.searchCh <- q
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.loadAll(), a.waitForQuery(), a.loading.Tick())
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if cmd := a.toasts.Update(msg); cmd != nil {
		return a, cmd
	}
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = m.Width, m.Height
		a.help.Width = m.Width
		a.toasts.Width = min(48, m.Width/2)
	case tea.KeyMsg:
		if a.loading.Visible() && !key.Matches(m, a.keys.Quit) {
			return a, nil
		}
		if a.modal != modalNone {
			return a.handleModalKey(m)
		}
		if a.searching {
			return a.handleSearchKey(m)
		}
		return a.handleKey(m)
	case jobsMsg:
		a.jobs = []api.Job(m)
		a.jobCursor = clampCursor(a.jobCursor, len(a.filteredJobs()))
		a.lastLoad = time.Now()
	case processesMsg:
		a.processes = []api.Process(m)
		a.procCursor = clampCursor(a.procCursor, len(a.filteredProcesses()))
		a.lastLoad = time.Now()
	case activityMsg:
		a.activity = []audit.Entry(m)
		a.actCursor = clampCursor(a.actCursor, len(a.filteredActivity()))
	case queryMsg:
		// queries typed before the last esc are stale
		if m.gen == a.searchGen {
			a.applyQuery(m.text)
		}
		return a, a.waitForQuery()
	case outcomeMsg:
		return a, a.handleOutcome(actions.Outcome(m))
	case refreshMsg:
		return a, a.loadAll()
	case toastMsg:
		return a, a.toasts.Push(m.message, m.severity)
	case exportDoneMsg:
		a.status = "exportado: " + m.path
		return a, a.toasts.Push(export.DoneMessage(m.rows, m.path, m.size), notify.Success)
	case errMsg:
		a.status = "erro: " + m.Error()
		return a, a.toasts.Push(m.Error(), notify.Error)
	default:
		cmds := []tea.Cmd{a.loading.Update(msg)}
		if a.searching {
			var cmd tea.Cmd
			a.search, cmd = a.search.Update(msg)
			cmds = append(cmds, cmd)
		}
		return a, tea.Batch(cmds...)
	}
	return a, nil
}

func (a *App) handleKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(m, a.keys.Quit):
		a.debouncer.Cancel()
		return a, tea.Quit
	case key.Matches(m, a.keys.Jobs):
		a.state = viewJobs
	case key.Matches(m, a.keys.Processes):
		a.state = viewProcesses
	case key.Matches(m, a.keys.Activity):
		a.state = viewActivity
	case key.Matches(m, a.keys.NextTab):
		a.state = nextTab(a.state)
	case key.Matches(m, a.keys.Up):
		a.moveCursor(-1)
	case key.Matches(m, a.keys.Down):
		a.moveCursor(1)
	case key.Matches(m, a.keys.Search):
		a.searching = true
		a.search.SetValue(a.query)
		a.search.CursorEnd()
		return a, a.search.Focus()
	case key.Matches(m, a.keys.Refresh):
		a.status = "atualizando..."
		return a, a.loadAll()
	case key.Matches(m, a.keys.Run):
		if job, ok := a.selectedJob(); ok && a.state == viewJobs {
			return a, a.runJobCmd(job.ID)
		}
	case key.Matches(m, a.keys.Toggle):
		if job, ok := a.selectedJob(); ok && a.state == viewJobs {
			return a, a.toggleJobCmd(job.ID, job.IsActive)
		}
	case key.Matches(m, a.keys.Delete):
		if p, ok := a.selectedProcess(); ok && a.state == viewProcesses {
			a.pendingDelete = p.ID
			a.modal = modalConfirmDelete
		}
	case key.Matches(m, a.keys.Export):
		if a.state == viewProcesses {
			a.status = "exportando..."
			return a, a.exportCmd()
		}
	case key.Matches(m, a.keys.Copy):
		switch a.state {
		case viewJobs:
			if job, ok := a.selectedJob(); ok {
				return a, a.copyCmd(job.Name)
			}
		case viewProcesses:
			if p, ok := a.selectedProcess(); ok {
				text := p.Filename
				if p.Filepath != nil && *p.Filepath != "" {
					text = *p.Filepath
				}
				return a, a.copyCmd(text)
			}
		}
	}
	return a, nil
}

func (a *App) handleModalKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.modal {
	case modalConfirmDelete:
		switch {
		case key.Matches(m, a.keys.Confirm):
			id := a.pendingDelete
			a.modal, a.pendingDelete = modalNone, 0
			return a, a.deleteProcessCmd(id)
		case key.Matches(m, a.keys.Cancel):
			a.modal, a.pendingDelete = modalNone, 0
		}
	}
	return a, nil
}

func (a *App) handleSearchKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.Type {
	case tea.KeyEsc:
		a.searching = false
		a.search.Blur()
		a.search.SetValue("")
		a.debouncer.Cancel()
		a.searchGen++
		select {
		case <-a.searchCh:
		default:
		}
		a.applyQuery("")
		return a, nil
	case tea.KeyEnter:
		a.searching = false
		a.search.Blur()
		// the flushed value arrives through queryMsg like any other
		a.debouncer.Flush()
		return a, nil
	}
	var cmd tea.Cmd
	before := a.search.Value()
	a.search, cmd = a.search.Update(m)
	if v := a.search.Value(); v != before {
		a.debouncer.Call(queryMsg{text: v, gen: a.searchGen})
	}
	return a, cmd
}

func (a *App) applyQuery(q string) {
	a.query = q
	a.jobCursor = clampCursor(a.jobCursor, len(a.filteredJobs()))
	a.procCursor = clampCursor(a.procCursor, len(a.filteredProcesses()))
	a.actCursor = clampCursor(a.actCursor, len(a.filteredActivity()))
}

// handleOutcome turns a finished action into a toast and, on success, a
// delayed refetch of every view.
func (a *App) handleOutcome(o actions.Outcome) tea.Cmd {
	if o.Skipped {
		return nil
	}
	cmds := []tea.Cmd{a.toasts.Push(o.Message, o.Severity)}
	if o.OK && o.RefreshAfter > 0 {
		cmds = append(cmds, tea.Tick(o.RefreshAfter, func(time.Time) tea.Msg { return refreshMsg{} }))
	} else {
		cmds = append(cmds, a.loadActivity())
	}
	return tea.Batch(cmds...)
}

func (a *App) moveCursor(delta int) {
	switch a.state {
	case viewJobs:
		a.jobCursor = clampCursor(a.jobCursor+delta, len(a.filteredJobs()))
	case viewProcesses:
		a.procCursor = clampCursor(a.procCursor+delta, len(a.filteredProcesses()))
	case viewActivity:
		a.actCursor = clampCursor(a.actCursor+delta, len(a.filteredActivity()))
	}
}

func (a *App) filteredJobs() []api.Job {
	if a.query == "" {
		return a.jobs
	}
	var out []api.Job
	for _, j := range a.jobs {
		if matches(a.query, j.Name, j.JobType) {
			out = append(out, j)
		}
	}
	return out
}

func (a *App) filteredProcesses() []api.Process {
	if a.query == "" {
		return a.processes
	}
	var out []api.Process
	for _, p := range a.processes {
		path := ""
		if p.Filepath != nil {
			path = *p.Filepath
		}
		if matches(a.query, p.Filename, path, p.Status) {
			out = append(out, p)
		}
	}
	return out
}

func (a *App) filteredActivity() []audit.Entry {
	if a.query == "" {
		return a.activity
	}
	var out []audit.Entry
	for _, e := range a.activity {
		if matches(a.query, e.Action, e.Message) {
			out = append(out, e)
		}
	}
	return out
}

func (a *App) selectedJob() (api.Job, bool) {
	rows := a.filteredJobs()
	if a.jobCursor < 0 || a.jobCursor >= len(rows) {
		return api.Job{}, false
	}
	return rows[a.jobCursor], true
}

func (a *App) selectedProcess() (api.Process, bool) {
	rows := a.filteredProcesses()
	if a.procCursor < 0 || a.procCursor >= len(rows) {
		return api.Process{}, false
	}
	return rows[a.procCursor], true
}

func nextTab(s appState) appState {
	for i, t := range tabOrder {
		if t == s {
			return tabOrder[(i+1)%len(tabOrder)]
		}
	}
	return viewJobs
}

func clampCursor(c, n int) int {
	if n == 0 || c < 0 {
		return 0
	}
	if c >= n {
		return n - 1
	}
	return c
}
