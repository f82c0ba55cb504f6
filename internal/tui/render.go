package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/fiscal-auditor/adminctl/internal/actions"
	"github.com/fiscal-auditor/adminctl/internal/api"
	"github.com/fiscal-auditor/adminctl/internal/format"
	"github.com/fiscal-auditor/adminctl/internal/overlay"
)

const (
	appName       = "adminctl"
	defaultWidth  = 100
	defaultHeight = 30
	// header, status bar, footer and the list box border
	chromeLines = 5
)

var tabLabels = map[appState]string{
	viewJobs:      "Jobs",
	viewProcesses: "Processos",
	viewActivity:  "Atividade",
}

type column struct {
	title string
	width int
}

var (
	jobColumns = []column{
		{"ID", 5}, {"Nome", 28}, {"Agenda", 20}, {"Ativo", 6},
		{"Última execução", 21}, {"Próxima", 21}, {"Execuções", 14},
	}
	processColumns = []column{
		{"ID", 6}, {"Arquivo", 30}, {"Status", 11}, {"Início", 21},
		{"Duração", 9}, {"Registros", 11}, {"Erros", 8},
	}
	activityColumns = []column{
		{"Quando", 21}, {"Ação", 15}, {"Alvo", 6}, {"OK", 3}, {"Mensagem", 40},
	}
)

func (a *App) size() (int, int) {
	w, h := a.width, a.height
	if w <= 0 {
		w = defaultWidth
	}
	if h <= 0 {
		h = defaultHeight
	}
	return w, h
}

func (a *App) View() string {
	w, h := a.size()
	bodyHeight := max(h-chromeLines, 1)

	header := a.renderHeader(w)
	body := listBoxStyle.Width(w - 2).Height(bodyHeight).Render(a.renderBody(w-4, bodyHeight))
	status := statusBarStyle.Width(w).Render(ansi.Truncate(a.statusLine(), max(w-4, 0), "…"))
	footer := footerStyle.Width(w).Render(a.help.ShortHelpView(a.footerBindings()))
	base := lipgloss.JoinVertical(lipgloss.Left, header, body, status, footer)

	if a.modal == modalConfirmDelete {
		base = overlay.Center(base, a.renderConfirm(), w, h)
	}
	if v := a.loading.View(); v != "" {
		base = overlay.Center(base, v, w, h)
	}
	if v := a.toasts.View(); v != "" {
		base = overlay.BottomRight(base, v, w, h, 1)
	}
	return base
}

func (a *App) renderHeader(width int) string {
	tabs := make([]string, 0, len(tabOrder))
	for i, t := range tabOrder {
		label := strconv.Itoa(i+1) + " " + tabLabels[t]
		if t == a.state {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(label))
		}
	}
	line := headerAppStyle.Render(appName) + tabSepStyle.Render("  ") + strings.Join(tabs, tabSepStyle.Render("│"))
	return headerBarStyle.Width(width).Render(line)
}

func (a *App) statusLine() string {
	parts := []string{}
	switch a.state {
	case viewJobs:
		parts = append(parts, fmt.Sprintf("%d/%d jobs", len(a.filteredJobs()), len(a.jobs)))
	case viewProcesses:
		parts = append(parts, fmt.Sprintf("%d/%d processos", len(a.filteredProcesses()), len(a.processes)))
	case viewActivity:
		parts = append(parts, fmt.Sprintf("%d registros", len(a.filteredActivity())))
	}
	if !a.lastLoad.IsZero() {
		parts = append(parts, "atualizado "+a.lastLoad.In(a.tz).Format("15:04:05"))
	}
	if a.status != "" {
		parts = append(parts, a.status)
	}
	return strings.Join(parts, "  ·  ")
}

func (a *App) footerBindings() []key.Binding {
	if a.modal == modalConfirmDelete {
		return []key.Binding{a.keys.Confirm, a.keys.Cancel}
	}
	if a.searching {
		return []key.Binding{a.keys.Accept, a.keys.Cancel}
	}
	return a.keys.help(a.state)
}

func (a *App) renderBody(width, height int) string {
	var lines []string
	if a.searching || a.query != "" {
		lines = append(lines, a.renderSearch())
		height--
	}
	switch a.state {
	case viewJobs:
		lines = append(lines, a.renderJobs(width, height)...)
	case viewProcesses:
		lines = append(lines, a.renderProcesses(width, height)...)
	case viewActivity:
		lines = append(lines, a.renderActivity(width, height)...)
	}
	return strings.Join(lines, "\n")
}

func (a *App) renderSearch() string {
	if a.searching {
		return a.search.View()
	}
	return searchStyle.Render("/ "+a.query) + dimStyle.Render("  (/ para editar, esc limpa)")
}

func (a *App) renderJobs(width, height int) []string {
	rows := a.filteredJobs()
	if len(rows) == 0 {
		return []string{renderTableHeader(jobColumns, width), dimStyle.Render("Nenhum job encontrado")}
	}
	out := []string{renderTableHeader(jobColumns, width)}
	start, end := visibleWindow(a.jobCursor, len(rows), height-1)
	for i := start; i < end; i++ {
		j := rows[i]
		active := failStyle.Render(padCell("não", 6))
		if j.IsActive {
			active = okStyle.Render(padCell("sim", 6))
		}
		cells := []string{
			padCell(strconv.Itoa(j.ID), 5),
			padCell(j.Name, 28),
			padCell(j.Schedule(), 20),
			active,
			padCell(a.date(j.LastRun), 21),
			padCell(a.date(j.NextRun), 21),
			padCell(fmt.Sprintf("%d ✔%d ✖%d", j.RunCount, j.SuccessCount, j.FailureCount), 14),
		}
		out = append(out, renderRow(cells, i == a.jobCursor, width))
	}
	return out
}

func (a *App) renderProcesses(width, height int) []string {
	rows := a.filteredProcesses()
	if len(rows) == 0 {
		return []string{renderTableHeader(processColumns, width), dimStyle.Render("Nenhum processo encontrado")}
	}
	out := []string{renderTableHeader(processColumns, width)}
	start, end := visibleWindow(a.procCursor, len(rows), height-1)
	for i := start; i < end; i++ {
		p := rows[i]
		cells := []string{
			padCell(strconv.Itoa(p.ID), 6),
			padCell(p.Filename, 30),
			lipgloss.NewStyle().Foreground(statusColor(p.Status)).Render(padCell(p.Status, 11)),
			padCell(a.date(p.StartTime), 21),
			padCell(duration(p), 9),
			padCell(format.FormatCount(p.RecordsProcessed), 11),
			padCell(format.FormatCount(p.RecordsError), 8),
		}
		out = append(out, renderRow(cells, i == a.procCursor, width))
	}
	if p, ok := a.selectedProcess(); ok && p.ErrorMessage != nil && *p.ErrorMessage != "" && len(out) < height {
		out = append(out, failStyle.Render(ansi.Truncate("erro: "+*p.ErrorMessage, width, "…")))
	}
	return out
}

func (a *App) renderActivity(width, height int) []string {
	rows := a.filteredActivity()
	if a.services.Activity == nil {
		return []string{dimStyle.Render("Histórico de atividade desabilitado")}
	}
	if len(rows) == 0 {
		return []string{renderTableHeader(activityColumns, width), dimStyle.Render("Nenhuma ação registrada")}
	}
	out := []string{renderTableHeader(activityColumns, width)}
	start, end := visibleWindow(a.actCursor, len(rows), height-1)
	for i := start; i < end; i++ {
		e := rows[i]
		result := failStyle.Render(padCell("✖", 3))
		if e.OK {
			result = okStyle.Render(padCell("✔", 3))
		}
		cells := []string{
			padCell(e.At.In(a.tz).Format(format.DateLayout), 21),
			padCell(actionLabel(e.Action), 15),
			padCell(strconv.Itoa(e.TargetID), 6),
			result,
			padCell(e.Message, 40),
		}
		out = append(out, renderRow(cells, i == a.actCursor, width))
	}
	return out
}

func (a *App) renderConfirm() string {
	title := peachStyle.Bold(true).Render("Excluir processo #" + strconv.Itoa(a.pendingDelete))
	body := actions.ConfirmDeletePrompt
	hint := dimStyle.Render("y confirma · n cancela")
	return modalStyle.Render(title + "\n\n" + body + "\n\n" + hint)
}

func (a *App) date(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return format.FormatDate(*s, a.tz)
}

func duration(p api.Process) string {
	if p.DurationSeconds == nil {
		return "-"
	}
	return format.FormatDuration(*p.DurationSeconds)
}

func actionLabel(action string) string {
	switch actions.Action(action) {
	case actions.DeleteProcess:
		return "excluir"
	case actions.RunJob:
		return "executar"
	case actions.ToggleJob:
		return "ativar/desativar"
	}
	return action
}

func renderTableHeader(cols []column, width int) string {
	cells := make([]string, len(cols))
	for i, c := range cols {
		cells[i] = padCell(c.title, c.width)
	}
	return tableHeaderStyle.Render(ansi.Truncate("  "+strings.Join(cells, " "), width, ""))
}

func renderRow(cells []string, selected bool, width int) string {
	prefix := "  "
	if selected {
		prefix = cursorStyle.Render("▸ ")
	}
	return ansi.Truncate(prefix+strings.Join(cells, " "), width, "")
}

// padCell fits s into exactly width cells.
func padCell(s string, width int) string {
	s = overlay.Truncate(s, width)
	if gap := width - ansi.StringWidth(s); gap > 0 {
		s += strings.Repeat(" ", gap)
	}
	return s
}

// visibleWindow returns the [start, end) slice of n rows that keeps cursor
// on screen in a viewport of size rows.
func visibleWindow(cursor, n, size int) (int, int) {
	if size <= 0 {
		size = 1
	}
	if n <= size {
		return 0, n
	}
	start := cursor - size + 1
	if start < 0 {
		start = 0
	}
	return start, start + size
}
