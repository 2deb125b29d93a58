package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"myfind/internal/finder"
)

// maxListed caps how many in-flight targets the view names.
const maxListed = 8

// Model renders a running search: a tally over all targets, a bar split into
// finished and failed cells, and the targets whose workers are still out.
type Model struct {
	updates  <-chan finder.ProgressUpdate
	started  time.Time
	width    int
	rows     []targetRow
	matches  int
	quitting bool
}

type targetRow struct {
	target  string
	worker  uint64
	state   finder.TargetState
	matches int
}

type doneMsg struct{}

type updateMsg finder.ProgressUpdate

func NewModel(targets []string, updates <-chan finder.ProgressUpdate) Model {
	rows := make([]targetRow, len(targets))
	for i, target := range targets {
		rows[i].target = target
	}
	return Model{updates: updates, rows: rows, started: time.Now()}
}

func (m Model) Init() tea.Cmd {
	return listenForUpdates(m.updates)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case updateMsg:
		m.apply(finder.ProgressUpdate(msg))
		return m, listenForUpdates(m.updates)
	case doneMsg:
		m.quitting = true
		return m, tea.Quit
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	default:
		return m, nil
	}
}

func (m *Model) apply(u finder.ProgressUpdate) {
	if u.Index < 0 || u.Index >= len(m.rows) {
		return
	}
	row := &m.rows[u.Index]
	row.state = u.State
	if u.WorkerID != 0 {
		row.worker = u.WorkerID
	}
	row.matches += u.Matches
	m.matches += u.Matches
}

type tally struct {
	pending, running, done, failed int
}

func (m Model) tally() tally {
	var t tally
	for _, row := range m.rows {
		switch row.state {
		case finder.TargetRunning:
			t.running++
		case finder.TargetDone:
			t.done++
		case finder.TargetFailed:
			t.failed++
		default:
			t.pending++
		}
	}
	return t
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	t := m.tally()
	elapsed := time.Since(m.started).Round(time.Millisecond)

	var b strings.Builder
	b.WriteString(titleStyle.Render("myfind") + "  " + dimStyle.Render(elapsed.String()) + "\n")
	fmt.Fprintf(&b, "%s %s\n",
		labelStyle.Render(fmt.Sprintf("%d/%d targets finished", t.done+t.failed, len(m.rows))),
		dimStyle.Render(fmt.Sprintf("running:%d pending:%d failed:%d matches:%d", t.running, t.pending, t.failed, m.matches)),
	)
	b.WriteString(m.bar(t))

	listed := 0
	for _, row := range m.rows {
		if row.state != finder.TargetRunning && row.state != finder.TargetPending {
			continue
		}
		if listed == maxListed {
			b.WriteString("\n" + dimStyle.Render(fmt.Sprintf("  … and %d more", t.running+t.pending-listed)))
			break
		}
		b.WriteString("\n" + renderRow(row))
		listed++
	}
	return b.String()
}

func (m Model) bar(t tally) string {
	width := 40
	if m.width > 0 {
		width = max(20, min(60, m.width-10))
	}
	done, failed := barCells(width, t.done, t.failed, len(m.rows))
	return doneCellStyle.Render(strings.Repeat("█", done)) +
		failedCellStyle.Render(strings.Repeat("█", failed)) +
		dimStyle.Render(strings.Repeat("░", width-done-failed))
}

func renderRow(row targetRow) string {
	if row.state == finder.TargetPending {
		return dimStyle.Render("  · " + row.target + "  waiting")
	}
	return runningStyle.Render("  ▸ "+row.target) + dimStyle.Render(fmt.Sprintf("  worker %d", row.worker))
}

// barCells splits width cells between done and failed targets out of total.
// Failed cells are rounded up so a single failure is always visible.
func barCells(width, done, failed, total int) (int, int) {
	if total <= 0 || width <= 0 {
		return 0, 0
	}
	failedCells := (failed*width + total - 1) / total
	doneCells := (done + failed) * width / total
	doneCells = max(0, min(width, doneCells)-min(width, failedCells))
	return doneCells, min(width, failedCells)
}

func listenForUpdates(updates <-chan finder.ProgressUpdate) tea.Cmd {
	return func() tea.Msg {
		update, ok := <-updates
		if !ok {
			return doneMsg{}
		}
		return updateMsg(update)
	}
}

var (
	titleStyle      = lipgloss.NewStyle().Bold(true).Foreground(ColorInk)
	labelStyle      = lipgloss.NewStyle().Foreground(ColorInk)
	dimStyle        = lipgloss.NewStyle().Foreground(ColorDim)
	runningStyle    = lipgloss.NewStyle().Foreground(ColorName)
	doneCellStyle   = lipgloss.NewStyle().Foreground(ColorSuccess)
	failedCellStyle = lipgloss.NewStyle().Foreground(ColorError)
)
