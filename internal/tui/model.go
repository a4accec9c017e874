// Package tui is an interactive terminal front end for scanning and deleting folders.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/idelchi/dirrank/internal/coordinator"
	"github.com/idelchi/dirrank/internal/dirsize"
	"github.com/idelchi/dirrank/internal/guard"
)

// Deleter removes a folder and reports the outcome.
type Deleter interface {
	Delete(path string) guard.Outcome
}

// Options configures the terminal UI.
type Options struct {
	// Root is the directory whose children are ranked.
	Root string
	// TopN is the number of folders listed.
	TopN int
	// Ranker produces the ranked report.
	Ranker coordinator.Analyzer
	// Guard deletes the selected folder.
	Guard Deleter
	// Logger receives UI events. Nil discards them.
	Logger *slog.Logger
}

// callbackMsg carries a coordinator callback onto the bubbletea event loop.
type callbackMsg struct {
	fn func()
}

type styles struct {
	base    lipgloss.Style
	title   lipgloss.Style
	muted   lipgloss.Style
	status  lipgloss.Style
	danger  lipgloss.Style
	confirm lipgloss.Style
	chip    lipgloss.Style
}

//nolint:gochecknoglobals // Shared styles
var ui = styles{
	base: lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("238")),
	title:   lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true),
	muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("242")),
	status:  lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
	danger:  lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true),
	confirm: lipgloss.NewStyle().Foreground(lipgloss.Color("231")).Background(lipgloss.Color("203")).Bold(true).Padding(0, 1),
	chip:    lipgloss.NewStyle().Foreground(lipgloss.Color("231")).Background(lipgloss.Color("62")).Padding(0, 1),
}

// model is a pointer model: coordinator callbacks run inside Update and mutate it there.
type model struct {
	ctx     context.Context
	opts    Options
	logger  *slog.Logger
	coord   *coordinator.Coordinator
	table   table.Model
	spinner spinner.Model
	help    help.Model
	keys    keyMap
	folders dirsize.RankedList
	report  *dirsize.Report
	// scanning is true from Scan until its callback runs; no second scan starts meanwhile.
	scanning bool
	status   string
	err      string
	// pending is the path awaiting delete confirmation.
	pending string
	width   int
}

func newModel(ctx context.Context, opts Options, executor coordinator.Executor) *model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	t := table.New(
		table.WithColumns(columns(80)),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	tableStyles := table.DefaultStyles()
	tableStyles.Header = tableStyles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("238")).
		BorderBottom(true).
		Bold(true)
	tableStyles.Selected = tableStyles.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(true)
	t.SetStyles(tableStyles)

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))

	return &model{
		ctx:     ctx,
		opts:    opts,
		logger:  logger,
		coord:   coordinator.New(opts.Ranker, executor),
		table:   t,
		spinner: sp,
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

func columns(width int) []table.Column {
	rankWidth := 4
	sizeWidth := 14
	pathWidth := max(width-rankWidth-sizeWidth-10, 20)

	return []table.Column{
		{Title: "#", Width: rankWidth},
		{Title: "Folder", Width: pathWidth},
		{Title: "Size", Width: sizeWidth},
	}
}

func (m *model) Init() tea.Cmd {
	return m.startScan()
}

// startScan dispatches a scan unless one is already running.
func (m *model) startScan() tea.Cmd {
	if m.scanning {
		return nil
	}

	m.scanning = true
	m.err = ""
	m.status = "Scanning… Please wait…"

	m.logger.Debug("scan started", "root", m.opts.Root, "top", m.opts.TopN)
	m.coord.Scan(m.ctx, m.opts.Root, m.opts.TopN, m.onComplete, m.onError)

	return m.spinner.Tick
}

func (m *model) onComplete(report *dirsize.Report) {
	m.scanning = false
	m.report = report
	m.folders = append(dirsize.RankedList(nil), report.Folders...)
	m.status = fmt.Sprintf("Found %d results", len(m.folders))
	m.setRows()
}

func (m *model) onError(message string) {
	m.scanning = false
	m.err = message
	m.status = ""
	m.logger.Error("scan failed", "root", m.opts.Root, "error", message)
}

func (m *model) setRows() {
	rows := make([]table.Row, 0, len(m.folders))

	for i, folder := range m.folders {
		rows = append(rows, table.Row{strconv.Itoa(i + 1), folder.Path, dirsize.FormatSize(folder.Size)})
	}

	m.table.SetRows(rows)

	if cursor := m.table.Cursor(); cursor >= len(rows) && len(rows) > 0 {
		m.table.SetCursor(len(rows) - 1)
	}
}

func (m *model) selected() (dirsize.FolderSizeResult, bool) {
	cursor := m.table.Cursor()
	if cursor < 0 || cursor >= len(m.folders) {
		return dirsize.FolderSizeResult{}, false
	}

	return m.folders[cursor], true
}

// deletePending runs the guard synchronously; no scan is in flight at this point.
func (m *model) deletePending() {
	path := m.pending
	m.pending = ""

	outcome := m.opts.Guard.Delete(path)
	if !outcome.Success {
		m.err = fmt.Sprintf("Could not delete folder: %s", outcome.Message)
		m.logger.Error("delete failed", "path", path, "reason", outcome.Message)

		return
	}

	for i, folder := range m.folders {
		if folder.Path == path {
			m.folders = append(m.folders[:i], m.folders[i+1:]...)

			break
		}
	}

	m.err = ""
	m.status = fmt.Sprintf("Successfully deleted: %s", path)
	m.setRows()
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case callbackMsg:
		msg.fn()

		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.table.SetColumns(columns(msg.Width))
		m.table.SetWidth(max(msg.Width-4, 20))
		m.table.SetHeight(max(msg.Height-10, 5))

		return m, nil
	case spinner.TickMsg:
		if !m.scanning {
			return m, nil
		}

		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	case tea.KeyMsg:
		if m.pending != "" {
			switch msg.String() {
			case "y", "Y":
				m.deletePending()
			case "n", "N", "esc":
				m.pending = ""
				m.status = "Deletion cancelled"
			}

			return m, nil
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll

			return m, nil
		case key.Matches(msg, m.keys.Rescan):
			return m, m.startScan()
		case key.Matches(msg, m.keys.Delete):
			if folder, ok := m.selected(); ok && !m.scanning {
				m.pending = folder.Path
			}

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m *model) View() string {
	header := lipgloss.JoinHorizontal(lipgloss.Left,
		ui.title.Render("dirrank"), " ",
		ui.chip.Render(fmt.Sprintf("top %d", m.opts.TopN)), " ",
		ui.muted.Render(fmt.Sprintf("Root: %s", m.opts.Root)),
	)

	lines := []string{header, ui.base.Render(m.table.View())}

	switch {
	case m.pending != "":
		lines = append(lines, ui.confirm.Render(fmt.Sprintf("Permanently delete %s? (y/n)", m.pending)))
	case m.err != "":
		lines = append(lines, ui.danger.Render("Error: "+m.err))
	case m.scanning:
		lines = append(lines, ui.status.Render(m.spinner.View()+" "+m.status))
	default:
		lines = append(lines, ui.status.Render(m.summary()))
	}

	lines = append(lines, m.help.View(m.keys))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m *model) summary() string {
	if m.report == nil {
		return m.status
	}

	return fmt.Sprintf("%s · total %s · %d folders · %d skipped entries · %s",
		m.status,
		dirsize.FormatSize(m.report.TotalBytes),
		m.report.Children,
		m.report.ErrorCount,
		m.report.Elapsed.Truncate(10*time.Millisecond),
	)
}
