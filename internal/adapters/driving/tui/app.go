// Package tui provides an interactive terminal viewer for change reports.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/sanctrack/internal/adapters/driving/render"
	"github.com/custodia-labs/sanctrack/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/sanctrack/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/sanctrack/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/sanctrack/internal/core/domain"
)

// Tab selects which list of the report is shown.
type Tab int

// Report tabs in display order.
const (
	TabAdded Tab = iota
	TabRemoved
	TabModified
	tabCount
)

// String returns the tab label.
func (t Tab) String() string {
	switch t {
	case TabAdded:
		return "Added"
	case TabRemoved:
		return "Removed"
	case TabModified:
		return "Modified"
	default:
		return "Unknown"
	}
}

// chromeHeight is the number of lines used by the title, tabs and status bar.
const chromeHeight = 4

// Viewer is the bubbletea model for browsing a report.
type Viewer struct {
	title  string
	report *domain.Report

	styles *styles.Styles
	keymap *keymap.KeyMap
	status *status.Bar

	viewport viewport.Model
	ready    bool
	width    int
	height   int

	tab      Tab
	showDiff bool
	quitting bool
}

// NewViewer creates a viewer for the report.
func NewViewer(title string, report *domain.Report) (*Viewer, error) {
	if report == nil {
		return nil, ErrNilReport
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	v := &Viewer{
		title:  title,
		report: report,
		styles: s,
		keymap: km,
		status: status.NewBar(s, km),
	}

	// Open on the first non-empty list.
	for t := TabAdded; t < tabCount; t++ {
		if v.count(t) > 0 {
			v.tab = t
			break
		}
	}
	return v, nil
}

// Init implements tea.Model.
func (v *Viewer) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (v *Viewer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.resize(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKey(msg)
	}
	return v, nil
}

func (v *Viewer) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keymap.Quit):
		v.quitting = true
		return v, tea.Quit
	case key.Matches(msg, v.keymap.Help):
		v.status.ToggleHelp()
	case key.Matches(msg, v.keymap.NextTab):
		v.setTab((v.tab + 1) % tabCount)
	case key.Matches(msg, v.keymap.PrevTab):
		v.setTab((v.tab + tabCount - 1) % tabCount)
	case key.Matches(msg, v.keymap.ToggleDiff):
		v.showDiff = !v.showDiff
		v.refresh()
	case key.Matches(msg, v.keymap.Up):
		v.viewport.ScrollUp(1)
	case key.Matches(msg, v.keymap.Down):
		v.viewport.ScrollDown(1)
	case key.Matches(msg, v.keymap.PageUp):
		v.viewport.PageUp()
	case key.Matches(msg, v.keymap.PageDown):
		v.viewport.PageDown()
	case key.Matches(msg, v.keymap.Top):
		v.viewport.GotoTop()
	case key.Matches(msg, v.keymap.Bottom):
		v.viewport.GotoBottom()
	}
	v.status.SetScrollPercent(v.viewport.ScrollPercent())
	return v, nil
}

func (v *Viewer) resize(width, height int) {
	v.width = width
	v.height = height
	body := height - chromeHeight
	if body < 1 {
		body = 1
	}

	if !v.ready {
		v.viewport = viewport.New(width, body)
		v.ready = true
	} else {
		v.viewport.Width = width
		v.viewport.Height = body
	}
	v.status.SetWidth(width)
	v.refresh()
}

func (v *Viewer) setTab(t Tab) {
	v.tab = t
	v.refresh()
	v.viewport.GotoTop()
}

func (v *Viewer) refresh() {
	v.viewport.SetContent(v.content())
	v.status.SetMessage(fmt.Sprintf("%s: %d", v.tab, v.count(v.tab)))
	v.status.SetScrollPercent(v.viewport.ScrollPercent())
}

// View implements tea.Model.
func (v *Viewer) View() string {
	if v.quitting {
		return ""
	}
	if !v.ready {
		return "Loading..."
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		v.styles.Title.Render(v.title),
		v.tabs(),
		"",
		v.viewport.View(),
		v.status.View(),
	)
}

// Tab returns the selected tab.
func (v *Viewer) Tab() Tab {
	return v.tab
}

func (v *Viewer) tabs() string {
	parts := make([]string, 0, tabCount)
	for t := TabAdded; t < tabCount; t++ {
		label := fmt.Sprintf("%s (%d)", t, v.count(t))
		if t == v.tab {
			parts = append(parts, v.styles.ActiveTab.Render(label))
		} else {
			parts = append(parts, v.styles.Tab.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (v *Viewer) count(t Tab) int {
	switch t {
	case TabAdded:
		return len(v.report.Added)
	case TabRemoved:
		return len(v.report.Removed)
	case TabModified:
		return len(v.report.Modified)
	default:
		return 0
	}
}

// content renders the selected list.
func (v *Viewer) content() string {
	if v.count(v.tab) == 0 {
		return v.styles.Muted.Render(fmt.Sprintf("No %s entries.", strings.ToLower(v.tab.String())))
	}

	var b strings.Builder
	switch v.tab {
	case TabAdded:
		for _, e := range v.report.Added {
			b.WriteString(v.styles.Added.Render("+ "+render.EntryLine(e)) + "\n")
		}
	case TabRemoved:
		for _, e := range v.report.Removed {
			b.WriteString(v.styles.Removed.Render("- "+render.EntryLine(e)) + "\n")
		}
	case TabModified:
		for _, m := range v.report.Modified {
			v.writeModification(&b, m)
		}
	}
	return b.String()
}

func (v *Viewer) writeModification(b *strings.Builder, m domain.Modification) {
	b.WriteString(v.styles.Modified.Render("~ "+m.ReferenceNumber+"  "+m.New.Name) + "\n")

	if v.showDiff {
		diff, err := render.EntryDiff(m)
		if err != nil {
			b.WriteString(v.styles.Muted.Render("    diff unavailable: "+err.Error()) + "\n")
			return
		}
		for _, line := range strings.Split(strings.TrimRight(diff, "\n"), "\n") {
			b.WriteString("    " + v.styleDiffLine(line) + "\n")
		}
		return
	}

	for _, c := range m.Changes {
		b.WriteString("    " + render.DescribeChange(c) + "\n")
	}
}

func (v *Viewer) styleDiffLine(line string) string {
	switch {
	case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
		return v.styles.Muted.Render(line)
	case strings.HasPrefix(line, "+"):
		return v.styles.Added.Render(line)
	case strings.HasPrefix(line, "-"):
		return v.styles.Removed.Render(line)
	default:
		return line
	}
}
