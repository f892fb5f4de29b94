// Package ui is the terminal front-end: a hierarchical issue tree over one
// workspace, refreshed live as the data directory changes.
package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/beadpanel/pkg/debug"
	"github.com/vanderheijden86/beadpanel/pkg/loader"
	"github.com/vanderheijden86/beadpanel/pkg/model"
	"github.com/vanderheijden86/beadpanel/pkg/sorting"
)

// FetchFunc loads the issue snapshot for one filter. Wired to
// loader.Repository in production; tests substitute canned results.
type FetchFunc func(ctx context.Context, filter loader.FilterMode) loader.Result

// writeClipboard is stubbed in tests; headless CI has no clipboard.
var writeClipboard = clipboard.WriteAll

// filterCycle is the order the f key walks through.
var filterCycle = []loader.FilterMode{
	loader.FilterOpen,
	loader.FilterAll,
	loader.FilterReady,
	loader.FilterRecent,
}

// Options configures the top-level Model.
type Options struct {
	Fetch    FetchFunc
	Changes  <-chan struct{} // data directory change signal, may be nil
	Theme    Theme
	Filter   loader.FilterMode
	SortMode sorting.Mode
	BeadsDir string
	Title    string
}

type issuesMsg struct {
	filter loader.FilterMode
	res    loader.Result
}

type changeMsg struct{}

// Model is the root bubbletea model.
type Model struct {
	opts  Options
	theme Theme

	tree       TreeModel
	detail     viewport.Model
	showDetail bool
	detailFor  string // issue id the detail pane was rendered for

	issues   []model.Issue
	filter   loader.FilterMode
	sortMode sorting.Mode

	width   int
	height  int
	loading bool
	status  string
	err     error
}

// NewModel builds the root model. The first snapshot loads in Init.
func NewModel(opts Options) Model {
	if opts.Filter == "" {
		opts.Filter = loader.FilterOpen
	}
	if opts.SortMode == "" {
		opts.SortMode = sorting.ModeDefault
	}
	tree := NewTreeModel(opts.Theme)
	tree.SetBeadsDir(opts.BeadsDir)
	return Model{
		opts:     opts,
		theme:    opts.Theme,
		tree:     tree,
		detail:   viewport.New(0, 0),
		filter:   opts.Filter,
		sortMode: opts.SortMode,
		loading:  true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.fetchCmd(m.filter), m.waitForChange())
}

func (m Model) fetchCmd(filter loader.FilterMode) tea.Cmd {
	fetch := m.opts.Fetch
	return func() tea.Msg {
		return issuesMsg{filter: filter, res: fetch(context.Background(), filter)}
	}
}

func (m Model) waitForChange() tea.Cmd {
	ch := m.opts.Changes
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return changeMsg{}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil

	case issuesMsg:
		if msg.filter != m.filter {
			// Stale response from before a filter switch.
			return m, nil
		}
		m.loading = false
		m.issues = msg.res.Issues
		m.err = msg.res.Err
		m.status = ""
		if msg.res.Err != nil && len(msg.res.Issues) > 0 {
			m.status = fmt.Sprintf("partial data: %v", msg.res.Err)
		}
		m.tree.SetIssues(m.issues, m.sortMode)
		for _, w := range m.tree.Warnings() {
			debug.Log("hierarchy: %s", w)
		}
		m.refreshDetail()
		return m, nil

	case changeMsg:
		debug.Log("data directory changed, refreshing")
		return m, tea.Batch(m.fetchCmd(m.filter), m.waitForChange())

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "up", "k":
		m.tree.CursorUp()
		m.refreshDetail()
	case "down", "j":
		m.tree.CursorDown()
		m.refreshDetail()
	case "home", "g":
		m.tree.CursorHome()
		m.refreshDetail()
	case "end", "G":
		m.tree.CursorEnd()
		m.refreshDetail()

	case "enter":
		m.tree.Toggle()
	case "E":
		m.tree.ExpandAll()
	case "C":
		m.tree.CollapseAll()

	case " ":
		m.showDetail = !m.showDetail
		m.layout()
		m.detailFor = ""
		m.refreshDetail()
	case "pgup":
		if m.showDetail {
			m.detail.HalfPageUp()
		}
	case "pgdown":
		if m.showDetail {
			m.detail.HalfPageDown()
		}

	case "s":
		if m.sortMode == sorting.ModeDefault {
			m.sortMode = sorting.ModeRecent
		} else {
			m.sortMode = sorting.ModeDefault
		}
		m.tree.SetIssues(m.issues, m.sortMode)
		m.refreshDetail()

	case "f":
		m.filter = nextFilter(m.filter)
		m.loading = true
		return m, m.fetchCmd(m.filter)

	case "r":
		m.loading = true
		return m, m.fetchCmd(m.filter)

	case "y":
		if sel := m.tree.Selected(); sel != nil {
			if err := writeClipboard(sel.ID); err != nil {
				m.status = fmt.Sprintf("copy failed: %v", err)
			} else {
				m.status = fmt.Sprintf("copied %s", sel.ID)
			}
		}
	}
	return m, nil
}

func nextFilter(current loader.FilterMode) loader.FilterMode {
	for i, f := range filterCycle {
		if f == current {
			return filterCycle[(i+1)%len(filterCycle)]
		}
	}
	return filterCycle[0]
}

// layout splits the vertical space between tree and detail pane.
func (m *Model) layout() {
	const chrome = 2 // header + status line
	body := m.height - chrome
	if body < 1 {
		body = 1
	}
	if m.showDetail {
		detailHeight := body * 2 / 5
		if detailHeight < 3 {
			detailHeight = 3
		}
		m.tree.SetSize(m.width, body-detailHeight)
		m.detail.Width = m.width
		m.detail.Height = detailHeight
	} else {
		m.tree.SetSize(m.width, body)
	}
}

// refreshDetail re-renders the detail pane when it is visible and the
// selection moved. Glamour rendering is not free, so unchanged selections
// are skipped.
func (m *Model) refreshDetail() {
	if !m.showDetail {
		return
	}
	sel := m.tree.Selected()
	if sel == nil {
		m.detail.SetContent("")
		m.detailFor = ""
		return
	}
	if sel.ID == m.detailFor {
		return
	}
	m.detail.SetContent(RenderDetail(sel, m.width))
	m.detail.GotoTop()
	m.detailFor = sel.ID
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.headerView())
	b.WriteByte('\n')
	b.WriteString(m.tree.View())
	if m.showDetail {
		b.WriteByte('\n')
		b.WriteString(m.detail.View())
	}
	b.WriteByte('\n')
	b.WriteString(m.statusView())
	return b.String()
}

func (m Model) headerView() string {
	title := m.opts.Title
	if title == "" {
		title = "beadpanel"
	}
	left := m.theme.Header.Render(title)
	right := m.theme.DimText.Render(fmt.Sprintf("filter:%s sort:%s %d issues", m.filter, m.sortMode, len(m.issues)))
	return left + " " + right
}

func (m Model) statusView() string {
	switch {
	case m.loading:
		return m.theme.DimText.Render("loading…")
	case m.err != nil && len(m.issues) == 0:
		return m.theme.Renderer.NewStyle().Foreground(m.theme.Blocked).Render(m.err.Error())
	case m.status != "":
		return m.theme.DimText.Render(m.status)
	default:
		return m.theme.MutedText.Render("j/k move · enter fold · space detail · s sort · f filter · r refresh · y copy id · q quit")
	}
}
