// Package tui is the interactive terminal front end: a search bar, a
// loading spinner and the result list of the current search state.
package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vmunix/anisearch/internal/search"
	"github.com/vmunix/anisearch/internal/tui/styles"
	"github.com/vmunix/anisearch/pkg/jikan"
)

// Controller is the part of search.Controller the TUI drives.
type Controller interface {
	Start()
	SubmitQuery(text string)
	ItemSelected(position int)
	Subscribe() <-chan search.State
}

// Pane identifies which part of the screen has keyboard focus.
type Pane int

const (
	PaneInput Pane = iota
	PaneResults
)

// Model is the root Bubble Tea model.
type Model struct {
	controller Controller
	states     <-chan search.State

	input   textinput.Model
	spinner spinner.Model
	help    help.Model
	keys    KeyMap

	state    search.State
	cursor   int
	best     int
	focus    Pane
	selected int // last position passed to ItemSelected, -1 if none

	width  int
	height int
}

// New creates the model and subscribes to controller state.
func New(c Controller) Model {
	ti := textinput.New()
	ti.Placeholder = "Search anime..."
	ti.CharLimit = 200
	ti.Width = 40
	ti.Prompt = "/ "
	ti.PromptStyle = styles.AccentStyle
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	ti.PlaceholderStyle = styles.DimStyle
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.AccentStyle

	return Model{
		controller: c,
		states:     c.Subscribe(),
		input:      ti,
		spinner:    sp,
		help:       help.New(),
		keys:       DefaultKeyMap(),
		best:       -1,
		selected:   -1,
	}
}

// Init starts listening for state and issues the startup query.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		listenCmd(m.states),
		startCmd(m.controller),
		m.spinner.Tick,
		textinput.Blink,
	)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(msg.Width-6, 10)
		m.help.Width = msg.Width
		return m, nil

	case StateMsg:
		if msg.Closed {
			return m, tea.Quit
		}
		m.applyState(msg.State)
		return m, listenCmd(m.states)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ForceQuit), key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Focus):
		m.toggleFocus()
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
		return m, nil

	case key.Matches(msg, m.keys.Enter):
		if m.focus == PaneInput {
			m.controller.SubmitQuery(m.input.Value())
			return m, nil
		}
		if len(m.state.Results) > 0 {
			m.selected = m.cursor
			m.controller.ItemSelected(m.cursor)
		}
		return m, nil
	}

	if m.focus == PaneResults {
		switch {
		case key.Matches(msg, m.keys.Home):
			m.cursor = 0
		case key.Matches(msg, m.keys.End):
			m.cursor = max(len(m.state.Results)-1, 0)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) applyState(s search.State) {
	resultsChanged := !sameResults(m.state.Results, s.Results)
	m.state = s
	if resultsChanged {
		m.cursor = 0
		m.selected = -1
		titles := make([]string, len(s.Results))
		for i, show := range s.Results {
			titles[i] = show.Title
		}
		m.best = search.BestMatch(s.Query, titles)
	}
	if m.cursor >= len(s.Results) {
		m.cursor = max(len(s.Results)-1, 0)
	}
}

func (m *Model) toggleFocus() {
	if m.focus == PaneInput {
		m.focus = PaneResults
		m.input.Blur()
		return
	}
	m.focus = PaneInput
	m.input.Focus()
}

func (m *Model) moveCursor(delta int) {
	n := len(m.state.Results)
	if n == 0 {
		m.cursor = 0
		return
	}
	m.cursor = min(max(m.cursor+delta, 0), n-1)
}

// State returns the last state the model rendered.
func (m Model) State() search.State {
	return m.state
}

// Cursor returns the highlighted result position.
func (m Model) Cursor() int {
	return m.cursor
}

// Focus returns the pane with keyboard focus.
func (m Model) Focus() Pane {
	return m.focus
}

// sameResults reports whether two published result slices are the same
// publication. States share the slice until results are replaced.
func sameResults(a, b []jikan.Show) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return true
	}
	return &a[0] == &b[0]
}
