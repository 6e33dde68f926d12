package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vmunix/anisearch/internal/search"
)

// listenCmd reads the next state from the subscription channel. Update
// re-issues it after every StateMsg until the channel closes.
func listenCmd(ch <-chan search.State) tea.Cmd {
	return func() tea.Msg {
		state, ok := <-ch
		if !ok {
			return StateMsg{Closed: true}
		}
		return StateMsg{State: state}
	}
}

// startCmd issues the startup query off the UI goroutine.
func startCmd(c Controller) tea.Cmd {
	return func() tea.Msg {
		c.Start()
		return nil
	}
}
