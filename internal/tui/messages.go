package tui

import "github.com/vmunix/anisearch/internal/search"

// Message types for the TUI

// StateMsg carries a search state publication. Closed is set when the
// subscription ended and no further states will arrive.
type StateMsg struct {
	State  search.State
	Closed bool
}
