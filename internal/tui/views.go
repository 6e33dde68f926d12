package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vmunix/anisearch/internal/search"
	"github.com/vmunix/anisearch/internal/tui/styles"
	"github.com/vmunix/anisearch/pkg/jikan"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	// Rows used by everything except the result list.
	chromeHeight = 12
)

// View renders the screen.
func (m Model) View() string {
	width := m.width
	if width <= 0 {
		width = defaultWidth
	}

	sections := []string{
		m.renderInput(width),
		m.renderStatus(),
		m.renderResults(width),
		m.renderDetail(width),
		styles.HelpStyle.Render(m.help.View(m.keys)),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderInput(width int) string {
	border := styles.InactiveBorder
	if m.focus == PaneInput {
		border = styles.ActiveBorder
	}
	return border.Width(width - 2).Render(m.input.View())
}

func (m Model) renderStatus() string {
	switch {
	case m.state.Loading:
		return fmt.Sprintf(" %s %s", m.spinner.View(), styles.DimStyle.Render("Searching "+quote(m.state.Query)))
	case m.state.Err != nil:
		return " " + styles.ErrorStyle.Render("Search failed: "+m.state.Err.Error())
	case m.state.Query == "":
		return " " + styles.DimStyle.Render("Type a title and press enter")
	default:
		return " " + styles.SuccessStyle.Render(fmt.Sprintf("%d results for %s", len(m.state.Results), quote(m.state.Query)))
	}
}

func (m Model) renderResults(width int) string {
	border := styles.InactiveBorder
	if m.focus == PaneResults {
		border = styles.ActiveBorder
	}

	if len(m.state.Results) == 0 {
		return border.Width(width - 2).Render(styles.DimStyle.Render("No results"))
	}

	height := m.height
	if height <= 0 {
		height = defaultHeight
	}
	visible := max(height-chromeHeight, 3)
	start, end := window(m.cursor, len(m.state.Results), visible)

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		lines = append(lines, m.renderRow(i, width-4))
	}
	return border.Width(width - 2).Render(strings.Join(lines, "\n"))
}

func (m Model) renderRow(i, width int) string {
	show := m.state.Results[i]

	marker := " "
	if i == m.best {
		marker = styles.BestMatchMarker
	}

	meta := rowMeta(show)
	match := fmt.Sprintf("%3.0f%%", search.Relevance(m.state.Query, show.Title)*100)
	titleWidth := max(width-lipgloss.Width(meta)-lipgloss.Width(match)-6, 10)
	title := truncate(show.Title, titleWidth)

	row := fmt.Sprintf("%s %-*s  %s  %s", marker, titleWidth, title, meta, match)
	if i == m.cursor {
		return styles.SelectedStyle.Render(row)
	}
	return styles.TitleStyle.Render(marker+" "+fmt.Sprintf("%-*s", titleWidth, title)) +
		"  " + styles.SubtitleStyle.Render(meta) + "  " + styles.ScoreStyle.Render(match)
}

func (m Model) renderDetail(width int) string {
	if len(m.state.Results) == 0 || m.cursor >= len(m.state.Results) {
		return ""
	}
	show := m.state.Results[m.cursor]

	synopsis := show.Synopsis
	if synopsis == "" {
		synopsis = "No synopsis."
	}

	lines := []string{
		styles.TitleStyle.Render(show.Title) + " " + styles.SubtitleStyle.Render(detailMeta(show)),
		lipgloss.NewStyle().Width(width - 2).Render(truncate(synopsis, 2*(width-2))),
	}
	if show.ImageURL != "" {
		lines = append(lines, styles.DimStyle.Render(show.ImageURL))
	}
	if m.selected == m.cursor {
		lines = append(lines, styles.AccentStyle.Render("selected"))
	}
	return strings.Join(lines, "\n")
}

// rowMeta is the compact rated/episodes/score column of a result row.
func rowMeta(show jikan.Show) string {
	rated := show.Rated
	if rated == "" {
		rated = "-"
	}
	return fmt.Sprintf("%-6s %4s ep  %s", rated, episodes(show.Episodes), score(show.Score))
}

func detailMeta(show jikan.Show) string {
	parts := []string{}
	if show.Type != "" {
		parts = append(parts, show.Type)
	}
	if show.Airing {
		parts = append(parts, "airing")
	}
	parts = append(parts, episodes(show.Episodes)+" episodes", "score "+score(show.Score))
	if show.Members > 0 {
		parts = append(parts, fmt.Sprintf("%d members", show.Members))
	}
	return strings.Join(parts, " · ")
}

func episodes(n int) string {
	if n <= 0 {
		return "?"
	}
	return fmt.Sprintf("%d", n)
}

func score(s float64) string {
	if s <= 0 {
		return " -  "
	}
	return fmt.Sprintf("%.2f", s)
}

func quote(s string) string {
	return "\"" + s + "\""
}

// truncate shortens s to at most n display cells, marking the cut.
func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= n {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > n {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}

// window returns the [start, end) slice of rows to show so the cursor stays
// visible.
func window(cursor, total, size int) (int, int) {
	if total <= size {
		return 0, total
	}
	start := cursor - size/2
	start = max(start, 0)
	start = min(start, total-size)
	return start, start + size
}
