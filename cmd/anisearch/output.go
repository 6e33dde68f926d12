package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/vmunix/anisearch/internal/history"
	"github.com/vmunix/anisearch/internal/search"
	"github.com/vmunix/anisearch/pkg/jikan"
)

const titleWidth = 42

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printResults(w io.Writer, query string, shows []jikan.Show) {
	if len(shows) == 0 {
		fmt.Fprintf(w, "No results for %q\n", query)
		return
	}

	titles := make([]string, len(shows))
	for i, s := range shows {
		titles[i] = s.Title
	}
	best := search.BestMatch(query, titles)

	fmt.Fprintf(w, "Found %d results for %q:\n\n", len(shows), query)
	fmt.Fprintf(w, "  # │ %-42s │ %-6s │ %4s │ %5s │ %5s\n", "TITLE", "RATED", "EPS", "SCORE", "MATCH")
	fmt.Fprintln(w, "────┼────────────────────────────────────────────┼────────┼──────┼───────┼───────")

	for i, s := range shows {
		marker := " "
		if i == best {
			marker = "*"
		}
		fmt.Fprintf(w, "%s%2d │ %-42s │ %-6s │ %4s │ %5s │ %4.0f%%\n",
			marker, i+1, truncate(s.Title, titleWidth), orDash(s.Rated),
			formatEpisodes(s.Episodes), formatScore(s.Score),
			search.Relevance(query, s.Title)*100)
	}
}

func printHistory(w io.Writer, entries []history.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No searches recorded")
		return
	}

	fmt.Fprintf(w, "%-19s │ %-7s │ %7s │ %8s │ %s\n", "WHEN", "STATUS", "RESULTS", "TIME", "QUERY")
	fmt.Fprintln(w, "────────────────────┼─────────┼─────────┼──────────┼──────────────────")
	for _, e := range entries {
		fmt.Fprintf(w, "%-19s │ %-7s │ %7d │ %8s │ %s\n",
			e.SearchedAt.Local().Format(time.DateTime), e.Status, e.Results,
			e.Duration.Round(time.Millisecond), e.Query)
		if e.Error != "" {
			fmt.Fprintf(w, "%-19s │ %s\n", "", e.Error)
		}
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func formatEpisodes(n int) string {
	if n <= 0 {
		return "?"
	}
	return fmt.Sprintf("%d", n)
}

func formatScore(s float64) string {
	if s <= 0 {
		return "-"
	}
	return fmt.Sprintf("%.2f", s)
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
