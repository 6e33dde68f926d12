package search

import (
	"strings"
	"unicode"

	"github.com/hbollon/go-edlib"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Relevance scores how closely title matches query, from 0 (unrelated) to
// 1 (identical after normalization). It is for display only; result order
// always follows the catalog.
func Relevance(query, title string) float64 {
	q := normalizeTitle(query)
	t := normalizeTitle(title)
	if q == "" || t == "" {
		return 0
	}
	if q == t {
		return 1
	}
	return float64(edlib.JaroWinklerSimilarity(q, t))
}

// BestMatch returns the index of the show title closest to query, or -1 for
// an empty list. Ties keep the earliest position.
func BestMatch(query string, titles []string) int {
	best, bestScore := -1, -1.0
	for i, title := range titles {
		if score := Relevance(query, title); score > bestScore {
			best, bestScore = i, score
		}
	}
	return best
}

// normalizeTitle lowercases, strips accents and punctuation and collapses
// whitespace.
func normalizeTitle(s string) string {
	s = strings.ToLower(removeAccents(s))

	var b strings.Builder
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r):
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func removeAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	return result
}
