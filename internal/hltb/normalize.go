package hltb

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks removes diacritical marks after NFD decomposition, so
// "Pokémon" searches as "pokemon".
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

var lower = cases.Lower(language.Und)

// NormalizeTitle prepares a game name for an HLTB search: strip diacritics,
// lowercase, drop everything but letters, digits and spaces, and collapse
// whitespace. Steam names carry trademark symbols and punctuation that HLTB
// search chokes on.
func NormalizeTitle(name string) string {
	s, _, err := transform.String(stripMarks, name)
	if err != nil {
		s = name
	}
	s = lower.String(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == ' ' {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// similarity scores how close two normalized titles are, in [0,1], using
// Sørensen–Dice over character bigrams. Deterministic, so the best-match
// pick is stable across runs.
func similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	if len(a) < 2 || len(b) < 2 {
		return 0
	}

	bigrams := make(map[string]int)
	for i := 0; i < len(a)-1; i++ {
		bigrams[a[i:i+2]]++
	}
	matches := 0
	for i := 0; i < len(b)-1; i++ {
		if bigrams[b[i:i+2]] > 0 {
			bigrams[b[i:i+2]]--
			matches++
		}
	}
	return 2 * float64(matches) / float64(len(a)+len(b)-2)
}
