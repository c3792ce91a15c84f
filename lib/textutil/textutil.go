package textutil

import (
	"regexp"
	"strings"

	"github.com/antzucaro/matchr"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

func NormalizeName(name string) string {
	name = strings.ToLower(name)
	name = strings.Trim(name, " \n\t")
	name = whitespaceRegex.ReplaceAllString(name, "")
	return name
}

func MatchName(name string, matchers []string) bool {
	name = NormalizeName(name)
	for _, m := range matchers {
		if strings.Contains(name, m) {
			return true
		}
	}
	return false
}

// MostSimilar returns the index of the candidate closest to query, exact
// (normalized) substring matches first, then by Jaro-Winkler similarity.
// It returns -1 when there are no candidates or nothing is similar at all.
func MostSimilar(query string, candidates []string) int {
	normalizedQuery := NormalizeName(query)
	if normalizedQuery == "" {
		return -1
	}

	for i, c := range candidates {
		if strings.Contains(NormalizeName(c), normalizedQuery) {
			return i
		}
	}

	mostSimilar := -1
	var mostSimilarity float64
	for i, c := range candidates {
		similarity := matchr.JaroWinkler(normalizedQuery, NormalizeName(c), false)
		if similarity > mostSimilarity {
			mostSimilarity = similarity
			mostSimilar = i
		}
	}
	return mostSimilar
}
