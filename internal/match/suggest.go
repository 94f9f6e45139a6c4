package match

import (
	"sort"
)

// DefaultMinSimilarity is the normalized similarity a candidate needs to be suggested.
const DefaultMinSimilarity = 0.6

// DefaultMaxSuggestions caps the number of suggestions in a diagnostic.
const DefaultMaxSuggestions = 3

// Suggestion is a ranked candidate name.
type Suggestion struct {
	Name  string
	Score float64
}

// Rank scores every candidate against name and returns those reaching
// minScore, best first. Ties keep alphabetical order.
func Rank(name string, candidates []string, minScore float64) []Suggestion {
	norm := NormalizeName(name)

	var out []Suggestion

	for _, c := range candidates {
		if c == name {
			continue
		}

		score := Similarity(norm, NormalizeName(c))
		if score >= minScore {
			out = append(out, Suggestion{Name: c, Score: score})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}

		return out[i].Name < out[j].Name
	})

	return out
}

// Suggest returns up to DefaultMaxSuggestions candidate names close to name.
func Suggest(name string, candidates []string) []string {
	ranked := Rank(name, candidates, DefaultMinSimilarity)
	if len(ranked) > DefaultMaxSuggestions {
		ranked = ranked[:DefaultMaxSuggestions]
	}

	names := make([]string, 0, len(ranked))
	for _, s := range ranked {
		names = append(names, s.Name)
	}

	return names
}
