package config

import (
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// maxSuggestDistance bounds the edit distance of a suggested name.
const maxSuggestDistance = 3

// closestMatch returns the candidate closest to target, or "" when
// nothing is near enough.
func closestMatch(target string, candidates []string) string {
	if target == "" || len(candidates) == 0 {
		return ""
	}

	ranks := fuzzy.RankFindFold(target, candidates)
	if len(ranks) > 0 {
		sort.Sort(ranks)
		return ranks[0].Target
	}

	best, bestDist := "", maxSuggestDistance+1
	for _, c := range candidates {
		if d := fuzzy.LevenshteinDistance(target, c); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

func didYouMean(target string, candidates []string) string {
	if m := closestMatch(target, candidates); m != "" {
		return ", did you mean " + quote(m) + "?"
	}
	return ""
}

func quote(s string) string { return `"` + s + `"` }
