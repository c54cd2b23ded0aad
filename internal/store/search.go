package store

import (
	"sort"
	"strings"

	"github.com/PoojaB26/tweet-tool-finder/internal/types"
)

// Search returns stored tweets whose searchable text contains every
// whitespace-separated query token as a substring, optionally filtered
// by category first. Results keep stored order; no re-ranking.
func Search(tweets []types.SavedTweet, query, category string) []types.SavedTweet {
	tokens := strings.Fields(strings.ToLower(query))

	var results []types.SavedTweet
	for _, t := range tweets {
		if category != "" && category != "all" && t.Category != category {
			continue
		}

		searchable := searchableText(t, true)
		match := true
		for _, tok := range tokens {
			if !strings.Contains(searchable, tok) {
				match = false
				break
			}
		}
		if match {
			results = append(results, t)
		}
	}
	return results
}

// Scored pairs a tweet with its recommendation score in [0,1].
type Scored struct {
	Tweet types.SavedTweet
	Score float64
}

// Recommend scores every stored tweet by the fraction of problem
// tokens (length > 2) found in its tool name, summary or text.
// Zero-score items are excluded; the rest sort by descending score,
// ties keeping stored order.
func Recommend(tweets []types.SavedTweet, problem string) []Scored {
	var tokens []string
	for _, w := range strings.Fields(strings.ToLower(problem)) {
		if len(w) > 2 {
			tokens = append(tokens, w)
		}
	}
	if len(tokens) == 0 {
		return nil
	}

	var scored []Scored
	for _, t := range tweets {
		searchable := searchableText(t, false)
		matches := 0
		for _, tok := range tokens {
			if strings.Contains(searchable, tok) {
				matches++
			}
		}
		if matches == 0 {
			continue
		}
		scored = append(scored, Scored{Tweet: t, Score: float64(matches) / float64(len(tokens))})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored
}

// CategoryCounts tallies stored tweets per category.
func CategoryCounts(tweets []types.SavedTweet) map[string]int {
	counts := map[string]int{}
	for _, t := range tweets {
		counts[t.Category]++
	}
	return counts
}

// searchableText concatenates the fields a query matches against.
// Search includes the author fields; recommend does not.
func searchableText(t types.SavedTweet, withAuthor bool) string {
	parts := []string{t.Tool, t.Summary, t.Text}
	if withAuthor {
		parts = append(parts, t.Handle, t.Author)
	}

	var nonEmpty []string
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.ToLower(strings.Join(nonEmpty, " "))
}
