package store

import (
	"fmt"
	"math"
	"strings"

	"github.com/PoojaB26/tweet-tool-finder/internal/types"
)

// Row limits for the formatted digests.
const (
	maxSearchResults    = 15
	maxRecommendResults = 5
	statsRecentCount    = 5
)

// FormatSearch renders search results as a readable digest, or a
// no-results message naming the total stored count.
func FormatSearch(query string, results []types.SavedTweet, total int) string {
	if len(results) == 0 {
		return fmt.Sprintf("No saved tools/hacks found matching %q. You have %d total items saved. Try a broader search or check list_all_tools.", query, total)
	}

	shown := results
	if len(shown) > maxSearchResults {
		shown = shown[:maxSearchResults]
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d result(s) for %q:\n", len(results), query)
	for i, t := range shown {
		fmt.Fprintf(&sb, "\n%d. **%s** [%s]\n   %s\n   By: %s | %s\n",
			i+1, title(t), t.Category, blurb(t, 150), t.Handle, t.URL)
	}
	return sb.String()
}

// FormatList renders up to limit stored tweets in stored order.
func FormatList(tweets []types.SavedTweet, category string, limit, total int) string {
	if len(tweets) == 0 {
		qualifier := ""
		if category != "" && category != "all" {
			qualifier = fmt.Sprintf(" in category %q", category)
		}
		return fmt.Sprintf("No items found%s. Total saved: %d.", qualifier, total)
	}

	shown := tweets
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Showing %d of %d items", len(shown), len(tweets))
	if category != "" && category != "all" {
		fmt.Fprintf(&sb, " (category: %s)", category)
	}
	sb.WriteString(":\n")
	for i, t := range shown {
		fmt.Fprintf(&sb, "\n%d. **%s** [%s] — %s\n   %s\n", i+1, title(t), t.Category, blurb(t, 100), t.URL)
	}
	return sb.String()
}

// FormatStats renders category counts plus the most recent additions.
func FormatStats(tweets []types.SavedTweet) string {
	counts := CategoryCounts(tweets)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Tweet Tool Finder stats:\n\n")
	fmt.Fprintf(&sb, "• Total saved: %d\n", len(tweets))
	fmt.Fprintf(&sb, "• Tools: %d\n", counts[types.CategoryTool])
	fmt.Fprintf(&sb, "• Hacks: %d\n", counts[types.CategoryHack])
	fmt.Fprintf(&sb, "• Productivity: %d\n", counts[types.CategoryProductivity])

	sb.WriteString("\nMost recent:\n")
	recent := tweets
	if len(recent) > statsRecentCount {
		recent = recent[:statsRecentCount]
	}
	if len(recent) == 0 {
		sb.WriteString("  (none yet)")
	}
	for _, t := range recent {
		label := t.Tool
		if label == "" {
			label = t.Summary
		}
		if label == "" {
			label = "Untitled"
		}
		fmt.Fprintf(&sb, "  • %s [%s]\n", label, t.Category)
	}
	return sb.String()
}

// FormatRecommend renders the top scored matches with rounded
// percentage scores.
func FormatRecommend(problem string, scored []Scored, total int) string {
	if len(scored) == 0 {
		return fmt.Sprintf("I couldn't find any saved tools matching that problem. You have %d items saved — try rephrasing or use search_tools with different keywords.", total)
	}

	shown := scored
	if len(shown) > maxRecommendResults {
		shown = shown[:maxRecommendResults]
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Here are the most relevant saved tools for %q:\n", problem)
	for i, s := range shown {
		t := s.Tweet
		fmt.Fprintf(&sb, "\n%d. **%s** (%d%% match)\n   %s\n   Category: %s | By: %s\n   Link: %s\n",
			i+1, title(t), int(math.Round(s.Score*100)), blurb(t, 150), t.Category, t.Handle, t.URL)
	}
	return sb.String()
}

func title(t types.SavedTweet) string {
	if t.Tool != "" {
		return t.Tool
	}
	return "Untitled"
}

// blurb prefers the summary, falling back to tweet text truncated on a
// rune boundary.
func blurb(t types.SavedTweet, max int) string {
	if t.Summary != "" {
		return t.Summary
	}
	runes := []rune(t.Text)
	if len(runes) > max {
		return string(runes[:max])
	}
	return t.Text
}
