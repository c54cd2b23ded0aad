package store

import (
	"math"
	"testing"

	"github.com/PoojaB26/tweet-tool-finder/internal/types"
)

func fixture() []types.SavedTweet {
	return []types.SavedTweet{
		{
			ID: "1", Tool: "ripgrep", Category: types.CategoryTool,
			Summary: "Blazing fast code search in your terminal",
			Author:  "Andrew", Handle: "@burntsushi",
			Text: "ripgrep recursively searches directories for a regex pattern",
		},
		{
			ID: "2", Tool: "fzf", Category: types.CategoryTool,
			Summary: "Fuzzy finder for the command line",
			Author:  "Junegunn", Handle: "@junegunn",
			Text: "fzf is a general-purpose command-line fuzzy finder",
		},
		{
			ID: "3", Category: types.CategoryHack,
			Summary: "Run Docker containers locally without sudo",
			Author:  "Ops Person", Handle: "@opsperson",
			Text: "quick hack: add yourself to the docker group to run docker local without sudo",
		},
		{
			ID: "4", Tool: "Raycast", Category: types.CategoryProductivity,
			Summary: "Launcher that replaces Spotlight",
			Author:  "Producto", Handle: "@producto",
			Text: "Raycast has changed my daily workflow completely",
		},
	}
}

func ids(tweets []types.SavedTweet) []string {
	out := make([]string, len(tweets))
	for i, t := range tweets {
		out[i] = t.ID
	}
	return out
}

func TestSearchSingleToken(t *testing.T) {
	results := Search(fixture(), "ripgrep", "")
	if len(results) != 1 || results[0].ID != "1" {
		t.Errorf("Search(ripgrep) = %v, want [1]", ids(results))
	}
}

func TestSearchIsCaseInsensitiveSubstring(t *testing.T) {
	results := Search(fixture(), "SEARCH", "")
	// Matches ripgrep (summary and text) only.
	if len(results) != 1 || results[0].ID != "1" {
		t.Errorf("Search(SEARCH) = %v, want [1]", ids(results))
	}
}

func TestSearchMultiTokenAND(t *testing.T) {
	results := Search(fixture(), "docker local", "")
	if len(results) != 1 || results[0].ID != "3" {
		t.Errorf("Search(docker local) = %v, want [3]", ids(results))
	}

	if results := Search(fixture(), "docker raycast", ""); len(results) != 0 {
		t.Errorf("tokens must all match one item, got %v", ids(results))
	}
}

func TestSearchMatchesAuthorFields(t *testing.T) {
	results := Search(fixture(), "burntsushi", "")
	if len(results) != 1 || results[0].ID != "1" {
		t.Errorf("Search(burntsushi) = %v, want [1]", ids(results))
	}
}

func TestSearchCategoryFilter(t *testing.T) {
	all := Search(fixture(), "", "")
	if len(all) != 4 {
		t.Errorf("empty query should match all, got %v", ids(all))
	}

	tools := Search(fixture(), "", types.CategoryTool)
	if len(tools) != 2 {
		t.Errorf("Search(category=tool) = %v, want 2 items", ids(tools))
	}

	allKeyword := Search(fixture(), "", "all")
	if len(allKeyword) != 4 {
		t.Errorf("category \"all\" should not filter, got %v", ids(allKeyword))
	}
}

func TestSearchKeepsStoredOrder(t *testing.T) {
	results := Search(fixture(), "", "tool")
	if got := ids(results); got[0] != "1" || got[1] != "2" {
		t.Errorf("order = %v, want stored order [1 2]", got)
	}
}

func TestRecommendScoring(t *testing.T) {
	// Four scoring tokens; "to" is dropped for being too short.
	scored := Recommend(fixture(), "fast code search to terminal")
	if len(scored) == 0 {
		t.Fatal("expected at least one recommendation")
	}

	top := scored[0]
	if top.Tweet.ID != "1" {
		t.Errorf("top recommendation = %s, want 1", top.Tweet.ID)
	}
	if math.Abs(top.Score-1.0) > 1e-9 {
		t.Errorf("top score = %v, want 1.0 (all 4 tokens match)", top.Score)
	}
}

func TestRecommendExcludesZeroScores(t *testing.T) {
	scored := Recommend(fixture(), "kubernetes networking")
	if len(scored) != 0 {
		t.Errorf("no item mentions those tokens, got %d results", len(scored))
	}
}

func TestRecommendPartialMatch(t *testing.T) {
	// 4 tokens, fixture item 3 matches "docker", "sudo", "group" = 3 of 4.
	scored := Recommend(fixture(), "docker sudo group permissions")
	if len(scored) != 1 {
		t.Fatalf("scored = %d items, want 1", len(scored))
	}
	if math.Abs(scored[0].Score-0.75) > 1e-9 {
		t.Errorf("score = %v, want 0.75", scored[0].Score)
	}
}

func TestRecommendIgnoresShortTokens(t *testing.T) {
	if scored := Recommend(fixture(), "a an to of"); scored != nil {
		t.Errorf("all tokens too short, want nil, got %d items", len(scored))
	}
}

func TestCategoryCounts(t *testing.T) {
	counts := CategoryCounts(fixture())
	if counts[types.CategoryTool] != 2 || counts[types.CategoryHack] != 1 || counts[types.CategoryProductivity] != 1 {
		t.Errorf("counts = %v", counts)
	}
}
