package app

import (
	"encoding/json"
	"io"

	"github.com/PoojaB26/tweet-tool-finder/internal/types"
)

const exportInstruction = "This is a curated list of developer tools, coding hacks, and productivity tips I've collected from Twitter/X. Use this as context when I ask questions like 'is there a tool for X?' or 'what did I save about Y?'"

type exportItem struct {
	Tool     string `json:"tool,omitempty"`
	Category string `json:"category"`
	Summary  string `json:"summary"`
	Author   string `json:"author"`
	URL      string `json:"url"`
	Date     string `json:"date,omitempty"`
}

type exportPayload struct {
	Instruction string         `json:"_instruction"`
	Total       int            `json:"total"`
	Categories  map[string]int `json:"categories"`
	Items       []exportItem   `json:"items"`
}

// WriteContext writes the collection as an LLM-ready context document:
// a short instruction header, category totals, and one compact entry per
// saved tweet.
func WriteContext(w io.Writer, tweets []types.SavedTweet) error {
	items := make([]exportItem, 0, len(tweets))
	categories := map[string]int{
		"tools":        0,
		"hacks":        0,
		"productivity": 0,
	}

	for _, t := range tweets {
		switch t.Category {
		case types.CategoryTool:
			categories["tools"]++
		case types.CategoryHack:
			categories["hacks"]++
		case types.CategoryProductivity:
			categories["productivity"]++
		}

		item := exportItem{
			Tool:     t.Tool,
			Category: t.Category,
			Summary:  t.Summary,
			Author:   t.Handle,
			URL:      t.URL,
		}
		if !t.FoundAt.IsZero() {
			item.Date = t.FoundAt.UTC().Format("2006-01-02")
		}
		items = append(items, item)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(exportPayload{
		Instruction: exportInstruction,
		Total:       len(items),
		Categories:  categories,
		Items:       items,
	})
}
