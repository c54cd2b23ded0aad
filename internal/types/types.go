package types

import "time"

// Tweet represents a candidate post freshly extracted from the feed,
// awaiting classification.
type Tweet struct {
	ID     string `json:"id"`
	Text   string `json:"text"`
	URL    string `json:"url"`
	Author string `json:"author"`
	Handle string `json:"handle"`
	Avatar string `json:"avatar,omitempty"`
}

// Categories a verdict may assign.
const (
	CategoryTool         = "tool"
	CategoryHack         = "hack"
	CategoryProductivity = "productivity"
)

// Verdict is the structured classification result for a single tweet.
// Category, ToolName and Summary are empty when the model returned null.
type Verdict struct {
	IsUseful   bool    `json:"is_useful"`
	Category   string  `json:"category"`
	ToolName   string  `json:"tool_name"`
	Summary    string  `json:"summary"`
	Confidence float64 `json:"confidence"`
}

// SavedTweet is a tweet whose verdict met the usefulness threshold.
// This is the shape persisted by the store service and sent over the
// sync API.
type SavedTweet struct {
	ID         string    `json:"id"`
	Tool       string    `json:"tool,omitempty"`
	Category   string    `json:"category,omitempty"`
	Summary    string    `json:"summary,omitempty"`
	Author     string    `json:"author"`
	Handle     string    `json:"handle"`
	Avatar     string    `json:"avatar,omitempty"`
	URL        string    `json:"url"`
	Text       string    `json:"text"`
	Confidence float64   `json:"confidence"`
	FoundAt    time.Time `json:"foundAt"`
}

// Saved assembles a SavedTweet from a tweet and its verdict.
func Saved(t Tweet, v Verdict, foundAt time.Time) SavedTweet {
	return SavedTweet{
		ID:         t.ID,
		Tool:       v.ToolName,
		Category:   v.Category,
		Summary:    v.Summary,
		Author:     t.Author,
		Handle:     t.Handle,
		Avatar:     t.Avatar,
		URL:        t.URL,
		Text:       t.Text,
		Confidence: v.Confidence,
		FoundAt:    foundAt,
	}
}
