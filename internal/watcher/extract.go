package watcher

import (
	"regexp"
	"strings"

	"github.com/PoojaB26/tweet-tool-finder/internal/types"
)

// rawTweet is the shape produced by the in-page extraction script.
type rawTweet struct {
	URL    string `json:"url"`
	Text   string `json:"text"`
	Author string `json:"author"`
	Handle string `json:"handle"`
	Avatar string `json:"avatar"`
}

// statusURL matches canonical tweet permalinks. The captured digits are
// the tweet's unique ID.
var statusURL = regexp.MustCompile(`^https?://(x|twitter)\.com/[^/]+/status/(\d+)`)

// Filter holds the admission rules applied to extracted tweets.
type Filter struct {
	MinTextLen     int
	IgnoredHandles []string
}

// Normalize converts raw DOM extractions into candidate tweets, dropping
// anything without a status URL, short or image-only posts, and tweets
// from ignored handles. Handle comparison is case-insensitive and
// tolerant of a leading "@".
func (f Filter) Normalize(raws []rawTweet) []types.Tweet {
	tweets := make([]types.Tweet, 0, len(raws))

	for _, r := range raws {
		m := statusURL.FindStringSubmatch(r.URL)
		if m == nil {
			continue
		}
		id := m[2]

		text := strings.TrimSpace(r.Text)
		if len([]rune(text)) < f.MinTextLen {
			continue
		}

		if f.ignored(r.Handle) {
			continue
		}

		author := r.Author
		if author == "" {
			author = "Unknown"
		}
		handle := r.Handle
		if handle == "" {
			handle = "@unknown"
		}

		tweets = append(tweets, types.Tweet{
			ID:     id,
			Text:   text,
			URL:    r.URL,
			Author: author,
			Handle: handle,
			Avatar: r.Avatar,
		})
	}

	return tweets
}

func (f Filter) ignored(handle string) bool {
	h := strings.ToLower(strings.TrimPrefix(handle, "@"))
	for _, ig := range f.IgnoredHandles {
		if h == strings.ToLower(strings.TrimPrefix(ig, "@")) {
			return true
		}
	}
	return false
}
