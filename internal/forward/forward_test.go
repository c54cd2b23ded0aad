package forward

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/PoojaB26/tweet-tool-finder/internal/types"
)

func testClient(ts *httptest.Server) *Client {
	return &Client{
		baseURL: ts.URL,
		client:  &http.Client{Timeout: 2 * time.Second},
	}
}

func TestForwardPostsSingleTweet(t *testing.T) {
	var got types.SavedTweet
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/tweets" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{"success": true, "added": 1, "total": 1})
	}))
	defer ts.Close()

	err := testClient(ts).Forward(context.Background(), types.SavedTweet{ID: "1", Tool: "fzf"})
	if err != nil {
		t.Fatalf("Forward: %v", err)
	}
	if got.ID != "1" || got.Tool != "fzf" {
		t.Errorf("forwarded body = %+v", got)
	}
}

func TestForwardAllPostsArray(t *testing.T) {
	var got []types.SavedTweet
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{"success": true, "added": 2, "total": 2})
	}))
	defer ts.Close()

	err := testClient(ts).ForwardAll(context.Background(), []types.SavedTweet{{ID: "1"}, {ID: "2"}})
	if err != nil {
		t.Fatalf("ForwardAll: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("forwarded %d tweets, want 2", len(got))
	}
}

func TestForwardReportsServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	if err := testClient(ts).Forward(context.Background(), types.SavedTweet{ID: "1"}); err == nil {
		t.Error("want error on 500 response")
	}
}

func TestSavedIDs(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"count":  2,
			"tweets": []types.SavedTweet{{ID: "a"}, {ID: "b"}},
		})
	}))
	defer ts.Close()

	ids := testClient(ts).SavedIDs(context.Background())
	if len(ids) != 2 || ids[0] != "a" || ids[1] != "b" {
		t.Errorf("SavedIDs = %v, want [a b]", ids)
	}
}

func TestSavedIDsUnreachableStore(t *testing.T) {
	c := New(1) // nothing listens on port 1
	if ids := c.SavedIDs(context.Background()); ids != nil {
		t.Errorf("unreachable store should yield nil, got %v", ids)
	}
}
