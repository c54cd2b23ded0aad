package store

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/PoojaB26/tweet-tool-finder/internal/types"
)

func testServer(t *testing.T) (*Server, *Store) {
	t.Helper()
	s := New(filepath.Join(t.TempDir(), "tools.json"))
	return NewServer(s, nil), s
}

func doJSON(t *testing.T, h http.Handler, method, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, "/tweets", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestServerCORSHeaders(t *testing.T) {
	srv, _ := testServer(t)
	h := srv.Handler()

	req := httptest.NewRequest(http.MethodOptions, "/tweets", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("OPTIONS status = %d, want 204", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Allow-Origin = %q, want *", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Methods"); got == "" {
		t.Error("Allow-Methods header missing")
	}
}

func TestServerAppendSingleAndArray(t *testing.T) {
	srv, _ := testServer(t)
	h := srv.Handler()

	rec := doJSON(t, h, http.MethodPost, `{"id":"1","tool":"ripgrep","author":"a","handle":"@a","url":"u","text":"t","confidence":0.9,"foundAt":"2025-06-01T12:00:00Z"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("POST single status = %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, h, http.MethodPost, `[{"id":"2","author":"b","handle":"@b","url":"u","text":"t","confidence":0.8,"foundAt":"2025-06-01T12:00:00Z"},{"id":"1","author":"a","handle":"@a","url":"u","text":"t","confidence":0.9,"foundAt":"2025-06-01T12:00:00Z"}]`)
	if rec.Code != http.StatusOK {
		t.Fatalf("POST array status = %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Success bool `json:"success"`
		Added   int  `json:"added"`
		Total   int  `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success || resp.Added != 1 || resp.Total != 2 {
		t.Errorf("response = %+v, want added 1 (id 1 already stored), total 2", resp)
	}
}

func TestServerAppendMalformedBody(t *testing.T) {
	srv, store := testServer(t)
	h := srv.Handler()

	rec := doJSON(t, h, http.MethodPost, `{"id": oops`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("malformed POST status = %d, want 400", rec.Code)
	}

	tweets, err := store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(tweets) != 0 {
		t.Errorf("malformed body must not touch the document, got %d items", len(tweets))
	}
}

func TestServerAppendSkipsMalformedElements(t *testing.T) {
	srv, store := testServer(t)
	h := srv.Handler()

	rec := doJSON(t, h, http.MethodPost, `[{"id":"1","tool":"jq","author":"a","handle":"@a","url":"u","text":"t","confidence":0.9,"foundAt":"2025-06-01T12:00:00Z"},"not a record",{"id":"2","tool":"fd","author":"b","handle":"@b","url":"u","text":"t","confidence":0.8,"foundAt":"2025-06-01T12:00:00Z"}]`)
	if rec.Code != http.StatusOK {
		t.Fatalf("POST status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Success bool `json:"success"`
		Added   int  `json:"added"`
		Total   int  `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success || resp.Added != 2 || resp.Total != 2 {
		t.Errorf("response = %+v, want the two valid records added", resp)
	}

	tweets, err := store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(tweets) != 2 {
		t.Fatalf("stored %d records, want 2", len(tweets))
	}
	for _, tw := range tweets {
		if tw.ID != "1" && tw.ID != "2" {
			t.Errorf("unexpected record %q in store", tw.ID)
		}
	}
}

func TestServerListAndClear(t *testing.T) {
	srv, store := testServer(t)
	h := srv.Handler()

	store.Append([]types.SavedTweet{{ID: "1", Tool: "fzf"}})

	rec := doJSON(t, h, http.MethodGet, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET status = %d", rec.Code)
	}
	var list struct {
		Count  int                `json:"count"`
		Tweets []types.SavedTweet `json:"tweets"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if list.Count != 1 || len(list.Tweets) != 1 || list.Tweets[0].ID != "1" {
		t.Errorf("list = %+v", list)
	}

	rec = doJSON(t, h, http.MethodDelete, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("DELETE status = %d", rec.Code)
	}

	tweets, _ := store.List()
	if len(tweets) != 0 {
		t.Errorf("collection not cleared, %d items left", len(tweets))
	}
}

func TestServerUnknownMethod(t *testing.T) {
	srv, _ := testServer(t)
	rec := doJSON(t, srv.Handler(), http.MethodPut, "{}")
	if rec.Code != http.StatusNotFound {
		t.Errorf("PUT status = %d, want 404", rec.Code)
	}
}
