package app

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/PoojaB26/tweet-tool-finder/internal/types"
)

func TestWriteContext(t *testing.T) {
	tweets := []types.SavedTweet{
		{ID: "1", Tool: "ripgrep", Category: types.CategoryTool, Summary: "Fast search", Handle: "@burntsushi", URL: "https://x.com/b/status/1", FoundAt: time.Date(2025, 6, 1, 23, 59, 0, 0, time.UTC)},
		{ID: "2", Category: types.CategoryHack, Summary: "Docker without sudo", Handle: "@ops", URL: "https://x.com/o/status/2"},
		{ID: "3", Tool: "Raycast", Category: types.CategoryProductivity, Summary: "Launcher", Handle: "@p", URL: "https://x.com/p/status/3"},
	}

	var buf bytes.Buffer
	if err := WriteContext(&buf, tweets); err != nil {
		t.Fatalf("WriteContext: %v", err)
	}

	var payload struct {
		Instruction string         `json:"_instruction"`
		Total       int            `json:"total"`
		Categories  map[string]int `json:"categories"`
		Items       []struct {
			Tool     string `json:"tool"`
			Category string `json:"category"`
			Author   string `json:"author"`
			Date     string `json:"date"`
		} `json:"items"`
	}
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}

	if payload.Instruction == "" {
		t.Error("_instruction header missing")
	}
	if payload.Total != 3 {
		t.Errorf("total = %d, want 3", payload.Total)
	}
	if payload.Categories["tools"] != 1 || payload.Categories["hacks"] != 1 || payload.Categories["productivity"] != 1 {
		t.Errorf("categories = %v", payload.Categories)
	}

	if payload.Items[0].Date != "2025-06-01" {
		t.Errorf("date = %q, want 2025-06-01", payload.Items[0].Date)
	}
	if payload.Items[0].Author != "@burntsushi" {
		t.Errorf("author should be the handle, got %q", payload.Items[0].Author)
	}
	if payload.Items[1].Date != "" {
		t.Errorf("zero FoundAt should omit date, got %q", payload.Items[1].Date)
	}
}

func TestWriteContextEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteContext(&buf, nil); err != nil {
		t.Fatalf("WriteContext: %v", err)
	}

	var payload map[string]any
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload["total"].(float64) != 0 {
		t.Errorf("total = %v, want 0", payload["total"])
	}
}
