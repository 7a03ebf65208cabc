package paging

import (
	"net/http/httptest"
	"strconv"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestParseLimit(t *testing.T) {
	tests := []struct {
		query string
		want  int64
	}{
		{"", PageSize},
		{"limit=5", 5},
		{"limit=0", PageSize},
		{"limit=-3", PageSize},
		{"limit=abc", PageSize},
		{"limit=5000", MaxPageSize},
	}
	for _, tt := range tests {
		r := httptest.NewRequest("GET", "/api/feed?"+tt.query, nil)
		if got := ParseLimit(r); got != tt.want {
			t.Errorf("ParseLimit(%q) = %d, want %d", tt.query, got, tt.want)
		}
	}
}

func TestParseBefore(t *testing.T) {
	oid := primitive.NewObjectID()

	r := httptest.NewRequest("GET", "/api/feed?before="+oid.Hex(), nil)
	if got := ParseBefore(r); got != oid {
		t.Errorf("ParseBefore = %v, want %v", got, oid)
	}

	r = httptest.NewRequest("GET", "/api/feed?before=garbage", nil)
	if got := ParseBefore(r); !got.IsZero() {
		t.Errorf("malformed cursor should degrade to page one, got %v", got)
	}

	r = httptest.NewRequest("GET", "/api/feed", nil)
	if got := ParseBefore(r); !got.IsZero() {
		t.Errorf("absent cursor should be zero, got %v", got)
	}
}

func TestTrimPage(t *testing.T) {
	cursorOf := func(n int) string { return strconv.Itoa(n) }

	// Fewer rows than the limit: no next page.
	rows := []int{1, 2, 3}
	res := TrimPage(&rows, 5, cursorOf)
	if res.HasNext || len(rows) != 3 {
		t.Errorf("short page: res=%+v rows=%v", res, rows)
	}

	// Look-ahead row present: trimmed, next cursor from last visible row.
	rows = []int{1, 2, 3, 4, 5, 6}
	res = TrimPage(&rows, 5, cursorOf)
	if !res.HasNext {
		t.Fatal("expected HasNext")
	}
	if len(rows) != 5 {
		t.Errorf("rows = %v, want 5 elements", rows)
	}
	if res.NextCursor != "5" {
		t.Errorf("NextCursor = %q, want 5", res.NextCursor)
	}
}
