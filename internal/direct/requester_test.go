package direct

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
)

// fakeAPI scripts transport responses and records every request, so the
// engines can be exercised without network I/O.
type fakeAPI struct {
	t        *testing.T
	handler  func(call int, req Request) (json.RawMessage, error)
	requests []Request
}

func (f *fakeAPI) Request(_ context.Context, req Request) (json.RawMessage, error) {
	call := len(f.requests)
	f.requests = append(f.requests, req)
	if f.handler == nil {
		f.t.Fatalf("unexpected request: %s", req.Path)
	}
	return f.handler(call, req)
}

// mustJSON marshals v or fails the test.
func mustJSON(t *testing.T, v any) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}
	return data
}

// historyItems builds n items with descending timestamps starting at
// start, mimicking a newest-first page.
func historyItems(start int64, n int) []Item {
	items := make([]Item, n)
	for i := range items {
		items[i] = Item{
			ItemID:    fmt.Sprintf("item_%d", start-int64(i)),
			Text:      fmt.Sprintf("message %d", start-int64(i)),
			UserID:    100,
			Timestamp: (start - int64(i)) * 1_000_000,
		}
	}
	return items
}

// threadResponse builds a history page envelope.
func threadResponse(t *testing.T, items []Item, oldestCursor string) json.RawMessage {
	t.Helper()
	thread := map[string]any{"thread_id": "thr1", "items": items}
	if oldestCursor != "" {
		thread["oldest_cursor"] = oldestCursor
	}
	return mustJSON(t, map[string]any{"thread": thread, "status": "ok"})
}

// requireParam asserts a query parameter value on a recorded request.
func requireParam(t *testing.T, req Request, key, want string) {
	t.Helper()
	if got := req.Params[key]; got != want {
		t.Errorf("request %s: param %s = %q, want %q", req.Path, key, got, want)
	}
}

func requireNoParam(t *testing.T, req Request, key string) {
	t.Helper()
	if got, ok := req.Params[key]; ok {
		t.Errorf("request %s: unexpected param %s=%q", req.Path, key, got)
	}
}
