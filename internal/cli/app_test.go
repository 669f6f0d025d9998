package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"testing"

	"dmsweep/internal/config"
	"dmsweep/internal/direct"
	"dmsweep/internal/session"
	"dmsweep/internal/transport"
)

// fakeAPI scripts responses per call and records every request.
type fakeAPI struct {
	t        *testing.T
	handler  func(call int, req direct.Request) (json.RawMessage, error)
	requests []direct.Request
}

func (f *fakeAPI) Request(_ context.Context, req direct.Request) (json.RawMessage, error) {
	f.requests = append(f.requests, req)
	if f.handler == nil {
		f.t.Fatalf("unexpected request to %s", req.Path)
	}
	return f.handler(len(f.requests), req)
}

// testApp returns a logged-in App (user id 100) wired to the fake, with
// all engine delays zeroed.
func testApp(t *testing.T, api direct.Requester) *App {
	t.Helper()

	cfg := config.Default()
	cfg.PageDelay = 0
	cfg.EmptyDelay = 0
	cfg.FailureDelay = 0
	cfg.RetractDelay = 0

	app := NewApp(cfg, filepath.Join(t.TempDir(), "session.json"))

	st := session.New()
	st.UserID = "100"
	st.Username = "me"
	app.attach(transport.NewClient(cfg, st))
	app.api = api

	return app
}

func historyResponse(t *testing.T, items []direct.Item, cursor string) json.RawMessage {
	t.Helper()
	env := map[string]any{
		"thread": map[string]any{
			"thread_id":     "thr1",
			"items":         items,
			"oldest_cursor": cursor,
		},
		"status": "ok",
	}
	raw, err := json.Marshal(env)
	if err != nil {
		t.Fatal(err)
	}
	return raw
}

func inboxResponse(t *testing.T, count int) json.RawMessage {
	t.Helper()
	threads := make([]map[string]any, 0, count)
	for i := 1; i <= count; i++ {
		threads = append(threads, map[string]any{
			"thread_id": fmt.Sprintf("thr%d", i),
			"users":     []map[string]any{{"pk": 200 + i, "username": fmt.Sprintf("friend%d", i)}},
			"items":     []map[string]any{{"item_id": fmt.Sprintf("i%d", i), "text": "latest", "user_id": 200 + i}},
		})
	}
	raw, err := json.Marshal(map[string]any{
		"inbox":  map[string]any{"threads": threads},
		"status": "ok",
	})
	if err != nil {
		t.Fatal(err)
	}
	return raw
}
