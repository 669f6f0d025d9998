package cli

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"dmsweep/internal/direct"
)

func TestSelectThread_NumericIDNeedsNoRemoteCall(t *testing.T) {
	api := &fakeAPI{t: t}
	app := testApp(t, api)

	result, err := app.SelectThread(context.Background(), " 340282366841710300949128 ")
	if err != nil {
		t.Fatalf("SelectThread failed: %v", err)
	}
	if result.ThreadID != "340282366841710300949128" {
		t.Errorf("thread = %q", result.ThreadID)
	}
	if len(api.requests) != 0 {
		t.Errorf("numeric selection must not hit the API, got %d requests", len(api.requests))
	}
	if app.SelectedThread() != result.ThreadID {
		t.Error("selection not retained")
	}
}

func TestSelectThread_ByUsername(t *testing.T) {
	api := &fakeAPI{t: t}
	api.handler = func(call int, req direct.Request) (json.RawMessage, error) {
		if req.Path == "users/friend2/usernameinfo/" {
			return json.RawMessage(`{"user":{"pk":202,"username":"friend2"},"status":"ok"}`), nil
		}
		return inboxResponse(t, 3), nil
	}

	app := testApp(t, api)
	result, err := app.SelectThread(context.Background(), "@friend2")
	if err != nil {
		t.Fatalf("SelectThread failed: %v", err)
	}
	if result.ThreadID != "thr2" {
		t.Errorf("thread = %q, want thr2", result.ThreadID)
	}
}

func TestSelectThread_UnknownUsername(t *testing.T) {
	api := &fakeAPI{t: t}
	api.handler = func(call int, req direct.Request) (json.RawMessage, error) {
		if req.Path == "users/stranger/usernameinfo/" {
			return json.RawMessage(`{"user":{"pk":999,"username":"stranger"},"status":"ok"}`), nil
		}
		return inboxResponse(t, 2), nil
	}

	app := testApp(t, api)
	_, err := app.SelectThread(context.Background(), "stranger")
	if !errors.Is(err, direct.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestSelectThread_DiscardsRetainedSearch(t *testing.T) {
	app := testApp(t, &fakeAPI{t: t})
	app.selectedThread = "thr1"
	app.search = direct.NewSearchContext([]direct.Item{{ItemID: "i1", Text: "foo"}}, []string{"foo"})

	if _, err := app.SelectThread(context.Background(), "42"); err != nil {
		t.Fatalf("SelectThread failed: %v", err)
	}
	if app.search != nil {
		t.Error("selecting a thread must drop the previous thread's matches")
	}
}

func TestSelectThread_Empty(t *testing.T) {
	app := testApp(t, &fakeAPI{t: t})
	if _, err := app.SelectThread(context.Background(), "   "); err == nil {
		t.Error("expected error for blank selection")
	}
}
