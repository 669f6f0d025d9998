package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"dmsweep/internal/direct"
)

func runMenu(t *testing.T, app *App, input string) string {
	t.Helper()
	var out bytes.Buffer
	menu := NewMenu(app, strings.NewReader(input), &out)
	if err := menu.Run(context.Background()); err != nil {
		t.Fatalf("menu run failed: %v", err)
	}
	return out.String()
}

func TestMenu_Exit(t *testing.T) {
	app := testApp(t, &fakeAPI{t: t})

	out := runMenu(t, app, "8\n")
	if !strings.Contains(out, "Bye.") {
		t.Errorf("output = %q", out)
	}
}

func TestMenu_EOFExits(t *testing.T) {
	app := testApp(t, &fakeAPI{t: t})
	runMenu(t, app, "") // input ends immediately; must not error
}

func TestMenu_UnsendRejectedConfirmationMakesNoCalls(t *testing.T) {
	api := &fakeAPI{t: t}
	app := testApp(t, api)
	retainedMatches(app, []direct.Item{{ItemID: "i1", UserID: 100}}, "foo")

	out := runMenu(t, app, "6\nno\n8\n")

	if len(api.requests) != 0 {
		t.Fatalf("rejected confirmation made %d remote calls, want 0", len(api.requests))
	}
	if !strings.Contains(out, "Aborted") {
		t.Errorf("abort message missing:\n%s", out)
	}
	if app.search == nil {
		t.Error("an aborted pass must keep the match set for a later attempt")
	}
}

func TestMenu_UnsendLowercaseYesStillAborts(t *testing.T) {
	api := &fakeAPI{t: t}
	app := testApp(t, api)
	retainedMatches(app, []direct.Item{{ItemID: "i1", UserID: 100}}, "foo")

	runMenu(t, app, "6\nyes\n8\n")
	if len(api.requests) != 0 {
		t.Errorf("only the exact uppercase word confirms, got %d calls", len(api.requests))
	}
}

func TestMenu_UnsendConfirmed(t *testing.T) {
	api := &fakeAPI{t: t}
	api.handler = func(call int, req direct.Request) (json.RawMessage, error) {
		return json.RawMessage(`{"status":"ok"}`), nil
	}
	app := testApp(t, api)
	retainedMatches(app, []direct.Item{{ItemID: "i1", UserID: 100}}, "foo")

	out := runMenu(t, app, "6\nYES\n8\n")

	if len(api.requests) != 1 {
		t.Fatalf("confirmed pass made %d calls, want 1", len(api.requests))
	}
	if !strings.Contains(out, "Unsent 1 message(s).") {
		t.Errorf("outcome line missing:\n%s", out)
	}
}

func TestMenu_UnsendWithoutSearchExplains(t *testing.T) {
	app := testApp(t, &fakeAPI{t: t})
	app.selectedThread = "thr1"

	out := runMenu(t, app, "6\n8\n")
	if !strings.Contains(out, "Run a search first") {
		t.Errorf("guidance missing:\n%s", out)
	}
}

func TestMenu_OperationsRequireLoginGuidance(t *testing.T) {
	app := testApp(t, &fakeAPI{t: t})
	app.client = nil
	app.api = nil

	out := runMenu(t, app, "2\n8\n")
	if !strings.Contains(out, "Log in first") {
		t.Errorf("guidance missing:\n%s", out)
	}
}

func TestMenu_HeaderShowsState(t *testing.T) {
	app := testApp(t, &fakeAPI{t: t})
	app.selectedThread = "thr9"

	out := runMenu(t, app, "8\n")
	if !strings.Contains(out, "@me") || !strings.Contains(out, "thr9") {
		t.Errorf("header missing state:\n%s", out)
	}
}
