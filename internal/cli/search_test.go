package cli

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"dmsweep/internal/direct"
)

func TestSearchMessages(t *testing.T) {
	items := []direct.Item{
		{ItemID: "i1", Text: "ship the Fix tomorrow", UserID: 100},
		{ItemID: "i2", Text: "unrelated", UserID: 200},
		{ItemID: "i3", Text: "fix is live", UserID: 200},
	}

	api := &fakeAPI{t: t}
	api.handler = func(call int, req direct.Request) (json.RawMessage, error) {
		return historyResponse(t, items, ""), nil
	}

	app := testApp(t, api)
	app.selectedThread = "thr1"

	result, err := app.SearchMessages(context.Background(), SearchOptions{Keywords: []string{" FIX "}, Limit: 10})
	if err != nil {
		t.Fatalf("SearchMessages failed: %v", err)
	}

	if result.Scanned != 3 {
		t.Errorf("Scanned = %d, want 3", result.Scanned)
	}
	if len(result.Matches) != 2 {
		t.Fatalf("got %d matches, want 2", len(result.Matches))
	}
	if result.Matches[0].ItemID != "i1" || result.Matches[1].ItemID != "i3" {
		t.Errorf("match order broken: %v", result.Matches)
	}

	if app.search == nil || len(app.search.Matches) != 2 {
		t.Error("match set not retained for a following unsend")
	}
}

func TestSearchMessages_ReplacesPreviousMatchSet(t *testing.T) {
	api := &fakeAPI{t: t}
	api.handler = func(call int, req direct.Request) (json.RawMessage, error) {
		return historyResponse(t, []direct.Item{{ItemID: "i9", Text: "beta", UserID: 100}}, ""), nil
	}

	app := testApp(t, api)
	app.selectedThread = "thr1"
	app.search = direct.NewSearchContext([]direct.Item{{ItemID: "old", Text: "alpha"}}, []string{"alpha"})

	if _, err := app.SearchMessages(context.Background(), SearchOptions{Keywords: []string{"beta"}, Limit: 5}); err != nil {
		t.Fatalf("SearchMessages failed: %v", err)
	}
	if len(app.search.Matches) != 1 || app.search.Matches[0].ItemID != "i9" {
		t.Errorf("retained set = %v, want only the new match", app.search.Matches)
	}
}

func TestSearchMessages_NoKeywords(t *testing.T) {
	app := testApp(t, &fakeAPI{t: t})
	app.selectedThread = "thr1"

	if _, err := app.SearchMessages(context.Background(), SearchOptions{Keywords: []string{"  ", ""}}); err == nil {
		t.Error("expected error for blank keywords")
	}
}

func TestFormatSearch(t *testing.T) {
	result := &SearchResult{
		Keywords: []string{"fix"},
		Scanned:  40,
		Matches:  []direct.Item{{ItemID: "i1", Text: "fix it", UserID: 200}},
		SelfID:   "100",
	}

	out := FormatSearch(result)
	for _, want := range []string{"Scanned 40", "fix it", "1 match(es)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestFormatSearch_NoMatches(t *testing.T) {
	out := FormatSearch(&SearchResult{Keywords: []string{"nope"}, Scanned: 12})
	if !strings.Contains(out, "No matches") {
		t.Errorf("output = %q", out)
	}
}
