package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"dmsweep/internal/direct"
)

// maxViewItems caps how many messages the view renders regardless of
// how many were fetched.
const maxViewItems = 20

// ViewResult contains the recent messages of the selected thread.
type ViewResult struct {
	ThreadID string        `json:"thread_id"`
	Items    []direct.Item `json:"items"`
	SelfID   string        `json:"self_id"`
}

// ViewMessages fetches the most recent messages of the selected thread.
func (a *App) ViewMessages(ctx context.Context) (*ViewResult, error) {
	if !a.LoggedIn() {
		return nil, errNotLoggedIn
	}
	if a.selectedThread == "" {
		return nil, errNoThread
	}

	items, err := a.newFetcher().FetchHistory(ctx, a.selectedThread, a.cfg.ThreadPageSize)
	if err != nil {
		return nil, err
	}

	return &ViewResult{
		ThreadID: a.selectedThread,
		Items:    items,
		SelfID:   a.selfID(),
	}, nil
}

// FormatMessages renders messages newest first, at most maxViewItems of
// them, with a (YOU) marker on the session user's own messages.
func FormatMessages(result *ViewResult) string {
	if len(result.Items) == 0 {
		return "No messages.\n"
	}

	shown := result.Items
	if len(shown) > maxViewItems {
		shown = shown[:maxViewItems]
	}

	var out strings.Builder
	for _, it := range shown {
		out.WriteString(formatItemLine(it, result.SelfID) + "\n")
	}

	if len(result.Items) > len(shown) {
		out.WriteString(fmt.Sprintf("... and %d more fetched\n", len(result.Items)-len(shown)))
	}
	return out.String()
}

func formatItemLine(it direct.Item, selfID string) string {
	author := it.AuthorID()
	if author == "" {
		author = "unknown"
	}
	if selfID != "" && author == selfID {
		author += " (YOU)"
	}

	text := it.Text
	if !it.HasText() {
		text = "[Media/Other]"
	}

	return fmt.Sprintf("[%s] %s: %s", formatItemTime(it), author, text)
}

// formatItemTime renders the item timestamp in local time, falling back
// to the raw microsecond value when it cannot be interpreted.
func formatItemTime(it direct.Item) string {
	if t, ok := it.Time(); ok {
		return t.Local().Format("2006-01-02 15:04:05")
	}
	return strconv.FormatInt(it.Timestamp, 10)
}
