package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// SelectResult reports the thread that became current.
type SelectResult struct {
	ThreadID string `json:"thread_id"`
}

// SelectThread makes a thread current. A numeric target is taken as a
// thread id without remote validation; anything else is resolved as a
// participant username against the recent directory window. Selecting a
// thread discards any retained search matches, which belong to the
// previously selected thread.
func (a *App) SelectThread(ctx context.Context, target string) (*SelectResult, error) {
	if !a.LoggedIn() {
		return nil, errNotLoggedIn
	}

	target = strings.TrimSpace(target)
	if target == "" {
		return nil, errors.New("empty thread selection")
	}

	threadID := target
	if !isNumeric(target) {
		username := strings.TrimPrefix(target, "@")
		id, err := a.newDirectory().ResolveByUsername(ctx, username)
		if err != nil {
			return nil, err
		}
		threadID = id
	}

	a.selectedThread = threadID
	a.search = nil
	return &SelectResult{ThreadID: threadID}, nil
}

func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// FormatSelect renders the selection confirmation.
func FormatSelect(result *SelectResult) string {
	return fmt.Sprintf("Selected thread %s\n", result.ThreadID)
}
