package cli

import (
	"context"
	"fmt"
	"strings"

	"dmsweep/internal/direct"
)

// ThreadsResult contains one page of the thread directory.
type ThreadsResult struct {
	Threads []direct.ThreadSummary `json:"threads"`
}

// Threads lists the most recent conversation threads.
func (a *App) Threads(ctx context.Context) (*ThreadsResult, error) {
	if !a.LoggedIn() {
		return nil, errNotLoggedIn
	}

	threads, err := a.newDirectory().ListThreads(ctx)
	if err != nil {
		return nil, err
	}
	return &ThreadsResult{Threads: threads}, nil
}

// FormatThreads renders the thread directory as a numbered list.
func FormatThreads(result *ThreadsResult) string {
	if len(result.Threads) == 0 {
		return "No threads.\n"
	}

	width := GetTerminalWidth()
	var out strings.Builder

	for i, th := range result.Threads {
		who := strings.Join(th.Usernames, ", ")
		if who == "" {
			who = "(no participants)"
		}

		line := fmt.Sprintf("%2d. %s  [%s]", i+1, who, th.ThreadID)
		out.WriteString(clipLine(line, width) + "\n")

		if th.LastMessage != "" {
			out.WriteString(clipLine("      "+th.LastMessage, width) + "\n")
		}
	}

	out.WriteString(fmt.Sprintf("%d thread(s)\n", len(result.Threads)))
	return out.String()
}
