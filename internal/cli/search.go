package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"dmsweep/internal/direct"
)

// SearchOptions controls one search pass over the selected thread.
type SearchOptions struct {
	Keywords []string
	// Limit is how many history items to fetch before matching. Zero
	// means the configured page limit (one page).
	Limit int
}

// SearchResult contains the outcome of a search pass.
type SearchResult struct {
	ThreadID string        `json:"thread_id"`
	Keywords []string      `json:"keywords"`
	Scanned  int           `json:"scanned"`
	Matches  []direct.Item `json:"matches"`
	SelfID   string        `json:"self_id"`
}

// SearchMessages fetches history for the selected thread and matches it
// against the given keywords. The match set replaces any previously
// retained one; it is what a following unsend operates on.
func (a *App) SearchMessages(ctx context.Context, opts SearchOptions) (*SearchResult, error) {
	if !a.LoggedIn() {
		return nil, errNotLoggedIn
	}
	if a.selectedThread == "" {
		return nil, errNoThread
	}

	keywords := direct.NormalizeKeywords(opts.Keywords)
	if len(keywords) == 0 {
		return nil, errors.New("no keywords given")
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = a.cfg.PageLimit
	}

	items, err := a.newFetcher().FetchHistory(ctx, a.selectedThread, limit)
	if err != nil {
		return nil, err
	}

	a.search = direct.NewSearchContext(items, keywords)

	return &SearchResult{
		ThreadID: a.selectedThread,
		Keywords: a.search.Keywords,
		Scanned:  len(items),
		Matches:  a.search.Matches,
		SelfID:   a.selfID(),
	}, nil
}

// FormatSearch renders the match list with the same line shape as the
// message view.
func FormatSearch(result *SearchResult) string {
	var out strings.Builder
	out.WriteString(fmt.Sprintf("Scanned %d message(s) for: %s\n",
		result.Scanned, strings.Join(result.Keywords, ", ")))

	if len(result.Matches) == 0 {
		out.WriteString("No matches.\n")
		return out.String()
	}

	for _, it := range result.Matches {
		out.WriteString(formatItemLine(it, result.SelfID) + "\n")
	}
	out.WriteString(fmt.Sprintf("%d match(es)\n", len(result.Matches)))
	return out.String()
}
