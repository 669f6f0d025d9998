package direct

import (
	"log/slog"
	"strings"
)

// scanLogInterval controls how often the scan reports progress.
const scanLogInterval = 200

// NormalizeKeywords lower-cases and trims keywords, dropping empties.
func NormalizeKeywords(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			out = append(out, k)
		}
	}
	return out
}

// Search scans items for keyword matches: case-insensitive substring,
// OR across keywords. Items without text never match. The scan is a
// single order-preserving pass.
func Search(items []Item, keywords []string) []Item {
	keywords = NormalizeKeywords(keywords)
	if len(keywords) == 0 {
		return nil
	}

	var matches []Item
	for i, it := range items {
		if (i+1)%scanLogInterval == 0 {
			slog.Debug("search progress", "scanned", i+1, "total", len(items), "matches", len(matches))
		}
		if !it.HasText() {
			continue
		}
		text := strings.ToLower(it.Text)
		for _, k := range keywords {
			if strings.Contains(text, k) {
				matches = append(matches, it)
				break
			}
		}
	}
	return matches
}

// SearchContext is the retained result of the most recent search. It is
// the only cross-call state besides the session and the selected thread:
// a single slot owned by the coordinator, replaced by each new search and
// cleared after a completed retraction pass.
type SearchContext struct {
	Keywords []string
	Matches  []Item
}

// NewSearchContext runs a search and retains its result.
func NewSearchContext(items []Item, keywords []string) *SearchContext {
	normalized := NormalizeKeywords(keywords)
	return &SearchContext{
		Keywords: normalized,
		Matches:  Search(items, normalized),
	}
}

// Empty reports whether the context holds no matches.
func (sc *SearchContext) Empty() bool {
	return sc == nil || len(sc.Matches) == 0
}
