package direct

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"
)

const (
	// DefaultPageLimit is the maximum item count the API serves per
	// history request.
	DefaultPageLimit = 75

	// maxNoProgress is the shared circuit-breaker budget: consecutive
	// empty pages and request-level failures both count against it.
	maxNoProgress = 3
)

// Fetcher pulls an unbounded message history from an API that only
// returns bounded pages, probing multiple cursor locations per page and
// bounding retries against non-progressing pagination.
type Fetcher struct {
	api Requester

	// PageLimit defaults to DefaultPageLimit when zero.
	PageLimit int

	// PageDelay spaces successful page requests, EmptyDelay precedes a
	// retry of an empty page, FailureDelay follows a request-level
	// failure. Zero values disable the wait (used by tests).
	PageDelay    time.Duration
	EmptyDelay   time.Duration
	FailureDelay time.Duration
}

// NewFetcher returns a Fetcher with production pacing.
func NewFetcher(api Requester) *Fetcher {
	return &Fetcher{
		api:          api,
		PageLimit:    DefaultPageLimit,
		PageDelay:    800 * time.Millisecond,
		EmptyDelay:   time.Second,
		FailureDelay: 2 * time.Second,
	}
}

// FetchHistory returns up to targetCount items of the thread's history,
// newest first. The result may be shorter than requested when the
// history is exhausted or the no-progress budget runs out; both are
// ordinary outcomes, not errors. The only error returns are context
// cancellation (with the partial result) and a malformed first response
// on the single-page path.
func (f *Fetcher) FetchHistory(ctx context.Context, threadID string, targetCount int) ([]Item, error) {
	if targetCount <= 0 {
		return nil, nil
	}

	limit := f.PageLimit
	if limit <= 0 {
		limit = DefaultPageLimit
	}

	// One page suffices below the per-request cap; skip the loop.
	if targetCount <= limit {
		env, err := f.requestPage(ctx, threadID, targetCount, "")
		if err != nil {
			return nil, err
		}
		if env.Thread == nil {
			return nil, nil
		}
		items := env.Thread.Items
		if len(items) > targetCount {
			items = items[:targetCount]
		}
		return items, nil
	}

	var (
		collected  []Item
		cursor     string
		noProgress int
		page       = 1
	)

	for len(collected) < targetCount && noProgress < maxNoProgress {
		slog.Debug("fetching history page",
			"thread", threadID, "page", page, "have", len(collected), "cursor", cursor != "")

		remaining := targetCount - len(collected)
		if remaining > limit {
			remaining = limit
		}
		env, err := f.requestPage(ctx, threadID, remaining, cursor)
		if err != nil {
			if ctx.Err() != nil {
				return collected, ctx.Err()
			}
			slog.Warn("history page request failed", "page", page, "err", err)
			noProgress++
			if noProgress >= maxNoProgress {
				break
			}
			page++
			if err := f.wait(ctx, f.FailureDelay); err != nil {
				return collected, err
			}
			continue
		}

		if env.Thread == nil || len(env.Thread.Items) == 0 {
			// Retry with the same cursor: empty pages are transient
			// often enough that advancing would skip history.
			slog.Debug("empty history page", "page", page)
			noProgress++
			if noProgress >= maxNoProgress {
				break
			}
			page++
			if err := f.wait(ctx, f.EmptyDelay); err != nil {
				return collected, err
			}
			continue
		}

		noProgress = 0
		for _, it := range env.Thread.Items {
			if len(collected) >= targetCount {
				break
			}
			collected = append(collected, it)
		}

		next, ok := nextCursor(env.Thread, env.PagingInfo)
		if !ok {
			// Some response shapes omit cursors until the second page;
			// retry once cursorless from page 1 only. After progress,
			// a missing cursor means end-of-history.
			if page == 1 {
				cursor = ""
				page++
				if err := f.wait(ctx, f.EmptyDelay); err != nil {
					return collected, err
				}
				continue
			}
			break
		}

		cursor = next
		page++
		if err := f.wait(ctx, f.PageDelay); err != nil {
			return collected, err
		}
	}

	slog.Debug("history fetch complete", "thread", threadID, "items", len(collected), "pages", page-1)
	return collected, nil
}

func (f *Fetcher) requestPage(ctx context.Context, threadID string, limit int, cursor string) (*threadEnvelope, error) {
	params := map[string]string{
		"visual_message_return_type": "unseen",
		"direction":                  "older",
		"limit":                      strconv.Itoa(limit),
	}
	if cursor != "" {
		params["cursor"] = cursor
	}

	raw, err := f.api.Request(ctx, Request{
		Path:   "direct_v2/threads/" + threadID + "/",
		Params: params,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch thread page: %w", err)
	}

	var env threadEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode thread page: %w", err)
	}
	return &env, nil
}

// wait sleeps for d unless the context ends first.
func (f *Fetcher) wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
