package direct

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
)

const (
	// DefaultThreadPageSize is the inbox page size for thread listing.
	DefaultThreadPageSize = 20
	// DefaultLookupPageSize is the widened inbox page size used when
	// resolving a username to a thread.
	DefaultLookupPageSize = 50

	previewLimit    = 50
	maxPreviewUsers = 3
)

// ThreadSummary is one row of the thread directory.
type ThreadSummary struct {
	ThreadID    string   `json:"thread_id"`
	Usernames   []string `json:"usernames"`
	LastMessage string   `json:"last_message"`
}

// Directory lists conversation threads and resolves thread selection.
type Directory struct {
	api Requester

	// PageSize and LookupPageSize default to the package constants
	// when zero.
	PageSize       int
	LookupPageSize int
}

// NewDirectory returns a Directory using the given transport.
func NewDirectory(api Requester) *Directory {
	return &Directory{api: api}
}

// ListThreads fetches one page of the thread directory, newest first.
// Returns ErrEmptyResult when the inbox payload is missing or holds no
// threads; this is a single bounded call, so no retry happens here.
func (d *Directory) ListThreads(ctx context.Context) ([]ThreadSummary, error) {
	size := d.PageSize
	if size <= 0 {
		size = DefaultThreadPageSize
	}

	threads, err := d.fetchInbox(ctx, size)
	if err != nil {
		return nil, err
	}

	summaries := make([]ThreadSummary, 0, len(threads))
	for _, th := range threads {
		summaries = append(summaries, summarize(th))
	}
	return summaries, nil
}

// ResolveByUsername resolves a username to the id of a thread that user
// participates in. Only one widened directory page is scanned: threads
// older than that window are not found. That recent-only window is a
// known limitation, kept deliberately instead of paginating the inbox.
func (d *Directory) ResolveByUsername(ctx context.Context, username string) (string, error) {
	userID, err := d.lookupUserID(ctx, username)
	if err != nil {
		return "", err
	}

	size := d.LookupPageSize
	if size <= 0 {
		size = DefaultLookupPageSize
	}

	threads, err := d.fetchInbox(ctx, size)
	if err != nil {
		return "", err
	}

	want := strconv.FormatInt(userID, 10)
	for _, th := range threads {
		for _, u := range th.Users {
			if strconv.FormatInt(u.PK, 10) == want {
				return th.ThreadID, nil
			}
		}
	}
	return "", fmt.Errorf("no thread with participant %q in the recent window: %w", username, ErrNotFound)
}

// lookupUserID resolves a username to its numeric account id.
func (d *Directory) lookupUserID(ctx context.Context, username string) (int64, error) {
	raw, err := d.api.Request(ctx, Request{
		Path: "users/" + username + "/usernameinfo/",
	})
	if err != nil {
		return 0, fmt.Errorf("look up user %q: %w", username, err)
	}

	var env userInfoEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return 0, fmt.Errorf("decode user info: %w", err)
	}
	if env.User == nil || env.User.PK == 0 {
		return 0, fmt.Errorf("user %q: %w", username, ErrNotFound)
	}
	return env.User.PK, nil
}

func (d *Directory) fetchInbox(ctx context.Context, limit int) ([]threadPage, error) {
	raw, err := d.api.Request(ctx, Request{
		Path: "direct_v2/inbox/",
		Params: map[string]string{
			"visual_message_return_type": "unseen",
			"thread_message_limit":       "10",
			"persistentBadging":          "true",
			"limit":                      strconv.Itoa(limit),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("fetch inbox: %w", err)
	}

	var env inboxEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode inbox: %w", err)
	}
	if env.Inbox == nil || len(env.Inbox.Threads) == 0 {
		return nil, ErrEmptyResult
	}
	return env.Inbox.Threads, nil
}

func summarize(th threadPage) ThreadSummary {
	s := ThreadSummary{ThreadID: th.ThreadID}

	for _, u := range th.Users {
		if u.Username == "" {
			continue
		}
		s.Usernames = append(s.Usernames, u.Username)
		if len(s.Usernames) == maxPreviewUsers {
			break
		}
	}

	// Inbox items arrive newest first; the preview is the latest message.
	if len(th.Items) > 0 {
		s.LastMessage = previewText(th.Items[0])
	}
	return s
}

func previewText(it Item) string {
	if !it.HasText() {
		return "[Media/Other]"
	}
	if len(it.Text) > previewLimit {
		return it.Text[:previewLimit] + "..."
	}
	return it.Text
}
