// Package direct implements the direct-message core: thread directory,
// cursor-paginated history fetching, keyword search, and bulk retraction.
// All remote I/O goes through the Requester boundary so every engine can
// be exercised against scripted responses.
package direct

import (
	"context"
	"encoding/json"
	"strconv"
	"time"
)

// Request describes one call against the platform API.
type Request struct {
	Path   string            // relative to the API base, e.g. "direct_v2/inbox/"
	Params map[string]string // query parameters (GET)
	Data   map[string]string // form fields (POST); nil means GET

	// WithSignature controls request-body signing. The retraction
	// endpoints only accept unsigned bodies.
	WithSignature bool
}

// Requester is the transport boundary: an authenticated JSON request
// function. Timeouts and signing are the implementation's concern; any
// error is treated here as an ordinary request failure.
type Requester interface {
	Request(ctx context.Context, req Request) (json.RawMessage, error)
}

// User is a thread participant.
type User struct {
	PK       int64  `json:"pk"`
	Username string `json:"username"`
}

// Item is one message in a thread. The API identifies items through
// several alternative fields depending on response shape; consumers must
// go through Identifier instead of reading them directly.
type Item struct {
	ItemID        string `json:"item_id"`
	ID            string `json:"id"`
	ClientContext string `json:"client_context"`

	Text      string `json:"text"`
	UserID    int64  `json:"user_id"`
	Timestamp int64  `json:"timestamp"` // microsecond epoch; 0 when absent
}

// Identifier resolves the item's identifier. The resolution order is
// fixed: item_id, then id, then client_context.
func (it Item) Identifier() (string, bool) {
	switch {
	case it.ItemID != "":
		return it.ItemID, true
	case it.ID != "":
		return it.ID, true
	case it.ClientContext != "":
		return it.ClientContext, true
	}
	return "", false
}

// DisplayID returns the resolved identifier or "unknown".
func (it Item) DisplayID() string {
	if id, ok := it.Identifier(); ok {
		return id
	}
	return "unknown"
}

// HasText reports whether the item carries text content.
func (it Item) HasText() bool {
	return it.Text != ""
}

// AuthorID returns the author's user id as a string for comparison with
// the session account id.
func (it Item) AuthorID() string {
	if it.UserID == 0 {
		return ""
	}
	return strconv.FormatInt(it.UserID, 10)
}

// Time converts the microsecond timestamp. ok is false when absent.
func (it Item) Time() (t time.Time, ok bool) {
	if it.Timestamp == 0 {
		return time.Time{}, false
	}
	return time.UnixMicro(it.Timestamp), true
}

// threadPage is the thread payload of a history or inbox response.
type threadPage struct {
	ThreadID     string `json:"thread_id"`
	Users        []User `json:"users"`
	Items        []Item `json:"items"`
	OldestCursor string `json:"oldest_cursor"`
	NextCursor   string `json:"next_cursor"`
}

// pagingInfo is the top-level pagination metadata some responses carry.
type pagingInfo struct {
	MaxID string `json:"max_id"`
}

type inboxEnvelope struct {
	Inbox *struct {
		Threads []threadPage `json:"threads"`
	} `json:"inbox"`
	Status string `json:"status"`
}

type threadEnvelope struct {
	Thread     *threadPage `json:"thread"`
	PagingInfo *pagingInfo `json:"paging_info"`
	Status     string      `json:"status"`
}

type userInfoEnvelope struct {
	User   *User  `json:"user"`
	Status string `json:"status"`
}

type statusEnvelope struct {
	Status string `json:"status"`
}
