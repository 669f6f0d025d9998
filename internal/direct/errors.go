package direct

import "errors"

// Sentinel errors for the ordinary non-success outcomes of direct-message
// operations. These are returned, never panicked, and callers branch on
// them with errors.Is. Page-level and item-level failures inside the
// pagination and retraction loops are counted, not surfaced as errors.
var (
	// ErrAuthFailure means the session is missing, expired, or rejected.
	// The caller should discard the session file and log in again.
	ErrAuthFailure = errors.New("authentication failed or session expired")

	// ErrEmptyResult means a structurally valid response contained no data.
	ErrEmptyResult = errors.New("no results")

	// ErrNotFound means a lookup completed but matched nothing.
	ErrNotFound = errors.New("not found")

	// ErrNoPriorSearch means retraction was requested without a retained
	// search result to act on.
	ErrNoPriorSearch = errors.New("no prior search results")

	// ErrNothingToRetract means the retained matches contain no messages
	// authored by the session account.
	ErrNothingToRetract = errors.New("no own messages to retract")
)
