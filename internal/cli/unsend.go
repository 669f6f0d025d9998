package cli

import (
	"context"
	"fmt"
	"strings"

	"dmsweep/internal/direct"
)

// unsendPreviewLimit is how many doomed messages the confirmation
// prompt lists before collapsing the rest into a count.
const unsendPreviewLimit = 10

// confirmationWord is the exact reply that authorizes a retraction
// pass. Anything else aborts with zero remote calls.
const confirmationWord = "YES"

// UnsendPlan describes what a retraction pass would do: the retained
// matches partitioned into the session user's own messages (the ones
// that will be retracted) and everyone else's (reported, untouched).
type UnsendPlan struct {
	ThreadID string        `json:"thread_id"`
	Own      []direct.Item `json:"own"`
	Other    int           `json:"other"`
}

// UnsendResult reports the outcome of a retraction pass.
type UnsendResult struct {
	Retracted int `json:"retracted"`
	Failed    int `json:"failed"`
}

// PlanUnsend partitions the retained search matches. ErrNoPriorSearch
// when no search has been run (or it found nothing); ErrNothingToRetract
// when none of the matches belong to the session user.
func (a *App) PlanUnsend() (*UnsendPlan, error) {
	if !a.LoggedIn() {
		return nil, errNotLoggedIn
	}
	if a.search.Empty() {
		return nil, direct.ErrNoPriorSearch
	}

	own, other := direct.Partition(a.search.Matches, a.selfID())
	if len(own) == 0 {
		return nil, direct.ErrNothingToRetract
	}

	return &UnsendPlan{ThreadID: a.selectedThread, Own: own, Other: len(other)}, nil
}

// Unsend executes a confirmed plan and clears the retained search
// context: the matches refer to messages that no longer exist, so a new
// search is required before another pass.
func (a *App) Unsend(ctx context.Context, plan *UnsendPlan) (*UnsendResult, error) {
	res, err := a.newRetractor().Retract(ctx, plan.ThreadID, plan.Own)
	a.search = nil
	if err != nil {
		return &UnsendResult{Retracted: res.Retracted, Failed: res.Failed}, err
	}
	return &UnsendResult{Retracted: res.Retracted, Failed: res.Failed}, nil
}

// confirmationAccepted reports whether the reply authorizes the pass.
func confirmationAccepted(reply string) bool {
	return strings.TrimSpace(reply) == confirmationWord
}

// FormatUnsendPlan renders the confirmation preview: the first few
// doomed messages plus counts.
func FormatUnsendPlan(plan *UnsendPlan) string {
	var out strings.Builder
	out.WriteString(fmt.Sprintf("About to unsend %d of your message(s) in thread %s:\n",
		len(plan.Own), plan.ThreadID))

	shown := plan.Own
	if len(shown) > unsendPreviewLimit {
		shown = shown[:unsendPreviewLimit]
	}
	for _, it := range shown {
		out.WriteString("  " + formatItemLine(it, "") + "\n")
	}
	if rest := len(plan.Own) - len(shown); rest > 0 {
		out.WriteString(fmt.Sprintf("  +%d more\n", rest))
	}

	if plan.Other > 0 {
		out.WriteString(fmt.Sprintf("%d matching message(s) from other people will not be touched.\n", plan.Other))
	}
	return out.String()
}

// FormatUnsend renders the pass outcome.
func FormatUnsend(result *UnsendResult) string {
	if result.Failed == 0 {
		return fmt.Sprintf("Unsent %d message(s).\n", result.Retracted)
	}
	return fmt.Sprintf("Unsent %d message(s), %d failed.\n", result.Retracted, result.Failed)
}
