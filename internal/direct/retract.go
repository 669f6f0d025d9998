package direct

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"
)

// Retractor unsends the session account's own messages, one remote call
// at a time. Calls are strictly sequential: rate limits and simple
// failure accounting both want it that way.
type Retractor struct {
	api Requester

	// Signing identifiers attached to every retraction payload.
	UserID    string // _uid: numeric account id
	DeviceID  string // _uuid
	CSRFToken string // _csrftoken

	// Delay spaces the per-item calls. Zero disables the wait.
	Delay time.Duration
}

// NewRetractor returns a Retractor with production pacing.
func NewRetractor(api Requester, userID, deviceID, csrfToken string) *Retractor {
	return &Retractor{
		api:       api,
		UserID:    userID,
		DeviceID:  deviceID,
		CSRFToken: csrfToken,
		Delay:     time.Second,
	}
}

// RetractResult reports the outcome of a retraction pass.
type RetractResult struct {
	Retracted int `json:"retracted"`
	Failed    int `json:"failed"`
}

// Partition splits items into those authored by selfID and the rest,
// preserving order. Author ids are compared as strings.
func Partition(items []Item, selfID string) (own, other []Item) {
	for _, it := range items {
		if it.AuthorID() == selfID && selfID != "" {
			own = append(own, it)
		} else {
			other = append(other, it)
		}
	}
	return own, other
}

// Retract unsends each item via the thread-scoped delete endpoint,
// falling back to the broadcast unsend endpoint per item. Items whose
// identifier cannot be resolved are counted as failed without a remote
// call. Individual failures never abort the batch; a context error
// returns the counts accumulated so far.
func (r *Retractor) Retract(ctx context.Context, threadID string, items []Item) (RetractResult, error) {
	var res RetractResult

	for i, it := range items {
		if ctx.Err() != nil {
			return res, ctx.Err()
		}

		id, ok := it.Identifier()
		if !ok {
			slog.Warn("skipping message with no resolvable id", "index", i)
			res.Failed++
			continue
		}

		if r.unsend(ctx, threadID, id) {
			res.Retracted++
		} else {
			res.Failed++
		}

		if err := r.wait(ctx); err != nil {
			return res, err
		}
	}

	return res, nil
}

// unsend attempts the primary endpoint, then the alternate. Both calls
// carry the signing identifiers with signature verification disabled,
// which is the contract these endpoints accept.
func (r *Retractor) unsend(ctx context.Context, threadID, itemID string) bool {
	raw, err := r.api.Request(ctx, Request{
		Path: "direct_v2/threads/" + threadID + "/items/" + itemID + "/delete/",
		Data: map[string]string{
			"_uuid":      r.DeviceID,
			"_uid":       r.UserID,
			"_csrftoken": r.CSRFToken,
		},
	})
	if err == nil && statusOK(raw) {
		return true
	}
	if err != nil {
		slog.Debug("primary retraction endpoint failed", "item", itemID, "err", err)
	}

	raw, err = r.api.Request(ctx, Request{
		Path: "direct_v2/threads/broadcast/item_unsend/",
		Data: map[string]string{
			"thread_id":  threadID,
			"item_id":    itemID,
			"_uuid":      r.DeviceID,
			"_uid":       r.UserID,
			"_csrftoken": r.CSRFToken,
		},
	})
	if err != nil {
		slog.Debug("alternate retraction endpoint failed", "item", itemID, "err", err)
		return false
	}
	return statusOK(raw)
}

func statusOK(raw json.RawMessage) bool {
	var env statusEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return false
	}
	return env.Status == "ok"
}

func (r *Retractor) wait(ctx context.Context) error {
	if r.Delay <= 0 {
		return nil
	}
	t := time.NewTimer(r.Delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
