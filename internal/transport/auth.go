package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/google/uuid"

	"dmsweep/internal/config"
	"dmsweep/internal/direct"
	"dmsweep/internal/session"
)

// UserInfo identifies the authenticated account.
type UserInfo struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type loggedInUser struct {
	PK       int64  `json:"pk"`
	Username string `json:"username"`
}

// Login authenticates with username and password and fills the session
// state with the account identity. Rejected credentials surface as
// direct.ErrAuthFailure.
func (c *Client) Login(ctx context.Context, username, password string) (*UserInfo, error) {
	raw, err := c.Request(ctx, direct.Request{
		Path: "accounts/login/",
		Data: map[string]string{
			"username":            username,
			"password":            password,
			"device_id":           c.state.DeviceID,
			"phone_id":            c.state.PhoneID,
			"guid":                uuid.New().String(),
			"login_attempt_count": "0",
		},
		WithSignature: true,
	})
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	var env struct {
		LoggedInUser *loggedInUser `json:"logged_in_user"`
		Status       string        `json:"status"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode login response: %w", err)
	}
	if env.Status != "ok" || env.LoggedInUser == nil || env.LoggedInUser.PK == 0 {
		return nil, fmt.Errorf("login rejected: %w", direct.ErrAuthFailure)
	}

	c.state.UserID = strconv.FormatInt(env.LoggedInUser.PK, 10)
	c.state.Username = env.LoggedInUser.Username

	return &UserInfo{ID: c.state.UserID, Username: c.state.Username}, nil
}

// AccountInfo probes the session with a current-user call. Any failure
// means the session is no longer valid.
func (c *Client) AccountInfo(ctx context.Context) (*UserInfo, error) {
	raw, err := c.Request(ctx, direct.Request{Path: "accounts/current_user/"})
	if err != nil {
		return nil, fmt.Errorf("account info: %w", err)
	}

	var env struct {
		User   *loggedInUser `json:"user"`
		Status string        `json:"status"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode account info: %w", err)
	}
	if env.User == nil || env.User.PK == 0 {
		return nil, fmt.Errorf("account info: %w", direct.ErrAuthFailure)
	}

	return &UserInfo{
		ID:       strconv.FormatInt(env.User.PK, 10),
		Username: env.User.Username,
	}, nil
}

// Restore rebuilds a client from a persisted session file and probes it.
// A failed probe deletes the file and returns direct.ErrAuthFailure so
// the caller falls back to a fresh login.
func Restore(ctx context.Context, cfg config.Config, sessionPath string) (*Client, error) {
	st, err := session.Load(sessionPath)
	if err != nil {
		return nil, fmt.Errorf("restore session: %w", err)
	}

	client := NewClient(cfg, st)
	info, err := client.AccountInfo(ctx)
	if err != nil {
		slog.Info("persisted session failed its probe, deleting", "path", sessionPath)
		if delErr := session.Delete(sessionPath); delErr != nil {
			slog.Warn("could not delete stale session file", "err", delErr)
		}
		return nil, fmt.Errorf("session probe: %w", direct.ErrAuthFailure)
	}

	// The probe is authoritative for the account identity.
	st.UserID = info.ID
	st.Username = info.Username

	return client, nil
}
