package cli

import (
	"context"
	"fmt"
	"log/slog"

	"dmsweep/internal/session"
	"dmsweep/internal/transport"
)

// LoginResult describes the account a session was established for.
type LoginResult struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Restored bool   `json:"restored"`
}

// Login authenticates with fresh credentials and persists the session
// file. A rejected login surfaces direct.ErrAuthFailure.
func (a *App) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	st := session.New()
	client := transport.NewClient(a.cfg, st)

	info, err := client.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}

	if err := st.Save(a.sessionPath); err != nil {
		// A session that cannot be persisted still works for this run.
		slog.Warn("could not save session file", "path", a.sessionPath, "err", err)
	}

	a.attach(client)
	return &LoginResult{UserID: info.ID, Username: info.Username}, nil
}

// RestoreSession attaches a client rebuilt from the persisted session
// file. Failure is normal on first run or after the session expired;
// the caller falls back to an interactive login.
func (a *App) RestoreSession(ctx context.Context) (*LoginResult, error) {
	client, err := transport.Restore(ctx, a.cfg, a.sessionPath)
	if err != nil {
		return nil, err
	}

	a.attach(client)
	st := client.State()
	return &LoginResult{UserID: st.UserID, Username: st.Username, Restored: true}, nil
}

// Logout deletes the session file and drops all per-session state.
func (a *App) Logout() error {
	err := session.Delete(a.sessionPath)

	a.client = nil
	a.api = nil
	a.selectedThread = ""
	a.search = nil

	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// FormatLogin renders the post-login banner.
func FormatLogin(result *LoginResult) string {
	if result.Restored {
		return fmt.Sprintf("Session restored for @%s (id %s)\n", result.Username, result.UserID)
	}
	return fmt.Sprintf("Logged in as @%s (id %s)\n", result.Username, result.UserID)
}
