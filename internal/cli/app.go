// Package cli implements the interactive surface: operation functions
// returning result structs, Format* renderers, and the numbered menu
// loop that drives them.
package cli

import (
	"errors"

	"dmsweep/internal/config"
	"dmsweep/internal/direct"
	"dmsweep/internal/session"
	"dmsweep/internal/transport"
)

var (
	errNotLoggedIn = errors.New("not logged in")
	errNoThread    = errors.New("no thread selected")
)

// App coordinates the engines and the cross-operation state the menu
// needs: the authenticated client, the selected thread, and the retained
// search context from the most recent search.
type App struct {
	cfg         config.Config
	sessionPath string

	client *transport.Client
	api    direct.Requester

	selectedThread string
	search         *direct.SearchContext
}

// NewApp returns an App without a session. Login or RestoreSession
// attaches one.
func NewApp(cfg config.Config, sessionPath string) *App {
	return &App{cfg: cfg, sessionPath: sessionPath}
}

// LoggedIn reports whether an authenticated client is attached.
func (a *App) LoggedIn() bool {
	return a.api != nil
}

// SelectedThread returns the currently selected thread id, or "".
func (a *App) SelectedThread() string {
	return a.selectedThread
}

func (a *App) attach(client *transport.Client) {
	a.client = client
	a.api = client
}

func (a *App) state() *session.State {
	if a.client == nil {
		return nil
	}
	return a.client.State()
}

func (a *App) selfID() string {
	if st := a.state(); st != nil {
		return st.UserID
	}
	return ""
}

func (a *App) username() string {
	if st := a.state(); st != nil {
		return st.Username
	}
	return ""
}

func (a *App) newDirectory() *direct.Directory {
	d := direct.NewDirectory(a.api)
	d.PageSize = a.cfg.ThreadPageSize
	d.LookupPageSize = a.cfg.LookupPageSize
	return d
}

func (a *App) newFetcher() *direct.Fetcher {
	f := direct.NewFetcher(a.api)
	f.PageLimit = a.cfg.PageLimit
	f.PageDelay = a.cfg.PageDelay
	f.EmptyDelay = a.cfg.EmptyDelay
	f.FailureDelay = a.cfg.FailureDelay
	return f
}

func (a *App) newRetractor() *direct.Retractor {
	st := a.state()
	if st == nil {
		return direct.NewRetractor(a.api, "", "", "")
	}
	r := direct.NewRetractor(a.api, st.UserID, st.DeviceID, st.CSRFToken)
	r.Delay = a.cfg.RetractDelay
	return r
}
