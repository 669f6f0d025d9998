package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/term"

	"dmsweep/internal/direct"
)

// Menu is the interactive loop. All reads and writes go through the
// injected streams so the loop can be driven by tests.
type Menu struct {
	app *App
	in  *bufio.Reader
	out io.Writer
}

// NewMenu returns a menu over the given streams.
func NewMenu(app *App, in io.Reader, out io.Writer) *Menu {
	return &Menu{app: app, in: bufio.NewReader(in), out: out}
}

// Run drives the menu until the user exits or input ends.
func (m *Menu) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		m.printHeader()
		choice, err := m.prompt("Choice: ")
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		switch strings.TrimSpace(choice) {
		case "1":
			m.doLogin(ctx)
		case "2":
			m.doThreads(ctx)
		case "3":
			m.doSelect(ctx)
		case "4":
			m.doView(ctx)
		case "5":
			m.doSearch(ctx)
		case "6":
			m.doUnsend(ctx)
		case "7":
			m.doLogout()
		case "8", "q", "exit", "quit":
			fmt.Fprintln(m.out, "Bye.")
			return nil
		default:
			fmt.Fprintln(m.out, "Pick a number between 1 and 8.")
		}
		fmt.Fprintln(m.out)
	}
}

func (m *Menu) printHeader() {
	fmt.Fprintln(m.out, "=== dmsweep ===")
	if m.app.LoggedIn() {
		fmt.Fprintf(m.out, "Account: @%s", m.app.username())
		if th := m.app.SelectedThread(); th != "" {
			fmt.Fprintf(m.out, "  Thread: %s", th)
		}
		fmt.Fprintln(m.out)
	} else {
		fmt.Fprintln(m.out, "Not logged in.")
	}
	fmt.Fprintln(m.out, `1. Login
2. List threads
3. Select thread
4. View messages
5. Search messages
6. Unsend matched messages
7. Logout
8. Exit`)
}

func (m *Menu) doLogin(ctx context.Context) {
	username, err := m.prompt("Username: ")
	if err != nil {
		return
	}
	password, err := m.promptPassword("Password: ")
	if err != nil {
		return
	}

	result, err := m.app.Login(ctx, strings.TrimSpace(username), password)
	if err != nil {
		if errors.Is(err, direct.ErrAuthFailure) {
			fmt.Fprintln(m.out, "Login failed: credentials were not accepted.")
		} else {
			fmt.Fprintf(m.out, "Login failed: %v\n", err)
		}
		return
	}
	fmt.Fprint(m.out, FormatLogin(result))
}

func (m *Menu) doThreads(ctx context.Context) {
	result, err := m.app.Threads(ctx)
	if err != nil {
		m.printError(err)
		return
	}
	fmt.Fprint(m.out, FormatThreads(result))
}

func (m *Menu) doSelect(ctx context.Context) {
	target, err := m.prompt("Thread id or username: ")
	if err != nil {
		return
	}

	result, err := m.app.SelectThread(ctx, target)
	if err != nil {
		m.printError(err)
		return
	}
	fmt.Fprint(m.out, FormatSelect(result))
}

func (m *Menu) doView(ctx context.Context) {
	result, err := m.app.ViewMessages(ctx)
	if err != nil {
		m.printError(err)
		return
	}
	fmt.Fprint(m.out, FormatMessages(result))
}

func (m *Menu) doSearch(ctx context.Context) {
	line, err := m.prompt("Keywords (space separated): ")
	if err != nil {
		return
	}
	keywords := strings.Fields(line)

	limit := 0
	if answer, err := m.prompt(fmt.Sprintf("Messages to scan [%d]: ", m.app.cfg.PageLimit)); err == nil {
		if answer = strings.TrimSpace(answer); answer != "" {
			n, convErr := strconv.Atoi(answer)
			if convErr != nil || n <= 0 {
				fmt.Fprintln(m.out, "Not a positive number.")
				return
			}
			limit = n
		}
	}

	result, err := m.app.SearchMessages(ctx, SearchOptions{Keywords: keywords, Limit: limit})
	if err != nil {
		m.printError(err)
		return
	}
	fmt.Fprint(m.out, FormatSearch(result))
}

func (m *Menu) doUnsend(ctx context.Context) {
	plan, err := m.app.PlanUnsend()
	if err != nil {
		m.printError(err)
		return
	}

	fmt.Fprint(m.out, FormatUnsendPlan(plan))
	reply, err := m.prompt(fmt.Sprintf("Type %s to confirm: ", confirmationWord))
	if err != nil {
		return
	}
	if !confirmationAccepted(reply) {
		fmt.Fprintln(m.out, "Aborted. Nothing was unsent.")
		return
	}

	result, err := m.app.Unsend(ctx, plan)
	if err != nil {
		fmt.Fprintf(m.out, "Pass interrupted: %v\n", err)
	}
	fmt.Fprint(m.out, FormatUnsend(result))
}

func (m *Menu) doLogout() {
	if !m.app.LoggedIn() {
		fmt.Fprintln(m.out, "Not logged in.")
		return
	}
	if err := m.app.Logout(); err != nil {
		m.printError(err)
		return
	}
	fmt.Fprintln(m.out, "Logged out.")
}

func (m *Menu) printError(err error) {
	switch {
	case errors.Is(err, errNotLoggedIn):
		fmt.Fprintln(m.out, "Log in first (option 1).")
	case errors.Is(err, errNoThread):
		fmt.Fprintln(m.out, "Select a thread first (option 3).")
	case errors.Is(err, direct.ErrNoPriorSearch):
		fmt.Fprintln(m.out, "Run a search first (option 5); unsend operates on its matches.")
	case errors.Is(err, direct.ErrNothingToRetract):
		fmt.Fprintln(m.out, "None of the matched messages are yours; nothing to unsend.")
	case errors.Is(err, direct.ErrEmptyResult):
		fmt.Fprintln(m.out, "Nothing there.")
	case errors.Is(err, direct.ErrNotFound):
		fmt.Fprintln(m.out, "Not found.")
	case errors.Is(err, direct.ErrAuthFailure):
		fmt.Fprintln(m.out, "Session expired; log in again (option 1).")
	default:
		fmt.Fprintf(m.out, "Error: %v\n", err)
	}
}

// prompt prints a label and reads one line.
func (m *Menu) prompt(label string) (string, error) {
	fmt.Fprint(m.out, label)
	line, err := m.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// promptPassword reads a password without echo when stdin is a real
// terminal, and as a plain line otherwise (piped input, tests).
func (m *Menu) promptPassword(label string) (string, error) {
	if !stdinIsTerminal() {
		return m.prompt(label)
	}

	fmt.Fprint(m.out, label)
	raw, err := term.ReadPassword(int(stdinFd()))
	fmt.Fprintln(m.out)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
