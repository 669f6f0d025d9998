// Package transport implements the authenticated JSON HTTP client for the
// platform's private API: request signing, CSRF/device headers, and a
// request-rate floor. Everything above it talks through direct.Requester.
package transport

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/time/rate"

	"dmsweep/internal/config"
	"dmsweep/internal/direct"
	"dmsweep/internal/session"
)

// minRequestInterval is the transport-level floor between requests. The
// engines apply their own (longer) pacing on top; this guard only stops
// a misbehaving caller from bursting.
const minRequestInterval = 300 * time.Millisecond

// Client makes authenticated JSON requests against the platform API.
// It implements direct.Requester.
type Client struct {
	http      *http.Client
	base      string
	userAgent string
	limiter   *rate.Limiter
	state     *session.State
}

// NewClient returns a Client bound to the given session state. The state
// may be freshly generated (pre-login); Login fills in the account
// identity.
func NewClient(cfg config.Config, st *session.State) *Client {
	base := cfg.BaseURL
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return &Client{
		http:      &http.Client{Timeout: cfg.RequestTimeout},
		base:      base,
		userAgent: cfg.UserAgent,
		limiter:   rate.NewLimiter(rate.Every(minRequestInterval), 1),
		state:     st,
	}
}

// State returns the session state the client signs with.
func (c *Client) State() *session.State {
	return c.state
}

// Request performs one authenticated API call and returns the raw JSON
// body. Auth rejections map to direct.ErrAuthFailure; every other
// non-2xx response or network error is an ordinary request failure.
func (c *Client) Request(ctx context.Context, req direct.Request) (json.RawMessage, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	rid := ulid.Make().String()
	httpReq, err := c.buildRequest(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("build request %s [%s]: %w", req.Path, rid, err)
	}

	slog.Debug("api request", "id", rid, "path", req.Path, "method", httpReq.Method)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request %s [%s]: %w", req.Path, rid, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response %s [%s]: %w", req.Path, rid, err)
	}

	c.captureCookies(resp)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if authErr := asAuthFailure(body); authErr != nil {
			return nil, fmt.Errorf("request %s [%s]: %w", req.Path, rid, authErr)
		}
		return nil, fmt.Errorf("request %s [%s]: HTTP %d", req.Path, rid, resp.StatusCode)
	}

	slog.Debug("api response", "id", rid, "status", resp.StatusCode, "bytes", len(body))
	return body, nil
}

func (c *Client) buildRequest(ctx context.Context, req direct.Request) (*http.Request, error) {
	u, err := url.Parse(c.base + req.Path)
	if err != nil {
		return nil, err
	}

	if len(req.Params) > 0 {
		q := u.Query()
		for k, v := range req.Params {
			q.Set(k, v)
		}
		u.RawQuery = q.Encode()
	}

	var httpReq *http.Request
	if req.Data == nil {
		httpReq, err = http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	} else {
		body := c.encodeBody(req)
		httpReq, err = http.NewRequestWithContext(ctx, http.MethodPost, u.String(), strings.NewReader(body))
		if httpReq != nil {
			httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
	}
	if err != nil {
		return nil, err
	}

	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set("Accept", "application/json")
	if c.state != nil {
		if c.state.CSRFToken != "" {
			httpReq.Header.Set("X-CSRFToken", c.state.CSRFToken)
		}
		httpReq.Header.Set("X-IG-Device-ID", c.state.DeviceID)
	}
	return httpReq, nil
}

// encodeBody renders the POST body. Signed requests wrap the JSON
// payload in the platform's signed_body envelope; unsigned requests
// (the retraction endpoints) send plain form fields.
func (c *Client) encodeBody(req direct.Request) string {
	if !req.WithSignature {
		form := url.Values{}
		for k, v := range req.Data {
			form.Set(k, v)
		}
		return form.Encode()
	}

	payload, _ := json.Marshal(req.Data)
	mac := hmac.New(sha256.New, c.signingKey())
	mac.Write(payload)
	sig := hex.EncodeToString(mac.Sum(nil))

	form := url.Values{}
	form.Set("signed_body", sig+"."+string(payload))
	form.Set("ig_sig_key_version", "4")
	return form.Encode()
}

func (c *Client) signingKey() []byte {
	if c.state == nil {
		return nil
	}
	if key, err := hex.DecodeString(c.state.DeviceKey); err == nil {
		return key
	}
	return []byte(c.state.DeviceKey)
}

// captureCookies refreshes the CSRF token when the server rotates it.
func (c *Client) captureCookies(resp *http.Response) {
	if c.state == nil {
		return
	}
	for _, ck := range resp.Cookies() {
		if ck.Name == "csrftoken" && ck.Value != "" {
			c.state.CSRFToken = ck.Value
		}
	}
}

// asAuthFailure inspects an error body for the API's auth-rejection
// messages and returns a wrapped direct.ErrAuthFailure when it finds one.
func asAuthFailure(body []byte) error {
	var env struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return nil
	}
	switch env.Message {
	case "login_required", "bad_password", "invalid_user", "challenge_required":
		return fmt.Errorf("%s: %w", env.Message, direct.ErrAuthFailure)
	}
	return nil
}
