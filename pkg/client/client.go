// Package client is the Go façade over the WorkSync HTTP API.
//
// Calls are independent: nothing is retried, deduplicated or ordered relative to other calls,
// and an in-flight call is only cancelled through its context. Callers that need at-most-once
// creates must add their own idempotency handling.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	DefaultTimeout = 30 * time.Second
	// DefaultSignOutURL is used when an expiry signal carries no target.
	DefaultSignOutURL = "/auth/signout"
	// ExpiredHeader marks a 401 caused by an expired token.
	ExpiredHeader = "Expired"
)

// Client talks to the WorkSync API. Use New to build one.
type Client struct {
	baseURL    string
	httpClient *http.Client
	session    *Session
	tracing    bool

	Requests    *RequestService
	Suggestions *SuggestionService
	Products    *ProductService
	Analytics   *AnalyticsService
}

type Option func(*Client)

// WithHTTPClient uses a copy of hc. Redirect following is always disabled on the copy.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		cp := *hc
		c.httpClient = &cp
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithSession shares a session between clients.
func WithSession(s *Session) Option {
	return func(c *Client) {
		c.session = s
	}
}

// WithTracing wraps the transport with OpenTelemetry client spans.
func WithTracing() Option {
	return func(c *Client) {
		c.tracing = true
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		session:    NewSession(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.httpClient.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	if c.tracing {
		base := c.httpClient.Transport
		if base == nil {
			base = http.DefaultTransport
		}
		c.httpClient.Transport = otelhttp.NewTransport(base)
	}

	c.Requests = &RequestService{c: c}
	c.Suggestions = &SuggestionService{c: c}
	c.Products = &ProductService{c: c}
	c.Analytics = &AnalyticsService{c: c}
	return c
}

func (c *Client) Session() *Session {
	return c.session
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string   `json:"token"`
	User  Identity `json:"user"`
}

// SignIn exchanges credentials for a token and starts the session.
func (c *Client) SignIn(ctx context.Context, username, password string) (Identity, error) {
	var out loginResponse
	if err := c.do(ctx, http.MethodPost, "/login", loginRequest{Username: username, Password: password}, &out); err != nil {
		return Identity{}, err
	}
	c.session.Start(out.Token, out.User)
	return out.User, nil
}

// SignOut revokes the token on the server and ends the session. The session is ended even
// when the server call fails.
func (c *Client) SignOut(ctx context.Context) error {
	if !c.session.Active() {
		return nil
	}
	err := c.do(ctx, http.MethodPost, "/logout", nil, nil)
	c.session.End()
	if IsAuthExpired(err) {
		return nil
	}
	return err
}

// Me returns the identity the server associates with the current token.
func (c *Client) Me(ctx context.Context) (Identity, error) {
	var out Identity
	err := c.do(ctx, http.MethodGet, "/me", nil, &out)
	return out, err
}

// envelope mirrors the server's response wrapper. Detail and URL cover error bodies that
// do not use the wrapper.
type envelope struct {
	Status     string          `json:"status"`
	StatusCode *int            `json:"status_code"`
	Data       json.RawMessage `json:"data"`
	Error      string          `json:"error"`
	Detail     string          `json:"detail"`
	URL        string          `json:"url"`
}

// wrapped reports whether the body was the {status, status_code, data}
// envelope rather than a bare resource that happens to carry a status field.
func (e envelope) wrapped() bool {
	if e.StatusCode != nil {
		return true
	}
	return (e.Status == "success" || e.Status == "error") && len(e.Data) > 0
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	op := method + " " + path

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &Error{Kind: KindTransport, Op: op, Message: "failed to encode request body", Err: err}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &Error{Kind: KindTransport, Op: op, Message: "failed to build request", Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Kind: KindTransport, Op: op, Message: "no response from server", Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Kind: KindTransport, Op: op, StatusCode: resp.StatusCode, Message: "failed to read response body", Err: err}
	}

	var env envelope
	if len(bytes.TrimSpace(raw)) > 0 {
		_ = json.Unmarshal(raw, &env)
	}

	if authExpired(resp) {
		redirect := env.URL
		if redirect == "" {
			redirect = resp.Header.Get("Location")
		}
		if redirect == "" {
			redirect = DefaultSignOutURL
		}
		c.session.expire(redirect)
		return &Error{Kind: KindAuthExpired, Op: op, StatusCode: resp.StatusCode, Message: "session expired", RedirectURL: redirect}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := env.Error
		if msg == "" {
			msg = env.Detail
		}
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &Error{Kind: KindHTTP, Op: op, StatusCode: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}
	data := env.Data
	if !env.wrapped() {
		data = raw
	}
	if len(data) == 0 || string(data) == "null" {
		return &Error{Kind: KindTransport, Op: op, StatusCode: resp.StatusCode, Message: "empty response body"}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &Error{Kind: KindTransport, Op: op, StatusCode: resp.StatusCode, Message: "failed to decode response body", Err: err}
	}
	return nil
}

func authExpired(resp *http.Response) bool {
	if resp.StatusCode == http.StatusTemporaryRedirect {
		return true
	}
	return resp.StatusCode == http.StatusUnauthorized && strings.EqualFold(resp.Header.Get(ExpiredHeader), "true")
}

// deleteByID posts {<entity>_id: id} to /<entity>/delete.
func (c *Client) deleteByID(ctx context.Context, entity string, id int64) (bool, error) {
	body := map[string]int64{entity + "_id": id}
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/%s/delete", entity), body, nil); err != nil {
		return false, err
	}
	return true, nil
}
