// Package client calls the account backend over HTTP.
//
// Transport failures and an open circuit breaker surface as
// ecode.ErrNetworkUnavailable so callers can tell "no answer" apart from
// "rejected". A 401 on an authenticated call surfaces as
// ecode.ErrSessionExpired. Calls are never retried.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ncobase/accountdesk/config"
	"github.com/ncobase/accountdesk/consts"
	"github.com/ncobase/accountdesk/ecode"
	"github.com/ncobase/accountdesk/logging/logger"
	"github.com/sony/gobreaker"
)

// TokenSource supplies the bearer token for authenticated calls
type TokenSource interface {
	Token() string
}

// TokenFunc adapts a function to TokenSource
type TokenFunc func() string

func (f TokenFunc) Token() string { return f() }

// Client is the backend API client
type Client struct {
	base    string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
	tokens  TokenSource
	log     *logger.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option { return func(c *Client) { c.http = hc } }

// WithTokenSource sets the bearer token source
func WithTokenSource(ts TokenSource) Option { return func(c *Client) { c.tokens = ts } }

// WithLogger sets the logger
func WithLogger(l *logger.Logger) Option { return func(c *Client) { c.log = l } }

// New creates a client for cfg.BaseURL
func New(cfg *config.API, opts ...Option) *Client {
	if cfg == nil {
		cfg = &config.API{}
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	c := &Client{
		base:    strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		breaker: newBreaker(cfg.Breaker),
		tokens:  TokenFunc(func() string { return "" }),
		log:     logger.StdLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetTokenSource sets the bearer token source after construction
func (c *Client) SetTokenSource(ts TokenSource) { c.tokens = ts }

// BaseURL returns the backend base URL
func (c *Client) BaseURL() string { return c.base }

// BreakerState reports the circuit breaker state
func (c *Client) BreakerState() string { return c.breaker.State().String() }

func newBreaker(cfg *config.Breaker) *gobreaker.CircuitBreaker {
	if cfg == nil {
		cfg = &config.Breaker{MaxRequests: 1, Interval: 5 * time.Second, Timeout: 3 * time.Second, MinRequests: 3, FailureThreshold: 0.6}
	}
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "account-api",
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= cfg.MinRequests && failureRatio >= cfg.FailureThreshold
		},
		IsSuccessful: func(err error) bool {
			var te *transportError
			return err == nil || !errors.As(err, &te)
		},
	})
}

// transportError marks failures that count against the breaker
type transportError struct{ err error }

func (e *transportError) Error() string { return e.err.Error() }
func (e *transportError) Unwrap() error { return e.err }

// errorBody is the backend's failure payload
type errorBody struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

type request struct {
	method string
	path   string
	query  url.Values
	body   any
	auth   bool
}

func (c *Client) do(ctx context.Context, r request, out any) error {
	var payload io.Reader
	if r.body != nil {
		raw, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("client: encode %s: %w", r.path, err)
		}
		payload = bytes.NewReader(raw)
	}

	target := c.base + r.path
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, r.method, target, payload)
	if err != nil {
		return fmt.Errorf("client: build %s: %w", r.path, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.auth {
		if tok := c.tokens.Token(); tok != "" {
			req.Header.Set(consts.AuthorizationKey, consts.BearerKey+tok)
		}
	}

	res, err := c.breaker.Execute(func() (any, error) {
		resp, err := c.http.Do(req)
		if err != nil {
			return nil, &transportError{err: err}
		}
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, &transportError{err: err}
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			return nil, &transportError{err: decodeError(resp.StatusCode, body)}
		}
		return &response{status: resp.StatusCode, body: body}, nil
	})
	if err != nil {
		var te *transportError
		if errors.As(err, &te) {
			var coded *ecode.Error
			if errors.As(te.err, &coded) && coded.Code != ecode.ServiceUnavailable {
				return coded
			}
		}
		c.log.Warn(ctx, "Backend unreachable", "method", r.method, "path", r.path, "error", err)
		return ecode.Wrap(ecode.NetworkUnavailable, err)
	}

	rs := res.(*response)
	if rs.status >= http.StatusBadRequest {
		if rs.status == http.StatusUnauthorized && r.auth {
			return ecode.Wrap(ecode.SessionExpired, decodeError(rs.status, rs.body))
		}
		return decodeError(rs.status, rs.body)
	}
	if out == nil || len(rs.body) == 0 {
		return nil
	}
	if err := json.Unmarshal(rs.body, out); err != nil {
		return fmt.Errorf("client: decode %s: %w", r.path, err)
	}
	return nil
}

type response struct {
	status int
	body   []byte
}

// decodeError maps a failure body back onto the error taxonomy
func decodeError(status int, body []byte) error {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil || eb.Code == 0 {
		return ecode.New(codeForStatus(status), strings.TrimSpace(eb.Message))
	}
	if eb.Code == ecode.ValidationFailed && len(eb.Errors) > 0 {
		return ecode.NewValidationError(eb.Errors)
	}
	return ecode.FromCode(eb.Code, eb.Message)
}

func codeForStatus(status int) int {
	switch status {
	case http.StatusUnauthorized:
		return ecode.NoLogin
	case http.StatusForbidden:
		return ecode.AccessDenied
	case http.StatusNotFound:
		return ecode.NotFound
	case http.StatusConflict:
		return ecode.Conflict
	case http.StatusTooManyRequests:
		return ecode.TooManyRequests
	case http.StatusServiceUnavailable:
		return ecode.ServiceUnavailable
	case http.StatusUnprocessableEntity:
		return ecode.ValidationFailed
	}
	if status >= http.StatusInternalServerError {
		return ecode.ServerErr
	}
	return ecode.RequestErr
}
