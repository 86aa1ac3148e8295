// Package api is the authenticated request pipeline: one shared HTTP client
// that checks connectivity before every call, attaches the stored bearer
// token best-effort, and normalizes every failure into a single *Error.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"jobtrack/internal/logging"
	"jobtrack/internal/netcheck"
)

const (
	defaultTimeout = 15 * time.Second
	userAgent      = "jobtrack/1.0 (+local)"

	// generous: interactive traffic should never queue here
	hostReqPerSec = 5
	hostBurst     = 5
)

// TokenSource yields the current bearer token. An empty token with nil error
// means "no session"; errors are swallowed and the request goes out
// unauthenticated, since not all endpoints require auth.
type TokenSource interface {
	Get() (string, error)
}

type Config struct {
	BaseURL string
	Timeout time.Duration // zero means 15s
	Tokens  TokenSource
	Net     netcheck.Checker
	Logger  logging.Logger
}

type Client struct {
	base    *url.URL
	hc      *http.Client
	tokens  TokenSource
	net     netcheck.Checker
	limiter *hostLimiter
	log     logging.Logger
}

func New(cfg Config) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base url %q is not absolute", cfg.BaseURL)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	checker := cfg.Net
	if checker == nil {
		checker = netcheck.Static(true)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Nop{}
	}
	return &Client{
		base:    base,
		hc:      &http.Client{Timeout: timeout},
		tokens:  cfg.Tokens,
		net:     checker,
		limiter: newHostLimiter(hostReqPerSec, hostBurst),
		log:     logger,
	}, nil
}

// Get performs a GET against path (relative to the base URL) and returns the
// decoded JSON payload.
func (c *Client) Get(ctx context.Context, path string) (map[string]any, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

// Post marshals body as JSON and performs a POST against path. A nil body
// sends an empty request.
func (c *Client) Post(ctx context.Context, path string, body any) (map[string]any, error) {
	return c.do(ctx, http.MethodPost, path, body)
}

func (c *Client) do(ctx context.Context, method, path string, body any) (map[string]any, error) {
	// pre-flight: never touch the transport while offline
	if !c.net.Online(ctx) {
		c.log.Debug(ctx, "request short-circuited, device offline", "path", path)
		return nil, errNoConnectivity()
	}

	u, err := c.base.Parse(path)
	if err != nil {
		return nil, errClientSetup(fmt.Errorf("resolve %q: %w", path, err))
	}

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, errClientSetup(fmt.Errorf("encode request body: %w", err))
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), rd)
	if err != nil {
		return nil, errClientSetup(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Request-ID", uuid.NewString())

	// best-effort: a token read failure must not fail the request
	if c.tokens != nil {
		if token, err := c.tokens.Get(); err != nil {
			c.log.Debug(ctx, "token read skipped", "err", err)
		} else if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	if err := c.limiter.waitURL(ctx, u.String()); err != nil {
		return nil, errClientSetup(err)
	}

	res, err := c.hc.Do(req)
	if err != nil {
		return nil, c.classifySendFailure(ctx, err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, c.classifySendFailure(ctx, err)
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		apiErr := errServer(res.StatusCode, raw)
		c.log.Debug(ctx, "server error", "path", path, "status", apiErr.Status, "msg", apiErr.Message)
		return nil, apiErr
	}

	payload := map[string]any{}
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &payload); err != nil {
			return nil, errClientSetup(fmt.Errorf("decode response: %w", err))
		}
	}
	return payload, nil
}

// classifySendFailure runs the secondary connectivity check: a send failure
// on a live connection means the server is down; on a dead connection it is
// reclassified as plain no-connectivity.
func (c *Client) classifySendFailure(ctx context.Context, cause error) *Error {
	if errors.Is(cause, context.Canceled) || errors.Is(cause, context.DeadlineExceeded) {
		// timeouts count as "no response arrived"
		cause = fmt.Errorf("request timed out: %w", cause)
	}
	if !c.net.Online(ctx) {
		return errNoConnectivity()
	}
	return errUnreachable(cause)
}
