// Package registry is the HTTP client for the student registry REST API.
package registry

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

	"go.uber.org/zap"

	"github.com/noah-isme/enrollment-wizard/pkg/config"
	appErrors "github.com/noah-isme/enrollment-wizard/pkg/errors"
	"github.com/noah-isme/enrollment-wizard/pkg/middleware/requestid"
)

const maxErrorBody = 64 << 10

// Observer receives one observation per registry call.
type Observer interface {
	ObserveUpstream(operation string, status int, duration time.Duration)
}

// Client talks to the registry on behalf of the signed-in operator.
type Client struct {
	baseURL        string
	cookieName     string
	http           *http.Client
	observer       Observer
	logger         *zap.Logger
	onUnauthorized func(ctx context.Context)
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithObserver records call latency and status.
func WithObserver(o Observer) Option {
	return func(c *Client) { c.observer = o }
}

// WithUnauthorizedHook is called whenever the registry answers 401, except for CheckSession.
func WithUnauthorizedHook(fn func(ctx context.Context)) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

// NewClient constructs a Client from configuration.
func NewClient(cfg config.RegistryConfig, logger *zap.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	c := &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		cookieName: cfg.SessionCookie,
		http:       &http.Client{Timeout: timeout},
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CookieName is the session cookie forwarded to the registry.
func (c *Client) CookieName() string {
	return c.cookieName
}

// envelope is the registry's response wrapper. Some endpoints answer bare JSON.
type envelope struct {
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type call struct {
	op         string
	method     string
	path       string
	query      url.Values
	body       interface{}
	out        interface{}
	quiet401   bool
	allowEmpty bool
}

func (c *Client) do(ctx context.Context, cl call) error {
	endpoint := c.baseURL + cl.path
	if len(cl.query) > 0 {
		endpoint += "?" + cl.query.Encode()
	}

	var body io.Reader
	if cl.body != nil {
		raw, err := json.Marshal(cl.body)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "encode registry request")
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, endpoint, body)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "build registry request")
	}
	req.Header.Set("Accept", "application/json")
	if cl.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if id := requestid.FromContext(ctx); id != "" {
		req.Header.Set(requestid.HeaderKey, id)
	}
	if session := SessionFromContext(ctx); session != "" && c.cookieName != "" {
		req.AddCookie(&http.Cookie{Name: c.cookieName, Value: session})
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	duration := time.Since(start)
	if err != nil {
		c.observe(cl.op, 0, duration)
		c.logger.Warn("registry call failed",
			zap.String("operation", cl.op),
			zap.String("request_id", requestid.FromContext(ctx)),
			zap.Error(err),
		)
		return appErrors.Wrap(err, appErrors.ErrNetwork.Code, appErrors.ErrNetwork.Status, "registry unreachable")
	}
	defer resp.Body.Close()
	c.observe(cl.op, resp.StatusCode, duration)

	if resp.StatusCode >= http.StatusBadRequest {
		return c.statusError(ctx, cl, resp)
	}
	if cl.out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrNetwork.Code, appErrors.ErrNetwork.Status, "read registry response")
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		if cl.allowEmpty {
			return nil
		}
		return appErrors.Clone(appErrors.ErrUpstream, "registry returned an empty response")
	}
	if err := decode(raw, cl.out); err != nil {
		return appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "registry returned malformed JSON")
	}
	return nil
}

// decode accepts both {"data": ...} and bare payloads.
func decode(raw []byte, out interface{}) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var env envelope
		if err := json.Unmarshal(trimmed, &env); err == nil && len(env.Data) > 0 && string(env.Data) != "null" {
			return json.Unmarshal(env.Data, out)
		}
	}
	return json.Unmarshal(trimmed, out)
}

func (c *Client) statusError(ctx context.Context, cl call, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	message := upstreamMessage(raw)

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		if !cl.quiet401 && c.onUnauthorized != nil {
			c.onUnauthorized(ctx)
		}
		return appErrors.Clone(appErrors.ErrUnauthorized, "registry session expired, sign in again")
	case http.StatusForbidden:
		return appErrors.Clone(appErrors.ErrForbidden, message)
	case http.StatusNotFound:
		return appErrors.Clone(appErrors.ErrNotFound, message)
	case http.StatusConflict:
		return appErrors.Clone(appErrors.ErrConflict, message)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		e := appErrors.Clone(appErrors.ErrValidation, message)
		e.Details = map[string]interface{}{"upstreamStatus": resp.StatusCode}
		return e
	}

	if message == "" {
		message = fmt.Sprintf("registry answered %d", resp.StatusCode)
	}
	e := appErrors.Clone(appErrors.ErrUpstream, message)
	e.Details = map[string]interface{}{"upstreamStatus": resp.StatusCode, "operation": cl.op}
	c.logger.Warn("registry rejected call",
		zap.String("operation", cl.op),
		zap.Int("status", resp.StatusCode),
		zap.String("request_id", requestid.FromContext(ctx)),
	)
	return e
}

func upstreamMessage(raw []byte) string {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return ""
	}
	if env.Error != nil && env.Error.Message != "" {
		return env.Error.Message
	}
	return env.Message
}

func (c *Client) observe(op string, status int, d time.Duration) {
	if c.observer != nil {
		c.observer.ObserveUpstream(op, status, d)
	}
}

// IsUnauthorized reports whether err is the registry's 401.
func IsUnauthorized(err error) bool {
	var e *appErrors.Error
	return errors.As(err, &e) && e.Code == appErrors.ErrUnauthorized.Code
}
