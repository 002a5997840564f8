// Package catalogclient talks to a running catalog API.
package catalogclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Envelope mirrors the API response body.
type Envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data,omitempty"`
}

// EnvelopeError is returned when the API answers with a non-200 envelope code.
type EnvelopeError struct {
	Path string
	Code int
	Msg  string
}

func (e *EnvelopeError) Error() string {
	return fmt.Sprintf("%s: code %d: %s", e.Path, e.Code, e.Msg)
}

var ErrBadStatus = errors.New("catalog: unexpected http status")

type Client struct {
	base string
	hc   *http.Client
	rl   *rate.Limiter
}

func New(base string, rps int) *Client {
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{Timeout: 20 * time.Second},
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}
}

// Post sends form as application/x-www-form-urlencoded to path.
// Writes are not idempotent, so nothing is retried.
func (c *Client) Post(ctx context.Context, path string, form map[string]string) (Envelope, error) {
	vals := url.Values{}
	for k, v := range form {
		vals.Set(k, v)
	}
	if err := c.rl.Wait(ctx); err != nil {
		return Envelope{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, strings.NewReader(vals.Encode()))
	if err != nil {
		return Envelope{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req, path)
}

// Get issues a GET with the given query parameters.
func (c *Client) Get(ctx context.Context, path string, query map[string]string) (Envelope, error) {
	vals := url.Values{}
	for k, v := range query {
		vals.Set(k, v)
	}
	u := c.base + path
	if len(vals) > 0 {
		u += "?" + vals.Encode()
	}
	if err := c.rl.Wait(ctx); err != nil {
		return Envelope{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Envelope{}, err
	}
	return c.do(req, path)
}

func (c *Client) do(req *http.Request, path string) (Envelope, error) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "cinema-catalog-seeder/1.0")

	resp, err := c.hc.Do(req)
	if err != nil {
		return Envelope{}, err
	}
	defer resp.Body.Close()

	// the server may mirror the envelope code onto the status, so 400/500
	// still carry an envelope
	switch resp.StatusCode {
	case http.StatusOK, http.StatusBadRequest, http.StatusInternalServerError:
	default:
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return Envelope{}, fmt.Errorf("%w %d: %s", ErrBadStatus, resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var env Envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return Envelope{}, fmt.Errorf("decode envelope: %w", err)
	}
	if env.Code != http.StatusOK {
		return env, &EnvelopeError{Path: path, Code: env.Code, Msg: env.Msg}
	}
	return env, nil
}
