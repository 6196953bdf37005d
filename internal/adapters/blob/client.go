package blob

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"lodgeiq/internal/adapters/observability"
)

var (
	ErrNotFound     = errors.New("blob: not found")
	ErrUnauthorized = errors.New("blob: unauthorized")
	ErrForbidden    = errors.New("blob: forbidden")
)

// Client talks to the blob store over HTTP: PUT base/{key} stores an object,
// GET base?prefix= lists keys, DELETE base/{key} removes one. Objects are
// publicly readable at base/{key}.
type Client struct {
	base  string
	hc    *http.Client
	token string
	rl    *rate.Limiter
}

func New(base, token string, rps int) (*Client, error) {
	if base == "" {
		return nil, fmt.Errorf("blob base URL is required")
	}
	if rps <= 0 {
		rps = 10
	}
	return &Client{
		base:  strings.TrimRight(base, "/"),
		hc:    &http.Client{Timeout: 30 * time.Second},
		token: token,
		rl:    rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

// Put stores an object and returns its public URL.
func (c *Client) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	u := c.keyURL(key)
	err := c.do(ctx, "put", func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPut, u, bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", contentType)
		return req, nil
	}, nil)
	if err != nil {
		return "", err
	}
	return u, nil
}

func (c *Client) List(ctx context.Context, prefix string) ([]string, error) {
	u := c.base + "?prefix=" + url.QueryEscape(prefix)
	var keys []string
	err := c.do(ctx, "list", func() (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	}, &keys)
	return keys, err
}

func (c *Client) Delete(ctx context.Context, key string) error {
	return c.do(ctx, "delete", func() (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodDelete, c.keyURL(key), nil)
	})
}

// KeyFromURL maps a public object URL back to its key, for diffing stored
// photo URLs against listed keys.
func (c *Client) KeyFromURL(u string) (string, bool) {
	if !strings.HasPrefix(u, c.base+"/") {
		return "", false
	}
	return strings.TrimPrefix(u, c.base+"/"), true
}

func (c *Client) keyURL(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return c.base + "/" + strings.Join(parts, "/")
}

// do runs a request with client-side rate limiting and bounded retries on
// 429/5xx, honoring Retry-After. Request bodies are rebuilt per attempt.
func (c *Client) do(ctx context.Context, op string, build func() (*http.Request, error), out ...any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}

	var lastErr error
	for i := 0; i < 4; i++ {
		req, err := build()
		if err != nil {
			return err
		}
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}
		req.Header.Set("Accept", "application/json")

		start := time.Now()
		resp, err := c.hc.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = err
			if i < 3 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			return lastErr
		}
		observability.ObserveBlob(op, resp.StatusCode, time.Since(start))

		switch resp.StatusCode {
		case http.StatusOK, http.StatusCreated:
			defer resp.Body.Close()
			if len(out) > 0 && out[0] != nil {
				return json.NewDecoder(resp.Body).Decode(out[0])
			}
			_, _ = io.Copy(io.Discard, resp.Body)
			return nil

		case http.StatusNoContent:
			_, _ = io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			return nil

		case http.StatusNotFound:
			resp.Body.Close()
			return ErrNotFound

		case http.StatusUnauthorized:
			resp.Body.Close()
			return ErrUnauthorized

		case http.StatusForbidden:
			resp.Body.Close()
			return ErrForbidden

		case http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			wait := retryAfter(resp)
			resp.Body.Close()
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = fmt.Errorf("blob: remote %d", resp.StatusCode)
			if i < 3 && sleepCtx(ctx, wait) {
				continue
			}
			return lastErr

		default:
			resp.Body.Close()
			return fmt.Errorf("blob: unexpected status %d", resp.StatusCode)
		}
	}
	return lastErr
}

func backoff(attempt int) time.Duration {
	return time.Duration(1<<attempt) * 250 * time.Millisecond
}

// sleepCtx sleeps for d unless ctx is done first; reports whether to retry.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func retryAfter(resp *http.Response) time.Duration {
	v := resp.Header.Get("Retry-After")
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return 0
}
