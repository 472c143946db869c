// Package fetch is the shared HTTP client for the Mojang and Hypixel APIs:
// pooled connections, gzip/brotli response bodies, and retry with
// exponential backoff on transport failures and 5xx responses.
package fetch

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"go.uber.org/zap"

	"craftwiz/internal/logging"
)

const (
	DefaultTimeout     = 10 * time.Second
	DefaultMaxRetries  = 3
	DefaultBackoffBase = 500 * time.Millisecond

	poolSize     = 16
	maxErrorBody = 500
)

// Options configures a Client. Zero fields take the defaults above.
type Options struct {
	Timeout     time.Duration
	MaxRetries  int
	BackoffBase time.Duration
	UserAgent   string
}

type Client struct {
	http        *http.Client
	maxRetries  int
	backoffBase time.Duration
	userAgent   string
}

func New(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = DefaultMaxRetries
	}
	if opts.BackoffBase <= 0 {
		opts.BackoffBase = DefaultBackoffBase
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "craftwiz"
	}
	return &Client{
		http: &http.Client{
			Timeout: opts.Timeout,
			Transport: &http.Transport{
				Proxy:                 http.ProxyFromEnvironment,
				ForceAttemptHTTP2:     true,
				MaxIdleConns:          poolSize,
				MaxIdleConnsPerHost:   poolSize,
				IdleConnTimeout:       90 * time.Second,
				TLSHandshakeTimeout:   5 * time.Second,
				ResponseHeaderTimeout: opts.Timeout,
				DialContext: (&net.Dialer{
					Timeout:   5 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				// bodies are decoded in readBody so brotli is covered too
				DisableCompression: true,
			},
		},
		maxRetries:  opts.MaxRetries,
		backoffBase: opts.BackoffBase,
		userAgent:   opts.UserAgent,
	}
}

// Get fetches url and returns the decoded body of a 200 response. Non-200
// responses are returned as *StatusError. Transport errors and 5xx responses
// are retried; 4xx responses are not.
func (c *Client) Get(ctx context.Context, url string, header http.Header) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := c.backoffBase * time.Duration(1<<uint(attempt-1))
			logging.Debugf("retrying %s in %s (attempt %d): %v", redact(url), backoff, attempt+1, lastErr)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		data, err := c.do(ctx, url, header)
		if err == nil {
			return data, nil
		}
		lastErr = err
		if !retryable(err) || ctx.Err() != nil {
			return nil, err
		}
	}
	logging.Warn("all retries failed", zap.String("url", redact(url)), zap.Error(lastErr))
	return nil, fmt.Errorf("all retries failed: %w", lastErr)
}

// GetJSON is Get followed by json.Unmarshal into v.
func (c *Client) GetJSON(ctx context.Context, url string, header http.Header, v any) error {
	data, err := c.Get(ctx, url, header)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse JSON from %s: %w", redact(url), err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, url string, header http.Header) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept-Encoding", "gzip, br")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	logging.Debugf("API Response: %d %s", resp.StatusCode, redact(url))

	body, err := readBody(resp)
	if resp.StatusCode != http.StatusOK {
		if err != nil {
			body = []byte(fmt.Sprintf("(failed to read response body: %v)", err))
		}
		return nil, newStatusError(resp.StatusCode, body)
	}
	if err != nil {
		return nil, err
	}
	return body, nil
}

// readBody decodes the body according to Content-Encoding.
func readBody(resp *http.Response) ([]byte, error) {
	var reader io.Reader = resp.Body
	switch resp.Header.Get("Content-Encoding") {
	case "gzip":
		zr, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		reader = zr
	case "br":
		reader = brotli.NewReader(resp.Body)
	}
	return io.ReadAll(bufio.NewReaderSize(reader, 64*1024))
}

func retryable(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code >= 500
	}
	return true
}
