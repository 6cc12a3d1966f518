// Package fetch downloads remote source payloads. The exchange still serves
// some endpoints from legacy TLS stacks, so the client is deliberately
// permissive: certificate and hostname verification are off and old protocol
// versions are accepted. It identifies itself with a browser-like user agent.
package fetch

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultUserAgent is the identification string sent with every request.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// NetworkError reports a failed download, carrying the URL and the cause.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("download %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Client fetches URLs with a shared HTTP client and a polite request rate.
type Client struct {
	http    *http.Client
	limiter *RateLimiter
}

// NewClient creates a client with the given timeout. When insecure is true
// (the default configuration) TLS verification is relaxed for legacy
// endpoints.
func NewClient(timeout time.Duration, insecure bool) *Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if insecure {
		transport.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: true,
			MinVersion:         tls.VersionTLS10,
		}
	}
	return &Client{
		http: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		limiter: NewRateLimiter(2, time.Second),
	}
}

// Fetch performs a GET of url and returns the raw response bytes. Failures,
// including HTTP error statuses, are reported as *NetworkError.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &NetworkError{URL: url, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &NetworkError{URL: url, Err: err}
	}
	req.Header.Set("User-Agent", DefaultUserAgent)
	req.Header.Set("Accept", "text/html, application/vnd.ms-excel, text/plain, */*")
	req.Header.Set("Accept-Language", "pl-PL,pl;q=0.9,en;q=0.8")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &NetworkError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, &NetworkError{
			URL: url,
			Err: fmt.Errorf("HTTP %s: %s", resp.Status, body),
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{URL: url, Err: err}
	}
	return data, nil
}
