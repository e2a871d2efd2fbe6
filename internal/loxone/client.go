// Package loxone is the HTTP transport against the Loxone Miniserver.
package loxone

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"loxremote/internal/command"
)

// Request is a fully resolved transport request descriptor. Credentials are
// applied by the client on send.
type Request struct {
	Method string
	URL    string
}

// StatusError is an HTTP-level failure reported by the miniserver.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("miniserver returned status %d for %s", e.Code, e.URL)
}

// IsTransient reports whether an error from Send is worth a single retry.
// Connection failures, timeouts and retryable HTTP statuses qualify;
// cancellation and definitive HTTP errors (4xx) do not.
func IsTransient(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code == http.StatusTooManyRequests || statusErr.Code >= 500
	}
	return true
}

// Client wraps the miniserver HTTP API. All commands are GET requests with
// basic auth against paths relative to the base URL.
type Client struct {
	baseURL    string
	username   string
	password   string
	httpClient *http.Client
}

func NewClient(baseURL, username, password string, timeout time.Duration) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("a base URL must be supplied for the miniserver client")
	}

	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/") + "/",
		username:   username,
		password:   password,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// NewRequest builds the request descriptor for a parsed command.
func (c *Client) NewRequest(cmd command.Command) Request {
	return Request{
		Method: http.MethodGet,
		URL:    c.baseURL + cmd.Path(),
	}
}

// Send issues a request descriptor. The response body is drained so the
// underlying connection can be reused.
func (c *Client) Send(ctx context.Context, r Request) error {
	req, err := http.NewRequestWithContext(ctx, r.Method, r.URL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.SetBasicAuth(c.username, c.password)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 400 {
		return &StatusError{Code: resp.StatusCode, URL: r.URL}
	}
	return nil
}

// SendCommand dispatches one parsed command against the miniserver.
func (c *Client) SendCommand(ctx context.Context, cmd command.Command) error {
	return c.Send(ctx, c.NewRequest(cmd))
}

// Ping checks that the miniserver is reachable and accepts our credentials.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.SendCommand(ctx, command.Scene{Raw: "dev/fsget/current/"}); err != nil {
		return fmt.Errorf("failed to ping the miniserver: %w", err)
	}
	return nil
}

// FetchStructure downloads and decodes the miniserver structure file
// (LoxAPP3.json), which describes every configured control.
func (c *Client) FetchStructure(ctx context.Context, path string) (*Structure, error) {
	if path == "" {
		path = "data/LoxAPP3.json"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+strings.TrimPrefix(path, "/"), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.SetBasicAuth(c.username, c.password)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching structure: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{Code: resp.StatusCode, URL: c.baseURL + path}
	}

	var structure Structure
	if err := json.NewDecoder(resp.Body).Decode(&structure); err != nil {
		return nil, fmt.Errorf("parsing structure: %w", err)
	}
	return &structure, nil
}
