// Package api is the HTTP client for the file server REST surface.
package api

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/HaiFongPan/fsb-cli/internal/metrics"
)

// Anti-CSRF token: the server sets a cookie and expects the same value back in a header
const (
	CSRFCookie = "anti_csrf_token"
	CSRFHeader = "anti_csrf_token"
)

// Config configures the API client
type Config struct {
	BaseURL            string
	Timeout            time.Duration // applied to JSON calls, not to transfers
	InsecureSkipVerify bool
}

// Client talks to the file server. It is safe for concurrent use.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	timeout    time.Duration
}

// New creates a client with its own cookie jar
func New(cfg Config) (*Client, error) {
	u, err := url.Parse(strings.TrimSuffix(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", cfg.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base url %q: scheme must be http or https", cfg.BaseURL)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.InsecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return &Client{
		baseURL: u,
		httpClient: &http.Client{
			Transport: transport,
			Jar:       jar,
		},
		timeout: cfg.Timeout,
	}, nil
}

// BaseURL returns the server root
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// URL builds the absolute URL of an endpoint such as "/api/file/docs/a.txt"
func (c *Client) URL(endpoint string, query url.Values) string {
	u := *c.baseURL
	u.Path = strings.TrimSuffix(c.baseURL.Path, "/") + endpoint
	u.RawPath = ""
	u.RawQuery = ""
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// Cookie returns the value of a session cookie, or "" when absent
func (c *Client) Cookie(name string) string {
	for _, ck := range c.httpClient.Jar.Cookies(c.baseURL) {
		if ck.Name == name {
			return ck.Value
		}
	}
	return ""
}

// Cookies returns the session cookies for the server as name/value pairs
func (c *Client) Cookies() map[string]string {
	out := make(map[string]string)
	for _, ck := range c.httpClient.Jar.Cookies(c.baseURL) {
		out[ck.Name] = ck.Value
	}
	return out
}

// SetCookies restores session cookies saved by an earlier run
func (c *Client) SetCookies(values map[string]string) {
	cookies := make([]*http.Cookie, 0, len(values))
	for name, value := range values {
		cookies = append(cookies, &http.Cookie{Name: name, Value: value, Path: "/"})
	}
	c.httpClient.Jar.SetCookies(c.baseURL, cookies)
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

func (c *Client) newRequest(ctx context.Context, method, endpoint string, query url.Values, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.URL(endpoint, query), body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if token := c.Cookie(CSRFCookie); token != "" {
		req.Header.Set(CSRFHeader, token)
	}
	return req, nil
}

// do executes req and turns any non-2xx status into a *StatusError
func (c *Client) do(req *http.Request, endpoint string) (*http.Response, error) {
	op := req.Method + " " + endpoint
	label := endpointLabel(endpoint)
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordRequest(req.Method, label, 0, time.Since(start).Seconds())
		logrus.WithError(err).Debugf("%s failed", op)
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	metrics.RecordRequest(req.Method, label, resp.StatusCode, time.Since(start).Seconds())
	logrus.Debugf("%s -> %d", op, resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, &StatusError{Op: op, Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	return resp, nil
}

// getJSON issues a GET and decodes the JSON body into out
func (c *Client) getJSON(ctx context.Context, endpoint string, query url.Values, out any) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	req, err := c.newRequest(ctx, http.MethodGet, endpoint, query, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.do(req, endpoint)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", endpoint, err)
	}
	return nil
}

// send issues a request carrying form values. GET and DELETE put them in the
// query string, other methods in an urlencoded body. The response text is returned.
func (c *Client) send(ctx context.Context, method, endpoint string, form url.Values) (string, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	var (
		query url.Values
		body  io.Reader
	)
	switch method {
	case http.MethodGet, http.MethodDelete:
		query = form
	default:
		if form == nil {
			form = url.Values{}
		}
		body = strings.NewReader(form.Encode())
	}

	req, err := c.newRequest(ctx, method, endpoint, query, body)
	if err != nil {
		return "", err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.do(req, endpoint)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	text, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return "", fmt.Errorf("failed to read %s response: %w", endpoint, err)
	}
	return strings.TrimSpace(string(text)), nil
}

// endpointLabel keeps the first two segments so metric labels stay bounded
func endpointLabel(endpoint string) string {
	parts := strings.SplitN(endpoint, "/", 4)
	if len(parts) < 3 {
		return endpoint
	}
	return "/" + parts[1] + "/" + parts[2]
}
