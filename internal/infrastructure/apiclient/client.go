// Package apiclient is the single point through which the portal talks to
// the payments backend. It fixes the base address and attaches the current
// bearer credential to every request; it never interprets response bodies.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"

	"github.com/payments-portal/portal/internal/api/metrics"
	"github.com/payments-portal/portal/internal/core/domain"
)

const (
	defaultTimeout = 30 * time.Second
	// maxBodyBytes bounds how much of a response is buffered.
	maxBodyBytes = 10 << 20

	HeaderRequestID = "X-Request-ID"
)

// TokenSource yields the bearer token to attach, or "" for none. It is
// consulted on every request.
type TokenSource interface {
	CurrentToken() string
}

// TokenSourceFunc adapts a function to TokenSource.
type TokenSourceFunc func() string

func (f TokenSourceFunc) CurrentToken() string { return f() }

// Response is a buffered backend response. Callers own its shape.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Client issues backend calls relative to a fixed base URL.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	tokens     TokenSource
	log        zerolog.Logger
}

// Options overrides the client's collaborators.
type Options struct {
	HTTPClient *http.Client
	Timeout    time.Duration
	Logger     *zerolog.Logger
}

// New creates a client for baseURL. tokens may be nil, in which case no
// Authorization header is ever sent.
func New(baseURL string, tokens TokenSource, opts Options) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("apiclient: base URL is empty")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("apiclient: parse base URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("apiclient: unsupported scheme %q", parsed.Scheme)
	}
	// Keep a trailing slash so relative paths resolve under the base path.
	if !strings.HasSuffix(parsed.Path, "/") {
		parsed.Path += "/"
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	if tokens == nil {
		tokens = TokenSourceFunc(func() string { return "" })
	}
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}

	return &Client{
		baseURL:    parsed,
		httpClient: httpClient,
		tokens:     tokens,
		log:        log,
	}, nil
}

// BaseURL returns the resolved backend base address.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Get issues a GET to path.
func (c *Client) Get(ctx context.Context, path string) (*Response, error) {
	return c.do(ctx, http.MethodGet, path, nil, "")
}

// Post issues a POST with body encoded as JSON. A nil body sends no payload.
func (c *Client) Post(ctx context.Context, path string, body any) (*Response, error) {
	if body == nil {
		return c.do(ctx, http.MethodPost, path, nil, "")
	}
	buf, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("apiclient: encode body: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, bytes.NewReader(buf), "application/json")
}

// FilePart is the file carried by a multipart POST. ContentType defaults to
// application/octet-stream.
type FilePart struct {
	Field       string
	Filename    string
	ContentType string
	Content     io.Reader
}

// PostMultipart issues a multipart/form-data POST with one file part and
// optional plain fields.
func (c *Client) PostMultipart(ctx context.Context, path string, file FilePart, fields map[string]string) (*Response, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return nil, fmt.Errorf("apiclient: write field %s: %w", k, err)
		}
	}
	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", mime.FormatMediaType("form-data", map[string]string{
		"name":     file.Field,
		"filename": file.Filename,
	}))
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return nil, fmt.Errorf("apiclient: create file part: %w", err)
	}
	if _, err := io.Copy(part, file.Content); err != nil {
		return nil, fmt.Errorf("apiclient: copy file part: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("apiclient: close multipart: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, &buf, mw.FormDataContentType())
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string) (*Response, error) {
	target, err := c.resolve(path)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("apiclient: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	requestID := uuid.NewString()
	req.Header.Set(HeaderRequestID, requestID)

	// Queried per request so a login or logout applies to the very next call.
	if token := c.tokens.CurrentToken(); token != "" {
		(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}).SetAuthHeader(req)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	elapsed := time.Since(start)
	metrics.BackendRequestDuration.WithLabelValues(method).Observe(elapsed.Seconds())
	if err != nil {
		metrics.BackendRequestsTotal.WithLabelValues(method, "error").Inc()
		c.log.Warn().Err(err).
			Str("method", method).
			Str("path", path).
			Str("request_id", requestID).
			Dur("elapsed", elapsed).
			Msg("backend request failed")
		return nil, fmt.Errorf("%s %s: %w: %w", method, path, domain.ErrBackendUnreachable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		metrics.BackendRequestsTotal.WithLabelValues(method, "error").Inc()
		return nil, fmt.Errorf("%s %s: read body: %w: %w", method, path, domain.ErrBackendUnreachable, err)
	}

	metrics.BackendRequestsTotal.WithLabelValues(method, strconv.Itoa(resp.StatusCode)).Inc()
	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Str("request_id", requestID).
		Int("status", resp.StatusCode).
		Dur("elapsed", elapsed).
		Msg("backend request")

	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: data}, nil
}

func (c *Client) resolve(path string) (string, error) {
	rel, err := url.Parse(strings.TrimPrefix(path, "/"))
	if err != nil {
		return "", fmt.Errorf("apiclient: parse path %q: %w", path, err)
	}
	if rel.IsAbs() || rel.Host != "" {
		return "", fmt.Errorf("apiclient: path %q must be relative to the base URL", path)
	}
	return c.baseURL.ResolveReference(rel).String(), nil
}
