package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/lnkd/linkedin-cli/internal/debug"
)

const (
	ContentTypeXML  = "text/xml; charset=utf-8"
	ContentTypeForm = "application/x-www-form-urlencoded"
)

// Payload is the body of a POST or PUT. It is either RawBody or FormFields;
// each endpoint picks the variant explicitly.
type Payload interface {
	encode() ([]byte, string)
}

// RawBody is sent verbatim. An empty ContentType means ContentTypeXML.
type RawBody struct {
	Data        []byte
	ContentType string
}

func (b RawBody) encode() ([]byte, string) {
	ct := b.ContentType
	if ct == "" {
		ct = ContentTypeXML
	}
	return b.Data, ct
}

// FormFields is sent form-encoded.
type FormFields url.Values

func (f FormFields) encode() ([]byte, string) {
	return []byte(url.Values(f).Encode()), ContentTypeForm
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// request describes one outbound call. It lives for a single call.
type request struct {
	method  string
	path    string
	query   url.Values
	payload Payload
}

// requester is the verb surface endpoint operations are written against.
type requester interface {
	get(ctx context.Context, path string, query url.Values) (*Response, error)
	post(ctx context.Context, path string, payload Payload) (*Response, error)
	put(ctx context.Context, path string, payload Payload) (*Response, error)
}

func (c *Client) get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.do(ctx, request{method: http.MethodGet, path: path, query: query})
}

func (c *Client) post(ctx context.Context, path string, payload Payload) (*Response, error) {
	return c.do(ctx, request{method: http.MethodPost, path: path, payload: payload})
}

func (c *Client) put(ctx context.Context, path string, payload Payload) (*Response, error) {
	return c.do(ctx, request{method: http.MethodPut, path: path, payload: payload})
}

// requestURL composes base + path and merges the query mapping with any
// query already present on path.
func (c *Client) requestURL(path string, query url.Values) (string, error) {
	if path != "" && path[0] != '/' {
		path = "/" + path
	}
	u, err := url.Parse(c.Target() + path)
	if err != nil {
		return "", fmt.Errorf("invalid request path %q: %w", path, err)
	}
	if len(query) > 0 {
		q := u.Query()
		for k, vs := range query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// do issues exactly one request on the bound transport. Status codes are
// not inspected here.
func (c *Client) do(ctx context.Context, r request) (*Response, error) {
	target, err := c.requestURL(r.path, r.query)
	if err != nil {
		return nil, err
	}

	var (
		body        io.Reader
		contentType string
	)
	if r.payload != nil {
		data, ct := r.payload.encode()
		body = bytes.NewReader(data)
		contentType = ct
	}

	req, err := http.NewRequestWithContext(ctx, r.method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "text/xml")
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	start := time.Now()
	resp, err := c.transport().Do(req)
	if err != nil {
		if debug.IsEnabled(ctx) {
			slog.Debug("request failed", "method", r.method, "url", target, "error", err)
		}
		return nil, fmt.Errorf("request failed: %w", err)
	}
	respBody, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if debug.IsEnabled(ctx) {
		slog.Debug("request complete", "method", r.method, "url", redactQuery(target), "status", resp.StatusCode, "duration", time.Since(start))
	}

	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: respBody}, nil
}

// redactQuery drops the query string from logged URLs; search terms are
// member data.
func redactQuery(raw string) string {
	if i := strings.IndexByte(raw, '?'); i >= 0 {
		return raw[:i] + "?…"
	}
	return raw
}

// Get issues a GET for an arbitrary API path and wraps the response.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Result, error) {
	resp, err := c.get(ctx, path, query)
	if err != nil {
		return nil, err
	}
	return newResult(resp), nil
}

// Post issues a POST for an arbitrary API path and wraps the response.
func (c *Client) Post(ctx context.Context, path string, payload Payload) (*Result, error) {
	resp, err := c.post(ctx, path, payload)
	if err != nil {
		return nil, err
	}
	return newResult(resp), nil
}

// Put issues a PUT for an arbitrary API path and wraps the response.
func (c *Client) Put(ctx context.Context, path string, payload Payload) (*Result, error) {
	resp, err := c.put(ctx, path, payload)
	if err != nil {
		return nil, err
	}
	return newResult(resp), nil
}
