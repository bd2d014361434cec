package api

import (
	"context"
	"fmt"
)

// Draft is a write request that has been built but not sent. The write
// methods send drafts; callers previewing a write build one directly.
type Draft struct {
	Operation string
	Method    string
	Path      string
	Body      RawBody
}

// URL resolves the draft's path against the client's target.
func (c *Client) URL(d Draft) (string, error) {
	return c.requestURL(d.Path, nil)
}

// ContentType is the media type the draft's body is sent with.
func (d Draft) ContentType() string {
	_, ct := d.Body.encode()
	return ct
}

// Send issues a draft built by one of the Draft methods and reports
// whether LinkedIn created the resource.
func (c *Client) Send(ctx context.Context, d Draft) (bool, error) {
	return c.submit(ctx, d)
}

// submit sends d and maps the response to the boolean write contract.
func (c *Client) submit(ctx context.Context, d Draft) (bool, error) {
	if d.Method == "" || d.Path == "" {
		return false, fmt.Errorf("incomplete %s request", d.Operation)
	}
	resp, err := c.do(ctx, request{method: d.Method, path: d.Path, payload: d.Body})
	if err != nil {
		return false, err
	}
	return c.created(ctx, d.Operation, resp), nil
}
