package api

import (
	"context"
	"log/slog"
	"net/http"
	"sync/atomic"

	"golang.org/x/oauth2"

	"github.com/lnkd/linkedin-cli/internal/debug"
	"github.com/lnkd/linkedin-cli/internal/oauth"
)

// Client is the LinkedIn API client.
//
// A Client owns exactly one transport binding at a time. The binding is
// replaced atomically when the authentication state changes, but callers
// issuing authentication transitions from several goroutines must
// serialize them or use one Client per goroutine.
type Client struct {
	cfg      Config
	delegate Delegate
	binding  atomic.Pointer[binding]
}

// Compile-time interface implementation checks
var (
	_ Delegate  = (*oauth.Consumer)(nil)
	_ requester = (*Client)(nil)
)

// New creates a client. A nil delegate is replaced by an OAuth consumer
// built from cfg.OAuth. When cfg.AccessToken is set the initial transport
// is derived from it directly; otherwise the client starts anonymous.
func New(cfg Config, delegate Delegate) *Client {
	cfg = cfg.withDefaults()
	if delegate == nil {
		delegate = oauth.NewConsumer(cfg.OAuth)
	}

	c := &Client{cfg: cfg, delegate: delegate}
	if cfg.AccessToken != nil {
		c.Bind(c.inheritTimeout(oauth2.NewClient(c.oauthContext(context.Background()), cfg.AccessToken)))
	} else {
		c.Bind(cfg.HTTPClient)
	}
	return c
}

// NewFromMap is New over a loosely typed option mapping.
func NewFromMap(opts map[string]any, delegate Delegate) *Client {
	return New(ConfigFromMap(opts), delegate)
}

// BaseURL returns the API origin requests are composed on.
func (c *Client) BaseURL() string {
	return c.cfg.BaseURL
}

// Delegate returns the OAuth delegate the client forwards to.
func (c *Client) Delegate() Delegate {
	return c.delegate
}

// Authenticate derives an authenticated transport from tok and binds it.
func (c *Client) Authenticate(ctx context.Context, tok *oauth2.Token) {
	derive := func(cred *oauth2.Token) *http.Client {
		return c.inheritTimeout(c.delegate.HTTPClient(c.oauthContext(ctx), cred))
	}
	next := authenticate(c.binding.Load(), tok, derive)
	c.binding.Store(next)
	if debug.IsEnabled(ctx) {
		slog.Debug("transport rebound", "state", next.state())
	}
}

// oauthContext hands the configured base transport to x/oauth2, which
// uses it for token endpoint calls and as the base of derived clients.
func (c *Client) oauthContext(ctx context.Context) context.Context {
	if c.cfg.HTTPClient == nil {
		return ctx
	}
	return context.WithValue(ctx, oauth2.HTTPClient, c.cfg.HTTPClient)
}

// inheritTimeout applies the base transport's timeout to a freshly derived
// client that has none of its own.
func (c *Client) inheritTimeout(hc *http.Client) *http.Client {
	if hc != nil && hc.Timeout == 0 && c.cfg.HTTPClient != nil {
		hc.Timeout = c.cfg.HTTPClient.Timeout
	}
	return hc
}
