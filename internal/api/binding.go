package api

import (
	"net/http"

	"golang.org/x/oauth2"
)

// AuthState is the client's authentication state.
type AuthState int

const (
	Anonymous AuthState = iota
	Authenticated
)

func (s AuthState) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "anonymous"
}

// binding is the active transport. A binding is never mutated: state
// changes produce a new binding that replaces the old one atomically.
type binding struct {
	http   *http.Client
	target string
}

func newBinding(hc *http.Client, baseURL string) *binding {
	if hc == nil {
		hc = &http.Client{Timeout: DefaultTimeout}
	}
	return &binding{http: hc, target: baseURL}
}

// state reports Authenticated iff the transport is OAuth-capable.
func (b *binding) state() AuthState {
	if b == nil || b.http == nil {
		return Anonymous
	}
	if _, ok := b.http.Transport.(*oauth2.Transport); ok {
		return Authenticated
	}
	return Anonymous
}

// authenticate is the Anonymous/Authenticated transition: given the
// current binding and a fresh credential it returns the binding to swap in.
// A nil credential leaves the state unchanged.
func authenticate(cur *binding, cred *oauth2.Token, derive func(*oauth2.Token) *http.Client) *binding {
	if cred == nil || derive == nil {
		return cur
	}
	var target string
	if cur != nil {
		target = cur.target
	}
	return newBinding(derive(cred), target)
}

// Bind replaces the active transport. The new binding always targets the
// configured base URL.
func (c *Client) Bind(hc *http.Client) {
	c.binding.Store(newBinding(hc, c.cfg.BaseURL))
}

// IsAuthenticated reports whether the bound transport carries OAuth
// credentials.
func (c *Client) IsAuthenticated() bool {
	return c.State() == Authenticated
}

// State returns the current authentication state.
func (c *Client) State() AuthState {
	return c.binding.Load().state()
}

// Target returns the URL the bound transport points at.
func (c *Client) Target() string {
	return c.binding.Load().target
}

func (c *Client) transport() *http.Client {
	return c.binding.Load().http
}
