// Package oauth implements the LinkedIn OAuth consumer the API client
// delegates credential exchange to.
package oauth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/linkedin"
)

// Operation names exposed through the consumer's forwarding table.
const (
	OpRequestToken     = "requestToken"
	OpRedirectURL      = "getRedirectUrl"
	OpAuthorizationURL = "authorizationUrl"
	OpAccessToken      = "getAccessToken"
	OpAccessTokenShort = "accessToken"
	OpRefreshToken     = "refreshToken"
	OpLastRequestToken = "getLastRequestToken"
)

// DefaultScopes are the member permissions requested when none are configured.
var DefaultScopes = []string{"r_basicprofile", "r_network", "w_messages", "rw_nus"}

var (
	// ErrStateMismatch is returned when the state echoed by the callback does
	// not match the last issued request token.
	ErrStateMismatch = errors.New("oauth state mismatch")
	// ErrMissingArgument is returned when an operation is invoked without a
	// required argument.
	ErrMissingArgument = errors.New("missing operation argument")
)

// Config holds the consumer credentials.
type Config struct {
	ClientID     string   `json:"client_id"`
	ClientSecret string   `json:"client_secret"`
	RedirectURL  string   `json:"redirect_url,omitempty"`
	Scopes       []string `json:"scopes,omitempty"`
	// Endpoint overrides the LinkedIn authorization server (tests, proxies).
	Endpoint oauth2.Endpoint `json:"-"`
}

// RequestToken is the temporary credential issued at the start of a
// login: an unguessable state value bound to the authorization URL.
type RequestToken struct {
	State   string `json:"state"`
	AuthURL string `json:"auth_url"`
}

// Consumer is an OAuth 2.0 consumer for the LinkedIn authorization server.
type Consumer struct {
	conf *oauth2.Config
	ops  map[string]func(ctx context.Context, args ...string) (any, error)

	mu   sync.Mutex
	last *RequestToken
}

// NewConsumer builds a consumer from cfg. Missing scopes fall back to
// DefaultScopes and a zero endpoint to linkedin.Endpoint.
func NewConsumer(cfg Config) *Consumer {
	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = DefaultScopes
	}
	endpoint := cfg.Endpoint
	if endpoint.AuthURL == "" && endpoint.TokenURL == "" {
		endpoint = linkedin.Endpoint
	}

	c := &Consumer{
		conf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       append([]string(nil), scopes...),
			Endpoint:     endpoint,
		},
	}
	c.ops = map[string]func(ctx context.Context, args ...string) (any, error){
		OpRequestToken:     c.requestTokenOp,
		OpRedirectURL:      c.redirectURLOp,
		OpAuthorizationURL: c.redirectURLOp,
		OpAccessToken:      c.accessTokenOp,
		OpAccessTokenShort: c.accessTokenOp,
		OpRefreshToken:     c.refreshTokenOp,
		OpLastRequestToken: c.lastRequestTokenOp,
	}
	return c
}

// Operation looks up a forwardable operation by name.
func (c *Consumer) Operation(name string) (func(ctx context.Context, args ...string) (any, error), bool) {
	op, ok := c.ops[name]
	return op, ok
}

// Operations lists the names in the forwarding table, sorted.
func (c *Consumer) Operations() []string {
	names := make([]string, 0, len(c.ops))
	for name := range c.ops {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HTTPClient returns an authenticated client for tok. The token source
// refreshes through the consumer's endpoint, so the derived client outlives
// the context it was created with.
func (c *Consumer) HTTPClient(ctx context.Context, tok *oauth2.Token) *http.Client {
	return c.conf.Client(context.WithoutCancel(ctx), tok)
}

// RequestToken starts a login by issuing a fresh state and its
// authorization URL. The token is remembered for state validation.
func (c *Consumer) RequestToken(_ context.Context) (*RequestToken, error) {
	state, err := newState()
	if err != nil {
		return nil, err
	}
	rt := &RequestToken{State: state, AuthURL: c.AuthorizationURL(state)}

	c.mu.Lock()
	c.last = rt
	c.mu.Unlock()
	return rt, nil
}

// LastRequestToken returns the most recently issued request token, if any.
func (c *Consumer) LastRequestToken() *RequestToken {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

// AuthorizationURL returns the URL the member must visit to grant access.
func (c *Consumer) AuthorizationURL(state string) string {
	return c.conf.AuthCodeURL(state)
}

// AccessToken exchanges an authorization code for an access token. When
// state is non-empty it must match the last issued request token.
func (c *Consumer) AccessToken(ctx context.Context, code, state string) (*oauth2.Token, error) {
	if strings.TrimSpace(code) == "" {
		return nil, fmt.Errorf("%w: authorization code", ErrMissingArgument)
	}
	if state != "" {
		last := c.LastRequestToken()
		if last == nil || last.State != state {
			return nil, ErrStateMismatch
		}
	}
	tok, err := c.conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("code exchange failed: %w", err)
	}
	c.mu.Lock()
	c.last = nil
	c.mu.Unlock()
	return tok, nil
}

// Refresh trades a refresh token for a new access token.
func (c *Consumer) Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return nil, fmt.Errorf("%w: refresh token", ErrMissingArgument)
	}
	tok, err := c.conf.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken}).Token()
	if err != nil {
		return nil, fmt.Errorf("token refresh failed: %w", err)
	}
	return tok, nil
}

func (c *Consumer) requestTokenOp(ctx context.Context, _ ...string) (any, error) {
	return c.RequestToken(ctx)
}

func (c *Consumer) redirectURLOp(_ context.Context, args ...string) (any, error) {
	state := arg(args, 0)
	if state == "" {
		last := c.LastRequestToken()
		if last == nil {
			return nil, fmt.Errorf("%w: state (no request token issued)", ErrMissingArgument)
		}
		state = last.State
	}
	return c.AuthorizationURL(state), nil
}

func (c *Consumer) accessTokenOp(ctx context.Context, args ...string) (any, error) {
	return c.AccessToken(ctx, arg(args, 0), arg(args, 1))
}

func (c *Consumer) refreshTokenOp(ctx context.Context, args ...string) (any, error) {
	return c.Refresh(ctx, arg(args, 0))
}

func (c *Consumer) lastRequestTokenOp(_ context.Context, _ ...string) (any, error) {
	if last := c.LastRequestToken(); last != nil {
		return last, nil
	}
	return nil, nil
}

func arg(args []string, i int) string {
	if i < len(args) {
		return strings.TrimSpace(args[i])
	}
	return ""
}

func newState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate oauth state: %w", err)
	}
	return hex.EncodeToString(b), nil
}
