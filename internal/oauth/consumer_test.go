package oauth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func newTokenServer(t *testing.T, wantGrant string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("ParseForm: %v", err)
		}
		if got := r.PostForm.Get("grant_type"); got != wantGrant {
			t.Errorf("grant_type = %q, want %q", got, wantGrant)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"at-123","token_type":"bearer","refresh_token":"rt-9","expires_in":3600}`))
	}))
}

func testConsumer(tokenURL string) *Consumer {
	return NewConsumer(Config{
		ClientID:     "client",
		ClientSecret: "secret",
		RedirectURL:  "http://127.0.0.1:8765/callback",
		Endpoint: oauth2.Endpoint{
			AuthURL:   "https://auth.example.com/authorize",
			TokenURL:  tokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	})
}

func TestNewConsumer_Defaults(t *testing.T) {
	c := NewConsumer(Config{ClientID: "id"})
	assert.Equal(t, DefaultScopes, c.conf.Scopes)
	assert.Contains(t, c.conf.Endpoint.AuthURL, "linkedin.com")
}

func TestRequestToken_IssuesStateAndURL(t *testing.T) {
	c := testConsumer("https://auth.example.com/token")

	rt, err := c.RequestToken(context.Background())
	require.NoError(t, err)
	assert.Len(t, rt.State, 32)

	u, err := url.Parse(rt.AuthURL)
	require.NoError(t, err)
	assert.Equal(t, rt.State, u.Query().Get("state"))
	assert.Equal(t, "client", u.Query().Get("client_id"))
	assert.Equal(t, "http://127.0.0.1:8765/callback", u.Query().Get("redirect_uri"))
	assert.Same(t, rt, c.LastRequestToken())
}

func TestOperationTable(t *testing.T) {
	c := testConsumer("https://auth.example.com/token")

	for _, name := range []string{OpRequestToken, OpRedirectURL, OpAuthorizationURL, OpAccessToken, OpAccessTokenShort, OpRefreshToken, OpLastRequestToken} {
		_, ok := c.Operation(name)
		assert.True(t, ok, "operation %s", name)
	}
	_, ok := c.Operation("signRequest")
	assert.False(t, ok)
	assert.Len(t, c.Operations(), 7)
}

func TestRedirectURLOp_UsesLastState(t *testing.T) {
	c := testConsumer("https://auth.example.com/token")
	op, _ := c.Operation(OpRedirectURL)

	_, err := op(context.Background())
	assert.ErrorIs(t, err, ErrMissingArgument)

	rt, err := c.RequestToken(context.Background())
	require.NoError(t, err)

	got, err := op(context.Background())
	require.NoError(t, err)
	assert.Equal(t, rt.AuthURL, got)
}

func TestAccessToken_Exchange(t *testing.T) {
	server := newTokenServer(t, "authorization_code")
	defer server.Close()

	c := testConsumer(server.URL)
	rt, err := c.RequestToken(context.Background())
	require.NoError(t, err)

	op, _ := c.Operation(OpAccessToken)
	got, err := op(context.Background(), "the-code", rt.State)
	require.NoError(t, err)

	tok, ok := got.(*oauth2.Token)
	require.True(t, ok, "result should be *oauth2.Token, got %T", got)
	assert.Equal(t, "at-123", tok.AccessToken)
	assert.Equal(t, "rt-9", tok.RefreshToken)
	assert.Nil(t, c.LastRequestToken())
}

func TestAccessToken_StateMismatch(t *testing.T) {
	c := testConsumer("https://auth.example.com/token")
	_, err := c.RequestToken(context.Background())
	require.NoError(t, err)

	_, err = c.AccessToken(context.Background(), "code", "forged")
	assert.True(t, errors.Is(err, ErrStateMismatch))
}

func TestAccessToken_MissingCode(t *testing.T) {
	c := testConsumer("https://auth.example.com/token")
	_, err := c.AccessToken(context.Background(), " ", "")
	assert.ErrorIs(t, err, ErrMissingArgument)
}

func TestAccessToken_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
	}))
	defer server.Close()

	c := testConsumer(server.URL)
	_, err := c.AccessToken(context.Background(), "code", "")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "code exchange failed"))
}

func TestRefresh(t *testing.T) {
	server := newTokenServer(t, "refresh_token")
	defer server.Close()

	c := testConsumer(server.URL)
	tok, err := c.Refresh(context.Background(), "rt-1")
	require.NoError(t, err)
	assert.Equal(t, "at-123", tok.AccessToken)
}

func TestHTTPClient_IsOAuthTransport(t *testing.T) {
	c := testConsumer("https://auth.example.com/token")
	hc := c.HTTPClient(context.Background(), &oauth2.Token{AccessToken: "x"})
	_, ok := hc.Transport.(*oauth2.Transport)
	assert.True(t, ok)
}
