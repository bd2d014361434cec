package cmd

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lnkd/linkedin-cli/internal/config"
)

func TestOAuthOperations(t *testing.T) {
	out := mustRun(t, "oauth", "operations", "-o", "json")

	var list struct {
		Operations []string `json:"operations"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	assert.Contains(t, list.Operations, "requestToken")
	assert.Contains(t, list.Operations, "getAccessToken")
	assert.Contains(t, list.Operations, "refreshToken")
	assert.Contains(t, list.Operations, "isAuthenticated")
}

func TestOAuthCall_IsAuthenticated(t *testing.T) {
	setupTestEnv(t, newRouteHandler())

	out := mustRun(t, "oauth", "call", "isAuthenticated")
	assert.Equal(t, "true\n", out)

	t.Setenv("LINKEDIN_ACCESS_TOKEN", "")
	out = mustRun(t, "oauth", "call", "isAuthenticated")
	assert.Equal(t, "false\n", out)
}

func TestOAuthCall_RequestToken(t *testing.T) {
	env := setupTestEnv(t, newRouteHandler())
	withTokenEndpoint(t, env)
	t.Setenv("LINKEDIN_CLIENT_ID", "cid")
	t.Setenv("LINKEDIN_CLIENT_SECRET", "csecret")
	t.Setenv("LINKEDIN_REDIRECT_URL", "http://127.0.0.1:9999/callback")

	out := mustRun(t, "oauth", "call", "requestToken", "-o", "json")
	var call struct {
		Operation string `json:"operation"`
		Result    struct {
			State   string `json:"state"`
			AuthURL string `json:"auth_url"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &call))
	assert.Equal(t, "requestToken", call.Operation)
	require.NotEmpty(t, call.Result.State)

	u, err := url.Parse(call.Result.AuthURL)
	require.NoError(t, err)
	assert.Equal(t, call.Result.State, u.Query().Get("state"))
	assert.Equal(t, "cid", u.Query().Get("client_id"))
	assert.Equal(t, "http://127.0.0.1:9999/callback", u.Query().Get("redirect_uri"))
}

func TestOAuthCall_UnknownOperation(t *testing.T) {
	setupTestEnv(t, newRouteHandler())

	res := run(t, "", "oauth", "call", "refreshTokn")
	require.Error(t, res.err)
	assert.Equal(t, exitUsage, ExitCode(res.err))
	assert.Contains(t, res.stderr, "invalid method refreshTokn called")
	assert.Contains(t, res.stderr, "refreshToken")
}

func TestOAuthCall_MissingArgument(t *testing.T) {
	setupTestEnv(t, newRouteHandler())

	res := run(t, "", "oauth", "call", "getAccessToken")
	require.Error(t, res.err)
	assert.Equal(t, exitUsage, ExitCode(res.err))
}

func TestOAuthCall_RefreshSavesToken(t *testing.T) {
	h := newRouteHandler().On(http.MethodPost, tokenPath, tokenJSON("refreshed-token-99"))
	env := setupTestEnv(t, h)
	withTokenEndpoint(t, env)

	mustRun(t, "auth", "login", "--token", "old-token", "--client-id", "cid", "--client-secret", "csecret")

	res := run(t, "", "oauth", "call", "refreshToken", "refresh-0")
	require.NoError(t, res.err, res.stderr)
	assert.Contains(t, res.stdout, "Access token: refr…n-99")
	assert.Contains(t, res.stderr, `Token stored on profile "default"`)

	form, err := url.ParseQuery(h.last(t, tokenPath).Body)
	require.NoError(t, err)
	assert.Equal(t, "refresh_token", form.Get("grant_type"))
	assert.Equal(t, "refresh-0", form.Get("refresh_token"))

	creds, err := config.LoadProfile("default")
	require.NoError(t, err)
	assert.Equal(t, "refreshed-token-99", creds.Token.AccessToken)
	assert.Equal(t, "cid", creds.ClientID)
}

func TestOAuthCall_EnvOnlyDoesNotSave(t *testing.T) {
	h := newRouteHandler().On(http.MethodPost, tokenPath, tokenJSON("fresh"))
	env := setupTestEnv(t, h)
	withTokenEndpoint(t, env)
	t.Setenv("LINKEDIN_ACCESS_TOKEN", "env-token")

	out := mustRun(t, "oauth", "call", "refreshToken", "r", "-o", "json")
	assert.False(t, strings.Contains(out, `"saved"`))
}
