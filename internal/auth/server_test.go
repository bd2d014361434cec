package auth

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCallbackServer(t *testing.T, state string) *CallbackServer {
	t.Helper()
	srv, err := NewCallbackServer("http://127.0.0.1:0/callback", state, "work")
	require.NoError(t, err)
	srv.Out = io.Discard
	return srv
}

type waitResult struct {
	result *CallbackResult
	err    error
}

func waitAsync(ctx context.Context, srv *CallbackServer, authURL string) <-chan waitResult {
	done := make(chan waitResult, 1)
	go func() {
		r, err := srv.Wait(ctx, authURL, false)
		done <- waitResult{r, err}
	}()
	return done
}

func get(t *testing.T, rawURL string) (*http.Response, string) {
	t.Helper()
	var resp *http.Response
	var err error
	// The server goroutine may not have entered Serve yet.
	for i := 0; i < 50; i++ {
		resp, err = http.Get(rawURL)
		if err == nil {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp, string(body)
}

func TestNewCallbackServer(t *testing.T) {
	t.Run("binds a free port", func(t *testing.T) {
		srv := newTestCallbackServer(t, "s")
		defer srv.Close()

		assert.True(t, strings.HasPrefix(srv.RedirectURL(), "http://127.0.0.1:"))
		assert.True(t, strings.HasSuffix(srv.RedirectURL(), "/callback"))
		assert.NotContains(t, srv.RedirectURL(), ":0/")
	})

	t.Run("rejects non-loopback redirect", func(t *testing.T) {
		_, err := NewCallbackServer("https://example.com/callback", "s", "")
		assert.Error(t, err)
	})

	t.Run("rejects malformed redirect", func(t *testing.T) {
		_, err := NewCallbackServer("::not a url", "s", "")
		assert.Error(t, err)
	})
}

func TestCallbackServer_ReceivesCode(t *testing.T) {
	srv := newTestCallbackServer(t, "expected-state")
	var out bytes.Buffer
	srv.Out = &out

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	done := waitAsync(ctx, srv, "https://www.linkedin.com/oauth/v2/authorization?state=expected-state")

	resp, body := get(t, srv.RedirectURL()+"?code=abc&state=expected-state")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Authorization received")
	assert.Contains(t, body, "<code>work</code>")

	got := <-done
	require.NoError(t, got.err)
	assert.Equal(t, "abc", got.result.Code)
	assert.Equal(t, "expected-state", got.result.State)
	assert.Contains(t, out.String(), "https://www.linkedin.com/oauth/v2/authorization")
}

func TestCallbackServer_StateMismatch(t *testing.T) {
	srv := newTestCallbackServer(t, "expected-state")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	done := waitAsync(ctx, srv, "")

	resp, body := get(t, srv.RedirectURL()+"?code=abc&state=forged")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "Authorization failed")

	got := <-done
	assert.True(t, errors.Is(got.err, ErrStateMismatch))
	assert.Nil(t, got.result)
}

func TestCallbackServer_AccessDenied(t *testing.T) {
	srv := newTestCallbackServer(t, "s")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	done := waitAsync(ctx, srv, "")

	resp, body := get(t, srv.RedirectURL()+"?error=user_cancelled_authorize&error_description=The+user+cancelled&state=s")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Contains(t, body, "The user cancelled")

	got := <-done
	require.Error(t, got.err)
	assert.ErrorIs(t, got.err, ErrAccessDenied)
}

func TestCallbackServer_MissingCodeKeepsWaiting(t *testing.T) {
	srv := newTestCallbackServer(t, "s")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	done := waitAsync(ctx, srv, "")

	resp, _ := get(t, srv.RedirectURL()+"?state=s")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = get(t, srv.RedirectURL()+"?state=s&code=late")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	got := <-done
	require.NoError(t, got.err)
	assert.Equal(t, "late", got.result.Code)
}

func TestCallbackServer_ContextCanceled(t *testing.T) {
	srv := newTestCallbackServer(t, "s")
	ctx, cancel := context.WithCancel(context.Background())
	done := waitAsync(ctx, srv, "")
	cancel()

	got := <-done
	assert.ErrorIs(t, got.err, context.Canceled)
}

func TestCallbackServer_RejectsWrongMethodAndPath(t *testing.T) {
	srv := newTestCallbackServer(t, "s")
	rec := httptest.NewRecorder()
	srv.handleCallback(rec, httptest.NewRequest(http.MethodPost, "/callback", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = httptest.NewRecorder()
	srv.handleCallback(rec, httptest.NewRequest(http.MethodGet, "/other?code=x", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	_ = srv.Close()
}

func TestShouldSkipAutoBrowserOpen(t *testing.T) {
	assert.True(t, shouldSkipAutoBrowserOpen(), "always skipped under go test")
	assert.NoError(t, openBrowser("http://127.0.0.1/"))
}
