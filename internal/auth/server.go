package auth

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"html/template"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/lnkd/linkedin-cli/internal/validation"
)

var (
	// ErrStateMismatch is returned when the callback's state does not match
	// the one the authorization URL was issued with.
	ErrStateMismatch = errors.New("authorization callback state mismatch")
	// ErrAccessDenied is returned when the member declines the grant.
	ErrAccessDenied = errors.New("authorization denied")
)

var (
	successPage = template.Must(template.New("success").Parse(successTemplate))
	failurePage = template.Must(template.New("failure").Parse(failureTemplate))
)

// CallbackResult is what the authorization server redirected back with.
type CallbackResult struct {
	Code  string
	State string
}

// CallbackServer receives the authorization redirect on a loopback address.
type CallbackServer struct {
	listener net.Listener
	path     string
	redirect string
	state    string
	profile  string
	result   chan callbackOutcome

	// Out receives the instructions printed while waiting.
	Out io.Writer
}

type callbackOutcome struct {
	result *CallbackResult
	err    error
}

// NewCallbackServer listens on the host and port of redirectURL, which
// must be a loopback http URL. Port 0 picks a free port; RedirectURL then
// reports the bound one.
func NewCallbackServer(redirectURL, state, profile string) (*CallbackServer, error) {
	if err := validation.ValidateRedirectURL(redirectURL); err != nil {
		return nil, err
	}
	u, err := url.Parse(redirectURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redirect URL: %w", err)
	}

	listener, err := net.Listen("tcp", u.Host)
	if err != nil {
		return nil, fmt.Errorf("failed to start callback server: %w", err)
	}

	path := u.Path
	if path == "" {
		path = "/"
	}
	bound := *u
	bound.Host = net.JoinHostPort(u.Hostname(), fmt.Sprint(listener.Addr().(*net.TCPAddr).Port))

	return &CallbackServer{
		listener: listener,
		path:     path,
		redirect: bound.String(),
		state:    state,
		profile:  profile,
		result:   make(chan callbackOutcome, 1),
		Out:      os.Stdout,
	}, nil
}

// RedirectURL returns the callback URL including the bound port.
func (s *CallbackServer) RedirectURL() string {
	return s.redirect
}

// Close releases the listener of a server that will not Wait.
func (s *CallbackServer) Close() error {
	return s.listener.Close()
}

// Wait serves until the callback arrives or ctx is done. When authURL is
// non-empty it is printed and, unless openBrowser is false, opened.
func (s *CallbackServer) Wait(ctx context.Context, authURL string, openInBrowser bool) (*CallbackResult, error) {
	mux := http.NewServeMux()
	mux.HandleFunc(s.path, s.handleCallback)

	server := &http.Server{
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	go func() {
		_ = server.Serve(s.listener)
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			_ = server.Close()
		}
	}()

	if authURL != "" {
		_, _ = fmt.Fprintf(s.Out, "Open this URL in your browser to authorize:\n  %s\n", authURL)
		if openInBrowser {
			if err := openBrowser(authURL); err != nil {
				_, _ = fmt.Fprintf(os.Stderr, "Could not open browser automatically: %v\n", err)
			}
		}
	}

	select {
	case out := <-s.result:
		return out.result, out.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *CallbackServer) handleCallback(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if r.URL.Path != s.path {
		http.NotFound(w, r)
		return
	}

	q := r.URL.Query()
	if e := q.Get("error"); e != "" {
		desc := strings.TrimSpace(q.Get("error_description"))
		if desc == "" {
			desc = e
		}
		s.fail(w, http.StatusForbidden, fmt.Errorf("%w: %s", ErrAccessDenied, desc))
		return
	}
	if s.state != "" && q.Get("state") != s.state {
		s.fail(w, http.StatusBadRequest, ErrStateMismatch)
		return
	}
	code := strings.TrimSpace(q.Get("code"))
	if code == "" {
		http.Error(w, "Missing authorization code", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = successPage.Execute(w, map[string]string{"Profile": s.profile})
	s.deliver(callbackOutcome{result: &CallbackResult{Code: code, State: q.Get("state")}})
}

func (s *CallbackServer) fail(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = failurePage.Execute(w, map[string]string{"Message": err.Error()})
	s.deliver(callbackOutcome{err: err})
}

// deliver keeps the first outcome; later callbacks are ignored.
func (s *CallbackServer) deliver(out callbackOutcome) {
	select {
	case s.result <- out:
	default:
	}
}

// openBrowser opens the URL in the default browser
func openBrowser(url string) error {
	if shouldSkipAutoBrowserOpen() {
		return nil
	}

	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return fmt.Errorf("unsupported platform")
	}

	return cmd.Start()
}

func shouldSkipAutoBrowserOpen() bool {
	// Never launch a browser under `go test`.
	if flag.Lookup("test.v") != nil {
		return true
	}

	noBrowser := strings.TrimSpace(strings.ToLower(os.Getenv("LI_NO_BROWSER")))
	return noBrowser == "1" || noBrowser == "true" || noBrowser == "yes"
}
