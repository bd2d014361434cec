package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"golang.org/x/oauth2"

	"github.com/lnkd/linkedin-cli/internal/oauth"
)

func TestCall_ForwardsRawResult(t *testing.T) {
	type requestToken struct{ key string }
	want := &requestToken{key: "rt"}
	delegate := &fakeDelegate{ops: map[string]Operation{
		"requestToken": func(context.Context, ...string) (any, error) { return want, nil },
	}}
	client := New(Config{}, delegate)

	got, err := client.Call(context.Background(), "requestToken")
	if err != nil {
		t.Fatalf("Call() error: %v", err)
	}
	if got != want {
		t.Errorf("Expected delegate result returned unchanged, got %v", got)
	}
	if client.IsAuthenticated() {
		t.Error("Expected client to stay anonymous after a non-token result")
	}
	if delegate.derived != 0 {
		t.Errorf("Expected no transport derivation, got %d", delegate.derived)
	}
}

func TestCall_PassesArguments(t *testing.T) {
	var gotArgs []string
	delegate := &fakeDelegate{ops: map[string]Operation{
		"getRedirectUrl": func(_ context.Context, args ...string) (any, error) {
			gotArgs = args
			return "https://auth", nil
		},
	}}

	got, err := New(Config{}, delegate).Call(context.Background(), "getRedirectUrl", "state-1")
	if err != nil {
		t.Fatalf("Call() error: %v", err)
	}
	if got != "https://auth" {
		t.Errorf("Unexpected result %v", got)
	}
	if len(gotArgs) != 1 || gotArgs[0] != "state-1" {
		t.Errorf("Expected args [state-1], got %v", gotArgs)
	}
}

func TestCall_TokenResultAuthenticates(t *testing.T) {
	tok := &oauth2.Token{AccessToken: "fresh"}
	delegate := &fakeDelegate{ops: map[string]Operation{
		"getAccessToken": func(context.Context, ...string) (any, error) { return tok, nil },
	}}
	client := New(Config{BaseURL: "https://api.example.com"}, delegate)

	got, err := client.Call(context.Background(), "getAccessToken", "code")
	if err != nil {
		t.Fatalf("Call() error: %v", err)
	}
	if got != tok {
		t.Error("Expected token returned unchanged")
	}
	if !client.IsAuthenticated() {
		t.Error("Expected token result to authenticate the client")
	}
	if client.Target() != "https://api.example.com" {
		t.Errorf("Expected target preserved, got %s", client.Target())
	}
}

func TestCall_ErrorLeavesStateUnchanged(t *testing.T) {
	boom := errors.New("boom")
	delegate := &fakeDelegate{ops: map[string]Operation{
		"getAccessToken": func(context.Context, ...string) (any, error) {
			return &oauth2.Token{AccessToken: "x"}, boom
		},
	}}
	client := New(Config{}, delegate)

	_, err := client.Call(context.Background(), "getAccessToken")
	if !errors.Is(err, boom) {
		t.Fatalf("Expected delegate error, got %v", err)
	}
	if client.IsAuthenticated() {
		t.Error("Expected failed call to leave client anonymous")
	}
}

func TestCall_IsAuthenticated(t *testing.T) {
	got, err := newAuthedTestClient("https://x").Call(context.Background(), OpIsAuthenticated)
	if err != nil {
		t.Fatalf("Call() error: %v", err)
	}
	if got != true {
		t.Errorf("Expected true, got %v", got)
	}

	got, _ = newTestClient("https://x").Call(context.Background(), OpIsAuthenticated)
	if got != false {
		t.Errorf("Expected false, got %v", got)
	}
}

func TestCall_UnknownOperation(t *testing.T) {
	client := New(Config{}, oauth.NewConsumer(oauth.Config{ClientID: "id"}))

	_, err := client.Call(context.Background(), "requestTokn")
	if !errors.Is(err, ErrUnknownOperation) {
		t.Fatalf("Expected ErrUnknownOperation, got %v", err)
	}
	var opErr *UnknownOperationError
	if !errors.As(err, &opErr) {
		t.Fatalf("Expected *UnknownOperationError, got %T", err)
	}
	if opErr.Name != "requestTokn" {
		t.Errorf("Expected name requestTokn, got %s", opErr.Name)
	}
	if len(opErr.Suggestions) == 0 || opErr.Suggestions[0] != "requestToken" {
		t.Errorf("Expected requestToken suggestion, got %v", opErr.Suggestions)
	}
	if !strings.HasPrefix(err.Error(), "invalid method requestTokn called") {
		t.Errorf("Unexpected message %q", err.Error())
	}
}

func TestSupportsAndOperations(t *testing.T) {
	client := New(Config{}, oauth.NewConsumer(oauth.Config{}))

	for _, name := range []string{"requestToken", "getAccessToken", OpIsAuthenticated} {
		if !client.Supports(name) {
			t.Errorf("Expected Supports(%q) to be true", name)
		}
	}
	if client.Supports("frobnicate") {
		t.Error("Expected Supports(frobnicate) to be false")
	}

	ops := client.Operations()
	if len(ops) != 8 {
		t.Errorf("Expected 8 operations, got %d: %v", len(ops), ops)
	}
	for i := 1; i < len(ops); i++ {
		if ops[i-1] > ops[i] {
			t.Errorf("Expected sorted operations, got %v", ops)
			break
		}
	}
}

func TestCall_AccessTokenExchangeEndToEnd(t *testing.T) {
	tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		if r.Form.Get("code") != "auth-code" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"exchanged","token_type":"Bearer","expires_in":3600}`))
	}))
	defer tokenServer.Close()

	var gotAuth string
	apiServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`<person><first-name>Ada</first-name></person>`))
	}))
	defer apiServer.Close()

	consumer := oauth.NewConsumer(oauth.Config{
		ClientID:     "id",
		ClientSecret: "secret",
		RedirectURL:  "http://127.0.0.1/callback",
		Endpoint: oauth2.Endpoint{
			AuthURL:   tokenServer.URL + "/authorize",
			TokenURL:  tokenServer.URL + "/token",
			AuthStyle: oauth2.AuthStyleInParams,
		},
	})
	client := New(Config{BaseURL: apiServer.URL}, consumer)

	rt, err := client.Call(context.Background(), oauth.OpRequestToken)
	if err != nil {
		t.Fatalf("requestToken error: %v", err)
	}
	state := rt.(*oauth.RequestToken).State
	authURL, err := url.Parse(rt.(*oauth.RequestToken).AuthURL)
	if err != nil {
		t.Fatalf("invalid auth URL: %v", err)
	}
	if authURL.Query().Get("state") != state {
		t.Errorf("Expected auth URL to carry state %s", state)
	}
	if client.IsAuthenticated() {
		t.Fatal("Expected client to stay anonymous after requestToken")
	}

	if _, err := client.Call(context.Background(), oauth.OpAccessToken, "auth-code", state); err != nil {
		t.Fatalf("getAccessToken error: %v", err)
	}
	if !client.IsAuthenticated() {
		t.Fatal("Expected client to be authenticated after exchange")
	}

	result, err := client.Profile(context.Background(), nil, false)
	if err != nil {
		t.Fatalf("Profile() error: %v", err)
	}
	if gotAuth != "Bearer exchanged" {
		t.Errorf("Expected exchanged bearer, got %q", gotAuth)
	}
	if result.Value("person", "first-name") != "Ada" {
		t.Errorf("Unexpected profile body %s", result.String())
	}
}
