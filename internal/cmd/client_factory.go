package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"github.com/lnkd/linkedin-cli/internal/api"
	"github.com/lnkd/linkedin-cli/internal/config"
	"github.com/lnkd/linkedin-cli/internal/debug"
	"github.com/lnkd/linkedin-cli/internal/dryrun"
	"github.com/lnkd/linkedin-cli/internal/oauth"
	"github.com/lnkd/linkedin-cli/internal/validation"
)

// oauthEndpoint overrides the authorization server; tests point it at a
// local token endpoint.
var oauthEndpoint oauth2.Endpoint

type clientFactory struct {
	timeout   time.Duration
	userAgent string
}

func newClientFactory() *clientFactory {
	return &clientFactory{
		timeout:   flags.Timeout,
		userAgent: fmt.Sprintf("linkedin-cli/%s", version),
	}
}

// session is a client bound to the profile its credentials came from.
type session struct {
	*api.Client
	profile string
}

// authenticated resolves the active profile and binds its member token.
// A profile without a token is an authentication error.
func (f *clientFactory) authenticated(ctx context.Context) (*session, error) {
	s, cfg, err := f.resolve(ctx)
	if err != nil {
		return nil, err
	}
	if cfg.Token == nil || cfg.Token.AccessToken == "" {
		return nil, api.NewStructuredError(api.ErrUnauthorized, "no access token for profile "+cfg.Profile)
	}
	s.Authenticate(ctx, cfg.Token)
	return s, nil
}

// consumer resolves the active profile without requiring a token; the
// OAuth operations run on it.
func (f *clientFactory) consumer(ctx context.Context) (*session, error) {
	s, cfg, err := f.resolve(ctx)
	if err != nil {
		return nil, err
	}
	if cfg.Token != nil && cfg.Token.AccessToken != "" {
		s.Authenticate(ctx, cfg.Token)
	}
	return s, nil
}

// writer is authenticated, except under --dry-run where nothing is sent.
func (f *clientFactory) writer(ctx context.Context) (*session, error) {
	if dryrun.IsEnabled(ctx) {
		return f.consumer(ctx)
	}
	return f.authenticated(ctx)
}

func (f *clientFactory) resolve(ctx context.Context) (*session, config.ClientConfig, error) {
	cfg, err := config.ResolveClientConfig(flags.Profile)
	if err != nil {
		return nil, cfg, err
	}
	if cfg.BaseURL != "" {
		if err := validation.ValidateBaseURL(cfg.BaseURL); err != nil {
			return nil, cfg, fmt.Errorf("%w: base URL: %v", api.ErrInvalidArgument, err)
		}
	}
	if debug.IsEnabled(ctx) {
		slog.Debug("client config resolved", "profile", cfg.Profile, "base_url", cfg.BaseURL, "backend", config.StoreBackend())
	}
	return &session{Client: f.newClient(cfg.BaseURL, cfg.OAuth), profile: cfg.Profile}, cfg, nil
}

func (f *clientFactory) newClient(baseURL string, oc oauth.Config) *api.Client {
	if oauthEndpoint.TokenURL != "" {
		oc.Endpoint = oauthEndpoint
	}
	return api.New(api.Config{
		BaseURL:    baseURL,
		OAuth:      oc,
		HTTPClient: &http.Client{Timeout: f.timeout},
		UserAgent:  f.userAgent,
	}, nil)
}

// saveToken stores tok on the session's profile. Sessions running purely
// from environment variables have nowhere to store it.
func (s *session) saveToken(tok *oauth2.Token) (bool, error) {
	if err := config.SaveToken(s.profile, tok); err != nil {
		if errors.Is(err, config.ErrNotConfigured) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
