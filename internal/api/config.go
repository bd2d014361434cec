package api

import (
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/lnkd/linkedin-cli/internal/oauth"
)

const (
	// DefaultBaseURL is the LinkedIn API origin every request is composed on.
	DefaultBaseURL = "https://api.linkedin.com"
	DefaultLocale  = "en_US"
	DefaultTimeout = 30 * time.Second
)

// Config holds the client's construction inputs. It is copied into the
// client and never modified afterwards.
type Config struct {
	BaseURL string
	// AccessToken, when set, supplies the credential for the initial
	// transport and bypasses delegate-derived binding.
	AccessToken oauth2.TokenSource
	OAuth       oauth.Config
	// HTTPClient is the anonymous transport. It is also handed to the OAuth
	// machinery as the base for authenticated transports.
	HTTPClient *http.Client
	UserAgent  string
	Locale     string
}

func (cfg Config) withDefaults() Config {
	cfg.BaseURL = strings.TrimSuffix(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if strings.TrimSpace(cfg.Locale) == "" {
		cfg.Locale = DefaultLocale
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: DefaultTimeout}
	}
	if len(cfg.OAuth.Scopes) > 0 {
		cfg.OAuth.Scopes = append([]string(nil), cfg.OAuth.Scopes...)
	}
	return cfg
}

// ConfigFromMap normalizes a loosely typed option mapping into a Config.
// Recognized keys: accessToken (oauth2.TokenSource, *oauth2.Token or a
// bare access-token string), consumerKey, consumerSecret, callbackUrl,
// scope (string or []string), baseUrl, locale, userAgent. Anything else
// is ignored and a nil map yields the zero Config.
func ConfigFromMap(opts map[string]any) Config {
	var cfg Config
	if opts == nil {
		return cfg
	}

	switch tok := opts["accessToken"].(type) {
	case oauth2.TokenSource:
		cfg.AccessToken = tok
	case *oauth2.Token:
		if tok != nil {
			cfg.AccessToken = oauth2.StaticTokenSource(tok)
		}
	case oauth2.Token:
		cfg.AccessToken = oauth2.StaticTokenSource(&tok)
	case string:
		if strings.TrimSpace(tok) != "" {
			cfg.AccessToken = oauth2.StaticTokenSource(&oauth2.Token{AccessToken: strings.TrimSpace(tok)})
		}
	}

	cfg.OAuth.ClientID = stringOpt(opts, "consumerKey")
	cfg.OAuth.ClientSecret = stringOpt(opts, "consumerSecret")
	cfg.OAuth.RedirectURL = stringOpt(opts, "callbackUrl")
	switch scope := opts["scope"].(type) {
	case string:
		cfg.OAuth.Scopes = strings.Fields(strings.ReplaceAll(scope, ",", " "))
	case []string:
		cfg.OAuth.Scopes = append([]string(nil), scope...)
	}
	cfg.BaseURL = stringOpt(opts, "baseUrl")
	cfg.Locale = stringOpt(opts, "locale")
	cfg.UserAgent = stringOpt(opts, "userAgent")
	return cfg
}

func stringOpt(opts map[string]any, key string) string {
	if s, ok := opts[key].(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}
