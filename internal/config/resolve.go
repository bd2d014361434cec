package config

import (
	"golang.org/x/oauth2"

	"github.com/lnkd/linkedin-cli/internal/oauth"
)

// ClientConfig contains resolved API client settings.
type ClientConfig struct {
	Profile string
	BaseURL string
	OAuth   oauth.Config
	Token   *oauth2.Token
}

// ResolveClientConfig resolves client settings for profile. An empty
// profile means LINKEDIN_PROFILE, then the current profile.
func ResolveClientConfig(profile string) (ClientConfig, error) {
	creds, err := LoadCredentials(profile)
	if err != nil {
		return ClientConfig{}, err
	}
	if profile == "" {
		profile = ActiveProfile()
	}
	return ClientConfig{
		Profile: profile,
		BaseURL: creds.BaseURL,
		OAuth:   creds.OAuth(),
		Token:   creds.Token,
	}, nil
}

// ActiveProfile is the profile commands use without --profile:
// LINKEDIN_PROFILE, then the stored current profile, then "default".
func ActiveProfile() string {
	if p := envProfile(); p != "" {
		return p
	}
	if current, err := CurrentProfile(); err == nil {
		return current
	}
	return defaultProfile
}
