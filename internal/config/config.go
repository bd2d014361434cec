package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/99designs/keyring"
	"golang.org/x/oauth2"

	"github.com/lnkd/linkedin-cli/internal/oauth"
)

const (
	serviceName       = "linkedin-cli"
	defaultProfile    = "default"
	profilePrefix     = "profile:"
	profileIndexKey   = "profiles_index"
	currentProfileKey = "current_profile"

	envKeyringBackend  = "LI_KEYRING_BACKEND"
	envKeyringPassword = "LI_KEYRING_PASSWORD"
	envCredentialsDir  = "LI_CREDENTIALS_DIR"
	envRedisURL        = "LINKEDIN_REDIS_URL"

	EnvClientID     = "LINKEDIN_CLIENT_ID"
	EnvClientSecret = "LINKEDIN_CLIENT_SECRET"
	EnvRedirectURL  = "LINKEDIN_REDIRECT_URL"
	EnvAccessToken  = "LINKEDIN_ACCESS_TOKEN"
	EnvBaseURL      = "LINKEDIN_API_BASE_URL"
	EnvProfile      = "LINKEDIN_PROFILE"

	keyringBackendAuto   = "auto"
	keyringBackendFile   = "file"
	keyringBackendSystem = "system"
)

// openKeyring is a package-level function for opening keyrings.
// It can be replaced in tests to use a mock keyring.
var openKeyring = func(cfg keyring.Config) (keyring.Keyring, error) {
	return keyring.Open(cfg)
}

var userConfigDir = os.UserConfigDir

var stdinHasTTY = func() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}

// SetOpenKeyring allows replacing the keyring opener for testing.
// Returns a cleanup function that restores the original.
func SetOpenKeyring(fn func(keyring.Config) (keyring.Keyring, error)) func() {
	original := openKeyring
	openKeyring = fn
	return func() { openKeyring = original }
}

// Credentials is what a profile stores: the consumer registration and the
// member token obtained with it.
type Credentials struct {
	ClientID     string        `json:"client_id"`
	ClientSecret string        `json:"client_secret"`
	RedirectURL  string        `json:"redirect_url,omitempty"`
	Scopes       []string      `json:"scopes,omitempty"`
	BaseURL      string        `json:"base_url,omitempty"`
	Token        *oauth2.Token `json:"token,omitempty"`
}

// OAuth returns the consumer configuration for c.
func (c Credentials) OAuth() oauth.Config {
	return oauth.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		RedirectURL:  c.RedirectURL,
		Scopes:       append([]string(nil), c.Scopes...),
	}
}

// HasToken reports whether a member token is stored.
func (c Credentials) HasToken() bool {
	return c.Token != nil && c.Token.AccessToken != ""
}

// ErrNotConfigured is returned when no profile is stored
var ErrNotConfigured = errors.New("linkedin not configured - run 'li auth login' first")

// keyringConfig returns the keyring configuration
func keyringConfig() keyring.Config {
	cfg := keyring.Config{
		ServiceName: serviceName,
	}

	backend := keyringBackendMode()
	if backend == keyringBackendSystem {
		return cfg
	}

	configureFileBackend(&cfg)

	// Headless Linux has no secret service; go straight to the file backend.
	if shouldForceFileBackend(runtime.GOOS, backend, os.Getenv("DBUS_SESSION_BUS_ADDRESS")) {
		cfg.AllowedBackends = []keyring.BackendType{keyring.FileBackend}
	}

	return cfg
}

func keyringBackendMode() string {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(envKeyringBackend))) {
	case keyringBackendFile:
		return keyringBackendFile
	case keyringBackendSystem, "os", "native":
		return keyringBackendSystem
	default:
		return keyringBackendAuto
	}
}

func shouldForceFileBackend(goos, backend, dbusAddr string) bool {
	if backend == keyringBackendFile {
		return true
	}
	if backend != keyringBackendAuto {
		return false
	}
	return goos == "linux" && strings.TrimSpace(dbusAddr) == ""
}

func configureFileBackend(cfg *keyring.Config) {
	cfg.FileDir = filepath.Join(Dir(), "keyring")
	cfg.FilePasswordFunc = keyringFilePassword
}

// Dir returns the directory for linkedin-cli files.
func Dir() string {
	if dir := strings.TrimSpace(os.Getenv(envCredentialsDir)); dir != "" {
		return dir
	}
	if dir, err := userConfigDir(); err == nil && strings.TrimSpace(dir) != "" {
		return filepath.Join(dir, serviceName)
	}
	if home, err := os.UserHomeDir(); err == nil && strings.TrimSpace(home) != "" {
		return filepath.Join(home, ".config", serviceName)
	}
	return filepath.Join(os.TempDir(), serviceName)
}

func keyringFilePassword(prompt string) (string, error) {
	if password, ok := os.LookupEnv(envKeyringPassword); ok && strings.TrimSpace(password) != "" {
		return password, nil
	}
	if !stdinHasTTY() {
		return "", fmt.Errorf("set %s when using file keyring in non-interactive environments", envKeyringPassword)
	}
	return keyring.TerminalPrompt(prompt)
}

func profileKey(name string) string {
	if name == "" {
		name = defaultProfile
	}
	return profilePrefix + name
}

func loadProfileIndex(store Store) ([]string, error) {
	data, err := store.Get(profileIndexKey)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to get profile index: %w", err)
	}
	var profiles []string
	if err := json.Unmarshal(data, &profiles); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile index: %w", err)
	}
	return profiles, nil
}

func saveProfileIndex(store Store, profiles []string) error {
	data, err := json.Marshal(profiles)
	if err != nil {
		return fmt.Errorf("failed to marshal profile index: %w", err)
	}
	return store.Set(profileIndexKey, data)
}

func normalizeProfiles(profiles []string) []string {
	seen := make(map[string]struct{}, len(profiles))
	var out []string
	for _, p := range profiles {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

// SaveProfile stores credentials under a named profile and makes it current.
func SaveProfile(profile string, creds Credentials) error {
	if profile == "" {
		profile = defaultProfile
	}

	store, err := openStore()
	if err != nil {
		return err
	}

	data, err := json.Marshal(creds)
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}
	if err := store.Set(profileKey(profile), data); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}

	profiles, err := loadProfileIndex(store)
	if err != nil {
		return err
	}
	if err := saveProfileIndex(store, normalizeProfiles(append(profiles, profile))); err != nil {
		return err
	}

	return setCurrentProfile(store, profile)
}

// SaveToken replaces the token of an existing profile, leaving the rest of
// its credentials as they are.
func SaveToken(profile string, tok *oauth2.Token) error {
	creds, err := LoadProfile(profile)
	if err != nil {
		return err
	}
	creds.Token = tok
	return SaveProfile(profile, creds)
}

// LoadProfile retrieves credentials for a named profile
func LoadProfile(profile string) (Credentials, error) {
	if profile == "" {
		profile = defaultProfile
	}

	store, err := openStore()
	if err != nil {
		return Credentials{}, err
	}

	data, err := store.Get(profileKey(profile))
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return Credentials{}, ErrNotConfigured
		}
		return Credentials{}, fmt.Errorf("failed to get profile: %w", err)
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return Credentials{}, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	return creds, nil
}

// LoadCredentials resolves the credentials for profile (or the
// LINKEDIN_PROFILE / current profile when empty) and applies environment
// overrides. LINKEDIN_ACCESS_TOKEN alone is enough to run without any
// stored profile.
func LoadCredentials(profile string) (Credentials, error) {
	if profile == "" {
		profile = envProfile()
	}

	var creds Credentials
	var loadErr error
	if profile != "" {
		creds, loadErr = LoadProfile(profile)
	} else if current, err := CurrentProfile(); err == nil {
		creds, loadErr = LoadProfile(current)
	} else {
		loadErr = err
	}

	overridden := applyEnv(&creds)
	if loadErr != nil {
		if (overridden && errors.Is(loadErr, ErrNotConfigured)) || creds.HasToken() {
			return creds, nil
		}
		return Credentials{}, loadErr
	}
	return creds, nil
}

// applyEnv overlays the LINKEDIN_* variables and reports whether any was set.
func applyEnv(creds *Credentials) bool {
	set := false
	overlay := func(key string, dst *string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
			set = true
		}
	}
	overlay(EnvClientID, &creds.ClientID)
	overlay(EnvClientSecret, &creds.ClientSecret)
	overlay(EnvRedirectURL, &creds.RedirectURL)
	overlay(EnvBaseURL, &creds.BaseURL)
	if tok := strings.TrimSpace(os.Getenv(EnvAccessToken)); tok != "" {
		creds.Token = &oauth2.Token{AccessToken: tok, TokenType: "Bearer"}
		set = true
	}
	creds.BaseURL = strings.TrimSuffix(creds.BaseURL, "/")
	return set
}

// DeleteProfile removes a stored profile
func DeleteProfile(profile string) error {
	if profile == "" {
		profile = defaultProfile
	}

	store, err := openStore()
	if err != nil {
		return err
	}

	if err := store.Remove(profileKey(profile)); err != nil && !errors.Is(err, ErrKeyNotFound) {
		return fmt.Errorf("failed to remove profile: %w", err)
	}

	profiles, err := loadProfileIndex(store)
	if err != nil {
		return err
	}
	var remaining []string
	for _, p := range profiles {
		if p != profile {
			remaining = append(remaining, p)
		}
	}
	if err := saveProfileIndex(store, remaining); err != nil {
		return err
	}

	current, err := currentProfile(store)
	if err == nil && current == profile {
		next := defaultProfile
		if len(remaining) > 0 {
			next = remaining[0]
		}
		_ = setCurrentProfile(store, next)
	}

	return nil
}

// ListProfiles returns the known profile names
func ListProfiles() ([]string, error) {
	store, err := openStore()
	if err != nil {
		return nil, err
	}
	return loadProfileIndex(store)
}

// CurrentProfile returns the active profile name
func CurrentProfile() (string, error) {
	store, err := openStore()
	if err != nil {
		return "", err
	}
	return currentProfile(store)
}

func currentProfile(store Store) (string, error) {
	data, err := store.Get(currentProfileKey)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return defaultProfile, nil
		}
		return "", fmt.Errorf("failed to get current profile: %w", err)
	}
	return string(data), nil
}

// SetCurrentProfile sets the active profile name
func SetCurrentProfile(profile string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	return setCurrentProfile(store, profile)
}

func setCurrentProfile(store Store, profile string) error {
	if profile == "" {
		profile = defaultProfile
	}
	return store.Set(currentProfileKey, []byte(profile))
}
