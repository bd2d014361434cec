// Package urlparse recognizes LinkedIn member profile URLs.
package urlparse

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// Profile URL kinds.
const (
	KindPublic = "in"  // /in/{slug}
	KindLegacy = "pub" // /pub/{name}/{a}/{b}/{c}
	KindMember = "id"  // /profile/view?id={member id}
)

// ProfileURL is a parsed member profile URL.
type ProfileURL struct {
	// URL is the canonical public profile URL. It is empty for KindMember.
	URL      string
	Kind     string
	Slug     string
	MemberID string
}

var (
	publicPattern   = regexp.MustCompile(`^/in/([^/]+)(?:/.*)?$`)
	legacyPattern   = regexp.MustCompile(`^/pub/[^/]+(?:/[^/]+){0,3}/?$`)
	memberIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
)

// LooksLikeURL reports whether s is meant as a profile URL rather than a
// member id.
func LooksLikeURL(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.HasPrefix(s, "http://") ||
		strings.HasPrefix(s, "https://") ||
		strings.Contains(s, "linkedin.com/")
}

// Parse extracts the member reference from a LinkedIn profile URL. A
// missing scheme defaults to https. Query strings, fragments and locale
// suffixes are dropped from public profile URLs.
func Parse(rawURL string) (*ProfileURL, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, fmt.Errorf("URL cannot be empty")
	}
	if !strings.Contains(rawURL, "://") {
		rawURL = "https://" + rawURL
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("invalid URL scheme %q: expected http or https", parsed.Scheme)
	}
	host := strings.ToLower(parsed.Hostname())
	if host != "linkedin.com" && !strings.HasSuffix(host, ".linkedin.com") {
		return nil, fmt.Errorf("not a LinkedIn URL: host %q", parsed.Hostname())
	}
	base := parsed.Scheme + "://" + host

	switch {
	case publicPattern.MatchString(parsed.Path):
		slug := publicPattern.FindStringSubmatch(parsed.Path)[1]
		return &ProfileURL{URL: base + "/in/" + slug, Kind: KindPublic, Slug: slug}, nil

	case legacyPattern.MatchString(parsed.Path):
		path := strings.TrimSuffix(parsed.Path, "/")
		return &ProfileURL{URL: base + path, Kind: KindLegacy, Slug: strings.Split(path, "/")[2]}, nil

	case strings.TrimSuffix(parsed.Path, "/") == "/profile/view":
		id := parsed.Query().Get("id")
		if !memberIDPattern.MatchString(id) {
			return nil, fmt.Errorf("profile URL has no valid member id")
		}
		return &ProfileURL{Kind: KindMember, MemberID: id}, nil
	}

	return nil, fmt.Errorf("not a LinkedIn profile URL: expected /in/{name}, /pub/... or /profile/view?id=...")
}
