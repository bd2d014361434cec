package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/lnkd/linkedin-cli/internal/api"
	"github.com/lnkd/linkedin-cli/internal/cache"
	"github.com/lnkd/linkedin-cli/internal/debug"
	"github.com/lnkd/linkedin-cli/internal/resolve"
)

const (
	// connectionPageSize is the largest page the connections call serves.
	connectionPageSize = 500
	maxConnectionPages = 20
)

func resolveCacheDir() string {
	dir, err := cache.Dir()
	if err != nil {
		return ""
	}
	return dir
}

// resolveMemberNames maps connection names to member ids. Names are
// fuzzy-matched against the member's connections, which are cached per
// profile. A cached list that cannot satisfy every name is refreshed once.
func resolveMemberNames(ctx context.Context, s *session, names []string) ([]string, error) {
	if len(names) == 0 {
		return nil, nil
	}

	store := connectionStore(s)
	if store != nil {
		var members []resolve.Named
		if store.Get(&members) {
			if ids, err := matchMembers(names, members); err == nil {
				return ids, nil
			}
			if debug.IsEnabled(ctx) {
				slog.Debug("cached connections did not match, refreshing", "names", names)
			}
		}
	}

	members, err := listConnections(ctx, s)
	if err != nil {
		return nil, fmt.Errorf("failed to list connections: %w", err)
	}
	if store != nil {
		store.Put(members)
	}
	return matchMembers(names, members)
}

// connectionStore is the session's cached connection directory, or nil
// when no cache directory is available.
func connectionStore(s *session) *cache.Store {
	dir := resolveCacheDir()
	if dir == "" {
		return nil
	}
	return cache.NewStore(dir, "connections", s.BaseURL(), s.profile)
}

// listConnections pages through the member's connections.
func listConnections(ctx context.Context, s *session) ([]resolve.Named, error) {
	var members []resolve.Named
	seen := make(map[string]bool)
	for page, start := 0, 0; page < maxConnectionPages; page++ {
		params := url.Values{
			"start": {strconv.Itoa(start)},
			"count": {strconv.Itoa(connectionPageSize)},
		}
		res, err := s.Connections(ctx, nil, params)
		if err != nil {
			return nil, err
		}
		if err := res.Err(); err != nil {
			return nil, err
		}
		var c api.Connections
		if err := res.Decode(&c); err != nil {
			return nil, err
		}
		for _, p := range c.People {
			// Out-of-network members come back as "private" without an id.
			if p.ID == "" || p.ID == "private" || seen[p.ID] {
				continue
			}
			seen[p.ID] = true
			members = append(members, resolve.Named{ID: p.ID, Name: p.Name()})
		}
		start += len(c.People)
		if len(c.People) == 0 || start >= c.Total {
			break
		}
	}
	return members, nil
}

func matchMembers(names []string, members []resolve.Named) ([]string, error) {
	ids := make([]string, 0, len(names))
	for _, name := range names {
		id, err := matchMember(name, members)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func matchMember(name string, members []resolve.Named) (string, error) {
	id, err := resolve.FuzzyMatch(name, members)
	if err == nil {
		return id, nil
	}

	var ae *resolve.AmbiguousError
	if errors.As(err, &ae) {
		return "", &api.ArgumentError{
			Arg:    "--to-name",
			Reason: fmt.Sprintf("multiple connections match %q, use --to with an id:\n%s", name, formatMatches(ae.Matches)),
		}
	}
	if errors.Is(err, resolve.ErrEmptyItems) {
		return "", &api.ArgumentError{Arg: "--to-name", Reason: "you have no connections to match against"}
	}

	reason := fmt.Sprintf("no connection matches %q", name)
	if matches := resolve.FuzzyMatchAll(name, members, 5); len(matches) > 0 {
		reason += ", best matches:\n" + formatMatches(matches)
	}
	return "", &api.ArgumentError{Arg: "--to-name", Reason: reason}
}

func formatMatches(matches []resolve.Match) string {
	lines := make([]string, len(matches))
	for i, m := range matches {
		lines[i] = fmt.Sprintf("  %s: %s", m.ID, m.Name)
	}
	return strings.Join(lines, "\n")
}
