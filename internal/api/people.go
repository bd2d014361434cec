package api

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// ProfileFields is the field selector used for extended profile fetches.
var ProfileFields = []string{
	"first-name", "last-name", "interests", "positions", "phone-numbers",
	"num-recommenders", "recommendations-received", "honors", "associations",
	"specialties", "connections", "twitter-accounts", "im-accounts",
	"headline", "summary", "current-status", "picture-url", "date-of-birth",
	"public-profile-url",
}

// SearchKeys is the set of people-search parameters forwarded to the API.
var SearchKeys = []string{
	"keywords", "first-name", "last-name", "company-name", "current-company",
	"title", "school", "current-school", "country-code", "postal-code",
	"distance", "start", "count", "facet", "facets", "sort",
}

var searchKeySet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(SearchKeys))
	for _, k := range SearchKeys {
		m[k] = struct{}{}
	}
	return m
}()

func peoplePath(user any, suffix string) string {
	return fmt.Sprintf("/v1/people/%s%s", ResolveUserParam(user), suffix)
}

// Profile fetches a member profile. user is anything ResolveUserParam
// accepts; nil means the authenticated member. extended selects the
// ProfileFields field set.
func (c *Client) Profile(ctx context.Context, user any, extended bool) (*Result, error) {
	path := peoplePath(user, "")
	if extended {
		path += ":(" + strings.Join(ProfileFields, ",") + ")"
	}
	resp, err := c.get(ctx, path, nil)
	if err != nil {
		return nil, err
	}
	return newResult(resp), nil
}

// Connections fetches a member's connections.
func (c *Client) Connections(ctx context.Context, user any, params url.Values) (*Result, error) {
	resp, err := c.get(ctx, peoplePath(user, "/connections"), params)
	if err != nil {
		return nil, err
	}
	return newResult(resp), nil
}

// NetworkActivities fetches the latest network updates (status and profile
// changes) for a member.
func (c *Client) NetworkActivities(ctx context.Context, user any, params url.Values) (*Result, error) {
	resp, err := c.get(ctx, peoplePath(user, "/network/updates"), params)
	if err != nil {
		return nil, err
	}
	return newResult(resp), nil
}

// Search runs a people search. Keys outside SearchKeys are dropped.
func (c *Client) Search(ctx context.Context, params map[string]string) (*Result, error) {
	resp, err := c.get(ctx, "/v1/people-search", FilterSearchParams(params))
	if err != nil {
		return nil, err
	}
	return newResult(resp), nil
}

// FilterSearchParams keeps the allowed search keys. Values are encoded
// once when the query string is built.
func FilterSearchParams(params map[string]string) url.Values {
	keys := make([]string, 0, len(params))
	for k := range params {
		if _, ok := searchKeySet[k]; ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	out := make(url.Values, len(keys))
	for _, k := range keys {
		out.Set(k, params[k])
	}
	return out
}
