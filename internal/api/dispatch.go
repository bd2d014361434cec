package api

import (
	"context"
	"log/slog"
	"sort"

	"github.com/sahilm/fuzzy"
	"golang.org/x/oauth2"

	"github.com/lnkd/linkedin-cli/internal/debug"
)

// OpIsAuthenticated is the one operation the client answers itself.
const OpIsAuthenticated = "isAuthenticated"

// Call forwards name to the delegate's operation table. When the delegate
// returns an access token the client rebinds to an authenticated transport
// before handing the result back unchanged. Names the delegate does not
// know fall back to the client's own table; anything else is an
// *UnknownOperationError.
func (c *Client) Call(ctx context.Context, name string, args ...string) (any, error) {
	if op, ok := c.delegate.Operation(name); ok {
		result, err := op(c.oauthContext(ctx), args...)
		if err != nil {
			return result, err
		}
		if tok, ok := result.(*oauth2.Token); ok && tok != nil {
			c.Authenticate(ctx, tok)
		}
		if debug.IsEnabled(ctx) {
			slog.Debug("delegate call", "operation", name, "state", c.State())
		}
		return result, nil
	}

	if op, ok := c.ownOperations()[name]; ok {
		return op(ctx, args...)
	}

	return nil, &UnknownOperationError{Name: name, Suggestions: c.suggestOperations(name)}
}

// Supports reports whether Call can dispatch name.
func (c *Client) Supports(name string) bool {
	if _, ok := c.delegate.Operation(name); ok {
		return true
	}
	_, ok := c.ownOperations()[name]
	return ok
}

// Operations lists every dispatchable name when the delegate can
// enumerate its table.
func (c *Client) Operations() []string {
	var names []string
	if l, ok := c.delegate.(operationLister); ok {
		names = append(names, l.Operations()...)
	}
	for name := range c.ownOperations() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (c *Client) ownOperations() map[string]Operation {
	return map[string]Operation{
		OpIsAuthenticated: func(context.Context, ...string) (any, error) {
			return c.IsAuthenticated(), nil
		},
	}
}

type operationNames []string

func (n operationNames) String(i int) string { return n[i] }
func (n operationNames) Len() int            { return len(n) }

// suggestOperations returns up to three close names, best first.
func (c *Client) suggestOperations(name string) []string {
	if name == "" {
		return nil
	}
	names := operationNames(c.Operations())
	matches := fuzzy.FindFrom(name, names)
	var out []string
	for _, m := range matches {
		out = append(out, names[m.Index])
		if len(out) == 3 {
			break
		}
	}
	return out
}
