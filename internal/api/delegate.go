package api

import (
	"context"
	"net/http"

	"golang.org/x/oauth2"
)

// Operation is a forwardable delegate call. Arguments are positional
// strings; the result is returned to the caller unchanged.
type Operation = func(ctx context.Context, args ...string) (any, error)

// Delegate is the OAuth capability the client is built on. It derives
// authenticated transports and exposes a fixed table of operations
// (request-token acquisition, authorization URLs, token exchange, ...)
// that Client.Call forwards to.
type Delegate interface {
	// HTTPClient derives an authenticated transport for tok.
	HTTPClient(ctx context.Context, tok *oauth2.Token) *http.Client
	// Operation looks up name in the delegate's forwarding table.
	Operation(name string) (Operation, bool)
}

// operationLister is implemented by delegates that can enumerate their
// table; it feeds unknown-operation suggestions.
type operationLister interface {
	Operations() []string
}
