// Package iocontext carries the command's I/O streams through a context so
// commands and tests can redirect them.
package iocontext

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

// IO holds the input/output streams for commands.
type IO struct {
	Out    io.Writer
	ErrOut io.Writer
	In     io.Reader
}

// DefaultIO returns the process streams.
func DefaultIO() *IO {
	return &IO{
		Out:    os.Stdout,
		ErrOut: os.Stderr,
		In:     os.Stdin,
	}
}

// Quieted returns a copy whose stderr is discarded. Structured output keeps
// stdout; text output loses it too when all is set.
func (s *IO) Quieted(all bool) *IO {
	out := *s
	out.ErrOut = io.Discard
	if all {
		out.Out = io.Discard
	}
	return &out
}

type ioKey struct{}

// WithIO adds IO streams to a context.
func WithIO(ctx context.Context, streams *IO) context.Context {
	return context.WithValue(ctx, ioKey{}, streams)
}

// GetIO retrieves IO streams from ctx, falling back to DefaultIO.
func GetIO(ctx context.Context) *IO {
	if streams, ok := ctx.Value(ioKey{}).(*IO); ok && streams != nil {
		return streams
	}
	return DefaultIO()
}

// ReadArg resolves a text argument: "-" reads all of stdin, "@path" reads
// a file and anything else is returned as given. Trailing newlines from
// files and stdin are dropped.
func ReadArg(ctx context.Context, value string) (string, error) {
	switch {
	case value == "-":
		data, err := io.ReadAll(GetIO(ctx).In)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return strings.TrimRight(string(data), "\r\n"), nil
	case strings.HasPrefix(value, "@") && len(value) > 1:
		data, err := os.ReadFile(value[1:])
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", value[1:], err)
		}
		return strings.TrimRight(string(data), "\r\n"), nil
	default:
		return value, nil
	}
}
