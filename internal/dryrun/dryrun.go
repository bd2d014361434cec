// Package dryrun previews write requests without sending them.
package dryrun

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strings"
)

type contextKey string

const dryRunKey contextKey = "dry_run_enabled"

// WithDryRun returns a context with dry-run mode enabled/disabled.
func WithDryRun(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, dryRunKey, enabled)
}

// IsEnabled returns true if dry-run mode is enabled.
func IsEnabled(ctx context.Context) bool {
	if v, ok := ctx.Value(dryRunKey).(bool); ok {
		return v
	}
	return false
}

// Preview is a write request that was not sent.
type Preview struct {
	XMLName     xml.Name          `xml:"dry-run" json:"-"`
	Operation   string            `xml:"operation" json:"operation"`
	Method      string            `xml:"method" json:"method"`
	URL         string            `xml:"url" json:"url"`
	ContentType string            `xml:"content-type,omitempty" json:"content_type,omitempty"`
	Body        string            `xml:"body,omitempty" json:"body,omitempty"`
	Details     map[string]string `xml:"-" json:"details,omitempty"`
	Warnings    []string          `xml:"warnings>warning,omitempty" json:"warnings,omitempty"`
}

// Write outputs the preview to the writer
func (p *Preview) Write(w io.Writer) {
	_, _ = fmt.Fprintf(w, "[DRY-RUN] Would %s %s\n", p.Method, p.URL)
	_, _ = fmt.Fprintf(w, "───────────────────────────────────────\n")
	_, _ = fmt.Fprintf(w, "Operation: %s\n", p.Operation)
	if p.ContentType != "" {
		_, _ = fmt.Fprintf(w, "Content-Type: %s\n", p.ContentType)
	}

	if len(p.Details) > 0 {
		keys := make([]string, 0, len(p.Details))
		for k := range p.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			_, _ = fmt.Fprintf(w, "  %s: %s\n", k, p.Details[k])
		}
	}

	if p.Body != "" {
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintln(w, strings.TrimRight(p.Body, "\n"))
	}

	if len(p.Warnings) > 0 {
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintln(w, "Warnings:")
		for _, warning := range p.Warnings {
			_, _ = fmt.Fprintf(w, "  ! %s\n", warning)
		}
	}

	_, _ = fmt.Fprintf(w, "───────────────────────────────────────\n")
	_, _ = fmt.Fprintln(w, "Nothing sent (dry-run mode)")
}
