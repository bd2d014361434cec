package outfmt

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"text/tabwriter"
)

// RawXML is implemented by values that carry the XML document they were
// decoded from. XML output writes that document unchanged.
type RawXML interface {
	Body() []byte
}

// Formatter handles output formatting for commands.
type Formatter struct {
	ctx       context.Context
	out       io.Writer
	errOut    io.Writer
	tabWriter *tabwriter.Writer
}

// NewFormatter creates a new Formatter
func NewFormatter(ctx context.Context, out, errOut io.Writer) *Formatter {
	return &Formatter{
		ctx:       ctx,
		out:       out,
		errOut:    errOut,
		tabWriter: tabwriter.NewWriter(out, 0, 4, 2, ' ', 0),
	}
}

// Output writes data in the context's structured mode. In text mode it
// writes nothing and the caller renders a table.
func (f *Formatter) Output(data any) error {
	switch ModeFromContext(f.ctx) {
	case JSON:
		query := GetQuery(f.ctx)
		if tmpl := GetTemplate(f.ctx); tmpl != "" {
			filtered, err := ApplyQuery(data, query)
			if err != nil {
				return err
			}
			return WriteTemplate(f.out, filtered, tmpl)
		}
		return WriteJSONFiltered(f.out, data, query, IsCompact(f.ctx))
	case XML:
		return WriteXML(f.out, data)
	}
	return nil
}

// WriteXML writes raw documents as received and marshals anything else.
func WriteXML(w io.Writer, data any) error {
	if raw, ok := data.(RawXML); ok {
		body := raw.Body()
		if _, err := w.Write(body); err != nil {
			return err
		}
		if len(body) > 0 && body[len(body)-1] != '\n' {
			_, err := io.WriteString(w, "\n")
			return err
		}
		return nil
	}
	out, err := xml.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode XML output: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s\n", out)
	return err
}

// StartTable writes table headers. Returns true if in text mode.
func (f *Formatter) StartTable(headers []string) bool {
	if IsStructured(f.ctx) {
		return false
	}
	f.Row(headers...)
	return true
}

// Row writes a single row to the table.
func (f *Formatter) Row(columns ...string) {
	for i, col := range columns {
		if i > 0 {
			_, _ = fmt.Fprint(f.tabWriter, "\t")
		}
		_, _ = fmt.Fprint(f.tabWriter, col)
	}
	_, _ = fmt.Fprintln(f.tabWriter)
}

// EndTable flushes the table output.
func (f *Formatter) EndTable() error {
	return f.tabWriter.Flush()
}

// Empty writes a message to stderr indicating no results.
func (f *Formatter) Empty(message string) {
	_, _ = fmt.Fprintln(f.errOut, message)
}
