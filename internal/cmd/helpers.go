package cmd

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/lnkd/linkedin-cli/internal/api"
	"github.com/lnkd/linkedin-cli/internal/dryrun"
	"github.com/lnkd/linkedin-cli/internal/iocontext"
	"github.com/lnkd/linkedin-cli/internal/outfmt"
)

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func newFormatter(cmd *cobra.Command) *outfmt.Formatter {
	streams := iocontext.GetIO(cmdContext(cmd))
	return outfmt.NewFormatter(cmdContext(cmd), streams.Out, streams.ErrOut)
}

// printIfNotQuiet writes an informational line to stderr.
func printIfNotQuiet(cmd *cobra.Command, format string, args ...any) {
	if flags.Quiet {
		return
	}
	_, _ = fmt.Fprintf(iocontext.GetIO(cmdContext(cmd)).ErrOut, format, args...)
}

// printResult renders a read result. Error responses become *api.APIError.
// XML output passes the document through; JSON output converts it; text
// output decodes into v and hands it to render.
func printResult[T any](cmd *cobra.Command, res *api.Result, render func(f *outfmt.Formatter, v *T) error) error {
	if err := res.Err(); err != nil {
		return err
	}
	f := newFormatter(cmd)
	switch outfmt.ModeFromContext(cmdContext(cmd)) {
	case outfmt.XML:
		return f.Output(res)
	case outfmt.JSON:
		m, err := res.Map()
		if err != nil {
			return err
		}
		return f.Output(m)
	}

	var v T
	if err := res.Decode(&v); err != nil {
		return err
	}
	return render(f, &v)
}

// writeOutcome reports the boolean outcome of a write. A false outcome is
// an error so the exit status reflects it.
type writeOutcome struct {
	XMLName   xml.Name `xml:"result" json:"-"`
	Operation string   `xml:"operation" json:"operation"`
	Accepted  bool     `xml:"accepted" json:"accepted"`
}

func printWriteOutcome(cmd *cobra.Command, op string, accepted bool, done string) error {
	f := newFormatter(cmd)
	if outfmt.IsStructured(cmdContext(cmd)) {
		if err := f.Output(writeOutcome{Operation: op, Accepted: accepted}); err != nil {
			return err
		}
	} else if accepted {
		printIfNotQuiet(cmd, "%s\n", done)
	}
	if !accepted {
		return api.NewStructuredError(api.ErrWriteNotAccepted, fmt.Sprintf("LinkedIn did not accept the %s (rerun with --debug for the response)", op))
	}
	return nil
}

// flagAlias registers a hidden alias for an existing flag. Both flags share
// one Value; setting the alias marks the canonical flag as changed.
func flagAlias(fs *pflag.FlagSet, name, alias string) {
	f := fs.Lookup(name)
	if f == nil {
		panic(fmt.Sprintf("flagAlias: flag %q not found", name))
	}
	a := *f
	a.Name = alias
	a.Shorthand = ""
	a.Usage = ""
	a.Hidden = true
	a.Value = &aliasValue{Value: f.Value, canonical: f}
	a.Annotations = map[string][]string{"alias-of": {name}}
	fs.AddFlag(&a)
}

type aliasValue struct {
	pflag.Value
	canonical *pflag.Flag
}

func (v *aliasValue) Set(s string) error {
	if err := v.Value.Set(s); err != nil {
		return err
	}
	v.canonical.Changed = true
	return nil
}

// flagOrAliasChanged reports whether name was set directly or through one
// of its aliases.
func flagOrAliasChanged(cmd *cobra.Command, name string) bool {
	return cmd.Flags().Changed(name) || cmd.InheritedFlags().Changed(name)
}

// errAlreadyHandled marks an error whose message was already printed.
var errAlreadyHandled = errors.New("error already handled")

type handledError struct {
	err      error
	exitCode int
}

func (e *handledError) Error() string {
	return e.err.Error()
}

func (e *handledError) Unwrap() error {
	return errAlreadyHandled
}

// groupCmd makes a parent command reject unknown subcommands instead of
// silently printing its help.
func groupCmd(cmd *cobra.Command) *cobra.Command {
	cmd.Args = cobra.ArbitraryArgs
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 {
			return fmt.Errorf("unknown command %q for %q", args[0], cmd.CommandPath())
		}
		return cmd.Help()
	}
	return cmd
}

// maybeDryRun previews d instead of sending it when --dry-run is set. It
// reports whether the preview replaced the write.
func maybeDryRun(cmd *cobra.Command, client *api.Client, d api.Draft, details map[string]string, warnings ...string) (bool, error) {
	ctx := cmdContext(cmd)
	if !dryrun.IsEnabled(ctx) {
		return false, nil
	}
	u, err := client.URL(d)
	if err != nil {
		return true, err
	}
	preview := &dryrun.Preview{
		Operation:   d.Operation,
		Method:      d.Method,
		URL:         u,
		ContentType: d.ContentType(),
		Body:        string(d.Body.Data),
		Details:     details,
		Warnings:    warnings,
	}
	if outfmt.IsStructured(ctx) {
		return true, newFormatter(cmd).Output(preview)
	}
	preview.Write(iocontext.GetIO(ctx).Out)
	return true, nil
}
