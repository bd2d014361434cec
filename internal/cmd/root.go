package cmd

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/lnkd/linkedin-cli/internal/api"
	"github.com/lnkd/linkedin-cli/internal/config"
	"github.com/lnkd/linkedin-cli/internal/debug"
	"github.com/lnkd/linkedin-cli/internal/dryrun"
	"github.com/lnkd/linkedin-cli/internal/iocontext"
	"github.com/lnkd/linkedin-cli/internal/outfmt"
	"github.com/lnkd/linkedin-cli/internal/validation"
)

// rootFlags holds global CLI flags
type rootFlags struct {
	Output       string
	Query        string
	Template     string
	Compact      bool
	Debug        bool
	LogJSON      bool
	Quiet        bool
	DryRun       bool
	AllowPrivate bool
	Profile      string
	EnvFile      string
	Timeout      time.Duration
}

// flags holds the global command flags. This is package-level mutable state
// that MUST be reset at the start of every Execute() call; tests run many
// commands in one process.
var flags = defaultFlags()

func defaultFlags() rootFlags {
	return rootFlags{
		Output:       defaultOutput(),
		AllowPrivate: parseBoolEnv("LI_ALLOW_PRIVATE"),
		Timeout:      api.DefaultTimeout,
	}
}

func defaultOutput() string {
	if value := strings.TrimSpace(os.Getenv("LI_OUTPUT")); value != "" {
		return value
	}
	return "text"
}

func parseBoolEnv(key string) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	return err == nil && v
}

//go:embed help.txt
var helpText string

// Execute runs the root command
func Execute(ctx context.Context, args []string) error {
	flags = defaultFlags()

	root := &cobra.Command{
		Use:                "li",
		Short:              "CLI for the LinkedIn REST API",
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			// The env file feeds LINKEDIN_* defaults, so it loads before
			// anything reads them.
			if err := config.LoadEnvFile(flags.EnvFile); err != nil {
				return err
			}

			if flags.Query != "" || flags.Template != "" {
				if flagOrAliasChanged(cmd, "output") && flags.Output != "json" {
					return fmt.Errorf("--query and --template require --output json")
				}
				flags.Output = "json"
			}
			mode, err := outfmt.Parse(strings.TrimSpace(flags.Output))
			if err != nil {
				return err
			}
			ctx = outfmt.WithMode(ctx, mode)
			ctx = outfmt.WithCompact(ctx, flags.Compact)
			if flags.Query != "" {
				ctx = outfmt.WithQuery(ctx, flags.Query)
			}
			if flags.Template != "" {
				tmpl, err := iocontext.ReadArg(ctx, flags.Template)
				if err != nil {
					return err
				}
				ctx = outfmt.WithTemplate(ctx, tmpl)
			}

			streams := iocontext.GetIO(ctx)
			if flags.Quiet {
				streams = streams.Quieted(mode == outfmt.Text)
			}
			ctx = iocontext.WithIO(ctx, streams)
			cmd.SetOut(streams.Out)
			cmd.SetErr(streams.ErrOut)

			allowPrivate := flags.AllowPrivate || parseBoolEnv("LI_ALLOW_PRIVATE")
			validation.SetAllowPrivate(allowPrivate)
			if allowPrivate && !flags.Quiet {
				_, _ = fmt.Fprintln(streams.ErrOut, "Warning: allowing private/localhost URLs (use only with trusted targets).")
			}

			debug.SetupLoggerTo(streams.ErrOut, flags.Debug, flags.LogJSON)
			ctx = debug.WithDebug(ctx, flags.Debug)
			ctx = dryrun.WithDryRun(ctx, flags.DryRun)

			cmd.SetContext(ctx)
			return nil
		},
	}

	root.SetContext(ctx)
	root.SetArgs(args)
	streams := iocontext.GetIO(ctx)
	root.SetOut(streams.Out)
	root.SetErr(streams.ErrOut)
	root.SetIn(streams.In)
	defaultHelp := root.HelpFunc()
	root.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if cmd == root {
			_, _ = fmt.Fprint(cmd.OutOrStdout(), helpText)
			return
		}
		defaultHelp(cmd, args)
	})

	pf := root.PersistentFlags()
	pf.StringVarP(&flags.Output, "output", "o", flags.Output, "Output format: text|json|xml (env LI_OUTPUT)")
	pf.StringVarP(&flags.Query, "query", "q", "", "JQ expression to filter JSON output")
	pf.StringVar(&flags.Template, "template", "", "Go template string (or @path) to render JSON output")
	pf.BoolVar(&flags.Compact, "compact-json", false, "Compact JSON output (no indentation)")
	pf.BoolVar(&flags.Debug, "debug", false, "Enable debug logging")
	pf.BoolVar(&flags.LogJSON, "log-json", false, "Write debug logs as JSON lines")
	pf.BoolVarP(&flags.Quiet, "quiet", "Q", false, "Suppress non-essential output")
	pf.BoolVar(&flags.DryRun, "dry-run", false, "Preview write requests without sending them")
	pf.BoolVar(&flags.AllowPrivate, "allow-private", flags.AllowPrivate, "Allow private/localhost base URLs (unsafe)")
	pf.StringVar(&flags.Profile, "profile", "", "Credential profile (env LINKEDIN_PROFILE)")
	pf.StringVar(&flags.EnvFile, "env-file", "", "Load LINKEDIN_* variables from this file")
	pf.DurationVar(&flags.Timeout, "timeout", flags.Timeout, "HTTP request timeout (e.g., 30s, 2m)")

	flagAlias(pf, "output", "out")
	flagAlias(pf, "query", "jq")
	flagAlias(pf, "template", "tpl")
	flagAlias(pf, "compact-json", "cj")
	flagAlias(pf, "debug", "dbg")
	flagAlias(pf, "dry-run", "dr")
	flagAlias(pf, "timeout", "to")

	root.AddCommand(newAuthCmd())
	root.AddCommand(newProfileCmd())
	root.AddCommand(newConnectionsCmd())
	root.AddCommand(newSearchCmd())
	root.AddCommand(newMessageCmd())
	root.AddCommand(newNetworkCmd())
	root.AddCommand(newStatusCmd())
	root.AddCommand(newOAuthCmd())
	root.AddCommand(newAPICmd())
	root.AddCommand(newCacheCmd())
	root.AddCommand(newVersionCmd())

	targetCmd, err := root.ExecuteC()
	if err != nil {
		if !errors.Is(err, errAlreadyHandled) {
			_, _ = fmt.Fprint(root.ErrOrStderr(), enhanceUnknownError(err, root, targetCmd))
		}
		return err
	}
	return nil
}

// enhanceUnknownError renders err for stderr, adding "did you mean?"
// suggestions to unknown command and flag errors.
func enhanceUnknownError(err error, root, targetCmd *cobra.Command) string {
	msg := err.Error()

	if strings.Contains(msg, "unknown command") {
		if unknown := extractQuoted(msg); unknown != "" {
			parent := root
			if targetCmd != nil {
				parent = targetCmd
			}
			var names []string
			for _, c := range parent.Commands() {
				if c.IsAvailableCommand() {
					names = append(names, c.Name())
					names = append(names, c.Aliases...)
				}
			}
			if suggestion := suggestCommand(unknown, names); suggestion != "" {
				return fmt.Sprintf("%s\n\nDid you mean %q?\n", msg, suggestion)
			}
		}
		return msg + "\n"
	}

	if strings.Contains(msg, "unknown flag") || strings.Contains(msg, "unknown shorthand flag") {
		if unknown := extractFlag(msg); unknown != "" {
			target := root
			if targetCmd != nil {
				target = targetCmd
			}
			seen := make(map[string]bool)
			var names []string
			collect := func(fs *pflag.FlagSet) {
				fs.VisitAll(func(f *pflag.Flag) {
					if f.Hidden || seen[f.Name] {
						return
					}
					seen[f.Name] = true
					names = append(names, "--"+f.Name)
				})
			}
			collect(target.Flags())
			collect(target.InheritedFlags())
			helpCmd := strings.TrimSpace(target.CommandPath()) + " --help"
			if suggestion := suggestFlag(unknown, names); suggestion != "" {
				return fmt.Sprintf("%s\n\nDid you mean %q?\nRun %q to see supported flags.\n", msg, suggestion, helpCmd)
			}
			return fmt.Sprintf("%s\n\nRun %q to see supported flags.\n", msg, helpCmd)
		}
	}

	return HandleError(err)
}

// extractQuoted extracts the first double-quoted substring from s.
func extractQuoted(s string) string {
	start := strings.IndexByte(s, '"')
	if start < 0 {
		return ""
	}
	end := strings.IndexByte(s[start+1:], '"')
	if end < 0 {
		return ""
	}
	return s[start+1 : start+1+end]
}

// extractFlag extracts a flag name ("--foo" or "-f") from a pflag error.
func extractFlag(s string) string {
	if idx := strings.Index(s, "--"); idx >= 0 {
		rest := s[idx:]
		if end := strings.IndexAny(rest, " =\n"); end >= 0 {
			rest = rest[:end]
		}
		return rest
	}
	if idx := strings.LastIndex(s, " -"); idx >= 0 {
		rest := strings.TrimSpace(s[idx+1:])
		if end := strings.IndexByte(rest, ' '); end >= 0 {
			rest = rest[:end]
		}
		return rest
	}
	return ""
}
